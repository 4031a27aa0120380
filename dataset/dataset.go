// Copyright 2026 gopilot Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package dataset loads recorded driving sessions into an ordered record
// collection and splits it into training and validation sets.
package dataset

import (
	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/gopilot-io/gopilot/base"
	"github.com/gopilot-io/gopilot/base/log"
	"github.com/gopilot-io/gopilot/config"
	"github.com/gopilot-io/gopilot/tub"
)

// splitSeed makes shuffled splits reproducible across runs.
const splitSeed = 0

// Dataset is an ordered collection of records loaded from one or more tub
// directories. Records rejected by the configured train filter are never
// visible downstream.
type Dataset struct {
	config  *config.Config
	records []*tub.Record
	shuffle bool
}

// LoadDataset loads all records from the given tub directories, keeping only
// those accepted by cfg.TrainFilter. A filter evaluation error aborts the
// load, it never silently drops the record.
func LoadDataset(cfg *config.Config, tubDirs []string, shuffle bool) (*Dataset, error) {
	d := &Dataset{config: cfg, shuffle: shuffle}
	total := 0
	for _, dir := range tubDirs {
		t, err := tub.Open(dir)
		if err != nil {
			return nil, errors.Trace(err)
		}
		total += t.Len()
		for _, record := range t.Records {
			if cfg.TrainFilter != nil {
				ok, err := cfg.TrainFilter.Evaluate(record)
				if err != nil {
					return nil, errors.Annotatef(err, "failed to evaluate train filter on record %d", record.Index)
				}
				if !ok {
					continue
				}
			}
			d.records = append(d.records, record)
		}
	}
	log.Logger().Info("loaded dataset",
		zap.Strings("tub_dirs", tubDirs),
		zap.Int("num_records", total),
		zap.Int("num_filtered", len(d.records)))
	return d, nil
}

// Records returns all records in load order.
func (d *Dataset) Records() []*tub.Record {
	return d.records
}

func (d *Dataset) Len() int {
	return len(d.records)
}

// TrainTestSplit partitions the dataset into training and validation records.
// The training set holds floor(ratio*n) records. Without shuffling the split
// preserves load order: the training set is the leading fraction and
// concatenating both sets reconstructs the dataset exactly.
func (d *Dataset) TrainTestSplit() (trainRecords, validateRecords []*tub.Record) {
	n := len(d.records)
	trainSize := int(d.config.Train.TrainTestSplit * float64(n))
	if !d.shuffle {
		return d.records[:trainSize], d.records[trainSize:]
	}
	rng := base.NewRandomGenerator(splitSeed)
	perm := rng.Perm(n)
	trainRecords = make([]*tub.Record, 0, trainSize)
	validateRecords = make([]*tub.Record, 0, n-trainSize)
	for i, index := range perm {
		if i < trainSize {
			trainRecords = append(trainRecords, d.records[index])
		} else {
			validateRecords = append(validateRecords, d.records[index])
		}
	}
	return
}
