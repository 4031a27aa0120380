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

package pipeline

import (
	"runtime"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/juju/errors"
	"github.com/samber/lo"

	"github.com/gopilot-io/gopilot/base/parallel"
	"github.com/gopilot-io/gopilot/common/tensor"
	"github.com/gopilot-io/gopilot/config"
	"github.com/gopilot-io/gopilot/pilot"
	"github.com/gopilot-io/gopilot/tub"
)

// Validate recomputes every whole batch of records independently, record by
// record, and compares it against the batches produced by a BatchSequence.
// Key sets must equal the pilot's declared schema keys exactly and values
// must match within floating-point tolerance. A mismatch means the pipeline
// regressed.
func Validate(p pilot.Pilot, cfg *config.Config, records []*tub.Record) error {
	seq := NewBatchSequence(p, cfg, records, false, 0)
	batches, err := seq.Collect()
	if err != nil {
		return errors.Trace(err)
	}
	inputSchema, outputSchema := p.OutputSchema()
	batchSize := cfg.Train.BatchSize
	// batches are independent, check them in parallel
	return parallel.Parallel(len(batches), runtime.NumCPU(), func(_, i int) error {
		batch := batches[i]
		group := records[i*batchSize : (i+1)*batchSize]
		expectedX := make(map[string][]*tensor.Tensor, len(inputSchema))
		expectedY := make(map[string][]*tensor.Tensor, len(outputSchema))
		for _, record := range group {
			img, err := p.TransformInput(record)
			if err != nil {
				return errors.Trace(err)
			}
			for key, value := range p.TranslateInput(tensor.NormalizeImage(img)) {
				expectedX[key] = append(expectedX[key], value)
			}
			rawY, err := p.TransformOutput(record)
			if err != nil {
				return errors.Trace(err)
			}
			y, err := p.TranslateOutput(rawY)
			if err != nil {
				return errors.Trace(err)
			}
			for key, value := range y {
				expectedY[key] = append(expectedY[key], value)
			}
		}
		if err := compare(batch.X, expectedX, inputSchema, i, "input"); err != nil {
			return errors.Trace(err)
		}
		if err := compare(batch.Y, expectedY, outputSchema, i, "output"); err != nil {
			return errors.Trace(err)
		}
		return nil
	})
}

func compare(produced map[string]*tensor.Tensor, expected map[string][]*tensor.Tensor, schema pilot.Schema, batchIndex int, side string) error {
	producedKeys := mapset.NewSet(lo.Keys(produced)...)
	schemaKeys := mapset.NewSet(lo.Keys(schema)...)
	if !producedKeys.Equal(schemaKeys) {
		return errors.Errorf("batch %d %s keys %v do not match schema keys %v",
			batchIndex, side, producedKeys.ToSlice(), schemaKeys.ToSlice())
	}
	for key, values := range expected {
		want, err := tensor.Stack(values)
		if err != nil {
			return errors.Trace(err)
		}
		if !tensor.AllClose(produced[key], want, tensor.DefaultRTol, tensor.DefaultATol) {
			return errors.Errorf("batch %d %s field %q differs from independently computed values",
				batchIndex, side, key)
		}
	}
	return nil
}
