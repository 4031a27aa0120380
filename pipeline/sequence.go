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

// Package pipeline turns filtered records into training batches by applying a
// pilot's transforms per record and stacking the results into aligned input
// and output dictionaries.
package pipeline

import (
	"fmt"

	"github.com/juju/errors"
	"github.com/samber/lo"

	"github.com/gopilot-io/gopilot/base"
	"github.com/gopilot-io/gopilot/common/tensor"
	"github.com/gopilot-io/gopilot/config"
	"github.com/gopilot-io/gopilot/pilot"
	"github.com/gopilot-io/gopilot/tub"
)

// Batch is a fixed-size group of records materialized into aligned input and
// output dictionaries. Every tensor's leading dimension equals the batch size.
type Batch struct {
	X map[string]*tensor.Tensor
	Y map[string]*tensor.Tensor
}

// ShapeMismatchError reports a transform output whose shape disagrees with
// the pilot's declared schema. It indicates a model/data contract violation
// and is never silently coerced.
type ShapeMismatchError struct {
	Key  string
	Got  []int
	Want []int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("shape mismatch for field %q: got %v, want %v", e.Key, e.Got, e.Want)
}

// BatchSequence produces a lazy, restartable sequence of whole batches from a
// record sequence. Records beyond the last whole batch are dropped. Without
// shuffling, batch i holds records[i*batchSize : (i+1)*batchSize] in order.
type BatchSequence struct {
	pilot   pilot.Pilot
	config  *config.Config
	records []*tub.Record
	shuffle bool
	rng     base.RandomGenerator
}

// NewBatchSequence creates a batch sequence. When shuffle is set, every
// iterator visits the records in a fresh permutation drawn from seed.
func NewBatchSequence(p pilot.Pilot, cfg *config.Config, records []*tub.Record, shuffle bool, seed int64) *BatchSequence {
	return &BatchSequence{
		pilot:   p,
		config:  cfg,
		records: records,
		shuffle: shuffle,
		rng:     base.NewRandomGenerator(seed),
	}
}

// Len returns the number of whole batches.
func (s *BatchSequence) Len() int {
	return len(s.records) / s.config.Train.BatchSize
}

// Iterator starts a new pass over the sequence.
func (s *BatchSequence) Iterator() *Iterator {
	order := make([]int, len(s.records))
	if s.shuffle {
		copy(order, s.rng.Perm(len(s.records)))
	} else {
		for i := range order {
			order[i] = i
		}
	}
	return &Iterator{seq: s, order: order}
}

// Collect materializes all whole batches of one pass.
func (s *BatchSequence) Collect() ([]*Batch, error) {
	batches := make([]*Batch, 0, s.Len())
	it := s.Iterator()
	for it.Next() {
		batches = append(batches, it.Batch())
	}
	if err := it.Err(); err != nil {
		return nil, errors.Trace(err)
	}
	return batches, nil
}

// Iterator is a single pass over a BatchSequence, in the style of
// bufio.Scanner.
type Iterator struct {
	seq   *BatchSequence
	order []int
	pos   int
	batch *Batch
	err   error
}

// Next advances to the next whole batch. It returns false at the end of the
// sequence or on the first error, which is then available via Err.
func (it *Iterator) Next() bool {
	if it.err != nil {
		return false
	}
	batchSize := it.seq.config.Train.BatchSize
	if it.pos+batchSize > len(it.order) {
		return false
	}
	group := make([]*tub.Record, batchSize)
	for i := 0; i < batchSize; i++ {
		group[i] = it.seq.records[it.order[it.pos+i]]
	}
	it.batch, it.err = it.seq.buildBatch(group)
	if it.err != nil {
		return false
	}
	it.pos += batchSize
	return true
}

// Batch returns the batch produced by the last successful Next.
func (it *Iterator) Batch() *Batch {
	return it.batch
}

// Err returns the first error encountered during iteration.
func (it *Iterator) Err() error {
	return it.err
}

func (s *BatchSequence) buildBatch(group []*tub.Record) (*Batch, error) {
	inputSchema, outputSchema := s.pilot.OutputSchema()
	xValues := make(map[string][]*tensor.Tensor, len(inputSchema))
	yValues := make(map[string][]*tensor.Tensor, len(outputSchema))
	for _, record := range group {
		img, err := s.pilot.TransformInput(record)
		if err != nil {
			return nil, errors.Trace(err)
		}
		x := s.pilot.TranslateInput(tensor.NormalizeImage(img))
		if err = appendFields(xValues, x, inputSchema); err != nil {
			return nil, errors.Trace(err)
		}
		rawY, err := s.pilot.TransformOutput(record)
		if err != nil {
			return nil, errors.Trace(err)
		}
		y, err := s.pilot.TranslateOutput(rawY)
		if err != nil {
			return nil, errors.Trace(err)
		}
		if err = appendFields(yValues, y, outputSchema); err != nil {
			return nil, errors.Trace(err)
		}
	}
	batch := &Batch{
		X: make(map[string]*tensor.Tensor, len(xValues)),
		Y: make(map[string]*tensor.Tensor, len(yValues)),
	}
	var err error
	for key, values := range xValues {
		if batch.X[key], err = tensor.Stack(values); err != nil {
			return nil, errors.Trace(err)
		}
	}
	for key, values := range yValues {
		if batch.Y[key], err = tensor.Stack(values); err != nil {
			return nil, errors.Trace(err)
		}
	}
	return batch, nil
}

// appendFields checks one record's translated fields against the schema and
// collects them for stacking.
func appendFields(collected map[string][]*tensor.Tensor, fields map[string]*tensor.Tensor, schema pilot.Schema) error {
	if len(fields) != len(schema) {
		return errors.NotValidf("translated fields %v, expected schema keys %v", lo.Keys(fields), lo.Keys(schema))
	}
	for key, value := range fields {
		shape, exist := schema[key]
		if !exist {
			return errors.NotValidf("translated field %q missing from schema", key)
		}
		if !tensor.ShapeEqual(value.Shape(), shape) {
			return &ShapeMismatchError{Key: key, Got: value.Shape(), Want: shape}
		}
		collected[key] = append(collected[key], value)
	}
	return nil
}
