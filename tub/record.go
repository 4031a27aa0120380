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

package tub

import (
	"path/filepath"

	"github.com/juju/errors"
)

// Well-known record fields.
const (
	FieldImage    = "cam/image_array"
	FieldAngle    = "user/angle"
	FieldThrottle = "user/throttle"
	FieldMode     = "user/mode"
)

// Record is a single timestep of driving data: sensor inputs and control
// outputs keyed by field name. Records are immutable after load.
type Record struct {
	// Index is the sequence index of the record within its tub.
	Index int
	// Underlying maps field names to raw values as decoded from JSON.
	Underlying map[string]any

	dir string
}

// Float returns a numeric field as float32.
func (r *Record) Float(field string) (float32, error) {
	raw, exist := r.Underlying[field]
	if !exist {
		return 0, errors.NotFoundf("field %q in record %d", field, r.Index)
	}
	switch v := raw.(type) {
	case float64:
		return float32(v), nil
	case float32:
		return v, nil
	case int:
		return float32(v), nil
	default:
		return 0, errors.NotValidf("field %q in record %d: %T", field, r.Index, raw)
	}
}

// String returns a string field.
func (r *Record) String(field string) (string, error) {
	raw, exist := r.Underlying[field]
	if !exist {
		return "", errors.NotFoundf("field %q in record %d", field, r.Index)
	}
	s, ok := raw.(string)
	if !ok {
		return "", errors.NotValidf("field %q in record %d: %T", field, r.Index, raw)
	}
	return s, nil
}

// ImagePath resolves an image field to an absolute path inside the tub
// directory.
func (r *Record) ImagePath(field string) (string, error) {
	name, err := r.String(field)
	if err != nil {
		return "", errors.Trace(err)
	}
	return filepath.Join(r.dir, name), nil
}
