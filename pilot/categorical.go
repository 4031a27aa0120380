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

package pilot

import (
	"github.com/chewxy/math32"
	"github.com/juju/errors"

	"github.com/gopilot-io/gopilot/common/tensor"
	"github.com/gopilot-io/gopilot/config"
	"github.com/gopilot-io/gopilot/tub"
)

const (
	angleBins    = 15
	throttleBins = 20
)

// Categorical predicts steering angle and throttle as one-hot bucketed
// classes. Angles in [-1, 1] map to 15 buckets, throttles in
// [0, categorical_max_throttle_range] map to 20 buckets.
type Categorical struct {
	basePilot
}

func NewCategorical(cfg *config.Config) *Categorical {
	return &Categorical{basePilot{cfg}}
}

func (p *Categorical) Type() string {
	return TypeCategorical
}

func (p *Categorical) TransformOutput(r *tub.Record) (map[string]*tensor.Tensor, error) {
	return transformControls(r)
}

func (p *Categorical) TranslateOutput(y map[string]*tensor.Tensor) (map[string]*tensor.Tensor, error) {
	angle, err := rawField(y, rawAngle)
	if err != nil {
		return nil, errors.Trace(err)
	}
	throttle, err := rawField(y, rawThrottle)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return map[string]*tensor.Tensor{
		KeyAngleOut:    LinearBin(angle.Data()[0], angleBins, 1, 2.0),
		KeyThrottleOut: LinearBin(throttle.Data()[0], throttleBins, 0, p.cfg.Model.CategoricalMaxThrottleRange),
	}, nil
}

func (p *Categorical) OutputSchema() (inputs, outputs Schema) {
	return p.inputSchema(), Schema{
		KeyAngleOut:    Shape{angleBins},
		KeyThrottleOut: Shape{throttleBins},
	}
}

// LinearBin maps a value from the range of length r starting at -offset into
// a one-hot vector of n buckets. Out-of-range values are clamped into the
// first or last bucket.
func LinearBin(a float32, n int, offset float32, r float32) *tensor.Tensor {
	b := int(math32.Round((a + offset) / (r / (float32(n) - offset))))
	if b < 0 {
		b = 0
	} else if b >= n {
		b = n - 1
	}
	return tensor.OneHot(b, n)
}
