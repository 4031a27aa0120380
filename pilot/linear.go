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
	"github.com/juju/errors"

	"github.com/gopilot-io/gopilot/common/tensor"
	"github.com/gopilot-io/gopilot/config"
	"github.com/gopilot-io/gopilot/tub"
)

// Linear predicts steering angle and throttle as two continuous outputs.
type Linear struct {
	basePilot
}

func NewLinear(cfg *config.Config) *Linear {
	return &Linear{basePilot{cfg}}
}

func (p *Linear) Type() string {
	return TypeLinear
}

func (p *Linear) TransformOutput(r *tub.Record) (map[string]*tensor.Tensor, error) {
	return transformControls(r)
}

func (p *Linear) TranslateOutput(y map[string]*tensor.Tensor) (map[string]*tensor.Tensor, error) {
	angle, err := rawField(y, rawAngle)
	if err != nil {
		return nil, errors.Trace(err)
	}
	throttle, err := rawField(y, rawThrottle)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return map[string]*tensor.Tensor{
		KeyOutput0: angle,
		KeyOutput1: throttle,
	}, nil
}

func (p *Linear) OutputSchema() (inputs, outputs Schema) {
	return p.inputSchema(), Schema{
		KeyOutput0: Shape{},
		KeyOutput1: Shape{},
	}
}
