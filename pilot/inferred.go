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

// Inferred predicts only the steering angle, the throttle is inferred while
// driving.
type Inferred struct {
	basePilot
}

func NewInferred(cfg *config.Config) *Inferred {
	return &Inferred{basePilot{cfg}}
}

func (p *Inferred) Type() string {
	return TypeInferred
}

func (p *Inferred) TransformOutput(r *tub.Record) (map[string]*tensor.Tensor, error) {
	angle, err := r.Float(tub.FieldAngle)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return map[string]*tensor.Tensor{rawAngle: tensor.NewScalar(angle)}, nil
}

func (p *Inferred) TranslateOutput(y map[string]*tensor.Tensor) (map[string]*tensor.Tensor, error) {
	angle, err := rawField(y, rawAngle)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return map[string]*tensor.Tensor{KeyOutput0: angle}, nil
}

func (p *Inferred) OutputSchema() (inputs, outputs Schema) {
	return p.inputSchema(), Schema{
		KeyOutput0: Shape{},
	}
}
