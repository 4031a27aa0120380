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

// Latent learns a compressed representation of the camera frame next to the
// control outputs: the targets include a reconstruction of the input frame.
type Latent struct {
	basePilot
	// Pretrained is the path of a previously trained latent pilot whose
	// encoder weights seed this one. Empty trains from scratch.
	Pretrained string
}

func NewLatent(cfg *config.Config) *Latent {
	return &Latent{
		basePilot:  basePilot{cfg},
		Pretrained: cfg.Model.LatentTrained,
	}
}

func (p *Latent) Type() string {
	return TypeLatent
}

func (p *Latent) TransformOutput(r *tub.Record) (map[string]*tensor.Tensor, error) {
	y, err := transformControls(r)
	if err != nil {
		return nil, errors.Trace(err)
	}
	img, err := p.TransformInput(r)
	if err != nil {
		return nil, errors.Trace(err)
	}
	y[rawImage] = tensor.NormalizeImage(img)
	return y, nil
}

func (p *Latent) TranslateOutput(y map[string]*tensor.Tensor) (map[string]*tensor.Tensor, error) {
	img, err := rawField(y, rawImage)
	if err != nil {
		return nil, errors.Trace(err)
	}
	angle, err := rawField(y, rawAngle)
	if err != nil {
		return nil, errors.Trace(err)
	}
	throttle, err := rawField(y, rawThrottle)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return map[string]*tensor.Tensor{
		KeyImageOut: img,
		KeyOutput0:  angle,
		KeyOutput1:  throttle,
	}, nil
}

func (p *Latent) OutputSchema() (inputs, outputs Schema) {
	return p.inputSchema(), Schema{
		KeyImageOut: Shape{p.cfg.Image.Height, p.cfg.Image.Width, p.cfg.Image.Depth},
		KeyOutput0:  Shape{},
		KeyOutput1:  Shape{},
	}
}
