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

// Package pilot defines the model boundary of the training pipeline. A pilot
// converts raw records into the named, shaped numeric fields its network
// expects, via a two-stage transform/translate conversion on the input and
// output side each.
package pilot

import (
	"github.com/juju/errors"

	"github.com/gopilot-io/gopilot/common/tensor"
	"github.com/gopilot-io/gopilot/config"
	"github.com/gopilot-io/gopilot/tub"
)

// Pilot types.
const (
	TypeLinear      = "linear"
	TypeCategorical = "categorical"
	TypeInferred    = "inferred"
	TypeLatent      = "latent"
)

// Input and output field names.
const (
	KeyImageIn     = "img_in"
	KeyImageOut    = "img_out"
	KeyOutput0     = "n_outputs0"
	KeyOutput1     = "n_outputs1"
	KeyAngleOut    = "angle_out"
	KeyThrottleOut = "throttle_out"
)

// Intermediate field names produced by TransformOutput.
const (
	rawAngle    = "angle"
	rawThrottle = "throttle"
	rawImage    = "img"
)

// Shape is the per-record shape of a schema field. An empty shape denotes a
// scalar.
type Shape []int

// Schema maps field names to per-record shapes.
type Schema map[string]Shape

// Pilot translates records into training-ready numeric fields. All methods
// must be deterministic and side-effect-free: applying them twice to the same
// record yields bit-identical results.
type Pilot interface {
	// Type returns the pilot type name.
	Type() string
	// TransformInput extracts the camera frame of a record as a
	// (height, width, depth) tensor of values in [0, 255].
	TransformInput(r *tub.Record) (*tensor.Tensor, error)
	// TranslateInput converts the normalized frame into the named input
	// fields of the network.
	TranslateInput(img *tensor.Tensor) map[string]*tensor.Tensor
	// TransformOutput extracts the raw control targets of a record.
	TransformOutput(r *tub.Record) (map[string]*tensor.Tensor, error)
	// TranslateOutput converts raw targets into the named output fields of
	// the network.
	TranslateOutput(y map[string]*tensor.Tensor) (map[string]*tensor.Tensor, error)
	// OutputSchema declares the input and output fields every batch must
	// match exactly.
	OutputSchema() (inputs, outputs Schema)
}

// NewPilot creates a pilot by type name.
func NewPilot(pilotType string, cfg *config.Config) (Pilot, error) {
	switch pilotType {
	case TypeLinear:
		return NewLinear(cfg), nil
	case TypeCategorical:
		return NewCategorical(cfg), nil
	case TypeInferred:
		return NewInferred(cfg), nil
	case TypeLatent:
		return NewLatent(cfg), nil
	default:
		return nil, errors.NotSupportedf("pilot type %q", pilotType)
	}
}

// basePilot implements the input side shared by all pilots.
type basePilot struct {
	cfg *config.Config
}

func (p basePilot) TransformInput(r *tub.Record) (*tensor.Tensor, error) {
	path, err := r.ImagePath(tub.FieldImage)
	if err != nil {
		return nil, errors.Trace(err)
	}
	img, err := tensor.LoadImage(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	expected := []int{p.cfg.Image.Height, p.cfg.Image.Width, p.cfg.Image.Depth}
	if !tensor.ShapeEqual(img.Shape(), expected) {
		return nil, errors.NotValidf("frame shape %v of record %d, expected %v",
			img.Shape(), r.Index, expected)
	}
	return img, nil
}

func (p basePilot) TranslateInput(img *tensor.Tensor) map[string]*tensor.Tensor {
	return map[string]*tensor.Tensor{KeyImageIn: img}
}

func (p basePilot) inputSchema() Schema {
	return Schema{
		KeyImageIn: Shape{p.cfg.Image.Height, p.cfg.Image.Width, p.cfg.Image.Depth},
	}
}

// transformControls extracts angle and throttle as raw scalar targets.
func transformControls(r *tub.Record) (map[string]*tensor.Tensor, error) {
	angle, err := r.Float(tub.FieldAngle)
	if err != nil {
		return nil, errors.Trace(err)
	}
	throttle, err := r.Float(tub.FieldThrottle)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return map[string]*tensor.Tensor{
		rawAngle:    tensor.NewScalar(angle),
		rawThrottle: tensor.NewScalar(throttle),
	}, nil
}

func rawField(y map[string]*tensor.Tensor, name string) (*tensor.Tensor, error) {
	v, exist := y[name]
	if !exist {
		return nil, errors.NotFoundf("raw target %q", name)
	}
	return v, nil
}
