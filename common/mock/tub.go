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

// Package mock generates synthetic driving data for tests and examples.
package mock

import (
	"image"
	"image/color"

	"github.com/juju/errors"

	"github.com/gopilot-io/gopilot/base"
	"github.com/gopilot-io/gopilot/tub"
)

// TubOptions controls the synthetic tub generated by GenerateTub.
type TubOptions struct {
	NumRecords int
	Height     int
	Width      int
	Seed       int64
}

// GenerateTub writes a tub of synthetic records into dir. Angles are uniform
// in [-1, 1], throttles in [0, 1], and frames are deterministic noise, so a
// fixed seed reproduces the same tub exactly.
func GenerateTub(dir string, opts TubOptions) error {
	writer, err := tub.NewWriter(dir, tub.Meta{
		Inputs: []string{tub.FieldImage, tub.FieldAngle, tub.FieldThrottle, tub.FieldMode},
		Types:  []string{"image_array", "float", "float", "str"},
	})
	if err != nil {
		return errors.Trace(err)
	}
	rng := base.NewRandomGenerator(opts.Seed)
	for i := 0; i < opts.NumRecords; i++ {
		imageName, err := writer.WriteImage(i, randomFrame(rng, opts.Width, opts.Height))
		if err != nil {
			return errors.Trace(err)
		}
		angle := rng.Float32()*2 - 1
		throttle := rng.Float32()
		if _, err = writer.WriteRecord(map[string]any{
			tub.FieldImage:    imageName,
			tub.FieldAngle:    angle,
			tub.FieldThrottle: throttle,
			tub.FieldMode:     "user",
		}); err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}

func randomFrame(rng base.RandomGenerator, width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(rng.Intn(256)),
				G: uint8(rng.Intn(256)),
				B: uint8(rng.Intn(256)),
				A: 255,
			})
		}
	}
	return img
}
