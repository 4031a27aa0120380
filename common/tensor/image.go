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

package tensor

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/juju/errors"
)

// LoadImage decodes an image file into a (height, width, 3) tensor of RGB
// values in [0, 255].
func LoadImage(path string) (*Tensor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Annotatef(err, "failed to decode image %s", path)
	}
	return FromImage(img), nil
}

// FromImage converts an image into a (height, width, 3) tensor of RGB values
// in [0, 255].
func FromImage(img image.Image) *Tensor {
	bounds := img.Bounds()
	height, width := bounds.Dy(), bounds.Dx()
	data := make([]float32, 0, height*width*3)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			data = append(data, float32(r>>8), float32(g>>8), float32(b>>8))
		}
	}
	return NewTensor(data, height, width, 3)
}

// NormalizeImage scales pixel values from [0, 255] into [0, 1].
func NormalizeImage(img *Tensor) *Tensor {
	return img.Scale(1.0 / 255.0)
}
