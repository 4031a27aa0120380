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
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTensor(t *testing.T) {
	x := NewTensor([]float32{1, 2, 3, 4, 5, 6}, 2, 3)
	assert.Equal(t, []int{2, 3}, x.Shape())
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, x.Data())
	assert.Equal(t, 6, x.Len())
	assert.Panics(t, func() { NewTensor([]float32{1, 2, 3}, 2, 3) })
}

func TestNewScalar(t *testing.T) {
	x := NewScalar(0.5)
	assert.Empty(t, x.Shape())
	assert.Equal(t, "0.5", x.String())
}

func TestOneHot(t *testing.T) {
	x := OneHot(2, 5)
	assert.Equal(t, []float32{0, 0, 1, 0, 0}, x.Data())
	assert.Equal(t, []int{5}, x.Shape())
	assert.Panics(t, func() { OneHot(5, 5) })
	assert.Panics(t, func() { OneHot(-1, 5) })
}

func TestScale(t *testing.T) {
	x := NewTensor([]float32{2, 4, 6}, 3)
	y := x.Scale(0.5)
	assert.Equal(t, []float32{1, 2, 3}, y.Data())
	// source is untouched
	assert.Equal(t, []float32{2, 4, 6}, x.Data())
}

func TestStack(t *testing.T) {
	a := NewTensor([]float32{1, 2}, 2)
	b := NewTensor([]float32{3, 4}, 2)
	stacked, err := Stack([]*Tensor{a, b})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, stacked.Shape())
	assert.Equal(t, []float32{1, 2, 3, 4}, stacked.Data())

	scalars, err := Stack([]*Tensor{NewScalar(1), NewScalar(2), NewScalar(3)})
	require.NoError(t, err)
	assert.Equal(t, []int{3}, scalars.Shape())

	_, err = Stack(nil)
	assert.Error(t, err)
	_, err = Stack([]*Tensor{a, NewTensor([]float32{1, 2, 3}, 3)})
	assert.Error(t, err)
}

func TestAllClose(t *testing.T) {
	a := NewTensor([]float32{1, 2, 3}, 3)
	b := NewTensor([]float32{1, 2, 3.0000001}, 3)
	assert.True(t, AllClose(a, b, DefaultRTol, DefaultATol))
	c := NewTensor([]float32{1, 2, 3.1}, 3)
	assert.False(t, AllClose(a, c, DefaultRTol, DefaultATol))
	d := NewTensor([]float32{1, 2, 3}, 1, 3)
	assert.False(t, AllClose(a, d, DefaultRTol, DefaultATol))
}

func TestLoadImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 60), G: uint8(y * 100), B: 7, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "frame.jpg")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, jpeg.Encode(f, img, &jpeg.Options{Quality: 100}))
	require.NoError(t, f.Close())

	decoded, err := LoadImage(path)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4, 3}, decoded.Shape())
	// decoding is deterministic
	again, err := LoadImage(path)
	require.NoError(t, err)
	assert.Equal(t, decoded.Data(), again.Data())

	_, err = LoadImage(filepath.Join(t.TempDir(), "missing.jpg"))
	assert.Error(t, err)
}

func TestNormalizeImage(t *testing.T) {
	img := NewTensor([]float32{0, 51, 255}, 1, 1, 3)
	normalized := NormalizeImage(img)
	assert.InDelta(t, 0.0, normalized.Data()[0], 1e-6)
	assert.InDelta(t, 0.2, normalized.Data()[1], 1e-6)
	assert.InDelta(t, 1.0, normalized.Data()[2], 1e-6)
}
