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

// Package tensor provides dense float32 tensors used to carry decoded sensor
// frames and control targets through the training pipeline.
package tensor

import (
	"fmt"
	"strings"

	"github.com/chewxy/math32"
	"github.com/juju/errors"
)

// Default tolerances for AllClose, matching numpy.isclose.
const (
	DefaultRTol = 1e-5
	DefaultATol = 1e-8
)

type Tensor struct {
	data  []float32
	shape []int
}

// NewTensor creates a tensor from data and shape. The data length must equal
// the product of the shape.
func NewTensor(data []float32, shape ...int) *Tensor {
	n := 1
	for _, s := range shape {
		n *= s
	}
	if n != len(data) {
		panic(fmt.Sprintf("data length %d does not match shape %v", len(data), shape))
	}
	return &Tensor{
		data:  data,
		shape: shape,
	}
}

// NewScalar creates a zero-dimensional tensor.
func NewScalar(data float32) *Tensor {
	return &Tensor{
		data:  []float32{data},
		shape: []int{},
	}
}

// Zeros creates a tensor filled with zeros.
func Zeros(shape ...int) *Tensor {
	n := 1
	for _, s := range shape {
		n *= s
	}
	data := make([]float32, n)
	return &Tensor{
		data:  data,
		shape: shape,
	}
}

// OneHot creates a vector of length n with a single one at index.
func OneHot(index, n int) *Tensor {
	if index < 0 || index >= n {
		panic(fmt.Sprintf("one-hot index %d out of range [0,%d)", index, n))
	}
	data := make([]float32, n)
	data[index] = 1
	return &Tensor{
		data:  data,
		shape: []int{n},
	}
}

func (t *Tensor) Shape() []int {
	return t.shape
}

func (t *Tensor) Data() []float32 {
	return t.data
}

// Len returns the number of elements.
func (t *Tensor) Len() int {
	return len(t.data)
}

func (t *Tensor) Clone() *Tensor {
	newData := make([]float32, len(t.data))
	copy(newData, t.data)
	newShape := make([]int, len(t.shape))
	copy(newShape, t.shape)
	return &Tensor{
		data:  newData,
		shape: newShape,
	}
}

// Scale returns a new tensor with every element multiplied by c.
func (t *Tensor) Scale(c float32) *Tensor {
	out := t.Clone()
	for i := range out.data {
		out.data[i] *= c
	}
	return out
}

func (t *Tensor) String() string {
	// Print scalar value
	if len(t.shape) == 0 {
		return fmt.Sprint(t.data[0])
	}

	builder := strings.Builder{}
	builder.WriteString("[")
	if len(t.data) <= 10 {
		for i := 0; i < len(t.data); i++ {
			builder.WriteString(fmt.Sprint(t.data[i]))
			if i != len(t.data)-1 {
				builder.WriteString(", ")
			}
		}
	} else {
		for i := 0; i < 5; i++ {
			builder.WriteString(fmt.Sprint(t.data[i]))
			builder.WriteString(", ")
		}
		builder.WriteString("..., ")
		for i := len(t.data) - 5; i < len(t.data); i++ {
			builder.WriteString(fmt.Sprint(t.data[i]))
			if i != len(t.data)-1 {
				builder.WriteString(", ")
			}
		}
	}
	builder.WriteString("]")
	return builder.String()
}

// ShapeEqual reports whether two shapes are identical.
func ShapeEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Stack stacks tensors of identical shape along a new leading axis. The result
// of stacking n tensors of shape s has shape (n, s...).
func Stack(tensors []*Tensor) (*Tensor, error) {
	if len(tensors) == 0 {
		return nil, errors.New("cannot stack zero tensors")
	}
	first := tensors[0]
	for i, t := range tensors[1:] {
		if !ShapeEqual(first.shape, t.shape) {
			return nil, errors.Errorf("shape mismatch at element %d: %v != %v",
				i+1, t.shape, first.shape)
		}
	}
	data := make([]float32, 0, len(tensors)*len(first.data))
	for _, t := range tensors {
		data = append(data, t.data...)
	}
	shape := make([]int, 0, len(first.shape)+1)
	shape = append(shape, len(tensors))
	shape = append(shape, first.shape...)
	return &Tensor{
		data:  data,
		shape: shape,
	}, nil
}

// AllClose reports whether two tensors have the same shape and element-wise
//
//	|a - b| <= atol + rtol*|b|
//
// like numpy.isclose.
func AllClose(a, b *Tensor, rtol, atol float32) bool {
	if !ShapeEqual(a.shape, b.shape) {
		return false
	}
	for i := range a.data {
		if math32.Abs(a.data[i]-b.data[i]) > atol+rtol*math32.Abs(b.data[i]) {
			return false
		}
	}
	return true
}
