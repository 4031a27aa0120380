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
	"github.com/juju/errors"
)

// Predicate decides whether a record takes part in training. Implementations
// must be side-effect-free. An evaluation error is propagated to the caller
// and never treated as exclusion.
type Predicate interface {
	Evaluate(r *Record) (bool, error)
}

// Op is a comparison operator for FieldThreshold.
type Op string

const (
	OpGreater   Op = ">"
	OpLess      Op = "<"
	OpGreaterEq Op = ">="
	OpLessEq    Op = "<="
)

// FieldThreshold compares a numeric record field against a constant.
type FieldThreshold struct {
	Field string
	Op    Op
	Value float32
}

func (f FieldThreshold) Evaluate(r *Record) (bool, error) {
	v, err := r.Float(f.Field)
	if err != nil {
		return false, errors.Trace(err)
	}
	switch f.Op {
	case OpGreater:
		return v > f.Value, nil
	case OpLess:
		return v < f.Value, nil
	case OpGreaterEq:
		return v >= f.Value, nil
	case OpLessEq:
		return v <= f.Value, nil
	default:
		return false, errors.NotValidf("comparison operator %q", f.Op)
	}
}

// And is satisfied when every inner predicate is satisfied.
type And []Predicate

func (a And) Evaluate(r *Record) (bool, error) {
	for _, p := range a {
		ok, err := p.Evaluate(r)
		if err != nil {
			return false, errors.Trace(err)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// Or is satisfied when at least one inner predicate is satisfied.
type Or []Predicate

func (o Or) Evaluate(r *Record) (bool, error) {
	for _, p := range o {
		ok, err := p.Evaluate(r)
		if err != nil {
			return false, errors.Trace(err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// PredicateFunc adapts a function to the Predicate interface.
type PredicateFunc func(r *Record) (bool, error)

func (f PredicateFunc) Evaluate(r *Record) (bool, error) {
	return f(r)
}
