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

package progress

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type spanKeyType string

var spanKeyName = spanKeyType(uuid.New().String())

type Status string

const (
	StatusPending  Status = "Pending"
	StatusComplete Status = "Complete"
	StatusRunning  Status = "Running"
	StatusFailed   Status = "Failed"
)

// Tracer tracks the progress of long-running jobs, e.g. training runs.
type Tracer struct {
	name  string
	spans sync.Map
}

func NewTracer(name string) *Tracer {
	return &Tracer{name: name}
}

// Start creates a root span.
func (t *Tracer) Start(ctx context.Context, name string, total int) (context.Context, *Span) {
	span := &Span{
		name:   name,
		status: StatusRunning,
		total:  total,
		start:  time.Now(),
	}
	t.spans.Store(name, span)
	return context.WithValue(ctx, spanKeyName, span), span
}

func (t *Tracer) List() []Progress {
	var progress []Progress
	t.spans.Range(func(_, value interface{}) bool {
		span := value.(*Span)
		progress = append(progress, span.Progress(t.name))
		return true
	})
	return progress
}

type Span struct {
	name     string
	status   Status
	total    int
	count    int
	err      error
	start    time.Time
	finish   time.Time
	children sync.Map
}

func (s *Span) Add(n int) {
	s.count += n
}

func (s *Span) End() {
	s.count = s.total
	s.status = StatusComplete
	s.finish = time.Now()
}

func (s *Span) Fail(err error) {
	s.err = err
	s.status = StatusFailed
	s.finish = time.Now()
}

func (s *Span) Count() int {
	return s.count
}

func (s *Span) Progress(tracer string) Progress {
	return Progress{
		Tracer:     tracer,
		Name:       s.name,
		Status:     s.status,
		Error:      errString(s.err),
		Count:      s.count,
		Total:      s.total,
		StartTime:  s.start,
		FinishTime: s.finish,
	}
}

// Start creates a child span of the span carried by ctx. A detached span is
// returned when ctx carries no span.
func Start(ctx context.Context, name string, total int) (context.Context, *Span) {
	childSpan := &Span{
		name:   name,
		status: StatusRunning,
		total:  total,
		count:  0,
		start:  time.Now(),
	}
	if ctx == nil {
		return nil, childSpan
	}
	span, ok := ctx.Value(spanKeyName).(*Span)
	if !ok {
		return nil, childSpan
	}
	span.children.Store(name, childSpan)
	return context.WithValue(ctx, spanKeyName, childSpan), childSpan
}

type Progress struct {
	Tracer     string
	Name       string
	Status     Status
	Error      string
	Count      int
	Total      int
	StartTime  time.Time
	FinishTime time.Time
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
