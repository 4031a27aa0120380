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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ProgressTestSuite struct {
	suite.Suite
	tracer *Tracer
}

func (suite *ProgressTestSuite) SetupTest() {
	suite.tracer = NewTracer("test")
}

func (suite *ProgressTestSuite) TestLeafProgress() {
	_, span := suite.tracer.Start(context.Background(), "root", 100)
	progressList := suite.tracer.List()
	suite.Equal(1, len(progressList))
	suite.Equal("test", progressList[0].Tracer)
	suite.Equal("root", progressList[0].Name)
	suite.Equal(StatusRunning, progressList[0].Status)
	suite.Empty(progressList[0].Error)
	suite.Equal(100, progressList[0].Total)
	suite.Empty(progressList[0].Count)
	suite.LessOrEqual(progressList[0].StartTime, time.Now())

	span.Add(10)
	progressList = suite.tracer.List()
	suite.Equal(1, len(progressList))
	suite.Equal(10, progressList[0].Count)

	span.End()
	progressList = suite.tracer.List()
	suite.Equal(1, len(progressList))
	suite.Equal(StatusComplete, progressList[0].Status)
	suite.Equal(100, progressList[0].Count)
	suite.LessOrEqual(progressList[0].StartTime, progressList[0].FinishTime)
}

func (suite *ProgressTestSuite) TestFailedProgress() {
	_, span := suite.tracer.Start(context.Background(), "root", 100)
	span.Fail(errors.New("some error"))
	progressList := suite.tracer.List()
	suite.Equal(1, len(progressList))
	suite.Equal(StatusFailed, progressList[0].Status)
	suite.Equal("some error", progressList[0].Error)
}

func (suite *ProgressTestSuite) TestChildSpan() {
	newCtx, _ := suite.tracer.Start(context.Background(), "root", 100)
	_, childSpan := Start(newCtx, "child", 8)
	childSpan.Add(2)
	suite.Equal(2, childSpan.Count())

	// detached span when context carries no parent
	_, detached := Start(context.Background(), "orphan", 4)
	detached.Add(1)
	suite.Equal(1, detached.Count())
}

func TestProgressTestSuite(t *testing.T) {
	suite.Run(t, new(ProgressTestSuite))
}
