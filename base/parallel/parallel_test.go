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
package parallel

import (
	"testing"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
)

func TestParallel(t *testing.T) {
	a := make([]int, 1000)
	for i := range a {
		a[i] = i
	}
	b := make([]int, len(a))
	workerIds := make([]int, len(a))
	// multiple workers
	err := Parallel(len(a), 4, func(workerId, jobId int) error {
		b[jobId] = a[jobId]
		workerIds[jobId] = workerId
		time.Sleep(time.Microsecond)
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, a, b)
	workersSet := mapset.NewSet(workerIds...)
	assert.GreaterOrEqual(t, 4, workersSet.Cardinality())
	// single worker
	err = Parallel(len(a), 1, func(workerId, jobId int) error {
		b[jobId] = a[jobId]
		workerIds[jobId] = workerId
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, a, b)
	workersSet = mapset.NewSet(workerIds...)
	assert.Equal(t, 1, workersSet.Cardinality())
}

func TestParallelError(t *testing.T) {
	err := Parallel(100, 4, func(workerId, jobId int) error {
		if jobId == 42 {
			return errors.NotValidf("job %d", jobId)
		}
		return nil
	})
	assert.True(t, errors.Is(err, errors.NotValid))
}
