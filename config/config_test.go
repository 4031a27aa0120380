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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigTemplate(t *testing.T) {
	config, err := LoadConfig("config.toml.template")
	require.NoError(t, err)
	// [train]
	assert.Equal(t, 128, config.Train.BatchSize)
	assert.Equal(t, 0.8, config.Train.TrainTestSplit)
	assert.Equal(t, 100, config.Train.MaxEpochs)
	assert.Equal(t, 5, config.Train.EarlyStopPatience)
	assert.Equal(t, float32(0.0005), config.Train.MinDelta)
	assert.Equal(t, 1, config.Train.Verbose)
	// [image]
	assert.Equal(t, 120, config.Image.Height)
	assert.Equal(t, 160, config.Image.Width)
	assert.Equal(t, 3, config.Image.Depth)
	// [model]
	assert.Equal(t, float32(0.8), config.Model.CategoricalMaxThrottleRange)
	assert.Empty(t, config.Model.LatentTrained)
	assert.Nil(t, config.TrainFilter)
}

func TestLoadConfigFillDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[train]\nbatch_size = 64\n"), 0644))
	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 64, config.Train.BatchSize)
	// everything else falls back to defaults
	assert.Equal(t, 0.8, config.Train.TrainTestSplit)
	assert.Equal(t, 120, config.Image.Height)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "no_such_config.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.NotPanics(t, func() { GetDefaultConfig().Validate() })

	config := GetDefaultConfig()
	config.Train.BatchSize = 0
	assert.Panics(t, func() { config.Validate() })

	config = GetDefaultConfig()
	config.Train.TrainTestSplit = 1.0
	assert.Panics(t, func() { config.Validate() })

	config = GetDefaultConfig()
	config.Image.Depth = 0
	assert.Panics(t, func() { config.Validate() })
}
