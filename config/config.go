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

// Package config holds the configuration of the training pipeline.
package config

import (
	"github.com/BurntSushi/toml"
	"github.com/juju/errors"

	"github.com/gopilot-io/gopilot/tub"
)

// Config is the configuration for the training pipeline.
type Config struct {
	Train TrainConfig `toml:"train"`
	Image ImageConfig `toml:"image"`
	Model ModelConfig `toml:"model"`

	// TrainFilter excludes records from training when it evaluates to false.
	// It is set programmatically, never from a config file.
	TrainFilter tub.Predicate `toml:"-"`
}

type TrainConfig struct {
	BatchSize         int     `toml:"batch_size"`
	TrainTestSplit    float64 `toml:"train_test_split"`
	MaxEpochs         int     `toml:"max_epochs"`
	EarlyStopPatience int     `toml:"early_stop_patience"`
	MinDelta          float32 `toml:"min_delta"`
	Verbose           int     `toml:"verbose"`
}

type ImageConfig struct {
	Height int `toml:"height"`
	Width  int `toml:"width"`
	Depth  int `toml:"depth"`
}

type ModelConfig struct {
	CategoricalMaxThrottleRange float32 `toml:"categorical_max_throttle_range"`
	LatentTrained               string  `toml:"latent_trained"`
}

// GetDefaultConfig returns the default configuration.
func GetDefaultConfig() *Config {
	return &Config{
		Train: TrainConfig{
			BatchSize:         128,
			TrainTestSplit:    0.8,
			MaxEpochs:         100,
			EarlyStopPatience: 5,
			MinDelta:          0.0005,
			Verbose:           1,
		},
		Image: ImageConfig{
			Height: 120,
			Width:  160,
			Depth:  3,
		},
		Model: ModelConfig{
			CategoricalMaxThrottleRange: 0.8,
		},
	}
}

// LoadConfig loads configuration from a toml file. Options missing from the
// file keep their default values.
func LoadConfig(path string) (*Config, error) {
	conf := GetDefaultConfig()
	if _, err := toml.DecodeFile(path, conf); err != nil {
		return nil, errors.Annotatef(err, "failed to load config %s", path)
	}
	conf.Validate()
	return conf, nil
}

// Validate panics on configuration values the pipeline cannot operate with.
func (config *Config) Validate() {
	validatePositive("train.batch_size", config.Train.BatchSize)
	validateRatio("train.train_test_split", config.Train.TrainTestSplit)
	validatePositive("train.max_epochs", config.Train.MaxEpochs)
	validateNotNegative("train.early_stop_patience", config.Train.EarlyStopPatience)
	validatePositive("image.height", config.Image.Height)
	validatePositive("image.width", config.Image.Width)
	validatePositive("image.depth", config.Image.Depth)
}
