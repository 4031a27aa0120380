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
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gopilot-io/gopilot/base/log"
	"github.com/gopilot-io/gopilot/config"
	"github.com/gopilot-io/gopilot/dataset"
	"github.com/gopilot-io/gopilot/pilot"
	"github.com/gopilot-io/gopilot/pipeline"
	"github.com/gopilot-io/gopilot/train"
)

var rootCommand = &cobra.Command{
	Use:   "gopilot",
	Short: "gopilot: self-driving car training pipeline.",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			_ = cmd.Help()
		}
	},
}

var trainCommand = &cobra.Command{
	Use:   "train TUB_DIR...",
	Short: "Train a pilot on recorded tubs.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(cmd)
		pilotType, _ := cmd.Flags().GetString("model")
		history, err := train.Train(context.Background(), cfg, args, pilotType)
		if err != nil {
			log.Logger().Fatal("failed to train pilot", zap.Error(err))
		}
		lastLoss := history.ValLoss[len(history.ValLoss)-1]
		log.Logger().Info("training complete",
			zap.Int("epochs", len(history.Loss)),
			zap.Float32("val_loss", lastLoss))
		fmt.Printf("trained %s pilot in %d epochs, validation loss %f\n",
			pilotType, len(history.Loss), lastLoss)
	},
}

var checkCommand = &cobra.Command{
	Use:   "check TUB_DIR...",
	Short: "Validate that batches reproduce the per-record transforms.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(cmd)
		pilotType, _ := cmd.Flags().GetString("model")
		p, err := pilot.NewPilot(pilotType, cfg)
		if err != nil {
			log.Logger().Fatal("failed to create pilot", zap.Error(err))
		}
		d, err := dataset.LoadDataset(cfg, args, false)
		if err != nil {
			log.Logger().Fatal("failed to load tubs", zap.Error(err))
		}
		if err = pipeline.Validate(p, cfg, d.Records()); err != nil {
			log.Logger().Fatal("pipeline check failed", zap.Error(err))
		}
		fmt.Printf("checked %d records: batches are consistent\n", d.Len())
	},
}

func loadConfig(cmd *cobra.Command) *config.Config {
	debug, _ := cmd.Root().PersistentFlags().GetBool("debug")
	log.SetLogger(cmd.Root().PersistentFlags(), debug)
	configPath, _ := cmd.Root().PersistentFlags().GetString("config")
	if configPath == "" {
		return config.GetDefaultConfig()
	}
	log.Logger().Info("load config", zap.String("config", configPath))
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Logger().Fatal("failed to load config", zap.Error(err))
	}
	return cfg
}

func init() {
	log.AddFlags(rootCommand.PersistentFlags())
	rootCommand.PersistentFlags().Bool("debug", false, "use debug log mode")
	rootCommand.PersistentFlags().StringP("config", "c", "", "configuration file path")
	trainCommand.Flags().StringP("model", "m", pilot.TypeLinear, "pilot type (linear, categorical, inferred, latent)")
	checkCommand.Flags().StringP("model", "m", pilot.TypeLinear, "pilot type (linear, categorical, inferred, latent)")
	rootCommand.AddCommand(trainCommand)
	rootCommand.AddCommand(checkCommand)
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		log.Logger().Fatal("failed to execute", zap.Error(err))
	}
}
