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
	"fmt"
	"image"
	"image/color"

	"github.com/juju/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gopilot-io/gopilot/base"
	"github.com/gopilot-io/gopilot/base/log"
	"github.com/gopilot-io/gopilot/config"
	"github.com/gopilot-io/gopilot/tub"
)

var generateCommand = &cobra.Command{
	Use:   "generate TUB_DIR",
	Short: "Generate a tub of synthetic driving records.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(cmd)
		numRecords, _ := cmd.Flags().GetInt("records")
		seed, _ := cmd.Flags().GetInt64("seed")
		if err := generateTub(cfg, args[0], numRecords, seed); err != nil {
			log.Logger().Fatal("failed to generate tub", zap.Error(err))
		}
		fmt.Printf("wrote %d records to %s\n", numRecords, args[0])
	},
}

func init() {
	generateCommand.Flags().IntP("records", "n", 1000, "number of records to generate")
	generateCommand.Flags().Int64("seed", 0, "random seed")
	rootCommand.AddCommand(generateCommand)
}

// generateTub writes synthetic records: noise frames and uniform random
// controls. Useful for exercising the pipeline before a real car recorded
// anything.
func generateTub(cfg *config.Config, dir string, numRecords int, seed int64) error {
	writer, err := tub.NewWriter(dir, tub.Meta{
		Inputs: []string{tub.FieldImage, tub.FieldAngle, tub.FieldThrottle, tub.FieldMode},
		Types:  []string{"image_array", "float", "float", "str"},
	})
	if err != nil {
		return errors.Trace(err)
	}
	rng := base.NewRandomGenerator(seed)
	bar := progressbar.Default(int64(numRecords), "Generating records")
	for i := 0; i < numRecords; i++ {
		frame := image.NewRGBA(image.Rect(0, 0, cfg.Image.Width, cfg.Image.Height))
		for y := 0; y < cfg.Image.Height; y++ {
			for x := 0; x < cfg.Image.Width; x++ {
				frame.Set(x, y, color.RGBA{
					R: uint8(rng.Intn(256)),
					G: uint8(rng.Intn(256)),
					B: uint8(rng.Intn(256)),
					A: 255,
				})
			}
		}
		imageName, err := writer.WriteImage(i, frame)
		if err != nil {
			return errors.Trace(err)
		}
		if _, err = writer.WriteRecord(map[string]any{
			tub.FieldImage:    imageName,
			tub.FieldAngle:    rng.Float32()*2 - 1,
			tub.FieldThrottle: rng.Float32(),
			tub.FieldMode:     "user",
		}); err != nil {
			return errors.Trace(err)
		}
		_ = bar.Add(1)
	}
	return errors.Trace(bar.Finish())
}
