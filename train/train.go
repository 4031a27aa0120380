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

// Package train fits a pilot on recorded driving sessions. The pipeline
// delivers the batches, the pilot defines the field translation, and a linear
// head on the flattened frame keeps the loop honest: its loss must fall on
// real data.
package train

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/juju/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/gopilot-io/gopilot/base/log"
	"github.com/gopilot-io/gopilot/base/progress"
	"github.com/gopilot-io/gopilot/config"
	"github.com/gopilot-io/gopilot/dataset"
	"github.com/gopilot-io/gopilot/pilot"
	"github.com/gopilot-io/gopilot/pipeline"
)

// History records the per-epoch training and validation loss of one run.
type History struct {
	Loss    []float32
	ValLoss []float32
}

// Train loads the tubs, splits them into training and validation records and
// fits a pilot of the given type. Training stops after MaxEpochs epochs or
// once the validation loss stopped improving by at least MinDelta for
// EarlyStopPatience epochs.
func Train(ctx context.Context, cfg *config.Config, tubDirs []string, pilotType string) (*History, error) {
	p, err := pilot.NewPilot(pilotType, cfg)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if latent, ok := p.(*pilot.Latent); ok && latent.Pretrained != "" {
		if _, err := os.Stat(latent.Pretrained); err != nil {
			log.Logger().Warn("pretrained latent pilot not found",
				zap.String("path", latent.Pretrained))
		}
	}
	d, err := dataset.LoadDataset(cfg, tubDirs, true)
	if err != nil {
		return nil, errors.Trace(err)
	}
	trainRecords, validateRecords := d.TrainTestSplit()
	trainSeq := pipeline.NewBatchSequence(p, cfg, trainRecords, true, 0)
	validateSeq := pipeline.NewBatchSequence(p, cfg, validateRecords, false, 0)
	if trainSeq.Len() == 0 {
		return nil, errors.NotValidf("%d training records with batch size %d: zero whole batches",
			len(trainRecords), cfg.Train.BatchSize)
	}

	head := newLinearHead(cfg, p)
	history := new(History)
	bestLoss := float32(0)
	badEpochs := 0
	_, span := progress.Start(ctx, fmt.Sprintf("Train[%s]", pilotType), cfg.Train.MaxEpochs)
	for epoch := 1; epoch <= cfg.Train.MaxEpochs; epoch++ {
		fitStart := time.Now()
		loss, err := head.fitEpoch(trainSeq)
		if err != nil {
			span.Fail(err)
			return nil, errors.Trace(err)
		}
		fitTime := time.Since(fitStart)
		valLoss, err := head.evaluate(validateSeq)
		if err != nil {
			span.Fail(err)
			return nil, errors.Trace(err)
		}
		history.Loss = append(history.Loss, loss)
		history.ValLoss = append(history.ValLoss, valLoss)
		if cfg.Train.Verbose > 0 && (epoch%cfg.Train.Verbose == 0 || epoch == cfg.Train.MaxEpochs) {
			log.Logger().Info(fmt.Sprintf("fit %s %v/%v", pilotType, epoch, cfg.Train.MaxEpochs),
				zap.String("fit_time", fitTime.String()),
				zap.Float32("loss", loss),
				zap.Float32("val_loss", valLoss))
		}
		span.Add(1)
		// early stopping on the validation loss
		if epoch == 1 || bestLoss-valLoss >= cfg.Train.MinDelta {
			bestLoss = valLoss
			badEpochs = 0
		} else if badEpochs++; cfg.Train.EarlyStopPatience > 0 && badEpochs >= cfg.Train.EarlyStopPatience {
			log.Logger().Info("early stopping",
				zap.Int("epoch", epoch),
				zap.Float32("best_val_loss", bestLoss),
				zap.Int("patience", cfg.Train.EarlyStopPatience))
			break
		}
	}
	span.End()
	return history, nil
}

// linearHead is a least-squares readout from the flattened normalized frame
// to the concatenated output fields of the pilot. It stands in for the full
// network: enough to verify that batches carry signal and the loop converges.
type linearHead struct {
	outKeys []string
	outDims []int
	inDim   int
	lr      float32
	weights [][]float32 // one row per output, the last column is the bias
}

func newLinearHead(cfg *config.Config, p pilot.Pilot) *linearHead {
	_, outputSchema := p.OutputSchema()
	outKeys := lo.Keys(outputSchema)
	sort.Strings(outKeys)
	head := &linearHead{
		outKeys: outKeys,
		inDim:   cfg.Image.Height * cfg.Image.Width * cfg.Image.Depth,
	}
	outDim := 0
	for _, key := range outKeys {
		dim := 1
		for _, s := range outputSchema[key] {
			dim *= s
		}
		head.outDims = append(head.outDims, dim)
		outDim += dim
	}
	// inputs are normalized into [0, 1], this step size keeps descent stable
	head.lr = 0.5 / float32(head.inDim+1)
	head.weights = make([][]float32, outDim)
	for i := range head.weights {
		head.weights[i] = make([]float32, head.inDim+1)
	}
	return head
}

// fitEpoch runs one pass of mini-batch gradient descent and returns the mean
// squared error over the epoch.
func (head *linearHead) fitEpoch(seq *pipeline.BatchSequence) (float32, error) {
	return head.run(seq, true)
}

// evaluate returns the mean squared error without updating the weights.
func (head *linearHead) evaluate(seq *pipeline.BatchSequence) (float32, error) {
	if seq.Len() == 0 {
		return 0, nil
	}
	return head.run(seq, false)
}

func (head *linearHead) run(seq *pipeline.BatchSequence, update bool) (float32, error) {
	var epochLoss float32
	numBatches := 0
	it := seq.Iterator()
	for it.Next() {
		batch := it.Batch()
		x := batch.X[pilot.KeyImageIn].Data()
		batchSize := batch.X[pilot.KeyImageIn].Shape()[0]
		targets := head.concatTargets(batch, batchSize)
		var batchLoss float32
		for j := 0; j < batchSize; j++ {
			sample := x[j*head.inDim : (j+1)*head.inDim]
			target := targets[j]
			for o := range head.weights {
				predicted := head.predict(o, sample)
				residual := predicted - target[o]
				batchLoss += residual * residual
				if update {
					step := 2 * head.lr * residual / float32(batchSize)
					row := head.weights[o]
					for i, v := range sample {
						row[i] -= step * v
					}
					row[head.inDim] -= step
				}
			}
		}
		epochLoss += batchLoss / float32(batchSize*len(head.weights))
		numBatches++
	}
	if err := it.Err(); err != nil {
		return 0, errors.Trace(err)
	}
	return epochLoss / float32(numBatches), nil
}

func (head *linearHead) predict(output int, sample []float32) float32 {
	row := head.weights[output]
	sum := row[head.inDim]
	for i, v := range sample {
		sum += row[i] * v
	}
	return sum
}

// concatTargets flattens the output fields of a batch into one target vector
// per record, fields ordered by key name.
func (head *linearHead) concatTargets(batch *pipeline.Batch, batchSize int) [][]float32 {
	targets := make([][]float32, batchSize)
	for j := range targets {
		targets[j] = make([]float32, 0, len(head.weights))
	}
	for k, key := range head.outKeys {
		data := batch.Y[key].Data()
		dim := head.outDims[k]
		for j := 0; j < batchSize; j++ {
			targets[j] = append(targets[j], data[j*dim:(j+1)*dim]...)
		}
	}
	return targets
}
