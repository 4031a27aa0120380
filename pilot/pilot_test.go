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

package pilot

import (
	"path/filepath"
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gopilot-io/gopilot/common/mock"
	"github.com/gopilot-io/gopilot/common/tensor"
	"github.com/gopilot-io/gopilot/config"
	"github.com/gopilot-io/gopilot/tub"
)

func newTestConfig() *config.Config {
	cfg := config.GetDefaultConfig()
	cfg.Image.Height = 6
	cfg.Image.Width = 8
	cfg.Model.CategoricalMaxThrottleRange = 0.8
	return cfg
}

func newTestRecord(t *testing.T, cfg *config.Config) *tub.Record {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "tub")
	require.NoError(t, mock.GenerateTub(dir, mock.TubOptions{
		NumRecords: 1,
		Height:     cfg.Image.Height,
		Width:      cfg.Image.Width,
		Seed:       7,
	}))
	loaded, err := tub.Open(dir)
	require.NoError(t, err)
	return loaded.Records[0]
}

func TestNewPilot(t *testing.T) {
	cfg := newTestConfig()
	for _, pilotType := range []string{TypeLinear, TypeCategorical, TypeInferred, TypeLatent} {
		p, err := NewPilot(pilotType, cfg)
		require.NoError(t, err)
		assert.Equal(t, pilotType, p.Type())
	}
	_, err := NewPilot("transformer", cfg)
	assert.True(t, errors.Is(err, errors.NotSupported))
}

func TestSchemaKeys(t *testing.T) {
	cfg := newTestConfig()
	expected := map[string][]string{
		TypeLinear:      {KeyOutput0, KeyOutput1},
		TypeCategorical: {KeyAngleOut, KeyThrottleOut},
		TypeInferred:    {KeyOutput0},
		TypeLatent:      {KeyImageOut, KeyOutput0, KeyOutput1},
	}
	for pilotType, keys := range expected {
		p, err := NewPilot(pilotType, cfg)
		require.NoError(t, err)
		inputs, outputs := p.OutputSchema()
		assert.True(t, mapset.NewSet(lo.Keys(inputs)...).Equal(mapset.NewSet(KeyImageIn)), pilotType)
		assert.True(t, mapset.NewSet(lo.Keys(outputs)...).Equal(mapset.NewSet(keys...)), pilotType)
	}
}

func TestTransformMatchesSchema(t *testing.T) {
	cfg := newTestConfig()
	r := newTestRecord(t, cfg)
	for _, pilotType := range []string{TypeLinear, TypeCategorical, TypeInferred, TypeLatent} {
		p, err := NewPilot(pilotType, cfg)
		require.NoError(t, err)
		inputs, outputs := p.OutputSchema()

		img, err := p.TransformInput(r)
		require.NoError(t, err)
		x := p.TranslateInput(tensor.NormalizeImage(img))
		for key, shape := range inputs {
			require.Contains(t, x, key, pilotType)
			assert.Equal(t, []int(shape), x[key].Shape(), pilotType)
		}

		rawY, err := p.TransformOutput(r)
		require.NoError(t, err)
		y, err := p.TranslateOutput(rawY)
		require.NoError(t, err)
		assert.Equal(t, len(outputs), len(y), pilotType)
		for key, shape := range outputs {
			require.Contains(t, y, key, pilotType)
			assert.Equal(t, []int(shape), y[key].Shape(), pilotType)
		}
	}
}

func TestTransformsArePure(t *testing.T) {
	cfg := newTestConfig()
	r := newTestRecord(t, cfg)
	for _, pilotType := range []string{TypeLinear, TypeCategorical, TypeInferred, TypeLatent} {
		p, err := NewPilot(pilotType, cfg)
		require.NoError(t, err)

		first, err := p.TransformInput(r)
		require.NoError(t, err)
		second, err := p.TransformInput(r)
		require.NoError(t, err)
		assert.Equal(t, first.Data(), second.Data(), pilotType)

		rawY1, err := p.TransformOutput(r)
		require.NoError(t, err)
		rawY2, err := p.TransformOutput(r)
		require.NoError(t, err)
		y1, err := p.TranslateOutput(rawY1)
		require.NoError(t, err)
		y2, err := p.TranslateOutput(rawY2)
		require.NoError(t, err)
		for key := range y1 {
			assert.Equal(t, y1[key].Data(), y2[key].Data(), pilotType)
		}
	}
}

func TestTransformInputShapeMismatch(t *testing.T) {
	cfg := newTestConfig()
	r := newTestRecord(t, cfg)
	// expected frame geometry disagrees with the recorded one
	cfg.Image.Height = 32
	p := NewLinear(cfg)
	_, err := p.TransformInput(r)
	assert.True(t, errors.Is(err, errors.NotValid))
}

func TestTranslateOutputMissingRawField(t *testing.T) {
	cfg := newTestConfig()
	p := NewLinear(cfg)
	_, err := p.TranslateOutput(map[string]*tensor.Tensor{})
	assert.True(t, errors.Is(err, errors.NotFound))
}

func TestLinearBin(t *testing.T) {
	// angle buckets: [-1, 1] over 15 bins
	assert.Equal(t, float32(1), LinearBin(-1, 15, 1, 2.0).Data()[0])
	assert.Equal(t, float32(1), LinearBin(0, 15, 1, 2.0).Data()[7])
	assert.Equal(t, float32(1), LinearBin(1, 15, 1, 2.0).Data()[14])
	// throttle buckets: [0, 0.8] over 20 bins
	assert.Equal(t, float32(1), LinearBin(0, 20, 0, 0.8).Data()[0])
	assert.Equal(t, float32(1), LinearBin(0.4, 20, 0, 0.8).Data()[10])
	// out-of-range values clamp into the edge buckets
	assert.Equal(t, float32(1), LinearBin(1.0, 20, 0, 0.8).Data()[19])
	assert.Equal(t, float32(1), LinearBin(-0.5, 20, 0, 0.8).Data()[0])
}
