package prediction

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/advisor/internal/modules/features"
	"github.com/aristath/advisor/pkg/logger"
)

func trainedBundle(t *testing.T) *Bundle {
	t.Helper()
	log := logger.New(logger.Config{Level: "error", Pretty: false})
	trainer := NewTrainer(2000, 42, log)
	bundle, err := trainer.Train()
	require.NoError(t, err)
	return bundle
}

func TestFitLinear_RecoversKnownCoefficients(t *testing.T) {
	// y = 3 + 2*x0 - x1, exactly linear, so the fit should be exact.
	rows := [][]float64{
		{1, 1}, {2, 1}, {3, 2}, {4, 5}, {5, 3}, {0, 2},
	}
	targets := make([][]float64, len(rows))
	for i, r := range rows {
		targets[i] = []float64{3 + 2*r[0] - r[1]}
	}

	model, err := FitLinear(rows, targets)
	require.NoError(t, err)

	assert.InDelta(t, 3, model.Intercept[0], 1e-8)
	assert.InDelta(t, 2, model.Coef[0][0], 1e-8)
	assert.InDelta(t, -1, model.Coef[0][1], 1e-8)

	pred := model.Predict([]float64{10, 4})
	assert.InDelta(t, 3+20-4, pred[0], 1e-8)
}

func TestFitLinear_Errors(t *testing.T) {
	_, err := FitLinear(nil, nil)
	assert.Error(t, err)

	_, err = FitLinear([][]float64{{1, 2}}, [][]float64{{1}, {2}})
	assert.Error(t, err)
}

func TestTrainer_ProducesServableBundle(t *testing.T) {
	bundle := trainedBundle(t)

	assert.Equal(t, 2000, bundle.Samples)
	assert.NotEmpty(t, bundle.Version)
	assert.Equal(t, 3, bundle.AllocationModel.Outputs())
	assert.Equal(t, 1, bundle.ReturnModel.Outputs())

	vec := bundle.Encoders.Vector(features.Input{
		Income:         50000,
		AmountToInvest: 5000,
		Horizon:        10,
		PreferredCount: 2,
		Risk:           "high",
		Goal:           "Wealth Creation",
		Experience:     "Expert",
	})
	require.Len(t, vec, features.FeatureCount)

	ret := bundle.PredictReturn(vec)
	assert.GreaterOrEqual(t, ret, MinExpectedReturn)
	assert.LessOrEqual(t, ret, MaxExpectedReturn)

	// High risk, long horizon, expert: the learned advisor should lean
	// clearly toward equity.
	stocks, funds, etfs := bundle.PredictAllocation(vec)
	assert.Greater(t, stocks, funds)
	assert.Greater(t, stocks, etfs)
}

func TestTrainer_Deterministic(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Pretty: false})

	b1, err := NewTrainer(500, 7, log).Train()
	require.NoError(t, err)
	b2, err := NewTrainer(500, 7, log).Train()
	require.NoError(t, err)

	// Same seed, same dataset, same coefficients.
	for o := range b1.AllocationModel.Coef {
		for j := range b1.AllocationModel.Coef[o] {
			assert.InDelta(t, b1.AllocationModel.Coef[o][j], b2.AllocationModel.Coef[o][j], 1e-9)
		}
	}
}

func TestBundle_SaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	bundle := trainedBundle(t)

	require.NoError(t, bundle.Save(dir))

	loaded, err := LoadBundle(dir)
	require.NoError(t, err)

	assert.Equal(t, bundle.Version, loaded.Version)
	assert.Equal(t, bundle.Samples, loaded.Samples)

	vec := bundle.Encoders.Vector(features.Input{
		Income: 80000, AmountToInvest: 8000, Horizon: 5,
		PreferredCount: 3, Risk: "medium", Goal: "Retirement", Experience: "Beginner",
	})
	assert.InDelta(t, bundle.PredictReturn(vec), loaded.PredictReturn(vec), 1e-9)

	s1, f1, e1 := bundle.PredictAllocation(vec)
	s2, f2, e2 := loaded.PredictAllocation(vec)
	assert.InDelta(t, s1, s2, 1e-9)
	assert.InDelta(t, f1, f2, 1e-9)
	assert.InDelta(t, e1, e2, 1e-9)
}

func TestLoadBundle_MissingFile(t *testing.T) {
	_, err := LoadBundle(t.TempDir())
	assert.Error(t, err)
}

func TestHolder_Swap(t *testing.T) {
	b1 := &Bundle{Version: "v1"}
	b2 := &Bundle{Version: "v2"}

	holder := NewHolder(b1)
	assert.Equal(t, "v1", holder.Get().Version)

	old := holder.Swap(b2)
	assert.Equal(t, "v1", old.Version)
	assert.Equal(t, "v2", holder.Get().Version)
}

func TestBundle_ReturnClampBand(t *testing.T) {
	// A bundle with extreme coefficients must still clamp into the band.
	bundle := &Bundle{
		Scaler: &features.StandardScaler{
			Mean:  make([]float64, features.FeatureCount),
			Scale: []float64{1, 1, 1, 1, 1, 1, 1},
		},
		ReturnModel: &LinearModel{
			Intercept: []float64{1000},
			Coef:      [][]float64{make([]float64, features.FeatureCount)},
		},
	}

	got := bundle.PredictReturn(make([]float64, features.FeatureCount))
	assert.Equal(t, MaxExpectedReturn, got)

	bundle.ReturnModel.Intercept[0] = -1000
	got = bundle.PredictReturn(make([]float64, features.FeatureCount))
	assert.Equal(t, MinExpectedReturn, got)

	if math.IsNaN(got) {
		t.Fatal("clamped prediction must not be NaN")
	}
}
