package prediction

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/advisor/internal/modules/features"
)

// Training vocabularies. These are the categorical values the encoders are
// fit against; request values outside them get the deterministic fallback.
var (
	riskLevels  = []string{"low", "medium", "high"}
	goals       = []string{"Wealth Creation", "Retirement", "Child Education", "Short-Term Gains"}
	experiences = []string{"Beginner", "Intermediate", "Expert"}
)

// Trainer fits a fresh model bundle from a synthetic advisor dataset.
type Trainer struct {
	samples int
	seed    int64
	log     zerolog.Logger
}

// NewTrainer creates a trainer.
func NewTrainer(samples int, seed int64, log zerolog.Logger) *Trainer {
	return &Trainer{
		samples: samples,
		seed:    seed,
		log:     log.With().Str("component", "trainer").Logger(),
	}
}

// sample is one synthetic training row.
type sample struct {
	income         float64
	amount         float64
	horizon        int
	preferredCount int
	risk           string
	goal           string
	experience     string
	stockAlloc     float64
	fundAlloc      float64
	etfAlloc       float64
	expectedReturn float64
}

// Train generates the synthetic dataset, fits the scaler and both
// regressors, and returns a ready-to-serve bundle.
func (t *Trainer) Train() (*Bundle, error) {
	start := time.Now()
	rng := rand.New(rand.NewSource(t.seed))

	samples := t.generate(rng)

	encoders := &features.Encoder{
		Risk:       features.NewLabelEncoder(riskLevels),
		Goal:       features.NewLabelEncoder(goals),
		Experience: features.NewLabelEncoder(experiences),
	}

	rows := make([][]float64, len(samples))
	returnTargets := make([][]float64, len(samples))
	allocTargets := make([][]float64, len(samples))
	for i, s := range samples {
		rows[i] = encoders.Vector(features.Input{
			Income:         s.income,
			AmountToInvest: s.amount,
			Horizon:        s.horizon,
			PreferredCount: s.preferredCount,
			Risk:           s.risk,
			Goal:           s.goal,
			Experience:     s.experience,
		})
		returnTargets[i] = []float64{s.expectedReturn}
		allocTargets[i] = []float64{s.stockAlloc, s.fundAlloc, s.etfAlloc}
	}

	scaler := features.FitScaler(rows)
	scaled := scaler.TransformAll(rows)

	returnModel, err := FitLinear(scaled, returnTargets)
	if err != nil {
		return nil, fmt.Errorf("failed to fit return model: %w", err)
	}

	allocationModel, err := FitLinear(scaled, allocTargets)
	if err != nil {
		return nil, fmt.Errorf("failed to fit allocation model: %w", err)
	}

	bundle := &Bundle{
		Version:         uuid.New().String(),
		TrainedAt:       time.Now().UTC(),
		Samples:         len(samples),
		Encoders:        encoders,
		Scaler:          scaler,
		ReturnModel:     returnModel,
		AllocationModel: allocationModel,
	}

	t.log.Info().
		Int("samples", len(samples)).
		Str("version", bundle.Version).
		Dur("elapsed", time.Since(start)).
		Msg("Model bundle trained")

	return bundle, nil
}

// generate produces the synthetic dataset: rule-based advisor allocations
// with gaussian noise, plus a synthesized expected return clipped into the
// serving clamp band.
func (t *Trainer) generate(rng *rand.Rand) []sample {
	samples := make([]sample, 0, t.samples)

	for i := 0; i < t.samples; i++ {
		income := 15000 + rng.Float64()*(200000-15000)
		maxAmount := math.Min(income*0.5, 100000)
		amount := 1000 + rng.Float64()*(maxAmount-1000)
		horizon := 1 + rng.Intn(20)
		preferredCount := rng.Intn(4)

		risk := riskLevels[rng.Intn(len(riskLevels))]
		goal := goals[rng.Intn(len(goals))]
		experience := experiences[rng.Intn(len(experiences))]

		alloc := baseAllocation(risk, horizon, goal, experience)
		for k := range alloc {
			alloc[k] += rng.NormFloat64() * 5
		}
		stocks, funds, etfs := normalizeRow(alloc)

		baseReturn := map[string]float64{"low": 8, "medium": 12, "high": 18}[risk]
		horizonBonus := math.Min(float64(horizon)*0.5, 5)
		experienceBonus := map[string]float64{"Beginner": 0, "Intermediate": 1.5, "Expert": 3}[experience]

		expectedReturn := baseReturn + horizonBonus + experienceBonus
		expectedReturn += stocks * 0.05
		expectedReturn -= etfs * 0.02
		expectedReturn += rng.NormFloat64()
		expectedReturn = math.Max(MinExpectedReturn, math.Min(MaxExpectedReturn, expectedReturn))

		samples = append(samples, sample{
			income:         income,
			amount:         amount,
			horizon:        horizon,
			preferredCount: preferredCount,
			risk:           risk,
			goal:           goal,
			experience:     experience,
			stockAlloc:     stocks,
			fundAlloc:      funds,
			etfAlloc:       etfs,
			expectedReturn: expectedReturn,
		})
	}

	return samples
}

// baseAllocation encodes the rule-based advisor the models learn from.
func baseAllocation(risk string, horizon int, goal, experience string) map[string]float64 {
	alloc := map[string]float64{"stocks": 0, "funds": 0, "etfs": 0}

	switch risk {
	case "low":
		alloc["funds"] = 60
		alloc["etfs"] = 30
		alloc["stocks"] = 10
	case "medium":
		alloc["funds"] = 40
		alloc["stocks"] = 40
		alloc["etfs"] = 20
	default: // high
		alloc["stocks"] = 70
		alloc["funds"] = 20
		alloc["etfs"] = 10
	}

	if horizon >= 10 {
		alloc["stocks"] += 10
		alloc["funds"] += 5
		alloc["etfs"] -= 15
	} else if horizon <= 3 {
		alloc["etfs"] += 20
		alloc["stocks"] -= 15
		alloc["funds"] -= 5
	}

	switch goal {
	case "Retirement":
		alloc["funds"] += 10
		alloc["stocks"] += 5
	case "Child Education":
		alloc["funds"] += 10
	case "Short-Term Gains":
		alloc["etfs"] += 15
		alloc["stocks"] += 5
	}

	switch experience {
	case "Beginner":
		alloc["funds"] += 10
		alloc["stocks"] -= 10
	case "Expert":
		alloc["stocks"] += 10
	}

	return alloc
}

// normalizeRow clamps negatives and rescales a training row to sum to 100.
func normalizeRow(alloc map[string]float64) (stocks, funds, etfs float64) {
	stocks = math.Max(alloc["stocks"], 0)
	funds = math.Max(alloc["funds"], 0)
	etfs = math.Max(alloc["etfs"], 0)

	total := stocks + funds + etfs
	if total == 0 {
		return 33.33, 33.33, 33.33
	}

	return stocks / total * 100, funds / total * 100, etfs / total * 100
}
