package recommendation

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/aristath/advisor/internal/modules/allocation"
	"github.com/aristath/advisor/internal/modules/features"
	"github.com/aristath/advisor/internal/modules/instruments"
	"github.com/aristath/advisor/internal/modules/prediction"
	"github.com/aristath/advisor/pkg/formulas"
)

// Service runs the recommendation pipeline. It holds no per-request state;
// the only shared state is the immutable model bundle behind the holder.
type Service struct {
	models        *prediction.Holder
	normalizer    *allocation.Normalizer
	selector      *instruments.Selector
	repo          *Repository
	inflationRate float64
	log           zerolog.Logger
}

// NewService creates the recommendation service. The repository is optional;
// without it results are not persisted.
func NewService(
	models *prediction.Holder,
	normalizer *allocation.Normalizer,
	selector *instruments.Selector,
	repo *Repository,
	inflationRate float64,
	log zerolog.Logger,
) *Service {
	return &Service{
		models:        models,
		normalizer:    normalizer,
		selector:      selector,
		repo:          repo,
		inflationRate: inflationRate,
		log:           log.With().Str("component", "recommendation").Logger(),
	}
}

// Recommend runs the full pipeline for one validated request.
func (s *Service) Recommend(ctx context.Context, req Request) (*Result, error) {
	req.ApplyDefaults()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// One bundle read per request: retrains swap the handle, they never
	// mutate a bundle we already hold.
	bundle := s.models.Get()

	preferred := req.Preferred()
	vector := bundle.Encoders.Vector(features.Input{
		Income:         req.Income,
		AmountToInvest: req.AmountToInvest,
		Horizon:        req.Horizon,
		PreferredCount: len(preferred),
		Risk:           req.Risk,
		Goal:           req.Goal,
		Experience:     req.Experience,
	})

	expectedReturn := formulas.Round2(bundle.PredictReturn(vector))
	rawStocks, rawFunds, rawETFs := bundle.PredictAllocation(vector)

	weights := s.normalizer.Normalize(allocation.Weights{
		allocation.CategoryStocks:      rawStocks,
		allocation.CategoryMutualFunds: rawFunds,
		allocation.CategoryETFs:        rawETFs,
	}, preferred)

	projection := formulas.FutureValue(req.AmountToInvest, expectedReturn, req.Horizon)

	result := &Result{
		ExpectedReturn:  expectedReturn,
		FutureValue:     projection.FutureValue,
		TotalPrincipal:  projection.Principal,
		Profit:          projection.Profit,
		RealValue:       formulas.AdjustForInflation(projection.FutureValue, s.inflationRate, req.Horizon),
		Allocations:     make(map[string]float64, len(allocation.Categories)),
		Recommendations: make(map[string][]instruments.PricedRecommendation, len(allocation.Categories)),
		ModelVersion:    bundle.Version,
	}

	// Rounded weights may sum to slightly more than 100, so per-category
	// budgets are capped against what is still unallocated. The total handed
	// to the selector can never exceed the requested amount.
	budgetLeft := req.AmountToInvest
	for _, category := range allocation.Categories {
		weight := weights[category]
		result.Allocations[string(category)] = weight

		amount := math.Floor(req.AmountToInvest*weight) / 100 // weight is a percentage
		if amount > budgetLeft {
			amount = budgetLeft
		}
		budgetLeft = formulas.Round2(budgetLeft - amount)

		sel := s.selector.Select(ctx, category, amount, req.Sectors, req.Risk)

		recs := sel.Recommendations
		if recs == nil {
			recs = []instruments.PricedRecommendation{}
		}
		result.Recommendations[string(category)] = recs
		result.TotalInvested = formulas.Round2(result.TotalInvested + sel.Invested)

		if len(sel.Unavailable) > 0 {
			if result.Unavailable == nil {
				result.Unavailable = make(map[string][]string)
			}
			result.Unavailable[string(category)] = sel.Unavailable
		}
	}

	result.UninvestedAmount = formulas.Round2(req.AmountToInvest - result.TotalInvested)
	if result.UninvestedAmount < 0 {
		// The selector never overspends a category budget; a negative
		// remainder here is an internal bug, not a market condition.
		return nil, fmt.Errorf("internal error: uninvested amount is negative (%.2f)", result.UninvestedAmount)
	}

	if s.repo != nil {
		if err := s.repo.Save(req, result); err != nil {
			s.log.Warn().Err(err).Msg("Failed to persist recommendation")
		}
	}

	s.log.Info().
		Float64("expected_return", result.ExpectedReturn).
		Float64("total_invested", result.TotalInvested).
		Float64("uninvested", result.UninvestedAmount).
		Str("model_version", result.ModelVersion).
		Msg("Recommendation generated")

	return result, nil
}
