package instruments

import (
	"context"
	"math"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/aristath/advisor/internal/modules/allocation"
)

// QuoteSource fetches a current price per unit for an exchange-traded symbol.
type QuoteSource interface {
	GetQuote(ctx context.Context, symbol string) (float64, error)
}

// NAVSource fetches the current NAV for a recurring-plan scheme code.
type NAVSource interface {
	GetNAV(ctx context.Context, schemeCode string) (float64, error)
}

// Selector picks instruments per category and converts rupee allocations
// into whole-unit purchases.
type Selector struct {
	quotes QuoteSource
	navs   NAVSource
	cache  *PriceCache
	log    zerolog.Logger
}

// NewSelector creates a selector. The cache is optional.
func NewSelector(quotes QuoteSource, navs NAVSource, cache *PriceCache, log zerolog.Logger) *Selector {
	return &Selector{
		quotes: quotes,
		navs:   navs,
		cache:  cache,
		log:    log.With().Str("component", "selector").Logger(),
	}
}

// Select picks candidates for the category, prices them, and allocates the
// category budget across them. Price lookups run concurrently; budget
// bookkeeping is then applied in fixed candidate order so results are
// reproducible regardless of fetch completion order.
func (s *Selector) Select(ctx context.Context, category allocation.Category, amount float64, sectorPrefs []string, risk string) Selection {
	if amount <= 0 {
		return Selection{Leftover: math.Max(amount, 0)}
	}

	candidates := s.candidatesFor(category, sectorPrefs, risk)
	outcomes := s.fetchPrices(ctx, category, candidates)
	return s.allocate(amount, candidates, outcomes)
}

// candidatesFor picks the catalog slice for a category.
func (s *Selector) candidatesFor(category allocation.Category, sectorPrefs []string, risk string) []Candidate {
	switch category {
	case allocation.CategoryStocks:
		return StocksForSectors(sectorPrefs)
	case allocation.CategoryMutualFunds:
		return FundsForRisk(risk)
	case allocation.CategoryETFs:
		return ETFPicks(risk)
	}
	return nil
}

// fetchPrices resolves prices for all candidates concurrently. A failed
// lookup yields an explicit not-OK outcome rather than an error for the
// whole batch.
func (s *Selector) fetchPrices(ctx context.Context, category allocation.Category, candidates []Candidate) map[string]PriceOutcome {
	outcomes := make([]PriceOutcome, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range candidates {
		i, c := i, c
		g.Go(func() error {
			outcomes[i] = s.lookup(gctx, category, c)
			return nil
		})
	}
	// Lookups never return errors; failures are encoded in the outcomes.
	_ = g.Wait()

	bySymbol := make(map[string]PriceOutcome, len(outcomes))
	for _, o := range outcomes {
		bySymbol[o.Symbol] = o
	}
	return bySymbol
}

// lookup resolves one candidate's price, consulting the cache first.
func (s *Selector) lookup(ctx context.Context, category allocation.Category, c Candidate) PriceOutcome {
	if s.cache != nil {
		if price, ok := s.cache.Get(c.Symbol); ok {
			return PriceOutcome{Symbol: c.Symbol, Price: price, OK: true}
		}
	}

	var price float64
	var err error
	if category == allocation.CategoryMutualFunds {
		price, err = s.navs.GetNAV(ctx, c.Symbol)
	} else {
		price, err = s.quotes.GetQuote(ctx, c.Symbol)
	}

	if err != nil || price <= 0 {
		s.log.Warn().
			Err(err).
			Str("symbol", c.Symbol).
			Float64("price", price).
			Msg("Price unavailable, skipping instrument")
		return PriceOutcome{Symbol: c.Symbol, OK: false}
	}

	if s.cache != nil {
		s.cache.Put(c.Symbol, price)
	}
	return PriceOutcome{Symbol: c.Symbol, Price: price, OK: true}
}

// allocate walks the candidates in order, giving each an even share of the
// remaining budget and buying whole units. Unspent remainder carries forward
// to later instruments in the same category, never across categories.
func (s *Selector) allocate(amount float64, candidates []Candidate, outcomes map[string]PriceOutcome) Selection {
	sel := Selection{}
	remaining := amount
	var invested float64

	for i, c := range candidates {
		outcome := outcomes[c.Symbol]
		if !outcome.OK {
			sel.Unavailable = append(sel.Unavailable, c.Symbol)
			continue
		}

		target := remaining / float64(len(candidates)-i)
		quantity := int(math.Floor(target / outcome.Price))

		// Never skip an affordable instrument solely due to rounding.
		if quantity == 0 && remaining >= outcome.Price {
			quantity = 1
		}
		if quantity == 0 {
			continue
		}

		// Bookkeeping runs on exact costs. Rounding the running balance can
		// misstate it by half a cent per instrument with 4-decimal NAVs,
		// which both skips affordable units and drives the leftover negative.
		cost := float64(quantity) * outcome.Price
		remaining -= cost
		invested += cost

		sel.Recommendations = append(sel.Recommendations, PricedRecommendation{
			Name:     c.Name,
			Symbol:   c.Symbol,
			Sector:   c.Sector,
			Tag:      c.Tag,
			Price:    outcome.Price,
			Quantity: quantity,
			Amount:   round2(cost),
		})
	}

	sel.Invested = round2(invested)
	sel.Leftover = math.Max(round2(remaining), 0)
	return sel
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
