// Package analytics serves historical performance figures for catalog
// instruments, derived from monthly close series.
package analytics

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/aristath/advisor/pkg/formulas"
)

// HistorySource fetches monthly closing prices for a symbol.
type HistorySource interface {
	GetMonthlyCloses(ctx context.Context, symbol string, years int) ([]float64, error)
}

// Service computes growth metrics from price history.
type Service struct {
	history HistorySource
	log     zerolog.Logger
}

// NewService creates an analytics service.
func NewService(history HistorySource, log zerolog.Logger) *Service {
	return &Service{
		history: history,
		log:     log.With().Str("component", "analytics").Logger(),
	}
}

// GrowthReport summarizes an instrument's historical performance.
type GrowthReport struct {
	Symbol      string   `json:"symbol"`
	Years       int      `json:"years"`
	Months      int      `json:"months"`
	CAGR        *float64 `json:"cagr"`
	FirstClose  float64  `json:"first_close"`
	LatestClose float64  `json:"latest_close"`
	TrendSMA    *float64 `json:"trend_sma,omitempty"`
	TrendEMA    *float64 `json:"trend_ema,omitempty"`
	Volatility  *float64 `json:"annualized_volatility,omitempty"`
}

// smaWindow is the lookback for the trend average, in months.
const smaWindow = 12

// Growth fetches up to years of monthly closes and computes the compound
// annual growth rate plus a 12-month simple moving average of the close.
func (s *Service) Growth(ctx context.Context, symbol string, years int) (*GrowthReport, error) {
	if years < 1 {
		years = 5
	}

	closes, err := s.history.GetMonthlyCloses(ctx, symbol, years)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history for %s: %w", symbol, err)
	}
	if len(closes) == 0 {
		return nil, fmt.Errorf("no price history for %s", symbol)
	}

	report := &GrowthReport{
		Symbol:      symbol,
		Years:       years,
		Months:      len(closes),
		CAGR:        formulas.CalculateCAGR(closes, len(closes)),
		FirstClose:  closes[0],
		LatestClose: closes[len(closes)-1],
	}

	if sma := formulas.CalculateSMA(closes, smaWindow); sma != nil {
		rounded := formulas.Round2(*sma)
		report.TrendSMA = &rounded
	}
	if ema := formulas.CalculateEMA(closes, smaWindow); ema != nil {
		rounded := formulas.Round2(*ema)
		report.TrendEMA = &rounded
	}
	report.Volatility = annualizedVolatility(closes)

	if report.CAGR == nil {
		s.log.Debug().
			Str("symbol", symbol).
			Int("months", len(closes)).
			Msg("History too short for CAGR")
	}

	return report, nil
}

// annualizedVolatility is the standard deviation of monthly returns scaled
// to a yearly figure, in percent. Needs at least three closes to say
// anything meaningful.
func annualizedVolatility(closes []float64) *float64 {
	if len(closes) < 3 {
		return nil
	}

	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] > 0 {
			returns = append(returns, closes[i]/closes[i-1]-1)
		}
	}
	if len(returns) < 2 {
		return nil
	}

	vol := formulas.Round2(formulas.StdDev(returns) * math.Sqrt(12) * 100)
	return &vol
}
