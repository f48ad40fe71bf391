package instruments

import (
	"context"
	"fmt"
	"testing"

	"github.com/aristath/advisor/internal/modules/allocation"
	"github.com/aristath/advisor/pkg/logger"
)

// fakeQuotes serves fixed prices and records lookups. Symbols in the fail
// set return an error; symbols in the zero set return a non-positive price.
type fakeQuotes struct {
	prices map[string]float64
	fail   map[string]bool
	zero   map[string]bool
}

func (f *fakeQuotes) GetQuote(ctx context.Context, symbol string) (float64, error) {
	if f.fail[symbol] {
		return 0, fmt.Errorf("feed down for %s", symbol)
	}
	if f.zero[symbol] {
		return 0, nil
	}
	if p, ok := f.prices[symbol]; ok {
		return p, nil
	}
	return 100, nil
}

func (f *fakeQuotes) GetNAV(ctx context.Context, code string) (float64, error) {
	return f.GetQuote(ctx, code)
}

func newTestSelector(q *fakeQuotes) *Selector {
	log := logger.New(logger.Config{Level: "error", Pretty: false})
	return NewSelector(q, q, nil, log)
}

func TestSelect_WholeUnitsOnlyAndBudgetRespected(t *testing.T) {
	q := &fakeQuotes{prices: map[string]float64{
		"RELIANCE.NS": 2900, "TCS.NS": 4100, "HDFCBANK.NS": 1650, "ITC.NS": 440,
	}}
	sel := newTestSelector(q)

	amount := 10000.0
	got := sel.Select(context.Background(), allocation.CategoryStocks, amount, nil, "medium")

	if got.Invested > amount {
		t.Errorf("invested %.2f exceeds budget %.2f", got.Invested, amount)
	}
	if got.Leftover < 0 {
		t.Errorf("leftover is negative: %.2f", got.Leftover)
	}

	var total float64
	for _, rec := range got.Recommendations {
		if rec.Quantity <= 0 {
			t.Errorf("%s has non-positive quantity %d", rec.Symbol, rec.Quantity)
		}
		want := float64(rec.Quantity) * rec.Price
		if diff := rec.Amount - want; diff > 0.01 || diff < -0.01 {
			t.Errorf("%s amount %.2f != quantity*price %.2f", rec.Symbol, rec.Amount, want)
		}
		total += rec.Amount
	}
	if diff := total - got.Invested; diff > 0.01 || diff < -0.01 {
		t.Errorf("invested %.2f does not match sum of amounts %.2f", got.Invested, total)
	}
	if diff := got.Invested + got.Leftover - amount; diff > 0.05 || diff < -0.05 {
		t.Errorf("invested + leftover = %.2f, want %.2f", got.Invested+got.Leftover, amount)
	}
}

func TestSelect_FeedFailureDegradesGracefully(t *testing.T) {
	q := &fakeQuotes{
		prices: map[string]float64{"RELIANCE.NS": 2900, "HDFCBANK.NS": 1650, "ITC.NS": 440},
		fail:   map[string]bool{"TCS.NS": true},
	}
	sel := newTestSelector(q)

	got := sel.Select(context.Background(), allocation.CategoryStocks, 20000, nil, "medium")

	if len(got.Recommendations) == 0 {
		t.Fatal("expected recommendations for surviving instruments")
	}
	for _, rec := range got.Recommendations {
		if rec.Symbol == "TCS.NS" {
			t.Error("failed instrument must not appear in recommendations")
		}
	}

	found := false
	for _, sym := range got.Unavailable {
		if sym == "TCS.NS" {
			found = true
		}
	}
	if !found {
		t.Errorf("TCS.NS should be reported unavailable, got %v", got.Unavailable)
	}
}

func TestSelect_NonPositivePriceSkipped(t *testing.T) {
	q := &fakeQuotes{
		prices: map[string]float64{"RELIANCE.NS": 2900},
		zero:   map[string]bool{"TCS.NS": true, "HDFCBANK.NS": true, "ITC.NS": true},
	}
	sel := newTestSelector(q)

	got := sel.Select(context.Background(), allocation.CategoryStocks, 10000, nil, "medium")

	if len(got.Recommendations) != 1 || got.Recommendations[0].Symbol != "RELIANCE.NS" {
		t.Errorf("expected only RELIANCE.NS, got %+v", got.Recommendations)
	}
	if len(got.Unavailable) != 3 {
		t.Errorf("expected 3 unavailable symbols, got %v", got.Unavailable)
	}
}

func TestSelect_ForcedSingleUnitWhenAffordable(t *testing.T) {
	// Per-instrument even split would be 2500 each, below the 2900 price,
	// but the budget covers one unit so the selector must buy it.
	q := &fakeQuotes{prices: map[string]float64{
		"RELIANCE.NS": 2900, "TCS.NS": 4100, "HDFCBANK.NS": 1650, "ITC.NS": 440,
	}}
	sel := newTestSelector(q)

	got := sel.Select(context.Background(), allocation.CategoryStocks, 3000, nil, "medium")

	bought := make(map[string]int)
	for _, rec := range got.Recommendations {
		bought[rec.Symbol] = rec.Quantity
	}
	if bought["RELIANCE.NS"] != 1 {
		t.Errorf("expected forced single unit of RELIANCE.NS, got %+v", bought)
	}
	if got.Invested > 3000 {
		t.Errorf("invested %.2f exceeds budget", got.Invested)
	}
}

func TestSelect_FractionalPricesUseExactCosts(t *testing.T) {
	// A 2.675 unit cost rounds up to 2.68 on the ledger. If the running
	// balance were kept in rounded terms, the third unit would look
	// unaffordable and the leftover could land below zero.
	q := &fakeQuotes{
		prices: map[string]float64{"RELIANCE.NS": 2.675, "TCS.NS": 2.675, "HDFCBANK.NS": 2.675},
		fail:   map[string]bool{"ITC.NS": true},
	}
	sel := newTestSelector(q)

	got := sel.Select(context.Background(), allocation.CategoryStocks, 8.03, nil, "medium")

	if len(got.Recommendations) != 3 {
		t.Fatalf("expected 3 purchases, got %+v", got.Recommendations)
	}
	for _, rec := range got.Recommendations {
		if rec.Quantity != 1 {
			t.Errorf("%s quantity = %d, want 1", rec.Symbol, rec.Quantity)
		}
	}
	if got.Invested > 8.03 {
		t.Errorf("invested %.4f exceeds budget", got.Invested)
	}
	if got.Leftover < 0 {
		t.Errorf("leftover is negative: %.4f", got.Leftover)
	}
}

func TestSelect_ZeroAmount(t *testing.T) {
	q := &fakeQuotes{}
	sel := newTestSelector(q)

	got := sel.Select(context.Background(), allocation.CategoryStocks, 0, nil, "medium")
	if len(got.Recommendations) != 0 || got.Invested != 0 {
		t.Errorf("zero budget must produce no purchases, got %+v", got)
	}
}

func TestStocksForSectors(t *testing.T) {
	// Sector preference: at least one representative per sector plus the
	// diversified fallback.
	got := StocksForSectors([]string{"IT", "Banking"})

	sectors := make(map[string]bool)
	hasFallback := false
	for _, c := range got {
		sectors[c.Sector] = true
		if c.Symbol == diversifiedFallback.Symbol {
			hasFallback = true
		}
	}
	if !sectors["IT"] || !sectors["Banking"] {
		t.Errorf("missing requested sector representation: %+v", got)
	}
	if !hasFallback {
		t.Error("diversified fallback must always be present")
	}

	// No preference: curated defaults.
	if got := StocksForSectors(nil); len(got) != len(defaultStockPicks) {
		t.Errorf("expected default picks, got %d candidates", len(got))
	}
}

func TestResolveSectors_Aliases(t *testing.T) {
	got := ResolveSectors([]string{"Healthcare", "Tech", "unknown"})

	want := map[string]bool{"Health": true, "Pharma": true, "IT": true}
	if len(got) != len(want) {
		t.Fatalf("ResolveSectors = %v, want keys %v", got, want)
	}
	for _, s := range got {
		if !want[s] {
			t.Errorf("unexpected sector %q", s)
		}
	}
}

func TestFundsForRisk_Compatibility(t *testing.T) {
	tests := []struct {
		risk        string
		disallowed  string
		wantAtLeast int
	}{
		{"low", "high", 2},
		{"high", "low", 2},
		{"medium", "", 3},
		{"bogus", "", 3}, // unknown tier treated as medium
	}

	for _, tt := range tests {
		t.Run(tt.risk, func(t *testing.T) {
			got := FundsForRisk(tt.risk)
			if len(got) < tt.wantAtLeast {
				t.Fatalf("expected at least %d funds, got %d", tt.wantAtLeast, len(got))
			}
			for _, f := range got {
				if tt.disallowed != "" && f.Risk == tt.disallowed {
					t.Errorf("risk %q fund %s not compatible with %q tier", f.Risk, f.Name, tt.risk)
				}
			}
		})
	}
}

func TestETFPicks_AlwaysIncludesIndexCore(t *testing.T) {
	for _, risk := range []string{"low", "medium", "high"} {
		got := ETFPicks(risk)
		if len(got) == 0 || got[0].Symbol != "NIFTYBEES.NS" {
			t.Errorf("risk %s: index core missing from %+v", risk, got)
		}
	}
}
