package allocation

import (
	"math"
	"testing"

	"github.com/aristath/advisor/pkg/logger"
)

func testLog() *Normalizer {
	log := logger.New(logger.Config{Level: "error", Pretty: false})
	return NewNormalizer(nil, log)
}

func sumTolerance(t *testing.T, w Weights) {
	t.Helper()
	sum := w.Sum()
	if math.Abs(sum-100) > 0.02 {
		t.Errorf("weights sum = %.4f, want 100 +/- 0.02 (%v)", sum, w)
	}
	for c, v := range w {
		if v < 0 {
			t.Errorf("category %s has negative weight %.4f", c, v)
		}
	}
}

func TestNormalize_AllPreferredPassThrough(t *testing.T) {
	n := testLog()

	got := n.Normalize(Weights{
		CategoryStocks:      50,
		CategoryMutualFunds: 30,
		CategoryETFs:        20,
	}, nil)

	sumTolerance(t, got)
	if got[CategoryStocks] != 50 || got[CategoryMutualFunds] != 30 || got[CategoryETFs] != 20 {
		t.Errorf("expected pass-through rescale, got %v", got)
	}
}

func TestNormalize_RescalesToHundred(t *testing.T) {
	n := testLog()

	// Raw weights sum to 200; should be halved.
	got := n.Normalize(Weights{
		CategoryStocks:      100,
		CategoryMutualFunds: 60,
		CategoryETFs:        40,
	}, []Category{CategoryStocks, CategoryMutualFunds, CategoryETFs})

	sumTolerance(t, got)
	if got[CategoryStocks] != 50 {
		t.Errorf("Stocks = %.2f, want 50", got[CategoryStocks])
	}
}

func TestNormalize_SinglePreferredGetsEverything(t *testing.T) {
	n := testLog()

	for _, only := range Categories {
		got := n.Normalize(Weights{
			CategoryStocks:      40,
			CategoryMutualFunds: 35,
			CategoryETFs:        25,
		}, []Category{only})

		sumTolerance(t, got)
		if got[only] != 100 {
			t.Errorf("preferred %s = %.2f, want 100", only, got[only])
		}
		for _, c := range Categories {
			if c != only && got[c] != 0 {
				t.Errorf("excluded %s = %.2f, want 0", c, got[c])
			}
		}
	}
}

func TestNormalize_ExcludedWeightIsRedistributedNotDiscarded(t *testing.T) {
	n := testLog()

	// Excluding Stocks sends 70% of its weight to MutualFunds, 30% to ETFs.
	// Raw: Stocks 50, MF 30, ETF 20. After exclusion: MF 65, ETF 35.
	got := n.Normalize(Weights{
		CategoryStocks:      50,
		CategoryMutualFunds: 30,
		CategoryETFs:        20,
	}, []Category{CategoryMutualFunds, CategoryETFs})

	sumTolerance(t, got)
	if got[CategoryStocks] != 0 {
		t.Errorf("Stocks = %.2f, want 0", got[CategoryStocks])
	}
	if math.Abs(got[CategoryMutualFunds]-65) > 0.01 {
		t.Errorf("MutualFunds = %.2f, want 65", got[CategoryMutualFunds])
	}
	if math.Abs(got[CategoryETFs]-35) > 0.01 {
		t.Errorf("ETFs = %.2f, want 35", got[CategoryETFs])
	}
}

func TestNormalize_CascadingExclusion(t *testing.T) {
	n := testLog()

	// Only ETFs preferred: Stocks weight is split 70/30 between MF and ETFs,
	// but MF is excluded too so the full Stocks weight lands on ETFs, then
	// the MF pass moves everything else onto ETFs as well.
	got := n.Normalize(Weights{
		CategoryStocks:      80,
		CategoryMutualFunds: 15,
		CategoryETFs:        5,
	}, []Category{CategoryETFs})

	sumTolerance(t, got)
	if got[CategoryETFs] != 100 {
		t.Errorf("ETFs = %.2f, want 100", got[CategoryETFs])
	}
}

func TestNormalize_AllZeroFallsBackToEqualSplit(t *testing.T) {
	n := testLog()

	got := n.Normalize(Weights{}, nil)
	sumTolerance(t, got)
	for _, c := range Categories {
		if math.Abs(got[c]-33.33) > 0.01 {
			t.Errorf("%s = %.2f, want 33.33", c, got[c])
		}
	}

	// Zero weights with two preferred categories: 50/50
	got = n.Normalize(Weights{}, []Category{CategoryStocks, CategoryETFs})
	sumTolerance(t, got)
	if got[CategoryStocks] != 50 || got[CategoryETFs] != 50 {
		t.Errorf("expected 50/50 split, got %v", got)
	}
	if got[CategoryMutualFunds] != 0 {
		t.Errorf("MutualFunds = %.2f, want 0", got[CategoryMutualFunds])
	}
}

func TestNormalize_NegativeWeightsClampedBeforeRedistribution(t *testing.T) {
	n := testLog()

	got := n.Normalize(Weights{
		CategoryStocks:      -20,
		CategoryMutualFunds: 60,
		CategoryETFs:        40,
	}, nil)

	sumTolerance(t, got)
	if got[CategoryStocks] != 0 {
		t.Errorf("Stocks = %.2f, want 0 after clamping", got[CategoryStocks])
	}
	if got[CategoryMutualFunds] != 60 || got[CategoryETFs] != 40 {
		t.Errorf("expected 60/40 after clamp and rescale, got %v", got)
	}
}

func TestNormalize_AllNegativeFallsBack(t *testing.T) {
	n := testLog()

	got := n.Normalize(Weights{
		CategoryStocks:      -5,
		CategoryMutualFunds: -3,
		CategoryETFs:        -1,
	}, []Category{CategoryStocks})

	sumTolerance(t, got)
	if got[CategoryStocks] != 100 {
		t.Errorf("Stocks = %.2f, want 100 from equal-split fallback", got[CategoryStocks])
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in   string
		want Category
		ok   bool
	}{
		{"Stocks", CategoryStocks, true},
		{"stocks", CategoryStocks, true},
		{"SIPs", CategoryMutualFunds, true},
		{"Mutual Funds", CategoryMutualFunds, true},
		{"MutualFunds", CategoryMutualFunds, true},
		{"ETFs", CategoryETFs, true},
		{" etf ", CategoryETFs, true},
		{"crypto", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseCategory(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseCategory(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParsePreferred_DeduplicatesAndDropsUnknown(t *testing.T) {
	got := ParsePreferred([]string{"Stocks", "SIPs", "Mutual Funds", "bogus", "stocks"})
	if len(got) != 2 {
		t.Fatalf("expected 2 categories, got %v", got)
	}
	if got[0] != CategoryStocks || got[1] != CategoryMutualFunds {
		t.Errorf("unexpected categories: %v", got)
	}
}
