package allocation

import (
	"math"

	"github.com/rs/zerolog"
)

// RedistributionPolicy defines, for each excluded category, how its weight is
// split across the other categories. The shares for each excluded category
// must sum to 1. When a recipient is itself not preferred, the shares are
// renormalized over the preferred recipients only.
//
// The ratios are a product decision, not a derived quantity. Changing them
// changes live recommendations.
type RedistributionPolicy map[Category]map[Category]float64

// DefaultRedistributionPolicy routes excluded equity weight mostly into
// mutual funds, excluded fund weight mostly back into equity, and splits
// excluded ETF weight evenly.
var DefaultRedistributionPolicy = RedistributionPolicy{
	CategoryStocks: {
		CategoryMutualFunds: 0.70,
		CategoryETFs:        0.30,
	},
	CategoryMutualFunds: {
		CategoryStocks: 0.60,
		CategoryETFs:   0.40,
	},
	CategoryETFs: {
		CategoryStocks:      0.50,
		CategoryMutualFunds: 0.50,
	},
}

// Normalizer turns raw model outputs into a valid allocation: every weight
// non-negative, excluded categories exactly zero, and the total exactly 100
// (within two-decimal rounding).
type Normalizer struct {
	policy RedistributionPolicy
	log    zerolog.Logger
}

// NewNormalizer creates a normalizer with the given redistribution policy.
func NewNormalizer(policy RedistributionPolicy, log zerolog.Logger) *Normalizer {
	if policy == nil {
		policy = DefaultRedistributionPolicy
	}
	return &Normalizer{
		policy: policy,
		log:    log.With().Str("component", "allocation_normalizer").Logger(),
	}
}

// Normalize applies preference filters and rescales weights to sum to 100.
//
// Steps:
//  1. Clamp raw weights to >= 0.
//  2. Empty preferred set means every category is allowed.
//  3. Each non-preferred category's weight is moved to the preferred
//     categories per the redistribution policy, in stable category order.
//  4. If everything ends up zero, fall back to an equal split across the
//     preferred categories.
//  5. Rescale to 100 and round to two decimals. Rounding may leave the sum
//     at 100 +/- 0.02; that drift is accepted rather than forcing a residual
//     correction onto one category.
func (n *Normalizer) Normalize(raw Weights, preferred []Category) Weights {
	weights := make(Weights, len(Categories))
	for _, c := range Categories {
		weights[c] = math.Max(raw[c], 0)
	}

	allowed := preferredSet(preferred)

	for _, excluded := range Categories {
		if allowed[excluded] {
			continue
		}
		n.redistribute(weights, excluded, allowed)
	}

	total := weights.Sum()
	if total == 0 {
		n.log.Debug().Msg("all weights zero after filtering, falling back to equal split")
		return equalSplit(allowed)
	}

	out := make(Weights, len(weights))
	for c, w := range weights {
		out[c] = round2(w / total * 100)
	}
	return out
}

// redistribute moves the excluded category's weight onto the allowed
// categories, using policy shares renormalized over the allowed recipients.
func (n *Normalizer) redistribute(weights Weights, excluded Category, allowed map[Category]bool) {
	freed := weights[excluded]
	weights[excluded] = 0
	if freed == 0 {
		return
	}

	shares := n.policy[excluded]
	var shareTotal float64
	for recipient, share := range shares {
		if allowed[recipient] {
			shareTotal += share
		}
	}
	if shareTotal == 0 {
		// No preferred recipient in the policy table; the freed weight is
		// dropped and the equal-split fallback covers the degenerate case.
		return
	}

	for recipient, share := range shares {
		if allowed[recipient] {
			weights[recipient] += freed * share / shareTotal
		}
	}
}

// preferredSet expands the preferred slice into a lookup set. An empty
// preference list means every category is allowed.
func preferredSet(preferred []Category) map[Category]bool {
	allowed := make(map[Category]bool, len(Categories))
	if len(preferred) == 0 {
		for _, c := range Categories {
			allowed[c] = true
		}
		return allowed
	}
	for _, c := range preferred {
		allowed[c] = true
	}
	return allowed
}

// equalSplit assigns 100/k to each allowed category, zero to the rest.
func equalSplit(allowed map[Category]bool) Weights {
	var count int
	for _, c := range Categories {
		if allowed[c] {
			count++
		}
	}
	if count == 0 {
		count = len(Categories)
		for _, c := range Categories {
			allowed[c] = true
		}
	}

	out := make(Weights, len(Categories))
	share := round2(100.0 / float64(count))
	for _, c := range Categories {
		if allowed[c] {
			out[c] = share
		} else {
			out[c] = 0
		}
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
