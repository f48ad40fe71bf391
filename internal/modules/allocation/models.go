package allocation

import "strings"

// Category is an instrument category the allocation models were trained on.
type Category string

const (
	CategoryStocks      Category = "Stocks"
	CategoryMutualFunds Category = "MutualFunds"
	CategoryETFs        Category = "ETFs"
)

// Categories lists all categories in their stable processing order.
// The order matters: preference exclusion passes cascade deterministically.
var Categories = []Category{CategoryStocks, CategoryMutualFunds, CategoryETFs}

// Weights maps each category to its allocation weight.
type Weights map[Category]float64

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	var total float64
	for _, v := range w {
		total += v
	}
	return total
}

// categoryAliases maps user-facing spellings to canonical categories.
// Requests historically used "SIPs" and "Mutual Funds" interchangeably.
var categoryAliases = map[string]Category{
	"stocks":       CategoryStocks,
	"stock":        CategoryStocks,
	"equity":       CategoryStocks,
	"mutualfunds":  CategoryMutualFunds,
	"mutual funds": CategoryMutualFunds,
	"sips":         CategoryMutualFunds,
	"sip":          CategoryMutualFunds,
	"etfs":         CategoryETFs,
	"etf":          CategoryETFs,
}

// ParseCategory resolves a user-supplied instrument type to a canonical
// category. The second return value reports whether the value was recognized.
func ParseCategory(s string) (Category, bool) {
	c, ok := categoryAliases[strings.ToLower(strings.TrimSpace(s))]
	return c, ok
}

// ParsePreferred resolves a list of user-supplied instrument types to a
// de-duplicated set of canonical categories. Unrecognized values are dropped.
func ParsePreferred(types []string) []Category {
	seen := make(map[Category]bool, len(types))
	var out []Category
	for _, t := range types {
		c, ok := ParseCategory(t)
		if !ok || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
