package formulas

import "math"

// CalculateCAGR calculates the Compound Annual Growth Rate from a series of
// monthly closing prices, oldest first.
//
// Formula: CAGR = (Ending Value / Beginning Value)^(1/years) - 1
//
// Returns nil when there is not enough data to produce a meaningful number.
func CalculateCAGR(prices []float64, months int) *float64 {
	const minMonthsForCAGR = 12

	if len(prices) < minMonthsForCAGR {
		return nil
	}

	useMonths := months
	if useMonths > len(prices) {
		useMonths = len(prices)
	}

	slice := prices[len(prices)-useMonths:]
	startPrice := slice[0]
	endPrice := slice[len(slice)-1]

	if startPrice <= 0 || endPrice <= 0 {
		return nil
	}

	years := float64(useMonths) / 12.0

	// For very short periods, fall back to the simple return
	if years < 0.25 {
		result := (endPrice / startPrice) - 1
		return &result
	}

	cagr := math.Pow(endPrice/startPrice, 1/years) - 1
	return &cagr
}
