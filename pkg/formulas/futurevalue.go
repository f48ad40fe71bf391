package formulas

import "math"

// FutureValueResult holds the outcome of a recurring-contribution projection
type FutureValueResult struct {
	FutureValue float64 `json:"future_value"`
	Principal   float64 `json:"total_principal"`
	Profit      float64 `json:"profit"`
}

// FutureValue projects the value of a fixed monthly contribution compounded
// monthly at the given annual rate over the given number of years.
//
// Formula:
//
//	r = annualReturnPercent / 100 / 12
//	n = years * 12
//	FV = P * (((1+r)^n - 1) / r) * (1+r)
//
// When the rate is zero the future value is simply the sum of contributions.
func FutureValue(monthlyAmount, annualReturnPercent float64, years int) FutureValueResult {
	n := years * 12
	principal := monthlyAmount * float64(n)

	monthlyRate := annualReturnPercent / 100 / 12
	if monthlyRate == 0 {
		return FutureValueResult{
			FutureValue: Round2(principal),
			Principal:   Round2(principal),
			Profit:      0,
		}
	}

	fv := monthlyAmount * ((math.Pow(1+monthlyRate, float64(n)) - 1) / monthlyRate) * (1 + monthlyRate)

	return FutureValueResult{
		FutureValue: Round2(fv),
		Principal:   Round2(principal),
		Profit:      Round2(fv - principal),
	}
}

// AdjustForInflation deflates a future value back to today's purchasing power
// at the given annual inflation rate (decimal, e.g. 0.05).
func AdjustForInflation(futureValue, inflationRate float64, years int) float64 {
	return Round2(futureValue / math.Pow(1+inflationRate, float64(years)))
}
