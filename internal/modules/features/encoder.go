// Package features turns raw recommendation requests into the fixed-order
// numeric vectors the regressors were fit against.
package features

import "sort"

// FeatureCount is the width of the model input vector.
const FeatureCount = 7

// LabelEncoder maps categorical string values to numeric indices.
// Classes are stored in sorted order, fixed at fit time.
type LabelEncoder struct {
	Classes []string `msgpack:"classes"`
}

// NewLabelEncoder builds an encoder from the training vocabulary.
// The class list is sorted so the mapping is independent of input order.
func NewLabelEncoder(classes []string) *LabelEncoder {
	sorted := make([]string, len(classes))
	copy(sorted, classes)
	sort.Strings(sorted)
	return &LabelEncoder{Classes: sorted}
}

// Encode returns the numeric index of a class. A value outside the training
// vocabulary deterministically falls back to the first class. This keeps
// request handling from failing on novel input, at the cost of unseen values
// silently receiving default treatment.
func (e *LabelEncoder) Encode(value string) float64 {
	for i, c := range e.Classes {
		if c == value {
			return float64(i)
		}
	}
	return 0
}

// Decode returns the class at the given index.
func (e *LabelEncoder) Decode(index int) (string, bool) {
	if index < 0 || index >= len(e.Classes) {
		return "", false
	}
	return e.Classes[index], true
}

// Contains reports whether the value is in the training vocabulary.
func (e *LabelEncoder) Contains(value string) bool {
	for _, c := range e.Classes {
		if c == value {
			return true
		}
	}
	return false
}

// Encoder bundles the per-column label encoders for the categorical request
// fields.
type Encoder struct {
	Risk       *LabelEncoder `msgpack:"risk"`
	Goal       *LabelEncoder `msgpack:"goal"`
	Experience *LabelEncoder `msgpack:"experience"`
}

// Input is a raw recommendation request as seen by the feature encoder.
type Input struct {
	Income         float64
	AmountToInvest float64
	Horizon        int
	PreferredCount int
	Risk           string
	Goal           string
	Experience     string
}

// Vector builds the model input vector. Column order is part of the
// predictors' contract and must match the order used at fit time:
//
//	[income, amountToInvest, horizon, preferredCount, risk, goal, experience]
func (e *Encoder) Vector(in Input) []float64 {
	return []float64{
		in.Income,
		in.AmountToInvest,
		float64(in.Horizon),
		float64(in.PreferredCount),
		e.Risk.Encode(in.Risk),
		e.Goal.Encode(in.Goal),
		e.Experience.Encode(in.Experience),
	}
}
