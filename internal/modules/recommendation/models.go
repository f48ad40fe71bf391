// Package recommendation composes the full advice pipeline: validation,
// feature encoding, prediction, normalization, projection, instrument
// selection, and persistence.
package recommendation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aristath/advisor/internal/modules/allocation"
	"github.com/aristath/advisor/internal/modules/instruments"
)

// ValidationError marks request errors so handlers can map them to 400s.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

// IsValidationError reports whether err originated from request validation.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Request is the inbound recommendation request.
type Request struct {
	Income         float64  `json:"income"`
	AmountToInvest float64  `json:"amountToInvest"`
	Risk           string   `json:"risk"`
	Horizon        int      `json:"horizon"`
	Goal           string   `json:"goal"`
	Experience     string   `json:"experience"`
	PreferredTypes []string `json:"preferredTypes"`
	Sectors        []string `json:"sectors"`
}

// ApplyDefaults fills the documented defaults for omitted categorical
// fields. Numeric fields are never silently defaulted; they go through
// Validate instead.
func (r *Request) ApplyDefaults() {
	if strings.TrimSpace(r.Risk) == "" {
		r.Risk = "medium"
	}
	if strings.TrimSpace(r.Goal) == "" {
		r.Goal = "Wealth Creation"
	}
	if strings.TrimSpace(r.Experience) == "" {
		r.Experience = "Beginner"
	}
}

// Validate rejects malformed requests before any prediction work.
func (r *Request) Validate() error {
	if r.Income < 0 {
		return &ValidationError{msg: fmt.Sprintf("income must be non-negative, got %.2f", r.Income)}
	}
	if r.AmountToInvest < 0 {
		return &ValidationError{msg: fmt.Sprintf("amountToInvest must be non-negative, got %.2f", r.AmountToInvest)}
	}
	if r.Horizon < 1 {
		return &ValidationError{msg: fmt.Sprintf("horizon must be at least 1 year, got %d", r.Horizon)}
	}
	return nil
}

// Preferred resolves the preferred instrument types to canonical categories.
func (r *Request) Preferred() []allocation.Category {
	return allocation.ParsePreferred(r.PreferredTypes)
}

// Result is the assembled recommendation response.
type Result struct {
	ExpectedReturn   float64                                       `json:"expected_return"`
	FutureValue      float64                                       `json:"future_value"`
	TotalPrincipal   float64                                       `json:"total_principal"`
	Profit           float64                                       `json:"profit"`
	RealValue        float64                                       `json:"real_value"`
	Allocations      map[string]float64                            `json:"allocations"`
	Recommendations  map[string][]instruments.PricedRecommendation `json:"recommendations"`
	Unavailable      map[string][]string                           `json:"unavailable,omitempty"`
	TotalInvested    float64                                       `json:"total_invested"`
	UninvestedAmount float64                                       `json:"uninvested_amount"`
	ModelVersion     string                                        `json:"model_version"`
}
