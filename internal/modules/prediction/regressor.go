package prediction

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// LinearModel is a multi-output linear regression model. For each output o:
//
//	y_o = Intercept[o] + sum_j Coef[o][j] * x_j
//
// Inputs are expected to be z-scored by the bundle's scaler before prediction.
type LinearModel struct {
	Intercept []float64   `msgpack:"intercept"`
	Coef      [][]float64 `msgpack:"coef"`
}

// Outputs returns the number of regression targets.
func (m *LinearModel) Outputs() int {
	return len(m.Intercept)
}

// Predict evaluates the model on a single feature vector.
func (m *LinearModel) Predict(x []float64) []float64 {
	out := make([]float64, len(m.Intercept))
	for o := range out {
		v := m.Intercept[o]
		coefs := m.Coef[o]
		for j, c := range coefs {
			if j < len(x) {
				v += c * x[j]
			}
		}
		out[o] = v
	}
	return out
}

// FitLinear fits a multi-output least-squares model. rows is n x p, targets
// is n x k. The bias column is handled internally.
func FitLinear(rows [][]float64, targets [][]float64) (*LinearModel, error) {
	n := len(rows)
	if n == 0 {
		return nil, fmt.Errorf("no training rows")
	}
	if len(targets) != n {
		return nil, fmt.Errorf("target count %d does not match row count %d", len(targets), n)
	}

	p := len(rows[0])
	k := len(targets[0])
	if n < p+1 {
		return nil, fmt.Errorf("need at least %d rows to fit %d features, got %d", p+1, p, n)
	}

	// Design matrix with a leading bias column.
	X := mat.NewDense(n, p+1, nil)
	Y := mat.NewDense(n, k, nil)
	for i, row := range rows {
		X.Set(i, 0, 1)
		for j, v := range row {
			X.Set(i, j+1, v)
		}
		for o, v := range targets[i] {
			Y.Set(i, o, v)
		}
	}

	var qr mat.QR
	qr.Factorize(X)

	var beta mat.Dense
	if err := qr.SolveTo(&beta, false, Y); err != nil {
		return nil, fmt.Errorf("least squares solve failed: %w", err)
	}

	model := &LinearModel{
		Intercept: make([]float64, k),
		Coef:      make([][]float64, k),
	}
	for o := 0; o < k; o++ {
		model.Intercept[o] = beta.At(0, o)
		model.Coef[o] = make([]float64, p)
		for j := 0; j < p; j++ {
			model.Coef[o][j] = beta.At(j+1, o)
		}
	}

	return model, nil
}
