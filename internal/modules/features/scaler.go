package features

import "math"

// StandardScaler applies z-score scaling with mean and scale fixed at fit
// time. It is part of the predictors' pre-processing, composed after the
// feature encoder, never recomputed at request time.
type StandardScaler struct {
	Mean  []float64 `msgpack:"mean"`
	Scale []float64 `msgpack:"scale"`
}

// FitScaler computes per-column mean and standard deviation from training
// rows. Columns with zero variance get scale 1 so transforming them is a
// no-op shift.
func FitScaler(rows [][]float64) *StandardScaler {
	if len(rows) == 0 {
		return &StandardScaler{}
	}

	cols := len(rows[0])
	mean := make([]float64, cols)
	scale := make([]float64, cols)

	for _, row := range rows {
		for j, v := range row {
			mean[j] += v
		}
	}
	n := float64(len(rows))
	for j := range mean {
		mean[j] /= n
	}

	for _, row := range rows {
		for j, v := range row {
			d := v - mean[j]
			scale[j] += d * d
		}
	}
	for j := range scale {
		scale[j] = math.Sqrt(scale[j] / n)
		if scale[j] == 0 {
			scale[j] = 1
		}
	}

	return &StandardScaler{Mean: mean, Scale: scale}
}

// Transform returns the z-scored copy of a vector.
func (s *StandardScaler) Transform(vector []float64) []float64 {
	out := make([]float64, len(vector))
	for j, v := range vector {
		if j < len(s.Mean) {
			out[j] = (v - s.Mean[j]) / s.Scale[j]
		} else {
			out[j] = v
		}
	}
	return out
}

// TransformAll z-scores every row in place-order, returning new slices.
func (s *StandardScaler) TransformAll(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = s.Transform(row)
	}
	return out
}
