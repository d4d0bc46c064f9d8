package bench

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// scaler standardizes to zero mean and unit variance, fit on training data
// only (or on leaked data, where the static protocol demands it).
type scaler struct {
	mean float64
	std  float64
}

func fitScaler(y []float64) scaler {
	mean, std := stat.MeanStdDev(y, nil)
	if std == 0 || math.IsNaN(std) {
		std = 1
	}
	return scaler{mean: mean, std: std}
}

func (s scaler) transform(y []float64) []float64 {
	out := make([]float64, len(y))
	for i, v := range y {
		out[i] = (v - s.mean) / s.std
	}
	return out
}

func (s scaler) inverse(v float64) float64 {
	return v*s.std + s.mean
}

// ridge is a ridge regression fit on lagged features.
type ridge struct {
	coef *mat.VecDense
}

// fitRidge solves (XᵀX + αI)β = Xᵀy.
func fitRidge(x *mat.Dense, y []float64, alpha float64) (*ridge, error) {
	_, p := x.Dims()

	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	for i := 0; i < p; i++ {
		xtx.Set(i, i, xtx.At(i, i)+alpha)
	}

	var xty mat.VecDense
	xty.MulVec(x.T(), mat.NewVecDense(len(y), y))

	var beta mat.VecDense
	if err := beta.SolveVec(&xtx, &xty); err != nil {
		return nil, fmt.Errorf("solving ridge system: %w", err)
	}
	return &ridge{coef: &beta}, nil
}

func (r *ridge) predict(features []float64) float64 {
	return mat.Dot(mat.NewVecDense(len(features), features), r.coef)
}

// laggedMatrix builds the design matrix of p lagged values: row t holds
// [y[t-1], ..., y[t-p]] with target y[t], for t in [p, len(y)).
func laggedMatrix(y []float64, p int) (*mat.Dense, []float64) {
	n := len(y) - p
	x := mat.NewDense(n, p, nil)
	target := make([]float64, n)

	for t := p; t < len(y); t++ {
		for lag := 1; lag <= p; lag++ {
			x.Set(t-p, lag-1, y[t-lag])
		}
		target[t-p] = y[t]
	}
	return x, target
}

// reversed returns the slice in reverse order: the forecast features are
// the most recent p values ordered newest first, matching the lag layout.
func reversed(y []float64) []float64 {
	out := make([]float64, len(y))
	for i, v := range y {
		out[len(y)-1-i] = v
	}
	return out
}
