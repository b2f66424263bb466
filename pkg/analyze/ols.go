package analyze

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Estimate is the result of an ordinary least squares fit. Coefficients is
// empty when the fit is undefined.
type Estimate struct {
	Coefficients []float64
	RSquared     float64
}

// OLS fits responder = X·β without an intercept, where column j of X is
// predictors[j]. Add a column of ones to fit a constant term.
//
// An undefined fit (no observations, fewer observations than predictors, a
// singular design matrix or a non-finite solution) yields an Estimate with
// no coefficients and a nil error. Only malformed input is an error.
func OLS(predictors [][]float64, responder []float64) (Estimate, error) {
	n, p := len(responder), len(predictors)
	for j, col := range predictors {
		if len(col) != n {
			return Estimate{}, errors.Errorf("predictor %d has %d observations, responder has %d", j, len(col), n)
		}
	}
	if n == 0 || p == 0 || n < p {
		return Estimate{RSquared: math.NaN()}, nil
	}

	x := mat.NewDense(n, p, nil)
	for j, col := range predictors {
		for i, v := range col {
			x.Set(i, j, v)
		}
	}
	y := mat.NewVecDense(n, append([]float64(nil), responder...))

	var beta mat.VecDense
	if err := beta.SolveVec(x, y); err != nil {
		return Estimate{RSquared: math.NaN()}, nil
	}
	coef := make([]float64, p)
	for j := range coef {
		c := beta.AtVec(j)
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return Estimate{RSquared: math.NaN()}, nil
		}
		coef[j] = c
	}

	var fitted mat.VecDense
	fitted.MulVec(x, &beta)
	return Estimate{
		Coefficients: coef,
		RSquared:     stat.RSquaredFrom(fitted.RawVector().Data, responder, nil),
	}, nil
}
