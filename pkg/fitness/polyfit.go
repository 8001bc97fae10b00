package fitness

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// PolyFitResidualRMS fits an order-n polynomial in log10(frequency) to the
// power spectrum by least squares and returns the RMS of the residuals. A
// design whose spectrum is well described by a smooth foreground-like curve
// scores near zero.
func PolyFitResidualRMS(s Spectrum, order int) (float64, error) {
	n := len(s.FreqMHz)
	if n != len(s.PowerDB) {
		return 0, fmt.Errorf("fitness: %d frequencies but %d power samples", n, len(s.PowerDB))
	}
	if order < 0 {
		return 0, fmt.Errorf("fitness: polynomial order must be non-negative, got %d", order)
	}
	if n <= order+1 {
		return 0, fmt.Errorf("fitness: %d samples cannot constrain an order-%d fit", n, order)
	}
	for _, f := range s.FreqMHz {
		if f <= 0 {
			return 0, fmt.Errorf("fitness: non-positive frequency %g", f)
		}
	}

	// Vandermonde design matrix in log-frequency
	a := mat.NewDense(n, order+1, nil)
	for i, f := range s.FreqMHz {
		x := math.Log10(f)
		v := 1.0
		for j := 0; j <= order; j++ {
			a.Set(i, j, v)
			v *= x
		}
	}
	b := mat.NewVecDense(n, append([]float64(nil), s.PowerDB...))

	var beta mat.VecDense
	if err := beta.SolveVec(a, b); err != nil {
		return 0, fmt.Errorf("fitness: least squares solve: %w", err)
	}

	var fitted mat.VecDense
	fitted.MulVec(a, &beta)

	var sum float64
	for i := 0; i < n; i++ {
		r := s.PowerDB[i] - fitted.AtVec(i)
		sum += r * r
	}
	return math.Sqrt(sum / float64(n)), nil
}
