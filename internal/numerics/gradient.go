package numerics

import (
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/stat"
)

// Gradient2 returns the gradient of a scalar field over the poloidal plane
// at (r, z), by central finite differences.
func Gradient2(f func(r, z float64) float64, r, z float64) (dr, dz float64) {
	grad := make([]float64, 2)
	fd.Gradient(grad, func(x []float64) float64 {
		return f(x[0], x[1])
	}, []float64{r, z}, &fd.Settings{Formula: fd.Central})
	return grad[0], grad[1]
}

// StdDev is the sample standard deviation of xs, zero for fewer than two
// samples.
func StdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	return stat.StdDev(xs, nil)
}
