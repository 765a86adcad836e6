package numerics

import (
	"math"

	"github.com/fusionsim/gcorbit/internal/motion"
)

const (
	brentMaxIter = 100
	brentGolden  = 0.3819660112501051
)

// Minimize finds the minimizer of f inside [a, b] by Brent's method
// (golden-section bracketing with parabolic interpolation). It returns
// motion.ErrBracket when the iteration budget is exhausted before the
// bracket shrinks to tol.
func Minimize(f func(float64) float64, a, b, tol float64) (float64, error) {
	if a > b {
		a, b = b, a
	}

	x := a + brentGolden*(b-a)
	w, v := x, x
	fx := f(x)
	fw, fv := fx, fx

	var d, e float64

	for iter := 0; iter < brentMaxIter; iter++ {
		xm := 0.5 * (a + b)
		tol1 := tol*math.Abs(x) + 1e-12
		tol2 := 2 * tol1

		if math.Abs(x-xm) <= tol2-0.5*(b-a) {
			return x, nil
		}

		useGolden := true
		if math.Abs(e) > tol1 {
			// Parabolic fit through (v, w, x).
			r := (x - w) * (fx - fv)
			q := (x - v) * (fx - fw)
			p := (x-v)*q - (x-w)*r
			q = 2 * (q - r)
			if q > 0 {
				p = -p
			}
			q = math.Abs(q)
			etmp := e
			e = d
			if math.Abs(p) < math.Abs(0.5*q*etmp) && p > q*(a-x) && p < q*(b-x) {
				d = p / q
				u := x + d
				if u-a < tol2 || b-u < tol2 {
					d = math.Copysign(tol1, xm-x)
				}
				useGolden = false
			}
		}
		if useGolden {
			if x >= xm {
				e = a - x
			} else {
				e = b - x
			}
			d = brentGolden * e
		}

		var u float64
		if math.Abs(d) >= tol1 {
			u = x + d
		} else {
			u = x + math.Copysign(tol1, d)
		}
		fu := f(u)

		if fu <= fx {
			if u >= x {
				a = x
			} else {
				b = x
			}
			v, w = w, x
			fv, fw = fw, fx
			x, fx = u, fu
		} else {
			if u < x {
				a = u
			} else {
				b = u
			}
			if fu <= fw || w == x {
				v, fv = w, fw
				w, fw = u, fu
			} else if fu <= fv || v == x || v == w {
				v, fv = u, fu
			}
		}
	}

	return x, motion.ErrBracket
}
