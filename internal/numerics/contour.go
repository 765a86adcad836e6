package numerics

import (
	"math"

	"github.com/fusionsim/gcorbit/internal/geom"
)

// ContourOptions controls the level-curve follower.
type ContourOptions struct {
	Tol     float64                // corrector tolerance on |f - level|
	StepMin float64                // smallest arc step before giving up
	StepMax float64                // nominal arc step
	MaxIter int                    // cap on emitted vertices
	Bounds  func(geom.Point) bool  // nil means unbounded
}

func DefaultContourOptions() ContourOptions {
	return ContourOptions{
		Tol:     1e-10,
		StepMin: 1e-5,
		StepMax: 5e-3,
		MaxIter: 20000,
	}
}

// FollowLevel traces the level curve f(r,z) = level starting from start,
// by predictor steps along the tangent (perpendicular to the gradient)
// followed by Newton correction back onto the level set. The polyline is
// emitted in a fixed chirality; callers that care about direction must
// orient it themselves. closed reports whether the curve returned to its
// starting point; a false value means the trace left Bounds, hit a
// stationary point of f, or ran out of iterations.
func FollowLevel(f func(r, z float64) float64, start geom.Point, level float64, opts ContourOptions) (pts []geom.Point, closed bool) {
	if opts.MaxIter <= 0 {
		opts = DefaultContourOptions()
	}

	p, ok := correct(f, start, level, opts.Tol)
	if !ok {
		return nil, false
	}
	pts = append(pts, p)
	first := p

	h := opts.StepMax
	arc := 0.0

	for len(pts) < opts.MaxIter {
		gr, gz := Gradient2(f, p.R, p.Z)
		gnorm := math.Hypot(gr, gz)
		if gnorm < 1e-300 {
			return pts, false
		}

		// Tangent with fixed chirality (gradient rotated -90 degrees).
		tr, tz := gz/gnorm, -gr/gnorm

		var next geom.Point
		stepped := false
		for h >= opts.StepMin {
			cand := geom.Point{R: p.R + h*tr, Z: p.Z + h*tz}
			cand, ok = correct(f, cand, level, opts.Tol)
			if ok {
				next = cand
				stepped = true
				break
			}
			h /= 2
		}
		if !stepped {
			return pts, false
		}
		if h < opts.StepMax {
			h = math.Min(2*h, opts.StepMax)
		}

		if opts.Bounds != nil && !opts.Bounds(next) {
			pts = append(pts, next)
			return pts, false
		}

		arc += math.Hypot(next.R-p.R, next.Z-p.Z)
		pts = append(pts, next)
		p = next

		if arc > 10*opts.StepMax && math.Hypot(p.R-first.R, p.Z-first.Z) < 1.5*h {
			pts = append(pts, first)
			return pts, true
		}
	}

	return pts, false
}

// correct projects p onto the level set by Newton steps along the gradient.
func correct(f func(r, z float64) float64, p geom.Point, level, tol float64) (geom.Point, bool) {
	for i := 0; i < 8; i++ {
		resid := f(p.R, p.Z) - level
		if math.Abs(resid) <= tol {
			return p, true
		}
		gr, gz := Gradient2(f, p.R, p.Z)
		g2 := gr*gr + gz*gz
		if g2 < 1e-300 {
			return p, false
		}
		p.R -= resid * gr / g2
		p.Z -= resid * gz / g2
	}
	return p, math.Abs(f(p.R, p.Z)-level) <= tol
}
