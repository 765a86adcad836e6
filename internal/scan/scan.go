package scan

import (
	"errors"

	"github.com/fusionsim/gcorbit/internal/coords"
	"github.com/fusionsim/gcorbit/internal/equilibrium"
	"github.com/fusionsim/gcorbit/internal/motion"
	"github.com/fusionsim/gcorbit/internal/orbit"
)

// Class is the topology verdict for one traced particle.
type Class string

const (
	ClassPassing   Class = "passing"
	ClassTrapped   Class = "trapped"
	ClassStagnant  Class = "stagnation"
	ClassLost      Class = "lost"
	ClassAmbiguous Class = "ambiguous"
	ClassInvalid   Class = "invalid"
)

// Classify reduces a traced orbit to its topology class. Trapped orbits
// are recognized by a sign reversal of the recovered pitch (the parallel
// velocity turns around at a banana tip); passing orbits keep its sign.
func Classify(eq equilibrium.Equilibrium, o *orbit.Orbit) Class {
	switch {
	case o == nil:
		return ClassInvalid
	case o.HitsBoundary():
		return ClassLost
	case !o.Complete():
		return ClassAmbiguous
	case o.Len() == 2 && o.R()[0] == o.R()[1] && o.Z()[0] == o.Z()[1]:
		return ClassStagnant
	}

	hc := o.Coordinate()
	rs, zs := o.R(), o.Z()

	first := coords.GetPitch(eq, hc, rs[0], zs[0])
	for i := 1; i < len(rs); i++ {
		if coords.GetPitch(eq, hc, rs[i], zs[i])*first < 0 {
			return ClassTrapped
		}
	}
	return ClassPassing
}

// Point is one cell of a topology scan.
type Point struct {
	Energy float64
	Pitch  float64
	R      float64
	Class  Class
	Err    error
}

// Grid spans the (energy, pitch, radius) cube to scan. Particles launch
// from the minimum-flux vertical position at each radius.
type Grid struct {
	Energies []float64
	Pitches  []float64
	Radii    []float64
	Amu      float64
	Charge   int
}

// Run traces and classifies every grid cell. Traces run concurrently per
// energy slice through the batch tracer.
func Run(eq equilibrium.Equilibrium, g Grid, opts orbit.TraceOptions) []Point {
	points := make([]Point, 0, len(g.Energies)*len(g.Pitches)*len(g.Radii))

	for _, energy := range g.Energies {
		var batch []coords.EPRCoordinate
		var cells []Point

		for _, pitch := range g.Pitches {
			for _, r := range g.Radii {
				cell := Point{Energy: energy, Pitch: pitch, R: r}
				c, err := coords.NewEPRAt(eq, energy, pitch, r, g.Amu, g.Charge)
				if err != nil {
					cell.Err = err
					if errors.Is(err, motion.ErrOutOfBounds) {
						cell.Class = ClassLost
					} else {
						cell.Class = ClassInvalid
					}
					cells = append(cells, cell)
					continue
				}
				batch = append(batch, c)
				cells = append(cells, cell)
			}
		}

		results := orbit.TraceBatch(eq, batch, opts)

		ri := 0
		for i := range cells {
			if cells[i].Err != nil {
				continue
			}
			res := results[ri]
			ri++
			if res.Err != nil {
				cells[i].Err = res.Err
				if errors.Is(res.Err, motion.ErrOutOfBounds) {
					cells[i].Class = ClassLost
				} else {
					cells[i].Class = ClassInvalid
				}
				continue
			}
			cells[i].Class = Classify(eq, res.Orbit)
		}

		points = append(points, cells...)
	}

	return points
}
