package viz

import (
	"github.com/fusionsim/gcorbit/internal/geom"
	"github.com/fusionsim/gcorbit/internal/orbit"
)

// CrossSection renders the poloidal projection of an orbit inside the
// plasma boundary. The viewport covers the boundary when one is given,
// otherwise the orbit extent.
func CrossSection(boundary *geom.Polygon, o *orbit.Orbit, w, h int) string {
	c := NewCanvas(w, h)

	rs, zs := o.R(), o.Z()
	if boundary != nil && len(boundary.Vertices) > 0 {
		rMin, rMax := boundary.Vertices[0].R, boundary.Vertices[0].R
		zMin, zMax := boundary.Vertices[0].Z, boundary.Vertices[0].Z
		for _, p := range boundary.Vertices {
			rMin, rMax = minF(rMin, p.R), maxF(rMax, p.R)
			zMin, zMax = minF(zMin, p.Z), maxF(zMax, p.Z)
		}
		c.SetView(rMin, rMax, zMin, zMax)
		c.PlotPolygon(boundary)
	} else if len(rs) > 0 {
		rMin, rMax := rs[0], rs[0]
		zMin, zMax := zs[0], zs[0]
		for i := range rs {
			rMin, rMax = minF(rMin, rs[i]), maxF(rMax, rs[i])
			zMin, zMax = minF(zMin, zs[i]), maxF(zMax, zs[i])
		}
		c.SetView(rMin, rMax, zMin, zMax)
	}

	c.PlotPath(rs, zs)
	if len(rs) > 0 {
		c.Mark(rs[0], zs[0])
	}

	return c.String()
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
