package export

import (
	"fmt"
	"strings"

	"github.com/fusionsim/gcorbit/internal/geom"
	"github.com/fusionsim/gcorbit/internal/orbit"
)

// OrbitToSVG renders the poloidal projection of an orbit, with the plasma
// boundary behind it when one is given. Z grows upward.
func OrbitToSVG(o *orbit.Orbit, boundary *geom.Polygon, width, height int) string {
	rs, zs := o.R(), o.Z()
	if len(rs) < 2 {
		return ""
	}

	rMin, rMax := rs[0], rs[0]
	zMin, zMax := zs[0], zs[0]
	for i := range rs {
		rMin, rMax = minF(rMin, rs[i]), maxF(rMax, rs[i])
		zMin, zMax = minF(zMin, zs[i]), maxF(zMax, zs[i])
	}
	if boundary != nil {
		for _, p := range boundary.Vertices {
			rMin, rMax = minF(rMin, p.R), maxF(rMax, p.R)
			zMin, zMax = minF(zMin, p.Z), maxF(zMax, p.Z)
		}
	}

	rangeR := rMax - rMin
	rangeZ := zMax - zMin
	if rangeR == 0 {
		rangeR = 1
	}
	if rangeZ == 0 {
		rangeZ = 1
	}
	rMin -= rangeR * 0.1
	rMax += rangeR * 0.1
	zMin -= rangeZ * 0.1
	zMax += rangeZ * 0.1
	rangeR = rMax - rMin
	rangeZ = zMax - zMin

	px := func(r, z float64) (float64, float64) {
		x := (r - rMin) / rangeR * float64(width)
		y := float64(height) - (z-zMin)/rangeZ*float64(height)
		return x, y
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	if boundary != nil && len(boundary.Vertices) > 1 {
		sb.WriteString(`<path fill="none" stroke="#555555" stroke-width="1" d="M`)
		for i, p := range boundary.Vertices {
			x, y := px(p.R, p.Z)
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString(` Z"/>
`)
	}

	sb.WriteString(`<path fill="none" stroke="#00ff00" stroke-width="1.5" d="M`)
	for i := range rs {
		x, y := px(rs[i], zs[i])
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	sb.WriteString(`"/>
`)

	// Launch point marker.
	x0, y0 := px(rs[0], zs[0])
	sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3" fill="#ff5555"/>
</svg>`, x0, y0))

	return sb.String()
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
