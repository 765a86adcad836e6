package geom

// Point is a point in the poloidal (R, Z) plane.
type Point struct {
	R float64
	Z float64
}

// Polygon is a closed polygon in the poloidal plane, vertices in order.
// The closing edge from the last vertex back to the first is implicit.
type Polygon struct {
	Vertices []Point
}

func NewPolygon(r, z []float64) *Polygon {
	n := len(r)
	if len(z) < n {
		n = len(z)
	}
	verts := make([]Point, n)
	for i := 0; i < n; i++ {
		verts[i] = Point{R: r[i], Z: z[i]}
	}
	return &Polygon{Vertices: verts}
}

// Contains reports whether p lies inside the polygon, by even-odd ray
// casting. Points exactly on an edge may land on either side.
func (pg *Polygon) Contains(p Point) bool {
	n := len(pg.Vertices)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		vi, vj := pg.Vertices[i], pg.Vertices[j]
		if (vi.Z > p.Z) != (vj.Z > p.Z) {
			cross := (vj.R-vi.R)*(p.Z-vi.Z)/(vj.Z-vi.Z) + vi.R
			if p.R < cross {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}
