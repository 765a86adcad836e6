package orbit

import (
	"github.com/fusionsim/gcorbit/internal/coords"
	"github.com/fusionsim/gcorbit/internal/equilibrium"
)

// ReferenceFrom reduces an energy-pitch-position coordinate to its
// reference-point form by tracing the orbit to closure or boundary and
// anchoring at the maximum-radius sample. A trace that neither closes nor
// strikes the boundary is ambiguous: the reduction returns nil (an absent
// value), so callers can branch rather than trust a reference point that
// does not label a classified orbit.
func ReferenceFrom(eq equilibrium.Equilibrium, c coords.EPRCoordinate, opts TraceOptions) (*coords.ReferenceCoordinate, error) {
	o, err := NewTracer(eq, opts).Trace(c)
	if err != nil {
		return nil, err
	}
	if !o.Complete() && !o.HitsBoundary() {
		return nil, nil
	}
	ref := o.Reference()
	return &ref, nil
}
