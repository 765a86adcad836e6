package metrics

import (
	"math"

	"github.com/fusionsim/gcorbit/internal/coords"
	"github.com/fusionsim/gcorbit/internal/drift"
	"github.com/fusionsim/gcorbit/internal/equilibrium"
	"github.com/fusionsim/gcorbit/internal/orbit"
)

// Metric observes poloidal samples and reduces them to a single number.
type Metric interface {
	Name() string
	Observe(r, z float64)
	Value() float64
	Reset()
}

// Evaluate walks an orbit's samples through a set of metrics.
func Evaluate(o *orbit.Orbit, ms ...Metric) map[string]float64 {
	for _, m := range ms {
		m.Reset()
	}
	rs, zs := o.R(), o.Z()
	for i := range rs {
		for _, m := range ms {
			m.Observe(rs[i], zs[i])
		}
	}
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}

// EnergyDrift tracks the worst relative deviation of the orbit-energy
// function from the coordinate's stored energy. Zero for a perfectly
// conserved trace.
type EnergyDrift struct {
	field    *drift.Field
	maxDrift float64
}

func NewEnergyDrift(field *drift.Field) *EnergyDrift {
	return &EnergyDrift{field: field}
}

func (e *EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) Observe(r, z float64) {
	want := e.field.Coordinate().Energy
	drift := math.Abs(e.field.OrbitEnergy(r, z)-want) / math.Abs(want)
	e.maxDrift = math.Max(e.maxDrift, drift)
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() { e.maxDrift = 0 }

// MuDrift tracks the worst relative deviation of the magnetic moment
// re-derived from the recovered pitch against the coordinate's mu. It
// measures the mutual consistency of the two invariants along the trace.
type MuDrift struct {
	eq       equilibrium.Equilibrium
	hc       coords.HamiltonianCoordinate
	maxDrift float64
}

func NewMuDrift(eq equilibrium.Equilibrium, hc coords.HamiltonianCoordinate) *MuDrift {
	return &MuDrift{eq: eq, hc: hc}
}

func (m *MuDrift) Name() string { return "mu_drift" }

func (m *MuDrift) Observe(r, z float64) {
	if m.hc.Mu == 0 {
		return
	}
	pitch := coords.GetPitch(m.eq, m.hc, r, z)
	b := m.eq.FieldMagnitude(r, z)
	mu := coords.ElementaryCharge * 1000 * m.hc.Energy * (1 - pitch*pitch) / b
	m.maxDrift = math.Max(m.maxDrift, math.Abs(mu-m.hc.Mu)/math.Abs(m.hc.Mu))
}

func (m *MuDrift) Value() float64 { return m.maxDrift }

func (m *MuDrift) Reset() { m.maxDrift = 0 }
