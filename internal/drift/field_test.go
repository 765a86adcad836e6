package drift

import (
	"math"
	"testing"

	"github.com/fusionsim/gcorbit/internal/coords"
	"github.com/fusionsim/gcorbit/internal/equilibrium"
	"github.com/fusionsim/gcorbit/internal/motion"
)

func TestOrbitEnergyMatchesCoordinate(t *testing.T) {
	eq := equilibrium.NewCircular()

	for _, pitch := range []float64{1.0, 0.5, -0.3, -0.9} {
		c := coords.NewEPRD(80, pitch, 2.0, 0.1)
		f := New(eq, c.Hamiltonian(eq))

		e := f.OrbitEnergy(c.R, c.Z)
		if math.Abs(e-80) > 80*1e-10 {
			t.Errorf("pitch %f: orbit energy %f at launch point, want 80", pitch, e)
		}
	}
}

func TestParallelSpeed(t *testing.T) {
	// A pitch=1 particle moves along B at the full particle speed, plus a
	// small perpendicular drift.
	eq := equilibrium.NewCircular()
	c := coords.NewEPRD(80, 1.0, 2.0, 0)
	hc := c.Hamiltonian(eq)
	f := New(eq, hc)

	vTotal := math.Sqrt(2000 * coords.ElementaryCharge * 80 / (coords.MassU * 2))

	v := f.Velocity(2.0, 0)
	if math.Abs(v.Norm()-vTotal)/vTotal > 0.05 {
		t.Errorf("guiding-center speed %e, want about %e", v.Norm(), vTotal)
	}
}

func TestGradBDriftIsVertical(t *testing.T) {
	// On the midplane of an up-down symmetric field, B is purely toroidal
	// at the axis radius and grad|B| purely radial, so the drift is
	// vertical.
	eq := equilibrium.NewCircular()
	hc := coords.NewEPRD(80, 1.0, eq.R0, 0).Hamiltonian(eq)
	f := New(eq, hc)

	v := f.Velocity(eq.R0, 0)
	if v.Z == 0 {
		t.Error("expected a nonzero vertical grad-B drift at the axis")
	}
	if math.Abs(v.R) > 1e-6*math.Abs(v.Z) {
		t.Errorf("radial drift %e should vanish on the midplane at the axis (v_z=%e)", v.R, v.Z)
	}
}

func TestDeriveAngularVelocity(t *testing.T) {
	eq := equilibrium.NewCircular()
	hc := coords.NewEPRD(80, 0.7, 2.0, 0.1).Hamiltonian(eq)
	f := New(eq, hc)

	x := motion.State{2.0, 0.1, 0}
	dx := f.Derive(x, 0)
	v := f.Velocity(2.0, 0.1)

	if dx[0] != v.R || dx[1] != v.Z {
		t.Error("position derivatives must be the linear velocity components")
	}
	if math.Abs(dx[2]-v.Phi/2.0) > math.Abs(dx[2])*1e-14 {
		t.Errorf("angular velocity %e, want v_phi/r = %e", dx[2], v.Phi/2.0)
	}
}

func TestFieldIsStateless(t *testing.T) {
	eq := equilibrium.NewCircular()
	hc := coords.NewEPRD(80, 0.5, 2.0, 0).Hamiltonian(eq)
	f := New(eq, hc)

	a := f.Velocity(2.0, 0.2)
	f.Velocity(1.8, -0.3)
	b := f.Velocity(2.0, 0.2)

	if a != b {
		t.Error("repeated evaluation at the same point must agree exactly")
	}
}
