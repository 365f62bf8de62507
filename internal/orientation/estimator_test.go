package orientation

import (
	"testing"
	"time"

	"github.com/relabs-tech/cockpit_info/internal/gate"
)

func TestEstimator_NoGravityYetIsDegenerate(t *testing.T) {
	e := NewEstimator(gate.New(time.Second))
	_, out := e.UpdateMagnetic(time.Unix(0, 0), Vector3{Y: 22, Z: -40})
	if out != Degenerate {
		t.Fatalf("outcome=%v want degenerate", out)
	}
}

func TestEstimator_GravityUpdateIsNotGated(t *testing.T) {
	base := time.Unix(100, 0)
	e := NewEstimator(gate.New(time.Second))

	e.UpdateGravity(Vector3{Z: 9.81})
	e.UpdateGravity(Vector3{Z: 5})
	if got := e.Gravity(); got != (Vector3{Z: 5}) {
		t.Fatalf("gravity=%+v want latest sample", got)
	}

	g, m := deviceReading(90, 0)
	e.UpdateGravity(g)
	p, out := e.UpdateMagnetic(base, m)
	if out != Estimated {
		t.Fatalf("outcome=%v want estimated", out)
	}
	if !near(p.Heading, 90) {
		t.Fatalf("heading=%v want 90", p.Heading)
	}
}

func TestEstimator_GateDropsAndKeepsLatestMagnetic(t *testing.T) {
	base := time.Unix(100, 0)
	e := NewEstimator(gate.New(time.Second))
	g, north := deviceReading(0, 0)
	_, west := deviceReading(270, 0)
	e.UpdateGravity(g)

	if _, out := e.UpdateMagnetic(base, north); out != Estimated {
		t.Fatalf("first sample outcome=%v", out)
	}
	if _, out := e.UpdateMagnetic(base.Add(200*time.Millisecond), west); out != Dropped {
		t.Fatalf("gated sample outcome=%v want dropped", out)
	}

	// A degenerate gravity vector consumes the gate window but yields nothing.
	e.UpdateGravity(Vector3{})
	if _, out := e.UpdateMagnetic(base.Add(1500*time.Millisecond), west); out != Degenerate {
		t.Fatalf("outcome=%v want degenerate", out)
	}

	e.UpdateGravity(g)
	p, out := e.UpdateMagnetic(base.Add(2600*time.Millisecond), west)
	if out != Estimated || !near(p.Heading, 270) {
		t.Fatalf("outcome=%v heading=%v want estimated 270", out, p.Heading)
	}
}
