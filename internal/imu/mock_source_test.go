package imu

import (
	"math"
	"testing"
	"time"

	"github.com/relabs-tech/cockpit_info/internal/orientation"
)

func TestDeviceFrame_RecoveredByEstimate(t *testing.T) {
	cases := []struct {
		heading, pitch, roll float64
	}{
		{0, 0, 0},
		{90, 10, 0},
		{200, -12, 8},
		{315, 15, -10},
	}
	for _, tc := range cases {
		r := deviceFrame(tc.heading, tc.pitch, tc.roll)
		p, ok := orientation.Estimate(r.Accel, r.Mag)
		if !ok {
			t.Fatalf("%+v: expected estimate", tc)
		}
		if math.Abs(p.Heading-tc.heading) > 1e-6 ||
			math.Abs(p.Pitch-tc.pitch) > 1e-6 ||
			math.Abs(p.Roll-tc.roll) > 1e-6 {
			t.Fatalf("pose=%+v want %+v", p, tc)
		}
	}
}

func TestMockReading_GravityMagnitude(t *testing.T) {
	for _, s := range []float64{0, 1.3, 7, 42} {
		r := mockReading(s)
		if math.Abs(r.Accel.Norm()-mockGravity) > 1e-9 {
			t.Fatalf("t=%v |accel|=%v want %v", s, r.Accel.Norm(), mockGravity)
		}
		if !r.HasMag {
			t.Fatalf("mock should carry magnetometer data")
		}
	}
}

func TestSample_Vector(t *testing.T) {
	v := orientation.Vector3{X: 1, Y: -2, Z: 3.5}
	s := NewSample("mock", v, time.Unix(10, 0))
	if s.Vector() != v {
		t.Fatalf("vector=%+v want %+v", s.Vector(), v)
	}
}
