package imu

import (
	"time"

	"github.com/relabs-tech/cockpit_info/internal/orientation"
)

// Sample is one vector reading as published on the accel or mag topic.
// Acceleration is in m/s², magnetic field in µT.
type Sample struct {
	Source string    `json:"source"` // "mock", "mpu9250", ...
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	Z      float64   `json:"z"`
	Time   time.Time `json:"time"`
}

// Vector returns the sample components as an orientation.Vector3.
func (s Sample) Vector() orientation.Vector3 {
	return orientation.Vector3{X: s.X, Y: s.Y, Z: s.Z}
}

// NewSample wraps v into a Sample stamped with t.
func NewSample(source string, v orientation.Vector3, t time.Time) Sample {
	return Sample{Source: source, X: v.X, Y: v.Y, Z: v.Z, Time: t}
}

// Reading is what a Source delivers per tick. HasMag is false for sources
// without a magnetometer.
type Reading struct {
	Accel  orientation.Vector3
	Mag    orientation.Vector3
	HasMag bool
}

// Source is anything that can provide raw readings over time.
type Source interface {
	Next() (Reading, error)
}
