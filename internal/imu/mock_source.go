// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package imu

import (
	"math"
	"time"

	"github.com/relabs-tech/cockpit_info/internal/orientation"
)

// Field strengths used by the mock. Roughly mid-latitude Europe.
const (
	mockGravity     = 9.81
	mockMagNorth    = 22.0 // µT, horizontal component
	mockMagDown     = 40.0 // µT, vertical component
	mockTurnRateDeg = 30.0 // heading change per second
)

type mockSource struct {
	start time.Time
}

// NewMockSource creates a mock source whose device slowly turns through
// all headings while pitching and rolling gently.
func NewMockSource() Source {
	return &mockSource{start: time.Now()}
}

func (m *mockSource) Next() (Reading, error) {
	return mockReading(time.Since(m.start).Seconds()), nil
}

// mockReading returns the accel and mag vectors, in device coordinates, for
// the pose the mock is in after elapsed seconds.
func mockReading(elapsed float64) Reading {
	heading := math.Mod(elapsed*mockTurnRateDeg, 360)
	pitch := 15 * math.Cos(elapsed*0.7)
	roll := 10 * math.Sin(elapsed)
	return deviceFrame(heading, pitch, roll)
}

// deviceFrame expresses world gravity and magnetic field in the frame of a
// device whose y axis points at heading (clockwise from north), rotated
// nose-up by pitch about x and then by roll about y.
func deviceFrame(heading, pitch, roll float64) Reading {
	h := heading * math.Pi / 180
	p := pitch * math.Pi / 180
	r := roll * math.Pi / 180

	g := orientation.Vector3{Z: mockGravity}
	mag := orientation.Vector3{
		X: -mockMagNorth * math.Sin(h),
		Y: mockMagNorth * math.Cos(h),
		Z: -mockMagDown,
	}

	aboutX := func(v orientation.Vector3) orientation.Vector3 {
		return orientation.Vector3{
			X: v.X,
			Y: v.Y*math.Cos(p) + v.Z*math.Sin(p),
			Z: -v.Y*math.Sin(p) + v.Z*math.Cos(p),
		}
	}
	aboutY := func(v orientation.Vector3) orientation.Vector3 {
		return orientation.Vector3{
			X: v.X*math.Cos(r) - v.Z*math.Sin(r),
			Y: v.Y,
			Z: v.X*math.Sin(r) + v.Z*math.Cos(r),
		}
	}

	return Reading{
		Accel:  aboutY(aboutX(g)),
		Mag:    aboutY(aboutX(mag)),
		HasMag: true,
	}
}
