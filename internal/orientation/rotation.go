// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import "math"

// minBasisSine is the smallest sine of the angle between gravity and the
// magnetic field for which the basis is still considered well defined.
// The test is relative, so it does not depend on the vector magnitudes.
const minBasisSine = 0.01

// Matrix3 is a row-major 3x3 rotation matrix mapping device frame to world
// frame. Row 0 is east, row 1 is magnetic north, row 2 is up, each
// expressed in device coordinates.
type Matrix3 [3][3]float64

// RotationMatrix builds the device-to-world basis from a gravity vector and
// a magnetic-field vector. Neither needs to be unit length. It returns false
// when either vector is zero or not finite, or the two are (nearly)
// parallel, in which case no east axis can be derived.
//
//	east  = mag × gravity   (normalized)
//	up    = gravity         (normalized)
//	north = up × east
func RotationMatrix(gravity, magnetic Vector3) (Matrix3, bool) {
	up, ok := direction(gravity)
	if !ok {
		return Matrix3{}, false
	}
	m, ok := direction(magnetic)
	if !ok {
		return Matrix3{}, false
	}

	// Both are unit vectors, so the norm of the cross product is the sine
	// of the angle between them.
	east := m.Cross(up)
	en := east.Norm()
	if !(en >= minBasisSine) {
		return Matrix3{}, false
	}

	east = east.Scale(1 / en)
	north := up.Cross(east)

	return Matrix3{
		{east.X, east.Y, east.Z},
		{north.X, north.Y, north.Z},
		{up.X, up.Y, up.Z},
	}, true
}

// direction returns v as a unit vector. v is first divided by its largest
// component so the norm can neither overflow nor underflow.
func direction(v Vector3) (Vector3, bool) {
	k := math.Max(math.Abs(v.X), math.Max(math.Abs(v.Y), math.Abs(v.Z)))
	if k == 0 || math.IsInf(k, 0) || math.IsNaN(v.X+v.Y+v.Z) {
		return Vector3{}, false
	}
	u := Vector3{X: v.X / k, Y: v.Y / k, Z: v.Z / k}
	return u.Scale(1 / u.Norm()), true
}

// Angles extracts heading, pitch and roll in degrees from a rotation
// matrix produced by RotationMatrix.
//
// Heading is normalized into [0, 360). Pitch is sign-inverted so that
// raising the top edge of the device reads positive. Roll is reported as
// derived.
func Angles(r Matrix3) Pose {
	azimuth := math.Atan2(r[0][1], r[1][1])
	pitch := math.Asin(clampUnit(-r[2][1]))
	roll := math.Atan2(-r[2][0], r[2][2])

	heading := math.Mod(degrees(azimuth)+360, 360)

	return Pose{
		Heading: unsigned(heading),
		Pitch:   unsigned(-degrees(pitch)),
		Roll:    unsigned(degrees(roll)),
	}
}

// Estimate combines RotationMatrix and Angles. It reports false when the
// basis is degenerate; callers keep their previous value in that case.
func Estimate(gravity, magnetic Vector3) (Pose, bool) {
	r, ok := RotationMatrix(gravity, magnetic)
	if !ok {
		return Pose{}, false
	}
	return Angles(r), true
}

func degrees(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

// unsigned maps negative zero to zero so a level device does not read
// "-0.0".
func unsigned(x float64) float64 {
	if x == 0 {
		return 0
	}
	return x
}

// clampUnit guards asin against rounding just outside [-1, 1].
func clampUnit(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}
