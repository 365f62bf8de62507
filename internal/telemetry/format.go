// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package telemetry turns raw magnitudes into the strings shown on the
// cockpit display and written to the log channels. Every function is pure.
package telemetry

import (
	"fmt"
	"math"

	"github.com/relabs-tech/cockpit_info/internal/orientation"
)

// Conversion constants. These are display constants, not exact physical
// ones, so output matches the historical logs.
const (
	StandardGravity = 9.81 // m/s² per g
	FeetPerMeter    = 3.28
	KnotsPerMS      = 1.94

	unitThreshold = 1000.0 // switch to km / k feet above this
)

// AccelerationMagnitude returns the norm of v in m/s² and in g.
func AccelerationMagnitude(v orientation.Vector3) (ms2, g float64) {
	ms2 = v.Norm()
	return ms2, ms2 / StandardGravity
}

// AltitudeMeters renders an altitude in meters, switching to kilometers
// when its magnitude exceeds 1000 m: 500 → "500.0 m", 1500 → "1.5 km".
func AltitudeMeters(meters float64) string {
	if math.Abs(meters) > unitThreshold {
		return fmt.Sprintf("%.1f km", meters/1000)
	}
	return fmt.Sprintf("%.1f m", meters)
}

// AltitudeFeet applies the same rule to the altitude converted to feet:
// 1500 m → "4.9k feet", 100 m → "328.0 feet".
func AltitudeFeet(meters float64) string {
	feet := meters * FeetPerMeter
	if math.Abs(feet) > unitThreshold {
		return fmt.Sprintf("%.1fk feet", feet/1000)
	}
	return fmt.Sprintf("%.1f feet", feet)
}

// Speed returns the truncated m/s and knots labels for a ground speed.
func Speed(metersPerSecond float64) (ms, knots string) {
	ms = fmt.Sprintf("%d m/s", int(metersPerSecond))
	knots = fmt.Sprintf("%d knots", int(metersPerSecond*KnotsPerMS))
	return ms, knots
}

// Latitude renders an absolute latitude with one decimal and its
// hemisphere letter.
func Latitude(lat float64) string {
	hemi := "N"
	if lat < 0 {
		hemi = "S"
	}
	return fmt.Sprintf("%.1f°%s", math.Abs(lat), hemi)
}

// Longitude is Latitude for the east/west axis.
func Longitude(lon float64) string {
	hemi := "E"
	if lon < 0 {
		hemi = "W"
	}
	return fmt.Sprintf("%.1f°%s", math.Abs(lon), hemi)
}

// LatLon joins Latitude and Longitude: (-33.8, 151.2) → "33.8°S 151.2°E".
func LatLon(lat, lon float64) string {
	return Latitude(lat) + " " + Longitude(lon)
}
