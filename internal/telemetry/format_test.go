package telemetry

import (
	"math"
	"testing"

	"github.com/relabs-tech/cockpit_info/internal/gps"
	"github.com/relabs-tech/cockpit_info/internal/orientation"
)

func TestAccelerationMagnitude(t *testing.T) {
	ms2, g := AccelerationMagnitude(orientation.Vector3{Z: 9.81})
	if math.Abs(ms2-9.81) > 1e-12 || math.Abs(g-1) > 1e-12 {
		t.Fatalf("got (%v, %v) want (9.81, 1.00)", ms2, g)
	}
	ms2, g = AccelerationMagnitude(orientation.Vector3{X: 3, Y: 4})
	if ms2 != 5 || math.Abs(g-5/9.81) > 1e-12 {
		t.Fatalf("got (%v, %v) want (5, %v)", ms2, g, 5/9.81)
	}
}

func TestAltitude(t *testing.T) {
	cases := []struct {
		meters     float64
		wantMeters string
		wantFeet   string
	}{
		{500, "500.0 m", "1.6k feet"},
		{1500, "1.5 km", "4.9k feet"},
		{100, "100.0 m", "328.0 feet"},
		{1000, "1000.0 m", "3.3k feet"},
		{0, "0.0 m", "0.0 feet"},
		{-20, "-20.0 m", "-65.6 feet"},
		{-1500, "-1.5 km", "-4.9k feet"},
		{250, "250.0 m", "820.0 feet"},
	}
	for _, tc := range cases {
		if got := AltitudeMeters(tc.meters); got != tc.wantMeters {
			t.Fatalf("AltitudeMeters(%v)=%q want %q", tc.meters, got, tc.wantMeters)
		}
		if got := AltitudeFeet(tc.meters); got != tc.wantFeet {
			t.Fatalf("AltitudeFeet(%v)=%q want %q", tc.meters, got, tc.wantFeet)
		}
	}
}

func TestSpeed_Truncates(t *testing.T) {
	cases := []struct {
		ms        float64
		wantMS    string
		wantKnots string
	}{
		{0, "0 m/s", "0 knots"},
		{9.99, "9 m/s", "19 knots"},
		{10.5, "10 m/s", "20 knots"},
		{0.4, "0 m/s", "0 knots"},
	}
	for _, tc := range cases {
		ms, kn := Speed(tc.ms)
		if ms != tc.wantMS || kn != tc.wantKnots {
			t.Fatalf("Speed(%v)=(%q,%q) want (%q,%q)", tc.ms, ms, kn, tc.wantMS, tc.wantKnots)
		}
	}
}

func TestLatLon(t *testing.T) {
	cases := []struct {
		lat, lon float64
		want     string
	}{
		{-33.8, 151.2, "33.8°S 151.2°E"},
		{48.117, 11.517, "48.1°N 11.5°E"},
		{0, 0, "0.0°N 0.0°E"},
		{40.7, -74.0, "40.7°N 74.0°W"},
	}
	for _, tc := range cases {
		if got := LatLon(tc.lat, tc.lon); got != tc.want {
			t.Fatalf("LatLon(%v,%v)=%q want %q", tc.lat, tc.lon, got, tc.want)
		}
	}
}

func TestLines(t *testing.T) {
	if got := AccelerationDisplay(orientation.Vector3{Z: 9.81}); got != "9.81 m/s  1.00 g" {
		t.Fatalf("AccelerationDisplay=%q", got)
	}
	if got := AccelerationLog(orientation.Vector3{Z: 9.81}); got != "9.81 m/s" {
		t.Fatalf("AccelerationLog=%q", got)
	}

	p := orientation.Pose{Heading: 271.26, Pitch: 12.34, Roll: -5.06}
	if got := OrientationDisplay(p); got != "12.3°  -5.1°  271.3°" {
		t.Fatalf("OrientationDisplay=%q", got)
	}
	for _, tc := range []struct {
		heading float64
		want    string
	}{
		{359.94, "0.0°  0.0°  359.9°"},
		{359.97, "0.0°  0.0°  0.0°"},
		{0.04, "0.0°  0.0°  0.0°"},
	} {
		if got := OrientationDisplay(orientation.Pose{Heading: tc.heading}); got != tc.want {
			t.Fatalf("heading %v: OrientationDisplay=%q want %q", tc.heading, got, tc.want)
		}
	}
	if OrientationLog(p) != OrientationDisplay(p) {
		t.Fatalf("orientation log and display fields differ")
	}

	f := gps.Fix{Latitude: -33.8, Longitude: 151.2, Altitude: 1500, Speed: 10.5}
	wantBlock := "33.8°S  151.2°E\n\n1.5 km  4.9k feet\n\n10 m/s  20 knots"
	if got := LocationDisplay(f); got != wantBlock {
		t.Fatalf("LocationDisplay=%q want %q", got, wantBlock)
	}
	if got := LocationLog(f); got != "33.8°S  151.2°E  1.5 km  10 m/s" {
		t.Fatalf("LocationLog=%q", got)
	}
	if got := LogLine("10/14/26 3:04:05 PM", "9.81 m/s"); got != "10/14/26 3:04:05 PM  9.81 m/s" {
		t.Fatalf("LogLine=%q", got)
	}
}
