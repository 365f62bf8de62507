package gps

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"
)

func nmeaLine(payload string) string {
	ck := byte(0)
	for i := 0; i < len(payload); i++ {
		ck ^= payload[i]
	}
	return fmt.Sprintf("$%s*%02X", payload, ck)
}

const (
	rmcValid     = "GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W"
	rmcVoid      = "GPRMC,123519,V,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W"
	ggaFix       = "GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,"
	ggaNoFix     = "GPGGA,123519,4807.038,N,01131.000,E,0,00,,,M,,M,,"
	rmcSouthWest = "GPRMC,220516,A,3348.000,S,15112.000,W,010.0,231.8,130694,004.2,W"
)

func TestTracker_RMCCompletesFix(t *testing.T) {
	var tr Tracker
	fix, ok, err := tr.Feed(nmeaLine(rmcValid))
	if err != nil {
		t.Fatalf("Feed() error: %v", err)
	}
	if !ok {
		t.Fatalf("expected fix from valid RMC")
	}
	if math.Abs(fix.Latitude-48.1173) > 1e-4 || math.Abs(fix.Longitude-11.516667) > 1e-4 {
		t.Fatalf("lat/lon=%v/%v", fix.Latitude, fix.Longitude)
	}
	if math.Abs(fix.Speed-22.4*MetersPerSecondPerKnot) > 1e-9 {
		t.Fatalf("speed=%v want %v", fix.Speed, 22.4*MetersPerSecondPerKnot)
	}
	if fix.Altitude != 0 {
		t.Fatalf("altitude=%v want 0 before any GGA", fix.Altitude)
	}
	want := time.Date(1994, 3, 23, 12, 35, 19, 0, time.UTC)
	if !fix.Time.Equal(want) {
		t.Fatalf("time=%v want %v", fix.Time, want)
	}
}

func TestTracker_GGAAltitudeCarriedIntoRMC(t *testing.T) {
	var tr Tracker
	if _, ok, err := tr.Feed(nmeaLine(ggaFix)); err != nil || ok {
		t.Fatalf("GGA ok=%v err=%v want false,nil", ok, err)
	}
	fix, ok, err := tr.Feed(nmeaLine(rmcValid))
	if err != nil || !ok {
		t.Fatalf("RMC ok=%v err=%v", ok, err)
	}
	if fix.Altitude != 545.4 {
		t.Fatalf("altitude=%v want 545.4", fix.Altitude)
	}
	last, ok := tr.Last()
	if !ok || last != fix {
		t.Fatalf("Last()=%+v,%v want %+v", last, ok, fix)
	}
}

func TestTracker_InvalidSentencesProduceNoFix(t *testing.T) {
	var tr Tracker
	if _, ok, err := tr.Feed(nmeaLine(ggaNoFix)); err != nil || ok {
		t.Fatalf("GGA no-fix ok=%v err=%v", ok, err)
	}
	if _, ok, err := tr.Feed(nmeaLine(rmcVoid)); err != nil || ok {
		t.Fatalf("void RMC ok=%v err=%v", ok, err)
	}
	if _, ok := tr.Last(); ok {
		t.Fatalf("expected no last fix")
	}
}

func TestTracker_SouthWestHemisphere(t *testing.T) {
	var tr Tracker
	fix, ok, err := tr.Feed(nmeaLine(rmcSouthWest))
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if math.Abs(fix.Latitude+33.8) > 1e-9 || math.Abs(fix.Longitude+151.2) > 1e-9 {
		t.Fatalf("lat/lon=%v/%v want -33.8/-151.2", fix.Latitude, fix.Longitude)
	}
}

func TestTracker_RejectsGarbage(t *testing.T) {
	var tr Tracker
	if _, _, err := tr.Feed("hello"); !errors.Is(err, ErrNotNMEA) {
		t.Fatalf("err=%v want ErrNotNMEA", err)
	}
	good := nmeaLine(rmcValid)
	bad := good[:len(good)-2] + "00"
	if _, _, err := tr.Feed(bad); err == nil {
		t.Fatalf("expected checksum error")
	}
}
