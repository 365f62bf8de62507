package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/relabs-tech/cockpit_info/internal/config"
	"github.com/relabs-tech/cockpit_info/internal/pipeline"
)

// runFeeder starts a pipeline that shows into a web hub and returns a
// feeder wired to it.
func runFeeder(t *testing.T) (*feeder, *webHub, string) {
	t.Helper()
	dir := t.TempDir()
	hub := newWebHub()
	start := time.Date(2026, 10, 14, 15, 4, 5, 0, time.UTC)
	p := pipeline.New(pipeline.Options{
		AccLogPath: filepath.Join(dir, "acc.log"),
		LocLogPath: filepath.Join(dir, "loc.log"),
		OriLogPath: filepath.Join(dir, "ori.log"),
		Now:        func() time.Time { return start },
		Stamp:      func(t time.Time) string { return t.Format("15:04:05") },
		Display:    hub,
	})
	q := pipeline.NewQueue(8)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = p.Run(ctx, q)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return &feeder{ctx: ctx, q: q, logPrefix: "cockpit/log"}, hub, dir
}

func TestFeeder_SamplesReachPipeline(t *testing.T) {
	f, hub, dir := runFeeder(t)

	// The toggle waits for the pipeline, so everything before it has been
	// processed once it returns.
	f.onLogControl(nil, fakeMessage{topic: "cockpit/log/acc", payload: []byte("on")})
	f.onAccel(nil, fakeMessage{topic: "cockpit/imu/accel", payload: []byte("not json")})
	f.onAccel(nil, fakeMessage{topic: "cockpit/imu/accel", payload: []byte(`{"source":"mock","x":0,"y":0,"z":9.81}`)})
	f.onFix(nil, fakeMessage{topic: "cockpit/gps", payload: []byte(`{"lat":-33.8,"lon":151.2,"alt_m":45,"speed_ms":12}`)})
	f.onFix(nil, fakeMessage{topic: "cockpit/gps", payload: nil})
	f.onLogControl(nil, fakeMessage{topic: "cockpit/log/acc", payload: []byte("off")})

	snap := hub.snapshot()
	if got := snap["acc"]; got.Text != "9.81 m/s  1.00 g" || got.Logging || got.Label != "Not Logging" {
		t.Fatalf("acc=%+v", got)
	}
	wantLoc := "33.8°S  151.2°E\n\n45.0 m  147.6 feet\n\n12 m/s  23 knots"
	if got := snap["loc"].Text; got != wantLoc {
		t.Fatalf("loc=%q want %q", got, wantLoc)
	}

	b, err := os.ReadFile(filepath.Join(dir, "acc.log"))
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if got := strings.TrimSpace(string(b)); got != "15:04:05  9.81 m/s" {
		t.Fatalf("acc.log=%q", got)
	}
}

func TestFeeder_BadToggleIgnored(t *testing.T) {
	f, hub, _ := runFeeder(t)

	f.onLogControl(nil, fakeMessage{topic: "cockpit/log/gyro", payload: []byte("on")})
	f.onLogControl(nil, fakeMessage{topic: "cockpit/log/ori", payload: []byte("maybe")})
	f.onLogControl(nil, fakeMessage{topic: "cockpit/log/loc", payload: []byte("1")})

	snap := hub.snapshot()
	if snap["ori"].Logging {
		t.Fatalf("ori logging after invalid payload")
	}
	if !snap["loc"].Logging {
		t.Fatalf("loc not logging after payload 1")
	}
}

func TestInitialLogging(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.LogDir = dir
	cfg.LogOriEnabled = true

	hub := newWebHub()
	p := newPipeline(cfg, hub, nil)
	defer p.Close()
	initialLogging(p, cfg)

	if !p.Logging(pipeline.Orientation) || p.Logging(pipeline.Acceleration) || p.Logging(pipeline.Location) {
		t.Fatalf("logging acc=%v loc=%v ori=%v want only ori",
			p.Logging(pipeline.Acceleration), p.Logging(pipeline.Location), p.Logging(pipeline.Orientation))
	}
	if _, err := os.Stat(filepath.Join(dir, cfg.LogOriFile)); err != nil {
		t.Fatalf("ori log not created: %v", err)
	}
	if got := hub.snapshot()["ori"].Label; got != "Logging" {
		t.Fatalf("ori label=%q", got)
	}
}
