// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package pipeline routes raw samples through the rate gates, the
// orientation estimator and the formatters, and forwards the results to
// the display and to any open log channel.
package pipeline

import (
	"errors"
	"fmt"
	"log"
	"time"

	humanize "github.com/dustin/go-humanize"

	"github.com/relabs-tech/cockpit_info/internal/gate"
	"github.com/relabs-tech/cockpit_info/internal/gps"
	"github.com/relabs-tech/cockpit_info/internal/logchan"
	"github.com/relabs-tech/cockpit_info/internal/metrics"
	"github.com/relabs-tech/cockpit_info/internal/orientation"
	"github.com/relabs-tech/cockpit_info/internal/telemetry"
)

// DefaultTimeFormat renders log timestamps as a short date and a medium
// time, e.g. "10/14/26 3:04:05 PM".
const DefaultTimeFormat = "1/2/06 3:04:05 PM"

// Options configures a Pipeline. Zero values get sensible defaults.
type Options struct {
	AccLogPath string
	LocLogPath string
	OriLogPath string

	GateInterval time.Duration

	// Now supplies the time used for gating and log stamps.
	Now func() time.Time
	// Stamp formats the timestamp at the start of each log line.
	Stamp func(time.Time) string

	Display Display
	Metrics *metrics.Metrics
}

// Pipeline is the single-threaded core. None of its methods may be called
// concurrently; use Queue and Run to feed it from several goroutines.
type Pipeline struct {
	now     func() time.Time
	stamp   func(time.Time) string
	display Display
	metrics *metrics.Metrics

	accGate   *gate.Gate
	estimator *orientation.Estimator
	logs      map[Channel]*logchan.Channel
}

// New creates a pipeline with every log channel Closed.
func New(opts Options) *Pipeline {
	if opts.GateInterval <= 0 {
		opts.GateInterval = gate.DefaultInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Stamp == nil {
		opts.Stamp = func(t time.Time) string { return t.Format(DefaultTimeFormat) }
	}
	if opts.Display == nil {
		opts.Display = NopDisplay{}
	}

	return &Pipeline{
		now:       opts.Now,
		stamp:     opts.Stamp,
		display:   opts.Display,
		metrics:   opts.Metrics,
		accGate:   gate.New(opts.GateInterval),
		estimator: orientation.NewEstimator(gate.New(opts.GateInterval)),
		logs: map[Channel]*logchan.Channel{
			Acceleration: logchan.New(Acceleration.String(), opts.AccLogPath),
			Location:     logchan.New(Location.String(), opts.LocLogPath),
			Orientation:  logchan.New(Orientation.String(), opts.OriLogPath),
		},
	}
}

// OnAccelSample stores the gravity vector and, at most once per gate
// interval, shows and logs the acceleration magnitude.
func (p *Pipeline) OnAccelSample(v orientation.Vector3) {
	p.metrics.Sample("accel")
	p.estimator.UpdateGravity(v)

	now := p.now()
	fired := p.accGate.Attempt(now)
	p.metrics.GateResult(Acceleration.String(), fired)
	if !fired {
		return
	}

	p.display.Show(Acceleration, telemetry.AccelerationDisplay(v))
	p.appendLog(Acceleration, now, telemetry.AccelerationLog(v))
}

// OnMagSample stores the magnetic vector and, when the orientation gate
// fires and the basis is well defined, shows and logs a new pose. A
// degenerate basis leaves the previous display untouched.
func (p *Pipeline) OnMagSample(v orientation.Vector3) {
	p.metrics.Sample("mag")

	now := p.now()
	pose, outcome := p.estimator.UpdateMagnetic(now, v)
	p.metrics.GateResult(Orientation.String(), outcome != orientation.Dropped)

	switch outcome {
	case orientation.Dropped:
		return
	case orientation.Degenerate:
		p.metrics.DegenerateBasis()
		return
	}

	p.display.Show(Orientation, telemetry.OrientationDisplay(pose))
	p.appendLog(Orientation, now, telemetry.OrientationLog(pose))
}

// OnLocationFix shows and logs a fix. A nil fix means no fix yet and is
// ignored.
func (p *Pipeline) OnLocationFix(f *gps.Fix) {
	if f == nil {
		return
	}
	p.metrics.Sample("fix")

	p.display.Show(Location, telemetry.LocationDisplay(*f))
	p.appendLog(Location, p.now(), telemetry.LocationLog(*f))
}

// SetLogging opens or closes the log channel for ch. A failure to open
// leaves the channel Closed and is returned; the pipeline keeps running.
func (p *Pipeline) SetLogging(ch Channel, enabled bool) error {
	lc, ok := p.logs[ch]
	if !ok {
		return fmt.Errorf("pipeline: unknown channel %v", ch)
	}

	wasOpen := lc.Enabled()
	written := lc.Written()
	err := lc.SetEnabled(enabled)

	p.metrics.SetLogEnabled(ch.String(), lc.Enabled())
	p.display.LogState(ch, lc.State())

	switch {
	case err != nil && enabled:
		p.metrics.LogError(ch.String())
		log.Printf("pipeline: %s log unavailable: %v", ch, err)
	case err != nil:
		log.Printf("pipeline: %s log close error: %v", ch, err)
	case enabled && !wasOpen:
		log.Printf("pipeline: %s log opened at %s", ch, lc.Path())
	case !enabled && wasOpen:
		log.Printf("pipeline: %s log closed (%s written)", ch, humanize.Bytes(uint64(written)))
	}
	return err
}

// Logging reports whether the log channel for ch is open.
func (p *Pipeline) Logging(ch Channel) bool {
	lc, ok := p.logs[ch]
	return ok && lc.Enabled()
}

// Close closes every open log channel. It is safe to call more than once.
func (p *Pipeline) Close() error {
	var errs []error
	for _, ch := range Channels {
		if !p.logs[ch].Enabled() {
			continue
		}
		if err := p.SetLogging(ch, false); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (p *Pipeline) appendLog(ch Channel, now time.Time, fields string) {
	lc := p.logs[ch]
	if !lc.Enabled() {
		return
	}
	if err := lc.AppendLine(telemetry.LogLine(p.stamp(now), fields)); err != nil {
		p.metrics.LogError(ch.String())
		log.Printf("pipeline: %s log write error: %v", ch, err)
		return
	}
	p.metrics.LogLine(ch.String())
}
