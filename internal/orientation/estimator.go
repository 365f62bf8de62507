// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"time"

	"github.com/relabs-tech/cockpit_info/internal/gate"
)

// Estimator keeps the most recent gravity and magnetic-field samples and
// produces a Pose at most once per gate interval.
//
// Both vectors start as zero, so no estimate is possible until one sample
// of each kind has arrived. Estimator is not safe for concurrent use.
type Estimator struct {
	gravity  Vector3
	magnetic Vector3
	gate     *gate.Gate
}

// NewEstimator returns an Estimator whose orientation computation is
// throttled by g.
func NewEstimator(g *gate.Gate) *Estimator {
	return &Estimator{gate: g}
}

// UpdateGravity stores the latest accelerometer vector. It is never gated.
func (e *Estimator) UpdateGravity(v Vector3) {
	e.gravity = v
}

// Gravity returns the latest stored accelerometer vector.
func (e *Estimator) Gravity() Vector3 {
	return e.gravity
}

// UpdateMagnetic stores the latest magnetometer vector and, if the gate
// fires, estimates a new pose. The Pose is only meaningful when the
// Outcome is Estimated.
func (e *Estimator) UpdateMagnetic(now time.Time, v Vector3) (Pose, Outcome) {
	e.magnetic = v
	if !e.gate.Attempt(now) {
		return Pose{}, Dropped
	}
	p, ok := Estimate(e.gravity, e.magnetic)
	if !ok {
		return Pose{}, Degenerate
	}
	return p, Estimated
}

// Outcome describes what UpdateMagnetic did with a sample.
type Outcome int

const (
	// Dropped means the gate was closed; no estimate was attempted.
	Dropped Outcome = iota
	// Degenerate means the gravity and magnetic vectors gave no basis.
	Degenerate
	// Estimated means a fresh Pose was produced.
	Estimated
)

func (o Outcome) String() string {
	switch o {
	case Dropped:
		return "dropped"
	case Degenerate:
		return "degenerate"
	case Estimated:
		return "estimated"
	default:
		return "unknown"
	}
}
