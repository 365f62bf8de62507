// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package gate throttles per-channel recomputation to one event per
// interval.
package gate

import "time"

// DefaultInterval is the cooldown used for the acceleration and
// orientation channels.
const DefaultInterval = 1000 * time.Millisecond

// Gate fires at most once per interval. The first Attempt always fires.
// A Gate only moves forward through its own Attempt calls and is not safe
// for concurrent use.
type Gate struct {
	interval time.Duration
	last     time.Time
	fired    bool
}

// New returns a Gate with the given minimum interval between fires.
func New(interval time.Duration) *Gate {
	return &Gate{interval: interval}
}

// Interval returns the configured minimum interval.
func (g *Gate) Interval() time.Duration {
	return g.interval
}

// Attempt reports whether an event at now may proceed. It fires when more
// than the interval (strictly) has elapsed since the last fire, and records
// now as the new reference point.
func (g *Gate) Attempt(now time.Time) bool {
	if g.fired && now.Sub(g.last) <= g.interval {
		return false
	}
	g.last = now
	g.fired = true
	return true
}
