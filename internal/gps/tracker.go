// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"errors"
	"fmt"
	"strings"
	"time"

	nmea "github.com/adrianmo/go-nmea"
)

// MetersPerSecondPerKnot converts NMEA ground speed into m/s.
const MetersPerSecondPerKnot = 0.514444

// ErrNotNMEA is returned by Tracker.Feed for lines that are not sentences.
var ErrNotNMEA = errors.New("not an NMEA sentence")

// Tracker folds a stream of NMEA sentences into Fixes. RMC sentences carry
// position and speed and complete a fix; GGA sentences carry altitude,
// which is remembered and attached to the next RMC.
type Tracker struct {
	altitude float64
	haveAlt  bool
	last     Fix
	haveLast bool
}

// Feed parses one line. It returns the completed fix and true when the
// line was a valid RMC sentence. Lines that do not parse return an error;
// callers usually just skip them since receivers emit partial lines.
func (t *Tracker) Feed(line string) (Fix, bool, error) {
	line = strings.TrimSpace(line)
	if line == "" || !strings.HasPrefix(line, "$") {
		return Fix{}, false, ErrNotNMEA
	}

	sentence, err := nmea.Parse(line)
	if err != nil {
		return Fix{}, false, fmt.Errorf("nmea parse: %w", err)
	}

	switch sentence.DataType() {
	case nmea.TypeGGA:
		m := sentence.(nmea.GGA)
		if m.FixQuality == nmea.Invalid {
			return Fix{}, false, nil
		}
		t.altitude = m.Altitude
		t.haveAlt = true
		return Fix{}, false, nil

	case nmea.TypeRMC:
		m := sentence.(nmea.RMC)
		if m.Validity != nmea.ValidRMC {
			return Fix{}, false, nil
		}
		fix := Fix{
			Latitude:  m.Latitude,
			Longitude: m.Longitude,
			Speed:     m.Speed * MetersPerSecondPerKnot,
			Time:      fixTime(m.Date, m.Time),
		}
		if t.haveAlt {
			fix.Altitude = t.altitude
		}
		t.last = fix
		t.haveLast = true
		return fix, true, nil

	default:
		// GSA, GSV, VTG, ... carry nothing the cockpit shows.
		return Fix{}, false, nil
	}
}

// Last returns the most recent fix, if any.
func (t *Tracker) Last() (Fix, bool) {
	return t.last, t.haveLast
}

func fixTime(d nmea.Date, tm nmea.Time) time.Time {
	if !d.Valid || !tm.Valid {
		return time.Time{}
	}
	year := 2000 + d.YY
	if d.YY >= 80 {
		year = 1900 + d.YY
	}
	return time.Date(year, time.Month(d.MM), d.DD,
		tm.Hour, tm.Minute, tm.Second, tm.Millisecond*int(time.Millisecond), time.UTC)
}
