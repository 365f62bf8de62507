package telemetry

import (
	"fmt"

	"github.com/relabs-tech/cockpit_info/internal/gps"
	"github.com/relabs-tech/cockpit_info/internal/orientation"
)

// fieldSep separates fields on display and log lines.
const fieldSep = "  "

// AccelerationDisplay formats the gated acceleration reading.
func AccelerationDisplay(v orientation.Vector3) string {
	ms2, g := AccelerationMagnitude(v)
	return fmt.Sprintf("%.2f m/s%s%.2f g", ms2, fieldSep, g)
}

// AccelerationLog is the field part of an acceleration log line.
func AccelerationLog(v orientation.Vector3) string {
	ms2, _ := AccelerationMagnitude(v)
	return fmt.Sprintf("%.2f m/s", ms2)
}

// OrientationDisplay formats pitch, roll and heading, in that order.
func OrientationDisplay(p orientation.Pose) string {
	return fmt.Sprintf("%.1f°%s%.1f°%s%s°", p.Pitch, fieldSep, p.Roll, fieldSep, heading(p.Heading))
}

// heading formats a [0, 360) heading to one decimal. Values that round up
// to 360.0 wrap to 0.0.
func heading(deg float64) string {
	s := fmt.Sprintf("%.1f", deg)
	if s == "360.0" {
		return "0.0"
	}
	return s
}

// OrientationLog is the field part of an orientation log line. It carries
// the same fields as the display.
func OrientationLog(p orientation.Pose) string {
	return OrientationDisplay(p)
}

// LocationDisplay renders a fix as the five-line location block:
//
//	lat  lon
//
//	altitude-m  altitude-ft
//
//	speed-ms  speed-knots
func LocationDisplay(f gps.Fix) string {
	ms, knots := Speed(f.Speed)
	return Latitude(f.Latitude) + fieldSep + Longitude(f.Longitude) + "\n\n" +
		AltitudeMeters(f.Altitude) + fieldSep + AltitudeFeet(f.Altitude) + "\n\n" +
		ms + fieldSep + knots
}

// LocationLog is the field part of a location log line.
func LocationLog(f gps.Fix) string {
	ms, _ := Speed(f.Speed)
	return Latitude(f.Latitude) + fieldSep + Longitude(f.Longitude) + fieldSep +
		AltitudeMeters(f.Altitude) + fieldSep + ms
}

// LogLine prefixes fields with a timestamp, as written to a log channel.
func LogLine(stamp, fields string) string {
	return stamp + fieldSep + fields
}
