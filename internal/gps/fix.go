package gps

import "time"

// Fix is a single location fix suitable for JSON and MQTT. Units are as
// delivered by the receiver: degrees, meters, m/s.
type Fix struct {
	Latitude  float64   `json:"lat"`      // decimal degrees
	Longitude float64   `json:"lon"`      // decimal degrees
	Altitude  float64   `json:"alt_m"`    // meters above mean sea level
	Speed     float64   `json:"speed_ms"` // speed over ground
	Time      time.Time `json:"time"`
}
