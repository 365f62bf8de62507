package pipeline

import (
	"fmt"
	"strings"
)

// Channel identifies one telemetry stream. Each stream has its own display
// slot and its own log channel.
type Channel int

const (
	Acceleration Channel = iota
	Location
	Orientation
)

// Channels lists every channel in display order.
var Channels = []Channel{Acceleration, Location, Orientation}

func (c Channel) String() string {
	switch c {
	case Acceleration:
		return "acc"
	case Location:
		return "loc"
	case Orientation:
		return "ori"
	default:
		return fmt.Sprintf("channel(%d)", int(c))
	}
}

// ParseChannel accepts both the short ("acc") and long ("acceleration")
// channel names, case-insensitively.
func ParseChannel(s string) (Channel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "acc", "acceleration":
		return Acceleration, nil
	case "loc", "location":
		return Location, nil
	case "ori", "orientation":
		return Orientation, nil
	default:
		return 0, fmt.Errorf("unknown channel %q", s)
	}
}
