package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/relabs-tech/cockpit_info/internal/gps"
	"github.com/relabs-tech/cockpit_info/internal/imu"
	"github.com/relabs-tech/cockpit_info/internal/orientation"
	"github.com/relabs-tech/cockpit_info/internal/pipeline"
)

// decodeSample parses an accel or mag payload.
func decodeSample(payload []byte) (orientation.Vector3, error) {
	var s imu.Sample
	if err := json.Unmarshal(payload, &s); err != nil {
		return orientation.Vector3{}, fmt.Errorf("sample unmarshal: %w", err)
	}
	v := s.Vector()
	if !finite(v.X) || !finite(v.Y) || !finite(v.Z) {
		return orientation.Vector3{}, fmt.Errorf("sample has non-finite component: %+v", v)
	}
	return v, nil
}

// decodeFix parses a GPS payload. An empty payload (a cleared retained
// message) or a JSON null means no fix and yields nil.
func decodeFix(payload []byte) (*gps.Fix, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, nil
	}
	var f *gps.Fix
	if err := json.Unmarshal(payload, &f); err != nil {
		return nil, fmt.Errorf("gps unmarshal: %w", err)
	}
	return f, nil
}

// parseToggle decodes a log-control message. The channel is the last topic
// level below prefix; the payload is "on"/"off" or anything
// strconv.ParseBool accepts.
func parseToggle(prefix, topic string, payload []byte) (pipeline.Channel, bool, error) {
	rest, ok := strings.CutPrefix(topic, prefix+"/")
	if !ok || rest == "" || strings.Contains(rest, "/") {
		return 0, false, fmt.Errorf("unexpected log control topic %q", topic)
	}
	ch, err := pipeline.ParseChannel(rest)
	if err != nil {
		return 0, false, err
	}

	switch v := strings.ToLower(strings.TrimSpace(string(payload))); v {
	case "on":
		return ch, true, nil
	case "off":
		return ch, false, nil
	default:
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return 0, false, fmt.Errorf("invalid log control payload %q", payload)
		}
		return ch, enabled, nil
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
