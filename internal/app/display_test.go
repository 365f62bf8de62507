package app

import (
	"reflect"
	"testing"

	"github.com/relabs-tech/cockpit_info/internal/logchan"
	"github.com/relabs-tech/cockpit_info/internal/pipeline"
)

func TestOLEDDisplay_WaitingUntilData(t *testing.T) {
	d := newOLEDDisplay("motion")
	d.Show(pipeline.Location, "1.0°N  2.0°E\n\n10.0 m  32.8 feet\n\n0 m/s  0 knots")

	got := d.lines()
	want := []string{"Cockpit Info", "Waiting..."}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("lines=%q want %q", got, want)
	}
}

func TestOLEDDisplay_MotionLines(t *testing.T) {
	d := newOLEDDisplay("motion")
	d.Show(pipeline.Acceleration, "9.81 m/s  1.00 g")
	d.Show(pipeline.Orientation, "12.3°  -4.5°  271.3°")
	d.LogState(pipeline.Orientation, logchan.Open)

	got := d.lines()
	want := []string{"A 9.81 m/s 1.00 g", "O 12.3 -4.5 271.3", "Log: - - O"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("lines=%q want %q", got, want)
	}
}

func TestOLEDDisplay_LocationLines(t *testing.T) {
	d := newOLEDDisplay("location")
	d.Show(pipeline.Location, "33.8°S  151.2°E\n\n45.0 m  147.6 feet\n\n12 m/s  23 knots")
	d.LogState(pipeline.Location, logchan.Open)
	d.LogState(pipeline.Acceleration, logchan.Open)
	d.LogState(pipeline.Acceleration, logchan.Closed)

	got := d.lines()
	want := []string{"33.8S 151.2E", "45.0 m 147.6 feet", "12 m/s 23 knots", "Log: - L -"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("lines=%q want %q", got, want)
	}
}

func TestRenderFrame(t *testing.T) {
	lit := func(lines []string) bool {
		for _, b := range renderFrame(lines).Pix {
			if b != 0 {
				return true
			}
		}
		return false
	}

	if lit(nil) {
		t.Fatalf("empty frame has lit pixels")
	}
	if !lit([]string{"Waiting..."}) {
		t.Fatalf("text frame has no lit pixels")
	}
	// Lines past the bottom of the panel are dropped, not wrapped.
	if lit([]string{"", "", "", "", "overflow"}) {
		t.Fatalf("fifth line was drawn")
	}
}

func TestOLEDText(t *testing.T) {
	if got := oledText("12.3°  -4.5°  271.3°"); got != "12.3 -4.5 271.3" {
		t.Fatalf("oledText=%q", got)
	}
}
