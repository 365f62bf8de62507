package app

import (
	"context"
	"fmt"
	"image"
	"log"
	"strings"
	"sync"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/cockpit_info/internal/config"
	"github.com/relabs-tech/cockpit_info/internal/logchan"
	"github.com/relabs-tech/cockpit_info/internal/pipeline"
)

const (
	oledWidth      = 128
	oledHeight     = 64
	oledLineHeight = 13 // basicfont.Face7x13
	oledMaxLines   = oledHeight / oledLineHeight
)

// oledDisplay is a pipeline.Display for a 128x64 SSD1306. It only keeps
// the latest text; the panel is redrawn on its own ticker by runOLED.
type oledDisplay struct {
	mu      sync.Mutex
	content string // "motion" or "location"
	text    map[pipeline.Channel]string
	logging map[pipeline.Channel]bool
}

func newOLEDDisplay(content string) *oledDisplay {
	return &oledDisplay{
		content: content,
		text:    make(map[pipeline.Channel]string),
		logging: make(map[pipeline.Channel]bool),
	}
}

func (d *oledDisplay) Show(ch pipeline.Channel, text string) {
	d.mu.Lock()
	d.text[ch] = text
	d.mu.Unlock()
}

func (d *oledDisplay) LogState(ch pipeline.Channel, state logchan.State) {
	d.mu.Lock()
	d.logging[ch] = state == logchan.Open
	d.mu.Unlock()
}

// lines returns what the panel should show right now.
func (d *oledDisplay) lines() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	var out []string
	switch d.content {
	case "location":
		if loc, ok := d.text[pipeline.Location]; ok {
			for _, l := range strings.Split(loc, "\n") {
				if l != "" {
					out = append(out, oledText(l))
				}
			}
		}
	default:
		if acc, ok := d.text[pipeline.Acceleration]; ok {
			out = append(out, "A "+oledText(acc))
		}
		if ori, ok := d.text[pipeline.Orientation]; ok {
			out = append(out, "O "+oledText(ori))
		}
	}
	if len(out) == 0 {
		return []string{"Cockpit Info", "Waiting..."}
	}
	return append(out, d.statusLine())
}

// statusLine shows which channels are logging, e.g. "Log: A - O".
func (d *oledDisplay) statusLine() string {
	marks := make([]string, 0, len(pipeline.Channels))
	for _, ch := range pipeline.Channels {
		if d.logging[ch] {
			marks = append(marks, strings.ToUpper(ch.String()[:1]))
		} else {
			marks = append(marks, "-")
		}
	}
	return "Log: " + strings.Join(marks, " ")
}

// oledText drops the degree sign, which basicfont cannot draw, and
// collapses field separators to one space to fit 18 columns.
func oledText(s string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(s, "°", "")), " ")
}

// renderFrame draws up to four text lines into a blank 1-bit frame.
func renderFrame(lines []string) *image1bit.VerticalLSB {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, oledWidth, oledHeight))

	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}
	for i, l := range lines {
		if i == oledMaxLines {
			break
		}
		drawer.Dot = fixed.P(0, oledLineHeight*(i+1))
		drawer.DrawString(l)
	}
	return img
}

// runOLED drives the panel until ctx is cancelled.
func runOLED(ctx context.Context, cfg *config.Config, d *oledDisplay) error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	bus, err := i2creg.Open(cfg.DisplayI2CBus)
	if err != nil {
		return fmt.Errorf("failed to open I2C bus: %w", err)
	}
	defer bus.Close()

	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize display: %w", err)
	}
	defer func() {
		if err := dev.Halt(); err != nil {
			log.Printf("display: halt error: %v", err)
		}
	}()
	log.Printf("display: initialized (%s)", d.content)

	ticker := time.NewTicker(time.Duration(cfg.DisplayUpdateInterval) * time.Millisecond)
	defer ticker.Stop()

	for {
		if err := dev.Draw(dev.Bounds(), renderFrame(d.lines()), image.Point{}); err != nil {
			log.Printf("display: draw error: %v", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
