package pipeline

import (
	"fmt"
	"io"
	"strings"

	"github.com/relabs-tech/cockpit_info/internal/logchan"
)

// Display is the output boundary of the pipeline. Show receives the
// formatted text for a channel; LogState is called whenever a log channel
// is toggled, with the state it ended up in.
type Display interface {
	Show(ch Channel, text string)
	LogState(ch Channel, state logchan.State)
}

// MultiDisplay fans every call out to each display in order.
type MultiDisplay []Display

func (m MultiDisplay) Show(ch Channel, text string) {
	for _, d := range m {
		d.Show(ch, text)
	}
}

func (m MultiDisplay) LogState(ch Channel, state logchan.State) {
	for _, d := range m {
		d.LogState(ch, state)
	}
}

// NopDisplay discards everything.
type NopDisplay struct{}

func (NopDisplay) Show(Channel, string)            {}
func (NopDisplay) LogState(Channel, logchan.State) {}

// ConsoleDisplay writes one tagged line per update, in the style of the
// MQTT console subscriber. Multi-line text is flattened with " | ".
type ConsoleDisplay struct {
	W io.Writer
}

func (c ConsoleDisplay) Show(ch Channel, text string) {
	flat := strings.ReplaceAll(strings.ReplaceAll(text, "\n\n", " | "), "\n", " | ")
	fmt.Fprintf(c.W, "[%s] %s\n", strings.ToUpper(ch.String()), flat)
}

func (c ConsoleDisplay) LogState(ch Channel, state logchan.State) {
	fmt.Fprintf(c.W, "[%s] %s\n", strings.ToUpper(ch.String()), state)
}
