package httpclient

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Display receives user-facing output: retry progress and reports.
// style is one of StyleSuccess, StyleFailed or StyleInfo.
type Display interface {
	Print(text, style string)
}

// DiscardDisplay drops all output.
type DiscardDisplay struct{}

func (DiscardDisplay) Print(string, string) {}

// ConsoleDisplay writes coloured lines to a writer.
type ConsoleDisplay struct {
	mu       sync.Mutex
	out      io.Writer
	settings *Settings
}

// NewConsoleDisplay creates a ConsoleDisplay writing to out, coloured
// according to settings.Style. A nil out selects os.Stdout.
func NewConsoleDisplay(out io.Writer, settings *Settings) *ConsoleDisplay {
	if out == nil {
		out = os.Stdout
	}
	if settings == nil {
		settings = DefaultSettings()
	}
	return &ConsoleDisplay{out: out, settings: settings}
}

// Print writes text followed by a newline.
func (d *ConsoleDisplay) Print(text, style string) {
	c := styleColor(d.settings.Style[style])
	if d.settings.NoColor {
		c.DisableColor()
	} else {
		c.EnableColor()
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintln(d.out, c.Sprint(text))
}

// styleColor parses a space separated attribute list such as "bold red".
// Unknown words are ignored.
func styleColor(spec string) *color.Color {
	c := color.New()
	for _, word := range strings.Fields(strings.ToLower(spec)) {
		if attr, ok := styleAttributes[word]; ok {
			c.Add(attr)
		}
	}
	return c
}

var styleAttributes = map[string]color.Attribute{
	"bold":      color.Bold,
	"faint":     color.Faint,
	"italic":    color.Italic,
	"underline": color.Underline,
	"black":     color.FgBlack,
	"red":       color.FgRed,
	"green":     color.FgGreen,
	"yellow":    color.FgYellow,
	"blue":      color.FgBlue,
	"magenta":   color.FgMagenta,
	"cyan":      color.FgCyan,
	"white":     color.FgWhite,
}
