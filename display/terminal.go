package display

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"formpost/config"
)

// Terminal prints each outcome as one line, green on success and red on failure.
type Terminal struct {
	mutex    sync.Mutex
	out      io.Writer
	useColor bool
}

// NewTerminal creates a Terminal writing to out. mode is one of the
// config.Color* values.
func NewTerminal(out io.Writer, mode string) *Terminal {
	return &Terminal{
		out:      out,
		useColor: resolveColor(out, mode),
	}
}

// Show prints the outcome.
func (t *Terminal) Show(outcome Outcome) {
	line := outcome.Text
	if t.useColor {
		line = colorFor(outcome.Status).Sprint(line)
	}

	t.mutex.Lock()
	defer t.mutex.Unlock()
	if _, err := fmt.Fprintln(t.out, line); err != nil {
		log.Errorf("Failed to write outcome: %v", err)
	}
}

func colorFor(status Status) text.Colors {
	switch status {
	case Success:
		return text.Colors{text.FgGreen}
	case Failure:
		return text.Colors{text.FgRed}
	default:
		return text.Colors{}
	}
}

func resolveColor(out io.Writer, mode string) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := out.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
