package runner

import (
	"io"
	"os"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-isatty"
)

// TerminalClearer clears the screen before a new round of commands.
type TerminalClearer struct {
	out     io.Writer
	enabled bool
}

// NewTerminalClearer returns a clearer for f. Clearing is skipped when f is
// not a terminal, so redirected output stays free of escape codes.
func NewTerminalClearer(f *os.File) *TerminalClearer {
	fd := f.Fd()
	return &TerminalClearer{
		out:     f,
		enabled: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
	}
}

// Clear erases the screen and homes the cursor.
func (c *TerminalClearer) Clear() {
	if !c.enabled {
		return
	}
	_, _ = io.WriteString(c.out, ansi.EraseEntireScreen+ansi.CursorHomePosition)
}
