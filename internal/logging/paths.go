package logging

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// DefaultLogDir returns $XDG_STATE_HOME/sniff.
// Falls back to the temp directory when no state home can be resolved.
func DefaultLogDir() string {
	if xdg.StateHome == "" {
		return filepath.Join(os.TempDir(), "sniff")
	}
	return filepath.Join(xdg.StateHome, "sniff")
}

// DefaultLogPath returns the debug log path.
func DefaultLogPath() string {
	return filepath.Join(DefaultLogDir(), "sniff.log")
}
