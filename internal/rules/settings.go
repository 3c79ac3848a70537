package rules

import (
	"strings"
	"time"
)

// DefaultCooldown applies when sniff_cooldown is absent or malformed.
const DefaultCooldown = 650 * time.Millisecond

// Settings are the filter options shared by every rule.
type Settings struct {
	// IgnoredFiles are exact base names that never trigger.
	IgnoredFiles []string
	// IgnoredDirs are substrings; a path whose parent contains one never triggers.
	IgnoredDirs []string
	// Cooldown is the minimum time between accepted events.
	Cooldown time.Duration
	// ClearTerminal clears the terminal once per accepted event.
	ClearTerminal bool
}

// DefaultSettings returns settings with no filtering and the default cooldown.
func DefaultSettings() Settings {
	return Settings{Cooldown: DefaultCooldown}
}

// IgnoresFile reports whether base is in the ignored file list.
func (s Settings) IgnoresFile(base string) bool {
	for _, f := range s.IgnoredFiles {
		if f == base {
			return true
		}
	}
	return false
}

// IgnoresDir reports whether dir contains any ignored substring.
func (s Settings) IgnoresDir(dir string) bool {
	for _, d := range s.IgnoredDirs {
		if strings.Contains(dir, d) {
			return true
		}
	}
	return false
}
