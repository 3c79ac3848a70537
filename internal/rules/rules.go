// Package rules holds the parsed sniff configuration: the ordered Rule Set
// that maps match-keys to command templates, and the filter Settings.
//
// Both are built once at startup and never mutated afterwards.
package rules

import (
	"fmt"
	"regexp"
	"strings"

	serrors "github.com/Aman-CERP/sniff/internal/errors"
)

// Mode selects how match-keys are interpreted.
type Mode int

const (
	// ModeExtension compares keys against the file extension.
	ModeExtension Mode = iota
	// ModePattern treats keys as regular expressions searched in the path.
	ModePattern
)

// String returns the configuration spelling of the mode.
func (m Mode) String() string {
	switch m {
	case ModeExtension:
		return "extension"
	case ModePattern:
		return "pattern"
	default:
		return "unknown"
	}
}

// ParseMode parses the configuration spelling of a mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "", "extension", "ext":
		return ModeExtension, nil
	case "pattern", "regex":
		return ModePattern, nil
	default:
		return ModeExtension, fmt.Errorf("unknown match mode %q (use: extension, pattern)", s)
	}
}

// Kind distinguishes the two rule shapes.
type Kind int

const (
	// KindSimple is a bare list of commands run with no working directory override.
	KindSimple Kind = iota
	// KindScoped is a command list with an optional working directory.
	KindScoped
)

// Rule is the command template list bound to one match-key.
type Rule struct {
	Kind     Kind
	Commands []string
	// WorkingDir is only meaningful for KindScoped. Empty means the
	// process working directory.
	WorkingDir string
}

// Simple builds a KindSimple rule.
func Simple(commands ...string) Rule {
	return Rule{Kind: KindSimple, Commands: commands}
}

// Scoped builds a KindScoped rule.
func Scoped(dir string, commands ...string) Rule {
	return Rule{Kind: KindScoped, Commands: commands, WorkingDir: dir}
}

// Batch is one resolved (commands, working directory) pair.
type Batch struct {
	Commands   []string
	WorkingDir string
}

// batch resolves the rule into its execution batch.
func (r Rule) batch() Batch {
	b := Batch{Commands: append([]string(nil), r.Commands...)}
	if r.Kind == KindScoped {
		b.WorkingDir = r.WorkingDir
	}
	return b
}

// Entry pairs a match-key with its rule.
type Entry struct {
	Key  string
	Rule Rule
}

type compiledEntry struct {
	Entry
	re *regexp.Regexp
}

// RuleSet is an immutable, ordered mapping of match-keys to rules.
type RuleSet struct {
	mode    Mode
	entries []compiledEntry
}

// New builds a RuleSet. Entries keep the given order. In pattern mode every
// key is compiled here, so a bad expression fails at load time.
func New(mode Mode, entries []Entry) (*RuleSet, error) {
	rs := &RuleSet{
		mode:    mode,
		entries: make([]compiledEntry, 0, len(entries)),
	}

	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, dup := seen[e.Key]; dup {
			return nil, serrors.ConfigError(fmt.Sprintf("duplicate match-key %q", e.Key), nil)
		}
		seen[e.Key] = struct{}{}

		ce := compiledEntry{Entry: Entry{
			Key:  e.Key,
			Rule: Rule{Kind: e.Rule.Kind, Commands: append([]string(nil), e.Rule.Commands...), WorkingDir: e.Rule.WorkingDir},
		}}
		if mode == ModePattern {
			re, err := regexp.Compile(e.Key)
			if err != nil {
				return nil, serrors.New(serrors.ErrCodeConfigPattern,
					fmt.Sprintf("invalid pattern %q", e.Key), err).
					WithDetail("key", e.Key)
			}
			ce.re = re
		}
		rs.entries = append(rs.entries, ce)
	}

	return rs, nil
}

// Mode returns the match mode of the set.
func (rs *RuleSet) Mode() Mode {
	return rs.mode
}

// Len returns the number of match-keys.
func (rs *RuleSet) Len() int {
	return len(rs.entries)
}

// Keys returns the match-keys in configuration order.
func (rs *RuleSet) Keys() []string {
	keys := make([]string, len(rs.entries))
	for i, e := range rs.entries {
		keys[i] = e.Key
	}
	return keys
}

// Match returns the batches of every rule whose key matches path, in
// configuration order. All matching rules fire, not just the first.
// A path that matches nothing yields an empty result.
func (rs *RuleSet) Match(path string) []Batch {
	var batches []Batch

	switch rs.mode {
	case ModePattern:
		for _, e := range rs.entries {
			if e.re.MatchString(path) {
				batches = append(batches, e.Rule.batch())
			}
		}
	default:
		ext, ok := Extension(path)
		if !ok {
			return nil
		}
		for _, e := range rs.entries {
			if e.Key == ext {
				batches = append(batches, e.Rule.batch())
			}
		}
	}

	return batches
}
