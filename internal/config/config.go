// Package config discovers and decodes the sniff configuration file into a
// rules.RuleSet and rules.Settings.
//
// The file is a single object. Reserved sniff_* keys are settings; every
// other key is a match-key whose value is either an array of command
// templates or an object with optional "relative_dir" and "commands".
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"

	serrors "github.com/Aman-CERP/sniff/internal/errors"
	"github.com/Aman-CERP/sniff/internal/rules"
)

// Reserved setting keys.
const (
	KeyIgnoreFile = "sniff_ignore_file"
	KeyIgnoreDir  = "sniff_ignore_dir"
	KeyCooldown   = "sniff_cooldown"
	KeyClearTerm  = "sniff_clear_term"
	KeyMatchMode  = "sniff_match_mode"
)

// Rule body keys.
const (
	KeyRelativeDir = "relative_dir"
	KeyCommands    = "commands"
)

// Format is the encoding of a config file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from the file extension. Anything that is
// not .yaml or .yml is read as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Config is a decoded configuration file.
type Config struct {
	// Path is the file the config was read from. Empty for Parse.
	Path     string
	Rules    *rules.RuleSet
	Settings rules.Settings
}

// field is one top-level key with its generically decoded value, in
// document order.
type field struct {
	key   string
	value any
}

// Load reads and decodes the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, serrors.New(serrors.ErrCodeConfigRead,
			fmt.Sprintf("read config %s", path), err).
			WithDetail("path", path)
	}

	cfg, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, err
	}
	cfg.Path = path

	slog.Debug("config loaded",
		slog.String("path", path),
		slog.String("mode", cfg.Rules.Mode().String()),
		slog.Int("rules", cfg.Rules.Len()))

	return cfg, nil
}

// Parse decodes config data in the given format.
func Parse(data []byte, format Format) (*Config, error) {
	var (
		fields []field
		err    error
	)
	switch format {
	case FormatYAML:
		fields, err = decodeYAML(data)
	default:
		fields, err = decodeJSON(data)
	}
	if err != nil {
		return nil, err
	}
	return build(fields)
}

// decodeJSON decodes a JSON object keeping key order.
func decodeJSON(data []byte) ([]field, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, serrors.ConfigError("JSON not well-formatted: top level must be an object", nil)
	}

	om := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(trimmed, om); err != nil {
		return nil, serrors.ConfigError("JSON not well-formatted", err)
	}

	fields := make([]field, 0, om.Len())
	for pair := om.Oldest(); pair != nil; pair = pair.Next() {
		var v any
		if err := json.Unmarshal(pair.Value, &v); err != nil {
			return nil, serrors.ConfigError(fmt.Sprintf("JSON not well-formatted at key %q", pair.Key), err)
		}
		fields = append(fields, field{key: pair.Key, value: v})
	}
	return fields, nil
}

// decodeYAML decodes a YAML mapping keeping key order.
func decodeYAML(data []byte) ([]field, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, serrors.ConfigError("YAML not well-formatted", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, serrors.ConfigError("YAML not well-formatted: top level must be a mapping", nil)
	}

	root := doc.Content[0]
	fields := make([]field, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i].Value
		var v any
		if err := root.Content[i+1].Decode(&v); err != nil {
			return nil, serrors.ConfigError(fmt.Sprintf("YAML not well-formatted at key %q", key), err)
		}
		fields = append(fields, field{key: key, value: v})
	}
	return fields, nil
}

// build splits settings from rules and decodes both.
func build(fields []field) (*Config, error) {
	settings := rules.DefaultSettings()
	mode := rules.ModeExtension
	var (
		entries     []rules.Entry
		sawCooldown bool
	)

	for _, f := range fields {
		var err error
		switch f.key {
		case KeyIgnoreFile:
			settings.IgnoredFiles, err = stringList(f.key, f.value)
		case KeyIgnoreDir:
			settings.IgnoredDirs, err = stringList(f.key, f.value)
		case KeyClearTerm:
			b, ok := f.value.(bool)
			if !ok {
				err = serrors.TypeError(f.key, "boolean values")
			}
			settings.ClearTerminal = b
		case KeyCooldown:
			sawCooldown = true
			settings.Cooldown = cooldown(f.value)
		case KeyMatchMode:
			s, ok := f.value.(string)
			if !ok {
				err = serrors.TypeError(f.key, "string values")
				break
			}
			mode, err = rules.ParseMode(s)
			if err != nil {
				err = serrors.ConfigError(err.Error(), nil).WithDetail("key", f.key)
			}
		default:
			var r rules.Rule
			r, err = decodeRule(f.key, f.value)
			entries = append(entries, rules.Entry{Key: f.key, Rule: r})
		}
		if err != nil {
			return nil, err
		}
	}

	if settings.IgnoredFiles == nil {
		slog.Debug("no ignored files configured")
	}
	if settings.IgnoredDirs == nil {
		slog.Debug("no ignored directories configured")
	}
	if !sawCooldown {
		slog.Debug("no cooldown configured, using default",
			slog.Duration("cooldown", rules.DefaultCooldown))
	}

	rs, err := rules.New(mode, entries)
	if err != nil {
		return nil, err
	}

	return &Config{Rules: rs, Settings: settings}, nil
}

// decodeRule turns a rule body into a typed Rule.
func decodeRule(key string, v any) (rules.Rule, error) {
	switch body := v.(type) {
	case []any:
		cmds, err := stringList(key, body)
		if err != nil {
			return rules.Rule{}, serrors.New(serrors.ErrCodeConfigType,
				"command arrays must be filled with strings only", nil).
				WithDetail("key", key)
		}
		return rules.Simple(cmds...), nil

	case map[string]any:
		var dir string
		if raw, ok := body[KeyRelativeDir]; ok {
			s, ok := raw.(string)
			if !ok {
				return rules.Rule{}, serrors.TypeError(KeyRelativeDir, "string values").
					WithDetail("rule", key)
			}
			dir = s
		}

		var cmds []string
		if raw, ok := body[KeyCommands]; ok {
			arr, ok := raw.([]any)
			if !ok {
				return rules.Rule{}, serrors.TypeError(KeyCommands, "arrays").
					WithDetail("rule", key)
			}
			var err error
			if cmds, err = stringList(key, arr); err != nil {
				return rules.Rule{}, serrors.New(serrors.ErrCodeConfigType,
					"command wasn't a string", nil).
					WithDetail("rule", key)
			}
		}
		return rules.Scoped(dir, cmds...), nil

	default:
		return rules.Rule{}, serrors.ConfigError(
			fmt.Sprintf("received incorrect rule object for %q", key), nil).
			WithSuggestion("use an array of commands or an object with \"relative_dir\" and \"commands\"")
	}
}

// stringList converts a decoded array into strings.
func stringList(key string, v any) ([]string, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, serrors.TypeError(key, "arrays of strings")
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		s, ok := item.(string)
		if !ok {
			return nil, serrors.TypeError(key, "arrays of strings")
		}
		out = append(out, s)
	}
	return out, nil
}

// cooldown reads a millisecond count. Absent, negative, fractional or
// non-numeric values fall back to the default.
func cooldown(v any) time.Duration {
	var ms float64
	switch n := v.(type) {
	case float64:
		ms = n
	case int:
		ms = float64(n)
	case int64:
		ms = float64(n)
	case uint64:
		ms = float64(n)
	default:
		slog.Debug("malformed cooldown, using default",
			slog.Any("value", v),
			slog.Duration("cooldown", rules.DefaultCooldown))
		return rules.DefaultCooldown
	}

	if ms < 0 || ms != math.Trunc(ms) || ms > float64(math.MaxInt64/int64(time.Millisecond)) {
		slog.Debug("malformed cooldown, using default",
			slog.Float64("value", ms),
			slog.Duration("cooldown", rules.DefaultCooldown))
		return rules.DefaultCooldown
	}
	return time.Duration(ms) * time.Millisecond
}
