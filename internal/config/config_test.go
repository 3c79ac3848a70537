package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serrors "github.com/Aman-CERP/sniff/internal/errors"
	"github.com/Aman-CERP/sniff/internal/rules"
)

func TestParse_JSON_SimpleAndScopedRules(t *testing.T) {
	// Given: a config with one simple and one scoped rule
	data := []byte(`{
		"rs": ["cargo build", "cargo test"],
		"ext": {"relative_dir": "build", "commands": ["make %sniff_file_name%"]}
	}`)

	// When: parsing
	cfg, err := Parse(data, FormatJSON)

	// Then: both rules decode with their shapes
	require.NoError(t, err)
	assert.Equal(t, rules.ModeExtension, cfg.Rules.Mode())
	assert.Equal(t, []string{"rs", "ext"}, cfg.Rules.Keys())

	rs := cfg.Rules.Match("src/main.rs")
	require.Len(t, rs, 1)
	assert.Equal(t, []string{"cargo build", "cargo test"}, rs[0].Commands)
	assert.Empty(t, rs[0].WorkingDir)

	ext := cfg.Rules.Match("/home/u/proj/foo.ext")
	require.Len(t, ext, 1)
	assert.Equal(t, []string{"make %sniff_file_name%"}, ext[0].Commands)
	assert.Equal(t, "build", ext[0].WorkingDir)
}

func TestParse_JSON_PreservesKeyOrder(t *testing.T) {
	data := []byte(`{"z": ["1"], "a": ["2"], "m": ["3"], "b": ["4"]}`)

	cfg, err := Parse(data, FormatJSON)

	require.NoError(t, err)
	assert.Equal(t, []string{"z", "a", "m", "b"}, cfg.Rules.Keys())
}

func TestParse_SettingsAreNotRules(t *testing.T) {
	// Given: all settings alongside a rule
	data := []byte(`{
		"sniff_ignore_dir": ["node_modules", "target"],
		"sniff_ignore_file": ["Cargo.lock"],
		"sniff_cooldown": 1000,
		"sniff_clear_term": true,
		"js": ["npm test"]
	}`)

	// When: parsing
	cfg, err := Parse(data, FormatJSON)

	// Then: settings are decoded and only the rule is a match-key
	require.NoError(t, err)
	assert.Equal(t, []string{"js"}, cfg.Rules.Keys())
	assert.Equal(t, []string{"node_modules", "target"}, cfg.Settings.IgnoredDirs)
	assert.Equal(t, []string{"Cargo.lock"}, cfg.Settings.IgnoredFiles)
	assert.Equal(t, time.Second, cfg.Settings.Cooldown)
	assert.True(t, cfg.Settings.ClearTerminal)
}

func TestParse_MissingSettingsUseDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`{"rs": ["cargo build"]}`), FormatJSON)

	require.NoError(t, err)
	assert.Equal(t, rules.DefaultSettings(), cfg.Settings)
}

func TestParse_MalformedCooldownFallsBack(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Duration
	}{
		{"zero", `0`, 0},
		{"integer", `250`, 250 * time.Millisecond},
		{"negative", `-5`, rules.DefaultCooldown},
		{"fraction", `1.5`, rules.DefaultCooldown},
		{"string", `"650ms"`, rules.DefaultCooldown},
		{"null", `null`, rules.DefaultCooldown},
		{"huge", `1e300`, rules.DefaultCooldown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(`{"sniff_cooldown": `+tt.raw+`}`), FormatJSON)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Settings.Cooldown)
		})
	}
}

func TestParse_MatchMode(t *testing.T) {
	// Given: pattern mode declared after the rules
	data := []byte(`{"\\.go$": ["go build"], "^docs/": ["mkdocs build"], "sniff_match_mode": "pattern"}`)

	// When: parsing
	cfg, err := Parse(data, FormatJSON)

	// Then: keys are regular expressions
	require.NoError(t, err)
	assert.Equal(t, rules.ModePattern, cfg.Rules.Mode())
	assert.Len(t, cfg.Rules.Match("cmd/main.go"), 1)
	assert.Len(t, cfg.Rules.Match("docs/index.md"), 1)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code string
	}{
		{"not json", `{"rs": [`, serrors.ErrCodeConfigInvalid},
		{"top level array", `["cargo build"]`, serrors.ErrCodeConfigInvalid},
		{"empty", ``, serrors.ErrCodeConfigInvalid},
		{"rule is a number", `{"rs": 3}`, serrors.ErrCodeConfigInvalid},
		{"rule is a string", `{"rs": "cargo build"}`, serrors.ErrCodeConfigInvalid},
		{"non-string command", `{"rs": ["cargo build", 1]}`, serrors.ErrCodeConfigType},
		{"relative_dir not string", `{"rs": {"relative_dir": 1, "commands": []}}`, serrors.ErrCodeConfigType},
		{"commands not array", `{"rs": {"commands": "make"}}`, serrors.ErrCodeConfigType},
		{"commands element not string", `{"rs": {"commands": [true]}}`, serrors.ErrCodeConfigType},
		{"ignore dir not array", `{"sniff_ignore_dir": "node_modules"}`, serrors.ErrCodeConfigType},
		{"ignore file element not string", `{"sniff_ignore_file": [1]}`, serrors.ErrCodeConfigType},
		{"clear term not bool", `{"sniff_clear_term": "yes"}`, serrors.ErrCodeConfigType},
		{"match mode unknown", `{"sniff_match_mode": "glob"}`, serrors.ErrCodeConfigInvalid},
		{"match mode not string", `{"sniff_match_mode": 1}`, serrors.ErrCodeConfigType},
		{"bad pattern", `{"sniff_match_mode": "pattern", "([a-z": ["make"]}`, serrors.ErrCodeConfigPattern},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), FormatJSON)
			require.Error(t, err)
			assert.Equal(t, tt.code, serrors.GetCode(err))
			assert.True(t, serrors.IsFatal(err), "config errors must be fatal")
		})
	}
}

func TestParse_ScopedRuleWithoutDirOrCommands(t *testing.T) {
	cfg, err := Parse([]byte(`{"rs": {"other": 1}}`), FormatJSON)

	require.NoError(t, err)
	got := cfg.Rules.Match("main.rs")
	require.Len(t, got, 1)
	assert.Empty(t, got[0].Commands)
	assert.Empty(t, got[0].WorkingDir)
}

func TestParse_YAML(t *testing.T) {
	// Given: the same shapes in YAML
	data := []byte(`
sniff_ignore_dir: [node_modules]
sniff_cooldown: 100
rs:
  - cargo build
ext:
  relative_dir: build
  commands:
    - make %sniff_file_name%
js: [npm test]
`)

	// When: parsing as YAML
	cfg, err := Parse(data, FormatYAML)

	// Then: order and shapes match the JSON decoder
	require.NoError(t, err)
	assert.Equal(t, []string{"rs", "ext", "js"}, cfg.Rules.Keys())
	assert.Equal(t, 100*time.Millisecond, cfg.Settings.Cooldown)
	assert.Equal(t, []string{"node_modules"}, cfg.Settings.IgnoredDirs)

	got := cfg.Rules.Match("foo.ext")
	require.Len(t, got, 1)
	assert.Equal(t, "build", got[0].WorkingDir)
}

func TestParse_YAML_Errors(t *testing.T) {
	_, err := Parse([]byte("- a\n- b\n"), FormatYAML)
	assert.Equal(t, serrors.ErrCodeConfigInvalid, serrors.GetCode(err))

	_, err = Parse([]byte("rs: [\n"), FormatYAML)
	assert.Equal(t, serrors.ErrCodeConfigInvalid, serrors.GetCode(err))

	_, err = Parse([]byte("rs: [cargo, {a: b}]\n"), FormatYAML)
	assert.Equal(t, serrors.ErrCodeConfigType, serrors.GetCode(err))
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatFromPath("sniff.json"))
	assert.Equal(t, FormatYAML, FormatFromPath("/x/sniff.yaml"))
	assert.Equal(t, FormatYAML, FormatFromPath("sniff.YML"))
	assert.Equal(t, FormatJSON, FormatFromPath("sniff"))
}

func TestLoad_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sniff.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"rs": ["cargo build"]}`), 0o644))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, 1, cfg.Rules.Len())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))

	require.Error(t, err)
	assert.Equal(t, serrors.ErrCodeConfigRead, serrors.GetCode(err))
}
