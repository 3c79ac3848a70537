package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serrors "github.com/Aman-CERP/sniff/internal/errors"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeExtension, false},
		{"extension", ModeExtension, false},
		{"Pattern", ModePattern, false},
		{"regex", ModePattern, false},
		{"glob", ModeExtension, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "extension", ModeExtension.String())
	assert.Equal(t, "pattern", ModePattern.String())
	assert.Equal(t, "unknown", Mode(9).String())
}

func TestRuleSet_ExtensionMatch_OnlyThatKey(t *testing.T) {
	// Given: extension rules for ext and rs
	rs, err := New(ModeExtension, []Entry{
		{Key: "ext", Rule: Simple("echo ext")},
		{Key: "rs", Rule: Simple("cargo build")},
	})
	require.NoError(t, err)

	// When: matching a path ending in .ext
	got := rs.Match("a/b/file.ext")

	// Then: only the ext rule fires
	require.Len(t, got, 1)
	assert.Equal(t, []string{"echo ext"}, got[0].Commands)
	assert.Empty(t, got[0].WorkingDir)
}

func TestRuleSet_ExtensionMatch_IsCaseSensitive(t *testing.T) {
	rs, err := New(ModeExtension, []Entry{{Key: "rs", Rule: Simple("cargo build")}})
	require.NoError(t, err)

	assert.Empty(t, rs.Match("src/MAIN.RS"))
	assert.Len(t, rs.Match("src/main.rs"), 1)
}

func TestRuleSet_ExtensionMatch_NoExtensionIsNoOp(t *testing.T) {
	rs, err := New(ModeExtension, []Entry{{Key: "rs", Rule: Simple("cargo build")}})
	require.NoError(t, err)

	for _, p := range []string{"Makefile", "src/Makefile", "src/.bashrc", "src/file."} {
		assert.Empty(t, rs.Match(p), p)
	}
}

func TestRuleSet_PatternMatch_AllMatchingKeysInOrder(t *testing.T) {
	// Given: three patterns, two of which match the path
	rs, err := New(ModePattern, []Entry{
		{Key: `\.go$`, Rule: Simple("go build ./...")},
		{Key: `^docs/`, Rule: Simple("mkdocs build")},
		{Key: `internal`, Rule: Scoped("internal", "go test ./...", "go vet ./...")},
	})
	require.NoError(t, err)

	// When: matching a Go file under internal
	got := rs.Match("src/internal/main.go")

	// Then: both matching rules fire in configuration order
	require.Len(t, got, 2)
	assert.Equal(t, []string{"go build ./..."}, got[0].Commands)
	assert.Equal(t, []string{"go test ./...", "go vet ./..."}, got[1].Commands)
	assert.Equal(t, "internal", got[1].WorkingDir)
}

func TestRuleSet_PatternMatch_SearchNotFullMatch(t *testing.T) {
	rs, err := New(ModePattern, []Entry{{Key: `lib`, Rule: Simple("make")}})
	require.NoError(t, err)

	assert.Len(t, rs.Match("/home/u/proj/src/lib.rs"), 1)
	assert.Empty(t, rs.Match("/home/u/proj/src/main.rs"))
}

func TestRuleSet_PatternMatch_InvalidPatternFailsAtLoad(t *testing.T) {
	_, err := New(ModePattern, []Entry{{Key: `([a-z`, Rule: Simple("make")}})

	require.Error(t, err)
	assert.Equal(t, serrors.ErrCodeConfigPattern, serrors.GetCode(err))
	assert.True(t, serrors.IsFatal(err))
}

func TestRuleSet_ExtensionMode_DoesNotCompileKeys(t *testing.T) {
	// A key that is not a valid regex is fine as a literal extension.
	rs, err := New(ModeExtension, []Entry{{Key: "([a-z", Rule: Simple("make")}})
	require.NoError(t, err)
	assert.Equal(t, 1, rs.Len())
}

func TestRuleSet_DuplicateKeyRejected(t *testing.T) {
	_, err := New(ModeExtension, []Entry{
		{Key: "rs", Rule: Simple("a")},
		{Key: "rs", Rule: Simple("b")},
	})
	require.Error(t, err)
	assert.Equal(t, serrors.ErrCodeConfigInvalid, serrors.GetCode(err))
}

func TestRuleSet_IsImmutable(t *testing.T) {
	// Given: a rule set built from a caller-owned slice
	cmds := []string{"cargo build"}
	entries := []Entry{{Key: "rs", Rule: Simple(cmds...)}}
	rs, err := New(ModeExtension, entries)
	require.NoError(t, err)

	// When: the caller mutates its inputs and a returned batch
	cmds[0] = "rm -rf /"
	entries[0].Key = "js"
	got := rs.Match("main.rs")
	require.Len(t, got, 1)
	got[0].Commands[0] = "changed"

	// Then: the rule set is unchanged
	assert.Equal(t, []string{"rs"}, rs.Keys())
	assert.Equal(t, []string{"cargo build"}, rs.Match("main.rs")[0].Commands)
}

func TestRule_SimpleHasNoWorkingDir(t *testing.T) {
	r := Rule{Kind: KindSimple, Commands: []string{"ls"}, WorkingDir: "ignored"}
	assert.Empty(t, r.batch().WorkingDir)
}
