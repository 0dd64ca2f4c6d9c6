package argos

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandNoPrefixPassthrough(t *testing.T) {
	cfg := NewParserConfig().WithArgumentFilePrefix(0)
	ts := newTokenSource(cfg)
	tokens, err := ts.Expand([]string{"@foo", "bar"})
	require.NoError(t, err)
	assert.Equal(t, []string{"@foo", "bar"}, tokens)
}

func TestExpandArgumentFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "args.txt")
	content := "# a comment\n--input data.txt --output result.txt\n\n--verbose\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := NewParserConfig()
	ts := newTokenSource(cfg)
	tokens, err := ts.Expand([]string{"@" + path, "--extra"})
	require.NoError(t, err)
	assert.Equal(t, []string{"--input", "data.txt", "--output", "result.txt", "--verbose", "--extra"}, tokens)
}

func TestExpandArgumentFileTransparency(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "args.txt")
	require.NoError(t, os.WriteFile(path, []byte("--a 1 --b 2"), 0o644))

	cfg := NewParserConfig()
	ts := newTokenSource(cfg)
	viaFile, err := ts.Expand([]string{"@" + path, "--c", "3"})
	require.NoError(t, err)

	direct, err := ts.Expand([]string{"--a", "1", "--b", "2", "--c", "3"})
	require.NoError(t, err)

	assert.Equal(t, direct, viaFile)
}

func TestExpandMissingFile(t *testing.T) {
	cfg := NewParserConfig()
	ts := newTokenSource(cfg)
	_, err := ts.Expand([]string{"@/nonexistent/path/to/file"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cannot read argument file")
}

func TestExpandRecursiveCycleDetected(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(a, []byte("@"+b), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("@"+a), 0o644))

	cfg := NewParserConfig().WithRecursiveArgumentFiles(true)
	ts := newTokenSource(cfg)
	_, err := ts.Expand([]string{"@" + a})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cannot read argument file")
}

func TestExpandRecursionDisabledByDefault(t *testing.T) {
	dir := t.TempDir()
	inner := filepath.Join(dir, "inner.txt")
	outer := filepath.Join(dir, "outer.txt")
	require.NoError(t, os.WriteFile(inner, []byte("--leaf value"), 0o644))
	require.NoError(t, os.WriteFile(outer, []byte("@"+inner), 0o644))

	cfg := NewParserConfig()
	ts := newTokenSource(cfg)
	tokens, err := ts.Expand([]string{"@" + outer})
	require.NoError(t, err)
	assert.Equal(t, []string{"@" + inner}, tokens, "nested @file is passed through untouched when recursion is off")
}
