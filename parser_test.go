package argos

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuplicateOwnerNamePanics(t *testing.T) {
	p := NewParser(nil)
	p.Str("name")
	assert.Panics(t, func() { p.Str("name") })
}

func TestDuplicateSwitchPanics(t *testing.T) {
	p := NewParser(nil)
	p.Str("a").Switch("--x")
	assert.Panics(t, func() { p.Str("b").Switch("--x") })
}

func TestDefaultAndRequiredMutuallyExclusive(t *testing.T) {
	p := NewParser(nil)
	assert.Panics(t, func() { p.Str("a").Default("x").Required() })

	p2 := NewParser(nil)
	assert.Panics(t, func() { p2.Str("a").Required().Default("x") })
}

func TestNegatableRequiresBooleanSingle(t *testing.T) {
	p := NewParser(nil)
	assert.Panics(t, func() { p.Str("a").Negatable() })

	p2 := NewParser(nil)
	assert.NotPanics(t, func() { p2.Bool("a").Negatable() })
}

func TestNegatableSwitch(t *testing.T) {
	p := NewParser(nil)
	color := p.Bool("color").Switch("--color").Negatable().Handle()

	bound, err := p.Parse([]string{"--no-color"})
	require.NoError(t, err)
	v, _ := Value[bool](bound, color)
	assert.False(t, v)

	bound2, err := p.Parse([]string{"--color"})
	require.NoError(t, err)
	v2, _ := Value[bool](bound2, color)
	assert.True(t, v2)
}

func TestDerivedSwitchFromOwnerName(t *testing.T) {
	p := NewParser(nil)
	h := p.Str("outputFormat").Handle()
	bound, err := p.Parse([]string{"--output-format", "json"})
	require.NoError(t, err)
	v, _ := Value[string](bound, h)
	assert.Equal(t, "json", v)
}

func TestDerivedSwitchCollisionCaughtAtFreeze(t *testing.T) {
	p := NewParser(nil)
	p.Str("my-thing")
	p.Str("myThing")
	err := p.Freeze()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collides")
}

func TestOnlyLastPositionalMayBeList(t *testing.T) {
	p := NewParser(nil)
	p.Positional("first", String()).List()
	p.Positional("second", String())
	err := p.Freeze()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only the last positional may be List")
}

func TestUnexpectedPositional(t *testing.T) {
	p := NewParser(nil)
	p.Positional("only", String())
	_, err := p.Parse([]string{"a", "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unexpected positional argument")
}

func TestMissingRequiredPositional(t *testing.T) {
	p := NewParser(nil)
	p.Positional("required", String()).Required()
	_, err := p.Parse(nil)
	require.Error(t, err)
}

func TestUnknownOption(t *testing.T) {
	p := NewParser(nil)
	p.Str("name").Switch("--name")
	_, err := p.Parse([]string{"--bogus"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown option")
}

func TestSnapshotWriteSummary(t *testing.T) {
	p := NewParser(nil)
	p.Str("name").Switch("--name").Required()
	p.Positional("file", String())
	p.Domain("build")
	require.NoError(t, p.Freeze())

	var buf strings.Builder
	p.Snapshot().WriteSummary(&buf)
	out := buf.String()
	assert.Contains(t, out, "name")
	assert.Contains(t, out, "file")
	assert.Contains(t, out, "build")
}

func TestDomainAliasMatches(t *testing.T) {
	p := NewParser(nil)
	p.Domain("server", "srv", "s")
	bound, err := p.Parse([]string{"srv"})
	require.NoError(t, err)
	assert.Equal(t, "server", bound.ActiveDomain())
}

func TestOrderInsensitivityOfIndependentOptions(t *testing.T) {
	p := NewParser(nil)
	a := p.Str("a").Switch("--a").Handle()
	b := p.Str("b").Switch("--b").Handle()

	bound1, err := p.Parse([]string{"--a", "1", "--b", "2"})
	require.NoError(t, err)

	p2 := NewParser(nil)
	a2 := p2.Str("a").Switch("--a").Handle()
	b2 := p2.Str("b").Switch("--b").Handle()
	bound2, err := p2.Parse([]string{"--b", "2", "--a", "1"})
	require.NoError(t, err)

	v1a, _ := Value[string](bound1, a)
	v2a, _ := Value[string](bound2, a2)
	v1b, _ := Value[string](bound1, b)
	v2b, _ := Value[string](bound2, b2)
	assert.Equal(t, v1a, v2a)
	assert.Equal(t, v1b, v2b)
}
