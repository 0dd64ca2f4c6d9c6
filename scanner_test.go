package argos

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Scenario 1/2: AllowOnlyIfValue between two options.
func TestScenarioAllowOnlyIfValue(t *testing.T) {
	newSpec := func() (*Parser, Handle, Handle) {
		p := NewParser(nil)
		mode := p.OneOf("mode", "production", "development").Switch("--mode").Handle()
		backup := p.Str("backup").Switch("--backup").Handle()
		p.Constrain(AllowOnlyIfValue(backup, mode, func(v interface{}) bool {
			s, _ := v.(string)
			return s == "production"
		}))
		return p, mode, backup
	}

	t.Run("allowed", func(t *testing.T) {
		p, mode, backup := newSpec()
		bound, err := p.Parse([]string{"--mode", "production", "--backup", "daily"})
		require.NoError(t, err)
		m, _ := Value[string](bound, mode)
		b, _ := Value[string](bound, backup)
		assert.Equal(t, "production", m)
		assert.Equal(t, "daily", b)
	})

	t.Run("rejected", func(t *testing.T) {
		p, _, _ := newSpec()
		_, err := p.Parse([]string{"--mode", "development", "--backup", "daily"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--backup is not allowed")
		assert.Contains(t, err.Error(), "--mode has wrong value")
	})
}

// Scenario 3: argument file expansion plus a defaulted option.
func TestScenarioArgumentFileBinding(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/args.txt"
	require.NoError(t, os.WriteFile(path, []byte("--input data.txt --output result.txt --verbose"), 0o644))

	p := NewParser(nil)
	input := p.Str("input").Switch("--input").Handle()
	output := p.Str("output").Switch("--output").Handle()
	verbose := p.Bool("verbose").Switch("--verbose").Handle()
	count := p.Int("count").Switch("--count").Default(1).Handle()

	bound, err := p.Parse([]string{"@" + path})
	require.NoError(t, err)

	in, _ := Value[string](bound, input)
	out, _ := Value[string](bound, output)
	v, _ := Value[bool](bound, verbose)
	c, _ := Value[int](bound, count)

	assert.Equal(t, "data.txt", in)
	assert.Equal(t, "result.txt", out)
	assert.True(t, v)
	assert.Equal(t, 1, c)
	assert.Equal(t, SourceDefault, bound.ValueSourceOf(count))
}

// Scenario 4: a Single option set on the command line and again in an
// included file must report "provided multiple times".
func TestScenarioDuplicateAcrossArgumentFile(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/args.txt"
	require.NoError(t, os.WriteFile(path, []byte("--count 50"), 0o644))

	p := NewParser(nil)
	p.Int("count").Switch("--count")

	_, err := p.Parse([]string{"--count", "25", "@" + path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provided multiple times")
}

// Scenario 5: an eager option short-circuits parsing; reading an
// unresolved RequiredValue afterwards raises UninitializedProperty.
func TestScenarioEagerShortCircuit(t *testing.T) {
	p := NewParser(nil)
	help := p.Bool("help").Switch("--help").Eager().Handle()
	required := p.Str("requiredString").Switch("--required-string").Required().Handle()

	bound, err := p.Parse([]string{"--help"})
	require.NoError(t, err)

	h, _ := Value[bool](bound, help)
	assert.True(t, h)

	_, rerr := RequiredValue[string](bound, required)
	require.Error(t, rerr)
	assert.Contains(t, rerr.Error(), "requiredString")
	assert.Contains(t, rerr.Error(), "not initialized")
}

// Scenario 6: short-option clustering of a repeated boolean List option.
func TestScenarioClusterRepeatedBoolList(t *testing.T) {
	p := NewParser(nil)
	verbose := p.Bool("verbose").Switch("-v").List().Handle()

	bound, err := p.Parse([]string{"-vvv"})
	require.NoError(t, err)
	assert.Len(t, ListValues[bool](bound, verbose), 3)
}

// Scenario 7: a Never-hint int inside a cluster is a silent no-op; the
// trailing boolean in the same cluster still binds, and a following plain
// token is left as a positional.
func TestScenarioClusterNeverHintNoOp(t *testing.T) {
	p := NewParser(nil)
	count := p.Int("count").Switch("-c").RequiresValue(Never).Handle()
	verbose := p.Bool("verbose").Switch("-v").Handle()
	file := p.Positional("file", String()).Handle()

	bound, err := p.Parse([]string{"-cv", "file.txt"})
	require.NoError(t, err)

	_, ok := Value[int](bound, count)
	assert.False(t, ok, "count stays MISSING")
	v, _ := Value[bool](bound, verbose)
	assert.True(t, v)
	f, _ := Value[string](bound, file)
	assert.Equal(t, "file.txt", f)
}

// Scenario 8: an attached value that fails conversion on a Never-hint
// boolean is swallowed; the flag still resolves to true.
func TestScenarioAttachedInvalidBooleanFallsBackTrue(t *testing.T) {
	p := NewParser(nil)
	debug := p.Bool("debug").Switch("--debug").RequiresValue(Never).Handle()
	file := p.Positional("file", String()).Handle()

	bound, err := p.Parse([]string{"--debug=invalid"})
	require.NoError(t, err)

	d, _ := Value[bool](bound, debug)
	assert.True(t, d)
	_, ok := Value[string](bound, file)
	assert.False(t, ok)
}

// Scenario 9: a Never-hint int bare-triggers into a no-op, leaving both
// the would-be value and the following token as positionals.
func TestScenarioBareNeverHintLeavesPositionals(t *testing.T) {
	p := NewParser(nil)
	count := p.Int("count").Switch("--count").RequiresValue(Never).Handle()
	first := p.Positional("first", String()).Handle()
	second := p.Positional("second", String()).Handle()

	bound, err := p.Parse([]string{"--count", "1.5", "file.txt"})
	require.NoError(t, err)

	_, ok := Value[int](bound, count)
	assert.False(t, ok)
	f, _ := Value[string](bound, first)
	s, _ := Value[string](bound, second)
	assert.Equal(t, "1.5", f)
	assert.Equal(t, "file.txt", s)
}

// Scenario 10: a domain-scoped RequireIfAllAbsent constraint.
func TestScenarioDomainRequireIfAllAbsent(t *testing.T) {
	p := NewParser(nil)
	target := p.Str("target").Switch("--target").Handle()
	source := p.Str("source").Switch("--source").Handle()
	output := p.Str("output").Switch("--output").Handle()
	p.Domain("build").Constrain(RequireIfAllAbsent(target, source, output))

	_, err := p.Parse([]string{"build"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--target")
}

// A true Count-arity option (distinct from a List-arity boolean) accumulates
// no values, only an occurrence tally, across both clustered and repeated
// separate switches.
func TestCountArityAccumulatesAcrossClusterAndSeparateOccurrences(t *testing.T) {
	p := NewParser(nil)
	verbosity := p.Count("verbosity").Switch("-v").Handle()

	bound, err := p.Parse([]string{"-vv", "-v"})
	require.NoError(t, err)
	assert.Equal(t, 3, CountOf(bound, verbosity))
	assert.Len(t, CountFlags(bound, verbosity), 3)
}
