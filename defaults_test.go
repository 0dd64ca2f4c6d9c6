package argos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadYAMLDefaultsScalarAndList(t *testing.T) {
	p := NewParser(nil)
	region := p.Str("region").Switch("--region").Handle()
	retries := p.Int("retries").Switch("--retries").Handle()
	tags := p.Str("tags").Switch("--tags").List().Handle()

	yamlDoc := []byte(`
region: us-west
retries: 3
tags: [alpha, beta, alpha]
`)
	require.NoError(t, LoadYAMLDefaults(p, yamlDoc))

	bound, err := p.Parse(nil)
	require.NoError(t, err)

	r, _ := Value[string](bound, region)
	assert.Equal(t, "us-west", r)
	assert.Equal(t, SourceDefault, bound.ValueSourceOf(region))

	n, _ := Value[int](bound, retries)
	assert.Equal(t, 3, n)

	got := ListValues[string](bound, tags)
	assert.Equal(t, []string{"alpha", "beta", "alpha"}, got)
}

func TestLoadYAMLDefaultsDoesNotOverrideExplicitDefault(t *testing.T) {
	p := NewParser(nil)
	region := p.Str("region").Switch("--region").Default("us-east").Handle()

	require.NoError(t, LoadYAMLDefaults(p, []byte("region: us-west")))

	bound, err := p.Parse(nil)
	require.NoError(t, err)
	r, _ := Value[string](bound, region)
	assert.Equal(t, "us-east", r, "explicit Default wins over a YAML default")
}

func TestLoadYAMLDefaultsIgnoresUnknownKeys(t *testing.T) {
	p := NewParser(nil)
	p.Str("region").Switch("--region")

	err := LoadYAMLDefaults(p, []byte("nonexistent: value"))
	require.NoError(t, err)
}

func TestLoadYAMLDefaultsUserOverridesFile(t *testing.T) {
	p := NewParser(nil)
	region := p.Str("region").Switch("--region").Handle()
	require.NoError(t, LoadYAMLDefaults(p, []byte("region: us-west")))

	bound, err := p.Parse([]string{"--region", "eu-central"})
	require.NoError(t, err)
	r, _ := Value[string](bound, region)
	assert.Equal(t, "eu-central", r)
	assert.Equal(t, SourceUser, bound.ValueSourceOf(region))
}

func TestEnvironmentPrecedenceOverDefault(t *testing.T) {
	p := NewParser(nil)
	p.Str("token").Switch("--token").Env("APP_TOKEN").Default("anonymous")

	bound, err := p.Parse(nil)
	require.NoError(t, err)
	tok, _ := Value[string](bound, p.options[0].handle)
	assert.Equal(t, "anonymous", tok)
	assert.Equal(t, SourceDefault, bound.ValueSourceOf(p.options[0].handle))

	cfg := NewParserConfig().WithEnvLookup(MapEnvLookup(map[string]string{"APP_TOKEN": "secret"}))
	p2 := NewParser(cfg)
	h := p2.Str("token").Switch("--token").Env("APP_TOKEN").Default("anonymous").Handle()
	bound2, err := p2.Parse(nil)
	require.NoError(t, err)
	tok2, _ := Value[string](bound2, h)
	assert.Equal(t, "secret", tok2)
	assert.Equal(t, SourceEnvironment, bound2.ValueSourceOf(h))
}
