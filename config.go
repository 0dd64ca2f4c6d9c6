package argos

import (
	"fmt"
	"log/slog"
	"os"
)

// EnvLookup abstracts environment variable resolution so tests can
// substitute a map instead of the real process environment. It is the only
// process-wide handle the parser touches, and it is always injected rather
// than read directly.
type EnvLookup func(name string) (value string, ok bool)

// OSEnvLookup resolves against the real process environment via os.LookupEnv.
func OSEnvLookup(name string) (string, bool) {
	return os.LookupEnv(name)
}

// MapEnvLookup returns an EnvLookup backed by a fixed map, for tests.
func MapEnvLookup(m map[string]string) EnvLookup {
	return func(name string) (string, bool) {
		v, ok := m[name]
		return v, ok
	}
}

// ParserConfig holds the small set of knobs a Parser needs beyond its
// registered specs: the argument-file prefix character, the environment
// lookup function, and the logger used for scanner/constraint trace
// records.
type ParserConfig struct {
	argumentFilePrefix rune
	hasPrefix          bool
	env                EnvLookup
	logger             *slog.Logger
	allowRecursiveFile bool
}

// NewParserConfig returns the default configuration: '@' as the argument
// file prefix, the real OS environment, slog's default logger, and
// recursive @file inclusion disabled — enable it explicitly via
// WithRecursiveArgumentFiles.
func NewParserConfig() *ParserConfig {
	return &ParserConfig{
		argumentFilePrefix: '@',
		hasPrefix:          true,
		env:                OSEnvLookup,
		logger:             slog.Default(),
	}
}

// WithArgumentFilePrefix overrides the '@' prefix. Passing the zero rune
// disables argument-file expansion entirely: tokens that would otherwise
// be treated as @file references pass through unchanged.
func (c *ParserConfig) WithArgumentFilePrefix(prefix rune) *ParserConfig {
	if prefix == 0 {
		c.hasPrefix = false
		return c
	}
	c.argumentFilePrefix = prefix
	c.hasPrefix = true
	return c
}

// WithEnvLookup overrides how environment variables are resolved.
func (c *ParserConfig) WithEnvLookup(lookup EnvLookup) *ParserConfig {
	if lookup == nil {
		panic(fmt.Errorf("argos: env lookup must not be nil"))
	}
	c.env = lookup
	return c
}

// WithLogger overrides the trace logger. A nil logger panics: misconfiguration
// is a programmer error, not something to fail softly on.
func (c *ParserConfig) WithLogger(logger *slog.Logger) *ParserConfig {
	if logger == nil {
		panic(fmt.Errorf("argos: logger must not be nil"))
	}
	c.logger = logger
	return c
}

// WithRecursiveArgumentFiles enables an @file referenced from inside
// another argument file to itself be expanded, with cycle detection.
func (c *ParserConfig) WithRecursiveArgumentFiles(allow bool) *ParserConfig {
	c.allowRecursiveFile = allow
	return c
}
