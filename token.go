package argos

import (
	"os"
	"path/filepath"
	"strings"
)

// tokenSource turns argv plus @file references into one flat token slice.
// Argument-file reads are scoped to one os.ReadFile call per file, so there
// is nothing to release explicitly on error paths.
type tokenSource struct {
	config *ParserConfig
}

func newTokenSource(config *ParserConfig) *tokenSource {
	return &tokenSource{config: config}
}

// Expand returns the fully expanded token stream for argv.
func (t *tokenSource) Expand(argv []string) ([]string, error) {
	return t.expand(argv, map[string]bool{})
}

func (t *tokenSource) expand(argv []string, cycle map[string]bool) ([]string, error) {
	if !t.config.hasPrefix {
		return argv, nil
	}
	out := make([]string, 0, len(argv))
	for _, tok := range argv {
		if isArgumentFileToken(tok, t.config.argumentFilePrefix) {
			path := tok[len(string(t.config.argumentFilePrefix)):]
			expanded, err := t.expandFile(path, cycle)
			if err != nil {
				return nil, err
			}
			out = append(out, expanded...)
			continue
		}
		out = append(out, tok)
	}
	return out, nil
}

func isArgumentFileToken(tok string, prefix rune) bool {
	if tok == "" {
		return false
	}
	r := []rune(tok)
	return r[0] == prefix
}

// expandFile reads path, tokenizes its content, and recurses into nested
// @file tokens only when the config allows it, detecting cycles via the
// file's canonical absolute path.
func (t *tokenSource) expandFile(path string, cycle map[string]bool) ([]string, error) {
	abs, absErr := filepath.Abs(path)
	if absErr == nil {
		if cycle[abs] {
			return nil, argumentFileError(path, &cyclicIncludeError{path: path})
		}
		cycle[abs] = true
		defer delete(cycle, abs)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, argumentFileError(path, err)
	}

	tokens := tokenizeArgumentFile(data)

	if !t.config.allowRecursiveFile {
		return tokens, nil
	}
	return t.expand(tokens, cycle)
}

type cyclicIncludeError struct {
	path string
}

func (e *cyclicIncludeError) Error() string {
	return "cyclical argument file inclusion: " + e.path
}

// tokenizeArgumentFile normalizes CRLF to LF, drops blank lines and lines
// whose first non-whitespace character is '#', and splits surviving lines
// on ASCII whitespace runs.
func tokenizeArgumentFile(data []byte) []string {
	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	lines := strings.Split(content, "\n")
	tokens := make([]string, 0)
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " \t\f\v")
		if trimmed == "" {
			continue
		}
		if trimmed[0] == '#' {
			continue
		}
		tokens = append(tokens, strings.FieldsFunc(line, isASCIISpace)...)
	}
	return tokens
}

func isASCIISpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	default:
		return false
	}
}
