package argos

import (
	"fmt"
	"unicode"
)

// validate verifies an owner name: non-empty and made only of the characters
// validNameChar accepts, so it can serve as a YAML key. It is not restricted
// to Go identifiers: hyphens and a leading digit are accepted.
func validate(name string) error {
	if name == "" {
		return fmt.Errorf("owner name must not be empty")
	}
	for _, r := range []rune(name) {
		if !validNameChar(r) {
			return fmt.Errorf("%q cannot be used as a name because it includes the character %q", name, r)
		}
	}
	return nil
}

// validNameChar returns true iff r is valid in an owner name: letters,
// digits, the hyphen and the underscore.
func validNameChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_'
}

// validateSwitch verifies a switch spelling: "--long-name" (one or more
// name characters) or "-x" (exactly one non-hyphen character).
func validateSwitch(sw string) error {
	switch {
	case len(sw) > 2 && sw[0] == '-' && sw[1] == '-':
		name := sw[2:]
		for _, r := range []rune(name) {
			if !validNameChar(r) {
				return fmt.Errorf("%q is not a valid long switch: illegal character %q", sw, r)
			}
		}
		return nil
	case len(sw) == 2 && sw[0] == '-' && sw[1] != '-':
		return nil
	default:
		return fmt.Errorf("%q is not a valid switch: must be \"-x\" or \"--name\"", sw)
	}
}
