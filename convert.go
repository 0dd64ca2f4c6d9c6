package argos

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// Converter turns a raw token into a typed value, or rejects it. Converters
// must be pure: same raw string in, same value/error out, no observable
// side effects.
type Converter func(raw string) (interface{}, error)

// ConvertError is returned by a Converter when raw cannot be converted. The
// raw value is carried so diagnostics can embed it verbatim.
type ConvertError struct {
	Raw   string
	Cause error
}

func (e *ConvertError) Error() string {
	return fmt.Sprintf("cannot convert %q: %v", e.Raw, e.Cause)
}

func (e *ConvertError) Unwrap() error {
	return e.Cause
}

func convErr(raw string, cause error) error {
	return &ConvertError{Raw: raw, Cause: cause}
}

var foldCaser = cases.Fold() // language-agnostic case folding, used only for boolean literal recognition

// Int parses a signed decimal integer. A leading '+' is accepted. Hex and
// scientific notation are rejected — unlike Float, Int never accepts
// scientific notation.
func Int() Converter {
	return func(raw string) (interface{}, error) {
		s := raw
		if strings.HasPrefix(s, "+") {
			s = s[1:]
		}
		if looksHexOrScientific(s) {
			return nil, convErr(raw, fmt.Errorf("not a plain decimal integer"))
		}
		n, err := strconv.ParseInt(s, 10, strconv.IntSize)
		if err != nil {
			return nil, convErr(raw, err)
		}
		return int(n), nil
	}
}

// Long parses a signed decimal 64-bit integer with the same restrictions as Int.
func Long() Converter {
	return func(raw string) (interface{}, error) {
		s := raw
		if strings.HasPrefix(s, "+") {
			s = s[1:]
		}
		if looksHexOrScientific(s) {
			return nil, convErr(raw, fmt.Errorf("not a plain decimal integer"))
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, convErr(raw, err)
		}
		return n, nil
	}
}

func looksHexOrScientific(s string) bool {
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "0x") || strings.HasPrefix(lower, "-0x") {
		return true
	}
	return strings.ContainsAny(lower, "eE") && strings.Contains(lower, "e")
}

// Float parses an IEEE double, including Infinity/-Infinity/NaN spellings,
// and rejects a value with more than one '.'.
func Float() Converter {
	return func(raw string) (interface{}, error) {
		if strings.Count(raw, ".") > 1 {
			return nil, convErr(raw, fmt.Errorf("multiple decimal points"))
		}
		normalized := raw
		switch strings.ToLower(raw) {
		case "infinity":
			normalized = "+Inf"
		case "-infinity":
			normalized = "-Inf"
		}
		f, err := strconv.ParseFloat(normalized, 64)
		if err != nil {
			return nil, convErr(raw, err)
		}
		return f, nil
	}
}

var boolLiterals = map[string]bool{
	"true": true, "false": false,
	"1": true, "0": false,
	"yes": true, "no": false,
	"on": true, "off": false,
}

// Bool recognizes true/false, 1/0, yes/no, on/off, case-insensitively.
// Case folding goes through golang.org/x/text/cases so the comparison is
// Unicode-aware rather than a byte-wise strings.ToLower.
func Bool() Converter {
	return func(raw string) (interface{}, error) {
		folded := foldCaser.String(raw)
		if v, ok := boolLiterals[folded]; ok {
			return v, nil
		}
		return nil, convErr(raw, fmt.Errorf("not a recognized boolean literal"))
	}
}

// OneOf compares raw strings case-sensitively against allowed.
func OneOf(allowed ...string) Converter {
	set := make(map[string]bool, len(allowed))
	for _, a := range allowed {
		set[a] = true
	}
	return func(raw string) (interface{}, error) {
		if set[raw] {
			return raw, nil
		}
		return nil, convErr(raw, fmt.Errorf("must be one of %v", allowed))
	}
}

// Enum compares raw strings case-sensitively against members, the declared
// names of an enum type. The matched member name is returned as
// a string; wrap with Map to project it into a typed Go enum constant.
func Enum(members ...string) Converter {
	return OneOf(members...)
}

// Map wraps an arbitrary function. A returned error, or ok == false,
// produces ErrInvalidValue carrying the original raw string.
func Map(f func(raw string) (interface{}, bool, error)) Converter {
	return func(raw string) (interface{}, error) {
		v, ok, err := f(raw)
		if err != nil {
			return nil, convErr(raw, err)
		}
		if !ok {
			return nil, convErr(raw, fmt.Errorf("rejected"))
		}
		return v, nil
	}
}

// String is the identity converter, used for string-typed options and as
// the fallback the value-requirement heuristic treats as "accepts any
// non-option token".
func String() Converter {
	return func(raw string) (interface{}, error) {
		return raw, nil
	}
}

// isStringLike reports whether a Converter is the built-in String
// converter, used by the scanner's Auto value-requirement heuristic to
// decide whether an option accepts any non-option token as its value.
// Converters are compared by behavior, not identity, since closures cannot
// be compared directly: a single probe token that looks like a flag is run
// through the converter, which must return it unchanged as a string.
func isStringLike(c Converter) bool {
	if c == nil {
		return false
	}
	const probe = "--looks-like-an-option"
	v, err := c(probe)
	if err != nil {
		return false
	}
	s, ok := v.(string)
	return ok && s == probe
}
