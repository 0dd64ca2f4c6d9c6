package argos

import (
	"fmt"

	"github.com/samber/oops"
)

// ErrorKind classifies a ParseError. The constants below form the full
// taxonomy; the diagnostic constructors further down note the message
// fragments each kind keeps stable.
type ErrorKind uint8

const (
	// ErrUnknownOption is raised for a switch that resolves to no OptionSpec.
	ErrUnknownOption ErrorKind = iota
	// ErrMissingValue is raised when an option requires a value and none follows.
	ErrMissingValue
	// ErrInvalidValue is raised when a converter rejects a raw token.
	ErrInvalidValue
	// ErrDuplicateOption is raised when a Single-arity option gets a second USER occurrence.
	ErrDuplicateOption
	// ErrMissingRequired is raised when a required option ends with a non-USER source.
	ErrMissingRequired
	// ErrMissingPositional is raised when a required positional slot is never filled.
	ErrMissingPositional
	// ErrUnexpectedPositional is raised when extra positional tokens remain after all slots fill.
	ErrUnexpectedPositional
	// ErrConstraintViolation covers cardinality, conflict, and conditional constraint failures.
	ErrConstraintViolation
	// ErrOptionNotAllowedInDomain is raised for a domain-restricted option used outside its domains.
	ErrOptionNotAllowedInDomain
	// ErrArgumentFile is raised when an @file token cannot be read.
	ErrArgumentFile
	// ErrUninitializedProperty is raised when a required-typed accessor is read after an eager exit.
	ErrUninitializedProperty
)

var errorKindCodes = [...]string{
	"UnknownOption",
	"MissingValue",
	"InvalidValue",
	"DuplicateOption",
	"MissingRequired",
	"MissingPositional",
	"UnexpectedPositional",
	"ConstraintViolation",
	"OptionNotAllowedInDomain",
	"ArgumentFile",
	"UninitializedProperty",
}

// Code returns the oops error code associated with this kind. It is also the
// identifier String returns.
func (k ErrorKind) Code() string {
	if int(k) < len(errorKindCodes) {
		return errorKindCodes[k]
	}
	return "Unknown"
}

func (k ErrorKind) String() string {
	return k.Code()
}

// ParseError is the error type Parser.Parse returns for every problem with
// the input. Registration mistakes reported by Freeze, which Parse calls
// when the Parser is not yet frozen, are plain errors instead. It wraps an
// oops.OopsError so that callers can still use oops' own matching helpers
// (oops.AsOops, .Code(), .Context()) while Error() keeps rendering the same
// stable message fragments regardless of the underlying cause.
type ParseError struct {
	Kind  ErrorKind
	inner error
}

func (e *ParseError) Error() string {
	return e.inner.Error()
}

// Unwrap exposes the wrapped oops error for errors.As/errors.Is.
func (e *ParseError) Unwrap() error {
	return e.inner
}

// newParseError builds a ParseError of the given kind with a message and
// structured fields attached via oops.With.
func newParseError(kind ErrorKind, format string, args ...interface{}) *ParseError {
	return &ParseError{
		Kind:  kind,
		inner: oops.Code(kind.Code()).Errorf(format, args...),
	}
}

func newParseErrorWith(kind ErrorKind, fields map[string]interface{}, format string, args ...interface{}) *ParseError {
	b := oops.Code(kind.Code())
	for k, v := range fields {
		b = b.With(k, v)
	}
	return &ParseError{
		Kind:  kind,
		inner: b.Errorf(format, args...),
	}
}

// unknownOptionError reports a switch that matches no OptionSpec.
func unknownOptionError(switchTok string) *ParseError {
	return newParseErrorWith(ErrUnknownOption, map[string]interface{}{"switch": switchTok},
		"unknown option: %q", switchTok)
}

// missingValueError reports an option that required a value but got none.
func missingValueError(owner string) *ParseError {
	return newParseErrorWith(ErrMissingValue, map[string]interface{}{"option": owner},
		"--%s requires a value", owner)
}

// invalidValueError reports a converter rejecting raw. raw must appear
// verbatim in the message.
func invalidValueError(owner, raw string, cause error) *ParseError {
	return newParseErrorWith(ErrInvalidValue, map[string]interface{}{"option": owner, "rawValue": raw},
		"invalid value %q for --%s: %v", raw, owner, cause)
}

// duplicateOptionError reports a second USER occurrence of a Single option.
// The message must contain "provided multiple times".
func duplicateOptionError(owner string) *ParseError {
	return newParseErrorWith(ErrDuplicateOption, map[string]interface{}{"option": owner},
		"--%s provided multiple times", owner)
}

// missingRequiredError reports a required option that ended up absent.
// The message must contain "is required".
func missingRequiredError(owner string) *ParseError {
	return newParseErrorWith(ErrMissingRequired, map[string]interface{}{"option": owner},
		"--%s is required", owner)
}

// missingPositionalError reports an unfilled required positional.
func missingPositionalError(owner string) *ParseError {
	return newParseErrorWith(ErrMissingPositional, map[string]interface{}{"positional": owner},
		"missing positional argument: %s", owner)
}

// unexpectedPositionalError reports surplus positional tokens.
// The message must contain "Unexpected positional argument".
func unexpectedPositionalError(raw string) *ParseError {
	return newParseErrorWith(ErrUnexpectedPositional, map[string]interface{}{"rawValue": raw},
		"Unexpected positional argument: %q", raw)
}

// constraintError reports a cardinality/conflict/conditional failure. Most
// reasons carry one of the stable fragments "is not allowed", "is required",
// "has wrong value", "absent"; the AtLeast/AtMost occurrence-count reasons
// ("must occur at least/at most N times") carry none of them.
func constraintError(owner, reason string, fields map[string]interface{}) *ParseError {
	if fields == nil {
		fields = map[string]interface{}{}
	}
	fields["option"] = owner
	return newParseErrorWith(ErrConstraintViolation, fields, "--%s %s", owner, reason)
}

// notAllowedInDomainError reports a domain-restricted option used outside
// its allowed domains.
func notAllowedInDomainError(owner, domain string) *ParseError {
	return newParseErrorWith(ErrOptionNotAllowedInDomain,
		map[string]interface{}{"option": owner, "domain": domain},
		"--%s is not allowed in domain %q", owner, domain)
}

// argumentFileError reports a failure to read an @file token. The message
// must contain "Cannot read argument file" and the literal path.
func argumentFileError(path string, cause error) *ParseError {
	return newParseErrorWith(ErrArgumentFile, map[string]interface{}{"path": path},
		"Cannot read argument file %q: %v", path, cause)
}

// uninitializedPropertyError reports access to a required-typed accessor
// that was never populated because of an eager exit. The message must
// contain the owner name and "not initialized".
func uninitializedPropertyError(owner string) *ParseError {
	return newParseErrorWith(ErrUninitializedProperty, map[string]interface{}{"option": owner},
		"%s: not initialized (parsing ended early)", owner)
}

// registrationError formats a registration-time spec mistake as a plain
// error. These are programmer errors, not user input errors, so they are
// never combined with ParseError. validateRegistration in registration.go
// builds its errors with fmt.Errorf directly and aggregates them into one
// report; it does not call this helper.
func registrationError(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
