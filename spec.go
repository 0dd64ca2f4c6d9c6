package argos

import (
	"fmt"

	"github.com/iancoleman/strcase"
)

// Arity describes how many values an option can take.
type Arity uint8

const (
	// Single options take at most one value; a second USER occurrence is an error.
	Single Arity = iota
	// List options keep every occurrence, in order, duplicates included.
	List
	// Set options de-duplicate occurrences, preserving first-seen order.
	Set
	// Count options store no values, only how many times they occurred.
	Count
)

// ValueHint controls whether the scanner consumes a following token as an
// option's value.
type ValueHint uint8

const (
	// Auto triggers the type-aware look-ahead heuristic.
	Auto ValueHint = iota
	// Always means the option unconditionally consumes the next token.
	Always
	// Never means the option is always flag-mode; it never consumes a token.
	Never
)

// Handle is a stable, opaque reference to a registered option or positional,
// allocated at registration time. Constraint predicates and cross-references
// use handles rather than reflective property names, so a rename of the
// owner name never breaks a constraint wired by handle.
type Handle struct {
	id   int
	kind handleKind
}

type handleKind uint8

const (
	handleOption handleKind = iota
	handlePositional
)

func (h Handle) String() string {
	return fmt.Sprintf("handle(%d)", h.id)
}

// OptionSpec is the immutable (post-Freeze) description of one option.
type OptionSpec struct {
	handle     Handle
	ownerName  string
	switches   []string
	arity      Arity
	converter  Converter
	boolean    bool
	hasDefault bool
	defaultVal interface{}
	envVar     string
	required   bool
	hidden     bool
	eager      bool
	negatable  bool
	hint       ValueHint
	oneOf      []string
	domains    map[string]bool // nil/empty means "any"
	constraints []ConstraintSpec
	unswitched bool
	limit      int // for List/Set: 0 means unbounded
}

func (o *OptionSpec) Handle() Handle    { return o.handle }
func (o *OptionSpec) OwnerName() string { return o.ownerName }
func (o *OptionSpec) Switches() []string {
	out := make([]string, len(o.switches))
	copy(out, o.switches)
	return out
}
func (o *OptionSpec) Hidden() bool   { return o.hidden }
func (o *OptionSpec) Required() bool { return o.required }
func (o *OptionSpec) Arity() Arity   { return o.arity }

// allowedInDomain reports whether the option is legal when domain is active.
// An option with no allowedDomains is legal everywhere.
func (o *OptionSpec) allowedInDomain(domain string) bool {
	if len(o.domains) == 0 {
		return true
	}
	return o.domains[domain]
}

// PositionalSpec is the immutable description of one positional slot.
type PositionalSpec struct {
	handle    Handle
	ownerName string
	index     int
	arity     Arity // Single or List only
	converter Converter
	required  bool
}

func (p *PositionalSpec) Handle() Handle    { return p.handle }
func (p *PositionalSpec) OwnerName() string { return p.ownerName }

// DomainSpec is a named sub-command: an identifier, aliases, a label, and a
// set of constraints that apply only while this domain is active.
type DomainSpec struct {
	id          string
	aliases     []string
	label       string
	constraints []ConstraintSpec
}

func (d *DomainSpec) ID() string { return d.id }

// matches reports whether token names this domain, by id or alias.
func (d *DomainSpec) matches(token string) bool {
	if token == d.id {
		return true
	}
	for _, a := range d.aliases {
		if token == a {
			return true
		}
	}
	return false
}

// ConstraintKind tags the variant of a ConstraintSpec.
type ConstraintKind uint8

const (
	CRequired ConstraintKind = iota
	CAtLeast
	CAtMost
	CExactlyOne
	CAtLeastOne
	CAtMostOne
	CConflicts
	CConflictsWith
	CRequireIfAnyPresent
	CRequireIfAllPresent
	CRequireIfAnyAbsent
	CRequireIfAllAbsent
	CRequireIfValue
	CAllowOnlyIfValue
	COnlyInDomains
)

// ValuePredicate inspects the typed value of a referenced option. It
// receives nil when the reference is MISSING.
type ValuePredicate func(value interface{}) bool

// ConstraintSpec is one cross-cutting rule over one or more option handles.
// Exported fields so a caller assembling specs programmatically (e.g. from
// a declarative table) can build one directly; most callers use the
// constructor functions below.
type ConstraintSpec struct {
	Kind      ConstraintKind
	Target    Handle
	Refs      []Handle
	N         int
	Predicate ValuePredicate
	Domains   []string
	ownerName string // not set by the constructors; diagnostics look owner names up by handle
}

// Required builds a "target must be USER" constraint.
func Required(target Handle) ConstraintSpec {
	return ConstraintSpec{Kind: CRequired, Target: target}
}

// AtLeast builds a "target must occur at least n times" constraint, for a
// List/Set/Count-arity target.
func AtLeast(target Handle, n int) ConstraintSpec {
	return ConstraintSpec{Kind: CAtLeast, Target: target, N: n}
}

// AtMost builds a "target must occur at most n times" constraint, for a
// List/Set/Count-arity target.
func AtMost(target Handle, n int) ConstraintSpec {
	return ConstraintSpec{Kind: CAtMost, Target: target, N: n}
}

// ExactlyOne builds an "exactly one of refs must be USER" constraint.
func ExactlyOne(refs ...Handle) ConstraintSpec {
	return ConstraintSpec{Kind: CExactlyOne, Refs: refs}
}

// AtLeastOne builds an "at least one of refs must be USER" constraint.
func AtLeastOne(refs ...Handle) ConstraintSpec {
	return ConstraintSpec{Kind: CAtLeastOne, Refs: refs}
}

// AtMostOne builds an "at most one of refs must be USER" constraint.
func AtMostOne(refs ...Handle) ConstraintSpec {
	return ConstraintSpec{Kind: CAtMostOne, Refs: refs}
}

// Conflicts builds a mutual-exclusion constraint between exactly two options.
func Conflicts(a, b Handle) ConstraintSpec {
	return ConstraintSpec{Kind: CConflicts, Target: a, Refs: []Handle{b}}
}

// ConflictsWith builds a mutual-exclusion constraint between target and each of others.
func ConflictsWith(target Handle, others ...Handle) ConstraintSpec {
	return ConstraintSpec{Kind: CConflictsWith, Target: target, Refs: others}
}

// RequireIfAnyPresent requires target when any of refs is USER-present.
func RequireIfAnyPresent(target Handle, refs ...Handle) ConstraintSpec {
	return ConstraintSpec{Kind: CRequireIfAnyPresent, Target: target, Refs: refs}
}

// RequireIfAllPresent requires target when every one of refs is USER-present.
func RequireIfAllPresent(target Handle, refs ...Handle) ConstraintSpec {
	return ConstraintSpec{Kind: CRequireIfAllPresent, Target: target, Refs: refs}
}

// RequireIfAnyAbsent requires target when any of refs is absent (ENVIRONMENT/DEFAULT/MISSING).
func RequireIfAnyAbsent(target Handle, refs ...Handle) ConstraintSpec {
	return ConstraintSpec{Kind: CRequireIfAnyAbsent, Target: target, Refs: refs}
}

// RequireIfAllAbsent requires target when every one of refs is absent.
func RequireIfAllAbsent(target Handle, refs ...Handle) ConstraintSpec {
	return ConstraintSpec{Kind: CRequireIfAllAbsent, Target: target, Refs: refs}
}

// RequireIfValue requires target to be USER-present when predicate(ref's
// typed value) is true.
func RequireIfValue(target, ref Handle, predicate ValuePredicate) ConstraintSpec {
	return ConstraintSpec{Kind: CRequireIfValue, Target: target, Refs: []Handle{ref}, Predicate: predicate}
}

// AllowOnlyIfValue forbids target from being USER-present unless
// predicate(ref's typed value) is true.
func AllowOnlyIfValue(target, ref Handle, predicate ValuePredicate) ConstraintSpec {
	return ConstraintSpec{Kind: CAllowOnlyIfValue, Target: target, Refs: []Handle{ref}, Predicate: predicate}
}

// OnlyInDomains restricts target to the given domains. Equivalent to
// OptionBuilder.OnlyInDomains but expressible as a free-standing constraint
// for options registered outside the builder chain.
func OnlyInDomains(target Handle, domains ...string) ConstraintSpec {
	return ConstraintSpec{Kind: COnlyInDomains, Target: target, Domains: domains}
}

// deriveSwitch turns an owner name into a default "--kebab-case" long
// switch, used when a builder never calls Switch/Unswitched explicitly.
func deriveSwitch(ownerName string) string {
	return "--" + strcase.ToKebab(ownerName)
}
