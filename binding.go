package argos

import (
	"fmt"
	"io"
	"strings"
)

// ValueSource is the provenance tag attached to every bound value.
// Ordering precedence, high to low: USER > ENVIRONMENT > DEFAULT > MISSING.
// A USER occurrence never downgrades.
type ValueSource uint8

const (
	SourceUser ValueSource = iota
	SourceEnvironment
	SourceDefault
	SourceMissing
)

func (s ValueSource) String() string {
	switch s {
	case SourceUser:
		return "USER"
	case SourceEnvironment:
		return "ENVIRONMENT"
	case SourceDefault:
		return "DEFAULT"
	default:
		return "MISSING"
	}
}

// Occurrence records one raw sighting of an option on the command line or
// in an argument file.
type Occurrence struct {
	RawValue    *string
	Source      ValueSource
	OriginIndex int
}

// optionState is the mutable per-option scan state, finalized into a
// read-only view once Parse completes.
type optionState struct {
	spec        *OptionSpec
	occurrences []Occurrence

	singleValue interface{}
	singleSet   bool

	listValues []interface{}

	setValues []interface{}
	setSeen   map[interface{}]bool

	countFlags []bool

	finalSource ValueSource
	finalValue  interface{}
	resolved    bool // finalSource/finalValue already computed
}

func newOptionState(spec *OptionSpec) *optionState {
	return &optionState{spec: spec}
}

// userPresent reports whether this option received at least one USER
// occurrence (argv or argument file), the presence bit constraints consult.
func (s *optionState) userPresent() bool {
	for _, occ := range s.occurrences {
		if occ.Source == SourceUser {
			return true
		}
	}
	return false
}

func (s *optionState) userOccurrenceCount() int {
	n := 0
	for _, occ := range s.occurrences {
		if occ.Source == SourceUser {
			n++
		}
	}
	return n
}

// positionalState is the mutable per-positional scan state.
type positionalState struct {
	spec      *PositionalSpec
	single    interface{}
	singleSet bool
	list      []interface{}
}

// BindingTable is the mutable state built by one Parse call. It
// must not be reused across invocations.
type BindingTable struct {
	options      map[Handle]*optionState
	positionals  map[Handle]*positionalState
	activeDomain string
	domainSet    bool
	eagerExited  bool
}

func newBindingTable(spec *specModel) *BindingTable {
	bt := &BindingTable{
		options:     make(map[Handle]*optionState, len(spec.options)),
		positionals: make(map[Handle]*positionalState, len(spec.positionals)),
	}
	for _, o := range spec.options {
		bt.options[o.handle] = newOptionState(o)
	}
	for _, p := range spec.positionals {
		bt.positionals[p.handle] = &positionalState{spec: p}
	}
	return bt
}

// finalizeSources computes, for every option never touched by a USER
// occurrence, whether ENVIRONMENT or DEFAULT applies. Must run once, after
// scanning, before constraints evaluate.
func (bt *BindingTable) finalizeSources(env EnvLookup) error {
	for _, st := range bt.options {
		if st.resolved {
			continue
		}
		if st.spec.arity == Count {
			st.finalValue = len(st.countFlags)
			if len(st.countFlags) > 0 {
				st.finalSource = SourceUser
			} else {
				st.finalSource = SourceMissing
			}
			st.resolved = true
			continue
		}
		if st.userPresent() {
			st.finalSource = SourceUser
			st.finalValue = st.currentTypedValue()
			st.resolved = true
			continue
		}
		if st.spec.envVar != "" {
			if raw, ok := env(st.spec.envVar); ok && raw != "" {
				v, err := decodeFallbackRaw(st.spec, raw)
				if err != nil {
					return invalidValueError(st.spec.ownerName, raw, err)
				}
				st.finalSource = SourceEnvironment
				st.finalValue = v
				st.resolved = true
				continue
			}
		}
		if st.spec.hasDefault {
			st.finalSource = SourceDefault
			st.finalValue = st.spec.defaultVal
			st.resolved = true
			continue
		}
		st.finalSource = SourceMissing
		st.resolved = true
	}
	return nil
}

// decodeFallbackRaw converts an ENVIRONMENT-sourced raw string into the
// shape a List/Set option's accessors expect: a comma-separated list,
// converted element by element (Set de-duplicating, first-seen order),
// mirroring how a YAML defaults list decodes.
func decodeFallbackRaw(spec *OptionSpec, raw string) (interface{}, error) {
	if spec.arity != List && spec.arity != Set {
		return spec.converter(raw)
	}
	parts := strings.Split(raw, ",")
	out := make([]interface{}, 0, len(parts))
	seen := make(map[interface{}]bool, len(parts))
	for _, part := range parts {
		v, err := spec.converter(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		if spec.arity == Set {
			if seen[v] {
				continue
			}
			seen[v] = true
		}
		out = append(out, v)
	}
	return out, nil
}

// currentTypedValue projects scan-time accumulated occurrences into the
// shape the binding surface exposes: a scalar for Single, a slice for List
// and Set, a count for Count.
func (s *optionState) currentTypedValue() interface{} {
	switch s.spec.arity {
	case Single:
		return s.singleValue
	case List:
		return s.listValues
	case Set:
		return s.setValues
	case Count:
		return len(s.countFlags)
	default:
		return nil
	}
}

// Bound is the read-only Binding Surface projected from a finished
// BindingTable.
type Bound struct {
	spec        *specModel
	table       *BindingTable
	eagerExited bool
}

func newBound(spec *specModel, table *BindingTable) *Bound {
	return &Bound{spec: spec, table: table, eagerExited: table.eagerExited}
}

// ValueSourceOf returns the provenance of the value bound to h.
func (b *Bound) ValueSourceOf(h Handle) ValueSource {
	if h.kind == handleOption {
		if st, ok := b.table.options[h]; ok {
			if !st.resolved {
				return SourceMissing
			}
			return st.finalSource
		}
	}
	if h.kind == handlePositional {
		if st, ok := b.table.positionals[h]; ok {
			if st.singleSet || len(st.list) > 0 {
				return SourceUser
			}
		}
	}
	return SourceMissing
}

// ActiveDomain returns the selected domain id, or "" if none was activated.
func (b *Bound) ActiveDomain() string {
	return b.table.activeDomain
}

func (b *Bound) optionOwner(h Handle) string {
	if o, ok := b.spec.optionsByHandle[h]; ok {
		return o.ownerName
	}
	if p, ok := b.spec.positionalsByHandle[h]; ok {
		return p.ownerName
	}
	return fmt.Sprintf("%v", h)
}

// Value returns the typed scalar bound to h, or the zero value of T and
// false when the source is MISSING. Panics (a programmer error, not a user
// one) if h does not refer to a Single-arity option/positional of type T.
func Value[T any](b *Bound, h Handle) (T, bool) {
	var zero T
	if h.kind == handlePositional {
		st, ok := b.table.positionals[h]
		if !ok || !st.singleSet {
			return zero, false
		}
		v, ok := st.single.(T)
		if !ok {
			panic(fmt.Errorf("argos: positional %s is not of the requested type", b.optionOwner(h)))
		}
		return v, true
	}
	st, ok := b.table.options[h]
	if !ok || !st.resolved || st.finalSource == SourceMissing {
		return zero, false
	}
	v, ok := st.finalValue.(T)
	if !ok {
		panic(fmt.Errorf("argos: option %s is not of the requested type", b.optionOwner(h)))
	}
	return v, true
}

// RequiredValue returns the typed scalar bound to h. It is meant for
// options declared Required() or given a Default(); both guarantee a
// non-MISSING value whenever Parse returned successfully. The one
// exception is an eager exit: if parsing stopped early, a handle that was
// never reached yields ErrUninitializedProperty instead of a zero value.
func RequiredValue[T any](b *Bound, h Handle) (T, error) {
	var zero T
	v, ok := Value[T](b, h)
	if ok {
		return v, nil
	}
	if b.eagerExited {
		return zero, uninitializedPropertyError(b.optionOwner(h))
	}
	return zero, nil
}

// ListValues returns the List/Set-arity values bound to h, or an empty
// slice when MISSING.
func ListValues[T any](b *Bound, h Handle) []T {
	if h.kind == handlePositional {
		st, ok := b.table.positionals[h]
		if !ok {
			return nil
		}
		return castSlice[T](st.list, b, h)
	}
	st, ok := b.table.options[h]
	if !ok || !st.resolved {
		return nil
	}
	if st.finalSource == SourceUser {
		switch st.spec.arity {
		case List:
			return castSlice[T](st.listValues, b, h)
		case Set:
			return castSlice[T](st.setValues, b, h)
		}
	}
	if vals, ok := st.finalValue.([]interface{}); ok {
		return castSlice[T](vals, b, h)
	}
	if raw, ok := st.finalValue.([]T); ok {
		return raw
	}
	return nil
}

func castSlice[T any](values []interface{}, b *Bound, h Handle) []T {
	out := make([]T, 0, len(values))
	for _, v := range values {
		t, ok := v.(T)
		if !ok {
			panic(fmt.Errorf("argos: %s is not of the requested element type", b.optionOwner(h)))
		}
		out = append(out, t)
	}
	return out
}

// CountOf returns the number of occurrences of a Count-arity option.
func CountOf(b *Bound, h Handle) int {
	st, ok := b.table.options[h]
	if !ok {
		return 0
	}
	return len(st.countFlags)
}

// CountFlags returns the list of booleans backing a Count-arity option.
func CountFlags(b *Bound, h Handle) []bool {
	st, ok := b.table.options[h]
	if !ok {
		return nil
	}
	out := make([]bool, len(st.countFlags))
	copy(out, st.countFlags)
	return out
}

// OptionInfo is the read-only description of one option exposed by
// Snapshot, for external help/usage renderers: Argos exposes the data,
// rendering stays external.
type OptionInfo struct {
	OwnerName string
	Switches  []string
	Hidden    bool
	Required  bool
	Arity     Arity
}

// PositionalInfo mirrors OptionInfo for positionals.
type PositionalInfo struct {
	OwnerName string
	Index     int
	Required  bool
}

// DomainInfo mirrors OptionInfo for domains.
type DomainInfo struct {
	ID      string
	Aliases []string
	Label   string
}

// Snapshot is the immutable spec view returned by Parser.Snapshot.
type Snapshot struct {
	Options     []OptionInfo
	Positionals []PositionalInfo
	Domains     []DomainInfo
}

// WriteSummary writes one line per option/positional/domain. It is a debug
// dump, not usage text — help rendering is left to the caller.
func (s *Snapshot) WriteSummary(w io.Writer) {
	for _, o := range s.Options {
		req := ""
		if o.Required {
			req = " required"
		}
		hid := ""
		if o.Hidden {
			hid = " hidden"
		}
		fmt.Fprintf(w, "%-20s %v%s%s\n", o.OwnerName, o.Switches, req, hid)
	}
	for _, p := range s.Positionals {
		req := ""
		if p.Required {
			req = " required"
		}
		fmt.Fprintf(w, "#%d %-17s%s\n", p.Index, p.OwnerName, req)
	}
	for _, d := range s.Domains {
		fmt.Fprintf(w, "domain %-13s %v\n", d.ID, d.Aliases)
	}
}
