package argos

import (
	"fmt"
	"strings"
)

// specModel is the frozen, read-optimized projection of everything
// registered on a Parser: the lookup tables the scanner and constraint
// engine consult while a Parse call runs. Built once by Freeze.
type specModel struct {
	options     []*OptionSpec
	positionals []*PositionalSpec
	domains     []*DomainSpec

	optionsByHandle     map[Handle]*OptionSpec
	positionalsByHandle map[Handle]*PositionalSpec
	domainsByID         map[string]*DomainSpec

	longByTrigger     map[string]*OptionSpec
	shortByTrigger    map[string]*OptionSpec
	negatableTriggers map[string]*OptionSpec

	globalConstraints []ConstraintSpec
	config            *ParserConfig
}

func (s *specModel) negatableFor(trigger string) (*OptionSpec, bool) {
	opt, ok := s.negatableTriggers[trigger]
	return opt, ok
}

// Parser accumulates option/positional/domain registrations and, once
// frozen, parses argv slices against them.
type Parser struct {
	config      *ParserConfig
	options     []*OptionSpec
	positionals []*PositionalSpec
	domains     []*DomainSpec
	globalCons  []ConstraintSpec

	ownerSeen   map[string]bool
	switchOwner map[string]string
	domainSeen  map[string]bool

	nextHandle int
	frozen     bool
	spec       *specModel
}

// NewParser creates a Parser. A nil config falls back to NewParserConfig().
func NewParser(config *ParserConfig) *Parser {
	if config == nil {
		config = NewParserConfig()
	}
	return &Parser{
		config:      config,
		ownerSeen:   make(map[string]bool),
		switchOwner: make(map[string]string),
		domainSeen:  make(map[string]bool),
	}
}

func (p *Parser) allocHandle(kind handleKind) Handle {
	h := Handle{id: p.nextHandle, kind: kind}
	p.nextHandle++
	return h
}

func (p *Parser) mustNotBeFrozen(action string) {
	if p.frozen {
		panic(fmt.Errorf("argos: cannot %s after Freeze", action))
	}
}

// OptionBuilder chains configuration onto one OptionSpec.
type OptionBuilder struct {
	parser *Parser
	spec   *OptionSpec
}

// Option registers a new option owned by ownerName, converted by converter.
// ownerName must consist of letters, digits, '-' and '_' (validate, in
// valid.go) and be unique across the whole Parser.
func (p *Parser) Option(ownerName string, converter Converter) *OptionBuilder {
	p.mustNotBeFrozen("register an option")
	if err := validate(ownerName); err != nil {
		panic(fmt.Errorf("argos: option %q: %w", ownerName, err))
	}
	if p.ownerSeen[ownerName] {
		panic(fmt.Errorf("argos: owner name %q already registered", ownerName))
	}
	p.ownerSeen[ownerName] = true

	spec := &OptionSpec{
		handle:    p.allocHandle(handleOption),
		ownerName: ownerName,
		converter: converter,
		hint:      Auto,
	}
	p.options = append(p.options, spec)
	return &OptionBuilder{parser: p, spec: spec}
}

// Bool registers a boolean flag option.
func (p *Parser) Bool(ownerName string) *OptionBuilder {
	b := p.Option(ownerName, Bool())
	b.spec.boolean = true
	return b
}

// Int registers an int-typed option.
func (p *Parser) Int(ownerName string) *OptionBuilder { return p.Option(ownerName, Int()) }

// Long registers an int64-typed option.
func (p *Parser) Long(ownerName string) *OptionBuilder { return p.Option(ownerName, Long()) }

// Float registers a float64-typed option.
func (p *Parser) Float(ownerName string) *OptionBuilder { return p.Option(ownerName, Float()) }

// Str registers a string-typed option.
func (p *Parser) Str(ownerName string) *OptionBuilder { return p.Option(ownerName, String()) }

// OneOf registers a string option restricted to a fixed set of literals.
func (p *Parser) OneOf(ownerName string, allowed ...string) *OptionBuilder {
	return p.Option(ownerName, OneOf(allowed...))
}

// Enum is an alias for OneOf, named for the declared-members case.
func (p *Parser) Enum(ownerName string, members ...string) *OptionBuilder {
	return p.Option(ownerName, Enum(members...))
}

// Count registers a Count-arity option: it never takes a value and records
// only how many times it was seen.
func (p *Parser) Count(ownerName string) *OptionBuilder {
	b := p.Option(ownerName, nil)
	b.spec.arity = Count
	b.spec.hint = Never
	return b
}

// Switch sets the explicit long/short switches for this option, e.g.
// Switch("--verbose", "-v"). Overrides the derived default.
func (b *OptionBuilder) Switch(switches ...string) *OptionBuilder {
	for _, s := range switches {
		if err := validateSwitch(s); err != nil {
			panic(fmt.Errorf("argos: option %q: %w", b.spec.ownerName, err))
		}
		if owner, taken := b.parser.switchOwner[s]; taken && owner != b.spec.ownerName {
			panic(fmt.Errorf("argos: switch %q already registered to %q", s, owner))
		}
		b.parser.switchOwner[s] = b.spec.ownerName
	}
	b.spec.switches = append(b.spec.switches, switches...)
	return b
}

// Unswitched marks the option as having no default derived switch; it must
// then receive an explicit Switch call, or be referenced only by handle
// (useful for options solely driven by Env/Default).
func (b *OptionBuilder) Unswitched() *OptionBuilder {
	b.spec.unswitched = true
	return b
}

// Default sets the DEFAULT-source fallback value.
func (b *OptionBuilder) Default(v interface{}) *OptionBuilder {
	if b.spec.required {
		panic(fmt.Errorf("argos: option %q: Default and Required are mutually exclusive", b.spec.ownerName))
	}
	b.spec.hasDefault = true
	b.spec.defaultVal = v
	return b
}

// Env sets the environment variable consulted when no USER occurrence
// exists, ranking above DEFAULT.
func (b *OptionBuilder) Env(name string) *OptionBuilder {
	b.spec.envVar = name
	return b
}

// Required marks the option as mandatory; Freeze's constraint gathering
// turns this into an implicit Required(handle) constraint.
func (b *OptionBuilder) Required() *OptionBuilder {
	if b.spec.hasDefault {
		panic(fmt.Errorf("argos: option %q: Default and Required are mutually exclusive", b.spec.ownerName))
	}
	b.spec.required = true
	return b
}

// Hidden marks the option as excluded from Snapshot-driven listings by
// convention. Rendering itself is left to the caller.
func (b *OptionBuilder) Hidden() *OptionBuilder {
	b.spec.hidden = true
	return b
}

// Eager marks the option so that, once USER-bound, Parse stops scanning
// immediately and returns without evaluating constraints — the shape a
// --help or --version flag needs.
func (b *OptionBuilder) Eager() *OptionBuilder {
	b.spec.eager = true
	return b
}

// Negatable allows a boolean Single option to also be triggered by
// "--no-<switch>", binding false.
func (b *OptionBuilder) Negatable() *OptionBuilder {
	if !b.spec.boolean || b.spec.arity != Single {
		panic(fmt.Errorf("argos: option %q: Negatable requires a Single-arity boolean option", b.spec.ownerName))
	}
	b.spec.negatable = true
	return b
}

// RequiresValue overrides the Auto value-requirement heuristic.
func (b *OptionBuilder) RequiresValue(hint ValueHint) *OptionBuilder {
	b.spec.hint = hint
	return b
}

// List makes the option List-arity: every USER occurrence is kept, in order.
func (b *OptionBuilder) List() *OptionBuilder {
	b.spec.arity = List
	return b
}

// Set makes the option Set-arity: USER occurrences de-duplicate, first-seen order.
func (b *OptionBuilder) Set() *OptionBuilder {
	b.spec.arity = Set
	return b
}

// OnlyInDomains restricts the option to the listed domain ids. The active
// domain is always recorded by its id, so an alias listed here never matches.
func (b *OptionBuilder) OnlyInDomains(domains ...string) *OptionBuilder {
	if b.spec.domains == nil {
		b.spec.domains = make(map[string]bool, len(domains))
	}
	for _, d := range domains {
		b.spec.domains[d] = true
	}
	return b
}

// Constrain attaches extra ConstraintSpecs evaluated alongside the global set.
func (b *OptionBuilder) Constrain(c ...ConstraintSpec) *OptionBuilder {
	b.spec.constraints = append(b.spec.constraints, c...)
	return b
}

// Handle returns the stable handle for this option, for use in constraints
// and Bound accessors.
func (b *OptionBuilder) Handle() Handle { return b.spec.handle }

// PositionalBuilder chains configuration onto one PositionalSpec.
type PositionalBuilder struct {
	parser *Parser
	spec   *PositionalSpec
}

// Positional registers the next positional slot, in declaration order.
func (p *Parser) Positional(ownerName string, converter Converter) *PositionalBuilder {
	p.mustNotBeFrozen("register a positional")
	if err := validate(ownerName); err != nil {
		panic(fmt.Errorf("argos: positional %q: %w", ownerName, err))
	}
	if p.ownerSeen[ownerName] {
		panic(fmt.Errorf("argos: owner name %q already registered", ownerName))
	}
	p.ownerSeen[ownerName] = true

	spec := &PositionalSpec{
		handle:    p.allocHandle(handlePositional),
		ownerName: ownerName,
		index:     len(p.positionals),
		converter: converter,
		arity:     Single,
	}
	p.positionals = append(p.positionals, spec)
	return &PositionalBuilder{parser: p, spec: spec}
}

// Required marks the positional slot mandatory.
func (b *PositionalBuilder) Required() *PositionalBuilder {
	b.spec.required = true
	return b
}

// List makes this the final, List-arity slot, absorbing every remaining
// positional token. Must be the last positional registered.
func (b *PositionalBuilder) List() *PositionalBuilder {
	last := b.parser.positionals[len(b.parser.positionals)-1]
	if last != b.spec {
		panic(fmt.Errorf("argos: positional %q: only the last-registered positional may be List", b.spec.ownerName))
	}
	b.spec.arity = List
	return b
}

// Handle returns the stable handle for this positional.
func (b *PositionalBuilder) Handle() Handle { return b.spec.handle }

// DomainBuilder chains configuration onto one DomainSpec.
type DomainBuilder struct {
	parser *Parser
	spec   *DomainSpec
}

// Domain registers a named sub-command, matched by id or any alias.
func (p *Parser) Domain(id string, aliases ...string) *DomainBuilder {
	p.mustNotBeFrozen("register a domain")
	if p.domainSeen[id] {
		panic(fmt.Errorf("argos: domain id %q already registered", id))
	}
	p.domainSeen[id] = true
	spec := &DomainSpec{id: id, aliases: aliases, label: id}
	p.domains = append(p.domains, spec)
	return &DomainBuilder{parser: p, spec: spec}
}

// Label sets the human-readable label carried on DomainInfo.
func (b *DomainBuilder) Label(label string) *DomainBuilder {
	b.spec.label = label
	return b
}

// Constrain attaches ConstraintSpecs that apply only while this domain is active.
func (b *DomainBuilder) Constrain(c ...ConstraintSpec) *DomainBuilder {
	b.spec.constraints = append(b.spec.constraints, c...)
	return b
}

// ID returns the domain identifier.
func (b *DomainBuilder) ID() string { return b.spec.id }

// Constrain registers global constraints, evaluated regardless of domain.
func (p *Parser) Constrain(c ...ConstraintSpec) *Parser {
	p.mustNotBeFrozen("add a constraint")
	p.globalCons = append(p.globalCons, c...)
	return p
}

// Freeze validates every registration and builds the read-optimized
// specModel the scanner and constraint engine consult. Parse calls Freeze
// automatically if it has not run yet. Calling Freeze twice is a no-op.
func (p *Parser) Freeze() error {
	if p.frozen {
		return nil
	}
	if err := validateRegistration(p); err != nil {
		return err
	}

	longByTrigger := make(map[string]*OptionSpec)
	shortByTrigger := make(map[string]*OptionSpec)
	negatableTriggers := make(map[string]*OptionSpec)

	for _, o := range p.options {
		if len(o.switches) == 0 && !o.unswitched {
			o.switches = []string{deriveSwitch(o.ownerName)}
		}
		for _, sw := range o.switches {
			switch {
			case strings.HasPrefix(sw, "--"):
				longByTrigger[sw] = o
			case strings.HasPrefix(sw, "-"):
				shortByTrigger[sw] = o
			}
		}
		if o.negatable {
			for _, sw := range o.switches {
				if strings.HasPrefix(sw, "--") {
					negatableTriggers["--no-"+sw[2:]] = o
				}
			}
		}
		if o.required {
			p.globalCons = append(p.globalCons, Required(o.handle))
		}
	}

	optionsByHandle := make(map[Handle]*OptionSpec, len(p.options))
	for _, o := range p.options {
		optionsByHandle[o.handle] = o
	}
	positionalsByHandle := make(map[Handle]*PositionalSpec, len(p.positionals))
	for _, ps := range p.positionals {
		positionalsByHandle[ps.handle] = ps
		if ps.required {
			p.globalCons = append(p.globalCons, Required(ps.handle))
		}
	}
	domainsByID := make(map[string]*DomainSpec, len(p.domains))
	for _, d := range p.domains {
		domainsByID[d.id] = d
	}

	p.spec = &specModel{
		options:             p.options,
		positionals:         p.positionals,
		domains:             p.domains,
		optionsByHandle:     optionsByHandle,
		positionalsByHandle: positionalsByHandle,
		domainsByID:         domainsByID,
		longByTrigger:       longByTrigger,
		shortByTrigger:      shortByTrigger,
		negatableTriggers:   negatableTriggers,
		globalConstraints:   p.globalCons,
		config:              p.config,
	}
	p.frozen = true
	return nil
}

// Parse expands argv's argument files, scans it against the registered
// options/positionals/domains, and evaluates every constraint, in a fixed
// pipeline: Tokenizer -> Scanner/Binder -> Domain Resolver -> finalize
// sources -> Constraint Engine.
func (p *Parser) Parse(argv []string) (*Bound, error) {
	if !p.frozen {
		if err := p.Freeze(); err != nil {
			return nil, err
		}
	}

	ts := newTokenSource(p.config)
	tokens, err := ts.Expand(argv)
	if err != nil {
		return nil, err
	}

	sc := newScanner(p.spec, p.config)
	bt, err := sc.run(tokens)
	if err != nil {
		return nil, err
	}

	if !bt.eagerExited {
		if err := bt.finalizeSources(p.config.env); err != nil {
			return nil, err
		}
		eng := newConstraintEngine(p.spec, bt)
		if err := eng.evaluate(); err != nil {
			return nil, err
		}
	}

	return newBound(p.spec, bt), nil
}

// Snapshot exposes the frozen registration for external help/usage
// renderers. Panics if called before Freeze/Parse.
func (p *Parser) Snapshot() *Snapshot {
	if !p.frozen {
		panic(fmt.Errorf("argos: Snapshot called before Freeze"))
	}
	s := &Snapshot{}
	for _, o := range p.spec.options {
		s.Options = append(s.Options, OptionInfo{
			OwnerName: o.ownerName,
			Switches:  o.Switches(),
			Hidden:    o.hidden,
			Required:  o.required,
			Arity:     o.arity,
		})
	}
	for _, ps := range p.spec.positionals {
		s.Positionals = append(s.Positionals, PositionalInfo{
			OwnerName: ps.ownerName,
			Index:     ps.index,
			Required:  ps.required,
		})
	}
	for _, d := range p.spec.domains {
		s.Domains = append(s.Domains, DomainInfo{
			ID:      d.id,
			Aliases: d.aliases,
			Label:   d.label,
		})
	}
	return s
}
