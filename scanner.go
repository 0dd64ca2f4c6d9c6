package argos

import "strings"

// tokenKind classifies one token by its switch/cluster/positional shape.
type tokenKind uint8

const (
	tkAttachedLong tokenKind = iota
	tkBareLong
	tkAttachedShort
	tkCluster
	tkPositional
)

func classifyToken(tok string) tokenKind {
	switch {
	case strings.HasPrefix(tok, "--") && len(tok) > 2 && strings.Contains(tok, "="):
		return tkAttachedLong
	case strings.HasPrefix(tok, "--") && len(tok) > 2:
		return tkBareLong
	case tok == "-":
		return tkPositional
	case strings.HasPrefix(tok, "-") && len(tok) >= 2:
		if name, _, ok := splitAttached(tok); ok && len(name) == 2 {
			return tkAttachedShort
		}
		return tkCluster
	default:
		return tkPositional
	}
}

func splitAttached(tok string) (name, value string, ok bool) {
	eq := strings.IndexByte(tok, '=')
	if eq < 0 {
		return "", "", false
	}
	return tok[:eq], tok[eq+1:], true
}

// flagAlways reports whether opt always produces an occurrence when
// triggered without a value — true for boolean options (whose flag-mode
// default is true) and Count options (which never need a value at all).
// Every other type is a no-op when flag-triggered without a usable value.
func flagAlways(opt *OptionSpec) bool {
	return opt.boolean || opt.arity == Count
}

// looksLikeOptionToken reports whether tok should be treated as the start
// of another option rather than a value.
func looksLikeOptionToken(tok string) bool {
	return len(tok) > 0 && tok[0] == '-' && tok != "-"
}

// isNegativeNumberFor reports whether tok is a negative-number literal that
// opt's converter accepts — the exception that lets numeric options take
// negative values that would otherwise look like option switches.
func isNegativeNumberFor(opt *OptionSpec, tok string) bool {
	if len(tok) < 2 || tok[0] != '-' {
		return false
	}
	if tok[1] < '0' || tok[1] > '9' {
		return false
	}
	_, err := opt.converter(tok)
	return err == nil
}

// valueDecision is the result of the value-requirement heuristic.
type valueDecision struct {
	consumed bool
	raw      *string
}

// scanner is the token scanner and binder: it walks argv tokens left to
// right, classifies each one, and resolves the active domain as a side
// effect of the first non-option token.
type scanner struct {
	spec          *specModel
	config        *ParserConfig
	domainDecided bool
	positional    []string
}

func newScanner(spec *specModel, config *ParserConfig) *scanner {
	return &scanner{spec: spec, config: config}
}

// run scans tokens left to right, building a BindingTable. It returns
// immediately, with bt.eagerExited set, as soon as an eager option binds.
func (sc *scanner) run(tokens []string) (*BindingTable, error) {
	bt := newBindingTable(sc.spec)

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		eager, consumedNext, err := sc.scanOne(bt, tokens, i, tok)
		if err != nil {
			return nil, err
		}
		if consumedNext {
			i++
		}
		if eager {
			bt.eagerExited = true
			sc.log("eager option bound, parsing stopped", "token", tok, "index", i)
			return bt, nil
		}
	}

	if err := sc.distributePositionals(bt); err != nil {
		return nil, err
	}
	return bt, nil
}

func (sc *scanner) log(msg string, args ...interface{}) {
	if sc.config != nil && sc.config.logger != nil {
		sc.config.logger.Debug(msg, args...)
	}
}

// scanOne classifies and processes a single token, returning whether it
// bound an eager option and whether it consumed tokens[i+1] as a value.
func (sc *scanner) scanOne(bt *BindingTable, tokens []string, i int, tok string) (eager bool, consumedNext bool, err error) {
	switch classifyToken(tok) {
	case tkAttachedLong:
		name, value, _ := splitAttached(tok)
		if opt, ok := sc.spec.negatableFor(name); ok {
			// negatable options ignore any attached value; spelling --no-foo=x still means false
			_ = value
			eager, err = sc.bind(bt, opt, strPtr("false"), i)
			return eager, false, err
		}
		opt, ok := sc.spec.longByTrigger[name]
		if !ok {
			return false, false, unknownOptionError(name)
		}
		eager, err = sc.bind(bt, opt, &value, i)
		return eager, false, err

	case tkBareLong:
		if opt, ok := sc.spec.negatableFor(tok); ok {
			eager, err = sc.bind(bt, opt, strPtr("false"), i)
			return eager, false, err
		}
		opt, ok := sc.spec.longByTrigger[tok]
		if !ok {
			return false, false, unknownOptionError(tok)
		}
		dec, derr := sc.decideValue(opt, tokens, i)
		if derr != nil {
			return false, false, derr
		}
		if dec.consumed {
			eager, err = sc.bind(bt, opt, dec.raw, i)
			return eager, true, err
		}
		if flagAlways(opt) {
			eager, err = sc.bind(bt, opt, strPtr("true"), i)
			return eager, false, err
		}
		return false, false, nil

	case tkAttachedShort:
		name, value, _ := splitAttached(tok)
		opt, ok := sc.spec.shortByTrigger[name]
		if !ok {
			return false, false, unknownOptionError(name)
		}
		eager, err = sc.bind(bt, opt, &value, i)
		return eager, false, err

	case tkCluster:
		return sc.scanCluster(bt, tokens, i, tok)

	default: // tkPositional
		sc.handlePositional(bt, tok)
		return false, false, nil
	}
}

func strPtr(s string) *string { return &s }

// decideValue implements the Auto/Always/Never value-requirement heuristic.
func (sc *scanner) decideValue(opt *OptionSpec, tokens []string, i int) (valueDecision, error) {
	switch opt.hint {
	case Always:
		if i+1 >= len(tokens) {
			return valueDecision{}, missingValueError(opt.ownerName)
		}
		v := tokens[i+1]
		return valueDecision{consumed: true, raw: &v}, nil
	case Never:
		return valueDecision{}, nil
	default: // Auto
		if i+1 >= len(tokens) {
			return valueDecision{}, nil
		}
		next := tokens[i+1]
		if looksLikeOptionToken(next) && !isNegativeNumberFor(opt, next) {
			return valueDecision{}, nil
		}
		if opt.converter == nil {
			return valueDecision{}, nil
		}
		if _, err := opt.converter(next); err == nil || isStringLike(opt.converter) {
			v := next
			return valueDecision{consumed: true, raw: &v}, nil
		}
		return valueDecision{}, nil
	}
}

// scanCluster implements short-option clustering: "-abc" as "-a -b -c".
func (sc *scanner) scanCluster(bt *BindingTable, tokens []string, i int, tok string) (eager bool, consumedNext bool, err error) {
	chars := []rune(tok[1:])
	for idx, ch := range chars {
		trigger := "-" + string(ch)
		opt, ok := sc.spec.shortByTrigger[trigger]
		if !ok {
			return false, false, unknownOptionError(trigger)
		}
		isLast := idx == len(chars)-1

		if !opt.boolean && opt.arity != Count && opt.hint == Always {
			if isLast {
				dec, derr := sc.decideValue(opt, tokens, i)
				if derr != nil {
					return false, false, derr
				}
				if !dec.consumed {
					return false, false, missingValueError(opt.ownerName)
				}
				eg, berr := sc.bind(bt, opt, dec.raw, i)
				return eg, true, berr
			}
			remainder := string(chars[idx+1:])
			eg, berr := sc.bind(bt, opt, &remainder, i)
			return eg, false, berr
		}

		if flagAlways(opt) {
			eg, berr := sc.bind(bt, opt, strPtr("true"), i)
			if berr != nil {
				return false, false, berr
			}
			if eg {
				return true, false, nil
			}
			continue
		}

		if isLast {
			dec, derr := sc.decideValue(opt, tokens, i)
			if derr != nil {
				return false, false, derr
			}
			if dec.consumed {
				eg, berr := sc.bind(bt, opt, dec.raw, i)
				return eg, true, berr
			}
		}
		// non-terminal, non-boolean, Auto/Never hint: flag-mode no-op, clustering continues
	}
	return false, false, nil
}

// bind records one occurrence and returns whether it triggered an eager exit.
func (sc *scanner) bind(bt *BindingTable, opt *OptionSpec, raw *string, originIndex int) (eager bool, err error) {
	sc.log("binding option", "option", opt.ownerName, "raw", derefOr(raw, "<none>"))
	if err := recordOccurrence(bt, opt, raw, originIndex); err != nil {
		return false, err
	}
	if opt.eager {
		st := bt.options[opt.handle]
		st.finalSource = SourceUser
		st.finalValue = st.currentTypedValue()
		st.resolved = true
		return true, nil
	}
	return false, nil
}

func derefOr(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}

// recordOccurrence applies the converter and updates the option's scan
// state, following the arity-specific accumulation rules (Single stores its
// one value and rejects a second USER occurrence, List appends, Set
// de-duplicates).
func recordOccurrence(bt *BindingTable, opt *OptionSpec, raw *string, originIndex int) error {
	st := bt.options[opt.handle]
	occ := Occurrence{RawValue: raw, Source: SourceUser, OriginIndex: originIndex}

	if opt.arity == Count {
		st.countFlags = append(st.countFlags, true)
		st.occurrences = append(st.occurrences, occ)
		return nil
	}

	rawStr := derefOr(raw, "true")
	value, err := opt.converter(rawStr)
	if err != nil {
		if opt.boolean && opt.hint == Never {
			// a Never-hint boolean always succeeds once triggered, attached
			// value or not.
			value, err = true, nil
		} else {
			return invalidValueError(opt.ownerName, rawStr, err)
		}
	}

	switch opt.arity {
	case Single:
		if st.userOccurrenceCount() >= 1 {
			return duplicateOptionError(opt.ownerName)
		}
		st.singleValue = value
		st.singleSet = true
	case List:
		st.listValues = append(st.listValues, value)
	case Set:
		if st.setSeen == nil {
			st.setSeen = make(map[interface{}]bool)
		}
		if !st.setSeen[value] {
			st.setSeen[value] = true
			st.setValues = append(st.setValues, value)
		}
	}
	st.occurrences = append(st.occurrences, occ)
	return nil
}

// handlePositional resolves the active domain from the first non-option
// token — tested against declared domains, falling back to a positional
// value if none matches or none are declared — then collects every
// subsequent non-option token for distributePositionals.
func (sc *scanner) handlePositional(bt *BindingTable, tok string) {
	if !sc.domainDecided {
		sc.domainDecided = true
		for _, d := range sc.spec.domains {
			if d.matches(tok) {
				bt.activeDomain = d.id
				bt.domainSet = true
				sc.log("domain activated", "domain", d.id)
				return
			}
		}
	}
	sc.positional = append(sc.positional, tok)
}

// distributePositionals fills positional slots in declaration order, the
// final List-arity slot absorbing everything left over.
func (sc *scanner) distributePositionals(bt *BindingTable) error {
	raw := sc.positional
	idx := 0
	for _, p := range sc.spec.positionals {
		st := bt.positionals[p.handle]
		if p.arity == List {
			for ; idx < len(raw); idx++ {
				v, err := p.converter(raw[idx])
				if err != nil {
					return invalidValueError(p.ownerName, raw[idx], err)
				}
				st.list = append(st.list, v)
			}
			continue
		}
		if idx >= len(raw) {
			if p.required {
				return missingPositionalError(p.ownerName)
			}
			continue
		}
		v, err := p.converter(raw[idx])
		if err != nil {
			return invalidValueError(p.ownerName, raw[idx], err)
		}
		st.single = v
		st.singleSet = true
		idx++
	}
	if idx < len(raw) {
		return unexpectedPositionalError(raw[idx])
	}
	return nil
}
