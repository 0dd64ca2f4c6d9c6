package argos

import (
	"fmt"
	"strings"
)

// constraintEngine evaluates every ConstraintSpec in a fixed six-step
// order: domain gating, required, cardinality, conflicts,
// presence-conditional, value-conditional. Each step runs to completion
// across all constraints before the next starts, and the engine returns on
// the first violation so errors stay deterministic regardless of
// registration order.
type constraintEngine struct {
	spec *specModel
	bt   *BindingTable
}

func newConstraintEngine(spec *specModel, bt *BindingTable) *constraintEngine {
	return &constraintEngine{spec: spec, bt: bt}
}

func (e *constraintEngine) evaluate() error {
	active := ""
	if e.bt.domainSet {
		active = e.bt.activeDomain
	}

	if err := e.checkDomainGating(active); err != nil {
		return err
	}

	all := e.allConstraints(active)

	for _, c := range all {
		if c.Kind == CRequired {
			if err := e.checkRequired(c); err != nil {
				return err
			}
		}
	}
	for _, c := range all {
		switch c.Kind {
		case CAtLeast, CAtMost, CExactlyOne, CAtLeastOne, CAtMostOne:
			if err := e.checkCardinality(c); err != nil {
				return err
			}
		}
	}
	for _, c := range all {
		switch c.Kind {
		case CConflicts, CConflictsWith:
			if err := e.checkConflict(c); err != nil {
				return err
			}
		}
	}
	for _, c := range all {
		switch c.Kind {
		case CRequireIfAnyPresent, CRequireIfAllPresent, CRequireIfAnyAbsent, CRequireIfAllAbsent:
			if err := e.checkPresenceConditional(c); err != nil {
				return err
			}
		}
	}
	for _, c := range all {
		switch c.Kind {
		case CRequireIfValue, CAllowOnlyIfValue:
			if err := e.checkValueConditional(c); err != nil {
				return err
			}
		}
	}
	return nil
}

// allConstraints gathers global constraints, per-option constraints, and
// the active domain's constraints into one slice (COnlyInDomains is handled
// separately, in checkDomainGating, since it gates rather than requires).
func (e *constraintEngine) allConstraints(active string) []ConstraintSpec {
	var out []ConstraintSpec
	out = append(out, e.spec.globalConstraints...)
	for _, o := range e.spec.options {
		out = append(out, o.constraints...)
	}
	if d, ok := e.spec.domainsByID[active]; ok {
		out = append(out, d.constraints...)
	}
	return out
}

func (e *constraintEngine) checkDomainGating(active string) error {
	for _, o := range e.spec.options {
		if len(o.domains) == 0 {
			continue
		}
		if !e.userPresent(o.handle) {
			continue
		}
		if !o.allowedInDomain(active) {
			return notAllowedInDomainError(o.ownerName, active)
		}
	}
	for _, o := range e.spec.options {
		for _, c := range o.constraints {
			if c.Kind != COnlyInDomains {
				continue
			}
			if err := e.checkOnlyInDomains(c, active); err != nil {
				return err
			}
		}
	}
	for _, c := range e.spec.globalConstraints {
		if c.Kind != COnlyInDomains {
			continue
		}
		if err := e.checkOnlyInDomains(c, active); err != nil {
			return err
		}
	}
	return nil
}

func (e *constraintEngine) checkOnlyInDomains(c ConstraintSpec, active string) error {
	if !e.userPresent(c.Target) {
		return nil
	}
	for _, d := range c.Domains {
		if d == active {
			return nil
		}
	}
	return notAllowedInDomainError(e.ownerNameOf(c.Target), active)
}

func (e *constraintEngine) checkRequired(c ConstraintSpec) error {
	if !e.userPresent(c.Target) {
		return missingRequiredError(e.ownerNameOf(c.Target))
	}
	return nil
}

func (e *constraintEngine) checkCardinality(c ConstraintSpec) error {
	switch c.Kind {
	case CAtLeast:
		n := e.userOccurrenceCount(c.Target)
		if n < c.N {
			return constraintError(e.ownerNameOf(c.Target),
				fmt.Sprintf("must occur at least %d times (occurred %d)", c.N, n), nil)
		}
	case CAtMost:
		n := e.userOccurrenceCount(c.Target)
		if n > c.N {
			return constraintError(e.ownerNameOf(c.Target),
				fmt.Sprintf("must occur at most %d times (occurred %d)", c.N, n), nil)
		}
	case CExactlyOne:
		if n := e.presentCount(c.Refs); n != 1 {
			return e.groupCardinalityError(c.Refs, "exactly one", n)
		}
	case CAtLeastOne:
		if n := e.presentCount(c.Refs); n < 1 {
			return e.groupCardinalityError(c.Refs, "at least one", n)
		}
	case CAtMostOne:
		if n := e.presentCount(c.Refs); n > 1 {
			return e.groupCardinalityError(c.Refs, "at most one", n)
		}
	}
	return nil
}

func (e *constraintEngine) groupCardinalityError(refs []Handle, requirement string, got int) error {
	names := make([]string, len(refs))
	for i, r := range refs {
		names[i] = e.ownerNameOf(r)
	}
	group := strings.Join(names, ", ")
	return constraintError(group,
		fmt.Sprintf("is not allowed: %s of [%s] must be present (got %d)", requirement, group, got),
		map[string]interface{}{"group": names})
}

func (e *constraintEngine) checkConflict(c ConstraintSpec) error {
	if !e.userPresent(c.Target) {
		return nil
	}
	for _, r := range c.Refs {
		if e.userPresent(r) {
			return constraintError(e.ownerNameOf(c.Target),
				fmt.Sprintf("is not allowed together with --%s", e.ownerNameOf(r)), nil)
		}
	}
	return nil
}

func (e *constraintEngine) checkPresenceConditional(c ConstraintSpec) error {
	var triggered bool
	var reason string
	switch c.Kind {
	case CRequireIfAnyPresent:
		triggered = e.anyPresent(c.Refs)
		reason = "is required because at least one of [%s] is present"
	case CRequireIfAllPresent:
		triggered = e.allPresent(c.Refs)
		reason = "is required because all of [%s] are present"
	case CRequireIfAnyAbsent:
		triggered = e.anyAbsent(c.Refs)
		reason = "is required because at least one of [%s] is absent"
	case CRequireIfAllAbsent:
		triggered = e.allAbsent(c.Refs)
		reason = "is required because all of [%s] are absent"
	}
	if !triggered || e.userPresent(c.Target) {
		return nil
	}
	names := make([]string, len(c.Refs))
	for i, r := range c.Refs {
		names[i] = e.ownerNameOf(r)
	}
	return constraintError(e.ownerNameOf(c.Target), fmt.Sprintf(reason, strings.Join(names, ", ")), nil)
}

func (e *constraintEngine) checkValueConditional(c ConstraintSpec) error {
	ref := c.Refs[0]
	value := e.typedValue(ref)
	predicateTrue := c.Predicate(value)

	switch c.Kind {
	case CRequireIfValue:
		if predicateTrue && !e.userPresent(c.Target) {
			return constraintError(e.ownerNameOf(c.Target),
				fmt.Sprintf("is required because --%s has wrong value", e.ownerNameOf(ref)), nil)
		}
	case CAllowOnlyIfValue:
		if e.userPresent(c.Target) && !predicateTrue {
			return constraintError(e.ownerNameOf(c.Target),
				fmt.Sprintf("is not allowed because --%s has wrong value", e.ownerNameOf(ref)), nil)
		}
	}
	return nil
}

func (e *constraintEngine) userPresent(h Handle) bool {
	if st, ok := e.bt.options[h]; ok {
		return st.userPresent()
	}
	if st, ok := e.bt.positionals[h]; ok {
		return st.singleSet || len(st.list) > 0
	}
	return false
}

func (e *constraintEngine) userOccurrenceCount(h Handle) int {
	if st, ok := e.bt.options[h]; ok {
		return st.userOccurrenceCount()
	}
	return 0
}

func (e *constraintEngine) presentCount(refs []Handle) int {
	n := 0
	for _, r := range refs {
		if e.userPresent(r) {
			n++
		}
	}
	return n
}

func (e *constraintEngine) anyPresent(refs []Handle) bool {
	return e.presentCount(refs) > 0
}

func (e *constraintEngine) allPresent(refs []Handle) bool {
	return e.presentCount(refs) == len(refs)
}

func (e *constraintEngine) anyAbsent(refs []Handle) bool {
	for _, r := range refs {
		if !e.userPresent(r) {
			return true
		}
	}
	return false
}

func (e *constraintEngine) allAbsent(refs []Handle) bool {
	for _, r := range refs {
		if e.userPresent(r) {
			return false
		}
	}
	return true
}

func (e *constraintEngine) ownerNameOf(h Handle) string {
	if o, ok := e.spec.optionsByHandle[h]; ok {
		return o.ownerName
	}
	if p, ok := e.spec.positionalsByHandle[h]; ok {
		return p.ownerName
	}
	return fmt.Sprintf("%v", h)
}

func (e *constraintEngine) typedValue(h Handle) interface{} {
	if st, ok := e.bt.options[h]; ok {
		if !st.resolved {
			return nil
		}
		return st.finalValue
	}
	if st, ok := e.bt.positionals[h]; ok {
		if st.singleSet {
			return st.single
		}
	}
	return nil
}
