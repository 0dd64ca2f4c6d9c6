package argos

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// validateRegistration runs Freeze()-time checks that cannot be caught
// immediately at each builder call (handles referenced by constraints
// before every option is registered, cross-option consistency). Every
// problem found is collected, not just the first, via go-multierror, the
// collecting every problem rather than bailing out on the first one.
func validateRegistration(p *Parser) error {
	var result *multierror.Error

	known := make(map[Handle]string, len(p.options)+len(p.positionals))
	for _, o := range p.options {
		known[o.handle] = o.ownerName
	}
	for _, ps := range p.positionals {
		known[ps.handle] = ps.ownerName
	}

	checkHandle := func(h Handle, context string) {
		if _, ok := known[h]; !ok {
			result = multierror.Append(result, fmt.Errorf("%s references unregistered handle %v", context, h))
		}
	}

	usesTarget := map[ConstraintKind]bool{
		CRequired: true, CAtLeast: true, CAtMost: true,
		CConflicts: true, CConflictsWith: true,
		CRequireIfAnyPresent: true, CRequireIfAllPresent: true,
		CRequireIfAnyAbsent: true, CRequireIfAllAbsent: true,
		CRequireIfValue: true, CAllowOnlyIfValue: true, COnlyInDomains: true,
	}

	checkConstraint := func(c ConstraintSpec, context string) {
		if usesTarget[c.Kind] {
			checkHandle(c.Target, context)
		}
		for _, r := range c.Refs {
			checkHandle(r, context)
		}
	}

	for _, c := range p.globalCons {
		checkConstraint(c, "global constraint")
	}
	for _, o := range p.options {
		for _, c := range o.constraints {
			checkConstraint(c, fmt.Sprintf("constraint on option %q", o.ownerName))
		}
		if o.negatable {
			hasLong := false
			for _, sw := range o.switches {
				if len(sw) > 2 && sw[:2] == "--" {
					hasLong = true
				}
			}
			if !hasLong && !o.unswitched && len(o.switches) > 0 {
				// a derived switch is always long, so this only fires for an
				// explicit Switch call that supplied short forms only
				result = multierror.Append(result, fmt.Errorf("option %q: Negatable requires a long switch", o.ownerName))
			}
		}
	}
	for _, d := range p.domains {
		for _, c := range d.constraints {
			checkConstraint(c, fmt.Sprintf("constraint on domain %q", d.id))
		}
	}

	for i, ps := range p.positionals {
		if ps.arity == List && i != len(p.positionals)-1 {
			result = multierror.Append(result, fmt.Errorf("positional %q: only the last positional may be List", ps.ownerName))
		}
	}

	derived := make(map[string]string)
	for _, o := range p.options {
		if len(o.switches) > 0 || o.unswitched {
			continue
		}
		sw := deriveSwitch(o.ownerName)
		if owner, taken := derived[sw]; taken {
			result = multierror.Append(result, fmt.Errorf("derived switch %q collides for options %q and %q", sw, owner, o.ownerName))
			continue
		}
		derived[sw] = o.ownerName
	}

	return result.ErrorOrNil()
}
