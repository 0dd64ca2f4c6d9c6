/*

Package argos implements a declarative command-line argument parser: a
program registers options, positionals, and optional sub-commands, and
Argos turns an argv slice into a typed, provenance-tracked set of bound
values.

A minimal program looks like this:

	package main

	import (
		"fmt"
		"os"

		"github.com/teras/argos"
	)

	func main() {
		p := argos.NewParser(nil)
		verbose := p.Bool("verbose").Switch("--verbose", "-v").Handle()
		name := p.Str("name").Required().Handle()

		bound, err := p.Parse(os.Args[1:])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		n, _ := argos.RequiredValue[string](bound, name)
		v, _ := argos.Value[bool](bound, verbose)
		fmt.Println(n, v)
	}

Options, Switches, and Values

Every option is registered against an owner name — a stable identifier
used in diagnostics and as the key for environment lookups and YAML
defaults — and a Converter that turns a raw token into a typed Go value.
Built-in converters cover Int, Long, Float, Bool, OneOf, Enum, and the
identity String; Map adapts an arbitrary function. An option gets a
default "--kebab-case" long switch derived from its owner name unless
Switch is called explicitly or Unswitched is set.

An option's arity controls how repeated occurrences behave: Single takes
one value and reports a second occurrence as "provided multiple times",
List keeps every value in order, Set de-duplicates
preserving first-seen order, and Count ignores values entirely and
records only how many times the option occurred — useful for "-vvv"
verbosity flags.

Positionals And Domains

Positional arguments are registered in the order they should be consumed.
Only the last-registered positional may be List-arity, absorbing every
remaining token. When a Parser declares one or more Domains (named
sub-commands, matched by id or alias), the first non-option token is
tested against them before falling back to ordinary positional
consumption, so "mytool server --port 8080" and "mytool file.txt" are
both valid depending on what the program registers.

Value Sources And Precedence

Every bound value carries a ValueSource: USER (seen on the command line or
in an expanded argument file), ENVIRONMENT (resolved via an Env-bound
variable when no USER occurrence exists), DEFAULT (a Default value or one
loaded from YAML via LoadYAMLDefaults), or MISSING. Precedence is fixed:
USER always wins, and a USER occurrence never downgrades regardless of
what else is configured.

Argument Files

When the configured argument-file prefix (the default is '@') appears at
the start of a token, the rest of the token names a file whose content is
tokenized and spliced into the argument stream in place, the same way a
shell's own @file conventions work. An @file token inside an argument file
is only expanded when WithRecursiveArgumentFiles(true) is set on the
ParserConfig; a file that includes itself, directly or through other
files, is then rejected as a cycle.

The Constraint Engine

Cross-cutting rules — required options, cardinality bounds on repeatable
options, mutual exclusion, and presence- or value-conditional requirements
— are expressed as ConstraintSpec values built by functions such as
Required, AtLeast, ExactlyOne, Conflicts, and RequireIfValue, attached
either globally (Parser.Constrain), per-option (OptionBuilder.Constrain),
or per-domain (DomainBuilder.Constrain). They are evaluated, after
scanning completes, in a fixed order: domain gating, required, cardinality,
conflicts, presence-conditional, then value-conditional, stopping at the
first violation so errors are deterministic regardless of registration
order.

Eager Options

An option marked Eager (typically "--help" or "--version") short-circuits
parsing the moment it is bound: scanning stops immediately, positional
distribution and constraint evaluation are skipped entirely, and any
handle not yet resolved at that point reads back ErrUninitializedProperty
rather than a zero value if accessed through RequiredValue.

*/
package argos
