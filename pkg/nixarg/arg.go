// SPDX-License-Identifier: MPL-2.0

package nixarg

import "strings"

type (
	// Kind discriminates the Arg variants.
	Kind int

	// Arg is an immutable, typed description of one command-line argument.
	// Construct values with Flag, Option, Positional, List, or Raw; the zero
	// value encodes to no tokens.
	Arg struct {
		kind   Kind
		name   string
		values []string
	}
)

const (
	// KindNone is the zero value; it encodes to no tokens.
	KindNone Kind = iota
	// KindFlag is a boolean switch such as --json.
	KindFlag
	// KindOption is a named value passed as two tokens: --name value.
	KindOption
	// KindPositional is a bare value token.
	KindPositional
	// KindList is a named option repeated once per value.
	KindList
	// KindRaw is a literal token passed through untouched, including by the
	// shell renderers. Use only for values already known to be safe.
	KindRaw
)

// Flag constructs a boolean switch. The name may be given with or without
// leading dashes; "json" and "--json" produce the same token.
func Flag(name string) Arg {
	return Arg{kind: KindFlag, name: name}
}

// Option constructs a named value encoded as two tokens: --name value.
func Option(name, value string) Arg {
	return Arg{kind: KindOption, name: name, values: []string{value}}
}

// Positional constructs a bare value token.
func Positional(value string) Arg {
	return Arg{kind: KindPositional, values: []string{value}}
}

// List constructs a named option repeated once per value, preserving the
// caller-given order.
func List(name string, values ...string) Arg {
	vs := make([]string, len(values))
	copy(vs, values)
	return Arg{kind: KindList, name: name, values: vs}
}

// Raw constructs a literal token that bypasses encoding and shell quoting.
func Raw(literal string) Arg {
	return Arg{kind: KindRaw, values: []string{literal}}
}

// Kind returns the variant of the Arg.
func (a Arg) Kind() Kind { return a.kind }

// Name returns the flag/option name as given, without dash normalization.
func (a Arg) Name() string { return a.name }

// Values returns a copy of the Arg's values.
func (a Arg) Values() []string {
	vs := make([]string, len(a.values))
	copy(vs, a.values)
	return vs
}

// dashedName returns the name with the tool's native "--" prefix applied,
// leaving names that already carry dashes alone so short options like "-L"
// remain expressible.
func (a Arg) dashedName() string {
	if strings.HasPrefix(a.name, "-") {
		return a.name
	}
	return "--" + a.name
}
