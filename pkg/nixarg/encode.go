// SPDX-License-Identifier: MPL-2.0

package nixarg

import (
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Encode converts a single Arg into its argv tokens. Each returned element
// is one atomic argv entry; because tokens are handed to the process via
// execve, no shell ever re-tokenizes them.
func Encode(a Arg) []string {
	switch a.kind {
	case KindFlag:
		return []string{a.dashedName()}
	case KindOption:
		return []string{a.dashedName(), a.values[0]}
	case KindPositional:
		return []string{a.values[0]}
	case KindList:
		tokens := make([]string, 0, len(a.values)*2)
		for _, v := range a.values {
			tokens = append(tokens, a.dashedName(), v)
		}
		return tokens
	case KindRaw:
		return []string{a.values[0]}
	default:
		return nil
	}
}

// EncodeAll converts an ordered Arg sequence into the concatenated token
// sequence, preserving order. Encoding the same sequence twice yields
// byte-identical output.
func EncodeAll(args []Arg) []string {
	tokens := make([]string, 0, len(args))
	for _, a := range args {
		tokens = append(tokens, Encode(a)...)
	}
	return tokens
}

// Quote returns a shell-safe rendering of s: splitting the result with a
// POSIX shell tokenizer yields exactly one word equal to s. Quote is total;
// NUL bytes, which cannot cross an execve boundary anyway, are stripped
// before quoting.
func Quote(s string) string {
	quoted, err := syntax.Quote(s, syntax.LangBash)
	if err != nil {
		quoted, _ = syntax.Quote(strings.ReplaceAll(s, "\x00", ""), syntax.LangBash)
	}
	return quoted
}

// ShellJoin renders argv tokens as one copy-pasteable shell line, quoting
// every token.
func ShellJoin(tokens []string) string {
	var sb strings.Builder
	for i, tok := range tokens {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(Quote(tok))
	}
	return sb.String()
}

// ShellString renders an Arg sequence as a shell line. Unlike ShellJoin it
// honors Raw args, which appear verbatim.
func ShellString(args ...Arg) string {
	var sb strings.Builder
	for _, a := range args {
		for _, tok := range Encode(a) {
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			if a.kind == KindRaw {
				sb.WriteString(tok)
				continue
			}
			sb.WriteString(Quote(tok))
		}
	}
	return sb.String()
}
