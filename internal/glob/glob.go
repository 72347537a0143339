// Package glob implements shell-style wildcard matching in the fnmatch
// dialect.
//
// The supported constructs are:
//
//	*       matches any run of characters, including none
//	?       matches exactly one character
//	[seq]   matches one character contained in seq
//	[!seq]  matches one character not contained in seq
//
// Inside a set, "a-z" denotes an inclusive range and a "]" directly after the
// opening "[" or "[!" is a member. An unterminated "[" is matched literally.
// There is no escape character, no "**" and no brace expansion. Matching is
// case-sensitive and always covers the whole input.
//
// Input that is not valid UTF-8 is matched byte by byte: each invalid byte
// counts as one character equal only to itself.
//
// path/filepath.Match is not used because it stops "*" at path separators,
// negates sets with "^" and treats backslash as an escape.
package glob

import "unicode/utf8"

// rawByteBase offsets invalid bytes past the Unicode range so they never
// collide with a decoded rune or with each other.
const rawByteBase = utf8.MaxRune + 1

// decode splits s into characters. Invalid UTF-8 bytes map to
// rawByteBase+b instead of utf8.RuneError.
func decode(s string) []rune {
	out := make([]rune, 0, len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			r = rawByteBase + rune(s[i])
		}
		out = append(out, r)
		i += size
	}
	return out
}

// Pattern is a compiled glob pattern. The zero value matches only the
// empty string.
type Pattern struct {
	source string
	tokens []token
}

type tokenKind int

const (
	tokLiteral tokenKind = iota
	tokAny
	tokStar
	tokSet
)

type token struct {
	kind    tokenKind
	r       rune
	negate  bool
	members []runeRange
}

type runeRange struct {
	lo, hi rune
}

func (t token) matches(r rune) bool {
	switch t.kind {
	case tokLiteral:
		return t.r == r
	case tokAny:
		return true
	case tokSet:
		in := false
		for _, m := range t.members {
			if m.lo <= r && r <= m.hi {
				in = true
				break
			}
		}
		return in != t.negate
	}
	return false
}

// Compile parses pattern. Every string is a valid fnmatch pattern, so
// Compile never fails.
func Compile(pattern string) Pattern {
	src := decode(pattern)
	p := Pattern{source: pattern}

	for i := 0; i < len(src); {
		c := src[i]
		i++
		switch c {
		case '*':
			// Adjacent stars are equivalent to one.
			if n := len(p.tokens); n > 0 && p.tokens[n-1].kind == tokStar {
				continue
			}
			p.tokens = append(p.tokens, token{kind: tokStar})
		case '?':
			p.tokens = append(p.tokens, token{kind: tokAny})
		case '[':
			set, next, ok := parseSet(src, i)
			if !ok {
				p.tokens = append(p.tokens, token{kind: tokLiteral, r: '['})
				continue
			}
			p.tokens = append(p.tokens, set)
			i = next
		default:
			p.tokens = append(p.tokens, token{kind: tokLiteral, r: c})
		}
	}
	return p
}

// parseSet parses a set whose body starts at src[start], just past "[".
// It returns the index after the closing "]", or ok=false when the set is
// unterminated.
func parseSet(src []rune, start int) (token, int, bool) {
	j := start
	if j < len(src) && src[j] == '!' {
		j++
	}
	if j < len(src) && src[j] == ']' {
		j++
	}
	for j < len(src) && src[j] != ']' {
		j++
	}
	if j >= len(src) {
		return token{}, 0, false
	}

	body := src[start:j]
	t := token{kind: tokSet}
	if len(body) > 0 && body[0] == '!' {
		t.negate = true
		body = body[1:]
	}

	for k := 0; k < len(body); {
		if k+2 < len(body) && body[k+1] == '-' {
			lo, hi := body[k], body[k+2]
			// Reversed ranges are empty.
			if lo <= hi {
				t.members = append(t.members, runeRange{lo: lo, hi: hi})
			}
			k += 3
			continue
		}
		t.members = append(t.members, runeRange{lo: body[k], hi: body[k]})
		k++
	}
	return t, j + 1, true
}

// String returns the source text of the pattern.
func (p Pattern) String() string {
	return p.source
}

// Match reports whether the whole of s matches the pattern.
func (p Pattern) Match(s string) bool {
	text := decode(s)
	ti, pi := 0, 0
	starPi, starTi := -1, 0

	for ti < len(text) {
		if pi < len(p.tokens) {
			t := p.tokens[pi]
			if t.kind == tokStar {
				starPi, starTi = pi, ti
				pi++
				continue
			}
			if t.matches(text[ti]) {
				ti++
				pi++
				continue
			}
		}
		if starPi < 0 {
			return false
		}
		// Let the last star swallow one more character and retry.
		starTi++
		ti = starTi
		pi = starPi + 1
	}

	for pi < len(p.tokens) && p.tokens[pi].kind == tokStar {
		pi++
	}
	return pi == len(p.tokens)
}

// Match reports whether s matches pattern.
func Match(pattern, s string) bool {
	return Compile(pattern).Match(s)
}

// Filter returns the elements of lines that match pattern, in order.
func Filter(pattern string, lines []string) []string {
	p := Compile(pattern)
	var out []string
	for _, l := range lines {
		if p.Match(l) {
			out = append(out, l)
		}
	}
	return out
}
