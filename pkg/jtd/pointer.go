package jtd

import (
	"strconv"
	"strings"
)

// Wildcard is the reserved pattern segment matching any object key or array index.
const Wildcard = "-"

// Segment is one step of a concrete path: an object key or an array position.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// Path is the sequence of segments from the document root to a value.
type Path []Segment

// String renders the path as an RFC6901 pointer.
func (p Path) String() string {
	var b strings.Builder
	for _, s := range p {
		b.WriteByte('/')
		if s.IsIndex {
			b.WriteString(strconv.Itoa(s.Index))
			continue
		}
		b.WriteString(escapeToken(s.Key))
	}
	return b.String()
}

// pattern renders the path with array positions replaced by the wildcard.
func (p Path) pattern() string {
	var b strings.Builder
	for _, s := range p {
		b.WriteByte('/')
		if s.IsIndex {
			b.WriteString(Wildcard)
			continue
		}
		b.WriteString(escapeToken(s.Key))
	}
	return b.String()
}

// Pattern is a parsed hint: literal property names and wildcards.
// The empty pattern denotes the document root.
type Pattern []string

// ParsePattern parses an RFC6901 pointer whose "-" segments act as wildcards.
func ParsePattern(s string) (Pattern, error) {
	if s == "" {
		return Pattern{}, nil
	}
	if s[0] != '/' {
		return nil, &PatternError{Hint: s, Reason: "must be empty or start with '/'"}
	}

	raw := strings.Split(s[1:], "/")
	p := make(Pattern, 0, len(raw))
	for _, tok := range raw {
		seg, ok := unescapeToken(tok)
		if !ok {
			return nil, &PatternError{Hint: s, Reason: "'~' must be followed by '0' or '1'"}
		}
		p = append(p, seg)
	}
	return p, nil
}

// Matches reports whether the pattern addresses the concrete path. Array
// positions only match wildcard segments.
func (p Pattern) Matches(path Path) bool {
	if len(p) != len(path) {
		return false
	}
	return p.prefixMatches(path)
}

func (p Pattern) prefixMatches(path Path) bool {
	for i, seg := range path {
		if p[i] == Wildcard {
			continue
		}
		if seg.IsIndex || p[i] != seg.Key {
			return false
		}
	}
	return true
}

// String renders the pattern back into pointer syntax.
func (p Pattern) String() string {
	var b strings.Builder
	for _, seg := range p {
		b.WriteByte('/')
		if seg == Wildcard {
			b.WriteString(seg)
			continue
		}
		b.WriteString(escapeToken(seg))
	}
	return b.String()
}

func unescapeToken(tok string) (string, bool) {
	if !strings.Contains(tok, "~") {
		return tok, true
	}
	var b strings.Builder
	for i := 0; i < len(tok); i++ {
		c := tok[i]
		if c != '~' {
			b.WriteByte(c)
			continue
		}
		if i+1 >= len(tok) {
			return "", false
		}
		switch tok[i+1] {
		case '0':
			b.WriteByte('~')
		case '1':
			b.WriteByte('/')
		default:
			return "", false
		}
		i++
	}
	return b.String(), true
}

var tokenEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func escapeToken(s string) string {
	return tokenEscaper.Replace(s)
}

// HintSet is a table of patterns indexed by length, so a lookup only
// considers patterns as deep as the visited path.
type HintSet struct {
	byLen map[int][]Pattern
	n     int
}

// NewHintSet builds a hint set from parsed patterns.
func NewHintSet(patterns ...Pattern) *HintSet {
	hs := &HintSet{byLen: make(map[int][]Pattern)}
	for _, p := range patterns {
		hs.byLen[len(p)] = append(hs.byLen[len(p)], p)
		hs.n++
	}
	return hs
}

// ParseHintSet parses every hint string, failing on the first malformed one.
func ParseHintSet(hints []string) (*HintSet, error) {
	patterns := make([]Pattern, 0, len(hints))
	for _, h := range hints {
		p, err := ParsePattern(h)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}
	return NewHintSet(patterns...), nil
}

// Len returns the number of patterns in the set.
func (hs *HintSet) Len() int {
	if hs == nil {
		return 0
	}
	return hs.n
}

// Match reports whether any pattern addresses path.
func (hs *HintSet) Match(path Path) bool {
	if hs == nil {
		return false
	}
	for _, p := range hs.byLen[len(path)] {
		if p.prefixMatches(path) {
			return true
		}
	}
	return false
}

// Peek finds a pattern exactly one segment longer than path whose prefix
// matches it, and returns that pattern's final segment.
func (hs *HintSet) Peek(path Path) (string, bool) {
	if hs == nil {
		return "", false
	}
	for _, p := range hs.byLen[len(path)+1] {
		if p.prefixMatches(path) {
			return p[len(p)-1], true
		}
	}
	return "", false
}

// Patterns returns every pattern in the set, shortest first.
func (hs *HintSet) Patterns() []Pattern {
	if hs == nil {
		return nil
	}
	var out []Pattern
	for l := 0; len(out) < hs.n; l++ {
		out = append(out, hs.byLen[l]...)
	}
	return out
}
