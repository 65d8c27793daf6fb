// Package typeref parses the minimal Kotlin-like type grammar the host
// produces (nested angle brackets, trailing `?`, function arrows with
// an optional `suspend` prefix) into a tagged tree, and renders that
// tree back to text. Parsing is total: malformed input degrades to a
// Simple node holding the original spelling rather than aborting
// (spec §4.1).
//
// The grammar shape mirrors internal/ast's Type node family (SimpleType,
// FuncType, ListType, TupleType) in the teacher compiler, generalized
// into one tagged Ref instead of one Go type per variant, since here the
// tree is data consumed by a resolver rather than a node walked by a
// type checker.
package typeref

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Kind tags which variant a Ref holds.
type Kind int

const (
	Simple Kind = iota
	Generic
	Nullable
	Function
)

// Ref is a parsed type-reference tree. Exactly the fields relevant to
// Kind are populated; the rest are zero.
type Ref struct {
	Kind Kind

	// Simple, Generic
	Name string

	// Generic
	Args []*Ref

	// Nullable
	Inner *Ref

	// Function
	Params  []*Ref
	Return  *Ref
	Suspend bool

	// Raw is the original spelling. Always set; it is the fallback
	// payload for a malformed or unrecognized Simple reference.
	Raw string
}

// NewSimple builds a Simple reference, used by callers (e.g.
// internal/transform's erasure) that construct Refs programmatically
// instead of parsing them.
func NewSimple(name string) *Ref {
	return &Ref{Kind: Simple, Name: name, Raw: name}
}

// Parse converts a raw spelling into a Ref. It never fails.
func Parse(raw string) *Ref {
	normalized := normalizeSpelling(raw)
	trimmed := strings.TrimSpace(normalized)
	return parse(trimmed, trimmed)
}

// normalizeSpelling applies the same input-normalization discipline the
// teacher's lexer applies to source text: strip a BOM, fold to NFC, so
// that encoding variations in host-reported spellings never change the
// parsed tree.
func normalizeSpelling(raw string) string {
	b := []byte(raw)
	b = stripBOM(b)
	if !norm.NFC.IsNormal(b) {
		b = norm.NFC.Bytes(b)
	}
	return string(b)
}

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

func stripBOM(b []byte) []byte {
	if len(b) >= 3 && b[0] == bomUTF8[0] && b[1] == bomUTF8[1] && b[2] == bomUTF8[2] {
		return b[3:]
	}
	return b
}

func parse(s string, original string) *Ref {
	if s == "" {
		return &Ref{Kind: Simple, Name: "", Raw: original}
	}

	// Trailing '?' at top level wraps in Nullable.
	if depth(s) == 0 && strings.HasSuffix(s, "?") && !strings.HasSuffix(s, "->?") {
		inner := strings.TrimSpace(s[:len(s)-1])
		if inner != "" {
			return &Ref{Kind: Nullable, Inner: parse(inner, original), Raw: original}
		}
	}

	if idx, ok := findTopLevelArrow(s); ok {
		return parseFunction(s, idx, original)
	}

	if name, args, ok := splitGeneric(s); ok {
		parsedArgs := make([]*Ref, 0, len(args))
		for _, a := range args {
			parsedArgs = append(parsedArgs, parse(strings.TrimSpace(a), strings.TrimSpace(a)))
		}
		return &Ref{Kind: Generic, Name: name, Args: parsedArgs, Raw: original}
	}

	return &Ref{Kind: Simple, Name: s, Raw: original}
}

// depth reports the net bracket nesting depth change of s, used to
// decide whether a trailing '?' is truly at top level.
func depth(s string) int {
	d := 0
	for _, r := range s {
		switch r {
		case '<', '(':
			d++
		case '>', ')':
			d--
		}
	}
	return d
}

// findTopLevelArrow finds the index of an unbracketed "->", scanning
// left to right and tracking <>/() depth.
func findTopLevelArrow(s string) (int, bool) {
	d := 0
	for i := 0; i < len(s)-1; i++ {
		switch s[i] {
		case '<', '(':
			d++
		case '>', ')':
			d--
		}
		if d == 0 && s[i] == '-' && s[i+1] == '>' {
			return i, true
		}
	}
	return 0, false
}

func parseFunction(s string, arrowIdx int, original string) *Ref {
	left := strings.TrimSpace(s[:arrowIdx])
	right := strings.TrimSpace(s[arrowIdx+2:])

	suspend := false
	if strings.HasPrefix(left, "suspend ") {
		suspend = true
		left = strings.TrimSpace(strings.TrimPrefix(left, "suspend "))
	}

	// Strip one layer of enclosing parens around the parameter list,
	// if present: "(A, B)" -> "A, B". A bare "A" (no parens) is a
	// single-parameter spelling.
	paramList := left
	if strings.HasPrefix(left, "(") && strings.HasSuffix(left, ")") && isMatchedParen(left) {
		paramList = strings.TrimSpace(left[1 : len(left)-1])
	}

	var params []*Ref
	if paramList != "" {
		for _, p := range splitTopLevelCommas(paramList) {
			p = strings.TrimSpace(p)
			if p != "" {
				params = append(params, parse(p, p))
			}
		}
	}

	return &Ref{
		Kind:    Function,
		Params:  params,
		Return:  parse(right, right),
		Suspend: suspend,
		Raw:     original,
	}
}

func isMatchedParen(s string) bool {
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return false
	}
	d := 0
	for i, r := range s {
		switch r {
		case '(':
			d++
		case ')':
			d--
		}
		if d == 0 && i != len(s)-1 {
			return false
		}
	}
	return d == 0
}

// splitGeneric recognizes "Name<args>" at top level, returning the
// args split on top-level commas. Empty argument lists are preserved
// (spec §4.1 edge case): "Foo<>" parses as Generic with zero args.
func splitGeneric(s string) (name string, args []string, ok bool) {
	open := strings.IndexByte(s, '<')
	if open < 0 || !strings.HasSuffix(s, ">") {
		return "", nil, false
	}
	name = s[:open]
	if name == "" || !isIdentifierLike(name) {
		return "", nil, false
	}
	inner := s[open+1 : len(s)-1]
	if strings.TrimSpace(inner) == "" {
		return name, nil, true
	}
	return name, splitTopLevelCommas(inner), true
}

func isIdentifierLike(s string) bool {
	for _, r := range s {
		if !(r == '.' || r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}

// splitTopLevelCommas splits s on commas that are not nested inside
// <>, (), or [] brackets.
func splitTopLevelCommas(s string) []string {
	var parts []string
	d := 0
	last := 0
	for i, r := range s {
		switch r {
		case '<', '(', '[':
			d++
		case '>', ')', ']':
			d--
		case ',':
			if d == 0 {
				parts = append(parts, s[last:i])
				last = i + 1
			}
		}
	}
	parts = append(parts, s[last:])
	return parts
}

// Render renders a Ref back to its canonical spelling. For a Simple
// Ref produced by the fallback path, Render reproduces the original
// text exactly (spec §8 property 4's restricted round-trip).
func Render(r *Ref) string {
	if r == nil {
		return ""
	}
	switch r.Kind {
	case Simple:
		if r.Name != "" {
			return r.Name
		}
		return r.Raw
	case Nullable:
		return Render(r.Inner) + "?"
	case Generic:
		if len(r.Args) == 0 {
			return r.Name + "<>"
		}
		args := make([]string, len(r.Args))
		for i, a := range r.Args {
			args[i] = Render(a)
		}
		return r.Name + "<" + strings.Join(args, ", ") + ">"
	case Function:
		var b strings.Builder
		if r.Suspend {
			b.WriteString("suspend ")
		}
		b.WriteByte('(')
		for i, p := range r.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(Render(p))
		}
		b.WriteString(") -> ")
		b.WriteString(Render(r.Return))
		return b.String()
	default:
		return r.Raw
	}
}

// BaseName returns the head identifier of a reference for strategy
// dispatch: the Simple name, the Generic name, or "" for Nullable
// (callers should look at Inner) and Function (callers should match
// Kind directly).
func (r *Ref) BaseName() string {
	switch r.Kind {
	case Simple, Generic:
		return r.Name
	default:
		return ""
	}
}

// IsNullable reports whether r is a Nullable node.
func (r *Ref) IsNullable() bool { return r != nil && r.Kind == Nullable }
