package codemodel

import "strings"

// Expr is a code-model expression node. The variants are intentionally
// narrow (spec §3.3): the generator never needs to represent arbitrary
// target-language expressions, only the handful of shapes the
// default-value resolver and the fake-synthesis recipes produce.
type Expr interface {
	exprNode()
	// String renders the expression's textual form. Expressions are
	// leaves with no indentation state, so unlike Class/Function they
	// render themselves directly rather than through internal/render.
	String() string
}

// Raw is verbatim text, used when no other variant fits (operators,
// casts, fallback failure calls).
type Raw struct{ Text string }

func (Raw) exprNode()      {}
func (r Raw) String() string { return r.Text }

// FunctionCall is `callee(arg1, arg2, ...)`.
type FunctionCall struct {
	Callee string
	Args   []Expr
}

func (FunctionCall) exprNode() {}
func (f FunctionCall) String() string {
	parts := make([]string, len(f.Args))
	for i, a := range f.Args {
		parts[i] = a.String()
	}
	return f.Callee + "(" + strings.Join(parts, ", ") + ")"
}

// NumberLiteral is a numeric literal rendered verbatim (e.g. "0", "0.0f").
type NumberLiteral struct{ Text string }

func (NumberLiteral) exprNode()      {}
func (n NumberLiteral) String() string { return n.Text }

// StringLiteral is a quoted string literal; Text is the unquoted value.
type StringLiteral struct{ Text string }

func (StringLiteral) exprNode() {}
func (s StringLiteral) String() string {
	return "\"" + escapeKotlinString(s.Text) + "\""
}

func escapeKotlinString(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
