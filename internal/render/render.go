// Package render turns a codemodel tree into text: a single mutable
// character buffer threaded through the traversal, scoped indentation
// around every block, deterministic output (spec §4.4).
//
// The traversal shape generalizes internal/ast/print.go's recursive
// `simplify` descent in the teacher compiler: print.go walks an AST and
// builds a JSON tree node by node; Render walks a codemodel tree and
// writes indented source text node by node. Both are total, pure
// functions of their input — the determinism spec §8 property 1 asks
// for falls directly out of that shape (no maps iterated without
// sorting, no time/randomness anywhere in the traversal).
package render

import (
	"strings"

	"github.com/sunholo/fakegen/internal/codemodel"
)

const indentWidth = "    " // 4 spaces, fixed (spec §4.4).

// buffer is the single mutable character buffer threaded through the
// traversal, plus the current indent depth.
type buffer struct {
	b     strings.Builder
	depth int
}

func (buf *buffer) writeIndent() {
	for i := 0; i < buf.depth; i++ {
		buf.b.WriteString(indentWidth)
	}
}

func (buf *buffer) line(s string) {
	buf.writeIndent()
	buf.b.WriteString(s)
	buf.b.WriteByte('\n')
}

func (buf *buffer) raw(s string) {
	buf.b.WriteString(s)
}

// indented runs fn with the indent depth incremented, and restores it
// afterward — impossible to mis-nest, since the only way to change
// depth is through this scope.
func (buf *buffer) indented(fn func()) {
	buf.depth++
	fn()
	buf.depth--
}

// File renders a complete codemodel.File to text.
func File(f *codemodel.File) string {
	buf := &buffer{}

	if f.Header != "" {
		for _, line := range strings.Split(strings.TrimRight(f.Header, "\n"), "\n") {
			buf.line("// " + line)
		}
		buf.raw("\n")
	}

	buf.line("package " + f.Package)
	buf.raw("\n")

	if len(f.Imports) > 0 {
		for _, imp := range f.Imports { // already sorted by codemodel.FileBuilder
			buf.line("import " + imp)
		}
		buf.raw("\n")
	}

	for i, class := range f.Declarations {
		if i > 0 {
			buf.raw("\n")
		}
		renderClass(buf, class)
	}

	for i, fn := range f.TopLevelFunctions {
		if i > 0 || len(f.Declarations) > 0 {
			buf.raw("\n")
		}
		renderFunction(buf, fn)
	}

	return buf.b.String()
}

func renderClass(buf *buffer, c *codemodel.Class) {
	buf.writeIndent()
	buf.raw("class " + c.Name)
	if len(c.TypeParams) > 0 {
		buf.raw("<" + renderTypeParamList(c.TypeParams) + ">")
	}
	if len(c.ConstructorParams) > 0 {
		if c.ConstructorVisibility != codemodel.Default {
			buf.raw(" " + c.ConstructorVisibility.String() + " constructor")
		}
		buf.raw("(" + renderConstructorParams(c.ConstructorParams) + ")")
	}
	if c.SuperType != "" {
		buf.raw(" : " + c.SuperType)
		if c.ConstructorCallSuffix {
			buf.raw("()")
		}
	}
	if c.WhereClause != "" {
		buf.raw(" where " + c.WhereClause)
	}
	buf.raw(" {\n")

	buf.indented(func() {
		for i, m := range c.Members {
			if i > 0 {
				buf.raw("\n")
			}
			switch member := m.(type) {
			case *codemodel.Property:
				renderProperty(buf, member)
			case *codemodel.Function:
				renderFunction(buf, member)
			}
		}
	})

	buf.line("}")
}

// renderTypeParamList renders a type-parameter list for a class or
// function header. A type parameter with exactly one constraint
// inlines `Name : Bound`; multi-constraint parameters are left bare
// here (their constraints belong in a `where` clause instead, per
// spec §4.3).
func renderTypeParamList(params []*codemodel.TypeParameter) string {
	parts := make([]string, len(params))
	for i, p := range params {
		name := p.Name
		if p.Reified {
			name = "reified " + name
		}
		if len(p.Constraints) == 1 {
			parts[i] = name + " : " + p.Constraints[0]
		} else {
			parts[i] = name
		}
	}
	return strings.Join(parts, ", ")
}

func renderConstructorParams(params []*codemodel.ConstructorParam) string {
	parts := make([]string, len(params))
	for i, p := range params {
		prefix := ""
		if p.Visibility != codemodel.Default {
			prefix = p.Visibility.String() + " "
		}
		parts[i] = prefix + "val " + p.Name + ": " + p.Type
	}
	return strings.Join(parts, ", ")
}

func renderProperty(buf *buffer, p *codemodel.Property) {
	buf.writeIndent()
	writeModifierPrefix(buf, p.Visibility.String())
	if p.Override {
		buf.raw("override ")
	}
	if p.Mutable {
		buf.raw("var ")
	} else {
		buf.raw("val ")
	}
	buf.raw(p.Name + ": " + p.Type)
	if p.Initializer != nil {
		buf.raw(" = " + p.Initializer.String())
	}
	buf.raw("\n")

	if p.GetterBody != nil && !p.GetterBody.IsEmpty() {
		buf.indented(func() {
			buf.line("get() {")
			buf.indented(func() {
				for _, s := range p.GetterBody.Statements {
					buf.line(s)
				}
			})
			buf.line("}")
		})
	}
	if p.SetterBody != nil && !p.SetterBody.IsEmpty() {
		buf.indented(func() {
			buf.line("set(value) {")
			buf.indented(func() {
				for _, s := range p.SetterBody.Statements {
					buf.line(s)
				}
			})
			buf.line("}")
		})
	}
}

func renderFunction(buf *buffer, f *codemodel.Function) {
	buf.writeIndent()
	for _, m := range f.Modifiers {
		buf.raw(string(m) + " ")
	}
	if f.Inline {
		buf.raw("inline ")
	}
	if f.Suspend {
		buf.raw("suspend ")
	}
	buf.raw("fun ")
	if len(f.TypeParams) > 0 {
		buf.raw("<" + renderTypeParamList(f.TypeParams) + "> ")
	}
	if f.ExtensionReceiver != "" {
		buf.raw(f.ExtensionReceiver + ".")
	}
	buf.raw(f.Name + "(" + renderParams(f.Params) + "): " + f.ReturnType)

	if f.Body == nil || f.Body.IsEmpty() {
		buf.raw(" {}\n")
		return
	}
	buf.raw(" {\n")
	buf.indented(func() {
		for _, s := range f.Body.Statements {
			buf.line(s)
		}
	})
	buf.line("}")
}

func renderParams(params []*codemodel.Parameter) string {
	parts := make([]string, len(params))
	for i, p := range params {
		typ := p.Type
		if p.Vararg {
			typ = "vararg " + p.Name + ": " + typ
			parts[i] = typ
			if p.Default != nil {
				parts[i] += " = " + p.Default.String()
			}
			continue
		}
		part := p.Name + ": " + typ
		if p.Default != nil {
			part += " = " + p.Default.String()
		}
		parts[i] = part
	}
	return strings.Join(parts, ", ")
}

func writeModifierPrefix(buf *buffer, vis string) {
	if vis != "" {
		buf.raw(vis + " ")
	}
}
