// Package defaulting is the C2 default-value resolver: it maps a
// parsed type-reference tree to a default-value expression via a fixed
// list of prioritized strategies, the first whose predicate accepts
// the type wins.
//
// The shape — an ordered strategy table, a running trace of decisions,
// and a debug-gated log line per decision — generalizes the teacher's
// internal/types/defaulting.go numeric-defaulting pass: that pass
// defaults an ambiguous type variable to a class's registered default
// type and records a DefaultingTrace; this resolver defaults a type
// reference to a default-value expression and records an equivalent
// Trace, sorted the same way (by location, then subject) before being
// formatted for a human reader.
package defaulting

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sunholo/fakegen/internal/codemodel"
	"github.com/sunholo/fakegen/internal/typeref"
)

// Context carries the set of class-level type-parameter names in
// scope, which changes how Array<T> is defaulted (spec §4.2 rule 4).
type Context struct {
	ClassTypeParams map[string]bool
	// Location identifies the member/parameter being defaulted, used
	// only for trace output.
	Location string
}

func (c Context) isClassTypeParam(name string) bool {
	return c.ClassTypeParams != nil && c.ClassTypeParams[name]
}

// Trace records one resolver decision, mirroring the teacher's
// DefaultingTrace shape (type subject, chosen strategy, location).
type Trace struct {
	TypeSpelling string
	Strategy     string
	Location     string
}

// Resolver runs the prioritized strategy table and accumulates a trace
// of its decisions. The zero value is ready to use.
type Resolver struct {
	Debug  bool
	Writer io.Writer // destination for debug lines; defaults to io.Discard when nil

	traces []Trace
}

// strategy is one entry in the prioritized table: accept reports
// whether it applies to r, and if so resolve produces the expression.
type strategy struct {
	name   string
	accept func(r *typeref.Ref, ctx Context) bool
}

// Resolve maps r to a default-value expression, consulting strategies
// in the fixed order from spec §4.2. Resolve never fails: the
// fallback strategy always accepts, producing a runtime-failing
// expression rather than an error (spec §4.2's "why fail over
// auto-construct").
func (res *Resolver) Resolve(r *typeref.Ref, ctx Context) codemodel.Expr {
	for _, s := range strategyTable {
		if s.accept(r, ctx) {
			expr := s.resolve(res, r, ctx)
			res.record(r, s.name, ctx.Location)
			return expr
		}
	}
	// Unreachable: the fallback strategy's accept always returns true.
	return fallbackExpr(r)
}

func (res *Resolver) record(r *typeref.Ref, strategyName, location string) {
	t := Trace{TypeSpelling: typeref.Render(r), Strategy: strategyName, Location: location}
	res.traces = append(res.traces, t)
	if res.Debug {
		w := res.Writer
		if w == nil {
			w = io.Discard
		}
		fmt.Fprintf(w, "[default] %s -> %s at %s\n", t.TypeSpelling, t.Strategy, t.Location)
	}
}

// Traces returns the accumulated decisions.
func (res *Resolver) Traces() []Trace {
	return res.traces
}

// FormatTraces renders the accumulated decisions as a deterministic,
// human-readable summary, sorted by location then type spelling —
// the same two-key sort the teacher's FormatDefaultingTraces uses.
func FormatTraces(traces []Trace) string {
	if len(traces) == 0 {
		return ""
	}
	sorted := make([]Trace, len(traces))
	copy(sorted, traces)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Location != sorted[j].Location {
			return sorted[i].Location < sorted[j].Location
		}
		return sorted[i].TypeSpelling < sorted[j].TypeSpelling
	})

	lines := []string{"Default values applied:"}
	for _, t := range sorted {
		lines = append(lines, fmt.Sprintf("  • %s: %s defaulted via %s", t.Location, t.TypeSpelling, t.Strategy))
	}
	return strings.Join(lines, "\n")
}

type resolvedStrategy struct {
	strategy
	resolve func(res *Resolver, r *typeref.Ref, ctx Context) codemodel.Expr
}

// strategyTable is the fixed, ordered list from spec §4.2: the first
// entry whose accept predicate matches wins.
var strategyTable = []resolvedStrategy{
	{strategy{"nullable", func(r *typeref.Ref, _ Context) bool { return r.IsNullable() }},
		func(_ *Resolver, _ *typeref.Ref, _ Context) codemodel.Expr { return codemodel.Raw{Text: "null"} },
	},
	{strategy{"primitive", isPrimitive}, resolvePrimitive},
	{strategy{"stdlib", isStdlib}, resolveStdlib},
	{strategy{"collection", isCollection}, resolveCollection},
	{strategy{"fallback", func(*typeref.Ref, Context) bool { return true }},
		func(_ *Resolver, r *typeref.Ref, _ Context) codemodel.Expr { return fallbackExpr(r) },
	},
}

func isPrimitive(r *typeref.Ref, _ Context) bool {
	switch r.BaseName() {
	case "Int", "Long", "Short", "Byte", "Float", "Double", "Boolean", "Char", "String":
		return r.Kind == typeref.Simple
	}
	return false
}

func resolvePrimitive(_ *Resolver, r *typeref.Ref, _ Context) codemodel.Expr {
	switch r.Name {
	case "Int", "Long", "Short", "Byte":
		return codemodel.NumberLiteral{Text: "0"}
	case "Float":
		return codemodel.NumberLiteral{Text: "0.0f"}
	case "Double":
		return codemodel.NumberLiteral{Text: "0.0"}
	case "Boolean":
		return codemodel.Raw{Text: "false"}
	case "Char":
		return codemodel.Raw{Text: "'\\u0000'"}
	case "String":
		return codemodel.StringLiteral{Text: ""}
	}
	return fallbackExpr(r)
}

func isStdlib(r *typeref.Ref, _ Context) bool {
	switch r.BaseName() {
	case "Unit", "Flow", "StateFlow", "MutableStateFlow", "Result":
		return true
	}
	return false
}

func resolveStdlib(res *Resolver, r *typeref.Ref, ctx Context) codemodel.Expr {
	switch r.BaseName() {
	case "Unit":
		return codemodel.Raw{Text: "Unit"}
	case "Flow":
		return codemodel.FunctionCall{Callee: "emptyFlow"}
	case "StateFlow", "MutableStateFlow":
		inner := innerArg(res, r, ctx)
		return codemodel.FunctionCall{Callee: "MutableStateFlow", Args: []codemodel.Expr{inner}}
	case "Result":
		inner := innerArg(res, r, ctx)
		return codemodel.FunctionCall{Callee: "Result.success", Args: []codemodel.Expr{inner}}
	}
	return fallbackExpr(r)
}

// innerArg recursively resolves a generic type's sole argument,
// defaulting to Unit's expression when the argument list is empty
// (malformed input degrades gracefully rather than panicking).
func innerArg(res *Resolver, r *typeref.Ref, ctx Context) codemodel.Expr {
	if len(r.Args) == 0 {
		return codemodel.Raw{Text: "Unit"}
	}
	return res.Resolve(r.Args[0], ctx)
}

func isCollection(r *typeref.Ref, _ Context) bool {
	switch r.BaseName() {
	case "Collection", "List", "Set", "Map", "Array", "MutableList", "MutableSet", "MutableMap":
		return true
	}
	return false
}

func resolveCollection(_ *Resolver, r *typeref.Ref, ctx Context) codemodel.Expr {
	switch r.BaseName() {
	case "Collection", "List":
		return codemodel.FunctionCall{Callee: "emptyList"}
	case "Set":
		return codemodel.FunctionCall{Callee: "emptySet"}
	case "Map":
		return codemodel.FunctionCall{Callee: "emptyMap"}
	case "MutableList":
		return codemodel.FunctionCall{Callee: "mutableListOf"}
	case "MutableSet":
		return codemodel.FunctionCall{Callee: "mutableSetOf"}
	case "MutableMap":
		return codemodel.FunctionCall{Callee: "mutableMapOf"}
	case "Array":
		if len(r.Args) == 1 && r.Args[0].Kind == typeref.Simple && ctx.isClassTypeParam(r.Args[0].Name) {
			typeName := r.Args[0].Name
			return codemodel.Raw{Text: "@Suppress(\"UNCHECKED_CAST\") (emptyArray<Any>() as Array<" + typeName + ">)"}
		}
		return codemodel.FunctionCall{Callee: "emptyArray"}
	}
	return fallbackExpr(r)
}

// fallbackExpr produces the deliberate runtime-failure expression for
// a user-defined type with no registered default (spec §4.2's
// "why fail over auto-construct"): auto-constructing would hide a
// missing test setup, so the emitted code fails loudly instead,
// pointing at the generated configure method.
func fallbackExpr(r *typeref.Ref) codemodel.Expr {
	spelling := typeref.Render(r)
	msg := "No default value available for '" + spelling + "'. Configure this member's behavior via the generated DSL."
	return codemodel.FunctionCall{Callee: "error", Args: []codemodel.Expr{codemodel.StringLiteral{Text: msg}}}
}
