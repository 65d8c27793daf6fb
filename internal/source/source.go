// Package source models the structural facts Phase F consumes about a
// host-supplied declaration. It stands in for the real compiler's
// AST/IR: the host is out of scope (spec §1), so this package only
// defines the narrow accessor shape Phase F needs, never a frontend.
package source

// Pos is a single point in a source file.
type Pos struct {
	File   string
	Line   int
	Column int
}

// Span is a range in a source file, used for diagnostics.
type Span struct {
	Start Pos
	End   Pos
}

// Kind identifies the shape of a declaration as the host reports it.
type Kind int

const (
	KindInterface Kind = iota
	KindAbstractClass
	KindSAMInterface // single-abstract-method interface
	KindSealed
	KindLocal
	KindObject
	KindAnnotationClass
	KindConcreteClass
)

func (k Kind) String() string {
	switch k {
	case KindInterface:
		return "interface"
	case KindAbstractClass:
		return "abstract class"
	case KindSAMInterface:
		return "fun interface"
	case KindSealed:
		return "sealed"
	case KindLocal:
		return "local"
	case KindObject:
		return "object"
	case KindAnnotationClass:
		return "annotation class"
	case KindConcreteClass:
		return "concrete class"
	default:
		return "unknown"
	}
}

// Variance is a type parameter's declared-site variance.
type Variance int

const (
	Invariant Variance = iota
	Covariant
	Contravariant
)

func (v Variance) String() string {
	switch v {
	case Covariant:
		return "out"
	case Contravariant:
		return "in"
	default:
		return ""
	}
}

// TypeParam is a raw type-parameter fact as reported by the host.
type TypeParam struct {
	Name     string
	Bounds   []string // raw upper-bound spellings, declaration order
	Variance Variance
}

// Param is a raw function parameter fact.
type Param struct {
	Name         string
	TypeSpelling string
	HasDefault   bool
	Vararg       bool
}

// Function is a raw function/method fact.
type Function struct {
	Name              string
	Params            []Param
	ReturnType        string
	Suspend           bool
	Inline            bool
	TypeParams        []TypeParam
	Operator          string // e.g. "plus"; empty if not an operator
	ExtensionReceiver string // raw receiver type spelling; empty if not an extension
	Abstract          bool   // for class members: abstract (no body) vs open (has body)
}

// Property is a raw property fact.
type Property struct {
	Name         string
	TypeSpelling string
	Mutable      bool
	Nullable     bool
	Abstract     bool // for class members: abstract vs open
}

// RawDecl is the unvalidated declaration fact Phase F receives from the
// host for a single `@Fake`-annotated declaration, plus whatever the
// host reports about its direct supertypes (by raw spelling only —
// resolution of those spellings into further RawDecls is the
// Resolver's job, modeling the host's own symbol table).
type RawDecl struct {
	Name       string
	Package    string
	Kind       Kind
	TypeParams []TypeParam
	Properties []Property
	Functions  []Function
	Supertypes []string // raw spellings of direct supertypes, declaration order
	Span       Span
}

// FQName is the fully-qualified identity used as a cache/storage key.
func (d *RawDecl) FQName() string {
	if d.Package == "" {
		return d.Name
	}
	return d.Package + "." + d.Name
}

// Resolver resolves a raw supertype spelling to the declaration it
// names. It models the host's own symbol resolution; the core never
// parses or loads source itself. A false second return means the
// supertype could not be resolved and Phase F should skip it with a
// warning rather than fail the whole declaration (spec §4.6 rule 6).
type Resolver interface {
	Resolve(spelling string) (*RawDecl, bool)
}
