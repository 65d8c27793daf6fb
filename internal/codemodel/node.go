// Package codemodel is the immutable, typed code-model tree that sits
// between Phase T and the renderer (spec §3.3, §4.3): File, Class,
// Property, Function, Parameter, TypeParameter, Expr and Block. All
// nodes are built through mutable builders; a finalized node is
// immutable and safe to share across goroutines.
//
// The shape is a generalization of the teacher's internal/ast node
// family (immutable structs carrying their own printable form) crossed
// with internal/iface.Builder's builder/finalizer pattern: a builder
// struct accumulates partial state, and Build() validates required
// fields before handing back the immutable node.
//
// Builders are not interchangeable by accident: ClassBuilder,
// FunctionBuilder and PropertyBuilder are distinct Go types, so passing
// one where another is expected is a compile error — the same guarantee
// spec §4.3 asks of a `@DslMarker`-style scope attribute, expressed
// through Go's static typing instead of an annotation.
package codemodel

// Visibility is a member's declared visibility.
type Visibility int

const (
	Default Visibility = iota
	Private
	Internal
)

func (v Visibility) String() string {
	switch v {
	case Private:
		return "private"
	case Internal:
		return "internal"
	default:
		return ""
	}
}

// Modifier is a function modifier keyword.
type Modifier string

const (
	ModOverride Modifier = "override"
	ModInternal Modifier = "internal"
	ModOperator Modifier = "operator"
)

// Block is a function or getter/setter body: either Empty, or an
// ordered list of statement strings.
type Block struct {
	Statements []string
}

// EmptyBlock is a Block with no statements.
func EmptyBlock() *Block { return &Block{} }

// IsEmpty reports whether the block has no statements.
func (b *Block) IsEmpty() bool { return b == nil || len(b.Statements) == 0 }

// TypeParameter is an immutable type-parameter node.
type TypeParameter struct {
	Name        string
	Constraints []string // ordered upper-bound spellings
	Reified     bool
}

// Parameter is an immutable function parameter node.
type Parameter struct {
	Name    string
	Type    string
	Default Expr // nil if none
	Vararg  bool
}

// Member is implemented by *Property and *Function: the two node kinds
// that can appear in a Class's ordered member list.
type Member interface {
	isMember()
}

// Property is an immutable property node.
type Property struct {
	Name        string
	Type        string
	Visibility  Visibility
	Override    bool
	Mutable     bool
	Initializer Expr  // nil if none
	GetterBody  *Block // nil if using the default getter
	SetterBody  *Block // nil if using the default setter (or immutable)
}

func (*Property) isMember() {}

// Function is an immutable function node.
type Function struct {
	Name              string
	Params            []*Parameter
	TypeParams        []*TypeParameter
	ReturnType        string
	Body              *Block
	Modifiers         []Modifier
	Suspend           bool
	Inline            bool
	ExtensionReceiver string // empty if not an extension function
}

func (*Function) isMember() {}

// HasModifier reports whether m is present on f.
func (f *Function) HasModifier(m Modifier) bool {
	for _, existing := range f.Modifiers {
		if existing == m {
			return true
		}
	}
	return false
}

// ConstructorParam is an immutable primary-constructor parameter node:
// always a `val` property promoted into the constructor's parameter
// list, e.g. `internal val target: FakeGreeterImpl`.
type ConstructorParam struct {
	Name       string
	Type       string
	Visibility Visibility
}

// Class is an immutable class/interface-implementation node. A Class
// always represents exactly one emitted declaration; File.Declarations
// holds the ordered list when more than one is emitted per file (the
// generator currently only ever emits one, per spec §6's one-file-per-
// declaration rule, but the tree permits more for future batching).
type Class struct {
	Name       string
	TypeParams []*TypeParameter

	// ConstructorVisibility and ConstructorParams describe the primary
	// constructor. ConstructorParams empty means an implicit no-arg
	// constructor; ConstructorVisibility is only rendered (as `internal
	// constructor(...)`) when there is at least one param and the
	// visibility is non-Default, matching Kotlin's rule that the
	// `constructor` keyword is only required when it carries a
	// visibility modifier.
	ConstructorVisibility Visibility
	ConstructorParams     []*ConstructorParam

	SuperType             string // empty if none
	ConstructorCallSuffix bool   // true: `: Base()`; false: `: Iface`
	WhereClause           string
	Members               []Member
}

// File is the root immutable node: a package, its sorted import set,
// an optional header comment, and its ordered declarations.
//
// TopLevelFunctions holds file-scope functions — the generated factory
// function from spec §6's factory-surface table (`fun fakeX(...): X`)
// is never a class member, so it lives here rather than on a Class.
type File struct {
	Package           string
	Imports           []string // sorted, deduplicated
	Header            string
	Declarations      []*Class
	TopLevelFunctions []*Function
}
