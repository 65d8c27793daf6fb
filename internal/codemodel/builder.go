package codemodel

import (
	"github.com/sunholo/fakegen/internal/errors"
)

// invariant wraps a builder-finalization failure as a FAS001 Report,
// the "impossible under validated input" bug class from spec §7.
func invariant(what string) error {
	return errors.Wrap(errors.New(errors.FAS001, "synth", "builder finalized without a required field: "+what))
}

// FileBuilder accumulates a File's fields before Build().
type FileBuilder struct {
	pkg       string
	header    string
	imports   map[string]struct{}
	decls     []*ClassBuilder
	topLevels []*FunctionBuilder
}

// NewFile starts a File builder for the given package.
func NewFile(pkg string) *FileBuilder {
	return &FileBuilder{pkg: pkg, imports: map[string]struct{}{}}
}

// Header sets the optional file header comment.
func (b *FileBuilder) Header(text string) *FileBuilder {
	b.header = text
	return b
}

// Import adds one or more imports to the file's import set.
func (b *FileBuilder) Import(names ...string) *FileBuilder {
	for _, n := range names {
		if n != "" {
			b.imports[n] = struct{}{}
		}
	}
	return b
}

// Class appends a class built by configure to the file's declarations.
// configure receives a fresh *ClassBuilder; its finalized *Class is
// appended if Build succeeds. Errors from configure's inner Build are
// propagated from the outer FileBuilder.Build.
func (b *FileBuilder) Class(name string, configure func(*ClassBuilder)) *FileBuilder {
	cb := NewClass(name)
	configure(cb)
	b.decls = append(b.decls, cb)
	return b
}

// ClassFromBuilder appends an already-constructed ClassBuilder's result.
func (b *FileBuilder) ClassFromBuilder(cb *ClassBuilder) *FileBuilder {
	b.decls = append(b.decls, cb)
	return b
}

// TopLevelFunction appends a file-scope function built by configure,
// used for the generated factory function (spec §6) which is never a
// class member.
func (b *FileBuilder) TopLevelFunction(name string, configure func(*FunctionBuilder)) *FileBuilder {
	fb := NewFunction(name)
	if configure != nil {
		configure(fb)
	}
	b.topLevels = append(b.topLevels, fb)
	return b
}

func (b *FileBuilder) Build() (*File, error) {
	if b.pkg == "" {
		return nil, invariant("File.Package")
	}
	imports := make([]string, 0, len(b.imports))
	for n := range b.imports {
		imports = append(imports, n)
	}
	sortStrings(imports)

	decls := make([]*Class, 0, len(b.decls))
	for _, cb := range b.decls {
		c, err := cb.Build()
		if err != nil {
			return nil, err
		}
		decls = append(decls, c)
	}

	topLevels := make([]*Function, 0, len(b.topLevels))
	for _, fb := range b.topLevels {
		fn, err := fb.Build()
		if err != nil {
			return nil, err
		}
		topLevels = append(topLevels, fn)
	}

	return &File{Package: b.pkg, Imports: imports, Header: b.header, Declarations: decls, TopLevelFunctions: topLevels}, nil
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// ClassBuilder accumulates a Class's fields. It is itself *Class so
// that FileBuilder.Class can append pending builders directly and
// finalize them lazily — Build() just validates and returns the
// already-populated struct, matching the teacher's iface.Builder shape
// where the builder and the product share most of their fields.
type ClassBuilder Class

// NewClass starts a Class builder.
func NewClass(name string) *ClassBuilder {
	return &ClassBuilder{Name: name}
}

func (b *ClassBuilder) TypeParam(name string, bounds ...string) *ClassBuilder {
	b.TypeParams = append(b.TypeParams, &TypeParameter{Name: name, Constraints: bounds})
	return b
}

func (b *ClassBuilder) Where(clause string) *ClassBuilder {
	b.WhereClause = clause
	return b
}

// Implements sets the class's single supertype spelling.
// constructorCall distinguishes `: Base()` (class inheritance) from
// `: Iface` (interface implementation), per spec §3.3.
func (b *ClassBuilder) Implements(superType string, constructorCall bool) *ClassBuilder {
	b.SuperType = superType
	b.ConstructorCallSuffix = constructorCall
	return b
}

// Constructor appends a primary-constructor parameter promoted to a
// `val` property, e.g. Constructor("target", "FakeGreeterImpl",
// Internal) renders as `internal val target: FakeGreeterImpl` inside
// an `internal constructor(...)` parameter list. vis applies to both
// the parameter's own `val` and, when non-Default, the constructor
// keyword itself.
func (b *ClassBuilder) Constructor(name, typ string, vis Visibility) *ClassBuilder {
	b.ConstructorParams = append(b.ConstructorParams, &ConstructorParam{Name: name, Type: typ, Visibility: vis})
	if vis != Default {
		b.ConstructorVisibility = vis
	}
	return b
}

func (b *ClassBuilder) Property(name, typ string, configure func(*PropertyBuilder)) *ClassBuilder {
	pb := NewProperty(name, typ)
	if configure != nil {
		configure(pb)
	}
	b.Members = append(b.Members, (*Property)(pb))
	return b
}

func (b *ClassBuilder) Function(name string, configure func(*FunctionBuilder)) *ClassBuilder {
	fb := NewFunction(name)
	if configure != nil {
		configure(fb)
	}
	b.Members = append(b.Members, (*Function)(fb))
	return b
}

// AppendMember appends an already-built member directly, used by
// recipes in internal/synth that build members out-of-line to control
// ordering (spec §4.4's fixed member layout).
func (b *ClassBuilder) AppendMember(m Member) *ClassBuilder {
	b.Members = append(b.Members, m)
	return b
}

func (b *ClassBuilder) Build() (*Class, error) {
	if b.Name == "" {
		return nil, invariant("Class.Name")
	}
	if b.ConstructorCallSuffix && b.SuperType == "" {
		return nil, invariant("Class.SuperType required when ConstructorCallSuffix is set")
	}
	c := Class(*b)
	return &c, nil
}

// PropertyBuilder accumulates a Property's fields.
type PropertyBuilder Property

func NewProperty(name, typ string) *PropertyBuilder {
	return &PropertyBuilder{Name: name, Type: typ}
}

func (b *PropertyBuilder) Vis(v Visibility) *PropertyBuilder {
	b.Visibility = v
	return b
}

func (b *PropertyBuilder) Override() *PropertyBuilder {
	b.Override = true
	return b
}

func (b *PropertyBuilder) Mutable() *PropertyBuilder {
	b.Mutable = true
	return b
}

func (b *PropertyBuilder) Initializer(e Expr) *PropertyBuilder {
	b.Initializer = e
	return b
}

func (b *PropertyBuilder) Getter(statements ...string) *PropertyBuilder {
	b.GetterBody = &Block{Statements: statements}
	return b
}

func (b *PropertyBuilder) Setter(statements ...string) *PropertyBuilder {
	b.SetterBody = &Block{Statements: statements}
	return b
}

func (b *PropertyBuilder) Build() (*Property, error) {
	if b.Name == "" {
		return nil, invariant("Property.Name")
	}
	if b.Type == "" {
		return nil, invariant("Property.Type")
	}
	p := Property(*b)
	return &p, nil
}

// FunctionBuilder accumulates a Function's fields.
type FunctionBuilder Function

func NewFunction(name string) *FunctionBuilder {
	return &FunctionBuilder{Name: name, Body: EmptyBlock()}
}

func (b *FunctionBuilder) Parameter(name, typ string) *FunctionBuilder {
	b.Params = append(b.Params, &Parameter{Name: name, Type: typ})
	return b
}

func (b *FunctionBuilder) ParameterWithDefault(name, typ string, def Expr) *FunctionBuilder {
	b.Params = append(b.Params, &Parameter{Name: name, Type: typ, Default: def})
	return b
}

func (b *FunctionBuilder) VarargParameter(name, typ string) *FunctionBuilder {
	b.Params = append(b.Params, &Parameter{Name: name, Type: typ, Vararg: true})
	return b
}

func (b *FunctionBuilder) Returns(typ string) *FunctionBuilder {
	b.ReturnType = typ
	return b
}

func (b *FunctionBuilder) TypeParam(name string, constraints ...string) *FunctionBuilder {
	b.TypeParams = append(b.TypeParams, &TypeParameter{Name: name, Constraints: constraints})
	return b
}

// ReifiedTypeParam appends a `reified` type parameter, used by the
// generated factory function for class-level type parameters (spec
// §6): `inline fun <reified T> fakeX(...)`.
func (b *FunctionBuilder) ReifiedTypeParam(name string, constraints ...string) *FunctionBuilder {
	b.TypeParams = append(b.TypeParams, &TypeParameter{Name: name, Constraints: constraints, Reified: true})
	return b
}

func (b *FunctionBuilder) Override() *FunctionBuilder {
	b.Modifiers = append(b.Modifiers, ModOverride)
	return b
}

func (b *FunctionBuilder) InternalVisibility() *FunctionBuilder {
	b.Modifiers = append(b.Modifiers, ModInternal)
	return b
}

func (b *FunctionBuilder) Operator() *FunctionBuilder {
	b.Modifiers = append(b.Modifiers, ModOperator)
	return b
}

func (b *FunctionBuilder) Suspend() *FunctionBuilder {
	b.Suspend = true
	return b
}

func (b *FunctionBuilder) Inline() *FunctionBuilder {
	b.Inline = true
	return b
}

func (b *FunctionBuilder) ExtensionReceiver(typ string) *FunctionBuilder {
	b.ExtensionReceiver = typ
	return b
}

func (b *FunctionBuilder) Body(statements ...string) *FunctionBuilder {
	b.Body = &Block{Statements: statements}
	return b
}

func (b *FunctionBuilder) Build() (*Function, error) {
	if b.Name == "" {
		return nil, invariant("Function.Name")
	}
	if b.ReturnType == "" {
		return nil, invariant("Function.ReturnType")
	}
	f := Function(*b)
	return &f, nil
}
