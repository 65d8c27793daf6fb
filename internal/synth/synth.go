// Package synth is the C5 fake-synthesis recipe layer: the central
// "complete fake" recipe composes internal/codemodel and
// internal/defaulting over a transform.CodeGenInputs to produce the
// File a validated declaration renders into.
//
// The per-member four-piece pattern (call-count holder, behavior
// holder, override, configure method) generalizes
// internal/elaborate/dictionaries.go's DictElaborator: that pass
// synthesizes dictionary-passing boilerplate from a type-class's
// method set one method at a time, accumulating a parallel output
// list; this recipe synthesizes the four boilerplate pieces from a
// declaration's member set one member at a time, accumulating into
// the class's four ordered member buckets (spec §4.4's fixed layout).
package synth

import (
	"strings"
	"unicode"

	"github.com/sunholo/fakegen/internal/codemodel"
	"github.com/sunholo/fakegen/internal/defaulting"
	"github.com/sunholo/fakegen/internal/transform"
	"github.com/sunholo/fakegen/internal/typeref"
)

// Recipe synthesizes a complete fake File from CodeGenInputs (spec
// §4.5's "complete fake" recipe).
type Recipe struct {
	Inputs   *transform.CodeGenInputs
	Resolver *defaulting.Resolver
}

// buckets holds the class's members in the four spec §4.4 categories
// before they are concatenated in fixed order.
type buckets struct {
	counts     []codemodel.Member
	behaviors  []codemodel.Member
	overrides  []codemodel.Member
	configures []codemodel.Member
}

func (b *buckets) members() []codemodel.Member {
	out := make([]codemodel.Member, 0, len(b.counts)+len(b.behaviors)+len(b.overrides)+len(b.configures))
	out = append(out, b.counts...)
	out = append(out, b.behaviors...)
	out = append(out, b.overrides...)
	out = append(out, b.configures...)
	return out
}

// BuildFile synthesizes the complete fake file: the `Fake<Name>Impl`
// class, the `Fake<Name>Config` configuration class, and the
// top-level `fake<Name>` factory function (spec §6).
func (r *Recipe) BuildFile() (*codemodel.File, error) {
	in := r.Inputs
	implName := "Fake" + in.TargetName + "Impl"

	fb := codemodel.NewFile(in.Package)
	for _, imp := range in.Imports {
		fb.Import(imp)
	}

	var b buckets
	classTypeParams := map[string]bool{}
	for _, tp := range in.TypeParams {
		classTypeParams[tp.Name] = true
	}

	for _, p := range in.Properties {
		r.addProperty(&b, p, classTypeParams)
	}
	for _, f := range in.Functions {
		r.addFunction(&b, f, classTypeParams)
	}

	fb.Class(implName, func(c *codemodel.ClassBuilder) {
		for _, tp := range in.TypeParams {
			c.TypeParam(tp.Name, tp.Bounds...)
		}
		c.Implements(in.TargetName, in.IsClass)
		for _, m := range b.members() {
			c.AppendMember(m)
		}
	})

	r.buildConfigClass(fb)
	r.buildFactoryFunction(fb)

	return fb.Build()
}

// --- naming -----------------------------------------------------------

func pascalCase(name string) string {
	if name == "" {
		return name
	}
	r := []rune(name)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func countBackingName(member string) string  { return "_" + member + "CallCount" }
func countViewName(member string) string      { return member + "CallCount" }
func behaviorName(member string) string       { return member + "Behavior" }
func getterBehaviorName(member string) string { return member + "GetterBehavior" }
func setterBehaviorName(member string) string { return member + "SetterBehavior" }
func configureFuncName(member string) string  { return "configure" + pascalCase(member) }
func configureGetterName(member string) string {
	return "configureGetter" + pascalCase(member)
}
func configureSetterName(member string) string {
	return "configureSetter" + pascalCase(member)
}

// --- call-count holders -------------------------------------------------

// addCountHolder appends the private MutableStateFlow backing cell and
// its public StateFlow view to counts (spec §4.5 piece 1).
func addCountHolder(b *buckets, member string) {
	backing := countBackingName(member)
	b.counts = append(b.counts, mustProperty(
		codemodel.NewProperty(backing, "MutableStateFlow<Int>").
			Vis(codemodel.Private).
			Initializer(codemodel.FunctionCall{Callee: "MutableStateFlow", Args: []codemodel.Expr{codemodel.NumberLiteral{Text: "0"}}}),
	))
	b.counts = append(b.counts, mustProperty(
		codemodel.NewProperty(countViewName(member), "StateFlow<Int>").
			Getter("return " + backing),
	))
}

func mustProperty(pb *codemodel.PropertyBuilder) *codemodel.Property {
	p, err := pb.Build()
	if err != nil {
		// Unreachable for recipe-constructed properties: name and type
		// are always supplied above.
		panic(err)
	}
	return p
}

func mustFunction(fb *codemodel.FunctionBuilder) *codemodel.Function {
	f, err := fb.Build()
	if err != nil {
		panic(err)
	}
	return f
}

// --- function members ---------------------------------------------------

func (r *Recipe) addFunction(b *buckets, f transform.FunctionSpec, classTypeParams map[string]bool) {
	addCountHolder(b, f.Name)

	isOpen := r.Inputs.IsClass && !f.Abstract
	erasedFuncType := funcTypeString(erasedParamTypes(f), typeref.Render(f.ErasedReturnType), f.Suspend, f.Params)

	if isOpen {
		b.behaviors = append(b.behaviors, mustProperty(
			codemodel.NewProperty(behaviorName(f.Name), "("+erasedFuncType+")?").
				Mutable().
				Initializer(codemodel.Raw{Text: "null"}),
		))
	} else {
		def := r.nonNullableFunctionDefault(f, classTypeParams)
		b.behaviors = append(b.behaviors, mustProperty(
			codemodel.NewProperty(behaviorName(f.Name), erasedFuncType).
				Mutable().
				Initializer(def),
		))
	}

	b.overrides = append(b.overrides, mustFunction(buildOverrideFunction(f, isOpen)))
	b.configures = append(b.configures, mustFunction(buildConfigureFunction(f)))
}

// erasedParamTypes renders each parameter's erased type spelling,
// substituting `Array<out T>` for a vararg parameter (spec §4.5).
func erasedParamTypes(f transform.FunctionSpec) []string {
	out := make([]string, len(f.Params))
	for i, p := range f.Params {
		if p.Vararg {
			out[i] = "Array<out " + typeref.Render(p.ErasedType) + ">"
			continue
		}
		out[i] = typeref.Render(p.ErasedType)
	}
	return out
}

func unerasedParamTypes(f transform.FunctionSpec) []string {
	out := make([]string, len(f.Params))
	for i, p := range f.Params {
		if p.Vararg {
			out[i] = "Array<out " + typeref.Render(p.TypeRef) + ">"
			continue
		}
		out[i] = typeref.Render(p.TypeRef)
	}
	return out
}

func funcTypeString(paramTypes []string, ret string, suspend bool, _ []transform.ParamSpec) string {
	var b strings.Builder
	if suspend {
		b.WriteString("suspend ")
	}
	b.WriteByte('(')
	b.WriteString(strings.Join(paramTypes, ", "))
	b.WriteString(") -> ")
	b.WriteString(ret)
	return b.String()
}

// nonNullableFunctionDefault picks the default behavior-holder
// initializer for an interface member or an abstract class member,
// per spec §4.5's priority list.
func (r *Recipe) nonNullableFunctionDefault(f transform.FunctionSpec, classTypeParams map[string]bool) codemodel.Expr {
	if r.Inputs.IsClass && f.Abstract {
		return abstractMustConfigureError(f.Name, r.Inputs.TargetName)
	}
	if invocationParam, ok := functionInvocationPattern(f); ok {
		return codemodel.Raw{Text: "{ " + invocationParam + " -> " + invocationParam + "() }"}
	}
	if identityPattern(f) {
		return codemodel.Raw{Text: "{ it }"}
	}
	ref := f.ReturnType
	if r.Resolver == nil {
		r.Resolver = &defaulting.Resolver{}
	}
	ctx := defaulting.Context{ClassTypeParams: classTypeParams, Location: r.Inputs.TargetName + "." + f.Name}
	value := r.Resolver.Resolve(ref, ctx)
	return codemodel.Raw{Text: "{ " + value.String() + " }"}
}

// functionInvocationPattern matches spec §4.5 rule 2: exactly one
// parameter, that parameter a zero-argument function type, whose
// return type equals the member's own return type.
func functionInvocationPattern(f transform.FunctionSpec) (paramName string, ok bool) {
	if f.ExtensionReceiver != "" || len(f.Params) != 1 {
		return "", false
	}
	p := f.Params[0].TypeRef
	if p.Kind != typeref.Function || len(p.Params) != 0 {
		return "", false
	}
	if typeref.Render(p.Return) != typeref.Render(f.ReturnType) {
		return "", false
	}
	name := f.Params[0].Name
	if name == "" {
		name = "p0"
	}
	return name, true
}

// identityPattern matches spec §4.5 rule 3: exactly one non-receiver
// parameter whose type equals the return type (ignoring nullability),
// excluding extension-receiver functions since those carry a second
// implicit parameter.
func identityPattern(f transform.FunctionSpec) bool {
	if f.ExtensionReceiver != "" || len(f.Params) != 1 {
		return false
	}
	return baseSpelling(f.Params[0].TypeRef) == baseSpelling(f.ReturnType)
}

func baseSpelling(r *typeref.Ref) string {
	if r != nil && r.Kind == typeref.Nullable {
		r = r.Inner
	}
	return typeref.Render(r)
}

func abstractMustConfigureError(member, target string) codemodel.Expr {
	msg := "Abstract method '" + member + "' in '" + target + "' must be configured"
	return codemodel.Raw{Text: "{ error(\"" + msg + "\") }"}
}

func buildOverrideFunction(f transform.FunctionSpec, isOpen bool) *codemodel.FunctionBuilder {
	fb := codemodel.NewFunction(f.Name)
	fb.Override()
	if f.Suspend {
		fb.Suspend()
	}
	if f.Inline {
		fb.Inline()
	}
	if f.Operator != "" {
		fb.Operator()
	}
	for _, tp := range f.TypeParams {
		fb.TypeParam(tp.Name, tp.Bounds...)
	}
	if f.ExtensionReceiver != "" {
		fb.ExtensionReceiver(f.ExtensionReceiver)
	}

	paramTypes := unerasedParamTypes(f)
	for i, p := range f.Params {
		if p.Vararg {
			fb.VarargParameter(p.Name, typeref.Render(p.TypeRef))
			continue
		}
		fb.Parameter(p.Name, paramTypes[i])
	}
	fb.Returns(typeref.Render(f.ReturnType))

	var stmts []string
	stmts = append(stmts, countBackingName(f.Name)+".update { it + 1 }")

	callArgs := make([]string, len(f.Params))
	for i, p := range f.Params {
		if p.Vararg {
			callArgs[i] = "*" + p.Name
			continue
		}
		callArgs[i] = p.Name
	}
	call := strings.Join(callArgs, ", ")

	if isOpen {
		superCall := "super." + f.Name + "(" + call + ")"
		if f.ReturnType != nil && typeref.Render(f.ReturnType) == "Unit" {
			stmts = append(stmts, behaviorName(f.Name)+"?.invoke("+call+") ?: "+superCall)
		} else {
			stmts = append(stmts, "return "+behaviorName(f.Name)+"?.invoke("+call+") ?: "+superCall)
		}
	} else {
		needsCast := f.HasMethodTypeParams
		invoke := behaviorName(f.Name)
		if needsCast {
			unerasedType := funcTypeString(unerasedParamTypes(f), typeref.Render(f.ReturnType), f.Suspend, f.Params)
			stmts = append(stmts, "@Suppress(\"UNCHECKED_CAST\")")
			invoke = "(" + behaviorName(f.Name) + " as " + unerasedType + ")"
		}
		if typeref.Render(f.ReturnType) == "Unit" {
			stmts = append(stmts, invoke+"("+call+")")
		} else {
			stmts = append(stmts, "return "+invoke+"("+call+")")
		}
	}

	fb.Body(stmts...)
	return fb
}

func buildConfigureFunction(f transform.FunctionSpec) *codemodel.FunctionBuilder {
	fb := codemodel.NewFunction(configureFuncName(f.Name))
	fb.InternalVisibility()
	for _, tp := range f.TypeParams {
		fb.TypeParam(tp.Name, tp.Bounds...)
	}
	unerasedType := funcTypeString(unerasedParamTypes(f), typeref.Render(f.ReturnType), f.Suspend, f.Params)
	fb.Parameter("behavior", unerasedType)
	fb.Returns("Unit")

	if f.HasMethodTypeParams {
		erasedType := funcTypeString(erasedParamTypes(f), typeref.Render(f.ErasedReturnType), f.Suspend, f.Params)
		fb.Body(
			"@Suppress(\"UNCHECKED_CAST\")",
			behaviorName(f.Name)+" = behavior as "+erasedType,
		)
	} else {
		fb.Body(behaviorName(f.Name) + " = behavior")
	}
	return fb
}

// --- property members -----------------------------------------------

func (r *Recipe) addProperty(b *buckets, p transform.PropertySpec, classTypeParams map[string]bool) {
	addCountHolder(b, p.Name+"Getter")
	if p.Mutable {
		addCountHolder(b, p.Name+"Setter")
	}

	isOpen := r.Inputs.IsClass && !p.Abstract
	typeSpelling := typeref.Render(p.TypeRef)
	getterType := "() -> " + typeSpelling
	setterType := "(" + typeSpelling + ") -> Unit"

	if isOpen {
		b.behaviors = append(b.behaviors, mustProperty(
			codemodel.NewProperty(getterBehaviorName(p.Name), "("+getterType+")?").Mutable().Initializer(codemodel.Raw{Text: "null"}),
		))
		if p.Mutable {
			b.behaviors = append(b.behaviors, mustProperty(
				codemodel.NewProperty(setterBehaviorName(p.Name), "("+setterType+")?").Mutable().Initializer(codemodel.Raw{Text: "null"}),
			))
		}
	} else {
		getterDefault := r.nonNullablePropertyDefault(p, classTypeParams)
		b.behaviors = append(b.behaviors, mustProperty(
			codemodel.NewProperty(getterBehaviorName(p.Name), getterType).Mutable().Initializer(getterDefault),
		))
		if p.Mutable {
			setterDefault := codemodel.Expr(codemodel.Raw{Text: "{ }"})
			if r.Inputs.IsClass && p.Abstract {
				setterDefault = abstractMustConfigureError(p.Name, r.Inputs.TargetName)
			}
			b.behaviors = append(b.behaviors, mustProperty(
				codemodel.NewProperty(setterBehaviorName(p.Name), setterType).Mutable().Initializer(setterDefault),
			))
		}
	}

	b.overrides = append(b.overrides, buildOverrideProperty(p, isOpen))

	b.configures = append(b.configures, mustFunction(
		codemodel.NewFunction(configureGetterName(p.Name)).InternalVisibility().
			Parameter("behavior", getterType).Returns("Unit").
			Body(getterBehaviorName(p.Name)+" = behavior"),
	))
	if p.Mutable {
		b.configures = append(b.configures, mustFunction(
			codemodel.NewFunction(configureSetterName(p.Name)).InternalVisibility().
				Parameter("behavior", setterType).Returns("Unit").
				Body(setterBehaviorName(p.Name)+" = behavior"),
		))
	}
}

func (r *Recipe) nonNullablePropertyDefault(p transform.PropertySpec, classTypeParams map[string]bool) codemodel.Expr {
	if r.Inputs.IsClass && p.Abstract {
		return abstractMustConfigureError(p.Name, r.Inputs.TargetName)
	}
	if r.Resolver == nil {
		r.Resolver = &defaulting.Resolver{}
	}
	ctx := defaulting.Context{ClassTypeParams: classTypeParams, Location: r.Inputs.TargetName + "." + p.Name}
	value := r.Resolver.Resolve(p.TypeRef, ctx)
	return codemodel.Raw{Text: "{ " + value.String() + " }"}
}

func buildOverrideProperty(p transform.PropertySpec, isOpen bool) *codemodel.Property {
	pb := codemodel.NewProperty(p.Name, typeref.Render(p.TypeRef)).Override()
	if p.Mutable {
		pb.Mutable()
	}

	getterCount := countBackingName(p.Name + "Getter")
	if isOpen {
		pb.Getter(
			getterCount+".update { it + 1 }",
			"return "+getterBehaviorName(p.Name)+"?.invoke() ?: super."+p.Name,
		)
	} else {
		pb.Getter(
			getterCount+".update { it + 1 }",
			"return "+getterBehaviorName(p.Name)+"()",
		)
	}

	if p.Mutable {
		setterCount := countBackingName(p.Name + "Setter")
		if isOpen {
			pb.Setter(
				setterCount+".update { it + 1 }",
				setterBehaviorName(p.Name)+"?.invoke(value) ?: run { super."+p.Name+" = value }",
			)
		} else {
			pb.Setter(
				setterCount+".update { it + 1 }",
				setterBehaviorName(p.Name)+"(value)",
			)
		}
	}

	return mustProperty((*codemodel.PropertyBuilder)(pb))
}

// --- config class & factory function ---------------------------------

// buildConfigClass emits the `Fake<Name>Config` DSL class: one setter
// method per member mirroring its configure function, so a caller's
// `configure: FakeXConfig.() -> Unit` lambda reads naturally (spec §6).
func (r *Recipe) buildConfigClass(fb *codemodel.FileBuilder) {
	in := r.Inputs
	configName := "Fake" + in.TargetName + "Config"

	fb.Class(configName, func(c *codemodel.ClassBuilder) {
		for _, tp := range in.TypeParams {
			c.TypeParam(tp.Name, tp.Bounds...)
		}
		c.Constructor("target", "Fake"+in.TargetName+"Impl", codemodel.Internal)

		for _, p := range in.Properties {
			typeSpelling := typeref.Render(p.TypeRef)
			c.Function("onGet"+pascalCase(p.Name), func(fn *codemodel.FunctionBuilder) {
				fn.Parameter("behavior", "() -> "+typeSpelling).Returns("Unit")
				fn.Body("target." + configureGetterName(p.Name) + "(behavior)")
			})
			if p.Mutable {
				c.Function("onSet"+pascalCase(p.Name), func(fn *codemodel.FunctionBuilder) {
					fn.Parameter("behavior", "("+typeSpelling+") -> Unit").Returns("Unit")
					fn.Body("target." + configureSetterName(p.Name) + "(behavior)")
				})
			}
		}

		for _, f := range in.Functions {
			unerasedType := funcTypeString(unerasedParamTypes(f), typeref.Render(f.ReturnType), f.Suspend, f.Params)
			c.Function("on"+pascalCase(f.Name), func(fn *codemodel.FunctionBuilder) {
				for _, tp := range f.TypeParams {
					fn.TypeParam(tp.Name, tp.Bounds...)
				}
				fn.Parameter("behavior", unerasedType).Returns("Unit")
				fn.Body("target." + configureFuncName(f.Name) + "(behavior)")
			})
		}
	})
}

// buildFactoryFunction emits the top-level `fake<Name>` factory
// matching the generic-pattern-specific signature in spec §6's table.
func (r *Recipe) buildFactoryFunction(fb *codemodel.FileBuilder) {
	in := r.Inputs
	implName := "Fake" + in.TargetName + "Impl"
	configName := "Fake" + in.TargetName + "Config"
	factoryName := "fake" + in.TargetName

	typeParamNames := make([]string, len(in.TypeParams))
	for i, tp := range in.TypeParams {
		typeParamNames[i] = tp.Name
	}
	typeArgSuffix := ""
	if len(typeParamNames) > 0 {
		typeArgSuffix = "<" + strings.Join(typeParamNames, ", ") + ">"
	}

	fb.TopLevelFunction(factoryName, func(fn *codemodel.FunctionBuilder) {
		reified := in.Pattern == transform.ClassLevel || in.Pattern == transform.Mixed
		if reified {
			for _, tp := range in.TypeParams {
				fn.ReifiedTypeParam(tp.Name, tp.Bounds...)
			}
			fn.Inline()
		}
		configType := configName + typeArgSuffix
		fn.ParameterWithDefault("configure", configType+".() -> Unit", codemodel.Raw{Text: "{}"})
		fn.Returns(in.TargetName + typeArgSuffix)
		fn.Body(
			"val impl = "+implName+"()",
			configName+typeArgSuffix+"(impl).apply(configure)",
			"return impl",
		)
	})
}
