// Package transform is the C7 Phase-T transformer: it combines a
// validated-declaration (analyze.Decl) with type-reference parsing into
// the plain-data CodeGenInputs tuple that the C5 recipes in
// internal/synth consume. It sanitizes host-spelled type references,
// classifies the declaration's generic pattern, and computes the
// method-level erasure map the behavior-holder properties need.
//
// Phase T does no analysis of host-level facts — it only composes
// internal/typeref over strings analyze.Decl already carries (default
// values are resolved later, by internal/synth). That separation is load-bearing (spec §4.7, §9):
// Phase S never sees a source.RawDecl or an analyze.Decl, only this
// package's plain-data output, so a structural test can assert Phase S
// has no reference to host-level types (spec §8 property 7).
//
// The desugaring shape generalizes internal/elaborate/core.go's
// Surface-to-Core transformation; stripKotlinPrefix's prefix-stripping
// mirrors internal/lexer/normalize.go's BOM/NFC source-text cleanup,
// retargeted from encoding normalization to foreign-spelling
// normalization (`/` path separators, implicit `kotlin.` imports).
package transform

import (
	"sort"
	"strings"

	"github.com/sunholo/fakegen/internal/analyze"
	"github.com/sunholo/fakegen/internal/errors"
	"github.com/sunholo/fakegen/internal/source"
	"github.com/sunholo/fakegen/internal/typeref"
)

// GenericPattern classifies a declaration for factory-shape selection
// (spec §4.7, §6's generated-factory-surface table).
type GenericPattern int

const (
	NoGenerics GenericPattern = iota
	ClassLevel
	MethodLevel
	Mixed
)

func (p GenericPattern) String() string {
	switch p {
	case ClassLevel:
		return "ClassLevel"
	case MethodLevel:
		return "MethodLevel"
	case Mixed:
		return "Mixed"
	default:
		return "NoGenerics"
	}
}

// TypeParamSpec is a sanitized type-parameter ready for the codemodel
// builder: bounds are sanitized spellings, not raw host spellings.
type TypeParamSpec struct {
	Name     string
	Bounds   []string
	Variance source.Variance
}

// ParamSpec is a sanitized function parameter.
type ParamSpec struct {
	Name       string
	TypeRef    *typeref.Ref
	ErasedType *typeref.Ref // only differs from TypeRef when the param's type mentions a method-level type parameter
	HasDefault bool
	Vararg     bool
}

// FunctionSpec is a sanitized function/method ready for synthesis.
type FunctionSpec struct {
	Name                string
	Params              []ParamSpec
	ReturnType          *typeref.Ref
	ErasedReturnType    *typeref.Ref
	Suspend             bool
	Inline              bool
	TypeParams          []TypeParamSpec
	Operator            string
	ExtensionReceiver   string
	ErasedReceiverType  *typeref.Ref
	Abstract            bool
	Inherited           bool
	HasMethodTypeParams bool
}

// PropertySpec is a sanitized property ready for synthesis.
type PropertySpec struct {
	Name      string
	TypeRef   *typeref.Ref
	Mutable   bool
	Nullable  bool
	Abstract  bool
	Inherited bool
}

// CodeGenInputs is the argument tuple a C5 recipe (internal/synth)
// consumes: every fact it needs to emit a File, with all type
// spellings already sanitized (spec §4.7).
type CodeGenInputs struct {
	Package    string
	TargetName string
	IsClass    bool
	TypeParams []TypeParamSpec
	Properties []PropertySpec
	Functions  []FunctionSpec
	Pattern    GenericPattern
	Imports    []string
}

// Transform converts a validated-declaration into CodeGenInputs (spec
// §4.7's contract). It never fails except when sanitization of a type
// spelling collapses to an empty name (FAT001), which Phase F's
// upstream validation should make unreachable for well-formed host
// input but is still checked defensively (a builder invariant, not a
// silent empty string reaching the renderer).
func Transform(d *analyze.Decl) (*CodeGenInputs, error) {
	typeParams := make([]TypeParamSpec, 0, len(d.TypeParams))
	for _, tp := range d.TypeParams {
		bounds := make([]string, 0, len(tp.Bounds))
		for _, b := range tp.Bounds {
			sanitized, err := SanitizeSpelling(b)
			if err != nil {
				return nil, err
			}
			bounds = append(bounds, sanitized)
		}
		typeParams = append(typeParams, TypeParamSpec{Name: tp.Name, Bounds: bounds, Variance: tp.Variance})
	}

	props := make([]PropertySpec, 0, len(d.Properties))
	for _, p := range d.Properties {
		ref, err := sanitizedRef(p.Type)
		if err != nil {
			return nil, err
		}
		props = append(props, PropertySpec{Name: p.Name, TypeRef: ref, Mutable: p.Mutable, Nullable: p.Nullable, Abstract: p.Abstract, Inherited: p.Inherited})
	}

	funcs := make([]FunctionSpec, 0, len(d.Functions))
	for _, f := range d.Functions {
		spec, err := transformFunction(f)
		if err != nil {
			return nil, err
		}
		funcs = append(funcs, spec)
	}

	return &CodeGenInputs{
		Package:    d.Package,
		TargetName: d.Name,
		IsClass:    d.Kind == analyze.KindClass,
		TypeParams: typeParams,
		Properties: props,
		Functions:  funcs,
		Pattern:    Classify(d),
		Imports:    ImportsFor(d),
	}, nil
}

func transformFunction(f analyze.Function) (FunctionSpec, error) {
	methodParams := map[string]bool{}
	for _, tp := range f.TypeParams {
		methodParams[tp.Name] = true
	}

	params := make([]ParamSpec, 0, len(f.Params))
	for _, p := range f.Params {
		ref, err := sanitizedRef(p.Type)
		if err != nil {
			return FunctionSpec{}, err
		}
		params = append(params, ParamSpec{
			Name:       p.Name,
			TypeRef:    ref,
			ErasedType: ErasedType(ref, methodParams),
			HasDefault: p.HasDefault,
			Vararg:     p.Vararg,
		})
	}

	retRef, err := sanitizedRef(f.ReturnType)
	if err != nil {
		return FunctionSpec{}, err
	}

	typeParams := make([]TypeParamSpec, 0, len(f.TypeParams))
	for _, tp := range f.TypeParams {
		bounds := make([]string, 0, len(tp.Bounds))
		for _, b := range tp.Bounds {
			sanitized, err := SanitizeSpelling(b)
			if err != nil {
				return FunctionSpec{}, err
			}
			bounds = append(bounds, sanitized)
		}
		typeParams = append(typeParams, TypeParamSpec{Name: tp.Name, Bounds: bounds, Variance: tp.Variance})
	}

	var receiverRef, erasedReceiver *typeref.Ref
	if f.ExtensionReceiver != "" {
		receiverRef, err = sanitizedRef(f.ExtensionReceiver)
		if err != nil {
			return FunctionSpec{}, err
		}
		erasedReceiver = ErasedType(receiverRef, methodParams)
	}
	receiverSpelling := ""
	if receiverRef != nil {
		receiverSpelling = typeref.Render(receiverRef)
	}

	return FunctionSpec{
		Name:                f.Name,
		Params:              params,
		ReturnType:          retRef,
		ErasedReturnType:    ErasedType(retRef, methodParams),
		Suspend:             f.Suspend,
		Inline:              f.Inline,
		TypeParams:          typeParams,
		Operator:            f.Operator,
		ExtensionReceiver:   receiverSpelling,
		ErasedReceiverType:  erasedReceiver,
		Abstract:            f.Abstract,
		Inherited:           f.Inherited,
		HasMethodTypeParams: len(methodParams) > 0,
	}, nil
}

func sanitizedRef(raw string) (*typeref.Ref, error) {
	if raw == "" {
		return typeref.NewSimple(""), nil
	}
	slashFixed := strings.ReplaceAll(raw, "/", ".")
	r := stripPrefixes(typeref.Parse(slashFixed))
	if typeref.Render(r) == "" {
		return nil, errors.Wrap(errors.New(errors.FAT001, "transform",
			"sanitizing type spelling produced an empty name: "+raw))
	}
	return r, nil
}

// SanitizeSpelling sanitizes a raw spelling and renders it back to text,
// used for type-parameter bound lists which carry spellings but are
// not parsed into the full codemodel tree.
func SanitizeSpelling(raw string) (string, error) {
	ref, err := sanitizedRef(raw)
	if err != nil {
		return "", err
	}
	return typeref.Render(ref), nil
}

// stripPrefixes strips the implicitly-imported `kotlin.` and
// `kotlin.collections.` prefixes from every Simple/Generic name in the
// tree, leaving third-party qualified names intact (spec §4.7).
func stripPrefixes(r *typeref.Ref) *typeref.Ref {
	if r == nil {
		return nil
	}
	switch r.Kind {
	case typeref.Simple:
		return &typeref.Ref{Kind: typeref.Simple, Name: stripKotlinPrefix(r.Name), Raw: r.Raw}
	case typeref.Generic:
		args := make([]*typeref.Ref, len(r.Args))
		for i, a := range r.Args {
			args[i] = stripPrefixes(a)
		}
		return &typeref.Ref{Kind: typeref.Generic, Name: stripKotlinPrefix(r.Name), Args: args, Raw: r.Raw}
	case typeref.Nullable:
		return &typeref.Ref{Kind: typeref.Nullable, Inner: stripPrefixes(r.Inner), Raw: r.Raw}
	case typeref.Function:
		params := make([]*typeref.Ref, len(r.Params))
		for i, p := range r.Params {
			params[i] = stripPrefixes(p)
		}
		return &typeref.Ref{Kind: typeref.Function, Params: params, Return: stripPrefixes(r.Return), Suspend: r.Suspend, Raw: r.Raw}
	default:
		return r
	}
}

func stripKotlinPrefix(name string) string {
	if strings.HasPrefix(name, "kotlin.collections.") {
		return strings.TrimPrefix(name, "kotlin.collections.")
	}
	if strings.HasPrefix(name, "kotlin.") {
		return strings.TrimPrefix(name, "kotlin.")
	}
	return name
}

// ErasedType replaces every Simple reference whose name is a method-
// level type-parameter with `Any?` (spec §4.5's erasure boundary),
// recursing through Generic/Nullable/Function structure. A direct
// `T?` spelling erases to a single `Any?`, not a double-nullable
// `Any??`.
func ErasedType(r *typeref.Ref, methodParams map[string]bool) *typeref.Ref {
	if r == nil || len(methodParams) == 0 {
		return r
	}
	switch r.Kind {
	case typeref.Simple:
		if methodParams[r.Name] {
			return typeref.NewSimple("Any?")
		}
		return r
	case typeref.Nullable:
		if r.Inner != nil && r.Inner.Kind == typeref.Simple && methodParams[r.Inner.Name] {
			return typeref.NewSimple("Any?")
		}
		inner := ErasedType(r.Inner, methodParams)
		if inner == r.Inner {
			return r
		}
		return &typeref.Ref{Kind: typeref.Nullable, Inner: inner, Raw: r.Raw}
	case typeref.Generic:
		args := make([]*typeref.Ref, len(r.Args))
		changed := false
		for i, a := range r.Args {
			e := ErasedType(a, methodParams)
			args[i] = e
			if e != a {
				changed = true
			}
		}
		if !changed {
			return r
		}
		return &typeref.Ref{Kind: typeref.Generic, Name: r.Name, Args: args, Raw: r.Raw}
	case typeref.Function:
		params := make([]*typeref.Ref, len(r.Params))
		changed := false
		for i, p := range r.Params {
			e := ErasedType(p, methodParams)
			params[i] = e
			if e != p {
				changed = true
			}
		}
		ret := ErasedType(r.Return, methodParams)
		if ret != r.Return {
			changed = true
		}
		if !changed {
			return r
		}
		return &typeref.Ref{Kind: typeref.Function, Params: params, Return: ret, Suspend: r.Suspend, Raw: r.Raw}
	default:
		return r
	}
}

// Classify determines a declaration's generic pattern from its
// class-level and method-level type parameters (spec §4.7, §6).
func Classify(d *analyze.Decl) GenericPattern {
	classLevel := len(d.TypeParams) > 0
	methodLevel := false
	for _, f := range d.Functions {
		if len(f.TypeParams) > 0 {
			methodLevel = true
			break
		}
	}
	switch {
	case classLevel && methodLevel:
		return Mixed
	case classLevel:
		return ClassLevel
	case methodLevel:
		return MethodLevel
	default:
		return NoGenerics
	}
}

// reactiveImports are required unconditionally: every member spec gets
// a call-count holder (spec §4.5), which is always reactive.
var reactiveImports = []string{
	"kotlinx.coroutines.flow.MutableStateFlow",
	"kotlinx.coroutines.flow.StateFlow",
}

// ImportsFor computes the fixed import set a generated fake needs:
// the reactive-counter imports unconditionally, plus emptyFlow when any
// member's sanitized type mentions Flow (spec §4.7's "fixed set when
// certain features are used").
func ImportsFor(d *analyze.Decl) []string {
	set := map[string]bool{}
	for _, imp := range reactiveImports {
		set[imp] = true
	}

	usesFlow := false
	scan := func(spelling string) {
		ref, err := sanitizedRef(spelling)
		if err != nil {
			return
		}
		if mentionsFlow(ref) {
			usesFlow = true
		}
	}
	for _, p := range d.Properties {
		scan(p.Type)
	}
	for _, f := range d.Functions {
		scan(f.ReturnType)
		for _, p := range f.Params {
			scan(p.Type)
		}
	}
	if usesFlow {
		set["kotlinx.coroutines.flow.emptyFlow"] = true
	}

	out := make([]string, 0, len(set))
	for imp := range set {
		out = append(out, imp)
	}
	sort.Strings(out)
	return out
}

func mentionsFlow(r *typeref.Ref) bool {
	if r == nil {
		return false
	}
	switch r.Kind {
	case typeref.Simple, typeref.Generic:
		if r.Name == "Flow" {
			return true
		}
		for _, a := range r.Args {
			if mentionsFlow(a) {
				return true
			}
		}
		return false
	case typeref.Nullable:
		return mentionsFlow(r.Inner)
	case typeref.Function:
		if mentionsFlow(r.Return) {
			return true
		}
		for _, p := range r.Params {
			if mentionsFlow(p) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
