// Package analyze is the C6 Phase-F analyzer and C8 metadata storage: it
// validates eligibility of `@Fake`-annotated declarations, extracts the
// language-neutral "validated-declaration" record (spec §3.1), and hands
// validated records off to Phase T through a thread-safe Store.
//
// The validate-then-reject-with-diagnostic shape generalizes the
// teacher's internal/elaborate/verify.go and internal/types/inference.go:
// both walk an input, run an ordered list of checks, and on the first
// failure produce a Report and abort just that one unit of work while
// letting the rest of the pass continue. Store generalizes
// internal/loader/loader.go's ModuleLoader.cache map[string]*LoadedModule
// to a mutex-guarded map, since here Phase F writes concurrently across
// declarations and Phase T only reads after the phase boundary (spec §5).
package analyze

import (
	"sort"
	"sync"

	"github.com/sunholo/fakegen/internal/errors"
	"github.com/sunholo/fakegen/internal/source"
)

// Kind distinguishes the two validated-declaration variants (spec §3.1).
type Kind int

const (
	KindInterface Kind = iota
	KindClass
)

// TypeParam is a validated class- or method-level type parameter.
type TypeParam struct {
	Name     string
	Bounds   []string
	Variance source.Variance
}

// Param is a validated function parameter.
type Param struct {
	Name       string
	Type       string
	HasDefault bool
	Vararg     bool
}

// Function is a validated function/method record.
type Function struct {
	Name              string
	Params            []Param
	ReturnType        string
	Suspend           bool
	Inline            bool
	TypeParams        []TypeParam
	Operator          string
	ExtensionReceiver string
	Abstract          bool
	Inherited         bool
}

// Property is a validated property record.
type Property struct {
	Name      string
	Type      string
	Mutable   bool
	Nullable  bool
	Abstract  bool
	Inherited bool
}

// Decl is the validated-declaration record Phase F produces and Phase T
// consumes (spec §3.1). Class and Interface share the same shape here;
// Kind tells a caller which defaulting rules apply, and Property/
// Function.Abstract distinguishes abstract-in-class from open-in-class
// members for the subset of rules that need it (spec §4.5).
type Decl struct {
	Kind       Kind
	Name       string
	Package    string
	TypeParams []TypeParam
	Properties []Property // declared, then inherited (deduplicated by name, declared wins)
	Functions  []Function
	Span       source.Span
}

// FQName is the fully-qualified identity used as a store/cache key.
func (d *Decl) FQName() string {
	if d.Package == "" {
		return d.Name
	}
	return d.Package + "." + d.Name
}

// Logger receives non-fatal diagnostics (spec §4.6 rule 6, §7's
// "resolution warnings"). A nil Logger silently drops them.
type Logger interface {
	Warnf(format string, args ...any)
	Debugf(format string, args ...any)
}

// Analyzer runs the Phase-F validation checks (spec §4.6) in order,
// rejecting a declaration with a *errors.ReportError on the first
// eligibility failure. The zero value is ready to use.
type Analyzer struct {
	Log Logger
}

func (a *Analyzer) warnf(format string, args ...any) {
	if a.Log != nil {
		a.Log.Warnf(format, args...)
	}
}

func (a *Analyzer) debugf(format string, args ...any) {
	if a.Log != nil {
		a.Log.Debugf(format, args...)
	}
}

// Analyze validates raw against the spec §4.6 eligibility checks and, on
// success, resolves its transitive inherited-member closure via
// resolver. It returns a rejection error (wrapping a *errors.Report)
// for any eligibility failure; unresolvable supertypes are a warning,
// not a rejection (spec §4.6 rule 6, §7).
func Analyze(raw *source.RawDecl, resolver source.Resolver, a *Analyzer) (*Decl, error) {
	if a == nil {
		a = &Analyzer{}
	}

	kind, err := eligibleKind(raw)
	if err != nil {
		return nil, err
	}

	declaredProps, declaredFuncs := extractMembers(raw)

	if kind == KindClass && len(declaredProps)+len(declaredFuncs) == 0 {
		return nil, reject(errors.FAK006, raw,
			"class must be abstract (contain abstract or open members)")
	}

	if dup, ok := duplicateName(declaredProps, declaredFuncs); ok {
		return nil, reject(errors.FAK007, raw, "duplicate declared member name: "+dup)
	}

	typeParams := make([]TypeParam, 0, len(raw.TypeParams))
	for _, tp := range raw.TypeParams {
		typeParams = append(typeParams, TypeParam{Name: tp.Name, Bounds: tp.Bounds, Variance: tp.Variance})
	}

	inheritedProps, inheritedFuncs := a.collectInherited(raw, resolver, declaredProps, declaredFuncs)

	d := &Decl{
		Kind:       kind,
		Name:       raw.Name,
		Package:    raw.Package,
		TypeParams: typeParams,
		Properties: append(declaredProps, inheritedProps...),
		Functions:  append(declaredFuncs, inheritedFuncs...),
		Span:       raw.Span,
	}
	return d, nil
}

func eligibleKind(raw *source.RawDecl) (Kind, error) {
	switch raw.Kind {
	case source.KindInterface, source.KindSAMInterface:
		return KindInterface, nil
	case source.KindAbstractClass, source.KindConcreteClass:
		return KindClass, nil
	case source.KindSealed:
		return 0, reject(errors.FAK002, raw, "@Fake cannot target a sealed declaration")
	case source.KindLocal:
		return 0, reject(errors.FAK003, raw, "@Fake cannot target a local declaration")
	case source.KindObject:
		return 0, reject(errors.FAK004, raw, "@Fake cannot target an object declaration")
	case source.KindAnnotationClass:
		return 0, reject(errors.FAK005, raw, "@Fake cannot target an annotation class")
	default:
		return 0, reject(errors.FAK001, raw, "not an eligible declaration kind: "+raw.Kind.String())
	}
}

func extractMembers(raw *source.RawDecl) ([]Property, []Function) {
	props := make([]Property, 0, len(raw.Properties))
	for _, p := range raw.Properties {
		props = append(props, Property{Name: p.Name, Type: p.TypeSpelling, Mutable: p.Mutable, Nullable: p.Nullable, Abstract: p.Abstract})
	}
	funcs := make([]Function, 0, len(raw.Functions))
	for _, f := range raw.Functions {
		funcs = append(funcs, Function{
			Name:              f.Name,
			Params:            convertParams(f.Params),
			ReturnType:        f.ReturnType,
			Suspend:           f.Suspend,
			Inline:            f.Inline,
			TypeParams:        convertTypeParams(f.TypeParams),
			Operator:          f.Operator,
			ExtensionReceiver: f.ExtensionReceiver,
			Abstract:          f.Abstract,
		})
	}
	return props, funcs
}

func convertParams(params []source.Param) []Param {
	out := make([]Param, 0, len(params))
	for _, p := range params {
		out = append(out, Param{Name: p.Name, Type: p.TypeSpelling, HasDefault: p.HasDefault, Vararg: p.Vararg})
	}
	return out
}

func convertTypeParams(params []source.TypeParam) []TypeParam {
	out := make([]TypeParam, 0, len(params))
	for _, p := range params {
		out = append(out, TypeParam{Name: p.Name, Bounds: p.Bounds, Variance: p.Variance})
	}
	return out
}

func duplicateName(props []Property, funcs []Function) (string, bool) {
	seen := map[string]bool{}
	for _, p := range props {
		if seen[p.Name] {
			return p.Name, true
		}
		seen[p.Name] = true
	}
	for _, f := range funcs {
		if seen[f.Name] {
			return f.Name, true
		}
		seen[f.Name] = true
	}
	return "", false
}

// collectInherited walks raw.Supertypes transitively, deduplicating by
// canonical member identity (name-only, per spec §9's open question on
// overload deduplication) and preferring declared members over
// inherited ones. A visited set keyed by FQName breaks inheritance
// cycles (spec §4.6 rule 6, §9 "cycle-safe inheritance traversal").
func (a *Analyzer) collectInherited(raw *source.RawDecl, resolver source.Resolver, declaredProps []Property, declaredFuncs []Function) ([]Property, []Function) {
	seen := map[string]bool{raw.FQName(): true}
	known := map[string]bool{}
	for _, p := range declaredProps {
		known[p.Name] = true
	}
	for _, f := range declaredFuncs {
		known[f.Name] = true
	}

	var inheritedProps []Property
	var inheritedFuncs []Function

	var walk func(supertypes []string)
	walk = func(supertypes []string) {
		for _, spelling := range supertypes {
			if resolver == nil {
				continue
			}
			super, ok := resolver.Resolve(spelling)
			if !ok {
				a.warnf("unresolvable supertype %q of %s, skipped", spelling, raw.FQName())
				a.debugf("[%s] supertype %q of %s could not be resolved", errors.FAK010, spelling, raw.FQName())
				continue
			}
			if seen[super.FQName()] {
				continue
			}
			seen[super.FQName()] = true

			for _, p := range super.Properties {
				if known[p.Name] {
					continue
				}
				known[p.Name] = true
				inheritedProps = append(inheritedProps, Property{
					Name: p.Name, Type: p.TypeSpelling, Mutable: p.Mutable, Nullable: p.Nullable, Abstract: p.Abstract, Inherited: true,
				})
			}
			for _, f := range super.Functions {
				if known[f.Name] {
					continue
				}
				known[f.Name] = true
				inheritedFuncs = append(inheritedFuncs, Function{
					Name: f.Name, Params: convertParams(f.Params), ReturnType: f.ReturnType,
					Suspend: f.Suspend, Inline: f.Inline, TypeParams: convertTypeParams(f.TypeParams),
					Operator: f.Operator, ExtensionReceiver: f.ExtensionReceiver, Abstract: f.Abstract, Inherited: true,
				})
			}
			walk(super.Supertypes)
		}
	}
	walk(raw.Supertypes)

	sort.Slice(inheritedProps, func(i, j int) bool { return inheritedProps[i].Name < inheritedProps[j].Name })
	sort.Slice(inheritedFuncs, func(i, j int) bool { return inheritedFuncs[i].Name < inheritedFuncs[j].Name })
	return inheritedProps, inheritedFuncs
}

func reject(code string, raw *source.RawDecl, message string) error {
	return errors.Wrap(errors.New(code, "analyze", message).
		WithSpan(raw.Span).
		WithData(map[string]any{"decl": raw.FQName()}))
}

// Store is the C8 metadata storage: a thread-safe map from declaration
// identity to validated-record, written by Phase F and read by Phase T
// once the phase boundary has passed (spec §3.5, §5). A plain
// sync.RWMutex suffices rather than a third-party concurrent map:
// writes are independent per key during Phase F and reads are
// exclusively post-boundary, so there is no read/write interleaving on
// the same key to optimize for (see DESIGN.md).
type Store struct {
	mu    sync.RWMutex
	decls map[string]*Decl
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{decls: make(map[string]*Decl)}
}

// Put stores d under its FQName, overwriting any prior entry.
func (s *Store) Put(d *Decl) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decls[d.FQName()] = d
}

// Get retrieves the validated-declaration stored under fqName.
func (s *Store) Get(fqName string) (*Decl, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.decls[fqName]
	return d, ok
}

// All returns every stored declaration sorted by FQName, so that Phase
// T's traversal order — and therefore everything downstream of it — is
// a pure function of the store's contents rather than of map
// iteration order (spec §5's "rendering is a pure function of inputs").
func (s *Store) All() []*Decl {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Decl, 0, len(s.decls))
	for _, d := range s.decls {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FQName() < out[j].FQName() })
	return out
}

// Len reports the number of stored declarations.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.decls)
}
