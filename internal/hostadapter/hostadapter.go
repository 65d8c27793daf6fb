// Package hostadapter supplies the narrow source.Resolver surface
// Phase F needs, standing in for the real host compiler's symbol
// table (spec §1: "the host compiler that loads this as an extension
// ... we only consume its AST/IR facts via abstract accessors"). It is
// not a Kotlin compiler frontend and must not grow into one — it only
// ever holds RawDecl facts a caller populated by hand or loaded from a
// fixture file.
package hostadapter

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/sunholo/fakegen/internal/source"
)

// InMemory is a source.Resolver backed by a plain map, keyed by
// FQName. Tests and the `generate` CLI verb populate it directly with
// source.RawDecl values; a real integration would populate it from a
// Kotlin compiler's loaded IR.
type InMemory struct {
	decls map[string]*source.RawDecl
}

// NewInMemory builds an empty resolver.
func NewInMemory() *InMemory {
	return &InMemory{decls: map[string]*source.RawDecl{}}
}

// Add registers d under its FQName, making it resolvable as a
// supertype of any other registered declaration.
func (m *InMemory) Add(d *source.RawDecl) {
	m.decls[d.FQName()] = d
}

// Resolve implements source.Resolver by looking a spelling up first as
// a fully-qualified name, then as a bare simple name (the host may
// report either form depending on import resolution).
func (m *InMemory) Resolve(spelling string) (*source.RawDecl, bool) {
	if d, ok := m.decls[spelling]; ok {
		return d, true
	}
	for _, d := range m.decls {
		if d.Name == spelling {
			return d, true
		}
	}
	return nil, false
}

// All returns every registered declaration, sorted by FQName, for the
// `generate` CLI verb's top-level driving loop.
func (m *InMemory) All() []*source.RawDecl {
	out := make([]*source.RawDecl, 0, len(m.decls))
	for _, d := range m.decls {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FQName() < out[j].FQName() })
	return out
}

// fixture mirrors source.RawDecl in a YAML-friendly shape for
// fixture-driven tests (spec SPEC_FULL §0's "fixture-driven" host).
type fixture struct {
	Decls []fixtureDecl `yaml:"decls"`
}

type fixtureDecl struct {
	Name       string              `yaml:"name"`
	Package    string              `yaml:"package"`
	Kind       string              `yaml:"kind"`
	TypeParams []fixtureTypeParam  `yaml:"typeParams"`
	Properties []fixtureProperty   `yaml:"properties"`
	Functions  []fixtureFunction   `yaml:"functions"`
	Supertypes []string            `yaml:"supertypes"`
}

type fixtureTypeParam struct {
	Name     string   `yaml:"name"`
	Bounds   []string `yaml:"bounds"`
	Variance string   `yaml:"variance"`
}

type fixtureProperty struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Mutable  bool   `yaml:"mutable"`
	Nullable bool   `yaml:"nullable"`
	Abstract bool   `yaml:"abstract"`
}

type fixtureParam struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	HasDefault bool   `yaml:"hasDefault"`
	Vararg     bool   `yaml:"vararg"`
}

type fixtureFunction struct {
	Name              string             `yaml:"name"`
	Params            []fixtureParam     `yaml:"params"`
	ReturnType        string             `yaml:"returnType"`
	Suspend           bool               `yaml:"suspend"`
	Inline            bool               `yaml:"inline"`
	TypeParams        []fixtureTypeParam `yaml:"typeParams"`
	Operator          string             `yaml:"operator"`
	ExtensionReceiver string             `yaml:"extensionReceiver"`
	Abstract          bool               `yaml:"abstract"`
}

// LoadFixture reads a YAML fixture file of RawDecl facts into an
// InMemory resolver, used by tests that want named scenario files
// instead of building source.RawDecl literals by hand.
func LoadFixture(path string) (*InMemory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	var fx fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("failed to parse fixture YAML: %w", err)
	}

	m := NewInMemory()
	for _, fd := range fx.Decls {
		m.Add(&source.RawDecl{
			Name:       fd.Name,
			Package:    fd.Package,
			Kind:       parseKind(fd.Kind),
			TypeParams: convertTypeParams(fd.TypeParams),
			Properties: convertProperties(fd.Properties),
			Functions:  convertFunctions(fd.Functions),
			Supertypes: fd.Supertypes,
		})
	}
	return m, nil
}

func parseKind(s string) source.Kind {
	switch s {
	case "interface":
		return source.KindInterface
	case "abstractClass":
		return source.KindAbstractClass
	case "samInterface":
		return source.KindSAMInterface
	case "sealed":
		return source.KindSealed
	case "local":
		return source.KindLocal
	case "object":
		return source.KindObject
	case "annotationClass":
		return source.KindAnnotationClass
	case "concreteClass":
		return source.KindConcreteClass
	default:
		return source.KindConcreteClass
	}
}

func parseVariance(s string) source.Variance {
	switch s {
	case "out":
		return source.Covariant
	case "in":
		return source.Contravariant
	default:
		return source.Invariant
	}
}

func convertTypeParams(in []fixtureTypeParam) []source.TypeParam {
	out := make([]source.TypeParam, 0, len(in))
	for _, tp := range in {
		out = append(out, source.TypeParam{Name: tp.Name, Bounds: tp.Bounds, Variance: parseVariance(tp.Variance)})
	}
	return out
}

func convertProperties(in []fixtureProperty) []source.Property {
	out := make([]source.Property, 0, len(in))
	for _, p := range in {
		out = append(out, source.Property{Name: p.Name, TypeSpelling: p.Type, Mutable: p.Mutable, Nullable: p.Nullable, Abstract: p.Abstract})
	}
	return out
}

func convertFunctions(in []fixtureFunction) []source.Function {
	out := make([]source.Function, 0, len(in))
	for _, f := range in {
		params := make([]source.Param, 0, len(f.Params))
		for _, p := range f.Params {
			params = append(params, source.Param{Name: p.Name, TypeSpelling: p.Type, HasDefault: p.HasDefault, Vararg: p.Vararg})
		}
		out = append(out, source.Function{
			Name: f.Name, Params: params, ReturnType: f.ReturnType, Suspend: f.Suspend, Inline: f.Inline,
			TypeParams: convertTypeParams(f.TypeParams), Operator: f.Operator, ExtensionReceiver: f.ExtensionReceiver, Abstract: f.Abstract,
		})
	}
	return out
}
