package analyze_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sunholo/fakegen/internal/analyze"
	"github.com/sunholo/fakegen/internal/source"
)

type stubResolver map[string]*source.RawDecl

func (s stubResolver) Resolve(spelling string) (*source.RawDecl, bool) {
	d, ok := s[spelling]
	return d, ok
}

func interfaceDecl(name string, props []source.Property, funcs []source.Function, supertypes ...string) *source.RawDecl {
	return &source.RawDecl{
		Name: name, Package: "com.example", Kind: source.KindInterface,
		Properties: props, Functions: funcs, Supertypes: supertypes,
	}
}

func TestAnalyzeTrivialInterface(t *testing.T) {
	raw := interfaceDecl("Greeter", nil, []source.Function{
		{Name: "hello", Params: []source.Param{{Name: "name", TypeSpelling: "String"}}, ReturnType: "String"},
	})

	d, err := analyze.Analyze(raw, nil, nil)
	require.NoError(t, err)
	require.Equal(t, analyze.KindInterface, d.Kind)
	require.Equal(t, "com.example.Greeter", d.FQName())
	require.Len(t, d.Functions, 1)
}

func TestAnalyzeRejectsSealed(t *testing.T) {
	raw := &source.RawDecl{Name: "Sealed", Kind: source.KindSealed}
	_, err := analyze.Analyze(raw, nil, nil)
	require.Error(t, err)
}

func TestAnalyzeRejectsObjectAndAnnotationAndLocal(t *testing.T) {
	for _, k := range []source.Kind{source.KindObject, source.KindAnnotationClass, source.KindLocal} {
		raw := &source.RawDecl{Name: "X", Kind: k}
		_, err := analyze.Analyze(raw, nil, nil)
		require.Error(t, err)
	}
}

func TestAnalyzeRejectsConcreteClassWithNoMembers(t *testing.T) {
	raw := &source.RawDecl{Name: "Empty", Kind: source.KindConcreteClass}
	_, err := analyze.Analyze(raw, nil, nil)
	require.Error(t, err)
}

func TestAnalyzeRejectsDuplicateDeclaredMemberName(t *testing.T) {
	raw := interfaceDecl("Dup", []source.Property{{Name: "x", TypeSpelling: "Int"}},
		[]source.Function{{Name: "x", ReturnType: "Unit"}})
	_, err := analyze.Analyze(raw, nil, nil)
	require.Error(t, err)
}

func TestAnalyzeCollectsInheritedMembersTransitivelyAndDeclaredWins(t *testing.T) {
	base := interfaceDecl("Base", []source.Property{{Name: "id", TypeSpelling: "String"}},
		[]source.Function{{Name: "close", ReturnType: "Unit"}})
	mid := interfaceDecl("Mid", nil,
		[]source.Function{{Name: "mid", ReturnType: "Unit"}}, "Base")
	top := interfaceDecl("Top",
		[]source.Property{{Name: "id", TypeSpelling: "Int"}}, // shadows Base.id with a different type
		[]source.Function{{Name: "top", ReturnType: "Unit"}}, "Mid")

	resolver := stubResolver{"Base": base, "Mid": mid}
	d, err := analyze.Analyze(top, resolver, nil)
	require.NoError(t, err)

	names := map[string]string{}
	for _, p := range d.Properties {
		names[p.Name] = p.Type
	}
	require.Equal(t, "Int", names["id"], "declared member should win over inherited")

	funcNames := map[string]bool{}
	for _, f := range d.Functions {
		funcNames[f.Name] = true
	}
	require.True(t, funcNames["close"])
	require.True(t, funcNames["mid"])
	require.True(t, funcNames["top"])
}

func TestAnalyzeCycleSafeInheritance(t *testing.T) {
	a := interfaceDecl("A", nil, nil, "B")
	b := interfaceDecl("B", nil, nil, "A")
	resolver := stubResolver{"com.example.A": a, "com.example.B": b, "A": a, "B": b}

	d, err := analyze.Analyze(a, resolver, nil)
	require.NoError(t, err)
	require.Empty(t, d.Properties)
}

func TestStorePutGetAllSortedByFQName(t *testing.T) {
	s := analyze.NewStore()
	s.Put(&analyze.Decl{Name: "Zebra", Package: "p"})
	s.Put(&analyze.Decl{Name: "Alpha", Package: "p"})

	all := s.All()
	require.Len(t, all, 2)
	require.Equal(t, "p.Alpha", all[0].FQName())
	require.Equal(t, "p.Zebra", all[1].FQName())

	got, ok := s.Get("p.Alpha")
	require.True(t, ok)
	require.Equal(t, "Alpha", got.Name)
	require.Equal(t, 2, s.Len())
}
