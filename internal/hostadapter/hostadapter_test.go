package hostadapter_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sunholo/fakegen/internal/hostadapter"
	"github.com/sunholo/fakegen/internal/source"
)

func TestInMemoryResolveByFQNameAndSimpleName(t *testing.T) {
	m := hostadapter.NewInMemory()
	m.Add(&source.RawDecl{Name: "Greeter", Package: "com.example", Kind: source.KindInterface})

	byFQ, ok := m.Resolve("com.example.Greeter")
	require.True(t, ok)
	require.Equal(t, "Greeter", byFQ.Name)

	bySimple, ok := m.Resolve("Greeter")
	require.True(t, ok)
	require.Equal(t, "com.example", bySimple.Package)

	_, ok = m.Resolve("Nope")
	require.False(t, ok)
}

func TestInMemoryAllSortedByFQName(t *testing.T) {
	m := hostadapter.NewInMemory()
	m.Add(&source.RawDecl{Name: "Zebra", Package: "p"})
	m.Add(&source.RawDecl{Name: "Alpha", Package: "p"})

	all := m.All()
	require.Len(t, all, 2)
	require.Equal(t, "Alpha", all[0].Name)
	require.Equal(t, "Zebra", all[1].Name)
}

const fixtureYAML = `
decls:
  - name: Greeter
    package: com.example
    kind: interface
    functions:
      - name: hello
        returnType: String
        params:
          - name: name
            type: String
  - name: Repo
    package: com.example
    kind: abstractClass
    typeParams:
      - name: T
        bounds: ["Any"]
    properties:
      - name: cache
        type: "T?"
        nullable: true
        abstract: true
`

func TestLoadFixtureParsesDeclsAndKinds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fixtureYAML), 0o644))

	m, err := hostadapter.LoadFixture(path)
	require.NoError(t, err)

	greeter, ok := m.Resolve("com.example.Greeter")
	require.True(t, ok)
	require.Equal(t, source.KindInterface, greeter.Kind)
	require.Len(t, greeter.Functions, 1)
	require.Equal(t, "hello", greeter.Functions[0].Name)

	repo, ok := m.Resolve("com.example.Repo")
	require.True(t, ok)
	require.Equal(t, source.KindAbstractClass, repo.Kind)
	require.Len(t, repo.TypeParams, 1)
	require.Equal(t, "T", repo.TypeParams[0].Name)
	require.True(t, repo.Properties[0].Abstract)
}

func TestLoadFixtureMissingFileErrors(t *testing.T) {
	_, err := hostadapter.LoadFixture(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
