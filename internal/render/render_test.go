package render_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/fakegen/internal/codemodel"
	"github.com/sunholo/fakegen/internal/render"
)

// updateGoldens regenerates testdata/*.kt fixtures in place of hand
// diffing, following the same UPDATE_GOLDENS convention the teacher's
// golden-test tooling uses: UPDATE_GOLDENS=true go test ./... rewrites
// every fixture this test compares against.
var updateGoldens = os.Getenv("UPDATE_GOLDENS") == "true"

// compareWithGoldenFile compares got against testdata/<name>, the
// renderer's golden-file convention (spec's grounding is
// internal/ast/print.go's PrintProgram/golden-test style, generalized
// from an inline string literal to a file-backed fixture since a
// rendered source file is naturally multi-line text).
func compareWithGoldenFile(t *testing.T, name, got string) {
	t.Helper()
	path := filepath.Join("testdata", name)

	if updateGoldens {
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(got), 0o644))
		return
	}

	want, err := os.ReadFile(path)
	require.NoError(t, err, "golden file missing; rerun with UPDATE_GOLDENS=true to create it")
	if diff := cmp.Diff(string(want), got); diff != "" {
		t.Fatalf("%s mismatch (-want +got):\n%s", name, diff)
	}
}

func buildGreeterFake(t *testing.T) *codemodel.File {
	t.Helper()
	f, err := codemodel.NewFile("com.example.fakes").
		Header("GENERATED FILE - do not edit").
		Import("com.example.Greeter").
		Class("FakeGreeterImpl", func(c *codemodel.ClassBuilder) {
			c.Implements("Greeter", false)
			c.Property("helloCallCount", "Int", func(p *codemodel.PropertyBuilder) {
				p.Mutable().Initializer(codemodel.NumberLiteral{Text: "0"})
			})
			c.Function("hello", func(fn *codemodel.FunctionBuilder) {
				fn.Override()
				fn.Parameter("name", "String")
				fn.Returns("String")
				fn.Body("helloCallCount++", "return helloBehavior(name)")
			})
		}).
		Build()
	require.NoError(t, err)
	return f
}

func TestFileRendersExpectedKotlin(t *testing.T) {
	f := buildGreeterFake(t)

	want := `// GENERATED FILE - do not edit

package com.example.fakes

import com.example.Greeter

class FakeGreeterImpl : Greeter {
    var helloCallCount: Int = 0

    override fun hello(name: String): String {
        helloCallCount++
        return helloBehavior(name)
    }
}
`
	got := render.File(f)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("render.File mismatch (-want +got):\n%s", diff)
	}
}

func TestFileRenderIsDeterministic(t *testing.T) {
	f := buildGreeterFake(t)
	first := render.File(f)
	second := render.File(buildGreeterFake(t))
	require.Equal(t, first, second)
}

func buildGreeterConfigAndFactory(t *testing.T) *codemodel.File {
	t.Helper()
	f, err := codemodel.NewFile("com.example.fakes").
		Class("FakeGreeterConfig", func(c *codemodel.ClassBuilder) {
			c.Constructor("target", "FakeGreeterImpl", codemodel.Internal)
			c.Function("onGetHello", func(fn *codemodel.FunctionBuilder) {
				fn.Parameter("behavior", "() -> String").Returns("Unit")
				fn.Body("target.configureHello(behavior)")
			})
		}).
		TopLevelFunction("fakeGreeter", func(fn *codemodel.FunctionBuilder) {
			fn.ParameterWithDefault("configure", "FakeGreeterConfig.() -> Unit", codemodel.Raw{Text: "{}"})
			fn.Returns("Greeter")
			fn.Body(
				"val impl = FakeGreeterImpl()",
				"FakeGreeterConfig(impl).apply(configure)",
				"return impl",
			)
		}).
		Build()
	require.NoError(t, err)
	return f
}

// TestFileRendersConfigClassWithConstructor pins the primary-constructor
// rendering a FakeXConfig class relies on (spec §4.3/§6): the `target`
// link back to the fake instance is a constructor parameter, not an
// uninitialized body property, and the factory's one-arg call
// (`FakeGreeterConfig(impl)`) matches that constructor's arity.
func TestFileRendersConfigClassWithConstructor(t *testing.T) {
	f := buildGreeterConfigAndFactory(t)
	got := render.File(f)
	compareWithGoldenFile(t, "greeter_config.kt", got)
}

func TestRenderConstructorCallSuffix(t *testing.T) {
	f, err := codemodel.NewFile("com.example.fakes").
		Class("FakeBaseImpl", func(c *codemodel.ClassBuilder) {
			c.Implements("BaseFake", true)
		}).
		Build()
	require.NoError(t, err)

	got := render.File(f)
	require.Contains(t, got, "class FakeBaseImpl : BaseFake() {")
}

func TestRenderEmptyFunctionBody(t *testing.T) {
	f, err := codemodel.NewFile("p").
		Class("X", func(c *codemodel.ClassBuilder) {
			c.Function("noop", func(fn *codemodel.FunctionBuilder) {
				fn.Returns("Unit")
			})
		}).
		Build()
	require.NoError(t, err)

	got := render.File(f)
	require.Contains(t, got, "fun noop(): Unit {}")
}

func TestRenderSuspendAndTypeParams(t *testing.T) {
	f, err := codemodel.NewFile("p").
		Class("FakeRepoImpl", func(c *codemodel.ClassBuilder) {
			c.Function("fetch", func(fn *codemodel.FunctionBuilder) {
				fn.Suspend()
				fn.TypeParam("T", "Any")
				fn.Parameter("id", "String")
				fn.Returns("T")
				fn.Body("return fetchBehavior(id)")
			})
		}).
		Build()
	require.NoError(t, err)

	got := render.File(f)
	require.Contains(t, got, "suspend fun <T : Any> fetch(id: String): T {")
}
