package synth_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sunholo/fakegen/internal/render"
	"github.com/sunholo/fakegen/internal/synth"
	"github.com/sunholo/fakegen/internal/transform"
	"github.com/sunholo/fakegen/internal/typeref"
)

func greeterInputs() *transform.CodeGenInputs {
	return &transform.CodeGenInputs{
		Package:    "com.example.fakes",
		TargetName: "Greeter",
		IsClass:    false,
		Properties: []transform.PropertySpec{
			{Name: "name", TypeRef: typeref.NewSimple("String"), Mutable: true},
		},
		Functions: []transform.FunctionSpec{
			{
				Name:       "hello",
				Params:     []transform.ParamSpec{{Name: "name", TypeRef: typeref.NewSimple("String"), ErasedType: typeref.NewSimple("String")}},
				ReturnType: typeref.NewSimple("String"), ErasedReturnType: typeref.NewSimple("String"),
			},
		},
	}
}

func TestBuildFileEmitsFourPieceMemberOrder(t *testing.T) {
	r := &synth.Recipe{Inputs: greeterInputs()}
	f, err := r.BuildFile()
	require.NoError(t, err)

	text := render.File(f)

	// Piece order within the impl class: count holders, behaviors,
	// overrides, configures (spec §4.4).
	countIdx := strings.Index(text, "_helloCallCount")
	behaviorIdx := strings.Index(text, "var helloBehavior")
	overrideIdx := strings.Index(text, "override fun hello")
	configureIdx := strings.Index(text, "internal fun configureHello")

	require.True(t, countIdx >= 0 && countIdx < behaviorIdx, text)
	require.True(t, behaviorIdx < overrideIdx, text)
	require.True(t, overrideIdx < configureIdx, text)
}

func TestBuildFileIdentityPatternDefault(t *testing.T) {
	r := &synth.Recipe{Inputs: greeterInputs()}
	f, err := r.BuildFile()
	require.NoError(t, err)

	text := render.File(f)
	require.Contains(t, text, "{ it }", "single-param function returning its param type should default via the identity pattern")
}

func TestBuildFileGeneratesConfigClassAndFactory(t *testing.T) {
	r := &synth.Recipe{Inputs: greeterInputs()}
	f, err := r.BuildFile()
	require.NoError(t, err)

	text := render.File(f)
	require.Contains(t, text, "class FakeGreeterConfig")
	require.Contains(t, text, "fun fakeGreeter(")
	require.Contains(t, text, "FakeGreeterImpl()")
}

func TestBuildFileOpenClassMemberFallsBackToSuper(t *testing.T) {
	inputs := &transform.CodeGenInputs{
		Package:    "com.example.fakes",
		TargetName: "Base",
		IsClass:    true,
		Functions: []transform.FunctionSpec{
			{Name: "greet", ReturnType: typeref.NewSimple("String"), ErasedReturnType: typeref.NewSimple("String"), Abstract: false},
		},
	}
	r := &synth.Recipe{Inputs: inputs}
	f, err := r.BuildFile()
	require.NoError(t, err)

	text := render.File(f)
	require.Contains(t, text, "greetBehavior?.invoke() ?: super.greet()")
}

func TestBuildFileAbstractClassMemberMustConfigure(t *testing.T) {
	inputs := &transform.CodeGenInputs{
		Package:    "com.example.fakes",
		TargetName: "Base",
		IsClass:    true,
		Functions: []transform.FunctionSpec{
			{Name: "greet", ReturnType: typeref.NewSimple("String"), ErasedReturnType: typeref.NewSimple("String"), Abstract: true},
		},
	}
	r := &synth.Recipe{Inputs: inputs}
	f, err := r.BuildFile()
	require.NoError(t, err)

	text := render.File(f)
	require.Contains(t, text, "must be configured")
}

func TestBuildFileMethodLevelGenericErasesAndCasts(t *testing.T) {
	methodTP := []transform.TypeParamSpec{{Name: "T"}}
	inputs := &transform.CodeGenInputs{
		Package:    "com.example.fakes",
		TargetName: "Repo",
		IsClass:    false,
		Pattern:    transform.MethodLevel,
		Functions: []transform.FunctionSpec{
			{
				Name:                "fetch",
				TypeParams:          methodTP,
				ReturnType:          typeref.NewSimple("T"),
				ErasedReturnType:    typeref.NewSimple("Any?"),
				HasMethodTypeParams: true,
			},
		},
	}
	r := &synth.Recipe{Inputs: inputs}
	f, err := r.BuildFile()
	require.NoError(t, err)

	text := render.File(f)
	require.Contains(t, text, "@Suppress(\"UNCHECKED_CAST\")")
	require.Contains(t, text, "var fetchBehavior: () -> Any?")
}
