package codemodel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildSimpleFile(t *testing.T) {
	f, err := NewFile("com.example").
		Import("kotlinx.coroutines.flow.StateFlow").
		Class("FakeGreeterImpl", func(c *ClassBuilder) {
			c.Implements("Greeter", false)
			c.Function("hello", func(fn *FunctionBuilder) {
				fn.Parameter("name", "String")
				fn.Returns("String")
				fn.Override()
				fn.Body("return helloBehavior(name)")
			})
		}).
		Build()

	require.NoError(t, err)
	require.Equal(t, "com.example", f.Package)
	require.Len(t, f.Declarations, 1)
	require.Equal(t, "FakeGreeterImpl", f.Declarations[0].Name)
	require.Equal(t, "Greeter", f.Declarations[0].SuperType)
	require.False(t, f.Declarations[0].ConstructorCallSuffix)
}

func TestBuildRequiresReturnType(t *testing.T) {
	_, err := NewFunction("hello").Build()
	require.Error(t, err)
}

func TestBuildRequiresPropertyType(t *testing.T) {
	_, err := NewProperty("x", "").Build()
	require.Error(t, err)
}

func TestConstructorCallSuffixRequiresSuperType(t *testing.T) {
	_, err := NewClass("FakeBaseImpl").Implements("", true).Build()
	require.Error(t, err)
}

func TestClassConstructorParamCarriesVisibility(t *testing.T) {
	f, err := NewFile("com.example").
		Class("FakeGreeterConfig", func(c *ClassBuilder) {
			c.Constructor("target", "FakeGreeterImpl", Internal)
		}).
		Build()
	require.NoError(t, err)

	class := f.Declarations[0]
	require.Len(t, class.ConstructorParams, 1)
	require.Equal(t, "target", class.ConstructorParams[0].Name)
	require.Equal(t, "FakeGreeterImpl", class.ConstructorParams[0].Type)
	require.Equal(t, Internal, class.ConstructorParams[0].Visibility)
	require.Equal(t, Internal, class.ConstructorVisibility)
}

func TestImportsAreSortedAndDeduped(t *testing.T) {
	f, err := NewFile("p").
		Import("b", "a", "a").
		Class("X", func(c *ClassBuilder) {}).
		Build()
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, f.Imports)
}
