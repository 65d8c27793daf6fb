package defaulting_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sunholo/fakegen/internal/defaulting"
	"github.com/sunholo/fakegen/internal/typeref"
)

func resolve(t *testing.T, res *defaulting.Resolver, raw string, ctx defaulting.Context) string {
	t.Helper()
	return res.Resolve(typeref.Parse(raw), ctx).String()
}

func TestNullableDefaultsToNull(t *testing.T) {
	res := &defaulting.Resolver{}
	require.Equal(t, "null", resolve(t, res, "String?", defaulting.Context{}))
}

func TestPrimitiveDefaults(t *testing.T) {
	res := &defaulting.Resolver{}
	cases := map[string]string{
		"Int":     "0",
		"Long":    "0",
		"Short":   "0",
		"Byte":    "0",
		"Float":   "0.0f",
		"Double":  "0.0",
		"Boolean": "false",
		"Char":    `' '`,
		"String":  `""`,
	}
	for typ, want := range cases {
		require.Equal(t, want, resolve(t, res, typ, defaulting.Context{}), typ)
	}
}

func TestStdlibDefaults(t *testing.T) {
	res := &defaulting.Resolver{}
	require.Equal(t, "Unit", resolve(t, res, "Unit", defaulting.Context{}))
	require.Equal(t, "emptyFlow()", resolve(t, res, "Flow<Int>", defaulting.Context{}))
	require.Equal(t, "MutableStateFlow(0)", resolve(t, res, "StateFlow<Int>", defaulting.Context{}))
	require.Equal(t, "MutableStateFlow(0)", resolve(t, res, "MutableStateFlow<Int>", defaulting.Context{}))
	require.Equal(t, `Result.success("")`, resolve(t, res, "Result<String>", defaulting.Context{}))
}

func TestCollectionDefaults(t *testing.T) {
	res := &defaulting.Resolver{}
	require.Equal(t, "emptyList()", resolve(t, res, "List<String>", defaulting.Context{}))
	require.Equal(t, "emptyList()", resolve(t, res, "Collection<String>", defaulting.Context{}))
	require.Equal(t, "emptySet()", resolve(t, res, "Set<String>", defaulting.Context{}))
	require.Equal(t, "emptyMap()", resolve(t, res, "Map<String, Int>", defaulting.Context{}))
	require.Equal(t, "mutableListOf()", resolve(t, res, "MutableList<String>", defaulting.Context{}))
	require.Equal(t, "mutableSetOf()", resolve(t, res, "MutableSet<String>", defaulting.Context{}))
	require.Equal(t, "mutableMapOf()", resolve(t, res, "MutableMap<String, Int>", defaulting.Context{}))
}

func TestArrayOfClassTypeParamGetsSuppressedCast(t *testing.T) {
	res := &defaulting.Resolver{}
	ctx := defaulting.Context{ClassTypeParams: map[string]bool{"T": true}}
	got := resolve(t, res, "Array<T>", ctx)
	require.Contains(t, got, "@Suppress(\"UNCHECKED_CAST\")")
	require.Contains(t, got, "as Array<T>")
}

func TestArrayOfConcreteTypeHasNoSuppression(t *testing.T) {
	res := &defaulting.Resolver{}
	require.Equal(t, "emptyArray()", resolve(t, res, "Array<String>", defaulting.Context{}))
}

func TestFallbackForUserType(t *testing.T) {
	res := &defaulting.Resolver{}
	got := resolve(t, res, "UserRepo", defaulting.Context{})
	require.True(t, strings.HasPrefix(got, "error("))
	require.Contains(t, got, "UserRepo")
	require.Contains(t, got, "generated DSL", "the fallback message should point the user at the generated configure DSL")
}

func TestTracesAccumulateAndFormatDeterministically(t *testing.T) {
	res := &defaulting.Resolver{}
	res.Resolve(typeref.Parse("Int"), defaulting.Context{Location: "b.param"})
	res.Resolve(typeref.Parse("String"), defaulting.Context{Location: "a.param"})

	out := defaulting.FormatTraces(res.Traces())
	lines := strings.Split(out, "\n")
	require.True(t, strings.HasPrefix(lines[0], "Default values applied"))
	// sorted by location: "a.param" before "b.param"
	require.Contains(t, lines[1], "a.param")
	require.Contains(t, lines[2], "b.param")
}

func TestFormatTracesEmpty(t *testing.T) {
	require.Equal(t, "", defaulting.FormatTraces(nil))
}
