package variant_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sunholo/fakegen/internal/variant"
)

func TestCapabilityString(t *testing.T) {
	c := variant.Capability{Group: "com.example", Name: "api", Version: "1.2.0"}
	require.Equal(t, "com.example:api-fakes:1.2.0", c.String())
}

func TestNewVariantCopiesMainAttributesAndDerivesCapability(t *testing.T) {
	main := variant.Attributes{"org.gradle.usage": "kotlin-api", "platform": "jvm"}
	v := variant.NewVariant(main, "com.example", "api", "1.0.0", []string{"build/generated/fakegen"})

	require.Equal(t, "com.example:api-fakes:1.0.0", v.Capability.String())
	require.Equal(t, "kotlin-api", v.Attributes["org.gradle.usage"])

	main["platform"] = "mutated"
	require.Equal(t, "jvm", v.Attributes["platform"], "NewVariant must copy attributes, not alias them")
}

func TestMatchesAttributes(t *testing.T) {
	v := variant.NewVariant(variant.Attributes{"platform": "jvm", "usage": "api"}, "g", "n", "1.0", nil)

	require.True(t, v.MatchesAttributes(variant.Attributes{"platform": "jvm"}))
	require.False(t, v.MatchesAttributes(variant.Attributes{"platform": "ios"}))
	require.True(t, v.MatchesAttributes(variant.Attributes{}))
}
