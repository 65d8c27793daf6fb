// Package variant is C12: the cross-unit variant contract. A producing
// unit's emitted fakes are published as a consumable dependency whose
// attributes mirror its main API variant plus a unique capability
// identifier, so a consumer can opt into the fakes without pulling in
// the producer's full runtime implementation (spec §6).
//
// Go modules have no Gradle-style variant/capability system, so there
// is no direct teacher analogue; the capability identifier format is
// grounded loosely on internal/schema/registry.go's versioned
// capability-string constants (`ailang.error/v1`, `ailang.test/v1`):
// same "name/version" shape, applied here to a dependency capability
// instead of a schema tag.
package variant

import "fmt"

// Attributes mirrors a unit's published attribute set — the same
// platform/usage tags the main API variant publishes, copied
// unmodified onto the fakes variant so a consumer's existing attribute
// matching picks the right platform slice (spec §6: "attributes
// exactly mirror its main API variant").
type Attributes map[string]string

// Capability is the unique identifier `<group>:<name>-fakes:<version>`
// a consumer selects to opt into a producer's fakes variant.
type Capability struct {
	Group   string
	Name    string
	Version string
}

// String renders the capability's canonical identifier.
func (c Capability) String() string {
	return fmt.Sprintf("%s:%s-fakes:%s", c.Group, c.Name, c.Version)
}

// Variant is the consumable dependency a producing unit publishes: the
// emitted files are its sole artifact set.
type Variant struct {
	Attributes   Attributes
	Capability   Capability
	ArtifactDirs []string // one per emitted-file root contributed to this variant
}

// NewVariant builds the fakes variant for a unit, copying its main
// variant's attributes and deriving the fakes capability from its
// group/name/version.
func NewVariant(mainAttributes Attributes, group, name, version string, artifactDirs []string) *Variant {
	attrs := make(Attributes, len(mainAttributes))
	for k, v := range mainAttributes {
		attrs[k] = v
	}
	return &Variant{
		Attributes:   attrs,
		Capability:   Capability{Group: group, Name: name, Version: version},
		ArtifactDirs: artifactDirs,
	}
}

// MatchesAttributes reports whether a consumer's requested attribute
// set is satisfied by this variant — every requested key must be
// present with an equal value; the variant may carry additional
// attributes the consumer didn't ask about.
func (v *Variant) MatchesAttributes(requested Attributes) bool {
	for k, want := range requested {
		if got, ok := v.Attributes[k]; !ok || got != want {
			return false
		}
	}
	return true
}
