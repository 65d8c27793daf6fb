// Package errors provides centralized error code definitions for the
// fake-synthesis generator. Codes follow a consistent per-phase
// taxonomy (spec §7), generalized from the teacher's PAR###/MOD###/
// LDR### prefix-per-phase scheme.
package errors

// Error code constants organized by phase.
const (
	// ============================================================================
	// Eligibility errors (FAK###) — Phase F, spec §4.6.
	// Reported; the declaration is dropped; compilation continues.
	// ============================================================================

	// FAK001 indicates @Fake targets a declaration kind the analyzer
	// does not recognize. Concrete classes are not rejected here: they
	// are accepted when they declare members, and rejected with FAK006
	// otherwise.
	FAK001 = "FAK001"

	// FAK002 indicates @Fake targets a sealed declaration.
	FAK002 = "FAK002"

	// FAK003 indicates @Fake targets a local declaration.
	FAK003 = "FAK003"

	// FAK004 indicates @Fake targets an object declaration.
	FAK004 = "FAK004"

	// FAK005 indicates @Fake targets an annotation class.
	FAK005 = "FAK005"

	// FAK006 indicates a class target has no abstract or open members.
	FAK006 = "FAK006"

	// FAK007 indicates two declared members share a name.
	FAK007 = "FAK007"

	// FAK010 indicates a supertype spelling could not be resolved; the
	// supertype is skipped rather than the whole declaration rejected.
	FAK010 = "FAK010"

	// ============================================================================
	// Transform/sanitization errors (FAT###) — Phase T.
	// ============================================================================

	// FAT001 indicates sanitizing a type spelling produced an empty name.
	FAT001 = "FAT001"

	// ============================================================================
	// Internal synthesis invariant violations (FAS###) — Phase S.
	// Impossible under validated input; a bug here aborts only the
	// current file's emission.
	// ============================================================================

	// FAS001 indicates a builder was finalized without a required field.
	FAS001 = "FAS001"

	// FAS002 indicates a class was given more than one supertype.
	FAS002 = "FAS002"

	// ============================================================================
	// Cache I/O warnings (FAC###). Always treated as a cache miss.
	// ============================================================================

	// FAC001 indicates the cache file could not be written on Save.
	// An unreadable or malformed cache file is not reported: Load
	// treats it as an empty cache.
	FAC001 = "FAC001"

	// ============================================================================
	// Collector errors (FAX###). Fatal to the collector task only.
	// ============================================================================

	// FAX001 indicates copying an emitted file into a consumer source
	// set failed. A file with no package declaration in its first ten
	// lines is not an error: it goes to the common source set.
	FAX001 = "FAX001"

	// FAX002 indicates the producer's emitted directory was missing.
	FAX002 = "FAX002"
)

// Info provides structured information about an error code: which
// phase produced it and a short human category, used by telemetry to
// group counts without re-deriving the prefix each time.
type Info struct {
	Code        string
	Phase       string
	Category    string
	Description string
}

// Registry maps error codes to their information.
var Registry = map[string]Info{
	FAK001: {FAK001, "analyze", "eligibility", "Not an eligible declaration kind"},
	FAK002: {FAK002, "analyze", "eligibility", "Sealed declaration"},
	FAK003: {FAK003, "analyze", "eligibility", "Local declaration"},
	FAK004: {FAK004, "analyze", "eligibility", "Object declaration"},
	FAK005: {FAK005, "analyze", "eligibility", "Annotation class"},
	FAK006: {FAK006, "analyze", "eligibility", "Class has no abstract/open members"},
	FAK007: {FAK007, "analyze", "eligibility", "Duplicate declared member name"},
	FAK010: {FAK010, "analyze", "resolution", "Unresolvable supertype, skipped"},
	FAT001: {FAT001, "transform", "sanitize", "Type spelling sanitized to empty name"},
	FAS001: {FAS001, "synth", "invariant", "Builder missing a required field"},
	FAS002: {FAS002, "synth", "invariant", "Class given more than one supertype"},
	FAC001: {FAC001, "cache", "io", "Cache file could not be written"},
	FAX001: {FAX001, "collect", "io", "Emitted file could not be copied"},
	FAX002: {FAX002, "collect", "io", "Producer emitted directory missing"},
}

// GetInfo returns information about an error code.
func GetInfo(code string) (Info, bool) {
	info, exists := Registry[code]
	return info, exists
}

// IsEligibilityError reports whether code is a Phase F eligibility error.
func IsEligibilityError(code string) bool {
	info, exists := GetInfo(code)
	return exists && info.Phase == "analyze" && info.Category == "eligibility"
}
