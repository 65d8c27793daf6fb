package errors

import (
	"encoding/json"
	"errors"

	"github.com/sunholo/fakegen/internal/source"
)

// Report is the canonical structured error type for the generator. All
// error builders return *Report, which survives an errors.As() unwrap
// as a *ReportError — the same shape as the teacher's own
// ailang.error/v1 reports, renamed to this generator's schema.
type Report struct {
	Schema  string         `json:"schema"` // always "fakegen.error/v1"
	Code    string         `json:"code"`
	Phase   string         `json:"phase"` // "analyze", "transform", "synth", "cache", "collect"
	Message string         `json:"message"`
	Span    *source.Span   `json:"span,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	Fix     *Fix           `json:"fix,omitempty"`
}

// Fix is a suggested remediation, surfaced to the user alongside a
// Report (e.g. "configure this member via the generated DSL").
type Fix struct {
	Suggestion string `json:"suggestion"`
}

// ReportError wraps a Report as an error.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown error"
	}
	return e.Rep.Code + ": " + e.Rep.Message
}

// AsReport attempts to extract a Report from an error chain.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// Wrap wraps a Report as a *ReportError, suitable for returning as an error.
func Wrap(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// ToJSON converts a Report to JSON with encoding/json: struct fields
// appear in declaration order and Data's map keys are sorted, so the
// output is deterministic. HTML characters are escaped (the
// encoding/json default).
func (r *Report) ToJSON(compact bool) (string, error) {
	if compact {
		data, err := json.Marshal(r)
		return string(data), err
	}
	data, err := json.MarshalIndent(r, "", "  ")
	return string(data), err
}

// New builds a Report for the given code/phase/message, with no span
// or fix. Callers attach those with WithSpan/WithFix.
func New(code, phase, message string) *Report {
	return &Report{Schema: "fakegen.error/v1", Code: code, Phase: phase, Message: message}
}

// WithSpan attaches a source span and returns the same Report for chaining.
func (r *Report) WithSpan(s source.Span) *Report {
	r.Span = &s
	return r
}

// WithData attaches structured data and returns the same Report for chaining.
func (r *Report) WithData(data map[string]any) *Report {
	r.Data = data
	return r
}

// WithFix attaches a suggested fix and returns the same Report for chaining.
func (r *Report) WithFix(suggestion string) *Report {
	r.Fix = &Fix{Suggestion: suggestion}
	return r
}
