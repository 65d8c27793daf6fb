// Package telemetry is C10: phase timing, per-declaration metrics, and
// leveled log output (spec §4.10). Levels are Quiet (errors only),
// Info (one-line summary per unit), Debug (per-phase breakdown), Trace
// (per-declaration); errors and warnings print regardless of level.
//
// The counters half generalizes internal/eval_analyzer/analyzer.go's
// per-run metrics accumulation (there: issue frequency counts across
// eval results; here: generated/skipped/error counts across
// declarations). The console half follows internal/repl/repl.go's
// fatih/color-wrapped SprintFuncs exactly: green for success, red for
// errors, yellow for warnings, cyan for phase summaries, dim for trace.
package telemetry

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fatih/color"
)

// Level is a logging verbosity level (spec §4.10).
type Level int

const (
	Quiet Level = iota
	Info
	Debug
	Trace
)

func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return Debug
	case "trace":
		return Trace
	case "quiet":
		return Quiet
	default:
		return Info
	}
}

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

// Logger is the leveled, colored console logger every phase shares.
type Logger struct {
	Level  Level
	Writer io.Writer // defaults to os.Stderr when nil
}

// NewLogger builds a Logger at the given level, writing to stderr.
func NewLogger(level Level) *Logger {
	return &Logger{Level: level, Writer: os.Stderr}
}

func (l *Logger) out() io.Writer {
	if l.Writer == nil {
		return os.Stderr
	}
	return l.Writer
}

// Errorf always prints, regardless of level (spec §4.10).
func (l *Logger) Errorf(format string, args ...any) {
	fmt.Fprintln(l.out(), red(bold("error: ")+fmt.Sprintf(format, args...)))
}

// Warnf always prints, regardless of level (spec §4.10).
func (l *Logger) Warnf(format string, args ...any) {
	fmt.Fprintln(l.out(), yellow("warning: "+fmt.Sprintf(format, args...)))
}

// Infof prints at Info level and above.
func (l *Logger) Infof(format string, args ...any) {
	if l.Level < Info {
		return
	}
	fmt.Fprintln(l.out(), cyan(fmt.Sprintf(format, args...)))
}

// Debugf prints at Debug level and above.
func (l *Logger) Debugf(format string, args ...any) {
	if l.Level < Debug {
		return
	}
	fmt.Fprintln(l.out(), fmt.Sprintf(format, args...))
}

// Tracef prints at Trace level only.
func (l *Logger) Tracef(format string, args ...any) {
	if l.Level < Trace {
		return
	}
	fmt.Fprintln(l.out(), dim(fmt.Sprintf(format, args...)))
}

// Success prints a green one-line confirmation at Info level and above.
func (l *Logger) Success(format string, args ...any) {
	if l.Level < Info {
		return
	}
	fmt.Fprintln(l.out(), green(fmt.Sprintf(format, args...)))
}

// Counters tracks per-run, per-phase outcome counts atomically (spec
// §5: "reads-of-total are approximate during a pass and exact
// afterward").
type Counters struct {
	generated int64
	skipped   int64
	rejected  int64
	warnings  int64
}

func (c *Counters) IncGenerated() { atomic.AddInt64(&c.generated, 1) }
func (c *Counters) IncSkipped()   { atomic.AddInt64(&c.skipped, 1) }
func (c *Counters) IncRejected()  { atomic.AddInt64(&c.rejected, 1) }
func (c *Counters) IncWarning()   { atomic.AddInt64(&c.warnings, 1) }

func (c *Counters) Generated() int64 { return atomic.LoadInt64(&c.generated) }
func (c *Counters) Skipped() int64   { return atomic.LoadInt64(&c.skipped) }
func (c *Counters) Rejected() int64  { return atomic.LoadInt64(&c.rejected) }
func (c *Counters) Warnings() int64  { return atomic.LoadInt64(&c.warnings) }

// Summary formats the Info-level one-line-per-unit summary.
func (c *Counters) Summary() string {
	return fmt.Sprintf("generated=%d skipped=%d rejected=%d warnings=%d",
		c.Generated(), c.Skipped(), c.Rejected(), c.Warnings())
}

// PhaseTimer records wall-clock duration per named phase across a run,
// thread-safe for concurrent Phase-F declaration processing (spec §5).
type PhaseTimer struct {
	mu    sync.Mutex
	total map[string]time.Duration
	count map[string]int
}

// NewPhaseTimer creates an empty timer.
func NewPhaseTimer() *PhaseTimer {
	return &PhaseTimer{total: map[string]time.Duration{}, count: map[string]int{}}
}

// Record adds one observation of phase taking d.
func (t *PhaseTimer) Record(phase string, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.total[phase] += d
	t.count[phase]++
}

// Observe runs fn and records its duration under phase, returning
// whatever fn returns.
func Observe[T any](t *PhaseTimer, phase string, fn func() T) T {
	start := timeNow()
	result := fn()
	t.Record(phase, timeNow().Sub(start))
	return result
}

// timeNow is indirected so tests can't accidentally depend on wall
// clock ordering across runs; production always uses time.Now.
var timeNow = time.Now

// Breakdown returns the per-phase total duration and call count,
// sorted by phase name, for the Debug-level per-phase breakdown.
type PhaseStat struct {
	Phase string
	Total time.Duration
	Count int
}

func (t *PhaseTimer) Breakdown() []PhaseStat {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]PhaseStat, 0, len(t.total))
	for phase, total := range t.total {
		out = append(out, PhaseStat{Phase: phase, Total: total, Count: t.count[phase]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Phase < out[j].Phase })
	return out
}
