package telemetry_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sunholo/fakegen/internal/telemetry"
)

func TestLoggerLevelGating(t *testing.T) {
	var buf bytes.Buffer
	l := &telemetry.Logger{Level: telemetry.Info, Writer: &buf}

	l.Debugf("hidden")
	require.Empty(t, buf.String())

	l.Infof("shown")
	require.Contains(t, buf.String(), "shown")
}

func TestLoggerErrorsAndWarningsAlwaysPrint(t *testing.T) {
	var buf bytes.Buffer
	l := &telemetry.Logger{Level: telemetry.Quiet, Writer: &buf}

	l.Errorf("boom")
	l.Warnf("careful")

	out := buf.String()
	require.Contains(t, out, "boom")
	require.Contains(t, out, "careful")
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, telemetry.Debug, telemetry.ParseLevel("debug"))
	require.Equal(t, telemetry.Trace, telemetry.ParseLevel("trace"))
	require.Equal(t, telemetry.Quiet, telemetry.ParseLevel("quiet"))
	require.Equal(t, telemetry.Info, telemetry.ParseLevel("anything-else"))
}

func TestCountersSummary(t *testing.T) {
	c := &telemetry.Counters{}
	c.IncGenerated()
	c.IncGenerated()
	c.IncSkipped()
	c.IncRejected()
	c.IncWarning()

	require.Equal(t, int64(2), c.Generated())
	require.Equal(t, "generated=2 skipped=1 rejected=1 warnings=1", c.Summary())
}

func TestPhaseTimerBreakdownSortedByPhaseName(t *testing.T) {
	timer := telemetry.NewPhaseTimer()
	timer.Record("transform", 2*time.Millisecond)
	timer.Record("analyze", time.Millisecond)
	timer.Record("analyze", time.Millisecond)

	breakdown := timer.Breakdown()
	require.Len(t, breakdown, 2)
	require.Equal(t, "analyze", breakdown[0].Phase)
	require.Equal(t, 2, breakdown[0].Count)
	require.Equal(t, "transform", breakdown[1].Phase)
}

func TestObserveReturnsFunctionResultAndRecordsDuration(t *testing.T) {
	timer := telemetry.NewPhaseTimer()
	got := telemetry.Observe(timer, "synth", func() int { return 42 })
	require.Equal(t, 42, got)
	require.Len(t, timer.Breakdown(), 1)
}
