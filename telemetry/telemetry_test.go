package telemetry

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
)

// fakeClock advances by one millisecond on every reading.
func fakeClock() func() time.Time {
	now := time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Millisecond)
		return now
	}
}

func TestNoOpCollector(t *testing.T) {
	collector := FromContext(context.Background())
	_, ok := collector.(noOpCollector)
	assert.True(t, ok)

	timer := collector.Start("test")
	timer.Child("child").End()
	timer.End()

	var buf bytes.Buffer
	collector.Report(&buf, nil)
	assert.Equal(t, "", buf.String())
}

func TestWithCollector(t *testing.T) {
	collector := NewTimingCollector()
	ctx := WithCollector(context.Background(), collector)

	got, ok := FromContext(ctx).(*TimingCollector)
	assert.True(t, ok)
	assert.True(t, got == collector)
}

func TestStartTimerNests(t *testing.T) {
	collector := NewTimingCollector()
	collector.now = fakeClock()
	ctx := WithCollector(context.Background(), collector)

	ctx, report := StartTimer(ctx, "budget report")
	loadCtx, load := StartTimer(ctx, "load budget")
	_, actuals := StartTimer(loadCtx, "actuals")
	actuals.End()
	load.End()
	_, generate := StartTimer(ctx, "generate")
	generate.End()
	report.End()

	var buf bytes.Buffer
	collector.Report(&buf, nil)
	assert.Equal(t, "budget report: 7ms\n"+
		"├─ load budget: 3ms\n"+
		"│  └─ actuals: 1ms\n"+
		"└─ generate: 1ms\n", buf.String())
}

func TestTimerEndTwice(t *testing.T) {
	collector := NewTimingCollector()
	collector.now = fakeClock()

	timer := collector.Start("save")
	timer.End()
	timer.End()

	var buf bytes.Buffer
	collector.Report(&buf, nil)
	assert.Equal(t, "save: 1ms\n", buf.String())
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "5ms", formatDuration(5*time.Millisecond))
	assert.Equal(t, "999ms", formatDuration(999*time.Millisecond))
	assert.Equal(t, "1.50s", formatDuration(1500*time.Millisecond))
}
