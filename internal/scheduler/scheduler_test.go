package scheduler

import (
	"bytes"
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janakawicks/manageiq/internal/logging"
)

func newTestScheduler(t *testing.T) (*Scheduler, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	s := New(logging.NewWithWriter(logging.Config{Level: logging.LevelDebug, Format: logging.FormatText}, &logs))
	t.Cleanup(s.Stop)
	return s, &logs
}

func noop(context.Context) error { return nil }

func TestValidateSchedule(t *testing.T) {
	tests := []struct {
		expr    string
		wantErr bool
	}{
		{"@hourly", false},
		{"*/15 * * * *", false},
		{"0 3 * * 1-5", false},
		{"", true},
		{"every hour", true},
		{"61 * * * *", true},
	}

	for _, tt := range tests {
		err := ValidateSchedule(tt.expr)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateSchedule(%q) error = %v, wantErr %v", tt.expr, err, tt.wantErr)
		}
	}
}

func TestAddJob(t *testing.T) {
	s, logs := newTestScheduler(t)

	require.NoError(t, s.AddJob("purge_samples", "@hourly", noop))
	assert.Contains(t, logs.String(), "Scheduled job")

	assert.Error(t, s.AddJob("purge_samples", "@daily", noop), "duplicate name")
	assert.Error(t, s.AddJob("", "@daily", noop), "empty name")
	assert.Error(t, s.AddJob("broken", "not a schedule", noop), "bad schedule")
	assert.Error(t, s.AddJob("nil", "@daily", nil), "nil job")

	jobs := s.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, "purge_samples", jobs[0].Name)
	assert.Equal(t, "@hourly", jobs[0].Schedule)
}

func TestRemoveJob(t *testing.T) {
	s, _ := newTestScheduler(t)
	require.NoError(t, s.AddJob("a", "@hourly", noop))

	require.NoError(t, s.RemoveJob("a"))
	assert.Empty(t, s.Jobs())
	assert.Error(t, s.RemoveJob("a"))
}

func TestJobsSortedByName(t *testing.T) {
	s, _ := newTestScheduler(t)
	require.NoError(t, s.AddJob("vacuum", "@daily", noop))
	require.NoError(t, s.AddJob("purge", "@hourly", noop))

	jobs := s.Jobs()
	require.Len(t, jobs, 2)
	assert.Equal(t, "purge", jobs[0].Name)
	assert.Equal(t, "vacuum", jobs[1].Name)
}

func TestRunNowRecordsOutcome(t *testing.T) {
	s, logs := newTestScheduler(t)

	var calls atomic.Int32
	require.NoError(t, s.AddJob("purge", "@hourly", func(context.Context) error {
		calls.Add(1)
		return fmt.Errorf("database unavailable")
	}))

	before := time.Now()
	require.NoError(t, s.RunNow("purge"))

	assert.Equal(t, int32(1), calls.Load())
	jobs := s.Jobs()
	require.Len(t, jobs, 1)
	assert.False(t, jobs[0].LastRun.Before(before))
	assert.Equal(t, "database unavailable", jobs[0].LastError)
	assert.False(t, jobs[0].Running)
	assert.Contains(t, logs.String(), "Scheduled job failed")

	assert.Error(t, s.RunNow("missing"))
}

func TestOverlappingRunsAreSkipped(t *testing.T) {
	s, logs := newTestScheduler(t)

	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	require.NoError(t, s.AddJob("slow", "@hourly", func(context.Context) error {
		calls.Add(1)
		close(started)
		<-release
		return nil
	}))

	done := make(chan struct{})
	go func() {
		_ = s.RunNow("slow")
		close(done)
	}()
	<-started

	require.NoError(t, s.RunNow("slow"))
	close(release)
	<-done

	assert.Equal(t, int32(1), calls.Load())
	assert.Contains(t, logs.String(), "already running")
}

func TestStartStop(t *testing.T) {
	s, _ := newTestScheduler(t)

	require.NoError(t, s.Start())
	assert.Error(t, s.Start(), "second start")

	s.Stop()
	s.Stop()
	assert.Error(t, s.Start(), "restart after stop")
}

func TestStopCancelsJobContext(t *testing.T) {
	s, _ := newTestScheduler(t)

	var jobCtx context.Context
	require.NoError(t, s.AddJob("capture", "@hourly", func(ctx context.Context) error {
		jobCtx = ctx
		return nil
	}))
	require.NoError(t, s.Start())
	require.NoError(t, s.RunNow("capture"))
	require.NoError(t, jobCtx.Err())

	s.Stop()
	assert.ErrorIs(t, jobCtx.Err(), context.Canceled)
}
