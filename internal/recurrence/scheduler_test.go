package recurrence

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestScheduler_RunsImmediatelyAndStopsOnCancel(t *testing.T) {
	st := openTestStore(t)
	m := newTestMaterializer(st, date(2025, time.June, 1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s := NewScheduler(m, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
		s.Run(ctx)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop after cancellation")
	}
}

func TestNewScheduler_DefaultsInterval(t *testing.T) {
	s := NewScheduler(nil, 0, nil)
	require.Equal(t, DefaultInterval, s.interval)
}
