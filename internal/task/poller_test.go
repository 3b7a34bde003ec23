package task

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/museed/museed-tui/internal/api"
)

func fastOpts() Options {
	return Options{Interval: time.Millisecond}
}

// scripted returns a StatusFunc that replays the given responses in
// order and counts how many requests were made. Once the script is
// exhausted it keeps returning the last response.
func scripted(calls *atomic.Int32, responses ...*api.TaskStatus) StatusFunc {
	return func(_ context.Context, _ string) (*api.TaskStatus, error) {
		n := int(calls.Add(1))
		if n > len(responses) {
			n = len(responses)
		}
		return responses[n-1], nil
	}
}

func TestRun_SuccessAfterPending(t *testing.T) {
	var calls atomic.Int32
	status := scripted(&calls,
		&api.TaskStatus{Status: api.TaskPending},
		&api.TaskStatus{Status: api.TaskPending},
		&api.TaskStatus{Status: api.TaskSuccess, Result: &api.TaskResult{PlaylistID: 42}},
	)

	var progress []string
	p := New(status, fastOpts(), zap.NewNop())
	id, err := p.Run(context.Background(), "abc", func(st string, _ int) {
		progress = append(progress, st)
	})
	require.NoError(t, err)
	require.Equal(t, int64(42), id)

	// Polling stops on the first terminal response.
	require.Equal(t, int32(3), calls.Load())
	require.Equal(t, []string{"PENDING", "PENDING"}, progress)
}

func TestRun_FailureStopsImmediately(t *testing.T) {
	var calls atomic.Int32
	status := scripted(&calls,
		&api.TaskStatus{Status: api.TaskFailure, Result: &api.TaskResult{Error: "boom"}},
	)

	p := New(status, fastOpts(), zap.NewNop())
	_, err := p.Run(context.Background(), "abc", nil)
	require.EqualError(t, err, "Task Failed: boom")

	// Give a trailing tick a chance to fire; no request may follow
	// the FAILURE response.
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, int32(1), calls.Load())
}

func TestRun_FailureWithoutMessage(t *testing.T) {
	var calls atomic.Int32
	status := scripted(&calls, &api.TaskStatus{Status: api.TaskFailure})

	p := New(status, fastOpts(), zap.NewNop())
	_, err := p.Run(context.Background(), "abc", nil)
	require.EqualError(t, err, "Task Failed: playlist generation failed")
}

func TestRun_TransientErrorCountsAsAttempt(t *testing.T) {
	var calls atomic.Int32
	status := func(_ context.Context, _ string) (*api.TaskStatus, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("connection refused")
		}
		return &api.TaskStatus{Status: api.TaskSuccess, Result: &api.TaskResult{PlaylistID: 7}}, nil
	}

	p := New(status, fastOpts(), zap.NewNop())
	id, err := p.Run(context.Background(), "abc", nil)
	require.NoError(t, err)
	require.Equal(t, int64(7), id)
	require.Equal(t, int32(2), calls.Load())
}

func TestRun_MaxAttempts(t *testing.T) {
	var calls atomic.Int32
	status := scripted(&calls, &api.TaskStatus{Status: api.TaskStarted})

	opts := Options{Interval: time.Millisecond, MaxAttempts: 3}
	p := New(status, opts, zap.NewNop())
	_, err := p.Run(context.Background(), "abc", nil)
	require.EqualError(t, err, "Task Failed: no result after 3 attempts")
	require.Equal(t, int32(3), calls.Load())
}

func TestRun_Timeout(t *testing.T) {
	var calls atomic.Int32
	status := scripted(&calls, &api.TaskStatus{Status: api.TaskPending})

	opts := Options{Interval: 5 * time.Millisecond, Timeout: 25 * time.Millisecond}
	p := New(status, opts, zap.NewNop())
	_, err := p.Run(context.Background(), "abc", nil)
	require.EqualError(t, err, "Task Failed: timed out after 25ms")
}

func TestRun_ContextCancel(t *testing.T) {
	var calls atomic.Int32
	status := scripted(&calls, &api.TaskStatus{Status: api.TaskPending})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	p := New(status, Options{Interval: time.Hour}, zap.NewNop())
	go func() {
		_, err := p.Run(ctx, "abc", nil)
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("poller did not stop on cancellation")
	}
}

func TestRun_SuccessCarryingWorkerError(t *testing.T) {
	// The worker reports some failures as SUCCESS with an error
	// payload; the carried message must survive.
	var calls atomic.Int32
	status := scripted(&calls, &api.TaskStatus{
		Status: api.TaskSuccess,
		Result: &api.TaskResult{Error: "No similar tracks found in database."},
	})

	p := New(status, fastOpts(), zap.NewNop())
	_, err := p.Run(context.Background(), "abc", nil)
	require.EqualError(t, err, "Task Failed: No similar tracks found in database.")
	require.Equal(t, int32(1), calls.Load())
}

func TestRun_SuccessWithExplicitFailureFlag(t *testing.T) {
	var calls atomic.Int32
	status := scripted(&calls, &api.TaskStatus{
		Status: api.TaskSuccess,
		Result: &api.TaskResult{Success: false},
	})

	p := New(status, fastOpts(), zap.NewNop())
	_, err := p.Run(context.Background(), "abc", nil)
	require.EqualError(t, err, "Task Failed: playlist generation failed")
}

func TestRun_SuccessWithoutPlaylist(t *testing.T) {
	var calls atomic.Int32
	status := scripted(&calls, &api.TaskStatus{Status: api.TaskSuccess})

	p := New(status, fastOpts(), zap.NewNop())
	_, err := p.Run(context.Background(), "abc", nil)
	require.EqualError(t, err, "Task Failed: task succeeded without a playlist id")
}
