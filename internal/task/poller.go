// Package task polls playlist-generation tasks until they settle.
package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/museed/museed-tui/internal/api"
)

const failurePrefix = "Task Failed: "

// StatusFunc fetches the current status of one task. It matches
// (*api.Client).TaskStatus.
type StatusFunc func(ctx context.Context, taskID string) (*api.TaskStatus, error)

// Options bound a polling run. Zero values fall back to the defaults.
type Options struct {
	Interval    time.Duration // delay between attempts
	MaxAttempts int           // 0 means unlimited
	Timeout     time.Duration // 0 means no deadline
}

func (o Options) withDefaults() Options {
	if o.Interval <= 0 {
		o.Interval = time.Second
	}
	return o
}

// Poller watches a generation task through the status endpoint and
// reports exactly one outcome per run.
type Poller struct {
	status StatusFunc
	opts   Options
	log    *zap.Logger
}

// New creates a poller. status is usually (*api.Client).TaskStatus.
func New(status StatusFunc, opts Options, log *zap.Logger) *Poller {
	return &Poller{status: status, opts: opts.withDefaults(), log: log}
}

// Run polls taskID until the task reaches a terminal state, the
// attempt budget runs out, the deadline passes, or ctx is cancelled.
// onProgress, when non-nil, is called once per non-terminal response
// with the reported status. On SUCCESS it returns the generated
// playlist id; every other outcome is an error.
func (p *Poller) Run(ctx context.Context, taskID string, onProgress func(status string, attempt int)) (int64, error) {
	if p.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.Timeout)
		defer cancel()
	}

	timer := time.NewTimer(0) // first attempt fires immediately
	defer timer.Stop()

	for attempt := 1; ; attempt++ {
		select {
		case <-ctx.Done():
			return 0, p.deadlineError(ctx)
		case <-timer.C:
		}

		st, err := p.status(ctx, taskID)
		if err == nil && st == nil {
			err = errors.New("empty status response")
		}
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return 0, p.deadlineError(ctx)
			}
			p.log.Warn("task status request failed",
				zap.String("task_id", taskID),
				zap.Int("attempt", attempt),
				zap.Error(err))
		case st.Status == api.TaskSuccess:
			// The worker reports some failures as SUCCESS with an
			// error payload instead of a playlist id.
			if r := st.Result; r != nil && (r.Error != "" || (!r.Success && r.PlaylistID == 0)) {
				msg := r.Error
				if msg == "" {
					msg = "playlist generation failed"
				}
				return 0, fmt.Errorf("%s%s", failurePrefix, msg)
			}
			if st.Result == nil || st.Result.PlaylistID == 0 {
				return 0, fmt.Errorf("%stask succeeded without a playlist id", failurePrefix)
			}
			return st.Result.PlaylistID, nil
		case st.Status == api.TaskFailure:
			msg := ""
			if st.Result != nil {
				msg = st.Result.Error
			}
			if msg == "" {
				msg = "playlist generation failed"
			}
			return 0, fmt.Errorf("%s%s", failurePrefix, msg)
		default:
			if onProgress != nil {
				onProgress(st.Status, attempt)
			}
		}

		if p.opts.MaxAttempts > 0 && attempt >= p.opts.MaxAttempts {
			return 0, fmt.Errorf("%sno result after %d attempts", failurePrefix, attempt)
		}
		timer.Reset(p.opts.Interval)
	}
}

func (p *Poller) deadlineError(ctx context.Context) error {
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("%stimed out after %s", failurePrefix, p.opts.Timeout)
	}
	return ctx.Err()
}
