// internal/engine/runner.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// Task is a timed action run between reads (refresh writes, polls).
// A Task returning an ErrTransport error ends the loop; any other error is
// logged and the loop continues.
type Task interface {
	Tick(now time.Time) error
}

// TaskFunc adapts a function to Task.
type TaskFunc func(now time.Time) error

func (f TaskFunc) Tick(now time.Time) error { return f(now) }

// Run is the session loop: read a chunk, feed it, check the frame timeout,
// run due tasks. One goroutine, no overlap.
//
// It returns nil on cancellation or end of stream, and an ErrTransport
// error when the link fails. Partial frames are discarded on exit.
func (e *Engine) Run(ctx context.Context, tasks ...Task) error {
	defer e.det.Reset()

	for {
		select {
		case <-ctx.Done():
			e.log.Info().Msg("monitoring stopped")
			return nil
		default:
		}

		chunk, err := e.tr.Read(e.cfg.ReadChunk)
		if err != nil {
			if errors.Is(err, io.EOF) {
				e.log.Info().Msg("end of stream")
				return nil
			}
			return e.fail(fmt.Errorf("read: %w", err))
		}

		e.Feed(chunk)
		e.CheckTimeout()

		now := e.clock.Now()
		for _, t := range tasks {
			if err := t.Tick(now); err != nil {
				if errors.Is(err, ErrTransport) {
					return err
				}
				e.log.Warn().Err(err).Msg("task failed")
			}
		}
	}
}
