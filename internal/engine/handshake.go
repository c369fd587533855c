// internal/engine/handshake.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tamzrod/dwin-monitor/internal/frame"
	"github.com/tamzrod/dwin-monitor/internal/vp"
)

// Probe checks that the display is talking: it sends a read for name and
// waits up to window for the read frame of that address to come back.
// Up to attempts requests are made. Frames seen meanwhile are dispatched
// normally.
func (e *Engine) Probe(ctx context.Context, name string, attempts int, window time.Duration) error {
	addr, ok := e.reg.Resolve(name)
	if !ok {
		return fmt.Errorf("%w: %q", vp.ErrUnknownName, name)
	}
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		e.log.Info().Int("attempt", attempt).Str("vp", name).Msg("probing display")

		if _, err := e.SendReadByName(name); err != nil {
			return err
		}

		deadline := e.clock.Now().Add(window)
		for e.clock.Now().Before(deadline) {
			if err := ctx.Err(); err != nil {
				return err
			}

			chunk, err := e.tr.Read(e.cfg.ReadChunk)
			if err != nil {
				if errors.Is(err, io.EOF) {
					return fmt.Errorf("%w: stream ended during probe", ErrNoResponse)
				}
				return e.fail(err)
			}

			for _, b := range chunk {
				msg, ok := e.feed(b)
				if ok && msg.Command == frame.CmdRead && msg.Address == addr {
					e.log.Info().Str("vp", name).Msg("communication established")
					return nil
				}
			}
			e.CheckTimeout()
		}

		e.log.Warn().Int("attempt", attempt).Msg("no reply from display")
	}

	return fmt.Errorf("%w after %d attempts", ErrNoResponse, attempts)
}
