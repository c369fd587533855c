// cmd/dwinmon/startup.go
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/tamzrod/dwin-monitor/internal/vp"
)

// pusher is the engine surface the startup push needs.
type pusher interface {
	Registry() *vp.Registry
	SendValue(addr uint16) ([]byte, error)
	SendWrite(name string, value any) ([]byte, error)
}

// startup pushes the stored values the display does not keep across power
// cycles, then the wall clock.
type startup struct {
	names   []string
	clockVP string
	format  string
	delay   time.Duration
}

func (s startup) run(ctx context.Context, eng pusher, now time.Time) error {
	for _, name := range s.names {
		addr, ok := eng.Registry().Resolve(name)
		if !ok {
			return fmt.Errorf("init.push: unknown vp %q", name)
		}
		if _, err := eng.SendValue(addr); err != nil {
			return fmt.Errorf("init.push %s: %w", name, err)
		}
		if err := s.pause(ctx); err != nil {
			return err
		}
	}

	if s.clockVP == "" {
		return nil
	}
	if _, err := eng.SendWrite(s.clockVP, now.Format(s.format)); err != nil {
		return fmt.Errorf("init clock: %w", err)
	}
	return nil
}

func (s startup) pause(ctx context.Context) error {
	if s.delay <= 0 {
		return nil
	}
	t := time.NewTimer(s.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
