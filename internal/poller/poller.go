// internal/poller/poller.go
package poller

import (
	"errors"
	"fmt"
	"time"
)

// Poller is a dumb, clock-driven scheduler for display writes and reads.
// It owns no goroutine: the session loop calls Tick between reads.
type Poller struct {
	cfg    Config
	client Client

	nextRefresh time.Time
	nextPoll    time.Time
}

// New creates a poller with immutable config.
func New(cfg Config, client Client) (*Poller, error) {
	if client == nil {
		return nil, errors.New("poller: client required")
	}
	if cfg.ClockVP == "" && len(cfg.Reads) == 0 {
		return nil, errors.New("poller: nothing to schedule")
	}
	if cfg.ClockVP != "" && cfg.RefreshInterval <= 0 {
		return nil, errors.New("poller: refresh interval must be > 0")
	}
	if len(cfg.Reads) > 0 && cfg.PollInterval <= 0 {
		return nil, errors.New("poller: poll interval must be > 0")
	}
	for i, name := range cfg.Reads {
		if name == "" {
			return nil, fmt.Errorf("poller: read %d has no vp name", i)
		}
	}
	if cfg.ClockFormat == "" {
		cfg.ClockFormat = DefaultClockFormat
	}
	return &Poller{cfg: cfg, client: client}, nil
}

// RefreshOnce writes the wall clock into the clock VP.
func (p *Poller) RefreshOnce(now time.Time) error {
	_, err := p.client.SendWrite(p.cfg.ClockVP, now.Format(p.cfg.ClockFormat))
	return err
}

// PollOnce requests every configured VP once.
// Any failure aborts the cycle.
func (p *Poller) PollOnce() (int, error) {
	for i, name := range p.cfg.Reads {
		if _, err := p.client.SendReadByName(name); err != nil {
			return i, fmt.Errorf("poll %q: %w", name, err)
		}
	}
	return len(p.cfg.Reads), nil
}
