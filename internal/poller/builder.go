// internal/poller/builder.go
package poller

import (
	"time"

	cfg "github.com/tamzrod/dwin-monitor/internal/config"
)

// Build constructs a Poller from the refresh and poll sections.
// It returns nil, nil when nothing is scheduled.
// No retries, no loops, no semantics.
func Build(c *cfg.Config, client Client) (*Poller, error) {
	pc := Config{
		ClockFormat:     c.Refresh.Format,
		RefreshInterval: time.Duration(c.Refresh.IntervalMs) * time.Millisecond,
		Reads:           c.Poll.Reads,
		PollInterval:    time.Duration(c.Poll.IntervalMs) * time.Millisecond,
	}
	if !c.Refresh.Disabled {
		pc.ClockVP = c.Refresh.ClockVP
	}

	if pc.ClockVP == "" && len(pc.Reads) == 0 {
		return nil, nil
	}
	return New(pc, client)
}
