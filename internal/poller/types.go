// internal/poller/types.go
package poller

import "time"

// Client abstracts the engine operations the poller needs.
// It depends on VP names only.
type Client interface {
	SendReadByName(name string) ([]byte, error)
	SendWrite(name string, value any) ([]byte, error)
}

// DefaultClockFormat renders the clock VP as the display shows it.
const DefaultClockFormat = "15:04"

// Config is the minimal runtime config the poller needs.
// A zero ClockVP disables the clock refresh; empty Reads disables polling.
type Config struct {
	ClockVP         string
	ClockFormat     string
	RefreshInterval time.Duration

	Reads        []string
	PollInterval time.Duration
}

// Result describes what one Tick did.
type Result struct {
	At        time.Time
	Refreshed bool
	Polled    int
	Err       error // non-nil means the tick was cut short
}
