// internal/engine/types.go
package engine

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/dwin-monitor/internal/codec"
	"github.com/tamzrod/dwin-monitor/internal/frame"
	"github.com/tamzrod/dwin-monitor/internal/vp"
)

var (
	// ErrTransport wraps any serial I/O failure. It ends the session.
	ErrTransport = errors.New("engine: transport error")

	// ErrNoResponse means the display never answered the handshake.
	ErrNoResponse = errors.New("engine: no response from display")
)

// Transport is the serial link the engine drives.
//
// Read returns at most max bytes and blocks no longer than the transport's
// own timeout. An empty result with a nil error means "nothing yet".
// io.EOF marks the end of the stream.
type Transport interface {
	Write(p []byte) (int, error)
	Read(max int) ([]byte, error)
	IsOpen() bool
	Close() error
}

// Clock supplies monotonic time for timeouts and schedules.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

// Observer receives every decoded inbound frame for the address it was
// registered on. Value is only set when the registry committed it.
type Observer func(msg codec.Message)

// Watcher is called after every committed registry change, inbound or
// outbound.
type Watcher func(addr uint16, v vp.Value)

// Config is the per-session protocol configuration.
type Config struct {
	Checksum     codec.ChecksumPolicy
	FrameTimeout time.Duration
	ReadChunk    int
}

func (c Config) withDefaults() Config {
	if c.FrameTimeout <= 0 {
		c.FrameTimeout = frame.DefaultTimeout
	}
	if c.ReadChunk <= 0 {
		c.ReadChunk = 1
	}
	return c
}

// Option customises an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithLogger sets the session logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithSession sets the session id reported in logs and status.
func WithSession(id string) Option {
	return func(e *Engine) { e.st.Session = id }
}
