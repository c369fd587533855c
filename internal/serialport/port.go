// internal/serialport/port.go
package serialport

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/goburrow/serial"
)

// DefaultReadTimeout bounds one Read so the session loop stays responsive.
const DefaultReadTimeout = 100 * time.Millisecond

// Config describes the display link. Framing is fixed at 8N1.
type Config struct {
	Address     string
	BaudRate    int
	ReadTimeout time.Duration
}

// ErrHangup reports a read that found the port readable but returned no
// bytes, which is how a POSIX tty signals an unplugged device.
var ErrHangup = errors.New("serialport: device hung up")

// opener is swapped in tests.
var opener = func(c *serial.Config) (io.ReadWriteCloser, error) {
	return serial.Open(c)
}

// Port is a serial link that satisfies the engine transport contract:
// read timeouts come back as empty reads.
type Port struct {
	name string

	mu     sync.Mutex
	rw     io.ReadWriteCloser
	closed bool
	buf    []byte
}

// Open opens and configures the port.
func Open(cfg Config) (*Port, error) {
	if cfg.Address == "" {
		return nil, errors.New("serialport: address required")
	}
	if cfg.BaudRate <= 0 {
		return nil, fmt.Errorf("serialport: invalid baud rate %d", cfg.BaudRate)
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}

	rw, err := opener(&serial.Config{
		Address:  cfg.Address,
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		StopBits: 1,
		Parity:   "N",
		Timeout:  cfg.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("serialport: open %s: %w", cfg.Address, err)
	}

	return &Port{name: cfg.Address, rw: rw}, nil
}

// Name returns the device path.
func (p *Port) Name() string { return p.name }

// Write sends p in full.
func (p *Port) Write(b []byte) (int, error) {
	if !p.IsOpen() {
		return 0, fmt.Errorf("serialport: %s is closed", p.name)
	}
	return p.rw.Write(b)
}

// Read returns up to max bytes. It returns an empty slice when the read
// timeout expires with nothing received.
func (p *Port) Read(max int) ([]byte, error) {
	if !p.IsOpen() {
		return nil, io.EOF
	}
	if max <= 0 {
		max = 1
	}
	if cap(p.buf) < max {
		p.buf = make([]byte, max)
	}

	n, err := p.rw.Read(p.buf[:max])
	if err != nil {
		if errors.Is(err, serial.ErrTimeout) {
			return nil, nil
		}
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: %s", ErrHangup, p.name)
	}
	return append([]byte(nil), p.buf[:n]...), nil
}

// IsOpen reports whether Close has not been called.
func (p *Port) IsOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.closed
}

// Close is idempotent.
func (p *Port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.rw.Close()
}
