// internal/engine/fake_test.go
package engine

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"

	"github.com/tamzrod/dwin-monitor/internal/codec"
	"github.com/tamzrod/dwin-monitor/internal/vp"
)

// ---- fake clock ----

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// ---- fake transport ----

// fakePort replays queued chunks. When the queue is empty it behaves like a
// read timeout: the clock moves by readTimeout and nothing is returned, or
// io.EOF once eof is set.
type fakePort struct {
	clock       *fakeClock
	readTimeout time.Duration

	rx      [][]byte
	written [][]byte
	eof     bool
	closed  bool

	readErr  error
	writeErr error

	// onWrite lets a test answer requests.
	onWrite func(p []byte)
}

func newFakePort(c *fakeClock) *fakePort {
	return &fakePort{clock: c, readTimeout: 100 * time.Millisecond}
}

func (f *fakePort) queue(chunks ...[]byte) { f.rx = append(f.rx, chunks...) }

func (f *fakePort) Write(p []byte) (int, error) {
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	cp := append([]byte(nil), p...)
	f.written = append(f.written, cp)
	if f.onWrite != nil {
		f.onWrite(cp)
	}
	return len(p), nil
}

func (f *fakePort) Read(max int) ([]byte, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	if len(f.rx) == 0 {
		if f.eof {
			return nil, io.EOF
		}
		f.clock.Advance(f.readTimeout)
		return nil, nil
	}
	chunk := f.rx[0]
	if len(chunk) > max {
		f.rx[0] = chunk[max:]
		return chunk[:max], nil
	}
	f.rx = f.rx[1:]
	return chunk, nil
}

func (f *fakePort) IsOpen() bool { return !f.closed }

func (f *fakePort) Close() error {
	if f.closed {
		return errors.New("already closed")
	}
	f.closed = true
	return nil
}

// ---- helpers ----

func testSchema(t *testing.T) *vp.Schema {
	t.Helper()
	s, err := vp.NewSchema([]vp.Descriptor{
		{Address: 0x1000, Name: "TIME", Type: vp.Str, Width: 6, Default: vp.Text("12:34")},
		{Address: 0x1020, Name: "PLANT_ID", Type: vp.UInt8, Width: 1, Default: vp.Uint(vp.UInt8, 3)},
		{Address: 0x1110, Name: "LIGHT_AUTO", Type: vp.UInt8, Width: 1, Default: vp.Uint(vp.UInt8, 0)},
		{Address: 0x1310, Name: "FAN_AUTO", Type: vp.UInt8, Width: 1, Default: vp.Uint(vp.UInt8, 0)},
		{Address: 0x2000, Name: "COUNTER", Type: vp.UInt16, Width: 2},
	})
	assert.NilError(t, err)
	return s
}

type harness struct {
	clock *fakeClock
	port  *fakePort
	reg   *vp.Registry
	eng   *Engine
}

func newHarness(t *testing.T, policy codec.ChecksumPolicy) *harness {
	t.Helper()
	clock := &fakeClock{now: time.Date(2025, 7, 11, 12, 0, 0, 0, time.UTC)}
	port := newFakePort(clock)
	reg := vp.NewRegistry(testSchema(t))
	eng := New(Config{Checksum: policy, ReadChunk: 16}, reg, port,
		WithClock(clock),
		WithSession("test-session"),
	)
	return &harness{clock: clock, port: port, reg: reg, eng: eng}
}

// frameFor builds an inbound frame the way the display would send it.
func (h *harness) frameFor(cmd byte, addr uint16, data ...byte) []byte {
	out := []byte{0x5A, 0xA5, byte(3 + len(data)), cmd, byte(addr >> 8), byte(addr)}
	out = append(out, data...)
	if h.eng.codec.Policy() == codec.ChecksumSum8 {
		var sum byte
		for _, b := range out[2:] {
			sum += b
		}
		out = append(out, sum)
	}
	return out
}

// cmpMessage compares vp.Value by equality; its fields are unexported.
var cmpMessage = cmp.Comparer(func(a, b vp.Value) bool { return a == b })
