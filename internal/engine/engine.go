// internal/engine/engine.go
package engine

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tamzrod/dwin-monitor/internal/codec"
	"github.com/tamzrod/dwin-monitor/internal/frame"
	"github.com/tamzrod/dwin-monitor/internal/status"
	"github.com/tamzrod/dwin-monitor/internal/vp"
)

// Engine owns one protocol session: the registry, the frame detector and
// the observer table. All methods run on the caller's goroutine and the
// engine is not safe for concurrent use; the registry itself is.
type Engine struct {
	cfg   Config
	reg   *vp.Registry
	codec *codec.Codec
	det   *frame.Detector
	tr    Transport
	clock Clock
	log   zerolog.Logger

	observers map[uint16][]Observer
	watchers  []Watcher

	st status.Snapshot
}

// New builds an engine around reg and tr.
func New(cfg Config, reg *vp.Registry, tr Transport, opts ...Option) *Engine {
	cfg = cfg.withDefaults()

	e := &Engine{
		cfg:       cfg,
		reg:       reg,
		codec:     codec.New(reg.Schema(), cfg.Checksum),
		det:       frame.NewDetector(cfg.Checksum.Trailer()),
		tr:        tr,
		clock:     SystemClock,
		log:       zerolog.Nop(),
		observers: make(map[uint16][]Observer),
	}
	for _, o := range opts {
		o(e)
	}
	if e.st.Session == "" {
		e.st.Session = uuid.NewString()
	}
	e.st.Health = status.HealthUnknown
	e.log = e.log.With().Str("session", e.st.Session).Logger()
	return e
}

// Registry returns the session registry.
func (e *Engine) Registry() *vp.Registry { return e.reg }

// Status returns a copy of the session counters.
func (e *Engine) Status() status.Snapshot { return e.st }

// RegisterObserver appends fn to the observers of addr.
// Observers run in registration order. There is no removal.
func (e *Engine) RegisterObserver(addr uint16, fn Observer) {
	e.observers[addr] = append(e.observers[addr], fn)
}

// Watch registers fn for every committed registry change.
func (e *Engine) Watch(fn Watcher) {
	e.watchers = append(e.watchers, fn)
}

// ---- inbound ----

// FeedByte drives the detector with one byte and dispatches a completed frame.
func (e *Engine) FeedByte(b byte) {
	e.feed(b)
}

// Feed is FeedByte over a chunk.
func (e *Engine) Feed(p []byte) {
	for _, b := range p {
		e.feed(b)
	}
}

func (e *Engine) feed(b byte) (codec.Message, bool) {
	raw, ok := e.det.Push(b, e.clock.Now())
	if !ok {
		return codec.Message{}, false
	}
	return e.handleFrame(raw)
}

// handleFrame runs decode, validate, store and notify for one raw frame.
// Nothing here returns an error: bad inbound data is logged and counted.
func (e *Engine) handleFrame(raw []byte) (codec.Message, bool) {
	e.log.Debug().Hex("raw", raw).Msg("frame received")

	msg, err := e.codec.Decode(raw)
	switch {
	case errors.Is(err, codec.ErrChecksum):
		e.st.ChecksumErrors++
		e.log.Warn().Err(err).Hex("raw", raw).Uint16("addr", msg.Address).Msg("frame dropped")
		return codec.Message{}, false
	case err != nil:
		e.st.Ignored++
		e.log.Debug().Err(err).Hex("raw", raw).Msg("frame ignored")
		return codec.Message{}, false
	}

	e.st.FramesIn++
	e.st.Health = status.HealthOK

	name, known := e.reg.Name(msg.Address)
	if known && msg.Value.Valid() {
		committed, err := e.reg.Set(msg.Address, msg.Value)
		if err != nil {
			e.st.Rejected++
			e.log.Warn().Err(err).Str("vp", name).Msg("vp update rejected")
			msg.Value = vp.Value{}
		} else {
			msg.Value = committed
			e.log.Info().Str("vp", name).Stringer("value", committed).Msg("vp update")
			e.notify(msg.Address, committed)
		}
	}

	for _, fn := range e.observers[msg.Address] {
		fn(msg)
	}
	return msg, true
}

// CheckTimeout drops a stalled partial frame. It reports whether one was
// dropped.
func (e *Engine) CheckTimeout() bool {
	partial, ok := e.det.CheckTimeout(e.clock.Now(), e.cfg.FrameTimeout)
	if !ok {
		return false
	}
	e.st.Timeouts++
	e.log.Warn().Hex("raw", partial).Msg("incomplete frame (timeout)")
	return true
}

// ---- outbound ----

// SendRead requests words 2-byte words starting at addr.
func (e *Engine) SendRead(addr uint16, words int) ([]byte, error) {
	b, err := e.codec.EncodeRead(addr, words)
	if err != nil {
		return nil, err
	}
	return e.transmit(b)
}

// SendReadByName requests a VP, sizing the read from its descriptor.
func (e *Engine) SendReadByName(name string) ([]byte, error) {
	b, err := e.codec.EncodeReadByName(name)
	if err != nil {
		return nil, err
	}
	return e.transmit(b)
}

// SendWrite validates and stores value for the named VP, then writes it to
// the display. Validation errors are returned and nothing is sent.
func (e *Engine) SendWrite(name string, value any) ([]byte, error) {
	addr, ok := e.reg.Resolve(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", vp.ErrUnknownName, name)
	}
	committed, err := e.reg.Set(addr, value)
	if err != nil {
		return nil, err
	}
	e.notify(addr, committed)
	return e.sendValue(addr, committed)
}

// SendValue writes the current registry value of addr to the display.
func (e *Engine) SendValue(addr uint16) ([]byte, error) {
	v, err := e.reg.Get(addr)
	if err != nil {
		return nil, err
	}
	return e.sendValue(addr, v)
}

func (e *Engine) sendValue(addr uint16, v vp.Value) ([]byte, error) {
	d, _ := e.reg.Describe(addr)
	b, err := e.codec.EncodeWrite(d, v)
	if err != nil {
		return nil, err
	}
	out, err := e.transmit(b)
	if err != nil {
		return nil, err
	}
	e.log.Info().Str("vp", d.Name).Stringer("value", v).Msg("vp sent")
	return out, nil
}

func (e *Engine) transmit(b []byte) ([]byte, error) {
	if !e.tr.IsOpen() {
		return nil, e.fail(errors.New("port closed"))
	}
	if _, err := e.tr.Write(b); err != nil {
		return nil, e.fail(err)
	}
	e.st.FramesOut++
	e.log.Debug().Hex("raw", b).Str("cmd", frame.CommandName(b[3])).Msg("frame sent")
	return b, nil
}

// fail records a transport failure and returns it wrapped in ErrTransport.
func (e *Engine) fail(err error) error {
	e.st.Health = status.HealthError
	e.st.LastError = err.Error()
	return fmt.Errorf("%w: %v", ErrTransport, err)
}

func (e *Engine) notify(addr uint16, v vp.Value) {
	for _, fn := range e.watchers {
		fn(addr, v)
	}
}

// Close closes the transport and marks the session closed.
func (e *Engine) Close() error {
	if e.st.Health != status.HealthError {
		e.st.Health = status.HealthClosed
	}
	if !e.tr.IsOpen() {
		return nil
	}
	return e.tr.Close()
}
