// internal/engine/runner_test.go
package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"gotest.tools/v3/assert"

	"github.com/tamzrod/dwin-monitor/internal/codec"
	"github.com/tamzrod/dwin-monitor/internal/frame"
	"github.com/tamzrod/dwin-monitor/internal/status"
)

func TestRun_ProcessesUntilEOF(t *testing.T) {
	h := newHarness(t, codec.ChecksumNone)

	// a frame split across reads, then noise, then a second frame
	f := h.frameFor(frame.CmdWrite, 0x1020, 11)
	h.port.queue(f[:3], f[3:], []byte{0x00, 0x13}, h.frameFor(frame.CmdWrite, 0x1110, 1))
	h.port.eof = true

	err := h.eng.Run(context.Background())
	assert.NilError(t, err)

	v, _ := h.reg.GetByName("PLANT_ID")
	assert.Equal(t, v.Uint(), uint16(11))
	v, _ = h.reg.GetByName("LIGHT_AUTO")
	assert.Equal(t, v.Uint(), uint16(1))
	assert.Equal(t, h.eng.Status().FramesIn, uint64(2))
}

func TestRun_TimeoutRecoversStalledFrame(t *testing.T) {
	h := newHarness(t, codec.ChecksumNone)

	h.port.queue([]byte{0x5A, 0xA5, 0x08, 0x82, 0x10})
	ticks := 0
	task := TaskFunc(func(now time.Time) error {
		ticks++
		if ticks == 10 {
			// after ~1s of silence the stalled frame is gone
			h.port.queue(h.frameFor(frame.CmdWrite, 0x1020, 9))
			h.port.eof = true
		}
		return nil
	})

	err := h.eng.Run(context.Background(), task)
	assert.NilError(t, err)
	assert.Equal(t, h.eng.Status().Timeouts, uint64(1))

	v, _ := h.reg.GetByName("PLANT_ID")
	assert.Equal(t, v.Uint(), uint16(9))
}

func TestRun_StopsOnCancel(t *testing.T) {
	h := newHarness(t, codec.ChecksumNone)

	ctx, cancel := context.WithCancel(context.Background())
	ticks := 0
	task := TaskFunc(func(time.Time) error {
		ticks++
		if ticks == 3 {
			cancel()
		}
		return nil
	})

	err := h.eng.Run(ctx, task)
	assert.NilError(t, err)
	assert.Equal(t, ticks, 3)
}

func TestRun_ReadFailureIsFatal(t *testing.T) {
	h := newHarness(t, codec.ChecksumNone)
	h.port.readErr = errors.New("device unplugged")

	err := h.eng.Run(context.Background())
	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, h.eng.Status().Health, status.HealthError)
	assert.ErrorContains(t, err, "device unplugged")
}

func TestRun_TaskTransportErrorStopsLoop(t *testing.T) {
	h := newHarness(t, codec.ChecksumNone)

	ticks := 0
	task := TaskFunc(func(time.Time) error {
		ticks++
		if ticks == 1 {
			return errors.New("soft failure")
		}
		h.port.writeErr = errors.New("write failed")
		_, err := h.eng.SendWrite("PLANT_ID", 1)
		return err
	})

	err := h.eng.Run(context.Background(), task)
	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, ticks, 2)
}
