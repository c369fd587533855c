// internal/frame/detector_test.go
package frame

import (
	"testing"
	"time"

	"gotest.tools/v3/assert"
)

var t0 = time.Date(2025, 7, 11, 12, 0, 0, 0, time.UTC)

func pushAll(d *Detector, at time.Time, bs ...byte) [][]byte {
	var frames [][]byte
	for _, b := range bs {
		if f, ok := d.Push(b, at); ok {
			frames = append(frames, f)
		}
	}
	return frames
}

func TestDetector_CompleteReadFrame(t *testing.T) {
	d := NewDetector(0)

	frames := pushAll(d, t0, 0x5A, 0xA5, 0x03, 0x83, 0x10, 0x00)

	assert.Equal(t, len(frames), 1)
	assert.DeepEqual(t, frames[0], []byte{0x5A, 0xA5, 0x03, 0x83, 0x10, 0x00})
	assert.Equal(t, d.State(), Idle)
	assert.Equal(t, d.Buffered(), 0)
}

func TestDetector_FalseStartResets(t *testing.T) {
	d := NewDetector(0)

	frames := pushAll(d, t0, 0x5A, 0xA5)
	assert.Equal(t, len(frames), 0)
	assert.Equal(t, d.State(), InFrame)

	d.Reset()
	frames = pushAll(d, t0, 0x5A, 0x11)
	assert.Equal(t, len(frames), 0)
	assert.Equal(t, d.State(), Idle)
}

func TestDetector_NoiseBeforeHeaderIgnored(t *testing.T) {
	d := NewDetector(0)

	frames := pushAll(d, t0, 0x00, 0xFF, 0xA5, 0x5A, 0xA5, 0x04, 0x82, 0x10, 0x20, 0x07)

	assert.Equal(t, len(frames), 1)
	assert.DeepEqual(t, frames[0], []byte{0x5A, 0xA5, 0x04, 0x82, 0x10, 0x20, 0x07})
}

func TestDetector_BackToBackFrames(t *testing.T) {
	d := NewDetector(0)

	frames := pushAll(d, t0,
		0x5A, 0xA5, 0x03, 0x83, 0x10, 0x00,
		0x5A, 0xA5, 0x04, 0x82, 0x10, 0x20, 0x01,
	)
	assert.Equal(t, len(frames), 2)
	assert.Equal(t, len(frames[1]), 7)
}

func TestDetector_TrailerWaitsForChecksum(t *testing.T) {
	d := NewDetector(1)

	frames := pushAll(d, t0, 0x5A, 0xA5, 0x03, 0x83, 0x10, 0x00)
	assert.Equal(t, len(frames), 0)
	assert.Equal(t, d.State(), InFrame)

	f, ok := d.Push(0x96, t0)
	assert.Assert(t, ok)
	assert.Equal(t, len(f), 7)
	assert.Equal(t, d.State(), Idle)
}

func TestDetector_TimeoutDiscardsPartial(t *testing.T) {
	d := NewDetector(0)

	frames := pushAll(d, t0, 0x5A, 0xA5, 0x08, 0x82, 0x10)
	assert.Equal(t, len(frames), 0)

	// before the interval: nothing, state kept
	partial, ok := d.CheckTimeout(t0.Add(200*time.Millisecond), DefaultTimeout)
	assert.Assert(t, !ok)
	assert.Assert(t, partial == nil)
	assert.Equal(t, d.State(), InFrame)
	assert.Equal(t, d.Buffered(), 5)

	// after the interval: partial returned, state reset
	partial, ok = d.CheckTimeout(t0.Add(600*time.Millisecond), DefaultTimeout)
	assert.Assert(t, ok)
	assert.DeepEqual(t, partial, []byte{0x5A, 0xA5, 0x08, 0x82, 0x10})
	assert.Equal(t, d.State(), Idle)
}

func TestDetector_TimeoutIdleNoop(t *testing.T) {
	d := NewDetector(0)

	_, ok := d.CheckTimeout(t0.Add(time.Hour), DefaultTimeout)
	assert.Assert(t, !ok)
}

func TestDetector_ActivityExtendsTimeout(t *testing.T) {
	d := NewDetector(0)

	pushAll(d, t0, 0x5A, 0xA5, 0x08)
	pushAll(d, t0.Add(400*time.Millisecond), 0x82)

	_, ok := d.CheckTimeout(t0.Add(700*time.Millisecond), DefaultTimeout)
	assert.Assert(t, !ok)
}

func TestChecksum(t *testing.T) {
	body := []byte{0x5A, 0xA5, 0x03, 0x83, 0x10, 0x00}
	assert.Equal(t, Checksum(body), byte(0x96))

	wrap := []byte{0x5A, 0xA5, 0xFF, 0xFF, 0x03}
	assert.Equal(t, Checksum(wrap), byte(0x01))
}
