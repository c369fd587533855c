// internal/frame/detector.go
package frame

import "time"

// State is the detector position inside the byte stream.
type State uint8

const (
	Idle State = iota
	GotHeader1
	InFrame
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case GotHeader1:
		return "got-5a"
	case InFrame:
		return "in-frame"
	default:
		return "unknown"
	}
}

// Detector rebuilds frames from a byte stream, one byte at a time.
// It has no clock: callers pass the time of each byte and of each
// timeout check. Not safe for concurrent use.
type Detector struct {
	trailer int

	state  State
	buf    []byte
	needed int
	last   time.Time
}

// NewDetector returns an idle detector. trailer is the number of bytes that
// follow the length-counted region (1 with a checksum, 0 without).
func NewDetector(trailer int) *Detector {
	if trailer < 0 {
		trailer = 0
	}
	return &Detector{
		trailer: trailer,
		buf:     make([]byte, 0, 64),
	}
}

// State returns the current state.
func (d *Detector) State() State { return d.state }

// Buffered returns the number of bytes held for the frame in progress.
func (d *Detector) Buffered() int { return len(d.buf) }

// Push feeds one byte. When it completes a frame, the frame is returned
// (as a fresh slice) and the detector is back to Idle.
func (d *Detector) Push(b byte, now time.Time) ([]byte, bool) {
	d.last = now

	switch d.state {
	case Idle:
		if b == Header1 {
			d.buf = append(d.buf[:0], b)
			d.state = GotHeader1
		}

	case GotHeader1:
		if b != Header2 {
			// False start. The byte is not re-examined as a new header.
			d.Reset()
			return nil, false
		}
		d.buf = append(d.buf, b)
		d.state = InFrame

	case InFrame:
		d.buf = append(d.buf, b)

		if len(d.buf) == HeaderLen {
			d.needed = int(b) + d.trailer
		}

		if len(d.buf) >= HeaderLen && len(d.buf) == HeaderLen+d.needed {
			out := make([]byte, len(d.buf))
			copy(out, d.buf)
			d.Reset()
			return out, true
		}
	}

	return nil, false
}

// CheckTimeout drops the frame in progress when nothing arrived for longer
// than timeout. The dropped bytes are returned for reporting.
func (d *Detector) CheckTimeout(now time.Time, timeout time.Duration) ([]byte, bool) {
	if d.state == Idle {
		return nil, false
	}
	if now.Sub(d.last) <= timeout {
		return nil, false
	}

	out := make([]byte, len(d.buf))
	copy(out, d.buf)
	d.Reset()
	return out, true
}

// Reset discards any partial frame.
func (d *Detector) Reset() {
	d.state = Idle
	d.buf = d.buf[:0]
	d.needed = 0
}
