// internal/codec/codec.go
package codec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tamzrod/dwin-monitor/internal/frame"
	"github.com/tamzrod/dwin-monitor/internal/vp"
)

var (
	ErrInvalidWordCount = errors.New("codec: word count must be 1-255")
	ErrChecksum         = errors.New("codec: checksum mismatch")
	ErrShortFrame       = errors.New("codec: short frame")
	ErrBadHeader        = errors.New("codec: bad header")
	ErrLength           = errors.New("codec: length mismatch")
)

// ChecksumPolicy selects whether frames carry a trailing sum-mod-256 byte.
// One policy applies to both directions of a session.
type ChecksumPolicy uint8

const (
	ChecksumSum8 ChecksumPolicy = iota
	ChecksumNone
)

func (p ChecksumPolicy) String() string {
	if p == ChecksumNone {
		return "none"
	}
	return "sum8"
}

// ParseChecksumPolicy maps config text to a policy. Empty means sum8.
func ParseChecksumPolicy(s string) (ChecksumPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sum8", "sum":
		return ChecksumSum8, nil
	case "none", "off":
		return ChecksumNone, nil
	default:
		return ChecksumSum8, fmt.Errorf("codec: unknown checksum policy %q", s)
	}
}

// Trailer is the number of bytes after the length-counted region.
func (p ChecksumPolicy) Trailer() int {
	if p == ChecksumNone {
		return 0
	}
	return 1
}

// Message is one decoded inbound frame.
// Value is the zero vp.Value when no typed value could be produced.
type Message struct {
	Command byte
	Address uint16
	Payload []byte
	Value   vp.Value
}

// Codec encodes and decodes frames for one schema under one checksum policy.
type Codec struct {
	schema *vp.Schema
	policy ChecksumPolicy
}

func New(schema *vp.Schema, policy ChecksumPolicy) *Codec {
	return &Codec{schema: schema, policy: policy}
}

func (c *Codec) Policy() ChecksumPolicy { return c.policy }

// ---- encode ----

// EncodeRead builds a read request for words 2-byte words at addr.
func (c *Codec) EncodeRead(addr uint16, words int) ([]byte, error) {
	if words < 1 || words > 255 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWordCount, words)
	}
	return c.assemble(frame.CmdRead, addr, []byte{byte(words)}), nil
}

// EncodeReadByName builds a read request sized from the descriptor.
func (c *Codec) EncodeReadByName(name string) ([]byte, error) {
	d, ok := c.schema.LookupName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", vp.ErrUnknownName, name)
	}
	return c.EncodeRead(d.Address, d.Words())
}

// EncodeWrite builds a write frame carrying v rendered for d.
// Strings are NUL-padded to the slot width; integers are big-endian.
func (c *Codec) EncodeWrite(d vp.Descriptor, v vp.Value) ([]byte, error) {
	data, err := EncodeValue(d, v)
	if err != nil {
		return nil, err
	}
	return c.assemble(frame.CmdWrite, d.Address, data), nil
}

// EncodeValue renders v into the slot bytes of d.
func EncodeValue(d vp.Descriptor, v vp.Value) ([]byte, error) {
	if v.Kind() != d.Type {
		return nil, fmt.Errorf("%w: %s is %s, value is %s", vp.ErrTypeMismatch, d.Name, d.Type, v.Kind())
	}

	switch d.Type {
	case vp.Str:
		text := v.Text()
		for i := 0; i < len(text); i++ {
			if text[i] > 0x7F {
				return nil, fmt.Errorf("%w: %s accepts ASCII only", vp.ErrTypeMismatch, d.Name)
			}
		}
		out := make([]byte, d.Width)
		copy(out, text)
		return out, nil
	case vp.UInt8:
		return []byte{byte(v.Uint())}, nil
	case vp.UInt16:
		n := v.Uint()
		return []byte{byte(n >> 8), byte(n)}, nil
	default:
		return nil, fmt.Errorf("%w: %s", vp.ErrTypeMismatch, d.Name)
	}
}

func (c *Codec) assemble(cmd byte, addr uint16, data []byte) []byte {
	n := 3 + len(data)
	out := make([]byte, 0, frame.HeaderLen+n+c.policy.Trailer())
	out = append(out, frame.Header1, frame.Header2, byte(n), cmd, byte(addr>>8), byte(addr))
	out = append(out, data...)
	if c.policy == ChecksumSum8 {
		out = append(out, frame.Checksum(out))
	}
	return out
}

// ---- decode ----

// Decode splits a raw frame into command, address and payload and, when the
// address is known, a typed value.
//
// Frames shorter than frame.MinLen return ErrShortFrame. Under sum8 a bad
// checksum returns the message together with ErrChecksum so callers can
// still log it; the value is left empty in that case.
func (c *Codec) Decode(raw []byte) (Message, error) {
	if len(raw) < frame.MinLen {
		return Message{}, fmt.Errorf("%w: %d bytes", ErrShortFrame, len(raw))
	}
	if raw[0] != frame.Header1 || raw[1] != frame.Header2 {
		return Message{}, fmt.Errorf("%w: % X", ErrBadHeader, raw[:2])
	}

	trailer := c.policy.Trailer()
	if want := frame.HeaderLen + int(raw[2]) + trailer; len(raw) != want {
		return Message{}, fmt.Errorf("%w: want %d bytes, got %d", ErrLength, want, len(raw))
	}
	if len(raw) < frame.MinLen+trailer {
		return Message{}, fmt.Errorf("%w: %d bytes", ErrShortFrame, len(raw))
	}

	end := len(raw) - trailer
	payload := make([]byte, end-frame.MinLen)
	copy(payload, raw[frame.MinLen:end])

	msg := Message{
		Command: raw[3],
		Address: uint16(raw[4])<<8 | uint16(raw[5]),
		Payload: payload,
	}

	if c.policy == ChecksumSum8 {
		want := frame.Checksum(raw[:end])
		if got := raw[end]; got != want {
			return msg, fmt.Errorf("%w: want 0x%02X, got 0x%02X", ErrChecksum, want, got)
		}
	}

	if d, ok := c.schema.Lookup(msg.Address); ok {
		msg.Value = DecodeValue(d, payload)
	}
	return msg, nil
}

// DecodeValue interprets payload for d. The zero Value is returned when the
// payload is empty or too short for the type.
func DecodeValue(d vp.Descriptor, payload []byte) vp.Value {
	switch d.Type {
	case vp.Str:
		if len(payload) == 0 {
			return vp.Value{}
		}
		buf := make([]byte, d.Width)
		copy(buf, payload)
		return vp.Text(asciiText(buf))
	case vp.UInt8:
		if len(payload) < 1 {
			return vp.Value{}
		}
		return vp.Uint(vp.UInt8, uint16(payload[0]))
	case vp.UInt16:
		if len(payload) < 2 {
			return vp.Value{}
		}
		return vp.Uint(vp.UInt16, uint16(payload[0])<<8|uint16(payload[1]))
	default:
		return vp.Value{}
	}
}

// asciiText drops non-ASCII bytes and strips trailing NUL padding.
func asciiText(b []byte) string {
	out := make([]byte, 0, len(b))
	for _, c := range b {
		if c < 0x80 {
			out = append(out, c)
		}
	}
	return strings.TrimRight(string(out), "\x00")
}
