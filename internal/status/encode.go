// internal/status/encode.go
package status

// Encode converts a Snapshot into a full status block.
// Counters are truncated to 16 bits. No IO.
func Encode(s Snapshot) []uint16 {
	regs := make([]uint16, SlotsPerSession)

	regs[SlotHealthCode] = s.Health
	regs[SlotFramesIn] = uint16(s.FramesIn)
	regs[SlotFramesOut] = uint16(s.FramesOut)
	regs[SlotChecksumErrors] = uint16(s.ChecksumErrors)
	regs[SlotTimeouts] = uint16(s.Timeouts)
	regs[SlotRejected] = uint16(s.Rejected)

	// Slots SlotReservedStart..SlotReservedEnd stay zero.

	name := PackASCII(s.Session, SessionMaxChars)
	copy(regs[SlotSessionStart:SlotSessionStart+SlotSessionSlots], name)

	return regs
}

// PackASCII packs up to maxChars characters of s into registers, two bytes
// per register, big-endian, NUL padded. Non-printable bytes become '?'.
func PackASCII(s string, maxChars int) []uint16 {
	b := []byte(s)
	if len(b) > maxChars {
		b = b[:maxChars]
	}

	for i := 0; i < len(b); i++ {
		if b[i] < 0x20 || b[i] > 0x7E {
			b[i] = '?'
		}
	}

	out := make([]uint16, (maxChars+1)/2)
	for i := 0; i < maxChars; i += 2 {
		var hi, lo byte
		if i < len(b) {
			hi = b[i]
		}
		if i+1 < len(b) {
			lo = b[i+1]
		}
		out[i/2] = uint16(hi)<<8 | uint16(lo)
	}
	return out
}
