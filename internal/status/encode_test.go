// internal/status/encode_test.go
package status

import "testing"

func TestEncode_Layout(t *testing.T) {
	regs := Encode(Snapshot{
		Session:        "ab12",
		Health:         HealthOK,
		FramesIn:       70000,
		FramesOut:      3,
		ChecksumErrors: 1,
		Timeouts:       2,
		Rejected:       4,
	})

	if len(regs) != SlotsPerSession {
		t.Fatalf("expected %d regs, got %d", SlotsPerSession, len(regs))
	}
	if regs[SlotHealthCode] != HealthOK {
		t.Fatalf("health: got=%d want=%d", regs[SlotHealthCode], HealthOK)
	}
	if regs[SlotFramesIn] != uint16(70000-65536) {
		t.Fatalf("frames in should wrap: got=%d", regs[SlotFramesIn])
	}
	for i := SlotReservedStart; i <= SlotReservedEnd; i++ {
		if regs[i] != 0 {
			t.Fatalf("reserved slot %d not zero: %d", i, regs[i])
		}
	}
	if regs[SlotSessionStart] != uint16('a')<<8|uint16('b') {
		t.Fatalf("session slot 0 mismatch: 0x%04X", regs[SlotSessionStart])
	}
	if regs[SlotSessionStart+2] != 0 {
		t.Fatalf("session padding not zero: 0x%04X", regs[SlotSessionStart+2])
	}
}

func TestPackASCII_OddWidthAndSanitize(t *testing.T) {
	regs := PackASCII("abc\x01ef", 5)
	if len(regs) != 3 {
		t.Fatalf("expected 3 regs, got %d", len(regs))
	}
	if regs[1] != uint16('c')<<8|uint16('?') {
		t.Fatalf("sanitize failed: 0x%04X", regs[1])
	}
	if regs[2] != uint16('e')<<8 {
		t.Fatalf("odd tail mismatch: 0x%04X", regs[2])
	}
}
