// internal/mirror/fake_test.go
package mirror

import "errors"

// ---- fake endpoint client ----

type fakeEndpointClient struct {
	writes   []writeCall
	lastRegs []uint16

	failAddr map[uint16]bool
}

type writeCall struct {
	unitID uint8
	addr   uint16
	regs   []uint16
}

func (f *fakeEndpointClient) WriteRegisters(unitID uint8, addr uint16, regs []uint16) error {
	if f.failAddr[addr] {
		return errors.New("write refused")
	}
	cp := append([]uint16(nil), regs...)
	f.writes = append(f.writes, writeCall{unitID: unitID, addr: addr, regs: cp})
	f.lastRegs = cp
	return nil
}
