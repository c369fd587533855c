// internal/mirror/types.go
package mirror

// endpointClient is the exact contract the mirror uses.
type endpointClient interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
}

// Plan is the fully-built mirror geometry.
type Plan struct {
	UnitID       uint8
	VPBase       uint16
	BaseRegister uint16

	// Status is nil when the session status block is disabled.
	Status *StatusPlan
}

// StatusPlan places the session status block.
type StatusPlan struct {
	UnitID   uint8
	Register uint16
}
