// internal/mirror/mirror.go
package mirror

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tamzrod/dwin-monitor/internal/status"
	"github.com/tamzrod/dwin-monitor/internal/vp"
)

// Mirror copies VP values into holding registers.
//
// Register math: register = BaseRegister + (address - VPBase).
// Integers take one register; strings take Words() registers of packed
// ASCII, NUL padded.
type Mirror struct {
	plan   Plan
	schema *vp.Schema
	cli    endpointClient
	log    zerolog.Logger
}

// New checks that every VP of schema maps into the register space.
func New(plan Plan, schema *vp.Schema, cli endpointClient, log zerolog.Logger) (*Mirror, error) {
	if cli == nil {
		return nil, errors.New("mirror: client required")
	}
	m := &Mirror{
		plan:   plan,
		schema: schema,
		cli:    cli,
		log:    log.With().Str("component", "mirror").Logger(),
	}
	for _, d := range schema.Descriptors() {
		if _, ok := m.Register(d.Address); !ok {
			return nil, fmt.Errorf("mirror: vp %s (0x%04X) does not map to a register", d.Name, d.Address)
		}
	}
	return m, nil
}

// Register returns the first register of the VP at addr.
func (m *Mirror) Register(addr uint16) (uint16, bool) {
	d, ok := m.schema.Lookup(addr)
	if !ok || addr < m.plan.VPBase {
		return 0, false
	}
	start := uint32(m.plan.BaseRegister) + uint32(addr-m.plan.VPBase)
	if start+uint32(registers(d))-1 > 0xFFFF {
		return 0, false
	}
	return uint16(start), true
}

func registers(d vp.Descriptor) int {
	if d.Type == vp.Str {
		return d.Words()
	}
	return 1
}

// Encode renders v for the registers of d.
func Encode(d vp.Descriptor, v vp.Value) []uint16 {
	if d.Type == vp.Str {
		return status.PackASCII(v.Text(), d.Words()*2)
	}
	return []uint16{v.Uint()}
}

// Write mirrors one value.
func (m *Mirror) Write(addr uint16, v vp.Value) error {
	d, ok := m.schema.Lookup(addr)
	if !ok {
		return fmt.Errorf("%w: 0x%04X", vp.ErrUnknownAddress, addr)
	}
	reg, ok := m.Register(addr)
	if !ok {
		return fmt.Errorf("mirror: vp %s has no register", d.Name)
	}
	if err := m.cli.WriteRegisters(m.plan.UnitID, reg, Encode(d, v)); err != nil {
		return fmt.Errorf("mirror: vp=%s unit=%d addr=%d err=%w", d.Name, m.plan.UnitID, reg, err)
	}
	return nil
}

// Sync writes every value of reg, continuing past failures.
func (m *Mirror) Sync(reg *vp.Registry) error {
	var errs []string

	snap := reg.Snapshot()
	for _, d := range m.schema.Descriptors() {
		v, ok := snap[d.Address]
		if !ok {
			continue
		}
		if err := m.Write(d.Address, v); err != nil {
			errs = append(errs, err.Error())
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, " | "))
	}
	m.log.Info().Int("vps", len(snap)).Msg("mirror synced")
	return nil
}

// Watch is an engine watcher. Failures are logged; the session goes on.
func (m *Mirror) Watch(addr uint16, v vp.Value) {
	if err := m.Write(addr, v); err != nil {
		m.log.Warn().Err(err).Msg("mirror write failed")
	}
}
