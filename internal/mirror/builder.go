// internal/mirror/builder.go
package mirror

import (
	"errors"
	"time"

	cfg "github.com/tamzrod/dwin-monitor/internal/config"
	mmodbus "github.com/tamzrod/dwin-monitor/internal/mirror/modbus"
)

// BuildPlan converts the mirror config into a Plan.
// Assumes config has already passed validation and normalization.
func BuildPlan(m cfg.MirrorConfig) (Plan, error) {
	if !m.Enabled {
		return Plan{}, errors.New("mirror: not enabled")
	}

	plan := Plan{
		UnitID:       m.UnitID,
		VPBase:       m.VPBase,
		BaseRegister: m.BaseRegister,
	}

	if m.StatusRegister != nil {
		sp := &StatusPlan{
			UnitID:   m.UnitID,
			Register: *m.StatusRegister,
		}
		if m.StatusUnitID != nil {
			sp.UnitID = *m.StatusUnitID
		}
		plan.Status = sp
	}

	return plan, nil
}

// BuildClient opens the Modbus TCP client for the mirror endpoint.
func BuildClient(m cfg.MirrorConfig) (*mmodbus.EndpointClient, error) {
	return mmodbus.NewEndpointClient(mmodbus.Config{
		Endpoint: m.Endpoint,
		Timeout:  time.Duration(m.TimeoutMs) * time.Millisecond,
	})
}
