// internal/mirror/status_writer.go
package mirror

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tamzrod/dwin-monitor/internal/engine"
	"github.com/tamzrod/dwin-monitor/internal/status"
)

// StatusWriter is the delivery-only contract for session status.
// It receives a snapshot and writes it verbatim.
type StatusWriter interface {
	WriteStatus(s status.Snapshot) error
}

// sessionStatusWriter writes the status block of one session.
type sessionStatusWriter struct {
	plan *StatusPlan
	cli  endpointClient

	needFull bool
	last     []uint16
}

// NewStatusWriter builds a status writer if the status block is enabled.
// If plan.Status is nil, status is disabled.
func NewStatusWriter(plan Plan, cli endpointClient) (StatusWriter, bool) {
	if plan.Status == nil {
		return nil, false
	}
	return &sessionStatusWriter{
		plan:     plan.Status,
		cli:      cli,
		needFull: true, // full re-assert on first successful write
	}, true
}

// liveSlots are rewritten individually when they change.
var liveSlots = []int{
	status.SlotHealthCode,
	status.SlotFramesIn,
	status.SlotFramesOut,
	status.SlotChecksumErrors,
	status.SlotTimeouts,
	status.SlotRejected,
}

// WriteStatus delivers a session status snapshot into status memory.
// On any write failure, the next successful call will re-assert the full block.
func (sw *sessionStatusWriter) WriteStatus(s status.Snapshot) error {
	if sw == nil || sw.plan == nil {
		return errors.New("status writer: disabled")
	}
	if sw.cli == nil {
		return errors.New("status writer: missing client")
	}

	regs := status.Encode(s)
	base := sw.plan.Register
	unitID := sw.plan.UnitID

	// ------------------------------------------------------------
	// Full block write (identity re-assert)
	// ------------------------------------------------------------
	if sw.needFull || !sameIdentity(sw.last, regs) {
		if err := sw.cli.WriteRegisters(unitID, base, regs); err != nil {
			sw.needFull = true
			return fmt.Errorf("status writer: full block write failed: %w", err)
		}

		sw.needFull = false
		sw.last = regs
		return nil
	}

	var errs []string

	for _, slot := range liveSlots {
		if sw.last[slot] == regs[slot] {
			continue
		}
		if err := sw.cli.WriteRegisters(
			unitID,
			base+uint16(slot),
			[]uint16{regs[slot]},
		); err != nil {
			errs = append(errs, fmt.Sprintf("slot%d write failed: %v", slot, err))
		} else {
			sw.last[slot] = regs[slot]
		}
	}

	if len(errs) > 0 {
		// Any partial failure introduces doubt: re-assert on next success.
		sw.needFull = true
		return errors.New("status writer: " + strings.Join(errs, " | "))
	}

	return nil
}

// sameIdentity compares the session id slots of two blocks.
func sameIdentity(a, b []uint16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := status.SlotSessionStart; i < status.SlotSessionStart+status.SlotSessionSlots; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// StatusTask publishes src through sw every interval. Write failures are
// returned to the session loop, which logs them and carries on.
func StatusTask(sw StatusWriter, interval time.Duration, src func() status.Snapshot) engine.Task {
	var next time.Time
	return engine.TaskFunc(func(now time.Time) error {
		if now.Before(next) {
			return nil
		}
		next = now.Add(interval)
		return sw.WriteStatus(src())
	})
}
