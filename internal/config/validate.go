// internal/config/validate.go
package config

import (
	"fmt"
	"sort"

	"github.com/tamzrod/dwin-monitor/internal/codec"
	"github.com/tamzrod/dwin-monitor/internal/logging"
	"github.com/tamzrod/dwin-monitor/internal/status"
	"github.com/tamzrod/dwin-monitor/internal/vp"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	// ------------------------------------------------------------
	// SERIAL + PROTOCOL
	// ------------------------------------------------------------

	if cfg.Serial.Baud < 0 {
		return fmt.Errorf("serial: baud %d must be > 0", cfg.Serial.Baud)
	}
	if cfg.Serial.TimeoutMs < 0 {
		return fmt.Errorf("serial: timeout_ms must not be negative")
	}
	if _, err := codec.ParseChecksumPolicy(cfg.Protocol.Checksum); err != nil {
		return fmt.Errorf("protocol: %w", err)
	}
	if cfg.Protocol.FrameTimeoutMs < 0 {
		return fmt.Errorf("protocol: frame_timeout_ms must not be negative")
	}
	if cfg.Protocol.ReadChunk < 0 {
		return fmt.Errorf("protocol: read_chunk must not be negative")
	}

	// ------------------------------------------------------------
	// SCHEMA
	// ------------------------------------------------------------

	schema, err := BuildSchema(cfg)
	if err != nil {
		return err
	}

	// ------------------------------------------------------------
	// VP REFERENCES
	// ------------------------------------------------------------

	ref := func(section, name string) error {
		if _, ok := schema.LookupName(name); !ok {
			return fmt.Errorf("%s: unknown vp %q", section, name)
		}
		return nil
	}

	if !cfg.Handshake.Disabled && cfg.Handshake.VP != "" {
		if err := ref("handshake", cfg.Handshake.VP); err != nil {
			return err
		}
	}
	if cfg.Handshake.Attempts < 0 || cfg.Handshake.TimeoutMs < 0 {
		return fmt.Errorf("handshake: attempts and timeout_ms must not be negative")
	}

	for _, name := range cfg.Init.Push {
		if err := ref("init.push", name); err != nil {
			return err
		}
	}

	// init.set values must be storable; a scratch registry does the check
	scratch := vp.NewRegistry(schema)
	for name, raw := range cfg.Init.Set {
		if err := ref("init.set", name); err != nil {
			return err
		}
		if _, err := scratch.SetByName(name, raw); err != nil {
			return fmt.Errorf("init.set: %w", err)
		}
	}

	if cfg.Init.DelayMs < 0 {
		return fmt.Errorf("init: delay_ms must not be negative")
	}

	for i, l := range cfg.Rules.Links {
		when, ok := schema.LookupName(l.When)
		if !ok {
			return fmt.Errorf("rules.links[%d]: unknown vp %q", i, l.When)
		}
		if l.Equals == nil {
			return fmt.Errorf("rules.links[%d]: equals required", i)
		}
		if _, err := vp.ValueOf(when.Type, l.Equals); err != nil {
			return fmt.Errorf("rules.links[%d]: equals: %w", i, err)
		}
		if err := ref(fmt.Sprintf("rules.links[%d]", i), l.Set); err != nil {
			return err
		}
		if _, err := scratch.SetByName(l.Set, l.Value); err != nil {
			return fmt.Errorf("rules.links[%d]: value: %w", i, err)
		}
	}

	if !cfg.Refresh.Disabled && cfg.Refresh.ClockVP != "" {
		d, ok := schema.LookupName(cfg.Refresh.ClockVP)
		if !ok {
			return fmt.Errorf("refresh: unknown vp %q", cfg.Refresh.ClockVP)
		}
		if d.Type != vp.Str {
			return fmt.Errorf("refresh: clock vp %q must be a string vp", d.Name)
		}
	}
	if cfg.Refresh.IntervalMs < 0 {
		return fmt.Errorf("refresh: interval_ms must not be negative")
	}

	for _, name := range cfg.Poll.Reads {
		if err := ref("poll.reads", name); err != nil {
			return err
		}
	}
	if cfg.Poll.IntervalMs < 0 {
		return fmt.Errorf("poll: interval_ms must not be negative")
	}

	// ------------------------------------------------------------
	// MIRROR GEOMETRY (OPT-IN)
	// ------------------------------------------------------------

	if cfg.Mirror.Enabled {
		if err := validateMirror(&cfg.Mirror, schema); err != nil {
			return err
		}
	}

	// ------------------------------------------------------------
	// LOG
	// ------------------------------------------------------------

	if cfg.Log.Level != "" {
		if _, ok := logging.ParseLevel(cfg.Log.Level); !ok {
			return fmt.Errorf("log: unknown level %q", cfg.Log.Level)
		}
	}

	return nil
}

func validateMirror(m *MirrorConfig, schema *vp.Schema) error {
	type span struct {
		start uint32
		end   uint32
		name  string
	}

	if m.Endpoint == "" {
		return fmt.Errorf("mirror: endpoint required")
	}
	if m.TimeoutMs < 0 || m.StatusIntervalMs < 0 {
		return fmt.Errorf("mirror: timeouts and intervals must not be negative")
	}

	var spans []span
	for _, d := range schema.Descriptors() {
		if d.Address < m.VPBase {
			return fmt.Errorf(
				"mirror: vp %s address 0x%04X is below vp_base 0x%04X",
				d.Name,
				d.Address,
				m.VPBase,
			)
		}

		start := uint32(m.BaseRegister) + uint32(d.Address-m.VPBase)
		regs := 1
		if d.Type == vp.Str {
			regs = d.Words()
		}
		end := start + uint32(regs) - 1
		if end > 0xFFFF {
			return fmt.Errorf(
				"mirror: vp %s maps to registers %d-%d beyond 65535",
				d.Name,
				start,
				end,
			)
		}
		spans = append(spans, span{start: start, end: end, name: d.Name})
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	for i := 1; i < len(spans); i++ {
		prev, cur := spans[i-1], spans[i]
		if cur.start <= prev.end {
			return fmt.Errorf(
				"mirror overlap: vp %s registers %d-%d overlap vp %s registers %d-%d",
				cur.name,
				cur.start,
				cur.end,
				prev.name,
				prev.start,
				prev.end,
			)
		}
	}

	if m.StatusRegister == nil {
		return nil
	}

	start := uint32(*m.StatusRegister)
	end := start + uint32(status.SlotsPerSession) - 1
	if end > 0xFFFF {
		return fmt.Errorf("mirror: status block at %d runs past 65535", start)
	}

	// the status block only collides with data when both share a unit id
	if m.StatusUnitID != nil && *m.StatusUnitID != m.UnitID {
		return nil
	}

	for _, s := range spans {
		// overlap check (inclusive)
		if !(end < s.start || start > s.end) {
			return fmt.Errorf(
				"mirror overlap: status block %d-%d overlaps vp %s registers %d-%d",
				start,
				end,
				s.name,
				s.start,
				s.end,
			)
		}
	}

	return nil
}
