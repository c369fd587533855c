// internal/config/normalize.go
package config

import "github.com/tamzrod/dwin-monitor/internal/vp"

// Defaults applied by Normalize.
const (
	DefaultBaud           = 115200
	DefaultReadTimeoutMs  = 100
	DefaultFrameTimeoutMs = 500
	DefaultReadChunk      = 64

	DefaultHandshakeVP        = "TIME"
	DefaultHandshakeAttempts  = 3
	DefaultHandshakeTimeoutMs = 1000
	DefaultInitDelayMs        = 100

	DefaultClockVP           = "TIME"
	DefaultClockFormat       = "15:04"
	DefaultRefreshIntervalMs = 15000
	DefaultPollIntervalMs    = 1000

	DefaultMirrorTimeoutMs  = 1000
	DefaultStatusIntervalMs = 1000

	DefaultLogLevel = "info"
)

// DefaultPush is the startup push list, filtered to what the schema has.
var DefaultPush = []string{
	"HOSTNAME",
	"PLANT_ID",
	"TOTAL_CYCLE",
	"GROWTH_DAY",
	"GROWTH_BAR",
	"FW_VERSION",
	"HW_VERSION",
}

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	// ------------------------------------------------------------
	// SERIAL + PROTOCOL
	// ------------------------------------------------------------

	if cfg.Serial.Baud == 0 {
		cfg.Serial.Baud = DefaultBaud
	}
	if cfg.Serial.TimeoutMs == 0 {
		cfg.Serial.TimeoutMs = DefaultReadTimeoutMs
	}
	if cfg.Protocol.Checksum == "" {
		cfg.Protocol.Checksum = "sum8"
	}
	if cfg.Protocol.FrameTimeoutMs == 0 {
		cfg.Protocol.FrameTimeoutMs = DefaultFrameTimeoutMs
	}
	if cfg.Protocol.ReadChunk == 0 {
		cfg.Protocol.ReadChunk = DefaultReadChunk
	}

	// ------------------------------------------------------------
	// VP DEFAULTS (only names the schema actually carries)
	// ------------------------------------------------------------

	schema, err := BuildSchema(cfg)
	if err != nil {
		// Validate() already rejected this; leave names untouched.
		schema = nil
	}
	has := func(name string) bool {
		return schema != nil && schema.Has(name)
	}

	if cfg.Handshake.VP == "" {
		if has(DefaultHandshakeVP) {
			cfg.Handshake.VP = DefaultHandshakeVP
		} else if schema != nil {
			cfg.Handshake.VP = schema.Descriptors()[0].Name
		}
	}
	if cfg.Handshake.Attempts == 0 {
		cfg.Handshake.Attempts = DefaultHandshakeAttempts
	}
	if cfg.Handshake.TimeoutMs == 0 {
		cfg.Handshake.TimeoutMs = DefaultHandshakeTimeoutMs
	}

	if cfg.Init.Push == nil {
		for _, name := range DefaultPush {
			if has(name) {
				cfg.Init.Push = append(cfg.Init.Push, name)
			}
		}
	}

	if cfg.Init.DelayMs == 0 {
		cfg.Init.DelayMs = DefaultInitDelayMs
	}

	if !cfg.Refresh.Disabled && cfg.Refresh.ClockVP == "" && isClock(schema, DefaultClockVP) {
		cfg.Refresh.ClockVP = DefaultClockVP
	}
	if cfg.Refresh.Format == "" {
		cfg.Refresh.Format = DefaultClockFormat
	}
	if cfg.Refresh.IntervalMs == 0 {
		cfg.Refresh.IntervalMs = DefaultRefreshIntervalMs
	}
	if cfg.Poll.IntervalMs == 0 {
		cfg.Poll.IntervalMs = DefaultPollIntervalMs
	}

	// ------------------------------------------------------------
	// MIRROR (OPT-IN)
	// ------------------------------------------------------------

	if cfg.Mirror.Enabled {
		if cfg.Mirror.TimeoutMs == 0 {
			cfg.Mirror.TimeoutMs = DefaultMirrorTimeoutMs
		}
		if cfg.Mirror.StatusRegister != nil {
			if cfg.Mirror.StatusUnitID == nil {
				id := cfg.Mirror.UnitID
				cfg.Mirror.StatusUnitID = &id
			}
			if cfg.Mirror.StatusIntervalMs == 0 {
				cfg.Mirror.StatusIntervalMs = DefaultStatusIntervalMs
			}
		}
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
}

func isClock(schema *vp.Schema, name string) bool {
	if schema == nil {
		return false
	}
	d, ok := schema.LookupName(name)
	return ok && d.Type == vp.Str
}
