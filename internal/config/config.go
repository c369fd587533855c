// internal/config/config.go
package config

type Config struct {
	Serial     SerialConfig    `yaml:"serial"`
	Protocol   ProtocolConfig  `yaml:"protocol"`
	Schema     []VPConfig      `yaml:"schema"`
	SchemaFile string          `yaml:"schema_file"`
	Handshake  HandshakeConfig `yaml:"handshake"`
	Init       InitConfig      `yaml:"init"`
	Refresh    RefreshConfig   `yaml:"refresh"`
	Poll       PollConfig      `yaml:"poll"`
	Rules      RulesConfig     `yaml:"rules"`
	Store      StoreConfig     `yaml:"store"`
	Mirror     MirrorConfig    `yaml:"mirror"`
	Log        LogConfig       `yaml:"log"`
}

// ---- SERIAL ----

type SerialConfig struct {
	Port      string `yaml:"port"`
	Baud      int    `yaml:"baud"`
	TimeoutMs int    `yaml:"timeout_ms"` // per-read timeout
}

// ---- PROTOCOL ----

type ProtocolConfig struct {
	Checksum       string `yaml:"checksum"` // sum8 | none
	FrameTimeoutMs int    `yaml:"frame_timeout_ms"`
	ReadChunk      int    `yaml:"read_chunk"`
}

// ---- SCHEMA ----

type VPConfig struct {
	Address uint16 `yaml:"address"`
	Name    string `yaml:"name"`
	Type    string `yaml:"type"` // str | uint8 | uint16
	Width   uint8  `yaml:"width"`
	Default any    `yaml:"default"`
}

// SchemaDocument is the layout of a standalone schema_file.
type SchemaDocument struct {
	Schema []VPConfig `yaml:"schema"`
}

// ---- STARTUP ----

type HandshakeConfig struct {
	Disabled  bool   `yaml:"disabled"`
	VP        string `yaml:"vp"`
	Attempts  int    `yaml:"attempts"`
	TimeoutMs int    `yaml:"timeout_ms"` // reply window per attempt
}

type InitConfig struct {
	// Set overrides registry values before the push (e.g. FW_VERSION).
	Set     map[string]any `yaml:"set"`
	Push    []string       `yaml:"push"`
	DelayMs int            `yaml:"delay_ms"` // pause between pushed frames
}

// ---- SCHEDULES ----

type RefreshConfig struct {
	Disabled   bool   `yaml:"disabled"`
	ClockVP    string `yaml:"clock_vp"`
	Format     string `yaml:"format"`
	IntervalMs int    `yaml:"interval_ms"`
}

type PollConfig struct {
	IntervalMs int      `yaml:"interval_ms"`
	Reads      []string `yaml:"reads"`
}

// ---- RULES ----

type RulesConfig struct {
	DisableGrowth bool         `yaml:"disable_growth"`
	Links         []LinkConfig `yaml:"links"`
}

// LinkConfig writes Value to Set when the display writes Equals to When.
type LinkConfig struct {
	When   string `yaml:"when"`
	Equals any    `yaml:"equals"`
	Set    string `yaml:"set"`
	Value  any    `yaml:"value"`
}

// ---- STORE ----

type StoreConfig struct {
	Path string `yaml:"path"` // empty disables persistence
}

// ---- MIRROR ----

type MirrorConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Endpoint     string `yaml:"endpoint"`
	UnitID       uint8  `yaml:"unit_id"`
	TimeoutMs    int    `yaml:"timeout_ms"`
	VPBase       uint16 `yaml:"vp_base"`
	BaseRegister uint16 `yaml:"base_register"`

	// Session status block (optional, opt-in)
	StatusRegister   *uint16 `yaml:"status_register"`
	StatusUnitID     *uint8  `yaml:"status_unit_id"`
	StatusIntervalMs int     `yaml:"status_interval_ms"`
}

// ---- LOG ----

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}
