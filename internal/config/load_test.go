// internal/config/load_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/tamzrod/dwin-monitor/internal/vp"
)

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	assert.NilError(t, os.WriteFile(p, []byte(data), 0o644))
	return p
}

func TestLoad_InlineConfig(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "dwinmon.yaml", `
serial:
  port: /dev/ttyUSB0
  baud: 9600
protocol:
  checksum: none
schema:
  - { address: 0x1000, name: TIME, type: str, width: 6, default: "12:00" }
  - { address: 0x1020, name: PLANT_ID, type: uint8, default: 4 }
mirror:
  enabled: true
  endpoint: 10.0.0.5:502
  vp_base: 0x1000
  status_register: 100
`)

	cfg, err := Load(p)
	assert.NilError(t, err)
	assert.Equal(t, cfg.Serial.Port, "/dev/ttyUSB0")
	assert.Equal(t, cfg.Serial.Baud, 9600)
	assert.Equal(t, cfg.Protocol.Checksum, "none")
	assert.Equal(t, len(cfg.Schema), 2)
	assert.Equal(t, cfg.Schema[1].Address, uint16(0x1020))
	assert.Equal(t, *cfg.Mirror.StatusRegister, uint16(100))

	assert.NilError(t, Validate(cfg))

	s, err := BuildSchema(cfg)
	assert.NilError(t, err)
	d, ok := s.LookupName("PLANT_ID")
	assert.Assert(t, ok)
	assert.Equal(t, d.Width, uint8(1))
	assert.Equal(t, d.Default, vp.Uint(vp.UInt8, 4))
}

func TestLoad_SchemaFileRelativeToConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "schema.yaml", `
schema:
  - { address: 0x1000, name: TIME, type: str, width: 8 }
`)
	p := writeFile(t, dir, "dwinmon.yaml", `
schema_file: schema.yaml
schema:
  - { address: 0x2000, name: IGNORED, type: uint8 }
`)

	cfg, err := Load(p)
	assert.NilError(t, err)
	assert.Equal(t, len(cfg.Schema), 1)
	assert.Equal(t, cfg.Schema[0].Name, "TIME")
	assert.Equal(t, cfg.Schema[0].Width, uint8(8))
}

func TestLoad_UnknownFieldRejected(t *testing.T) {
	p := writeFile(t, t.TempDir(), "dwinmon.yaml", "serial:\n  speed: 9600\n")

	_, err := Load(p)
	assert.ErrorContains(t, err, "speed")
}

func TestLoad_EmptyFile(t *testing.T) {
	p := writeFile(t, t.TempDir(), "dwinmon.yaml", "")

	cfg, err := Load(p)
	assert.NilError(t, err)
	assert.Equal(t, len(cfg.Schema), 0)
}

func TestLoad_MissingSchemaFile(t *testing.T) {
	p := writeFile(t, t.TempDir(), "dwinmon.yaml", "schema_file: nope.yaml\n")

	_, err := Load(p)
	assert.ErrorContains(t, err, "schema_file")
}

func TestNormalize_Defaults(t *testing.T) {
	cfg := &Config{}
	assert.NilError(t, Validate(cfg))
	Normalize(cfg)

	assert.Equal(t, cfg.Serial.Baud, DefaultBaud)
	assert.Equal(t, cfg.Protocol.Checksum, "sum8")
	assert.Equal(t, cfg.Protocol.FrameTimeoutMs, DefaultFrameTimeoutMs)
	assert.Equal(t, cfg.Handshake.VP, "TIME")
	assert.Equal(t, cfg.Handshake.Attempts, 3)
	assert.DeepEqual(t, cfg.Init.Push, DefaultPush)
	assert.Equal(t, cfg.Refresh.ClockVP, "TIME")
	assert.Equal(t, cfg.Refresh.IntervalMs, 15000)
	assert.Equal(t, cfg.Log.Level, "info")
}

func TestNormalize_FiltersToSchema(t *testing.T) {
	cfg := &Config{
		Schema: []VPConfig{
			{Address: 0x1020, Name: "PLANT_ID", Type: "uint8"},
			{Address: 0x1030, Name: "TOTAL_CYCLE", Type: "uint8"},
		},
		Mirror: MirrorConfig{Enabled: true, Endpoint: "x:502", UnitID: 4, VPBase: 0x1000, StatusRegister: u16(500)},
	}
	assert.NilError(t, Validate(cfg))
	Normalize(cfg)

	// no TIME: handshake falls back to the first entry, no clock refresh
	assert.Equal(t, cfg.Handshake.VP, "PLANT_ID")
	assert.Equal(t, cfg.Refresh.ClockVP, "")
	assert.DeepEqual(t, cfg.Init.Push, []string{"PLANT_ID", "TOTAL_CYCLE"})

	assert.Equal(t, *cfg.Mirror.StatusUnitID, uint8(4))
	assert.Equal(t, cfg.Mirror.TimeoutMs, DefaultMirrorTimeoutMs)
}

func TestLoad_ShippedExamples(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "configs", "dwinmon.yaml"))
	assert.NilError(t, err)
	assert.NilError(t, Validate(cfg))

	cfg.SchemaFile = "schema-firmware.yaml"
	doc := SchemaDocument{}
	assert.NilError(t, decodeFile(filepath.Join("..", "..", "configs", cfg.SchemaFile), &doc))
	cfg.Schema = doc.Schema
	assert.NilError(t, Validate(cfg))

	s, err := BuildSchema(cfg)
	assert.NilError(t, err)
	d, _ := s.LookupName("HOSTNAME")
	assert.Equal(t, d.Width, uint8(7))
	assert.Equal(t, d.Words(), 4)
}
