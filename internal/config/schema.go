// internal/config/schema.go
package config

import (
	"fmt"

	"github.com/tamzrod/dwin-monitor/internal/vp"
)

// BuildSchema turns the configured VP table into a vp.Schema.
// An empty table selects the built-in display layout.
func BuildSchema(cfg *Config) (*vp.Schema, error) {
	if len(cfg.Schema) == 0 {
		return vp.DefaultSchema(), nil
	}

	items := make([]vp.Descriptor, 0, len(cfg.Schema))
	for i, e := range cfg.Schema {
		t, err := vp.ParseType(e.Type)
		if err != nil {
			return nil, fmt.Errorf("schema[%d] %q: %w", i, e.Name, err)
		}
		def, err := vp.ValueOf(t, e.Default)
		if err != nil {
			return nil, fmt.Errorf("schema[%d] %q: default: %w", i, e.Name, err)
		}
		items = append(items, vp.Descriptor{
			Address: e.Address,
			Name:    e.Name,
			Type:    t,
			Width:   e.Width,
			Default: def,
		})
	}

	return vp.NewSchema(items)
}
