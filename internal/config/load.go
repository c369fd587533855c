// internal/config/load.go
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML config file. A relative schema_file is resolved against
// the config file's directory and its entries replace any inline schema.
// Load does not validate.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := decodeFile(path, cfg); err != nil {
		return nil, err
	}

	if cfg.SchemaFile != "" {
		p := cfg.SchemaFile
		if !filepath.IsAbs(p) {
			p = filepath.Join(filepath.Dir(path), p)
		}
		var doc SchemaDocument
		if err := decodeFile(p, &doc); err != nil {
			return nil, fmt.Errorf("schema_file: %w", err)
		}
		cfg.Schema = doc.Schema
	}

	return cfg, nil
}

func decodeFile(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil // empty file
		}
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
