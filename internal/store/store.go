// internal/store/store.go
package store

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/google/renameio/v2"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/tamzrod/dwin-monitor/internal/vp"
)

// file is the on-disk layout. Keys are 4-digit hex VP addresses.
type file struct {
	Values map[string]any `yaml:"values"`
}

// Key formats addr the way it is stored.
func Key(addr uint16) string { return fmt.Sprintf("%04X", addr) }

// Store persists registry values to a YAML file.
type Store struct {
	path string
	reg  *vp.Registry
	log  zerolog.Logger

	mu sync.Mutex
}

// New returns a store for reg at path. Nothing is read until Load.
func New(path string, reg *vp.Registry, log zerolog.Logger) (*Store, error) {
	if path == "" {
		return nil, errors.New("store: path required")
	}
	return &Store{
		path: path,
		reg:  reg,
		log:  log.With().Str("store", path).Logger(),
	}, nil
}

// Path returns the backing file.
func (s *Store) Path() string { return s.path }

// Load applies saved values over the registry defaults and returns how many
// were applied. A missing file is not an error. Entries that no longer fit
// the schema are logged and skipped.
func (s *Store) Load() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.log.Info().Msg("no saved values, using defaults")
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("store: read: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(b, &f); err != nil {
		return 0, fmt.Errorf("store: parse %s: %w", s.path, err)
	}

	applied := 0
	for key, raw := range f.Values {
		addr, err := strconv.ParseUint(key, 16, 16)
		if err != nil {
			s.log.Warn().Str("key", key).Msg("bad address key, skipped")
			continue
		}
		if _, err := s.reg.Set(uint16(addr), raw); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("saved value skipped")
			continue
		}
		applied++
	}

	s.log.Info().Int("values", applied).Msg("saved values loaded")
	return applied, nil
}

// Save writes the whole registry. The file is replaced atomically.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := file{Values: make(map[string]any)}
	for addr, v := range s.reg.Snapshot() {
		f.Values[Key(addr)] = v.Any()
	}

	b, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("store: encode: %w", err)
	}

	if err := renameio.WriteFile(s.path, b, 0o644); err != nil {
		return fmt.Errorf("store: write: %w", err)
	}
	return nil
}

// Watch is an engine watcher that saves on every committed change.
func (s *Store) Watch(addr uint16, _ vp.Value) {
	if err := s.Save(); err != nil {
		s.log.Error().Err(err).Str("vp", Key(addr)).Msg("save failed")
	}
}
