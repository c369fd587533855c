// internal/vp/schema.go
package vp

import (
	"errors"
	"fmt"
)

// Descriptor is the static definition of one VP slot.
//
// Width is the wire width in bytes. For Str it is the fixed slot size
// (truncation and padding target); for UInt8/UInt16 it is 1/2.
type Descriptor struct {
	Address uint16
	Name    string
	Type    Type
	Width   uint8
	Default Value
}

// Words is the read length of the slot in 2-byte words.
func (d Descriptor) Words() int {
	if d.Type == Str {
		return (int(d.Width) + 1) / 2
	}
	return int(d.Width)
}

// Schema is an ordered, immutable VP table.
type Schema struct {
	items  []Descriptor
	byAddr map[uint16]int
	byName map[string]int
}

// NewSchema validates descriptors and builds the lookup tables.
// Order is preserved. Defaults are normalised through the same rules as Set,
// except that an out-of-range or mistyped default is an error.
func NewSchema(items []Descriptor) (*Schema, error) {
	if len(items) == 0 {
		return nil, errors.New("vp: schema has no entries")
	}

	s := &Schema{
		items:  make([]Descriptor, 0, len(items)),
		byAddr: make(map[uint16]int, len(items)),
		byName: make(map[string]int, len(items)),
	}

	for _, d := range items {
		if d.Name == "" {
			return nil, fmt.Errorf("vp: entry 0x%04X has no name", d.Address)
		}
		if _, dup := s.byAddr[d.Address]; dup {
			return nil, fmt.Errorf("vp: duplicate address 0x%04X (%s)", d.Address, d.Name)
		}
		if _, dup := s.byName[d.Name]; dup {
			return nil, fmt.Errorf("vp: duplicate name %q", d.Name)
		}

		switch d.Type {
		case Str:
			if d.Width == 0 {
				return nil, fmt.Errorf("vp: %s: string width must be > 0", d.Name)
			}
		case UInt8:
			if d.Width == 0 {
				d.Width = 1
			}
			if d.Width != 1 {
				return nil, fmt.Errorf("vp: %s: uint8 width must be 1, got %d", d.Name, d.Width)
			}
		case UInt16:
			if d.Width == 0 {
				d.Width = 2
			}
			if d.Width != 2 {
				return nil, fmt.Errorf("vp: %s: uint16 width must be 2, got %d", d.Name, d.Width)
			}
		default:
			return nil, fmt.Errorf("vp: %s: unsupported type %s", d.Name, d.Type)
		}

		def := d.Default
		if !def.Valid() {
			if d.Type == Str {
				def = Text("")
			} else {
				def = Uint(d.Type, 0)
			}
		}
		if d.Type == Str && def.Kind() == Str && len(def.Text()) > int(d.Width) {
			return nil, fmt.Errorf("vp: %s: default %q longer than width %d", d.Name, def.Text(), d.Width)
		}
		v, err := coerce(d, def)
		if err != nil {
			return nil, fmt.Errorf("vp: %s: bad default: %w", d.Name, err)
		}
		d.Default = v

		s.byAddr[d.Address] = len(s.items)
		s.byName[d.Name] = len(s.items)
		s.items = append(s.items, d)
	}

	return s, nil
}

// MustSchema is NewSchema for static tables.
func MustSchema(items []Descriptor) *Schema {
	s, err := NewSchema(items)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of entries.
func (s *Schema) Len() int { return len(s.items) }

// Descriptors returns a copy of the table in schema order.
func (s *Schema) Descriptors() []Descriptor {
	out := make([]Descriptor, len(s.items))
	copy(out, s.items)
	return out
}

// Lookup returns the descriptor for addr.
func (s *Schema) Lookup(addr uint16) (Descriptor, bool) {
	i, ok := s.byAddr[addr]
	if !ok {
		return Descriptor{}, false
	}
	return s.items[i], true
}

// LookupName returns the descriptor registered under name.
func (s *Schema) LookupName(name string) (Descriptor, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Descriptor{}, false
	}
	return s.items[i], true
}

// Has reports whether every name is present.
func (s *Schema) Has(names ...string) bool {
	for _, n := range names {
		if _, ok := s.byName[n]; !ok {
			return false
		}
	}
	return true
}
