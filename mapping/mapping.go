// Package mapping holds the marker table: which spreadsheet cell feeds
// each marker token of the contract template.
package mapping

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// Entry binds one marker token to a (sheet, cell) coordinate.
type Entry struct {
	Marker string `yaml:"marker"`
	Sheet  string `yaml:"sheet"`
	Cell   string `yaml:"cell"`
}

// Source renders the coordinate as Sheet!Cell.
func (e Entry) Source() string {
	return e.Sheet + "!" + e.Cell
}

func (e Entry) String() string {
	return fmt.Sprintf("%s — %s", e.Marker, e.Source())
}

// Mapping is an immutable, ordered marker table. The zero value is an
// empty mapping.
type Mapping struct {
	entries []Entry
	index   map[string]int
}

// New validates entries and builds a Mapping that keeps their order.
func New(entries ...Entry) (Mapping, error) {
	m := Mapping{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	var errs []error
	for i, e := range entries {
		e.Sheet = strings.TrimSpace(e.Sheet)
		e.Cell = strings.ToUpper(strings.TrimSpace(e.Cell))
		if err := validate(e); err != nil {
			errs = append(errs, fmt.Errorf("entry %d: %w", i+1, err))
			continue
		}
		if _, dup := m.index[e.Marker]; dup {
			errs = append(errs, fmt.Errorf("entry %d: duplicate marker %q", i+1, e.Marker))
			continue
		}
		m.index[e.Marker] = len(m.entries)
		m.entries = append(m.entries, e)
	}
	if len(errs) > 0 {
		return Mapping{}, errors.Join(errs...)
	}
	return m, nil
}

// MustNew is New for static tables; it panics on an invalid entry.
func MustNew(entries ...Entry) Mapping {
	m, err := New(entries...)
	if err != nil {
		panic(err)
	}
	return m
}

func validate(e Entry) error {
	if e.Marker == "" {
		return errors.New("empty marker")
	}
	if e.Sheet == "" {
		return fmt.Errorf("marker %q: empty sheet name", e.Marker)
	}
	if _, _, err := excelize.CellNameToCoordinates(e.Cell); err != nil {
		return fmt.Errorf("marker %q: invalid cell %q: %w", e.Marker, e.Cell, err)
	}
	return nil
}

// Entries returns a copy of the entries in stored order.
func (m Mapping) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Len reports the number of entries.
func (m Mapping) Len() int { return len(m.entries) }

// Lookup returns the entry for marker.
func (m Mapping) Lookup(marker string) (Entry, bool) {
	i, ok := m.index[marker]
	if !ok {
		return Entry{}, false
	}
	return m.entries[i], true
}

// Sheets lists the distinct sheet names referenced, in first-use order.
func (m Mapping) Sheets() []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range m.entries {
		if !seen[e.Sheet] {
			seen[e.Sheet] = true
			out = append(out, e.Sheet)
		}
	}
	return out
}

// Load reads a mapping from a YAML list of {marker, sheet, cell} items.
func Load(path string) (Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Mapping{}, fmt.Errorf("read mapping: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML mapping document.
func Parse(data []byte) (Mapping, error) {
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return Mapping{}, fmt.Errorf("decode mapping: %w", err)
	}
	if len(entries) == 0 {
		return Mapping{}, errors.New("decode mapping: no entries")
	}
	return New(entries...)
}

// Marshal encodes the mapping as YAML, in the format Parse accepts.
func (m Mapping) Marshal() ([]byte, error) {
	return yaml.Marshal(m.entries)
}
