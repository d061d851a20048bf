// Package taxonomy holds the static sector reference data: which
// symbols belong to which sector, how provider sector labels map onto
// the internal tag set, and per-symbol overrides. The tables are data,
// not code: they ship with an embedded default and can be replaced at
// runtime from a YAML file.
package taxonomy

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// SectorTables lists the instruments of one sector per category.
type SectorTables struct {
	Equities    []string `yaml:"equities"`
	ETFs        []string `yaml:"etfs"`
	MutualFunds []string `yaml:"mutual_funds"`
	Bonds       []string `yaml:"bonds"`
}

// Tables is the full on-disk taxonomy document.
type Tables struct {
	Version     int                     `yaml:"version"`
	Sectors     map[string]SectorTables `yaml:"sectors"`
	Standardize map[string]string       `yaml:"standardize"`
	Overrides   map[string]string       `yaml:"overrides"`
}

// Taxonomy provides concurrent read access to one table set. Reload
// swaps the whole set at once, so readers never observe a partial mix
// of old and new tables.
type Taxonomy struct {
	mu     sync.RWMutex
	tables *Tables
}

// Default returns a taxonomy backed by the embedded tables.
func Default() *Taxonomy {
	tables, err := parse(defaultYAML)
	if err != nil {
		// The embedded document is validated by tests; failing to
		// parse it is a build defect, not a runtime condition.
		panic(fmt.Sprintf("taxonomy: embedded default is invalid: %v", err))
	}
	return &Taxonomy{tables: tables}
}

// Load reads taxonomy tables from a YAML file. An empty path returns
// the embedded defaults.
func Load(path string) (*Taxonomy, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy: %w", err)
	}

	tables, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse taxonomy %s: %w", path, err)
	}

	return &Taxonomy{tables: tables}, nil
}

// Reload replaces the current tables from path in one swap.
func (t *Taxonomy) Reload(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read taxonomy: %w", err)
	}

	tables, err := parse(data)
	if err != nil {
		return fmt.Errorf("parse taxonomy %s: %w", path, err)
	}

	t.mu.Lock()
	t.tables = tables
	t.mu.Unlock()
	return nil
}

// parse decodes and validates a taxonomy document. Unknown fields are
// rejected so typos in reference data fail loudly instead of silently
// dropping a table.
func parse(data []byte) (*Tables, error) {
	var tables Tables
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&tables); err != nil {
		return nil, err
	}

	if len(tables.Sectors) == 0 {
		return nil, fmt.Errorf("no sectors defined")
	}

	for tag, sector := range tables.Sectors {
		if tag != strings.ToLower(tag) {
			return nil, fmt.Errorf("sector tag %q must be lowercase", tag)
		}
		if len(sector.Equities) == 0 {
			return nil, fmt.Errorf("sector %q has no equity constituents", tag)
		}
	}

	for label, tag := range tables.Standardize {
		if _, ok := tables.Sectors[tag]; !ok {
			return nil, fmt.Errorf("standardize maps %q to unknown sector %q", label, tag)
		}
	}

	for symbol, tag := range tables.Overrides {
		if _, ok := tables.Sectors[tag]; !ok {
			return nil, fmt.Errorf("override maps %q to unknown sector %q", symbol, tag)
		}
	}

	return &tables, nil
}

// Sectors returns the known sector tags.
func (t *Taxonomy) Sectors() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	tags := make([]string, 0, len(t.tables.Sectors))
	for tag := range t.tables.Sectors {
		tags = append(tags, tag)
	}
	return tags
}

// SectorEquities returns the equity constituents of a sector. Unknown
// sectors yield an empty list, not an error.
func (t *Taxonomy) SectorEquities(sector string) []string {
	return t.lookup(sector, func(s SectorTables) []string { return s.Equities })
}

// SectorETFs returns the ETFs tracking a sector.
func (t *Taxonomy) SectorETFs(sector string) []string {
	return t.lookup(sector, func(s SectorTables) []string { return s.ETFs })
}

// SectorMutualFunds returns the mutual funds focused on a sector.
func (t *Taxonomy) SectorMutualFunds(sector string) []string {
	return t.lookup(sector, func(s SectorTables) []string { return s.MutualFunds })
}

// SectorBonds returns the bond instruments associated with a sector.
func (t *Taxonomy) SectorBonds(sector string) []string {
	return t.lookup(sector, func(s SectorTables) []string { return s.Bonds })
}

func (t *Taxonomy) lookup(sector string, pick func(SectorTables) []string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	tables, ok := t.tables.Sectors[strings.ToLower(sector)]
	if !ok {
		return nil
	}
	return pick(tables)
}

// AllSymbols returns every symbol in every table, deduplicated. Used by
// the cache warm job.
func (t *Taxonomy) AllSymbols() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	seen := make(map[string]struct{})
	symbols := make([]string, 0, 256)
	add := func(list []string) {
		for _, s := range list {
			s = strings.ToUpper(s)
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			symbols = append(symbols, s)
		}
	}

	for _, sector := range t.tables.Sectors {
		add(sector.Equities)
		add(sector.ETFs)
		add(sector.MutualFunds)
		add(sector.Bonds)
	}
	return symbols
}

// Standardize normalizes a provider sector label to an internal tag.
// Pure and idempotent: already-standardized tags map to themselves.
func (t *Taxonomy) Standardize(sector string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	lower := strings.ToLower(strings.TrimSpace(sector))
	if tag, ok := t.tables.Standardize[lower]; ok {
		return tag
	}
	return lower
}

// EffectiveSector resolves the sector tag used for all equality tests:
// the per-symbol override when one exists, otherwise the standardized
// provider label.
func (t *Taxonomy) EffectiveSector(symbol, rawSector string) string {
	t.mu.RLock()
	override, ok := t.tables.Overrides[strings.ToUpper(symbol)]
	t.mu.RUnlock()

	if ok {
		return override
	}
	return t.Standardize(rawSector)
}
