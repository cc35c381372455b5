// Package lexicon holds the dialect dictionaries that map surface-form
// variants (misspellings, synonyms, written-out numerals, unit words) to
// canonical property attribute values. Tables are plain data loaded once
// from YAML artifacts and immutable afterwards.
package lexicon

import (
	"embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var embedded embed.FS

// Table is the full dictionary set for one locale.
type Table struct {
	Locale string `yaml:"locale"`

	// Types maps property-type surface forms (including compound phrases
	// such as the luxury-home idiom) to canonical type values.
	Types     map[string]string `yaml:"types"`
	Cities    map[string]string `yaml:"cities"`
	Districts map[string]string `yaml:"districts"`
	Features  map[string]string `yaml:"features"`

	// DistrictPrefixes are words that introduce a district name, so a bare
	// name and a prefixed one resolve to the same canonical district.
	DistrictPrefixes []string `yaml:"district_prefixes"`

	// NumberWords maps spelled-out cardinals to integer values.
	NumberWords   map[string]int `yaml:"number_words"`
	ThousandWords []string       `yaml:"thousand_words"`
	MillionWords  []string       `yaml:"million_words"`
	HalfWords     []string       `yaml:"half_words"`

	// PriceMaxPhrases and PriceMinPhrases classify the direction of a price
	// mention from the text preceding the number.
	PriceMaxPhrases []string `yaml:"price_max_phrases"`
	PriceMinPhrases []string `yaml:"price_min_phrases"`

	RoomWords     []string `yaml:"room_words"`
	BathroomWords []string `yaml:"bathroom_words"`

	// CompoundRoomCounts and CompoundBathroomCounts recognize idiomatic
	// single-word count forms that carry both the number and the unit,
	// such as the Arabic dual ("غرفتين" is two rooms).
	CompoundRoomCounts     map[string]int `yaml:"compound_room_counts"`
	CompoundBathroomCounts map[string]int `yaml:"compound_bathroom_counts"`

	Conjunctions []string `yaml:"conjunctions"`
	Disjunctions []string `yaml:"disjunctions"`

	typeSurfaces     []string
	citySurfaces     []string
	districtSurfaces []string
	featureSurfaces  []string
}

// Load parses the embedded table for locale.
func Load(locale string) (*Table, error) {
	data, err := embedded.ReadFile("data/" + locale + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("unknown lexicon locale %q", locale)
	}
	return parse(data)
}

// LoadFile parses a table from a YAML artifact on disk, for deployments
// that override the embedded dictionaries.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon: %w", err)
	}
	return parse(data)
}

// Locales lists the embedded locales.
func Locales() []string {
	entries, err := embedded.ReadDir("data")
	if err != nil {
		return nil
	}
	locales := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		locales = append(locales, name[:len(name)-len(".yaml")])
	}
	sort.Strings(locales)
	return locales
}

func parse(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse lexicon: %w", err)
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	t.compile()
	return &t, nil
}

func (t *Table) validate() error {
	if t.Locale == "" {
		return fmt.Errorf("lexicon: locale is required")
	}
	if len(t.Types) == 0 {
		return fmt.Errorf("lexicon %s: types table is empty", t.Locale)
	}
	if len(t.Cities) == 0 {
		return fmt.Errorf("lexicon %s: cities table is empty", t.Locale)
	}
	if len(t.Features) == 0 {
		return fmt.Errorf("lexicon %s: features table is empty", t.Locale)
	}
	return nil
}

// compile precomputes surface-form orderings. Surfaces are scanned longest
// first so compound phrases win over their substrings and scans stay
// deterministic regardless of map iteration order.
func (t *Table) compile() {
	t.typeSurfaces = sortedSurfaces(t.Types)
	t.citySurfaces = sortedSurfaces(t.Cities)
	t.districtSurfaces = sortedSurfaces(t.Districts)
	t.featureSurfaces = sortedSurfaces(t.Features)
	sortLongestFirst(t.PriceMaxPhrases)
	sortLongestFirst(t.PriceMinPhrases)
	sortLongestFirst(t.RoomWords)
	sortLongestFirst(t.BathroomWords)
	sortLongestFirst(t.DistrictPrefixes)
}

// TypeSurfaces returns type surface forms, longest first.
func (t *Table) TypeSurfaces() []string { return t.typeSurfaces }

// CitySurfaces returns city surface forms, longest first.
func (t *Table) CitySurfaces() []string { return t.citySurfaces }

// DistrictSurfaces returns district surface forms, longest first.
func (t *Table) DistrictSurfaces() []string { return t.districtSurfaces }

// FeatureSurfaces returns feature surface forms, longest first.
func (t *Table) FeatureSurfaces() []string { return t.featureSurfaces }

func sortedSurfaces(m map[string]string) []string {
	surfaces := make([]string, 0, len(m))
	for s := range m {
		surfaces = append(surfaces, s)
	}
	sortLongestFirst(surfaces)
	return surfaces
}

func sortLongestFirst(surfaces []string) {
	sort.Slice(surfaces, func(i, j int) bool {
		if len(surfaces[i]) != len(surfaces[j]) {
			return len(surfaces[i]) > len(surfaces[j])
		}
		return surfaces[i] < surfaces[j]
	})
}
