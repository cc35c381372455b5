// Package extract parses free-form, dialect-variable property queries into
// structured search criteria using the lexicon tables. Extraction never
// fails: unmatched tokens are ignored and the corresponding criteria fields
// stay unset.
package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hyperestate/aqari/internal/lexicon"
	"github.com/hyperestate/aqari/internal/models"
	"github.com/hyperestate/aqari/internal/numeral"
	"github.com/hyperestate/aqari/pkg/utils"
)

// Extractor turns raw query text into SearchCriteria for one locale.
type Extractor struct {
	table   *lexicon.Table
	nums    *numeral.Normalizer
	phrases []directionPhrase
}

// New creates an extractor bound to a lexicon table.
func New(table *lexicon.Table) *Extractor {
	return &Extractor{
		table: table,
		nums: numeral.New(
			table.NumberWords,
			table.ThousandWords,
			table.MillionWords,
			table.HalfWords,
		),
		phrases: directionPhrases(table.PriceMaxPhrases, table.PriceMinPhrases),
	}
}

// Locale returns the locale of the bound lexicon.
func (e *Extractor) Locale() string { return e.table.Locale }

// Extract parses query into criteria and a confidence score: the fraction
// of the four criteria slots (type, location, features, price) that were
// recognized. An empty or fully unrecognized query yields empty criteria
// and confidence 0, which callers treat as "unconstrained", not an error.
func (e *Extractor) Extract(query string) (*models.SearchCriteria, float64) {
	criteria := &models.SearchCriteria{}
	text := utils.NormalizeQuery(query)
	if text == "" {
		return criteria, 0
	}

	if typ, ok := e.extractType(text); ok {
		criteria.Type = &typ
	}
	if city, ok := e.extractCity(text); ok {
		criteria.City = &city
	}
	criteria.Districts = e.extractDistricts(text)

	required, optional := e.extractFeatures(text)
	criteria.RequiredFeatures = required
	criteria.OptionalFeatures = optional

	tokens := tokenize(text)
	counts := e.extractCounts(tokens, criteria)
	e.extractPrice(tokens, counts, criteria)

	return criteria, criteria.Confidence()
}

// extractType scans for property-type surface forms, longest first, so
// compound phrases like the luxury-home idiom win over their substrings.
// First match wins.
func (e *Extractor) extractType(text string) (string, bool) {
	for _, surface := range e.table.TypeSurfaces() {
		if strings.Contains(text, surface) {
			return e.table.Types[surface], true
		}
	}
	return "", false
}

// extractCity uses a relaxed substring match so phrases like "مدينه جده"
// still resolve the city.
func (e *Extractor) extractCity(text string) (string, bool) {
	for _, surface := range e.table.CitySurfaces() {
		if strings.Contains(text, surface) {
			return e.table.Cities[surface], true
		}
	}
	return "", false
}

// extractDistricts collects every district mention in text order. All
// matches are retained as acceptable alternatives: districts carry
// disjunctive semantics, whether or not an explicit "or" joins them.
func (e *Extractor) extractDistricts(text string) []string {
	type hit struct {
		index     int
		canonical string
	}
	var hits []hit
	seen := make(map[string]bool)
	for _, surface := range e.table.DistrictSurfaces() {
		idx := strings.Index(text, surface)
		if idx < 0 || !e.districtBoundaryOK(text, idx) {
			continue
		}
		canonical := e.table.Districts[surface]
		if seen[canonical] {
			continue
		}
		seen[canonical] = true
		hits = append(hits, hit{index: idx, canonical: canonical})
	}
	if len(hits) == 0 {
		return nil
	}
	// Restore text order; surfaces were scanned longest first.
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].index < hits[j-1].index; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}
	districts := make([]string, len(hits))
	for i, h := range hits {
		districts[i] = h.canonical
	}
	return districts
}

// districtBoundaryOK rejects matches glued inside another word, while still
// accepting the glued Arabic preposition form ("بالنرجس").
func (e *Extractor) districtBoundaryOK(text string, idx int) bool {
	if idx == 0 {
		return true
	}
	prev, _ := utf8.DecodeLastRuneInString(text[:idx])
	if !unicode.IsLetter(prev) {
		return true
	}
	for _, prefix := range e.table.DistrictPrefixes {
		if strings.HasSuffix(text[:idx], prefix) {
			return true
		}
	}
	return false
}

// tokenize splits normalized text into tokens, trimming punctuation from
// token edges the way the query analyzer does.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || r == '،' || r == ',' || r == '؛' || r == ';'
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimFunc(f, func(r rune) bool {
			return unicode.IsPunct(r) && r != '-' && r != '.'
		})
		f = strings.TrimSuffix(strings.TrimPrefix(f, "."), ".")
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
