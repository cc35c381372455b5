package extract

import (
	"sort"
	"strings"
)

// featureMatch is one feature surface found in the query.
type featureMatch struct {
	start     int
	end       int
	canonical string
	required  bool
}

// extractFeatures scans for feature surface forms and splits them into
// required (all must be present) and optional (at least one must be
// present). Features joined by a conjunction marker within the same clause
// are required; a sole feature mention in a clause, or features joined by a
// disjunction marker, are optional. Surfaces are scanned longest first so
// "حمام سباحة" is claimed as a pool before "حمام" could be misread, and each
// canonical feature is kept once at its earliest occurrence.
func (e *Extractor) extractFeatures(text string) (required, optional []string) {
	matches := e.scanFeatures(text)
	if len(matches) == 0 {
		return nil, nil
	}

	for i := 1; i < len(matches); i++ {
		between := text[matches[i-1].end:matches[i].start]
		if e.isConjoined(between) {
			matches[i-1].required = true
			matches[i].required = true
		}
	}

	seen := make(map[string]bool, len(matches))
	for _, m := range matches {
		if seen[m.canonical] {
			continue
		}
		seen[m.canonical] = true
		if m.required {
			required = append(required, m.canonical)
		} else {
			optional = append(optional, m.canonical)
		}
	}
	return required, optional
}

// scanFeatures finds the first occurrence of every feature surface,
// discarding matches whose span overlaps a longer surface already claimed,
// and returns them in text order with one entry per canonical feature.
func (e *Extractor) scanFeatures(text string) []featureMatch {
	var matches []featureMatch
	byCanonical := make(map[string]int)
	for _, surface := range e.table.FeatureSurfaces() {
		idx := strings.Index(text, surface)
		if idx < 0 {
			continue
		}
		end := idx + len(surface)
		if overlaps(matches, idx, end) {
			continue
		}
		canonical := e.table.Features[surface]
		if at, ok := byCanonical[canonical]; ok {
			// Keep the earliest occurrence of a canonical feature so
			// synonyms never double-count.
			if idx < matches[at].start {
				matches[at].start = idx
				matches[at].end = end
			}
			continue
		}
		byCanonical[canonical] = len(matches)
		matches = append(matches, featureMatch{start: idx, end: end, canonical: canonical})
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].start < matches[j].start })
	return matches
}

func overlaps(matches []featureMatch, start, end int) bool {
	for _, m := range matches {
		if start < m.end && m.start < end {
			return true
		}
	}
	return false
}

// isConjoined reports whether the text between two adjacent feature matches
// is exactly a conjunction marker (covering the glued Arabic "و" prefix,
// where the marker is the only thing between the spans). Clause separators
// or a disjunction marker break the group.
func (e *Extractor) isConjoined(between string) bool {
	if strings.ContainsAny(between, "،,.;؛!؟?") {
		return false
	}
	tokens := strings.Fields(between)
	if len(tokens) != 1 {
		return false
	}
	for _, d := range e.table.Disjunctions {
		if tokens[0] == d {
			return false
		}
	}
	for _, c := range e.table.Conjunctions {
		if tokens[0] == c {
			return true
		}
	}
	return false
}
