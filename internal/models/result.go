package models

import (
	"strconv"
	"strings"
	"unicode"
)

// SearchResult is a Property extended with a similarity score in [0,1]
// (1.0 in exact-match-only mode) and display fields derived once at
// construction time rather than re-parsed per access.
type SearchResult struct {
	Property
	SimilarityScore float64 `json:"similarity_score"`
	// Rooms is the room count derived from the feature list, 0 when none
	// of the features carries one.
	Rooms int `json:"rooms"`
}

// NewSearchResult builds a result from a catalog property, deriving the
// display room count from the canonical feature list.
func NewSearchResult(p Property, score float64) SearchResult {
	return SearchResult{
		Property:        p,
		SimilarityScore: score,
		Rooms:           RoomsFromFeatures(p.Features),
	}
}

var roomWords = []string{"غرف", "غرفة", "bedroom", "room"}

var bathroomWords = []string{"حمام", "دورة مياه", "دورات مياه", "bathroom", "bath"}

// RoomsFromFeatures finds the first feature mentioning rooms and returns the
// integer it carries ("3 غرف نوم" -> 3, "6 bedrooms" -> 6). Returns 0 when
// no feature carries a room count.
func RoomsFromFeatures(features []string) int {
	return countFromFeatures(features, roomWords, bathroomWords)
}

// BathroomsFromFeatures is the bathroom-count counterpart of
// RoomsFromFeatures ("2 حمام" -> 2).
func BathroomsFromFeatures(features []string) int {
	return countFromFeatures(features, bathroomWords, nil)
}

// countFromFeatures returns the integer from the first feature mentioning a
// unit word, skipping features that mention an excluded unit (so "2
// bathrooms" never counts as rooms even though it contains "room").
func countFromFeatures(features, units, exclude []string) int {
	for _, f := range features {
		lower := strings.ToLower(f)
		if containsAny(lower, exclude) {
			continue
		}
		if !containsAny(lower, units) {
			continue
		}
		if n := firstInt(lower); n > 0 {
			return n
		}
	}
	return 0
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// firstInt returns the first run of ASCII digits in s as an int, or 0.
func firstInt(s string) int {
	start := -1
	for i, r := range s {
		if unicode.IsDigit(r) && r < 128 {
			if start == -1 {
				start = i
			}
			continue
		}
		if start != -1 {
			n, _ := strconv.Atoi(s[start:i])
			return n
		}
	}
	if start != -1 {
		n, _ := strconv.Atoi(s[start:])
		return n
	}
	return 0
}

// SearchResponse is the response for a search request.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
	// Total is the candidate count before truncation to the request limit.
	Total     int    `json:"total"`
	Summary   string `json:"summary,omitempty"`
	QueryTime int64  `json:"query_time_ms"`
	Query     string `json:"query"`
	// Criteria echoes the parsed intent so callers can show how the query
	// was understood.
	Criteria   *SearchCriteria `json:"criteria,omitempty"`
	Confidence float64         `json:"confidence"`
}
