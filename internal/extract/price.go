package extract

import (
	"sort"
	"strings"

	"github.com/hyperestate/aqari/internal/models"
)

// contextWindow is how many tokens before a number are inspected for a
// price-direction phrase.
const contextWindow = 6

// extractCounts finds room and bathroom counts: a numeral token immediately
// followed by a room/bathroom unit word, or an idiomatic compound form that
// carries both. Counts use exact-match semantics downstream. Returns the
// token indices consumed, so price extraction never re-reads a room number
// as an amount.
func (e *Extractor) extractCounts(tokens []string, c *models.SearchCriteria) map[int]bool {
	consumed := make(map[int]bool)
	for i := 0; i < len(tokens); i++ {
		if n, ok := e.table.CompoundRoomCounts[tokens[i]]; ok && c.Rooms == nil {
			c.Rooms = &n
			consumed[i] = true
			continue
		}
		if n, ok := e.table.CompoundBathroomCounts[tokens[i]]; ok && c.Bathrooms == nil {
			c.Bathrooms = &n
			consumed[i] = true
			continue
		}
		count, width, ok := e.nums.ParseCountAt(tokens, i)
		if !ok {
			continue
		}
		rest := strings.Join(tokens[i+width:], " ")
		switch {
		case c.Rooms == nil && hasPrefixAny(rest, e.table.RoomWords):
			c.Rooms = &count
		case c.Bathrooms == nil && hasPrefixAny(rest, e.table.BathroomWords):
			c.Bathrooms = &count
		default:
			continue
		}
		for j := i; j < i+width; j++ {
			consumed[j] = true
		}
		i += width - 1
	}
	return consumed
}

// extractPrice finds numeral+magnitude runs and classifies each as a
// minimum or maximum bound from the directional phrase closest before the
// number. Without any directional phrase the bound is a maximum, the more
// common user intent. A bare magnitude word with no number is only trusted
// when a directional phrase precedes it.
func (e *Extractor) extractPrice(tokens []string, consumed map[int]bool, c *models.SearchCriteria) {
	for i := 0; i < len(tokens); i++ {
		if consumed[i] {
			continue
		}
		amount, ok := e.nums.ParseAmount(tokens, i)
		if !ok {
			continue
		}
		start := i - contextWindow
		if start < 0 {
			start = 0
		}
		isMin, hasDirection := e.priceDirection(strings.Join(tokens[start:i], " "))
		if amount.Magnitude == 1 && !hasDirection {
			// A lone number with neither unit nor context is not a price.
			continue
		}
		if amount.BareUnit && !hasDirection {
			continue
		}
		if isMin {
			setMinPrice(c, amount.Value)
		} else {
			setMaxPrice(c, amount.Value)
		}
		i += amount.Tokens - 1
	}
}

// directionPhrase is a price-direction marker from the lexicon.
type directionPhrase struct {
	text string
	min  bool
}

// directionPhrases merges the max and min phrase sets, longest first.
func directionPhrases(maxPhrases, minPhrases []string) []directionPhrase {
	phrases := make([]directionPhrase, 0, len(maxPhrases)+len(minPhrases))
	for _, p := range maxPhrases {
		phrases = append(phrases, directionPhrase{text: p})
	}
	for _, p := range minPhrases {
		phrases = append(phrases, directionPhrase{text: p, min: true})
	}
	sort.SliceStable(phrases, func(i, j int) bool {
		return len(phrases[i].text) > len(phrases[j].text)
	})
	return phrases
}

// priceDirection classifies the context before a number. The phrase closest
// to the number wins; overlapping shorter phrases are ignored so "ما تطلع
// فوق" reads as a maximum even though it contains "فوق".
func (e *Extractor) priceDirection(window string) (isMin, found bool) {
	type span struct {
		start, end int
		min        bool
	}
	var spans []span
	for _, p := range e.phrases {
		from := 0
		for {
			idx := strings.Index(window[from:], p.text)
			if idx < 0 {
				break
			}
			start := from + idx
			end := start + len(p.text)
			covered := false
			for _, s := range spans {
				if start < s.end && s.start < end {
					covered = true
					break
				}
			}
			if !covered {
				spans = append(spans, span{start: start, end: end, min: p.min})
			}
			from = end
		}
	}
	best := -1
	for i, s := range spans {
		if best == -1 || s.start > spans[best].start {
			best = i
		}
	}
	if best == -1 {
		return false, false
	}
	return spans[best].min, true
}

// setMaxPrice records an upper bound. If it contradicts an earlier minimum
// the earlier bound is dropped: the most recently parsed phrase wins, and
// the extractor never emits min > max.
func setMaxPrice(c *models.SearchCriteria, amount int64) {
	c.MaxPrice = &amount
	if c.MinPrice != nil && *c.MinPrice > amount {
		c.MinPrice = nil
	}
}

func setMinPrice(c *models.SearchCriteria, amount int64) {
	c.MinPrice = &amount
	if c.MaxPrice != nil && *c.MaxPrice < amount {
		c.MaxPrice = nil
	}
}

func hasPrefixAny(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
