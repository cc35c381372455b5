// Package numeral converts native-script digits and spelled-out number words
// into canonical integers, resolving magnitude units into absolute amounts.
package numeral

import (
	"math"
	"strconv"
	"strings"
)

// Thousand and Million are the supported magnitude multipliers.
const (
	Thousand int64 = 1_000
	Million  int64 = 1_000_000
)

// ConvertDigits maps Arabic-Indic (٠-٩) and Eastern Arabic-Indic (۰-۹)
// digits to their ASCII equivalents, leaving everything else unchanged.
func ConvertDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= '٠' && r <= '٩': // ٠..٩
			b.WriteRune('0' + (r - '٠'))
		case r >= '۰' && r <= '۹': // ۰..۹
			b.WriteRune('0' + (r - '۰'))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Normalizer resolves numeral tokens against one locale's word tables.
type Normalizer struct {
	words    map[string]int
	thousand map[string]bool
	million  map[string]bool
	half     map[string]bool
}

// New builds a Normalizer from the word tables of a lexicon.
func New(words map[string]int, thousandWords, millionWords, halfWords []string) *Normalizer {
	return &Normalizer{
		words:    words,
		thousand: toSet(thousandWords),
		million:  toSet(millionWords),
		half:     toSet(halfWords),
	}
}

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// ParseNumber parses a single token as a number: ASCII or native-script
// digits (with an optional decimal part) or a spelled-out cardinal.
// Returns false when the token carries no numeral; callers treat that as
// "criterion absent", never as zero.
func (n *Normalizer) ParseNumber(tok string) (float64, bool) {
	tok = ConvertDigits(strings.TrimSpace(tok))
	if tok == "" {
		return 0, false
	}
	if v, err := strconv.ParseFloat(tok, 64); err == nil {
		return v, true
	}
	if v, ok := n.words[tok]; ok {
		return float64(v), true
	}
	return 0, false
}

// ParseCount parses a token as a whole count (rooms, bathrooms). Fractional
// values do not qualify.
func (n *Normalizer) ParseCount(tok string) (int, bool) {
	v, ok := n.ParseNumber(tok)
	if !ok || v != math.Trunc(v) || v < 0 {
		return 0, false
	}
	return int(v), true
}

// MagnitudeOf classifies a unit token as a multiplier.
func (n *Normalizer) MagnitudeOf(tok string) (int64, bool) {
	switch {
	case n.thousand[tok]:
		return Thousand, true
	case n.million[tok]:
		return Million, true
	}
	return 0, false
}

// Amount is an absolute amount resolved from a numeral token run.
type Amount struct {
	// Value is the resolved amount in the smallest currency unit.
	Value int64
	// Tokens is how many tokens the numeral run consumed.
	Tokens int
	// Magnitude is the applied multiplier, 1 when no unit word appeared.
	Magnitude int64
	// BareUnit marks amounts built from a magnitude word with no explicit
	// number ("اقل من مليون" means under one million). Callers may demand
	// extra context before trusting these.
	BareUnit bool
}

// ParseAmount reads an absolute amount starting at tokens[i]: a numeral
// (single token or a two-token cardinal like "احد عشر"), an optional
// magnitude word, and an optional "and a half" tail on either side of the
// magnitude ("3 مليون ونص" and "three and a half million" both resolve).
// A magnitude word with no preceding number counts as one unit of it.
// Returns false when tokens[i] starts no numeral at all.
func (n *Normalizer) ParseAmount(tokens []string, i int) (Amount, bool) {
	value, width := n.numberAt(tokens, i)
	consumed := width
	mag := int64(1)
	bare := false

	if width == 0 {
		m, ok := n.magnitudeAt(tokens, i)
		if !ok {
			return Amount{}, false
		}
		value, mag, bare = 1, m, true
		consumed = 1
	} else if m, ok := n.magnitudeAt(tokens, i+consumed); ok {
		mag = m
		consumed++
	}

	half := false
	if w := n.halfAt(tokens, i+consumed); w > 0 {
		half = true
		consumed += w
		if mag == 1 {
			if m, ok := n.magnitudeAt(tokens, i+consumed); ok {
				mag = m
				consumed++
			}
		}
	}

	amount := value * float64(mag)
	if half {
		amount += 0.5 * float64(mag)
	}
	return Amount{
		Value:     int64(math.Round(amount)),
		Tokens:    consumed,
		Magnitude: mag,
		BareUnit:  bare,
	}, true
}

// ParseCountAt reads a whole count at tokens[i], supporting two-token
// cardinals. Returns the count, tokens consumed, and whether a numeral was
// found.
func (n *Normalizer) ParseCountAt(tokens []string, i int) (int, int, bool) {
	value, width := n.numberAt(tokens, i)
	if width == 0 || value != math.Trunc(value) || value < 0 {
		return 0, 0, false
	}
	return int(value), width, true
}

func (n *Normalizer) numberAt(tokens []string, i int) (float64, int) {
	if i >= len(tokens) {
		return 0, 0
	}
	if i+1 < len(tokens) {
		if v, ok := n.words[tokens[i]+" "+tokens[i+1]]; ok {
			return float64(v), 2
		}
	}
	if v, ok := n.ParseNumber(tokens[i]); ok {
		return v, 1
	}
	return 0, 0
}

func (n *Normalizer) magnitudeAt(tokens []string, i int) (int64, bool) {
	if i >= len(tokens) {
		return 0, false
	}
	return n.MagnitudeOf(tokens[i])
}

// halfAt recognizes the fractional tail: a joined Arabic form ("ونص"), the
// conjunction plus a half word, or the English "and a half". Returns the
// token width of the match, 0 when absent.
func (n *Normalizer) halfAt(tokens []string, i int) int {
	if i >= len(tokens) {
		return 0
	}
	tok := tokens[i]
	if strings.HasPrefix(tok, "و") && n.half[strings.TrimPrefix(tok, "و")] {
		return 1
	}
	if n.half[tok] {
		return 1
	}
	if tok == "و" && i+1 < len(tokens) && n.half[tokens[i+1]] {
		return 2
	}
	if tok == "and" && i+2 < len(tokens) && tokens[i+1] == "a" && n.half[tokens[i+2]] {
		return 3
	}
	return 0
}
