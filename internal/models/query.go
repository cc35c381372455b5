package models

import "errors"

// DefaultLimit is the result count used when a request does not set one.
const DefaultLimit = 10

// MaxLimit caps the result count a single request may ask for.
const MaxLimit = 100

// ErrInvalidLimit is returned when a request carries an explicit zero or
// negative limit. An absent limit is valid and falls back to DefaultLimit.
var ErrInvalidLimit = errors.New("limit must be a positive integer")

// SearchRequest is a search request from the serving layer.
type SearchRequest struct {
	Query string `json:"query"`
	// Limit is optional; nil means DefaultLimit. Explicit non-positive
	// values are rejected before any catalog work begins.
	Limit  *int   `json:"limit,omitempty"`
	Locale string `json:"locale,omitempty"`
	// Semantic requests embedding-based ranking. Without it, results keep
	// catalog order with a full similarity score.
	Semantic bool `json:"semantic,omitempty"`
}

// Validate normalizes the request in place: empty locale defaults to "ar",
// an absent limit becomes DefaultLimit, and limits above MaxLimit are
// clamped. An explicit non-positive limit is an error.
func (r *SearchRequest) Validate() error {
	if r.Locale == "" {
		r.Locale = "ar"
	}
	if r.Limit == nil {
		limit := DefaultLimit
		r.Limit = &limit
		return nil
	}
	if *r.Limit <= 0 {
		return ErrInvalidLimit
	}
	if *r.Limit > MaxLimit {
		limit := MaxLimit
		r.Limit = &limit
	}
	return nil
}

// SearchCriteria is the structured intent parsed from a query. Every field
// is optional; a zero value matches the whole catalog. Values are created
// fresh per query and never mutated after extraction.
type SearchCriteria struct {
	Type *string `json:"type,omitempty"`
	City *string `json:"city,omitempty"`
	// Districts are acceptable alternatives: a property matches when its
	// district is any member of the set.
	Districts []string `json:"districts,omitempty"`
	// RequiredFeatures must all be present on a matching property.
	RequiredFeatures []string `json:"required_features,omitempty"`
	// OptionalFeatures require at least one to be present, when non-empty.
	OptionalFeatures []string `json:"optional_features,omitempty"`
	// Rooms and Bathrooms use exact-match semantics, not "at least".
	Rooms     *int   `json:"rooms,omitempty"`
	Bathrooms *int   `json:"bathrooms,omitempty"`
	MinPrice  *int64 `json:"min_price,omitempty"`
	MaxPrice  *int64 `json:"max_price,omitempty"`
}

// IsEmpty reports whether no criterion is set (the identity filter).
func (c *SearchCriteria) IsEmpty() bool {
	return c.Type == nil && c.City == nil && len(c.Districts) == 0 &&
		len(c.RequiredFeatures) == 0 && len(c.OptionalFeatures) == 0 &&
		c.Rooms == nil && c.Bathrooms == nil &&
		c.MinPrice == nil && c.MaxPrice == nil
}

// HasLocation reports whether a city or any district was parsed.
func (c *SearchCriteria) HasLocation() bool {
	return c.City != nil || len(c.Districts) > 0
}

// HasFeatures reports whether any feature criterion was parsed.
func (c *SearchCriteria) HasFeatures() bool {
	return len(c.RequiredFeatures) > 0 || len(c.OptionalFeatures) > 0
}

// HasPrice reports whether any price bound was parsed.
func (c *SearchCriteria) HasPrice() bool {
	return c.MinPrice != nil || c.MaxPrice != nil
}

// Confidence returns the fraction of the four criteria slots (type,
// location, features, price) that were filled by extraction. It scores the
// extraction itself, not any catalog match.
func (c *SearchCriteria) Confidence() float64 {
	set := 0
	if c.Type != nil {
		set++
	}
	if c.HasLocation() {
		set++
	}
	if c.HasFeatures() {
		set++
	}
	if c.HasPrice() {
		set++
	}
	return float64(set) / 4.0
}
