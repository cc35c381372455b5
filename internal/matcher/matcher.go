// Package matcher applies parsed search criteria against the in-memory
// property catalog.
package matcher

import (
	"strings"

	"github.com/hyperestate/aqari/internal/models"
)

// Match returns the catalog subset satisfying every present criterion, in
// catalog order. Matching is purely conjunctive: a property survives only
// if it satisfies all set criteria. Empty criteria return the catalog
// unchanged (identity filter). The catalog slice is never mutated.
func Match(criteria *models.SearchCriteria, catalog []models.Property) []models.Property {
	positions := MatchPositions(criteria, catalog)
	matched := make([]models.Property, len(positions))
	for i, pos := range positions {
		matched[i] = catalog[pos]
	}
	return matched
}

// MatchPositions is Match returning catalog positions instead of copies,
// for callers that need to pair survivors with position-aligned data such
// as the embedding index.
func MatchPositions(criteria *models.SearchCriteria, catalog []models.Property) []int {
	positions := make([]int, 0, len(catalog))
	if criteria == nil || criteria.IsEmpty() {
		for i := range catalog {
			positions = append(positions, i)
		}
		return positions
	}
	for i := range catalog {
		if Satisfies(criteria, &catalog[i]) {
			positions = append(positions, i)
		}
	}
	return positions
}

// Satisfies reports whether a single property meets every present
// criterion.
func Satisfies(c *models.SearchCriteria, p *models.Property) bool {
	if c.Type != nil && !strings.EqualFold(p.Type, *c.Type) {
		return false
	}
	if c.City != nil && !strings.EqualFold(p.City, *c.City) {
		return false
	}
	if len(c.Districts) > 0 && !districtIn(p.District, c.Districts) {
		return false
	}
	// Room and bathroom counts are exact-match, not "at least": asking for
	// 4 rooms excludes a 5-room property.
	if c.Rooms != nil && models.RoomsFromFeatures(p.Features) != *c.Rooms {
		return false
	}
	if c.Bathrooms != nil && models.BathroomsFromFeatures(p.Features) != *c.Bathrooms {
		return false
	}
	if c.MinPrice != nil && p.Price < *c.MinPrice {
		return false
	}
	if c.MaxPrice != nil && p.Price > *c.MaxPrice {
		return false
	}
	for _, feature := range c.RequiredFeatures {
		if !hasFeature(p.Features, feature) {
			return false
		}
	}
	if len(c.OptionalFeatures) > 0 {
		any := false
		for _, feature := range c.OptionalFeatures {
			if hasFeature(p.Features, feature) {
				any = true
				break
			}
		}
		if !any {
			return false
		}
	}
	return true
}

// districtIn checks set membership with OR semantics across the acceptable
// districts.
func districtIn(district string, districts []string) bool {
	for _, d := range districts {
		if strings.EqualFold(district, d) {
			return true
		}
	}
	return false
}

// hasFeature matches a canonical criterion feature against the property's
// canonical feature list. Containment runs both ways so "مسبح" matches a
// listed "مسبح للأطفال" and vice versa.
func hasFeature(features []string, want string) bool {
	wantLower := strings.ToLower(want)
	for _, f := range features {
		fLower := strings.ToLower(f)
		if strings.Contains(fLower, wantLower) || strings.Contains(wantLower, fLower) {
			return true
		}
	}
	return false
}
