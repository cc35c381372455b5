package ranking

import (
	"sort"
	"strings"

	"github.com/hyperestate/aqari/internal/models"
	"github.com/hyperestate/aqari/pkg/utils"
)

// Field weights for heuristic scoring. Title and location hits count
// more than a mention buried in the description.
const (
	weightTitle       = 3.0
	weightType        = 2.0
	weightLocation    = 2.0
	weightFeature     = 1.0
	weightDescription = 1.0
)

const maxTokenWeight = weightTitle + weightType + weightLocation + weightFeature + weightDescription

// Heuristic orders candidates by weighted substring hits of the query
// tokens over title, type, city, district, features and description.
// Scores land in [0, 1]. Ties break by ascending price so cheaper
// listings surface first among equally relevant ones.
func Heuristic(query string, catalog []models.Property, candidates []int, limit int) []models.SearchResult {
	tokens := strings.Fields(utils.NormalizeQuery(query))
	if len(tokens) == 0 {
		return Exact(catalog, candidates, limit)
	}

	type scored struct {
		pos   int
		score float64
	}
	scores := make([]scored, len(candidates))
	anyHit := false
	for i, pos := range candidates {
		s := heuristicScore(tokens, &catalog[pos])
		scores[i] = scored{pos: pos, score: s}
		anyHit = anyHit || s > 0
	}
	// A query that hits nothing carries no ordering signal. Treat it as
	// unconstrained rather than sorting the whole catalog by price.
	if !anyHit {
		return Exact(catalog, candidates, limit)
	}
	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].score != scores[j].score {
			return scores[i].score > scores[j].score
		}
		return catalog[scores[i].pos].Price < catalog[scores[j].pos].Price
	})
	if limit > 0 && limit < len(scores) {
		scores = scores[:limit]
	}

	results := make([]models.SearchResult, len(scores))
	for i, s := range scores {
		results[i] = models.NewSearchResult(catalog[s.pos], s.score)
	}
	return results
}

func heuristicScore(tokens []string, p *models.Property) float64 {
	title := strings.ToLower(p.Title)
	ptype := strings.ToLower(p.Type)
	location := strings.ToLower(p.City + " " + p.District)
	description := strings.ToLower(p.Description)
	features := strings.ToLower(strings.Join(p.Features, " "))

	var hits float64
	for _, tok := range tokens {
		if strings.Contains(title, tok) {
			hits += weightTitle
		}
		if strings.Contains(ptype, tok) {
			hits += weightType
		}
		if strings.Contains(location, tok) {
			hits += weightLocation
		}
		if strings.Contains(features, tok) {
			hits += weightFeature
		}
		if strings.Contains(description, tok) {
			hits += weightDescription
		}
	}
	return utils.Clamp01(hits / (maxTokenWeight * float64(len(tokens))))
}
