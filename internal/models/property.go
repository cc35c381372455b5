// Package models defines core data structures for properties, criteria, and search results.
package models

import (
	"fmt"
	"strings"
)

// Property represents a single catalog listing. Instances are validated at
// ingestion and treated as immutable afterwards.
type Property struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Type        string   `json:"type" yaml:"type"`
	City        string   `json:"city" yaml:"city"`
	District    string   `json:"district,omitempty" yaml:"district,omitempty"`
	Price       int64    `json:"price" yaml:"price"`
	Features    []string `json:"features,omitempty" yaml:"features,omitempty"`
	Images      []string `json:"images,omitempty" yaml:"images,omitempty"`
}

// Validate checks the invariants the engine relies on and normalizes the
// feature list (whitespace-trimmed, duplicates removed, order preserved).
// Features are expected to already be canonical forms, never raw synonyms.
func (p *Property) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("property: id is required")
	}
	if p.Title == "" {
		return fmt.Errorf("property %s: title is required", p.ID)
	}
	if p.Type == "" {
		return fmt.Errorf("property %s: type is required", p.ID)
	}
	if p.City == "" {
		return fmt.Errorf("property %s: city is required", p.ID)
	}
	if p.Price <= 0 {
		return fmt.Errorf("property %s: price must be positive, got %d", p.ID, p.Price)
	}
	seen := make(map[string]bool, len(p.Features))
	features := p.Features[:0]
	for _, f := range p.Features {
		f = strings.TrimSpace(f)
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		features = append(features, f)
	}
	p.Features = features
	return nil
}

// SearchText returns the text used for embedding and heuristic matching:
// title, type, location, features, and description joined together.
func (p *Property) SearchText() string {
	parts := []string{p.Title, p.Type, p.City, p.District}
	parts = append(parts, p.Features...)
	parts = append(parts, p.Description)
	return strings.Join(parts, " ")
}
