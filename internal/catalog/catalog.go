// Package catalog holds the in-memory property catalogs the engine
// searches over. A catalog is an immutable snapshot per locale; reloads
// build a fresh snapshot and swap it in atomically.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/hyperestate/aqari/internal/models"
	"github.com/hyperestate/aqari/internal/vector"
)

// ErrVectorMismatch is returned when an embedding index does not carry
// exactly one vector per property.
var ErrVectorMismatch = errors.New("embedding index size does not match catalog")

// Snapshot is an immutable view of one locale's catalog, optionally paired
// with a position-aligned embedding index. Never mutate a snapshot after
// construction; build a new one and swap.
type Snapshot struct {
	Locale     string
	Properties []models.Property
	Vectors    *vector.Index

	byID map[string]int
}

// NewSnapshot validates every property, assigns IDs where missing, and
// pairs the catalog with its embedding index. vectors may be nil when no
// semantic ranking is configured.
func NewSnapshot(locale string, properties []models.Property, vectors *vector.Index) (*Snapshot, error) {
	if vectors != nil && vectors.Len() != len(properties) {
		return nil, fmt.Errorf("%w: %d vectors for %d properties", ErrVectorMismatch, vectors.Len(), len(properties))
	}
	byID := make(map[string]int, len(properties))
	for i := range properties {
		if properties[i].ID == "" {
			properties[i].ID = uuid.New().String()
		}
		if err := properties[i].Validate(); err != nil {
			return nil, fmt.Errorf("property %d (%s): %w", i, properties[i].ID, err)
		}
		if _, dup := byID[properties[i].ID]; dup {
			return nil, fmt.Errorf("duplicate property id %s at position %d", properties[i].ID, i)
		}
		byID[properties[i].ID] = i
	}
	return &Snapshot{
		Locale:     locale,
		Properties: properties,
		Vectors:    vectors,
		byID:       byID,
	}, nil
}

// Get returns the property with the given ID.
func (s *Snapshot) Get(id string) (*models.Property, bool) {
	pos, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return &s.Properties[pos], true
}

// Len returns the number of properties in the snapshot.
func (s *Snapshot) Len() int { return len(s.Properties) }

// HasVectors reports whether the snapshot carries an embedding index.
func (s *Snapshot) HasVectors() bool { return s.Vectors != nil }

// Store holds the current snapshot per locale and allows atomic
// replacement on reload. Reads during a swap see either the old or the
// new snapshot, never a mix.
type Store struct {
	mu        sync.RWMutex
	snapshots map[string]*Snapshot
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{snapshots: make(map[string]*Snapshot)}
}

// Put installs a snapshot, replacing any previous one for its locale.
func (st *Store) Put(snap *Snapshot) {
	st.mu.Lock()
	st.snapshots[snap.Locale] = snap
	st.mu.Unlock()
}

// Get returns the current snapshot for a locale.
func (st *Store) Get(locale string) (*Snapshot, bool) {
	st.mu.RLock()
	snap, ok := st.snapshots[locale]
	st.mu.RUnlock()
	return snap, ok
}

// Locales returns the loaded locales, sorted.
func (st *Store) Locales() []string {
	st.mu.RLock()
	locales := make([]string, 0, len(st.snapshots))
	for locale := range st.snapshots {
		locales = append(locales, locale)
	}
	st.mu.RUnlock()
	sort.Strings(locales)
	return locales
}
