// Package catalog holds the fixed set of candidate rackets and derives the
// per-attribute baseline used to seed fresh profiles.
//
// Attribute values arrive on either a 0-10 or a 0-100 scale depending on the
// data vintage. Normalization to the internal 0-100 scale happens exactly
// once, at ingestion; everything downstream assumes 0-100.
package catalog

import "math"

// Attributes is the closed set of performance dimensions shared by profiles
// and catalog items, in canonical order.
var Attributes = []string{
	"Groundstrokes",
	"Volleys",
	"Serves",
	"Returns",
	"Power",
	"Control",
	"Maneuverability",
	"Stability",
	"Comfort",
	"Touch / Feel",
	"Topspin",
	"Slice",
}

// NeutralScore is the baseline fallback for attributes no catalog item defines.
const NeutralScore = 50.0

// legacyScaleMax: source values at or below this are treated as 0-10 scale.
const legacyScaleMax = 10.0

// Item is a single racket. Immutable once the store is built.
type Item struct {
	ID         string
	Name       string
	Brand      string
	Attributes map[string]float64 // internal 0-100 scale
	Weight     float64            // grams, 0 when unknown
	HeadSize   float64            // square inches, 0 when unknown
}

// IsAttribute reports whether name is one of the closed attribute set.
func IsAttribute(name string) bool {
	for _, a := range Attributes {
		if a == name {
			return true
		}
	}
	return false
}

// Store provides read access to the ingested catalog and its baseline.
type Store struct {
	items    []Item
	baseline map[string]float64
}

// NewStore ingests items, normalizing attribute scales and computing the
// per-attribute baseline. An empty catalog is valid and yields an all-neutral
// baseline.
func NewStore(items []Item) *Store {
	s := &Store{items: make([]Item, len(items))}
	for i, it := range items {
		normalized := it
		normalized.Attributes = make(map[string]float64, len(it.Attributes))
		for name, v := range it.Attributes {
			if !IsAttribute(name) {
				continue
			}
			if v <= legacyScaleMax {
				v *= 10
			}
			normalized.Attributes[name] = v
		}
		s.items[i] = normalized
	}
	s.baseline = computeBaseline(s.items)
	return s
}

// computeBaseline returns the rounded mean of each attribute over the items
// that define it. Attributes present in zero items fall back to NeutralScore.
func computeBaseline(items []Item) map[string]float64 {
	baseline := make(map[string]float64, len(Attributes))
	for _, name := range Attributes {
		var sum float64
		var count int
		for _, it := range items {
			if v, ok := it.Attributes[name]; ok {
				sum += v
				count++
			}
		}
		if count == 0 {
			baseline[name] = NeutralScore
			continue
		}
		baseline[name] = math.Round(sum / float64(count))
	}
	return baseline
}

// Items returns the catalog in ingestion order. Callers must not mutate the
// returned slice or the attribute maps it holds.
func (s *Store) Items() []Item {
	return s.items
}

// Baseline returns a copy of the per-attribute baseline.
func (s *Store) Baseline() map[string]float64 {
	out := make(map[string]float64, len(s.baseline))
	for k, v := range s.baseline {
		out[k] = v
	}
	return out
}

// Len returns the number of catalog items.
func (s *Store) Len() int {
	return len(s.items)
}
