// Package match ranks catalog items against a user profile.
//
// Ranking is a pure function of (profile, catalog, mode): no hidden state and
// no randomness. Scores accumulate squared distance, so lower is better, and
// ties resolve by catalog order via a stable sort.
package match

import (
	"sort"

	"github.com/whichracket/advisor/internal/domain/catalog"
	"github.com/whichracket/advisor/internal/domain/profile"
	"github.com/whichracket/advisor/internal/domain/types"
)

// attributeMax is the top of the internal attribute scale. The strength and
// weakness modes score focus attributes against this instead of the profile.
const attributeMax = 100.0

// Default engine configuration constants.
const (
	defaultTopK        = 3
	defaultFocusCount  = 3
	defaultInBandBonus = -100.0
	defaultRangeScale  = 1.0
)

// Mode selects the distance-scoring rule.
type Mode int

const (
	// Neutral scores every attribute against the profile value.
	Neutral Mode = iota
	// Strength rewards items that excel where the profile is strongest.
	Strength
	// Weakness rewards items that excel where the profile is weakest.
	Weakness
)

// String returns the wire name of the mode.
func (m Mode) String() string {
	switch m {
	case Strength:
		return "strength"
	case Weakness:
		return "weakness"
	default:
		return "neutral"
	}
}

// ParseMode maps a wire name to a Mode. The empty string means Neutral.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "neutral":
		return Neutral, nil
	case "strength":
		return Strength, nil
	case "weakness":
		return Weakness, nil
	default:
		return Neutral, ErrUnknownMode
	}
}

// Engine ranks catalog items for a profile.
type Engine struct {
	store       *catalog.Store
	topK        int
	focusCount  int
	inBandBonus float64
	rangeScales map[string]float64
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithTopK sets the default number of ranked items returned.
func WithTopK(k int) Option {
	return func(e *Engine) {
		if k > 0 {
			e.topK = k
		}
	}
}

// WithFocusCount sets how many attributes the strength and weakness modes
// concentrate on.
func WithFocusCount(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.focusCount = n
		}
	}
}

// WithInBandBonus sets the (negative) score adjustment for items inside a
// preferred range.
func WithInBandBonus(bonus float64) Option {
	return func(e *Engine) {
		if bonus < 0 {
			e.inBandBonus = bonus
		}
	}
}

// WithRangeScale sets the distance divisor for an auxiliary dimension.
func WithRangeScale(dim string, scale float64) Option {
	return func(e *Engine) {
		if scale > 0 {
			e.rangeScales[dim] = scale
		}
	}
}

// NewEngine creates a ranking engine over store.
func NewEngine(store *catalog.Store, opts ...Option) *Engine {
	e := &Engine{
		store:       store,
		topK:        defaultTopK,
		focusCount:  defaultFocusCount,
		inBandBonus: defaultInBandBonus,
		rangeScales: map[string]float64{
			profile.RangeWeight:   defaultRangeScale,
			profile.RangeHeadSize: defaultRangeScale,
		},
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Rank scores every catalog item against p under mode and returns the best
// limit items (engine default when limit <= 0), ascending by score.
func (e *Engine) Rank(p profile.Profile, mode Mode, limit int) []types.Recommendation {
	if limit <= 0 {
		limit = e.topK
	}

	focus := e.focusAttributes(p, mode)
	items := e.store.Items()

	type scored struct {
		item  catalog.Item
		score float64
	}
	scores := make([]scored, len(items))
	for i, it := range items {
		scores[i] = scored{item: it, score: e.scoreItem(p, it, focus)}
	}

	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score < scores[j].score })

	if len(scores) > limit {
		scores = scores[:limit]
	}
	out := make([]types.Recommendation, len(scores))
	for i, s := range scores {
		out[i] = types.Recommendation{
			Rank:  i + 1,
			ID:    s.item.ID,
			Name:  s.item.Name,
			Score: s.score,
		}
	}
	return out
}

// focusAttributes selects the profile's top (Strength) or bottom (Weakness)
// focusCount attributes. Ties resolve by canonical attribute order, so the
// selection is deterministic. Neutral has no focus set.
func (e *Engine) focusAttributes(p profile.Profile, mode Mode) map[string]bool {
	if mode == Neutral {
		return nil
	}

	names := make([]string, len(catalog.Attributes))
	copy(names, catalog.Attributes)
	sort.SliceStable(names, func(i, j int) bool {
		vi, vj := p.Attributes[names[i]], p.Attributes[names[j]]
		if mode == Strength {
			return vi > vj
		}
		return vi < vj
	})

	n := e.focusCount
	if n > len(names) {
		n = len(names)
	}
	focus := make(map[string]bool, n)
	for _, name := range names[:n] {
		focus[name] = true
	}
	return focus
}

// scoreItem accumulates the per-attribute squared distance terms plus the
// auxiliary range adjustments. Items missing an attribute contribute no term
// for it.
func (e *Engine) scoreItem(p profile.Profile, it catalog.Item, focus map[string]bool) float64 {
	var total float64
	for _, name := range catalog.Attributes {
		iv, ok := it.Attributes[name]
		if !ok {
			continue
		}
		var diff float64
		if focus[name] {
			diff = attributeMax - iv
		} else {
			diff = p.Attributes[name] - iv
		}
		total += diff * diff
	}

	total += e.rangeAdjustment(p, profile.RangeWeight, it.Weight)
	total += e.rangeAdjustment(p, profile.RangeHeadSize, it.HeadSize)
	return total
}

// rangeAdjustment applies the soft band preference for one auxiliary
// dimension: a fixed bonus inside the band, a midpoint-distance penalty
// outside it. Items with an unknown value and profiles without a preference
// get no adjustment.
func (e *Engine) rangeAdjustment(p profile.Profile, dim string, value float64) float64 {
	r, ok := p.Ranges[dim]
	if !ok || value <= 0 {
		return 0
	}

	inBand := true
	if r.Min != nil && value < *r.Min {
		inBand = false
	}
	if r.Max != nil && value > *r.Max {
		inBand = false
	}
	if inBand {
		return e.inBandBonus
	}

	// Midpoint of a half-bounded band is its finite bound.
	var mid float64
	switch {
	case r.Min != nil && r.Max != nil:
		mid = (*r.Min + *r.Max) / 2
	case r.Min != nil:
		mid = *r.Min
	case r.Max != nil:
		mid = *r.Max
	default:
		return 0
	}

	dist := value - mid
	if dist < 0 {
		dist = -dist
	}
	return dist / e.rangeScales[dim]
}
