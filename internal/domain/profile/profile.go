// Package profile maintains the user preference profile for a quiz session
// and guarantees it is always fully derived from the ordered answer history.
package profile

import (
	"time"

	"github.com/whichracket/advisor/internal/domain/catalog"
	"github.com/whichracket/advisor/pkg/metrics"
)

// Styles is the closed set of play-style dimensions, in definition order.
// Style scores live on the same 0-100 scale as attributes but have no
// catalog-derived baseline; they start at the neutral constant.
var Styles = []string{
	"Aggressive Baseliner",
	"Counterpuncher",
	"Serve & Volley",
	"All-Court",
}

// Range preference dimensions and the effect keys that set their bounds.
const (
	RangeWeight   = "weight"
	RangeHeadSize = "headSize"

	keyWeightMin   = "weightMin"
	keyWeightMax   = "weightMax"
	keyHeadSizeMin = "headSizeMin"
	keyHeadSizeMax = "headSizeMax"
)

// Effect maps effect keys (attribute names, style names, or range bound keys)
// to signed deltas.
type Effect map[string]float64

// AnswerEvent records one answered question. The ordered event history is the
// source of truth for a session; the profile is a derived cache of it.
type AnswerEvent struct {
	QuestionIndex int    `json:"question_index"`
	Effect        Effect `json:"effect"`
}

// Range is an optional inclusive band on an auxiliary attribute. A nil bound
// means unbounded on that side.
type Range struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// Profile is the accumulated preference state. Every Attributes and Styles
// entry is always within [0,100]. Absence of a Ranges entry means no
// constraint, not a constraint of zero.
type Profile struct {
	Attributes map[string]float64 `json:"attributes"`
	Styles     map[string]float64 `json:"styles"`
	Ranges     map[string]Range   `json:"ranges"`
}

// Accumulator owns the single authoritative profile for a session.
type Accumulator struct {
	baseline map[string]float64
	styles   []string
	scale    float64

	current Profile
	history []AnswerEvent
}

// Option applies a configuration option to the Accumulator.
type Option func(*Accumulator)

// WithStyles overrides the style dimension set.
func WithStyles(styles []string) Option {
	return func(a *Accumulator) {
		if len(styles) > 0 {
			a.styles = styles
		}
	}
}

// WithEffectScale sets the factor every effect delta is multiplied by.
func WithEffectScale(scale float64) Option {
	return func(a *Accumulator) {
		if scale > 0 {
			a.scale = scale
		}
	}
}

// NewAccumulator creates an accumulator seeded from the catalog baseline:
// every attribute starts at its baseline value, every style score at the
// neutral constant, and no range preferences are set.
func NewAccumulator(baseline map[string]float64, opts ...Option) *Accumulator {
	a := &Accumulator{
		baseline: make(map[string]float64, len(baseline)),
		styles:   Styles,
		scale:    1.0,
	}
	for k, v := range baseline {
		a.baseline[k] = v
	}

	for _, opt := range opts {
		opt(a)
	}

	a.initialize()
	return a
}

func (a *Accumulator) initialize() {
	a.current = Profile{
		Attributes: make(map[string]float64, len(catalog.Attributes)),
		Styles:     make(map[string]float64, len(a.styles)),
		Ranges:     make(map[string]Range),
	}
	for _, name := range catalog.Attributes {
		base, ok := a.baseline[name]
		if !ok {
			base = catalog.NeutralScore
		}
		a.current.Attributes[name] = base
	}
	for _, name := range a.styles {
		a.current.Styles[name] = catalog.NeutralScore
	}
}

// Apply appends event to the history and applies its effect to the profile.
// Unknown effect keys are ignored; question content may be newer than the
// engine.
func (a *Accumulator) Apply(event AnswerEvent) {
	a.history = append(a.history, event)
	a.applyEffect(event.Effect)
}

// applyEffect applies each (key, delta) pair, clamping after every single
// application. Clamping here rather than at read time matters: the meaning of
// future deltas depends on the clamped value, so undo must replay instead of
// subtracting (see Back).
func (a *Accumulator) applyEffect(effect Effect) {
	for key, delta := range effect {
		switch {
		case a.setRangeBound(key, delta):
			// last write wins; no accumulation on range bounds
		case catalog.IsAttribute(key):
			cur, ok := a.current.Attributes[key]
			if !ok {
				cur = a.baseline[key]
			}
			a.current.Attributes[key] = clamp(cur+delta*a.scale, 0, 100)
		case a.isStyle(key):
			cur, ok := a.current.Styles[key]
			if !ok {
				cur = catalog.NeutralScore
			}
			a.current.Styles[key] = clamp(cur+delta*a.scale, 0, 100)
		default:
			metrics.RecordUnknownEffectKey()
		}
	}
}

// setRangeBound handles the four range preference keys. Returns false when
// key is not a range bound key.
func (a *Accumulator) setRangeBound(key string, value float64) bool {
	var dim string
	var isMin bool
	switch key {
	case keyWeightMin:
		dim, isMin = RangeWeight, true
	case keyWeightMax:
		dim, isMin = RangeWeight, false
	case keyHeadSizeMin:
		dim, isMin = RangeHeadSize, true
	case keyHeadSizeMax:
		dim, isMin = RangeHeadSize, false
	default:
		return false
	}

	r := a.current.Ranges[dim]
	v := value
	if isMin {
		r.Min = &v
	} else {
		r.Max = &v
	}
	a.current.Ranges[dim] = r
	return true
}

func (a *Accumulator) isStyle(key string) bool {
	for _, s := range a.styles {
		if s == key {
			return true
		}
	}
	return false
}

// Back removes the most recent answer and rebuilds the profile from scratch
// by replaying the remaining history in order. Naive delta subtraction is
// wrong once any value has saturated at 0 or 100; replay is always correct.
// Returns false when there is no answer to undo.
func (a *Accumulator) Back() bool {
	if len(a.history) == 0 {
		return false
	}
	a.history = a.history[:len(a.history)-1]
	a.replay()
	return true
}

// Reset clears the history and re-initializes the profile from the baseline.
func (a *Accumulator) Reset() {
	a.history = nil
	start := time.Now()
	a.initialize()
	metrics.RecordProfileReplay(float64(time.Since(start).Microseconds()) / 1000)
}

func (a *Accumulator) replay() {
	start := time.Now()
	a.initialize()
	for _, event := range a.history {
		a.applyEffect(event.Effect)
	}
	metrics.RecordProfileReplay(float64(time.Since(start).Microseconds()) / 1000)
}

// Snapshot returns a deep copy of the current profile.
func (a *Accumulator) Snapshot() Profile {
	out := Profile{
		Attributes: make(map[string]float64, len(a.current.Attributes)),
		Styles:     make(map[string]float64, len(a.current.Styles)),
		Ranges:     make(map[string]Range, len(a.current.Ranges)),
	}
	for k, v := range a.current.Attributes {
		out.Attributes[k] = v
	}
	for k, v := range a.current.Styles {
		out.Styles[k] = v
	}
	for k, r := range a.current.Ranges {
		var cp Range
		if r.Min != nil {
			v := *r.Min
			cp.Min = &v
		}
		if r.Max != nil {
			v := *r.Max
			cp.Max = &v
		}
		out.Ranges[k] = cp
	}
	return out
}

// History returns a copy of the answer history in order.
func (a *Accumulator) History() []AnswerEvent {
	out := make([]AnswerEvent, len(a.history))
	copy(out, a.history)
	return out
}

// Depth returns the number of answered questions.
func (a *Accumulator) Depth() int {
	return len(a.history)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
