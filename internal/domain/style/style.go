// Package style classifies a profile's play style, reporting a hybrid when
// the two leading styles are nearly tied.
package style

import (
	"sort"

	"github.com/whichracket/advisor/internal/domain/catalog"
	"github.com/whichracket/advisor/internal/domain/types"
)

// Default classifier configuration constants.
const (
	defaultHybridThreshold = 3.0
	defaultDisplayRange    = 16.0
)

// Classifier derives a style label from profile style scores. It holds no
// state of its own; Classify is idempotent over the same input.
type Classifier struct {
	styles          []string
	hybridThreshold float64
	displayRange    float64
}

// Option applies a configuration option to the Classifier.
type Option func(*Classifier)

// WithHybridThreshold sets the maximum gap between the top two scores for a
// hybrid result.
func WithHybridThreshold(t float64) Option {
	return func(c *Classifier) {
		if t >= 0 {
			c.hybridThreshold = t
		}
	}
}

// WithDisplayRange sets the half-width M of the symmetric [-M, +M] scale
// intensities are reported on.
func WithDisplayRange(m float64) Option {
	return func(c *Classifier) {
		if m > 0 {
			c.displayRange = m
		}
	}
}

// NewClassifier creates a classifier over the given style set. Order matters:
// it is the tie-breaker between equal scores.
func NewClassifier(styles []string, opts ...Option) *Classifier {
	c := &Classifier{
		styles:          styles,
		hybridThreshold: defaultHybridThreshold,
		displayRange:    defaultDisplayRange,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Classify returns the dominant style, or a hybrid of the top two when their
// scores differ by no more than the threshold. Intensities rescale each score
// from [0,100] to the symmetric display range around the neutral midpoint.
func (c *Classifier) Classify(scores map[string]float64) types.StyleLabel {
	ordered := make([]string, 0, len(c.styles))
	for _, name := range c.styles {
		if _, ok := scores[name]; ok {
			ordered = append(ordered, name)
		}
	}

	label := types.StyleLabel{Intensity: make(map[string]float64, len(ordered))}
	for _, name := range ordered {
		label.Intensity[name] = c.rescale(scores[name])
	}
	if len(ordered) == 0 {
		return label
	}

	// Stable sort by score descending; definition order breaks ties.
	sort.SliceStable(ordered, func(i, j int) bool {
		return scores[ordered[i]] > scores[ordered[j]]
	})

	label.Primary = ordered[0]
	if len(ordered) > 1 {
		top, second := scores[ordered[0]], scores[ordered[1]]
		if top-second <= c.hybridThreshold && top >= 0 && second >= 0 {
			label.Secondary = ordered[1]
			label.Hybrid = true
		}
	}
	return label
}

// rescale maps a [0,100] score onto [-M, +M] around the neutral midpoint.
func (c *Classifier) rescale(v float64) float64 {
	return (v - catalog.NeutralScore) / catalog.NeutralScore * c.displayRange
}
