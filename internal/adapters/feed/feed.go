// Package feed loads the two JSON data feeds the engine consumes: the racket
// catalog and the question content. The feeds load as a unit; a failure in
// either leaves no partial state behind.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/whichracket/advisor/internal/domain/catalog"
)

// maxAnswersPerQuestion bounds how many options a question may carry.
const maxAnswersPerQuestion = 4

// Answer is one selectable option. Effects is consumed directly by the
// profile accumulator.
type Answer struct {
	Text    string             `json:"text"`
	Effects map[string]float64 `json:"effects"`
}

// Question is one quiz question with its answer options.
type Question struct {
	Text    string   `json:"q"`
	Answers []Answer `json:"answers"`
}

// catalogItem mirrors the on-disk racket shape. Stats may be on a 0-10 or a
// 0-100 scale; the catalog store normalizes at ingestion.
type catalogItem struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Brand    string             `json:"brand"`
	Stats    map[string]float64 `json:"stats"`
	Weight   float64            `json:"weight"`
	HeadSize float64            `json:"head_size"`
}

// Load reads both feeds. Both must parse for Load to succeed.
func Load(_ context.Context, catalogPath, questionsPath string) ([]catalog.Item, []Question, error) {
	items, err := LoadCatalog(catalogPath)
	if err != nil {
		return nil, nil, err
	}
	questions, err := LoadQuestions(questionsPath)
	if err != nil {
		return nil, nil, err
	}
	return items, questions, nil
}

// LoadCatalog reads and validates the racket catalog feed.
func LoadCatalog(path string) ([]catalog.Item, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadCatalog, err)
	}

	var raw []catalogItem
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadCatalog, err)
	}

	items := make([]catalog.Item, 0, len(raw))
	for i, r := range raw {
		if r.Name == "" {
			return nil, fmt.Errorf("%w: item %d has no name", ErrLoadCatalog, i)
		}
		id := r.ID
		if id == "" {
			id = r.Name
		}
		items = append(items, catalog.Item{
			ID:         id,
			Name:       r.Name,
			Brand:      r.Brand,
			Attributes: r.Stats,
			Weight:     r.Weight,
			HeadSize:   r.HeadSize,
		})
	}
	return items, nil
}

// LoadQuestions reads and validates the question feed.
func LoadQuestions(path string) ([]Question, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadQuestions, err)
	}

	var questions []Question
	if err := json.Unmarshal(b, &questions); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadQuestions, err)
	}

	for i, q := range questions {
		if q.Text == "" {
			return nil, fmt.Errorf("%w: question %d has no text", ErrLoadQuestions, i)
		}
		if len(q.Answers) == 0 || len(q.Answers) > maxAnswersPerQuestion {
			return nil, fmt.Errorf("%w: question %d has %d answers, want 1..%d",
				ErrLoadQuestions, i, len(q.Answers), maxAnswersPerQuestion)
		}
	}
	return questions, nil
}
