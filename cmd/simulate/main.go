// Command simulate exercises the quiz engine offline: it drives random answer
// walks (with random go-backs) over the real data feeds and verifies the
// engine's invariants after every step — clamp bounds, replay equivalence,
// and ranking determinism.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/whichracket/advisor/internal/adapters/feed"
	"github.com/whichracket/advisor/internal/domain/catalog"
	"github.com/whichracket/advisor/internal/domain/match"
	"github.com/whichracket/advisor/internal/domain/profile"
	"github.com/whichracket/advisor/internal/domain/style"
)

const backProbability = 0.25

func main() {
	catalogPath := flag.String("catalog", "data/rackets.json", "path to the racket catalog feed")
	questionsPath := flag.String("questions", "data/questions.json", "path to the question feed")
	runs := flag.Int("runs", 100, "number of random quiz walks")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	items, questions, err := feed.Load(context.Background(), *catalogPath, *questionsPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load feeds:", err)
		os.Exit(1)
	}

	store := catalog.NewStore(items)
	engine := match.NewEngine(store)
	classifier := style.NewClassifier(profile.Styles)
	rng := rand.New(rand.NewSource(*seed))

	var steps, backs, violations int
	for run := 0; run < *runs; run++ {
		acc := profile.NewAccumulator(store.Baseline())

		for q := 0; q < len(questions); {
			if acc.Depth() > 0 && rng.Float64() < backProbability {
				acc.Back()
				q--
				backs++
			} else {
				answer := questions[q].Answers[rng.Intn(len(questions[q].Answers))]
				acc.Apply(profile.AnswerEvent{QuestionIndex: q, Effect: answer.Effects})
				q++
			}
			steps++

			violations += checkBounds(acc)
			violations += checkReplay(store, acc)
		}

		violations += checkDeterminism(engine, acc.Snapshot())
		_ = classifier.Classify(acc.Snapshot().Styles)
	}

	fmt.Printf("runs=%d steps=%d backs=%d violations=%d\n", *runs, steps, backs, violations)
	if violations > 0 {
		os.Exit(1)
	}
}

// checkBounds verifies every profile value is within [0,100].
func checkBounds(acc *profile.Accumulator) int {
	snap := acc.Snapshot()
	bad := 0
	for name, v := range snap.Attributes {
		if v < 0 || v > 100 {
			fmt.Fprintf(os.Stderr, "clamp violation: attribute %q = %v\n", name, v)
			bad++
		}
	}
	for name, v := range snap.Styles {
		if v < 0 || v > 100 {
			fmt.Fprintf(os.Stderr, "clamp violation: style %q = %v\n", name, v)
			bad++
		}
	}
	return bad
}

// checkReplay rebuilds a fresh accumulator from the session's history and
// verifies it produces an identical profile.
func checkReplay(store *catalog.Store, acc *profile.Accumulator) int {
	fresh := profile.NewAccumulator(store.Baseline())
	for _, event := range acc.History() {
		fresh.Apply(event)
	}
	if !equalProfiles(acc.Snapshot(), fresh.Snapshot()) {
		fmt.Fprintln(os.Stderr, "replay divergence after", acc.Depth(), "answers")
		return 1
	}
	return 0
}

// checkDeterminism ranks the same profile twice in every mode and verifies
// identical ordered output.
func checkDeterminism(engine *match.Engine, snap profile.Profile) int {
	bad := 0
	for _, mode := range []match.Mode{match.Neutral, match.Strength, match.Weakness} {
		a := engine.Rank(snap, mode, 0)
		b := engine.Rank(snap, mode, 0)
		if len(a) != len(b) {
			bad++
			continue
		}
		for i := range a {
			if a[i].ID != b[i].ID || a[i].Score != b[i].Score {
				fmt.Fprintf(os.Stderr, "nondeterministic ranking in mode %s at rank %d\n", mode, i+1)
				bad++
				break
			}
		}
	}
	return bad
}

func equalProfiles(a, b profile.Profile) bool {
	if len(a.Attributes) != len(b.Attributes) || len(a.Styles) != len(b.Styles) || len(a.Ranges) != len(b.Ranges) {
		return false
	}
	for k, v := range a.Attributes {
		if bv, ok := b.Attributes[k]; !ok || bv != v {
			return false
		}
	}
	for k, v := range a.Styles {
		if bv, ok := b.Styles[k]; !ok || bv != v {
			return false
		}
	}
	for k, r := range a.Ranges {
		br, ok := b.Ranges[k]
		if !ok || !equalBound(r.Min, br.Min) || !equalBound(r.Max, br.Max) {
			return false
		}
	}
	return true
}

func equalBound(a, b *float64) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || *a == *b
}
