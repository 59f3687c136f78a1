package nlu

import (
	"sort"
	"strings"

	"github.com/rsharan/bankbot/internal/domain"
)

const (
	// confidenceFloor is the minimum top model score below which the fuzzy
	// fallback is merged in.
	confidenceFloor = 0.25
	// fuzzyScale discounts fuzzy evidence slightly below model evidence.
	fuzzyScale = 0.9
)

// Resolver combines the primary classifier with the fuzzy example matcher.
// Both stages are explicit so each can be tested on its own.
type Resolver struct {
	model    *Model
	examples *ExampleSet
}

// NewResolver creates a resolver over the model artifact and example corpus.
func NewResolver(model *Model, examples *ExampleSet) *Resolver {
	return &Resolver{model: model, examples: examples}
}

// Resolve returns up to topN intent predictions, highest confidence first.
//
// The model ranking is trusted on its own when its top score clears the
// confidence floor. Below the floor (or with no model at all) fuzzy scores
// over the example corpus are scaled by fuzzyScale and merged with the model
// scores by per-label max, so the system degrades to a deterministic lexical
// match instead of failing outright.
func (r *Resolver) Resolve(text string, topN int) []domain.Prediction {
	if topN <= 0 {
		topN = 3
	}

	modelScores := r.model.Score(text)
	ranked := rankScores(modelScores)
	if len(ranked) > 0 && ranked[0].Confidence >= confidenceFloor {
		return truncate(ranked, topN)
	}

	merged := make(map[string]float64)
	for label, best := range r.fuzzyScores(text) {
		merged[label] = best * fuzzyScale
	}
	for label, score := range modelScores {
		if score > merged[label] {
			merged[label] = score
		}
	}

	return truncate(rankScores(merged), topN)
}

// fuzzyScores returns, per intent, the best similarity ratio between the
// text and that intent's example phrases.
func (r *Resolver) fuzzyScores(text string) map[string]float64 {
	lower := strings.ToLower(text)
	scores := make(map[string]float64)
	for _, intent := range r.examples.Intents() {
		best := 0.0
		for _, ex := range intent.Examples {
			if ratio := Ratio(lower, strings.ToLower(ex)); ratio > best {
				best = ratio
			}
		}
		scores[intent.Name] = best
	}
	return scores
}

func rankScores(scores map[string]float64) []domain.Prediction {
	preds := make([]domain.Prediction, 0, len(scores))
	for label, score := range scores {
		preds = append(preds, domain.Prediction{
			Intent:     domain.ParseIntent(label),
			Confidence: score,
		})
	}
	sort.SliceStable(preds, func(i, j int) bool {
		if preds[i].Confidence != preds[j].Confidence {
			return preds[i].Confidence > preds[j].Confidence
		}
		return preds[i].Intent < preds[j].Intent
	})
	return preds
}

func truncate(preds []domain.Prediction, topN int) []domain.Prediction {
	if len(preds) > topN {
		return preds[:topN]
	}
	return preds
}
