package nlu

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/rsharan/bankbot/internal/domain"
)

const exampleFixture = `{
	"intents": [
		{"name": "check_balance", "examples": ["check balance", "what is my balance"]},
		{"name": "transfer_money", "examples": ["transfer money", "send money"]},
		{"name": "block_card", "examples": ["block my card"]}
	]
}`

// flatModelFixture scores every label uniformly at 0.2, below the
// confidence floor.
const flatModelFixture = `{
	"version": 1,
	"labels": ["check_balance", "transfer_money", "block_card", "loan_info", "find_atm"],
	"weights": {
		"check_balance": {}, "transfer_money": {}, "block_card": {},
		"loan_info": {}, "find_atm": {}
	},
	"bias": {}
}`

func TestResolver_NoModelFallsBackToFuzzy(t *testing.T) {
	model := NewModel(filepath.Join(t.TempDir(), "missing.json"))
	examples := NewExampleSet(writeFixture(t, "intents.json", exampleFixture))
	r := NewResolver(model, examples)

	preds := r.Resolve("check balance", 3)
	if len(preds) == 0 {
		t.Fatal("expected predictions")
	}
	if preds[0].Intent != domain.IntentCheckBalance {
		t.Errorf("top intent = %v, want check_balance", preds[0].Intent)
	}
	// An exact example match scores 1.0, scaled by the fuzzy discount.
	if math.Abs(preds[0].Confidence-0.9) > 1e-9 {
		t.Errorf("top confidence = %v, want 0.9", preds[0].Confidence)
	}
}

func TestResolver_ModelAboveFloorWins(t *testing.T) {
	model := NewModel(writeFixture(t, "model.json", modelFixture))
	examples := NewExampleSet(filepath.Join(t.TempDir(), "missing.json"))
	r := NewResolver(model, examples)

	preds := r.Resolve("check my balance please", 3)
	if len(preds) == 0 {
		t.Fatal("expected predictions")
	}
	if preds[0].Intent != domain.IntentCheckBalance {
		t.Errorf("top intent = %v, want check_balance", preds[0].Intent)
	}
	if preds[0].Confidence < confidenceFloor {
		t.Errorf("top confidence = %v, want >= %v", preds[0].Confidence, confidenceFloor)
	}
}

func TestResolver_BelowFloorMergesFuzzy(t *testing.T) {
	// Uniform model scores (0.2 each) stay below the floor, so the fuzzy
	// evidence must take over.
	model := NewModel(writeFixture(t, "model.json", flatModelFixture))
	examples := NewExampleSet(writeFixture(t, "intents.json", exampleFixture))
	r := NewResolver(model, examples)

	preds := r.Resolve("block my card", 3)
	if len(preds) == 0 {
		t.Fatal("expected predictions")
	}
	if preds[0].Intent != domain.IntentBlockCard {
		t.Errorf("top intent = %v, want block_card", preds[0].Intent)
	}
	if math.Abs(preds[0].Confidence-0.9) > 1e-9 {
		t.Errorf("top confidence = %v, want 0.9", preds[0].Confidence)
	}
	// The merge keeps the flat model score for labels with no fuzzy match
	// above it.
	for _, p := range preds[1:] {
		if p.Confidence > preds[0].Confidence {
			t.Errorf("predictions not sorted: %v", preds)
		}
	}
}

func TestResolver_TopNLimit(t *testing.T) {
	model := NewModel(filepath.Join(t.TempDir(), "missing.json"))
	examples := NewExampleSet(writeFixture(t, "intents.json", exampleFixture))
	r := NewResolver(model, examples)

	preds := r.Resolve("transfer money", 2)
	if len(preds) > 2 {
		t.Errorf("got %d predictions, want at most 2", len(preds))
	}
	if preds[0].Intent != domain.IntentTransferMoney {
		t.Errorf("top intent = %v, want transfer_money", preds[0].Intent)
	}
}

func TestResolver_ShippedCorpus(t *testing.T) {
	// A fresh deployment carries no trained model, only data/intents.json;
	// the fuzzy fallback alone must classify the canonical phrasings.
	examples := NewExampleSet(filepath.Join("..", "..", "data", "intents.json"))
	r := NewResolver(NewModel(""), examples)

	tests := []struct {
		text string
		want domain.Intent
	}{
		{"transfer money", domain.IntentTransferMoney},
		{"check my balance", domain.IntentCheckBalance},
		{"block my card", domain.IntentBlockCard},
		{"i need a loan", domain.IntentLoanInfo},
		{"nearest atm", domain.IntentFindATM},
	}
	for _, tt := range tests {
		preds := r.Resolve(tt.text, 3)
		if len(preds) == 0 {
			t.Fatalf("Resolve(%q) returned no predictions", tt.text)
		}
		if preds[0].Intent != tt.want {
			t.Errorf("Resolve(%q) top intent = %s, want %s", tt.text, preds[0].Intent, tt.want)
		}
	}
}

func TestResolver_NothingLoaded(t *testing.T) {
	model := NewModel(filepath.Join(t.TempDir(), "missing.json"))
	examples := NewExampleSet(filepath.Join(t.TempDir(), "missing.json"))
	r := NewResolver(model, examples)

	if preds := r.Resolve("check balance", 3); len(preds) != 0 {
		t.Errorf("expected no predictions, got %v", preds)
	}
}
