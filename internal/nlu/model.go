package nlu

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"regexp"
	"strings"
	"sync"
)

// Model is the trained intent-classifier artifact: a linear bag-of-words
// scorer serialized as JSON. It is loaded lazily on first use and cached;
// concurrent first calls are collapsed by sync.Once. A missing artifact is
// not an error — Score then returns nil and the resolver runs on the fuzzy
// fallback alone.
type Model struct {
	path string

	once   sync.Once
	data   *modelData
	loaded bool
}

type modelData struct {
	Version int                           `json:"version"`
	Labels  []string                      `json:"labels"`
	Weights map[string]map[string]float64 `json:"weights"`
	Bias    map[string]float64            `json:"bias"`
}

// NewModel creates a model bound to the artifact path. No I/O happens until
// the first Score call.
func NewModel(path string) *Model {
	return &Model{path: path}
}

var reToken = regexp.MustCompile(`[a-z0-9]+`)

// Tokenize lowercases and splits text into alphanumeric tokens.
func Tokenize(text string) []string {
	return reToken.FindAllString(strings.ToLower(text), -1)
}

func (m *Model) load() {
	if m.path == "" {
		return
	}
	raw, err := os.ReadFile(m.path)
	if err != nil {
		slog.Warn("Intent model artifact not available, fuzzy fallback only", "path", m.path, "error", err)
		return
	}
	var data modelData
	if err := json.Unmarshal(raw, &data); err != nil {
		slog.Warn("Intent model artifact unreadable, fuzzy fallback only", "path", m.path, "error", err)
		return
	}
	if len(data.Labels) == 0 || len(data.Weights) == 0 {
		slog.Warn("Intent model artifact empty, fuzzy fallback only", "path", m.path)
		return
	}
	m.data = &data
	m.loaded = true
	slog.Info("Intent model loaded", "path", m.path, "labels", len(data.Labels))
}

// Available reports whether the artifact loaded successfully.
func (m *Model) Available() bool {
	m.once.Do(m.load)
	return m.loaded
}

// Score returns per-label confidences in [0, 1] for the text, normalized
// with a softmax over the label set. Returns nil when no artifact is loaded.
func (m *Model) Score(text string) map[string]float64 {
	m.once.Do(m.load)
	if !m.loaded {
		return nil
	}

	tokens := Tokenize(text)
	logits := make(map[string]float64, len(m.data.Labels))
	for _, label := range m.data.Labels {
		z := m.data.Bias[label]
		w := m.data.Weights[label]
		for _, tok := range tokens {
			z += w[tok]
		}
		logits[label] = z
	}

	// Softmax with max subtraction for numeric stability.
	maxZ := math.Inf(-1)
	for _, z := range logits {
		if z > maxZ {
			maxZ = z
		}
	}
	var sum float64
	scores := make(map[string]float64, len(logits))
	for label, z := range logits {
		e := math.Exp(z - maxZ)
		scores[label] = e
		sum += e
	}
	for label := range scores {
		scores[label] /= sum
	}
	return scores
}

// ExampleSet is the labeled example-phrase corpus used by the fuzzy
// fallback. Loaded lazily like the model artifact.
type ExampleSet struct {
	path string

	once    sync.Once
	loadErr error
	intents []IntentExamples
}

// IntentExamples pairs an intent name with its example phrases.
type IntentExamples struct {
	Name     string   `json:"name"`
	Examples []string `json:"examples"`
}

type exampleFile struct {
	Intents []IntentExamples `json:"intents"`
}

// NewExampleSet creates an example set bound to the corpus path.
func NewExampleSet(path string) *ExampleSet {
	return &ExampleSet{path: path}
}

func (e *ExampleSet) load() {
	raw, err := os.ReadFile(e.path)
	if err != nil {
		e.loadErr = fmt.Errorf("read intent examples: %w", err)
		return
	}
	var f exampleFile
	if err := json.Unmarshal(raw, &f); err != nil {
		e.loadErr = fmt.Errorf("parse intent examples: %w", err)
		return
	}
	e.intents = f.Intents
}

// Intents returns the example corpus, or nil when unavailable.
func (e *ExampleSet) Intents() []IntentExamples {
	e.once.Do(func() {
		e.load()
		if e.loadErr != nil {
			slog.Warn("Intent example corpus not available", "path", e.path, "error", e.loadErr)
		}
	})
	return e.intents
}
