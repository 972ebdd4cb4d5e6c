// Package detector guesses the language of a prompt so the pipeline can tell
// the translation model what it is translating from, or skip translation
// for prompts already in the target language.
package detector

import (
	"strings"

	lingua "github.com/pemistahl/lingua-go"
)

type Option func(lingua.LanguageDetectorBuilder) lingua.LanguageDetectorBuilder

// WithMinimumRelativeDistance makes detection return no result when the top
// candidates are closer than distance (0 to 0.99).
func WithMinimumRelativeDistance(distance float64) Option {
	return func(b lingua.LanguageDetectorBuilder) lingua.LanguageDetectorBuilder {
		return b.WithMinimumRelativeDistance(distance)
	}
}

// Detector is expensive to build and safe for concurrent use; share one.
type Detector struct {
	detector lingua.LanguageDetector
}

func New(opts ...Option) *Detector {
	builder := lingua.NewLanguageDetectorBuilder().FromAllLanguages()
	for _, opt := range opts {
		builder = opt(builder)
	}
	return &Detector{detector: builder.Build()}
}

func (d *Detector) Detect(text string) (lingua.Language, bool) {
	if strings.TrimSpace(text) == "" {
		return lingua.Unknown, false
	}
	return d.detector.DetectLanguageOf(text)
}

// DetectISO returns the lowercase ISO 639-1 code of text, e.g. "zh".
func (d *Detector) DetectISO(text string) (string, bool) {
	lang, ok := d.Detect(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}

// GuessISO returns the most likely language of text even when the
// minimum relative distance rejects it. It fails only when no language
// scores above zero.
func (d *Detector) GuessISO(text string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	values := d.detector.ComputeLanguageConfidenceValues(text)
	if len(values) == 0 || values[0].Value() <= 0 {
		return "", false
	}
	return strings.ToLower(values[0].Language().IsoCode639_1().String()), true
}
