package pipeline

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/valpere/malyar/internal/capability"
)

const (
	testTranslationModel = "@cf/meta/m2m100-1.2b"
	testImageModel       = "@cf/stabilityai/stable-diffusion-xl-base-1.0"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01")

// stubRunner answers translation and image calls with canned replies and
// records what it was asked.
type stubRunner struct {
	translate func(in capability.TranslationInput) (*capability.Output, error)
	generate  func(in capability.ImageInput) (*capability.Output, error)

	translateCalls atomic.Int32
	generateCalls  atomic.Int32

	mu          sync.Mutex
	translation []capability.TranslationInput
	images      []capability.ImageInput
}

func (s *stubRunner) Run(ctx context.Context, model string, input any) (*capability.Output, error) {
	switch in := input.(type) {
	case capability.TranslationInput:
		s.translateCalls.Add(1)
		s.mu.Lock()
		s.translation = append(s.translation, in)
		s.mu.Unlock()
		if s.translate != nil {
			return s.translate(in)
		}
		return translated("a cat"), nil
	case capability.ImageInput:
		s.generateCalls.Add(1)
		s.mu.Lock()
		s.images = append(s.images, in)
		s.mu.Unlock()
		if s.generate != nil {
			return s.generate(in)
		}
		return &capability.Output{Body: pngBytes, ContentType: "image/png"}, nil
	}
	return nil, capability.ErrUnsupportedInput
}

func (s *stubRunner) lastImage() capability.ImageInput {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.images[len(s.images)-1]
}

func (s *stubRunner) lastTranslation() capability.TranslationInput {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.translation[len(s.translation)-1]
}

func translated(text string) *capability.Output {
	return &capability.Output{
		Body:        []byte(`{"translations":[{"translation_text":"` + text + `"}]}`),
		ContentType: "application/json",
	}
}

type fixedDetector struct {
	code  string
	ok    bool
	guess string
}

func (d fixedDetector) DetectISO(string) (string, bool) { return d.code, d.ok }

func (d fixedDetector) GuessISO(string) (string, bool) { return d.guess, d.guess != "" }

type recordingValidator struct {
	err   error
	calls int
}

func (v *recordingValidator) Check(text, targetLang string) error {
	v.calls++
	return v.err
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.TranslationModel = testTranslationModel
	cfg.ImageModel = testImageModel
	return cfg
}
