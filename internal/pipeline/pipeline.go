// Package pipeline runs the two-stage inference behind one image request:
// translate the prompt into the image model's language, then generate the
// image from the translated prompt.
package pipeline

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/valpere/malyar/internal/capability"
	"github.com/valpere/malyar/internal/params"
)

const (
	DefaultTranslationModel = "@cf/meta/m2m100-1.2b"
	DefaultImageModel       = "@cf/stabilityai/stable-diffusion-xl-base-1.0"
	DefaultTargetLang       = "en"
	AutoLang                = "auto"
)

type Config struct {
	TranslationModel   string
	ImageModel         string
	TranslationEnabled bool
	SourceLang         string
	TargetLang         string

	// CallTimeout bounds each remote call. Zero waits as long as the
	// request context allows.
	CallTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		TranslationModel:   DefaultTranslationModel,
		ImageModel:         DefaultImageModel,
		TranslationEnabled: true,
		SourceLang:         AutoLang,
		TargetLang:         DefaultTargetLang,
	}
}

// LanguageDetector is satisfied by *detector.Detector. DetectISO is the
// confident answer used to skip translation; GuessISO is the best candidate
// sent as the source language when DetectISO is inconclusive.
type LanguageDetector interface {
	DetectISO(text string) (string, bool)
	GuessISO(text string) (string, bool)
}

type TranslationValidator interface {
	Check(text, targetLang string) error
}

type Option func(*Pipeline)

// WithDetector enables source language detection for SourceLang "auto".
func WithDetector(d LanguageDetector) Option {
	return func(p *Pipeline) {
		p.detector = d
	}
}

// WithValidator enables a warning when a translation is not in TargetLang.
func WithValidator(v TranslationValidator) Option {
	return func(p *Pipeline) {
		p.validator = v
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// Pipeline holds no per-request state and is safe for concurrent use.
type Pipeline struct {
	runner    capability.Runner
	config    Config
	detector  LanguageDetector
	validator TranslationValidator
	logger    *zap.Logger
}

func New(runner capability.Runner, config Config, opts ...Option) *Pipeline {
	if config.SourceLang == "" {
		config.SourceLang = AutoLang
	}
	if config.TargetLang == "" {
		config.TargetLang = DefaultTargetLang
	}

	p := &Pipeline{
		runner: runner,
		config: config,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// TranslationResult is the prompt handed to the image stage.
type TranslationResult struct {
	Text       string
	SourceLang string
	Skipped    bool
}

type Result struct {
	Image       []byte
	ContentType string
	Translation TranslationResult
	Size        params.Size
	Seed        *int64
}

// Run translates req.Prompt and generates the image. The image stage never
// runs when translation fails, and no call is retried.
func (p *Pipeline) Run(ctx context.Context, req params.GenerationRequest) (*Result, error) {
	tr, err := p.Translate(ctx, req.Prompt)
	if err != nil {
		return nil, err
	}

	image, contentType, err := p.Generate(ctx, tr.Text, req.Size, req.Seed)
	if err != nil {
		return nil, err
	}

	return &Result{
		Image:       image,
		ContentType: contentType,
		Translation: *tr,
		Size:        req.Size,
		Seed:        req.Seed,
	}, nil
}

// Translate runs the translation stage alone. Errors are *PipelineError.
func (p *Pipeline) Translate(ctx context.Context, prompt string) (*TranslationResult, error) {
	source, skip := p.sourceLang(prompt)
	if skip {
		p.logger.Debug("translation skipped",
			zap.String("source_lang", source),
			zap.Bool("enabled", p.config.TranslationEnabled))
		return &TranslationResult{Text: prompt, SourceLang: source, Skipped: true}, nil
	}

	callCtx, cancel := p.callContext(ctx)
	defer cancel()

	start := time.Now()
	out, err := p.runner.Run(callCtx, p.config.TranslationModel, capability.TranslationInput{
		Text:       prompt,
		SourceLang: source,
		TargetLang: p.config.TargetLang,
	})
	if err != nil {
		return nil, &PipelineError{Stage: StageTranslate, Err: err}
	}

	text, err := decodeTranslation(out)
	if err != nil {
		return nil, &PipelineError{Stage: StageTranslate, Err: err}
	}

	p.logger.Debug("prompt translated",
		zap.String("model", p.config.TranslationModel),
		zap.String("source_lang", source),
		zap.String("translated", text),
		zap.Duration("latency", time.Since(start)))

	if p.validator != nil {
		if err := p.validator.Check(text, p.config.TargetLang); err != nil {
			p.logger.Warn("translation may not be in target language",
				zap.String("target_lang", p.config.TargetLang),
				zap.Error(err))
		}
	}

	return &TranslationResult{Text: text, SourceLang: source}, nil
}

// Generate runs the image stage alone. Errors are *PipelineError.
func (p *Pipeline) Generate(ctx context.Context, prompt string, size params.Size, seed *int64) ([]byte, string, error) {
	callCtx, cancel := p.callContext(ctx)
	defer cancel()

	start := time.Now()
	out, err := p.runner.Run(callCtx, p.config.ImageModel, capability.ImageInput{
		Prompt: prompt,
		Width:  size.Width,
		Height: size.Height,
		Seed:   seed,
	})
	if err != nil {
		return nil, "", &PipelineError{Stage: StageGenerate, Err: err}
	}

	image, contentType, err := decodeImage(out)
	if err != nil {
		return nil, "", &PipelineError{Stage: StageGenerate, Err: err}
	}

	p.logger.Debug("image generated",
		zap.String("model", p.config.ImageModel),
		zap.Stringer("size", size),
		zap.Int("bytes", len(image)),
		zap.Duration("latency", time.Since(start)))

	return image, contentType, nil
}

// sourceLang resolves the language sent to the translation model and whether
// translation can be skipped. An empty result leaves the choice to the model.
func (p *Pipeline) sourceLang(prompt string) (string, bool) {
	source := p.config.SourceLang
	if !p.config.TranslationEnabled {
		return source, true
	}

	if source != AutoLang {
		return source, strings.EqualFold(source, p.config.TargetLang)
	}
	if p.detector == nil {
		return "", false
	}

	if code, ok := p.detector.DetectISO(prompt); ok {
		return code, strings.EqualFold(code, p.config.TargetLang)
	}
	// Models such as m2m100 assume English when no source is sent, which
	// would echo a short foreign prompt back untranslated.
	if code, ok := p.detector.GuessISO(prompt); ok {
		return code, false
	}
	return "", false
}

func (p *Pipeline) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.config.CallTimeout > 0 {
		return context.WithTimeout(ctx, p.config.CallTimeout)
	}
	return context.WithCancel(ctx)
}
