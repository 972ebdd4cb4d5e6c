// Package capability defines the single contract through which malyar reaches
// remote inference models: run a named model with a structured input and get
// back its raw output.
package capability

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrUnknownModel is returned by a Mux when no runner is registered for a model.
	ErrUnknownModel = errors.New("unknown model")
	// ErrUnsupportedInput is returned when a runner receives an input type it cannot encode.
	ErrUnsupportedInput = errors.New("unsupported input")
)

// Runner runs a named model. Implementations must be safe for concurrent use.
type Runner interface {
	Run(ctx context.Context, model string, input any) (*Output, error)
}

// RunnerFunc adapts a plain function to the Runner interface.
type RunnerFunc func(ctx context.Context, model string, input any) (*Output, error)

func (f RunnerFunc) Run(ctx context.Context, model string, input any) (*Output, error) {
	return f(ctx, model, input)
}

// Output is the raw payload returned by a model.
type Output struct {
	Body        []byte
	ContentType string
}

type TranslationInput struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang,omitempty"`
	TargetLang string `json:"target_lang"`
}

// ImageInput describes a text-to-image request. A nil Seed is omitted from
// the encoded request so the model picks its own randomness.
type ImageInput struct {
	Prompt string `json:"prompt"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Seed   *int64 `json:"seed,omitempty"`
}

type Translation struct {
	TranslationText string `json:"translation_text"`
}

// TranslationOutput is the candidate list shape produced by translation models.
type TranslationOutput struct {
	Translations []Translation `json:"translations"`
}

// RemoteInvocationError reports a failed model call or a malformed reply.
type RemoteInvocationError struct {
	Model      string
	StatusCode int
	Err        error
}

func (e *RemoteInvocationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("model %s: status %d: %v", e.Model, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("model %s: %v", e.Model, e.Err)
}

func (e *RemoteInvocationError) Unwrap() error {
	return e.Err
}
