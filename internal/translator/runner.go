package translator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/valpere/malyar/internal/capability"
)

// Runner exposes a TranslationService through the capability contract, so a
// translation backend can be selected by model identifier like any hosted model.
type Runner struct {
	svc TranslationService
}

func NewRunner(svc TranslationService) *Runner {
	return &Runner{svc: svc}
}

func (r *Runner) Run(ctx context.Context, model string, input any) (*capability.Output, error) {
	var in capability.TranslationInput
	switch v := input.(type) {
	case capability.TranslationInput:
		in = v
	case *capability.TranslationInput:
		in = *v
	default:
		return nil, &capability.RemoteInvocationError{Model: model, Err: fmt.Errorf("%w: %T", capability.ErrUnsupportedInput, input)}
	}

	res, err := r.svc.Translate(ctx, TranslateRequest{
		Text:       in.Text,
		SourceLang: in.SourceLang,
		TargetLang: in.TargetLang,
	})
	if err != nil {
		return nil, &capability.RemoteInvocationError{Model: model, Err: fmt.Errorf("%s: %w", r.svc.Name(), err)}
	}

	body, err := json.Marshal(capability.TranslationOutput{
		Translations: []capability.Translation{{TranslationText: res.TranslatedText}},
	})
	if err != nil {
		return nil, &capability.RemoteInvocationError{Model: model, Err: fmt.Errorf("failed to encode result: %w", err)}
	}

	return &capability.Output{Body: body, ContentType: "application/json"}, nil
}
