package capability

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAIModelPrefix marks model identifiers served by OpenAIImages, e.g. "openai/dall-e-3".
const OpenAIModelPrefix = "openai/"

// OpenAIImages runs OpenAI image models. The images API has no seed
// parameter, so ImageInput.Seed is ignored.
type OpenAIImages struct {
	client *openai.Client
}

func NewOpenAIImages(apiKey, baseURL string) *OpenAIImages {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIImages{client: openai.NewClientWithConfig(cfg)}
}

func (o *OpenAIImages) Run(ctx context.Context, model string, input any) (*Output, error) {
	var in ImageInput
	switch v := input.(type) {
	case ImageInput:
		in = v
	case *ImageInput:
		in = *v
	default:
		return nil, &RemoteInvocationError{Model: model, Err: fmt.Errorf("%w: %T", ErrUnsupportedInput, input)}
	}

	resp, err := o.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         in.Prompt,
		Model:          strings.TrimPrefix(model, OpenAIModelPrefix),
		N:              1,
		Size:           fmt.Sprintf("%dx%d", in.Width, in.Height),
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, &RemoteInvocationError{Model: model, StatusCode: apiErr.HTTPStatusCode, Err: err}
		}
		return nil, &RemoteInvocationError{Model: model, Err: err}
	}

	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, &RemoteInvocationError{Model: model, Err: errors.New("no image returned")}
	}

	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, &RemoteInvocationError{Model: model, Err: fmt.Errorf("failed to decode image: %w", err)}
	}

	return &Output{Body: data, ContentType: "image/png"}, nil
}
