package capability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"
)

const DefaultWorkersAIBaseURL = "https://api.cloudflare.com/client/v4"

// WorkersAI runs models hosted on Cloudflare Workers AI through its REST API.
type WorkersAI struct {
	baseURL   string
	accountID string
	apiToken  string
	client    *http.Client
}

type WorkersAIOption func(*WorkersAI)

func WithHTTPClient(client *http.Client) WorkersAIOption {
	return func(w *WorkersAI) {
		w.client = client
	}
}

func WithBaseURL(baseURL string) WorkersAIOption {
	return func(w *WorkersAI) {
		if baseURL != "" {
			w.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

func NewWorkersAI(accountID, apiToken string, opts ...WorkersAIOption) *WorkersAI {
	w := &WorkersAI{
		baseURL:   DefaultWorkersAIBaseURL,
		accountID: accountID,
		apiToken:  apiToken,
		client:    &http.Client{Timeout: 120 * time.Second},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

type workersAIEnvelope struct {
	Result   json.RawMessage `json:"result"`
	Success  bool            `json:"success"`
	Errors   []workersAIErr  `json:"errors"`
	Messages []any           `json:"messages"`
}

type workersAIErr struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (w *WorkersAI) Run(ctx context.Context, model string, input any) (*Output, error) {
	switch input.(type) {
	case TranslationInput, ImageInput, *TranslationInput, *ImageInput:
	default:
		return nil, &RemoteInvocationError{Model: model, Err: fmt.Errorf("%w: %T", ErrUnsupportedInput, input)}
	}

	if w.accountID == "" || w.apiToken == "" {
		return nil, &RemoteInvocationError{Model: model, Err: errors.New("workers ai account id and api token are required")}
	}

	body, err := json.Marshal(input)
	if err != nil {
		return nil, &RemoteInvocationError{Model: model, Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	url := fmt.Sprintf("%s/accounts/%s/ai/run/%s", w.baseURL, w.accountID, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &RemoteInvocationError{Model: model, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+w.apiToken)

	resp, err := w.client.Do(httpReq)
	if err != nil {
		return nil, &RemoteInvocationError{Model: model, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RemoteInvocationError{Model: model, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	contentType := resp.Header.Get("Content-Type")
	if !isJSON(contentType) {
		if resp.StatusCode != http.StatusOK {
			return nil, &RemoteInvocationError{Model: model, StatusCode: resp.StatusCode, Err: fmt.Errorf("API returned status %d", resp.StatusCode)}
		}
		return &Output{Body: payload, ContentType: contentType}, nil
	}

	var env workersAIEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, &RemoteInvocationError{Model: model, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK || !env.Success {
		msg := fmt.Sprintf("API returned status %d", resp.StatusCode)
		if len(env.Errors) > 0 {
			msg = env.Errors[0].Message
		}
		return nil, &RemoteInvocationError{Model: model, StatusCode: resp.StatusCode, Err: errors.New(msg)}
	}

	return &Output{Body: env.Result, ContentType: "application/json"}, nil
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json"
}
