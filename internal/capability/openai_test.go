package capability

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIImages_Run(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/images/generations", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"created": 1700000000,
			"data":    []map[string]any{{"b64_json": base64.StdEncoding.EncodeToString(pngMagic)}},
		})
	}))
	defer server.Close()

	o := NewOpenAIImages("sk-test", server.URL)

	seed := int64(3)
	out, err := o.Run(context.Background(), "openai/dall-e-3", ImageInput{Prompt: "a cat", Width: 1024, Height: 1792, Seed: &seed})
	require.NoError(t, err)

	assert.Equal(t, pngMagic, out.Body)
	assert.Equal(t, "image/png", out.ContentType)
	assert.Equal(t, "dall-e-3", got["model"])
	assert.Equal(t, "1024x1792", got["size"])
	assert.Equal(t, "b64_json", got["response_format"])
	assert.NotContains(t, got, "seed")
}

func TestOpenAIImages_Run_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"size not supported","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	o := NewOpenAIImages("sk-test", server.URL)

	_, err := o.Run(context.Background(), "openai/dall-e-3", ImageInput{Prompt: "a cat", Width: 7, Height: 7})
	require.Error(t, err)

	var rie *RemoteInvocationError
	require.ErrorAs(t, err, &rie)
	assert.Equal(t, http.StatusBadRequest, rie.StatusCode)
	assert.Contains(t, err.Error(), "size not supported")
}

func TestOpenAIImages_Run_UnsupportedInput(t *testing.T) {
	o := NewOpenAIImages("sk-test", "")

	_, err := o.Run(context.Background(), "openai/dall-e-3", TranslationInput{Text: "x"})
	assert.ErrorIs(t, err, ErrUnsupportedInput)
}
