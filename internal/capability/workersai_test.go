package capability

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestWorkersAI_Run_Translation(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result":{"translated_text":"a cat"},"success":true,"errors":[],"messages":[]}`))
	}))
	defer server.Close()

	w := NewWorkersAI("acc", "tok", WithBaseURL(server.URL), WithHTTPClient(server.Client()))

	out, err := w.Run(context.Background(), "@cf/meta/m2m100-1.2b", TranslationInput{
		Text:       "一只猫",
		SourceLang: "zh",
		TargetLang: "en",
	})
	require.NoError(t, err)

	assert.Equal(t, "/accounts/acc/ai/run/@cf/meta/m2m100-1.2b", gotPath)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "一只猫", gotBody["text"])
	assert.Equal(t, "zh", gotBody["source_lang"])
	assert.Equal(t, "en", gotBody["target_lang"])
	assert.JSONEq(t, `{"translated_text":"a cat"}`, string(out.Body))
	assert.Equal(t, "application/json", out.ContentType)
}

func TestWorkersAI_Run_ImageBytes(t *testing.T) {
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)

		w.Header().Set("Content-Type", "image/png")
		w.Write(pngMagic)
	}))
	defer server.Close()

	w := NewWorkersAI("acc", "tok", WithBaseURL(server.URL), WithHTTPClient(server.Client()))

	out, err := w.Run(context.Background(), "@cf/stabilityai/stable-diffusion-xl-base-1.0", ImageInput{
		Prompt: "a cat",
		Width:  512,
		Height: 768,
	})
	require.NoError(t, err)

	assert.Equal(t, pngMagic, out.Body)
	assert.Equal(t, "image/png", out.ContentType)
	assert.Equal(t, float64(512), gotBody["width"])
	assert.Equal(t, float64(768), gotBody["height"])
	_, hasSeed := gotBody["seed"]
	assert.False(t, hasSeed, "unset seed must be omitted")
}

func TestWorkersAI_Run_ImageSeed(t *testing.T) {
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.Header().Set("Content-Type", "image/png")
		w.Write(pngMagic)
	}))
	defer server.Close()

	w := NewWorkersAI("acc", "tok", WithBaseURL(server.URL), WithHTTPClient(server.Client()))

	seed := int64(42)
	_, err := w.Run(context.Background(), "@cf/sdxl", ImageInput{Prompt: "a cat", Width: 1024, Height: 1024, Seed: &seed})
	require.NoError(t, err)
	assert.Equal(t, float64(42), gotBody["seed"])
}

func TestWorkersAI_Run_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"result":null,"success":false,"errors":[{"code":5006,"message":"Error: required properties at '/' are 'prompt'"}],"messages":[]}`))
	}))
	defer server.Close()

	w := NewWorkersAI("acc", "tok", WithBaseURL(server.URL), WithHTTPClient(server.Client()))

	_, err := w.Run(context.Background(), "@cf/sdxl", ImageInput{})
	require.Error(t, err)

	var rie *RemoteInvocationError
	require.True(t, errors.As(err, &rie))
	assert.Equal(t, http.StatusBadRequest, rie.StatusCode)
	assert.Equal(t, "@cf/sdxl", rie.Model)
	assert.Contains(t, err.Error(), "required properties")
}

func TestWorkersAI_Run_NonJSONError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("bad gateway"))
	}))
	defer server.Close()

	w := NewWorkersAI("acc", "tok", WithBaseURL(server.URL), WithHTTPClient(server.Client()))

	_, err := w.Run(context.Background(), "@cf/sdxl", ImageInput{Prompt: "x", Width: 1, Height: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestWorkersAI_Run_MissingCredentials(t *testing.T) {
	w := NewWorkersAI("", "")

	_, err := w.Run(context.Background(), "@cf/sdxl", ImageInput{Prompt: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api token")
}

func TestWorkersAI_Run_UnsupportedInput(t *testing.T) {
	w := NewWorkersAI("acc", "tok")

	_, err := w.Run(context.Background(), "@cf/sdxl", 42)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedInput)
}
