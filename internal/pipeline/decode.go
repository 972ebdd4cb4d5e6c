package pipeline

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/valpere/malyar/internal/capability"
)

// decodeTranslation extracts the first candidate from a translation reply.
// Both the candidate list shape and the single "translated_text" shape used
// by m2m100 on Workers AI are accepted.
func decodeTranslation(out *capability.Output) (string, error) {
	if out == nil || len(out.Body) == 0 {
		return "", fmt.Errorf("%w: empty translation reply", ErrMalformedOutput)
	}

	var payload struct {
		capability.TranslationOutput
		TranslatedText *string `json:"translated_text"`
	}
	if err := json.Unmarshal(out.Body, &payload); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	var text string
	switch {
	case len(payload.Translations) > 0:
		text = payload.Translations[0].TranslationText
	case payload.TranslatedText != nil:
		text = *payload.TranslatedText
	default:
		return "", fmt.Errorf("%w: no translation in reply", ErrMalformedOutput)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: translation is empty", ErrMalformedOutput)
	}
	return text, nil
}

// decodeImage returns the image bytes and their sniffed content type. Raw
// image bodies are used as is; a JSON body must carry a base64 "image" field.
func decodeImage(out *capability.Output) ([]byte, string, error) {
	if out == nil || len(out.Body) == 0 {
		return nil, "", fmt.Errorf("%w: empty image reply", ErrMalformedOutput)
	}

	data := out.Body
	if looksLikeJSON(out) {
		var payload struct {
			Image string `json:"image"`
		}
		if err := json.Unmarshal(out.Body, &payload); err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrMalformedOutput, err)
		}
		if payload.Image == "" {
			return nil, "", fmt.Errorf("%w: no image in reply", ErrMalformedOutput)
		}
		decoded, err := base64.StdEncoding.DecodeString(payload.Image)
		if err != nil {
			return nil, "", fmt.Errorf("%w: invalid base64 image: %v", ErrMalformedOutput, err)
		}
		data = decoded
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, "", fmt.Errorf("%w: reply is %s, not an image", ErrMalformedOutput, contentType)
	}
	return data, contentType, nil
}

func looksLikeJSON(out *capability.Output) bool {
	if strings.HasPrefix(out.ContentType, "application/json") {
		return true
	}
	return bytes.HasPrefix(bytes.TrimSpace(out.Body), []byte("{"))
}
