// Package params turns raw query strings into a fully resolved generation
// request. Malformed size or seed values never fail a request: they fall
// back to the defaults.
package params

import (
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	DefaultWidth  = 1024
	DefaultHeight = 1024

	// DefaultSize is DefaultWidth x DefaultHeight in query form.
	DefaultSize = "1024x1024"

	sizeDelimiter = "x"
)

// Query parameter names.
const (
	KeyPrompt = "prompt"
	KeySize   = "size"
	KeySeed   = "seed"
)

type Size struct {
	Width  int
	Height int
}

func (s Size) String() string {
	return strconv.Itoa(s.Width) + sizeDelimiter + strconv.Itoa(s.Height)
}

// GenerationRequest is the resolved input of one pipeline run. A nil Seed
// means the image model chooses its own.
type GenerationRequest struct {
	Prompt string
	Size   Size
	Seed   *int64
}

// HasSeed reports whether a seed was resolved.
func (r GenerationRequest) HasSeed() bool {
	return r.Seed != nil
}

// ParseSize parses "<width>x<height>" with both sides positive integers.
// Anything else yields the default size.
func ParseSize(raw string) Size {
	def := Size{Width: DefaultWidth, Height: DefaultHeight}

	parts := strings.Split(raw, sizeDelimiter)
	if len(parts) != 2 {
		return def
	}

	w, err := strconv.Atoi(parts[0])
	if err != nil || w <= 0 {
		return def
	}
	h, err := strconv.Atoi(parts[1])
	if err != nil || h <= 0 {
		return def
	}

	return Size{Width: w, Height: h}
}

// ParseSeed returns nil for an empty or non-integer seed.
func ParseSeed(raw string) *int64 {
	if raw == "" {
		return nil
	}
	seed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &seed
}

// Resolve builds a GenerationRequest from raw values. The prompt is NFC
// normalised; callers decide beforehand whether it is present.
func Resolve(prompt, size, seed string) GenerationRequest {
	return GenerationRequest{
		Prompt: norm.NFC.String(prompt),
		Size:   ParseSize(size),
		Seed:   ParseSeed(seed),
	}
}

// FromQuery resolves the request carried by q. ok is false when the prompt
// is absent or empty.
func FromQuery(q url.Values) (req GenerationRequest, ok bool) {
	prompt := q.Get(KeyPrompt)
	if prompt == "" {
		return GenerationRequest{}, false
	}
	return Resolve(prompt, q.Get(KeySize), q.Get(KeySeed)), true
}
