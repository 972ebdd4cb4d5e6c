package params

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSize_Valid(t *testing.T) {
	tests := []struct {
		raw  string
		want Size
	}{
		{"1024x1024", Size{1024, 1024}},
		{"512x768", Size{512, 768}},
		{"1x1", Size{1, 1}},
		{"2048x256", Size{2048, 256}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSize(tt.raw))
		})
	}
}

func TestParseSize_MalformedFallsBack(t *testing.T) {
	def := Size{DefaultWidth, DefaultHeight}

	for _, raw := range []string{
		"",
		"abc",
		"1024",
		"0x0",
		"0x512",
		"512x0",
		"-5x100",
		"100x-5",
		"512x512x512",
		"512X512",
		"512 x 512",
		"x512",
		"512x",
		"1.5x2",
		"99999999999999999999x10",
	} {
		t.Run(raw, func(t *testing.T) {
			assert.Equal(t, def, ParseSize(raw))
		})
	}
}

func TestSize_String(t *testing.T) {
	assert.Equal(t, DefaultSize, Size{DefaultWidth, DefaultHeight}.String())
	assert.Equal(t, "512x768", Size{512, 768}.String())
}

func TestParseSeed(t *testing.T) {
	seed := ParseSeed("42")
	require.NotNil(t, seed)
	assert.Equal(t, int64(42), *seed)

	neg := ParseSeed("-7")
	require.NotNil(t, neg)
	assert.Equal(t, int64(-7), *neg)

	for _, raw := range []string{"", "abc", "4.2", " 42", "42abc", "99999999999999999999"} {
		assert.Nil(t, ParseSeed(raw), "seed %q", raw)
	}
}

func TestResolve(t *testing.T) {
	req := Resolve("一只猫", "512x768", "42")

	assert.Equal(t, "一只猫", req.Prompt)
	assert.Equal(t, Size{512, 768}, req.Size)
	require.True(t, req.HasSeed())
	assert.Equal(t, int64(42), *req.Seed)
}

func TestResolve_NormalisesPrompt(t *testing.T) {
	// "e" followed by a combining acute accent.
	req := Resolve("cafe\u0301", "", "")

	assert.Equal(t, "caf\u00e9", req.Prompt)
	assert.Equal(t, Size{DefaultWidth, DefaultHeight}, req.Size)
	assert.False(t, req.HasSeed())
}

func TestResolve_Idempotent(t *testing.T) {
	a := Resolve("a cat", "640x480", "7")
	b := Resolve("a cat", "640x480", "7")

	assert.Equal(t, a, b)
}

func TestFromQuery(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		wantOK bool
		want   GenerationRequest
	}{
		{name: "no prompt", query: "size=512x512&seed=1", wantOK: false},
		{name: "empty prompt", query: "prompt=&size=512x512", wantOK: false},
		{
			name:   "defaults",
			query:  "prompt=a+cat",
			wantOK: true,
			want:   GenerationRequest{Prompt: "a cat", Size: Size{1024, 1024}},
		},
		{
			name:   "malformed seed is unset",
			query:  "prompt=a+cat&size=abc&seed=abc",
			wantOK: true,
			want:   GenerationRequest{Prompt: "a cat", Size: Size{1024, 1024}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			got, ok := FromQuery(q)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
