// Package postprocess strips LLM chatter from a translated image prompt so
// that only the prompt itself reaches the image model.
package postprocess

import (
	"regexp"
	"strings"
)

// Clean runs every phase in order and returns a single-line prompt.
func Clean(text string) string {
	for _, phase := range phases {
		text = phase(text)
	}
	return text
}

var phases = []func(string) string{
	stripReasoning,
	stripPreamble,
	unquote,
	flatten,
}

// reasoningRe matches closed reasoning blocks. RE2 has no backreferences, so
// each tag pair is spelled out.
var reasoningRe = regexp.MustCompile(
	`(?is)<think>.*?</think>|<thinking>.*?</thinking>|<reasoning>.*?</reasoning>`,
)

// openReasoningRe matches a reasoning block the model never closed.
var openReasoningRe = regexp.MustCompile(`(?is)(?:<think>|<thinking>|<reasoning>).*$`)

func stripReasoning(text string) string {
	text = reasoningRe.ReplaceAllString(text, "")
	text = openReasoningRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// preambleRe matches lead-ins such as "Sure, here is the translation:" or
// "Prompt:". A trailing colon is required.
var preambleRe = regexp.MustCompile(
	`(?i)^(?:(?:sure|certainly|of course)[,.!]?\s*)?(?:here(?:'s| is)\s+)?(?:the\s+)?(?:english\s+|translated\s+)?(?:translation|prompt|image description|text)\s*:`,
)

func stripPreamble(text string) string {
	if loc := preambleRe.FindStringIndex(text); loc != nil {
		text = text[loc[1]:]
	}
	return strings.TrimSpace(text)
}

var quotePairs = [][2]rune{
	{'"', '"'},
	{'\'', '\''},
	{'«', '»'},
	{'“', '”'},
	{'‘', '’'},
}

// unquote removes one pair of quotes wrapping the whole text.
func unquote(text string) string {
	runes := []rune(text)
	if len(runes) < 2 {
		return text
	}
	first, last := runes[0], runes[len(runes)-1]
	for _, p := range quotePairs {
		if first == p[0] && last == p[1] {
			return strings.TrimSpace(string(runes[1 : len(runes)-1]))
		}
	}
	return text
}

// flatten joins lines and collapses runs of whitespace.
func flatten(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
