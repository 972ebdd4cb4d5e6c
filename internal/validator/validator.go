// Package validator checks that a translated prompt is in the language the
// image model expects.
package validator

import (
	"errors"
	"fmt"
	"strings"
)

// minValidationLength is the rune count below which detection is too
// unreliable to judge; shorter texts pass.
const minValidationLength = 20

var ErrEmpty = errors.New("translation is empty")

// LanguageDetector is satisfied by *detector.Detector.
type LanguageDetector interface {
	DetectISO(text string) (string, bool)
}

type Validator struct {
	det LanguageDetector
}

func New(det LanguageDetector) *Validator {
	return &Validator{det: det}
}

// Check returns nil when text appears to be written in targetLang. Texts that
// are short or whose language cannot be determined pass.
func (v *Validator) Check(text, targetLang string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmpty
	}
	if targetLang == "" || len([]rune(text)) < minValidationLength {
		return nil
	}

	detected, ok := v.det.DetectISO(text)
	if !ok {
		return nil
	}
	if !strings.EqualFold(detected, targetLang) {
		return fmt.Errorf("expected %s but detected %s", targetLang, detected)
	}
	return nil
}
