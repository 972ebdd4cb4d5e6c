package pipeline

import (
	"errors"
	"fmt"
)

type Stage string

const (
	StageTranslate Stage = "translate"
	StageGenerate  Stage = "generate"
)

// ErrMalformedOutput marks a model reply that does not have the expected shape.
var ErrMalformedOutput = errors.New("malformed output")

// PipelineError reports the stage that ended a run and why.
type PipelineError struct {
	Stage Stage
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}
