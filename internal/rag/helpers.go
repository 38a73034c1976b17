package rag

import (
	"context"
	"errors"

	"github.com/akolanti/ChatPDF/pkg/logger_i"
)

type Step string

const (
	StepIngest         Step = "INGESTION_FAILURE"
	StepIndexBuild     Step = "INDEX_BUILD_FAILURE"
	StepQueryTransform Step = "QUERY_TRANSFORM_FAILURE"
	StepRetrieval      Step = "VECTOR_DB_FAILURE"
	StepGeneration     Step = "LLM_GENERATION_FAILURE"
)

// StepError tags a failure with the pipeline stage it came from.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return string(e.Step) + ": " + e.Err.Error()
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// FailedStep reports the stage of a pipeline error, or "" when err did not
// come from the pipeline.
func FailedStep(err error) Step {
	var se *StepError
	if errors.As(err, &se) {
		return se.Step
	}
	return ""
}

func stepError(ctx context.Context, log *logger_i.Logger, step Step, err error) error {
	log.FromContext(ctx).Error(string(step), "error", err)
	return &StepError{Step: step, Err: err}
}
