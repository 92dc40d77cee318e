package model

import (
	"errors"
	"fmt"
)

// Stage names identify the pipeline step a recoverable failure belongs to.
// They double as the error kind surfaced on TurnResponse.Error.
const (
	StageContextResolve   = "context_resolution_failed"
	StageClassify         = "intent_classification_failed"
	StageEntityExtraction = "entity_extraction_failed"
	StageFollowUp         = "follow_up_failed"
	StageWebSearch        = "web_search_failed"
	StageNoMatchingIntent = "no_matching_intent"
)

var (
	// ErrModelUnavailable marks a failed call to the external model service.
	// Retry policy belongs to the transport, not this module.
	ErrModelUnavailable = errors.New("model service unavailable")

	// ErrNoMatchingIntent marks a classifier category outside the closed set.
	ErrNoMatchingIntent = errors.New("no matching intent category")
)

// MalformedResponseError is raised when model output is not valid JSON after
// brace extraction, or is missing an expected key. Fatal to the current turn,
// never to the process.
type MalformedResponseError struct {
	Stage string
	Raw   string
	Err   error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed model response at %s: %v", e.Stage, e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}
