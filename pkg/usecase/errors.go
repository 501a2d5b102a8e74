package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Caller errors
	ErrAbstractRequired     = errors.New("abstract is required")
	ErrInvalidDissemination = errors.New("invalid dissemination")
	ErrInvalidAudience      = errors.New("invalid audience")
	ErrURLRequired          = errors.New("url is required")
	ErrFetchNotConfigured   = errors.New("paper fetching is not configured")
	ErrAssessmentIDRequired = errors.New("assessment id is required")

	// Not found errors
	ErrAssessmentNotFound = errors.New("assessment not found")
)

// Context keys for error values
const (
	AssessmentIDKey = "assessment_id"
)
