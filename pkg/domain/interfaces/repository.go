package interfaces

import "errors"

// ErrNotFound is returned (wrapped) by every repository implementation for missing records
var ErrNotFound = errors.New("not found")

// Repository defines the interface for data persistence
type Repository interface {
	Assessment() AssessmentRepository

	// Close releases backend resources
	Close() error
}
