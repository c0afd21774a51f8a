package k8s

import "errors"

// NotFoundError represents a "not found" case that is not an error.
type NotFoundError struct{}

func (e *NotFoundError) Error() string {
	return "not found"
}

func (e *NotFoundError) IsNotFound() {}

var errNotFound = &NotFoundError{}

// ConflictError represents a resource that changed since it was read.
type ConflictError struct{}

func (e *ConflictError) Error() string {
	return "conflict"
}

func (e *ConflictError) IsConflict() {}

var errConflict = &ConflictError{}

var (
	ErrUnsupportedKind    = errors.New("unsupported kind")
	ErrReplicasOutOfRange = errors.New("replicas out of range")
)
