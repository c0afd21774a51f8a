package downscaler

import (
	"context"
	"time"
)

// Repository is the port interface for K8s operations.
// Implementations are provided by adapters in the outbound layer.
type Repository interface {
	ListPodsQuery(
		ctx context.Context,
		namespace string,
	) ([]Pod, error)

	ListResourcesQuery(
		ctx context.Context,
		kind Kind,
		namespace string,
	) ([]Resource, error)

	GetNamespaceQuery(
		ctx context.Context,
		name string,
	) (*Namespace, error)

	PatchResourceCommand(
		ctx context.Context,
		resource Resource,
		mutation Mutation,
	) error
}

// TimeMatcher answers whether now falls inside a time window spec.
type TimeMatcher interface {
	Matches(now time.Time, spec string) (bool, error)
}

// Scheduler returns the start of the next pass after the given time.
type Scheduler interface {
	Next(after time.Time) time.Time
}

// notFound is a private interface for checking "not found" errors
// without importing the adapter package.
type notFound interface {
	IsNotFound()
}

// conflict is a private interface for checking optimistic concurrency conflicts
// without importing the adapter package.
type conflict interface {
	IsConflict()
}
