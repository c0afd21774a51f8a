package app

import (
	"context"

	"github.com/skillcoder/downscaler-controller/internal/infra/shutdown"
)

// component is a long running part of the application with a lifecycle.
type component interface {
	shutdown.Shutdowner
	Start(ctx context.Context) error
	Ready() <-chan struct{}
}
