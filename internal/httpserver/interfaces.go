package httpserver

import (
	"time"

	"github.com/skillcoder/downscaler-controller/internal/infra/appstate"
	"github.com/skillcoder/downscaler-controller/internal/infra/pinger"
	"github.com/skillcoder/downscaler-controller/internal/logic/downscaler"
)

type appStater interface {
	State() appstate.State
	StartedAt() time.Time
	Uptime() time.Duration
}

type componentChecker interface {
	Healthy() bool
	Results() map[string]pinger.Result
}

type passReporter interface {
	LastPass() *downscaler.PassSummary
}
