package cronparser

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	cron "github.com/netresearch/go-cron"
)

// ErrNoActivation is returned for expressions that never fire, like "0 0 30 2 *".
var ErrNoActivation = errors.New("cron spec has no future activation")

var _parser = cron.MustNewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow,
)

// Schedule computes reconciliation pass start times from a cron expression.
type Schedule struct {
	spec     string
	schedule cron.Schedule
}

// New parses spec. If tz is non-empty and the spec has no CRON_TZ=/TZ= prefix,
// CRON_TZ=<tz> is prepended; otherwise UTC is used.
func New(spec, tz string) (*Schedule, error) {
	schedule, err := _parser.Parse(buildSpec(spec, tz))
	if err != nil {
		return nil, fmt.Errorf("parse cron spec %q: %w", spec, err)
	}

	if schedule.Next(time.Now()).IsZero() {
		return nil, fmt.Errorf("%w: %q", ErrNoActivation, spec)
	}

	return &Schedule{
		spec:     spec,
		schedule: schedule,
	}, nil
}

// Next returns the next occurrence strictly after `after`, or the zero time
// when there is none.
func (s *Schedule) Next(after time.Time) time.Time {
	return s.schedule.Next(after)
}

func (s *Schedule) String() string {
	return s.spec
}

func buildSpec(spec, tz string) string {
	hasTZPrefix := strings.HasPrefix(spec, "CRON_TZ=") ||
		strings.HasPrefix(spec, "TZ=")

	if hasTZPrefix {
		return spec
	}

	if tz == "" {
		tz = "UTC"
	}

	return "CRON_TZ=" + tz + " " + spec
}
