// Package timespec matches instants against time window specs such as
// "Mon-Fri 07:30-20:30 Europe/Berlin" or
// "2019-12-30T22:00:00+00:00-2020-01-02T07:00:00+00:00".
// Several windows can be joined with commas; "always", "never" and the
// internal "forced" are also accepted.
package timespec

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	// zone names come from annotations and must resolve in minimal images
	_ "time/tzdata"
)

const (
	specAlways = "always"
	specNever  = "never"
	specForced = "forced"

	minutesPerHour = 60
	maxHour        = 24
)

var (
	recurringPattern = regexp.MustCompile(
		`^([a-zA-Z]{3})-([a-zA-Z]{3}) (\d\d):(\d\d)-(\d\d):(\d\d) ([a-zA-Z0-9/_+\-]+)$`,
	)
	absolutePattern = regexp.MustCompile(
		`^(\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:Z|[+-]\d{2}:\d{2}))-(\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:Z|[+-]\d{2}:\d{2}))$`,
	)
)

// weekdays are indexed Monday first.
var weekdays = []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

type window interface {
	contains(now time.Time) bool
}

type constWindow bool

func (w constWindow) contains(time.Time) bool {
	return bool(w)
}

type recurringWindow struct {
	dayFrom  int
	dayTo    int
	startMin int
	endMin   int
	loc      *time.Location
}

func (w recurringWindow) contains(now time.Time) bool {
	local := now.In(w.loc)
	day := mondayIndex(local.Weekday())

	if day < w.dayFrom || day > w.dayTo {
		return false
	}

	minutes := local.Hour()*minutesPerHour + local.Minute()

	return minutes >= w.startMin && minutes < w.endMin
}

type absoluteWindow struct {
	from time.Time
	to   time.Time
}

func (w absoluteWindow) contains(now time.Time) bool {
	return !now.Before(w.from) && !now.After(w.to)
}

// Matcher evaluates time specs. Compiled specs and loaded timezones are cached.
type Matcher struct {
	mu        sync.Mutex
	compiled  map[string][]window
	locations map[string]*time.Location
}

// New creates a new matcher.
func New() *Matcher {
	return &Matcher{
		compiled:  make(map[string][]window),
		locations: make(map[string]*time.Location),
	}
}

// Matches reports whether now falls inside any window of spec.
func (m *Matcher) Matches(now time.Time, spec string) (bool, error) {
	windows, err := m.compile(spec)
	if err != nil {
		return false, err
	}

	for _, w := range windows {
		if w.contains(now) {
			return true, nil
		}
	}

	return false, nil
}

// Validate returns an error when spec cannot be parsed.
func (m *Matcher) Validate(spec string) error {
	_, err := m.compile(spec)

	return err
}

func (m *Matcher) compile(spec string) ([]window, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if windows, ok := m.compiled[spec]; ok {
		return windows, nil
	}

	parts := strings.Split(spec, ",")
	windows := make([]window, 0, len(parts))

	for _, part := range parts {
		w, err := m.parseWindow(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}

		windows = append(windows, w)
	}

	m.compiled[spec] = windows

	return windows, nil
}

func (m *Matcher) parseWindow(part string) (window, error) {
	switch strings.ToLower(part) {
	case specAlways, specForced:
		return constWindow(true), nil
	case specNever:
		return constWindow(false), nil
	}

	if match := recurringPattern.FindStringSubmatch(part); match != nil {
		return m.parseRecurring(part, match)
	}

	if match := absolutePattern.FindStringSubmatch(part); match != nil {
		return parseAbsolute(part, match)
	}

	return nil, fmt.Errorf(
		"%w: %q does not match <WEEKDAY>-<WEEKDAY> <HH>:<MM>-<HH>:<MM> <TZ> or <TIME_FROM>-<TIME_TO>",
		ErrInvalidSpec,
		part,
	)
}

func (m *Matcher) parseRecurring(part string, match []string) (window, error) {
	dayFrom, err := weekdayIndex(match[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidSpec, part, err)
	}

	dayTo, err := weekdayIndex(match[2])
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidSpec, part, err)
	}

	startMin, err := clockMinutes(match[3], match[4])
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidSpec, part, err)
	}

	endMin, err := clockMinutes(match[5], match[6])
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidSpec, part, err)
	}

	loc, err := m.location(match[7])
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidSpec, part, err)
	}

	return recurringWindow{
		dayFrom:  dayFrom,
		dayTo:    dayTo,
		startMin: startMin,
		endMin:   endMin,
		loc:      loc,
	}, nil
}

func parseAbsolute(part string, match []string) (window, error) {
	from, err := time.Parse(time.RFC3339, match[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidSpec, part, err)
	}

	to, err := time.Parse(time.RFC3339, match[2])
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidSpec, part, err)
	}

	return absoluteWindow{from: from, to: to}, nil
}

// location must be called with m.mu held.
func (m *Matcher) location(name string) (*time.Location, error) {
	if loc, ok := m.locations[name]; ok {
		return loc, nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrUnknownTimezone, name, err)
	}

	m.locations[name] = loc

	return loc, nil
}

func weekdayIndex(name string) (int, error) {
	lower := strings.ToLower(name)
	for i, day := range weekdays {
		if day == lower {
			return i, nil
		}
	}

	return 0, fmt.Errorf("%w %q", ErrUnknownWeekday, name)
}

func clockMinutes(hh, mm string) (int, error) {
	hour, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("parse hour: %w", err)
	}

	minute, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("parse minute: %w", err)
	}

	if hour > maxHour || minute >= minutesPerHour || (hour == maxHour && minute != 0) {
		return 0, fmt.Errorf("%w %s:%s", ErrInvalidClock, hh, mm)
	}

	return hour*minutesPerHour + minute, nil
}

// mondayIndex converts time.Weekday (Sunday first) to a Monday-first index.
func mondayIndex(day time.Weekday) int {
	return (int(day) + 6) % 7
}
