package timespec

import "errors"

var (
	ErrInvalidSpec     = errors.New("invalid time spec")
	ErrUnknownWeekday  = errors.New("unknown weekday")
	ErrUnknownTimezone = errors.New("unknown timezone")
	ErrInvalidClock    = errors.New("invalid clock time")
)
