package config

import "errors"

var (
	ErrInvalidDuration = errors.New("invalid duration")
	ErrDurationTooLow  = errors.New("duration below minimum")
	ErrInvalidBool     = errors.New("invalid bool")
	ErrInvalidInt      = errors.New("invalid integer")
	ErrInvalidSpec     = errors.New("invalid time spec")
	ErrInvalidSchedule = errors.New("invalid schedule")
	ErrNoResources     = errors.New("no resources included")
)
