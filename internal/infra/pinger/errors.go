package pinger

import "errors"

var (
	// ErrNilPinger is returned when registering a nil pinger
	ErrNilPinger = errors.New("pinger cannot be nil")

	// ErrPingerAlreadyRegistered is returned when attempting to register a pinger that already exists
	ErrPingerAlreadyRegistered = errors.New("pinger already registered")
)
