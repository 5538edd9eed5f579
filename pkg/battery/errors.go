package battery

import "errors"

var (
	// ErrInvalidReading is returned when the level or scale is unavailable.
	ErrInvalidReading = errors.New("invalid battery reading")

	// ErrNoBattery is returned when the host has no battery at the given index.
	ErrNoBattery = errors.New("no battery found")
)
