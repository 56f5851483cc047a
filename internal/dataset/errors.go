package dataset

import "errors"

var (
	// ErrNoSnapshot is returned by queries before the first successful
	// reload has published a snapshot.
	ErrNoSnapshot = errors.New("no dataset snapshot published yet")

	// ErrReloadInProgress is returned when a reload is requested while
	// another one is still running. Reloads are single-flight.
	ErrReloadInProgress = errors.New("reload already in progress")

	// ErrNotFound is returned for lookups of absent ids.
	ErrNotFound = errors.New("not found")

	// ErrInvalidParameter is returned for out-of-range pagination or
	// malformed filter input.
	ErrInvalidParameter = errors.New("invalid parameter")
)
