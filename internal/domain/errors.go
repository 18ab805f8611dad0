package domain

import "errors"

// Validation and session errors. All are rejected without side effects:
// the session state is left exactly as it was.
var (
	// ErrUnknownMood means the label is outside the mood vocabulary.
	ErrUnknownMood = errors.New("unknown mood label")

	// ErrInvalidPeriod means the stats window is not one of the offered periods.
	ErrInvalidPeriod = errors.New("invalid stats period")

	// ErrCheckInActive means a new check-in was requested while one is open.
	ErrCheckInActive = errors.New("a check-in is already in progress")

	// ErrNoActiveCheckIn means a note or skip arrived with no open session.
	ErrNoActiveCheckIn = errors.New("no check-in in progress")

	// ErrNoEntries means the user has no mood records yet.
	ErrNoEntries = errors.New("no mood entries recorded")
)
