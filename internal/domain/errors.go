package domain

import "errors"

var (
	// ErrSemesterStartUnset is returned when a computation requires the semester
	// start date and the user has not configured one.
	ErrSemesterStartUnset = errors.New("semester start date is not configured")

	// ErrUserNotFound is returned when no configuration row exists for a chat.
	ErrUserNotFound = errors.New("user config not found")
)
