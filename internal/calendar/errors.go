package calendar

import "errors"

// Every failure in this package is a validation failure: the inputs are
// outside what the astronomical model supports, or describe a date that
// does not exist. None of them are transient.
var (
	// ErrOutOfRange is returned when a year, month, day or time-of-day is
	// outside its supported bounds, or falls inside the October 1582 gap.
	ErrOutOfRange = errors.New("date out of range")

	// ErrAstronomicalDomain is returned when the vernal equinox series is
	// asked for a year outside [-8000, 8001].
	ErrAstronomicalDomain = errors.New("year outside astronomical model")

	// ErrLeapMonthMismatch is returned when a lunar date claims to be in a
	// leap month that the resolved lunar year does not have.
	ErrLeapMonthMismatch = errors.New("no such leap month")

	// ErrMonthLength is returned when a lunar day exceeds the actual length
	// of its month (29 or 30 days).
	ErrMonthLength = errors.New("day exceeds lunar month length")
)

// IsValidation reports whether err is one of the calendar validation errors.
func IsValidation(err error) bool {
	return errors.Is(err, ErrOutOfRange) ||
		errors.Is(err, ErrAstronomicalDomain) ||
		errors.Is(err, ErrLeapMonthMismatch) ||
		errors.Is(err, ErrMonthLength)
}
