package vitals

import "errors"

var (
	ErrEntryNotFound      = errors.New("vitals entry not found")
	ErrNoMeasurements     = errors.New("at least one measurement is required")
	ErrInvalidSugarType   = errors.New("invalid blood sugar measurement type")
	ErrNotesTooLong       = errors.New("notes cannot exceed 1000 characters")
	ErrInvalidDateRange = errors.New("start date must not be after end date")
)
