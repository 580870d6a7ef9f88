package models

import "fmt"

// DateTimeFormatError reports a datetime string that does not match the
// expected '1401/01/23 12:00:00' layout or names an impossible local date.
type DateTimeFormatError struct {
	Value string
}

func (e *DateTimeFormatError) Error() string {
	return fmt.Sprintf("invalid datetime %q: expected format '1401/01/23 12:00:00'", e.Value)
}

func (e *DateTimeFormatError) IsTransient() bool {
	return false
}

// ImplausibleDateError reports a datetime that parses but lands outside the
// plausible range, usually a Gregorian date fed where a local one belongs.
type ImplausibleDateError struct {
	Value string
	Year  int
}

func (e *ImplausibleDateError) Error() string {
	return fmt.Sprintf("implausible datetime %q: resolves to year %d", e.Value, e.Year)
}

func (e *ImplausibleDateError) IsTransient() bool {
	return false
}

// LoadValueError reports a load cell that is not a non-negative number.
type LoadValueError struct {
	Value string
}

func (e *LoadValueError) Error() string {
	return fmt.Sprintf("invalid load value %q: expected a non-negative number", e.Value)
}

func (e *LoadValueError) IsTransient() bool {
	return false
}

// RecordError reports an invalid record outside the datetime and load fields.
type RecordError struct {
	Message string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("invalid record: %s", e.Message)
}

func (e *RecordError) IsTransient() bool {
	return false
}

// BatchError pins a validation failure to the cell that caused it.
type BatchError struct {
	Row  int
	Hour int
	Date string
	Err  error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("row %d (date %q) hour %d: %v", e.Row, e.Date, e.Hour, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

func (e *BatchError) IsTransient() bool {
	return false
}

// WindowError reports a date window whose bounds are inconsistent.
type WindowError struct {
	Message string
}

func (e *WindowError) Error() string {
	return fmt.Sprintf("invalid date window: %s", e.Message)
}

func (e *WindowError) IsTransient() bool {
	return false
}
