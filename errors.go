package pd0

import (
	"errors"
	"fmt"
)

var ErrInvalidHeader = errors.New("Error Invalid PD0 Header")
var ErrChecksum = errors.New("Error PD0 Checksum Mismatch")
var ErrTruncated = errors.New("Error Truncated PD0 Ensemble")
var ErrMissingDependency = errors.New("Error Fixed Leader Required But Not Present")
var ErrMalformedTimestamp = errors.New("Error Malformed RTC Timestamp")
var ErrUnknownBathy = errors.New("Error Unknown Bathymetry Registry Entry")

// InvalidHeaderError reports the two id bytes that failed the magic
// byte validation. Callers resyncing a stream can continue searching
// for the next 0x7F 0x7F pair.
type InvalidHeaderError struct {
	Id          uint8
	Data_source uint8
}

func (e *InvalidHeaderError) Error() string {
	return fmt.Sprintf(
		"Incorrect Header ID; received: %#02x %#02x expected: %#02x %#02x",
		e.Id, e.Data_source, HEADER_ID, HEADER_ID,
	)
}

func (e *InvalidHeaderError) Unwrap() error { return ErrInvalidHeader }

// ChecksumError reports the checksum computed over the ensemble prefix
// alongside the expected value read from the trailer.
type ChecksumError struct {
	Computed uint16
	Expected uint16
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf(
		"Invalid checksum; computed: %#04x expected: %#04x",
		e.Computed, e.Expected,
	)
}

func (e *ChecksumError) Unwrap() error { return ErrChecksum }

// TruncatedError reports a scalar read that would extend past the end
// of the ensemble buffer.
type TruncatedError struct {
	Offset int
	Width  int
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf(
		"Read of %d bytes at offset %d extends past the buffer",
		e.Width, e.Offset,
	)
}

func (e *TruncatedError) Unwrap() error { return ErrTruncated }

// MissingDependencyError is raised when a velocity, correlation, echo
// intensity or percent good record is reached but no fixed leader exists
// within the ensemble to provide the cell and beam counts. The bottom
// track record has a fixed layout and never raises it.
type MissingDependencyError struct {
	Id     TypeID
	Offset uint16
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf(
		"Data type %#04x at offset %d requires the fixed leader which is not present",
		uint16(e.Id), e.Offset,
	)
}

func (e *MissingDependencyError) Unwrap() error { return ErrMissingDependency }

// MalformedTimestampError reports RTC components that do not compose
// into a well formed calendar time.
type MalformedTimestampError struct {
	Year       int
	Month      uint8
	Day        uint8
	Hour       uint8
	Minute     uint8
	Second     uint8
	Hundredths uint8
}

func (e *MalformedTimestampError) Error() string {
	return fmt.Sprintf(
		"RTC composition %04d-%02d-%02d %02d:%02d:%02d.%02d is not a valid calendar time",
		e.Year, e.Month, e.Day, e.Hour, e.Minute, e.Second, e.Hundredths,
	)
}

func (e *MalformedTimestampError) Unwrap() error { return ErrMalformedTimestamp }
