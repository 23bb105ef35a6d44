package roboclaw

import (
	"errors"
	"fmt"
)

var (
	// ErrShortRead indicates fewer bytes than the reply shape demands
	// arrived before the read timeout.
	ErrShortRead = errors.New("short read")
	// ErrChecksumMismatch indicates the reply trailer doesn't match the
	// checksum computed locally.
	ErrChecksumMismatch = errors.New("checksum mismatch")
	// ErrTransportUnavailable indicates the transport is missing, closed or
	// failed at the byte level.
	ErrTransportUnavailable = errors.New("transport unavailable")
	// ErrInvalidArgument indicates an argument can't be represented on the
	// wire. Nothing is sent.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidAddress indicates an address outside 0x80..0x87.
	ErrInvalidAddress = errors.New("invalid address")
)

func unavailable(err error) error {
	return fmt.Errorf("%w: %w", ErrTransportUnavailable, err)
}

// RetriesExhaustedError is the terminal failure of a transaction. Err is the
// failure of the last attempt.
type RetriesExhaustedError struct {
	Command  string
	Attempts int
	Err      error
}

// Error implements error.
func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("%s: failed after %d attempts: %v", e.Command, e.Attempts, e.Err)
}

// Unwrap returns the last underlying failure.
func (e *RetriesExhaustedError) Unwrap() error {
	return e.Err
}
