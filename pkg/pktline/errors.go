package pktline

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidHex    = errors.New("invalid hex digit in line length")
	ErrInvalidLength = errors.New("invalid line length")
	ErrDataIsEmpty   = errors.New("empty data line")
	ErrDataTooLong   = errors.New("data line exceeds maximum length")
)

// DecodeError is a framing error: the bytes on the wire do not form a valid
// packet line.
type DecodeError struct {
	Prefix []byte
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("pktline: %v (prefix %q)", e.Err, e.Prefix)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// RemoteError carries the message of an "ERR " line sent by the remote.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return "remote error: " + e.Message
}
