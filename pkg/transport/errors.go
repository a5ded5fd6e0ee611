package transport

import (
	"errors"
	"fmt"

	"gitwire/pkg/pktline"
	"gitwire/pkg/sideband"
)

// Error is a packet line or side-band decoding failure met by a transport
// operation. Failures of the byte source are returned as they are.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("transport: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// wrapDecodeError wraps framing and band errors in *Error and leaves every
// other error alone.
func wrapDecodeError(op string, err error) error {
	var decodeErr *pktline.DecodeError
	var tagErr *sideband.TagError
	if errors.As(err, &decodeErr) || errors.As(err, &tagErr) {
		return &Error{Op: op, Err: err}
	}
	return err
}
