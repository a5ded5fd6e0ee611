package pktline

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

var errPrefix = []byte("ERR ")

// Decoder reads packet lines from a byte stream and can hold one decoded line
// for look-ahead. It is not safe for concurrent use.
type Decoder struct {
	r              *bufio.Reader
	failOnErrLines bool

	peeked    Line
	hasPeeked bool
}

type Option func(*Decoder)

// WithFailOnErrLines makes the decoder return a *RemoteError instead of a data
// line when the payload starts with "ERR ".
func WithFailOnErrLines(fail bool) Option {
	return func(d *Decoder) {
		d.failOnErrLines = fail
	}
}

// NewDecoder creates a Decoder reading from r.
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReaderSize(r, MaxLineLen)
	}
	d := &Decoder{r: br}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ReadLine returns the next line, consuming it. It returns io.EOF when the
// stream ends cleanly between two lines.
func (d *Decoder) ReadLine() (Line, error) {
	if d.hasPeeked {
		line := d.peeked
		d.peeked, d.hasPeeked = Line{}, false
		return line, nil
	}
	return d.decode()
}

// PeekLine returns the next line without consuming it. Calling it again before
// ReadLine yields the same line. Errors are not held back.
func (d *Decoder) PeekLine() (Line, error) {
	if d.hasPeeked {
		return d.peeked, nil
	}
	line, err := d.decode()
	if err != nil {
		return Line{}, err
	}
	d.peeked, d.hasPeeked = line, true
	return line, nil
}

func (d *Decoder) decode() (Line, error) {
	var prefix [PrefixLen]byte
	n, err := io.ReadFull(d.r, prefix[:])
	if err != nil {
		if n == 0 && errors.Is(err, io.EOF) {
			return Line{}, io.EOF
		}
		return Line{}, fmt.Errorf("reading line length: %w", err)
	}

	length, err := parseLength(prefix[:])
	if err != nil {
		return Line{}, err
	}

	switch length {
	case 0:
		return Flush, nil
	case 1:
		return Delimiter, nil
	case 2:
		return ResponseEnd, nil
	case PrefixLen:
		return Line{}, &DecodeError{Prefix: prefix[:], Err: ErrDataIsEmpty}
	}
	if length < PrefixLen {
		return Line{}, &DecodeError{Prefix: prefix[:], Err: ErrInvalidLength}
	}
	if length > MaxLineLen {
		return Line{}, &DecodeError{Prefix: prefix[:], Err: ErrDataTooLong}
	}

	data := make([]byte, length-PrefixLen)
	if _, err := io.ReadFull(d.r, data); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return Line{}, fmt.Errorf("reading %d bytes of line data: %w", len(data), err)
	}

	if d.failOnErrLines && bytes.HasPrefix(data, errPrefix) {
		msg := bytes.TrimRight(data[len(errPrefix):], "\n")
		return Line{}, &RemoteError{Message: string(msg)}
	}
	return Data(data), nil
}

func parseLength(prefix []byte) (int, error) {
	var n int
	for _, c := range prefix {
		var v byte
		switch {
		case c >= '0' && c <= '9':
			v = c - '0'
		case c >= 'a' && c <= 'f':
			v = c - 'a' + 10
		case c >= 'A' && c <= 'F':
			v = c - 'A' + 10
		default:
			return 0, &DecodeError{Prefix: append([]byte(nil), prefix...), Err: ErrInvalidHex}
		}
		n = n<<4 | int(v)
	}
	return n, nil
}
