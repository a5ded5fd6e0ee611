// Package transport exposes packet-line readers to negotiation code through
// a protocol-version-aware contract, independent of the decoding strategy.
package transport

import (
	"fmt"
	"io"

	"gitwire/pkg/pktline"
	"gitwire/pkg/sideband"
)

// ProgressHandler receives progress (isError false) or error text from the
// remote. It runs inside the read path and must not block; hand blocking
// work to a goroutine.
type ProgressHandler = sideband.HandleProgress

// ReadlineReader reads packet lines directly while still being usable as an
// io.Reader over payload, e.g. for pack data.
type ReadlineReader interface {
	io.Reader

	// ReadLine returns the next line without band decoding. It returns io.EOF
	// after a natural end of stream, a stop marker or an error.
	ReadLine() (pktline.Line, error)
}

// ExtendedReader gives negotiation code control over progress delivery,
// look-ahead and segment boundaries.
type ExtendedReader interface {
	ReadlineReader

	// SetProgressHandler installs h, or removes the handler when h is nil.
	// Only effective in side-band mode.
	SetProgressHandler(h ProgressHandler)

	// PeekDataLine returns the next payload line without consuming it. It
	// returns io.EOF when the reader stopped at a marker, see StoppedAt.
	// Decoding failures are returned as *Error.
	PeekDataLine() ([]byte, error)

	// Reset allows reading past a previous stop and sets the markers ending
	// the next segment according to version.
	Reset(version Protocol)

	// StoppedAt returns the marker the reader stopped at.
	StoppedAt() (MessageKind, bool)
}

// sidebandReader implements ExtendedReader on top of a *sideband.Reader.
type sidebandReader struct {
	*sideband.Reader
}

var _ ExtendedReader = sidebandReader{}

// NewReader returns r as an ExtendedReader.
func NewReader(r *sideband.Reader) ExtendedReader {
	return sidebandReader{Reader: r}
}

func (r sidebandReader) SetProgressHandler(h ProgressHandler) {
	r.Reader.SetProgressHandler(h)
}

func (r sidebandReader) PeekDataLine() ([]byte, error) {
	data, err := r.Reader.PeekDataLine()
	if err != nil {
		return nil, wrapDecodeError("peek data line", err)
	}
	return data, nil
}

func (r sidebandReader) Reset(version Protocol) {
	r.ResetWith(StopMarkers(version)...)
}

func (r sidebandReader) StoppedAt() (MessageKind, bool) {
	kind, ok := r.Reader.StoppedAt()
	if !ok {
		return 0, false
	}
	return messageKind(kind), true
}

// StopMarkers returns the markers that end a segment under version: flush
// for V1, delimiter and flush for V2.
func StopMarkers(version Protocol) []pktline.Kind {
	switch version {
	case V1:
		return []pktline.Kind{pktline.KindFlush}
	case V2:
		return []pktline.Kind{pktline.KindDelimiter, pktline.KindFlush}
	default:
		panic(fmt.Sprintf("transport: unsupported protocol %v", version))
	}
}

func messageKind(kind pktline.Kind) MessageKind {
	switch kind {
	case pktline.KindFlush:
		return Flush
	case pktline.KindDelimiter:
		return Delimiter
	case pktline.KindResponseEnd:
		return ResponseEnd
	default:
		panic(fmt.Sprintf("transport: %v cannot be a stop marker", kind))
	}
}
