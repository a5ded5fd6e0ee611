// Package sideband demultiplexes payload from progress and error text carried
// in the same packet-line stream. See doc.go for docs.
package sideband

import (
	"io"
	"log/slog"
	"slices"

	"gitwire/pkg/pktline"
)

// HandleProgress receives side-band text. isError is true for the error band.
// It must not block.
type HandleProgress func(isError bool, text []byte)

// Reader reads one segment of packet lines at a time, routing side-band
// text to a HandleProgress and holding one payload line for look-ahead.
// A Reader is owned by a single goroutine.
type Reader struct {
	dec      *pktline.Decoder
	sideBand bool
	handler  HandleProgress
	stopAt   []pktline.Kind
	logger   *slog.Logger

	// stop state, cleared by ResetWith
	done    bool
	stopped pktline.Kind
	hasStop bool

	// payload held by PeekDataLine and the line it came from
	peeked    []byte
	peekedRaw pktline.Line
	hasPeeked bool

	// unread remainder of the line handed out through Read
	partial []byte
}

var _ io.Reader = &Reader{}

type Option func(*Reader)

// WithSideBand turns band decoding on or off.
func WithSideBand(on bool) Option {
	return func(r *Reader) {
		r.sideBand = on
	}
}

func WithProgressHandler(h HandleProgress) Option {
	return func(r *Reader) {
		r.handler = h
	}
}

// WithStopAt sets the markers ending the first segment. The default is flush.
func WithStopAt(kinds ...pktline.Kind) Option {
	return func(r *Reader) {
		r.stopAt = slices.Clone(kinds)
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Reader) {
		r.logger = logger
	}
}

// NewReader creates a Reader on top of dec.
func NewReader(dec *pktline.Decoder, opts ...Option) *Reader {
	r := &Reader{
		dec:    dec,
		stopAt: []pktline.Kind{pktline.KindFlush},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetProgressHandler replaces the handler, or removes it when h is nil. The
// new handler sees the next line decoded; a line already held by
// PeekDataLine is not processed again.
func (r *Reader) SetProgressHandler(h HandleProgress) {
	r.handler = h
}

// SetSideBand turns band decoding on or off for the lines decoded from now on.
func (r *Reader) SetSideBand(on bool) {
	r.sideBand = on
}

// ResetWith allows reading past a previous stop. The given markers end the
// next segment.
func (r *Reader) ResetWith(kinds ...pktline.Kind) {
	r.stopAt = slices.Clone(kinds)
	r.done = false
	r.stopped, r.hasStop = 0, false
}

// StoppedAt returns the marker that ended the current segment. ok is false
// while reading is still possible, after a clean EOF and after an error.
func (r *Reader) StoppedAt() (kind pktline.Kind, ok bool) {
	return r.stopped, r.hasStop
}

// ReadLine returns the next line as framed on the wire, without band
// decoding. Markers outside the stop set are returned as lines. It returns
// io.EOF once a stop marker, the end of the stream or an error ended the
// segment. A line held by PeekDataLine is returned first, as it was framed.
func (r *Reader) ReadLine() (pktline.Line, error) {
	if len(r.partial) > 0 {
		return pktline.Line{}, ErrPartialLine
	}
	if r.hasPeeked {
		raw := r.peekedRaw
		r.takePeeked()
		return raw, nil
	}
	return r.next()
}

// NextLine is ReadDataLine that also reports markers outside the stop set.
// Payload comes back as a data line with the band removed. Side-band text met
// on the way goes to the progress handler.
func (r *Reader) NextLine() (pktline.Line, error) {
	if len(r.partial) > 0 {
		return pktline.Line{}, ErrPartialLine
	}
	if r.hasPeeked {
		return pktline.Data(r.takePeeked()), nil
	}
	data, raw, err := r.demux(true)
	if err != nil {
		return pktline.Line{}, err
	}
	if raw.IsMarker() {
		return raw, nil
	}
	return pktline.Data(data), nil
}

// ReadDataLine returns the next payload line. Side-band text met on the way
// goes to the progress handler.
func (r *Reader) ReadDataLine() ([]byte, error) {
	if len(r.partial) > 0 {
		return nil, ErrPartialLine
	}
	if r.hasPeeked {
		return r.takePeeked(), nil
	}
	data, _, err := r.demux(false)
	return data, err
}

// PeekDataLine returns the next payload line without consuming it. Until a
// consuming read, every call returns the same bytes.
func (r *Reader) PeekDataLine() ([]byte, error) {
	if len(r.partial) > 0 {
		return nil, ErrPartialLine
	}
	if r.hasPeeked {
		return r.peeked, nil
	}
	data, raw, err := r.demux(false)
	if err != nil {
		return nil, err
	}
	r.peeked, r.peekedRaw, r.hasPeeked = data, raw, true
	return data, nil
}

// Read reads payload bytes of the current segment. Lines may be split across
// calls. It returns io.EOF at the end of the segment.
func (r *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if len(r.partial) == 0 {
		data, err := r.ReadDataLine()
		if err != nil {
			return 0, err
		}
		r.partial = data
	}
	n := copy(p, r.partial)
	r.partial = r.partial[n:]
	return n, nil
}

func (r *Reader) takePeeked() []byte {
	data := r.peeked
	r.peeked, r.peekedRaw, r.hasPeeked = nil, pktline.Line{}, false
	return data
}

// next pulls one line from the decoder and applies the stop rules.
func (r *Reader) next() (pktline.Line, error) {
	if r.done {
		return pktline.Line{}, io.EOF
	}
	line, err := r.dec.ReadLine()
	if err != nil {
		r.done = true
		return pktline.Line{}, err
	}
	if line.IsMarker() && slices.Contains(r.stopAt, line.Kind) {
		r.done = true
		r.stopped, r.hasStop = line.Kind, true
		r.logger.Debug("segment stopped", "marker", line.Kind)
		return pktline.Line{}, io.EOF
	}
	return line, nil
}

// demux reads until a line carries payload and returns the payload along
// with the line it was framed in. Markers outside the stop set are skipped,
// or returned as raw with no payload when keepMarkers is set.
func (r *Reader) demux(keepMarkers bool) ([]byte, pktline.Line, error) {
	for {
		line, err := r.next()
		if err != nil {
			return nil, pktline.Line{}, err
		}
		if line.IsMarker() {
			if keepMarkers {
				return nil, line, nil
			}
			r.logger.Debug("skipping marker inside segment", "marker", line.Kind)
			continue
		}
		if !r.sideBand {
			return line.Data, line, nil
		}

		band, text, err := decodeBand(line.Data)
		if err != nil {
			return nil, pktline.Line{}, err
		}
		switch band {
		case BandData:
			if len(text) == 0 {
				continue
			}
			return text, line, nil
		case BandProgress:
			r.progress(false, text)
		case BandError:
			r.progress(true, text)
		}
	}
}

func (r *Reader) progress(isError bool, text []byte) {
	if r.handler == nil {
		r.logger.Debug("dropping side-band text", "error", isError, "text", string(text))
		return
	}
	r.handler(isError, text)
}
