// Package pktline decodes the packet-line framing used by the smart transfer
// protocol. See doc.go for the wire format.
package pktline

import "fmt"

const (
	// PrefixLen is the number of hex digits in front of every line.
	PrefixLen = 4
	// MaxLineLen is the largest total line length, prefix included.
	MaxLineLen = 65520
	// MaxDataLen is the largest payload a single data line can carry.
	MaxDataLen = MaxLineLen - PrefixLen
)

// Kind tells a data line apart from the three zero-length markers.
type Kind int

const (
	KindData Kind = iota
	KindFlush
	KindDelimiter
	KindResponseEnd
)

func (k Kind) String() string {
	switch k {
	case KindData:
		return "data"
	case KindFlush:
		return "flush"
	case KindDelimiter:
		return "delimiter"
	case KindResponseEnd:
		return "response-end"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Line is one decoded packet line. Only data lines carry bytes.
type Line struct {
	Kind Kind
	Data []byte
}

var (
	Flush       = Line{Kind: KindFlush}
	Delimiter   = Line{Kind: KindDelimiter}
	ResponseEnd = Line{Kind: KindResponseEnd}
)

// Data returns a data line holding b.
func Data(b []byte) Line {
	return Line{Kind: KindData, Data: b}
}

// Bytes returns the payload of a data line and nil for markers.
func (l Line) Bytes() []byte {
	if l.Kind != KindData {
		return nil
	}
	return l.Data
}

// IsMarker reports whether l is a flush, delimiter or response-end line.
func (l Line) IsMarker() bool {
	return l.Kind != KindData
}

func (l Line) String() string {
	if l.Kind == KindData {
		return fmt.Sprintf("data(%q)", l.Data)
	}
	return l.Kind.String()
}
