package sideband

import (
	"errors"
	"fmt"
)

// Band is the channel a side-band data line belongs to.
type Band byte

const (
	BandData     Band = 1
	BandProgress Band = 2
	BandError    Band = 3
)

func (b Band) String() string {
	switch b {
	case BandData:
		return "data"
	case BandProgress:
		return "progress"
	case BandError:
		return "error"
	default:
		return fmt.Sprintf("Band(%d)", byte(b))
	}
}

var ErrPartialLine = errors.New("sideband: line-based read while a partially read line is pending")

// TagError reports a side-band data line whose leading byte names no known band.
type TagError struct {
	Tag byte
}

func (e *TagError) Error() string {
	return fmt.Sprintf("sideband: invalid band tag %#02x", e.Tag)
}

// decodeBand splits a side-band data line into its band and the text after the tag.
func decodeBand(data []byte) (Band, []byte, error) {
	if len(data) == 0 {
		return 0, nil, &TagError{}
	}
	switch b := Band(data[0]); b {
	case BandData, BandProgress, BandError:
		return b, data[1:], nil
	default:
		return 0, nil, &TagError{Tag: data[0]}
	}
}
