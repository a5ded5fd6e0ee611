package transport

import (
	"fmt"
	"strings"
)

// Protocol is the version of the smart transfer protocol in use. It decides
// which markers end a segment.
type Protocol int

const (
	V1 Protocol = 1
	V2 Protocol = 2
)

func (p Protocol) String() string {
	switch p {
	case V1:
		return "v1"
	case V2:
		return "v2"
	default:
		return fmt.Sprintf("Protocol(%d)", int(p))
	}
}

// ParseProtocol accepts "v1", "1", "v2" and "2", case-insensitively.
func ParseProtocol(s string) (Protocol, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "v1", "1":
		return V1, nil
	case "v2", "2":
		return V2, nil
	default:
		return 0, fmt.Errorf("unknown protocol version %q", s)
	}
}

// MessageKind is the marker a reader stopped at.
type MessageKind int

const (
	Flush MessageKind = iota + 1
	Delimiter
	ResponseEnd
)

func (k MessageKind) String() string {
	switch k {
	case Flush:
		return "flush"
	case Delimiter:
		return "delimiter"
	case ResponseEnd:
		return "response-end"
	default:
		return fmt.Sprintf("MessageKind(%d)", int(k))
	}
}
