// Package wsstream turns the binary messages of a WebSocket connection into a
// plain byte stream. Message boundaries carry no meaning: a packet line may
// span several messages and a message may hold several lines.
package wsstream

import (
	"errors"
	"fmt"
	"io"

	"github.com/gorilla/websocket"
)

// Reader reads the payload of consecutive binary messages.
type Reader struct {
	conn   *websocket.Conn
	buffer []byte // remainder of the current message
}

var _ io.Reader = &Reader{}

func NewReader(conn *websocket.Conn) *Reader {
	return &Reader{conn: conn}
}

// Read returns io.EOF once the peer closes the connection normally.
func (r *Reader) Read(p []byte) (int, error) {
	for len(r.buffer) == 0 {
		messageType, data, err := r.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return 0, io.EOF
			}
			return 0, fmt.Errorf("reading websocket message: %w", err)
		}
		if messageType != websocket.BinaryMessage {
			return 0, errors.New("unexpected non-binary websocket message")
		}
		r.buffer = data
	}

	n := copy(p, r.buffer)
	r.buffer = r.buffer[n:]
	return n, nil
}

// Dial connects to url and returns a Reader and the connection to close.
func Dial(url string) (*Reader, *websocket.Conn, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("dialing %s: %w", url, err)
	}
	return NewReader(conn), conn, nil
}
