// Package progress renders side-band progress and error text without ever
// blocking the reader that delivers it.
package progress

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"golang.org/x/term"
)

// clearToEOL erases what is left of a previous, longer progress line.
const clearToEOL = "\x1b[K"

type message struct {
	isError bool
	text    []byte
}

// Renderer writes remote progress to w from its own goroutine. Handle is the
// ProgressHandler to install on a reader.
type Renderer struct {
	w        io.Writer
	terminal bool
	messages chan message
	done     chan struct{}
	dropped  atomic.Int64

	// owned by the render goroutine until done is closed
	actions []string
	last    map[string]Remote
}

type Option func(*Renderer)

// WithTerminal overrides terminal detection. On a terminal carriage returns
// rewrite the current line; elsewhere every update becomes its own line.
func WithTerminal(on bool) Option {
	return func(r *Renderer) {
		r.terminal = on
	}
}

// WithBuffer sets how many messages may wait for rendering before Handle
// starts dropping them. The default is 256; values below 1 mean 1.
func WithBuffer(n int) Option {
	return func(r *Renderer) {
		n = max(n, 1)
		r.messages = make(chan message, n)
	}
}

// NewRenderer starts a Renderer writing to w. Call Close to flush it.
func NewRenderer(w io.Writer, opts ...Option) *Renderer {
	r := &Renderer{
		w:        w,
		messages: make(chan message, 256),
		done:     make(chan struct{}),
		last:     make(map[string]Remote),
	}
	if f, ok := w.(*os.File); ok {
		r.terminal = term.IsTerminal(int(f.Fd()))
	}
	for _, opt := range opts {
		opt(r)
	}

	go r.run()
	return r
}

// Handle queues text for rendering. It never blocks: when the queue is full
// the message is dropped and counted.
func (r *Renderer) Handle(isError bool, text []byte) {
	m := message{isError: isError, text: append([]byte(nil), text...)}
	select {
	case r.messages <- m:
	default:
		r.dropped.Add(1)
	}
}

// Dropped returns how many messages Handle had to drop.
func (r *Renderer) Dropped() int64 {
	return r.dropped.Load()
}

// Close waits until every queued message is written. Handle must not be
// called afterwards.
func (r *Renderer) Close() {
	close(r.messages)
	<-r.done
}

// Summary returns the last parsed progress of every action in order of first
// appearance. Only valid after Close.
func (r *Renderer) Summary() []Remote {
	summary := make([]Remote, 0, len(r.actions))
	for _, action := range r.actions {
		summary = append(summary, r.last[action])
	}
	return summary
}

func (r *Renderer) run() {
	defer close(r.done)
	for m := range r.messages {
		r.render(m)
	}
}

func (r *Renderer) render(m message) {
	prefix := "remote: "
	if m.isError {
		prefix = "remote error: "
	}

	for _, part := range splitUpdates(m.text) {
		if !m.isError {
			r.record(part)
		}
		body, eol := part, byte('\n')
		if n := len(part); n > 0 && (part[n-1] == '\r' || part[n-1] == '\n') {
			body, eol = part[:n-1], part[n-1]
		}
		suffix := ""
		if r.terminal {
			suffix = clearToEOL
		} else {
			eol = '\n'
		}
		fmt.Fprintf(r.w, "%s%s%s%c", prefix, body, suffix, eol)
	}
}

func (r *Renderer) record(part []byte) {
	remote, ok := ParseRemote(part)
	if !ok {
		return
	}
	if _, seen := r.last[remote.Action]; !seen {
		r.actions = append(r.actions, remote.Action)
	}
	r.last[remote.Action] = remote
}

// splitUpdates splits text after every carriage return and newline.
func splitUpdates(text []byte) [][]byte {
	var parts [][]byte
	for len(text) > 0 {
		i := bytes.IndexAny(text, "\r\n")
		if i < 0 {
			parts = append(parts, text)
			break
		}
		parts = append(parts, text[:i+1])
		text = text[i+1:]
	}
	return parts
}
