package progress

import (
	"bytes"
	"strconv"
)

// Remote is one parsed progress message as sent by the remote side, for
// example "Receiving objects:  50% (5/10)" or "Enumerating objects: 7, done.".
type Remote struct {
	Action  string
	Percent int // -1 when the message carries no percentage
	Step    int
	Max     int // 0 when unknown
	Done    bool
}

var doneSuffix = []byte(", done.")

// ParseRemote parses a progress message. ok is false for text that does not
// look like "<action>: <numbers>".
func ParseRemote(text []byte) (r Remote, ok bool) {
	text = bytes.TrimRight(text, "\r\n ")
	idx := bytes.Index(text, []byte(": "))
	if idx <= 0 {
		return Remote{}, false
	}
	r.Action = string(text[:idx])
	r.Percent = -1
	rest := bytes.TrimSpace(text[idx+2:])
	if bytes.HasSuffix(rest, doneSuffix) {
		r.Done = true
		rest = rest[:len(rest)-len(doneSuffix)]
	}

	if pct := bytes.IndexByte(rest, '%'); pct >= 0 {
		n, err := strconv.Atoi(string(bytes.TrimSpace(rest[:pct])))
		if err != nil {
			return Remote{}, false
		}
		r.Percent = n
		rest = rest[pct+1:]
		open, slash, end := bytes.IndexByte(rest, '('), bytes.IndexByte(rest, '/'), bytes.IndexByte(rest, ')')
		if open >= 0 && open < slash && slash < end {
			r.Step, _ = strconv.Atoi(string(rest[open+1 : slash]))
			r.Max, _ = strconv.Atoi(string(rest[slash+1 : end]))
		}
		return r, true
	}

	digits := 0
	for digits < len(rest) && rest[digits] >= '0' && rest[digits] <= '9' {
		digits++
	}
	if digits == 0 {
		return Remote{}, false
	}
	r.Step, _ = strconv.Atoi(string(rest[:digits]))
	return r, true
}
