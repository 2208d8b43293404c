package events

import (
	"bufio"
	"bytes"
	"io"
)

// FrameScanner splits a text/event-stream body into frames. Only the
// data field carries chat protocol payload; comment lines and other
// SSE fields (id, event, retry) are skipped. Multi-line data is joined
// with newlines, and a blank line terminates a frame.
type FrameScanner struct {
	scanner *bufio.Scanner
	data    bytes.Buffer
}

// NewFrameScanner wraps r for frame-at-a-time reading. The buffer
// allows frames up to 1MB, which covers the largest assistant replies
// the service produces.
func NewFrameScanner(r io.Reader) *FrameScanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &FrameScanner{scanner: s}
}

// Next returns the payload of the next frame. It returns io.EOF when
// the stream ends cleanly after the last frame, or the underlying read
// error on a broken stream.
func (f *FrameScanner) Next() ([]byte, error) {
	f.data.Reset()
	seen := false

	for f.scanner.Scan() {
		line := f.scanner.Bytes()

		if len(line) == 0 {
			if seen {
				return f.payload(), nil
			}
			continue
		}
		if line[0] == ':' {
			continue
		}

		field, value, _ := bytes.Cut(line, []byte(":"))
		if string(field) != "data" {
			continue
		}
		value = bytes.TrimPrefix(value, []byte(" "))
		if seen {
			f.data.WriteByte('\n')
		}
		f.data.Write(value)
		seen = true
	}

	if err := f.scanner.Err(); err != nil {
		return nil, err
	}
	// A final frame without a trailing blank line still counts.
	if seen {
		return f.payload(), nil
	}
	return nil, io.EOF
}

func (f *FrameScanner) payload() []byte {
	out := make([]byte, f.data.Len())
	copy(out, f.data.Bytes())
	return out
}
