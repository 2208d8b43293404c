package chat

import (
	"bytes"
	"strings"
)

// Chunker reshapes assistant output into terminal-width lines. It
// buffers content, emits complete lines immediately and splits
// overlong runs at the last space inside the width budget.
type Chunker struct {
	emit     func(string)
	buffer   *bytes.Buffer
	maxWidth int
}

// NewChunker creates a chunker that passes each finished line to emit.
func NewChunker(emit func(string), maxWidth int) *Chunker {
	return &Chunker{
		emit:     emit,
		buffer:   &bytes.Buffer{},
		maxWidth: maxWidth,
	}
}

// Write adds content to the buffer and emits complete lines
// immediately. If the buffer outgrows the width budget, a chunk is
// forced out.
func (c *Chunker) Write(content string) {
	c.buffer.WriteString(content)

	for {
		line, err := c.buffer.ReadString('\n')
		if err != nil {
			// No more complete lines, put back what we read
			if line != "" {
				c.buffer.WriteString(line)
			}
			break
		}
		if line = strings.TrimSuffix(line, "\n"); line != "" {
			c.emit(line)
		}
	}

	for c.buffer.Len() >= c.maxWidth {
		chunk := c.extractBestSplitChunk()
		if chunk == "" {
			break
		}
		c.emit(chunk)
	}
}

func (c *Chunker) extractBestSplitChunk() string {
	if c.buffer.Len() == 0 {
		return ""
	}

	data := c.buffer.Bytes()
	end := min(c.maxWidth, len(data))

	// Prefer the last space inside the budget so words stay whole.
	if idx := bytes.LastIndexByte(data[:end], ' '); idx > 0 {
		chunk := string(data[:idx])
		c.buffer.Next(idx + 1) // skip the space itself
		return chunk
	}

	// No space found, hard break at the width budget.
	chunk := string(data[:end])
	c.buffer.Next(end)
	return chunk
}

// Flush emits any remaining buffer content.
func (c *Chunker) Flush() {
	if c.buffer.Len() > 0 {
		c.emit(c.buffer.String())
		c.buffer.Reset()
	}
}
