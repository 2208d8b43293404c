package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"pwooda/neulpum/internal/auth"
	"pwooda/neulpum/internal/events"
)

const streamPath = "/chat/stream"

// SSEClient streams a chat turn over a server-sent-event HTTP
// response. One Stream call maps to one POST; the connection lives for
// the duration of the turn.
type SSEClient struct {
	baseURL string
	client  *http.Client
	creds   auth.Provider
}

// NewSSEClient builds a client against baseURL. timeout bounds the
// whole turn, first byte to terminal frame.
func NewSSEClient(baseURL string, timeout time.Duration, creds auth.Provider) *SSEClient {
	return &SSEClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		creds:   creds,
	}
}

var _ Transport = (*SSEClient)(nil)

// Stream opens the event stream for req. See Transport for the
// channel contract.
func (c *SSEClient) Stream(ctx context.Context, req Request) <-chan events.Event {
	ch := make(chan events.Event, 10)
	go c.stream(ctx, req, ch)
	return ch
}

func (c *SSEClient) stream(ctx context.Context, req Request, ch chan<- events.Event) {
	defer close(ch)

	body, err := json.Marshal(req)
	if err != nil {
		ch <- Synthesize(err)
		return
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+streamPath, bytes.NewReader(body))
	if err != nil {
		ch <- Synthesize(err)
		return
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	applyAuth(httpReq.Header, c.creds)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		ch <- Synthesize(err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		ch <- events.Error{Message: fmt.Sprintf("chat service returned %s", resp.Status)}
		return
	}

	scanner := events.NewFrameScanner(resp.Body)
	for {
		frame, err := scanner.Next()
		if err != nil {
			// The server hung up without a terminal frame. io.EOF here
			// is still a broken turn from the session's point of view.
			if err == io.EOF {
				ch <- events.Error{Message: "stream ended before completion"}
			} else {
				ch <- Synthesize(err)
			}
			return
		}

		ev := events.Decode(frame)
		select {
		case ch <- ev:
		case <-ctx.Done():
			zap.S().Debugw("stream abandoned", "reason", ctx.Err())
			return
		}
		if events.Terminal(ev) {
			return
		}
	}
}
