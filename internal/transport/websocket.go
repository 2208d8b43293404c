package transport

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"pwooda/neulpum/internal/auth"
	"pwooda/neulpum/internal/events"
)

// WSClient streams a chat turn over the voice-chat websocket endpoint.
// The frame payloads are identical to the SSE variant; only the
// carrier differs.
type WSClient struct {
	url    string
	dialer *websocket.Dialer
	creds  auth.Provider
}

// NewWSClient builds a client for the ws:// or wss:// endpoint at url.
func NewWSClient(url string, timeout time.Duration, creds auth.Provider) *WSClient {
	return &WSClient{
		url: url,
		dialer: &websocket.Dialer{
			HandshakeTimeout: timeout,
		},
		creds: creds,
	}
}

var _ Transport = (*WSClient)(nil)

// Stream dials the endpoint, writes req as the opening message and
// reads frames until the terminal event. See Transport for the channel
// contract.
func (c *WSClient) Stream(ctx context.Context, req Request) <-chan events.Event {
	ch := make(chan events.Event, 10)
	go c.stream(ctx, req, ch)
	return ch
}

func (c *WSClient) stream(ctx context.Context, req Request, ch chan<- events.Event) {
	defer close(ch)

	header := http.Header{}
	applyAuth(header, c.creds)

	conn, resp, err := c.dialer.DialContext(ctx, c.url, header)
	if err != nil {
		ch <- Synthesize(err)
		return
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	// Close the connection when the turn is abandoned so the read
	// loop unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	if err := conn.WriteJSON(req); err != nil {
		ch <- Synthesize(err)
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				ch <- events.Error{Message: "stream ended before completion"}
			} else {
				ch <- Synthesize(err)
			}
			return
		}

		ev := events.Decode(data)
		select {
		case ch <- ev:
		case <-ctx.Done():
			return
		}
		if events.Terminal(ev) {
			return
		}
	}
}
