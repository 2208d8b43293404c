package testing

import (
	"context"
	"time"

	"pwooda/neulpum/internal/events"
	"pwooda/neulpum/internal/transport"
)

// MockTransport implements transport.Transport for testing
type MockTransport struct {
	Events []events.Event // Events to deliver in order
	Delay  time.Duration  // Delay between events (0 = immediate)

	// LastRequest records the request of the most recent Stream call.
	LastRequest transport.Request
	Calls       int
}

var _ transport.Transport = (*MockTransport)(nil)

// Stream implements transport.Transport. Like the real clients it
// stops at the first terminal event and respects ctx cancellation.
func (m *MockTransport) Stream(ctx context.Context, req transport.Request) <-chan events.Event {
	m.LastRequest = req
	m.Calls++

	ch := make(chan events.Event, len(m.Events)+1)
	go func() {
		defer close(ch)
		for _, ev := range m.Events {
			if m.Delay > 0 {
				select {
				case <-time.After(m.Delay):
				case <-ctx.Done():
					return
				}
			}
			select {
			case <-ctx.Done():
				return
			case ch <- ev:
			}
			if events.Terminal(ev) {
				return
			}
		}
	}()
	return ch
}
