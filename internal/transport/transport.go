// Package transport opens the event stream for one chat turn and
// converts everything that can go wrong on the wire into the same
// terminal Error event the server itself would send, so the session
// state machine always completes.
package transport

import (
	"context"
	"net/http"

	"pwooda/neulpum/internal/auth"
	"pwooda/neulpum/internal/events"
)

// Request is one outbound turn. Image carries the base64 attachment
// produced by the media package; ConversationID is empty for the first
// turn of a new conversation.
type Request struct {
	Text           string `json:"message"`
	Image          string `json:"image,omitempty"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// Transport produces the decoded event stream for one request. The
// returned channel yields zero or more non-terminal events followed by
// exactly one terminal event, then closes. Abrupt disconnection,
// refused connections and timeouts all surface as a synthesized
// events.Error; the channel is never left silently open. Cancelling
// ctx tears down the underlying connection.
type Transport interface {
	Stream(ctx context.Context, req Request) <-chan events.Event
}

// applyAuth sets the credential headers a request may carry. Empty
// values mean the header is omitted entirely.
func applyAuth(h http.Header, creds auth.Provider) {
	if creds == nil {
		return
	}
	if token := creds.AccessToken(); token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	if key := creds.OrganizationKey(); key != "" {
		h.Set("X-Organization-Key", key)
	}
}
