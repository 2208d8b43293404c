package events

// Event is one decoded frame of the chat stream. Exactly one concrete
// event is produced per frame; consumers switch over the four types
// below and must treat Unknown as a no-op so new server-side frame
// types never break an older client.
type Event interface {
	isEvent()
}

// Step is an intermediate progress notification for the in-flight
// assistant turn. Tool and Result are empty unless the step describes
// a tool invocation or its outcome.
type Step struct {
	Stage  string
	Detail string
	Tool   string
	Result string
}

// Final terminates a turn successfully. ConversationID is non-empty
// only when this turn created a new conversation on the server.
type Final struct {
	Result         string
	ConversationID string
}

// Error terminates a turn with a user-visible message. It is produced
// both for server-reported errors and for transport failures the
// client synthesizes locally.
type Error struct {
	Message string
}

// Unknown is any frame the decoder could not classify.
type Unknown struct{}

func (Step) isEvent()    {}
func (Final) isEvent()   {}
func (Error) isEvent()   {}
func (Unknown) isEvent() {}

// Terminal reports whether ev ends the turn it belongs to.
func Terminal(ev Event) bool {
	switch ev.(type) {
	case Final, Error:
		return true
	}
	return false
}
