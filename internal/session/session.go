package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// State tracks the per-turn lifecycle of a session.
type State int

const (
	// StateIdle means no turn is in flight; StartTurn is allowed.
	StateIdle State = iota
	// StateAwaitingFirstByte means a turn started but no event has
	// arrived yet.
	StateAwaitingFirstByte
	// StateStreaming means at least one event arrived and the terminal
	// event has not.
	StateStreaming
)

// ErrTurnInFlight is returned by StartTurn while a previous turn is
// unresolved. The rejection leaves the session untouched.
var ErrTurnInFlight = errors.New("a turn is already in flight")

// Session owns the ordered message list and in-flight step sequence
// for one conversation. All mutation goes through StartTurn,
// ApplyEvent, CancelTurn and Reset; readers get copying snapshots.
type Session struct {
	mu   sync.RWMutex
	Name string

	conversationID string
	messages       []Message
	steps          []WorkflowStep
	state          State
	generation     uint64
	placeholderID  string
	last           time.Time
	created        chan string
}

// New returns an empty session.
func New(name string) *Session {
	return &Session{
		Name:    name,
		last:    time.Now(),
		created: make(chan string, 1),
	}
}

// Turn identifies one user submission. Generation tags the stream
// consuming this turn so events from a cancelled or superseded turn
// can be discarded.
type Turn struct {
	Generation    uint64
	UserID        string
	PlaceholderID string
}

// StartTurn appends the user message and a streaming placeholder for
// the assistant reply, both visible immediately, and opens a new
// generation. It fails with ErrTurnInFlight while a turn is
// unresolved; a session carries at most one in-flight turn.
func (s *Session) StartTurn(text string, image []byte) (Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		return Turn{}, ErrTurnInFlight
	}

	user := Message{
		ID:      uuid.NewString(),
		Author:  AuthorUser,
		Content: text,
		Image:   image,
	}
	placeholder := Message{
		ID:        uuid.NewString(),
		Author:    AuthorAssistant,
		Streaming: true,
	}

	s.generation++
	s.messages = append(s.messages, user, placeholder)
	s.placeholderID = placeholder.ID
	s.steps = s.steps[:0]
	s.state = StateAwaitingFirstByte
	s.last = time.Now()

	return Turn{
		Generation:    s.generation,
		UserID:        user.ID,
		PlaceholderID: placeholder.ID,
	}, nil
}

// Reset clears the session for a fresh conversation. Any in-flight
// turn is abandoned; its events become stale through the generation
// bump.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.messages = s.messages[:0]
	s.steps = s.steps[:0]
	s.conversationID = ""
	s.placeholderID = ""
	s.state = StateIdle
	s.last = time.Now()
}

// Messages returns a snapshot of the conversation's message list in
// insertion order.
func (s *Session) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages := make([]Message, len(s.messages))
	copy(messages, s.messages)
	return messages
}

// Steps returns a snapshot of the in-flight step sequence. It is
// empty whenever no turn is streaming.
func (s *Session) Steps() []WorkflowStep {
	s.mu.RLock()
	defer s.mu.RUnlock()

	steps := make([]WorkflowStep, len(s.steps))
	copy(steps, s.steps)
	return steps
}

// State returns the turn lifecycle state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// ConversationID returns the server-assigned conversation id, or ""
// before the server has assigned one.
func (s *Session) ConversationID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conversationID
}

// ConversationCreated delivers the conversation id exactly once when
// the server assigns one to a previously-unidentified session.
func (s *Session) ConversationCreated() <-chan string {
	return s.created
}

// LoadHistory replaces the message list with previously persisted
// messages. It is only valid while no turn is in flight.
func (s *Session) LoadHistory(conversationID string, messages []Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		return ErrTurnInFlight
	}
	s.conversationID = conversationID
	s.messages = append(s.messages[:0], messages...)
	s.last = time.Now()
	return nil
}
