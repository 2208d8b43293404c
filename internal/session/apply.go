package session

import (
	"time"

	"github.com/google/uuid"

	"pwooda/neulpum/internal/events"
)

// cancelledNotice replaces the placeholder when a turn is abandoned
// before its terminal event.
const cancelledNotice = "response cancelled"

// ApplyEvent folds one decoded stream event into the session. Events
// are applied strictly in arrival order by a single consumer; gen must
// be the generation returned by StartTurn, and events from a stale
// generation (cancelled or superseded turn) are discarded.
func (s *Session) ApplyEvent(gen uint64, ev events.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation || s.state == StateIdle {
		return
	}

	switch ev := ev.(type) {
	case events.Step:
		s.applyStep(ev)
	case events.Final:
		s.applyFinal(ev)
	case events.Error:
		s.applyError(ev)
	case events.Unknown:
		// Forward compatibility: ignore.
	}
}

// CancelTurn closes an abandoned turn so no placeholder is left
// permanently streaming. Events still in flight for gen are dropped
// afterwards because the state is back to idle.
func (s *Session) CancelTurn(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation || s.state == StateIdle {
		return
	}
	s.resolvePlaceholder(cancelledNotice)
	s.endTurn()
}

func (s *Session) applyStep(step events.Step) {
	s.state = StateStreaming
	s.steps = append(s.steps, WorkflowStep{
		Stage:  step.Stage,
		Detail: step.Detail,
		Tool:   step.Tool,
		Result: step.Result,
	})

	// Tool activity additionally surfaces as an ephemeral message so
	// list-shaped consumers can show progress inline. These never
	// survive the turn.
	if step.Tool != "" || step.Result != "" {
		s.messages = append(s.messages, Message{
			ID:         uuid.NewString(),
			Author:     AuthorAssistant,
			Content:    step.Detail,
			Streaming:  true,
			ToolName:   step.Tool,
			ToolResult: step.Result,
			ephemeral:  true,
		})
	}
	s.last = time.Now()
}

func (s *Session) applyFinal(final events.Final) {
	s.resolvePlaceholder(final.Result)
	s.adoptConversation(final.ConversationID)
	s.endTurn()
}

func (s *Session) applyError(fail events.Error) {
	s.resolvePlaceholder(fail.Message)
	s.endTurn()
}

// resolvePlaceholder writes content into the turn's placeholder and
// marks it finalized. If the placeholder is gone it appends a fresh
// assistant message instead, so the outcome is always visible.
func (s *Session) resolvePlaceholder(content string) {
	for i := range s.messages {
		if s.messages[i].ID == s.placeholderID {
			s.messages[i].Content = content
			s.messages[i].Streaming = false
			return
		}
	}
	s.messages = append(s.messages, Message{
		ID:      uuid.NewString(),
		Author:  AuthorAssistant,
		Content: content,
	})
}

// adoptConversation stores a newly assigned conversation id and fires
// the created signal. Sessions that already have an id keep it; the
// signal fires at most once per adoption.
func (s *Session) adoptConversation(id string) {
	if id == "" || s.conversationID != "" {
		return
	}
	s.conversationID = id
	select {
	case s.created <- id:
	default:
	}
}

// endTurn discards the step sequence and ephemeral tool messages and
// reopens the session for the next StartTurn.
func (s *Session) endTurn() {
	s.steps = s.steps[:0]

	kept := s.messages[:0]
	for _, m := range s.messages {
		if !m.ephemeral {
			kept = append(kept, m)
		}
	}
	s.messages = kept

	s.placeholderID = ""
	s.state = StateIdle
	s.last = time.Now()
}
