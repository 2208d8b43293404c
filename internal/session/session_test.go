package session

import (
	"testing"
	"time"

	"pwooda/neulpum/internal/events"
)

func TestStartTurnAppendsUserAndPlaceholder(t *testing.T) {
	s := New("test")

	turn, err := s.StartTurn("안녕", nil)
	if err != nil {
		t.Fatalf("StartTurn failed: %v", err)
	}

	msgs := s.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Author != AuthorUser || msgs[0].Content != "안녕" {
		t.Errorf("unexpected user message: %+v", msgs[0])
	}
	if msgs[1].Author != AuthorAssistant || !msgs[1].Streaming {
		t.Errorf("expected streaming assistant placeholder, got %+v", msgs[1])
	}
	if msgs[1].ID != turn.PlaceholderID {
		t.Errorf("placeholder id mismatch: %s vs %s", msgs[1].ID, turn.PlaceholderID)
	}
	if s.State() != StateAwaitingFirstByte {
		t.Errorf("expected StateAwaitingFirstByte, got %v", s.State())
	}
}

func TestStartTurnRejectsWhileInFlight(t *testing.T) {
	s := New("test")

	if _, err := s.StartTurn("first", nil); err != nil {
		t.Fatalf("first StartTurn failed: %v", err)
	}
	before := s.Messages()

	if _, err := s.StartTurn("second", nil); err != ErrTurnInFlight {
		t.Fatalf("expected ErrTurnInFlight, got %v", err)
	}

	// The rejection must not have touched anything.
	after := s.Messages()
	if len(after) != len(before) {
		t.Errorf("rejected StartTurn mutated messages: %d vs %d", len(after), len(before))
	}
	if s.State() != StateAwaitingFirstByte {
		t.Errorf("rejected StartTurn changed state to %v", s.State())
	}
}

func TestHappyPathTurn(t *testing.T) {
	s := New("test")

	turn, err := s.StartTurn("안녕", nil)
	if err != nil {
		t.Fatalf("StartTurn failed: %v", err)
	}

	s.ApplyEvent(turn.Generation, events.Final{Result: "안녕! 뭐 도와줄까?"})

	msgs := s.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[1].Content != "안녕! 뭐 도와줄까?" {
		t.Errorf("expected final result in placeholder, got %q", msgs[1].Content)
	}
	if msgs[1].Streaming {
		t.Error("placeholder still marked streaming after final")
	}
	if s.State() != StateIdle {
		t.Errorf("expected StateIdle after final, got %v", s.State())
	}
	if len(s.Steps()) != 0 {
		t.Errorf("expected empty steps after terminal, got %d", len(s.Steps()))
	}
}

func TestToolWorkflowLeavesTwoMessages(t *testing.T) {
	s := New("test")

	turn, _ := s.StartTurn("내일 일정 알려줘", nil)

	s.ApplyEvent(turn.Generation, events.Step{Stage: "planning", Detail: "checking calendar"})
	s.ApplyEvent(turn.Generation, events.Step{Stage: "tool_call", Tool: "calendar", Detail: "fetching events"})
	s.ApplyEvent(turn.Generation, events.Step{Stage: "tool_result", Tool: "calendar", Result: "2 events"})

	if s.State() != StateStreaming {
		t.Errorf("expected StateStreaming mid-turn, got %v", s.State())
	}
	if got := len(s.Steps()); got != 3 {
		t.Errorf("expected 3 steps mid-turn, got %d", got)
	}
	// Tool steps surface as extra streaming messages while in flight.
	if got := len(s.Messages()); got <= 2 {
		t.Errorf("expected ephemeral tool messages mid-turn, got %d messages", got)
	}

	s.ApplyEvent(turn.Generation, events.Final{Result: "내일은 회의 2건 있어."})

	// After the terminal event only user + assistant persist.
	msgs := s.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected exactly 2 persisted messages, got %d", len(msgs))
	}
	if msgs[1].Content != "내일은 회의 2건 있어." {
		t.Errorf("unexpected assistant content %q", msgs[1].Content)
	}
	if len(s.Steps()) != 0 {
		t.Errorf("steps not cleared after terminal: %d", len(s.Steps()))
	}
}

func TestErrorEventResolvesPlaceholder(t *testing.T) {
	s := New("test")

	turn, _ := s.StartTurn("hello", nil)
	s.ApplyEvent(turn.Generation, events.Error{Message: "model overloaded"})

	msgs := s.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[1].Content != "model overloaded" {
		t.Errorf("expected error message in placeholder, got %q", msgs[1].Content)
	}
	if s.State() != StateIdle {
		t.Errorf("expected StateIdle after error, got %v", s.State())
	}
}

func TestUnknownEventIsIgnored(t *testing.T) {
	s := New("test")

	turn, _ := s.StartTurn("hello", nil)
	s.ApplyEvent(turn.Generation, events.Unknown{})

	if s.State() != StateAwaitingFirstByte {
		t.Errorf("Unknown changed state to %v", s.State())
	}
	if got := len(s.Messages()); got != 2 {
		t.Errorf("Unknown mutated messages: %d", got)
	}
}

func TestStaleGenerationDiscarded(t *testing.T) {
	s := New("test")

	turn, _ := s.StartTurn("first", nil)
	s.Reset()

	// Events from the old stream arrive after the reset.
	s.ApplyEvent(turn.Generation, events.Final{Result: "late answer"})

	if got := len(s.Messages()); got != 0 {
		t.Errorf("stale event mutated a reset session: %d messages", got)
	}
	if s.State() != StateIdle {
		t.Errorf("stale event changed state to %v", s.State())
	}
}

func TestCancelTurn(t *testing.T) {
	s := New("test")

	turn, _ := s.StartTurn("hello", nil)
	s.ApplyEvent(turn.Generation, events.Step{Stage: "planning"})
	s.CancelTurn(turn.Generation)

	if s.State() != StateIdle {
		t.Errorf("expected StateIdle after cancel, got %v", s.State())
	}
	msgs := s.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages after cancel, got %d", len(msgs))
	}
	if msgs[1].Streaming {
		t.Error("placeholder left streaming after cancel")
	}
	if msgs[1].Content != "response cancelled" {
		t.Errorf("unexpected cancel notice %q", msgs[1].Content)
	}
	if len(s.Steps()) != 0 {
		t.Errorf("steps not cleared after cancel: %d", len(s.Steps()))
	}

	// Late events from the cancelled stream must be discarded.
	s.ApplyEvent(turn.Generation, events.Final{Result: "too late"})
	if got := s.Messages()[1].Content; got != "response cancelled" {
		t.Errorf("late event overwrote cancel notice: %q", got)
	}

	// And the session must be ready for a new turn.
	if _, err := s.StartTurn("again", nil); err != nil {
		t.Errorf("StartTurn after cancel failed: %v", err)
	}
}

func TestConversationCreatedFiresOnce(t *testing.T) {
	s := New("test")

	turn, _ := s.StartTurn("hello", nil)
	s.ApplyEvent(turn.Generation, events.Final{Result: "hi", ConversationID: "c-1"})

	select {
	case id := <-s.ConversationCreated():
		if id != "c-1" {
			t.Errorf("expected conversation id c-1, got %q", id)
		}
	default:
		t.Fatal("expected conversation created signal")
	}
	if s.ConversationID() != "c-1" {
		t.Errorf("conversation id not adopted: %q", s.ConversationID())
	}

	// A second final naming the same conversation must not fire again
	// or overwrite the id.
	turn2, _ := s.StartTurn("more", nil)
	s.ApplyEvent(turn2.Generation, events.Final{Result: "sure", ConversationID: "c-1"})

	select {
	case id := <-s.ConversationCreated():
		t.Errorf("unexpected second created signal: %q", id)
	default:
	}
	if s.ConversationID() != "c-1" {
		t.Errorf("conversation id changed: %q", s.ConversationID())
	}
}

func TestResetClearsEverything(t *testing.T) {
	s := New("test")

	turn, _ := s.StartTurn("hello", nil)
	s.ApplyEvent(turn.Generation, events.Final{Result: "hi", ConversationID: "c-1"})
	s.Reset()

	if got := len(s.Messages()); got != 0 {
		t.Errorf("expected no messages after reset, got %d", got)
	}
	if s.ConversationID() != "" {
		t.Errorf("conversation id survived reset: %q", s.ConversationID())
	}
	if s.State() != StateIdle {
		t.Errorf("expected StateIdle after reset, got %v", s.State())
	}
}

func TestLoadHistory(t *testing.T) {
	s := New("test")

	loaded := []Message{
		{ID: "m1", Author: AuthorUser, Content: "earlier question"},
		{ID: "m2", Author: AuthorAssistant, Content: "earlier answer"},
	}
	if err := s.LoadHistory("c-9", loaded); err != nil {
		t.Fatalf("LoadHistory failed: %v", err)
	}
	if s.ConversationID() != "c-9" {
		t.Errorf("conversation id not set: %q", s.ConversationID())
	}
	if got := len(s.Messages()); got != 2 {
		t.Errorf("expected 2 loaded messages, got %d", got)
	}

	// Loading over an in-flight turn is rejected.
	if _, err := s.StartTurn("new question", nil); err != nil {
		t.Fatalf("StartTurn failed: %v", err)
	}
	if err := s.LoadHistory("c-10", nil); err != ErrTurnInFlight {
		t.Errorf("expected ErrTurnInFlight, got %v", err)
	}
}

func TestStoreReturnsSameSession(t *testing.T) {
	store := NewStore(time.Minute)

	a := store.Get("terminal")
	b := store.Get("terminal")
	if a != b {
		t.Error("expected the same session for the same key")
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 session, got %d", store.Len())
	}
}

func TestStoreExpire(t *testing.T) {
	store := NewStore(time.Minute)
	store.Get("one")
	store.Get("two")

	store.Expire("one")
	if store.Len() != 1 {
		t.Errorf("expected 1 session after Expire, got %d", store.Len())
	}
	if store.Get("one") == nil {
		t.Error("expected Get to recreate an expired session")
	}
	if store.Len() != 2 {
		t.Errorf("expected 2 sessions after recreate, got %d", store.Len())
	}
}
