package chat_test

import (
	"strings"
	"testing"

	"pwooda/neulpum/internal/chat"
	"pwooda/neulpum/internal/events"
	"pwooda/neulpum/internal/history"
	"pwooda/neulpum/internal/session"
	mocktest "pwooda/neulpum/internal/testing"
)

func TestRegistryDispatch(t *testing.T) {
	registry := chat.NewRegistry()
	registry.Register(&chat.VersionCommand{Version: "0.3"})
	registry.Register(&chat.SendCommand{})

	// A slash command dispatches by name.
	ctx := mocktest.NewMockContext().WithArgs("/version")
	if !registry.Dispatch(ctx) {
		t.Fatal("dispatch failed for registered command")
	}
	if ctx.LastNotice() != "neulpum 0.3" {
		t.Errorf("unexpected version notice %q", ctx.LastNotice())
	}

	// A plain line falls through to the default command.
	sys := mocktest.NewMockSystem()
	ctx = mocktest.NewMockContext().WithSystem(sys).WithArgs("hello", "there")
	if !registry.Dispatch(ctx) {
		t.Fatal("dispatch failed for default command")
	}
	tr := sys.Chat.(*mocktest.MockTransport)
	if tr.LastRequest.Text != "hello there" {
		t.Errorf("expected joined message, got %q", tr.LastRequest.Text)
	}
}

func TestRegistryUnknownCommandFallsThrough(t *testing.T) {
	registry := chat.NewRegistry()
	registry.Register(&chat.SendCommand{})

	// An unregistered slash command goes to the default command,
	// which sends it as text.
	sys := mocktest.NewMockSystem()
	ctx := mocktest.NewMockContext().WithSystem(sys).WithArgs("/unknown")
	if !registry.Dispatch(ctx) {
		t.Fatal("expected default dispatch")
	}
}

func TestSendCommandSkipsEmptyLine(t *testing.T) {
	sys := mocktest.NewMockSystem()
	ctx := mocktest.NewMockContext().WithSystem(sys).WithArgs()

	cmd := &chat.SendCommand{}
	cmd.Execute(ctx)

	tr := sys.Chat.(*mocktest.MockTransport)
	if tr.Calls != 0 {
		t.Errorf("transport called for empty line")
	}
}

func TestNewCommandResetsSession(t *testing.T) {
	ctx := mocktest.NewMockContext()
	sess := ctx.GetSession()

	turn, _ := sess.StartTurn("hello", nil)
	sess.ApplyEvent(turn.Generation, events.Final{Result: "hi", ConversationID: "c-1"})

	cmd := &chat.NewCommand{}
	cmd.Execute(ctx)

	if got := len(sess.Messages()); got != 0 {
		t.Errorf("expected empty session after /new, got %d messages", got)
	}
	if sess.ConversationID() != "" {
		t.Errorf("conversation id survived /new")
	}
	if ctx.LastNotice() != "started a new conversation" {
		t.Errorf("unexpected notice %q", ctx.LastNotice())
	}
}

func TestVoiceCommandUsesVoiceTransport(t *testing.T) {
	sys := mocktest.NewMockSystem()
	ctx := mocktest.NewMockContext().WithSystem(sys).WithArgs("/voice", "말로", "해줘")

	cmd := &chat.VoiceCommand{}
	cmd.Execute(ctx)

	voice := sys.Voice.(*mocktest.MockTransport)
	if voice.Calls != 1 {
		t.Fatalf("expected 1 voice transport call, got %d", voice.Calls)
	}
	if voice.LastRequest.Text != "말로 해줘" {
		t.Errorf("unexpected voice message %q", voice.LastRequest.Text)
	}
	chatTr := sys.Chat.(*mocktest.MockTransport)
	if chatTr.Calls != 0 {
		t.Errorf("chat transport called for /voice")
	}
}

func TestVoiceCommandRequiresMessage(t *testing.T) {
	sys := mocktest.NewMockSystem()
	ctx := mocktest.NewMockContext().WithSystem(sys).WithArgs("/voice")

	cmd := &chat.VoiceCommand{}
	cmd.Execute(ctx)

	if !strings.HasPrefix(ctx.LastNotice(), "usage:") {
		t.Errorf("expected usage notice, got %q", ctx.LastNotice())
	}
}

func TestHistoryCommand(t *testing.T) {
	store, err := history.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	sys := mocktest.NewMockSystem()
	sys.History = store

	sess := session.New("test")
	ctx := mocktest.NewMockContext().WithSystem(sys).WithSession(sess).WithArgs("/history")

	cmd := &chat.HistoryCommand{}

	// Empty transcript first.
	cmd.Execute(ctx)
	if ctx.LastNotice() != "no transcript yet" {
		t.Errorf("expected empty-transcript notice, got %q", ctx.LastNotice())
	}

	store.Add("test", "user", "안녕")
	store.Add("test", "assistant", "안녕! 뭐 도와줄까?")

	cmd.Execute(ctx)
	if len(ctx.Replies) != 2 {
		t.Fatalf("expected 2 transcript lines, got %v", ctx.Replies)
	}
	if !strings.Contains(ctx.Replies[0], "안녕") {
		t.Errorf("unexpected transcript line %q", ctx.Replies[0])
	}
}

func TestWhoamiCommandStaticToken(t *testing.T) {
	ctx := mocktest.NewMockContext().WithArgs("/whoami")

	cmd := &chat.WhoamiCommand{}
	cmd.Execute(ctx)

	if ctx.LastNotice() != "signed in with a static token" {
		t.Errorf("unexpected notice %q", ctx.LastNotice())
	}
}

func TestHelpCommandListsRegistered(t *testing.T) {
	registry := chat.NewRegistry()
	registry.Register(&chat.NewCommand{})
	registry.Register(&chat.VersionCommand{Version: "0.3"})
	help := chat.NewHelpCommand(registry)
	registry.Register(help)

	ctx := mocktest.NewMockContext().WithArgs("/help")
	help.Execute(ctx)

	notice := ctx.LastNotice()
	for _, want := range []string{"/new", "/version", "/help", "/quit"} {
		if !strings.Contains(notice, want) {
			t.Errorf("help output missing %s: %q", want, notice)
		}
	}
}
