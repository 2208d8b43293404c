package testing

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"pwooda/neulpum/internal/chat"
	"pwooda/neulpum/internal/config"
	"pwooda/neulpum/internal/core"
	"pwooda/neulpum/internal/session"
)

// MockChatContext implements chat.ChatContextInterface for testing
type MockChatContext struct {
	context.Context

	Args []string

	// Recorded calls (for assertions)
	Replies []string
	Notices []string

	// Injected dependencies
	sess   *session.Session
	cfg    *config.Configuration
	sys    core.System
	logger *zap.SugaredLogger
}

// Verify MockChatContext implements chat.ChatContextInterface
var _ chat.ChatContextInterface = (*MockChatContext)(nil)

// NewMockContext creates a new MockChatContext with sensible defaults
func NewMockContext() *MockChatContext {
	return &MockChatContext{
		Context: context.Background(),
		Args:    []string{},
		Replies: []string{},
		Notices: []string{},
		sess:    session.New("test"),
		cfg:     DefaultTestConfig(),
		sys:     NewMockSystem(),
		logger:  zap.NewNop().Sugar(),
	}
}

// WithContext sets a custom context (for timeout/cancellation testing)
func (m *MockChatContext) WithContext(ctx context.Context) *MockChatContext {
	m.Context = ctx
	return m
}

// WithSystem injects a system
func (m *MockChatContext) WithSystem(sys core.System) *MockChatContext {
	m.sys = sys
	return m
}

// WithSession injects a session
func (m *MockChatContext) WithSession(sess *session.Session) *MockChatContext {
	m.sess = sess
	return m
}

// WithArgs sets the parsed arguments
func (m *MockChatContext) WithArgs(args ...string) *MockChatContext {
	m.Args = args
	return m
}

func (m *MockChatContext) GetCommand() string {
	if len(m.Args) > 0 && strings.HasPrefix(m.Args[0], "/") {
		return strings.ToLower(m.Args[0])
	}
	return ""
}

func (m *MockChatContext) GetArgs() []string { return m.Args }

func (m *MockChatContext) Reply(message string) {
	m.Replies = append(m.Replies, message)
}

func (m *MockChatContext) Notice(message string) {
	m.Notices = append(m.Notices, message)
}

func (m *MockChatContext) GetSession() *session.Session { return m.sess }
func (m *MockChatContext) GetConfig() *config.Configuration { return m.cfg }
func (m *MockChatContext) GetSystem() core.System { return m.sys }
func (m *MockChatContext) GetLogger() *zap.SugaredLogger { return m.logger }

// LastReply returns the most recent reply, or ""
func (m *MockChatContext) LastReply() string {
	if len(m.Replies) == 0 {
		return ""
	}
	return m.Replies[len(m.Replies)-1]
}

// LastNotice returns the most recent notice, or ""
func (m *MockChatContext) LastNotice() string {
	if len(m.Notices) == 0 {
		return ""
	}
	return m.Notices[len(m.Notices)-1]
}
