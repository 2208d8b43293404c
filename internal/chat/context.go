package chat

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"pwooda/neulpum/internal/config"
	"pwooda/neulpum/internal/core"
	"pwooda/neulpum/internal/session"
)

// defaultSessionKey names the single session a terminal runs. A /new
// command resets it rather than creating a sibling.
const defaultSessionKey = "terminal"

// ChatContextInterface carries everything a command needs to handle
// one line of input.
type ChatContextInterface interface {
	context.Context

	GetCommand() string
	GetArgs() []string

	Reply(string)
	Notice(string)

	GetSession() *session.Session
	GetConfig() *config.Configuration
	GetSystem() core.System
	GetLogger() *zap.SugaredLogger
}

type ChatContext struct {
	context.Context
	cfg       *config.Configuration
	sys       core.System
	sess      *session.Session
	args      []string
	logger    *zap.SugaredLogger
	out       io.Writer
	requestID string
}

var _ ChatContextInterface = (*ChatContext)(nil)

// NewChatContext scopes one line of user input: a timeout bounded by
// the configured turn timeout, a request-scoped logger and the
// terminal's session.
func NewChatContext(parent context.Context, cfg *config.Configuration, sys core.System, out io.Writer, line string) (ChatContextInterface, context.CancelFunc) {
	timed, cancel := context.WithTimeout(parent, cfg.Server.Timeout)

	requestID := generateRequestID()
	ctx := &ChatContext{
		Context:   timed,
		cfg:       cfg,
		sys:       sys,
		sess:      sys.GetSessionStore().Get(defaultSessionKey),
		args:      strings.Fields(line),
		out:       out,
		requestID: requestID,
		logger: zap.S().With(
			"request_id", requestID,
			"session", defaultSessionKey,
		),
	}
	return ctx, cancel
}

// GetCommand returns the slash command this line carries, or "" for a
// plain chat message.
func (c *ChatContext) GetCommand() string {
	if len(c.args) > 0 && strings.HasPrefix(c.args[0], "/") {
		return strings.ToLower(c.args[0])
	}
	return ""
}

func (c *ChatContext) GetArgs() []string {
	return c.args
}

// Reply prints assistant-facing output.
func (c *ChatContext) Reply(message string) {
	fmt.Fprintln(c.out, message)
}

// Notice prints client-side status lines, visually distinct from
// assistant output.
func (c *ChatContext) Notice(message string) {
	fmt.Fprintf(c.out, "-- %s\n", message)
}

func (c *ChatContext) GetSession() *session.Session {
	return c.sess
}

func (c *ChatContext) GetConfig() *config.Configuration {
	return c.cfg
}

func (c *ChatContext) GetSystem() core.System {
	return c.sys
}

func (c *ChatContext) GetLogger() *zap.SugaredLogger {
	return c.logger
}

// generateRequestID creates a unique 8-character request ID for correlation
func generateRequestID() string {
	b := make([]byte, 4)
	rand.Read(b)
	return hex.EncodeToString(b)
}
