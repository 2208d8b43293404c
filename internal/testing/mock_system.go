package testing

import (
	"time"

	"pwooda/neulpum/internal/auth"
	"pwooda/neulpum/internal/core"
	"pwooda/neulpum/internal/events"
	"pwooda/neulpum/internal/history"
	"pwooda/neulpum/internal/session"
	"pwooda/neulpum/internal/transport"
)

// MockSystem implements core.System for testing
type MockSystem struct {
	Sessions    *session.Store
	Chat        transport.Transport
	Voice       transport.Transport
	Credentials auth.Provider
	History     history.Store
}

var _ core.System = (*MockSystem)(nil)

// NewMockSystem creates a MockSystem with sensible defaults
func NewMockSystem() *MockSystem {
	return &MockSystem{
		Sessions: session.NewStore(time.Minute * 10),
		Chat: &MockTransport{
			Events: []events.Event{events.Final{Result: "hello from mock transport"}},
		},
		Voice: &MockTransport{
			Events: []events.Event{events.Final{Result: "hello from mock voice"}},
		},
		Credentials: auth.Static{Token: "test-token", OrgKey: "test-org"},
	}
}

func (m *MockSystem) GetSessionStore() *session.Store { return m.Sessions }
func (m *MockSystem) GetTransport() transport.Transport { return m.Chat }
func (m *MockSystem) GetVoiceTransport() transport.Transport { return m.Voice }
func (m *MockSystem) GetCredentials() auth.Provider { return m.Credentials }
func (m *MockSystem) GetHistory() history.Store { return m.History }
