package core

import (
	"pwooda/neulpum/internal/auth"
	"pwooda/neulpum/internal/history"
	"pwooda/neulpum/internal/session"
	"pwooda/neulpum/internal/transport"
)

// System bundles the process-wide collaborators the chat runtime
// depends on. Tests swap in mocks behind this interface.
type System interface {
	GetSessionStore() *session.Store
	GetTransport() transport.Transport
	GetVoiceTransport() transport.Transport
	GetCredentials() auth.Provider
	GetHistory() history.Store
}

type SystemImpl struct {
	Sessions    *session.Store
	Chat        transport.Transport
	Voice       transport.Transport
	Credentials auth.Provider
	History     history.Store
}

var _ System = (*SystemImpl)(nil)

func (s *SystemImpl) GetSessionStore() *session.Store {
	return s.Sessions
}

func (s *SystemImpl) GetTransport() transport.Transport {
	return s.Chat
}

func (s *SystemImpl) GetVoiceTransport() transport.Transport {
	return s.Voice
}

func (s *SystemImpl) GetCredentials() auth.Provider {
	return s.Credentials
}

func (s *SystemImpl) GetHistory() history.Store {
	return s.History
}
