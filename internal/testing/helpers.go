package testing

import (
	"time"

	"pwooda/neulpum/internal/config"
)

// DefaultTestConfig returns a minimal configuration for testing
func DefaultTestConfig() *config.Configuration {
	return &config.Configuration{
		Server: &config.ServerConfig{
			BaseURL:  "http://chat.test.local",
			VoiceURL: "ws://chat.test.local/voice/stream",
			Timeout:  time.Second * 30,
		},
		Auth: &config.AuthConfig{
			AccessToken:     "test-token",
			OrganizationKey: "test-org",
		},
		Session: &config.SessionConfig{
			TTL:      time.Minute * 10,
			ChunkMax: 100,
		},
		App: &config.AppConfig{
			Verbose:    false,
			HistoryDir: "",
		},
	}
}
