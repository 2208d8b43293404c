package chat

import (
	"go.uber.org/zap"

	"pwooda/neulpum/internal/auth"
	"pwooda/neulpum/internal/config"
	"pwooda/neulpum/internal/core"
	"pwooda/neulpum/internal/history"
	"pwooda/neulpum/internal/session"
	"pwooda/neulpum/internal/transport"
)

// NewSystem wires the process-wide collaborators from configuration.
func NewSystem(cfg *config.Configuration) (core.System, error) {
	var creds auth.Provider
	if cfg.Auth.CredentialsFile != "" {
		store, err := auth.NewFileStore(cfg.Auth.CredentialsFile)
		if err != nil {
			return nil, err
		}
		creds = store
		zap.S().Infow("Loaded credentials file", "path", cfg.Auth.CredentialsFile)
	} else {
		creds = auth.Static{
			Token:  cfg.Auth.AccessToken,
			OrgKey: cfg.Auth.OrganizationKey,
		}
	}

	sys := &core.SystemImpl{
		Sessions:    session.NewStore(cfg.Session.TTL),
		Chat:        transport.NewSSEClient(cfg.Server.BaseURL, cfg.Server.Timeout, creds),
		Voice:       transport.NewWSClient(cfg.Server.VoiceURL, cfg.Server.Timeout, creds),
		Credentials: creds,
	}

	store, err := history.NewFileStore(cfg.App.HistoryDir)
	if err != nil {
		zap.S().Warnw("Failed to initialize history store", "error", err)
	} else {
		sys.History = store
	}

	return sys, nil
}
