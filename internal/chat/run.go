package chat

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"pwooda/neulpum/internal/config"
	"pwooda/neulpum/internal/core"
)

// Version is the client version reported by /version.
const Version = "0.3"

// Run starts the interactive terminal chat with the given
// configuration. It returns when stdin closes, /quit is entered or
// ctx is cancelled.
func Run(ctx context.Context, cfg *config.Configuration) error {
	core.InitLogger(cfg.App.Verbose)
	defer zap.L().Sync()

	if cfg.App.Verbose {
		cfg.PrintConfig()
	}

	sys, err := NewSystem(cfg)
	if err != nil {
		return err
	}

	registry := NewRegistry()
	registry.Register(&NewCommand{})
	registry.Register(&AttachCommand{})
	registry.Register(&VoiceCommand{})
	registry.Register(&HistoryCommand{})
	registry.Register(&WhoamiCommand{})
	registry.Register(NewHelpCommand(registry))
	registry.Register(&VersionCommand{Version: "v" + Version})
	registry.Register(&SendCommand{})

	zap.S().Infow("Ready", "server", cfg.Server.BaseURL)

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			fmt.Print("> ")
			continue
		}
		if line == "/quit" || line == "/exit" {
			return nil
		}

		chatCtx, cancel := NewChatContext(ctx, cfg, sys, os.Stdout, line)
		core.WithRequestLock(chatCtx, defaultSessionKey, "turn",
			func() { registry.Dispatch(chatCtx) },
			func() { chatCtx.Notice("previous turn is still running") },
		)
		cancel()
		fmt.Print("> ")
	}
	return scanner.Err()
}
