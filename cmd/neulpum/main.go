package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mazznoer/colorgrad"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"pwooda/neulpum/internal/chat"
	"pwooda/neulpum/internal/config"
)

func main() {
	fmt.Printf("%s\n", getBanner())

	cmd := &cli.Command{
		Name:    "neulpum",
		Usage:   "terminal client for the Pwooda chat service",
		Version: "v" + chat.Version + " - streaming chat, voice chat and attachments",
		Flags:   config.GetFlags(),
		Action:  run,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		// Print to stderr first in case logger isn't initialized
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		zap.S().Fatal(err)
	}
}

func run(ctx context.Context, c *cli.Command) error {
	cfg := config.NewConfiguration(c)
	return chat.Run(ctx, cfg)
}

func getBanner() string {
	banner := `
                 _
 _ __   ___ _  _| |_ __ _  _ _ __
| '_ \ / _ \ || | | '_ \ || | '  \
|_| |_|\___|\_,_|_| .__/\_,_|_|_|_|
 늘품  ·  chat  · |_| voice  ·  vision  [v` + chat.Version + `]
`
	grad, _ := colorgrad.NewGradient().
		HtmlColors("#2bb673ff", "#fdfdfdff").
		Build()

	lines := strings.Split(banner, "\n")

	maxLen := 0
	for _, line := range lines {
		if len([]rune(line)) > maxLen {
			maxLen = len([]rune(line))
		}
	}

	colors := grad.Colors(uint(maxLen))
	var colored strings.Builder

	for _, line := range lines {
		for i, ch := range []rune(line) {
			r, g, b, _ := colors[i].RGBA255()
			colored.WriteString(fmt.Sprintf("\x1b[38;2;%d;%d;%dm%c", r, g, b, ch))
		}
		colored.WriteString("\x1b[0m\n")
	}

	return colored.String()
}
