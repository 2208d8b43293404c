package chat

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"pwooda/neulpum/internal/auth"
	"pwooda/neulpum/internal/history"
	"pwooda/neulpum/internal/media"
)

// SendCommand is the default: the whole line is a chat message.
type SendCommand struct{}

func (c *SendCommand) Name() string { return "" }

func (c *SendCommand) Execute(ctx ChatContextInterface) {
	text := strings.Join(ctx.GetArgs(), " ")
	if text == "" {
		return
	}
	SubmitTurn(ctx, text, nil, ctx.GetSystem().GetTransport())
}

// NewCommand starts a fresh conversation, abandoning any in-flight
// turn.
type NewCommand struct{}

func (c *NewCommand) Name() string { return "/new" }

func (c *NewCommand) Execute(ctx ChatContextInterface) {
	ctx.GetSession().Reset()
	ctx.Notice("started a new conversation")
}

// AttachCommand sends a message with an image attachment:
// /attach <path> [message]
type AttachCommand struct{}

func (c *AttachCommand) Name() string { return "/attach" }

func (c *AttachCommand) Execute(ctx ChatContextInterface) {
	args := ctx.GetArgs()
	if len(args) < 2 {
		ctx.Notice("usage: /attach <path> [message]")
		return
	}

	f, err := os.Open(args[1])
	if err != nil {
		ctx.Notice(fmt.Sprintf("cannot open %s: %v", args[1], err))
		return
	}
	defer f.Close()

	image, err := media.Prepare(f)
	if err != nil {
		ctx.Notice(fmt.Sprintf("cannot attach %s: %v", args[1], err))
		return
	}

	text := strings.Join(args[2:], " ")
	SubmitTurn(ctx, text, image, ctx.GetSystem().GetTransport())
}

// VoiceCommand sends one message over the voice-chat websocket
// endpoint instead of the SSE stream.
type VoiceCommand struct{}

func (c *VoiceCommand) Name() string { return "/voice" }

func (c *VoiceCommand) Execute(ctx ChatContextInterface) {
	text := strings.Join(ctx.GetArgs()[1:], " ")
	if text == "" {
		ctx.Notice("usage: /voice <message>")
		return
	}
	SubmitTurn(ctx, text, nil, ctx.GetSystem().GetVoiceTransport())
}

// HistoryCommand shows the tail of the local transcript for the
// current conversation.
type HistoryCommand struct{}

func (c *HistoryCommand) Name() string { return "/history" }

func (c *HistoryCommand) Execute(ctx ChatContextInterface) {
	store := ctx.GetSystem().GetHistory()
	if store == nil {
		ctx.Notice("history is not available")
		return
	}

	key := ctx.GetSession().ConversationID()
	if key == "" {
		key = ctx.GetSession().Name
	}

	lines, count, err := store.Get(key, history.Filter{Limit: 10})
	if err != nil {
		ctx.Notice(fmt.Sprintf("cannot read history: %v", err))
		return
	}
	if count == 0 {
		ctx.Notice("no transcript yet")
		return
	}
	for _, line := range lines {
		ctx.Reply(line)
	}
}

// WhoamiCommand shows the stored identity, if any.
type WhoamiCommand struct{}

func (c *WhoamiCommand) Name() string { return "/whoami" }

func (c *WhoamiCommand) Execute(ctx ChatContextInterface) {
	creds := ctx.GetSystem().GetCredentials()
	fs, ok := creds.(*auth.FileStore)
	if !ok {
		if creds != nil && creds.AccessToken() != "" {
			ctx.Notice("signed in with a static token")
		} else {
			ctx.Notice("not signed in")
		}
		return
	}

	current := fs.Current()
	if current.Email == "" && current.Name == "" {
		ctx.Notice("not signed in")
		return
	}
	ctx.Notice(fmt.Sprintf("%s <%s>", current.Name, current.Email))
}

// HelpCommand lists the registered commands.
type HelpCommand struct {
	registry *Registry
}

// NewHelpCommand creates a help command that can list registered commands
func NewHelpCommand(registry *Registry) *HelpCommand {
	return &HelpCommand{registry: registry}
}

func (c *HelpCommand) Name() string { return "/help" }

func (c *HelpCommand) Execute(ctx ChatContextInterface) {
	var names []string
	for _, cmd := range c.registry.All() {
		if name := cmd.Name(); name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	ctx.Notice("supported commands: " + strings.Join(names, ", ") + ", /quit")
}

// VersionCommand reports the client version.
type VersionCommand struct {
	Version string
}

func (c *VersionCommand) Name() string { return "/version" }

func (c *VersionCommand) Execute(ctx ChatContextInterface) {
	ctx.Notice("neulpum " + c.Version)
}
