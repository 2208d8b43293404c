package chat

import (
	"encoding/base64"
	"fmt"
	"time"

	"pwooda/neulpum/internal/core"
	"pwooda/neulpum/internal/events"
	"pwooda/neulpum/internal/session"
	"pwooda/neulpum/internal/transport"
)

// SubmitTurn runs one full turn: it registers the user message and
// placeholder with the session, opens the stream on tr and folds
// every event back into the session in arrival order, rendering as it
// goes. It returns once the turn reaches a terminal state.
func SubmitTurn(ctx ChatContextInterface, text string, image []byte, tr transport.Transport) {
	sess := ctx.GetSession()

	turn, err := sess.StartTurn(text, image)
	if err != nil {
		ctx.Notice(err.Error())
		return
	}

	logger := core.WithTurn(ctx.GetLogger(), sess.Name, turn.Generation)
	defer core.LogDuration(logger, "turn", time.Now())
	logger.Infow("Submitting turn", "chars", len(text), "image", len(image) > 0)

	req := transport.Request{
		Text:           text,
		ConversationID: sess.ConversationID(),
	}
	if len(image) > 0 {
		req.Image = base64.StdEncoding.EncodeToString(image)
	}

	render := NewChunker(ctx.Reply, ctx.GetConfig().Session.ChunkMax)

	for ev := range tr.Stream(ctx, req) {
		sess.ApplyEvent(turn.Generation, ev)

		switch ev := ev.(type) {
		case events.Step:
			ctx.Notice(formatStep(ev))
		case events.Final:
			render.Write(ev.Result)
			render.Flush()
			recordTranscript(ctx, text, ev.Result)
		case events.Error:
			ctx.Notice(ev.Message)
			logger.Warnw("Turn failed", "message", ev.Message)
		}
	}

	// A cancelled context can end the stream without a terminal
	// event; never leave the placeholder streaming.
	if sess.State() != session.StateIdle {
		sess.CancelTurn(turn.Generation)
		ctx.Notice("response cancelled")
	}

	select {
	case id := <-sess.ConversationCreated():
		logger.Infow("Conversation created", "conversation_id", id)
		ctx.Notice("conversation " + id)
	default:
	}
}

// formatStep renders one progress update as a transient status line.
func formatStep(step events.Step) string {
	line := fmt.Sprintf("[%s] %s", step.Stage, step.Detail)
	if step.Tool != "" {
		line += " (" + step.Tool + ")"
	}
	if step.Result != "" {
		line += ": " + step.Result
	}
	return line
}

// recordTranscript appends the finalized turn to the local history.
// Only user text and the final assistant reply are written; tool
// progress stays ephemeral.
func recordTranscript(ctx ChatContextInterface, userText, reply string) {
	store := ctx.GetSystem().GetHistory()
	if store == nil {
		return
	}

	key := ctx.GetSession().ConversationID()
	if key == "" {
		key = ctx.GetSession().Name
	}
	if err := store.Add(key, string(session.AuthorUser), userText); err != nil {
		ctx.GetLogger().Warnw("Failed to record user message", "error", err)
		return
	}
	if err := store.Add(key, string(session.AuthorAssistant), reply); err != nil {
		ctx.GetLogger().Warnw("Failed to record assistant reply", "error", err)
	}
}
