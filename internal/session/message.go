package session

// Author identifies who produced a message.
type Author string

const (
	AuthorUser      Author = "user"
	AuthorAssistant Author = "assistant"
)

// Message is one entry in a conversation's ordered list. Content is
// mutable only while Streaming is true; insertion order is the only
// ordering guarantee the list makes.
type Message struct {
	ID         string
	Author     Author
	Content    string
	Streaming  bool
	ToolName   string
	ToolResult string
	Image      []byte

	// ephemeral marks tool progress messages that exist only while a
	// turn is in flight and are dropped when it reaches a terminal
	// state. They are never written to history.
	ephemeral bool
}

// WorkflowStep is one progress update for the in-flight turn. Steps
// accumulate for the duration of one turn and are discarded at Final
// or Error.
type WorkflowStep struct {
	Stage  string
	Detail string
	Tool   string
	Result string
}
