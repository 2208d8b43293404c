package events

import "encoding/json"

// wireFrame mirrors the server's frame payload. Field names are owned
// by the server; additive fields are ignored by encoding/json.
type wireFrame struct {
	Type           string `json:"type"`
	Stage          string `json:"stage"`
	Detail         string `json:"detail"`
	Tool           string `json:"tool"`
	Result         string `json:"result"`
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
}

// Decode classifies one raw frame payload into an Event. It is a pure
// function and never fails: malformed JSON and unrecognized frame
// types decode to Unknown.
func Decode(data []byte) Event {
	var f wireFrame
	if err := json.Unmarshal(data, &f); err != nil {
		return Unknown{}
	}

	switch f.Type {
	case "step":
		return Step{Stage: f.Stage, Detail: f.Detail, Tool: f.Tool, Result: f.Result}
	case "final":
		return Final{Result: f.Result, ConversationID: f.ConversationID}
	case "error":
		return Error{Message: f.Message}
	default:
		return Unknown{}
	}
}
