package ws

import (
	"encoding/json"

	"github.com/mitchellh/mapstructure"

	"merge-tactics-server/game"
)

// Inbound is the envelope for all client-to-server messages. Payload is
// decoded further per action by the command runner.
type Inbound struct {
	Type      string         `mapstructure:"type"`
	SessionID string         `mapstructure:"session_id"`
	Action    string         `mapstructure:"action"`
	Payload   map[string]any `mapstructure:"payload"`
}

// decodeInbound parses a raw frame into the envelope. JSON goes through a
// loose map first so the payload keeps its original types for RunCommand.
func decodeInbound(data []byte) (Inbound, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Inbound{}, err
	}
	var msg Inbound
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &msg,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return Inbound{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Inbound{}, err
	}
	return msg, nil
}

// --- Server-to-client messages ---

// StateMsg carries a full session snapshot, pushed after every mutation and
// on subscribe.
type StateMsg struct {
	Type      string        `json:"type"` // "state"
	SessionID string        `json:"session_id"`
	State     game.Snapshot `json:"state"`
}

// ResultMsg is the direct reply to a command frame.
type ResultMsg struct {
	Type      string       `json:"type"` // "result"
	SessionID string       `json:"session_id"`
	Action    string       `json:"action"`
	Result    game.Outcome `json:"result"`
}

// ErrorMsg is sent when a frame is malformed or a command is rejected.
type ErrorMsg struct {
	Type    string `json:"type"` // "error"
	Message string `json:"message"`
}
