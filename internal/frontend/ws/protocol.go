// Package ws serves sugoroku games over WebSocket with a JSON message
// envelope, one game per connection.
package ws

import (
	"encoding/json"

	"github.com/cory-johannsen/sugoroku/internal/game/narration"
	"github.com/cory-johannsen/sugoroku/internal/game/state"
)

// Message is the envelope of every frame in both directions.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Client to server message types.
const (
	TypeStart  = "start"
	TypeNext   = "next"
	TypeSave   = "save"
	TypeLoad   = "load"
	TypeReplay = "replay"
)

// Server to client message types.
const (
	TypeLog        = "log"
	TypeAwait      = "await"
	TypeGameOver   = "game_over"
	TypeCheckpoint = "checkpoint"
	TypeReplayCode = "replay_code"
	TypeLoadQueued = "load_queued"
	TypeLoaded     = "loaded"
	TypeError      = "error"
)

// StartPayload begins a game. A non-empty Replay reproduces a recorded game.
type StartPayload struct {
	ComputerPlayers *int   `json:"computer_players,omitempty"`
	Replay          string `json:"replay,omitempty"`
}

// TokenPayload carries a checkpoint token or a replay code.
type TokenPayload struct {
	Token string `json:"token"`
}

// GameOverPayload ends a game.
type GameOverPayload struct {
	Message  string   `json:"message"`
	Trophies []Trophy `json:"trophies,omitempty"`
}

// Trophy is one trophy earned in the game.
type Trophy struct {
	Name      string `json:"name"`
	FirstTime bool   `json:"first_time"`
}

func trophies(earned []state.EarnedTrophy) []Trophy {
	out := make([]Trophy, len(earned))
	for i, e := range earned {
		out[i] = Trophy{Name: e.Name, FirstTime: e.FirstTime}
	}
	return out
}

// ErrorPayload reports a rejected request; the connection stays open.
type ErrorPayload struct {
	Message string `json:"message"`
}

func encode(typ string, payload any) ([]byte, error) {
	m := Message{Type: typ}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		m.Payload = raw
	}
	return json.Marshal(m)
}

func logFrame(l narration.Log) ([]byte, error) {
	return encode(TypeLog, l)
}
