package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/usecase"
)

const (
	actionConnect   = "connect"
	actionGameNew   = "game:new"
	actionGameTurn  = "game:turn"
	actionGameState = "game:state"
	actionGameLeave = "game:leave"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload is shared by requests and responses; each action reads the fields it needs.
type Payload struct {
	PlayerID string             `json:"player_id,omitempty"`
	Opponent string             `json:"opponent,omitempty"`
	Stone    entity.Stone       `json:"stone,omitempty"`
	Move     *entity.Move       `json:"move,omitempty"`
	Game     *usecase.GameState `json:"game,omitempty"`
	Error    string             `json:"error,omitempty"`
}
