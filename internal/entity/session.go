package entity

import "time"

const (
	StatusOngoing  = "ongoing"
	StatusFinished = "finished"
)

// Session is a remote human's game against a server side agent. The board is
// not stored; it is rebuilt from Moves.
type Session struct {
	ID         string `json:"id"`
	PlayerID   string `json:"player_id"`
	BoardSize  int    `json:"board_size"`
	HumanStone Stone  `json:"human_stone"`
	Opponent   string `json:"opponent"`
	Moves      []Move `json:"moves"`
	Status     string `json:"status"`
	Winner     Stone  `json:"winner"`
}

func NewSession(id, playerID, opponent string, boardSize int, human Stone) *Session {
	return &Session{
		ID:         id,
		PlayerID:   playerID,
		BoardSize:  boardSize,
		HumanStone: human,
		Opponent:   opponent,
		Moves:      []Move{},
		Status:     StatusOngoing,
	}
}

func (that *Session) AgentStone() Stone {
	return that.HumanStone.Opponent()
}

func (that *Session) IsFinished() bool {
	return that.Status == StatusFinished
}

// MatchRecord is the stored result of a finished game.
type MatchRecord struct {
	ID         string    `json:"id"`
	Black      string    `json:"black"`
	White      string    `json:"white"`
	BoardSize  int       `json:"board_size"`
	Winner     Stone     `json:"winner"`
	Moves      []Move    `json:"moves"`
	FinishedAt time.Time `json:"finished_at"`
}
