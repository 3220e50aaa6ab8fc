package match

import (
	"fmt"
	"sync/atomic"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

// Stats - aggregated outcomes of a series of games.
type Stats struct {
	Games     int `json:"games"`
	BlackWins int `json:"black_wins"`
	WhiteWins int `json:"white_wins"`
	Draws     int `json:"draws"`
}

// Percent formats part of the total games with one decimal.
func (that Stats) Percent(part int) string {
	if that.Games == 0 {
		return "0.0%"
	}

	return fmt.Sprintf("%.1f%%", 100*float64(part)/float64(that.Games))
}

// counters is safe for use by several benchmark workers.
type counters struct {
	games     atomic.Int64
	blackWins atomic.Int64
	whiteWins atomic.Int64
	draws     atomic.Int64
}

func (that *counters) record(winner entity.Stone) {
	that.games.Add(1)

	switch winner {
	case entity.Black:
		that.blackWins.Add(1)
	case entity.White:
		that.whiteWins.Add(1)
	default:
		that.draws.Add(1)
	}
}

func (that *counters) snapshot() Stats {
	return Stats{
		Games:     int(that.games.Load()),
		BlackWins: int(that.blackWins.Load()),
		WhiteWins: int(that.whiteWins.Load()),
		Draws:     int(that.draws.Load()),
	}
}
