package club

import (
	"database/sql"
	"errors"
	"sync"

	"github.com/penya-app/penya-backend/internal/stats"
)

// store handles all database operations for matches and player stats.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// MatchStatus is the lifecycle status of a match.
type MatchStatus string

const (
	StatusScheduled MatchStatus = "scheduled"
	StatusPlayed    MatchStatus = "played"
)

// ErrMatchAlreadyPlayed is returned when a caller tries to change the final
// score of a match that has already been marked played. The season ledger
// caches scores implicitly, so post-played score edits are forbidden.
var ErrMatchAlreadyPlayed = errors.New("match already marked played")

// ErrMatchNotFound is returned for operations on a missing match.
var ErrMatchNotFound = errors.New("match not found")

// TeamRecord is one side of a match.
type TeamRecord struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Match is one scheduled or played game between two named teams.
type Match struct {
	ID        string      `json:"id"`
	SeasonID  string      `json:"season_id"`
	Date      int64       `json:"date"`
	Status    MatchStatus `json:"status"`
	TeamA     TeamRecord  `json:"team_a"`
	TeamB     TeamRecord  `json:"team_b"`
	CreatedAt int64       `json:"created_at"`
	UpdatedAt int64       `json:"updated_at"`
}

// PlayerStat is one player's raw recorded events for one match.
type PlayerStat struct {
	MatchID     string         `json:"match_id"`
	PlayerID    string         `json:"player_id"`
	Team        stats.TeamSide `json:"team"`
	Goals       int            `json:"goals"`
	Assists     int            `json:"assists"`
	YellowCards int            `json:"yellow_cards"`
	RedCards    int            `json:"red_cards"`
	Name        string         `json:"name"`
	UpdatedAt   int64          `json:"updated_at"`
	TouchedAt   int64          `json:"touched_at,omitempty"`
}

// RawStats converts the record into the calculator's input shape.
func (ps *PlayerStat) RawStats() stats.RawStats {
	return stats.RawStats{
		Team:        ps.Team,
		Goals:       ps.Goals,
		Assists:     ps.Assists,
		YellowCards: ps.YellowCards,
		RedCards:    ps.RedCards,
	}
}
