package season

import (
	"database/sql"
	"sync"

	"github.com/penya-app/penya-backend/internal/metrics"
	"github.com/penya-app/penya-backend/internal/stats"
)

// store handles all database operations for season aggregates.
type store struct {
	db      *sql.DB
	metrics metrics.Metrics
	mu      sync.RWMutex
}

// RosterEntry is a player added to a season's roster.
type RosterEntry struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// Aggregate is a player's running season record: the totals vector plus the
// by-match ledger of the last contribution applied for each match. The
// ledger is what makes re-aggregation idempotent: for every match id it
// holds exactly what was last folded into the totals.
type Aggregate struct {
	SeasonID    string                        `json:"season_id"`
	PlayerID    string                        `json:"player_id"`
	Name        string                        `json:"name"`
	Active      bool                          `json:"active"`
	Totals      stats.Contribution            `json:"totals"`
	ByMatch     map[string]stats.Contribution `json:"by_match"`
	Version     int64                         `json:"-"`
	LastUpdated int64                         `json:"last_updated"`
}
