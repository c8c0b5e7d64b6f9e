package season

import (
	"context"

	"github.com/penya-app/penya-backend/internal/stats"
)

// SeasonStore defines the interface for interacting with season rosters and
// per-player aggregates.
type SeasonStore interface {
	AddPlayersToSeason(seasonID string, players []RosterEntry) error
	RemovePlayerFromSeason(seasonID, playerID string) error
	ListSeasonPlayers(seasonID string, onlyActive bool) ([]Aggregate, error)
	GetAggregate(seasonID, playerID string) (*Aggregate, error)
	ApplyContribution(ctx context.Context, seasonID, playerID, matchID, name string, c stats.Contribution) error
	GetRanking(seasonID string) ([]Aggregate, error)
	Clear()
}
