package reconciler

import (
	"context"

	"github.com/penya-app/penya-backend/internal/club"
	"github.com/penya-app/penya-backend/internal/stats"
)

// Store defines the match-store operations required by the reconciler.
type Store interface {
	GetMatch(matchID string) (*club.Match, error)
	GetPlayerStat(matchID, playerID string) (*club.PlayerStat, error)
	TouchPlayerStats(matchID string) ([]string, error)
}

// Seasons defines the aggregate-store operations required by the reconciler.
type Seasons interface {
	ApplyContribution(ctx context.Context, seasonID, playerID, matchID, name string, c stats.Contribution) error
}
