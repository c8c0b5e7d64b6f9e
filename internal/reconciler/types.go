package reconciler

import (
	"github.com/penya-app/penya-backend/internal/metrics"
	"github.com/penya-app/penya-backend/internal/pubsub"
)

// Reconciler keeps season totals consistent with the latest per-match
// contributions as player-stat records change.
type Reconciler struct {
	store   Store
	seasons Seasons
	metrics metrics.Metrics
	pubsub  pubsub.PubSubClient
}

// Skip reasons recorded when an invocation is a defined no-op.
const (
	skipMatchMissing = "match_missing"
	skipNotPlayed    = "match_not_played"
	skipStatMissing  = "stat_missing"
	skipInvalidTeam  = "invalid_team"
)
