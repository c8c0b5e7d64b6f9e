package reconciler

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/penya-app/penya-backend/internal/club"
	"github.com/penya-app/penya-backend/internal/metrics"
	"github.com/penya-app/penya-backend/internal/pubsub"
	"github.com/penya-app/penya-backend/internal/stats"
	"golang.org/x/sync/errgroup"
)

// New creates a new Reconciler.
func New(store Store, seasons Seasons, metrics metrics.Metrics, pubsub pubsub.PubSubClient) *Reconciler {
	return &Reconciler{
		store:   store,
		seasons: seasons,
		metrics: metrics,
		pubsub:  pubsub,
	}
}

// ReconcilePlayerStat is invoked once per player-stat change event. It
// recomputes the match contribution for the player and folds the difference
// against the previously applied contribution into the season aggregate.
//
// Invocations for matches that are missing or not yet played, and for
// records without a valid team side, are defined no-ops: in-progress stat
// entry on unplayed matches must never pollute season totals. Those records
// are revisited when the match transitions to played (see HandleMatchUpdate).
func (r *Reconciler) ReconcilePlayerStat(ctx context.Context, matchID, playerID string) error {
	start := time.Now()
	defer func() {
		r.metrics.ObserveReconcileDuration(time.Since(start).Seconds())
	}()

	match, err := r.store.GetMatch(matchID)
	if err != nil {
		log.Error("Failed to load match for reconciliation", "error", err, "matchID", matchID)
		return fmt.Errorf("failed to load match %s: %w", matchID, err)
	}
	if match == nil {
		log.Debug("Match no longer exists, skipping reconciliation", "matchID", matchID)
		r.metrics.IncReconcilerSkips(skipMatchMissing)
		return nil
	}
	if match.Status != club.StatusPlayed {
		log.Debug("Match not played yet, skipping reconciliation", "matchID", matchID, "status", match.Status)
		r.metrics.IncReconcilerSkips(skipNotPlayed)
		return nil
	}

	stat, err := r.store.GetPlayerStat(matchID, playerID)
	if err != nil {
		log.Error("Failed to load player stat", "error", err, "matchID", matchID, "playerID", playerID)
		return fmt.Errorf("failed to load player stat: %w", err)
	}
	if stat == nil {
		log.Debug("Player stat no longer exists, skipping reconciliation", "matchID", matchID, "playerID", playerID)
		r.metrics.IncReconcilerSkips(skipStatMissing)
		return nil
	}
	if !stat.Team.Valid() {
		log.Warn("Player stat has no valid team assignment, skipping", "matchID", matchID, "playerID", playerID, "team", stat.Team)
		r.metrics.IncReconcilerSkips(skipInvalidTeam)
		return nil
	}

	contribution := stats.BuildContribution(stat.RawStats(), match.TeamA.Score, match.TeamB.Score)

	name := stat.Name
	if name == "" {
		name = playerID
	}

	if err := r.seasons.ApplyContribution(ctx, match.SeasonID, playerID, matchID, name, contribution); err != nil {
		log.Error("Failed to apply contribution", "error", err, "seasonID", match.SeasonID, "playerID", playerID, "matchID", matchID)
		return fmt.Errorf("failed to apply contribution: %w", err)
	}

	r.metrics.IncReconcilerRuns()
	log.Info("Reconciled player stat",
		"seasonID", match.SeasonID, "matchID", matchID, "playerID", playerID,
		"points", contribution.Points, "goals", contribution.Goals)
	return nil
}

// HandleMatchUpdate is invoked once per match update event with the status
// before and after the write. On a transition into played status it touches
// every stat record of the match and re-emits one player-stat-written event
// per record, so stats entered while the match was still scheduled get
// reconciled now that final scores are available. Any other transition is a
// no-op; in particular a match that was already played stays settled.
func (r *Reconciler) HandleMatchUpdate(ctx context.Context, matchID string, before, after club.MatchStatus) error {
	if before == club.StatusPlayed || after != club.StatusPlayed {
		log.Debug("Match update is not a transition into played, ignoring", "matchID", matchID, "before", before, "after", after)
		return nil
	}

	match, err := r.store.GetMatch(matchID)
	if err != nil {
		return fmt.Errorf("failed to load match %s: %w", matchID, err)
	}
	if match == nil {
		r.metrics.IncReconcilerSkips(skipMatchMissing)
		return nil
	}
	if match.TeamA.Score == 0 && match.TeamB.Score == 0 {
		// Legal but usually means the match was closed without
		// SetFinalScore; it will aggregate as a 0-0 draw.
		log.Warn("Match marked played with a 0-0 score", "matchID", matchID)
	}

	playerIDs, err := r.store.TouchPlayerStats(matchID)
	if err != nil {
		log.Error("Failed to touch player stats", "error", err, "matchID", matchID)
		return fmt.Errorf("failed to touch player stats: %w", err)
	}
	if len(playerIDs) == 0 {
		log.Info("No player stats to re-trigger for match", "matchID", matchID)
		return nil
	}

	g, _ := errgroup.WithContext(ctx)
	for _, playerID := range playerIDs {
		g.Go(func() error {
			return r.pubsub.SendMessage(pubsub.EventPlayerStatWritten, pubsub.StatEvent{
				MatchID:  matchID,
				PlayerID: playerID,
			})
		})
	}
	if err := g.Wait(); err != nil {
		log.Error("Failed to re-emit stat events after match transition", "error", err, "matchID", matchID)
		return fmt.Errorf("failed to re-emit stat events: %w", err)
	}

	r.metrics.AddStatsTouched(len(playerIDs))
	log.Info("Re-triggered reconciliation for played match", "matchID", matchID, "players", len(playerIDs))
	return nil
}
