package reconciler

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/penya-app/penya-backend/internal/club"
	"github.com/penya-app/penya-backend/internal/database"
	"github.com/penya-app/penya-backend/internal/metrics"
	"github.com/penya-app/penya-backend/internal/pubsub"
	"github.com/penya-app/penya-backend/internal/season"
	"github.com/penya-app/penya-backend/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func playedMatch(matchID string, scoreA, scoreB int) *club.Match {
	return &club.Match{
		ID:       matchID,
		SeasonID: "season-1",
		Status:   club.StatusPlayed,
		TeamA:    club.TeamRecord{Name: "Reds", Score: scoreA},
		TeamB:    club.TeamRecord{Name: "Blues", Score: scoreB},
	}
}

func TestReconcilePlayerStatSkips(t *testing.T) {
	ctx := context.Background()

	t.Run("missing match", func(t *testing.T) {
		store := club.NewMock()
		seasons := season.NewMock()
		m := metrics.NewMock()
		r := New(store, seasons, m, pubsub.NewMock("test"))

		err := r.ReconcilePlayerStat(ctx, "match-1", "player-1")
		require.NoError(t, err)
		assert.Empty(t, seasons.ApplyContributionCalls)
		assert.Equal(t, 1, m.ReconcilerSkipsByReason[skipMatchMissing])
	})

	t.Run("match not played", func(t *testing.T) {
		store := club.NewMock()
		store.GetMatchFunc = func(matchID string) (*club.Match, error) {
			return &club.Match{ID: matchID, SeasonID: "season-1", Status: club.StatusScheduled}, nil
		}
		seasons := season.NewMock()
		m := metrics.NewMock()
		r := New(store, seasons, m, pubsub.NewMock("test"))

		err := r.ReconcilePlayerStat(ctx, "match-1", "player-1")
		require.NoError(t, err)
		assert.Empty(t, seasons.ApplyContributionCalls)
		assert.Equal(t, 1, m.ReconcilerSkipsByReason[skipNotPlayed])
	})

	t.Run("missing stat record", func(t *testing.T) {
		store := club.NewMock()
		store.GetMatchFunc = func(matchID string) (*club.Match, error) {
			return playedMatch(matchID, 2, 1), nil
		}
		seasons := season.NewMock()
		m := metrics.NewMock()
		r := New(store, seasons, m, pubsub.NewMock("test"))

		err := r.ReconcilePlayerStat(ctx, "match-1", "player-1")
		require.NoError(t, err)
		assert.Empty(t, seasons.ApplyContributionCalls)
		assert.Equal(t, 1, m.ReconcilerSkipsByReason[skipStatMissing])
	})

	t.Run("invalid team side", func(t *testing.T) {
		store := club.NewMock()
		store.GetMatchFunc = func(matchID string) (*club.Match, error) {
			return playedMatch(matchID, 2, 1), nil
		}
		store.GetPlayerStatFunc = func(matchID, playerID string) (*club.PlayerStat, error) {
			return &club.PlayerStat{MatchID: matchID, PlayerID: playerID, Team: "", Goals: 1}, nil
		}
		seasons := season.NewMock()
		m := metrics.NewMock()
		r := New(store, seasons, m, pubsub.NewMock("test"))

		err := r.ReconcilePlayerStat(ctx, "match-1", "player-1")
		require.NoError(t, err)
		assert.Empty(t, seasons.ApplyContributionCalls)
		assert.Equal(t, 1, m.ReconcilerSkipsByReason[skipInvalidTeam])
	})

	t.Run("store error is returned", func(t *testing.T) {
		store := club.NewMock()
		store.GetMatchFunc = func(matchID string) (*club.Match, error) {
			return nil, errors.New("db closed")
		}
		r := New(store, season.NewMock(), metrics.NewMock(), pubsub.NewMock("test"))

		err := r.ReconcilePlayerStat(ctx, "match-1", "player-1")
		assert.Error(t, err)
	})
}

func TestReconcilePlayerStatAppliesContribution(t *testing.T) {
	ctx := context.Background()

	store := club.NewMock()
	store.GetMatchFunc = func(matchID string) (*club.Match, error) {
		return playedMatch(matchID, 2, 1), nil
	}
	store.GetPlayerStatFunc = func(matchID, playerID string) (*club.PlayerStat, error) {
		return &club.PlayerStat{
			MatchID: matchID, PlayerID: playerID,
			Team: stats.TeamA, Goals: 1, Name: "Marta",
		}, nil
	}
	seasons := season.NewMock()
	m := metrics.NewMock()
	r := New(store, seasons, m, pubsub.NewMock("test"))

	err := r.ReconcilePlayerStat(ctx, "match-1", "player-1")
	require.NoError(t, err)

	require.Len(t, seasons.ApplyContributionCalls, 1)
	call := seasons.ApplyContributionCalls[0]
	assert.Equal(t, "season-1", call.SeasonID)
	assert.Equal(t, "player-1", call.PlayerID)
	assert.Equal(t, "match-1", call.MatchID)
	assert.Equal(t, "Marta", call.Name)
	assert.Equal(t, stats.Contribution{
		MatchesPlayed:    1,
		Wins:             1,
		Goals:            1,
		Points:           stats.PointsWin,
		GoalInvolvements: 1,
	}, call.Contribution)
	assert.Equal(t, 1, m.ReconcilerRunsCount)
	assert.Len(t, m.ReconcileDurations, 1)

	t.Run("player id stands in for a missing name", func(t *testing.T) {
		store.GetPlayerStatFunc = func(matchID, playerID string) (*club.PlayerStat, error) {
			return &club.PlayerStat{MatchID: matchID, PlayerID: playerID, Team: stats.TeamB}, nil
		}
		require.NoError(t, r.ReconcilePlayerStat(ctx, "match-1", "player-2"))

		call := seasons.ApplyContributionCalls[len(seasons.ApplyContributionCalls)-1]
		assert.Equal(t, "player-2", call.Name)
	})
}

func TestHandleMatchUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("ignores transitions not into played", func(t *testing.T) {
		store := club.NewMock()
		ps := pubsub.NewMock("test")
		r := New(store, season.NewMock(), metrics.NewMock(), ps)

		require.NoError(t, r.HandleMatchUpdate(ctx, "match-1", club.StatusScheduled, club.StatusScheduled))
		require.NoError(t, r.HandleMatchUpdate(ctx, "match-1", club.StatusPlayed, club.StatusPlayed))
		assert.Empty(t, store.GetMatchCalls)
		assert.Empty(t, ps.SendMessageCalls)
	})

	t.Run("re-emits one stat event per touched record", func(t *testing.T) {
		store := club.NewMock()
		store.GetMatchFunc = func(matchID string) (*club.Match, error) {
			return playedMatch(matchID, 2, 1), nil
		}
		store.TouchPlayerStatsFunc = func(matchID string) ([]string, error) {
			return []string{"player-1", "player-2", "player-3"}, nil
		}
		ps := pubsub.NewMock("test")
		m := metrics.NewMock()
		r := New(store, season.NewMock(), m, ps)

		require.NoError(t, r.HandleMatchUpdate(ctx, "match-1", club.StatusScheduled, club.StatusPlayed))

		require.Len(t, ps.SendMessageCalls, 3)
		seen := map[string]bool{}
		for _, call := range ps.SendMessageCalls {
			assert.Equal(t, string(pubsub.EventPlayerStatWritten), call.Topic)
			event, ok := call.Data.(pubsub.StatEvent)
			require.True(t, ok)
			assert.Equal(t, "match-1", event.MatchID)
			seen[event.PlayerID] = true
		}
		assert.Len(t, seen, 3, "each player gets exactly one event")
		assert.Equal(t, 3, m.StatsTouchedTotal)
	})

	t.Run("no stats to touch", func(t *testing.T) {
		store := club.NewMock()
		store.GetMatchFunc = func(matchID string) (*club.Match, error) {
			return playedMatch(matchID, 0, 0), nil
		}
		ps := pubsub.NewMock("test")
		r := New(store, season.NewMock(), metrics.NewMock(), ps)

		require.NoError(t, r.HandleMatchUpdate(ctx, "match-1", club.StatusScheduled, club.StatusPlayed))
		assert.Empty(t, ps.SendMessageCalls)
	})

	t.Run("publish failure propagates", func(t *testing.T) {
		store := club.NewMock()
		store.GetMatchFunc = func(matchID string) (*club.Match, error) {
			return playedMatch(matchID, 2, 1), nil
		}
		store.TouchPlayerStatsFunc = func(matchID string) ([]string, error) {
			return []string{"player-1"}, nil
		}
		ps := pubsub.NewMock("test")
		ps.SendMessageFunc = func(topic pubsub.EventType, data any) error {
			return errors.New("broker unavailable")
		}
		r := New(store, season.NewMock(), metrics.NewMock(), ps)

		err := r.HandleMatchUpdate(ctx, "match-1", club.StatusScheduled, club.StatusPlayed)
		assert.Error(t, err)
	})
}

// End-to-end against real stores: stats entered while the match was still
// scheduled are picked up once the match is closed.
func TestReconcileAgainstDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, teardown, err := database.InitDB(dbPath, "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(teardown)

	clubStore := club.New(db)
	seasonStore := season.New(db, metrics.NewMock())
	ps := pubsub.NewMock("test")
	r := New(clubStore, seasonStore, metrics.NewMock(), ps)
	ctx := context.Background()

	matchID, err := clubStore.CreateMatch("season-1", time.Now().Unix(), "Reds", "Blues")
	require.NoError(t, err)
	require.NoError(t, clubStore.UpsertPlayerStat(&club.PlayerStat{
		MatchID: matchID, PlayerID: "player-1", Team: stats.TeamA, Goals: 1, Name: "Marta",
	}))

	// Stat written while the match is still scheduled: nothing aggregates.
	require.NoError(t, r.ReconcilePlayerStat(ctx, matchID, "player-1"))
	agg, err := seasonStore.GetAggregate("season-1", "player-1")
	require.NoError(t, err)
	assert.Nil(t, agg)

	// Close the match and run the transition handler, then deliver the
	// re-emitted events as the push subscription would.
	require.NoError(t, clubStore.SetFinalScore(matchID, 2, 1))
	before, err := clubStore.MarkPlayed(matchID)
	require.NoError(t, err)
	require.NoError(t, r.HandleMatchUpdate(ctx, matchID, before, club.StatusPlayed))

	require.Len(t, ps.SendMessageCalls, 1)
	event := ps.SendMessageCalls[0].Data.(pubsub.StatEvent)
	require.NoError(t, r.ReconcilePlayerStat(ctx, event.MatchID, event.PlayerID))

	agg, err = seasonStore.GetAggregate("season-1", "player-1")
	require.NoError(t, err)
	require.NotNil(t, agg)
	assert.Equal(t, stats.Contribution{
		MatchesPlayed:    1,
		Wins:             1,
		Goals:            1,
		Points:           stats.PointsWin,
		GoalInvolvements: 1,
	}, agg.Totals)

	t.Run("correcting the record nets the difference", func(t *testing.T) {
		require.NoError(t, clubStore.UpsertPlayerStat(&club.PlayerStat{
			MatchID: matchID, PlayerID: "player-1", Team: stats.TeamA, Goals: 2, Assists: 1, Name: "Marta",
		}))
		require.NoError(t, r.ReconcilePlayerStat(ctx, matchID, "player-1"))

		agg, err := seasonStore.GetAggregate("season-1", "player-1")
		require.NoError(t, err)
		assert.Equal(t, stats.Contribution{
			MatchesPlayed:    1,
			Wins:             1,
			Goals:            2,
			Assists:          1,
			Points:           stats.PointsWin,
			GoalInvolvements: 3,
		}, agg.Totals)
	})
}
