package club

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/penya-app/penya-backend/internal/database"
	"github.com/penya-app/penya-backend/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) ClubStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, teardown, err := database.InitDB(dbPath, "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(teardown)
	return New(db)
}

func TestCreateAndGetMatch(t *testing.T) {
	store := setupTestStore(t)

	date := time.Now().Unix()
	matchID, err := store.CreateMatch("season-1", date, "Reds", "Blues")
	require.NoError(t, err)
	require.NotEmpty(t, matchID)

	match, err := store.GetMatch(matchID)
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, "season-1", match.SeasonID)
	assert.Equal(t, date, match.Date)
	assert.Equal(t, StatusScheduled, match.Status)
	assert.Equal(t, "Reds", match.TeamA.Name)
	assert.Equal(t, "Blues", match.TeamB.Name)
	assert.Equal(t, 0, match.TeamA.Score)
	assert.Equal(t, 0, match.TeamB.Score)

	t.Run("missing match returns nil without error", func(t *testing.T) {
		match, err := store.GetMatch("no-such-match")
		require.NoError(t, err)
		assert.Nil(t, match)
	})
}

func TestGetAllMatches(t *testing.T) {
	store := setupTestStore(t)

	older, err := store.CreateMatch("season-1", 1000, "Reds", "Blues")
	require.NoError(t, err)
	newer, err := store.CreateMatch("season-1", 2000, "Greens", "Yellows")
	require.NoError(t, err)

	matches, err := store.GetAllMatches()
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, newer, matches[0].ID, "most recent match should come first")
	assert.Equal(t, older, matches[1].ID)
}

func TestSetFinalScore(t *testing.T) {
	store := setupTestStore(t)

	matchID, err := store.CreateMatch("season-1", time.Now().Unix(), "Reds", "Blues")
	require.NoError(t, err)

	require.NoError(t, store.SetFinalScore(matchID, 3, 1))

	match, err := store.GetMatch(matchID)
	require.NoError(t, err)
	assert.Equal(t, 3, match.TeamA.Score)
	assert.Equal(t, 1, match.TeamB.Score)

	t.Run("missing match", func(t *testing.T) {
		err := store.SetFinalScore("no-such-match", 1, 0)
		assert.ErrorIs(t, err, ErrMatchNotFound)
	})

	t.Run("rejected once played", func(t *testing.T) {
		_, err := store.MarkPlayed(matchID)
		require.NoError(t, err)

		err = store.SetFinalScore(matchID, 5, 5)
		assert.ErrorIs(t, err, ErrMatchAlreadyPlayed)

		match, err := store.GetMatch(matchID)
		require.NoError(t, err)
		assert.Equal(t, 3, match.TeamA.Score, "score must be unchanged after rejected edit")
		assert.Equal(t, 1, match.TeamB.Score)
	})
}

func TestMarkPlayed(t *testing.T) {
	store := setupTestStore(t)

	matchID, err := store.CreateMatch("season-1", time.Now().Unix(), "Reds", "Blues")
	require.NoError(t, err)

	before, err := store.MarkPlayed(matchID)
	require.NoError(t, err)
	assert.Equal(t, StatusScheduled, before)

	match, err := store.GetMatch(matchID)
	require.NoError(t, err)
	assert.Equal(t, StatusPlayed, match.Status)

	t.Run("second call reports played as prior status", func(t *testing.T) {
		before, err := store.MarkPlayed(matchID)
		require.NoError(t, err)
		assert.Equal(t, StatusPlayed, before)
	})

	t.Run("missing match", func(t *testing.T) {
		_, err := store.MarkPlayed("no-such-match")
		assert.ErrorIs(t, err, ErrMatchNotFound)
	})
}

func TestUpsertPlayerStat(t *testing.T) {
	store := setupTestStore(t)

	matchID, err := store.CreateMatch("season-1", time.Now().Unix(), "Reds", "Blues")
	require.NoError(t, err)

	stat := &PlayerStat{
		MatchID:  matchID,
		PlayerID: "player-1",
		Team:     stats.TeamA,
		Goals:    1,
		Assists:  2,
		Name:     "Marta",
	}
	require.NoError(t, store.UpsertPlayerStat(stat))

	got, err := store.GetPlayerStat(matchID, "player-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, stats.TeamA, got.Team)
	assert.Equal(t, 1, got.Goals)
	assert.Equal(t, 2, got.Assists)
	assert.Equal(t, "Marta", got.Name)

	t.Run("update replaces counts", func(t *testing.T) {
		stat.Goals = 3
		stat.Assists = 0
		require.NoError(t, store.UpsertPlayerStat(stat))

		got, err := store.GetPlayerStat(matchID, "player-1")
		require.NoError(t, err)
		assert.Equal(t, 3, got.Goals)
		assert.Equal(t, 0, got.Assists)
	})

	t.Run("empty name does not clobber cached name", func(t *testing.T) {
		stat.Name = ""
		require.NoError(t, store.UpsertPlayerStat(stat))

		got, err := store.GetPlayerStat(matchID, "player-1")
		require.NoError(t, err)
		assert.Equal(t, "Marta", got.Name)
	})

	t.Run("missing stat returns nil without error", func(t *testing.T) {
		got, err := store.GetPlayerStat(matchID, "no-such-player")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestGetPlayerStats(t *testing.T) {
	store := setupTestStore(t)

	matchID, err := store.CreateMatch("season-1", time.Now().Unix(), "Reds", "Blues")
	require.NoError(t, err)

	require.NoError(t, store.UpsertPlayerStat(&PlayerStat{MatchID: matchID, PlayerID: "player-b", Team: stats.TeamB}))
	require.NoError(t, store.UpsertPlayerStat(&PlayerStat{MatchID: matchID, PlayerID: "player-a", Team: stats.TeamA, Goals: 2}))

	all, err := store.GetPlayerStats(matchID)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "player-a", all[0].PlayerID)
	assert.Equal(t, "player-b", all[1].PlayerID)
}

func TestTouchPlayerStats(t *testing.T) {
	store := setupTestStore(t)

	matchID, err := store.CreateMatch("season-1", time.Now().Unix(), "Reds", "Blues")
	require.NoError(t, err)

	require.NoError(t, store.UpsertPlayerStat(&PlayerStat{MatchID: matchID, PlayerID: "player-1", Team: stats.TeamA, Goals: 1}))
	require.NoError(t, store.UpsertPlayerStat(&PlayerStat{MatchID: matchID, PlayerID: "player-2", Team: stats.TeamB}))

	touched, err := store.TouchPlayerStats(matchID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"player-1", "player-2"}, touched)

	got, err := store.GetPlayerStat(matchID, "player-1")
	require.NoError(t, err)
	assert.NotZero(t, got.TouchedAt)
	assert.Equal(t, 1, got.Goals, "touching must not change counted events")

	t.Run("match with no stats", func(t *testing.T) {
		otherID, err := store.CreateMatch("season-1", time.Now().Unix(), "Greens", "Yellows")
		require.NoError(t, err)

		touched, err := store.TouchPlayerStats(otherID)
		require.NoError(t, err)
		assert.Empty(t, touched)
	})
}

func TestClearMatch(t *testing.T) {
	store := setupTestStore(t)

	matchID, err := store.CreateMatch("season-1", time.Now().Unix(), "Reds", "Blues")
	require.NoError(t, err)
	require.NoError(t, store.UpsertPlayerStat(&PlayerStat{MatchID: matchID, PlayerID: "player-1", Team: stats.TeamA}))

	store.ClearMatch(matchID)

	match, err := store.GetMatch(matchID)
	require.NoError(t, err)
	assert.Nil(t, match)

	// Stat records are removed by the foreign key cascade.
	stat, err := store.GetPlayerStat(matchID, "player-1")
	require.NoError(t, err)
	assert.Nil(t, stat)
}
