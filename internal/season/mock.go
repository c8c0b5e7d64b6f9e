package season

import (
	"context"
	"sync"

	"github.com/penya-app/penya-backend/internal/stats"
)

// MockSeasonStore is a mock implementation of SeasonStore for testing.
// It is safe for concurrent use.
type MockSeasonStore struct {
	mu sync.Mutex

	// Spies for method calls
	ApplyContributionFunc func(ctx context.Context, seasonID, playerID, matchID, name string, c stats.Contribution) error
	GetAggregateFunc      func(seasonID, playerID string) (*Aggregate, error)
	GetRankingFunc        func(seasonID string) ([]Aggregate, error)
	ListSeasonPlayersFunc func(seasonID string, onlyActive bool) ([]Aggregate, error)

	// Call records
	ApplyContributionCalls []ApplyContributionCall
	AddPlayersCalls        []AddPlayersCall
	RemovePlayerCalls      []RemovePlayerCall
	GetRankingCalls        []string
	ClearCalls             int
}

// ApplyContributionCall holds the arguments for a call to ApplyContribution.
type ApplyContributionCall struct {
	SeasonID     string
	PlayerID     string
	MatchID      string
	Name         string
	Contribution stats.Contribution
}

// AddPlayersCall holds the arguments for a call to AddPlayersToSeason.
type AddPlayersCall struct {
	SeasonID string
	Players  []RosterEntry
}

// RemovePlayerCall holds the arguments for a call to RemovePlayerFromSeason.
type RemovePlayerCall struct {
	SeasonID string
	PlayerID string
}

// NewMock creates a new mock SeasonStore.
func NewMock() *MockSeasonStore {
	return &MockSeasonStore{}
}

func (m *MockSeasonStore) AddPlayersToSeason(seasonID string, players []RosterEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AddPlayersCalls = append(m.AddPlayersCalls, AddPlayersCall{SeasonID: seasonID, Players: players})
	return nil
}

func (m *MockSeasonStore) RemovePlayerFromSeason(seasonID, playerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RemovePlayerCalls = append(m.RemovePlayerCalls, RemovePlayerCall{SeasonID: seasonID, PlayerID: playerID})
	return nil
}

func (m *MockSeasonStore) ListSeasonPlayers(seasonID string, onlyActive bool) ([]Aggregate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListSeasonPlayersFunc != nil {
		return m.ListSeasonPlayersFunc(seasonID, onlyActive)
	}
	return nil, nil
}

func (m *MockSeasonStore) GetAggregate(seasonID, playerID string) (*Aggregate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAggregateFunc != nil {
		return m.GetAggregateFunc(seasonID, playerID)
	}
	return nil, nil
}

func (m *MockSeasonStore) ApplyContribution(ctx context.Context, seasonID, playerID, matchID, name string, c stats.Contribution) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ApplyContributionCalls = append(m.ApplyContributionCalls, ApplyContributionCall{
		SeasonID: seasonID, PlayerID: playerID, MatchID: matchID, Name: name, Contribution: c,
	})
	if m.ApplyContributionFunc != nil {
		return m.ApplyContributionFunc(ctx, seasonID, playerID, matchID, name, c)
	}
	return nil
}

func (m *MockSeasonStore) GetRanking(seasonID string) ([]Aggregate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetRankingCalls = append(m.GetRankingCalls, seasonID)
	if m.GetRankingFunc != nil {
		return m.GetRankingFunc(seasonID)
	}
	return nil, nil
}

func (m *MockSeasonStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClearCalls++
}
