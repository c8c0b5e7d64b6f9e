package club

import "sync"

// MockClubStore is a mock implementation of ClubStore for testing.
// It is safe for concurrent use.
type MockClubStore struct {
	mu sync.Mutex

	// Spies for method calls
	CreateMatchFunc      func(seasonID string, date int64, teamAName, teamBName string) (string, error)
	GetMatchFunc         func(matchID string) (*Match, error)
	GetAllMatchesFunc    func() ([]*Match, error)
	SetFinalScoreFunc    func(matchID string, scoreA, scoreB int) error
	MarkPlayedFunc       func(matchID string) (MatchStatus, error)
	UpsertPlayerStatFunc func(stat *PlayerStat) error
	GetPlayerStatFunc    func(matchID, playerID string) (*PlayerStat, error)
	GetPlayerStatsFunc   func(matchID string) ([]PlayerStat, error)
	TouchPlayerStatsFunc func(matchID string) ([]string, error)

	// Call records
	CreateMatchCalls      []CreateMatchCall
	GetMatchCalls         []string
	SetFinalScoreCalls    []SetFinalScoreCall
	MarkPlayedCalls       []string
	UpsertPlayerStatCalls []*PlayerStat
	GetPlayerStatCalls    []GetPlayerStatCall
	TouchPlayerStatsCalls []string
	ClearMatchCalls       []string
	ClearCalls            int
}

// CreateMatchCall holds the arguments for a call to CreateMatch.
type CreateMatchCall struct {
	SeasonID  string
	Date      int64
	TeamAName string
	TeamBName string
}

// SetFinalScoreCall holds the arguments for a call to SetFinalScore.
type SetFinalScoreCall struct {
	MatchID string
	ScoreA  int
	ScoreB  int
}

// GetPlayerStatCall holds the arguments for a call to GetPlayerStat.
type GetPlayerStatCall struct {
	MatchID  string
	PlayerID string
}

// NewMock creates a new mock ClubStore.
func NewMock() *MockClubStore {
	return &MockClubStore{}
}

func (m *MockClubStore) CreateMatch(seasonID string, date int64, teamAName, teamBName string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateMatchCalls = append(m.CreateMatchCalls, CreateMatchCall{SeasonID: seasonID, Date: date, TeamAName: teamAName, TeamBName: teamBName})
	if m.CreateMatchFunc != nil {
		return m.CreateMatchFunc(seasonID, date, teamAName, teamBName)
	}
	return "mock-match-id", nil
}

func (m *MockClubStore) GetMatch(matchID string) (*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetMatchCalls = append(m.GetMatchCalls, matchID)
	if m.GetMatchFunc != nil {
		return m.GetMatchFunc(matchID)
	}
	return nil, nil
}

func (m *MockClubStore) GetAllMatches() ([]*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAllMatchesFunc != nil {
		return m.GetAllMatchesFunc()
	}
	return nil, nil
}

func (m *MockClubStore) SetFinalScore(matchID string, scoreA, scoreB int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetFinalScoreCalls = append(m.SetFinalScoreCalls, SetFinalScoreCall{MatchID: matchID, ScoreA: scoreA, ScoreB: scoreB})
	if m.SetFinalScoreFunc != nil {
		return m.SetFinalScoreFunc(matchID, scoreA, scoreB)
	}
	return nil
}

func (m *MockClubStore) MarkPlayed(matchID string) (MatchStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MarkPlayedCalls = append(m.MarkPlayedCalls, matchID)
	if m.MarkPlayedFunc != nil {
		return m.MarkPlayedFunc(matchID)
	}
	return StatusScheduled, nil
}

func (m *MockClubStore) UpsertPlayerStat(stat *PlayerStat) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertPlayerStatCalls = append(m.UpsertPlayerStatCalls, stat)
	if m.UpsertPlayerStatFunc != nil {
		return m.UpsertPlayerStatFunc(stat)
	}
	return nil
}

func (m *MockClubStore) GetPlayerStat(matchID, playerID string) (*PlayerStat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetPlayerStatCalls = append(m.GetPlayerStatCalls, GetPlayerStatCall{MatchID: matchID, PlayerID: playerID})
	if m.GetPlayerStatFunc != nil {
		return m.GetPlayerStatFunc(matchID, playerID)
	}
	return nil, nil
}

func (m *MockClubStore) GetPlayerStats(matchID string) ([]PlayerStat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPlayerStatsFunc != nil {
		return m.GetPlayerStatsFunc(matchID)
	}
	return nil, nil
}

func (m *MockClubStore) TouchPlayerStats(matchID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TouchPlayerStatsCalls = append(m.TouchPlayerStatsCalls, matchID)
	if m.TouchPlayerStatsFunc != nil {
		return m.TouchPlayerStatsFunc(matchID)
	}
	return nil, nil
}

func (m *MockClubStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClearCalls++
}

func (m *MockClubStore) ClearMatch(matchID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClearMatchCalls = append(m.ClearMatchCalls, matchID)
}
