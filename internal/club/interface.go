package club

// ClubStore defines the interface for interacting with match data.
type ClubStore interface {
	CreateMatch(seasonID string, date int64, teamAName, teamBName string) (string, error)
	GetMatch(matchID string) (*Match, error)
	GetAllMatches() ([]*Match, error)
	SetFinalScore(matchID string, scoreA, scoreB int) error
	MarkPlayed(matchID string) (MatchStatus, error)
	UpsertPlayerStat(stat *PlayerStat) error
	GetPlayerStat(matchID, playerID string) (*PlayerStat, error)
	GetPlayerStats(matchID string) ([]PlayerStat, error)
	TouchPlayerStats(matchID string) ([]string, error)
	Clear()
	ClearMatch(matchID string)
}
