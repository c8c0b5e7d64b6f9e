package club

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/penya-app/penya-backend/internal/stats"
)

// New creates a new ClubStore.
func New(db *sql.DB) ClubStore {
	return &store{
		db: db,
	}
}

// CreateMatch inserts a new match with status=scheduled and 0-0 scores.
func (s *store) CreateMatch(seasonID string, date int64, teamAName, teamBName string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matchID := uuid.NewString()
	now := time.Now().Unix()
	_, err := s.db.Exec(`
		INSERT INTO matches (id, season_id, match_date, status, team_a_name, team_a_score, team_b_name, team_b_score, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 0, ?, 0, ?, ?)
	`, matchID, seasonID, date, StatusScheduled, teamAName, teamBName, now, now)
	if err != nil {
		log.Error("Failed to create match", "error", err, "seasonID", seasonID)
		return "", fmt.Errorf("failed to create match: %w", err)
	}
	log.Info("Created match", "matchID", matchID, "seasonID", seasonID, "teamA", teamAName, "teamB", teamBName)
	return matchID, nil
}

// GetMatch returns the match, or (nil, nil) if it does not exist. Callers
// that consume change events use the nil result to treat a deleted match as
// a non-fatal no-op.
func (s *store) GetMatch(matchID string) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, season_id, match_date, status, team_a_name, team_a_score, team_b_name, team_b_score, created_at, updated_at
		FROM matches WHERE id = ?
	`, matchID)

	match, err := scanMatch(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return match, nil
}

// GetAllMatches retrieves all matches, most recent first.
func (s *store) GetAllMatches() ([]*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, season_id, match_date, status, team_a_name, team_a_score, team_b_name, team_b_score, created_at, updated_at
		FROM matches ORDER BY match_date DESC
	`)
	if err != nil {
		log.Error("Failed to query all matches", "error", err)
		return nil, err
	}
	defer rows.Close()

	var matches []*Match
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			log.Error("Failed to scan match row", "error", err)
			continue
		}
		matches = append(matches, match)
	}
	return matches, rows.Err()
}

func scanMatch(scanner interface{ Scan(...any) error }) (*Match, error) {
	var match Match
	err := scanner.Scan(
		&match.ID, &match.SeasonID, &match.Date, &match.Status,
		&match.TeamA.Name, &match.TeamA.Score, &match.TeamB.Name, &match.TeamB.Score,
		&match.CreatedAt, &match.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// SetFinalScore records the final score of a match. Score edits are
// rejected once the match is played: nothing re-triggers aggregation on a
// score-only change, so a late edit would leave the season ledger stale.
func (s *store) SetFinalScore(matchID string, scoreA, scoreB int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	var status MatchStatus
	err = tx.QueryRow("SELECT status FROM matches WHERE id = ?", matchID).Scan(&status)
	if err == sql.ErrNoRows {
		tx.Rollback()
		return ErrMatchNotFound
	}
	if err != nil {
		tx.Rollback()
		return err
	}
	if status == StatusPlayed {
		tx.Rollback()
		return ErrMatchAlreadyPlayed
	}

	_, err = tx.Exec(`
		UPDATE matches SET team_a_score = ?, team_b_score = ?, updated_at = ? WHERE id = ?
	`, scoreA, scoreB, time.Now().Unix(), matchID)
	if err != nil {
		tx.Rollback()
		return err
	}
	log.Info("Set final score", "matchID", matchID, "scoreA", scoreA, "scoreB", scoreB)
	return tx.Commit()
}

// MarkPlayed transitions a match into played status and returns the status
// it had before, so the caller can emit the status-transition event.
func (s *store) MarkPlayed(matchID string) (MatchStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return "", err
	}

	var before MatchStatus
	err = tx.QueryRow("SELECT status FROM matches WHERE id = ?", matchID).Scan(&before)
	if err == sql.ErrNoRows {
		tx.Rollback()
		return "", ErrMatchNotFound
	}
	if err != nil {
		tx.Rollback()
		return "", err
	}

	_, err = tx.Exec("UPDATE matches SET status = ?, updated_at = ? WHERE id = ?",
		StatusPlayed, time.Now().Unix(), matchID)
	if err != nil {
		tx.Rollback()
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	log.Info("Marked match played", "matchID", matchID, "previous_status", before)
	return before, nil
}

// UpsertPlayerStat inserts or updates a player's stat record for a match.
// The cached display name is only overwritten when the incoming record
// carries one.
func (s *store) UpsertPlayerStat(stat *PlayerStat) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO player_stats (match_id, player_id, team, goals, assists, yellow_cards, red_cards, name, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(match_id, player_id) DO UPDATE SET
			team = excluded.team,
			goals = excluded.goals,
			assists = excluded.assists,
			yellow_cards = excluded.yellow_cards,
			red_cards = excluded.red_cards,
			name = COALESCE(NULLIF(excluded.name, ''), name),
			updated_at = excluded.updated_at;
	`, stat.MatchID, stat.PlayerID, string(stat.Team), stat.Goals, stat.Assists,
		stat.YellowCards, stat.RedCards, stat.Name, time.Now().Unix())
	if err != nil {
		log.Error("Failed to upsert player stat", "error", err, "matchID", stat.MatchID, "playerID", stat.PlayerID)
		return fmt.Errorf("failed to upsert player stat: %w", err)
	}
	log.Debug("Upserted player stat", "matchID", stat.MatchID, "playerID", stat.PlayerID)
	return nil
}

// GetPlayerStat returns the stat record, or (nil, nil) if it does not exist.
func (s *store) GetPlayerStat(matchID, playerID string) (*PlayerStat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT match_id, player_id, team, goals, assists, yellow_cards, red_cards, name, updated_at, touched_at
		FROM player_stats WHERE match_id = ? AND player_id = ?
	`, matchID, playerID)

	stat, err := scanPlayerStat(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return stat, nil
}

// GetPlayerStats retrieves all stat records for a match.
func (s *store) GetPlayerStats(matchID string) ([]PlayerStat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT match_id, player_id, team, goals, assists, yellow_cards, red_cards, name, updated_at, touched_at
		FROM player_stats WHERE match_id = ? ORDER BY player_id
	`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []PlayerStat
	for rows.Next() {
		stat, err := scanPlayerStat(rows)
		if err != nil {
			log.Error("Failed to scan player stat row", "error", err, "matchID", matchID)
			continue
		}
		result = append(result, *stat)
	}
	return result, rows.Err()
}

func scanPlayerStat(scanner interface{ Scan(...any) error }) (*PlayerStat, error) {
	var stat PlayerStat
	var team, name sql.NullString
	var touchedAt sql.NullInt64

	err := scanner.Scan(
		&stat.MatchID, &stat.PlayerID, &team, &stat.Goals, &stat.Assists,
		&stat.YellowCards, &stat.RedCards, &name, &stat.UpdatedAt, &touchedAt,
	)
	if err != nil {
		return nil, err
	}
	stat.Team = stats.TeamSide(team.String)
	stat.Name = name.String
	stat.TouchedAt = touchedAt.Int64
	return &stat, nil
}

// TouchPlayerStats bumps the touch timestamp on every stat record of a
// match without changing any counted event, and returns the ids of the
// players whose records were touched. Used after a scheduled->played
// transition to force re-evaluation of stats entered before the match was
// closed.
func (s *store) TouchPlayerStats(matchID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query("SELECT player_id FROM player_stats WHERE match_id = ?", matchID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	var playerIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			tx.Rollback()
			return nil, err
		}
		playerIDs = append(playerIDs, id)
	}
	rows.Close()

	if len(playerIDs) > 0 {
		_, err = tx.Exec("UPDATE player_stats SET touched_at = ? WHERE match_id = ?",
			time.Now().Unix(), matchID)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	log.Info("Touched player stats", "matchID", matchID, "count", len(playerIDs))
	return playerIDs, nil
}

func (s *store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		log.Error("Failed to begin transaction for clearing store", "error", err)
		return
	}

	if _, err = tx.Exec("DELETE FROM player_stats"); err != nil {
		log.Error("Failed to clear player_stats table", "error", err)
		tx.Rollback()
		return
	}
	if _, err = tx.Exec("DELETE FROM matches"); err != nil {
		log.Error("Failed to clear matches table", "error", err)
		tx.Rollback()
		return
	}
	if err := tx.Commit(); err != nil {
		log.Error("Failed to commit transaction for clearing store", "error", err)
	}
}

// ClearMatch removes a match and its stat records. Season aggregates are
// deliberately left alone: match deletion is undefined for the aggregation
// subsystem.
func (s *store) ClearMatch(matchID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("DELETE FROM matches WHERE id = ?", matchID)
	if err != nil {
		log.Error("Failed to clear match", "error", err, "matchID", matchID)
	}
}
