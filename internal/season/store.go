package season

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/penya-app/penya-backend/internal/metrics"
	"github.com/penya-app/penya-backend/internal/stats"
	"github.com/sethvargo/go-retry"
)

// maxApplyRetries bounds the optimistic-concurrency retry loop; the losing
// writer of a version conflict backs off and re-reads.
const maxApplyRetries = 8

var errVersionConflict = errors.New("season aggregate version conflict")

// New creates a new SeasonStore.
func New(db *sql.DB, m metrics.Metrics) SeasonStore {
	return &store{
		db:      db,
		metrics: m,
	}
}

// AddPlayersToSeason seeds roster entries. Like the match upsert, the
// conflict branch is "dumb": it refreshes name and active flag but never
// resets the totals or the by-match ledger.
func (s *store) AddPlayersToSeason(seasonID string, players []RosterEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO season_players (season_id, player_id, name, active)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(season_id, player_id) DO UPDATE SET
			name = excluded.name,
			active = excluded.active;
	`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, p := range players {
		name := p.Name
		if name == "" {
			name = p.ID
		}
		if _, err := stmt.Exec(seasonID, p.ID, name, p.Active); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to add player %s to season: %w", p.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	log.Info("Added players to season", "seasonID", seasonID, "count", len(players))
	return nil
}

func (s *store) RemovePlayerFromSeason(seasonID, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM season_players WHERE season_id = ? AND player_id = ?", seasonID, playerID)
	if err != nil {
		log.Error("Failed to remove player from season", "error", err, "seasonID", seasonID, "playerID", playerID)
	}
	return err
}

func (s *store) ListSeasonPlayers(seasonID string, onlyActive bool) ([]Aggregate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := selectAggregate + " WHERE season_id = ?"
	if onlyActive {
		query += " AND active = 1"
	}
	query += " ORDER BY name"

	return s.queryAggregates(query, seasonID)
}

// GetAggregate returns the aggregate, or (nil, nil) if none exists yet. A
// player's first reconciled contribution creates the record implicitly.
func (s *store) GetAggregate(seasonID, playerID string) (*Aggregate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(selectAggregate+" WHERE season_id = ? AND player_id = ?", seasonID, playerID)
	agg, err := scanAggregate(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return agg, nil
}

// ApplyContribution folds a newly computed per-match contribution into the
// player's season record: it diffs the contribution against the ledger
// entry previously applied for the match and applies the delta to the
// totals, so repeated application of an unchanged record is a no-op and an
// edited record contributes exactly the net difference.
//
// The read-diff-write runs under optimistic concurrency: the row carries a
// version counter, the write is a compare-and-swap on it, and the loser of
// a concurrent update backs off and retries against fresh state.
func (s *store) ApplyContribution(ctx context.Context, seasonID, playerID, matchID, name string, c stats.Contribution) error {
	backoff := retry.WithMaxRetries(maxApplyRetries, retry.NewFibonacci(5*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		applied, err := s.tryApply(ctx, seasonID, playerID, matchID, name, c)
		if err != nil {
			return err
		}
		if !applied {
			s.metrics.IncAggregateConflicts()
			log.Debug("Aggregate version conflict, retrying", "seasonID", seasonID, "playerID", playerID, "matchID", matchID)
			return retry.RetryableError(errVersionConflict)
		}
		return nil
	})
}

// tryApply performs one optimistic attempt. It returns false when a
// concurrent writer won the version race and the attempt must be retried.
func (s *store) tryApply(ctx context.Context, seasonID, playerID, matchID, name string, c stats.Contribution) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRowContext(ctx, selectAggregate+" WHERE season_id = ? AND player_id = ?", seasonID, playerID)
	agg, err := scanAggregate(row)
	if err == sql.ErrNoRows {
		return s.insertFresh(ctx, seasonID, playerID, matchID, name, c)
	}
	if err != nil {
		return false, fmt.Errorf("failed to read season aggregate: %w", err)
	}

	prev := agg.ByMatch[matchID]
	delta := c.Sub(prev)
	if _, seen := agg.ByMatch[matchID]; seen && delta.IsZero() {
		log.Debug("Contribution unchanged, nothing to apply", "playerID", playerID, "matchID", matchID)
		return true, nil
	}

	totals := agg.Totals.Add(delta)
	ledger := make(map[string]stats.Contribution, len(agg.ByMatch)+1)
	for k, v := range agg.ByMatch {
		ledger[k] = v
	}
	ledger[matchID] = c

	ledgerJSON, err := json.Marshal(ledger)
	if err != nil {
		return false, fmt.Errorf("failed to marshal by-match ledger: %w", err)
	}

	// First-seen name wins; only fill it in if the row has none.
	keptName := agg.Name
	if keptName == "" {
		keptName = name
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE season_players SET
			name = ?,
			matches_played = ?, wins = ?, draws = ?, losses = ?,
			goals = ?, assists = ?, yellow_cards = ?, red_cards = ?,
			points = ?, goal_involvements = ?,
			by_match_json = ?,
			version = version + 1,
			last_updated = ?
		WHERE season_id = ? AND player_id = ? AND version = ?
	`, keptName,
		totals.MatchesPlayed, totals.Wins, totals.Draws, totals.Losses,
		totals.Goals, totals.Assists, totals.YellowCards, totals.RedCards,
		totals.Points, totals.GoalInvolvements,
		string(ledgerJSON), time.Now().Unix(),
		seasonID, playerID, agg.Version)
	if err != nil {
		return false, fmt.Errorf("failed to update season aggregate: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}

	log.Info("Applied contribution",
		"seasonID", seasonID, "playerID", playerID, "matchID", matchID,
		"delta_points", delta.Points, "delta_goals", delta.Goals)
	return true, nil
}

// insertFresh creates the aggregate on a player's first contribution. A
// lost insert race reads as a version conflict and is retried.
func (s *store) insertFresh(ctx context.Context, seasonID, playerID, matchID, name string, c stats.Contribution) (bool, error) {
	ledgerJSON, err := json.Marshal(map[string]stats.Contribution{matchID: c})
	if err != nil {
		return false, fmt.Errorf("failed to marshal by-match ledger: %w", err)
	}
	if name == "" {
		name = playerID
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO season_players (
			season_id, player_id, name, active,
			matches_played, wins, draws, losses,
			goals, assists, yellow_cards, red_cards,
			points, goal_involvements,
			by_match_json, version, last_updated)
		VALUES (?, ?, ?, 1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?)
		ON CONFLICT(season_id, player_id) DO NOTHING
	`, seasonID, playerID, name,
		c.MatchesPlayed, c.Wins, c.Draws, c.Losses,
		c.Goals, c.Assists, c.YellowCards, c.RedCards,
		c.Points, c.GoalInvolvements,
		string(ledgerJSON), time.Now().Unix())
	if err != nil {
		return false, fmt.Errorf("failed to insert season aggregate: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetRanking returns the season's players ordered by points, then wins,
// then goal involvements.
func (s *store) GetRanking(seasonID string) ([]Aggregate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryAggregates(selectAggregate+`
		 WHERE season_id = ?
		 ORDER BY points DESC, wins DESC, goal_involvements DESC, player_id`, seasonID)
}

func (s *store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM season_players"); err != nil {
		log.Error("Failed to clear season_players table", "error", err)
	}
}

const selectAggregate = `
	SELECT season_id, player_id, name, active,
		matches_played, wins, draws, losses,
		goals, assists, yellow_cards, red_cards,
		points, goal_involvements,
		by_match_json, version, last_updated
	FROM season_players`

func (s *store) queryAggregates(query string, args ...any) ([]Aggregate, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		log.Error("Failed to query season players", "error", err)
		return nil, err
	}
	defer rows.Close()

	var result []Aggregate
	for rows.Next() {
		agg, err := scanAggregate(rows)
		if err != nil {
			log.Error("Failed to scan season player row", "error", err)
			continue
		}
		result = append(result, *agg)
	}
	return result, rows.Err()
}

func scanAggregate(scanner interface{ Scan(...any) error }) (*Aggregate, error) {
	var agg Aggregate
	var name sql.NullString
	var ledgerJSON string
	var lastUpdated sql.NullInt64

	err := scanner.Scan(
		&agg.SeasonID, &agg.PlayerID, &name, &agg.Active,
		&agg.Totals.MatchesPlayed, &agg.Totals.Wins, &agg.Totals.Draws, &agg.Totals.Losses,
		&agg.Totals.Goals, &agg.Totals.Assists, &agg.Totals.YellowCards, &agg.Totals.RedCards,
		&agg.Totals.Points, &agg.Totals.GoalInvolvements,
		&ledgerJSON, &agg.Version, &lastUpdated,
	)
	if err != nil {
		return nil, err
	}
	agg.Name = name.String
	agg.LastUpdated = lastUpdated.Int64

	agg.ByMatch = make(map[string]stats.Contribution)
	if ledgerJSON != "" {
		if err := json.Unmarshal([]byte(ledgerJSON), &agg.ByMatch); err != nil {
			log.Error("Failed to unmarshal by_match_json", "error", err, "playerID", agg.PlayerID)
		}
	}
	return &agg, nil
}
