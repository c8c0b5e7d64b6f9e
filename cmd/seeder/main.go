package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/penya-app/penya-backend/internal/club"
	"github.com/penya-app/penya-backend/internal/database"
	"github.com/penya-app/penya-backend/internal/metrics"
	"github.com/penya-app/penya-backend/internal/season"
	"github.com/penya-app/penya-backend/internal/stats"
)

// Seeds a local database with a small season so the server and CLI have
// something to show. Run with DB_NAME pointing at a throwaway file.
func main() {
	godotenv.Load()

	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "penya-seed.db"
	}

	db, teardown, err := database.InitDB(dbName, "", "", "./migrations")
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	clubStore := club.New(db)
	seasonStore := season.New(db, metrics.NewService())

	const seasonID = "2026-spring"

	roster := []season.RosterEntry{
		{ID: "player-marta", Name: "Marta", Active: true},
		{ID: "player-jordi", Name: "Jordi", Active: true},
		{ID: "player-nuria", Name: "Núria", Active: true},
		{ID: "player-pau", Name: "Pau", Active: false},
	}
	if err := seasonStore.AddPlayersToSeason(seasonID, roster); err != nil {
		log.Fatalf("Failed to seed roster: %s", err)
	}

	matchID, err := clubStore.CreateMatch(seasonID, time.Now().Add(-48*time.Hour).Unix(), "Penya A", "Penya B")
	if err != nil {
		log.Fatalf("Failed to create match: %s", err)
	}

	seedStats := []*club.PlayerStat{
		{MatchID: matchID, PlayerID: "player-marta", Team: stats.TeamA, Goals: 2, Assists: 1, Name: "Marta"},
		{MatchID: matchID, PlayerID: "player-jordi", Team: stats.TeamA, Assists: 2, Name: "Jordi"},
		{MatchID: matchID, PlayerID: "player-nuria", Team: stats.TeamB, Goals: 1, YellowCards: 1, Name: "Núria"},
	}
	for _, s := range seedStats {
		if err := clubStore.UpsertPlayerStat(s); err != nil {
			log.Fatalf("Failed to seed player stat: %s", err)
		}
	}

	if err := clubStore.SetFinalScore(matchID, 3, 1); err != nil {
		log.Fatalf("Failed to set final score: %s", err)
	}
	if _, err := clubStore.MarkPlayed(matchID); err != nil {
		log.Fatalf("Failed to mark match played: %s", err)
	}

	// Apply contributions directly; no broker is running during seeding.
	match, err := clubStore.GetMatch(matchID)
	if err != nil || match == nil {
		log.Fatalf("Failed to reload seeded match: %s", err)
	}
	ctx := context.Background()
	for _, s := range seedStats {
		c := stats.BuildContribution(s.RawStats(), match.TeamA.Score, match.TeamB.Score)
		if err := seasonStore.ApplyContribution(ctx, seasonID, s.PlayerID, matchID, s.Name, c); err != nil {
			log.Fatalf("Failed to apply contribution for %s: %s", s.PlayerID, err)
		}
	}

	ranking, err := seasonStore.GetRanking(seasonID)
	if err != nil {
		log.Fatalf("Failed to read back ranking: %s", err)
	}

	fmt.Printf("Seeded season %s with match %s\n", seasonID, matchID)
	for i, agg := range ranking {
		fmt.Printf("%2d. %-10s pts=%d w=%d g=%d a=%d\n",
			i+1, agg.Name, agg.Totals.Points, agg.Totals.Wins, agg.Totals.Goals, agg.Totals.Assists)
	}
}
