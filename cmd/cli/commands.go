package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
)

var (
	seasonID string
	matchID  string
	playerID string
	team     string
	goals    int
	assists  int
	yellows  int
	reds     int
	name     string
	scoreA   int
	scoreB   int
	teamA    string
	teamB    string
)

func init() {
	createMatchCmd.Flags().StringVar(&seasonID, "season", "", "Season id")
	createMatchCmd.Flags().StringVar(&teamA, "team-a", "", "Team A display name")
	createMatchCmd.Flags().StringVar(&teamB, "team-b", "", "Team B display name")
	createMatchCmd.MarkFlagRequired("season")
	createMatchCmd.MarkFlagRequired("team-a")
	createMatchCmd.MarkFlagRequired("team-b")

	setScoreCmd.Flags().StringVar(&matchID, "match", "", "Match id")
	setScoreCmd.Flags().IntVar(&scoreA, "score-a", 0, "Team A final score")
	setScoreCmd.Flags().IntVar(&scoreB, "score-b", 0, "Team B final score")
	setScoreCmd.MarkFlagRequired("match")

	markPlayedCmd.Flags().StringVar(&matchID, "match", "", "Match id")
	markPlayedCmd.MarkFlagRequired("match")

	upsertStatCmd.Flags().StringVar(&matchID, "match", "", "Match id")
	upsertStatCmd.Flags().StringVar(&playerID, "player", "", "Player id")
	upsertStatCmd.Flags().StringVar(&team, "team", "", "Team side (A or B)")
	upsertStatCmd.Flags().IntVar(&goals, "goals", 0, "Goals scored")
	upsertStatCmd.Flags().IntVar(&assists, "assists", 0, "Assists")
	upsertStatCmd.Flags().IntVar(&yellows, "yellow-cards", 0, "Yellow cards")
	upsertStatCmd.Flags().IntVar(&reds, "red-cards", 0, "Red cards")
	upsertStatCmd.Flags().StringVar(&name, "name", "", "Player display name")
	upsertStatCmd.MarkFlagRequired("match")
	upsertStatCmd.MarkFlagRequired("player")

	rankingCmd.Flags().StringVar(&seasonID, "season", "", "Season id")
	rankingCmd.MarkFlagRequired("season")

	rosterCmd.Flags().StringVar(&seasonID, "season", "", "Season id")
	rosterCmd.MarkFlagRequired("season")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(createMatchCmd)
	rootCmd.AddCommand(setScoreCmd)
	rootCmd.AddCommand(markPlayedCmd)
	rootCmd.AddCommand(upsertStatCmd)
	rootCmd.AddCommand(rankingCmd)
	rootCmd.AddCommand(rosterCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List all matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/matches")
	},
}

var createMatchCmd = &cobra.Command{
	Use:   "create-match",
	Short: "Create a new scheduled match",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/matches", map[string]any{
			"season_id":   seasonID,
			"team_a_name": teamA,
			"team_b_name": teamB,
		})
	},
}

var setScoreCmd = &cobra.Command{
	Use:   "set-score",
	Short: "Set the final score of a match",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/matches/score", map[string]any{
			"match_id": matchID,
			"score_a":  scoreA,
			"score_b":  scoreB,
		})
	},
}

var markPlayedCmd = &cobra.Command{
	Use:   "mark-played",
	Short: "Mark a match as played, triggering aggregation",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/matches/played", map[string]any{
			"match_id": matchID,
		})
	},
}

var upsertStatCmd = &cobra.Command{
	Use:   "upsert-stat",
	Short: "Create or update a player's stat record for a match",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/matches/player-stats", map[string]any{
			"match_id":     matchID,
			"player_id":    playerID,
			"team":         team,
			"goals":        goals,
			"assists":      assists,
			"yellow_cards": yellows,
			"red_cards":    reds,
			"name":         name,
		})
	},
}

var rankingCmd = &cobra.Command{
	Use:   "ranking",
	Short: "Show the season ranking",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/ranking?seasonID=" + url.QueryEscape(seasonID))
	},
}

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "List the players in a season",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/seasons/players?seasonID=" + url.QueryEscape(seasonID))
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func performPostRequest(endpoint string, payload map[string]any) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
