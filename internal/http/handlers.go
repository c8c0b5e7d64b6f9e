package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/penya-app/penya-backend/internal/club"
	"github.com/penya-app/penya-backend/internal/pubsub"
	"github.com/penya-app/penya-backend/internal/season"
	"github.com/penya-app/penya-backend/internal/stats"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) ClearStoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID := r.URL.Query().Get("matchID")
		if matchID != "" {
			log.Info("Received request to clear a specific match", "matchID", matchID)
			s.Store.ClearMatch(matchID)
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, "Cleared match %s from store!", matchID)
		} else {
			log.Info("Received request to clear entire store")
			s.Store.Clear()
			s.Seasons.Clear()
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, "Store cleared!")
		}
	}
}

// MatchesHandler lists all matches on GET and creates a match on POST.
func (s *Server) MatchesHandler() http.HandlerFunc {
	type createRequest struct {
		SeasonID  string `json:"season_id"`
		Date      int64  `json:"date"`
		TeamAName string `json:"team_a_name"`
		TeamBName string `json:"team_b_name"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			matches, err := s.Store.GetAllMatches()
			if err != nil {
				http.Error(w, "Failed to list matches", http.StatusInternalServerError)
				return
			}
			writeJSON(w, http.StatusOK, matches)

		case http.MethodPost:
			var req createRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid JSON", http.StatusBadRequest)
				return
			}
			if req.SeasonID == "" || req.TeamAName == "" || req.TeamBName == "" {
				http.Error(w, "season_id, team_a_name and team_b_name are required", http.StatusBadRequest)
				return
			}
			if req.Date == 0 {
				req.Date = time.Now().Unix()
			}
			matchID, err := s.Store.CreateMatch(req.SeasonID, req.Date, req.TeamAName, req.TeamBName)
			if err != nil {
				http.Error(w, "Failed to create match", http.StatusInternalServerError)
				return
			}
			writeJSON(w, http.StatusCreated, map[string]string{"id": matchID})

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) GetMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID := r.URL.Query().Get("matchID")
		if matchID == "" {
			http.Error(w, "matchID is required", http.StatusBadRequest)
			return
		}
		match, err := s.Store.GetMatch(matchID)
		if err != nil {
			http.Error(w, "Failed to load match", http.StatusInternalServerError)
			return
		}
		if match == nil {
			http.Error(w, "Match not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, match)
	}
}

func (s *Server) SetFinalScoreHandler() http.HandlerFunc {
	type request struct {
		MatchID string `json:"match_id"`
		ScoreA  int    `json:"score_a"`
		ScoreB  int    `json:"score_b"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if req.MatchID == "" {
			http.Error(w, "match_id is required", http.StatusBadRequest)
			return
		}
		if req.ScoreA < 0 || req.ScoreB < 0 {
			http.Error(w, "Scores must not be negative", http.StatusBadRequest)
			return
		}

		err := s.Store.SetFinalScore(req.MatchID, req.ScoreA, req.ScoreB)
		switch {
		case errors.Is(err, club.ErrMatchNotFound):
			http.Error(w, "Match not found", http.StatusNotFound)
		case errors.Is(err, club.ErrMatchAlreadyPlayed):
			http.Error(w, "Match already played, score edits are not allowed", http.StatusConflict)
		case err != nil:
			http.Error(w, "Failed to set final score", http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, "OK")
		}
	}
}

func (s *Server) MarkPlayedHandler() http.HandlerFunc {
	type request struct {
		MatchID string `json:"match_id"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if req.MatchID == "" {
			http.Error(w, "match_id is required", http.StatusBadRequest)
			return
		}

		before, err := s.Store.MarkPlayed(req.MatchID)
		if errors.Is(err, club.ErrMatchNotFound) {
			http.Error(w, "Match not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "Failed to mark match played", http.StatusInternalServerError)
			return
		}

		if isDryRunFromContext(r) {
			log.Info("[Dry Run] Would publish match-updated event", "matchID", req.MatchID)
		} else if err := s.pubsub.SendMessage(pubsub.EventMatchUpdated, pubsub.MatchEvent{
			MatchID:      req.MatchID,
			BeforeStatus: string(before),
			AfterStatus:  string(club.StatusPlayed),
		}); err != nil {
			// The write already succeeded; aggregation catches up on the
			// next event for this match. Surface nothing to the caller.
			log.Error("Failed to publish match-updated event", "error", err, "matchID", req.MatchID)
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"match_id":      req.MatchID,
			"before_status": string(before),
			"status":        string(club.StatusPlayed),
		})
	}
}

// PlayerStatsHandler lists a match's stat records on GET and upserts one on
// POST. The upsert is what (indirectly) drives aggregation: it publishes a
// player-stat-written event consumed by the reconciler.
func (s *Server) PlayerStatsHandler() http.HandlerFunc {
	type upsertRequest struct {
		MatchID     string `json:"match_id"`
		PlayerID    string `json:"player_id"`
		Team        string `json:"team"`
		Goals       int    `json:"goals"`
		Assists     int    `json:"assists"`
		YellowCards int    `json:"yellow_cards"`
		RedCards    int    `json:"red_cards"`
		Name        string `json:"name"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			matchID := r.URL.Query().Get("matchID")
			if matchID == "" {
				http.Error(w, "matchID is required", http.StatusBadRequest)
				return
			}
			statRecords, err := s.Store.GetPlayerStats(matchID)
			if err != nil {
				http.Error(w, "Failed to list player stats", http.StatusInternalServerError)
				return
			}
			writeJSON(w, http.StatusOK, statRecords)

		case http.MethodPost:
			var req upsertRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid JSON", http.StatusBadRequest)
				return
			}
			if req.MatchID == "" || req.PlayerID == "" {
				http.Error(w, "match_id and player_id are required", http.StatusBadRequest)
				return
			}
			if req.Goals < 0 || req.Assists < 0 || req.YellowCards < 0 || req.RedCards < 0 {
				http.Error(w, "Counted events must not be negative", http.StatusBadRequest)
				return
			}

			match, err := s.Store.GetMatch(req.MatchID)
			if err != nil {
				http.Error(w, "Failed to load match", http.StatusInternalServerError)
				return
			}
			if match == nil {
				http.Error(w, "Match not found", http.StatusNotFound)
				return
			}

			name := req.Name
			if name == "" {
				name = s.resolvePlayerName(match.SeasonID, req.PlayerID)
			}

			stat := &club.PlayerStat{
				MatchID:     req.MatchID,
				PlayerID:    req.PlayerID,
				Team:        stats.TeamSide(req.Team),
				Goals:       req.Goals,
				Assists:     req.Assists,
				YellowCards: req.YellowCards,
				RedCards:    req.RedCards,
				Name:        name,
			}
			if err := s.Store.UpsertPlayerStat(stat); err != nil {
				http.Error(w, "Failed to upsert player stat", http.StatusInternalServerError)
				return
			}

			if isDryRunFromContext(r) {
				log.Info("[Dry Run] Would publish player-stat-written event", "matchID", req.MatchID, "playerID", req.PlayerID)
			} else if err := s.pubsub.SendMessage(pubsub.EventPlayerStatWritten, pubsub.StatEvent{
				MatchID:  req.MatchID,
				PlayerID: req.PlayerID,
			}); err != nil {
				log.Error("Failed to publish player-stat-written event", "error", err, "matchID", req.MatchID, "playerID", req.PlayerID)
			}

			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, "OK")

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// resolvePlayerName falls back to the season roster's cached name, then to
// the player id itself.
func (s *Server) resolvePlayerName(seasonID, playerID string) string {
	agg, err := s.Seasons.GetAggregate(seasonID, playerID)
	if err != nil {
		log.Error("Failed to resolve player name from roster", "error", err, "seasonID", seasonID, "playerID", playerID)
		return playerID
	}
	if agg == nil || agg.Name == "" {
		return playerID
	}
	return agg.Name
}

func (s *Server) RankingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seasonID := r.URL.Query().Get("seasonID")
		if seasonID == "" {
			http.Error(w, "seasonID is required", http.StatusBadRequest)
			return
		}
		ranking, err := s.Seasons.GetRanking(seasonID)
		if err != nil {
			http.Error(w, "Failed to load ranking", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, ranking)
	}
}

// SeasonPlayersHandler lists a season's roster on GET and adds players on POST.
func (s *Server) SeasonPlayersHandler() http.HandlerFunc {
	type addRequest struct {
		SeasonID string `json:"season_id"`
		Players  []struct {
			ID     string `json:"id"`
			Name   string `json:"name"`
			Active *bool  `json:"active"`
		} `json:"players"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			seasonID := r.URL.Query().Get("seasonID")
			if seasonID == "" {
				http.Error(w, "seasonID is required", http.StatusBadRequest)
				return
			}
			onlyActive := r.URL.Query().Get("all") != "true"
			players, err := s.Seasons.ListSeasonPlayers(seasonID, onlyActive)
			if err != nil {
				http.Error(w, "Failed to list season players", http.StatusInternalServerError)
				return
			}
			writeJSON(w, http.StatusOK, players)

		case http.MethodPost:
			var req addRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid JSON", http.StatusBadRequest)
				return
			}
			if req.SeasonID == "" || len(req.Players) == 0 {
				http.Error(w, "season_id and players are required", http.StatusBadRequest)
				return
			}
			entries := make([]season.RosterEntry, 0, len(req.Players))
			for _, p := range req.Players {
				if p.ID == "" {
					http.Error(w, "Every player needs an id", http.StatusBadRequest)
					return
				}
				active := true
				if p.Active != nil {
					active = *p.Active
				}
				entries = append(entries, season.RosterEntry{ID: p.ID, Name: p.Name, Active: active})
			}
			if err := s.Seasons.AddPlayersToSeason(req.SeasonID, entries); err != nil {
				http.Error(w, "Failed to add players to season", http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, "OK")

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// PlayerStatEventHandler consumes player-stat-written push messages and
// runs the reconciler. Skips are 200s; real failures are 500s so the
// subscription redelivers.
func (s *Server) PlayerStatEventHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawData, ok := decodePushMessage(w, r)
		if !ok {
			return
		}
		var event pubsub.StatEvent
		if err := s.pubsub.ProcessMessage(rawData, &event); err != nil {
			http.Error(w, "Invalid message payload", http.StatusBadRequest)
			return
		}
		if err := s.Reconciler.ReconcilePlayerStat(r.Context(), event.MatchID, event.PlayerID); err != nil {
			http.Error(w, "Failed to reconcile player stat", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}

// MatchUpdatedEventHandler consumes match-updated push messages and runs
// the status-transition toucher.
func (s *Server) MatchUpdatedEventHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawData, ok := decodePushMessage(w, r)
		if !ok {
			return
		}
		var event pubsub.MatchEvent
		if err := s.pubsub.ProcessMessage(rawData, &event); err != nil {
			http.Error(w, "Invalid message payload", http.StatusBadRequest)
			return
		}
		err := s.Reconciler.HandleMatchUpdate(r.Context(), event.MatchID,
			club.MatchStatus(event.BeforeStatus), club.MatchStatus(event.AfterStatus))
		if err != nil {
			http.Error(w, "Failed to handle match update", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}

// decodePushMessage unwraps a pubsub push envelope and returns the raw
// message bytes. On failure it writes the error response and returns false.
func decodePushMessage(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("Failed to read request body", "error", err)
		http.Error(w, "Failed to read request body", http.StatusInternalServerError)
		return nil, false
	}

	var pubsubMsg struct {
		Subscription string `json:"subscription"`
		Message      struct {
			Data string `json:"data"`
		} `json:"message"`
	}
	if err := json.Unmarshal(bodyBytes, &pubsubMsg); err != nil {
		log.Error("Failed to unmarshal wrapper JSON", "error", err)
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return nil, false
	}

	rawData, err := base64.StdEncoding.DecodeString(pubsubMsg.Message.Data)
	if err != nil {
		log.Error("Failed to decode base64 data", "error", err)
		http.Error(w, "Invalid base64 data", http.StatusBadRequest)
		return nil, false
	}
	return rawData, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode JSON response", "error", err)
	}
}
