package http

import (
	"net/http"

	"github.com/penya-app/penya-backend/internal/club"
	"github.com/penya-app/penya-backend/internal/config"
	"github.com/penya-app/penya-backend/internal/metrics"
	"github.com/penya-app/penya-backend/internal/pubsub"
	"github.com/penya-app/penya-backend/internal/reconciler"
	"github.com/penya-app/penya-backend/internal/season"
)

func NewServer(store club.ClubStore, seasons season.SeasonStore, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, rec *reconciler.Reconciler, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Store:          store,
		Seasons:        seasons,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Reconciler:     rec,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/clear", Chain(s.ClearStoreHandler(), paramsMiddleware))
	s.Router.Handle("/matches", Chain(s.MatchesHandler(), paramsMiddleware))
	s.Router.Handle("/matches/get", Chain(s.GetMatchHandler(), paramsMiddleware))
	s.Router.Handle("/matches/score", Chain(s.SetFinalScoreHandler(), paramsMiddleware))
	s.Router.Handle("/matches/played", Chain(s.MarkPlayedHandler(), paramsMiddleware))
	s.Router.Handle("/matches/player-stats", Chain(s.PlayerStatsHandler(), paramsMiddleware))
	s.Router.Handle("/ranking", Chain(s.RankingHandler(), paramsMiddleware))
	s.Router.Handle("/seasons/players", Chain(s.SeasonPlayersHandler(), paramsMiddleware))
	s.Router.Handle("/events/player-stat", Chain(s.PlayerStatEventHandler(), paramsMiddleware))
	s.Router.Handle("/events/match-updated", Chain(s.MatchUpdatedEventHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
