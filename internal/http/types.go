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

type Server struct {
	Store          club.ClubStore
	Seasons        season.SeasonStore
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Reconciler     *reconciler.Reconciler
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}
