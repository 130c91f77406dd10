// Package webd serves the itinerary pipeline over HTTP.
package webd

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/rotblauer/wayward/api"
	"github.com/rotblauer/wayward/params"
)

type WebDaemon struct {
	Config  *params.WebDaemonConfig
	planner *api.Planner
	logger  *slog.Logger
}

func NewWebDaemon(config *params.WebDaemonConfig, planner *api.Planner) *WebDaemon {
	if config == nil {
		config = params.DefaultWebDaemonConfig()
	}
	if planner == nil {
		planner = api.NewPlanner(nil, nil, nil)
	}
	return &WebDaemon{
		Config:  config,
		planner: planner,
		logger:  slog.With("d", "web"),
	}
}

// Run starts the HTTP server (ListenAndServe) and waits for it,
// returning any server error.
func (s *WebDaemon) Run() error {
	router := s.NewRouter()
	listeningOn := fmt.Sprintf("%s:%d", s.Config.NetAddr, s.Config.NetPort)
	s.logger.Info("Starting web daemon", "addr", listeningOn)
	return http.ListenAndServe(listeningOn, router)
}

func (s *WebDaemon) NewRouter() http.Handler {
	router := mux.NewRouter().StrictSlash(false)
	router.HandleFunc("/ping", s.pingHandler).Methods(http.MethodGet)

	v1 := router.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/itinerary", s.itineraryHandler).Methods(http.MethodPost)

	return handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost}),
	)(handlers.RecoveryHandler()(handlers.CombinedLoggingHandler(os.Stderr, router)))
}
