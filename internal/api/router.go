package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jlindh/ordgrid/internal/api/handler"
	"github.com/jlindh/ordgrid/internal/api/middleware"
	"github.com/jlindh/ordgrid/internal/session"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	Coordinator *session.Coordinator
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	gameHandler := handler.NewGameHandler(cfg.Coordinator)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	games := api.PathPrefix("/games").Subrouter()
	games.HandleFunc("", gameHandler.Create).Methods(http.MethodPost)
	games.HandleFunc("/{id}", gameHandler.Get).Methods(http.MethodGet)
	games.HandleFunc("/{id}/players/{player_id}/grid", gameHandler.GetGrid).Methods(http.MethodGet)
	games.HandleFunc("/{id}/select", gameHandler.Select).Methods(http.MethodPost)
	games.HandleFunc("/{id}/place", gameHandler.Place).Methods(http.MethodPost)
	games.HandleFunc("/{id}/confirm", gameHandler.Confirm).Methods(http.MethodPost)
	games.HandleFunc("/{id}/leave", gameHandler.Leave).Methods(http.MethodPost)
	games.HandleFunc("/{id}/results", gameHandler.Results).Methods(http.MethodGet)
	games.HandleFunc("/{id}/events", gameHandler.Events).Methods(http.MethodGet)

	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
