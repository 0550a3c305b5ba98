package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tallyhq/scorekeep/internal/api/handler"
	apimiddleware "github.com/tallyhq/scorekeep/internal/api/middleware"
	"github.com/tallyhq/scorekeep/internal/api/response"
	"github.com/tallyhq/scorekeep/internal/middleware"
	"github.com/tallyhq/scorekeep/internal/services/tracker"
	"github.com/tallyhq/scorekeep/internal/storage"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger  *slog.Logger
	Tracker *tracker.Service
	Storage storage.Storage
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	gameHandler := handler.NewGameHandler(cfg.Tracker)
	scoreHandler := handler.NewScoreHandler(cfg.Tracker)
	playerHandler := handler.NewPlayerHandler(cfg.Tracker)
	backupHandler := handler.NewBackupHandler(cfg.Tracker)
	eventsHandler := handler.NewEventsHandler(cfg.Tracker)

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := apimiddleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Game routes
	api.HandleFunc("/games", gameHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/games", gameHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/games/current", gameHandler.Select).Methods(http.MethodPut)
	api.HandleFunc("/games/{id}", gameHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}", gameHandler.Delete).Methods(http.MethodDelete)

	// Score routes
	api.HandleFunc("/games/{id}/scores", scoreHandler.Add).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/scores", scoreHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}/leaderboard", scoreHandler.Leaderboard).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}/players/{player_id}/best", scoreHandler.Best).Methods(http.MethodGet)

	// Player routes
	api.HandleFunc("/players", playerHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/players", playerHandler.Create).Methods(http.MethodPost)

	// Backup routes
	api.HandleFunc("/export", backupHandler.Export).Methods(http.MethodGet)
	api.HandleFunc("/import", backupHandler.Import).Methods(http.MethodPost)

	// Change event stream
	api.HandleFunc("/events", eventsHandler.Stream).Methods(http.MethodGet)

	// Health check endpoint probes the storage backend
	api.HandleFunc("/health", healthHandler(cfg.Storage)).Methods(http.MethodGet)

	return r
}

func healthHandler(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.TestConnection(r.Context()); err != nil {
			response.JSON(w, http.StatusServiceUnavailable, response.Health{
				Status:  "unhealthy",
				Storage: "unreachable",
				Error:   err.Error(),
			})
			return
		}
		response.JSON(w, http.StatusOK, response.Health{
			Status:  "ok",
			Storage: "connected",
		})
	}
}
