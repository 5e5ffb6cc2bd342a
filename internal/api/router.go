package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/pinochle-score/internal/api/apierr"
	"github.com/mcoot/pinochle-score/internal/api/handler"
	"github.com/mcoot/pinochle-score/internal/api/middleware"
	"github.com/mcoot/pinochle-score/internal/api/response"
	"github.com/mcoot/pinochle-score/internal/api/sse"
	sharedmw "github.com/mcoot/pinochle-score/internal/middleware"
	"github.com/mcoot/pinochle-score/internal/services/game"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	GameController *game.Controller
	HubManager     *sse.HubManager

	// MetricsHandler is mounted at /metrics when set
	MetricsHandler http.Handler

	// AllowedOrigins lists browser origins allowed to call the API
	AllowedOrigins []string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	gameHandler := handler.NewGameHandler(cfg.GameController, cfg.HubManager, cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(sharedmw.RequestID())
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Game routes
	api.HandleFunc("/games", gameHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/games", gameHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}", gameHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}", gameHandler.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/games/{id}/totals", gameHandler.Totals).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}/events", gameHandler.Events).Methods(http.MethodGet)

	// Hand routes
	api.HandleFunc("/games/{id}/hands", gameHandler.StartHand).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/hands", gameHandler.ListHands).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}/hands/current", gameHandler.CurrentHand).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}/bid", gameHandler.Bid).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/trump", gameHandler.Trump).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/meld", gameHandler.Meld).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/tricks", gameHandler.Tricks).Methods(http.MethodPost)

	api.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewNotFoundError())
	})

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler).Methods(http.MethodGet)
	}

	// CORS wraps the router so preflight requests, which match no route,
	// are still answered
	return sharedmw.CORS(cfg.AllowedOrigins)(r)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}
