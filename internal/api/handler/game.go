package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/pinochle-score/internal/api/apierr"
	"github.com/mcoot/pinochle-score/internal/api/request"
	"github.com/mcoot/pinochle-score/internal/api/response"
	"github.com/mcoot/pinochle-score/internal/api/sse"
	"github.com/mcoot/pinochle-score/internal/model"
	"github.com/mcoot/pinochle-score/internal/services/game"
)

// GameHandler handles game scoring endpoints
type GameHandler struct {
	gameController *game.Controller
	hubManager     *sse.HubManager
	broadcaster    *sse.Broadcaster
}

// NewGameHandler creates a new game handler. Events are only streamed
// when a hub manager is given.
func NewGameHandler(gameController *game.Controller, hubManager *sse.HubManager, logger *slog.Logger) *GameHandler {
	var broadcaster *sse.Broadcaster
	if hubManager != nil {
		broadcaster = sse.NewBroadcaster(hubManager, logger)
	}
	return &GameHandler{
		gameController: gameController,
		hubManager:     hubManager,
		broadcaster:    broadcaster,
	}
}

func gameID(r *http.Request) model.GameID {
	return model.GameID(mux.Vars(r)["id"])
}

// respond publishes an update's events and writes the game's status
func (h *GameHandler) respond(w http.ResponseWriter, status int, update game.Update) {
	if h.broadcaster != nil {
		h.broadcaster.Publish(update.Events)
	}
	response.JSON(w, status, response.GameFromModel(update.Game))
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGameRequest
	if err := request.Decode(r, &req, true); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError(err.Error()))
		return
	}

	var dealer model.Player
	if req.Dealer != "" {
		p, err := model.ParsePlayer(req.Dealer)
		if err != nil {
			apierr.WriteError(w, err)
			return
		}
		dealer = p
	}

	update, err := h.gameController.StartNewGame(r.Context(), dealer)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	if h.broadcaster != nil {
		h.broadcaster.Publish(update.Events)
	}
	response.Created(w, "/api/v1/games/"+string(update.Game.ID()), response.GameFromModel(update.Game))
}

// List handles GET /api/v1/games
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	games, err := h.gameController.ListGames(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	resp := response.GameList{Games: make([]response.Game, len(games))}
	for i, g := range games {
		resp.Games[i] = response.GameFromModel(g)
	}
	response.JSON(w, http.StatusOK, resp)
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	status, err := h.gameController.GetGameStatus(r.Context(), gameID(r))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.GameFromStatus(status))
}

// Delete handles DELETE /api/v1/games/{id}
func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := gameID(r)
	if err := h.gameController.DeleteGame(r.Context(), id); err != nil {
		apierr.WriteError(w, err)
		return
	}

	if h.hubManager != nil {
		h.hubManager.RemoveHub(id)
	}
	response.NoContent(w)
}

// StartHand handles POST /api/v1/games/{id}/hands
func (h *GameHandler) StartHand(w http.ResponseWriter, r *http.Request) {
	update, err := h.gameController.StartNewHand(r.Context(), gameID(r))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	h.respond(w, http.StatusCreated, update)
}

// ListHands handles GET /api/v1/games/{id}/hands
func (h *GameHandler) ListHands(w http.ResponseWriter, r *http.Request) {
	hands, err := h.gameController.GetCompletedHands(r.Context(), gameID(r))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.HandList{Hands: response.HandsFromModel(hands)})
}

// CurrentHand handles GET /api/v1/games/{id}/hands/current
func (h *GameHandler) CurrentHand(w http.ResponseWriter, r *http.Request) {
	hand, err := h.gameController.GetCurrentHand(r.Context(), gameID(r))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.HandFromModel(hand))
}

// Totals handles GET /api/v1/games/{id}/totals
func (h *GameHandler) Totals(w http.ResponseWriter, r *http.Request) {
	totals, err := h.gameController.GetRunningTotal(r.Context(), gameID(r))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.TotalsFromService(totals))
}

// Bid handles POST /api/v1/games/{id}/bid
func (h *GameHandler) Bid(w http.ResponseWriter, r *http.Request) {
	var req request.BidRequest
	if err := request.Decode(r, &req, false); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError(err.Error()))
		return
	}

	bidder, err := model.ParsePlayer(req.Player)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	update, err := h.gameController.RecordBid(r.Context(), gameID(r), bidder, req.Bid)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	h.respond(w, http.StatusOK, update)
}

// Trump handles POST /api/v1/games/{id}/trump
func (h *GameHandler) Trump(w http.ResponseWriter, r *http.Request) {
	var req request.TrumpRequest
	if err := request.Decode(r, &req, false); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError(err.Error()))
		return
	}

	trump, err := model.ParseSuit(req.Trump)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	update, err := h.gameController.DeclareTrump(r.Context(), gameID(r), trump)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	h.respond(w, http.StatusOK, update)
}

// Meld handles POST /api/v1/games/{id}/meld
func (h *GameHandler) Meld(w http.ResponseWriter, r *http.Request) {
	var req request.MeldRequest
	if err := request.Decode(r, &req, false); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError(err.Error()))
		return
	}

	update, err := h.gameController.RecordMeld(r.Context(), gameID(r), req.UsMeld, req.ThemMeld)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	h.respond(w, http.StatusOK, update)
}

// Tricks handles POST /api/v1/games/{id}/tricks
func (h *GameHandler) Tricks(w http.ResponseWriter, r *http.Request) {
	var req request.TricksRequest
	if err := request.Decode(r, &req, false); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError(err.Error()))
		return
	}

	update, err := h.gameController.RecordTricks(r.Context(), gameID(r), req.UsTricks, req.ThemTricks)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	h.respond(w, http.StatusOK, update)
}

// Events handles GET /api/v1/games/{id}/events
func (h *GameHandler) Events(w http.ResponseWriter, r *http.Request) {
	if h.hubManager == nil {
		apierr.WriteError(w, apierr.NewNotFoundError())
		return
	}

	id := gameID(r)
	if _, err := h.gameController.GetGame(r.Context(), id); err != nil {
		apierr.WriteError(w, err)
		return
	}

	hub, release := h.hubManager.Watch(id)
	defer release()
	sse.ServeSSE(w, r, hub)
}
