package handler

import (
	"encoding/json"
	"net/http"

	"github.com/tallyhq/scorekeep/internal/api/request"
	"github.com/tallyhq/scorekeep/internal/api/response"
	"github.com/tallyhq/scorekeep/internal/services/tracker"
)

// PlayerHandler handles player-related endpoints
type PlayerHandler struct {
	tracker *tracker.Service
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(trackerService *tracker.Service) *PlayerHandler {
	return &PlayerHandler{
		tracker: trackerService,
	}
}

// List handles GET /api/v1/players
func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	state := h.tracker.State()

	players := make([]response.Player, len(state.Players))
	for i, p := range state.Players {
		players[i] = response.PlayerFromModel(p)
	}

	response.JSON(w, http.StatusOK, response.PlayerList{Players: players})
}

// Create handles POST /api/v1/players
func (h *PlayerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreatePlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	player, err := h.tracker.AddPlayer(req.Name)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.PlayerFromModel(*player))
}
