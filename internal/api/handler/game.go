package handler

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/gorilla/mux"

	"github.com/tallyhq/scorekeep/internal/api/request"
	"github.com/tallyhq/scorekeep/internal/api/response"
	"github.com/tallyhq/scorekeep/internal/model"
	"github.com/tallyhq/scorekeep/internal/services/tracker"
)

// GameHandler handles game-related endpoints
type GameHandler struct {
	tracker *tracker.Service
}

// NewGameHandler creates a new game handler
func NewGameHandler(trackerService *tracker.Service) *GameHandler {
	return &GameHandler{
		tracker: trackerService,
	}
}

// List handles GET /api/v1/games
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	state := h.tracker.State()

	// Most recently updated first
	sort.SliceStable(state.Games, func(i, j int) bool {
		return state.Games[i].UpdatedAt.After(state.Games[j].UpdatedAt)
	})

	games := make([]response.Game, len(state.Games))
	for i, g := range state.Games {
		games[i] = response.GameFromModel(g)
	}

	response.JSON(w, http.StatusOK, response.GameList{
		Games:       games,
		CurrentGame: string(state.CurrentGame),
	})
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	game, err := h.tracker.CreateGame(r.Context(), req.Name, req.Description, req.IsTimeBased)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.GameFromModel(game))
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.GameID(mux.Vars(r)["id"])

	game, err := h.tracker.GetGame(id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(game))
}

// Delete handles DELETE /api/v1/games/{id}
func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := model.GameID(mux.Vars(r)["id"])

	if err := h.tracker.DeleteGame(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Select handles PUT /api/v1/games/current
// An empty game_id clears the selection
func (h *GameHandler) Select(w http.ResponseWriter, r *http.Request) {
	var req request.SelectGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.GameID == "" {
		h.tracker.ClearCurrentGame()
		response.NoContent(w)
		return
	}

	if err := h.tracker.SetCurrentGame(model.GameID(req.GameID)); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
