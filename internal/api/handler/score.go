package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/tallyhq/scorekeep/internal/api/request"
	"github.com/tallyhq/scorekeep/internal/api/response"
	"github.com/tallyhq/scorekeep/internal/model"
	"github.com/tallyhq/scorekeep/internal/services/ranking"
	"github.com/tallyhq/scorekeep/internal/services/tracker"
)

// ScoreHandler handles score and leaderboard endpoints
type ScoreHandler struct {
	tracker *tracker.Service
}

// NewScoreHandler creates a new score handler
func NewScoreHandler(trackerService *tracker.Service) *ScoreHandler {
	return &ScoreHandler{
		tracker: trackerService,
	}
}

// Add handles POST /api/v1/games/{id}/scores
func (h *ScoreHandler) Add(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["id"])

	var req request.AddScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.PlayerID == "" && req.PlayerName == "" {
		WriteError(w, NewInvalidRequestError("player_id or player_name is required"))
		return
	}

	score, err := h.tracker.AddScore(r.Context(), gameID, model.PlayerID(req.PlayerID), req.PlayerName, req.Value, req.Notes)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.ScoreFromModel(*score))
}

// List handles GET /api/v1/games/{id}/scores
// Query parameters: sort, player_id, from, to, limit
func (h *ScoreHandler) List(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["id"])

	order, err := ranking.ParseSortOrder(r.URL.Query().Get("sort"))
	if err != nil {
		WriteError(w, NewInvalidRequestError(err.Error()))
		return
	}

	filter, err := filterFromQuery(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	scores, err := h.tracker.GetScores(gameID, order, filter)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ScoresFromModel(scores))
}

// Best handles GET /api/v1/games/{id}/players/{player_id}/best
func (h *ScoreHandler) Best(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	gameID := model.GameID(vars["id"])
	playerID := model.PlayerID(vars["player_id"])

	best, err := h.tracker.GetBestScore(gameID, playerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ScoreFromModel(*best))
}

// Leaderboard handles GET /api/v1/games/{id}/leaderboard
// Query parameters: limit
func (h *ScoreHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["id"])

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			WriteError(w, NewInvalidRequestError("limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	entries, err := h.tracker.GetLeaderboard(gameID, limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LeaderboardFromModel(gameID, entries))
}

// filterFromQuery builds a score filter from query parameters
func filterFromQuery(r *http.Request) (ranking.Filter, error) {
	q := r.URL.Query()
	filter := ranking.Filter{
		PlayerID: model.PlayerID(q.Get("player_id")),
	}

	if raw := q.Get("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return ranking.Filter{}, NewInvalidRequestError("from must be an RFC 3339 timestamp")
		}
		filter.From = t
	}
	if raw := q.Get("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return ranking.Filter{}, NewInvalidRequestError("to must be an RFC 3339 timestamp")
		}
		filter.To = t
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return ranking.Filter{}, NewInvalidRequestError("limit must be a positive integer")
		}
		filter.Limit = limit
	}

	return filter, nil
}
