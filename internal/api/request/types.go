package request

// CreateGameRequest is the request body for creating a game
type CreateGameRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsTimeBased bool   `json:"is_time_based"`
}

// AddScoreRequest is the request body for recording a score.
// PlayerID references an existing player; when it is empty a new
// player is registered from PlayerName.
type AddScoreRequest struct {
	PlayerID   string  `json:"player_id,omitempty"`
	PlayerName string  `json:"player_name,omitempty"`
	Value      float64 `json:"value"`
	Notes      string  `json:"notes,omitempty"`
}

// CreatePlayerRequest is the request body for registering a player
type CreatePlayerRequest struct {
	Name string `json:"name"`
}

// SelectGameRequest is the request body for changing the current game.
// An empty game_id clears the selection.
type SelectGameRequest struct {
	GameID string `json:"game_id"`
}
