package response

import (
	"time"

	"github.com/tallyhq/scorekeep/internal/model"
)

// Score represents a recorded score in API responses
type Score struct {
	ID         string    `json:"id"`
	PlayerID   string    `json:"player_id"`
	PlayerName string    `json:"player_name"`
	Value      float64   `json:"value"`
	IsTime     bool      `json:"is_time"`
	AchievedAt time.Time `json:"achieved_at"`
	Notes      string    `json:"notes,omitempty"`
}

// ScoreFromModel converts a model.Score to a response Score
func ScoreFromModel(s model.Score) Score {
	return Score{
		ID:         string(s.ID),
		PlayerID:   string(s.PlayerID),
		PlayerName: s.PlayerName,
		Value:      s.Value,
		IsTime:     s.IsTime,
		AchievedAt: s.AchievedAt,
		Notes:      s.Notes,
	}
}

// ScoresFromModel converts a slice of model scores
func ScoresFromModel(scores []model.Score) []Score {
	out := make([]Score, len(scores))
	for i, s := range scores {
		out[i] = ScoreFromModel(s)
	}
	return out
}

// Game represents a game in API responses
type Game struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsTimeBased bool      `json:"is_time_based"`
	Scores      []Score   `json:"scores"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GameFromModel converts a model.Game to a response Game
func GameFromModel(g *model.Game) Game {
	return Game{
		ID:          string(g.ID),
		Name:        g.Name,
		Description: g.Description,
		IsTimeBased: g.IsTimeBased,
		Scores:      ScoresFromModel(g.Scores),
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

// GameList is the response for listing games
type GameList struct {
	Games       []Game `json:"games"`
	CurrentGame string `json:"current_game,omitempty"`
}

// Player represents a player in API responses
type Player struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p model.Player) Player {
	return Player{
		ID:        string(p.ID),
		Name:      p.Name,
		CreatedAt: p.CreatedAt,
	}
}

// PlayerList is the response for listing players
type PlayerList struct {
	Players []Player `json:"players"`
}

// LeaderboardEntry represents one ranked row in a leaderboard
type LeaderboardEntry struct {
	Rank      int    `json:"rank"`
	Player    Player `json:"player"`
	BestScore Score  `json:"best_score"`
}

// Leaderboard is the response for a game leaderboard
type Leaderboard struct {
	GameID  string             `json:"game_id"`
	Entries []LeaderboardEntry `json:"entries"`
}

// LeaderboardFromModel converts ranked entries to a response Leaderboard
func LeaderboardFromModel(gameID model.GameID, entries []model.LeaderboardEntry) Leaderboard {
	out := make([]LeaderboardEntry, len(entries))
	for i, e := range entries {
		out[i] = LeaderboardEntry{
			Rank:      i + 1,
			Player:    PlayerFromModel(e.Player),
			BestScore: ScoreFromModel(e.BestScore),
		}
	}
	return Leaderboard{GameID: string(gameID), Entries: out}
}

// Health is the response for the health endpoint
type Health struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
	Error   string `json:"error,omitempty"`
}
