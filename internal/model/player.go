package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Player represents a score-submitting participant.
// Players are immutable once created; there is no rename or delete.
type Player struct {
	ID        PlayerID  `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// LeaderboardEntry pairs a player with their single best score in a game
type LeaderboardEntry struct {
	Player    Player `json:"player"`
	BestScore Score  `json:"bestScore"`
}
