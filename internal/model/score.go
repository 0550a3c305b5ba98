package model

import "time"

// MaxNotesLength is the longest accepted score note
const MaxNotesLength = 100

// ScoreID uniquely identifies a recorded score
type ScoreID string

// Score is one recorded result for one player in one game.
// Scores are append-only and immutable; they are removed only as a
// consequence of deleting the parent game.
type Score struct {
	ID       ScoreID  `json:"id"`
	PlayerID PlayerID `json:"playerId"`

	// PlayerName is a denormalized copy of the player's name at
	// submission time, so score history survives an ephemeral roster
	PlayerName string `json:"playerName"`

	Value float64 `json:"value"`

	// IsTime mirrors the parent game's IsTimeBased at all times
	IsTime bool `json:"isTime"`

	AchievedAt time.Time `json:"achievedAt"`
	Notes      string    `json:"notes,omitempty"`
}
