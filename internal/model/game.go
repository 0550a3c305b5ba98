package model

import (
	"strings"
	"time"
)

// GameID uniquely identifies a game
type GameID string

// Game represents a named competition with a fixed ranking direction
// and a history of recorded scores
type Game struct {
	ID          GameID    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`

	// IsTimeBased fixes the ranking direction at creation:
	// lower value wins when true, higher value wins when false
	IsTimeBased bool `json:"isTimeBased"`

	// Scores in submission order; never reordered in storage.
	// Display ordering is always a derived copy.
	Scores []Score `json:"scores"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NormalizeName canonicalizes a game name for uniqueness checks
// (trimmed, case-folded)
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// HasScoresFor returns true if the game has at least one score for the player
func (g *Game) HasScoresFor(playerID PlayerID) bool {
	for i := range g.Scores {
		if g.Scores[i].PlayerID == playerID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the game. Mutations are applied to clones
// and swapped in only after persistence succeeds.
func (g *Game) Clone() *Game {
	clone := *g
	clone.Scores = make([]Score, len(g.Scores))
	copy(clone.Scores, g.Scores)
	return &clone
}

// WithScore returns a copy of the game with the score appended and
// UpdatedAt set to the score's achievement time
func (g *Game) WithScore(score Score) *Game {
	clone := g.Clone()
	clone.Scores = append(clone.Scores, score)
	clone.UpdatedAt = score.AchievedAt
	return clone
}

// GameSummary is the lightweight listing record returned by storage backends
type GameSummary struct {
	ID        GameID    `json:"id"`
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updatedAt"`
}
