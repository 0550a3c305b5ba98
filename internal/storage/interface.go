package storage

import (
	"context"

	"github.com/tallyhq/scorekeep/internal/model"
)

// Storage defines the interface for game document persistence.
// Documents are whole games keyed by game ID; every write replaces the
// full document. A reported failure means no state change occurred.
type Storage interface {
	// SaveGame upserts the full game document under its ID.
	// Replays with the same content produce the same stored state.
	SaveGame(ctx context.Context, game *model.Game) error

	// LoadGame returns the game document for the ID, or
	// model.ErrGameNotFound if absent
	LoadGame(ctx context.Context, id model.GameID) (*model.Game, error)

	// ListGames returns a summary for every stored game, ordered by
	// UpdatedAt descending (most recently updated first)
	ListGames(ctx context.Context) ([]model.GameSummary, error)

	// DeleteGame removes the document for the ID, or returns
	// model.ErrGameNotFound if absent
	DeleteGame(ctx context.Context, id model.GameID) error

	// TestConnection verifies the backend is reachable and writable.
	// Probe writes are cleaned up before returning on success.
	TestConnection(ctx context.Context) error

	// Export dumps the whole store as a backup keyed by game ID
	Export(ctx context.Context) (Backup, error)

	// Import fully replaces existing state with the backup (not a merge)
	Import(ctx context.Context, backup Backup) error

	// Close releases backend resources
	Close() error
}
