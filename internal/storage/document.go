package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/tallyhq/scorekeep/internal/model"
)

// ErrInvalidBackup reports a backup that fails validation on import
var ErrInvalidBackup = errors.New("invalid backup")

// DocumentVersion is the version string written with every document
const DocumentVersion = "1.0"

// Document is the persisted envelope for a single game.
// Readers tolerate version strings they don't recognize and still read
// the game field; writers always write the current version.
type Document struct {
	Game    *model.Game `json:"game"`
	Version string      `json:"version"`
}

// Backup is a whole-store dump keyed by game ID, suitable for
// export/import as a single JSON object
type Backup map[model.GameID]*Document

// NewDocument wraps a game in a document envelope at the current version
func NewDocument(game *model.Game) *Document {
	return &Document{Game: game, Version: DocumentVersion}
}

// EncodeGame serializes a game into its document envelope
func EncodeGame(game *model.Game) ([]byte, error) {
	data, err := json.Marshal(NewDocument(game))
	if err != nil {
		return nil, fmt.Errorf("failed to encode game document: %w", err)
	}
	return data, nil
}

// DecodeGame deserializes a document envelope and returns the game.
// Unknown versions are accepted as long as the game field is present.
func DecodeGame(data []byte) (*model.Game, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode game document: %w", err)
	}
	if doc.Game == nil {
		return nil, fmt.Errorf("game document has no game field")
	}
	return doc.Game, nil
}

// ValidateBackup checks that every entry carries a game payload.
// Import implementations call this before touching state so a bad
// backup cannot leave a partial replace behind.
func ValidateBackup(backup Backup) error {
	for id, doc := range backup {
		if doc == nil || doc.Game == nil {
			return fmt.Errorf("%w: entry %q has no game document", ErrInvalidBackup, id)
		}
		if doc.Game.ID != id {
			return fmt.Errorf("%w: entry %q contains game %q", ErrInvalidBackup, id, doc.Game.ID)
		}
	}
	return nil
}

// SortSummaries orders game summaries by UpdatedAt descending, the
// ordering every backend's ListGames must return
func SortSummaries(summaries []model.GameSummary) {
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})
}
