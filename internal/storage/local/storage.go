package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/tallyhq/scorekeep/internal/model"
	"github.com/tallyhq/scorekeep/internal/storage"
)

const (
	filePrefix = "game-"
	fileSuffix = ".json"
	probeFile  = ".scorekeep-probe"
)

// Storage persists one JSON document per game as files in a directory.
// It runs on an afero filesystem so tests can use the in-memory variant.
type Storage struct {
	fs  afero.Fs
	dir string
}

// New creates a local storage rooted at dir on the OS filesystem
func New(dir string) (*Storage, error) {
	return NewWithFs(afero.NewOsFs(), dir)
}

// NewWithFs creates a local storage on the given filesystem (for testing)
func NewWithFs(fs afero.Fs, dir string) (*Storage, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Storage{fs: fs, dir: dir}, nil
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) gamePath(id model.GameID) string {
	return filepath.Join(s.dir, filePrefix+string(id)+fileSuffix)
}

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	data, err := storage.EncodeGame(game)
	if err != nil {
		return err
	}
	return s.writeFile(s.gamePath(game.ID), data)
}

// writeFile writes via a temp file and rename so readers never observe
// a partially written document
func (s *Storage) writeFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write game document: %w", err)
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("failed to write game document: %w", err)
	}
	return nil
}

func (s *Storage) LoadGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	data, err := afero.ReadFile(s.fs, s.gamePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, model.ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to read game document: %w", err)
	}
	return storage.DecodeGame(data)
}

func (s *Storage) ListGames(ctx context.Context) ([]model.GameSummary, error) {
	ids, err := s.gameIDs()
	if err != nil {
		return nil, err
	}

	summaries := make([]model.GameSummary, 0, len(ids))
	for _, id := range ids {
		game, err := s.LoadGame(ctx, id)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, model.GameSummary{
			ID:        game.ID,
			Name:      game.Name,
			UpdatedAt: game.UpdatedAt,
		})
	}

	storage.SortSummaries(summaries)
	return summaries, nil
}

// gameIDs scans the data directory for game document files
func (s *Storage) gameIDs() ([]model.GameID, error) {
	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	var ids []model.GameID
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		id := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)
		if id == "" {
			continue
		}
		ids = append(ids, model.GameID(id))
	}
	return ids, nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	path := s.gamePath(id)
	if _, err := s.fs.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return model.ErrGameNotFound
		}
		return fmt.Errorf("failed to stat game document: %w", err)
	}
	if err := s.fs.Remove(path); err != nil {
		return fmt.Errorf("failed to delete game document: %w", err)
	}
	return nil
}

func (s *Storage) TestConnection(ctx context.Context) error {
	path := filepath.Join(s.dir, probeFile)
	if err := afero.WriteFile(s.fs, path, []byte("ok"), 0o644); err != nil {
		return fmt.Errorf("data directory is not writable: %w", err)
	}
	if err := s.fs.Remove(path); err != nil {
		return fmt.Errorf("failed to clean up probe file: %w", err)
	}
	return nil
}

func (s *Storage) Export(ctx context.Context) (storage.Backup, error) {
	ids, err := s.gameIDs()
	if err != nil {
		return nil, err
	}

	backup := make(storage.Backup, len(ids))
	for _, id := range ids {
		game, err := s.LoadGame(ctx, id)
		if err != nil {
			return nil, err
		}
		backup[id] = storage.NewDocument(game)
	}
	return backup, nil
}

func (s *Storage) Import(ctx context.Context, backup storage.Backup) error {
	if err := storage.ValidateBackup(backup); err != nil {
		return err
	}

	// Encode everything up front so serialization failures abort
	// before any file changes
	documents := make(map[model.GameID][]byte, len(backup))
	for id, doc := range backup {
		data, err := storage.EncodeGame(doc.Game)
		if err != nil {
			return err
		}
		documents[id] = data
	}

	ids, err := s.gameIDs()
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := s.fs.Remove(s.gamePath(id)); err != nil {
			return fmt.Errorf("failed to clear existing document: %w", err)
		}
	}

	for id, data := range documents {
		if err := s.writeFile(s.gamePath(id), data); err != nil {
			return err
		}
	}
	return nil
}

func (s *Storage) Close() error {
	return nil
}
