package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/tallyhq/scorekeep/internal/model"
	"github.com/tallyhq/scorekeep/internal/storage"
)

// ErrInjected is the default error returned after FailWith
var ErrInjected = errors.New("injected storage failure")

// Storage is an in-memory implementation of the storage interface.
// Documents are stored in their serialized form so that save/load
// round-trips behave identically to the durable backends.
type Storage struct {
	mu        sync.RWMutex
	documents map[model.GameID][]byte
	failErr   error
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		documents: make(map[model.GameID][]byte),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// FailWith makes every subsequent operation return err until called
// again with nil. Used by service tests to exercise persistence
// failures.
func (s *Storage) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failErr = err
}

func (s *Storage) injectedError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.failErr
}

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	if err := s.injectedError(); err != nil {
		return err
	}

	data, err := storage.EncodeGame(game)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[game.ID] = data
	return nil
}

func (s *Storage) LoadGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	if err := s.injectedError(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	data, ok := s.documents[id]
	s.mu.RUnlock()
	if !ok {
		return nil, model.ErrGameNotFound
	}
	return storage.DecodeGame(data)
}

func (s *Storage) ListGames(ctx context.Context) ([]model.GameSummary, error) {
	if err := s.injectedError(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]model.GameSummary, 0, len(s.documents))
	for _, data := range s.documents {
		game, err := storage.DecodeGame(data)
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

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	if err := s.injectedError(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[id]; !ok {
		return model.ErrGameNotFound
	}
	delete(s.documents, id)
	return nil
}

func (s *Storage) TestConnection(ctx context.Context) error {
	return s.injectedError()
}

func (s *Storage) Export(ctx context.Context) (storage.Backup, error) {
	if err := s.injectedError(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	backup := make(storage.Backup, len(s.documents))
	for id, data := range s.documents {
		game, err := storage.DecodeGame(data)
		if err != nil {
			return nil, err
		}
		backup[id] = storage.NewDocument(game)
	}
	return backup, nil
}

func (s *Storage) Import(ctx context.Context, backup storage.Backup) error {
	if err := s.injectedError(); err != nil {
		return err
	}
	if err := storage.ValidateBackup(backup); err != nil {
		return err
	}

	// Serialize everything before touching state so a bad document
	// cannot leave a partial import behind
	documents := make(map[model.GameID][]byte, len(backup))
	for id, doc := range backup {
		data, err := storage.EncodeGame(doc.Game)
		if err != nil {
			return err
		}
		documents[id] = data
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents = documents
	return nil
}

func (s *Storage) Close() error {
	return nil
}
