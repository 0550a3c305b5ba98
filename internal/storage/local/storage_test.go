package local

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/suite"

	"github.com/tallyhq/scorekeep/internal/model"
	"github.com/tallyhq/scorekeep/internal/storage"
)

type StorageSuite struct {
	suite.Suite
	fs      afero.Fs
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.fs = afero.NewMemMapFs()
	store, err := NewWithFs(s.fs, "data")
	s.Require().NoError(err)
	s.storage = store
	s.ctx = context.Background()
}

func (s *StorageSuite) newGame(id model.GameID, name string, updatedAt time.Time) *model.Game {
	return &model.Game{
		ID:          id,
		Name:        name,
		IsTimeBased: true,
		Scores:      []model.Score{},
		CreatedAt:   updatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (s *StorageSuite) TestSaveAndLoadGame() {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	game := s.newGame("game-1", "Sprint", now)
	game.Scores = []model.Score{
		{ID: "score-1", PlayerID: "player-1", PlayerName: "Alice", Value: 95.5, IsTime: true, AchievedAt: now, Notes: "tailwind"},
	}

	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	loaded, err := s.storage.LoadGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Equal(game, loaded)
}

func (s *StorageSuite) TestSaveGameUsesDocumentFileNaming() {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(s.storage.SaveGame(s.ctx, s.newGame("abc123", "Sprint", now)))

	exists, err := afero.Exists(s.fs, "data/game-abc123.json")
	s.Require().NoError(err)
	s.True(exists)
}

func (s *StorageSuite) TestLoadGameNotFound() {
	_, err := s.storage.LoadGame(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestListGamesOrderedByUpdatedAtDesc() {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	s.Require().NoError(s.storage.SaveGame(s.ctx, s.newGame("game-a", "A", base)))
	s.Require().NoError(s.storage.SaveGame(s.ctx, s.newGame("game-b", "B", base.Add(time.Hour))))

	summaries, err := s.storage.ListGames(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(summaries, 2)
	s.Equal(model.GameID("game-b"), summaries[0].ID)
	s.Equal(model.GameID("game-a"), summaries[1].ID)
}

func (s *StorageSuite) TestListGamesIgnoresForeignFiles() {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(s.storage.SaveGame(s.ctx, s.newGame("game-1", "Sprint", now)))
	s.Require().NoError(afero.WriteFile(s.fs, "data/readme.txt", []byte("not a game"), 0o644))

	summaries, err := s.storage.ListGames(s.ctx)
	s.Require().NoError(err)
	s.Len(summaries, 1)
}

func (s *StorageSuite) TestDeleteGame() {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(s.storage.SaveGame(s.ctx, s.newGame("game-1", "Sprint", now)))

	s.Require().NoError(s.storage.DeleteGame(s.ctx, "game-1"))

	_, err := s.storage.LoadGame(s.ctx, "game-1")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestDeleteGameNotFound() {
	err := s.storage.DeleteGame(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestTestConnectionCleansUpProbe() {
	s.Require().NoError(s.storage.TestConnection(s.ctx))

	exists, err := afero.Exists(s.fs, "data/.scorekeep-probe")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *StorageSuite) TestExportImportRoundTrip() {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(s.storage.SaveGame(s.ctx, s.newGame("game-1", "Sprint", now)))

	backup, err := s.storage.Export(s.ctx)
	s.Require().NoError(err)
	s.Len(backup, 1)

	restored, err := NewWithFs(afero.NewMemMapFs(), "data")
	s.Require().NoError(err)
	s.Require().NoError(restored.Import(s.ctx, backup))

	game, err := restored.LoadGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Equal("Sprint", game.Name)
}

func (s *StorageSuite) TestImportReplacesExistingState() {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(s.storage.SaveGame(s.ctx, s.newGame("game-old", "Old", now)))

	backup := storage.Backup{
		"game-new": storage.NewDocument(s.newGame("game-new", "New", now)),
	}
	s.Require().NoError(s.storage.Import(s.ctx, backup))

	_, err := s.storage.LoadGame(s.ctx, "game-old")
	s.ErrorIs(err, model.ErrGameNotFound)

	_, err = s.storage.LoadGame(s.ctx, "game-new")
	s.NoError(err)
}
