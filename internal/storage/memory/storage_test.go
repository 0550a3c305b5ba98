package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/tallyhq/scorekeep/internal/model"
	"github.com/tallyhq/scorekeep/internal/storage"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) newGame(id model.GameID, name string, updatedAt time.Time) *model.Game {
	return &model.Game{
		ID:          id,
		Name:        name,
		IsTimeBased: false,
		Scores:      []model.Score{},
		CreatedAt:   updatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (s *StorageSuite) TestSaveAndLoadGame() {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	game := s.newGame("game-1", "Darts", now)
	game.Scores = []model.Score{
		{ID: "score-1", PlayerID: "player-1", PlayerName: "Alice", Value: 180, AchievedAt: now},
	}

	err := s.storage.SaveGame(s.ctx, game)
	s.Require().NoError(err)

	loaded, err := s.storage.LoadGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Equal(game, loaded)
}

func (s *StorageSuite) TestLoadGameNotFound() {
	_, err := s.storage.LoadGame(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestSaveGameIsIdempotent() {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	game := s.newGame("game-1", "Darts", now)

	s.Require().NoError(s.storage.SaveGame(s.ctx, game))
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	summaries, err := s.storage.ListGames(s.ctx)
	s.Require().NoError(err)
	s.Len(summaries, 1)
}

func (s *StorageSuite) TestLoadedGameIsDetachedFromStore() {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	game := s.newGame("game-1", "Darts", now)
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	first, err := s.storage.LoadGame(s.ctx, "game-1")
	s.Require().NoError(err)
	first.Scores = append(first.Scores, model.Score{ID: "rogue"})

	second, err := s.storage.LoadGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Empty(second.Scores)
}

func (s *StorageSuite) TestListGamesOrderedByUpdatedAtDesc() {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	s.Require().NoError(s.storage.SaveGame(s.ctx, s.newGame("game-old", "Old", base)))
	s.Require().NoError(s.storage.SaveGame(s.ctx, s.newGame("game-new", "New", base.Add(2*time.Hour))))
	s.Require().NoError(s.storage.SaveGame(s.ctx, s.newGame("game-mid", "Mid", base.Add(time.Hour))))

	summaries, err := s.storage.ListGames(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(summaries, 3)
	s.Equal(model.GameID("game-new"), summaries[0].ID)
	s.Equal(model.GameID("game-mid"), summaries[1].ID)
	s.Equal(model.GameID("game-old"), summaries[2].ID)
}

func (s *StorageSuite) TestListGamesEmptyStore() {
	summaries, err := s.storage.ListGames(s.ctx)
	s.Require().NoError(err)
	s.Empty(summaries)
}

func (s *StorageSuite) TestDeleteGame() {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(s.storage.SaveGame(s.ctx, s.newGame("game-1", "Darts", now)))

	err := s.storage.DeleteGame(s.ctx, "game-1")
	s.Require().NoError(err)

	_, err = s.storage.LoadGame(s.ctx, "game-1")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestDeleteGameNotFound() {
	err := s.storage.DeleteGame(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestDeleteGameTwiceFails() {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(s.storage.SaveGame(s.ctx, s.newGame("game-1", "Darts", now)))
	s.Require().NoError(s.storage.DeleteGame(s.ctx, "game-1"))

	err := s.storage.DeleteGame(s.ctx, "game-1")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestTestConnection() {
	s.NoError(s.storage.TestConnection(s.ctx))
}

func (s *StorageSuite) TestExportImportRoundTrip() {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(s.storage.SaveGame(s.ctx, s.newGame("game-1", "Darts", now)))
	s.Require().NoError(s.storage.SaveGame(s.ctx, s.newGame("game-2", "Sprint", now.Add(time.Hour))))

	backup, err := s.storage.Export(s.ctx)
	s.Require().NoError(err)
	s.Len(backup, 2)
	s.Equal(storage.DocumentVersion, backup["game-1"].Version)

	restored := New()
	s.Require().NoError(restored.Import(s.ctx, backup))

	game, err := restored.LoadGame(s.ctx, "game-2")
	s.Require().NoError(err)
	s.Equal("Sprint", game.Name)
}

func (s *StorageSuite) TestImportReplacesExistingState() {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(s.storage.SaveGame(s.ctx, s.newGame("game-old", "Old", now)))

	incoming := s.newGame("game-new", "New", now)
	backup := storage.Backup{"game-new": storage.NewDocument(incoming)}
	s.Require().NoError(s.storage.Import(s.ctx, backup))

	_, err := s.storage.LoadGame(s.ctx, "game-old")
	s.ErrorIs(err, model.ErrGameNotFound)

	_, err = s.storage.LoadGame(s.ctx, "game-new")
	s.NoError(err)
}

func (s *StorageSuite) TestImportRejectsBadBackupWithoutChanges() {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(s.storage.SaveGame(s.ctx, s.newGame("game-1", "Darts", now)))

	bad := storage.Backup{"game-2": {Version: storage.DocumentVersion}}
	err := s.storage.Import(s.ctx, bad)
	s.Error(err)

	// Prior state untouched
	_, err = s.storage.LoadGame(s.ctx, "game-1")
	s.NoError(err)
}
