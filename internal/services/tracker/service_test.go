package tracker_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/tallyhq/scorekeep/internal/dependencies/mocks"
	"github.com/tallyhq/scorekeep/internal/model"
	"github.com/tallyhq/scorekeep/internal/services/ranking"
	"github.com/tallyhq/scorekeep/internal/services/tracker"
	"github.com/tallyhq/scorekeep/internal/storage/memory"
	"github.com/tallyhq/scorekeep/internal/testutil"
)

type TrackerServiceTestSuite struct {
	suite.Suite
	store   *memory.Storage
	clock   *mocks.MockClock
	ids     *mocks.MockGenerator
	service *tracker.Service
}

func TestTrackerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TrackerServiceTestSuite))
}

func (s *TrackerServiceTestSuite) SetupTest() {
	s.store = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	s.ids = mocks.NewMockGenerator()
	s.service = tracker.New(s.store, s.clock, s.ids, testutil.NopLogger())
}

func (s *TrackerServiceTestSuite) mustCreateGame(name string, timeBased bool) *model.Game {
	game, err := s.service.CreateGame(context.Background(), name, "", timeBased)
	s.Require().NoError(err)
	return game
}

func (s *TrackerServiceTestSuite) mustAddScore(gameID model.GameID, playerName string, value float64) *model.Score {
	score, err := s.service.AddScore(context.Background(), gameID, "", playerName, value, "")
	s.Require().NoError(err)
	return score
}

func (s *TrackerServiceTestSuite) TestCreateGame() {
	game := s.mustCreateGame("Darts", false)

	s.Equal("Darts", game.Name)
	s.False(game.IsTimeBased)
	s.Equal(s.clock.Now(), game.CreatedAt)
	s.NotEmpty(game.ID)

	persisted, err := s.store.LoadGame(context.Background(), game.ID)
	s.Require().NoError(err)
	s.Equal(game.Name, persisted.Name)
}

func (s *TrackerServiceTestSuite) TestCreateGameTrimsName() {
	game := s.mustCreateGame("  Darts  ", false)
	s.Equal("Darts", game.Name)
}

func (s *TrackerServiceTestSuite) TestCreateGameEmptyName() {
	_, err := s.service.CreateGame(context.Background(), "   ", "", false)
	s.ErrorIs(err, model.ErrEmptyGameName)
}

func (s *TrackerServiceTestSuite) TestCreateGameDuplicateName() {
	s.mustCreateGame("Darts", false)

	_, err := s.service.CreateGame(context.Background(), "  DARTS ", "", true)
	s.ErrorIs(err, model.ErrDuplicateGameName)

	s.Len(s.service.State().Games, 1)
}

func (s *TrackerServiceTestSuite) TestCreateGameStorageFailure() {
	s.store.FailWith(memory.ErrInjected)

	_, err := s.service.CreateGame(context.Background(), "Darts", "", false)
	s.Error(err)

	state := s.service.State()
	s.Empty(state.Games)
	s.Contains(state.Err, "failed to save game")
}

func (s *TrackerServiceTestSuite) TestAddPlayer() {
	player, err := s.service.AddPlayer("Alice")
	s.Require().NoError(err)
	s.Equal("Alice", player.Name)

	state := s.service.State()
	s.Require().Len(state.Players, 1)
	s.Equal(player.ID, state.Players[0].ID)
}

func (s *TrackerServiceTestSuite) TestAddPlayerEmptyName() {
	_, err := s.service.AddPlayer("  ")
	s.ErrorIs(err, model.ErrEmptyPlayerName)
}

func (s *TrackerServiceTestSuite) TestAddScoreImplicitPlayer() {
	game := s.mustCreateGame("Darts", false)

	score := s.mustAddScore(game.ID, "Alice", 120)
	s.Equal("Alice", score.PlayerName)
	s.NotEmpty(score.PlayerID)
	s.False(score.IsTime)

	state := s.service.State()
	s.Require().Len(state.Players, 1)
	s.Equal(score.PlayerID, state.Players[0].ID)
}

func (s *TrackerServiceTestSuite) TestAddScoreExistingPlayer() {
	game := s.mustCreateGame("Darts", false)
	player, err := s.service.AddPlayer("Alice")
	s.Require().NoError(err)

	score, err := s.service.AddScore(context.Background(), game.ID, player.ID, "", 42, "triple twenty")
	s.Require().NoError(err)
	s.Equal(player.ID, score.PlayerID)
	s.Equal("Alice", score.PlayerName)
	s.Equal("triple twenty", score.Notes)

	// roster unchanged
	s.Len(s.service.State().Players, 1)
}

func (s *TrackerServiceTestSuite) TestAddScoreUnknownPlayer() {
	game := s.mustCreateGame("Darts", false)

	_, err := s.service.AddScore(context.Background(), game.ID, "nope", "", 42, "")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *TrackerServiceTestSuite) TestAddScoreValidation() {
	game := s.mustCreateGame("Darts", false)

	_, err := s.service.AddScore(context.Background(), game.ID, "", "Alice", -1, "")
	s.ErrorIs(err, model.ErrNegativeScore)

	long := make([]byte, model.MaxNotesLength+1)
	for i := range long {
		long[i] = 'x'
	}
	_, err = s.service.AddScore(context.Background(), game.ID, "", "Alice", 1, string(long))
	s.ErrorIs(err, model.ErrNotesTooLong)

	_, err = s.service.AddScore(context.Background(), "missing", "", "Alice", 1, "")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *TrackerServiceTestSuite) TestAddScoreUpdatesGameTimestamp() {
	game := s.mustCreateGame("Darts", false)

	s.clock.Advance(time.Hour)
	score := s.mustAddScore(game.ID, "Alice", 50)

	updated, err := s.service.GetGame(game.ID)
	s.Require().NoError(err)
	s.Equal(score.AchievedAt, updated.UpdatedAt)
	s.True(updated.UpdatedAt.After(game.UpdatedAt))
}

func (s *TrackerServiceTestSuite) TestAddScoreStorageFailureKeepsState() {
	game := s.mustCreateGame("Darts", false)
	s.mustAddScore(game.ID, "Alice", 50)

	s.store.FailWith(memory.ErrInjected)
	_, err := s.service.AddScore(context.Background(), game.ID, "", "Bob", 60, "")
	s.Error(err)

	current, getErr := s.service.GetGame(game.ID)
	s.Require().NoError(getErr)
	s.Len(current.Scores, 1)
	s.Contains(s.service.State().Err, "failed to save score")
}

func (s *TrackerServiceTestSuite) TestAddScoreTimeBasedGame() {
	game := s.mustCreateGame("Sprint", true)
	score := s.mustAddScore(game.ID, "Alice", 12.5)
	s.True(score.IsTime)
}

func (s *TrackerServiceTestSuite) TestDeleteGame() {
	game := s.mustCreateGame("Darts", false)
	s.Require().NoError(s.service.SetCurrentGame(game.ID))

	err := s.service.DeleteGame(context.Background(), game.ID)
	s.Require().NoError(err)

	state := s.service.State()
	s.Empty(state.Games)
	s.Empty(state.CurrentGame)

	_, err = s.store.LoadGame(context.Background(), game.ID)
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *TrackerServiceTestSuite) TestDeleteGameNotFound() {
	err := s.service.DeleteGame(context.Background(), "missing")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *TrackerServiceTestSuite) TestDeleteGameStorageFailure() {
	game := s.mustCreateGame("Darts", false)

	s.store.FailWith(memory.ErrInjected)
	err := s.service.DeleteGame(context.Background(), game.ID)
	s.Error(err)

	// game stays in memory when the backend delete fails
	s.Len(s.service.State().Games, 1)
}

func (s *TrackerServiceTestSuite) TestSetCurrentGame() {
	game := s.mustCreateGame("Darts", false)

	s.Require().NoError(s.service.SetCurrentGame(game.ID))
	s.Equal(game.ID, s.service.State().CurrentGame)

	s.service.ClearCurrentGame()
	s.Empty(s.service.State().CurrentGame)

	s.ErrorIs(s.service.SetCurrentGame("missing"), model.ErrGameNotFound)
}

func (s *TrackerServiceTestSuite) TestLoadGamesRebuildsRoster() {
	game := s.mustCreateGame("Darts", false)
	s.mustAddScore(game.ID, "Alice", 10)
	s.mustAddScore(game.ID, "Bob", 20)

	// fresh service sharing the same backend, as after a restart
	restarted := tracker.New(s.store, s.clock, mocks.NewMockGenerator(), testutil.NopLogger())
	s.Require().NoError(restarted.LoadGames(context.Background()))

	state := restarted.State()
	s.Require().Len(state.Games, 1)
	s.Len(state.Games[0].Scores, 2)

	names := make([]string, 0, len(state.Players))
	for _, p := range state.Players {
		names = append(names, p.Name)
	}
	s.ElementsMatch([]string{"Alice", "Bob"}, names)
}

func (s *TrackerServiceTestSuite) TestLoadGamesListFailure() {
	s.mustCreateGame("Darts", false)

	s.store.FailWith(memory.ErrInjected)
	err := s.service.LoadGames(context.Background())
	s.Error(err)

	state := s.service.State()
	s.False(state.Loading)
	s.Contains(state.Err, "failed to load games")
}

func (s *TrackerServiceTestSuite) TestLoadGamesClearsStaleSelection() {
	game := s.mustCreateGame("Darts", false)
	s.Require().NoError(s.service.SetCurrentGame(game.ID))

	// remove behind the service's back
	s.Require().NoError(s.store.DeleteGame(context.Background(), game.ID))

	s.Require().NoError(s.service.LoadGames(context.Background()))
	s.Empty(s.service.State().CurrentGame)
}

func (s *TrackerServiceTestSuite) TestGetScoresSortedAndFiltered() {
	game := s.mustCreateGame("Darts", false)
	s.mustAddScore(game.ID, "Alice", 10)
	s.clock.Advance(time.Minute)
	bob := s.mustAddScore(game.ID, "Bob", 30)
	s.clock.Advance(time.Minute)
	s.mustAddScore(game.ID, "Alice", 20)

	scores, err := s.service.GetScores(game.ID, ranking.BestFirst, ranking.Filter{})
	s.Require().NoError(err)
	s.Require().Len(scores, 3)
	s.Equal(30.0, scores[0].Value)

	scores, err = s.service.GetScores(game.ID, ranking.BestFirst, ranking.Filter{PlayerID: bob.PlayerID})
	s.Require().NoError(err)
	s.Require().Len(scores, 1)
	s.Equal("Bob", scores[0].PlayerName)

	_, err = s.service.GetScores("missing", ranking.BestFirst, ranking.Filter{})
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *TrackerServiceTestSuite) TestGetBestScore() {
	game := s.mustCreateGame("Sprint", true)
	alice := s.mustAddScore(game.ID, "Alice", 14.2)
	s.clock.Advance(time.Minute)
	_, err := s.service.AddScore(context.Background(), game.ID, alice.PlayerID, "", 12.8, "")
	s.Require().NoError(err)

	best, err := s.service.GetBestScore(game.ID, alice.PlayerID)
	s.Require().NoError(err)
	s.Equal(12.8, best.Value)

	_, err = s.service.GetBestScore(game.ID, "nobody")
	s.ErrorIs(err, model.ErrNoScores)
}

func (s *TrackerServiceTestSuite) TestGetLeaderboard() {
	game := s.mustCreateGame("Darts", false)
	s.mustAddScore(game.ID, "Alice", 10)
	s.clock.Advance(time.Minute)
	s.mustAddScore(game.ID, "Bob", 30)
	// Carol never scores, so she never ranks
	_, err := s.service.AddPlayer("Carol")
	s.Require().NoError(err)

	entries, err := s.service.GetLeaderboard(game.ID, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal("Bob", entries[0].Player.Name)
	s.Equal(30.0, entries[0].BestScore.Value)
	s.Equal("Alice", entries[1].Player.Name)
}

func (s *TrackerServiceTestSuite) TestExportImportRoundTrip() {
	game := s.mustCreateGame("Darts", false)
	s.mustAddScore(game.ID, "Alice", 10)

	backup, err := s.service.ExportData(context.Background())
	s.Require().NoError(err)
	s.Require().Len(backup, 1)

	s.Require().NoError(s.service.DeleteGame(context.Background(), game.ID))
	s.Empty(s.service.State().Games)

	s.Require().NoError(s.service.ImportData(context.Background(), backup))

	state := s.service.State()
	s.Require().Len(state.Games, 1)
	s.Equal(game.ID, state.Games[0].ID)
	s.Len(state.Games[0].Scores, 1)
}

func (s *TrackerServiceTestSuite) TestStateSnapshotIsDetached() {
	game := s.mustCreateGame("Darts", false)
	s.mustAddScore(game.ID, "Alice", 10)

	state := s.service.State()
	state.Games[0].Name = "mutated"
	state.Games[0].Scores[0].Value = 999

	fresh, err := s.service.GetGame(game.ID)
	s.Require().NoError(err)
	s.Equal("Darts", fresh.Name)
	s.Equal(10.0, fresh.Scores[0].Value)
}

func (s *TrackerServiceTestSuite) TestMutationsPublishEvents() {
	events, cancel := s.service.Subscribe()
	defer cancel()

	game := s.mustCreateGame("Darts", false)
	s.mustAddScore(game.ID, "Alice", 10)
	s.Require().NoError(s.service.DeleteGame(context.Background(), game.ID))

	seen := make([]tracker.EventType, 0, 4)
	for len(seen) < 4 {
		select {
		case ev := <-events:
			seen = append(seen, ev.Type)
		case <-time.After(time.Second):
			s.FailNow("timed out waiting for events")
		}
	}
	s.Equal([]tracker.EventType{
		tracker.EventGameCreated,
		tracker.EventPlayerAdded,
		tracker.EventScoreAdded,
		tracker.EventGameDeleted,
	}, seen)
}
