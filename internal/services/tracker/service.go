package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/tallyhq/scorekeep/internal/dependencies/clock"
	"github.com/tallyhq/scorekeep/internal/dependencies/identity"
	"github.com/tallyhq/scorekeep/internal/model"
	"github.com/tallyhq/scorekeep/internal/services/ranking"
	"github.com/tallyhq/scorekeep/internal/storage"
)

// State is an observable snapshot of the store
type State struct {
	Games       []*model.Game
	Players     []model.Player
	CurrentGame model.GameID
	Loading     bool
	Err         string
}

// Service is the game repository: it owns the in-memory game and player
// collections, is the sole writer to the storage backend, and derives
// rankings and leaderboards. Every mutation persists first and applies
// in memory only after persistence succeeds, so a failed operation
// leaves the last known good state intact.
type Service struct {
	storage  storage.Storage
	clock    clock.Clock
	ids      identity.Generator
	logger   *slog.Logger
	notifier *Notifier

	mu      sync.RWMutex
	games   []*model.Game
	players []model.Player
	current model.GameID
	loading bool
	lastErr string
}

// New creates a tracker service over the given storage backend
func New(store storage.Storage, clk clock.Clock, ids identity.Generator, logger *slog.Logger) *Service {
	return &Service{
		storage:  store,
		clock:    clk,
		ids:      ids,
		logger:   logger,
		notifier: NewNotifier(logger),
	}
}

// Subscribe registers for change notifications
func (s *Service) Subscribe() (<-chan Event, func()) {
	return s.notifier.Subscribe()
}

// State returns a snapshot of the current store state. Games are cloned
// so callers can never mutate the store through the snapshot.
func (s *Service) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	games := make([]*model.Game, len(s.games))
	for i, g := range s.games {
		games[i] = g.Clone()
	}
	players := make([]model.Player, len(s.players))
	copy(players, s.players)

	return State{
		Games:       games,
		Players:     players,
		CurrentGame: s.current,
		Loading:     s.loading,
		Err:         s.lastErr,
	}
}

// LoadGames replaces the in-memory collection with the backend's
// contents. A game document that fails to load is skipped so one
// corrupt document cannot block the rest of the store; only a failure
// of the listing itself is fatal.
func (s *Service) LoadGames(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.lastErr = ""
	s.mu.Unlock()

	summaries, err := s.storage.ListGames(ctx)
	if err != nil {
		s.mu.Lock()
		s.loading = false
		s.lastErr = fmt.Sprintf("failed to load games: %v", err)
		s.mu.Unlock()
		return fmt.Errorf("failed to load games: %w", err)
	}

	games := make([]*model.Game, 0, len(summaries))
	for _, summary := range summaries {
		game, err := s.storage.LoadGame(ctx, summary.ID)
		if err != nil {
			s.logger.Warn("skipping unreadable game document",
				slog.String("game_id", string(summary.ID)),
				slog.String("error", err.Error()),
			)
			continue
		}
		games = append(games, game)
	}

	s.mu.Lock()
	s.games = games
	s.mergePlayersFromHistoryLocked()
	if s.current != "" && s.findGameLocked(s.current) == nil {
		s.current = ""
	}
	s.loading = false
	s.mu.Unlock()

	s.logger.Info("games loaded",
		slog.Int("listed", len(summaries)),
		slog.Int("loaded", len(games)),
	)
	s.notifier.Publish(Event{Type: EventGamesLoaded})
	return nil
}

// mergePlayersFromHistoryLocked rebuilds the roster from denormalized
// score history, keeping any players already added this session.
// Players have no durable store of their own; score records are their
// only persistence.
func (s *Service) mergePlayersFromHistoryLocked() {
	known := make(map[model.PlayerID]bool, len(s.players))
	for _, p := range s.players {
		known[p.ID] = true
	}

	for _, game := range s.games {
		for i := range game.Scores {
			score := &game.Scores[i]
			if known[score.PlayerID] {
				continue
			}
			known[score.PlayerID] = true
			s.players = append(s.players, model.Player{
				ID:        score.PlayerID,
				Name:      score.PlayerName,
				CreatedAt: score.AchievedAt,
			})
		}
	}
}

func (s *Service) findGameLocked(id model.GameID) *model.Game {
	for _, g := range s.games {
		if g.ID == id {
			return g
		}
	}
	return nil
}

// CreateGame validates the name, persists a fresh game document, and
// appends it to the in-memory collection on success
func (s *Service) CreateGame(ctx context.Context, name, description string, isTimeBased bool) (*model.Game, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.ErrEmptyGameName
	}

	s.mu.RLock()
	duplicate := s.nameExistsLocked(name)
	s.mu.RUnlock()
	if duplicate {
		return nil, model.ErrDuplicateGameName
	}

	now := s.clock.Now()
	game := &model.Game{
		ID:          model.GameID(s.ids.NewID()),
		Name:        name,
		Description: strings.TrimSpace(description),
		IsTimeBased: isTimeBased,
		Scores:      []model.Score{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.storage.SaveGame(ctx, game); err != nil {
		s.recordError("failed to save game", err)
		return nil, fmt.Errorf("failed to save game: %w", err)
	}

	s.mu.Lock()
	// Re-check under the write lock; a concurrent create may have
	// taken the name while we were persisting
	if s.nameExistsLocked(name) {
		s.mu.Unlock()
		return nil, model.ErrDuplicateGameName
	}
	s.games = append(s.games, game)
	s.mu.Unlock()

	s.logger.Info("game created",
		slog.String("game_id", string(game.ID)),
		slog.String("name", game.Name),
		slog.Bool("time_based", game.IsTimeBased),
	)
	s.notifier.Publish(Event{Type: EventGameCreated, GameID: game.ID})
	return game.Clone(), nil
}

func (s *Service) nameExistsLocked(name string) bool {
	normalized := model.NormalizeName(name)
	for _, g := range s.games {
		if model.NormalizeName(g.Name) == normalized {
			return true
		}
	}
	return false
}

// AddPlayer appends a new player to the in-memory roster. Players are
// not persisted on their own; they become durable only through the
// denormalized copies embedded in score records.
func (s *Service) AddPlayer(name string) (*model.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.ErrEmptyPlayerName
	}

	player := model.Player{
		ID:        model.PlayerID(s.ids.NewID()),
		Name:      name,
		CreatedAt: s.clock.Now(),
	}

	s.mu.Lock()
	s.players = append(s.players, player)
	s.mu.Unlock()

	s.notifier.Publish(Event{Type: EventPlayerAdded})
	return &player, nil
}

func (s *Service) findPlayerLocked(id model.PlayerID) *model.Player {
	for i := range s.players {
		if s.players[i].ID == id {
			return &s.players[i]
		}
	}
	return nil
}

// AddScore appends a score to a game. The full updated document is
// persisted; only on success is the in-memory game replaced with the
// updated copy. An empty playerID registers a new player from
// playerName on the fly.
func (s *Service) AddScore(ctx context.Context, gameID model.GameID, playerID model.PlayerID, playerName string, value float64, notes string) (*model.Score, error) {
	if value < 0 {
		return nil, model.ErrNegativeScore
	}
	if len(notes) > model.MaxNotesLength {
		return nil, model.ErrNotesTooLong
	}

	s.mu.RLock()
	game := s.findGameLocked(gameID)
	s.mu.RUnlock()
	if game == nil {
		return nil, model.ErrGameNotFound
	}

	player, err := s.resolvePlayer(playerID, playerName)
	if err != nil {
		return nil, err
	}

	score := model.Score{
		ID:         model.ScoreID(s.ids.NewID()),
		PlayerID:   player.ID,
		PlayerName: player.Name,
		Value:      value,
		IsTime:     game.IsTimeBased,
		AchievedAt: s.clock.Now(),
		Notes:      notes,
	}

	updated := game.WithScore(score)
	if err := s.storage.SaveGame(ctx, updated); err != nil {
		s.recordError("failed to save score", err)
		return nil, fmt.Errorf("failed to save score: %w", err)
	}

	s.mu.Lock()
	for i, g := range s.games {
		if g.ID == gameID {
			s.games[i] = updated
			break
		}
	}
	s.mu.Unlock()

	s.logger.Info("score recorded",
		slog.String("game_id", string(gameID)),
		slog.String("player", player.Name),
		slog.Float64("value", value),
	)
	s.notifier.Publish(Event{Type: EventScoreAdded, GameID: gameID})
	return &score, nil
}

// resolvePlayer returns the existing player for an ID, or registers a
// new one from the name when the ID is empty
func (s *Service) resolvePlayer(playerID model.PlayerID, playerName string) (model.Player, error) {
	if playerID == "" {
		player, err := s.AddPlayer(playerName)
		if err != nil {
			return model.Player{}, err
		}
		return *player, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	player := s.findPlayerLocked(playerID)
	if player == nil {
		return model.Player{}, model.ErrPlayerNotFound
	}
	return *player, nil
}

// DeleteGame persists the deletion first, then removes the game from
// memory and clears the selection if it pointed at the deleted game
func (s *Service) DeleteGame(ctx context.Context, gameID model.GameID) error {
	s.mu.RLock()
	game := s.findGameLocked(gameID)
	s.mu.RUnlock()
	if game == nil {
		return model.ErrGameNotFound
	}

	if err := s.storage.DeleteGame(ctx, gameID); err != nil {
		s.recordError("failed to delete game", err)
		return fmt.Errorf("failed to delete game: %w", err)
	}

	s.mu.Lock()
	for i, g := range s.games {
		if g.ID == gameID {
			s.games = append(s.games[:i], s.games[i+1:]...)
			break
		}
	}
	if s.current == gameID {
		s.current = ""
	}
	s.mu.Unlock()

	s.logger.Info("game deleted", slog.String("game_id", string(gameID)))
	s.notifier.Publish(Event{Type: EventGameDeleted, GameID: gameID})
	return nil
}

// SetCurrentGame selects a game in memory; no persistence involved
func (s *Service) SetCurrentGame(gameID model.GameID) error {
	s.mu.Lock()
	if s.findGameLocked(gameID) == nil {
		s.mu.Unlock()
		return model.ErrGameNotFound
	}
	s.current = gameID
	s.mu.Unlock()

	s.notifier.Publish(Event{Type: EventSelectionChanged, GameID: gameID})
	return nil
}

// ClearCurrentGame clears the in-memory selection
func (s *Service) ClearCurrentGame() {
	s.mu.Lock()
	s.current = ""
	s.mu.Unlock()

	s.notifier.Publish(Event{Type: EventSelectionChanged})
}

// GetGame returns a clone of the game, or model.ErrGameNotFound
func (s *Service) GetGame(gameID model.GameID) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game := s.findGameLocked(gameID)
	if game == nil {
		return nil, model.ErrGameNotFound
	}
	return game.Clone(), nil
}

// GetScores returns a new sorted and filtered view of a game's scores;
// the stored score order is never touched
func (s *Service) GetScores(gameID model.GameID, order ranking.SortOrder, filter ranking.Filter) ([]model.Score, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game := s.findGameLocked(gameID)
	if game == nil {
		return nil, model.ErrGameNotFound
	}
	return ranking.Scores(game, order, filter), nil
}

// GetBestScore returns the player's single best score in the game.
// Exact ties keep the score recorded first.
func (s *Service) GetBestScore(gameID model.GameID, playerID model.PlayerID) (*model.Score, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game := s.findGameLocked(gameID)
	if game == nil {
		return nil, model.ErrGameNotFound
	}
	best, ok := ranking.BestScore(game, playerID)
	if !ok {
		return nil, model.ErrNoScores
	}
	return &best, nil
}

// GetLeaderboard returns each scoring player's best result, ranked in
// the game's winning direction and truncated to limit
func (s *Service) GetLeaderboard(gameID model.GameID, limit int) ([]model.LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game := s.findGameLocked(gameID)
	if game == nil {
		return nil, model.ErrGameNotFound
	}
	return ranking.Leaderboard(game, s.players, limit), nil
}

// ExportData dumps the whole store for backup
func (s *Service) ExportData(ctx context.Context) (storage.Backup, error) {
	backup, err := s.storage.Export(ctx)
	if err != nil {
		s.recordError("failed to export store", err)
		return nil, fmt.Errorf("failed to export store: %w", err)
	}
	return backup, nil
}

// ImportData replaces the entire store with the backup contents and
// reloads the in-memory collection from the backend
func (s *Service) ImportData(ctx context.Context, backup storage.Backup) error {
	if err := s.storage.Import(ctx, backup); err != nil {
		s.recordError("failed to import store", err)
		return fmt.Errorf("failed to import store: %w", err)
	}

	if err := s.LoadGames(ctx); err != nil {
		return err
	}
	s.notifier.Publish(Event{Type: EventStoreImported})
	return nil
}

// recordError captures a persistence failure as the store's surfaced
// error message; prior in-memory state stays untouched
func (s *Service) recordError(context string, err error) {
	s.mu.Lock()
	s.lastErr = fmt.Sprintf("%s: %v", context, err)
	s.mu.Unlock()

	s.logger.Error(context, slog.String("error", err.Error()))
}
