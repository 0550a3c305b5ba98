package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tallyhq/scorekeep/internal/model"
	"github.com/tallyhq/scorekeep/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Game documents are stored as JSON strings; a ZSET keyed by UpdatedAt
// and a summary HASH keep ListGames cheap.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	data, err := storage.EncodeGame(game)
	if err != nil {
		return err
	}

	summary, err := json.Marshal(model.GameSummary{
		ID:        game.ID,
		Name:      game.Name,
		UpdatedAt: game.UpdatedAt,
	})
	if err != nil {
		return err
	}

	// Pipeline for atomic document + index update
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, gameKey(game.ID), data, 0)
	pipe.ZAdd(ctx, recencyIndexKey(), redis.Z{
		Score:  float64(game.UpdatedAt.UnixNano()),
		Member: string(game.ID),
	})
	pipe.HSet(ctx, summaryIndexKey(), string(game.ID), summary)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) LoadGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	data, err := s.client.Get(ctx, gameKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}
	return storage.DecodeGame(data)
}

func (s *Storage) ListGames(ctx context.Context) ([]model.GameSummary, error) {
	// Most recently updated first
	ids, err := s.client.ZRevRange(ctx, recencyIndexKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []model.GameSummary{}, nil
	}

	raw, err := s.client.HMGet(ctx, summaryIndexKey(), ids...).Result()
	if err != nil {
		return nil, err
	}

	summaries := make([]model.GameSummary, 0, len(ids))
	for i, v := range raw {
		str, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("summary index missing entry for game %q", ids[i])
		}
		var summary model.GameSummary
		if err := json.Unmarshal([]byte(str), &summary); err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	exists, err := s.client.Exists(ctx, gameKey(id)).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return model.ErrGameNotFound
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, gameKey(id))
	pipe.ZRem(ctx, recencyIndexKey(), string(id))
	pipe.HDel(ctx, summaryIndexKey(), string(id))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) TestConnection(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return err
	}

	// Probe write, cleaned up immediately
	key := probeKey()
	if err := s.client.Set(ctx, key, "ok", time.Minute).Err(); err != nil {
		return err
	}
	return s.client.Del(ctx, key).Err()
}

func (s *Storage) Export(ctx context.Context) (storage.Backup, error) {
	ids, err := s.client.ZRange(ctx, recencyIndexKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	backup := make(storage.Backup, len(ids))
	for _, id := range ids {
		game, err := s.LoadGame(ctx, model.GameID(id))
		if err != nil {
			return nil, err
		}
		backup[model.GameID(id)] = storage.NewDocument(game)
	}
	return backup, nil
}

func (s *Storage) Import(ctx context.Context, backup storage.Backup) error {
	if err := storage.ValidateBackup(backup); err != nil {
		return err
	}

	// Encode everything before issuing any command
	type entry struct {
		id      model.GameID
		data    []byte
		summary []byte
		score   float64
	}
	entries := make([]entry, 0, len(backup))
	for id, doc := range backup {
		data, err := storage.EncodeGame(doc.Game)
		if err != nil {
			return err
		}
		summary, err := json.Marshal(model.GameSummary{
			ID:        doc.Game.ID,
			Name:      doc.Game.Name,
			UpdatedAt: doc.Game.UpdatedAt,
		})
		if err != nil {
			return err
		}
		entries = append(entries, entry{
			id:      id,
			data:    data,
			summary: summary,
			score:   float64(doc.Game.UpdatedAt.UnixNano()),
		})
	}

	existing, err := s.client.ZRange(ctx, recencyIndexKey(), 0, -1).Result()
	if err != nil {
		return err
	}

	// Replace everything in one transaction: clear old documents and
	// indexes, then write the backup contents
	pipe := s.client.TxPipeline()
	for _, id := range existing {
		pipe.Del(ctx, gameKey(model.GameID(id)))
	}
	pipe.Del(ctx, recencyIndexKey())
	pipe.Del(ctx, summaryIndexKey())
	for _, e := range entries {
		pipe.Set(ctx, gameKey(e.id), e.data, 0)
		pipe.ZAdd(ctx, recencyIndexKey(), redis.Z{Score: e.score, Member: string(e.id)})
		pipe.HSet(ctx, summaryIndexKey(), string(e.id), e.summary)
	}
	_, err = pipe.Exec(ctx)
	return err
}
