package bucket

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/tallyhq/scorekeep/internal/model"
	"github.com/tallyhq/scorekeep/internal/storage"
)

const (
	objectPrefix = "game-"
	objectSuffix = ".json"
	probeObject  = ".scorekeep-probe"

	// Object metadata field names; an externally visible contract,
	// kept stable for compatibility with other readers of the bucket
	metaGameID      = "gameId"
	metaGameName    = "gameName"
	metaLastUpdated = "lastUpdated"
)

// Storage is an object-store implementation of the storage interface:
// one JSON blob per game in a cloud bucket, named game-<id>.json
type Storage struct {
	client *gcs.Client
	bucket *gcs.BucketHandle
	cfg    Config
}

// New creates a bucket storage instance, creating the bucket if it
// does not exist yet
func New(ctx context.Context, cfg Config) (*Storage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	s := &Storage{
		client: client,
		bucket: client.Bucket(cfg.BucketName),
		cfg:    cfg,
	}

	if err := s.ensureBucket(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}
	return s, nil
}

// ensureBucket creates the bucket in the configured project when absent
func (s *Storage) ensureBucket(ctx context.Context) error {
	_, err := s.bucket.Attrs(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gcs.ErrBucketNotExist) {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if err := s.bucket.Create(ctx, s.cfg.ProjectID, nil); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// Close closes the underlying client
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// objectName returns the blob name for a game ID
func objectName(id model.GameID) string {
	return objectPrefix + string(id) + objectSuffix
}

// parseObjectName extracts the game ID from a blob name, or "" when the
// blob is not a game document
func parseObjectName(name string) model.GameID {
	if !strings.HasPrefix(name, objectPrefix) || !strings.HasSuffix(name, objectSuffix) {
		return ""
	}
	return model.GameID(strings.TrimSuffix(strings.TrimPrefix(name, objectPrefix), objectSuffix))
}

// objectMetadata builds the metadata fields written with every blob
func objectMetadata(game *model.Game) map[string]string {
	return map[string]string{
		metaGameID:      string(game.ID),
		metaGameName:    game.Name,
		metaLastUpdated: game.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// summaryFromMetadata reconstructs a listing summary from blob metadata.
// Returns false when the metadata is missing or unparseable.
func summaryFromMetadata(meta map[string]string) (model.GameSummary, bool) {
	id := meta[metaGameID]
	if id == "" {
		return model.GameSummary{}, false
	}
	updated, err := time.Parse(time.RFC3339Nano, meta[metaLastUpdated])
	if err != nil {
		return model.GameSummary{}, false
	}
	return model.GameSummary{
		ID:        model.GameID(id),
		Name:      meta[metaGameName],
		UpdatedAt: updated,
	}, true
}

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	data, err := storage.EncodeGame(game)
	if err != nil {
		return err
	}
	return s.writeObject(ctx, objectName(game.ID), data, objectMetadata(game))
}

func (s *Storage) writeObject(ctx context.Context, name string, data []byte, meta map[string]string) error {
	w := s.bucket.Object(name).NewWriter(ctx)
	w.ContentType = "application/json"
	w.Metadata = meta

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write object %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to write object %s: %w", name, err)
	}
	return nil
}

func (s *Storage) LoadGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	r, err := s.bucket.Object(objectName(id)).NewReader(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return nil, model.ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to read object: %w", err)
	}
	defer func() { _ = r.Close() }()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read object: %w", err)
	}
	return storage.DecodeGame(data)
}

func (s *Storage) ListGames(ctx context.Context) ([]model.GameSummary, error) {
	var summaries []model.GameSummary

	it := s.bucket.Objects(ctx, &gcs.Query{Prefix: objectPrefix})
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}

		id := parseObjectName(attrs.Name)
		if id == "" {
			continue
		}

		if summary, ok := summaryFromMetadata(attrs.Metadata); ok {
			summaries = append(summaries, summary)
			continue
		}

		// Metadata missing (blob written by another tool); fall back
		// to reading the document itself
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

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	err := s.bucket.Object(objectName(id)).Delete(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return model.ErrGameNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (s *Storage) TestConnection(ctx context.Context) error {
	if err := s.writeObject(ctx, probeObject, []byte("ok"), nil); err != nil {
		return err
	}
	if err := s.bucket.Object(probeObject).Delete(ctx); err != nil {
		return fmt.Errorf("failed to clean up probe object: %w", err)
	}
	return nil
}

func (s *Storage) Export(ctx context.Context) (storage.Backup, error) {
	summaries, err := s.ListGames(ctx)
	if err != nil {
		return nil, err
	}

	backup := make(storage.Backup, len(summaries))
	for _, summary := range summaries {
		game, err := s.LoadGame(ctx, summary.ID)
		if err != nil {
			return nil, err
		}
		backup[summary.ID] = storage.NewDocument(game)
	}
	return backup, nil
}

func (s *Storage) Import(ctx context.Context, backup storage.Backup) error {
	if err := storage.ValidateBackup(backup); err != nil {
		return err
	}

	// Encode everything before the first write
	type entry struct {
		name string
		data []byte
		meta map[string]string
	}
	entries := make([]entry, 0, len(backup))
	for id, doc := range backup {
		data, err := storage.EncodeGame(doc.Game)
		if err != nil {
			return err
		}
		entries = append(entries, entry{
			name: objectName(id),
			data: data,
			meta: objectMetadata(doc.Game),
		})
	}

	existing, err := s.ListGames(ctx)
	if err != nil {
		return err
	}
	for _, summary := range existing {
		if _, replaced := backup[summary.ID]; replaced {
			continue
		}
		if err := s.DeleteGame(ctx, summary.ID); err != nil {
			return err
		}
	}

	for _, e := range entries {
		if err := s.writeObject(ctx, e.name, e.data, e.meta); err != nil {
			return err
		}
	}
	return nil
}
