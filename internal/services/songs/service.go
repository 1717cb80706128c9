package songs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/beatguessr/beatguessr-go/internal/dependencies/random"
	"github.com/beatguessr/beatguessr-go/internal/model"
	"github.com/beatguessr/beatguessr-go/internal/storage"
)

// Service provides song catalog loading and random draws
type Service struct {
	storage storage.Storage
	random  random.Random
	logger  *slog.Logger
}

// New creates a new song service
func New(store storage.Storage, rnd random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: store,
		random:  rnd,
		logger:  logger.With(slog.String("component", "songs")),
	}
}

// catalogFile matches the scraper's output format
type catalogFile struct {
	Songs []model.Song `json:"songs"`
}

// LoadFromFile loads the song catalog from a JSON file into storage
func (s *Service) LoadFromFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading song catalog: %w", err)
	}

	var catalog catalogFile
	if err := json.Unmarshal(data, &catalog); err != nil {
		return fmt.Errorf("parsing song catalog: %w", err)
	}

	if err := s.storage.SaveSongs(ctx, catalog.Songs); err != nil {
		return err
	}

	s.logger.Info("song catalog loaded",
		slog.String("path", path),
		slog.Int("songs", len(catalog.Songs)))
	return nil
}

// LoadSongs stores an already-parsed catalog (useful for testing)
func (s *Service) LoadSongs(ctx context.Context, catalog []model.Song) error {
	return s.storage.SaveSongs(ctx, catalog)
}

// Count returns the number of songs in the catalog
func (s *Service) Count(ctx context.Context) (int, error) {
	catalog, err := s.storage.GetSongs(ctx)
	if err != nil {
		if errors.Is(err, model.ErrCatalogNotLoaded) {
			return 0, nil
		}
		return 0, err
	}
	return len(catalog), nil
}

// Pick draws a uniformly random song whose ID is not in exclude.
// Returns ErrNoSongsAvailable when every song is excluded or the catalog
// is empty or missing.
func (s *Service) Pick(ctx context.Context, exclude map[string]struct{}) (*model.Song, error) {
	catalog, err := s.storage.GetSongs(ctx)
	if err != nil {
		if errors.Is(err, model.ErrCatalogNotLoaded) {
			return nil, model.ErrNoSongsAvailable
		}
		return nil, err
	}

	available := make([]model.Song, 0, len(catalog))
	for _, song := range catalog {
		if _, used := exclude[song.ID]; !used {
			available = append(available, song)
		}
	}

	if len(available) == 0 {
		return nil, model.ErrNoSongsAvailable
	}

	song := available[s.random.Intn(len(available))]
	return &song, nil
}
