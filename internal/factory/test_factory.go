package factory

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/beatguessr/beatguessr-go/internal/dependencies/mocks"
	"github.com/beatguessr/beatguessr-go/internal/model"
	"github.com/beatguessr/beatguessr-go/internal/storage/memory"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	app := newWithDependencies(store, mockClock, mockRandom, logger, 0, 0)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// LoadTestSongs loads a small fixed catalog for testing
func (t *TestApp) LoadTestSongs(n int) error {
	catalog := make([]model.Song, 0, n)
	for i := 0; i < n; i++ {
		catalog = append(catalog, model.Song{
			ID:         fmt.Sprintf("song-%d", i),
			Title:      fmt.Sprintf("Title %d", i),
			Artist:     fmt.Sprintf("Artist %d", i),
			Year:       1980 + i,
			PreviewURL: fmt.Sprintf("https://cdn.example.com/preview/%d.mp3", i),
			CoverURL:   fmt.Sprintf("https://cdn.example.com/cover/%d.jpg", i),
		})
	}
	return t.SongService.LoadSongs(context.Background(), catalog)
}
