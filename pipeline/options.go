package pipeline

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/eak1mov/go-tilemap/tile"
)

var ErrInvalidTileSize = errors.New("tilemap: invalid tile size")

type config struct {
	TileSize     int
	Logger       *slog.Logger
	ReuseCatalog bool
	Progress     func(done, total int)
}

type Option func(*config)

// WithTileSize sets the tile edge length in pixels. It defaults to 16.
func WithTileSize(size int) Option {
	return func(c *config) { c.TileSize = size }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.Logger = logger }
}

// WithReuseCatalog resolves the tilemap against the in-memory catalog
// instead of decoding the written tileset and the input image again.
func WithReuseCatalog(reuse bool) Option {
	return func(c *config) { c.ReuseCatalog = reuse }
}

// WithProgress registers a callback invoked after each resolved tile.
func WithProgress(progress func(done, total int)) Option {
	return func(c *config) { c.Progress = progress }
}

func newConfig(opts []Option) (config, error) {
	c := config{
		TileSize: tile.DefaultSize,
		Logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.TileSize <= 0 {
		return config{}, fmt.Errorf("%w: %v", ErrInvalidTileSize, c.TileSize)
	}
	return c, nil
}
