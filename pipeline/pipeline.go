// Package pipeline turns an image into a deduplicated tileset and a tilemap.
//
// Everything runs synchronously in memory: the decoded image, the catalog,
// the encoded tileset and, unless the catalog is reused, a second decoded
// copy of the image and the tileset are held at the same time. Memory grows linearly with image
// size and unique tile count.
package pipeline

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/eak1mov/go-tilemap/catalog"
	"github.com/eak1mov/go-tilemap/imageio"
	"github.com/eak1mov/go-tilemap/tile"
	"github.com/eak1mov/go-tilemap/tiledb"
	"github.com/eak1mov/go-tilemap/tiledir"
	"github.com/eak1mov/go-tilemap/tilemap"
	"github.com/eak1mov/go-tilemap/tileset"
)

// Job names the files of a build run. DBPath and TileDir are optional
// extra exports of the catalog.
type Job struct {
	InputPath   string
	TilesetPath string
	GridPath    string
	DBPath      string
	TileDir     string
}

// DefaultJob derives output names from the input path: "frame0.png" gives
// "frame0tileset.png" and "frame0.txt".
func DefaultJob(inputPath string) Job {
	stem := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	return Job{
		InputPath:   inputPath,
		TilesetPath: stem + "tileset.png",
		GridPath:    stem + ".txt",
	}
}

// Result describes a finished run.
type Result struct {
	Catalog *catalog.Catalog
	Grid    *tilemap.Grid
	Tiles   int
	Misses  int
}

// Build decodes the input, writes the tileset sheet and the grid, and
// exports the catalog to the optional stores. The sheet, the grid and the
// tile database are staged next to their destinations and only replace
// existing files once every output has been produced; tile directory
// exports are written in place just before that.
func Build(job Job, opts ...Option) (*Result, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger.With("input", job.InputPath)

	input, err := imageio.Decode(job.InputPath)
	if err != nil {
		return nil, err
	}

	tiles, cols, rows := tile.Extract(input, cfg.TileSize)
	c := catalog.Build(cfg.TileSize, tiles)
	logger.Debug("tilemap: catalog built", "cols", cols, "rows", rows, "tiles", len(tiles), "unique", c.Len())

	var sheet []byte
	if c.Len() > 0 {
		if sheet, err = encodeSheet(job.TilesetPath, c); err != nil {
			return nil, err
		}
	} else {
		logger.Warn("tilemap: image holds no whole tile, tileset not written", "width", input.Width, "height", input.Height, "tile_size", cfg.TileSize)
	}

	var ref tilemap.Lookup = c
	mapTiles := tiles
	if !cfg.ReuseCatalog && c.Len() > 0 {
		decoded, err := imageio.DecodeReader(bytes.NewReader(sheet))
		if err != nil {
			return nil, err
		}
		ref = tileset.Load(decoded, cfg.TileSize)

		input, err = imageio.Decode(job.InputPath)
		if err != nil {
			return nil, err
		}
		mapTiles, cols, rows = tile.Extract(input, cfg.TileSize)
	}

	grid := tilemap.ResolveFunc(mapTiles, cols, rows, ref, cfg.Progress)

	var stage staging
	defer stage.discard()

	if c.Len() > 0 {
		err := stage.write(job.TilesetPath, func(w io.Writer) error {
			_, err := w.Write(sheet)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", imageio.ErrImageWrite, err)
		}
	}

	err = stage.write(job.GridPath, func(w io.Writer) error {
		return tilemap.WriteFormat(w, job.GridPath, grid)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", tilemap.ErrWrite, err)
	}

	if err := export(job, c, cfg, &stage); err != nil {
		return nil, err
	}

	if err := stage.commit(); err != nil {
		return nil, fmt.Errorf("tilemap: cannot commit outputs: %w", err)
	}

	result := &Result{Catalog: c, Grid: grid, Tiles: len(tiles), Misses: grid.Misses()}
	logger.Debug("tilemap: outputs written", "tileset", job.TilesetPath, "grid", job.GridPath, "misses", result.Misses)
	return result, nil
}

func encodeSheet(filePath string, c *catalog.Catalog) ([]byte, error) {
	format, err := imageio.FormatOf(filePath)
	if err != nil {
		return nil, err
	}
	var buffer bytes.Buffer
	if err := imageio.EncodeWriter(&buffer, format, tileset.Compose(c)); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func export(job Job, c *catalog.Catalog, cfg config, stage *staging) error {
	if job.DBPath != "" {
		tmpPath, err := stage.reserve(job.DBPath)
		if err != nil {
			return err
		}
		writer, err := tiledb.NewWriter(tmpPath, c.TileSize(),
			tiledb.WithMetadata(map[string]string{"source": filepath.Base(job.InputPath)}),
			tiledb.WithLogger(cfg.Logger),
		)
		if err != nil {
			return err
		}
		defer writer.Close()

		if err := writer.WriteCatalog(c); err != nil {
			return err
		}
		if err := writer.Finalize(); err != nil {
			return err
		}
	}

	if job.TileDir != "" {
		writer, err := tiledir.NewWriter(job.TileDir)
		if err != nil {
			return err
		}
		if err := writer.WriteCatalog(c); err != nil {
			return err
		}
		if err := writer.Finalize(); err != nil {
			return err
		}
		cfg.Logger.Debug("tilemap: tiles exported", "pattern", job.TileDir, "tiles", c.Len())
	}

	return nil
}

// Resolve maps the tiles of the input image onto an external reference and
// writes the grid. Tiles absent from ref show up as misses.
func Resolve(inputPath, gridPath string, ref tilemap.Lookup, opts ...Option) (*Result, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	input, err := imageio.Decode(inputPath)
	if err != nil {
		return nil, err
	}

	tiles, cols, rows := tile.Extract(input, cfg.TileSize)
	grid := tilemap.ResolveFunc(tiles, cols, rows, ref, cfg.Progress)
	if err := tilemap.WriteFile(gridPath, grid); err != nil {
		return nil, err
	}

	result := &Result{Grid: grid, Tiles: len(tiles), Misses: grid.Misses()}
	if result.Misses > 0 {
		cfg.Logger.Warn("tilemap: tiles missing from reference", "input", inputPath, "misses", result.Misses, "tiles", result.Tiles)
	}
	cfg.Logger.Debug("tilemap: grid written", "input", inputPath, "path", gridPath)
	return result, nil
}

// LoadReference loads a catalog from a tile database (".db", ".sqlite"), a
// tile directory pattern containing "{n}", or a tileset sheet image. Tile
// databases carry their own tile size and ignore size.
func LoadReference(referencePath string, size int) (*catalog.Catalog, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTileSize, size)
	}

	switch {
	case tiledir.IsPattern(referencePath):
		reader, err := tiledir.NewReader(referencePath, size)
		if err != nil {
			return nil, err
		}
		return tiledir.LoadCatalog(reader)
	case isDatabase(referencePath):
		reader, err := tiledb.NewReader(referencePath)
		if err != nil {
			return nil, err
		}
		defer reader.Close()
		return tiledb.LoadCatalog(reader)
	default:
		sheet, err := imageio.Decode(referencePath)
		if err != nil {
			return nil, err
		}
		return tileset.Load(sheet, size), nil
	}
}

func isDatabase(filePath string) bool {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// Render rebuilds an image from a reference and a grid file.
func Render(referencePath, gridPath, outPath string, opts ...Option) error {
	cfg, err := newConfig(opts)
	if err != nil {
		return err
	}

	ref, err := LoadReference(referencePath, cfg.TileSize)
	if err != nil {
		return err
	}

	grid, err := tilemap.ReadFile(gridPath)
	if err != nil {
		return err
	}

	if err := imageio.Encode(outPath, tilemap.Render(grid, ref)); err != nil {
		return err
	}
	cfg.Logger.Debug("tilemap: image rendered", "path", outPath, "cols", grid.Cols, "rows", grid.Rows)
	return nil
}
