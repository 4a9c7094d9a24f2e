package tiledb

import (
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/eak1mov/go-tilemap/catalog"
	"github.com/eak1mov/go-tilemap/tile"
	"github.com/klauspost/compress/zstd"
)

// Writer implements tile.Writer interface for catalog databases.
//
// The database is built in a temporary file next to filePath and replaces
// any existing file only when Finalize succeeds.
type Writer struct {
	db       *sql.DB
	stmt     *sql.Stmt
	encoder  *zstd.Encoder
	size     int
	logger   *slog.Logger
	filePath string
	tmpPath  string
	closed   bool
}

type writerConfig struct {
	Metadata map[string]string
	Logger   *slog.Logger
}

type WriterOption func(*writerConfig)

func WithMetadata(metadata map[string]string) WriterOption {
	return func(c *writerConfig) { c.Metadata = metadata }
}

func WithLogger(logger *slog.Logger) WriterOption {
	return func(c *writerConfig) { c.Logger = logger }
}

// NewWriter creates a new Writer for a database holding tiles of the given
// size. It applies given options and initializes the schema.
func NewWriter(filePath string, size int, opts ...WriterOption) (*Writer, error) {
	config := writerConfig{
		Logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&config)
	}

	file, err := os.CreateTemp(filepath.Dir(filePath), "."+filepath.Base(filePath)+".*")
	if err != nil {
		return nil, err
	}
	tmpPath := file.Name()
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return nil, err
	}

	db, err := sql.Open("sqlite3", tmpPath)
	if err != nil {
		os.Remove(tmpPath)
		return nil, err
	}
	defer func() {
		if err != nil {
			db.Close()
			os.Remove(tmpPath)
		}
	}()

	_, err = db.Exec(`
		CREATE TABLE metadata (name TEXT, value TEXT);
		CREATE TABLE tiles (
			position INTEGER,
			digest BLOB,
			tile_data BLOB
		);
	`)
	if err != nil {
		return nil, err
	}

	for k, v := range config.Metadata {
		if k == metadataTileSize {
			continue
		}
		_, err = db.Exec("INSERT INTO metadata (name, value) VALUES (?, ?)", k, v)
		if err != nil {
			return nil, err
		}
	}
	_, err = db.Exec("INSERT INTO metadata (name, value) VALUES (?, ?)", metadataTileSize, strconv.Itoa(size))
	if err != nil {
		return nil, err
	}

	stmt, err := db.Prepare("INSERT INTO tiles (position, digest, tile_data) VALUES (?, ?, ?)")
	if err != nil {
		return nil, err
	}

	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		stmt.Close()
		return nil, err
	}

	return &Writer{
		db:       db,
		stmt:     stmt,
		encoder:  encoder,
		size:     size,
		logger:   config.Logger,
		filePath: filePath,
		tmpPath:  tmpPath,
	}, nil
}

func (w *Writer) closeDB() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return errors.Join(w.encoder.Close(), w.stmt.Close(), w.db.Close())
}

// Close releases database resources. Without a prior Finalize the partial
// database is removed and filePath is left untouched.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	err := w.closeDB()
	os.Remove(w.tmpPath)
	return err
}

func (w *Writer) WriteTile(pos int, t tile.Tile) error {
	if t.Size != w.size {
		return ErrTileSize
	}
	digest := t.Digest()
	_, err := w.stmt.Exec(pos, digest[:], w.encoder.EncodeAll(t.Pix, nil))
	return err
}

// WriteCatalog writes every catalog tile at its position.
func (w *Writer) WriteCatalog(c *catalog.Catalog) error {
	for pos, t := range c.All() {
		if err := w.WriteTile(pos, t); err != nil {
			return err
		}
	}
	w.logger.Debug("tilemap: catalog written", "tiles", c.Len())
	return nil
}

// Finalize indexes the tiles and moves the database to its final path.
func (w *Writer) Finalize() error {
	w.logger.Debug("tilemap: creating index")
	if _, err := w.db.Exec("CREATE UNIQUE INDEX tile_index ON tiles (position)"); err != nil {
		return err
	}

	if err := w.closeDB(); err != nil {
		return err
	}
	if err := os.Chmod(w.tmpPath, 0644); err != nil {
		return err
	}
	if err := os.Rename(w.tmpPath, w.filePath); err != nil {
		return err
	}

	w.logger.Debug("tilemap: done!", "path", w.filePath)
	return nil
}
