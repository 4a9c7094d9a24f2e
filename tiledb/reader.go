// Package tiledb stores tile catalogs in SQLite databases so they can be
// reused as a reference for later images.
//
// Tiles are kept in position order with their md5 digest and the
// zstd-compressed RGBA pixels. The tile size is recorded in the metadata
// table under "tile_size".
//
// Note: User must properly initialize the sqlite3 library generic driver
// (e.g. import _ "github.com/mattn/go-sqlite3") before using this package.
package tiledb

import (
	"bytes"
	"crypto/md5"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/eak1mov/go-tilemap/catalog"
	"github.com/eak1mov/go-tilemap/tile"
	"github.com/klauspost/compress/zstd"
)

const metadataTileSize = "tile_size"

var (
	ErrCorrupt  = errors.New("tilemap: corrupt tile database")
	ErrTileSize = errors.New("tilemap: tile size does not match database")
)

// Reader implements tile.Visitor interface for catalog databases.
type Reader struct {
	db      *sql.DB
	stmt    *sql.Stmt
	decoder *zstd.Decoder
	size    int
}

// NewReader opens the database at filePath read-only.
//
// The returned Reader must be closed after use to release database resources.
func NewReader(filePath string) (r *Reader, err error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", filePath))
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			db.Close()
		}
	}()

	var sizeValue string
	err = db.QueryRow("SELECT value FROM metadata WHERE name = ?", metadataTileSize).Scan(&sizeValue)
	if err != nil {
		return nil, err
	}
	size, err := strconv.Atoi(sizeValue)
	if err != nil || size <= 0 {
		return nil, fmt.Errorf("%w: bad tile size %q", ErrCorrupt, sizeValue)
	}

	stmt, err := db.Prepare("SELECT tile_data FROM tiles WHERE position = ?")
	if err != nil {
		return nil, err
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		stmt.Close()
		return nil, err
	}

	return &Reader{db: db, stmt: stmt, decoder: decoder, size: size}, nil
}

func (r *Reader) Close() error {
	r.decoder.Close()
	return errors.Join(r.stmt.Close(), r.db.Close())
}

// TileSize returns the size of the stored tiles.
func (r *Reader) TileSize() int {
	return r.size
}

func (r *Reader) ReadMetadata() (map[string]string, error) {
	metadata := make(map[string]string)

	rows, err := r.db.Query("SELECT name, value FROM metadata")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		metadata[name] = value
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return metadata, nil
}

func (r *Reader) decodeTile(tileData []byte) (tile.Tile, error) {
	pix, err := r.decoder.DecodeAll(tileData, nil)
	if err != nil {
		return tile.Tile{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if len(pix) != r.size*r.size*tile.Channels {
		return tile.Tile{}, fmt.Errorf("%w: tile has %v bytes", ErrCorrupt, len(pix))
	}
	return tile.Tile{Size: r.size, Pix: pix}, nil
}

// ReadTile reads the tile stored at pos. If the tile does not exist, it
// returns false with no error.
func (r *Reader) ReadTile(pos int) (tile.Tile, bool, error) {
	var tileData []byte
	if err := r.stmt.QueryRow(pos).Scan(&tileData); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return tile.Tile{}, false, nil
		}
		return tile.Tile{}, false, err
	}

	t, err := r.decodeTile(tileData)
	if err != nil {
		return tile.Tile{}, false, err
	}
	return t, true, nil
}

func (r *Reader) VisitTiles(visitor func(int, tile.Tile) error) error {
	rows, err := r.db.Query("SELECT position, digest, tile_data FROM tiles ORDER BY position")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var pos int
		var digest, tileData []byte

		if err := rows.Scan(&pos, &digest, &tileData); err != nil {
			return err
		}

		t, err := r.decodeTile(tileData)
		if err != nil {
			return err
		}
		if sum := md5.Sum(t.Pix); !bytes.Equal(sum[:], digest) {
			return fmt.Errorf("%w: digest mismatch at position %v", ErrCorrupt, pos)
		}

		if err := visitor(pos, t); err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		return err
	}

	return nil
}

// LoadCatalog reads every stored tile into a catalog. Positions must be
// contiguous from zero and hold distinct tiles.
func LoadCatalog(r *Reader) (*catalog.Catalog, error) {
	c := catalog.New(r.size)
	err := r.VisitTiles(func(pos int, t tile.Tile) error {
		got, added := c.Add(t)
		if !added || got != pos {
			return fmt.Errorf("%w: unexpected tile at position %v", ErrCorrupt, pos)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}
