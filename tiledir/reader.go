package tiledir

import (
	"errors"
	"fmt"
	"os"

	"github.com/eak1mov/go-tilemap/catalog"
	"github.com/eak1mov/go-tilemap/imageio"
	"github.com/eak1mov/go-tilemap/tile"
)

var (
	ErrTileSize = errors.New("tilemap: tile image has wrong size")
	ErrCorrupt  = errors.New("tilemap: tile positions are not contiguous")
)

// Reader implements tile.Visitor interface for tile directories.
type Reader struct {
	*matcher
	size int
}

// NewReader creates a new Reader for the given file pattern (e.g. "/home/user/tiles/{n}.png")
// holding tiles of the given size.
func NewReader(filePattern string, size int) (*Reader, error) {
	m, err := newMatcher(filePattern)
	if err != nil {
		return nil, err
	}
	return &Reader{m, size}, nil
}

// TileSize returns the size of the stored tiles.
func (r *Reader) TileSize() int {
	return r.size
}

func (r *Reader) readTile(filePath string) (tile.Tile, error) {
	b, err := imageio.Decode(filePath)
	if err != nil {
		return tile.Tile{}, err
	}
	if b.Width != r.size || b.Height != r.size {
		return tile.Tile{}, fmt.Errorf("%w: %v is %vx%v, want %vx%v", ErrTileSize, filePath, b.Width, b.Height, r.size, r.size)
	}
	return tile.Tile{Size: r.size, Pix: b.Pix}, nil
}

// ReadTile reads the tile stored at pos. If the file does not exist, it
// returns false with no error.
func (r *Reader) ReadTile(pos int) (tile.Tile, bool, error) {
	filePath := formatPattern(r.filePattern, pos)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return tile.Tile{}, false, nil
	}
	t, err := r.readTile(filePath)
	if err != nil {
		return tile.Tile{}, false, err
	}
	return t, true, nil
}

// VisitTiles visits all matching files in position order.
func (r *Reader) VisitTiles(visitor func(int, tile.Tile) error) error {
	entries, err := r.entries()
	if err != nil {
		return err
	}

	for _, e := range entries {
		t, err := r.readTile(e.filePath)
		if err != nil {
			return err
		}
		if err := visitor(e.pos, t); err != nil {
			return err
		}
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
