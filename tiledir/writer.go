package tiledir

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/eak1mov/go-tilemap/catalog"
	"github.com/eak1mov/go-tilemap/imageio"
	"github.com/eak1mov/go-tilemap/tile"
)

// Writer implements tile.Writer interface for tile directories.
type Writer struct {
	filePattern string
	format      imageio.Format
}

// NewWriter creates a new Writer for the given file pattern (e.g. "/home/user/tiles/{n}.png").
func NewWriter(filePattern string) (*Writer, error) {
	if err := validatePattern(filePattern); err != nil {
		return nil, err
	}
	format, err := imageio.FormatOf(filePattern)
	if err != nil {
		return nil, err
	}
	return &Writer{filePattern, format}, nil
}

func (w *Writer) WriteTile(pos int, t tile.Tile) error {
	filePath := formatPattern(w.filePattern, pos)

	dirPath := filepath.Dir(filePath)
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return fmt.Errorf("%w: %w", imageio.ErrImageWrite, err)
	}

	b := &tile.Buffer{Width: t.Size, Height: t.Size, Pix: t.Pix}
	return imageio.Encode(filePath, b)
}

// WriteCatalog writes every catalog tile at its position and removes files
// left at positions beyond the catalog by an earlier export.
func (w *Writer) WriteCatalog(c *catalog.Catalog) error {
	for pos, t := range c.All() {
		if err := w.WriteTile(pos, t); err != nil {
			return err
		}
	}
	return w.prune(c.Len())
}

func (w *Writer) prune(n int) error {
	m, err := newMatcher(w.filePattern)
	if err != nil {
		return err
	}
	entries, err := m.entries()
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.pos < n {
			continue
		}
		if err := os.Remove(e.filePath); err != nil {
			return fmt.Errorf("%w: %w", imageio.ErrImageWrite, err)
		}
	}
	return nil
}

func (w *Writer) Finalize() error {
	return nil
}
