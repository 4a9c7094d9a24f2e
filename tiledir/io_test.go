package tiledir_test

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"testing"

	"github.com/eak1mov/go-tilemap/catalog"
	"github.com/eak1mov/go-tilemap/internal"
	"github.com/eak1mov/go-tilemap/tile"
	"github.com/eak1mov/go-tilemap/tiledir"
	"github.com/google/go-cmp/cmp"
)

func TestWriterReader(t *testing.T) {
	rootDir := t.TempDir()
	pattern := filepath.Join(rootDir, "tiles", "{n}.png")

	b := internal.Noise(4*12, 4, 9)
	tiles, _, _ := tile.Extract(b, 4)
	c := catalog.Build(4, tiles)

	writer, err := tiledir.NewWriter(pattern)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	if err := writer.WriteCatalog(c); err != nil {
		t.Fatalf("WriteCatalog failed: %v", err)
	}
	if err := writer.Finalize(); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	// Unrelated files next to the tiles are ignored.
	if err := os.WriteFile(filepath.Join(rootDir, "tiles", "README"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	reader, err := tiledir.NewReader(pattern, 4)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}

	if got, want := maps.Collect(tile.IterTiles(reader)), maps.Collect(c.All()); !cmp.Equal(got, want) {
		t.Errorf("VisitTiles data mismatch")
	}

	got, found, err := reader.ReadTile(11)
	if err != nil || !found || !got.Equal(c.At(11)) {
		t.Errorf("ReadTile(11) = %v, %v, %v, want stored tile", got, found, err)
	}
	if _, found, err := reader.ReadTile(99); err != nil || found {
		t.Errorf("ReadTile(missing) = %v, %v, want not found", found, err)
	}

	loaded, err := tiledir.LoadCatalog(reader)
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	if got, want := loaded.Len(), c.Len(); got != want {
		t.Errorf("LoadCatalog Len() = %v, want = %v", got, want)
	}
}

func TestInvalidPattern(t *testing.T) {
	if _, err := tiledir.NewWriter("tiles/tile.png"); !errors.Is(err, tiledir.ErrInvalidPattern) {
		t.Errorf("NewWriter error = %v, want ErrInvalidPattern", err)
	}
	if _, err := tiledir.NewReader("tiles/tile.png", 16); !errors.Is(err, tiledir.ErrInvalidPattern) {
		t.Errorf("NewReader error = %v, want ErrInvalidPattern", err)
	}
}

func TestReaderErrors(t *testing.T) {
	tiles, _, _ := tile.Extract(internal.Blocks(2, [][]int{{1, 2, 3}}), 2)
	c := catalog.Build(2, tiles)

	t.Run("Gap", func(t *testing.T) {
		pattern := filepath.Join(t.TempDir(), "{n}.png")
		writer, err := tiledir.NewWriter(pattern)
		if err != nil {
			t.Fatal(err)
		}
		for _, pos := range []int{0, 2} {
			if err := writer.WriteTile(pos, c.At(pos)); err != nil {
				t.Fatal(err)
			}
		}
		reader, err := tiledir.NewReader(pattern, 2)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := tiledir.LoadCatalog(reader); !errors.Is(err, tiledir.ErrCorrupt) {
			t.Errorf("LoadCatalog error = %v, want ErrCorrupt", err)
		}
	})

	t.Run("WrongSize", func(t *testing.T) {
		pattern := filepath.Join(t.TempDir(), "{n}.png")
		writer, err := tiledir.NewWriter(pattern)
		if err != nil {
			t.Fatal(err)
		}
		if err := writer.WriteCatalog(c); err != nil {
			t.Fatal(err)
		}
		reader, err := tiledir.NewReader(pattern, 4)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := tiledir.LoadCatalog(reader); !errors.Is(err, tiledir.ErrTileSize) {
			t.Errorf("LoadCatalog error = %v, want ErrTileSize", err)
		}
	})
}

func TestWriteCatalogRemovesStaleTiles(t *testing.T) {
	pattern := filepath.Join(t.TempDir(), "tiles", "{n}.png")
	for _, ids := range [][]int{{1, 2, 3, 4}, {5, 6}} {
		tiles, _, _ := tile.Extract(internal.Blocks(2, [][]int{ids}), 2)
		writer, err := tiledir.NewWriter(pattern)
		if err != nil {
			t.Fatal(err)
		}
		if err := writer.WriteCatalog(catalog.Build(2, tiles)); err != nil {
			t.Fatalf("WriteCatalog failed: %v", err)
		}
	}

	reader, err := tiledir.NewReader(pattern, 2)
	if err != nil {
		t.Fatal(err)
	}
	c, err := tiledir.LoadCatalog(reader)
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	if got, want := c.Len(), 2; got != want {
		t.Errorf("LoadCatalog Len() = %v, want = %v", got, want)
	}
	for _, pos := range []int{2, 3} {
		if _, err := os.Stat(filepath.Join(filepath.Dir(pattern), fmt.Sprintf("%v.png", pos))); !os.IsNotExist(err) {
			t.Errorf("tile file %v survived a smaller export", pos)
		}
	}
}
