package catalog_test

import (
	"testing"

	"github.com/eak1mov/go-tilemap/catalog"
	"github.com/eak1mov/go-tilemap/internal"
	"github.com/eak1mov/go-tilemap/tile"
	"github.com/google/go-cmp/cmp"
)

func positions(c *catalog.Catalog, tiles []tile.Tile) []int {
	result := make([]int, 0, len(tiles))
	for _, t := range tiles {
		pos, found := c.PositionOf(t)
		if !found {
			pos = -1
		}
		result = append(result, pos)
	}
	return result
}

func TestBuildFirstOccurrenceOrder(t *testing.T) {
	b := internal.Blocks(2, [][]int{
		{7, 3, 7, 9},
		{3, 3, 1, 7},
	})
	tiles, _, _ := tile.Extract(b, 2)
	c := catalog.Build(2, tiles)

	if got, want := c.Len(), 4; got != want {
		t.Fatalf("Len() = %v, want = %v", got, want)
	}
	want := []int{0, 1, 0, 2, 1, 1, 3, 0}
	if diff := cmp.Diff(want, positions(c, tiles)); diff != "" {
		t.Errorf("PositionOf mismatch (-want +got):\n%v", diff)
	}
	for _, pair := range [][2]int{{0, 0}, {1, 1}, {2, 3}, {3, 6}} {
		if !c.At(pair[0]).Equal(tiles[pair[1]]) {
			t.Errorf("At(%v) is not the tile first seen at %v", pair[0], pair[1])
		}
	}
}

func TestDedupCorrectness(t *testing.T) {
	b := internal.Noise(64, 64, 11)
	// Duplicate a few blocks so the image has repeats.
	for _, dst := range []tile.Pos{{Row: 0, Col: 3}, {Row: 2, Col: 2}, {Row: 3, Col: 0}} {
		tile.Paste(b, tile.At(b, 16, 0, 0), dst.Col*16, dst.Row*16)
	}
	tiles, _, _ := tile.Extract(b, 16)
	c := catalog.Build(16, tiles)

	if got, want := c.Len(), len(tiles)-3; got != want {
		t.Errorf("Len() = %v, want = %v", got, want)
	}
	got := positions(c, tiles)
	for i := range tiles {
		for j := range tiles {
			if eq := tiles[i].Equal(tiles[j]); eq != (got[i] == got[j]) {
				t.Fatalf("tiles %v and %v: equal = %v, positions %v and %v", i, j, eq, got[i], got[j])
			}
		}
	}
}

func TestAllUnique(t *testing.T) {
	tiles, _, _ := tile.Extract(internal.Blocks(16, [][]int{{0, 1, 2, 3}}), 16)
	c := catalog.Build(16, tiles)
	if diff := cmp.Diff([]int{0, 1, 2, 3}, positions(c, tiles)); diff != "" {
		t.Errorf("PositionOf mismatch (-want +got):\n%v", diff)
	}
}

func TestDigestCollision(t *testing.T) {
	c := catalog.NewWithDigest(2, func([]byte) [16]byte { return [16]byte{} })
	tiles, _, _ := tile.Extract(internal.Blocks(2, [][]int{{1, 2, 1, 3, 2}}), 2)
	for _, tl := range tiles {
		c.Add(tl)
	}
	if got, want := c.Len(), 3; got != want {
		t.Fatalf("Len() = %v, want = %v", got, want)
	}
	if diff := cmp.Diff([]int{0, 1, 0, 2, 1}, positions(c, tiles)); diff != "" {
		t.Errorf("PositionOf mismatch (-want +got):\n%v", diff)
	}
}

func TestAdd(t *testing.T) {
	c := catalog.New(1)
	src := tile.Tile{Size: 1, Pix: []byte{1, 2, 3, 4}}

	if pos, added := c.Add(src); pos != 0 || !added {
		t.Errorf("Add(new) = %v, %v, want = 0, true", pos, added)
	}
	if pos, added := c.Add(src.Clone()); pos != 0 || added {
		t.Errorf("Add(dup) = %v, %v, want = 0, false", pos, added)
	}

	src.Pix[0] = 9
	if got := c.At(0).Pix[0]; got != 1 {
		t.Errorf("catalog tile aliases the inserted tile")
	}
	if _, found := c.PositionOf(src); found {
		t.Errorf("PositionOf(modified) found a match")
	}
	if _, found := c.PositionOf(tile.New(2)); found {
		t.Errorf("PositionOf(other size) found a match")
	}
}

func TestAddWrongSizePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Add did not panic")
		}
	}()
	catalog.New(2).Add(tile.New(3))
}

func TestAll(t *testing.T) {
	tiles, _, _ := tile.Extract(internal.Blocks(1, [][]int{{5, 6, 5}}), 1)
	c := catalog.Build(1, tiles)
	var got []int
	for pos, tl := range c.All() {
		if !tl.Equal(c.At(pos)) {
			t.Errorf("All yields tile that differs from At(%v)", pos)
		}
		got = append(got, pos)
	}
	if diff := cmp.Diff([]int{0, 1}, got); diff != "" {
		t.Errorf("All positions mismatch (-want +got):\n%v", diff)
	}
}
