// Package catalog deduplicates tiles into an ordered set of unique tiles.
//
// Tiles are indexed by their md5 digest, but a digest match is only a
// candidate: membership is always confirmed by comparing the full pixels, so
// colliding digests never merge distinct tiles.
package catalog

import (
	"crypto/md5"
	"fmt"
	"iter"

	"github.com/eak1mov/go-tilemap/tile"
)

// Catalog is an ordered list of unique tiles. Positions are assigned in
// first-seen order and are contiguous from zero.
type Catalog struct {
	size   int
	tiles  []tile.Tile
	index  map[[16]byte][]int // digest -> positions
	digest func([]byte) [16]byte
}

// New returns an empty catalog for tiles of the given size.
func New(size int) *Catalog {
	if size <= 0 {
		panic(fmt.Sprintf("tilemap: invalid tile size %v", size))
	}
	return &Catalog{
		size:   size,
		index:  make(map[[16]byte][]int),
		digest: md5.Sum,
	}
}

// Build adds tiles to a new catalog in order.
func Build(size int, tiles []tile.Tile) *Catalog {
	c := New(size)
	for _, t := range tiles {
		c.Add(t)
	}
	return c
}

// TileSize returns the edge length of the catalog tiles.
func (c *Catalog) TileSize() int {
	return c.size
}

// Len returns the number of unique tiles.
func (c *Catalog) Len() int {
	return len(c.tiles)
}

// At returns the tile stored at position pos.
func (c *Catalog) At(pos int) tile.Tile {
	return c.tiles[pos]
}

// All returns an iterator over positions and tiles in position order.
func (c *Catalog) All() iter.Seq2[int, tile.Tile] {
	return func(yield func(int, tile.Tile) bool) {
		for i, t := range c.tiles {
			if !yield(i, t) {
				return
			}
		}
	}
}

func (c *Catalog) find(digest [16]byte, t tile.Tile) (int, bool) {
	for _, pos := range c.index[digest] {
		if c.tiles[pos].Equal(t) {
			return pos, true
		}
	}
	return -1, false
}

// PositionOf returns the position of the tile equal to t.
func (c *Catalog) PositionOf(t tile.Tile) (int, bool) {
	if t.Size != c.size {
		return -1, false
	}
	return c.find(c.digest(t.Pix), t)
}

// Add inserts a copy of t unless an equal tile is already present.
// It returns the tile position and whether the tile was new.
func (c *Catalog) Add(t tile.Tile) (pos int, added bool) {
	if t.Size != c.size || len(t.Pix) != c.size*c.size*tile.Channels {
		panic(fmt.Sprintf("tilemap: tile of size %v (%v bytes) added to catalog of size %v", t.Size, len(t.Pix), c.size))
	}

	digest := c.digest(t.Pix)
	if pos, found := c.find(digest, t); found {
		return pos, false
	}

	pos = len(c.tiles)
	c.tiles = append(c.tiles, t.Clone())
	c.index[digest] = append(c.index[digest], pos)
	return pos, true
}
