// Package tileset packs catalog tiles into a single-row sheet image and
// re-derives catalogs from such sheets.
package tileset

import (
	"github.com/eak1mov/go-tilemap/catalog"
	"github.com/eak1mov/go-tilemap/tile"
)

// Compose lays the catalog tiles out left to right in position order.
// The sheet is exactly Len()*size wide and size high. An empty catalog
// yields a zero-width sheet with no pixels.
func Compose(c *catalog.Catalog) *tile.Buffer {
	size := c.TileSize()
	sheet := tile.NewBuffer(c.Len()*size, size)
	for pos, t := range c.All() {
		tile.Paste(sheet, t, pos*size, 0)
	}
	return sheet
}

// Load builds a reference catalog from a decoded sheet. The sheet may come
// from elsewhere and hold repeated tiles; those resolve to their first copy,
// and any rows below the first are read in row-major order too.
func Load(sheet *tile.Buffer, size int) *catalog.Catalog {
	tiles, _, _ := tile.Extract(sheet, size)
	return catalog.Build(size, tiles)
}
