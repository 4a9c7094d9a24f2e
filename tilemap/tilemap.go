// Package tilemap resolves image tiles against a reference tileset and
// serializes the resulting grid of tile positions.
package tilemap

import (
	"fmt"

	"github.com/eak1mov/go-tilemap/tile"
)

// Miss marks a cell whose tile has no match in the reference.
const Miss = -1

// Lookup finds the reference position of a tile.
type Lookup interface {
	PositionOf(t tile.Tile) (int, bool)
}

// TileSource gives positional access to reference tiles.
type TileSource interface {
	TileSize() int
	Len() int
	At(pos int) tile.Tile
}

// Grid is a row-major grid of reference positions.
type Grid struct {
	Cols  int
	Rows  int
	Cells []int
}

// NewGrid returns a grid with every cell set to Miss.
func NewGrid(cols, rows int) *Grid {
	cells := make([]int, cols*rows)
	for i := range cells {
		cells[i] = Miss
	}
	return &Grid{Cols: cols, Rows: rows, Cells: cells}
}

// At returns the cell at (row, col).
func (g *Grid) At(row, col int) int {
	return g.Cells[row*g.Cols+col]
}

// Set stores v at (row, col).
func (g *Grid) Set(row, col, v int) {
	g.Cells[row*g.Cols+col] = v
}

// Row returns the cells of one row. The slice aliases the grid.
func (g *Grid) Row(row int) []int {
	return g.Cells[row*g.Cols : (row+1)*g.Cols]
}

// Misses returns the number of cells without a reference match.
func (g *Grid) Misses() int {
	n := 0
	for _, v := range g.Cells {
		if v == Miss {
			n++
		}
	}
	return n
}

// Resolve maps every tile to its reference position, row-major over a
// cols x rows grid. Tiles missing from ref become Miss.
func Resolve(tiles []tile.Tile, cols, rows int, ref Lookup) *Grid {
	return ResolveFunc(tiles, cols, rows, ref, nil)
}

// ResolveFunc is Resolve with a callback invoked after each tile.
func ResolveFunc(tiles []tile.Tile, cols, rows int, ref Lookup, progress func(done, total int)) *Grid {
	if len(tiles) != cols*rows {
		panic(fmt.Sprintf("tilemap: %v tiles do not fill a %vx%v grid", len(tiles), cols, rows))
	}
	g := NewGrid(cols, rows)
	for i, t := range tiles {
		if pos, found := ref.PositionOf(t); found {
			g.Set(i/cols, i%cols, pos)
		}
		if progress != nil {
			progress(i+1, len(tiles))
		}
	}
	return g
}

// Render paints the grid with tiles from src. Miss cells and positions
// outside src stay transparent black.
func Render(g *Grid, src TileSource) *tile.Buffer {
	size := src.TileSize()
	b := tile.NewBuffer(g.Cols*size, g.Rows*size)
	for row := range g.Rows {
		for col := range g.Cols {
			pos := g.At(row, col)
			if pos < 0 || pos >= src.Len() {
				continue
			}
			tile.Paste(b, src.At(pos), col*size, row*size)
		}
	}
	return b
}
