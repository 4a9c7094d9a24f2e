package tile

import (
	"errors"
	"iter"
)

var errVisitCancelled = errors.New("visit cancelled")

// Visitor is implemented by tile stores that can enumerate their tiles in
// catalog position order.
type Visitor interface {
	VisitTiles(visitor func(int, Tile) error) error
}

// Writer is implemented by tile stores that persist catalog tiles.
type Writer interface {
	// WriteTile stores a tile at the given catalog position.
	WriteTile(pos int, t Tile) error

	// Finalize completes the writing process.
	// It must be called before closing the Writer.
	Finalize() error
}

// All returns an iterator over the whole tiles of b in row-major order.
func All(b *Buffer, size int) iter.Seq2[Pos, Tile] {
	return func(yield func(Pos, Tile) bool) {
		cols, rows := GridSize(b, size)
		for row := range rows {
			for col := range cols {
				if !yield(Pos{Row: row, Col: col}, At(b, size, row, col)) {
					return
				}
			}
		}
	}
}

// IterTiles returns an iterator over all tiles of a store.
// Iteration panics on unrecoverable errors.
func IterTiles(r Visitor) iter.Seq2[int, Tile] {
	return func(yield func(int, Tile) bool) {
		err := r.VisitTiles(func(pos int, t Tile) error {
			if !yield(pos, t) {
				return errVisitCancelled
			}
			return nil
		})
		if err != nil && err != errVisitCancelled {
			panic(err)
		}
	}
}
