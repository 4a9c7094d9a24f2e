// Package internal provides synthetic images and fixture helpers for tests.
package internal

import (
	"image/color"

	"github.com/eak1mov/go-tilemap/tile"
)

// Fill paints every pixel of the tile-sized block at (row, col) with c.
func Fill(b *tile.Buffer, size, row, col int, c color.NRGBA) {
	for y := row * size; y < (row+1)*size; y++ {
		for x := col * size; x < (col+1)*size; x++ {
			i := (y*b.Width + x) * tile.Channels
			b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3] = c.R, c.G, c.B, c.A
		}
	}
}

// Color returns a distinct opaque colour for n.
func Color(n int) color.NRGBA {
	return color.NRGBA{R: uint8(n), G: uint8(n >> 8), B: uint8(n*37 + 11), A: 0xff}
}

// Blocks builds a cols x rows grid of solid tiles where block (row, col) gets
// the colour Color(ids[row][col]).
func Blocks(size int, ids [][]int) *tile.Buffer {
	rows := len(ids)
	cols := 0
	if rows > 0 {
		cols = len(ids[0])
	}
	b := tile.NewBuffer(cols*size, rows*size)
	for row, line := range ids {
		for col, id := range line {
			Fill(b, size, row, col, Color(id))
		}
	}
	return b
}

// Noise returns a width x height buffer of deterministic pseudo-random
// pixels, seeded by seed.
func Noise(width, height int, seed uint32) *tile.Buffer {
	b := tile.NewBuffer(width, height)
	x := seed | 1
	for i := range b.Pix {
		x ^= x << 13
		x ^= x >> 17
		x ^= x << 5
		b.Pix[i] = byte(x)
	}
	return b
}
