// Package tile provides pixel buffers, tiles and tile extraction.
package tile

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"image"
	"image/color"
)

// DefaultSize is the tile edge length used when none is configured.
const DefaultSize = 16

// Channels is the number of bytes per pixel (RGBA).
const Channels = 4

// Buffer holds decoded RGBA pixels of a whole image, row-major,
// one byte per channel, non-premultiplied.
type Buffer struct {
	Width  int
	Height int
	Pix    []byte
}

// NewBuffer allocates a zeroed buffer of the given dimensions.
func NewBuffer(width, height int) *Buffer {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("tilemap: invalid buffer dimensions %vx%v", width, height))
	}
	return &Buffer{Width: width, Height: height, Pix: make([]byte, width*height*Channels)}
}

// Validate reports whether the pixel slice matches the declared dimensions.
func (b *Buffer) Validate() error {
	if b.Width < 0 || b.Height < 0 {
		return fmt.Errorf("tilemap: invalid buffer dimensions %vx%v", b.Width, b.Height)
	}
	if want := b.Width * b.Height * Channels; len(b.Pix) != want {
		return fmt.Errorf("tilemap: buffer has %v bytes, want %v", len(b.Pix), want)
	}
	return nil
}

func (b *Buffer) offset(x, y int) int {
	return (y*b.Width + x) * Channels
}

// Image returns an *image.NRGBA sharing the buffer's pixels.
func (b *Buffer) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Pix,
		Stride: b.Width * Channels,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// FromImage converts m into a Buffer without altering channel values.
// NRGBA images are copied byte for byte, paletted images are expanded through
// their palette, and 16-bit non-premultiplied colours keep their high bytes.
// Anything else goes through color.NRGBAModel.
func FromImage(m image.Image) *Buffer {
	r := m.Bounds()
	b := NewBuffer(r.Dx(), r.Dy())
	switch src := m.(type) {
	case *image.NRGBA:
		for y := range b.Height {
			i := src.PixOffset(r.Min.X, r.Min.Y+y)
			copy(b.Pix[b.offset(0, y):b.offset(b.Width, y)], src.Pix[i:i+b.Width*Channels])
		}
	case *image.Paletted:
		palette := make([]color.NRGBA, len(src.Palette))
		for i, c := range src.Palette {
			palette[i] = toNRGBA(c)
		}
		for y := range b.Height {
			for x := range b.Width {
				idx := int(src.Pix[src.PixOffset(r.Min.X+x, r.Min.Y+y)])
				if idx < len(palette) {
					b.set(x, y, palette[idx])
				}
			}
		}
	default:
		for y := range b.Height {
			for x := range b.Width {
				b.set(x, y, toNRGBA(m.At(r.Min.X+x, r.Min.Y+y)))
			}
		}
	}
	return b
}

func toNRGBA(c color.Color) color.NRGBA {
	if c, ok := c.(color.NRGBA64); ok {
		return color.NRGBA{R: uint8(c.R >> 8), G: uint8(c.G >> 8), B: uint8(c.B >> 8), A: uint8(c.A >> 8)}
	}
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}

func (b *Buffer) set(x, y int, c color.NRGBA) {
	i := b.offset(x, y)
	b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3] = c.R, c.G, c.B, c.A
}

// Tile is a square block of RGBA pixels.
type Tile struct {
	Size int
	Pix  []byte
}

// New allocates a zeroed tile.
func New(size int) Tile {
	return Tile{Size: size, Pix: make([]byte, size*size*Channels)}
}

// Equal reports whether t and o hold exactly the same pixels.
func (t Tile) Equal(o Tile) bool {
	return t.Size == o.Size && bytes.Equal(t.Pix, o.Pix)
}

// Digest returns the content hash of the tile pixels. Equal tiles have equal
// digests; the converse does not hold.
func (t Tile) Digest() [16]byte {
	return md5.Sum(t.Pix)
}

// Clone returns a copy of t that shares no memory with it.
func (t Tile) Clone() Tile {
	return Tile{Size: t.Size, Pix: bytes.Clone(t.Pix)}
}

// NRGBAAt returns the colour of pixel (x, y) inside the tile.
func (t Tile) NRGBAAt(x, y int) color.NRGBA {
	i := (y*t.Size + x) * Channels
	return color.NRGBA{R: t.Pix[i], G: t.Pix[i+1], B: t.Pix[i+2], A: t.Pix[i+3]}
}

// Pos is a tile position in a grid.
type Pos struct {
	Row int
	Col int
}

// GridSize returns the number of whole tiles along each axis of b.
// Remainder pixels are not counted. If either axis holds no whole tile, both
// counts are zero.
func GridSize(b *Buffer, size int) (cols, rows int) {
	if size <= 0 {
		panic(fmt.Sprintf("tilemap: invalid tile size %v", size))
	}
	cols, rows = b.Width/size, b.Height/size
	if cols == 0 || rows == 0 {
		return 0, 0
	}
	return cols, rows
}

// At copies the tile at grid position (row, col) out of b.
func At(b *Buffer, size, row, col int) Tile {
	t := New(size)
	rowBytes := size * Channels
	for y := range size {
		i := b.offset(col*size, row*size+y)
		copy(t.Pix[y*rowBytes:(y+1)*rowBytes], b.Pix[i:i+rowBytes])
	}
	return t
}

// Paste copies t into b with its top-left corner at pixel (x, y).
func Paste(b *Buffer, t Tile, x, y int) {
	rowBytes := t.Size * Channels
	for ty := range t.Size {
		i := b.offset(x, y+ty)
		copy(b.Pix[i:i+rowBytes], t.Pix[ty*rowBytes:(ty+1)*rowBytes])
	}
}

// Extract slices b into tiles of the given size in row-major order.
// Pixels beyond the last whole row or column of tiles are dropped; an image
// smaller than one tile yields no tiles and a 0x0 grid.
func Extract(b *Buffer, size int) (tiles []Tile, cols, rows int) {
	if err := b.Validate(); err != nil {
		panic(err)
	}
	cols, rows = GridSize(b, size)
	tiles = make([]Tile, 0, cols*rows)
	for _, t := range All(b, size) {
		tiles = append(tiles, t)
	}
	return tiles, cols, rows
}
