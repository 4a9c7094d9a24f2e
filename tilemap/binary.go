package tilemap

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// binaryHeader precedes the cells in the binary grid format, which is
// designed to be easily portable to other languages and utilities:
// little-endian uint32 cols, uint32 rows, then cols*rows int32 cells.
type binaryHeader struct {
	Cols uint32
	Rows uint32
}

// WriteBinary writes g to w in the binary grid format.
func WriteBinary(w io.Writer, g *Grid) error {
	header := binaryHeader{Cols: uint32(g.Cols), Rows: uint32(g.Rows)}
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return err
	}
	cells := make([]int32, len(g.Cells))
	for i, v := range g.Cells {
		cells[i] = int32(v)
	}
	return binary.Write(w, binary.LittleEndian, cells)
}

// ReadBinary parses the output of WriteBinary. The data length must match
// the header exactly.
func ReadBinary(data []byte) (*Grid, error) {
	reader := bytes.NewReader(data)

	var header binaryHeader
	if err := binary.Read(reader, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidGrid, err)
	}

	count := uint64(header.Cols) * uint64(header.Rows)
	if want := uint64(binary.Size(header)) + count*4; uint64(len(data)) != want {
		return nil, fmt.Errorf("%w: %v bytes for a %vx%v grid", ErrInvalidGrid, len(data), header.Cols, header.Rows)
	}

	cells := make([]int32, count)
	if err := binary.Read(reader, binary.LittleEndian, cells); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidGrid, err)
	}

	g := &Grid{Cols: int(header.Cols), Rows: int(header.Rows), Cells: make([]int, count)}
	for i, v := range cells {
		if v < Miss {
			return nil, fmt.Errorf("%w: bad cell %v", ErrInvalidGrid, v)
		}
		g.Cells[i] = int(v)
	}
	return g, nil
}
