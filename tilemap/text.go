package tilemap

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrInvalidGrid is returned when grid data cannot be parsed.
var ErrInvalidGrid = errors.New("tilemap: invalid grid")

// WriteText writes one line per row with cells separated by a single space.
// Every row except the last ends with ",\n"; the last ends with "\n".
func WriteText(w io.Writer, g *Grid) error {
	bw := bufio.NewWriter(w)
	var line []byte
	for row := range g.Rows {
		line = line[:0]
		for col, v := range g.Row(row) {
			if col > 0 {
				line = append(line, ' ')
			}
			line = strconv.AppendInt(line, int64(v), 10)
		}
		if row < g.Rows-1 {
			line = append(line, ',')
		}
		line = append(line, '\n')
		if _, err := bw.Write(line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadText parses the output of WriteText.
func ReadText(r io.Reader) (*Grid, error) {
	g := &Grid{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 64*1024*1024)

	last := false
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := scanner.Text()
		if last {
			return nil, fmt.Errorf("%w: line %v follows the last row", ErrInvalidGrid, lineNo)
		}
		var found bool
		line, found = strings.CutSuffix(line, ",")
		last = !found

		fields := strings.Split(line, " ")
		if g.Rows == 0 {
			g.Cols = len(fields)
		} else if len(fields) != g.Cols {
			return nil, fmt.Errorf("%w: line %v has %v cells, want %v", ErrInvalidGrid, lineNo, len(fields), g.Cols)
		}
		for _, field := range fields {
			v, err := strconv.Atoi(field)
			if err != nil || v < Miss {
				return nil, fmt.Errorf("%w: line %v: bad cell %q", ErrInvalidGrid, lineNo, field)
			}
			g.Cells = append(g.Cells, v)
		}
		g.Rows++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if g.Rows > 0 && !last {
		return nil, fmt.Errorf("%w: last row ends with a comma", ErrInvalidGrid)
	}
	return g, nil
}
