package tilemap_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/eak1mov/go-tilemap/tilemap"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestWriteText(t *testing.T) {
	for _, tc := range []struct {
		Name string
		Grid *tilemap.Grid
		Want string
	}{
		{Name: "Empty", Grid: tilemap.NewGrid(0, 0), Want: ""},
		{Name: "OneRow", Grid: &tilemap.Grid{Cols: 2, Rows: 1, Cells: []int{0, 0}}, Want: "0 0\n"},
		{Name: "Rows", Grid: &tilemap.Grid{Cols: 3, Rows: 2, Cells: []int{0, 1, 2, 3, -1, 10}}, Want: "0 1 2,\n3 -1 10\n"},
		{Name: "Column", Grid: &tilemap.Grid{Cols: 1, Rows: 3, Cells: []int{5, 6, 7}}, Want: "5,\n6,\n7\n"},
	} {
		t.Run(tc.Name, func(t *testing.T) {
			var b bytes.Buffer
			if err := tilemap.WriteText(&b, tc.Grid); err != nil {
				t.Fatalf("WriteText failed: %v", err)
			}
			if got := b.String(); got != tc.Want {
				t.Errorf("WriteText = %q, want = %q", got, tc.Want)
			}

			g, err := tilemap.ReadText(strings.NewReader(tc.Want))
			if err != nil {
				t.Fatalf("ReadText failed: %v", err)
			}
			if diff := cmp.Diff(tc.Grid, g, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("ReadText mismatch (-want +got):\n%v", diff)
			}
		})
	}
}

func TestReadTextInvalid(t *testing.T) {
	for _, tc := range []struct {
		Name  string
		Input string
	}{
		{Name: "Ragged", Input: "0 1,\n2\n"},
		{Name: "NotNumber", Input: "0 x\n"},
		{Name: "BelowMiss", Input: "0 -2\n"},
		{Name: "TrailingComma", Input: "0 1,\n"},
		{Name: "AfterLast", Input: "0 1\n2 3\n"},
		{Name: "DoubleSpace", Input: "0  1\n"},
	} {
		t.Run(tc.Name, func(t *testing.T) {
			_, err := tilemap.ReadText(strings.NewReader(tc.Input))
			if !errors.Is(err, tilemap.ErrInvalidGrid) {
				t.Errorf("ReadText(%q) error = %v, want ErrInvalidGrid", tc.Input, err)
			}
		})
	}
}

func TestFileRoundTrip(t *testing.T) {
	grid := &tilemap.Grid{Cols: 3, Rows: 2, Cells: []int{0, 1, 2, 2, tilemap.Miss, 0}}
	for _, name := range []string{"map.txt", "map.txt.gz", "map.bin", "map.bin.gz"} {
		t.Run(name, func(t *testing.T) {
			filePath := filepath.Join(t.TempDir(), name)
			if err := tilemap.WriteFile(filePath, grid); err != nil {
				t.Fatalf("WriteFile failed: %v", err)
			}
			got, err := tilemap.ReadFile(filePath)
			if err != nil {
				t.Fatalf("ReadFile failed: %v", err)
			}
			if diff := cmp.Diff(grid, got); diff != "" {
				t.Errorf("ReadFile mismatch (-want +got):\n%v", diff)
			}

			entries, err := os.ReadDir(filepath.Dir(filePath))
			if err != nil {
				t.Fatal(err)
			}
			if len(entries) != 1 {
				t.Errorf("WriteFile left %v files, want 1", len(entries))
			}
		})
	}
}

func TestWriteFileText(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "frame0.txt")
	grid := &tilemap.Grid{Cols: 2, Rows: 2, Cells: []int{0, 1, 1, 0}}
	if err := tilemap.WriteFile(filePath, grid); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), "0 1,\n1 0\n"; got != want {
		t.Errorf("file contents = %q, want = %q", got, want)
	}
}

func TestWriteFileUnwritable(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "missing", "map.txt")
	err := tilemap.WriteFile(filePath, tilemap.NewGrid(1, 1))
	if !errors.Is(err, tilemap.ErrWrite) {
		t.Errorf("WriteFile error = %v, want ErrWrite", err)
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := tilemap.ReadFile(filepath.Join(t.TempDir(), "none.txt"))
	if !errors.Is(err, tilemap.ErrRead) {
		t.Errorf("ReadFile error = %v, want ErrRead", err)
	}
}

func TestReadBinaryInvalid(t *testing.T) {
	var b bytes.Buffer
	if err := tilemap.WriteBinary(&b, &tilemap.Grid{Cols: 2, Rows: 1, Cells: []int{1, 2}}); err != nil {
		t.Fatalf("WriteBinary failed: %v", err)
	}
	data := b.Bytes()
	for _, tc := range []struct {
		Name string
		Data []byte
	}{
		{Name: "Short", Data: data[:len(data)-1]},
		{Name: "Header", Data: data[:3]},
		{Name: "Long", Data: append(bytes.Clone(data), 0)},
	} {
		t.Run(tc.Name, func(t *testing.T) {
			if _, err := tilemap.ReadBinary(tc.Data); !errors.Is(err, tilemap.ErrInvalidGrid) {
				t.Errorf("ReadBinary error = %v, want ErrInvalidGrid", err)
			}
		})
	}
}
