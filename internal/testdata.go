package internal

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/eak1mov/go-tilemap/tile"
	"github.com/stretchr/testify/require"
)

// WritePNG stores b as a PNG file named name inside a per-test temporary
// directory and returns its path.
func WritePNG(t *testing.T, name string, b *tile.Buffer) string {
	t.Helper()

	filePath := filepath.Join(t.TempDir(), name)
	file, err := os.Create(filePath)
	require.NoError(t, err)
	defer file.Close()

	require.NoError(t, png.Encode(file, b.Image()))
	return filePath
}

// ReadFile returns the contents of filePath, failing the test on error.
func ReadFile(t *testing.T, filePath string) []byte {
	t.Helper()

	data, err := os.ReadFile(filePath)
	require.NoError(t, err)
	return data
}
