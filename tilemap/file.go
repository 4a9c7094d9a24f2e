package tilemap

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

var (
	ErrWrite = errors.New("tilemap: cannot write grid")
	ErrRead  = errors.New("tilemap: cannot read grid")
)

func splitExt(filePath string) (ext string, gzipped bool) {
	name := strings.ToLower(filePath)
	name, gzipped = strings.CutSuffix(name, ".gz")
	return filepath.Ext(name), gzipped
}

// WriteFile stores g at filePath in the format chosen by WriteFormat. The
// file only appears once it is completely written.
func WriteFile(filePath string, g *Grid) (err error) {
	file, err := os.CreateTemp(filepath.Dir(filePath), "."+filepath.Base(filePath)+".*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	defer func() {
		if err != nil {
			file.Close()
			os.Remove(file.Name())
			err = fmt.Errorf("%w: %w", ErrWrite, err)
		}
	}()

	if err = WriteFormat(file, filePath, g); err != nil {
		return err
	}
	if err = file.Close(); err != nil {
		return err
	}
	if err = os.Chmod(file.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(file.Name(), filePath)
}

// WriteFormat writes g to w in the format implied by filePath. A ".bin"
// extension selects the binary format, anything else the text format; a
// trailing ".gz" compresses the stream.
func WriteFormat(w io.Writer, filePath string, g *Grid) error {
	ext, gzipped := splitExt(filePath)

	var gzWriter *gzip.Writer
	if gzipped {
		gzWriter = gzip.NewWriter(w)
		w = gzWriter
	}

	var err error
	if ext == ".bin" {
		err = WriteBinary(w, g)
	} else {
		err = WriteText(w, g)
	}
	if err != nil {
		return err
	}

	if gzWriter != nil {
		return gzWriter.Close()
	}
	return nil
}

// ReadFile loads a grid written by WriteFile.
func ReadFile(filePath string) (*Grid, error) {
	ext, gzipped := splitExt(filePath)

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	defer file.Close()

	var r io.Reader = file
	if gzipped {
		gzReader, err := gzip.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRead, err)
		}
		defer gzReader.Close()
		r = gzReader
	}

	if ext == ".bin" {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRead, err)
		}
		return ReadBinary(data)
	}
	return ReadText(r)
}
