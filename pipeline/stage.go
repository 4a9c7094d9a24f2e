package pipeline

import (
	"errors"
	"io"
	"os"
	"path/filepath"
)

// staging keeps outputs under temporary names next to their destination
// until commit moves them all into place.
type staging struct {
	files []stagedFile
}

type stagedFile struct {
	tmpPath  string
	filePath string
}

// reserve creates an empty temporary file for filePath and returns its name.
func (s *staging) reserve(filePath string) (string, error) {
	file, err := os.CreateTemp(filepath.Dir(filePath), "."+filepath.Base(filePath)+".*")
	if err != nil {
		return "", err
	}
	s.files = append(s.files, stagedFile{tmpPath: file.Name(), filePath: filePath})
	return file.Name(), file.Close()
}

// write stages filePath with the bytes produced by write.
func (s *staging) write(filePath string, write func(io.Writer) error) error {
	tmpPath, err := s.reserve(filePath)
	if err != nil {
		return err
	}
	file, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return err
	}
	if err := write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func (s *staging) commit() error {
	for len(s.files) > 0 {
		f := s.files[0]
		if err := os.Chmod(f.tmpPath, 0644); err != nil {
			return err
		}
		if err := os.Rename(f.tmpPath, f.filePath); err != nil {
			return err
		}
		s.files = s.files[1:]
	}
	return nil
}

// discard removes every file not yet committed.
func (s *staging) discard() error {
	var errs []error
	for _, f := range s.files {
		if err := os.Remove(f.tmpPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	s.files = nil
	return errors.Join(errs...)
}
