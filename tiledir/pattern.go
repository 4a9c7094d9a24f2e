// Package tiledir stores catalog tiles as individual image files with paths
// like "/tiles/{n}.png", where {n} is the catalog position.
package tiledir

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

const placeholder = "{n}"

var ErrInvalidPattern = errors.New("tilemap: invalid file pattern")

// IsPattern reports whether s contains the position placeholder.
func IsPattern(s string) bool {
	return strings.Contains(s, placeholder)
}

func validatePattern(pattern string) error {
	if !IsPattern(pattern) {
		return fmt.Errorf("%w: placeholder %v not found", ErrInvalidPattern, placeholder)
	}
	return nil
}

func formatPattern(pattern string, pos int) string {
	return strings.ReplaceAll(pattern, placeholder, strconv.Itoa(pos))
}

// matcher finds the files of a pattern below its longest fixed directory.
type matcher struct {
	filePattern string
	rootDir     string
	pathRegexp  *regexp.Regexp
}

func newMatcher(filePattern string) (*matcher, error) {
	if err := validatePattern(filePattern); err != nil {
		return nil, err
	}
	filePattern = filepath.Clean(filePattern)

	regexPattern := regexp.QuoteMeta(filePattern)
	regexPattern = strings.ReplaceAll(regexPattern, regexp.QuoteMeta(placeholder), `(?P<n>\d+)`)
	pathRegex, err := regexp.Compile("^" + regexPattern + "$")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}

	path0 := formatPattern(filePattern, 0)
	path1 := formatPattern(filePattern, 1)
	for path0 != path1 {
		path0 = filepath.Dir(path0)
		path1 = filepath.Dir(path1)
	}
	rootDir := path0

	return &matcher{filePattern, rootDir, pathRegex}, nil
}

type entry struct {
	pos      int
	filePath string
}

// entries returns all files matching the pattern sorted by position.
func (m *matcher) entries() ([]entry, error) {
	var entries []entry
	err := filepath.WalkDir(m.rootDir, func(filePath string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		matches := m.pathRegexp.FindStringSubmatch(filePath)
		if matches == nil {
			return nil
		}

		pos, err := strconv.Atoi(matches[m.pathRegexp.SubexpIndex("n")])
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCorrupt, filePath)
		}
		entries = append(entries, entry{pos, filePath})
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(entries, func(a, b entry) int {
		return cmp.Compare(a.pos, b.pos)
	})
	return entries, nil
}
