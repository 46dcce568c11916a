package site

import (
	stderrors "errors"
	"io/fs"
	"os"
	"sort"
)

// Filesystem is the I/O surface the engine needs. Paths are OS paths.
type Filesystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
	MkdirAll(path string) error
	// ReadDir lists the names of regular files in path, sorted. A missing
	// directory returns an error satisfying errors.Is(err, fs.ErrNotExist).
	ReadDir(path string) ([]string, error)
	Exists(path string) bool
}

// OSFS implements Filesystem on the host filesystem.
type OSFS struct{}

func (OSFS) ReadFile(path string) ([]byte, error) {
	// #nosec G304 -- paths come from the site configuration.
	return os.ReadFile(path)
}

func (OSFS) WriteFile(path string, data []byte) error {
	// #nosec G306 -- generated pages are meant to be served.
	return os.WriteFile(path, data, 0o644)
}

func (OSFS) MkdirAll(path string) error {
	return os.MkdirAll(path, 0o755)
}

func (OSFS) ReadDir(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (OSFS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func isNotExist(err error) bool {
	return stderrors.Is(err, fs.ErrNotExist)
}
