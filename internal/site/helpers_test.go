package site

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
)

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig(t.TempDir())
	cfg.Pages = nil
	return cfg
}

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func readFile(t *testing.T, root, rel string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(b)
}

func post(title, date, body string) string {
	return "---\ntitle: " + title + "\ndate: " + date + "\n---\n" + body + "\n"
}

// failingFS fails reads of one file name.
type failingFS struct {
	OSFS
	name string
}

func (f failingFS) ReadFile(p string) ([]byte, error) {
	if filepath.Base(p) == f.name {
		return nil, fs.ErrPermission
	}
	return f.OSFS.ReadFile(p)
}
