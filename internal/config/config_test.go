package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	p := filepath.Join(dir, DefaultConfigFile)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, DefaultConfigFile))
	require.NoError(t, err)

	require.Len(t, cfg.Sections, 5)
	assert.Equal(t, dir, cfg.Site.Root)
	assert.Equal(t, EngineBuiltin, cfg.Markdown.Engine)
	assert.Equal(t, 6, cfg.Home.MaxCards)
	assert.Equal(t, "archives.html", cfg.Home.MoreLink)

	index, ok := cfg.Section("index")
	require.True(t, ok)
	assert.Equal(t, KindHome, index.Kind)
	assert.Equal(t, 5, index.PerPage)
	assert.Equal(t, "post-list", index.Classes.Content)

	project, ok := cfg.Section("project")
	require.True(t, ok)
	assert.Empty(t, project.Classes.ItemDate)
	assert.Equal(t, "Project", project.HeaderTitle)
	assert.Equal(t, "Project | Blog", project.Title)

	skill, ok := cfg.Section("skill")
	require.True(t, ok)
	assert.Equal(t, "Skill", skill.HeaderTitle)
}

func TestLoad_ParsesAndDefaults(t *testing.T) {
	dir := t.TempDir()
	p := writeConfig(t, dir, `
site:
  title: Test Blog
markdown:
  engine: GoldMark
sections:
  - name: index
    directory: posts/home
  - name: daily-notes
    per_page: 3
  - name: archives
logging:
  level: DEBUG
  format: json
`)
	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, EngineGoldmark, cfg.Markdown.Engine)
	assert.Equal(t, LogLevelDebug, cfg.Logging.Level)
	assert.Equal(t, LogFormatJSON, cfg.Logging.Format)
	require.Len(t, cfg.Sections, 3)

	home := cfg.Sections[0]
	assert.Equal(t, KindHome, home.Kind)
	assert.Equal(t, "Test Blog", home.HeaderTitle)

	daily := cfg.Sections[1]
	assert.Equal(t, KindList, daily.Kind)
	assert.Equal(t, "_posts/daily-notes", daily.Directory)
	assert.Equal(t, "Daily Notes", daily.HeaderTitle)
	assert.Equal(t, "Daily Notes | Test Blog", daily.Title)
	assert.Equal(t, "daily-notes-item", daily.Classes.Item)

	archive := cfg.Sections[2]
	assert.Equal(t, KindArchive, archive.Kind)
	assert.Equal(t, 10, archive.PerPage)

	assert.Equal(t, filepath.Join(dir, "posts/home"), cfg.ResolvePath(home.Directory))
	assert.Equal(t, dir, cfg.OutputRoot())
	assert.True(t, cfg.State.IsEnabled())
	assert.Equal(t, 300*time.Millisecond, cfg.Watch.DebounceDuration())
	assert.Zero(t, cfg.Watch.IntervalDuration())
}

func TestLoad_ExpandsEnvironmentAndDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BLOGBUILDER_TEST_AUTHOR=Dot Env\n"), 0o600))
	t.Setenv("BLOGBUILDER_TEST_TITLE", "From Env")
	t.Cleanup(func() { _ = os.Unsetenv("BLOGBUILDER_TEST_AUTHOR") })

	p := writeConfig(t, dir, `
site:
  title: "${BLOGBUILDER_TEST_TITLE}"
publish:
  author_name: "${BLOGBUILDER_TEST_AUTHOR}"
`)
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "From Env", cfg.Site.Title)
	assert.Equal(t, "Dot Env", cfg.Publish.AuthorName)
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	p := writeConfig(t, t.TempDir(), "sitee:\n  title: typo\n")
	_, err := Load(p)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no sections", func(c *Config) { c.Sections = []SectionConfig{} }},
		{"duplicate names", func(c *Config) { c.Sections = append(c.Sections, c.Sections[1]) }},
		{"negative per page", func(c *Config) { c.Sections[1].PerPage = -1 }},
		{"two homes", func(c *Config) { c.Sections[1].Kind = KindHome }},
		{"bad kind", func(c *Config) { c.Sections[1].Kind = "gallery" }},
		{"bad engine", func(c *Config) { c.Markdown.Engine = "blackfriday" }},
		{"bad interval", func(c *Config) { c.Watch.Interval = "soon" }},
		{"incomplete page", func(c *Config) { c.Pages = []PageConfig{{Source: "about.md"}} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig(t.TempDir())
			tc.mutate(cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.True(t, errors.HasCategory(err, errors.CategoryValidation), "got %v", err)
		})
	}

	require.NoError(t, Validate(DefaultConfig(".")))
}

func TestNormalizeLogging(t *testing.T) {
	assert.Equal(t, LogLevelWarn, NormalizeLogLevel(" Warning "))
	assert.Equal(t, LogLevelInfo, NormalizeLogLevel("chatty"))
	assert.Equal(t, LogFormatText, NormalizeLogFormat("xml"))
	assert.Equal(t, LogFormatJSON, NormalizeLogFormat("JSON"))
}

func TestWriteExample(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "conf", DefaultConfigFile)
	require.NoError(t, WriteExample(p, false))

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "My Blog", cfg.Site.Title)
	assert.Len(t, cfg.Sections, 5)

	err = WriteExample(p, false)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
	require.NoError(t, WriteExample(p, true))
}
