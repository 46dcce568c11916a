package site

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
)

func TestRelativizeNav(t *testing.T) {
	nav := "<nav>\n  <a href=\"index.html\">Home</a>\n  <a href=\"blog/archives.html\">Archives</a>\n" +
		"  <a href=\"https://github.com/x\" target=\"_blank\" rel=\"noopener\">GitHub</a>\n  <a href=\"#top\">Top</a>\n</nav>"

	tests := []struct {
		name string
		dir  string
		want []string
	}{
		{"root", ".", []string{`href="index.html"`, `href="blog/archives.html"`}},
		{"nested", "_posts/project", []string{`href="../../index.html"`, `href="../../blog/archives.html"`}},
		{"sibling", "blog", []string{`href="../index.html"`, `href="archives.html"`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RelativizeNav(nav, tt.dir)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, got, w)
			}
			assert.Contains(t, got, `href="https://github.com/x"`)
			assert.Contains(t, got, `target="_blank"`)
			assert.Contains(t, got, `href="#top"`)
		})
	}
}

func TestRelativizeNavKeepsSchemes(t *testing.T) {
	got, err := RelativizeNav(`<a href="mailto:me@example.com">Mail</a><a href="/abs.html">Abs</a>`, "a/b")
	require.NoError(t, err)
	assert.Contains(t, got, `href="mailto:me@example.com"`)
	assert.Contains(t, got, `href="/abs.html"`)
}

func TestGenerateNav(t *testing.T) {
	cfg := config.DefaultConfig(t.TempDir())
	hidden := false
	cfg.Sections[2].InNav = &hidden
	cfg.Site.GitHub = "https://github.com/someone"

	nav := GenerateNav(cfg)
	assert.Contains(t, nav, `<a href="index.html">Home</a>`)
	assert.Contains(t, nav, `<a href="project.html">Project</a>`)
	assert.NotContains(t, nav, cfg.Sections[2].Name+".html")
	assert.Contains(t, nav, `<a href="about.html">About</a>`)
	assert.Contains(t, nav, `<a href="https://github.com/someone" target="_blank" rel="noopener">GitHub</a>`)
}

func TestTemplateNavPrefersFile(t *testing.T) {
	cfg := config.DefaultConfig(t.TempDir())
	provider := NewTemplateNav(OSFS{}, cfg)

	nav, err := provider.Nav()
	require.NoError(t, err)
	assert.Equal(t, GenerateNav(cfg), nav)

	writeFile(t, cfg.Site.Root, "templates/nav-template.html", "<nav><a href=\"x.html\">X</a></nav>")
	nav, err = provider.Nav()
	require.NoError(t, err)
	assert.Equal(t, "<nav><a href=\"x.html\">X</a></nav>", nav)
}
