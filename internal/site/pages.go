package site

import (
	"log/slog"
	"path"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/markdown"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
)

// buildStandalone fills the navigation tokens of a hand-written page.
func (b *run) buildStandalone(p config.PageConfig) {
	src := b.e.abs(p.Source)
	content, err := b.e.fs.ReadFile(src)
	if err != nil {
		if isNotExist(err) {
			b.warn(p.Source+": page source not found", "Standalone page source not found", logfields.Path(src))
			return
		}
		b.fail(src, metrics.PageStandalone, errors.WrapError(err, errors.CategoryFileSystem, "failed to read page source").
			WithContext("path", src).Build())
		return
	}

	dest := b.e.outPath(p.Output)
	rel := b.e.relOut(dest)
	basePath := markdown.BasePath(b.e.outRoot, dest)
	html := Substitute(string(content), map[string]string{
		"nav":        b.navFor(path.Dir(rel)),
		"basePath":   basePath,
		"assetsBase": b.e.assetsBase(basePath),
		"siteTitle":  b.e.cfg.Site.Title,
	})
	b.write(dest, metrics.PageStandalone, html)
	slog.Debug("Standalone page generated", logfields.Path(rel))
}
