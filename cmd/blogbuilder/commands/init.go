package commands

import (
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/site"
)

const starterPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>About | {{siteTitle}}</title>
  <link rel="stylesheet" href="{{assetsBase}}/css/common.css">
</head>
<body>
  <header>
    <h1>About</h1>
    {{nav}}
  </header>
  <main class="container">
    <p>Write something about yourself here.</p>
  </main>
</body>
</html>
`

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force     bool `help:"Overwrite existing configuration and template files"`
	Templates bool `help:"Copy the built-in templates into the template directory"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	slog.Info("Initializing configuration", logfields.Path(root.Config), slog.Bool("force", i.Force))
	if err := config.WriteExample(root.Config, i.Force); err != nil {
		return err
	}
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}

	for _, s := range cfg.Sections {
		if err := mkdir(cfg.ResolvePath(s.Directory)); err != nil {
			return err
		}
	}
	templates := cfg.ResolvePath(cfg.Templates.Directory)
	if err := mkdir(templates); err != nil {
		return err
	}
	if i.Templates {
		for _, name := range site.EmbeddedTemplateNames() {
			body, err := site.EmbeddedTemplate(name)
			if err != nil {
				return errors.WrapError(err, errors.CategoryInternal, "failed to read built-in template").
					WithContext("template", name).Build()
			}
			if err := i.writeOnce(filepath.Join(templates, site.TemplateFileName(name)), body); err != nil {
				return err
			}
		}
	}
	for _, p := range cfg.Pages {
		if err := i.writeOnce(cfg.ResolvePath(p.Source), []byte(starterPage)); err != nil {
			return err
		}
	}
	slog.Info("Initialized blog", logfields.Path(cfg.Site.Root), logfields.Count(len(cfg.Sections)))
	return nil
}

func mkdir(dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create directory").
			WithContext("path", dir).Build()
	}
	return nil
}

// writeOnce writes path unless it exists and --force was not given.
func (i *InitCmd) writeOnce(path string, body []byte) error {
	if _, err := os.Stat(path); err == nil && !i.Force {
		slog.Debug("Keeping existing file", logfields.Path(path))
		return nil
	}
	if err := mkdir(filepath.Dir(path)); err != nil {
		return err
	}
	// #nosec G306 -- templates are not secret.
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write file").
			WithContext("path", path).Build()
	}
	slog.Info("Created file", logfields.Path(path))
	return nil
}
