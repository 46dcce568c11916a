package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

const exampleHeader = "# blogbuilder configuration\n# Relative paths resolve against site.root. ${VAR} references are expanded from the environment and .env.\n"

// WriteExample writes a starter configuration to path. An existing file is
// only replaced when force is set.
func WriteExample(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", path).Build()
	} else if err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to stat config file").
			WithContext("path", path).Build()
	}

	cfg := &Config{
		Site:     SiteConfig{Root: ".", Title: "My Blog"},
		Sections: DefaultSections(),
		Pages:    []PageConfig{{Source: "templates/about-template.html", Output: "about.html"}},
	}
	applyDefaults(cfg)

	var buf []byte
	buf = append(buf, exampleHeader...)
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal example config").Build()
	}
	buf = append(buf, out...)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to create config directory").
				WithContext("path", dir).Build()
		}
	}
	if err := os.WriteFile(path, buf, 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write config file").
			WithContext("path", path).Build()
	}
	return nil
}
