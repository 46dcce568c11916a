package config

import (
	"bytes"
	stderrors "errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

// Load reads the configuration at path. .env files next to it are loaded
// first and ${VAR} references in the file are expanded. A missing file
// yields the built-in defaults rooted at the file's directory.
func Load(path string) (*Config, error) {
	dir := filepath.Dir(path)
	loaded, err := loadEnvFiles(dir)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to load .env file").
			Fatal().WithContext("dir", dir).Build()
	}
	for _, f := range loaded {
		slog.Debug("Loaded environment file", logfields.File(f))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			slog.Info("No configuration file found, using defaults", logfields.Path(path))
			cfg := DefaultConfig(dir)
			if err := Validate(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").
			Fatal().WithContext("path", path).Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to parse config file").
			Fatal().WithContext("path", path).Build()
	}
	if cfg.Site.Root == "" {
		cfg.Site.Root = dir
	} else if !filepath.IsAbs(cfg.Site.Root) {
		cfg.Site.Root = filepath.Join(dir, cfg.Site.Root)
	}
	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML after environment expansion. Unknown keys are rejected.
// Defaults are not applied.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, err
	}
	return &cfg, nil
}

// Finalize applies defaults and validates a configuration built in code.
func Finalize(cfg *Config) error {
	applyDefaults(cfg)
	return Validate(cfg)
}
