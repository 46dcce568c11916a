package config

import (
	"fmt"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

// Validate checks a defaulted configuration for structural problems.
func Validate(cfg *Config) error {
	if len(cfg.Sections) == 0 {
		return errors.ValidationError("at least one section must be configured").Build()
	}

	seen := make(map[string]int, len(cfg.Sections))
	homes := 0
	for i, s := range cfg.Sections {
		if s.Name == "" {
			return errors.ValidationError("section name is required").
				WithContext("index", i).Build()
		}
		if prev, dup := seen[s.Name]; dup {
			return errors.ValidationError(fmt.Sprintf("duplicate section name %q", s.Name)).
				WithContext("first", prev).WithContext("second", i).Build()
		}
		seen[s.Name] = i

		switch s.Kind {
		case KindHome:
			homes++
		case KindArchive, KindList:
		default:
			return errors.ValidationError(fmt.Sprintf("invalid section kind %q", s.Kind)).
				WithContext("section", s.Name).Build()
		}
		if s.PerPage < 1 {
			return errors.ValidationError("per_page must be at least 1").
				WithContext("section", s.Name).WithContext("per_page", s.PerPage).Build()
		}
	}
	if homes > 1 {
		return errors.ValidationError("at most one home section is allowed").
			WithContext("count", homes).Build()
	}

	switch cfg.Markdown.Engine {
	case EngineBuiltin, EngineGoldmark:
	default:
		return errors.ValidationError(fmt.Sprintf("invalid markdown engine %q", cfg.Markdown.Engine)).Build()
	}

	if cfg.Watch.Interval != "" {
		if d, err := time.ParseDuration(cfg.Watch.Interval); err != nil || d < 0 {
			return errors.ValidationError("watch.interval must be a non-negative duration").
				WithContext("interval", cfg.Watch.Interval).Build()
		}
	}
	if _, err := time.ParseDuration(cfg.Watch.Debounce); err != nil {
		return errors.ValidationError("watch.debounce must be a duration").
			WithContext("debounce", cfg.Watch.Debounce).Build()
	}

	for i, p := range cfg.Pages {
		if p.Source == "" || p.Output == "" {
			return errors.ValidationError("pages entries need source and output").
				WithContext("index", i).Build()
		}
	}
	return nil
}
