package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"path/filepath"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
	"git.home.luguber.info/inful/blogbuilder/internal/publish"
	"git.home.luguber.info/inful/blogbuilder/internal/site"
	"git.home.luguber.info/inful/blogbuilder/internal/state"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output      string `short:"o" help:"Output directory; overrides output.directory"`
	Engine      string `help:"Markdown engine (builtin|goldmark); overrides markdown.engine"`
	Strict      bool   `help:"Exit non-zero when any document or page failed"`
	Commit      bool   `help:"Commit generated pages with git; same as publish.commit"`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus metrics in textfile format; overrides metrics.textfile"`
	ReportDir   string `name:"report-dir" help:"Directory receiving build-report.json and build-report.txt"`
	NoState     bool   `name:"no-state" help:"Rewrite every page, ignoring the incremental state store"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	if err := b.applyOverrides(cfg); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	report, err := RunBuild(ctx, cfg, BuildOptions{NoState: b.NoState, ReportDir: b.ReportDir})
	if err != nil {
		return err
	}
	fmt.Println(report.Summary())
	if b.Strict && len(report.Failures) > 0 {
		return errors.BuildError("build finished with failures").
			WithContext("failures", len(report.Failures)).Build()
	}
	return nil
}

func (b *BuildCmd) applyOverrides(cfg *config.Config) error {
	if b.Output != "" {
		abs, err := filepath.Abs(b.Output)
		if err != nil {
			return errors.WrapError(err, errors.CategoryConfig, "invalid output directory").
				WithContext("output", b.Output).Build()
		}
		cfg.Output.Directory = abs
	}
	if b.Engine != "" {
		cfg.Markdown.Engine = config.MarkdownEngine(b.Engine)
	}
	if b.Commit {
		cfg.Publish.Commit = true
	}
	if b.MetricsFile != "" {
		abs, err := filepath.Abs(b.MetricsFile)
		if err != nil {
			return errors.WrapError(err, errors.CategoryConfig, "invalid metrics file").
				WithContext("metrics_file", b.MetricsFile).Build()
		}
		cfg.Metrics.Textfile = abs
	}
	return config.Finalize(cfg)
}

// BuildOptions are per-invocation settings that are not part of the
// configuration file.
type BuildOptions struct {
	NoState   bool
	ReportDir string
}

// RunBuild builds the site once and runs the configured follow-ups: state
// history, report files, metrics textfile and git commit.
func RunBuild(ctx context.Context, cfg *config.Config, opts BuildOptions) (*site.Report, error) {
	var engineOpts []site.Option

	var registry *prom.Registry
	if cfg.Metrics.Textfile != "" {
		registry = prom.NewRegistry()
		engineOpts = append(engineOpts, site.WithRecorder(metrics.NewPrometheusRecorder(registry)))
	}

	var store *state.SQLiteStore
	if cfg.State.IsEnabled() && !opts.NoState {
		s, err := state.Open(cfg.ResolvePath(cfg.State.Path))
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := s.Close(); err != nil {
				slog.Warn("Failed to close state store", logfields.Error(err))
			}
		}()
		store = s
		engineOpts = append(engineOpts, site.WithStateStore(store))
	}

	engine, err := site.New(cfg, engineOpts...)
	if err != nil {
		return nil, err
	}
	report, err := engine.Build(ctx)
	if err != nil {
		return report, err
	}

	if store != nil {
		if err := store.RecordBuild(ctx, report.Record()); err != nil {
			slog.Warn("Failed to record build history", logfields.Error(err))
		}
	}
	if opts.ReportDir != "" {
		if err := report.Persist(opts.ReportDir); err != nil {
			return report, err
		}
	}
	if registry != nil {
		if err := metrics.WriteTextfile(cfg.ResolvePath(cfg.Metrics.Textfile), registry); err != nil {
			return report, err
		}
	}
	if cfg.Publish.Commit {
		files := make([]string, 0, len(report.Written))
		for _, rel := range report.Written {
			files = append(files, filepath.Join(engine.OutputRoot(), filepath.FromSlash(rel)))
		}
		if _, err := publish.Commit(ctx, engine.OutputRoot(), files, publish.OptionsFromConfig(cfg.Publish)); err != nil {
			return report, err
		}
	}
	return report, nil
}
