package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Engine   string `help:"Markdown engine (builtin|goldmark); overrides markdown.engine"`
	Interval string `help:"Also rebuild on this interval, e.g. 10m; overrides watch.interval"`
	Debounce string `help:"Quiet period before a rebuild; overrides watch.debounce"`
	Commit   bool   `help:"Commit generated pages after every build"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	if w.Interval != "" {
		cfg.Watch.Interval = w.Interval
	}
	if w.Debounce != "" {
		cfg.Watch.Debounce = w.Debounce
	}
	build := BuildCmd{Engine: w.Engine, Commit: w.Commit}
	if err := build.applyOverrides(cfg); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	watcher := watch.New(func(ctx context.Context) error {
		report, err := RunBuild(ctx, cfg, BuildOptions{})
		if err != nil {
			return err
		}
		slog.Info("Build summary", slog.String("summary", report.Summary()), logfields.BuildID(report.ID))
		return nil
	}, watch.ForConfig(cfg))
	return watcher.Run(ctx)
}
