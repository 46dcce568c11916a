// Package watch rebuilds the site when its sources change and, optionally,
// on a fixed interval.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

// BuildFunc runs one build. Errors are logged and do not stop watching.
type BuildFunc func(ctx context.Context) error

// Options configures a Watcher.
type Options struct {
	// Dirs are watched recursively. Missing directories are skipped.
	Dirs []string
	// Relevant decides whether a changed path triggers a rebuild; every
	// path does when nil.
	Relevant func(path string) bool
	Debounce time.Duration
	// Interval schedules full rebuilds; zero disables them.
	Interval time.Duration
}

// Watcher drives rebuilds from filesystem events and a schedule.
type Watcher struct {
	build BuildFunc
	opts  Options
}

// New returns a Watcher calling build.
func New(build BuildFunc, opts Options) *Watcher {
	if opts.Debounce <= 0 {
		opts.Debounce = 300 * time.Millisecond
	}
	return &Watcher{build: build, opts: opts}
}

// ForConfig derives the watched directories and the relevance filter from
// the site configuration: Markdown files in section directories, anything
// in the template directory, and standalone page sources.
func ForConfig(cfg *config.Config) Options {
	var dirs []string
	seen := make(map[string]bool)
	add := func(d string) {
		if abs, err := filepath.Abs(d); err == nil && !seen[abs] {
			seen[abs] = true
			dirs = append(dirs, abs)
		}
	}
	for _, s := range cfg.Sections {
		add(cfg.ResolvePath(s.Directory))
	}
	templates, _ := filepath.Abs(cfg.ResolvePath(cfg.Templates.Directory))
	add(templates)

	sources := make(map[string]bool)
	for _, p := range cfg.Pages {
		if abs, err := filepath.Abs(cfg.ResolvePath(p.Source)); err == nil {
			sources[abs] = true
			add(filepath.Dir(abs))
		}
	}

	return Options{
		Dirs: dirs,
		Relevant: func(path string) bool {
			switch {
			case sources[path]:
				return true
			case within(templates, path):
				return true
			default:
				return strings.HasSuffix(path, ".md")
			}
		},
		Debounce: cfg.Watch.DebounceDuration(),
		Interval: cfg.Watch.IntervalDuration(),
	}
}

func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Run builds once, then rebuilds on relevant changes until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to create file watcher").Build()
	}
	defer func() { _ = watcher.Close() }()
	for _, dir := range w.opts.Dirs {
		addDirsRecursive(watcher, dir)
	}

	rebuildReq, trigger := newDebouncer(w.opts.Debounce)

	if w.opts.Interval > 0 {
		scheduler, err := w.schedule(rebuildReq)
		if err != nil {
			return err
		}
		defer func() {
			if err := scheduler.Shutdown(); err != nil {
				slog.Warn("Scheduler shutdown failed", logfields.Error(err))
			}
		}()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.rebuildWorker(ctx, rebuildReq)
	}()
	request(rebuildReq)

	slog.Info("Watching for changes", logfields.Count(len(w.opts.Dirs)), slog.Duration("debounce", w.opts.Debounce))
	err = w.loop(ctx, watcher, trigger)
	wg.Wait()
	return err
}

func (w *Watcher) schedule(rebuildReq chan struct{}) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryInternal, "failed to create scheduler").Build()
	}
	_, err = s.NewJob(
		gocron.DurationJob(w.opts.Interval),
		gocron.NewTask(func() {
			slog.Debug("Scheduled rebuild")
			request(rebuildReq)
		}),
		gocron.WithName("scheduled-rebuild"),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, errors.WrapError(err, errors.CategoryInternal, "failed to schedule rebuilds").
			WithContext("interval", w.opts.Interval.String()).Build()
	}
	s.Start()
	return s, nil
}

func (w *Watcher) loop(ctx context.Context, watcher *fsnotify.Watcher, trigger func()) error {
	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopping watch")
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(watcher, ev, trigger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(watcher *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			addDirsRecursive(watcher, ev.Name)
			return
		}
	}
	if w.opts.Relevant != nil && !w.opts.Relevant(ev.Name) {
		return
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

func (w *Watcher) rebuildWorker(ctx context.Context, rebuildReq chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-rebuildReq:
			start := time.Now()
			if err := w.build(ctx); err != nil {
				slog.Error("Rebuild failed", logfields.Error(err))
				continue
			}
			slog.Info("Rebuild complete", logfields.DurationMS(float64(time.Since(start).Milliseconds())))
		}
	}
}

// newDebouncer returns the rebuild channel and a trigger that requests a
// rebuild once no trigger has fired for d.
func newDebouncer(d time.Duration) (chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	rebuildReq := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(d, func() { request(rebuildReq) })
	}
	return rebuildReq, trigger
}

// request queues a rebuild unless one is already pending.
func request(rebuildReq chan struct{}) {
	select {
	case rebuildReq <- struct{}{}:
	default:
	}
}

func addDirsRecursive(w *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := w.Add(path); err != nil {
				slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

// shouldIgnoreEvent reports hidden files and editor swap files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."), strings.HasPrefix(base, "#"):
		return true
	case strings.HasSuffix(base, "~"), strings.HasSuffix(base, ".swp"), strings.HasSuffix(base, ".swx"):
		return true
	}
	return false
}
