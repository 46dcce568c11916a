// Package publish commits generated pages to the git repository that
// contains the site.
package publish

import (
	"context"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

// Options controls the commit.
type Options struct {
	Message     string
	AuthorName  string
	AuthorEmail string
	// Now stamps the commit; time.Now when nil.
	Now func() time.Time
}

// OptionsFromConfig maps the publish section of the configuration.
func OptionsFromConfig(cfg config.PublishConfig) Options {
	return Options{Message: cfg.Message, AuthorName: cfg.AuthorName, AuthorEmail: cfg.AuthorEmail}
}

// Result describes what Commit did.
type Result struct {
	Committed bool
	Hash      string
	Files     []string // repository-relative paths that were staged
}

// Commit stages files (absolute paths, or paths relative to dir) in the
// repository containing dir and commits them. Files outside the worktree
// are ignored. Nothing is committed when staging changed nothing.
func Commit(ctx context.Context, dir string, files []string, opts Options) (Result, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return Result{}, errors.WrapError(err, errors.CategoryPublish, "failed to open git repository").
			WithContext("path", dir).Build()
	}
	wt, err := repo.Worktree()
	if err != nil {
		return Result{}, errors.WrapError(err, errors.CategoryPublish, "failed to get git worktree").Build()
	}
	root := wt.Filesystem.Root()

	var res Result
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return res, errors.WrapError(err, errors.CategoryPublish, "publish canceled").Build()
		}
		abs := f
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(dir, f)
		}
		rel, err := filepath.Rel(root, abs)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			slog.Debug("Skipping file outside repository", logfields.Path(abs))
			continue
		}
		rel = filepath.ToSlash(rel)
		if _, err := wt.Add(rel); err != nil {
			return res, errors.WrapError(err, errors.CategoryPublish, "failed to stage file").
				WithContext("path", rel).Build()
		}
		res.Files = append(res.Files, rel)
	}

	status, err := wt.Status()
	if err != nil {
		return res, errors.WrapError(err, errors.CategoryPublish, "failed to get git status").Build()
	}
	if !hasStaged(status) {
		slog.Info("No generated changes to commit", logfields.Count(len(res.Files)))
		return res, nil
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	hash, err := wt.Commit(opts.message(), &git.CommitOptions{
		Author: &object.Signature{Name: opts.AuthorName, Email: opts.AuthorEmail, When: now()},
	})
	if err != nil {
		return res, errors.WrapError(err, errors.CategoryPublish, "git commit failed").Build()
	}
	res.Committed = true
	res.Hash = hash.String()
	slog.Info("Committed generated pages", slog.String("commit", res.Hash), logfields.Count(len(res.Files)))
	return res, nil
}

func (o Options) message() string {
	if strings.TrimSpace(o.Message) == "" {
		return "Regenerate site"
	}
	return o.Message
}

func hasStaged(status git.Status) bool {
	return len(StagedPaths(status)) > 0
}

// StagedPaths lists the paths with staged changes, sorted.
func StagedPaths(status git.Status) []string {
	var out []string
	for p, s := range status {
		if s.Staging != git.Unmodified && s.Staging != git.Untracked {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}
