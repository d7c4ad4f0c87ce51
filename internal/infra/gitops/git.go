package gitops

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/shlex"
	"github.com/sirupsen/logrus"
)

var ErrNotARepository = errors.New("not a git repository")

const Origin = "origin"

// Repo wraps the git commands run inside one working tree.
type Repo struct {
	runner Runner
	dir    string
	logger *logrus.Logger
}

func NewRepo(runner Runner, dir string, logger *logrus.Logger) *Repo {
	return &Repo{runner: runner, dir: dir, logger: logger}
}

func (r *Repo) git(ctx context.Context, args ...string) (string, error) {
	return r.runner.Run(ctx, r.dir, "git", args...)
}

// Check fails with ErrNotARepository when dir is not inside a work tree.
func (r *Repo) Check(ctx context.Context) error {
	out, err := r.git(ctx, "rev-parse", "--is-inside-work-tree")
	if err != nil || out != "true" {
		return fmt.Errorf("%w: %s", ErrNotARepository, r.dir)
	}
	return nil
}

// EnsureBranch makes branch the current branch, creating or renaming as needed.
func (r *Repo) EnsureBranch(ctx context.Context, branch string) error {
	cur, _ := r.git(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	switch cur {
	case branch:
		return nil
	case "", "HEAD":
		_, err := r.git(ctx, "checkout", "-b", branch)
		return err
	}
	if _, err := r.git(ctx, "branch", "-M", branch); err != nil {
		r.logger.WithError(err).Warnf("Rename to %s failed, checking it out instead", branch)
		_, err = r.git(ctx, "checkout", branch)
		return err
	}
	return nil
}

// SetRemote points name at url, adding the remote when it does not exist.
func (r *Repo) SetRemote(ctx context.Context, name, url string) error {
	out, err := r.git(ctx, "remote")
	if err != nil {
		return err
	}
	for _, remote := range strings.Fields(out) {
		if remote == name {
			_, err = r.git(ctx, "remote", "set-url", name, url)
			return err
		}
	}
	_, err = r.git(ctx, "remote", "add", name, url)
	return err
}

// CommitAll stages everything and commits it. It reports false when the tree was clean.
func (r *Repo) CommitAll(ctx context.Context, message string) (bool, error) {
	if _, err := r.git(ctx, "add", "-A"); err != nil {
		return false, err
	}
	status, err := r.git(ctx, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	if status == "" {
		return false, nil
	}
	if _, err := r.git(ctx, "commit", "-m", message); err != nil {
		return false, err
	}
	return true, nil
}

// PushOptions configures Push.
type PushOptions struct {
	RemoteURL string // optional, applied to origin before pushing
	Branch    string
	Message   string
	ExtraArgs string // appended to git push, split shell-style
}

// Push runs the remote, branch, commit and push steps in order.
func (r *Repo) Push(ctx context.Context, opts PushOptions) error {
	extra, err := shlex.Split(opts.ExtraArgs)
	if err != nil {
		return fmt.Errorf("invalid extra push arguments: %w", err)
	}
	if opts.Message == "" {
		opts.Message = "update"
	}

	if err := r.Check(ctx); err != nil {
		return err
	}
	if opts.RemoteURL != "" {
		if err := r.SetRemote(ctx, Origin, opts.RemoteURL); err != nil {
			return fmt.Errorf("failed to configure %s: %w", Origin, err)
		}
		r.logger.Infof("Remote %s set to %s", Origin, redact(opts.RemoteURL))
	}
	if err := r.EnsureBranch(ctx, opts.Branch); err != nil {
		return fmt.Errorf("failed to switch to branch %s: %w", opts.Branch, err)
	}

	committed, err := r.CommitAll(ctx, opts.Message)
	if err != nil {
		return fmt.Errorf("commit failed: %w", err)
	}
	if !committed {
		r.logger.Info("Nothing to commit.")
	}

	args := append([]string{"push", "-u", Origin, opts.Branch}, extra...)
	if _, err := r.git(ctx, args...); err != nil {
		return fmt.Errorf("push failed: %w", err)
	}
	r.logger.Infof("Pushed %s to %s.", opts.Branch, Origin)
	return nil
}
