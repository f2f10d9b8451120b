package reconcile

import (
	"fmt"

	"github.com/modfolk/modup/internal/common/gh"
	"github.com/modfolk/modup/internal/common/git"
	"github.com/modfolk/modup/internal/common/logger"
	"github.com/modfolk/modup/internal/props"
	"github.com/modfolk/modup/internal/update"
)

// Action classifies what a reconcile run did for a dependency.
type Action int

const (
	// ActionNoChange means the update branch already carried this change
	ActionNoChange Action = iota
	// ActionCreated means a new pull request was opened
	ActionCreated
	// ActionUpdated means an existing pull request was refreshed
	ActionUpdated
)

// Result reports what Reconcile did.
type Result struct {
	Branch string
	Action Action
}

// Options configures a Reconciler.
type Options struct {
	// PropsPath is the properties file carrying the pinned versions
	PropsPath string
	// Remote is the git remote branches are pushed to
	Remote string
	// Base is the branch update branches fork from and PRs target
	Base string
	// BranchPrefix is the first segment of generated branch names
	BranchPrefix string
	// User and Email form the commit identity
	User  string
	Email string
	// GameVersion and Loader are echoed into the PR body
	GameVersion string
	Loader      string
}

// Reconciler applies one update per call: branch, edit, commit, push, PR.
// Every step is idempotent so re-running against the same registry state
// converges instead of stacking changes.
type Reconciler struct {
	git  git.Executor
	gh   gh.Client
	opts Options
}

// NewReconciler creates a reconciler using the given git and PR backends.
func NewReconciler(g git.Executor, client gh.Client, opts Options) *Reconciler {
	return &Reconciler{
		git:  g,
		gh:   client,
		opts: opts,
	}
}

// BranchName returns the update branch for a mod. Scoping by base branch
// keeps updates against different bases from fighting over one branch.
func (r *Reconciler) BranchName(slug string) string {
	return fmt.Sprintf("%s/%s/%s", r.opts.BranchPrefix, r.opts.Base, slug)
}

// CommitMessage returns the commit message and PR title for an update.
func CommitMessage(u *update.Update) string {
	return fmt.Sprintf("Update %s to %s", u.Slug, u.DisplayVersion)
}

// Reconcile drives one update through to an open pull request. On any
// failure the repository is left on the base branch so the next dependency
// starts clean.
func (r *Reconciler) Reconcile(u *update.Update) (res Result, err error) {
	branch := r.BranchName(u.Slug)
	res.Branch = branch

	// Whatever happens, end up back on base. The checkout is forced:
	// a failed run may leave the properties file dirty.
	defer func() {
		if restoreErr := r.git.CheckoutForce(r.opts.Base); restoreErr != nil {
			logger.Warn("Failed to return to branch %s: %v", r.opts.Base, restoreErr)
		}
	}()

	if err := r.syncBase(); err != nil {
		return res, err
	}

	if err := r.prepareBranch(branch); err != nil {
		return res, err
	}

	if err := props.WriteKey(r.opts.PropsPath, u.Key, u.NewValue); err != nil {
		return res, fmt.Errorf("failed to update %s: %w", u.Key, err)
	}
	if err := r.git.Add(r.opts.PropsPath); err != nil {
		return res, fmt.Errorf("failed to stage changes: %w", err)
	}

	staged, err := r.git.HasStagedChanges()
	if err != nil {
		return res, fmt.Errorf("failed to inspect staged changes: %w", err)
	}
	if !staged {
		// The pushed branch already pins this exact value.
		logger.Debug("Branch %s already up to date", branch)
		res.Action = ActionNoChange
		return res, nil
	}

	message := CommitMessage(u)
	if err := r.git.Commit(message, r.opts.User, r.opts.Email); err != nil {
		return res, fmt.Errorf("failed to commit: %w", err)
	}
	if err := r.git.PushForceWithLease(r.opts.Remote, branch); err != nil {
		return res, fmt.Errorf("failed to push %s: %w", branch, err)
	}

	action, err := r.reconcilePR(branch, message, u)
	if err != nil {
		return res, err
	}
	res.Action = action

	return res, nil
}

// syncBase checks out the base branch and fast-forwards it so generated
// branches fork from the remote's latest commit.
func (r *Reconciler) syncBase() error {
	if err := r.git.Checkout(r.opts.Base); err != nil {
		return fmt.Errorf("failed to check out %s: %w", r.opts.Base, err)
	}
	if err := r.git.PullFFOnly(r.opts.Remote, r.opts.Base); err != nil {
		return fmt.Errorf("failed to update %s: %w", r.opts.Base, err)
	}
	return nil
}

// prepareBranch puts HEAD on the update branch. An existing remote branch
// is reset onto the fresh base so stale commits from earlier runs never
// survive; otherwise a new branch is cut from base.
func (r *Reconciler) prepareBranch(branch string) error {
	exists, err := r.git.RemoteBranchExists(r.opts.Remote, branch)
	if err != nil {
		return fmt.Errorf("failed to check remote branch %s: %w", branch, err)
	}

	if exists {
		startPoint := r.opts.Remote + "/" + r.opts.Base
		if err := r.git.CheckoutReset(branch, startPoint); err != nil {
			return fmt.Errorf("failed to reset branch %s: %w", branch, err)
		}
		return nil
	}

	if err := r.git.CheckoutNew(branch); err != nil {
		return fmt.Errorf("failed to create branch %s: %w", branch, err)
	}
	return nil
}

// reconcilePR edits the branch's open pull request or opens a new one.
func (r *Reconciler) reconcilePR(branch, title string, u *update.Update) (Action, error) {
	body := prBody(u, r.opts.GameVersion, r.opts.Loader)

	open, err := r.gh.PRIsOpen(branch)
	if err != nil {
		return ActionNoChange, fmt.Errorf("failed to check pull request for %s: %w", branch, err)
	}

	if open {
		if err := r.gh.PREdit(branch, title, body); err != nil {
			return ActionNoChange, fmt.Errorf("failed to update pull request for %s: %w", branch, err)
		}
		return ActionUpdated, nil
	}

	if err := r.gh.PRCreate(gh.PROptions{
		Title: title,
		Body:  body,
		Base:  r.opts.Base,
		Head:  branch,
	}); err != nil {
		return ActionNoChange, fmt.Errorf("failed to create pull request for %s: %w", branch, err)
	}
	return ActionCreated, nil
}

// prBody renders the pull request description for an update.
func prBody(u *update.Update, gameVersion, loader string) string {
	return fmt.Sprintf(`Updates `+"`%s`"+` from `+"`%s`"+` to `+"`%s`"+`.

- Mod: [%s](https://modrinth.com/mod/%s)
- Version: [%s](https://modrinth.com/mod/%s/version/%s)
- Minecraft: %s
- Loader: %s

*This PR was automatically created by [modup](https://github.com/modfolk/modup).*
`,
		u.Key, u.CurrentValue, u.NewValue,
		u.Slug, u.Slug,
		u.DisplayVersion, u.Slug, u.Version.ID,
		gameVersion, loader,
	)
}
