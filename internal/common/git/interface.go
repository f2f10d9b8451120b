package git

// Executor defines the interface for git operations.
// This interface allows for mocking git operations in tests.
type Executor interface {
	// CurrentBranch returns the checked-out branch name, or "HEAD" when detached
	CurrentBranch() (string, error)

	// RemoteBranchesAtHead returns remote branches pointing at the current commit
	RemoteBranchesAtHead() ([]string, error)

	// Checkout switches to an existing branch
	Checkout(branch string) error

	// CheckoutForce switches to a branch, discarding local changes
	CheckoutForce(branch string) error

	// CheckoutNew creates a branch at the current commit and switches to it
	CheckoutNew(branch string) error

	// CheckoutReset creates or force-resets a branch to startPoint and switches to it
	CheckoutReset(branch, startPoint string) error

	// PullFFOnly fast-forwards the current branch from the remote; fails on divergence
	PullFFOnly(remote, branch string) error

	// RemoteBranchExists reports whether the named branch exists on the remote
	RemoteBranchExists(remote, branch string) (bool, error)

	// Add stages files for commit
	Add(paths ...string) error

	// HasStagedChanges reports whether the index differs from HEAD
	HasStagedChanges() (bool, error)

	// Commit creates a commit with the specified message and identity
	Commit(message, user, email string) error

	// PushForceWithLease pushes a branch, refusing if the remote moved unexpectedly
	PushForceWithLease(remote, branch string) error

	// WorkDir returns the working directory of the git repository
	WorkDir() string
}
