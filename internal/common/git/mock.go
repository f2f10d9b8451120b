package git

// MockRunner implements Executor for testing.
// Each method can be configured with a custom function to control behavior,
// and every invocation is appended to Calls for assertions.
type MockRunner struct {
	CurrentBranchFunc        func() (string, error)
	RemoteBranchesAtHeadFunc func() ([]string, error)
	CheckoutFunc             func(branch string) error
	CheckoutForceFunc        func(branch string) error
	CheckoutNewFunc          func(branch string) error
	CheckoutResetFunc        func(branch, startPoint string) error
	PullFFOnlyFunc           func(remote, branch string) error
	RemoteBranchExistsFunc   func(remote, branch string) (bool, error)
	AddFunc                  func(paths ...string) error
	HasStagedChangesFunc     func() (bool, error)
	CommitFunc               func(message, user, email string) error
	PushForceWithLeaseFunc   func(remote, branch string) error

	// Calls records method names in invocation order
	Calls []string

	workDir string
}

// NewMockRunner creates a new MockRunner with the specified working directory
func NewMockRunner(workDir string) *MockRunner {
	return &MockRunner{
		workDir: workDir,
	}
}

func (m *MockRunner) record(call string) {
	m.Calls = append(m.Calls, call)
}

// CurrentBranch returns the checked-out branch name
func (m *MockRunner) CurrentBranch() (string, error) {
	m.record("CurrentBranch")
	if m.CurrentBranchFunc != nil {
		return m.CurrentBranchFunc()
	}
	return "main", nil
}

// RemoteBranchesAtHead returns remote branches pointing at the current commit
func (m *MockRunner) RemoteBranchesAtHead() ([]string, error) {
	m.record("RemoteBranchesAtHead")
	if m.RemoteBranchesAtHeadFunc != nil {
		return m.RemoteBranchesAtHeadFunc()
	}
	return nil, nil
}

// Checkout switches to an existing branch
func (m *MockRunner) Checkout(branch string) error {
	m.record("Checkout " + branch)
	if m.CheckoutFunc != nil {
		return m.CheckoutFunc(branch)
	}
	return nil
}

// CheckoutForce switches to a branch, discarding local changes
func (m *MockRunner) CheckoutForce(branch string) error {
	m.record("CheckoutForce " + branch)
	if m.CheckoutForceFunc != nil {
		return m.CheckoutForceFunc(branch)
	}
	return nil
}

// CheckoutNew creates a branch at the current commit and switches to it
func (m *MockRunner) CheckoutNew(branch string) error {
	m.record("CheckoutNew " + branch)
	if m.CheckoutNewFunc != nil {
		return m.CheckoutNewFunc(branch)
	}
	return nil
}

// CheckoutReset creates or force-resets a branch to startPoint and switches to it
func (m *MockRunner) CheckoutReset(branch, startPoint string) error {
	m.record("CheckoutReset " + branch + " " + startPoint)
	if m.CheckoutResetFunc != nil {
		return m.CheckoutResetFunc(branch, startPoint)
	}
	return nil
}

// PullFFOnly fast-forwards the current branch from the remote
func (m *MockRunner) PullFFOnly(remote, branch string) error {
	m.record("PullFFOnly " + remote + " " + branch)
	if m.PullFFOnlyFunc != nil {
		return m.PullFFOnlyFunc(remote, branch)
	}
	return nil
}

// RemoteBranchExists reports whether the named branch exists on the remote
func (m *MockRunner) RemoteBranchExists(remote, branch string) (bool, error) {
	m.record("RemoteBranchExists " + remote + " " + branch)
	if m.RemoteBranchExistsFunc != nil {
		return m.RemoteBranchExistsFunc(remote, branch)
	}
	return false, nil
}

// Add stages files for commit
func (m *MockRunner) Add(paths ...string) error {
	m.record("Add")
	if m.AddFunc != nil {
		return m.AddFunc(paths...)
	}
	return nil
}

// HasStagedChanges reports whether the index differs from HEAD
func (m *MockRunner) HasStagedChanges() (bool, error) {
	m.record("HasStagedChanges")
	if m.HasStagedChangesFunc != nil {
		return m.HasStagedChangesFunc()
	}
	return false, nil
}

// Commit creates a commit with the specified message and identity
func (m *MockRunner) Commit(message, user, email string) error {
	m.record("Commit " + message)
	if m.CommitFunc != nil {
		return m.CommitFunc(message, user, email)
	}
	return nil
}

// PushForceWithLease pushes a branch to the remote
func (m *MockRunner) PushForceWithLease(remote, branch string) error {
	m.record("PushForceWithLease " + remote + " " + branch)
	if m.PushForceWithLeaseFunc != nil {
		return m.PushForceWithLeaseFunc(remote, branch)
	}
	return nil
}

// WorkDir returns the working directory of the git repository
func (m *MockRunner) WorkDir() string {
	return m.workDir
}

// Ensure MockRunner implements Executor interface
var _ Executor = (*MockRunner)(nil)
