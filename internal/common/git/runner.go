package git

import (
	"bytes"
	"errors"
	"os/exec"
	"strings"

	"github.com/modfolk/modup/internal/common/logger"
)

var (
	ErrGitCommand = errors.New("git command failed")
)

// Runner executes git commands in a specific working directory
type Runner struct {
	workDir string
}

// NewRunner creates a new Runner for the specified working directory
func NewRunner(workDir string) *Runner {
	return &Runner{
		workDir: workDir,
	}
}

// WorkDir returns the working directory of the Runner
func (g *Runner) WorkDir() string {
	return g.workDir
}

// runCommand executes a git command and returns stdout, stderr, and any error
func (g *Runner) runCommand(args ...string) (stdout, stderr string, err error) {
	logger.Debug("$ git %s", strings.Join(args, " "))

	cmd := exec.Command("git", args...)
	cmd.Dir = g.workDir

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if err != nil && stderr != "" {
		// Wrap the error with stderr for context
		err = errors.Join(ErrGitCommand, errors.New(strings.TrimSpace(stderr)))
	}

	return stdout, stderr, err
}

// CurrentBranch returns the checked-out branch name, or "HEAD" when detached
func (g *Runner) CurrentBranch() (string, error) {
	stdout, _, err := g.runCommand("rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(stdout), nil
}

// RemoteBranchesAtHead returns remote branches pointing at the current commit.
// Symbolic entries like "origin/HEAD -> origin/main" are filtered out.
func (g *Runner) RemoteBranchesAtHead() ([]string, error) {
	stdout, _, err := g.runCommand("branch", "-r", "--points-at", "HEAD")
	if err != nil {
		return nil, err
	}
	return ParseRemoteBranches(stdout), nil
}

// ParseRemoteBranches parses `git branch -r` output into branch refs
func ParseRemoteBranches(output string) []string {
	var branches []string
	for _, line := range strings.Split(output, "\n") {
		ref := strings.TrimSpace(line)
		if ref == "" || strings.Contains(ref, "->") {
			continue
		}
		branches = append(branches, ref)
	}
	return branches
}

// Checkout switches to an existing branch
func (g *Runner) Checkout(branch string) error {
	_, _, err := g.runCommand("checkout", branch)
	return err
}

// CheckoutForce switches to a branch, discarding local changes
func (g *Runner) CheckoutForce(branch string) error {
	_, _, err := g.runCommand("checkout", "-f", branch)
	return err
}

// CheckoutNew creates a branch at the current commit and switches to it
func (g *Runner) CheckoutNew(branch string) error {
	_, _, err := g.runCommand("checkout", "-b", branch)
	return err
}

// CheckoutReset creates or force-resets a branch to startPoint and switches to it
func (g *Runner) CheckoutReset(branch, startPoint string) error {
	_, _, err := g.runCommand("checkout", "-B", branch, startPoint)
	return err
}

// PullFFOnly fast-forwards the current branch from the remote.
// It fails when the local branch has diverged from the remote.
func (g *Runner) PullFFOnly(remote, branch string) error {
	_, _, err := g.runCommand("pull", "--ff-only", remote, branch)
	return err
}

// RemoteBranchExists reports whether the named branch exists on the remote
func (g *Runner) RemoteBranchExists(remote, branch string) (bool, error) {
	stdout, _, err := g.runCommand("ls-remote", "--heads", remote, branch)
	if err != nil {
		return false, err
	}
	return LsRemoteHasBranch(stdout, branch), nil
}

// LsRemoteHasBranch reports whether ls-remote output lists the exact branch ref
func LsRemoteHasBranch(output, branch string) bool {
	expected := "refs/heads/" + branch
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 2 && fields[1] == expected {
			return true
		}
	}
	return false
}

// Add stages files for commit
func (g *Runner) Add(paths ...string) error {
	if len(paths) == 0 {
		_, _, err := g.runCommand("add", ".")
		return err
	}

	args := append([]string{"add"}, paths...)
	_, _, err := g.runCommand(args...)
	return err
}

// HasStagedChanges reports whether the index differs from HEAD.
// It relies on the exit code of `git diff --cached --quiet`: 0 means no
// difference, 1 means the index has staged changes.
func (g *Runner) HasStagedChanges() (bool, error) {
	logger.Debug("$ git diff --cached --quiet")

	cmd := exec.Command("git", "diff", "--cached", "--quiet")
	cmd.Dir = g.workDir

	err := cmd.Run()
	if err == nil {
		return false, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return true, nil
	}
	return false, errors.Join(ErrGitCommand, err)
}

// Commit creates a commit with the specified message and identity.
// The identity is passed per invocation so the repository's own git config
// is never modified.
func (g *Runner) Commit(message, user, email string) error {
	args := []string{}
	if user != "" && email != "" {
		args = append(args, "-c", "user.name="+user, "-c", "user.email="+email)
	}
	args = append(args, "commit", "-m", message)

	_, _, err := g.runCommand(args...)
	return err
}

// PushForceWithLease pushes a branch, refusing if the remote moved unexpectedly
func (g *Runner) PushForceWithLease(remote, branch string) error {
	_, _, err := g.runCommand("push", "--force-with-lease", remote, branch)
	return err
}
