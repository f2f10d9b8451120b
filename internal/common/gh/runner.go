package gh

import (
	"bytes"
	"encoding/json"
	"errors"
	"os/exec"
	"strings"

	"github.com/modfolk/modup/internal/common/logger"
)

var (
	ErrGhCommand = errors.New("gh command failed")
)

// Runner executes gh commands in a specific working directory
type Runner struct {
	workDir string
}

// NewRunner creates a new Runner for the specified working directory
func NewRunner(workDir string) *Runner {
	return &Runner{
		workDir: workDir,
	}
}

// runCommand executes a gh command and returns stdout, stderr, and any error
func (g *Runner) runCommand(args ...string) (stdout, stderr string, err error) {
	logger.Debug("$ gh %s", strings.Join(args, " "))

	cmd := exec.Command("gh", args...)
	cmd.Dir = g.workDir

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if err != nil && stderr != "" {
		err = errors.Join(ErrGhCommand, errors.New(strings.TrimSpace(stderr)))
	}

	return stdout, stderr, err
}

// PRIsOpen reports whether an open pull request exists for the branch.
// A failing gh invocation or unparseable output means "no open PR", not an
// error: the command exits non-zero when no PR exists for the branch.
func (g *Runner) PRIsOpen(branch string) (bool, error) {
	stdout, _, err := g.runCommand("pr", "view", branch, "--json", "state")
	if err != nil {
		return false, nil
	}
	return ParsePRState(stdout) == "OPEN", nil
}

// ParsePRState extracts the state field from `gh pr view --json state` output.
// Returns an empty string when the output cannot be parsed.
func ParsePRState(output string) string {
	var result struct {
		State string `json:"state"`
	}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		return ""
	}
	return result.State
}

// PRCreate opens a new pull request
func (g *Runner) PRCreate(opts PROptions) error {
	_, _, err := g.runCommand(
		"pr", "create",
		"--title", opts.Title,
		"--body", opts.Body,
		"--base", opts.Base,
		"--head", opts.Head,
	)
	return err
}

// PREdit updates the title and body of the branch's pull request
func (g *Runner) PREdit(branch, title, body string) error {
	_, _, err := g.runCommand("pr", "edit", branch, "--title", title, "--body", body)
	return err
}

// Ensure Runner implements Client interface
var _ Client = (*Runner)(nil)
