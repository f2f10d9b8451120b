// Package reconcile turns accepted updates into branches, commits and pull
// requests, leaving the repository back on the base branch afterwards.
package reconcile

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/modfolk/modup/internal/common/git"
	"github.com/modfolk/modup/internal/common/logger"
)

// ErrNoBaseBranch is returned when the base branch cannot be determined
var ErrNoBaseBranch = errors.New("unable to determine base branch")

// mergeRefPattern matches synthetic CI merge refs such as "42/merge"
var mergeRefPattern = regexp.MustCompile(`^\d+/merge$`)

// IsUsableCIRef reports whether a CI-provided ref names a real branch.
// Empty values, detached HEAD and synthetic pull request merge refs are
// rejected.
func IsUsableCIRef(ref string) bool {
	if ref == "" || ref == "HEAD" {
		return false
	}
	return !mergeRefPattern.MatchString(ref)
}

// DetectBaseBranch determines the branch that update branches fork from and
// that pull requests target. The checked-out branch wins; on a detached
// HEAD the remote branches pointing at the current commit are consulted,
// then the CI environment (GITHUB_BASE_REF, GITHUB_REF_NAME).
func DetectBaseBranch(g git.Executor, remote string) (string, error) {
	branch, err := g.CurrentBranch()
	if err != nil {
		return "", fmt.Errorf("failed to read current branch: %w", err)
	}
	if branch != "" && branch != "HEAD" {
		return branch, nil
	}

	// Detached HEAD: a remote branch at this exact commit is the next
	// best answer. Common default branch names win over the rest.
	remoteBranches, err := g.RemoteBranchesAtHead()
	if err != nil {
		logger.Debug("Failed to list remote branches at HEAD: %v", err)
	} else if candidate := pickRemoteBranch(remoteBranches, remote); candidate != "" {
		return candidate, nil
	}

	for _, env := range []string{"GITHUB_BASE_REF", "GITHUB_REF_NAME"} {
		if ref := os.Getenv(env); IsUsableCIRef(ref) {
			logger.Debug("Using base branch %q from %s", ref, env)
			return ref, nil
		}
	}

	return "", ErrNoBaseBranch
}

// pickRemoteBranch selects a base branch from remote branches pointing at
// HEAD, stripping the remote prefix. Preference order: main, master, first.
func pickRemoteBranch(branches []string, remote string) string {
	prefix := remote + "/"

	var candidates []string
	for _, b := range branches {
		name, ok := strings.CutPrefix(strings.TrimSpace(b), prefix)
		if !ok || name == "" || name == "HEAD" {
			continue
		}
		candidates = append(candidates, name)
	}
	if len(candidates) == 0 {
		return ""
	}

	for _, preferred := range []string{"main", "master"} {
		for _, c := range candidates {
			if c == preferred {
				return c
			}
		}
	}
	return candidates[0]
}
