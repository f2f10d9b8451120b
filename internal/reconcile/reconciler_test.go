package reconcile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modfolk/modup/internal/common/gh"
	"github.com/modfolk/modup/internal/common/git"
	"github.com/modfolk/modup/internal/registry"
	"github.com/modfolk/modup/internal/update"
)

func testUpdate() *update.Update {
	return &update.Update{
		Key:            "sodium_version",
		Slug:           "sodium",
		CurrentValue:   "0.5.0",
		NewValue:       "0.6.0",
		DisplayVersion: "0.6.0",
		Version:        registry.Version{ID: "abc123", VersionNumber: "0.6.0", VersionType: "release"},
	}
}

func writeProps(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gradle.properties")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write properties: %v", err)
	}
	return path
}

func newTestReconciler(path string, g git.Executor, client gh.Client) *Reconciler {
	return NewReconciler(g, client, Options{
		PropsPath:    path,
		Remote:       "origin",
		Base:         "main",
		BranchPrefix: "modrinth-deps",
		User:         "github-actions[bot]",
		Email:        "41898282+github-actions[bot]@users.noreply.github.com",
		GameVersion:  "1.21.4",
		Loader:       "fabric",
	})
}

func TestReconcileCreatesPR(t *testing.T) {
	path := writeProps(t, "sodium_version=0.5.0\n")
	mockGit := git.NewMockRunner("/repo")
	mockGit.HasStagedChangesFunc = func() (bool, error) { return true, nil }
	mockGh := gh.NewMockClient()

	r := newTestReconciler(path, mockGit, mockGh)

	res, err := r.Reconcile(testUpdate())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Action != ActionCreated {
		t.Errorf("expected ActionCreated, got %v", res.Action)
	}
	if res.Branch != "modrinth-deps/main/sodium" {
		t.Errorf("unexpected branch %q", res.Branch)
	}

	expected := []string{
		"Checkout main",
		"PullFFOnly origin main",
		"RemoteBranchExists origin modrinth-deps/main/sodium",
		"CheckoutNew modrinth-deps/main/sodium",
		"Add",
		"HasStagedChanges",
		"Commit Update sodium to 0.6.0",
		"PushForceWithLease origin modrinth-deps/main/sodium",
		"CheckoutForce main",
	}
	assertCalls(t, mockGit.Calls, expected)

	if len(mockGh.Created) != 1 {
		t.Fatalf("expected 1 PR created, got %d", len(mockGh.Created))
	}
	pr := mockGh.Created[0]
	if pr.Title != "Update sodium to 0.6.0" {
		t.Errorf("unexpected PR title %q", pr.Title)
	}
	if pr.Base != "main" || pr.Head != "modrinth-deps/main/sodium" {
		t.Errorf("unexpected PR refs %q <- %q", pr.Base, pr.Head)
	}
	if !strings.Contains(pr.Body, "`sodium_version`") || !strings.Contains(pr.Body, "`0.6.0`") {
		t.Errorf("PR body missing update details:\n%s", pr.Body)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read properties: %v", err)
	}
	if string(data) != "sodium_version=0.6.0\n" {
		t.Errorf("properties not rewritten, got %q", string(data))
	}
}

func TestReconcileEditsExistingPR(t *testing.T) {
	path := writeProps(t, "sodium_version=0.5.0\n")
	mockGit := git.NewMockRunner("/repo")
	mockGit.RemoteBranchExistsFunc = func(remote, branch string) (bool, error) { return true, nil }
	mockGit.HasStagedChangesFunc = func() (bool, error) { return true, nil }
	mockGh := gh.NewMockClient()
	mockGh.PRIsOpenFunc = func(branch string) (bool, error) { return true, nil }

	r := newTestReconciler(path, mockGit, mockGh)

	res, err := r.Reconcile(testUpdate())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Action != ActionUpdated {
		t.Errorf("expected ActionUpdated, got %v", res.Action)
	}

	// Existing remote branch is reset onto the fresh base
	if !containsCall(mockGit.Calls, "CheckoutReset modrinth-deps/main/sodium origin/main") {
		t.Errorf("expected branch reset, got calls %v", mockGit.Calls)
	}
	if len(mockGh.Created) != 0 {
		t.Errorf("expected no PR created, got %d", len(mockGh.Created))
	}
	if len(mockGh.Edited) != 1 {
		t.Fatalf("expected 1 PR edited, got %d", len(mockGh.Edited))
	}
	if mockGh.Edited[0].Title != "Update sodium to 0.6.0" {
		t.Errorf("unexpected edited title %q", mockGh.Edited[0].Title)
	}
}

func TestReconcileNoChange(t *testing.T) {
	// Staged diff is empty: the branch already carries this value
	path := writeProps(t, "sodium_version=0.6.0\n")
	mockGit := git.NewMockRunner("/repo")
	mockGh := gh.NewMockClient()

	r := newTestReconciler(path, mockGit, mockGh)

	res, err := r.Reconcile(testUpdate())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Action != ActionNoChange {
		t.Errorf("expected ActionNoChange, got %v", res.Action)
	}

	for _, call := range mockGit.Calls {
		if strings.HasPrefix(call, "Commit") || strings.HasPrefix(call, "PushForceWithLease") {
			t.Errorf("unexpected call %q after empty diff", call)
		}
	}
	if len(mockGh.Calls) != 0 {
		t.Errorf("expected no PR operations, got %v", mockGh.Calls)
	}
	if !containsCall(mockGit.Calls, "CheckoutForce main") {
		t.Errorf("expected return to base branch, got calls %v", mockGit.Calls)
	}
}

func TestReconcileRestoresBaseOnFailure(t *testing.T) {
	path := writeProps(t, "sodium_version=0.5.0\n")
	mockGit := git.NewMockRunner("/repo")
	mockGit.HasStagedChangesFunc = func() (bool, error) { return true, nil }
	mockGit.PushForceWithLeaseFunc = func(remote, branch string) error {
		return errors.New("remote rejected")
	}
	mockGh := gh.NewMockClient()

	r := newTestReconciler(path, mockGit, mockGh)

	_, err := r.Reconcile(testUpdate())
	if err == nil {
		t.Fatal("expected an error from the failed push")
	}
	if !containsCall(mockGit.Calls, "CheckoutForce main") {
		t.Errorf("expected return to base branch after failure, got calls %v", mockGit.Calls)
	}
	if len(mockGh.Calls) != 0 {
		t.Errorf("expected no PR operations after failed push, got %v", mockGh.Calls)
	}
}

func TestReconcileBaseSyncFailure(t *testing.T) {
	path := writeProps(t, "sodium_version=0.5.0\n")
	mockGit := git.NewMockRunner("/repo")
	mockGit.PullFFOnlyFunc = func(remote, branch string) error {
		return errors.New("diverged")
	}
	mockGh := gh.NewMockClient()

	r := newTestReconciler(path, mockGit, mockGh)

	_, err := r.Reconcile(testUpdate())
	if err == nil {
		t.Fatal("expected an error from the failed pull")
	}

	// The properties file must be untouched when the base cannot sync
	data, readErr := os.ReadFile(path)
	if readErr != nil {
		t.Fatalf("failed to read properties: %v", readErr)
	}
	if string(data) != "sodium_version=0.5.0\n" {
		t.Errorf("properties modified despite sync failure: %q", string(data))
	}
}

func TestBranchName(t *testing.T) {
	r := newTestReconciler("unused", git.NewMockRunner("/repo"), gh.NewMockClient())
	if got := r.BranchName("lithium"); got != "modrinth-deps/main/lithium" {
		t.Errorf("unexpected branch name %q", got)
	}
}

func assertCalls(t *testing.T, got, expected []string) {
	t.Helper()
	if len(got) != len(expected) {
		t.Fatalf("expected %d calls, got %d: %v", len(expected), len(got), got)
	}
	for i, want := range expected {
		if got[i] != want {
			t.Errorf("call %d: expected %q, got %q", i, want, got[i])
		}
	}
}

func containsCall(calls []string, want string) bool {
	for _, c := range calls {
		if c == want {
			return true
		}
	}
	return false
}
