package update

import (
	"context"

	"github.com/modfolk/modup/internal/registry"
)

// VersionSource supplies release candidates for a mod. It is implemented by
// registry.Client and mocked in tests.
type VersionSource interface {
	ProjectVersions(ctx context.Context, slug, gameVersion, loader string) ([]registry.Version, error)
}

// Update describes an accepted update for one dependency.
type Update struct {
	// Key is the properties key being updated
	Key string
	// Slug is the registry slug of the mod
	Slug string
	// UseID is true when the stored value is the release id
	UseID bool
	// CurrentValue is the pinned value before the update
	CurrentValue string
	// NewValue is the value to store (id or version string, per UseID)
	NewValue string
	// DisplayVersion is the human version string, used in commit messages
	// and PR titles even when NewValue is a release id
	DisplayVersion string
	// Version is the full release candidate
	Version registry.Version
}

// CheckResult is the outcome of checking one dependency against the registry.
type CheckResult struct {
	// Key is the properties key of the dependency
	Key string
	// Dep is the manifest entry
	Dep Dependency
	// CurrentValue is the pinned value found in the properties file
	CurrentValue string
	// Selection is the stability-policy decision
	Selection Selection
	// Update is the accepted update; nil unless Selection is OutcomeUpdate
	Update *Update
}

// Checker runs the registry query and stability selection for dependencies.
type Checker struct {
	source      VersionSource
	gameVersion string
	loader      string
}

// NewChecker creates a checker querying with the given environment filters.
func NewChecker(source VersionSource, gameVersion, loader string) *Checker {
	return &Checker{
		source:      source,
		gameVersion: gameVersion,
		loader:      loader,
	}
}

// Check queries the registry for one dependency and applies the stability
// policy against the pinned value. A registry failure is returned as an
// error and is fatal for this dependency only.
func (c *Checker) Check(ctx context.Context, key string, dep Dependency, pinned string) (*CheckResult, error) {
	result := &CheckResult{
		Key:          key,
		Dep:          dep,
		CurrentValue: pinned,
	}

	candidates, err := c.source.ProjectVersions(ctx, dep.Slug, c.gameVersion, c.loader)
	if err != nil {
		return nil, err
	}

	result.Selection = Select(candidates, pinned)
	if result.Selection.Outcome != OutcomeUpdate {
		return result, nil
	}

	candidate := *result.Selection.Candidate
	result.Update = &Update{
		Key:            key,
		Slug:           dep.Slug,
		UseID:          dep.UseID,
		CurrentValue:   pinned,
		NewValue:       candidate.Value(dep.UseID),
		DisplayVersion: candidate.VersionNumber,
		Version:        candidate,
	}

	return result, nil
}
