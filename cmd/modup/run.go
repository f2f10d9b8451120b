package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/modfolk/modup/internal/common/config"
	"github.com/modfolk/modup/internal/common/gh"
	"github.com/modfolk/modup/internal/common/git"
	"github.com/modfolk/modup/internal/common/logger"
	"github.com/modfolk/modup/internal/common/output"
	"github.com/modfolk/modup/internal/props"
	"github.com/modfolk/modup/internal/reconcile"
	"github.com/modfolk/modup/internal/registry"
	"github.com/modfolk/modup/internal/update"
)

var (
	// runManifest is the path to the dependency manifest
	runManifest string
	// runProps is the path to the properties file
	runProps string
	// runBase overrides base branch detection
	runBase string
)

// manifestCandidates are tried in order when no --manifest flag is given
var manifestCandidates = []string{"modup.toml", "modup.json"}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Check dependencies and open update pull requests",
	Long: `Check every dependency in the manifest against Modrinth and open or
refresh one pull request per mod that has a newer compatible release.

A failing dependency never aborts the run: it is reported and the
remaining dependencies are still processed. The exit code is zero as
long as the run itself could start.

Examples:
  modup run                          Process all dependencies
  modup run --base develop           Target a specific base branch
  modup run --manifest deps.json     Use a specific manifest file`,
	Run: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runManifest, "manifest", "", "Dependency manifest path (default: modup.toml, modup.json)")
	runCmd.Flags().StringVar(&runProps, "properties", "gradle.properties", "Properties file holding pinned versions")
	runCmd.Flags().StringVar(&runBase, "base", "", "Base branch (default: detected)")

	rootCmd.AddCommand(runCmd)
}

// env bundles everything a run needs: settings, manifest, properties and
// the two reserved filter values.
type env struct {
	cfg         *config.Config
	manifest    *update.Manifest
	properties  *props.Properties
	gameVersion string
	loader      string
}

// loadEnv loads settings, manifest and properties, checking the reserved
// keys. Any failure here is fatal: nothing has been queried or pushed yet.
func loadEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	manifestPath := runManifest
	if manifestPath == "" {
		manifestPath = findManifest()
	}
	manifest, err := update.LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}

	properties, err := props.Read(runProps)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", runProps, err)
	}

	gameVersion, ok := properties.Get(update.GameVersionKey)
	if !ok {
		return nil, fmt.Errorf("%s is missing the %s key", runProps, update.GameVersionKey)
	}
	loader, ok := properties.Get(update.LoaderKey)
	if !ok {
		return nil, fmt.Errorf("%s is missing the %s key", runProps, update.LoaderKey)
	}

	return &env{
		cfg:         cfg,
		manifest:    manifest,
		properties:  properties,
		gameVersion: gameVersion,
		loader:      loader,
	}, nil
}

// newRegistryClient builds the Modrinth client from the settings file.
func newRegistryClient(cfg *config.Config) *registry.Client {
	retryCfg := registry.DefaultRetryConfig()
	retryCfg.Timeout = time.Duration(cfg.Registry.TimeoutSeconds) * time.Second

	return registry.NewClient(cfg.Registry.URL, cfg.Registry.UserAgent,
		registry.WithHTTPClient(registry.NewRetryableHTTPClientWithConfig(retryCfg)))
}

// findManifest returns the first manifest candidate that exists, or the
// first candidate so that the load error names it.
func findManifest() string {
	for _, candidate := range manifestCandidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return manifestCandidates[0]
}

func runRun(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, err := loadEnv()
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	workDir, err := os.Getwd()
	if err != nil {
		logger.Error("failed to get working directory: %v", err)
		os.Exit(1)
	}
	gitRunner := git.NewRunner(workDir)

	base := runBase
	if base == "" {
		base, err = reconcile.DetectBaseBranch(gitRunner, e.cfg.Git.Remote)
		if err != nil {
			logger.Error("%v", err)
			os.Exit(1)
		}
	}
	logger.Info("Base branch: %s", base)

	checker := update.NewChecker(newRegistryClient(e.cfg), e.gameVersion, e.loader)
	reconciler := reconcile.NewReconciler(gitRunner, gh.NewRunner(workDir), reconcile.Options{
		PropsPath:    runProps,
		Remote:       e.cfg.Git.Remote,
		Base:         base,
		BranchPrefix: e.cfg.Branch.Prefix,
		User:         e.cfg.Git.User,
		Email:        e.cfg.Git.Email,
		GameVersion:  e.gameVersion,
		Loader:       e.loader,
	})

	var reconciled, failed int

	for _, key := range e.manifest.Keys() {
		dep, _ := e.manifest.Get(key)

		pinned, ok := e.properties.Get(key)
		if !ok {
			output.Skipped.Printf("  %s: no %s entry in %s, skipped\n", output.FormatMod(dep.Slug), key, runProps)
			continue
		}

		result, err := checker.Check(ctx, key, dep, pinned)
		if err != nil {
			failed++
			output.PrintError("%s: %v", dep.Slug, err)
			continue
		}

		if result.Update == nil {
			printSelection(dep.Slug, pinned, result.Selection)
			continue
		}

		res, err := reconciler.Reconcile(result.Update)
		if err != nil {
			failed++
			output.PrintError("%s: %v", dep.Slug, err)
			continue
		}

		switch res.Action {
		case reconcile.ActionCreated:
			reconciled++
			output.PrintSuccess("%s: %s → %s, pull request created (%s)",
				output.FormatMod(dep.Slug), pinned, result.Update.DisplayVersion, res.Branch)
		case reconcile.ActionUpdated:
			reconciled++
			output.PrintSuccess("%s: %s → %s, pull request updated (%s)",
				output.FormatMod(dep.Slug), pinned, result.Update.DisplayVersion, res.Branch)
		case reconcile.ActionNoChange:
			output.Dim.Printf("  %s: branch %s already current\n", dep.Slug, res.Branch)
		}
	}

	fmt.Println()
	if failed > 0 {
		output.PrintWarning("%d dependenc%s failed", failed, pluralY(failed))
	}
	output.PrintInfo("Done. %d PR(s) created/updated.", reconciled)
}

// printSelection reports a dependency that needed no pull request.
func printSelection(slug, pinned string, sel update.Selection) {
	switch sel.Outcome {
	case update.OutcomeUpToDate:
		output.UpToDate.Printf("  %s: %s (up to date)\n", slug, pinned)
	case update.OutcomeNoCandidates:
		output.Skipped.Printf("  %s: no compatible versions found\n", slug)
	case update.OutcomeNoneAtTier:
		output.Skipped.Printf("  %s: no candidates at tier %s or better\n", slug, sel.CurrentTier)
	}
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
