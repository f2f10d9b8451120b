package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/modfolk/modup/internal/common/logger"
	"github.com/modfolk/modup/internal/common/output"
	"github.com/modfolk/modup/internal/update"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check dependencies without touching git",
	Long: `Query Modrinth for every dependency in the manifest and report which
ones have a newer compatible release. No branches, commits or pull
requests are created.

Examples:
  modup check                        Check all dependencies
  modup check --manifest deps.json   Use a specific manifest file`,
	Run: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&runManifest, "manifest", "", "Dependency manifest path (default: modup.toml, modup.json)")
	checkCmd.Flags().StringVar(&runProps, "properties", "gradle.properties", "Properties file holding pinned versions")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, err := loadEnv()
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	checker := update.NewChecker(newRegistryClient(e.cfg), e.gameVersion, e.loader)

	fmt.Println()
	output.Header.Println("Dependency Check Results")
	fmt.Println()

	var updates, failures int

	for _, key := range e.manifest.Keys() {
		dep, _ := e.manifest.Get(key)

		pinned, ok := e.properties.Get(key)
		if !ok {
			output.Skipped.Printf("  %s: no %s entry in %s, skipped\n", dep.Slug, key, runProps)
			continue
		}

		result, err := checker.Check(ctx, key, dep, pinned)
		if err != nil {
			failures++
			output.Error.Printf("  %s: %v\n", dep.Slug, err)
			continue
		}

		if result.Update != nil {
			updates++
			output.Success.Printf("  %s: %s → %s\n", dep.Slug, pinned, result.Update.DisplayVersion)
			continue
		}
		printSelection(dep.Slug, pinned, result.Selection)
	}

	fmt.Println()
	if failures > 0 {
		output.PrintWarning("%d dependenc%s failed", failures, pluralY(failures))
	}
	if updates == 0 {
		output.PrintInfo("Everything is up to date.")
		return
	}
	output.PrintInfo("%d update(s) available. Run 'modup run' to open pull requests.", updates)
}
