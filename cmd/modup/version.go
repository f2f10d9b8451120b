package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modfolk/modup/internal/common/version"
)

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		if versionShort {
			fmt.Println(version.Short())
			return
		}
		fmt.Println(version.Info())
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print only the version number")

	rootCmd.AddCommand(versionCmd)
}
