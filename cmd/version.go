package cmd

import (
	"fmt"

	"golang-ethernetd/internal/pkg/version"

	"github.com/spf13/cobra"
)

var shortVersion bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and git info",
	Run: func(cmd *cobra.Command, args []string) {
		info := version.GetGitInfo()
		if shortVersion {
			fmt.Fprintln(cmd.OutOrStdout(), info.String())
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Tag: %s\nBranch: %s\nCommit: %s\nDirty: %v\n", info.Tag, info.Branch, info.Commit, info.Dirty)
	},
}

func init() {
	versionCmd.Flags().BoolVarP(&shortVersion, "short", "s", false, "Print a single line")
	rootCmd.AddCommand(versionCmd)
}
