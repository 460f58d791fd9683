package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aricom-studios/notification-server/pkg/version"
)

func newVersionCommand(rt *runtimeState) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print notifyctl version information",
		Run: func(_ *cobra.Command, _ []string) {
			info := version.GetBuildInfo()
			fmt.Fprintf(rt.writer, "notifyctl %s (commit %s, %s, %s)\n",
				info.Version, info.GitCommit, info.GoVersion, info.Platform)
		},
	}
}
