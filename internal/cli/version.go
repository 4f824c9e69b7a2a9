package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/syssam/liteddl/internal/sqlite"
)

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			info := sqlite.GetInfo()
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "liteddl v%s (%s)\n", Version, GitCommit)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "SQLite driver: %s (%s, %s)\n", info.DriverName, info.DriverType, info.Package)
		},
	}
}
