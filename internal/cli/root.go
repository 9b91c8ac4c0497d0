package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "boardd",
	Short: "Role-based task board service",
	Long: `boardd serves a Kanban task board with role-based permissions.

Admins manage every task, employees move and edit the tasks assigned to
them, and guests get a read-only view. Configuration is read from the
environment (PORT, JWT_SECRET, MONGO_URI, REDIS_ADDR, NATS_URL, ...).`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "boardd %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(newTokenCmd())
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
