// Package cli implements sessionctl, the control CLI that capture-process
// wrapper scripts use to drive the session manager's HTTP API.
package cli

import (
	"fmt"
	"os"

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

var serverAddr string

var rootCmd = &cobra.Command{
	Use:   "sessionctl",
	Short: "Control the recording session manager",
	Long: `sessionctl drives the recording orchestrator's HTTP API. Capture
wrapper scripts use it to create a session, obtain canonical filenames
before a recorder starts, register produced files when it finishes, and
finalize or clean up the session.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sessionctl %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	defaultAddr := os.Getenv("SESSIOND_ADDR")
	if defaultAddr == "" {
		defaultAddr = "http://127.0.0.1:8080"
	}
	rootCmd.PersistentFlags().StringVar(&serverAddr, "addr", defaultAddr,
		"base URL of the session manager (env SESSIOND_ADDR)")
	rootCmd.AddCommand(versionCmd)
}

func newClient() *Client {
	return NewClient(serverAddr)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
