package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	createTimestamp string
	createMode      string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new recording session",
	Long: `Create a new recording session. Fails if a session is already
active; finalize or clean up first. With no flags the server's configured
timestamp format and default mode apply.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := newClient().CreateSession(createTimestamp, createMode)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session, if any",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := newClient().GetStatus()
		if err != nil {
			return err
		}
		if !st.Active {
			fmt.Println("No active session.")
			return nil
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(st.Session)
	},
}

func init() {
	createCmd.Flags().StringVar(&createTimestamp, "timestamp", "", "custom session timestamp")
	createCmd.Flags().StringVar(&createMode, "mode", "", "recording mode: standalone or sync")
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(statusCmd)
}
