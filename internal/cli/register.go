package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register <filename>",
	Short: "Register a produced file with the active session",
	Long: `Report a file produced by a capture process to the active session.
Registering the same filename twice is allowed; the manifest preserves
registration order including duplicates.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newClient().RegisterFile(args[0]); err != nil {
			return err
		}
		fmt.Printf("Registered %s\n", args[0])
		return nil
	},
}

var finalizeMeta []string

var finalizeCmd = &cobra.Command{
	Use:   "finalize",
	Short: "Finalize the active session and write its manifest",
	Long: `Finalize the active session: merge metadata, write
session_info.json, and retire the session. Metadata values are parsed as
JSON where possible (so device_count=2 becomes a number) and fall back to
strings. If the manifest write fails the session stays active and finalize
can be retried.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		metadata := map[string]any{}
		for _, kv := range finalizeMeta {
			key, raw, ok := strings.Cut(kv, "=")
			if !ok || key == "" {
				return fmt.Errorf("invalid --meta %q, expected key=value", kv)
			}
			var v any
			if err := json.Unmarshal([]byte(raw), &v); err != nil {
				v = raw
			}
			metadata[key] = v
		}

		manifestPath, err := newClient().Finalize(metadata)
		if err != nil {
			return err
		}
		fmt.Printf("Session finalized, manifest at %s\n", manifestPath)
		return nil
	},
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Abort the active session (no-op when none)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newClient().Cleanup(); err != nil {
			return err
		}
		fmt.Println("Cleanup done.")
		return nil
	},
}

func init() {
	finalizeCmd.Flags().StringArrayVar(&finalizeMeta, "meta", nil,
		"session metadata as key=value (repeatable)")
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(finalizeCmd)
	rootCmd.AddCommand(cleanupCmd)
}
