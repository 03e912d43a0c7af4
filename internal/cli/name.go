package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	nameCmdType string
	nameHost    string
)

var nameCmd = &cobra.Command{
	Use:   "name",
	Short: "Generate canonical filenames for capture devices",
}

var nameKinectCmd = &cobra.Command{
	Use:   "kinect <device-index>",
	Short: "Generate a kinect recording filename",
	Long: `Generate the canonical filename for a kinect recording in the
active session: {timestamp}-{role}-{device-name}.mkv. The name is not
registered; run 'sessionctl register' once the recorder has produced it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[0])
		if err != nil || index < 0 {
			return fmt.Errorf("device-index must be a non-negative integer, got %q", args[0])
		}
		filename, err := newClient().KinectFilename(nameCmdType, nameHost, index)
		if err != nil {
			return err
		}
		fmt.Println(filename)
		return nil
	},
}

var nameAudioCmd = &cobra.Command{
	Use:   "audio <device-index>",
	Short: "Generate an audio recording filename",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[0])
		if err != nil || index < 0 {
			return fmt.Errorf("device-index must be a non-negative integer, got %q", args[0])
		}
		filename, err := newClient().AudioFilename(index)
		if err != nil {
			return err
		}
		fmt.Println(filename)
		return nil
	},
}

func init() {
	nameKinectCmd.Flags().StringVar(&nameCmdType, "cmd-type", "standalone",
		"camera role: master, subordinate, or standalone")
	nameKinectCmd.Flags().StringVar(&nameHost, "host", "local",
		"host the device is attached to (IP, or 'local')")
	nameCmd.AddCommand(nameKinectCmd)
	nameCmd.AddCommand(nameAudioCmd)
	rootCmd.AddCommand(nameCmd)
}
