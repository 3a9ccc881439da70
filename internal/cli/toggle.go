package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var toggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Pause or resume tracking",
	Long:  `Flip the paused flag. A running clock picks up the change on its next tick.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, false)
		if err != nil {
			return err
		}
		defer s.Close()

		paused, err := s.engine.TogglePaused()
		if err != nil {
			return err
		}
		if paused {
			fmt.Fprintln(cmd.OutOrStdout(), "paused")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "resumed")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(toggleCmd)
}
