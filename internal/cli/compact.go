package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var compactCmd = &cobra.Command{
	Use:   "compact",
	Short: "Fold the samples of finished days into intervals",
	Long: `Compact every day before today that still has raw samples. Each day becomes
a list of work intervals and one balance row. With backup_dir set, the ledger
is copied there before a day is compacted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, false)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.engine.Compact(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "compaction done")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(compactCmd)
}
