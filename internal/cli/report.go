package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sadopc/checkclock/internal/report"
)

var reportDays int

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the balance of the last days",
	Long: `Compact finished days, then print the balance and work intervals of every
day in the range that has one, followed by the total balance over total_days.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, false)
		if err != nil {
			return err
		}
		defer s.Close()

		days := s.cfg.ReportDays
		if cmd.Flags().Changed("days") {
			days = reportDays
		}
		if days < 0 {
			return fmt.Errorf("--days must not be negative, got %d", days)
		}

		r, err := report.Build(s.engine, report.Options{
			Days:        days,
			TotalDays:   s.cfg.TotalDays,
			MinDuration: s.cfg.BalanceMinDuration,
		})
		if err != nil {
			return err
		}
		if r.CompactErr != nil {
			s.log.Warn("compaction failed, report may be incomplete", "err", r.CompactErr)
		}

		fmt.Fprint(cmd.OutOrStdout(), r.String())
		return nil
	},
}

func init() {
	reportCmd.Flags().IntVar(&reportDays, "days", 0, "days to show before today (default report_days)")
	rootCmd.AddCommand(reportCmd)
}
