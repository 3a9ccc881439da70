package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sadopc/checkclock/internal/durfmt"
	"github.com/sadopc/checkclock/internal/engine"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's tracked time",
	Long:  `Show whether tracking is running, the time worked today and today's balance against the daily target. No tick is recorded.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, false)
		if err != nil {
			return err
		}
		defer s.Close()

		v, err := s.engine.GetValue(false)
		if err != nil {
			return err
		}
		balance, err := s.engine.GetBalance(0, s.cfg.BalanceMinDuration)
		if err != nil {
			return err
		}

		printStatus(cmd, v, s.engine.Snapshot(), balance)
		return nil
	},
}

func printStatus(cmd *cobra.Command, v engine.TrackedValue, snap engine.Snapshot, balance int64) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", stateIcon(v.State), snap.Today)
	fmt.Fprintln(out, "──────────────────────")
	fmt.Fprintf(out, "state:    %s\n", v.State)
	fmt.Fprintf(out, "worked:   %s\n", durfmt.Clock(snap.Duration))
	fmt.Fprintf(out, "balance:  %s\n", durfmt.HoursMinutes(balance))
}

func stateIcon(state engine.State) string {
	switch state {
	case engine.Working:
		return "●"
	case engine.Paused:
		return "⏸"
	default:
		return "✖"
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
