package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sadopc/checkclock/internal/tui"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Track time in the interactive clock",
	Long: `Start the interactive clock. Every tick_length seconds one tick is recorded
unless tracking is paused, today is not a working day or the screen is locked.

Keys: space pauses, r shows the report, s edits the settings, q quits.`,
	Args: cobra.NoArgs,
	RunE: runClock,
}

func runClock(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, true)
	if err != nil {
		return err
	}
	defer s.Close()

	p := tea.NewProgram(tui.NewApp(s.engine, s.cfg, configPath()), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func init() {
	rootCmd.AddCommand(runCmd)
}
