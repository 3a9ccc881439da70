package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sadopc/checkclock/internal/export"
)

var (
	exportFormat string
	exportOut    string
	exportDays   int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write compacted days to a CSV or JSON file",
	Long: `Compact finished days, then write the balance and work intervals of the
compacted days in the range to a file. Today is not included.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := strings.ToLower(exportFormat)
		if format != "csv" && format != "json" {
			return fmt.Errorf("unknown format %q, want csv or json", exportFormat)
		}

		s, err := openSession(cmd, false)
		if err != nil {
			return err
		}
		defer s.Close()

		days := s.cfg.TotalDays
		if cmd.Flags().Changed("days") {
			days = exportDays
		}
		if days < 0 {
			return fmt.Errorf("--days must not be negative, got %d", days)
		}

		e := s.engine
		if err := e.Compact(); err != nil {
			return err
		}
		data, err := export.Load(e.Store(), e.Date(days), e.Date(0), e.AvgWorkingTime())
		if err != nil {
			return err
		}

		path := exportOut
		if path == "" {
			path = fmt.Sprintf("checkclock-export-%s.%s", e.Date(0), format)
		}
		if format == "csv" {
			err = export.ToCSV(data, path)
		} else {
			err = export.ToJSON(data, path)
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "exported %d days to %s\n", len(data), path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "output format: csv or json")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default checkclock-export-<date>.<format>)")
	exportCmd.Flags().IntVar(&exportDays, "days", 0, "days to export before today (default total_days)")
	rootCmd.AddCommand(exportCmd)
}
