package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/sadopc/checkclock/internal/durfmt"
)

// ToCSV writes one row per day.
func ToCSV(days []Day, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"Date", "Worked (s)", "Worked", "Balance (s)", "Balance", "Intervals"}); err != nil {
		return err
	}

	for _, d := range days {
		row := []string{
			d.Date,
			fmt.Sprintf("%d", d.Worked),
			durfmt.Clock(d.Worked),
			fmt.Sprintf("%d", d.Balance),
			durfmt.HoursMinutes(d.Balance),
			d.Spans(),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
