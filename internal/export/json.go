package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/checkclock/internal/durfmt"
	"github.com/sadopc/checkclock/internal/store"
)

type jsonExport struct {
	ExportedAt   string    `json:"exported_at"`
	Count        int       `json:"count"`
	TotalBalance int64     `json:"total_balance_seconds"`
	Days         []jsonDay `json:"days"`
}

type jsonDay struct {
	Date       string         `json:"date"`
	WorkedSec  int64          `json:"worked_seconds"`
	Worked     string         `json:"worked"`
	BalanceSec int64          `json:"balance_seconds"`
	Balance    string         `json:"balance"`
	Intervals  []jsonInterval `json:"intervals"`
}

type jsonInterval struct {
	Start       string `json:"start"`
	End         string `json:"end"`
	DurationSec int64  `json:"duration_seconds"`
}

func ToJSON(days []Day, path string) error {
	export := jsonExport{
		ExportedAt:   time.Now().UTC().Format(time.RFC3339),
		Count:        len(days),
		TotalBalance: TotalBalance(days),
		Days:         []jsonDay{},
	}

	for _, d := range days {
		day := jsonDay{
			Date:       d.Date,
			WorkedSec:  d.Worked,
			Worked:     durfmt.Clock(d.Worked),
			BalanceSec: d.Balance,
			Balance:    durfmt.HoursMinutes(d.Balance),
			Intervals:  []jsonInterval{},
		}
		for _, iv := range d.Intervals {
			day.Intervals = append(day.Intervals, jsonInterval{
				Start:       iv.Start.Format(store.TimeLayout),
				End:         iv.End.Format(store.TimeLayout),
				DurationSec: iv.Duration,
			})
		}
		export.Days = append(export.Days, day)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
