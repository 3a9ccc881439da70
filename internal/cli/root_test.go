package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sadopc/checkclock/internal/store"
)

// resetFlags puts every flag back to its default so commands run in one
// test do not leak values into the next.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	cfgFile = ""

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// setupEnv points the ledger at a temp dir, tracks every day and keeps the
// user's own config out of the way. It returns the config and ledger paths.
func setupEnv(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "ledger.sqlite")
	t.Setenv("CHECKCLOCK_DB_PATH", dbPath)
	t.Setenv("CHECKCLOCK_WORKING_DAYS", "Mon-Sun")
	t.Setenv("CHECKCLOCK_IDLE_ENABLED", "false")
	t.Setenv("CHECKCLOCK_LOG_LEVEL", "error")
	return filepath.Join(dir, "config.yaml"), dbPath
}

// seedDay records minutes one-minute samples on day starting at 09:00.
func seedDay(t *testing.T, dbPath string, day time.Time, minutes int) {
	t.Helper()
	s, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	defer s.Close()

	start := time.Date(day.Year(), day.Month(), day.Day(), 9, 0, 0, 0, time.Local)
	for i := 0; i < minutes; i++ {
		if err := s.AppendSample(start.Add(time.Duration(i)*time.Minute), 60); err != nil {
			t.Fatalf("append sample: %v", err)
		}
	}
}

func yesterday() time.Time {
	return time.Now().AddDate(0, 0, -1)
}

// ============================================================
// Root
// ============================================================

func TestRootCommand_HasSubcommands(t *testing.T) {
	want := map[string]bool{
		"run": false, "status": false, "toggle": false, "report": false,
		"compact": false, "export": false, "config": false,
	}
	for _, cmd := range rootCmd.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("expected %q subcommand to be registered with root command", name)
		}
	}
}

func TestRootCommand_Help(t *testing.T) {
	out, err := execute(t, "--help")
	if err != nil {
		t.Fatalf("root command should execute without error: %v", err)
	}
	if !strings.Contains(out, "checkclock") {
		t.Errorf("help should name the program, got:\n%s", out)
	}
}

func TestExecute_UnknownCommand(t *testing.T) {
	if _, err := execute(t, "unknown-command-xyz"); err == nil {
		t.Error("expected error for unknown command")
	}
}

func TestInvalidConfig(t *testing.T) {
	cfgPath, _ := setupEnv(t)
	t.Setenv("CHECKCLOCK_WORKING_DAYS", "Fri-Mon")

	if _, err := execute(t, "--config", cfgPath, "status"); err == nil {
		t.Fatal("an invalid schedule should fail before the ledger is opened")
	}
}

// ============================================================
// status / toggle
// ============================================================

func TestStatus_NewLedgerIsPaused(t *testing.T) {
	cfgPath, _ := setupEnv(t)

	out, err := execute(t, "--config", cfgPath, "status")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"state:    paused", "worked:   00:00:00", "balance:  -8:00"} {
		if !strings.Contains(out, want) {
			t.Errorf("status output missing %q:\n%s", want, out)
		}
	}
}

func TestToggle(t *testing.T) {
	cfgPath, _ := setupEnv(t)

	out, err := execute(t, "--config", cfgPath, "toggle")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "resumed" {
		t.Fatalf("first toggle should resume, got %q", out)
	}

	out, err = execute(t, "--config", cfgPath, "status")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "state:    working") {
		t.Fatalf("expected working state:\n%s", out)
	}

	out, err = execute(t, "--config", cfgPath, "toggle")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "paused" {
		t.Fatalf("second toggle should pause, got %q", out)
	}
}

// ============================================================
// report / compact
// ============================================================

func TestReport(t *testing.T) {
	cfgPath, dbPath := setupEnv(t)
	seedDay(t, dbPath, yesterday(), 90)

	out, err := execute(t, "--config", cfgPath, "report", "--days", "2")
	if err != nil {
		t.Fatal(err)
	}

	date := store.DateOf(yesterday())
	for _, want := range []string{
		date + ": -6:30",
		" 09:00 - 10:30: 1:30",
		"total balance: -14:30",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestReport_NegativeDays(t *testing.T) {
	cfgPath, _ := setupEnv(t)
	if _, err := execute(t, "--config", cfgPath, "report", "--days=-1"); err == nil {
		t.Fatal("expected error for negative days")
	}
}

func TestCompact(t *testing.T) {
	cfgPath, dbPath := setupEnv(t)
	seedDay(t, dbPath, yesterday(), 30)

	out, err := execute(t, "--config", cfgPath, "compact")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "compaction done") {
		t.Fatalf("unexpected output %q", out)
	}

	s, err := store.New(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	date := store.DateOf(yesterday())
	if sum, _ := s.SumSamples(date); sum != 0 {
		t.Fatalf("samples should be gone after compaction, %d seconds left", sum)
	}
	worked, ok, err := s.Balance(date)
	if err != nil || !ok || worked != 30*60 {
		t.Fatalf("balance = %d, %v, %v; want 1800", worked, ok, err)
	}
}

// ============================================================
// export
// ============================================================

func TestExport_JSON(t *testing.T) {
	cfgPath, dbPath := setupEnv(t)
	seedDay(t, dbPath, yesterday(), 60)
	path := filepath.Join(t.TempDir(), "out.json")

	out, err := execute(t, "--config", cfgPath, "export", "--format", "json", "--out", path, "--days", "3")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "exported 1 days to "+path) {
		t.Fatalf("unexpected output %q", out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var result struct {
		Count int `json:"count"`
		Days  []struct {
			Date   string `json:"date"`
			Worked int64  `json:"worked_seconds"`
		} `json:"days"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if result.Count != 1 || result.Days[0].Date != store.DateOf(yesterday()) || result.Days[0].Worked != 3600 {
		t.Fatalf("unexpected export %+v", result)
	}
}

func TestExport_CSV(t *testing.T) {
	cfgPath, dbPath := setupEnv(t)
	seedDay(t, dbPath, yesterday(), 60)
	path := filepath.Join(t.TempDir(), "out.csv")

	if _, err := execute(t, "--config", cfgPath, "export", "--out", path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), store.DateOf(yesterday())+",3600,01:00:00") {
		t.Fatalf("csv missing the compacted day:\n%s", data)
	}
}

func TestExport_BadFormat(t *testing.T) {
	cfgPath, _ := setupEnv(t)
	if _, err := execute(t, "--config", cfgPath, "export", "--format", "xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

// ============================================================
// config
// ============================================================

func TestConfigInit(t *testing.T) {
	cfgPath, _ := setupEnv(t)

	out, err := execute(t, "--config", cfgPath, "config", "init")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, cfgPath) {
		t.Fatalf("unexpected output %q", out)
	}
	if _, err := os.Stat(cfgPath); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	if _, err := execute(t, "--config", cfgPath, "config", "init"); err == nil {
		t.Fatal("init must not overwrite an existing config")
	}
}

func TestConfigShow(t *testing.T) {
	cfgPath, _ := setupEnv(t)
	if err := os.WriteFile(cfgPath, []byte("tick_length: 30\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "--config", cfgPath, "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"tick_length: 30", "working_days: Mon-Sun"} {
		if !strings.Contains(out, want) {
			t.Errorf("config show missing %q:\n%s", want, out)
		}
	}
}
