// Package cli is the checkclock command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sadopc/checkclock/internal/config"
	"github.com/sadopc/checkclock/internal/engine"
	"github.com/sadopc/checkclock/internal/idle"
	"github.com/sadopc/checkclock/internal/logger"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "checkclock",
	Short: "checkclock tracks working time against a daily target",
	Long: `checkclock records working time in ticks while it runs, folds finished days
into work intervals and keeps a balance of time worked against a daily target.

Common workflows:

  Track time in the interactive clock:
    checkclock run

  Take a break, then resume:
    checkclock toggle

  Show the balance of the last week:
    checkclock report --days 7

  Export the last month:
    checkclock export --format csv --out month.csv

Configuration:
  Settings are read from $XDG_CONFIG_HOME/checkclock/config.yaml (create it with
  "checkclock config init") and can be overridden with CHECKCLOCK_* environment
  variables, e.g. CHECKCLOCK_WORKING_DAYS=Mon-Thu or CHECKCLOCK_IDLE_ENABLED=false.`,
	SilenceUsage: true,
	RunE:         runClock,
}

// Execute runs the command tree.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/checkclock/config.yaml)")
}

func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultPath()
}

func engineConfig(cfg *config.Config) engine.Config {
	return engine.Config{
		TickLength:     cfg.TickLength,
		AvgWorkingTime: cfg.AvgWorkingTime,
		WorkingDays:    cfg.WorkingDays,
		MergeGap:       cfg.MergeGap,
		MinDuration:    cfg.MinDuration,
		ResyncInterval: cfg.ResyncInterval,
		BackupDir:      cfg.BackupDir,
	}
}

// session is everything a command needs, opened from the config.
type session struct {
	cfg     *config.Config
	log     *slog.Logger
	engine  *engine.Engine
	closers []func() error
}

// openSession loads the config and opens the ledger. Interactive sessions
// also watch the screensaver and never log to the terminal.
func openSession(cmd *cobra.Command, interactive bool) (*session, error) {
	cfg, err := config.Load(configPath())
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg}
	if err := s.openLogger(cmd.ErrOrStderr(), interactive); err != nil {
		return nil, err
	}

	opts := []engine.Option{engine.WithLogger(s.log)}
	if interactive && cfg.Idle.Enabled {
		ss, err := idle.Connect(cfg.Idle.Services)
		if err != nil {
			s.log.Warn("idle detection disabled", "err", err)
		} else {
			s.log.Info("idle detection enabled", "service", ss.Service())
			opts = append(opts, engine.WithIdleSignal(ss))
			s.closers = append(s.closers, ss.Close)
		}
	}

	e, err := engine.Open(cfg.DBPath, engineConfig(cfg), opts...)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("open ledger %s: %w", cfg.DBPath, err)
	}
	s.engine = e
	s.closers = append(s.closers, e.Close)
	return s, nil
}

func (s *session) openLogger(stderr io.Writer, interactive bool) error {
	if s.cfg.Log.File == "" {
		if interactive {
			s.log = logger.Discard()
		} else {
			s.log = logger.New(stderr, s.cfg.Log.Level, s.cfg.Log.Format)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.cfg.Log.File), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(s.cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	s.log = logger.New(f, s.cfg.Log.Level, s.cfg.Log.Format)
	s.closers = append(s.closers, f.Close)
	return nil
}

// Close releases everything in reverse order of opening.
func (s *session) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	s.closers = nil
	return errors.Join(errs...)
}
