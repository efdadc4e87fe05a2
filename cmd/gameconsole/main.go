// Command gameconsole is a terminal client for the game server: it shows the
// out and command_out streams and sends commands typed at the prompt.
//
// Usage:
//
//	gameconsole                      Start the console
//	gameconsole --backend URL        Use another game server
//	gameconsole journal --limit 20   Show recently submitted commands
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abelbrown/gameconsole/internal/app"
	"github.com/abelbrown/gameconsole/internal/config"
	"github.com/abelbrown/gameconsole/internal/journal"
	"github.com/abelbrown/gameconsole/internal/logging"
)

var Version = "dev"

type rootFlags struct {
	configPath string
	backend    string
	interval   time.Duration
	journal    string
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return buildRootCmd(&rootFlags{})
}

func buildRootCmd(flags *rootFlags) *cobra.Command {
	root := &cobra.Command{
		Use:          "gameconsole",
		Short:        "Terminal console for the game server",
		Version:      Version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}

			logDir, err := cfg.LogDir()
			if err != nil {
				return err
			}
			if err := logging.Init(logDir, cfg.Log.Level); err != nil {
				return err
			}
			defer logging.Close()

			a, err := app.New(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.Run(ctx)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default ~/.gameconsole/config.yaml)")
	pf.StringVar(&flags.journal, "journal", "", "SQLite command journal (empty disables)")
	root.Flags().StringVar(&flags.backend, "backend", "", "game server origin, e.g. http://127.0.0.1:8081")
	root.Flags().DurationVar(&flags.interval, "interval", 0, "poll interval for the text panels")
	root.Flags().StringVar(&flags.logLevel, "log-level", "", "debug, info, warn or error")

	root.AddCommand(newJournalCmd(flags))
	return root
}

// loadConfig reads the config file and applies flags that were set.
func loadConfig(cmd *cobra.Command, flags *rootFlags) (*config.Config, error) {
	path := flags.configPath
	if path == "" {
		p, err := config.ConfigPath()
		if err != nil {
			return nil, fmt.Errorf("no --config given: %w", err)
		}
		path = p
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("backend") {
		cfg.Backend = flags.backend
	}
	if cmd.Flags().Changed("interval") {
		cfg.PollInterval = flags.interval
	}
	if cmd.Flags().Changed("journal") {
		cfg.JournalPath = flags.journal
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = flags.logLevel
	}
	return cfg, nil
}

func newJournalCmd(flags *rootFlags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Print recently submitted commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			if cfg.JournalPath == "" {
				return fmt.Errorf("no journal configured (set --journal or journal_path)")
			}

			j, err := journal.Open(cfg.JournalPath)
			if err != nil {
				return err
			}
			defer j.Close()

			entries, err := j.Recent(limit)
			if err != nil {
				return err
			}
			return printEntries(cmd, entries)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of entries to show")
	return cmd
}

func printEntries(cmd *cobra.Command, entries []journal.Entry) error {
	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		_, err := fmt.Fprintln(out, "journal is empty")
		return err
	}
	// Oldest first reads like a transcript.
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		status := "ok"
		if !e.Acknowledged {
			status = "FAILED: " + e.Error
		}
		if _, err := fmt.Fprintf(out, "%s  %-30q %s\n", e.SubmittedAt.Local().Format(time.DateTime), e.Command, status); err != nil {
			return err
		}
	}
	return nil
}
