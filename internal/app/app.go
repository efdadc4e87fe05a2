// Package app wires configuration, backend client, pollers and the shell
// into a runnable program.
package app

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/gameconsole/internal/backend"
	"github.com/abelbrown/gameconsole/internal/config"
	"github.com/abelbrown/gameconsole/internal/coord"
	"github.com/abelbrown/gameconsole/internal/journal"
	"github.com/abelbrown/gameconsole/internal/logging"
	"github.com/abelbrown/gameconsole/internal/ui/console"
	"github.com/abelbrown/gameconsole/internal/ui/shell"
)

// App holds the long-lived collaborators of one console session.
type App struct {
	cfg     *config.Config
	client  *backend.Client
	journal *journal.Journal // nil when disabled
}

// New validates cfg and opens the journal if one is configured.
func New(cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	a := &App{
		cfg:    cfg,
		client: backend.NewClient(nil),
	}

	if cfg.JournalPath != "" {
		j, err := journal.Open(cfg.JournalPath)
		if err != nil {
			return nil, err
		}
		a.journal = j
	}
	return a, nil
}

// Close releases the journal.
func (a *App) Close() error {
	if a.journal != nil {
		return a.journal.Close()
	}
	return nil
}

// Streams returns the two polled endpoints.
func (a *App) Streams() []coord.Stream {
	return []coord.Stream{
		{Name: shell.StreamOut, URL: a.cfg.URL(a.cfg.Endpoints.Out)},
		{Name: shell.StreamCommandOut, URL: a.cfg.URL(a.cfg.Endpoints.CommandOut)},
	}
}

// SubmitFunc posts commands to the command endpoint and journals the
// outcome. Journal failures are logged and never reach the console.
func (a *App) SubmitFunc(ctx context.Context) console.SubmitFunc {
	url := a.cfg.URL(a.cfg.Endpoints.Command)

	return func(command string) tea.Cmd {
		return func() tea.Msg {
			submitted := time.Now()
			err := a.client.Submit(ctx, url, command)
			if err != nil {
				logging.Warn("command not acknowledged", "command", command, "err", err)
			} else {
				logging.Debug("command acknowledged", "command", command)
			}

			if a.journal != nil {
				e := journal.Entry{
					Command:      command,
					Acknowledged: err == nil,
					SubmittedAt:  submitted,
					AnsweredAt:   time.Now(),
				}
				if err != nil {
					e.Error = err.Error()
				}
				if _, jerr := a.journal.Record(e); jerr != nil {
					logging.Error("journal write failed", "err", jerr)
				}
			}

			return console.Submitted{Command: command, Err: err}
		}
	}
}

// Run starts the pollers and the TUI and blocks until the user quits.
// Pollers are cancelled and awaited before Run returns.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(shell.New(a.SubmitFunc(ctx)), tea.WithAltScreen(), tea.WithContext(ctx))

	coordinator := coord.NewCoordinator(a.client, a.Streams(), a.cfg.PollInterval)
	coordinator.Start(ctx, program)

	logging.Info("console running", "backend", a.cfg.Backend, "interval", a.cfg.PollInterval)
	_, err := program.Run()

	cancel()
	coordinator.Wait()

	if err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
