package tui

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/accordo/internal/board"
	"github.com/Iron-Ham/accordo/internal/claims"
	"github.com/Iron-Ham/accordo/internal/watch"
)

// App wraps the Bubbletea program
type App struct {
	program *tea.Program
	model   Model
	watcher *watch.Watcher
}

// New creates the dashboard application. watcher may be nil, in which
// case the board only refreshes on the r key.
func New(store *board.Store, mgr *claims.Manager, watcher *watch.Watcher) *App {
	return &App{
		model:   NewModel(store, mgr),
		watcher: watcher,
	}
}

// Run starts the dashboard and blocks until the user quits.
func (a *App) Run() error {
	a.program = tea.NewProgram(
		a.model,
		tea.WithAltScreen(),
	)

	if a.watcher != nil {
		a.watcher.SetOnChange(func() {
			a.program.Send(boardChangedMsg{})
		})
		if err := a.watcher.Start(); err != nil {
			return fmt.Errorf("failed to start watcher: %w", err)
		}
		defer a.watcher.Stop()
	}

	// Translate signals into a clean quit so the terminal is restored.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		<-sigChan
		if a.program != nil {
			a.program.Send(tea.Quit())
		}
	}()

	_, err := a.program.Run()

	signal.Stop(sigChan)

	return err
}
