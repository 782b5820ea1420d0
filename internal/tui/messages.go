package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/accordo/internal/board"
	"github.com/Iron-Ham/accordo/internal/claims"
)

// boardChangedMsg is sent when the watcher sees the board document
// change on disk
type boardChangedMsg struct{}

// tickMsg drives the once-a-second re-render that keeps remaining
// lease times and last-seen ages current
type tickMsg time.Time

// snapshotMsg carries a freshly loaded view of the board
type snapshotMsg struct {
	snapshot boardSnapshot
	err      error
}

// boardSnapshot is everything the dashboard renders, read in one pass
// so the panes never disagree about board state
type boardSnapshot struct {
	agents     []board.AgentRecord
	chains     []board.ClaimChain
	findings   []board.Finding
	questions  []board.Question
	pending    int
	inProgress int
	loadedAt   time.Time
}

// tick returns a command that sends a tickMsg after a second.
func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// loadSnapshot returns a command that reads the board off the main
// update loop.
func loadSnapshot(store *board.Store, mgr *claims.Manager) tea.Cmd {
	return func() tea.Msg {
		snap, err := readBoard(store, mgr)
		return snapshotMsg{snapshot: snap, err: err}
	}
}

func readBoard(store *board.Store, mgr *claims.Manager) (boardSnapshot, error) {
	snap := boardSnapshot{loadedAt: time.Now()}

	agents, err := store.Agents()
	if err != nil {
		return snap, err
	}
	snap.agents = agents

	chains, err := mgr.ActiveChains()
	if err != nil {
		return snap, err
	}
	snap.chains = chains

	findings, err := store.Findings()
	if err != nil {
		return snap, err
	}
	snap.findings = findings

	questions, err := store.OpenQuestions("")
	if err != nil {
		return snap, err
	}
	snap.questions = questions

	tasks, err := store.Tasks("")
	if err != nil {
		return snap, err
	}
	for _, t := range tasks {
		switch t.Status {
		case board.TaskPending:
			snap.pending++
		case board.TaskInProgress:
			snap.inProgress++
		}
	}

	return snap, nil
}
