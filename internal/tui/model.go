package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/accordo/internal/board"
	"github.com/Iron-Ham/accordo/internal/claims"
	"github.com/Iron-Ham/accordo/internal/util"
)

// Model holds the dashboard state
type Model struct {
	store *board.Store
	mgr   *claims.Manager

	keys     keyMap
	findings viewport.Model

	snapshot boardSnapshot
	loaded   bool
	err      error

	width  int
	height int
}

type keyMap struct {
	Refresh key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// NewModel creates the dashboard model over an opened board.
func NewModel(store *board.Store, mgr *claims.Manager) Model {
	return Model{
		store:    store,
		mgr:      mgr,
		keys:     defaultKeyMap(),
		findings: viewport.New(0, 0),
	}
}

// Init starts the first board read and the render tick.
func (m Model) Init() tea.Cmd {
	return tea.Batch(loadSnapshot(m.store, m.mgr), tick())
}

// Update handles UI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			return m, loadSnapshot(m.store, m.mgr)
		}

	case boardChangedMsg:
		return m, loadSnapshot(m.store, m.mgr)

	case snapshotMsg:
		m.err = msg.err
		if msg.err == nil {
			m.snapshot = msg.snapshot
			m.loaded = true
		}
		m.layout()
		m.findings.GotoBottom()
		return m, nil

	case tickMsg:
		// Remaining times and last-seen ages recompute in View.
		return m, tick()
	}

	// Scroll keys and mouse events go to the findings pane.
	var cmd tea.Cmd
	m.findings, cmd = m.findings.Update(msg)
	return m, cmd
}

// View renders the dashboard
func (m Model) View() string {
	if m.width == 0 || !m.loaded {
		return "Loading board...\n"
	}

	var b strings.Builder
	b.WriteString(m.renderTop())
	b.WriteString(m.findings.View())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// layout gives the findings pane whatever vertical space the fixed
// sections leave over.
func (m *Model) layout() {
	if m.width == 0 {
		return
	}
	if m.loaded {
		m.findings.SetContent(m.renderFindingsFeed())
	}
	h := m.height - strings.Count(m.renderTop(), "\n") - 1
	if h < 3 {
		h = 3
	}
	m.findings.Width = m.width
	m.findings.Height = h
}

func (m Model) renderTop() string {
	var b strings.Builder
	now := time.Now()
	snap := m.snapshot

	title := titleStyle.Render("accordo")
	info := mutedStyle.Render(fmt.Sprintf("%d agents · %d chains · %d pending tasks · %s",
		len(snap.agents), len(snap.chains), snap.pending, snap.loadedAt.Format("15:04:05")))
	head := fmt.Sprintf("%s  %s  %s", title, headerStyle.Render(m.store.Dir()), info)
	// The board path can outgrow a narrow terminal; trim the styled
	// line without cutting through escape codes.
	b.WriteString(util.TruncateANSI(head, m.width) + "\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render("error: "+m.err.Error()) + "\n")
	}
	b.WriteString(dividerStyle.Render(strings.Repeat("─", m.width)) + "\n")

	b.WriteString(sectionStyle.Render("Agents") + "\n")
	if len(snap.agents) == 0 {
		b.WriteString(mutedStyle.Render("  none registered") + "\n")
	}
	for _, a := range snap.agents {
		// Truncate before styling so escape codes stay intact.
		task := util.TruncateString(a.Task, m.width-len(a.ID)-len(a.Status)-6)
		b.WriteString(fmt.Sprintf("  %s  %s  %s\n",
			a.ID,
			agentStatusStyle(a.Status).Render(string(a.Status)),
			mutedStyle.Render(task)))
	}

	b.WriteString(sectionStyle.Render("Active chains") + "\n")
	if len(snap.chains) == 0 {
		b.WriteString(mutedStyle.Render("  none") + "\n")
	}
	for i := range snap.chains {
		c := &snap.chains[i]
		left := remaining(c, now)
		budget := m.width - len(util.ShortID(c.ID)) - len(c.Owner) - len(left) - 8
		res := util.TruncateString(strings.Join(c.Resources, ", "), budget)
		b.WriteString(fmt.Sprintf("  %s  %s  %s  %s\n",
			mutedStyle.Render(util.ShortID(c.ID)),
			ownerStyle.Render(c.Owner),
			res,
			chainStatusStyle(c.Status).Render(left)))
	}

	b.WriteString(sectionStyle.Render("Open questions") + "\n")
	if len(snap.questions) == 0 {
		b.WriteString(mutedStyle.Render("  none") + "\n")
	}
	for _, q := range snap.questions {
		to := q.To
		if to == "" {
			to = "anyone"
		}
		body := util.TruncateString(q.Body, m.width-len(util.ShortID(q.ID))-len(q.From)-len(to)-12)
		b.WriteString(fmt.Sprintf("  %s  %s -> %s: %s\n",
			mutedStyle.Render(util.ShortID(q.ID)), q.From, to, body))
	}

	b.WriteString(sectionStyle.Render(fmt.Sprintf("Findings (%d)", len(snap.findings))) + "\n")
	return b.String()
}

func (m Model) renderFindingsFeed() string {
	if len(m.snapshot.findings) == 0 {
		return mutedStyle.Render("  none yet")
	}
	var lines []string
	for _, f := range m.snapshot.findings {
		tags := ""
		if len(f.Tags) > 0 {
			tags = "[" + strings.Join(f.Tags, ", ") + "]"
		}
		body := util.TruncateString(f.Body, m.width-len(f.Agent)-len(tags)-14)
		line := fmt.Sprintf("  %s  %s: %s",
			mutedStyle.Render(f.CreatedAt.Local().Format("15:04")),
			ownerStyle.Render(f.Agent),
			body)
		if tags != "" {
			line += "  " + mutedStyle.Render(tags)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderFooter() string {
	parts := []string{
		helpKeyStyle.Render("r") + helpStyle.Render(" refresh"),
		helpKeyStyle.Render("↑/↓") + helpStyle.Render(" scroll"),
		helpKeyStyle.Render("q") + helpStyle.Render(" quit"),
	}
	return strings.Join(parts, helpStyle.Render(" · "))
}

// remaining renders the time left on an active chain.
func remaining(c *board.ClaimChain, now time.Time) string {
	d := c.Remaining(now)
	if d <= 0 {
		return "lapsed"
	}
	return d.Round(time.Second).String()
}
