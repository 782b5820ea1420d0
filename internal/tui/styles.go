package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/accordo/internal/board"
)

var (
	// Colors
	primaryColor = lipgloss.Color("#A78BFA") // Purple
	greenColor   = lipgloss.Color("#10B981")
	amberColor   = lipgloss.Color("#F59E0B")
	redColor     = lipgloss.Color("#F87171")
	blueColor    = lipgloss.Color("#60A5FA")
	mutedColor   = lipgloss.Color("#9CA3AF")
	borderColor  = lipgloss.Color("#6B7280")
	textColor    = lipgloss.Color("#F9FAFB")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	headerStyle = lipgloss.NewStyle().
			Foreground(textColor)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(blueColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	ownerStyle = lipgloss.NewStyle().
			Foreground(amberColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(redColor).
			Bold(true)

	dividerStyle = lipgloss.NewStyle().
			Foreground(borderColor)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(primaryColor)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor)
)

// chainStatusStyle returns the style for a claim chain status badge.
func chainStatusStyle(status board.ChainStatus) lipgloss.Style {
	switch status {
	case board.ChainActive:
		return lipgloss.NewStyle().Foreground(greenColor)
	case board.ChainExpired:
		return lipgloss.NewStyle().Foreground(redColor)
	default:
		return mutedStyle
	}
}

// agentStatusStyle returns the style for an agent status badge.
func agentStatusStyle(status board.AgentStatus) lipgloss.Style {
	switch status {
	case board.AgentWorking:
		return lipgloss.NewStyle().Foreground(greenColor)
	case board.AgentBlocked:
		return lipgloss.NewStyle().Foreground(amberColor)
	case board.AgentIdle:
		return lipgloss.NewStyle().Foreground(blueColor)
	default:
		return mutedStyle
	}
}
