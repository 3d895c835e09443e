package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/0xd219b/cr-helper/internal/core/comment"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7aa2f7")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("#3b4261"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#565f89"))

	statusMsgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9ece6a"))

	cursorLineStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#3b4261"))

	lineNumStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#565f89"))

	hunkHeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7dcfff"))

	addedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9ece6a"))

	deletedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f7768e"))

	commentMarkerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#e0af68"))

	modalStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7aa2f7")).
			Padding(1, 2)

	modalTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7aa2f7"))

	modalLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#565f89"))

	modalHelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#565f89")).
			MarginTop(1)
)

var severityStyles = map[comment.Severity]lipgloss.Style{
	comment.SeverityInfo:     lipgloss.NewStyle().Foreground(lipgloss.Color("#7dcfff")),
	comment.SeverityWarning:  lipgloss.NewStyle().Foreground(lipgloss.Color("#e0af68")),
	comment.SeverityCritical: lipgloss.NewStyle().Foreground(lipgloss.Color("#f7768e")),
}

func severityBadge(s comment.Severity) string {
	style, ok := severityStyles[s]
	if !ok {
		return string(s)
	}
	return style.Render(string(s))
}
