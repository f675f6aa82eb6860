package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	Primary     = lipgloss.Color("#059669")
	Accent      = lipgloss.Color("#34d399")
	Muted       = lipgloss.Color("#6b7280")
	Destructive = lipgloss.Color("#b91c1c")
	Warning     = lipgloss.Color("#d97706")
	Info        = lipgloss.Color("#1e40af")
)

// Styles are the lipgloss styles of one output stream.
type Styles struct {
	Bar     lipgloss.Style
	Title   lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
	Card    lipgloss.Style
	Lost    lipgloss.Style
	Found   lipgloss.Style
	Rank    lipgloss.Style
}

// NewStyles builds styles for w. Color is dropped automatically when w is
// not a terminal. A positive width caps cards to that many columns.
func NewStyles(w io.Writer, width int) Styles {
	r := lipgloss.NewRenderer(w)

	card := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Accent).
		Padding(0, 1)
	if width > 4 {
		card = card.MaxWidth(width)
	}

	return Styles{
		Bar: r.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(Primary).
			Bold(true).
			Padding(0, 1),
		Title: r.NewStyle().
			Foreground(Primary).
			Bold(true),
		Muted:   r.NewStyle().Foreground(Muted),
		Success: r.NewStyle().Foreground(Primary).Bold(true),
		Warning: r.NewStyle().Foreground(Warning),
		Error:   r.NewStyle().Foreground(Destructive),
		Info:    r.NewStyle().Foreground(Info),
		Card:    card,
		Lost: r.NewStyle().
			Foreground(Destructive).
			Bold(true),
		Found: r.NewStyle().
			Foreground(Primary).
			Bold(true),
		Rank: r.NewStyle().Bold(true).Width(5),
	}
}
