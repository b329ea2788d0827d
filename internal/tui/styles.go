package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title, success, accent, money, muted, err lipgloss.Style
	selected, help, frame, bar                lipgloss.Style
}

// newStyles mirrors the CLI themes with Lip Gloss colors.
func newStyles(theme string) styles {
	s := styles{
		title:    lipgloss.NewStyle().Bold(true),
		success:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		accent:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		money:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		muted:    lipgloss.NewStyle().Faint(true),
		err:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		selected: lipgloss.NewStyle().Bold(true).Reverse(true),
		help:     lipgloss.NewStyle().Faint(true),
		frame: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1),
	}
	switch theme {
	case "neon":
		s.title = s.title.Foreground(lipgloss.Color("13"))
		s.accent = s.accent.Foreground(lipgloss.Color("14"))
		s.money = s.money.Foreground(lipgloss.Color("11"))
		s.frame = s.frame.BorderForeground(lipgloss.Color("13"))
	case "mono":
		plain := lipgloss.NewStyle()
		s.success, s.accent, s.money, s.err = plain, plain, plain, plain.Bold(true)
		s.frame = s.frame.Border(lipgloss.NormalBorder()).UnsetBorderForeground()
	}
	s.bar = s.frame
	return s
}
