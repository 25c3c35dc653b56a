// Package styles holds the lipgloss styles shared by calm's terminal output.
package styles

import "github.com/charmbracelet/lipgloss"

// Styles is a palette bound to one renderer. Binding to the renderer of the
// destination writer keeps color off when that writer is not a terminal.
type Styles struct {
	Palette Palette

	Header  lipgloss.Style
	Section lipgloss.Style
	Label   lipgloss.Style
	Muted   lipgloss.Style
	Due     lipgloss.Style
	Overdue lipgloss.Style
	Done    lipgloss.Style
	Banner  lipgloss.Style
}

// New builds styles for r from p.
func New(r *lipgloss.Renderer, p Palette) Styles {
	return Styles{
		Palette: p,
		Header:  r.NewStyle().Foreground(p.Primary).Bold(true),
		Section: r.NewStyle().Foreground(p.Secondary).Bold(true).MarginTop(1),
		Label:   r.NewStyle().Foreground(p.Text),
		Muted:   r.NewStyle().Foreground(p.Muted),
		Due:     r.NewStyle().Foreground(p.Warning),
		Overdue: r.NewStyle().Foreground(p.Error),
		Done:    r.NewStyle().Foreground(p.Success),
		Banner: r.NewStyle().
			Foreground(p.Warning).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Warning).
			Padding(0, 1),
	}
}

// ForTheme is New with a named theme, falling back to DefaultTheme.
func ForTheme(r *lipgloss.Renderer, name string) Styles {
	p, ok := GetPalette(name)
	if !ok {
		p = themes[DefaultTheme]
	}
	return New(r, p)
}
