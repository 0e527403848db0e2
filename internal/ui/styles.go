package ui

import "github.com/charmbracelet/lipgloss"

// Theme bundles the lipgloss styles for one palette.
type Theme struct {
	Name      string
	Header    lipgloss.Style
	Title     lipgloss.Style
	Text      lipgloss.Style
	Highlight lipgloss.Style
	Pinyin    lipgloss.Style
	Status    lipgloss.Style
	Help      lipgloss.Style
	Error     lipgloss.Style
}

func darkTheme() Theme {
	return Theme{
		Name: "dark",
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("240")),
		Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		Text:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Highlight: lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("63")),
		Pinyin:    lipgloss.NewStyle().Foreground(lipgloss.Color("147")),
		Status:    lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		Help:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Error:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
	}
}

func lightTheme() Theme {
	return Theme{
		Name: "light",
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("89")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("250")),
		Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("22")),
		Text:      lipgloss.NewStyle().Foreground(lipgloss.Color("235")),
		Highlight: lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("25")),
		Pinyin:    lipgloss.NewStyle().Foreground(lipgloss.Color("61")),
		Status:    lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		Help:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Error:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("124")),
	}
}

// themeByName returns the named theme, defaulting to dark.
func themeByName(name string) Theme {
	if name == "light" {
		return lightTheme()
	}
	return darkTheme()
}

// next returns the other theme, for the toggle key.
func (t Theme) next() Theme {
	if t.Name == "dark" {
		return lightTheme()
	}
	return darkTheme()
}
