package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style of the capture screen.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Amount        lipgloss.Style
	Ring          lipgloss.Style
	RingFocused   lipgloss.Style
	Label         lipgloss.Style
	LabelFocused  lipgloss.Style
	Hub           lipgloss.Style
	Detail        lipgloss.Style
	InputBox      lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusError   lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusPending lipgloss.Style
	Primary       lipgloss.Color
	Secondary     lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Foreground    lipgloss.Color
	Error         lipgloss.Color
	Success       lipgloss.Color
	Info          lipgloss.Color
}

func build(primary, secondary, muted, border, fg, errC, success, info string) Theme {
	return Theme{
		Primary:    lipgloss.Color(primary),
		Secondary:  lipgloss.Color(secondary),
		Muted:      lipgloss.Color(muted),
		Border:     lipgloss.Color(border),
		Foreground: lipgloss.Color(fg),
		Error:      lipgloss.Color(errC),
		Success:    lipgloss.Color(success),
		Info:       lipgloss.Color(info),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(fg)),
		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(muted)),
		Normal: lipgloss.NewStyle().
			Foreground(lipgloss.Color(fg)),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(fg)),
		Amount: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(primary)),

		Ring: lipgloss.NewStyle().
			Foreground(lipgloss.Color(border)),
		RingFocused: lipgloss.NewStyle().
			Foreground(lipgloss.Color(primary)).
			Bold(true),
		Label: lipgloss.NewStyle().
			Foreground(lipgloss.Color(secondary)),
		LabelFocused: lipgloss.NewStyle().
			Background(lipgloss.Color(primary)).
			Foreground(lipgloss.Color(fg)).
			Bold(true),
		Hub: lipgloss.NewStyle().
			Foreground(lipgloss.Color(fg)).
			Bold(true),
		Detail: lipgloss.NewStyle().
			Foreground(lipgloss.Color(secondary)).
			Italic(true),
		InputBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(border)).
			Padding(0, 1),

		StatusInfo: lipgloss.NewStyle().
			Foreground(lipgloss.Color(info)).
			Bold(true),
		StatusError: lipgloss.NewStyle().
			Foreground(lipgloss.Color(errC)).
			Bold(true),
		StatusSuccess: lipgloss.NewStyle().
			Foreground(lipgloss.Color(success)).
			Bold(true),
		StatusPending: lipgloss.NewStyle().
			Foreground(lipgloss.Color(muted)).
			Italic(true),
	}
}

// Default is the default theme.
var Default = build("#7c3aed", "#a78bfa", "#737373", "#404040", "#fafafa", "#ef4444", "#10b981", "#3b82f6")

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = build("#cba6f7", "#f5c2e7", "#6c7086", "#45475a", "#cdd6f4", "#f38ba8", "#a6e3a1", "#89dceb")

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}
