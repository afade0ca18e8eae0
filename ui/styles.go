package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// palette is one colour scheme. Dark and light terminals get different ANSI picks so text
// keeps its contrast on either background.
type palette struct {
	dim, accent, success, warning, danger, highlight lipgloss.Color
}

var (
	darkPalette = palette{
		dim:       lipgloss.Color("7"),
		accent:    lipgloss.Color("14"),
		success:   lipgloss.Color("10"),
		warning:   lipgloss.Color("11"),
		danger:    lipgloss.Color("9"),
		highlight: lipgloss.Color("13"),
	}
	lightPalette = palette{
		dim:       lipgloss.Color("8"),
		accent:    lipgloss.Color("6"),
		success:   lipgloss.Color("2"),
		warning:   lipgloss.Color("3"),
		danger:    lipgloss.Color("1"),
		highlight: lipgloss.Color("5"),
	}
)

var (
	dimColor       lipgloss.Color
	accentColor    lipgloss.Color
	successColor   lipgloss.Color
	warningColor   lipgloss.Color
	dangerColor    lipgloss.Color
	highlightColor lipgloss.Color

	UserStyle      lipgloss.Style
	AssistantStyle lipgloss.Style
	DimStyle       lipgloss.Style
	TitleStyle     lipgloss.Style
	StatusStyle    lipgloss.Style
	SelectedStyle  lipgloss.Style
	HelpStyle      lipgloss.Style
	HighlightStyle lipgloss.Style
)

func init() {
	ApplyTheme(true)
}

// ApplyTheme switches every package style to the dark or light palette.
func ApplyTheme(dark bool) {
	p := lightPalette
	if dark {
		p = darkPalette
	}

	dimColor = p.dim
	accentColor = p.accent
	successColor = p.success
	warningColor = p.warning
	dangerColor = p.danger
	highlightColor = p.highlight

	// NO .Background() anywhere: the terminal background shows through
	UserStyle = lipgloss.NewStyle().Foreground(successColor).Bold(true)
	AssistantStyle = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	DimStyle = lipgloss.NewStyle().Foreground(dimColor)
	TitleStyle = lipgloss.NewStyle().Bold(true)
	StatusStyle = lipgloss.NewStyle().Foreground(dimColor)
	SelectedStyle = lipgloss.NewStyle().Foreground(warningColor).Bold(true)
	HelpStyle = lipgloss.NewStyle().Foreground(dimColor)
	HighlightStyle = lipgloss.NewStyle().Foreground(highlightColor).Bold(true)
}

// FormatFooter formats a footer string with alternating keys and descriptions.
// Usage: FormatFooter("j/k", "Navegar", "Esc", "Cerrar")
func FormatFooter(parts ...string) string {
	descStyle := lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	var result []string
	for i := 0; i < len(parts); i += 2 {
		if i+1 < len(parts) {
			result = append(result, parts[i]+" "+descStyle.Render(parts[i+1]))
		}
	}
	return strings.Join(result, "  ")
}
