package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// ModalType determines the color and styling of a modal
type ModalType int

const (
	ModalTypeInfo ModalType = iota
	ModalTypeWarning
	ModalTypeError
)

func (t ModalType) color() lipgloss.Color {
	switch t {
	case ModalTypeWarning:
		return warningColor
	case ModalTypeError:
		return dangerColor
	default:
		return accentColor
	}
}

// RenderAcknowledgeModal renders a modal that only needs Enter to dismiss
func RenderAcknowledgeModal(title, message string, modalType ModalType, width, height int) string {
	modalWidth := min(60, width-10)

	messageStyle := lipgloss.NewStyle().
		Width(modalWidth).
		Align(lipgloss.Center)

	var lines []string
	for _, line := range strings.Split(wordWrap(message, modalWidth-4), "\n") {
		lines = append(lines, messageStyle.Render(line))
	}

	return RenderThreeSectionModal(title, lines, "Pulsa Enter para continuar", modalType, modalWidth, width, height)
}

// RenderThreeSectionModal renders a borderless modal: Title, then Message (BorderTop), then Footer (BorderTop).
// messageLines are pre-formatted; padding is added here.
// desiredWidth: preferred modal width (0 = default 60)
func RenderThreeSectionModal(title string, messageLines []string, footer string, modalType ModalType, desiredWidth, width, height int) string {
	modalWidth := desiredWidth
	if modalWidth == 0 {
		modalWidth = 60
	}
	if width < modalWidth+10 {
		modalWidth = width - 10
	}
	if modalWidth < 10 {
		modalWidth = 10
	}

	// runewidth, not len: titles carry emoji
	titleVisualWidth := runewidth.StringWidth(title)
	leftPad := max((modalWidth-titleVisualWidth)/2-2, 0)
	rightPad := max(modalWidth-titleVisualWidth-leftPad, 0)
	centeredTitle := strings.Repeat(" ", leftPad) + title + strings.Repeat(" ", rightPad)

	titleSection := lipgloss.NewStyle().
		Bold(true).
		Foreground(modalType.color()).
		Render(centeredTitle)

	contentLines := make([]string, 0, len(messageLines)+2)
	contentLines = append(contentLines, strings.Repeat(" ", modalWidth))
	contentLines = append(contentLines, messageLines...)
	contentLines = append(contentLines, strings.Repeat(" ", modalWidth))

	messageSection := lipgloss.NewStyle().
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Width(modalWidth).
		Render(strings.Join(contentLines, "\n"))

	footerSection := lipgloss.NewStyle().
		Foreground(dimColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(footer)

	content := strings.Join([]string{titleSection, messageSection, footerSection}, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// leftLines wraps text to the modal width and left-aligns every line.
func leftLines(text string, modalWidth int, style lipgloss.Style) []string {
	lineStyle := style.Width(modalWidth).Align(lipgloss.Left)
	var lines []string
	for _, line := range strings.Split(wordWrap(text, modalWidth-2), "\n") {
		lines = append(lines, lineStyle.Render(line))
	}
	return lines
}

// wordWrap wraps text to fit within width display columns while preserving newlines
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	paragraphs := strings.Split(text, "\n")

	for i, paragraph := range paragraphs {
		words := strings.Fields(paragraph)
		if len(words) > 0 {
			currentLine := words[0]
			for _, word := range words[1:] {
				if runewidth.StringWidth(currentLine)+1+runewidth.StringWidth(word) <= width {
					currentLine += " " + word
				} else {
					result.WriteString(currentLine + "\n")
					currentLine = word
				}
			}
			result.WriteString(currentLine)
		}

		if i < len(paragraphs)-1 {
			result.WriteString("\n")
		}
	}

	return result.String()
}
