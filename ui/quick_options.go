package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// QuickOption is a canned question offered under the input.
type QuickOption struct {
	Icon  string
	Label string
}

var QuickOptions = []QuickOption{
	{Icon: "🥬", Label: "Alimentos ricos en hierro"},
	{Icon: "👨‍🍳", Label: "Preparación segura"},
	{Icon: "👶", Label: "Pautas para bebés"},
}

func quickOptionTargets() []string {
	targets := make([]string, len(QuickOptions))
	for i, q := range QuickOptions {
		targets[i] = q.Label
	}
	return targets
}

// sendQuickOption sends the n-th canned question as if it were typed.
func (a AppView) sendQuickOption(n int) (AppView, tea.Cmd) {
	if n < 0 || n >= len(QuickOptions) {
		return a, nil
	}
	return a.send(QuickOptions[n].Label)
}

func (a AppView) handleQuickOptionsInput(msg tea.KeyMsg) (AppView, tea.Cmd) {
	action, cmd := a.quickOptions.update(msg)
	switch action {
	case pickerClose:
		a.showQuickOptions = false
		a.quickOptions.reset()
	case pickerChoose:
		idx, ok := a.quickOptions.current()
		a.showQuickOptions = false
		a.quickOptions.reset()
		if ok {
			return a.sendQuickOption(idx)
		}
	}
	return a, cmd
}

// renderQuickOptionsBar is the one-line strip of canned questions under the viewport.
func (a AppView) renderQuickOptionsBar() string {
	kb := a.dataModel.Config.Keybindings
	var parts []string
	for i, q := range QuickOptions {
		key := kb.DisplayActionKey(fmt.Sprintf("quick_option_%d", i+1))
		parts = append(parts, key, q.Icon+" "+q.Label)
	}
	return FormatFooter(parts...)
}

func (a AppView) renderQuickOptionsModal(width, height int) string {
	modalWidth := 50

	var lines []string
	lines = append(lines, a.quickOptions.header("preguntas"))
	lines = append(lines, "")
	if len(a.quickOptions.visible) == 0 {
		lines = append(lines, a.quickOptions.emptyLine(modalWidth))
	}
	for i, idx := range a.quickOptions.visible {
		q := QuickOptions[idx]
		row := q.Icon + "  " + q.Label
		if i == a.quickOptions.selected {
			lines = append(lines, SelectedStyle.Render("▶ "+row))
		} else {
			lines = append(lines, "  "+row)
		}
	}

	footer := FormatFooter("j/k", "Navegar", "/", "Filtrar", "Enter", "Preguntar", "Esc", "Cerrar")
	return RenderThreeSectionModal("💬 Opciones rápidas", lines, footer, ModalTypeInfo, modalWidth, width, height)
}
