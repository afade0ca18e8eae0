package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func (a AppView) renderHelpModal(width, height int) string {
	kb := a.dataModel.Config.Keybindings

	green := lipgloss.NewStyle().
		Bold(true).
		Foreground(successColor)

	title := green.Render("ANMI - Atajos de teclado")

	blue := lipgloss.NewStyle().Foreground(accentColor)

	global := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Generales"),
		fmt.Sprintf("• %-13s Opciones rápidas", kb.DisplayActionKey("quick_options")),
		fmt.Sprintf("• %-13s Fuentes oficiales", kb.DisplayActionKey("sources")),
		fmt.Sprintf("• %-13s Privacidad", kb.DisplayActionKey("privacy")),
		fmt.Sprintf("• %-13s Ajustes", kb.DisplayActionKey("settings")),
		fmt.Sprintf("• %-13s Modo oscuro", kb.DisplayActionKey("toggle_dark_mode")),
		fmt.Sprintf("• %-13s Ocultar aviso", kb.DisplayActionKey("dismiss_banner")),
		fmt.Sprintf("• %-13s Esta ayuda", kb.DisplayActionKey("help")),
		fmt.Sprintf("• %-13s Salir", kb.DisplayActionKey("quit")),
	)

	navigation := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Navegación"),
		fmt.Sprintf("• %-13s Bajar una línea", kb.DisplayActionKey("scroll_down")),
		fmt.Sprintf("• %-13s Subir una línea", kb.DisplayActionKey("scroll_up")),
		fmt.Sprintf("• %-13s Media página abajo", kb.DisplayActionKey("half_page_down")),
		fmt.Sprintf("• %-13s Media página arriba", kb.DisplayActionKey("half_page_up")),
		fmt.Sprintf("• %-13s Página abajo", kb.DisplayActionKey("page_down")),
		fmt.Sprintf("• %-13s Página arriba", kb.DisplayActionKey("page_up")),
		fmt.Sprintf("• %-13s Ir al inicio", kb.DisplayActionKey("scroll_to_top")),
		fmt.Sprintf("• %-13s Ir al final", kb.DisplayActionKey("scroll_to_bottom")),
	)

	chat := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Conversación"),
		"• Enter         Enviar pregunta",
		"• Alt+Enter     Nueva línea",
		fmt.Sprintf("• %-13s Cancelar respuesta", kb.DisplayActionKey("cancel_stream")),
		fmt.Sprintf("• %-13s Pregunta rápida 1-3", kb.DisplayActionKey("quick_option_1")+"..3"),
		fmt.Sprintf("• %-13s Copiar respuesta", kb.DisplayActionKey("yank_last_response")),
		fmt.Sprintf("• %-13s Copiar conversación", kb.DisplayActionKey("yank_conversation")),
		fmt.Sprintf("• %-13s Ficha en PDF", kb.DisplayActionKey("export_pdf")),
	)

	column1 := lipgloss.JoinVertical(lipgloss.Left, global)
	column2 := lipgloss.JoinVertical(lipgloss.Left, navigation, "", chat)

	columnStyle := lipgloss.NewStyle().Width(42).PaddingLeft(4)

	twoColumns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		columnStyle.Render(column1),
		"  ",
		columnStyle.Render(column2),
	)

	footer := lipgloss.NewStyle().
		Foreground(dimColor).
		Render(fmt.Sprintf("Pulsa %s o Esc para cerrar", kb.DisplayActionKey("help")))

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		"",
		twoColumns,
		"",
		footer,
	)

	helpBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dimColor).
		Padding(1, 2).
		Width(min(96, max(width-4, 20)))

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		helpBox.Render(content),
	)
}
