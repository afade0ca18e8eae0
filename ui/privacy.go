package ui

import (
	"github.com/charmbracelet/lipgloss"
)

const (
	privacyTitle    = "🔒 Política de Privacidad"
	privacyIntro    = "ANMI respeta tu privacidad y protege tus datos personales."
	privacyReminder = "Recuerda: Esta información es solo educativa y no constituye consejo médico profesional."
	privacyNotice   = "🔒 Tus datos están protegidos · Información educativa"
	inputDisclaimer = "Importante: ANMI no reemplaza la consulta médica profesional"
)

var privacyPoints = []string{
	"No almacenamos información personal identificable",
	"Toda la información proporcionada es confidencial",
	"No compartimos tus datos con terceros",
	"Las conversaciones son privadas y seguras",
}

func (a AppView) renderPrivacyModal(width, height int) string {
	modalWidth := 60

	var lines []string
	lines = append(lines, leftLines(privacyIntro, modalWidth, lipgloss.NewStyle())...)
	lines = append(lines, "")
	check := lipgloss.NewStyle().Foreground(successColor).Render("✓ ")
	for _, p := range privacyPoints {
		lines = append(lines, check+p)
	}
	lines = append(lines, "")
	lines = append(lines, leftLines(privacyReminder, modalWidth, lipgloss.NewStyle().Foreground(warningColor))...)

	return RenderThreeSectionModal(privacyTitle, lines, FormatFooter("Enter", "Entendido"), ModalTypeInfo, modalWidth, width, height)
}
