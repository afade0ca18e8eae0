package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"anmi/config"
)

type settingRow int

const (
	settingDarkMode settingRow = iota
	settingFontSize
	settingCount
)

// Changes apply immediately and are saved in the background, so there is nothing to confirm
// when the modal closes.
func (a AppView) handleSettingsInput(msg tea.KeyMsg) (AppView, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "enter":
		if msg.String() == "enter" && a.selectedSetting == settingDarkMode {
			return a.toggleDarkMode()
		}
		a.showSettings = false
		return a, nil

	case "j", "down":
		if a.selectedSetting < settingCount-1 {
			a.selectedSetting++
		}
	case "k", "up":
		if a.selectedSetting > 0 {
			a.selectedSetting--
		}

	case " ":
		if a.selectedSetting == settingDarkMode {
			return a.toggleDarkMode()
		}

	case "l", "right", "+", "=":
		if a.selectedSetting == settingFontSize {
			return a.changeFontSize(1)
		}
	case "h", "left", "-":
		if a.selectedSetting == settingFontSize {
			return a.changeFontSize(-1)
		}
	}
	return a, nil
}

func (a AppView) toggleDarkMode() (AppView, tea.Cmd) {
	cfg := a.dataModel.Config
	dark := !cfg.Preferences.IsDarkMode(a.terminalDark)
	cfg.Preferences = cfg.Preferences.WithDarkMode(dark)
	ApplyTheme(dark)

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Settings] Dark mode set to %v", dark)
	}

	a.refreshStyles()
	return a, tea.Batch(a.dataModel.SavePreferences(), a.rerenderAll())
}

func (a AppView) changeFontSize(delta int) (AppView, tea.Cmd) {
	cfg := a.dataModel.Config
	before := config.ClampFontSize(cfg.Preferences.FontSize)
	cfg.Preferences = cfg.Preferences.WithFontSize(before + delta)
	if cfg.Preferences.FontSize == before {
		return a, nil
	}
	a, flashCmd := a.flash(fmt.Sprintf("Tamaño del texto: %dpx", cfg.Preferences.FontSize))
	return a, tea.Batch(flashCmd, a.dataModel.SavePreferences())
}

func (a AppView) renderSettingsModal(width, height int) string {
	prefs := a.dataModel.Config.Preferences
	modalWidth := 50

	mode := "☀️  Modo Claro"
	if prefs.IsDarkMode(a.terminalDark) {
		mode = "🌙 Modo Oscuro"
	}
	size := config.ClampFontSize(prefs.FontSize)
	bar := fontSizeBar(size)

	rows := []string{
		mode,
		fmt.Sprintf("Tamaño del Texto (%dpx)  %s", size, bar),
	}

	var lines []string
	for i, row := range rows {
		if settingRow(i) == a.selectedSetting {
			lines = append(lines, SelectedStyle.Render("▶ "+row))
		} else {
			lines = append(lines, "  "+row)
		}
	}
	lines = append(lines, "")
	lines = append(lines, leftLines("El tamaño del texto se aplica a las fichas PDF exportadas.", modalWidth, DimStyle)...)

	footer := FormatFooter("j/k", "Navegar", "Enter", "Cambiar", "h/l", "Ajustar", "Esc", "Cerrar")
	return RenderThreeSectionModal("⚙️  Ajustes", lines, footer, ModalTypeInfo, modalWidth, width, height)
}

// fontSizeBar draws one notch per available size with the current one highlighted.
func fontSizeBar(size int) string {
	on := lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	var bar string
	for s := config.MinFontSize; s <= config.MaxFontSize; s++ {
		if s == size {
			bar += on.Render("●")
		} else {
			bar += DimStyle.Render("○")
		}
	}
	return "A " + bar + " A"
}
