package ui

import (
	"github.com/charmbracelet/lipgloss"
)

const (
	bannerTitle = "¡Descarga la App! 📱"
	bannerBody  = "Accede más rápido y recibe notificaciones."
	// APKURL is the latest Android build of the mobile client.
	APKURL = "https://github.com/MiguelGironAltamirano/ChatBot_Etica/releases/latest/download/app-debug.apk"
)

// renderBanner is the install notice shown until the user dismisses it once.
func (a AppView) renderBanner() string {
	if a.dataModel.Config.Preferences.BannerDismissed {
		return ""
	}
	kb := a.dataModel.Config.Keybindings

	title := lipgloss.NewStyle().Foreground(highlightColor).Bold(true).Render(bannerTitle)
	link := lipgloss.NewStyle().Foreground(accentColor).Underline(true).Render(APKURL)
	hint := DimStyle.Render(" (" + kb.DisplayActionKey("dismiss_banner") + " Ahora no)")

	line := title + " " + bannerBody + " Descargar APK: " + link + hint
	if lipgloss.Width(line) > a.width && a.width > 0 {
		// narrow terminal: drop the body, keep the link
		line = title + " " + link + hint
	}
	return line
}

func (a *AppView) dismissBanner() bool {
	prefs := &a.dataModel.Config.Preferences
	if prefs.BannerDismissed {
		return false
	}
	prefs.BannerDismissed = true
	logf("[Banner] Dismissed")
	return true
}
