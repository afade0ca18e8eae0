package config

import "fmt"

// ClampFontSize keeps a font size inside [MinFontSize, MaxFontSize].
// Zero means "never set" and maps to the default.
func ClampFontSize(size int) int {
	if size == 0 {
		return DefaultFontSize
	}
	return min(max(size, MinFontSize), MaxFontSize)
}

// FontScale is the factor exports apply to their base font sizes.
func (p PreferencesConfig) FontScale() float64 {
	return float64(ClampFontSize(p.FontSize)) / float64(DefaultFontSize)
}

// IsDarkMode resolves the stored preference, falling back to the detected terminal background.
func (p PreferencesConfig) IsDarkMode(terminalDark bool) bool {
	if p.DarkMode == nil {
		return terminalDark
	}
	return *p.DarkMode
}

// WithDarkMode returns a copy with dark mode pinned to the given value.
func (p PreferencesConfig) WithDarkMode(dark bool) PreferencesConfig {
	p.DarkMode = &dark
	return p
}

// WithFontSize returns a copy with the clamped font size.
func (p PreferencesConfig) WithFontSize(size int) PreferencesConfig {
	p.FontSize = ClampFontSize(size)
	return p
}

// SavePreferences rewrites the [preferences] table of the user config, keeping the other tables.
func SavePreferences(dataDir string, prefs PreferencesConfig) error {
	userCfg, err := LoadUserConfig(dataDir)
	if err != nil {
		return fmt.Errorf("failed to load user config: %w", err)
	}

	userCfg.Preferences = prefs
	userCfg.Preferences.FontSize = ClampFontSize(prefs.FontSize)

	if err := SaveUserConfig(userCfg, dataDir); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}

	if DebugLog != nil {
		DebugLog.Printf("[Config] Preferences saved: font_size=%d banner_dismissed=%v", userCfg.Preferences.FontSize, userCfg.Preferences.BannerDismissed)
	}
	return nil
}
