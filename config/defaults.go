package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultAPIBaseURL       = "http://127.0.0.1:8000/api"
	DefaultRequestTimeout   = 120 * time.Second
	DefaultDrainInterval    = 10 * time.Millisecond
	DefaultSplitThreshold   = 5
	DefaultReassuranceDelay = 3000 * time.Millisecond

	DefaultFontSize = 16
	MinFontSize     = 14
	MaxFontSize     = 18
)

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: "~/.local/share/anmi",
	}
}

func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		API: APIConfig{
			BaseURL:        DefaultAPIBaseURL,
			TimeoutSeconds: int(DefaultRequestTimeout / time.Second),
		},
		Stream: StreamConfig{
			DrainIntervalMs:    int(DefaultDrainInterval / time.Millisecond),
			SplitThreshold:     DefaultSplitThreshold,
			ReassuranceDelayMs: int(DefaultReassuranceDelay / time.Millisecond),
		},
		Preferences: PreferencesConfig{
			FontSize: DefaultFontSize,
		},
	}
}

func GenerateSystemConfigTemplate() string {
	return `# ANMI System Configuration
# Location: ~/.config/anmi/settings.toml
# This file uses TOML format: https://toml.io

# Directory where user config, exports and the debug log are stored
data_directory = "~/.local/share/anmi"
`
}

func GenerateUserConfigTemplate() string {
	return RenderUserConfig(DefaultUserConfig())
}

// RenderUserConfig writes cfg as config.toml with a comment above every setting. The TOML
// encoder drops comments, so the file is laid out by hand.
func RenderUserConfig(cfg *UserConfig) string {
	darkMode := "# dark_mode = true   # leave unset to follow the terminal background"
	if cfg.Preferences.DarkMode != nil {
		darkMode = "dark_mode = " + strconv.FormatBool(*cfg.Preferences.DarkMode)
	}

	return fmt.Sprintf(`# ANMI User Configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io
# Changing a preference in the app rewrites this file; comments are kept.

[api]
# Base URL of the ANMI chat API (ANMI_API_URL overrides this)
base_url = %s

# Give up if the API has not started answering after this many seconds
# (ANMI_API_TIMEOUT overrides this). A reply that is already streaming is never cut off.
timeout_seconds = %d

[stream]
# Pace of the typing effect: one queued unit is revealed per tick
drain_interval_ms = %d

# Fragments longer than this many characters are revealed one character at a time
split_threshold = %d

# Show a "still waking up" message if nothing arrives within this delay
reassurance_delay_ms = %d

[preferences]
%s
# 14..18, scales exported PDFs
font_size = %d
banner_dismissed = %t
`,
		tomlString(cfg.API.BaseURL),
		cfg.API.TimeoutSeconds,
		cfg.Stream.DrainIntervalMs,
		cfg.Stream.SplitThreshold,
		cfg.Stream.ReassuranceDelayMs,
		darkMode,
		ClampFontSize(cfg.Preferences.FontSize),
		cfg.Preferences.BannerDismissed,
	)
}

// tomlString quotes s as a TOML basic string.
func tomlString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"' || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, "\\u%04X", r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
