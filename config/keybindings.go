package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// KeyBindingsConfig holds modifier customization and optional per-action overrides
type KeyBindingsConfig struct {
	Modifiers ModifierConfig    `toml:"modifiers"`
	Actions   map[string]string `toml:"actions"`
}

type ModifierConfig struct {
	Primary   string `toml:"primary"`
	Secondary string `toml:"secondary"`
}

type actionDef struct {
	modifier string // "primary", "secondary", or "none"
	key      string
}

var actionRegistry = map[string]actionDef{
	// Modals
	"help":          {"primary", "h"},
	"settings":      {"primary", "s"},
	"privacy":       {"primary", "v"},
	"sources":       {"primary", "r"},
	"quick_options": {"primary", "o"},

	// Quick prompts
	"quick_option_1": {"primary", "1"},
	"quick_option_2": {"primary", "2"},
	"quick_option_3": {"primary", "3"},

	// Scrolling
	"scroll_down":      {"primary", "j"},
	"scroll_up":        {"primary", "k"},
	"half_page_down":   {"secondary", "j"},
	"half_page_up":     {"secondary", "k"},
	"page_down":        {"none", "pgdown"},
	"page_up":          {"none", "pgup"},
	"scroll_to_top":    {"primary", "g"},
	"scroll_to_bottom": {"secondary", "g"},

	// Actions
	"quit":               {"primary", "q"},
	"cancel_stream":      {"none", "esc"},
	"yank_last_response": {"primary", "y"},
	"yank_conversation":  {"primary", "c"},
	"export_pdf":         {"primary", "p"},
	"toggle_dark_mode":   {"primary", "d"},
	"font_size_up":       {"primary", "="},
	"font_size_down":     {"primary", "-"},
	"dismiss_banner":     {"primary", "x"},
}

// DefaultKeybindings returns default configuration
func DefaultKeybindings() *KeyBindingsConfig {
	return &KeyBindingsConfig{
		Modifiers: ModifierConfig{
			Primary:   "alt",
			Secondary: "alt+shift",
		},
	}
}

// LoadKeybindings loads keybindings from data directory
func LoadKeybindings(dataDir string) (*KeyBindingsConfig, error) {
	cfg := DefaultKeybindings()
	keybindingsPath := filepath.Join(dataDir, "keybindings.toml")

	if !FileExists(keybindingsPath) {
		if err := CreateDefaultKeybindings(dataDir); err != nil {
			return nil, fmt.Errorf("failed to create keybindings: %w", err)
		}
		return cfg, nil
	}

	_, err := toml.DecodeFile(keybindingsPath, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse keybindings: %w", err)
	}

	if cfg.Modifiers.Primary == "" {
		cfg.Modifiers.Primary = "alt"
	}
	if cfg.Modifiers.Secondary == "" {
		cfg.Modifiers.Secondary = "alt+shift"
	}

	return cfg, nil
}

// CreateDefaultKeybindings creates default keybindings.toml
func CreateDefaultKeybindings(dataDir string) error {
	keybindingsPath := filepath.Join(dataDir, "keybindings.toml")
	if FileExists(keybindingsPath) {
		return nil
	}

	if err := writePrivateFile(keybindingsPath, []byte(GenerateKeybindingsTemplate())); err != nil {
		return fmt.Errorf("failed to write keybindings: %w", err)
	}

	return nil
}

// GenerateKeybindingsTemplate returns the default TOML template
func GenerateKeybindingsTemplate() string {
	return `# ANMI Keybindings Configuration
# Location: <data_directory>/keybindings.toml

[modifiers]
primary = "alt"          # alt, ctrl, meta, super
secondary = "alt+shift"

[actions]
# Per-action overrides, for example:
#   export_pdf = "ctrl+e"
#   quick_option_1 = "f1"
`
}

// Primary returns the primary modifier
func (kb *KeyBindingsConfig) Primary() string {
	if kb.Modifiers.Primary == "" {
		return "alt"
	}
	return kb.Modifiers.Primary
}

// Secondary returns the secondary modifier
func (kb *KeyBindingsConfig) Secondary() string {
	if kb.Modifiers.Secondary == "" {
		return "alt+shift"
	}
	return kb.Modifiers.Secondary
}

// PrimaryKey builds a keybinding string with primary modifier
func (kb *KeyBindingsConfig) PrimaryKey(key string) string {
	return kb.Primary() + "+" + key
}

// SecondaryKey builds a keybinding string with secondary modifier.
// Shifted single letters are reported by terminals as uppercase, so "alt+shift" + "j" is "alt+J".
func (kb *KeyBindingsConfig) SecondaryKey(key string) string {
	secondary := kb.Secondary()

	if strings.Contains(strings.ToLower(secondary), "shift") && len(key) == 1 && key[0] >= 'a' && key[0] <= 'z' {
		var mods []string
		for _, part := range strings.Split(secondary, "+") {
			if strings.ToLower(part) != "shift" {
				mods = append(mods, part)
			}
		}
		if len(mods) > 0 {
			return strings.Join(mods, "+") + "+" + strings.ToUpper(key)
		}
		return strings.ToUpper(key)
	}

	return secondary + "+" + key
}

// GetActionKey returns the keybinding for an action, user overrides first
func (kb *KeyBindingsConfig) GetActionKey(action string) string {
	if override, exists := kb.Actions[action]; exists && override != "" {
		return override
	}

	if def, exists := actionRegistry[action]; exists {
		switch def.modifier {
		case "primary":
			return kb.PrimaryKey(def.key)
		case "secondary":
			return kb.SecondaryKey(def.key)
		case "none":
			return def.key
		}
	}

	return ""
}

// Matches reports whether a pressed key string triggers the action
func (kb *KeyBindingsConfig) Matches(pressed, action string) bool {
	key := kb.GetActionKey(action)
	return key != "" && key == pressed
}

// DisplayActionKey returns a display-friendly version of an action's keybinding
// Example: "alt+J" -> "Alt+Shift+J"
func (kb *KeyBindingsConfig) DisplayActionKey(action string) string {
	key := kb.GetActionKey(action)
	if key == "" {
		return ""
	}
	return capitalizeKeybinding(key)
}

func capitalizeKeybinding(key string) string {
	parts := strings.Split(key, "+")
	hasShift := false
	for _, p := range parts {
		if strings.ToLower(p) == "shift" {
			hasShift = true
			break
		}
	}

	var result []string
	for i, part := range parts {
		if part == "" {
			continue
		}
		if len(part) == 1 && part[0] >= 'A' && part[0] <= 'Z' {
			if !hasShift && i > 0 {
				result = append(result, "Shift")
			}
			result = append(result, part)
			continue
		}
		result = append(result, strings.ToUpper(part[:1])+part[1:])
	}

	return strings.Join(result, "+")
}
