package config

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

func userConfigPath(dataDir string) string {
	return filepath.Join(dataDir, "config.toml")
}

// LoadSystemConfig reads settings.toml, writing the commented default on first run.
func LoadSystemConfig() (*SystemConfig, error) {
	cfg := DefaultSystemConfig()
	path := GetSettingsFilePath()

	if !FileExists(path) {
		if err := writePrivateFile(path, []byte(GenerateSystemConfigTemplate())); err != nil {
			return nil, fmt.Errorf("failed to create system config: %w", err)
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse system config: %w", err)
	}
	return cfg, nil
}

// LoadUserConfig reads <dataDir>/config.toml over the defaults, writing the commented default
// on first run. Keys the client does not know are logged and ignored.
func LoadUserConfig(dataDir string) (*UserConfig, error) {
	cfg := DefaultUserConfig()
	path := userConfigPath(dataDir)

	if !FileExists(path) {
		if err := SaveUserConfig(cfg, dataDir); err != nil {
			return nil, fmt.Errorf("failed to create user config: %w", err)
		}
		return cfg, nil
	}

	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user config: %w", err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 && DebugLog != nil {
		DebugLog.Printf("[Config] Ignoring unknown keys in %s: %v", path, undecoded)
	}
	return cfg, nil
}

// SaveUserConfig writes cfg as the commented config.toml template, so saving a preference
// keeps the explanations next to every setting.
func SaveUserConfig(cfg *UserConfig, dataDir string) error {
	if err := writePrivateFile(userConfigPath(dataDir), []byte(RenderUserConfig(cfg))); err != nil {
		return fmt.Errorf("failed to write user config: %w", err)
	}
	return nil
}
