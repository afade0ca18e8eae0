package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

type APIConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type StreamConfig struct {
	DrainIntervalMs    int `toml:"drain_interval_ms"`
	SplitThreshold     int `toml:"split_threshold"`
	ReassuranceDelayMs int `toml:"reassurance_delay_ms"`
}

type PreferencesConfig struct {
	// DarkMode is nil until the user toggles it; the terminal background decides until then.
	DarkMode        *bool `toml:"dark_mode,omitempty"`
	FontSize        int   `toml:"font_size"`
	BannerDismissed bool  `toml:"banner_dismissed"`
}

type UserConfig struct {
	API         APIConfig         `toml:"api"`
	Stream      StreamConfig      `toml:"stream"`
	Preferences PreferencesConfig `toml:"preferences"`
}

type Config struct {
	DataDirectory    string
	APIBaseURL       string
	RequestTimeout   time.Duration
	DrainInterval    time.Duration
	SplitThreshold   int
	ReassuranceDelay time.Duration
	Preferences      PreferencesConfig
	Keybindings      *KeyBindingsConfig
}

var Debug = false
var DebugLog *log.Logger

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

// ExportsDir is where PDF exports land.
func (c *Config) ExportsDir() string {
	return filepath.Join(c.DataDir(), "exports")
}

func (c *Config) applyUserConfig(userCfg *UserConfig) {
	if userCfg.API.BaseURL != "" {
		c.APIBaseURL = userCfg.API.BaseURL
	}
	if userCfg.API.TimeoutSeconds > 0 {
		c.RequestTimeout = time.Duration(userCfg.API.TimeoutSeconds) * time.Second
	}
	if userCfg.Stream.DrainIntervalMs > 0 {
		c.DrainInterval = time.Duration(userCfg.Stream.DrainIntervalMs) * time.Millisecond
	}
	if userCfg.Stream.SplitThreshold > 0 {
		c.SplitThreshold = userCfg.Stream.SplitThreshold
	}
	if userCfg.Stream.ReassuranceDelayMs > 0 {
		c.ReassuranceDelay = time.Duration(userCfg.Stream.ReassuranceDelayMs) * time.Millisecond
	}
	c.Preferences = userCfg.Preferences
	c.Preferences.FontSize = ClampFontSize(c.Preferences.FontSize)
}

func (c *Config) applyEnvOverrides() {
	if apiURL := os.Getenv("ANMI_API_URL"); apiURL != "" {
		c.APIBaseURL = apiURL
	}
	if timeout := os.Getenv("ANMI_API_TIMEOUT"); timeout != "" {
		if secs, err := strconv.Atoi(timeout); err == nil && secs > 0 {
			c.RequestTimeout = time.Duration(secs) * time.Second
		}
	}
}

func CheckDebug() bool {
	debug := os.Getenv("ANMI_DEBUG")
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	// 0600: the log carries user prompts
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (ANMI_DEBUG=%s) ===", os.Getenv("ANMI_DEBUG"))
	DebugLog.Printf("Log path: %s", logPath)
}

// Default returns the built-in configuration without touching the filesystem.
func Default() *Config {
	return &Config{
		DataDirectory:    GetDefaultDataDir(),
		APIBaseURL:       DefaultAPIBaseURL,
		RequestTimeout:   DefaultRequestTimeout,
		DrainInterval:    DefaultDrainInterval,
		SplitThreshold:   DefaultSplitThreshold,
		ReassuranceDelay: DefaultReassuranceDelay,
		Preferences: PreferencesConfig{
			FontSize: DefaultFontSize,
		},
		Keybindings: DefaultKeybindings(),
	}
}

func Load() (*Config, error) {
	cfg := Default()

	if dataDir := os.Getenv("ANMI_DATA_DIR"); dataDir != "" {
		cfg.DataDirectory = dataDir
	} else {
		systemCfg, err := LoadSystemConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load system config: %w", err)
		}
		if systemCfg.DataDirectory != "" {
			cfg.DataDirectory = systemCfg.DataDirectory
		}
	}

	dataDir := cfg.DataDir()
	if err := EnsureDir(dataDir); err != nil {
		return nil, fmt.Errorf("failed to prepare data directory: %w", err)
	}

	userCfg, err := LoadUserConfig(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	cfg.applyUserConfig(userCfg)

	keybindings, err := LoadKeybindings(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load keybindings: %w", err)
	}
	cfg.Keybindings = keybindings

	cfg.applyEnvOverrides()

	return cfg, nil
}
