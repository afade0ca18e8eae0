package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const appName = "anmi"

// GetConfigDir holds settings.toml: $XDG_CONFIG_HOME/anmi, else ~/.config/anmi.
func GetConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" && runtime.GOOS != "windows" {
		return filepath.Join(dir, appName)
	}
	return filepath.Join(GetHomeDir(), ".config", appName)
}

// GetDefaultDataDir is used when neither ANMI_DATA_DIR nor settings.toml name one.
// Windows: %LOCALAPPDATA%\anmi. Elsewhere: $XDG_DATA_HOME/anmi, else ~/.local/share/anmi.
func GetDefaultDataDir() string {
	if runtime.GOOS == "windows" {
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			return filepath.Join(local, appName)
		}
		return filepath.Join(GetHomeDir(), "AppData", "Local", appName)
	}
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	return filepath.Join(GetHomeDir(), ".local", "share", appName)
}

func GetSettingsFilePath() string {
	return filepath.Join(GetConfigDir(), "settings.toml")
}

func GetHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return string(filepath.Separator)
	}
	return home
}

// ExpandPath expands a leading ~ and environment variables.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	switch {
	case path == "~":
		path = GetHomeDir()
	case strings.HasPrefix(path, "~/"):
		path = filepath.Join(GetHomeDir(), path[2:])
	}

	return filepath.Clean(os.ExpandEnv(path))
}

// EnsureDir creates path if needed and makes sure only the user can read it. The data
// directory holds the user's questions (debug log) and exported sheets.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0700); err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Mode().Perm() != 0700 {
		return os.Chmod(path, 0700)
	}
	return nil
}

func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// writePrivateFile replaces path with data (0600) through a rename, so a crash mid-write
// never leaves a truncated config behind.
func writePrivateFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := EnsureDir(dir); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
