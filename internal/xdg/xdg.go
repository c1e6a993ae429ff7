// Package xdg provides XDG Base Directory paths for Nimbus Launcher.
package xdg

import (
	"fmt"
	"os"
	"path/filepath"
)

const appName = "nimbuslauncher"

// legacyDirName is the pre-XDG dot-directory older builds wrote into.
const legacyDirName = ".nimbuslauncher"

// ConfigDir returns the XDG config directory for the launcher.
// Checks XDG_CONFIG_HOME first, falls back to ~/.config.
func ConfigDir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		base = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(base, appName)
}

// DataDir returns the XDG data directory for the launcher.
// Checks XDG_DATA_HOME first, falls back to ~/.local/share.
func DataDir() string {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		base = filepath.Join(os.Getenv("HOME"), ".local", "share")
	}
	return filepath.Join(base, appName)
}

// LegacyDir returns the home dot-directory that versions before the XDG
// migration stored the config document in.
func LegacyDir() string {
	return filepath.Join(os.Getenv("HOME"), legacyDirName)
}

// EnsureDir creates a directory and all parent directories if they don't exist.
// Directories are created with 0700 permissions.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0o700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}
