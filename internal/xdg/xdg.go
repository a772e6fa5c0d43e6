// Package xdg resolves where birthday-card keeps its card file, seal and
// log.
package xdg

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "birthday-card"

// ConfigDir returns the configuration directory for birthday-card.
// On Linux: $XDG_CONFIG_HOME/birthday-card or ~/.config/birthday-card
// On macOS: ~/Library/Application Support/birthday-card (fallback to XDG if set)
//
// Note: This function creates the directory (with 0700 permissions) if it doesn't exist.
func ConfigDir() (string, error) {
	var base string

	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		base = configHome
	} else if runtime.GOOS == "darwin" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, "Library", "Application Support")
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}

	return ensure(filepath.Join(base, appName))
}

// StateDir returns the state directory, where logs go.
// $XDG_STATE_HOME/birthday-card or ~/.local/state/birthday-card
func StateDir() (string, error) {
	base := os.Getenv("XDG_STATE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "state")
	}
	return ensure(filepath.Join(base, appName))
}

// CardFile returns the default path of the card YAML file.
func CardFile() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "card.yaml"), nil
}

// SealFile returns the path to the passphrase seal.
func SealFile() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "seal"), nil
}

// LogFile returns the default log file path.
func LogFile() (string, error) {
	dir, err := StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "card.log"), nil
}

func ensure(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	return dir, nil
}
