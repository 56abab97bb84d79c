// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ExpandPath expands ~ and environment variables in a file path.
// It handles both ~ for home directory and $VAR style environment variables.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}

// DatabasePath resolves the database file location: the db.path config key
// if set, otherwise a billfold.db under the user's data directory.
func DatabasePath() string {
	if v := viper.GetString("db.path"); v != "" {
		return ExpandPath(v)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "billfold.db"
	}
	return filepath.Join(home, ".local", "share", "billfold", "billfold.db")
}
