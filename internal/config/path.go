// Package config resolves midscope settings from viper and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath resolves a leading "~" or "~/" to the home directory, then
// substitutes $VAR references. "~user" forms are left alone.
func ExpandPath(path string) string {
	rest, ok := strings.CutPrefix(path, "~")
	if ok && (rest == "" || rest[0] == '/') {
		if home, err := os.UserHomeDir(); err == nil {
			path = home + rest
		}
	}
	return os.ExpandEnv(path)
}

// Dir returns the directory searched for config.yaml: $XDG_CONFIG_HOME/midscope
// when that variable is set, otherwise ~/.config/midscope.
func Dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "midscope"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "midscope"), nil
}
