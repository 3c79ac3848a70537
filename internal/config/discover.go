package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	serrors "github.com/Aman-CERP/sniff/internal/errors"
)

// EnvConfigPath names a config file explicitly, skipping discovery.
const EnvConfigPath = "SNIFF_CONFIG"

// appDir is the directory under the XDG config dirs holding the user config.
const appDir = "sniff"

// FileNames are the config file names tried, in order.
var FileNames = []string{"sniff.json", "sniff.yaml", "sniff.yml"}

// Discover locates the configuration file.
// Priority:
//  1. $SNIFF_CONFIG (if set)
//  2. sniff.json, sniff.yaml, sniff.yml in dir
//  3. sniff/<name> under $XDG_CONFIG_HOME (default ~/.config), then $XDG_CONFIG_DIRS
func Discover(dir string) (string, error) {
	if explicit := os.Getenv(EnvConfigPath); explicit != "" {
		if fileExists(explicit) {
			return explicit, nil
		}
		return "", serrors.New(serrors.ErrCodeConfigNotFound,
			fmt.Sprintf("config file not found: %s", explicit), nil).
			WithDetail("env", EnvConfigPath)
	}

	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if fileExists(path) {
			return path, nil
		}
	}

	for _, name := range FileNames {
		path, err := xdg.SearchConfigFile(filepath.Join(appDir, name))
		if err == nil {
			slog.Debug("using user config", slog.String("path", path))
			return path, nil
		}
	}

	return "", serrors.New(serrors.ErrCodeConfigNotFound, "config file doesn't exist", nil).
		WithSuggestion(fmt.Sprintf("create ./sniff.json or %s",
			filepath.Join(xdg.ConfigHome, appDir, "sniff.json")))
}

// fileExists checks if a regular file exists.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
