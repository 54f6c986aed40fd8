package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Trendline Overlay Configuration

[engine]
# Overlay mode: "pivot" (support/resistance through pivots) or "regression" (OLS over closes)
mode = "pivot"
# Candles on each side a pivot must strictly dominate
window = 5
# Allowed containment violation
epsilon = 1e-6
# Max distance between line and extreme that counts as a touch (defaults to 10 x epsilon)
# touch_tolerance = 1e-5

[data]
# How long a parsed series file is reused before it is read again
cache_ttl = "5m"
# Reject series longer than this (0 = unlimited)
max_candles = 5000

[batch]
# Concurrent workers for 'trendline batch' (0 = one per CPU)
workers = 0

[logging]
# debug, info, warn, error
level = "info"
# Also write a rotating log file
file = false
# file_path = "~/.config/trendline-overlay/logs/trendline.log"
max_size = 50
max_backups = 5
max_age = 30
`

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("failed to write config template: %w", err)
	}
	return nil
}
