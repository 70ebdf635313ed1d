package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConfigDir is $HOME/.nutragenie, or "" when the home directory is unknown.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".nutragenie")
}

// DefaultStoreDir is where snapshots live unless store.dir says otherwise.
func DefaultStoreDir() string {
	if dir := ConfigDir(); dir != "" {
		return filepath.Join(dir, "store")
	}
	return filepath.Join(".nutragenie", "store")
}

// LogFile is where interactive commands write their logs so the terminal UI
// is not disturbed.
func (c *Config) LogFile() string {
	dir := c.Store.Dir
	if dir == "" {
		dir = DefaultStoreDir()
	}
	return filepath.Join(filepath.Dir(dir), "nutragenie.log")
}

// EnsureDirectories creates the store directory for the file backend.
func EnsureDirectories(c *Config) error {
	if c.Store.Backend != BackendFile {
		return nil
	}
	if err := os.MkdirAll(c.Store.Dir, 0o755); err != nil {
		return fmt.Errorf("creating store directory %s: %w", c.Store.Dir, err)
	}
	return nil
}
