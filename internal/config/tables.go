package config

import (
	"fmt"

	"github.com/nutragenie/nutragenie/internal/conflict"
)

// ConflictTables returns the built-in conflict tables overlaid with the
// tables from conflicts.path, if set.
func ConflictTables(c *Config) (conflict.Tables, error) {
	if c.Conflicts.Path == "" {
		return conflict.Builtin(), nil
	}
	tables, err := conflict.LoadTables(c.Conflicts.Path)
	if err != nil {
		return nil, fmt.Errorf("conflicts.path: %w", err)
	}
	return tables, nil
}
