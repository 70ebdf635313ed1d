package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/nutragenie/nutragenie/internal/wizard"
)

// MaxAdvanceDelay bounds wizard.advanceDelay.
const MaxAdvanceDelay = 5 * time.Second

// ValidationError describes a single config validation failure.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface for a single validation error.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// Validate checks the Config for completeness and consistency. It returns a
// slice of all discovered issues rather than stopping at the first one.
func Validate(cfg *Config) []ValidationError {
	var errs []ValidationError

	// --- Store ---
	switch cfg.Store.Backend {
	case BackendFile:
		if cfg.Store.Dir == "" {
			errs = append(errs, ValidationError{Field: "store.dir", Message: "required for the file backend"})
		}
	case BackendMemory:
	default:
		errs = append(errs, ValidationError{
			Field:   "store.backend",
			Message: fmt.Sprintf("must be %q or %q, got %q", BackendFile, BackendMemory, cfg.Store.Backend),
		})
	}

	// --- Wizard ---
	if d := cfg.Wizard.AdvanceDelay; d < 0 || d > MaxAdvanceDelay {
		errs = append(errs, ValidationError{
			Field:   "wizard.advanceDelay",
			Message: fmt.Sprintf("must be within 0..%s, got %s", MaxAdvanceDelay, d),
		})
	}
	if _, err := wizard.ParseGatePolicy(cfg.Wizard.Gate); err != nil {
		errs = append(errs, ValidationError{Field: "wizard.gate", Message: err.Error()})
	}

	// --- Conflict tables ---
	if p := cfg.Conflicts.Path; p != "" {
		if _, err := os.Stat(p); err != nil {
			errs = append(errs, ValidationError{
				Field:   "conflicts.path",
				Message: fmt.Sprintf("file not found: %s", p),
			})
		}
	}

	// --- Remote ---
	if raw := cfg.Remote.URL; raw != "" {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "remote.url",
				Message: fmt.Sprintf("must be an http(s) URL, got %q", raw),
			})
		}
	}
	if cfg.Remote.Timeout <= 0 {
		errs = append(errs, ValidationError{
			Field:   "remote.timeout",
			Message: fmt.Sprintf("must be > 0, got %s", cfg.Remote.Timeout),
		})
	}

	// --- Server ---
	if cfg.Server.Addr == "" {
		errs = append(errs, ValidationError{Field: "server.addr", Message: "required field is empty"})
	}
	if cfg.Server.DB == "" {
		errs = append(errs, ValidationError{Field: "server.db", Message: "required field is empty"})
	}

	// --- Logging ---
	if _, err := ParseLevel(cfg.Log.Level); err != nil {
		errs = append(errs, ValidationError{Field: "log.level", Message: err.Error()})
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, ValidationError{
			Field:   "log.format",
			Message: fmt.Sprintf("must be text or json, got %q", cfg.Log.Format),
		})
	}

	return errs
}
