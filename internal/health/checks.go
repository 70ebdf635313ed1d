package health

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/nutragenie/nutragenie/internal/config"
	"github.com/nutragenie/nutragenie/internal/conflict"
	"github.com/nutragenie/nutragenie/internal/snapshot"
)

// registerChecks registers the checks across the four categories.
func (c *Checker) registerChecks() {
	// Config checks
	c.add("config-valid", CategoryConfig, c.checkConfig)
	c.add("conflict-tables", CategoryConfig, c.checkConflictTables)

	// Store checks
	c.add("store-dir", CategoryStore, c.checkStoreDir)
	c.add("snapshot-keys", CategoryStore, c.checkSnapshotKeys)
	c.add("stored-selections", CategoryStore, c.checkStoredSelections)

	// Sync checks
	c.add("key-sync", CategorySync, c.checkKeySync)

	// Remote checks
	c.add("remote-api", CategoryRemote, c.checkRemote)
}

// ---------------------------------------------------------------------------
// Config checks
// ---------------------------------------------------------------------------

func (c *Checker) checkConfig(_ context.Context) CheckResult {
	errs := config.Validate(c.deps.Config)
	if len(errs) == 0 {
		source := c.deps.Config.File
		if source == "" {
			source = "defaults and environment"
		}
		return CheckResult{Status: StatusPass, Message: source}
	}
	msg := errs[0].Error()
	if len(errs) > 1 {
		msg = fmt.Sprintf("%s (+%d more)", msg, len(errs)-1)
	}
	return CheckResult{Status: StatusFail, Message: msg}
}

func (c *Checker) checkConflictTables(_ context.Context) CheckResult {
	tables, err := config.ConflictTables(c.deps.Config)
	if err != nil {
		return CheckResult{Status: StatusFail, Message: err.Error()}
	}
	for _, name := range []string{conflict.Dietary, conflict.Health} {
		if _, err := tables.Get(name); err != nil {
			return CheckResult{Status: StatusFail, Message: fmt.Sprintf("missing table %q", name)}
		}
	}
	return CheckResult{Status: StatusPass, Message: strings.Join(tables.Names(), ", ")}
}

// ---------------------------------------------------------------------------
// Store checks
// ---------------------------------------------------------------------------

func (c *Checker) checkStoreDir(_ context.Context) CheckResult {
	sc := c.deps.Config.Store
	if sc.Backend == config.BackendMemory {
		return CheckResult{Status: StatusWarn, Message: "memory backend, nothing is kept between runs"}
	}
	info, err := os.Stat(sc.Dir)
	if errors.Is(err, os.ErrNotExist) {
		return CheckResult{Status: StatusWarn, Message: fmt.Sprintf("%s does not exist yet", sc.Dir)}
	}
	if err != nil {
		return CheckResult{Status: StatusFail, Message: err.Error()}
	}
	if !info.IsDir() {
		return CheckResult{Status: StatusFail, Message: fmt.Sprintf("%s is not a directory", sc.Dir)}
	}
	f, err := os.CreateTemp(sc.Dir, ".tmp-health-*")
	if err != nil {
		return CheckResult{Status: StatusFail, Message: fmt.Sprintf("not writable: %v", err)}
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return CheckResult{Status: StatusPass, Message: sc.Dir}
}

func (c *Checker) checkSnapshotKeys(_ context.Context) CheckResult {
	if c.deps.Store == nil {
		return CheckResult{Status: StatusFail, Message: "no snapshot store"}
	}
	var missing []string
	for _, key := range []string{snapshot.KeyPending, snapshot.KeyPermanent} {
		_, err := c.deps.Store.Read(key)
		switch {
		case errors.Is(err, snapshot.ErrNotFound):
			missing = append(missing, key)
		case err != nil:
			return CheckResult{Status: StatusFail, Message: fmt.Sprintf("%s: %v", key, err)}
		}
	}
	switch len(missing) {
	case 0:
		return CheckResult{Status: StatusPass, Message: "both keys readable"}
	case 2:
		return CheckResult{Status: StatusWarn, Message: "no record yet, run nutragenie onboard"}
	default:
		return CheckResult{Status: StatusWarn, Message: fmt.Sprintf("%s missing", missing[0])}
	}
}

// checkStoredSelections flags stored option sets that conflict under the
// current tables, e.g. after conflicts.path changed.
func (c *Checker) checkStoredSelections(_ context.Context) CheckResult {
	if c.deps.Store == nil {
		return CheckResult{Status: StatusFail, Message: "no snapshot store"}
	}
	tables, err := config.ConflictTables(c.deps.Config)
	if err != nil {
		return CheckResult{Status: StatusWarn, Message: "skipped, conflict tables unavailable"}
	}
	snap := c.deps.Store.Load()
	var problems []string
	for _, sel := range []struct{ table, key string }{
		{conflict.Dietary, snapshot.KeyRestrictions},
		{conflict.Health, snapshot.KeyConditions},
	} {
		t, err := tables.Get(sel.table)
		if err != nil {
			continue
		}
		problems = append(problems, conflict.Check(conflict.NewSet(snap.List(sel.key)...), t)...)
	}
	if len(problems) > 0 {
		return CheckResult{Status: StatusWarn, Message: strings.Join(problems, "; ")}
	}
	return CheckResult{Status: StatusPass, Message: "no conflicting selections"}
}

// ---------------------------------------------------------------------------
// Sync checks
// ---------------------------------------------------------------------------

func (c *Checker) checkKeySync(_ context.Context) CheckResult {
	if c.deps.Store == nil {
		return CheckResult{Status: StatusFail, Message: "no snapshot store"}
	}
	ok, err := c.deps.Store.InSync()
	if err != nil {
		return CheckResult{Status: StatusFail, Message: err.Error()}
	}
	if !ok {
		return CheckResult{
			Status:  StatusFail,
			Message: fmt.Sprintf("%s and %s differ, run nutragenie health --repair", snapshot.KeyPending, snapshot.KeyPermanent),
		}
	}
	return CheckResult{Status: StatusPass, Message: "temporary and permanent keys match"}
}

// ---------------------------------------------------------------------------
// Remote checks
// ---------------------------------------------------------------------------

// checkRemote never fails: the remote API is best effort.
func (c *Checker) checkRemote(ctx context.Context) CheckResult {
	if c.deps.Client == nil {
		return CheckResult{Status: StatusPass, Message: "remote sync disabled"}
	}
	if err := c.deps.Client.Ping(ctx); err != nil {
		return CheckResult{Status: StatusWarn, Message: fmt.Sprintf("unreachable: %v", err)}
	}
	return CheckResult{Status: StatusPass, Message: c.deps.Client.BaseURL()}
}
