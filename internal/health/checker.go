// Package health runs diagnostic checks over the configuration, the
// snapshot store and the remote record API.
package health

import (
	"context"
	"time"

	"github.com/nutragenie/nutragenie/internal/config"
	"github.com/nutragenie/nutragenie/internal/remote"
	"github.com/nutragenie/nutragenie/internal/snapshot"
)

// Status is the outcome of one check.
type Status int

const (
	StatusPass Status = iota
	StatusWarn
	StatusFail
)

// String returns the lowercase text representation of the status.
func (s Status) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusWarn:
		return "warn"
	case StatusFail:
		return "fail"
	default:
		return "unknown"
	}
}

// Symbol is the one-character mark printed before a result.
func (s Status) Symbol() string {
	return map[Status]string{StatusPass: "✓", StatusWarn: "!", StatusFail: "✗"}[s]
}

// Check categories in display order.
const (
	CategoryConfig = "config"
	CategoryStore  = "store"
	CategorySync   = "sync"
	CategoryRemote = "remote"
)

// Categories lists the check categories in display order.
func Categories() []string {
	return []string{CategoryConfig, CategoryStore, CategorySync, CategoryRemote}
}

// MarshalText encodes the status as its String form.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// CheckResult holds the result of a single check.
type CheckResult struct {
	Name     string        `json:"name"`
	Category string        `json:"category"`
	Status   Status        `json:"status"`
	Message  string        `json:"message"`
	Duration time.Duration `json:"duration"`
}

// Report holds results of all checks.
type Report struct {
	Results  []CheckResult `json:"results"`
	Passed   int           `json:"passed"`
	Warned   int           `json:"warned"`
	Failed   int           `json:"failed"`
	Total    int           `json:"total"`
	Duration time.Duration `json:"duration"`
	Healthy  bool          `json:"healthy"`
}

// Check is a named, categorized health check function.
type Check struct {
	Name     string
	Category string
	Fn       func(ctx context.Context) CheckResult
}

// Deps are the components the checks inspect. Store and Client may be nil;
// the checks that need them then report a failure or skip respectively.
type Deps struct {
	Config *config.Config
	Store  *snapshot.Store
	Client *remote.Client
}

// Checker runs the registered checks against one set of Deps.
type Checker struct {
	checks []Check
	deps   Deps
}

// NewChecker creates a health checker over deps.
func NewChecker(deps Deps) *Checker {
	if deps.Config == nil {
		deps.Config = config.Default()
	}
	c := &Checker{deps: deps}
	c.registerChecks()
	return c
}

func (c *Checker) add(name, category string, fn func(ctx context.Context) CheckResult) {
	c.checks = append(c.checks, Check{Name: name, Category: category, Fn: fn})
}

// Checks returns the registered checks.
func (c *Checker) Checks() []Check {
	out := make([]Check, len(c.checks))
	copy(out, c.checks)
	return out
}

// RunAll runs every registered check and returns a report.
func (c *Checker) RunAll(ctx context.Context) *Report {
	return c.run(ctx, "")
}

// RunCategory runs only the checks matching the given category.
func (c *Checker) RunCategory(ctx context.Context, category string) *Report {
	return c.run(ctx, category)
}

func (c *Checker) run(ctx context.Context, category string) *Report {
	start := time.Now()
	r := &Report{}
	for _, ch := range c.checks {
		if category != "" && ch.Category != category {
			continue
		}
		res := CheckResult{Status: StatusFail, Message: "context cancelled"}
		if ctx.Err() == nil {
			t := time.Now()
			res = ch.Fn(ctx)
			res.Duration = time.Since(t)
		}
		res.Name, res.Category = ch.Name, ch.Category
		r.Results = append(r.Results, res)

		switch res.Status {
		case StatusPass:
			r.Passed++
		case StatusWarn:
			r.Warned++
		default:
			r.Failed++
		}
	}
	r.Total = len(r.Results)
	r.Duration = time.Since(start)
	r.Healthy = r.Failed == 0
	return r
}
