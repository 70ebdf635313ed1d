// Package conflict resolves selections in option sets whose members can be
// mutually exclusive, such as dietary restrictions and health conditions.
package conflict

import (
	"fmt"
	"sort"
	"strings"
)

// Table is a set of selectable options plus the pairs that cannot be selected
// together. Pairs may be declared in one direction only; lookups are
// symmetric. Sentinel, when set, is exclusive with every other option.
type Table struct {
	Name     string
	Options  []string
	Sentinel string
	pairs    map[string]map[string]struct{}
}

// NewTable builds a table. conflicts maps an option to the options it
// excludes. Every option named in conflicts is added to Options if missing.
func NewTable(name string, options []string, sentinel string, conflicts map[string][]string) *Table {
	t := &Table{
		Name:     name,
		Sentinel: sentinel,
		pairs:    make(map[string]map[string]struct{}),
	}
	known := make(map[string]bool)
	add := func(o string) {
		if o != "" && !known[o] {
			known[o] = true
			t.Options = append(t.Options, o)
		}
	}
	for _, o := range options {
		add(o)
	}
	add(sentinel)

	// Deterministic order for options that only appear in conflicts.
	keys := make([]string, 0, len(conflicts))
	for k := range conflicts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, a := range keys {
		add(a)
		for _, b := range conflicts[a] {
			add(b)
			t.link(a, b)
		}
	}
	return t
}

func (t *Table) link(a, b string) {
	if a == b {
		return
	}
	if t.pairs[a] == nil {
		t.pairs[a] = make(map[string]struct{})
	}
	if t.pairs[b] == nil {
		t.pairs[b] = make(map[string]struct{})
	}
	t.pairs[a][b] = struct{}{}
	t.pairs[b][a] = struct{}{}
}

// Conflicts reports whether a and b cannot be selected together.
func (t *Table) Conflicts(a, b string) bool {
	if t == nil || a == b {
		return false
	}
	if t.Sentinel != "" && (a == t.Sentinel || b == t.Sentinel) {
		return true
	}
	_, ok := t.pairs[a][b]
	return ok
}

// ConflictsWith lists the options that conflict with o, sorted. The sentinel
// is not included.
func (t *Table) ConflictsWith(o string) []string {
	if t == nil {
		return nil
	}
	out := make([]string, 0, len(t.pairs[o]))
	for other := range t.pairs[o] {
		out = append(out, other)
	}
	sort.Strings(out)
	return out
}

// Has reports whether o is one of the table's options.
func (t *Table) Has(o string) bool {
	if t == nil {
		return false
	}
	for _, opt := range t.Options {
		if opt == o {
			return true
		}
	}
	return false
}

// Set is a sorted selection of options. The zero value is empty.
type Set []string

// NewSet returns a sorted, de-duplicated set without blank entries.
func NewSet(items ...string) Set {
	seen := make(map[string]bool, len(items))
	out := make(Set, 0, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" || seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	sort.Strings(out)
	return out
}

// Contains reports whether o is selected.
func (s Set) Contains(o string) bool {
	i := sort.SearchStrings(s, o)
	return i < len(s) && s[i] == o
}

// Equal compares two sets.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

func (s Set) String() string {
	return "{" + strings.Join(s, ", ") + "}"
}

// Toggle flips candidate in selected and returns the new set; selected is not
// modified. Removing never checks conflicts. Adding drops every option that
// conflicts with candidate in either direction, and the sentinel if active,
// so the newest click always wins. Selecting the sentinel leaves only the
// sentinel.
func Toggle(selected Set, candidate string, table *Table) Set {
	selected = NewSet(selected...)
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return selected
	}
	if selected.Contains(candidate) {
		out := make(Set, 0, len(selected))
		for _, o := range selected {
			if o != candidate {
				out = append(out, o)
			}
		}
		return out
	}
	if table != nil && table.Sentinel != "" && candidate == table.Sentinel {
		return Set{candidate}
	}
	out := make([]string, 0, len(selected)+1)
	for _, o := range selected {
		if table.Conflicts(o, candidate) {
			continue
		}
		out = append(out, o)
	}
	return NewSet(append(out, candidate)...)
}

// Removed returns the options present in before but not in after. Used to
// tell the user which selections a toggle displaced.
func Removed(before, after Set) []string {
	var out []string
	for _, o := range before {
		if !after.Contains(o) {
			out = append(out, o)
		}
	}
	return out
}

// Check reports the conflicting pairs inside a set, e.g. one loaded from an
// older snapshot written with a different table.
func Check(selected Set, table *Table) []string {
	var problems []string
	for i := 0; i < len(selected); i++ {
		for j := i + 1; j < len(selected); j++ {
			if table.Conflicts(selected[i], selected[j]) {
				problems = append(problems, fmt.Sprintf("%s conflicts with %s", selected[i], selected[j]))
			}
		}
	}
	return problems
}
