// Package snapshot persists the onboarding state shared between screens.
//
// A Snapshot is a flat record of field values, option lists and section
// confirmation flags. Every screen reads the whole record and writes back only
// what it owns; writes merge into the stored value so data written by other
// screens survives. The record lives under two keys, a temporary one used
// before an account exists and a permanent one, and Store.Save keeps them
// identical.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// SchemaVersion is the current on-disk record version. Records without a
// version field are legacy flat objects and are migrated on read.
const SchemaVersion = 2

// Well-known storage keys.
const (
	KeyPending   = "user.pending"
	KeyPermanent = "user"
)

// Field keys, "<section>.<field>" as written by the onboarding screens.
const (
	KeyName     = "account.name"
	KeyEmail    = "account.email"
	KeyPhone    = "account.phone"
	KeyZIP      = "location.zip"
	KeyAge      = "body.age"
	KeyHeight   = "body.height"
	KeyWeight   = "body.weight"
	KeyAllergy  = "health.allergies"
	KeyGoal     = "goal.goal"
	KeyCuisine  = "cuisine.cuisine"
	KeySkill    = "cooking.skill"
	KeyCookTime = "cooking.time"
	KeyMeals    = "cooking.meals"
	KeyAvatar   = "profile.avatar"

	// List keys.
	KeyRestrictions = "restrictions.selected"
	KeyConditions   = "health.conditions"
)

// DefaultAvatar is the placeholder avatar id of a fresh profile.
const DefaultAvatar = "avatar-default"

var (
	// ErrNotFound is returned by Read when the key has never been written.
	ErrNotFound = errors.New("snapshot not found")
	// ErrMalformed is returned by Read when the stored bytes cannot be decoded.
	ErrMalformed = errors.New("snapshot malformed")
)

// Snapshot is the persisted wizard state. Values holds single-valued fields,
// Lists holds option sets, Confirmed holds section confirmation flags keyed by
// section id.
type Snapshot struct {
	Version   int                 `json:"version"`
	ID        string              `json:"id,omitempty"`
	Values    map[string]string   `json:"values"`
	Lists     map[string][]string `json:"lists"`
	Confirmed map[string]bool     `json:"confirmed"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// New returns an empty snapshot with initialized maps.
func New() Snapshot {
	return Snapshot{
		Version:   SchemaVersion,
		Values:    map[string]string{},
		Lists:     map[string][]string{},
		Confirmed: map[string]bool{},
	}
}

// DefaultSnapshot is the record used when nothing has been stored yet: empty
// restriction and condition lists and the placeholder avatar.
func DefaultSnapshot() Snapshot {
	s := New()
	s.Values[KeyAvatar] = DefaultAvatar
	s.Lists[KeyRestrictions] = []string{}
	s.Lists[KeyConditions] = []string{}
	return s
}

// Set stores a single value and returns s for chaining.
func (s Snapshot) Set(key, value string) Snapshot {
	if s.Values == nil {
		s.Values = map[string]string{}
	}
	s.Values[key] = value
	return s
}

// SetList stores an option list. A nil list is stored as empty.
func (s Snapshot) SetList(key string, items []string) Snapshot {
	if s.Lists == nil {
		s.Lists = map[string][]string{}
	}
	cp := make([]string, len(items))
	copy(cp, items)
	s.Lists[key] = cp
	return s
}

// Confirm records a section's confirmation flag.
func (s Snapshot) Confirm(section string, confirmed bool) Snapshot {
	if s.Confirmed == nil {
		s.Confirmed = map[string]bool{}
	}
	s.Confirmed[section] = confirmed
	return s
}

// Get returns a value and whether it is present.
func (s Snapshot) Get(key string) (string, bool) {
	v, ok := s.Values[key]
	return v, ok
}

// List returns a copy of an option list, empty when absent.
func (s Snapshot) List(key string) []string {
	src := s.Lists[key]
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// Keys returns every value and list key, sorted.
func (s Snapshot) Keys() []string {
	keys := make([]string, 0, len(s.Values)+len(s.Lists))
	for k := range s.Values {
		keys = append(keys, k)
	}
	for k := range s.Lists {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Version:   s.Version,
		ID:        s.ID,
		UpdatedAt: s.UpdatedAt,
		Values:    make(map[string]string, len(s.Values)),
		Lists:     make(map[string][]string, len(s.Lists)),
		Confirmed: make(map[string]bool, len(s.Confirmed)),
	}
	for k, v := range s.Values {
		out.Values[k] = v
	}
	for k, v := range s.Lists {
		cp := make([]string, len(v))
		copy(cp, v)
		out.Lists[k] = cp
	}
	for k, v := range s.Confirmed {
		out.Confirmed[k] = v
	}
	return out
}

// Merge overlays patch onto base. Keys present in patch win, keys only in
// base are kept. A non-empty patch ID replaces the base ID.
func Merge(base, patch Snapshot) Snapshot {
	out := base.Clone()
	out.Version = SchemaVersion
	if patch.ID != "" {
		out.ID = patch.ID
	}
	for k, v := range patch.Values {
		out.Values[k] = v
	}
	for k, v := range patch.Lists {
		cp := make([]string, len(v))
		copy(cp, v)
		out.Lists[k] = cp
	}
	for k, v := range patch.Confirmed {
		out.Confirmed[k] = v
	}
	if patch.UpdatedAt.After(out.UpdatedAt) {
		out.UpdatedAt = patch.UpdatedAt
	}
	return out
}

// Equal compares content, ignoring UpdatedAt.
func Equal(a, b Snapshot) bool {
	if a.ID != b.ID || len(a.Values) != len(b.Values) || len(a.Lists) != len(b.Lists) || len(a.Confirmed) != len(b.Confirmed) {
		return false
	}
	for k, v := range a.Values {
		if bv, ok := b.Values[k]; !ok || bv != v {
			return false
		}
	}
	for k, v := range a.Lists {
		bv, ok := b.Lists[k]
		if !ok || len(bv) != len(v) {
			return false
		}
		for i := range v {
			if v[i] != bv[i] {
				return false
			}
		}
	}
	for k, v := range a.Confirmed {
		if bv, ok := b.Confirmed[k]; !ok || bv != v {
			return false
		}
	}
	return true
}

// legacyKeys maps the flat field names of unversioned records.
var legacyKeys = map[string]string{
	"name":        KeyName,
	"fullName":    KeyName,
	"email":       KeyEmail,
	"phone":       KeyPhone,
	"zip":         KeyZIP,
	"zipCode":     KeyZIP,
	"age":         KeyAge,
	"height":      KeyHeight,
	"weight":      KeyWeight,
	"allergies":   KeyAllergy,
	"goal":        KeyGoal,
	"cuisine":     KeyCuisine,
	"skill":       KeySkill,
	"cookingTime": KeyCookTime,
	"avatar":      KeyAvatar,
	"avatarId":    KeyAvatar,

	"dietaryRestrictions": KeyRestrictions,
	"restrictions":        KeyRestrictions,
	"healthConditions":    KeyConditions,
	"conditions":          KeyConditions,
}

// Decode parses stored bytes, migrating legacy flat records.
func Decode(data []byte) (Snapshot, error) {
	var probe struct {
		Version *int `json:"version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if probe.Version == nil {
		return decodeLegacy(data)
	}
	if *probe.Version > SchemaVersion {
		return Snapshot{}, fmt.Errorf("%w: version %d is newer than supported %d", ErrMalformed, *probe.Version, SchemaVersion)
	}

	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	// Version 1 stored confirmation flags as values named "<section>.confirmed".
	if s.Version < SchemaVersion {
		s = migrateV1(s)
	}
	return Merge(New(), s), nil
}

func migrateV1(s Snapshot) Snapshot {
	out := s.Clone()
	for k, v := range s.Values {
		const suffix = ".confirmed"
		if len(k) > len(suffix) && k[len(k)-len(suffix):] == suffix {
			out = out.Confirm(k[:len(k)-len(suffix)], v == "true")
			delete(out.Values, k)
		}
	}
	out.Version = SchemaVersion
	return out
}

func decodeLegacy(data []byte) (Snapshot, error) {
	var flat map[string]any
	if err := json.Unmarshal(data, &flat); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	s := New()
	for k, raw := range flat {
		key := k
		if mapped, ok := legacyKeys[k]; ok {
			key = mapped
		}
		switch v := raw.(type) {
		case string:
			s.Values[key] = v
		case float64:
			s.Values[key] = formatFloat(v)
		case bool:
			s.Values[key] = fmt.Sprint(v)
		case []any:
			items := make([]string, 0, len(v))
			for _, it := range v {
				if str, ok := it.(string); ok {
					items = append(items, str)
				}
			}
			s.Lists[key] = items
		case nil:
			// absent in practice
		default:
			// nested objects carry nothing the screens read
		}
	}
	if id, ok := s.Values["id"]; ok {
		s.ID = id
		delete(s.Values, "id")
	}
	return s, nil
}

// Encode serializes a snapshot in the current schema.
func Encode(s Snapshot) ([]byte, error) {
	s.Version = SchemaVersion
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
