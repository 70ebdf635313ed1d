package snapshot

import (
	"strconv"
	"strings"
)

// Profile defaults for fields a user has not filled in yet.
const (
	DefaultGoal           = "maintain"
	DefaultMaxCookMinutes = 60
	DefaultMealsPerDay    = 3
)

// Profile is the typed view of a snapshot used by the home dashboard, the
// dish recommender and the profile command. Zero numbers mean unknown.
type Profile struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone,omitempty"`
	ZIP            string          `json:"zip"`
	Age            int             `json:"age"`
	HeightCM       float64         `json:"height_cm"`
	WeightKG       float64         `json:"weight_kg"`
	Restrictions   []string        `json:"restrictions"`
	Conditions     []string        `json:"conditions"`
	Allergies      string          `json:"allergies,omitempty"`
	Goal           string          `json:"goal"`
	Cuisine        string          `json:"cuisine,omitempty"`
	Skill          string          `json:"skill,omitempty"`
	MaxCookMinutes int             `json:"max_cook_minutes"`
	MealsPerDay    int             `json:"meals_per_day"`
	Avatar         string          `json:"avatar"`
	Confirmed      map[string]bool `json:"confirmed"`
}

// NewProfile builds a Profile from any snapshot, including an empty or
// partially written one. Missing and unparseable fields get their defaults.
func NewProfile(s Snapshot) Profile {
	s = Merge(DefaultSnapshot(), s)
	p := Profile{
		ID:             s.ID,
		Name:           text(s, KeyName),
		Email:          text(s, KeyEmail),
		Phone:          text(s, KeyPhone),
		ZIP:            text(s, KeyZIP),
		Age:            int(number(s, KeyAge, 0)),
		HeightCM:       number(s, KeyHeight, 0),
		WeightKG:       number(s, KeyWeight, 0),
		Restrictions:   s.List(KeyRestrictions),
		Conditions:     s.List(KeyConditions),
		Allergies:      text(s, KeyAllergy),
		Goal:           text(s, KeyGoal),
		Cuisine:        text(s, KeyCuisine),
		Skill:          text(s, KeySkill),
		MaxCookMinutes: int(number(s, KeyCookTime, DefaultMaxCookMinutes)),
		MealsPerDay:    int(number(s, KeyMeals, DefaultMealsPerDay)),
		Avatar:         text(s, KeyAvatar),
		Confirmed:      s.Clone().Confirmed,
	}
	if p.Goal == "" {
		p.Goal = DefaultGoal
	}
	if p.Avatar == "" {
		p.Avatar = DefaultAvatar
	}
	return p
}

// BMI returns the body mass index, or 0 when height or weight is unknown.
func (p Profile) BMI() float64 {
	if p.HeightCM <= 0 || p.WeightKG <= 0 {
		return 0
	}
	m := p.HeightCM / 100
	return p.WeightKG / (m * m)
}

// Onboarded reports whether the given sections are all confirmed.
func (p Profile) Onboarded(sections ...string) bool {
	for _, id := range sections {
		if !p.Confirmed[id] {
			return false
		}
	}
	return true
}

// DisplayName falls back to the email's local part, then "there".
func (p Profile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	if i := strings.IndexByte(p.Email, '@'); i > 0 {
		return p.Email[:i]
	}
	return "there"
}

func text(s Snapshot, key string) string {
	v, _ := s.Get(key)
	return strings.TrimSpace(v)
}

func number(s Snapshot, key string, def float64) float64 {
	v := text(s, key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil || n < 0 {
		return def
	}
	return n
}
