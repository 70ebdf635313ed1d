// Package nutrition holds the sample dish catalog and the display-only
// arithmetic the dashboard shows: dish filtering, ordering, ingredient
// substitution and rough daily targets. Nothing here is stored; every value
// is recomputed from the catalog and the profile.
package nutrition

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/nutragenie/nutragenie/internal/snapshot"
)

// Difficulty of preparing a dish.
type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

// Rank orders difficulties; unknown values rank above Hard.
func (d Difficulty) Rank() int {
	switch d {
	case Easy:
		return 0
	case Medium:
		return 1
	case Hard:
		return 2
	default:
		return 3
	}
}

// ParseDifficulty accepts any casing.
func ParseDifficulty(s string) (Difficulty, error) {
	for _, d := range []Difficulty{Easy, Medium, Hard} {
		if strings.EqualFold(s, string(d)) {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown difficulty %q (want Easy, Medium or Hard)", s)
}

// Ingredient is one component of a dish with its share of the totals.
type Ingredient struct {
	Name     string `json:"name"`
	Grams    int    `json:"grams"`
	Calories int    `json:"calories"`
	Protein  int    `json:"protein"`
}

// Dish is a catalog entry.
type Dish struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Cuisine         string       `json:"cuisine"`
	Calories        int          `json:"calories"`
	ProteinGrams    string       `json:"protein_grams"`
	CarbsGrams      int          `json:"carbs_grams"`
	FatGrams        int          `json:"fat_grams"`
	CookTimeMinutes int          `json:"cook_time_minutes"`
	Difficulty      Difficulty   `json:"difficulty"`
	ImageURL        string       `json:"image_url"`
	Tags            []string     `json:"tags"`
	Ingredients     []Ingredient `json:"ingredients"`
}

// Protein parses ProteinGrams ("32g") into grams.
func (d Dish) Protein() int {
	n, _ := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(d.ProteinGrams), "g"))
	return n
}

// HasTag reports whether the dish carries tag.
func (d Dish) HasTag(tag string) bool {
	for _, t := range d.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// conditionTags maps a health condition to the tag a dish needs to suit it.
var conditionTags = map[string]string{
	"diabetes":         "low-sugar",
	"hypertension":     "low-sodium",
	"celiac":           "gluten-free",
	"heart-disease":    "low-sodium",
	"high-cholesterol": "low-fat",
	"kidney-disease":   "low-sodium",
}

// Compatible reports whether the dish satisfies every dietary restriction.
// A restriction is satisfied by a dish tagged with it; "none" imposes
// nothing.
func Compatible(d Dish, restrictions []string) bool {
	for _, r := range restrictions {
		if r == "" || r == "none" {
			continue
		}
		if !d.HasTag(r) {
			return false
		}
	}
	return true
}

// Suitable extends Compatible with health conditions and free-text
// allergies: a dish containing an ingredient named in allergies is out.
func Suitable(d Dish, p snapshot.Profile) bool {
	if !Compatible(d, p.Restrictions) {
		return false
	}
	for _, c := range p.Conditions {
		if tag, ok := conditionTags[c]; ok && !d.HasTag(tag) {
			return false
		}
	}
	for _, allergen := range splitAllergies(p.Allergies) {
		for _, ing := range d.Ingredients {
			if strings.Contains(strings.ToLower(ing.Name), allergen) {
				return false
			}
		}
	}
	return true
}

func splitAllergies(s string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool { return r == ',' || r == ';' }) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Recommend returns the suitable dishes a profile can cook within its time
// and skill limits: dishes of the preferred cuisine first, then by cook time
// and name.
func Recommend(p snapshot.Profile, catalog []Dish) []Dish {
	maxSkill := Hard.Rank()
	if d, err := ParseDifficulty(p.Skill); err == nil {
		maxSkill = d.Rank()
	}
	var out []Dish
	for _, d := range catalog {
		if !Suitable(d, p) {
			continue
		}
		if p.MaxCookMinutes > 0 && d.CookTimeMinutes > p.MaxCookMinutes {
			continue
		}
		if d.Difficulty.Rank() > maxSkill {
			continue
		}
		out = append(out, d)
	}
	sort.SliceStable(out, func(i, j int) bool {
		ci := strings.EqualFold(out[i].Cuisine, p.Cuisine)
		cj := strings.EqualFold(out[j].Cuisine, p.Cuisine)
		if ci != cj {
			return ci
		}
		if out[i].CookTimeMinutes != out[j].CookTimeMinutes {
			return out[i].CookTimeMinutes < out[j].CookTimeMinutes
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// ErrNoSubstitute is returned when a replacement is not in the
// substitution table.
var ErrNoSubstitute = errors.New("no known substitute")

// Swap scales an ingredient's calories and protein when it is replaced.
type Swap struct {
	Calories float64
	Protein  float64
}

// Substitutions lists the known replacements per ingredient.
var Substitutions = map[string]map[string]Swap{
	"beef":           {"tofu": {0.55, 0.6}, "lentils": {0.6, 0.7}, "turkey": {0.75, 1.05}},
	"chicken":        {"tofu": {0.7, 0.5}, "tempeh": {1.1, 0.7}, "chickpeas": {1.0, 0.35}},
	"rice":           {"cauliflower rice": {0.2, 0.5}, "quinoa": {1.1, 1.6}},
	"pasta":          {"zucchini noodles": {0.15, 0.25}, "lentil pasta": {0.95, 2.0}},
	"butter":         {"olive oil": {1.2, 0}},
	"sour cream":     {"greek yogurt": {0.45, 2.5}},
	"cheese":         {"nutritional yeast": {0.5, 0.9}},
	"salmon":         {"tofu": {0.4, 0.45}},
	"flour tortilla": {"lettuce wrap": {0.05, 0.1}, "corn tortilla": {0.7, 0.6}},
}

// Substitute returns a copy of d with ingredient from replaced by to, its
// calories and protein adjusted by the swap factors. d is not modified.
func Substitute(d Dish, from, to string) (Dish, error) {
	from, to = strings.ToLower(strings.TrimSpace(from)), strings.ToLower(strings.TrimSpace(to))
	idx := -1
	for i, ing := range d.Ingredients {
		if strings.EqualFold(ing.Name, from) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Dish{}, fmt.Errorf("%s has no ingredient %q", d.Name, from)
	}
	swap, ok := Substitutions[from][to]
	if !ok {
		return Dish{}, fmt.Errorf("%w for %s -> %s (known: %s)", ErrNoSubstitute, from, to, strings.Join(SubstitutesFor(from), ", "))
	}

	out := d
	out.Ingredients = append([]Ingredient(nil), d.Ingredients...)
	out.Tags = append([]string(nil), d.Tags...)
	old := out.Ingredients[idx]
	repl := Ingredient{
		Name:     to,
		Grams:    old.Grams,
		Calories: int(float64(old.Calories)*swap.Calories + 0.5),
		Protein:  int(float64(old.Protein)*swap.Protein + 0.5),
	}
	out.Ingredients[idx] = repl
	out.Calories = max(0, d.Calories-old.Calories+repl.Calories)
	out.ProteinGrams = fmt.Sprintf("%dg", max(0, d.Protein()-old.Protein+repl.Protein))
	out.Name = fmt.Sprintf("%s (with %s)", d.Name, to)
	return out, nil
}

// SubstitutesFor lists known replacements for an ingredient, sorted.
func SubstitutesFor(ingredient string) []string {
	var out []string
	for to := range Substitutions[strings.ToLower(ingredient)] {
		out = append(out, to)
	}
	sort.Strings(out)
	return out
}

// Find looks a dish up by id.
func Find(catalog []Dish, id string) (Dish, bool) {
	for _, d := range catalog {
		if d.ID == id {
			return d, true
		}
	}
	return Dish{}, false
}
