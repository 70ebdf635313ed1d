// Package onboarding defines the NutraGenie onboarding screens and binds
// their wizards to the persisted snapshot.
package onboarding

import (
	"fmt"
	"strings"

	"github.com/nutragenie/nutragenie/internal/conflict"
	"github.com/nutragenie/nutragenie/internal/nutrition"
	"github.com/nutragenie/nutragenie/internal/snapshot"
	"github.com/nutragenie/nutragenie/internal/wizard"
)

// Screen ids in flow order.
const (
	ScreenSignup  = "signup"
	ScreenDietary = "dietary"
	ScreenRecipes = "recipes"
)

// Screen is one page of the onboarding flow: an ordered set of wizard
// sections plus the conflict tables its option fields toggle through.
type Screen struct {
	ID       string
	Title    string
	Intro    string
	Sections []wizard.SectionSpec
	// Tables maps "<section>.<field>" to a conflict table name.
	Tables map[string]string
}

// Key returns the snapshot key of a field.
func Key(sectionID, field string) string {
	return sectionID + "." + field
}

// NewWizard builds a wizard for the screen.
func (s Screen) NewWizard(opts ...wizard.Option) (*wizard.Wizard, error) {
	w, err := wizard.New(s.Sections, opts...)
	if err != nil {
		return nil, fmt.Errorf("screen %s: %w", s.ID, err)
	}
	return w, nil
}

// SectionIDs lists the screen's section ids in order.
func (s Screen) SectionIDs() []string {
	out := make([]string, 0, len(s.Sections))
	for _, sec := range s.Sections {
		out = append(out, sec.ID)
	}
	return out
}

// Table returns the conflict table for an option field, if any.
func (s Screen) Table(tables conflict.Tables, sectionID, field string) (*conflict.Table, bool) {
	name, ok := s.Tables[Key(sectionID, field)]
	if !ok {
		return nil, false
	}
	t, err := tables.Get(name)
	if err != nil {
		return nil, false
	}
	return t, true
}

// Screens returns the flow's screens in order. Option lists for conflict
// fields come from tables.
func Screens(tables conflict.Tables) []Screen {
	return []Screen{signupScreen(), dietaryScreen(tables), recipesScreen()}
}

// FindScreen looks a screen up by id.
func FindScreen(screens []Screen, id string) (Screen, error) {
	for _, s := range screens {
		if s.ID == id {
			return s, nil
		}
	}
	ids := make([]string, 0, len(screens))
	for _, s := range screens {
		ids = append(ids, s.ID)
	}
	return Screen{}, fmt.Errorf("unknown screen %q (want one of %s)", id, strings.Join(ids, ", "))
}

// NextScreen returns the first screen with an unconfirmed section in p, or
// "" when every screen is done.
func NextScreen(screens []Screen, p snapshot.Profile) string {
	for _, s := range screens {
		if !p.Onboarded(s.SectionIDs()...) {
			return s.ID
		}
	}
	return ""
}

func signupScreen() Screen {
	return Screen{
		ID:    ScreenSignup,
		Title: "Create your account",
		Intro: "Tell us who you are so we can save your plan.",
		Sections: []wizard.SectionSpec{
			{ID: "account", Title: "Account", Fields: []wizard.FieldSpec{
				{Name: "name", Label: "Full name", Required: true, Rules: []wizard.Rule{
					wizard.MinLength(2, "Full name"), wizard.MaxLength(80, "Full name"),
				}},
				{Name: "email", Label: "Email", Required: true, Rules: []wizard.Rule{
					wizard.Pattern(wizard.EmailPattern, "enter a valid email address"),
				}},
				{Name: "phone", Label: "Phone", Rules: []wizard.Rule{
					wizard.Pattern(wizard.PhonePattern, "enter a valid phone number"),
				}},
			}},
			{ID: "location", Title: "Location", Fields: []wizard.FieldSpec{
				{Name: "zip", Label: "ZIP code", Required: true, Rules: []wizard.Rule{
					wizard.Pattern(wizard.ZIPPattern, "enter a 5-digit ZIP code"),
				}},
			}},
			{ID: "body", Title: "Body", Fields: []wizard.FieldSpec{
				{Name: "age", Label: "Age", Required: true, Rules: []wizard.Rule{
					wizard.MustExpr("number && value == int(value) && value >= 13 && value <= 120", "age must be a whole number between 13 and 120"),
				}},
				{Name: "height", Label: "Height (cm)", Required: true, Rules: []wizard.Rule{
					wizard.NumberRange(100, 250, "Height"),
				}},
				{Name: "weight", Label: "Weight (kg)", Required: true, Rules: []wizard.Rule{
					wizard.NumberRange(30, 300, "Weight"),
				}},
			}},
		},
	}
}

func dietaryScreen(tables conflict.Tables) Screen {
	options := func(name string) []string {
		if t, err := tables.Get(name); err == nil {
			return append([]string(nil), t.Options...)
		}
		return nil
	}
	return Screen{
		ID:    ScreenDietary,
		Title: "Dietary preferences",
		Intro: "Pick what you eat and what you avoid. Conflicting choices are swapped out automatically.",
		Sections: []wizard.SectionSpec{
			{ID: "restrictions", Title: "Diet", Fields: []wizard.FieldSpec{
				{Name: "selected", Label: "Diet", Required: true, Multi: true, Options: options(conflict.Dietary), Rules: []wizard.Rule{
					wizard.MinItems(1, "diet (or none)"),
				}},
			}},
			{ID: "health", Title: "Health", Fields: []wizard.FieldSpec{
				{Name: "conditions", Label: "Health conditions", Required: true, Multi: true, Options: options(conflict.Health), Rules: []wizard.Rule{
					wizard.MinItems(1, "condition (or none)"),
				}},
				{Name: "allergies", Label: "Allergies", Rules: []wizard.Rule{
					wizard.MaxLength(200, "Allergies"),
				}},
			}},
			{ID: "goal", Title: "Goal", Fields: []wizard.FieldSpec{
				{Name: "goal", Label: "Goal", Required: true, Options: []string{"lose", "maintain", "gain"}, Rules: []wizard.Rule{
					wizard.OneOf("Goal", "lose", "maintain", "gain"),
				}},
			}},
		},
		Tables: map[string]string{
			Key("restrictions", "selected"): conflict.Dietary,
			Key("health", "conditions"):     conflict.Health,
		},
	}
}

func recipesScreen() Screen {
	difficulties := []string{string(nutrition.Easy), string(nutrition.Medium), string(nutrition.Hard)}
	return Screen{
		ID:    ScreenRecipes,
		Title: "Recipe preferences",
		Intro: "Tell us how you like to cook.",
		Sections: []wizard.SectionSpec{
			{ID: "cuisine", Title: "Cuisine", Fields: []wizard.FieldSpec{
				{Name: "cuisine", Label: "Favourite cuisine", Required: true, Options: nutrition.Cuisines(), Rules: []wizard.Rule{
					wizard.OneOf("Cuisine", nutrition.Cuisines()...),
				}},
			}},
			{ID: "cooking", Title: "Cooking", Fields: []wizard.FieldSpec{
				{Name: "skill", Label: "Skill level", Required: true, Options: difficulties, Rules: []wizard.Rule{
					wizard.OneOf("Skill level", difficulties...),
				}},
				{Name: "time", Label: "Max cook time (min)", Required: true, Rules: []wizard.Rule{
					wizard.NumberRange(5, 240, "Cook time"),
				}},
				{Name: "meals", Label: "Meals per day", Required: true, Rules: []wizard.Rule{
					wizard.MustExpr("number && value == int(value) && value >= 1 && value <= 6", "meals per day must be a whole number from 1 to 6"),
				}},
			}},
		},
	}
}
