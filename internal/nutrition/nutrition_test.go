package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutragenie/nutragenie/internal/snapshot"
)

func ids(dishes []Dish) []string {
	out := make([]string, 0, len(dishes))
	for _, d := range dishes {
		out = append(out, d.ID)
	}
	return out
}

func mustFind(t *testing.T, id string) Dish {
	t.Helper()
	d, ok := Find(Catalog(), id)
	require.True(t, ok, id)
	return d
}

func TestCompatible(t *testing.T) {
	bowl := mustFind(t, "dish-002")
	chicken := mustFind(t, "dish-001")

	assert.True(t, Compatible(bowl, []string{"vegan", "gluten-free"}))
	assert.False(t, Compatible(chicken, []string{"vegan"}))
	assert.True(t, Compatible(chicken, []string{"none"}))
	assert.True(t, Compatible(chicken, nil))
}

func TestRecommend(t *testing.T) {
	tests := []struct {
		name    string
		profile snapshot.Profile
		want    []string
	}{
		{
			name:    "vegan easy quick, cuisine first",
			profile: snapshot.Profile{Restrictions: []string{"vegan"}, Skill: "Easy", MaxCookMinutes: 30, Cuisine: "Asian"},
			want:    []string{"dish-004", "dish-002"},
		},
		{
			name:    "allergy excludes ingredient",
			profile: snapshot.Profile{Restrictions: []string{"vegan"}, Skill: "Easy", MaxCookMinutes: 30, Allergies: "Tofu, peanuts"},
			want:    []string{"dish-002"},
		},
		{
			name:    "condition requires tag",
			profile: snapshot.Profile{Restrictions: []string{"vegan"}, Conditions: []string{"diabetes"}, MaxCookMinutes: 60},
			want:    []string{"dish-004", "dish-008"},
		},
		{
			name:    "nothing fits",
			profile: snapshot.Profile{Restrictions: []string{"vegan", "carnivore"}},
			want:    []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Recommend(tt.profile, Catalog())))
		})
	}
}

func TestRecommend_DefaultProfile(t *testing.T) {
	p := snapshot.NewProfile(snapshot.DefaultSnapshot())
	got := Recommend(p, Catalog())
	require.NotEmpty(t, got)
	for _, d := range got {
		assert.LessOrEqual(t, d.CookTimeMinutes, snapshot.DefaultMaxCookMinutes)
	}
}

func TestSubstitute(t *testing.T) {
	tacos := mustFind(t, "dish-003")

	swapped, err := Substitute(tacos, "Beef", "tofu")
	require.NoError(t, err)
	assert.Equal(t, 492, swapped.Calories)
	assert.Equal(t, "23g", swapped.ProteinGrams)
	assert.Equal(t, 23, swapped.Protein())
	assert.Equal(t, "Beef Tacos (with tofu)", swapped.Name)
	assert.Equal(t, "tofu", swapped.Ingredients[0].Name)

	assert.Equal(t, 640, tacos.Calories, "original is untouched")
	assert.Equal(t, "beef", tacos.Ingredients[0].Name)

	_, err = Substitute(tacos, "beef", "seitan")
	assert.ErrorIs(t, err, ErrNoSubstitute)

	_, err = Substitute(tacos, "salmon", "tofu")
	assert.Error(t, err)

	assert.Equal(t, []string{"lentils", "tofu", "turkey"}, SubstitutesFor("beef"))
}

func TestDifficulty(t *testing.T) {
	d, err := ParseDifficulty("medium")
	require.NoError(t, err)
	assert.Equal(t, Medium, d)
	_, err = ParseDifficulty("chef")
	assert.Error(t, err)
	assert.Less(t, Easy.Rank(), Hard.Rank())
}

func TestDailyTargets(t *testing.T) {
	def := DailyTargets(snapshot.Profile{})
	assert.Equal(t, Targets{Calories: 2000, Protein: 150, Carbs: 200, Fat: 66}, def)

	p := snapshot.Profile{WeightKG: 65, HeightCM: 170, Age: 34, Goal: "lose"}
	assert.Equal(t, 1550, DailyTargets(p).Calories)

	assert.Equal(t, 666, def.PerMeal(3).Calories)
	assert.Equal(t, 666, def.PerMeal(0).Calories)
}
