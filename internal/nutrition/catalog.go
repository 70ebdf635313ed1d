package nutrition

import "github.com/nutragenie/nutragenie/internal/snapshot"

// Catalog returns the built-in sample dishes. Each call returns a fresh
// slice.
func Catalog() []Dish {
	return []Dish{
		{
			ID: "dish-001", Name: "Grilled Lemon Herb Chicken", Cuisine: "Mediterranean",
			Calories: 420, ProteinGrams: "38g", CarbsGrams: 12, FatGrams: 22,
			CookTimeMinutes: 30, Difficulty: Easy, ImageURL: "images/dishes/lemon-chicken.jpg",
			Tags: []string{"keto", "paleo", "gluten-free", "dairy-free", "halal", "low-sugar"},
			Ingredients: []Ingredient{
				{Name: "chicken", Grams: 180, Calories: 300, Protein: 36},
				{Name: "olive oil", Grams: 10, Calories: 90, Protein: 0},
				{Name: "lemon", Grams: 30, Calories: 10, Protein: 0},
				{Name: "herbs", Grams: 5, Calories: 20, Protein: 2},
			},
		},
		{
			ID: "dish-002", Name: "Chickpea Buddha Bowl", Cuisine: "Mediterranean",
			Calories: 510, ProteinGrams: "19g", CarbsGrams: 68, FatGrams: 18,
			CookTimeMinutes: 25, Difficulty: Easy, ImageURL: "images/dishes/buddha-bowl.jpg",
			Tags: []string{"vegan", "vegetarian", "gluten-free", "dairy-free", "halal", "kosher", "low-fat", "low-sodium", "high-carb"},
			Ingredients: []Ingredient{
				{Name: "chickpeas", Grams: 150, Calories: 240, Protein: 12},
				{Name: "quinoa", Grams: 80, Calories: 150, Protein: 6},
				{Name: "tahini", Grams: 15, Calories: 90, Protein: 1},
				{Name: "vegetables", Grams: 120, Calories: 30, Protein: 0},
			},
		},
		{
			ID: "dish-003", Name: "Beef Tacos", Cuisine: "Mexican",
			Calories: 640, ProteinGrams: "34g", CarbsGrams: 48, FatGrams: 32,
			CookTimeMinutes: 20, Difficulty: Easy, ImageURL: "images/dishes/beef-tacos.jpg",
			Tags: []string{"halal", "high-carb", "carnivore"},
			Ingredients: []Ingredient{
				{Name: "beef", Grams: 150, Calories: 330, Protein: 28},
				{Name: "flour tortilla", Grams: 90, Calories: 250, Protein: 6},
				{Name: "sour cream", Grams: 30, Calories: 60, Protein: 0},
			},
		},
		{
			ID: "dish-004", Name: "Tofu Vegetable Stir-Fry", Cuisine: "Asian",
			Calories: 390, ProteinGrams: "22g", CarbsGrams: 30, FatGrams: 20,
			CookTimeMinutes: 20, Difficulty: Easy, ImageURL: "images/dishes/tofu-stir-fry.jpg",
			Tags: []string{"vegan", "vegetarian", "dairy-free", "halal", "kosher", "low-sugar", "low-fat"},
			Ingredients: []Ingredient{
				{Name: "tofu", Grams: 200, Calories: 180, Protein: 18},
				{Name: "vegetables", Grams: 200, Calories: 60, Protein: 4},
				{Name: "soy sauce", Grams: 15, Calories: 10, Protein: 0},
				{Name: "sesame oil", Grams: 15, Calories: 140, Protein: 0},
			},
		},
		{
			ID: "dish-005", Name: "Salmon Teriyaki with Rice", Cuisine: "Asian",
			Calories: 580, ProteinGrams: "36g", CarbsGrams: 62, FatGrams: 18,
			CookTimeMinutes: 35, Difficulty: Medium, ImageURL: "images/dishes/salmon-teriyaki.jpg",
			Tags: []string{"pescatarian", "dairy-free", "high-carb"},
			Ingredients: []Ingredient{
				{Name: "salmon", Grams: 160, Calories: 320, Protein: 32},
				{Name: "rice", Grams: 150, Calories: 200, Protein: 4},
				{Name: "teriyaki sauce", Grams: 30, Calories: 60, Protein: 0},
			},
		},
		{
			ID: "dish-006", Name: "Spaghetti Bolognese", Cuisine: "Italian",
			Calories: 720, ProteinGrams: "35g", CarbsGrams: 86, FatGrams: 24,
			CookTimeMinutes: 60, Difficulty: Medium, ImageURL: "images/dishes/bolognese.jpg",
			Tags: []string{"high-carb", "dairy-free"},
			Ingredients: []Ingredient{
				{Name: "pasta", Grams: 120, Calories: 420, Protein: 14},
				{Name: "beef", Grams: 100, Calories: 220, Protein: 20},
				{Name: "tomato sauce", Grams: 150, Calories: 80, Protein: 1},
			},
		},
		{
			ID: "dish-007", Name: "Margherita Pizza", Cuisine: "Italian",
			Calories: 800, ProteinGrams: "32g", CarbsGrams: 98, FatGrams: 30,
			CookTimeMinutes: 90, Difficulty: Hard, ImageURL: "images/dishes/margherita.jpg",
			Tags: []string{"vegetarian", "high-carb", "kosher"},
			Ingredients: []Ingredient{
				{Name: "pizza dough", Grams: 200, Calories: 520, Protein: 16},
				{Name: "cheese", Grams: 100, Calories: 250, Protein: 16},
				{Name: "tomato sauce", Grams: 80, Calories: 30, Protein: 0},
			},
		},
		{
			ID: "dish-008", Name: "Lentil Curry", Cuisine: "Indian",
			Calories: 460, ProteinGrams: "24g", CarbsGrams: 64, FatGrams: 10,
			CookTimeMinutes: 45, Difficulty: Medium, ImageURL: "images/dishes/lentil-curry.jpg",
			Tags: []string{"vegan", "vegetarian", "gluten-free", "dairy-free", "halal", "kosher", "low-fat", "low-sugar", "high-carb"},
			Ingredients: []Ingredient{
				{Name: "lentils", Grams: 150, Calories: 260, Protein: 20},
				{Name: "coconut milk", Grams: 60, Calories: 120, Protein: 1},
				{Name: "tomato", Grams: 100, Calories: 20, Protein: 1},
				{Name: "spices", Grams: 10, Calories: 60, Protein: 2},
			},
		},
		{
			ID: "dish-009", Name: "Butter Chicken", Cuisine: "Indian",
			Calories: 690, ProteinGrams: "40g", CarbsGrams: 20, FatGrams: 48,
			CookTimeMinutes: 50, Difficulty: Medium, ImageURL: "images/dishes/butter-chicken.jpg",
			Tags: []string{"keto", "gluten-free", "halal"},
			Ingredients: []Ingredient{
				{Name: "chicken", Grams: 200, Calories: 330, Protein: 38},
				{Name: "butter", Grams: 30, Calories: 215, Protein: 0},
				{Name: "cream", Grams: 50, Calories: 145, Protein: 2},
			},
		},
		{
			ID: "dish-010", Name: "Steak and Eggs", Cuisine: "American",
			Calories: 750, ProteinGrams: "62g", CarbsGrams: 2, FatGrams: 54,
			CookTimeMinutes: 20, Difficulty: Easy, ImageURL: "images/dishes/steak-eggs.jpg",
			Tags: []string{"keto", "paleo", "carnivore", "gluten-free", "low-sugar"},
			Ingredients: []Ingredient{
				{Name: "beef", Grams: 220, Calories: 550, Protein: 50},
				{Name: "eggs", Grams: 100, Calories: 150, Protein: 12},
				{Name: "butter", Grams: 7, Calories: 50, Protein: 0},
			},
		},
		{
			ID: "dish-011", Name: "Greek Salad", Cuisine: "Mediterranean",
			Calories: 310, ProteinGrams: "9g", CarbsGrams: 14, FatGrams: 25,
			CookTimeMinutes: 10, Difficulty: Easy, ImageURL: "images/dishes/greek-salad.jpg",
			Tags: []string{"vegetarian", "keto", "gluten-free", "halal", "kosher", "low-sugar"},
			Ingredients: []Ingredient{
				{Name: "vegetables", Grams: 250, Calories: 60, Protein: 3},
				{Name: "cheese", Grams: 60, Calories: 160, Protein: 6},
				{Name: "olive oil", Grams: 10, Calories: 90, Protein: 0},
			},
		},
		{
			ID: "dish-012", Name: "Shrimp Paella", Cuisine: "Spanish",
			Calories: 620, ProteinGrams: "30g", CarbsGrams: 78, FatGrams: 18,
			CookTimeMinutes: 75, Difficulty: Hard, ImageURL: "images/dishes/paella.jpg",
			Tags: []string{"pescatarian", "gluten-free", "dairy-free", "high-carb"},
			Ingredients: []Ingredient{
				{Name: "rice", Grams: 150, Calories: 270, Protein: 6},
				{Name: "shrimp", Grams: 150, Calories: 150, Protein: 22},
				{Name: "olive oil", Grams: 15, Calories: 130, Protein: 0},
				{Name: "saffron broth", Grams: 200, Calories: 70, Protein: 2},
			},
		},
	}
}

// Cuisines lists the cuisines offered by the recipe screen.
func Cuisines() []string {
	return []string{"American", "Asian", "Indian", "Italian", "Mediterranean", "Mexican", "Spanish"}
}

// Targets are rough daily intake goals.
type Targets struct {
	Calories int
	Protein  int
	Carbs    int
	Fat      int
}

// DefaultDailyCalories is used when body measurements are unknown.
const DefaultDailyCalories = 2000

// DailyTargets estimates daily targets from the profile with a
// Mifflin-St Jeor style resting estimate, a light activity factor and a goal
// adjustment. Macros split 30/40/30 protein/carbs/fat by energy.
func DailyTargets(p snapshot.Profile) Targets {
	kcal := DefaultDailyCalories
	if p.WeightKG > 0 && p.HeightCM > 0 && p.Age > 0 {
		rest := 10*p.WeightKG + 6.25*p.HeightCM - 5*float64(p.Age) - 78
		kcal = int(rest * 1.4)
	}
	switch p.Goal {
	case "lose":
		kcal -= 500
	case "gain":
		kcal += 300
	}
	kcal = max(kcal, 1200)
	return Targets{
		Calories: kcal,
		Protein:  kcal * 30 / 100 / 4,
		Carbs:    kcal * 40 / 100 / 4,
		Fat:      kcal * 30 / 100 / 9,
	}
}

// PerMeal divides the daily targets by meals per day.
func (t Targets) PerMeal(meals int) Targets {
	if meals <= 0 {
		meals = snapshot.DefaultMealsPerDay
	}
	return Targets{
		Calories: t.Calories / meals,
		Protein:  t.Protein / meals,
		Carbs:    t.Carbs / meals,
		Fat:      t.Fat / meals,
	}
}
