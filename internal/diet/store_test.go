package diet

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/2beens/fitlog/internal/localstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, rootPath string) *Store {
	t.Helper()

	snapshots, err := localstore.NewApi(rootPath)
	require.NoError(t, err)

	store := NewStore(snapshots)
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	store.nowFunc = func() time.Time {
		return now
	}

	idCounter := 0
	store.newIDFunc = func() string {
		idCounter++
		return fmt.Sprintf("id-%d", idCounter)
	}
	return store
}

func TestMacros_AddScale(t *testing.T) {
	m := Macros{Calories: 100, Protein: 10, Carbs: 20, Fat: 5}
	sum := m.Add(Macros{Calories: 50, Protein: 5, Carbs: 10, Fat: 2.5})
	assert.Equal(t, Macros{Calories: 150, Protein: 15, Carbs: 30, Fat: 7.5}, sum)
	assert.Equal(t, Macros{Calories: 250, Protein: 25, Carbs: 50, Fat: 12.5}, m.Scale(2.5))
}

func TestSumPortions(t *testing.T) {
	total := SumPortions([]MacroPortion{
		{Macros: Macros{Calories: 100, Protein: 10}, Servings: 2},
		{Macros: Macros{Calories: 50, Carbs: 10, Fat: 1}, Servings: 1},
	})
	assert.Equal(t, Macros{Calories: 250, Protein: 20, Carbs: 10, Fat: 1}, total)
	assert.Equal(t, Macros{}, SumPortions(nil))
}

func TestStore_CustomFoods(t *testing.T) {
	store := newTestStore(t, t.TempDir())
	const userID = "user-1"

	builtinCount := len(store.Foods(userID))
	require.NotZero(t, builtinCount)

	food := store.AddCustomFood(userID, Food{
		Name: "Protein Pudding", Category: "dairy",
		ServingSize: 200, ServingUnit: "g",
		Macros: Macros{Calories: 180, Protein: 20, Carbs: 15, Fat: 4},
	})
	assert.True(t, food.Custom)
	assert.NotEmpty(t, food.ID)
	assert.Len(t, store.Foods(userID), builtinCount+1)

	food.Name = "Protein Pudding Choco"
	updated, err := store.UpdateCustomFood(userID, food.ID, food)
	require.NoError(t, err)
	assert.Equal(t, "Protein Pudding Choco", updated.Name)
	assert.Equal(t, food.ID, updated.ID)

	_, err = store.UpdateCustomFood(userID, "chicken-breast", food)
	assert.ErrorIs(t, err, ErrBuiltinFood)
	_, err = store.UpdateCustomFood(userID, "missing", food)
	assert.ErrorIs(t, err, ErrFoodNotFound)

	store.DeleteCustomFood(userID, food.ID)
	assert.Len(t, store.Foods(userID), builtinCount)
	// missing and built-in ids are no-ops
	store.DeleteCustomFood(userID, food.ID)
	store.DeleteCustomFood(userID, "chicken-breast")
	assert.Len(t, store.Foods(userID), builtinCount)
}

func TestStore_Recipes_DerivedMacros(t *testing.T) {
	store := newTestStore(t, t.TempDir())
	const userID = "user-1"

	// 300g chicken + 200g rice, 2 servings
	recipe, err := store.AddRecipe(userID, "chicken and rice", 2, []RecipeIngredient{
		{FoodID: "chicken-breast", Quantity: 3},
		{FoodID: "white-rice", Quantity: 2},
	})
	require.NoError(t, err)

	wantTotal := Macros{Calories: 165, Protein: 31, Carbs: 0, Fat: 3.6}.Scale(3).
		Add(Macros{Calories: 130, Protein: 2.7, Carbs: 28, Fat: 0.3}.Scale(2))
	assert.InDelta(t, wantTotal.Calories, recipe.TotalMacros.Calories, 0.001)
	assert.InDelta(t, wantTotal.Protein, recipe.TotalMacros.Protein, 0.001)

	// macrosPerServing x servings == totalMacros
	assert.InDelta(t, recipe.TotalMacros.Calories, recipe.MacrosPerServing.Calories*recipe.Servings, 0.001)
	assert.InDelta(t, recipe.TotalMacros.Protein, recipe.MacrosPerServing.Protein*recipe.Servings, 0.001)
	assert.InDelta(t, recipe.TotalMacros.Carbs, recipe.MacrosPerServing.Carbs*recipe.Servings, 0.001)
	assert.InDelta(t, recipe.TotalMacros.Fat, recipe.MacrosPerServing.Fat*recipe.Servings, 0.001)

	// changing servings recomputes per-serving macros
	updated, err := store.UpdateRecipe(userID, recipe.ID, recipe.Name, 4, recipe.Ingredients)
	require.NoError(t, err)
	assert.InDelta(t, recipe.TotalMacros.Calories, updated.TotalMacros.Calories, 0.001)
	assert.InDelta(t, recipe.MacrosPerServing.Calories/2, updated.MacrosPerServing.Calories, 0.001)

	_, err = store.AddRecipe(userID, "broken", 1, []RecipeIngredient{{FoodID: "missing", Quantity: 1}})
	assert.ErrorIs(t, err, ErrFoodNotFound)
	_, err = store.UpdateRecipe(userID, "missing", "x", 1, nil)
	assert.ErrorIs(t, err, ErrRecipeNotFound)

	store.DeleteRecipe(userID, recipe.ID)
	assert.Empty(t, store.Recipes(userID))
}

func TestStore_Meals(t *testing.T) {
	store := newTestStore(t, t.TempDir())
	const userID = "user-1"

	recipe, err := store.AddRecipe(userID, "overnight oats", 1, []RecipeIngredient{
		{FoodID: "oats", Quantity: 1},
		{FoodID: "milk", Quantity: 1},
	})
	require.NoError(t, err)

	meal, err := store.AddMeal(userID, "breakfast combo", []MealItemInput{
		{SourceType: "food", SourceID: "egg", Servings: 3},
		{SourceType: "recipe", SourceID: recipe.ID, Servings: 1},
	})
	require.NoError(t, err)
	require.Len(t, meal.Items, 2)

	// item macros are pre-scaled, the total sums them at multiplier one
	wantTotal := Macros{Calories: 72, Protein: 6.3, Carbs: 0.4, Fat: 4.8}.Scale(3).
		Add(recipe.MacrosPerServing)
	assert.InDelta(t, wantTotal.Calories, meal.TotalMacros.Calories, 0.001)
	assert.InDelta(t, wantTotal.Protein, meal.TotalMacros.Protein, 0.001)

	_, err = store.AddMeal(userID, "broken", []MealItemInput{
		{SourceType: "food", SourceID: "missing", Servings: 1},
	})
	assert.ErrorIs(t, err, ErrFoodNotFound)
	_, err = store.AddMeal(userID, "broken", []MealItemInput{
		{SourceType: "potion", SourceID: "egg", Servings: 1},
	})
	assert.Error(t, err)

	updated, err := store.UpdateMeal(userID, meal.ID, "breakfast", []MealItemInput{
		{SourceType: "food", SourceID: "egg", Servings: 2},
	})
	require.NoError(t, err)
	assert.InDelta(t, 144, updated.TotalMacros.Calories, 0.001)

	_, err = store.UpdateMeal(userID, "missing", "x", nil)
	assert.ErrorIs(t, err, ErrMealNotFound)

	store.DeleteMeal(userID, meal.ID)
	assert.Empty(t, store.Meals(userID))
}

func TestStore_LogFood_FrozenMacros(t *testing.T) {
	store := newTestStore(t, t.TempDir())
	const userID = "user-1"

	food := store.AddCustomFood(userID, Food{
		Name:   "Protein Bar",
		Macros: Macros{Calories: 200, Protein: 20, Carbs: 18, Fat: 7},
	})

	entry, err := store.LogFood(userID, "2025-03-10", "snack", food.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 400.0, entry.Macros.Calories)
	assert.Equal(t, 40.0, entry.Macros.Protein)

	// editing the food later must not reach back into the log
	food.Macros.Calories = 999
	_, err = store.UpdateCustomFood(userID, food.ID, food)
	require.NoError(t, err)

	entries := store.LogForDay(userID, "2025-03-10")
	require.Len(t, entries, 1)
	assert.Equal(t, 400.0, entries[0].Macros.Calories)

	_, err = store.LogFood(userID, "2025-03-10", "snack", "missing", 1)
	assert.ErrorIs(t, err, ErrFoodNotFound)
}

func TestStore_LogMealAndRecipe(t *testing.T) {
	store := newTestStore(t, t.TempDir())
	const userID = "user-1"

	recipe, err := store.AddRecipe(userID, "rice bowl", 2, []RecipeIngredient{
		{FoodID: "white-rice", Quantity: 4},
	})
	require.NoError(t, err)
	meal, err := store.AddMeal(userID, "snack plate", []MealItemInput{
		{SourceType: "food", SourceID: "apple", Servings: 1},
	})
	require.NoError(t, err)

	recipeEntry, err := store.LogRecipe(userID, "2025-03-10", "lunch", recipe.ID, 1)
	require.NoError(t, err)
	assert.InDelta(t, recipe.MacrosPerServing.Calories, recipeEntry.Macros.Calories, 0.001)

	mealEntry, err := store.LogMeal(userID, "2025-03-10", "snack", meal.ID, 2)
	require.NoError(t, err)
	assert.InDelta(t, meal.TotalMacros.Calories*2, mealEntry.Macros.Calories, 0.001)

	_, err = store.LogRecipe(userID, "2025-03-10", "lunch", "missing", 1)
	assert.ErrorIs(t, err, ErrRecipeNotFound)
	_, err = store.LogMeal(userID, "2025-03-10", "snack", "missing", 1)
	assert.ErrorIs(t, err, ErrMealNotFound)
}

func TestStore_RecentFoods(t *testing.T) {
	store := newTestStore(t, t.TempDir())
	const userID = "user-1"

	_, err := store.LogFood(userID, "2025-03-10", "lunch", "chicken-breast", 1)
	require.NoError(t, err)
	_, err = store.LogFood(userID, "2025-03-10", "lunch", "white-rice", 1)
	require.NoError(t, err)
	_, err = store.LogFood(userID, "2025-03-10", "dinner", "chicken-breast", 1)
	require.NoError(t, err)

	// deduplicated, most recent first
	recent := store.RecentFoods(userID)
	require.Len(t, recent, 2)
	assert.Equal(t, "chicken-breast", recent[0].ID)
	assert.Equal(t, "white-rice", recent[1].ID)

	// bounded at 20
	for i := 0; i < 30; i++ {
		food := store.AddCustomFood(userID, Food{Name: fmt.Sprintf("food %d", i)})
		_, err = store.LogFood(userID, "2025-03-10", "snack", food.ID, 1)
		require.NoError(t, err)
	}
	assert.Len(t, store.RecentFoods(userID), 20)
}

func TestStore_DailyMacros_Linearity(t *testing.T) {
	store := newTestStore(t, t.TempDir())
	const userID = "user-1"

	foods := []string{"chicken-breast", "white-rice", "banana", "olive-oil", "egg"}
	rand.Shuffle(len(foods), func(i, j int) {
		foods[i], foods[j] = foods[j], foods[i]
	})

	var want Macros
	for _, id := range foods {
		entry, err := store.LogFood(userID, "2025-03-10", "lunch", id, 1.5)
		require.NoError(t, err)
		want = want.Add(entry.Macros)
	}

	got := store.DailyMacros(userID, "2025-03-10")
	assert.InDelta(t, want.Calories, got.Calories, 0.001)
	assert.InDelta(t, want.Protein, got.Protein, 0.001)
	assert.InDelta(t, want.Carbs, got.Carbs, 0.001)
	assert.InDelta(t, want.Fat, got.Fat, 0.001)

	// other days stay untouched
	assert.Equal(t, Macros{}, store.DailyMacros(userID, "2025-03-11"))
}

func TestStore_DeleteLogEntry(t *testing.T) {
	store := newTestStore(t, t.TempDir())
	const userID = "user-1"

	entry, err := store.LogFood(userID, "2025-03-10", "lunch", "egg", 2)
	require.NoError(t, err)

	store.DeleteLogEntry(userID, "missing")
	require.Len(t, store.LogForDay(userID, "2025-03-10"), 1)

	store.DeleteLogEntry(userID, entry.ID)
	assert.Empty(t, store.LogForDay(userID, "2025-03-10"))
}

func proteinTarget100() GoalsUpdate {
	protein := 100.0
	return GoalsUpdate{DailyProtein: &protein}
}

func TestStore_Streaks(t *testing.T) {
	store := newTestStore(t, t.TempDir())
	const userID = "user-1"
	store.UpdateGoals(userID, proteinTarget100())

	// 4 servings of chicken = 124g protein, past the 90g threshold
	_, err := store.LogFood(userID, "2025-03-10", "lunch", "chicken-breast", 4)
	require.NoError(t, err)
	streaks := store.Streaks(userID)
	assert.Equal(t, 1, streaks.LoggingStreak)
	assert.Equal(t, 1, streaks.ProteinStreak)

	// same day again is idempotent
	_, err = store.LogFood(userID, "2025-03-10", "dinner", "egg", 1)
	require.NoError(t, err)
	streaks = store.Streaks(userID)
	assert.Equal(t, 1, streaks.LoggingStreak)
	assert.Equal(t, 1, streaks.ProteinStreak)

	// consecutive day increments both
	_, err = store.LogFood(userID, "2025-03-11", "lunch", "chicken-breast", 4)
	require.NoError(t, err)
	streaks = store.Streaks(userID)
	assert.Equal(t, 2, streaks.LoggingStreak)
	assert.Equal(t, 2, streaks.ProteinStreak)

	// a low-protein day keeps logging going but not the protein streak
	_, err = store.LogFood(userID, "2025-03-12", "lunch", "apple", 1)
	require.NoError(t, err)
	streaks = store.Streaks(userID)
	assert.Equal(t, 3, streaks.LoggingStreak)
	assert.Equal(t, 2, streaks.ProteinStreak)
	assert.Equal(t, "2025-03-11", streaks.LastProteinHitDate)
}

func TestStore_Streaks_ResetAfterSkippedDay(t *testing.T) {
	store := newTestStore(t, t.TempDir())
	const userID = "user-1"
	store.UpdateGoals(userID, proteinTarget100())

	_, err := store.LogFood(userID, "2025-03-10", "lunch", "chicken-breast", 4)
	require.NoError(t, err)

	// day 2 skipped; day 3 resets both streaks to 1, not 2
	_, err = store.LogFood(userID, "2025-03-12", "lunch", "chicken-breast", 4)
	require.NoError(t, err)

	streaks := store.Streaks(userID)
	assert.Equal(t, 1, streaks.LoggingStreak)
	assert.Equal(t, 1, streaks.ProteinStreak)
	assert.Equal(t, "2025-03-12", streaks.LastProteinHitDate)
}

func TestStore_WeeklyStats(t *testing.T) {
	store := newTestStore(t, t.TempDir())
	const userID = "user-1"
	store.UpdateGoals(userID, proteinTarget100())

	// monday: protein hit, wednesday: low protein, rest: nothing logged
	_, err := store.LogFood(userID, "2025-03-10", "lunch", "chicken-breast", 4)
	require.NoError(t, err)
	_, err = store.LogFood(userID, "2025-03-12", "lunch", "banana", 2)
	require.NoError(t, err)

	stats, err := store.WeeklyStats(userID, "2025-03-10")
	require.NoError(t, err)
	require.Len(t, stats.Days, 7)
	assert.Equal(t, 2, stats.DaysWithLogs)
	assert.Equal(t, 1, stats.ProteinHitDays)

	// empty days are excluded from the denominator, not counted as zero
	assert.InDelta(t, (165*4+105*2.0)/2, stats.AvgCalories, 0.001)
	assert.InDelta(t, (31*4+1.3*2.0)/2, stats.AvgProtein, 0.001)

	_, err = store.WeeklyStats(userID, "not-a-date")
	assert.Error(t, err)
}

func TestStore_TargetMacros(t *testing.T) {
	store := newTestStore(t, t.TempDir())
	const userID = "user-1"

	calories, protein, carbs, fat := 2500.0, 180.0, 250.0, 80.0
	calAdj, proteinAdj := 300.0, 20.0
	store.UpdateGoals(userID, GoalsUpdate{
		DailyCalories:                &calories,
		DailyProtein:                 &protein,
		DailyCarbs:                   &carbs,
		DailyFat:                     &fat,
		TrainingDayCalorieAdjustment: &calAdj,
		TrainingDayProteinAdjustment: &proteinAdj,
	})

	// the training day bump touches calories and protein only
	assert.Equal(t, Macros{Calories: 2800, Protein: 200, Carbs: 250, Fat: 80},
		store.TargetMacrosForDate(userID, true))
	assert.Equal(t, Macros{Calories: 2500, Protein: 180, Carbs: 250, Fat: 80},
		store.TargetMacrosForDate(userID, false))
}

func TestStore_UpdateGoals_PartialMerge(t *testing.T) {
	store := newTestStore(t, t.TempDir())
	const userID = "user-1"

	goalType := "bulk"
	goals := store.UpdateGoals(userID, GoalsUpdate{GoalType: &goalType})
	assert.Equal(t, "bulk", goals.GoalType)
	// untouched fields keep their defaults
	assert.Equal(t, 2000.0, goals.DailyCalories)

	reminders := []string{"08:00", "13:00", "19:00"}
	goals = store.UpdateGoals(userID, GoalsUpdate{MealReminders: &reminders})
	assert.Equal(t, reminders, goals.MealReminders)
	assert.Equal(t, "bulk", goals.GoalType)
}

func TestStore_PersistenceRoundTrip(t *testing.T) {
	rootPath := t.TempDir()
	store := newTestStore(t, rootPath)
	const userID = "user-1"

	food := store.AddCustomFood(userID, Food{Name: "Protein Bar", Macros: Macros{Protein: 20}})
	_, err := store.LogFood(userID, "2025-03-10", "snack", food.ID, 1)
	require.NoError(t, err)

	reloaded := newTestStore(t, rootPath)
	require.Len(t, reloaded.LogForDay(userID, "2025-03-10"), 1)
	recent := reloaded.RecentFoods(userID)
	require.Len(t, recent, 1)
	assert.Equal(t, "Protein Bar", recent[0].Name)
}

func TestStore_SnapshotRestore(t *testing.T) {
	store := newTestStore(t, t.TempDir())

	_, err := store.LogFood("user-1", "2025-03-10", "lunch", "egg", 2)
	require.NoError(t, err)
	snapshot, err := store.Snapshot("user-1")
	require.NoError(t, err)

	other := newTestStore(t, t.TempDir())
	notified := 0
	other.Subscribe(func(string) { notified++ })

	require.NoError(t, other.Restore("user-2", snapshot))
	require.Len(t, other.LogForDay("user-2", "2025-03-10"), 1)
	// a restore must not bounce back into the sync bridge
	assert.Zero(t, notified)

	assert.Error(t, other.Restore("user-2", []byte("{broken")))
}

func TestStore_Reset(t *testing.T) {
	rootPath := t.TempDir()
	store := newTestStore(t, rootPath)
	const userID = "user-1"

	_, err := store.LogFood(userID, "2025-03-10", "lunch", "egg", 2)
	require.NoError(t, err)
	require.NoError(t, store.Reset(userID))

	assert.Empty(t, store.LogForDay(userID, "2025-03-10"))
	assert.Equal(t, defaultGoals(), store.Goals(userID))

	reloaded := newTestStore(t, rootPath)
	assert.Empty(t, reloaded.LogForDay(userID, "2025-03-10"))
}
