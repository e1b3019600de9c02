package diet

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/fitlog/internal/localstore"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// StoreName is the snapshot / sync document name of the diet store.
const StoreName = "diet"

// proteinHitFactor: a day counts as a protein hit at 90% of target or more.
const proteinHitFactor = 0.9

// recentFoodsLimit bounds the deduplicated quick re-log list.
const recentFoodsLimit = 20

var (
	ErrFoodNotFound   = errors.New("food not found")
	ErrRecipeNotFound = errors.New("recipe not found")
	ErrMealNotFound   = errors.New("meal not found")
	ErrBuiltinFood    = errors.New("built-in foods are immutable")
)

// Store owns all per-user nutrition state: custom foods, recipes, meals,
// the food log, goals and streaks. Every mutation is persisted to the local
// snapshot and announced to subscribers (the sync bridge). Log entries are
// immutable once written, with macros frozen at log time.
type Store struct {
	mu        sync.Mutex
	snapshots *localstore.Api
	states    map[string]*State

	subscribers []func(userID string)

	// overridable in tests
	nowFunc   func() time.Time
	newIDFunc func() string
}

func NewStore(snapshots *localstore.Api) *Store {
	return &Store{
		snapshots: snapshots,
		states:    map[string]*State{},
		nowFunc:   time.Now,
		newIDFunc: func() string {
			return uuid.NewString()
		},
	}
}

// Subscribe registers a mutation listener. Not safe to call concurrently
// with mutations; wire all subscribers up front.
func (s *Store) Subscribe(fn func(userID string)) {
	s.subscribers = append(s.subscribers, fn)
}

func (s *Store) state(userID string) *State {
	if st, ok := s.states[userID]; ok {
		return st
	}

	st := newState()
	found, err := s.snapshots.Load(userID, StoreName, st)
	if err != nil {
		log.Errorf("diet store: load snapshot for user [%s]: %s", userID, err)
		st = newState()
	}
	if found {
		log.Debugf("diet store: state hydrated for user [%s]", userID)
	}

	s.states[userID] = st
	return st
}

func (s *Store) afterMutation(userID string) {
	if err := s.snapshots.Save(userID, StoreName, s.states[userID]); err != nil {
		log.Errorf("diet store: save snapshot for user [%s]: %s", userID, err)
	}
	for _, fn := range s.subscribers {
		fn(userID)
	}
}

// Foods returns the built-in catalog plus the user's custom foods.
func (s *Store) Foods(userID string) []Food {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(userID)
	foods := make([]Food, 0, len(foodCatalog)+len(st.CustomFoods))
	foods = append(foods, foodCatalog...)
	foods = append(foods, st.CustomFoods...)
	return foods
}

// foodByID resolves a food from the catalog or the user's custom foods.
func foodByID(st *State, foodID string) (Food, bool) {
	if f, ok := CatalogFoodByID(foodID); ok {
		return f, true
	}
	for _, f := range st.CustomFoods {
		if f.ID == foodID {
			return f, true
		}
	}
	return Food{}, false
}

// AddCustomFood creates a user food entry.
func (s *Store) AddCustomFood(userID string, food Food) Food {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(userID)
	food.ID = s.newIDFunc()
	food.Custom = true
	st.CustomFoods = append(st.CustomFoods, food)

	s.afterMutation(userID)
	return food
}

// UpdateCustomFood replaces the mutable fields of a custom food. Built-in
// catalog entries cannot be touched.
func (s *Store) UpdateCustomFood(userID, foodID string, food Food) (Food, error) {
	if _, ok := CatalogFoodByID(foodID); ok {
		return Food{}, ErrBuiltinFood
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(userID)
	for i := range st.CustomFoods {
		if st.CustomFoods[i].ID != foodID {
			continue
		}
		food.ID = foodID
		food.Custom = true
		st.CustomFoods[i] = food
		s.afterMutation(userID)
		return food, nil
	}
	return Food{}, ErrFoodNotFound
}

// DeleteCustomFood removes a custom food. Missing or built-in ids are a
// no-op; already frozen log entries keep their macros either way.
func (s *Store) DeleteCustomFood(userID, foodID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(userID)
	for i := range st.CustomFoods {
		if st.CustomFoods[i].ID != foodID {
			continue
		}
		st.CustomFoods = append(st.CustomFoods[:i], st.CustomFoods[i+1:]...)
		s.afterMutation(userID)
		return
	}
}

// RecentFoods resolves the quick re-log list, most recently logged first.
// Foods deleted in the meantime are skipped.
func (s *Store) RecentFoods(userID string) []Food {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(userID)
	foods := make([]Food, 0, len(st.RecentFoodIDs))
	for _, id := range st.RecentFoodIDs {
		if f, ok := foodByID(st, id); ok {
			foods = append(foods, f)
		}
	}
	return foods
}

// recomputeRecipeMacros rebuilds both derived fields from scratch via the
// aggregation rule. Servings must be positive, that is the caller's deal.
func recomputeRecipeMacros(st *State, recipe *Recipe) error {
	portions := make([]MacroPortion, 0, len(recipe.Ingredients))
	for _, ing := range recipe.Ingredients {
		food, ok := foodByID(st, ing.FoodID)
		if !ok {
			return fmt.Errorf("ingredient [%s]: %w", ing.FoodID, ErrFoodNotFound)
		}
		portions = append(portions, MacroPortion{Macros: food.Macros, Servings: ing.Quantity})
	}
	recipe.TotalMacros = SumPortions(portions)
	recipe.MacrosPerServing = recipe.TotalMacros.Scale(1 / recipe.Servings)
	return nil
}

// AddRecipe creates a recipe with derived macros computed up front.
func (s *Store) AddRecipe(userID, name string, servings float64, ingredients []RecipeIngredient) (Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(userID)
	now := s.nowFunc()
	recipe := Recipe{
		ID:          s.newIDFunc(),
		Name:        name,
		Servings:    servings,
		Ingredients: append([]RecipeIngredient{}, ingredients...),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := recomputeRecipeMacros(st, &recipe); err != nil {
		return Recipe{}, err
	}
	st.Recipes = append(st.Recipes, recipe)

	s.afterMutation(userID)
	return recipe, nil
}

// UpdateRecipe replaces name, servings and ingredients, recomputing the
// derived macros.
func (s *Store) UpdateRecipe(userID, recipeID, name string, servings float64, ingredients []RecipeIngredient) (Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(userID)
	for i := range st.Recipes {
		if st.Recipes[i].ID != recipeID {
			continue
		}
		updated := st.Recipes[i]
		updated.Name = name
		updated.Servings = servings
		updated.Ingredients = append([]RecipeIngredient{}, ingredients...)
		updated.UpdatedAt = s.nowFunc()
		if err := recomputeRecipeMacros(st, &updated); err != nil {
			return Recipe{}, err
		}
		st.Recipes[i] = updated
		s.afterMutation(userID)
		return updated, nil
	}
	return Recipe{}, ErrRecipeNotFound
}

// DeleteRecipe removes a recipe. Missing id is a no-op.
func (s *Store) DeleteRecipe(userID, recipeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(userID)
	for i := range st.Recipes {
		if st.Recipes[i].ID != recipeID {
			continue
		}
		st.Recipes = append(st.Recipes[:i], st.Recipes[i+1:]...)
		s.afterMutation(userID)
		return
	}
}

// Recipes returns all recipes of the user.
func (s *Store) Recipes(userID string) []Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(userID)
	recipes := make([]Recipe, 0, len(st.Recipes))
	for _, r := range st.Recipes {
		recipe := r
		recipe.Ingredients = append([]RecipeIngredient(nil), r.Ingredients...)
		recipes = append(recipes, recipe)
	}
	return recipes
}

// resolveMealItems scales item macros at creation time; meal totals then
// aggregate them with a fixed multiplier of one.
func (s *Store) resolveMealItems(st *State, items []MealItemInput) ([]MealItem, Macros, error) {
	resolved := make([]MealItem, 0, len(items))
	for _, item := range items {
		mealItem := MealItem{
			SourceType: item.SourceType,
			SourceID:   item.SourceID,
			Servings:   item.Servings,
		}
		switch item.SourceType {
		case "food":
			food, ok := foodByID(st, item.SourceID)
			if !ok {
				return nil, Macros{}, fmt.Errorf("meal item [%s]: %w", item.SourceID, ErrFoodNotFound)
			}
			mealItem.Name = food.Name
			mealItem.Macros = food.Macros.Scale(item.Servings)
		case "recipe":
			recipe, found := recipeByID(st, item.SourceID)
			if !found {
				return nil, Macros{}, fmt.Errorf("meal item [%s]: %w", item.SourceID, ErrRecipeNotFound)
			}
			mealItem.Name = recipe.Name
			mealItem.Macros = recipe.MacrosPerServing.Scale(item.Servings)
		default:
			return nil, Macros{}, fmt.Errorf("meal item [%s]: unknown source type %q", item.SourceID, item.SourceType)
		}
		resolved = append(resolved, mealItem)
	}

	portions := make([]MacroPortion, 0, len(resolved))
	for _, item := range resolved {
		portions = append(portions, MacroPortion{Macros: item.Macros, Servings: 1})
	}
	return resolved, SumPortions(portions), nil
}

func recipeByID(st *State, recipeID string) (Recipe, bool) {
	for _, r := range st.Recipes {
		if r.ID == recipeID {
			return r, true
		}
	}
	return Recipe{}, false
}

// AddMeal creates a saved meal with item macros resolved and frozen now.
func (s *Store) AddMeal(userID, name string, items []MealItemInput) (Meal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(userID)
	resolved, total, err := s.resolveMealItems(st, items)
	if err != nil {
		return Meal{}, err
	}

	now := s.nowFunc()
	meal := Meal{
		ID:          s.newIDFunc(),
		Name:        name,
		Items:       resolved,
		TotalMacros: total,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	st.Meals = append(st.Meals, meal)

	s.afterMutation(userID)
	return meal, nil
}

// UpdateMeal replaces name and items, recomputing the total.
func (s *Store) UpdateMeal(userID, mealID, name string, items []MealItemInput) (Meal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(userID)
	for i := range st.Meals {
		if st.Meals[i].ID != mealID {
			continue
		}
		resolved, total, err := s.resolveMealItems(st, items)
		if err != nil {
			return Meal{}, err
		}
		updated := st.Meals[i]
		updated.Name = name
		updated.Items = resolved
		updated.TotalMacros = total
		updated.UpdatedAt = s.nowFunc()
		st.Meals[i] = updated
		s.afterMutation(userID)
		return updated, nil
	}
	return Meal{}, ErrMealNotFound
}

// DeleteMeal removes a meal. Missing id is a no-op.
func (s *Store) DeleteMeal(userID, mealID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(userID)
	for i := range st.Meals {
		if st.Meals[i].ID != mealID {
			continue
		}
		st.Meals = append(st.Meals[:i], st.Meals[i+1:]...)
		s.afterMutation(userID)
		return
	}
}

// Meals returns all saved meals of the user.
func (s *Store) Meals(userID string) []Meal {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(userID)
	meals := make([]Meal, 0, len(st.Meals))
	for _, m := range st.Meals {
		meal := m
		meal.Items = append([]MealItem(nil), m.Items...)
		meals = append(meals, meal)
	}
	return meals
}

// LogFood logs a food with macros frozen at log time and pushes the food
// onto the deduplicated recent list.
func (s *Store) LogFood(userID, date, mealSlot, foodID string, servings float64) (FoodLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(userID)
	food, ok := foodByID(st, foodID)
	if !ok {
		return FoodLogEntry{}, ErrFoodNotFound
	}

	entry := s.appendLogEntry(st, userID, date, mealSlot, "food", food.ID, food.Name, servings, food.Macros.Scale(servings))

	recent := make([]string, 0, recentFoodsLimit)
	recent = append(recent, foodID)
	for _, id := range st.RecentFoodIDs {
		if id == foodID || len(recent) == recentFoodsLimit {
			continue
		}
		recent = append(recent, id)
	}
	st.RecentFoodIDs = recent

	s.afterMutation(userID)
	return entry, nil
}

// LogMeal logs a saved meal, total macros scaled by servings and frozen.
func (s *Store) LogMeal(userID, date, mealSlot, mealID string, servings float64) (FoodLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(userID)
	for _, meal := range st.Meals {
		if meal.ID != mealID {
			continue
		}
		entry := s.appendLogEntry(st, userID, date, mealSlot, "meal", meal.ID, meal.Name, servings, meal.TotalMacros.Scale(servings))
		s.afterMutation(userID)
		return entry, nil
	}
	return FoodLogEntry{}, ErrMealNotFound
}

// LogRecipe logs recipe servings, per-serving macros scaled and frozen.
func (s *Store) LogRecipe(userID, date, mealSlot, recipeID string, servings float64) (FoodLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(userID)
	recipe, found := recipeByID(st, recipeID)
	if !found {
		return FoodLogEntry{}, ErrRecipeNotFound
	}

	entry := s.appendLogEntry(st, userID, date, mealSlot, "recipe", recipe.ID, recipe.Name, servings, recipe.MacrosPerServing.Scale(servings))
	s.afterMutation(userID)
	return entry, nil
}

func (s *Store) appendLogEntry(
	st *State,
	userID, date, mealSlot, sourceType, sourceID, name string,
	servings float64,
	frozenMacros Macros,
) FoodLogEntry {
	entry := FoodLogEntry{
		ID:         s.newIDFunc(),
		Date:       date,
		MealSlot:   mealSlot,
		SourceType: sourceType,
		SourceID:   sourceID,
		Name:       name,
		Servings:   servings,
		Macros:     frozenMacros,
		LoggedAt:   s.nowFunc(),
	}
	st.Log = append(st.Log, entry)
	s.updateStreaks(st, date)

	log.Tracef("diet store: user [%s] logged [%s] %s on %s", userID, sourceType, name, date)
	return entry
}

// updateStreaks advances the two streaks linearly against the date just
// logged. Protein counts as hit at 90% of the rest-day target. A back-dated
// entry does not replay history.
func (s *Store) updateStreaks(st *State, date string) {
	dayMacros := dailyMacros(st, date)
	hitProtein := dayMacros.Protein >= proteinHitFactor*st.Goals.DailyProtein

	if st.Streaks.LastLogDate != date {
		if isNextDay(st.Streaks.LastLogDate, date) {
			st.Streaks.LoggingStreak++
		} else {
			st.Streaks.LoggingStreak = 1
		}
		st.Streaks.LastLogDate = date
	}

	if hitProtein && st.Streaks.LastProteinHitDate != date {
		if isNextDay(st.Streaks.LastProteinHitDate, date) {
			st.Streaks.ProteinStreak++
		} else {
			st.Streaks.ProteinStreak = 1
		}
		st.Streaks.LastProteinHitDate = date
	}
}

func isNextDay(prev, current string) bool {
	if prev == "" {
		return false
	}
	prevDay, err := time.Parse("2006-01-02", prev)
	if err != nil {
		return false
	}
	currentDay, err := time.Parse("2006-01-02", current)
	if err != nil {
		return false
	}
	return prevDay.AddDate(0, 0, 1).Equal(currentDay)
}

// DeleteLogEntry removes one entry, the only way log history ever shrinks.
// Streaks are deliberately not recomputed. Missing id is a no-op.
func (s *Store) DeleteLogEntry(userID, entryID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(userID)
	for i := range st.Log {
		if st.Log[i].ID != entryID {
			continue
		}
		st.Log = append(st.Log[:i], st.Log[i+1:]...)
		s.afterMutation(userID)
		return
	}
}

// LogForDay returns all entries of one date, in logged order.
func (s *Store) LogForDay(userID, date string) []FoodLogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(userID)
	var entries []FoodLogEntry
	for _, e := range st.Log {
		if e.Date == date {
			entries = append(entries, e)
		}
	}
	return entries
}

// DailyMacros sums the frozen macros of all entries on the date. Order of
// logging does not matter, the sum is the sum.
func (s *Store) DailyMacros(userID, date string) Macros {
	s.mu.Lock()
	defer s.mu.Unlock()
	return dailyMacros(s.state(userID), date)
}

func dailyMacros(st *State, date string) Macros {
	portions := make([]MacroPortion, 0, 8)
	for _, e := range st.Log {
		if e.Date != date {
			continue
		}
		// servings are already baked into the frozen macros
		portions = append(portions, MacroPortion{Macros: e.Macros, Servings: 1})
	}
	return SumPortions(portions)
}

// WeeklyStats aggregates the 7 days from weekStart (YYYY-MM-DD). Averages
// run only over days with at least one entry.
func (s *Store) WeeklyStats(userID, weekStart string) (WeekStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start, err := time.Parse("2006-01-02", weekStart)
	if err != nil {
		return WeekStats{}, fmt.Errorf("invalid week start: %w", err)
	}

	st := s.state(userID)
	stats := WeekStats{
		WeekStart: weekStart,
		Days:      make([]DayStats, 0, 7),
	}

	var sumCalories, sumProtein float64
	for i := 0; i < 7; i++ {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		dayTotal := dailyMacros(st, date)
		entries := 0
		for _, e := range st.Log {
			if e.Date == date {
				entries++
			}
		}

		stats.Days = append(stats.Days, DayStats{
			Date:     date,
			Calories: dayTotal.Calories,
			Protein:  dayTotal.Protein,
			Entries:  entries,
		})

		if entries == 0 {
			continue
		}
		stats.DaysWithLogs++
		sumCalories += dayTotal.Calories
		sumProtein += dayTotal.Protein
		if dayTotal.Protein >= proteinHitFactor*st.Goals.DailyProtein {
			stats.ProteinHitDays++
		}
	}

	if stats.DaysWithLogs > 0 {
		stats.AvgCalories = sumCalories / float64(stats.DaysWithLogs)
		stats.AvgProtein = sumProtein / float64(stats.DaysWithLogs)
	}
	return stats, nil
}

// Goals returns the current goals.
func (s *Store) Goals(userID string) Goals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state(userID).Goals
}

// UpdateGoals applies a partial goals update and returns the result.
func (s *Store) UpdateGoals(userID string, update GoalsUpdate) Goals {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(userID)
	g := &st.Goals
	if update.DailyCalories != nil {
		g.DailyCalories = *update.DailyCalories
	}
	if update.DailyProtein != nil {
		g.DailyProtein = *update.DailyProtein
	}
	if update.DailyCarbs != nil {
		g.DailyCarbs = *update.DailyCarbs
	}
	if update.DailyFat != nil {
		g.DailyFat = *update.DailyFat
	}
	if update.GoalType != nil {
		g.GoalType = *update.GoalType
	}
	if update.TrainingDayCalorieAdjustment != nil {
		g.TrainingDayCalorieAdjustment = *update.TrainingDayCalorieAdjustment
	}
	if update.TrainingDayProteinAdjustment != nil {
		g.TrainingDayProteinAdjustment = *update.TrainingDayProteinAdjustment
	}
	if update.MealReminders != nil {
		g.MealReminders = append([]string{}, (*update.MealReminders)...)
	}

	s.afterMutation(userID)
	return *g
}

// Streaks returns the current streak counters.
func (s *Store) Streaks(userID string) Streaks {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state(userID).Streaks
}

// TargetMacrosForDate resolves the daily targets. The training-day bump
// applies to calories and protein only. Whether the date is a training day
// is the caller's call, this store knows nothing about workouts.
func (s *Store) TargetMacrosForDate(userID string, isTrainingDay bool) Macros {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.state(userID).Goals
	target := Macros{
		Calories: g.DailyCalories,
		Protein:  g.DailyProtein,
		Carbs:    g.DailyCarbs,
		Fat:      g.DailyFat,
	}
	if isTrainingDay {
		target.Calories += g.TrainingDayCalorieAdjustment
		target.Protein += g.TrainingDayProteinAdjustment
	}
	return target
}

// Reset wipes all diet data of the user, memory and disk.
func (s *Store) Reset(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.states[userID] = newState()
	if err := s.snapshots.Delete(userID, StoreName); err != nil {
		return fmt.Errorf("delete diet snapshot: %w", err)
	}
	for _, fn := range s.subscribers {
		fn(userID)
	}
	return nil
}

// Snapshot serializes the user's full diet state, for the sync bridge.
func (s *Store) Snapshot(userID string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return json.Marshal(s.state(userID))
}

// Restore replaces the user's state wholesale from a remote snapshot and
// persists it locally. Subscribers are deliberately not notified, a restore
// must not bounce back into a sync write.
func (s *Store) Restore(userID string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := newState()
	if err := json.Unmarshal(data, st); err != nil {
		return fmt.Errorf("unmarshal diet snapshot: %w", err)
	}
	s.states[userID] = st

	if err := s.snapshots.Save(userID, StoreName, st); err != nil {
		return fmt.Errorf("persist restored diet snapshot: %w", err)
	}
	return nil
}
