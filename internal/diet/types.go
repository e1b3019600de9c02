package diet

import "time"

// Macros are per-serving (or aggregated) nutrition values.
type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

func (m Macros) Add(other Macros) Macros {
	return Macros{
		Calories: m.Calories + other.Calories,
		Protein:  m.Protein + other.Protein,
		Carbs:    m.Carbs + other.Carbs,
		Fat:      m.Fat + other.Fat,
	}
}

func (m Macros) Scale(factor float64) Macros {
	return Macros{
		Calories: m.Calories * factor,
		Protein:  m.Protein * factor,
		Carbs:    m.Carbs * factor,
		Fat:      m.Fat * factor,
	}
}

// MacroPortion pairs macros with a servings multiplier.
type MacroPortion struct {
	Macros   Macros
	Servings float64
}

// SumPortions is the one aggregation rule everything macro-related reuses:
// the component-wise sum of macros x servings. Daily totals, recipe totals
// and meal totals all go through here.
func SumPortions(portions []MacroPortion) Macros {
	var total Macros
	for _, p := range portions {
		total = total.Add(p.Macros.Scale(p.Servings))
	}
	return total
}

// Food is a nutritional reference entry, macros per one serving. Built-in
// catalog entries are immutable; custom entries are per-user CRUD.
type Food struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	ServingSize float64 `json:"servingSize"`
	ServingUnit string  `json:"servingUnit"`
	Macros      Macros  `json:"macros"`
	Custom      bool    `json:"custom"`
}

// RecipeIngredient references a food with a servings quantity.
type RecipeIngredient struct {
	FoodID   string  `json:"foodId"`
	Quantity float64 `json:"quantity"`
}

// Recipe derives totalMacros and macrosPerServing from its ingredients;
// both are recomputed on every mutation of ingredients or servings.
type Recipe struct {
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	Servings         float64            `json:"servings"`
	Ingredients      []RecipeIngredient `json:"ingredients"`
	TotalMacros      Macros             `json:"totalMacros"`
	MacrosPerServing Macros             `json:"macrosPerServing"`
	CreatedAt        time.Time          `json:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt"`
}

// MealItemInput references a food or recipe to resolve into a meal item.
type MealItemInput struct {
	SourceType string  `json:"sourceType"` // food | recipe
	SourceID   string  `json:"sourceId"`
	Servings   float64 `json:"servings"`
}

// MealItem carries macros already scaled at creation time, so meal totals
// aggregate them with a fixed multiplier of one.
type MealItem struct {
	SourceType string  `json:"sourceType"`
	SourceID   string  `json:"sourceId"`
	Name       string  `json:"name"`
	Servings   float64 `json:"servings"`
	Macros     Macros  `json:"macros"`
}

// Meal is a named saved combination for one-tap logging.
type Meal struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Items       []MealItem `json:"items"`
	TotalMacros Macros     `json:"totalMacros"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// FoodLogEntry is immutable once written: macros are resolved and frozen at
// log time, later edits of the source food, meal or recipe do not reach back
// into history. Entries are only ever removed by explicit delete.
type FoodLogEntry struct {
	ID         string    `json:"id"`
	Date       string    `json:"date"` // YYYY-MM-DD
	MealSlot   string    `json:"mealSlot"`
	SourceType string    `json:"sourceType"` // food | meal | recipe
	SourceID   string    `json:"sourceId"`
	Name       string    `json:"name"`
	Servings   float64   `json:"servings"`
	Macros     Macros    `json:"macros"`
	LoggedAt   time.Time `json:"loggedAt"`
}

// Goals hold daily targets and the training-day bump, mutated via partial
// merge.
type Goals struct {
	DailyCalories                float64  `json:"dailyCalories"`
	DailyProtein                 float64  `json:"dailyProtein"`
	DailyCarbs                   float64  `json:"dailyCarbs"`
	DailyFat                     float64  `json:"dailyFat"`
	GoalType                     string   `json:"goalType"` // cut | maintain | bulk
	TrainingDayCalorieAdjustment float64  `json:"trainingDayCalorieAdjustment"`
	TrainingDayProteinAdjustment float64  `json:"trainingDayProteinAdjustment"`
	MealReminders                []string `json:"mealReminders"`
}

// GoalsUpdate is a partial goals mutation; nil fields are left untouched.
type GoalsUpdate struct {
	DailyCalories                *float64  `json:"dailyCalories,omitempty"`
	DailyProtein                 *float64  `json:"dailyProtein,omitempty"`
	DailyCarbs                   *float64  `json:"dailyCarbs,omitempty"`
	DailyFat                     *float64  `json:"dailyFat,omitempty"`
	GoalType                     *string   `json:"goalType,omitempty"`
	TrainingDayCalorieAdjustment *float64  `json:"trainingDayCalorieAdjustment,omitempty"`
	TrainingDayProteinAdjustment *float64  `json:"trainingDayProteinAdjustment,omitempty"`
	MealReminders                *[]string `json:"mealReminders,omitempty"`
}

// Streaks are derived rolling counters, advanced linearly after every log
// mutation. Back-dated entries are knowingly not replayed.
type Streaks struct {
	LoggingStreak      int    `json:"loggingStreak"`
	LastLogDate        string `json:"lastLogDate"`
	ProteinStreak      int    `json:"proteinStreak"`
	LastProteinHitDate string `json:"lastProteinHitDate"`
}

// DayStats is one day's slice of the weekly overview.
type DayStats struct {
	Date     string  `json:"date"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Entries  int     `json:"entries"`
}

// WeekStats aggregates the 7 days from a week start. Averages only run over
// days that have at least one entry; empty days do not drag them to zero.
type WeekStats struct {
	WeekStart      string     `json:"weekStart"`
	Days           []DayStats `json:"days"`
	DaysWithLogs   int        `json:"daysWithLogs"`
	AvgCalories    float64    `json:"avgCalories"`
	AvgProtein     float64    `json:"avgProtein"`
	ProteinHitDays int        `json:"proteinHitDays"`
}

// State is the full per-user diet snapshot, serialized wholesale to local
// disk and to the remote sync document.
type State struct {
	CustomFoods   []Food         `json:"customFoods"`
	Recipes       []Recipe       `json:"recipes"`
	Meals         []Meal         `json:"meals"`
	Log           []FoodLogEntry `json:"log"`
	RecentFoodIDs []string       `json:"recentFoodIds"`
	Goals         Goals          `json:"goals"`
	Streaks       Streaks        `json:"streaks"`
}

func defaultGoals() Goals {
	return Goals{
		DailyCalories: 2000,
		DailyProtein:  150,
		DailyCarbs:    250,
		DailyFat:      70,
		GoalType:      "maintain",
	}
}

func newState() *State {
	return &State{
		CustomFoods:   []Food{},
		Recipes:       []Recipe{},
		Meals:         []Meal{},
		Log:           []FoodLogEntry{},
		RecentFoodIDs: []string{},
		Goals:         defaultGoals(),
	}
}
