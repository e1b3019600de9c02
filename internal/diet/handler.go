package diet

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/fitlog/internal/auth"
	"github.com/2beens/fitlog/internal/telemetry/metrics"
	"github.com/2beens/fitlog/internal/telemetry/tracing"
	"github.com/2beens/fitlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type SaveRecipeRequest struct {
	Name        string             `json:"name"`
	Servings    float64            `json:"servings"`
	Ingredients []RecipeIngredient `json:"ingredients"`
}

type SaveMealRequest struct {
	Name  string          `json:"name"`
	Items []MealItemInput `json:"items"`
}

type LogRequest struct {
	Date     string  `json:"date"`
	MealSlot string  `json:"mealSlot"`
	SourceID string  `json:"sourceId"`
	Servings float64 `json:"servings"`
}

type Handler struct {
	store   *Store
	metrics *metrics.Manager
}

func NewHandler(store *Store, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		store:   store,
		metrics: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	dietRouter := router.PathPrefix("/diet").Subrouter()

	dietRouter.HandleFunc("/foods", handler.handleGetFoods).Methods("GET")
	dietRouter.HandleFunc("/foods", handler.handleAddFood).Methods("POST", "OPTIONS")
	dietRouter.HandleFunc("/foods/recent", handler.handleGetRecentFoods).Methods("GET")
	dietRouter.HandleFunc("/foods/{id}", handler.handleUpdateFood).Methods("PUT", "OPTIONS")
	dietRouter.HandleFunc("/foods/{id}", handler.handleDeleteFood).Methods("DELETE", "OPTIONS")

	dietRouter.HandleFunc("/recipes", handler.handleGetRecipes).Methods("GET")
	dietRouter.HandleFunc("/recipes", handler.handleAddRecipe).Methods("POST", "OPTIONS")
	dietRouter.HandleFunc("/recipes/{id}", handler.handleUpdateRecipe).Methods("PUT", "OPTIONS")
	dietRouter.HandleFunc("/recipes/{id}", handler.handleDeleteRecipe).Methods("DELETE", "OPTIONS")

	dietRouter.HandleFunc("/meals", handler.handleGetMeals).Methods("GET")
	dietRouter.HandleFunc("/meals", handler.handleAddMeal).Methods("POST", "OPTIONS")
	dietRouter.HandleFunc("/meals/{id}", handler.handleUpdateMeal).Methods("PUT", "OPTIONS")
	dietRouter.HandleFunc("/meals/{id}", handler.handleDeleteMeal).Methods("DELETE", "OPTIONS")

	dietRouter.HandleFunc("/log/food", handler.handleLogFood).Methods("POST", "OPTIONS")
	dietRouter.HandleFunc("/log/meal", handler.handleLogMeal).Methods("POST", "OPTIONS")
	dietRouter.HandleFunc("/log/recipe", handler.handleLogRecipe).Methods("POST", "OPTIONS")
	dietRouter.HandleFunc("/log/{id}", handler.handleDeleteLogEntry).Methods("DELETE", "OPTIONS")
	dietRouter.HandleFunc("/log/day/{date}", handler.handleGetLogForDay).Methods("GET")

	dietRouter.HandleFunc("/macros/day/{date}", handler.handleGetDailyMacros).Methods("GET")
	dietRouter.HandleFunc("/stats/week/{start}", handler.handleGetWeeklyStats).Methods("GET")
	dietRouter.HandleFunc("/goals", handler.handleGetGoals).Methods("GET")
	dietRouter.HandleFunc("/goals", handler.handleUpdateGoals).Methods("PUT", "OPTIONS")
	dietRouter.HandleFunc("/streaks", handler.handleGetStreaks).Methods("GET")
	dietRouter.HandleFunc("/targets/{date}", handler.handleGetTargets).Methods("GET")

	dietRouter.HandleFunc("/reset", handler.handleReset).Methods("POST", "OPTIONS")
}

func (handler *Handler) handleGetFoods(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.diet.foods")
	defer span.End()

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	foodsJson, err := json.Marshal(handler.store.Foods(userID))
	if err != nil {
		log.Errorf("failed to marshal foods: %s", err)
		http.Error(w, "failed to get foods", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, foodsJson, http.StatusOK)
}

func (handler *Handler) handleAddFood(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.diet.addFood")
	defer span.End()

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	var food Food
	if err := json.NewDecoder(r.Body).Decode(&food); err != nil {
		log.Errorf("add food, unmarshal json params: %s", err)
		http.Error(w, "add food failed", http.StatusBadRequest)
		return
	}
	if food.Name == "" {
		http.Error(w, "error, food name empty", http.StatusBadRequest)
		return
	}

	added := handler.store.AddCustomFood(userID, food)
	log.Debugf("custom food added: user [%s] food [%s]", userID, added.ID)

	foodJson, err := json.Marshal(added)
	if err != nil {
		log.Errorf("failed to marshal added food: %s", err)
		http.Error(w, "add food failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, foodJson, http.StatusCreated)
}

func (handler *Handler) handleGetRecentFoods(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.diet.recentFoods")
	defer span.End()

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	foodsJson, err := json.Marshal(handler.store.RecentFoods(userID))
	if err != nil {
		log.Errorf("failed to marshal recent foods: %s", err)
		http.Error(w, "failed to get recent foods", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, foodsJson, http.StatusOK)
}

func (handler *Handler) handleUpdateFood(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.diet.updateFood")
	defer span.End()

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	var food Food
	if err := json.NewDecoder(r.Body).Decode(&food); err != nil {
		log.Errorf("update food, unmarshal json params: %s", err)
		http.Error(w, "update food failed", http.StatusBadRequest)
		return
	}

	updated, err := handler.store.UpdateCustomFood(userID, mux.Vars(r)["id"], food)
	switch {
	case errors.Is(err, ErrBuiltinFood):
		http.Error(w, "built-in foods cannot be changed", http.StatusForbidden)
		return
	case errors.Is(err, ErrFoodNotFound):
		http.Error(w, "food not found", http.StatusNotFound)
		return
	case err != nil:
		log.Errorf("failed to update food for user [%s]: %s", userID, err)
		http.Error(w, "update food failed", http.StatusInternalServerError)
		return
	}

	foodJson, err := json.Marshal(updated)
	if err != nil {
		log.Errorf("failed to marshal updated food: %s", err)
		http.Error(w, "update food failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, foodJson, http.StatusOK)
}

func (handler *Handler) handleDeleteFood(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.diet.deleteFood")
	defer span.End()

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	handler.store.DeleteCustomFood(userID, mux.Vars(r)["id"])
	pkg.WriteTextResponseOK(w, "deleted")
}

func (handler *Handler) handleGetRecipes(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.diet.recipes")
	defer span.End()

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	recipesJson, err := json.Marshal(handler.store.Recipes(userID))
	if err != nil {
		log.Errorf("failed to marshal recipes: %s", err)
		http.Error(w, "failed to get recipes", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, recipesJson, http.StatusOK)
}

func (handler *Handler) handleAddRecipe(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.diet.addRecipe")
	defer span.End()

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	var req SaveRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("add recipe, unmarshal json params: %s", err)
		http.Error(w, "add recipe failed", http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.Servings <= 0 {
		http.Error(w, "error, recipe name empty or servings not positive", http.StatusBadRequest)
		return
	}

	recipe, err := handler.store.AddRecipe(userID, req.Name, req.Servings, req.Ingredients)
	if errors.Is(err, ErrFoodNotFound) {
		http.Error(w, "ingredient food not found", http.StatusBadRequest)
		return
	} else if err != nil {
		log.Errorf("failed to add recipe for user [%s]: %s", userID, err)
		http.Error(w, "add recipe failed", http.StatusInternalServerError)
		return
	}

	recipeJson, err := json.Marshal(recipe)
	if err != nil {
		log.Errorf("failed to marshal added recipe: %s", err)
		http.Error(w, "add recipe failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, recipeJson, http.StatusCreated)
}

func (handler *Handler) handleUpdateRecipe(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.diet.updateRecipe")
	defer span.End()

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	var req SaveRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("update recipe, unmarshal json params: %s", err)
		http.Error(w, "update recipe failed", http.StatusBadRequest)
		return
	}
	if req.Servings <= 0 {
		http.Error(w, "error, servings not positive", http.StatusBadRequest)
		return
	}

	recipe, err := handler.store.UpdateRecipe(userID, mux.Vars(r)["id"], req.Name, req.Servings, req.Ingredients)
	switch {
	case errors.Is(err, ErrRecipeNotFound):
		http.Error(w, "recipe not found", http.StatusNotFound)
		return
	case errors.Is(err, ErrFoodNotFound):
		http.Error(w, "ingredient food not found", http.StatusBadRequest)
		return
	case err != nil:
		log.Errorf("failed to update recipe for user [%s]: %s", userID, err)
		http.Error(w, "update recipe failed", http.StatusInternalServerError)
		return
	}

	recipeJson, err := json.Marshal(recipe)
	if err != nil {
		log.Errorf("failed to marshal updated recipe: %s", err)
		http.Error(w, "update recipe failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, recipeJson, http.StatusOK)
}

func (handler *Handler) handleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.diet.deleteRecipe")
	defer span.End()

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	handler.store.DeleteRecipe(userID, mux.Vars(r)["id"])
	pkg.WriteTextResponseOK(w, "deleted")
}

func (handler *Handler) handleGetMeals(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.diet.meals")
	defer span.End()

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	mealsJson, err := json.Marshal(handler.store.Meals(userID))
	if err != nil {
		log.Errorf("failed to marshal meals: %s", err)
		http.Error(w, "failed to get meals", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, mealsJson, http.StatusOK)
}

func (handler *Handler) handleAddMeal(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.diet.addMeal")
	defer span.End()

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	var req SaveMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("add meal, unmarshal json params: %s", err)
		http.Error(w, "add meal failed", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "error, meal name empty", http.StatusBadRequest)
		return
	}

	meal, err := handler.store.AddMeal(userID, req.Name, req.Items)
	if err != nil {
		log.Errorf("failed to add meal for user [%s]: %s", userID, err)
		http.Error(w, "add meal failed", http.StatusBadRequest)
		return
	}

	mealJson, err := json.Marshal(meal)
	if err != nil {
		log.Errorf("failed to marshal added meal: %s", err)
		http.Error(w, "add meal failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, mealJson, http.StatusCreated)
}

func (handler *Handler) handleUpdateMeal(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.diet.updateMeal")
	defer span.End()

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	var req SaveMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("update meal, unmarshal json params: %s", err)
		http.Error(w, "update meal failed", http.StatusBadRequest)
		return
	}

	meal, err := handler.store.UpdateMeal(userID, mux.Vars(r)["id"], req.Name, req.Items)
	if errors.Is(err, ErrMealNotFound) {
		http.Error(w, "meal not found", http.StatusNotFound)
		return
	} else if err != nil {
		log.Errorf("failed to update meal for user [%s]: %s", userID, err)
		http.Error(w, "update meal failed", http.StatusBadRequest)
		return
	}

	mealJson, err := json.Marshal(meal)
	if err != nil {
		log.Errorf("failed to marshal updated meal: %s", err)
		http.Error(w, "update meal failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, mealJson, http.StatusOK)
}

func (handler *Handler) handleDeleteMeal(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.diet.deleteMeal")
	defer span.End()

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	handler.store.DeleteMeal(userID, mux.Vars(r)["id"])
	pkg.WriteTextResponseOK(w, "deleted")
}

type logFunc func(userID, date, mealSlot, sourceID string, servings float64) (FoodLogEntry, error)

func (handler *Handler) handleLog(w http.ResponseWriter, r *http.Request, logEntry logFunc) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	var req LogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("log entry, unmarshal json params: %s", err)
		http.Error(w, "log failed", http.StatusBadRequest)
		return
	}
	if req.Date == "" || req.SourceID == "" {
		http.Error(w, "error, date or source id empty", http.StatusBadRequest)
		return
	}
	if req.Servings <= 0 {
		req.Servings = 1
	}

	entry, err := logEntry(userID, req.Date, req.MealSlot, req.SourceID, req.Servings)
	switch {
	case errors.Is(err, ErrFoodNotFound),
		errors.Is(err, ErrMealNotFound),
		errors.Is(err, ErrRecipeNotFound):
		http.Error(w, "log source not found", http.StatusNotFound)
		return
	case err != nil:
		log.Errorf("failed to log entry for user [%s]: %s", userID, err)
		http.Error(w, "log failed", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterFoodLogEntries.Inc()

	entryJson, err := json.Marshal(entry)
	if err != nil {
		log.Errorf("failed to marshal log entry: %s", err)
		http.Error(w, "log failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, entryJson, http.StatusCreated)
}

func (handler *Handler) handleLogFood(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.diet.logFood")
	defer span.End()
	handler.handleLog(w, r, handler.store.LogFood)
}

func (handler *Handler) handleLogMeal(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.diet.logMeal")
	defer span.End()
	handler.handleLog(w, r, handler.store.LogMeal)
}

func (handler *Handler) handleLogRecipe(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.diet.logRecipe")
	defer span.End()
	handler.handleLog(w, r, handler.store.LogRecipe)
}

func (handler *Handler) handleDeleteLogEntry(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.diet.deleteLogEntry")
	defer span.End()

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	handler.store.DeleteLogEntry(userID, mux.Vars(r)["id"])
	pkg.WriteTextResponseOK(w, "deleted")
}

func (handler *Handler) handleGetLogForDay(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.diet.logForDay")
	defer span.End()

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	entries := handler.store.LogForDay(userID, mux.Vars(r)["date"])
	if entries == nil {
		entries = []FoodLogEntry{}
	}

	entriesJson, err := json.Marshal(entries)
	if err != nil {
		log.Errorf("failed to marshal log entries: %s", err)
		http.Error(w, "failed to get log", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, entriesJson, http.StatusOK)
}

func (handler *Handler) handleGetDailyMacros(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.diet.dailyMacros")
	defer span.End()

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	macrosJson, err := json.Marshal(handler.store.DailyMacros(userID, mux.Vars(r)["date"]))
	if err != nil {
		log.Errorf("failed to marshal daily macros: %s", err)
		http.Error(w, "failed to get daily macros", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, macrosJson, http.StatusOK)
}

func (handler *Handler) handleGetWeeklyStats(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.diet.weeklyStats")
	defer span.End()

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	stats, err := handler.store.WeeklyStats(userID, mux.Vars(r)["start"])
	if err != nil {
		http.Error(w, "error, invalid week start date", http.StatusBadRequest)
		return
	}

	statsJson, err := json.Marshal(stats)
	if err != nil {
		log.Errorf("failed to marshal weekly stats: %s", err)
		http.Error(w, "failed to get weekly stats", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, statsJson, http.StatusOK)
}

func (handler *Handler) handleGetGoals(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.diet.goals")
	defer span.End()

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	goalsJson, err := json.Marshal(handler.store.Goals(userID))
	if err != nil {
		log.Errorf("failed to marshal goals: %s", err)
		http.Error(w, "failed to get goals", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, goalsJson, http.StatusOK)
}

func (handler *Handler) handleUpdateGoals(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.diet.updateGoals")
	defer span.End()

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	var update GoalsUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Errorf("update goals, unmarshal json params: %s", err)
		http.Error(w, "update goals failed", http.StatusBadRequest)
		return
	}

	goalsJson, err := json.Marshal(handler.store.UpdateGoals(userID, update))
	if err != nil {
		log.Errorf("failed to marshal updated goals: %s", err)
		http.Error(w, "update goals failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, goalsJson, http.StatusOK)
}

func (handler *Handler) handleGetStreaks(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.diet.streaks")
	defer span.End()

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	streaksJson, err := json.Marshal(handler.store.Streaks(userID))
	if err != nil {
		log.Errorf("failed to marshal streaks: %s", err)
		http.Error(w, "failed to get streaks", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, streaksJson, http.StatusOK)
}

// handleGetTargets resolves the targets for a date. The training flag comes
// from the caller, which is where workout and diet data get joined.
func (handler *Handler) handleGetTargets(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.diet.targets")
	defer span.End()

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	isTrainingDay := r.URL.Query().Get("training") == "true"
	targetsJson, err := json.Marshal(handler.store.TargetMacrosForDate(userID, isTrainingDay))
	if err != nil {
		log.Errorf("failed to marshal target macros: %s", err)
		http.Error(w, "failed to get targets", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, targetsJson, http.StatusOK)
}

func (handler *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.diet.reset")
	defer span.End()

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	if err := handler.store.Reset(userID); err != nil {
		log.Errorf("failed to reset diet data for user [%s]: %s", userID, err)
		http.Error(w, "reset failed", http.StatusInternalServerError)
		return
	}

	log.Debugf("diet data reset: user [%s]", userID)
	pkg.WriteTextResponseOK(w, "reset done")
}
