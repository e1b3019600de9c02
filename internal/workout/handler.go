package workout

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

type StartWorkoutRequest struct {
	Name      string `json:"name"`
	RoutineID string `json:"routineId"`
}

type AddExerciseRequest struct {
	ExerciseID string `json:"exerciseId"`
}

type AddSetRequest struct {
	ExerciseID string `json:"exerciseId"`
}

type SaveRoutineRequest struct {
	Name      string            `json:"name"`
	Exercises []RoutineExercise `json:"exercises"`
}

type EndWorkoutResponse struct {
	Session WorkoutSession   `json:"session"`
	NewPRs  []PersonalRecord `json:"newPrs"`
}

type WorkoutStatsResponse struct {
	TotalWorkouts  int `json:"totalWorkouts"`
	WorkoutsIn7Day int `json:"workoutsLast7Days"`
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
	workoutRouter := router.PathPrefix("/workout").Subrouter()

	workoutRouter.HandleFunc("/exercises", handler.handleGetExercises).Methods("GET")
	workoutRouter.HandleFunc("/profile", handler.handleGetProfile).Methods("GET")
	workoutRouter.HandleFunc("/profile", handler.handleUpdateProfile).Methods("PUT", "OPTIONS")

	workoutRouter.HandleFunc("/start", handler.handleStart).Methods("POST", "OPTIONS")
	workoutRouter.HandleFunc("/active", handler.handleGetActive).Methods("GET")
	workoutRouter.HandleFunc("/exercise", handler.handleAddExercise).Methods("POST", "OPTIONS")
	workoutRouter.HandleFunc("/set", handler.handleAddSet).Methods("POST", "OPTIONS")
	workoutRouter.HandleFunc("/set/{exerciseId}/{setId}", handler.handleUpdateSet).Methods("PUT", "OPTIONS")
	workoutRouter.HandleFunc("/set/{exerciseId}/{setId}", handler.handleRemoveSet).Methods("DELETE", "OPTIONS")
	workoutRouter.HandleFunc("/set/{exerciseId}/{setId}/toggle", handler.handleToggleSet).Methods("POST", "OPTIONS")
	workoutRouter.HandleFunc("/end", handler.handleEnd).Methods("POST", "OPTIONS")
	workoutRouter.HandleFunc("/cancel", handler.handleCancel).Methods("POST", "OPTIONS")

	workoutRouter.HandleFunc("/sessions", handler.handleGetSessions).Methods("GET")
	workoutRouter.HandleFunc("/records", handler.handleGetRecords).Methods("GET")
	workoutRouter.HandleFunc("/history/{exerciseId}", handler.handleGetHistory).Methods("GET")
	workoutRouter.HandleFunc("/stats", handler.handleGetStats).Methods("GET")

	workoutRouter.HandleFunc("/routines", handler.handleGetRoutines).Methods("GET")
	workoutRouter.HandleFunc("/routines", handler.handleAddRoutine).Methods("POST", "OPTIONS")
	workoutRouter.HandleFunc("/routines/{id}", handler.handleUpdateRoutine).Methods("PUT", "OPTIONS")
	workoutRouter.HandleFunc("/routines/{id}", handler.handleDeleteRoutine).Methods("DELETE", "OPTIONS")

	workoutRouter.HandleFunc("/reset", handler.handleReset).Methods("POST", "OPTIONS")
}

func (handler *Handler) handleGetExercises(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.exercises")
	defer span.End()

	catalogJson, err := json.Marshal(Exercises())
	if err != nil {
		log.Errorf("failed to marshal exercise catalog: %s", err)
		http.Error(w, "failed to get exercises", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, catalogJson, http.StatusOK)
}

func (handler *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.getProfile")
	defer span.End()

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	profile, found := handler.store.Profile(userID)
	if !found {
		http.Error(w, "profile not set", http.StatusNotFound)
		return
	}

	profileJson, err := json.Marshal(profile)
	if err != nil {
		log.Errorf("failed to marshal profile: %s", err)
		http.Error(w, "failed to get profile", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, profileJson, http.StatusOK)
}

func (handler *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.updateProfile")
	defer span.End()

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	var update ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Errorf("update profile, unmarshal json params: %s", err)
		http.Error(w, "update profile failed", http.StatusBadRequest)
		return
	}

	profile := handler.store.UpdateProfile(userID, update)

	profileJson, err := json.Marshal(profile)
	if err != nil {
		log.Errorf("failed to marshal updated profile: %s", err)
		http.Error(w, "failed to update profile", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, profileJson, http.StatusOK)
}

func (handler *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.start")
	defer span.End()

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	var req StartWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("start workout, unmarshal json params: %s", err)
		http.Error(w, "start workout failed", http.StatusBadRequest)
		return
	}

	session := handler.store.StartWorkout(userID, req.Name, req.RoutineID)
	log.Debugf("workout session started: user [%s] session [%s]", userID, session.ID)

	sessionJson, err := json.Marshal(session)
	if err != nil {
		log.Errorf("failed to marshal started session: %s", err)
		http.Error(w, "start workout failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, sessionJson, http.StatusCreated)
}

func (handler *Handler) handleGetActive(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.active")
	defer span.End()

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	session, found := handler.store.ActiveSession(userID)
	if !found {
		http.Error(w, "no active session", http.StatusNotFound)
		return
	}

	sessionJson, err := json.Marshal(session)
	if err != nil {
		log.Errorf("failed to marshal active session: %s", err)
		http.Error(w, "failed to get active session", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, sessionJson, http.StatusOK)
}

func (handler *Handler) handleAddExercise(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.addExercise")
	defer span.End()

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	var req AddExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("add exercise, unmarshal json params: %s", err)
		http.Error(w, "add exercise failed", http.StatusBadRequest)
		return
	}
	if req.ExerciseID == "" {
		http.Error(w, "error, exercise id empty", http.StatusBadRequest)
		return
	}

	exercise, err := handler.store.AddExerciseToSession(userID, req.ExerciseID)
	switch {
	case errors.Is(err, ErrUnknownExercise):
		http.Error(w, "unknown exercise", http.StatusBadRequest)
		return
	case errors.Is(err, ErrNoActiveSession):
		http.Error(w, "no active session", http.StatusConflict)
		return
	case err != nil:
		log.Errorf("failed to add exercise [%s] for user [%s]: %s", req.ExerciseID, userID, err)
		http.Error(w, "add exercise failed", http.StatusInternalServerError)
		return
	}

	exerciseJson, err := json.Marshal(exercise)
	if err != nil {
		log.Errorf("failed to marshal added exercise: %s", err)
		http.Error(w, "add exercise failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, exerciseJson, http.StatusCreated)
}

func (handler *Handler) handleAddSet(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.addSet")
	defer span.End()

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	var req AddSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("add set, unmarshal json params: %s", err)
		http.Error(w, "add set failed", http.StatusBadRequest)
		return
	}

	set, added := handler.store.AddSetToExercise(userID, req.ExerciseID)
	if !added {
		pkg.WriteTextResponseOK(w, "no-op")
		return
	}

	setJson, err := json.Marshal(set)
	if err != nil {
		log.Errorf("failed to marshal added set: %s", err)
		http.Error(w, "add set failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, setJson, http.StatusCreated)
}

func (handler *Handler) handleUpdateSet(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.updateSet")
	defer span.End()

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	var update SetUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Errorf("update set, unmarshal json params: %s", err)
		http.Error(w, "update set failed", http.StatusBadRequest)
		return
	}

	handler.store.UpdateSet(userID, vars["exerciseId"], vars["setId"], update)
	pkg.WriteTextResponseOK(w, "updated")
}

func (handler *Handler) handleRemoveSet(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.removeSet")
	defer span.End()

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	handler.store.RemoveSet(userID, vars["exerciseId"], vars["setId"])
	pkg.WriteTextResponseOK(w, "removed")
}

func (handler *Handler) handleToggleSet(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.toggleSet")
	defer span.End()

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	handler.store.ToggleSetComplete(userID, vars["exerciseId"], vars["setId"])
	pkg.WriteTextResponseOK(w, "toggled")
}

func (handler *Handler) handleEnd(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.end")
	defer span.End()

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	session, newPRs, err := handler.store.EndWorkout(userID)
	if errors.Is(err, ErrNoActiveSession) {
		http.Error(w, "no active session", http.StatusConflict)
		return
	} else if err != nil {
		log.Errorf("failed to end workout for user [%s]: %s", userID, err)
		http.Error(w, "end workout failed", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterWorkoutsFinished.Inc()
	handler.metrics.CounterPersonalRecords.Add(float64(len(newPRs)))

	respJson, err := json.Marshal(EndWorkoutResponse{
		Session: session,
		NewPRs:  newPRs,
	})
	if err != nil {
		log.Errorf("failed to marshal end workout response: %s", err)
		http.Error(w, "end workout failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.cancel")
	defer span.End()

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	handler.store.CancelWorkout(userID)
	pkg.WriteTextResponseOK(w, "canceled")
}

func (handler *Handler) handleGetSessions(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.sessions")
	defer span.End()

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	sessionsJson, err := json.Marshal(handler.store.Sessions(userID))
	if err != nil {
		log.Errorf("failed to marshal sessions: %s", err)
		http.Error(w, "failed to get sessions", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, sessionsJson, http.StatusOK)
}

func (handler *Handler) handleGetRecords(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.records")
	defer span.End()

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	recordsJson, err := json.Marshal(handler.store.PersonalRecords(userID))
	if err != nil {
		log.Errorf("failed to marshal personal records: %s", err)
		http.Error(w, "failed to get records", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, recordsJson, http.StatusOK)
}

func (handler *Handler) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.history")
	defer span.End()

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	exerciseID := vars["exerciseId"]
	if exerciseID == "" {
		http.Error(w, "error, exercise id empty", http.StatusBadRequest)
		return
	}

	historyJson, err := json.Marshal(handler.store.ExerciseHistory(userID, exerciseID))
	if err != nil {
		log.Errorf("failed to marshal exercise history: %s", err)
		http.Error(w, "failed to get history", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, historyJson, http.StatusOK)
}

func (handler *Handler) handleGetStats(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.stats")
	defer span.End()

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	statsJson, err := json.Marshal(WorkoutStatsResponse{
		TotalWorkouts:  handler.store.TotalWorkouts(userID),
		WorkoutsIn7Day: handler.store.WeeklyWorkoutCount(userID),
	})
	if err != nil {
		log.Errorf("failed to marshal workout stats: %s", err)
		http.Error(w, "failed to get stats", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, statsJson, http.StatusOK)
}

func (handler *Handler) handleGetRoutines(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.routines")
	defer span.End()

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	routinesJson, err := json.Marshal(handler.store.Routines(userID))
	if err != nil {
		log.Errorf("failed to marshal routines: %s", err)
		http.Error(w, "failed to get routines", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, routinesJson, http.StatusOK)
}

func (handler *Handler) handleAddRoutine(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.addRoutine")
	defer span.End()

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	var req SaveRoutineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("add routine, unmarshal json params: %s", err)
		http.Error(w, "add routine failed", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "error, routine name empty", http.StatusBadRequest)
		return
	}

	routine := handler.store.AddRoutine(userID, req.Name, req.Exercises)
	log.Debugf("routine added: user [%s] routine [%s]", userID, routine.ID)

	routineJson, err := json.Marshal(routine)
	if err != nil {
		log.Errorf("failed to marshal added routine: %s", err)
		http.Error(w, "add routine failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, routineJson, http.StatusCreated)
}

func (handler *Handler) handleUpdateRoutine(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.updateRoutine")
	defer span.End()

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	routineID := vars["id"]
	if routineID == "" {
		http.Error(w, "error, routine id empty", http.StatusBadRequest)
		return
	}

	var req SaveRoutineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("update routine, unmarshal json params: %s", err)
		http.Error(w, "update routine failed", http.StatusBadRequest)
		return
	}

	routine, err := handler.store.UpdateRoutine(userID, routineID, req.Name, req.Exercises)
	if errors.Is(err, ErrRoutineNotFound) {
		http.Error(w, "routine not found", http.StatusNotFound)
		return
	} else if err != nil {
		log.Errorf("failed to update routine [%s] for user [%s]: %s", routineID, userID, err)
		http.Error(w, "update routine failed", http.StatusInternalServerError)
		return
	}

	routineJson, err := json.Marshal(routine)
	if err != nil {
		log.Errorf("failed to marshal updated routine: %s", err)
		http.Error(w, "update routine failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, routineJson, http.StatusOK)
}

func (handler *Handler) handleDeleteRoutine(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.deleteRoutine")
	defer span.End()

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	handler.store.DeleteRoutine(userID, vars["id"])
	pkg.WriteTextResponseOK(w, "deleted")
}

func (handler *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.reset")
	defer span.End()

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	if err := handler.store.Reset(userID); err != nil {
		log.Errorf("failed to reset workout data for user [%s]: %s", userID, err)
		http.Error(w, "reset failed", http.StatusInternalServerError)
		return
	}

	log.Debugf("workout data reset: user [%s]", userID)
	pkg.WriteTextResponseOK(w, "reset done")
}
