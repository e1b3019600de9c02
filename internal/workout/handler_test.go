package workout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2beens/fitlog/internal/auth"
	"github.com/2beens/fitlog/internal/localstore"
	"github.com/2beens/fitlog/internal/telemetry/metrics"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type handlerTestTools struct {
	router *mux.Router
	store  *Store
}

func newHandlerTestTools(t *testing.T) *handlerTestTools {
	t.Helper()

	snapshots, err := localstore.NewApi(t.TempDir())
	require.NoError(t, err)
	store := NewStore(snapshots)

	router := mux.NewRouter()
	NewHandler(store, metrics.NewTestManager()).SetupRoutes(router)

	return &handlerTestTools{
		router: router,
		store:  store,
	}
}

func (tt *handlerTestTools) request(t *testing.T, userID, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&reqBody).Encode(body))
	}

	req := httptest.NewRequest(method, path, &reqBody)
	if userID != "" {
		req = req.WithContext(auth.ContextWithUserID(req.Context(), userID))
	}

	rr := httptest.NewRecorder()
	tt.router.ServeHTTP(rr, req)
	return rr
}

func TestHandler_GetExercises(t *testing.T) {
	tt := newHandlerTestTools(t)

	// the catalog is public, no user needed
	rr := tt.request(t, "", "GET", "/workout/exercises", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var exercises []ExerciseInfo
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &exercises))
	assert.NotEmpty(t, exercises)
}

func TestHandler_MissingUser(t *testing.T) {
	tt := newHandlerTestTools(t)
	rr := tt.request(t, "", "POST", "/workout/start", StartWorkoutRequest{Name: "w"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestHandler_SessionLifecycle(t *testing.T) {
	tt := newHandlerTestTools(t)
	const userID = "user-1"

	rr := tt.request(t, userID, "GET", "/workout/active", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = tt.request(t, userID, "POST", "/workout/end", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = tt.request(t, userID, "POST", "/workout/start", StartWorkoutRequest{Name: "leg day"})
	require.Equal(t, http.StatusCreated, rr.Code)
	var session WorkoutSession
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &session))
	assert.Equal(t, "leg day", session.Name)

	rr = tt.request(t, userID, "POST", "/workout/exercise", AddExerciseRequest{ExerciseID: "squat"})
	require.Equal(t, http.StatusCreated, rr.Code)
	var exercise WorkoutExercise
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &exercise))
	require.Len(t, exercise.Sets, 3)

	reps, weight, completed := 5, 100.0, true
	setPath := fmt.Sprintf("/workout/set/%s/%s", exercise.ID, exercise.Sets[0].ID)
	rr = tt.request(t, userID, "PUT", setPath, SetUpdate{
		Reps: &reps, WeightKg: &weight, Completed: &completed,
	})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = tt.request(t, userID, "GET", "/workout/active", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = tt.request(t, userID, "POST", "/workout/end", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var endResp EndWorkoutResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &endResp))
	assert.True(t, endResp.Session.Completed)
	require.Len(t, endResp.NewPRs, 1)
	assert.Equal(t, 100.0, endResp.NewPRs[0].WeightKg)

	rr = tt.request(t, userID, "GET", "/workout/stats", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var stats WorkoutStatsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.TotalWorkouts)
	assert.Equal(t, 1, stats.WorkoutsIn7Day)
}

func TestHandler_AddExercise_Errors(t *testing.T) {
	tt := newHandlerTestTools(t)
	const userID = "user-1"

	rr := tt.request(t, userID, "POST", "/workout/exercise", AddExerciseRequest{ExerciseID: "squat"})
	assert.Equal(t, http.StatusConflict, rr.Code)

	tt.request(t, userID, "POST", "/workout/start", StartWorkoutRequest{Name: "w"})
	rr = tt.request(t, userID, "POST", "/workout/exercise", AddExerciseRequest{ExerciseID: "unknown"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = tt.request(t, userID, "POST", "/workout/exercise", AddExerciseRequest{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_Profile(t *testing.T) {
	tt := newHandlerTestTools(t)
	const userID = "user-1"

	rr := tt.request(t, userID, "GET", "/workout/profile", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	name := "Serj"
	rr = tt.request(t, userID, "PUT", "/workout/profile", ProfileUpdate{Name: &name})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = tt.request(t, userID, "GET", "/workout/profile", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var profile UserProfile
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &profile))
	assert.Equal(t, "Serj", profile.Name)
}

func TestHandler_Routines(t *testing.T) {
	tt := newHandlerTestTools(t)
	const userID = "user-1"

	rr := tt.request(t, userID, "POST", "/workout/routines", SaveRoutineRequest{
		Name: "push day",
		Exercises: []RoutineExercise{
			{ExerciseID: "bench-press", TargetSets: 3, TargetReps: 8},
		},
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	var routine Routine
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &routine))

	rr = tt.request(t, userID, "POST", "/workout/routines", SaveRoutineRequest{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = tt.request(t, userID, "PUT", "/workout/routines/"+routine.ID, SaveRoutineRequest{Name: "push"})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = tt.request(t, userID, "PUT", "/workout/routines/missing", SaveRoutineRequest{Name: "x"})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = tt.request(t, userID, "DELETE", "/workout/routines/"+routine.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = tt.request(t, userID, "GET", "/workout/routines", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var routines []Routine
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &routines))
	assert.Empty(t, routines)
}

func TestHandler_Reset(t *testing.T) {
	tt := newHandlerTestTools(t)
	const userID = "user-1"

	tt.request(t, userID, "POST", "/workout/start", StartWorkoutRequest{Name: "w"})
	tt.request(t, userID, "POST", "/workout/end", nil)

	rr := tt.request(t, userID, "POST", "/workout/reset", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Zero(t, tt.store.TotalWorkouts(userID))
}
