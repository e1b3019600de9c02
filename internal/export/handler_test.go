package export

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/2beens/fitlog/internal/auth"
	"github.com/2beens/fitlog/internal/localstore"
	"github.com/2beens/fitlog/internal/workout"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_Export(t *testing.T) {
	snapshots, err := localstore.NewApi(t.TempDir())
	require.NoError(t, err)
	workoutStore := workout.NewStore(snapshots)
	const userID = "user-1"

	name := "Serj"
	workoutStore.UpdateProfile(userID, workout.ProfileUpdate{Name: &name})
	workoutStore.AddRoutine(userID, "legs", nil)
	workoutStore.StartWorkout(userID, "leg day", "")
	_, _, err = workoutStore.EndWorkout(userID)
	require.NoError(t, err)

	handler := NewHandler(workoutStore)
	handler.nowFunc = func() time.Time {
		return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	}
	router := mux.NewRouter()
	handler.SetupRoutes(router)

	req := httptest.NewRequest("GET", "/export", nil)
	req = req.WithContext(auth.ContextWithUserID(req.Context(), userID))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t,
		"attachment; filename=fitlog-export-2025-03-10.json",
		rr.Header().Get("Content-Disposition"),
	)

	var bundle Bundle
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &bundle))
	require.NotNil(t, bundle.Profile)
	assert.Equal(t, "Serj", bundle.Profile.Name)
	assert.Len(t, bundle.Sessions, 1)
	assert.Len(t, bundle.Routines, 1)
}

func TestHandler_Export_NoUser(t *testing.T) {
	snapshots, err := localstore.NewApi(t.TempDir())
	require.NoError(t, err)

	router := mux.NewRouter()
	NewHandler(workout.NewStore(snapshots)).SetupRoutes(router)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/export", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
