package export

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/2beens/fitlog/internal/auth"
	"github.com/2beens/fitlog/internal/telemetry/tracing"
	"github.com/2beens/fitlog/internal/workout"
	"github.com/2beens/fitlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// workoutData is the slice of the workout store the export needs.
type workoutData interface {
	Profile(userID string) (workout.UserProfile, bool)
	Sessions(userID string) []workout.WorkoutSession
	Routines(userID string) []workout.Routine
	PersonalRecords(userID string) []workout.PersonalRecord
}

// Bundle is the downloadable export: everything a user would want to carry
// away or back up by hand. There is deliberately no import counterpart.
type Bundle struct {
	ExportedAt      time.Time                `json:"exportedAt"`
	Profile         *workout.UserProfile     `json:"profile,omitempty"`
	Sessions        []workout.WorkoutSession `json:"sessions"`
	Routines        []workout.Routine        `json:"routines"`
	PersonalRecords []workout.PersonalRecord `json:"personalRecords"`
}

type Handler struct {
	workouts workoutData

	nowFunc func() time.Time
}

func NewHandler(workouts workoutData) *Handler {
	return &Handler{
		workouts: workouts,
		nowFunc:  time.Now,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/export", handler.handleExport).Methods("GET")
}

func (handler *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.export")
	defer span.End()

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	now := handler.nowFunc()
	bundle := Bundle{
		ExportedAt:      now,
		Sessions:        handler.workouts.Sessions(userID),
		Routines:        handler.workouts.Routines(userID),
		PersonalRecords: handler.workouts.PersonalRecords(userID),
	}
	if profile, found := handler.workouts.Profile(userID); found {
		bundle.Profile = &profile
	}

	bundleJson, err := json.Marshal(bundle)
	if err != nil {
		log.Errorf("failed to marshal export bundle for user [%s]: %s", userID, err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	log.Debugf("export bundle served: user [%s], %d sessions", userID, len(bundle.Sessions))

	w.Header().Set(
		"Content-Disposition",
		fmt.Sprintf("attachment; filename=fitlog-export-%s.json", now.Format("2006-01-02")),
	)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, bundleJson, http.StatusOK)
}
