package workout

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/2beens/fitlog/internal/localstore"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// StoreName is the snapshot / sync document name of the workout store.
const StoreName = "workout"

var (
	ErrNoActiveSession = errors.New("no active workout session")
	ErrUnknownExercise = errors.New("unknown exercise")
	ErrRoutineNotFound = errors.New("routine not found")
)

// Store owns all per-user workout state: profile, sessions, routines and
// personal records. Every mutation is persisted to the local snapshot and
// announced to subscribers (the sync bridge). Set-level mutations aimed at
// ids that no longer exist are silent no-ops, so a stale client cannot
// corrupt anything by firing at a gone target.
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

// state returns the in-memory state for the user, hydrating it from the
// local snapshot on first touch.
func (s *Store) state(userID string) *State {
	if st, ok := s.states[userID]; ok {
		return st
	}

	st := newState()
	found, err := s.snapshots.Load(userID, StoreName, st)
	if err != nil {
		log.Errorf("workout store: load snapshot for user [%s]: %s", userID, err)
		st = newState()
	}
	if found {
		log.Debugf("workout store: state hydrated for user [%s]", userID)
	}
	if st.PersonalRecords == nil {
		st.PersonalRecords = map[string]PersonalRecord{}
	}

	s.states[userID] = st
	return st
}

func (s *Store) afterMutation(userID string) {
	if err := s.snapshots.Save(userID, StoreName, s.states[userID]); err != nil {
		log.Errorf("workout store: save snapshot for user [%s]: %s", userID, err)
	}
	for _, fn := range s.subscribers {
		fn(userID)
	}
}

func (s *Store) dateOf(t time.Time) string {
	return t.Format("2006-01-02")
}

func prKey(exerciseID string, reps int) string {
	return fmt.Sprintf("%s||%d", exerciseID, reps)
}

// Profile returns the user profile, if one was ever set.
func (s *Store) Profile(userID string) (UserProfile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(userID)
	if st.Profile == nil {
		return UserProfile{}, false
	}
	return *st.Profile, true
}

// UpdateProfile applies a partial profile update and returns the result.
func (s *Store) UpdateProfile(userID string, update ProfileUpdate) UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(userID)
	if st.Profile == nil {
		st.Profile = &UserProfile{}
	}
	p := st.Profile
	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Sex != nil {
		p.Sex = *update.Sex
	}
	if update.Age != nil {
		p.Age = *update.Age
	}
	if update.HeightCm != nil {
		p.HeightCm = *update.HeightCm
	}
	if update.WeightKg != nil {
		p.WeightKg = *update.WeightKg
	}
	if update.Goal != nil {
		p.Goal = *update.Goal
	}
	if update.ExperienceLevel != nil {
		p.ExperienceLevel = *update.ExperienceLevel
	}
	if update.EquipmentAccess != nil {
		p.EquipmentAccess = *update.EquipmentAccess
	}
	if update.UnitSystem != nil {
		p.UnitSystem = *update.UnitSystem
	}
	if update.OnboardingCompleted != nil {
		p.OnboardingCompleted = *update.OnboardingCompleted
	}

	s.afterMutation(userID)
	return *p
}

// StartWorkout opens a new active session. An already active session is
// silently replaced and its data discarded. When routineID is given, the
// routine's exercises are materialized with their target set counts and
// reps, at zero weight.
func (s *Store) StartWorkout(userID, name, routineID string) WorkoutSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(userID)
	now := s.nowFunc()
	session := &WorkoutSession{
		ID:        s.newIDFunc(),
		Name:      name,
		Date:      s.dateOf(now),
		StartTime: &now,
		Exercises: []WorkoutExercise{},
	}

	if routineID != "" {
		for _, r := range st.Routines {
			if r.ID != routineID {
				continue
			}
			session.RoutineID = routineID
			session.Name = r.Name
			if name != "" {
				session.Name = name
			}
			for _, re := range r.Exercises {
				ex := WorkoutExercise{
					ID:          s.newIDFunc(),
					ExerciseID:  re.ExerciseID,
					RestSeconds: re.RestSeconds,
					Notes:       re.Notes,
				}
				for i := 0; i < re.TargetSets; i++ {
					ex.Sets = append(ex.Sets, WorkoutSet{
						ID:   s.newIDFunc(),
						Reps: re.TargetReps,
					})
				}
				session.Exercises = append(session.Exercises, ex)
			}
			break
		}
	}

	if st.ActiveSession != nil {
		log.Warnf(
			"workout store: user [%s] starting session over active [%s], discarding it",
			userID, st.ActiveSession.ID,
		)
	}
	st.ActiveSession = session

	s.afterMutation(userID)
	return *cloneSession(session)
}

// ActiveSession returns a copy of the in-progress session, if any.
func (s *Store) ActiveSession(userID string) (WorkoutSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(userID)
	if st.ActiveSession == nil {
		return WorkoutSession{}, false
	}
	return *cloneSession(st.ActiveSession), true
}

// AddExerciseToSession appends an exercise to the active session. Sets are
// prefilled from the most recent completed session containing the same
// exercise (same reps and weights, completion cleared); with no history the
// default is three sets of ten at zero weight.
func (s *Store) AddExerciseToSession(userID, exerciseID string) (WorkoutExercise, error) {
	if _, ok := ExerciseByID(exerciseID); !ok {
		return WorkoutExercise{}, ErrUnknownExercise
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(userID)
	if st.ActiveSession == nil {
		return WorkoutExercise{}, ErrNoActiveSession
	}

	ex := WorkoutExercise{
		ID:         s.newIDFunc(),
		ExerciseID: exerciseID,
		Sets:       s.prefillSets(st, exerciseID),
	}
	st.ActiveSession.Exercises = append(st.ActiveSession.Exercises, ex)

	s.afterMutation(userID)
	return ex, nil
}

func (s *Store) prefillSets(st *State, exerciseID string) []WorkoutSet {
	for i := len(st.Sessions) - 1; i >= 0; i-- {
		for _, ex := range st.Sessions[i].Exercises {
			if ex.ExerciseID != exerciseID || len(ex.Sets) == 0 {
				continue
			}
			sets := make([]WorkoutSet, 0, len(ex.Sets))
			for _, prev := range ex.Sets {
				sets = append(sets, WorkoutSet{
					ID:       s.newIDFunc(),
					Reps:     prev.Reps,
					WeightKg: prev.WeightKg,
				})
			}
			return sets
		}
	}

	sets := make([]WorkoutSet, 0, 3)
	for i := 0; i < 3; i++ {
		sets = append(sets, WorkoutSet{
			ID:   s.newIDFunc(),
			Reps: 10,
		})
	}
	return sets
}

// AddSetToExercise appends a set to the given session exercise, copying the
// shape of its current last set. A missing exercise id is a no-op.
func (s *Store) AddSetToExercise(userID, workoutExerciseID string) (WorkoutSet, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(userID)
	ex := activeExercise(st, workoutExerciseID)
	if ex == nil {
		return WorkoutSet{}, false
	}

	set := WorkoutSet{
		ID:   s.newIDFunc(),
		Reps: 10,
	}
	if len(ex.Sets) > 0 {
		last := ex.Sets[len(ex.Sets)-1]
		set.Reps = last.Reps
		set.WeightKg = last.WeightKg
	}
	ex.Sets = append(ex.Sets, set)

	s.afterMutation(userID)
	return set, true
}

// UpdateSet applies a partial update to one set of the active session.
// Missing ids are a no-op.
func (s *Store) UpdateSet(userID, workoutExerciseID, setID string, update SetUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(userID)
	set := activeSet(st, workoutExerciseID, setID)
	if set == nil {
		return
	}

	if update.Reps != nil {
		set.Reps = *update.Reps
	}
	if update.WeightKg != nil {
		set.WeightKg = *update.WeightKg
	}
	if update.Completed != nil {
		set.Completed = *update.Completed
	}
	if update.RIR != nil {
		rir := *update.RIR
		set.RIR = &rir
	}
	if update.Note != nil {
		set.Note = *update.Note
	}

	s.afterMutation(userID)
}

// RemoveSet deletes one set from the active session. Missing ids are a no-op.
func (s *Store) RemoveSet(userID, workoutExerciseID, setID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(userID)
	ex := activeExercise(st, workoutExerciseID)
	if ex == nil {
		return
	}
	for i := range ex.Sets {
		if ex.Sets[i].ID != setID {
			continue
		}
		ex.Sets = append(ex.Sets[:i], ex.Sets[i+1:]...)
		s.afterMutation(userID)
		return
	}
}

// ToggleSetComplete flips the completion flag of one set. Missing ids are
// a no-op.
func (s *Store) ToggleSetComplete(userID, workoutExerciseID, setID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(userID)
	set := activeSet(st, workoutExerciseID, setID)
	if set == nil {
		return
	}
	set.Completed = !set.Completed

	s.afterMutation(userID)
}

// EndWorkout completes the active session, evaluates personal records over
// its completed sets with a positive weight, moves it into history and
// clears the active slot. Returns the finished session and any new records.
func (s *Store) EndWorkout(userID string) (WorkoutSession, []PersonalRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(userID)
	if st.ActiveSession == nil {
		return WorkoutSession{}, nil, ErrNoActiveSession
	}

	session := st.ActiveSession
	now := s.nowFunc()
	session.EndTime = &now
	session.Completed = true

	var newPRs []PersonalRecord
	for _, ex := range session.Exercises {
		for _, set := range ex.Sets {
			if !set.Completed || set.WeightKg <= 0 {
				continue
			}
			if pr, isNew := checkAndUpdatePR(st, ex.ExerciseID, set, session.Date); isNew {
				newPRs = append(newPRs, pr)
			}
		}
	}

	st.Sessions = append(st.Sessions, *session)
	st.ActiveSession = nil

	log.Tracef(
		"workout store: user [%s] finished session [%s], new PRs: %d",
		userID, session.ID, len(newPRs),
	)

	s.afterMutation(userID)
	return *cloneSession(session), newPRs, nil
}

// checkAndUpdatePR replaces the record for (exercise, reps) only on a
// strictly greater weight, so ties keep the earlier date.
func checkAndUpdatePR(st *State, exerciseID string, set WorkoutSet, date string) (PersonalRecord, bool) {
	key := prKey(exerciseID, set.Reps)
	if current, ok := st.PersonalRecords[key]; ok && set.WeightKg <= current.WeightKg {
		return PersonalRecord{}, false
	}
	pr := PersonalRecord{
		ExerciseID: exerciseID,
		Reps:       set.Reps,
		WeightKg:   set.WeightKg,
		Date:       date,
	}
	st.PersonalRecords[key] = pr
	return pr, true
}

// CancelWorkout discards the active session without touching history or
// records. No-op when nothing is active.
func (s *Store) CancelWorkout(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(userID)
	if st.ActiveSession == nil {
		return
	}
	st.ActiveSession = nil

	s.afterMutation(userID)
}

// Sessions returns the completed workout history, oldest first.
func (s *Store) Sessions(userID string) []WorkoutSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(userID)
	sessions := make([]WorkoutSession, 0, len(st.Sessions))
	for i := range st.Sessions {
		sessions = append(sessions, *cloneSession(&st.Sessions[i]))
	}
	return sessions
}

// PersonalRecords returns all records, sorted for stable output.
func (s *Store) PersonalRecords(userID string) []PersonalRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(userID)
	records := make([]PersonalRecord, 0, len(st.PersonalRecords))
	for _, pr := range st.PersonalRecords {
		records = append(records, pr)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].ExerciseID != records[j].ExerciseID {
			return records[i].ExerciseID < records[j].ExerciseID
		}
		return records[i].Reps < records[j].Reps
	})
	return records
}

// AddRoutine creates a routine.
func (s *Store) AddRoutine(userID, name string, exercises []RoutineExercise) Routine {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(userID)
	now := s.nowFunc()
	routine := Routine{
		ID:        s.newIDFunc(),
		Name:      name,
		Exercises: append([]RoutineExercise{}, exercises...),
		CreatedAt: now,
		UpdatedAt: now,
	}
	st.Routines = append(st.Routines, routine)

	s.afterMutation(userID)
	return routine
}

// UpdateRoutine replaces a routine's name and exercises and refreshes its
// updated timestamp.
func (s *Store) UpdateRoutine(userID, routineID, name string, exercises []RoutineExercise) (Routine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(userID)
	for i := range st.Routines {
		if st.Routines[i].ID != routineID {
			continue
		}
		st.Routines[i].Name = name
		st.Routines[i].Exercises = append([]RoutineExercise{}, exercises...)
		st.Routines[i].UpdatedAt = s.nowFunc()
		routine := st.Routines[i]
		s.afterMutation(userID)
		return routine, nil
	}
	return Routine{}, ErrRoutineNotFound
}

// DeleteRoutine removes a routine. Sessions started from it keep their
// routine id reference. Missing id is a no-op.
func (s *Store) DeleteRoutine(userID, routineID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(userID)
	for i := range st.Routines {
		if st.Routines[i].ID != routineID {
			continue
		}
		st.Routines = append(st.Routines[:i], st.Routines[i+1:]...)
		s.afterMutation(userID)
		return
	}
}

// Routines returns all routines of the user.
func (s *Store) Routines(userID string) []Routine {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(userID)
	routines := make([]Routine, 0, len(st.Routines))
	for _, r := range st.Routines {
		routine := r
		routine.Exercises = append([]RoutineExercise(nil), r.Exercises...)
		routines = append(routines, routine)
	}
	return routines
}

// ExerciseHistory aggregates, per completed session containing the given
// exercise, the max weight and total volume among its completed sets,
// ascending by date.
func (s *Store) ExerciseHistory(userID, exerciseID string) []ExerciseHistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(userID)
	var history []ExerciseHistoryEntry
	for _, session := range st.Sessions {
		entry := ExerciseHistoryEntry{
			SessionID: session.ID,
			Date:      session.Date,
		}
		found := false
		for _, ex := range session.Exercises {
			if ex.ExerciseID != exerciseID {
				continue
			}
			found = true
			for _, set := range ex.Sets {
				if !set.Completed {
					continue
				}
				if set.WeightKg > entry.MaxWeightKg {
					entry.MaxWeightKg = set.WeightKg
				}
				entry.TotalVolume += float64(set.Reps) * set.WeightKg
			}
		}
		if found {
			history = append(history, entry)
		}
	}

	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Date < history[j].Date
	})
	return history
}

// WeeklyWorkoutCount counts completed sessions in the trailing 7 days,
// today included.
func (s *Store) WeeklyWorkoutCount(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(userID)
	cutoff := s.dateOf(s.nowFunc().AddDate(0, 0, -6))
	count := 0
	for _, session := range st.Sessions {
		if session.Date >= cutoff {
			count++
		}
	}
	return count
}

// TotalWorkouts counts all completed sessions.
func (s *Store) TotalWorkouts(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state(userID).Sessions)
}

// Reset wipes all workout data of the user, memory and disk.
func (s *Store) Reset(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.states[userID] = newState()
	if err := s.snapshots.Delete(userID, StoreName); err != nil {
		return fmt.Errorf("delete workout snapshot: %w", err)
	}
	for _, fn := range s.subscribers {
		fn(userID)
	}
	return nil
}

// Snapshot serializes the user's full workout state, for the sync bridge.
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
		return fmt.Errorf("unmarshal workout snapshot: %w", err)
	}
	if st.PersonalRecords == nil {
		st.PersonalRecords = map[string]PersonalRecord{}
	}
	s.states[userID] = st

	if err := s.snapshots.Save(userID, StoreName, st); err != nil {
		return fmt.Errorf("persist restored workout snapshot: %w", err)
	}
	return nil
}

func activeExercise(st *State, workoutExerciseID string) *WorkoutExercise {
	if st.ActiveSession == nil {
		return nil
	}
	for i := range st.ActiveSession.Exercises {
		if st.ActiveSession.Exercises[i].ID == workoutExerciseID {
			return &st.ActiveSession.Exercises[i]
		}
	}
	return nil
}

func activeSet(st *State, workoutExerciseID, setID string) *WorkoutSet {
	ex := activeExercise(st, workoutExerciseID)
	if ex == nil {
		return nil
	}
	for i := range ex.Sets {
		if ex.Sets[i].ID == setID {
			return &ex.Sets[i]
		}
	}
	return nil
}
