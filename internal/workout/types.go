package workout

import "time"

// UserProfile holds identity and training attributes, one per user.
type UserProfile struct {
	Name                string  `json:"name"`
	Sex                 string  `json:"sex"`
	Age                 int     `json:"age"`
	HeightCm            float64 `json:"heightCm"`
	WeightKg            float64 `json:"weightKg"`
	Goal                string  `json:"goal"`
	ExperienceLevel     string  `json:"experienceLevel"`
	EquipmentAccess     string  `json:"equipmentAccess"`
	UnitSystem          string  `json:"unitSystem"`
	OnboardingCompleted bool    `json:"onboardingCompleted"`
}

// ProfileUpdate is a partial profile mutation; nil fields are left untouched.
type ProfileUpdate struct {
	Name                *string  `json:"name,omitempty"`
	Sex                 *string  `json:"sex,omitempty"`
	Age                 *int     `json:"age,omitempty"`
	HeightCm            *float64 `json:"heightCm,omitempty"`
	WeightKg            *float64 `json:"weightKg,omitempty"`
	Goal                *string  `json:"goal,omitempty"`
	ExperienceLevel     *string  `json:"experienceLevel,omitempty"`
	EquipmentAccess     *string  `json:"equipmentAccess,omitempty"`
	UnitSystem          *string  `json:"unitSystem,omitempty"`
	OnboardingCompleted *bool    `json:"onboardingCompleted,omitempty"`
}

// ExerciseInfo is a static exercise catalog entry, immutable at runtime.
type ExerciseInfo struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	MuscleGroups []string `json:"muscleGroups"`
	Equipment    []string `json:"equipment"`
	Instructions []string `json:"instructions,omitempty"`
	Tips         []string `json:"tips,omitempty"`
	Variations   []string `json:"variations,omitempty"`
}

// WorkoutSet is one performed set. Weight is always stored in kilograms,
// regardless of the profile's display unit.
type WorkoutSet struct {
	ID        string  `json:"id"`
	Reps      int     `json:"reps"`
	WeightKg  float64 `json:"weightKg"`
	Completed bool    `json:"completed"`
	RIR       *int    `json:"rir,omitempty"`
	Note      string  `json:"note,omitempty"`
}

// SetUpdate is a partial set mutation; nil fields are left untouched.
type SetUpdate struct {
	Reps      *int     `json:"reps,omitempty"`
	WeightKg  *float64 `json:"weightKg,omitempty"`
	Completed *bool    `json:"completed,omitempty"`
	RIR       *int     `json:"rir,omitempty"`
	Note      *string  `json:"note,omitempty"`
}

// WorkoutExercise is an exercise instance within a session.
type WorkoutExercise struct {
	ID          string       `json:"id"`
	ExerciseID  string       `json:"exerciseId"`
	Sets        []WorkoutSet `json:"sets"`
	RestSeconds int          `json:"restSeconds"`
	Notes       string       `json:"notes,omitempty"`
}

// WorkoutSession is a logged or in-progress workout. At most one session per
// user is active; once completed it becomes an immutable history record.
type WorkoutSession struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Date      string            `json:"date"` // YYYY-MM-DD
	StartTime *time.Time        `json:"startTime,omitempty"`
	EndTime   *time.Time        `json:"endTime,omitempty"`
	Exercises []WorkoutExercise `json:"exercises"`
	Completed bool              `json:"completed"`
	RoutineID string            `json:"routineId,omitempty"`
}

// RoutineExercise is a template entry within a routine.
type RoutineExercise struct {
	ExerciseID     string  `json:"exerciseId"`
	TargetSets     int     `json:"targetSets"`
	TargetReps     int     `json:"targetReps"`
	TargetWeightKg float64 `json:"targetWeightKg"`
	RestSeconds    int     `json:"restSeconds"`
	Notes          string  `json:"notes,omitempty"`
}

// Routine is a named reusable workout template. Sessions reference routines
// by id for provenance only; deleting a routine leaves those references
// dangling on purpose.
type Routine struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Exercises []RoutineExercise `json:"exercises"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// PersonalRecord is the best known weight per exercise per rep count.
type PersonalRecord struct {
	ExerciseID string  `json:"exerciseId"`
	Reps       int     `json:"reps"`
	WeightKg   float64 `json:"weightKg"`
	Date       string  `json:"date"`
}

// State is the full per-user workout snapshot, serialized wholesale to local
// disk and to the remote sync document.
type State struct {
	Profile         *UserProfile              `json:"profile,omitempty"`
	ActiveSession   *WorkoutSession           `json:"activeSession,omitempty"`
	Sessions        []WorkoutSession          `json:"sessions"`
	Routines        []Routine                 `json:"routines"`
	PersonalRecords map[string]PersonalRecord `json:"personalRecords"`
}

// ExerciseHistoryEntry aggregates one historical session for an exercise:
// the max weight and total volume among its completed sets.
type ExerciseHistoryEntry struct {
	SessionID   string  `json:"sessionId"`
	Date        string  `json:"date"`
	MaxWeightKg float64 `json:"maxWeightKg"`
	TotalVolume float64 `json:"totalVolume"`
}

func newState() *State {
	return &State{
		Sessions:        []WorkoutSession{},
		Routines:        []Routine{},
		PersonalRecords: map[string]PersonalRecord{},
	}
}

func (s *State) clone() *State {
	c := newState()
	if s.Profile != nil {
		profile := *s.Profile
		c.Profile = &profile
	}
	if s.ActiveSession != nil {
		c.ActiveSession = cloneSession(s.ActiveSession)
	}
	for i := range s.Sessions {
		c.Sessions = append(c.Sessions, *cloneSession(&s.Sessions[i]))
	}
	for _, r := range s.Routines {
		routine := r
		routine.Exercises = append([]RoutineExercise(nil), r.Exercises...)
		c.Routines = append(c.Routines, routine)
	}
	for k, v := range s.PersonalRecords {
		c.PersonalRecords[k] = v
	}
	return c
}

func cloneSession(session *WorkoutSession) *WorkoutSession {
	c := *session
	c.Exercises = make([]WorkoutExercise, 0, len(session.Exercises))
	for _, ex := range session.Exercises {
		exercise := ex
		exercise.Sets = make([]WorkoutSet, 0, len(ex.Sets))
		for _, set := range ex.Sets {
			s := set
			if set.RIR != nil {
				rir := *set.RIR
				s.RIR = &rir
			}
			exercise.Sets = append(exercise.Sets, s)
		}
		c.Exercises = append(c.Exercises, exercise)
	}
	return &c
}
