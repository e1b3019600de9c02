package workout

// exerciseCatalog is the built-in exercise library. Read only; user specific
// data never lands here.
var exerciseCatalog = []ExerciseInfo{
	{
		ID:           "squat",
		Name:         "Barbell Back Squat",
		Description:  "The king of lower body lifts, loading the bar across the upper back.",
		MuscleGroups: []string{"quads", "glutes", "hamstrings", "core"},
		Equipment:    []string{"barbell", "rack"},
		Instructions: []string{
			"Set the bar on your traps and unrack it",
			"Brace, sit down between your hips until below parallel",
			"Drive back up through the mid foot",
		},
		Tips:       []string{"Keep the whole foot planted", "Big breath into the belly before each rep"},
		Variations: []string{"front-squat", "goblet-squat"},
	},
	{
		ID:           "front-squat",
		Name:         "Front Squat",
		Description:  "Squat with the bar racked on the front delts, keeping the torso upright.",
		MuscleGroups: []string{"quads", "glutes", "core"},
		Equipment:    []string{"barbell", "rack"},
	},
	{
		ID:           "goblet-squat",
		Name:         "Goblet Squat",
		Description:  "Squat holding a dumbbell or kettlebell at the chest.",
		MuscleGroups: []string{"quads", "glutes"},
		Equipment:    []string{"dumbbell"},
	},
	{
		ID:           "bench-press",
		Name:         "Barbell Bench Press",
		Description:  "Horizontal press from the chest while lying on a bench.",
		MuscleGroups: []string{"chest", "triceps", "front-delts"},
		Equipment:    []string{"barbell", "bench"},
		Instructions: []string{
			"Pinch the shoulder blades and plant the feet",
			"Lower the bar to the lower chest",
			"Press back up to lockout",
		},
		Tips:       []string{"Keep the wrists stacked over the elbows"},
		Variations: []string{"incline-bench-press", "dumbbell-bench-press"},
	},
	{
		ID:           "incline-bench-press",
		Name:         "Incline Bench Press",
		Description:  "Bench press on an inclined bench, shifting emphasis to the upper chest.",
		MuscleGroups: []string{"chest", "front-delts", "triceps"},
		Equipment:    []string{"barbell", "bench"},
	},
	{
		ID:           "dumbbell-bench-press",
		Name:         "Dumbbell Bench Press",
		Description:  "Bench press with independent dumbbells for a longer range of motion.",
		MuscleGroups: []string{"chest", "triceps", "front-delts"},
		Equipment:    []string{"dumbbell", "bench"},
	},
	{
		ID:           "deadlift",
		Name:         "Conventional Deadlift",
		Description:  "Hip hinge lifting the bar from the floor to lockout.",
		MuscleGroups: []string{"hamstrings", "glutes", "back", "core"},
		Equipment:    []string{"barbell"},
		Instructions: []string{
			"Set the bar over the mid foot",
			"Wedge the hips and pull the slack out of the bar",
			"Stand up, finishing with the hips",
		},
		Tips:       []string{"Keep the bar dragging along the legs"},
		Variations: []string{"romanian-deadlift", "trap-bar-deadlift"},
	},
	{
		ID:           "romanian-deadlift",
		Name:         "Romanian Deadlift",
		Description:  "Deadlift variation starting from the top, emphasizing the hamstring stretch.",
		MuscleGroups: []string{"hamstrings", "glutes", "back"},
		Equipment:    []string{"barbell"},
	},
	{
		ID:           "trap-bar-deadlift",
		Name:         "Trap Bar Deadlift",
		Description:  "Deadlift inside a hex bar with a more upright torso.",
		MuscleGroups: []string{"quads", "glutes", "back"},
		Equipment:    []string{"trap-bar"},
	},
	{
		ID:           "overhead-press",
		Name:         "Overhead Press",
		Description:  "Standing press from the shoulders to overhead lockout.",
		MuscleGroups: []string{"shoulders", "triceps", "core"},
		Equipment:    []string{"barbell"},
		Variations:   []string{"dumbbell-shoulder-press"},
	},
	{
		ID:           "dumbbell-shoulder-press",
		Name:         "Dumbbell Shoulder Press",
		Description:  "Overhead press with dumbbells, seated or standing.",
		MuscleGroups: []string{"shoulders", "triceps"},
		Equipment:    []string{"dumbbell"},
	},
	{
		ID:           "barbell-row",
		Name:         "Barbell Row",
		Description:  "Bent over row pulling the bar to the lower chest.",
		MuscleGroups: []string{"back", "biceps", "rear-delts"},
		Equipment:    []string{"barbell"},
	},
	{
		ID:           "pull-up",
		Name:         "Pull Up",
		Description:  "Vertical pull from a dead hang until the chin clears the bar.",
		MuscleGroups: []string{"back", "biceps"},
		Equipment:    []string{"pull-up-bar"},
		Tips:         []string{"Start each rep from a full hang"},
	},
	{
		ID:           "chin-up",
		Name:         "Chin Up",
		Description:  "Pull up with a supinated grip, more biceps involvement.",
		MuscleGroups: []string{"back", "biceps"},
		Equipment:    []string{"pull-up-bar"},
	},
	{
		ID:           "lat-pulldown",
		Name:         "Lat Pulldown",
		Description:  "Cable pulldown mimicking the pull up pattern.",
		MuscleGroups: []string{"back", "biceps"},
		Equipment:    []string{"cable-machine"},
	},
	{
		ID:           "dip",
		Name:         "Dip",
		Description:  "Bodyweight press on parallel bars.",
		MuscleGroups: []string{"chest", "triceps", "front-delts"},
		Equipment:    []string{"dip-bars"},
	},
	{
		ID:           "leg-press",
		Name:         "Leg Press",
		Description:  "Machine press driving the sled away with the legs.",
		MuscleGroups: []string{"quads", "glutes"},
		Equipment:    []string{"leg-press-machine"},
	},
	{
		ID:           "leg-curl",
		Name:         "Leg Curl",
		Description:  "Machine knee flexion for the hamstrings.",
		MuscleGroups: []string{"hamstrings"},
		Equipment:    []string{"leg-curl-machine"},
	},
	{
		ID:           "calf-raise",
		Name:         "Standing Calf Raise",
		Description:  "Plantar flexion against load, full stretch at the bottom.",
		MuscleGroups: []string{"calves"},
		Equipment:    []string{"machine"},
	},
	{
		ID:           "bicep-curl",
		Name:         "Barbell Curl",
		Description:  "Standing elbow flexion with a barbell.",
		MuscleGroups: []string{"biceps"},
		Equipment:    []string{"barbell"},
	},
	{
		ID:           "tricep-pushdown",
		Name:         "Tricep Pushdown",
		Description:  "Cable elbow extension with a rope or bar attachment.",
		MuscleGroups: []string{"triceps"},
		Equipment:    []string{"cable-machine"},
	},
	{
		ID:           "lateral-raise",
		Name:         "Dumbbell Lateral Raise",
		Description:  "Raising the dumbbells out to the sides for the medial delts.",
		MuscleGroups: []string{"shoulders"},
		Equipment:    []string{"dumbbell"},
	},
	{
		ID:           "plank",
		Name:         "Plank",
		Description:  "Isometric core hold on the forearms.",
		MuscleGroups: []string{"core"},
		Equipment:    []string{"bodyweight"},
	},
	{
		ID:           "hanging-leg-raise",
		Name:         "Hanging Leg Raise",
		Description:  "Raising the legs while hanging from a bar.",
		MuscleGroups: []string{"core", "hip-flexors"},
		Equipment:    []string{"pull-up-bar"},
	},
	{
		ID:           "running",
		Name:         "Running",
		Description:  "Steady state or interval running, outdoors or on a treadmill.",
		MuscleGroups: []string{"legs", "cardio"},
		Equipment:    []string{"bodyweight"},
	},
}

var exercisesByID = func() map[string]ExerciseInfo {
	m := make(map[string]ExerciseInfo, len(exerciseCatalog))
	for _, e := range exerciseCatalog {
		m[e.ID] = e
	}
	return m
}()

// Exercises returns the whole built-in exercise catalog.
func Exercises() []ExerciseInfo {
	return exerciseCatalog
}

// ExerciseByID looks up a catalog entry.
func ExerciseByID(id string) (ExerciseInfo, bool) {
	e, ok := exercisesByID[id]
	return e, ok
}
