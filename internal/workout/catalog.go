package workout

import "strings"

// Difficulty is a coarse label shown on the plan cards.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

// PlanTemplate is a catalog entry. It becomes a Plan once the user picks
// rounds and rest on the configuration screen.
type PlanTemplate struct {
	ID                 string
	Name               string
	Description        string
	Difficulty         Difficulty
	Exercises          []ExerciseDefinition
	DefaultRounds      int
	DefaultRestSeconds int
}

// Plan builds a playable plan from the template. The exercise slice is copied
// so the catalog cannot be modified through a running session.
func (t PlanTemplate) Plan(rounds, restSeconds int) Plan {
	exercises := make([]ExerciseDefinition, len(t.Exercises))
	copy(exercises, t.Exercises)
	return Plan{
		Name:        t.Name,
		Exercises:   exercises,
		TotalRounds: rounds,
		RestSeconds: restSeconds,
	}
}

// DefaultPlan uses the template's own rounds and rest.
func (t PlanTemplate) DefaultPlan() Plan {
	return t.Plan(t.DefaultRounds, t.DefaultRestSeconds)
}

// MuscleGroups lists the primary muscle groups the template works, in order
// of first appearance.
func (t PlanTemplate) MuscleGroups() []string {
	var groups []string
	seen := make(map[string]bool)
	for _, ex := range t.Exercises {
		if !seen[ex.MuscleGroup] {
			seen[ex.MuscleGroup] = true
			groups = append(groups, ex.MuscleGroup)
		}
	}
	return groups
}

var (
	Burpees = ExerciseDefinition{
		ID: "burpees", Name: "Burpees", DurationSeconds: 40,
		MuscleGroup: "Full Body", SecondaryMuscles: []string{"Chest", "Quads", "Shoulders"},
		EnergyCostPerSecond: 0.25,
	}
	MountainClimbers = ExerciseDefinition{
		ID: "mountain-climbers", Name: "Mountain Climbers", DurationSeconds: 40,
		MuscleGroup: "Core", SecondaryMuscles: []string{"Shoulders", "Hip Flexors"},
		EnergyCostPerSecond: 0.22,
	}
	JumpSquats = ExerciseDefinition{
		ID: "jump-squats", Name: "Jump Squats", DurationSeconds: 40,
		MuscleGroup: "Legs", SecondaryMuscles: []string{"Glutes", "Calves"},
		EnergyCostPerSecond: 0.21,
	}
	HighKnees = ExerciseDefinition{
		ID: "high-knees", Name: "High Knees", DurationSeconds: 30,
		MuscleGroup: "Cardio", SecondaryMuscles: []string{"Hip Flexors", "Calves"},
		EnergyCostPerSecond: 0.20,
	}
	JumpingJacks = ExerciseDefinition{
		ID: "jumping-jacks", Name: "Jumping Jacks", DurationSeconds: 45,
		MuscleGroup: "Cardio", SecondaryMuscles: []string{"Shoulders", "Calves"},
		EnergyCostPerSecond: 0.16,
	}
	Lunges = ExerciseDefinition{
		ID: "lunges", Name: "Alternating Lunges", DurationSeconds: 40,
		MuscleGroup: "Legs", SecondaryMuscles: []string{"Glutes", "Hamstrings"},
		EnergyCostPerSecond: 0.15,
	}
	PushUps = ExerciseDefinition{
		ID: "push-ups", Name: "Push-ups", DurationSeconds: 30,
		MuscleGroup: "Chest", SecondaryMuscles: []string{"Triceps", "Shoulders"},
		EnergyCostPerSecond: 0.14,
	}
	BicycleCrunches = ExerciseDefinition{
		ID: "bicycle-crunches", Name: "Bicycle Crunches", DurationSeconds: 30,
		MuscleGroup: "Core", SecondaryMuscles: []string{"Obliques"},
		EnergyCostPerSecond: 0.12,
	}
	Plank = ExerciseDefinition{
		ID: "plank", Name: "Plank Hold", DurationSeconds: 45,
		MuscleGroup: "Core", SecondaryMuscles: []string{"Shoulders", "Glutes"},
		EnergyCostPerSecond: 0.08,
	}
	GluteBridges = ExerciseDefinition{
		ID: "glute-bridges", Name: "Glute Bridges", DurationSeconds: 40,
		MuscleGroup: "Glutes", SecondaryMuscles: []string{"Hamstrings", "Core"},
		EnergyCostPerSecond: 0.10,
	}
)

// AllExercises is the built-in exercise library. Plan files may reference
// these by ID.
var AllExercises = []ExerciseDefinition{
	Burpees, MountainClimbers, JumpSquats, HighKnees, JumpingJacks,
	Lunges, PushUps, BicycleCrunches, Plank, GluteBridges,
}

// AllPlans is the built-in plan catalog shown on the home screen.
var AllPlans = []PlanTemplate{
	{
		ID:                 "full-body-blast",
		Name:               "Full Body Blast",
		Description:        "Compound moves that hit everything. Short rests keep the heart rate up.",
		Difficulty:         DifficultyAdvanced,
		Exercises:          []ExerciseDefinition{Burpees, JumpSquats, PushUps, MountainClimbers},
		DefaultRounds:      3,
		DefaultRestSeconds: 15,
	},
	{
		ID:                 "cardio-burn",
		Name:               "Cardio Burn",
		Description:        "Light on the joints, heavy on the lungs.",
		Difficulty:         DifficultyIntermediate,
		Exercises:          []ExerciseDefinition{JumpingJacks, HighKnees, MountainClimbers},
		DefaultRounds:      3,
		DefaultRestSeconds: 20,
	},
	{
		ID:                 "core-crusher",
		Name:               "Core Crusher",
		Description:        "Abs and obliques with a static finisher.",
		Difficulty:         DifficultyIntermediate,
		Exercises:          []ExerciseDefinition{BicycleCrunches, MountainClimbers, Plank},
		DefaultRounds:      2,
		DefaultRestSeconds: 20,
	},
	{
		ID:                 "lower-body-power",
		Name:               "Lower Body Power",
		Description:        "Legs and glutes, finishing with bridges to cool down.",
		Difficulty:         DifficultyBeginner,
		Exercises:          []ExerciseDefinition{JumpSquats, Lunges, GluteBridges},
		DefaultRounds:      2,
		DefaultRestSeconds: 30,
	},
}

// GetExerciseByID searches AllExercises, ignoring case.
func GetExerciseByID(id string) (ExerciseDefinition, bool) {
	for _, ex := range AllExercises {
		if strings.EqualFold(ex.ID, id) {
			return ex, true
		}
	}
	return ExerciseDefinition{}, false
}

// GetPlanTemplateByID searches plans, ignoring case.
func GetPlanTemplateByID(plans []PlanTemplate, id string) (PlanTemplate, bool) {
	for _, p := range plans {
		if strings.EqualFold(p.ID, id) {
			return p, true
		}
	}
	return PlanTemplate{}, false
}
