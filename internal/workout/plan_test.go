package workout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ex(name string, duration int, cost float64) ExerciseDefinition {
	return ExerciseDefinition{ID: name, Name: name, DurationSeconds: duration, MuscleGroup: "Test", EnergyCostPerSecond: cost}
}

// scenarioPlan is two exercises (45s and 30s) over two rounds with 15s rest.
func scenarioPlan() Plan {
	return Plan{
		Name:        "Scenario",
		Exercises:   []ExerciseDefinition{ex("A", 45, 0.25), ex("B", 30, 0.10)},
		TotalRounds: 2,
		RestSeconds: 15,
	}
}

func TestPlan_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Plan)
		wantErr error
	}{
		{"valid", func(p *Plan) {}, nil},
		{"zero rest is allowed", func(p *Plan) { p.RestSeconds = 0 }, nil},
		{"no exercises", func(p *Plan) { p.Exercises = nil }, ErrNoExercises},
		{"zero rounds", func(p *Plan) { p.TotalRounds = 0 }, ErrInvalidRounds},
		{"negative rest", func(p *Plan) { p.RestSeconds = -1 }, ErrInvalidRest},
		{"zero duration", func(p *Plan) { p.Exercises[1].DurationSeconds = 0 }, ErrInvalidDuration},
		{"zero energy cost", func(p *Plan) { p.Exercises[0].EnergyCostPerSecond = 0 }, ErrInvalidEnergyCost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := scenarioPlan()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestPlan_Durations(t *testing.T) {
	p := scenarioPlan()
	assert.Equal(t, 2, p.ExerciseCount())
	assert.Equal(t, 4, p.TotalExercises())
	assert.Equal(t, 90, p.RoundSeconds())
	assert.Equal(t, 195, p.TotalSeconds())
	assert.InDelta(t, 2*(45*0.25+30*0.10), p.EstimatedCalories(), 1e-9)
}

func TestCatalog_PlansAreValid(t *testing.T) {
	require.NotEmpty(t, AllPlans)
	ids := make(map[string]bool)
	for _, tmpl := range AllPlans {
		assert.NoError(t, tmpl.DefaultPlan().Validate(), tmpl.ID)
		assert.False(t, ids[tmpl.ID], "duplicate plan id %s", tmpl.ID)
		ids[tmpl.ID] = true
	}
}

func TestPlanTemplate_PlanCopiesExercises(t *testing.T) {
	tmpl := AllPlans[0]
	p := tmpl.Plan(5, 0)
	p.Exercises[0].Name = "changed"

	assert.NotEqual(t, "changed", tmpl.Exercises[0].Name)
	assert.Equal(t, 5, p.TotalRounds)
	assert.Equal(t, 0, p.RestSeconds)
}

func TestPlanTemplate_MuscleGroups(t *testing.T) {
	tmpl := PlanTemplate{Exercises: []ExerciseDefinition{Plank, BicycleCrunches, JumpSquats}}
	assert.Equal(t, []string{"Core", "Legs"}, tmpl.MuscleGroups())
}

func TestGetPlanTemplateByID(t *testing.T) {
	tmpl, ok := GetPlanTemplateByID(AllPlans, "CARDIO-BURN")
	require.True(t, ok)
	assert.Equal(t, "Cardio Burn", tmpl.Name)

	_, ok = GetPlanTemplateByID(AllPlans, "nope")
	assert.False(t, ok)
}

func TestParsePlans(t *testing.T) {
	data := []byte(`
plans:
  - id: quick
    name: Quick Ten
    difficulty: Beginner
    rounds: 2
    rest_seconds: 0
    exercises:
      - ref: burpees
        duration_seconds: 20
      - name: Wall Sit
        duration_seconds: 30
        muscle_group: Legs
        energy_cost_per_second: 0.09
`)

	plans, err := ParsePlans(data)
	require.NoError(t, err)
	require.Len(t, plans, 1)

	p := plans[0]
	assert.Equal(t, "quick", p.ID)
	assert.Equal(t, DifficultyBeginner, p.Difficulty)
	assert.Equal(t, 2, p.DefaultRounds)
	assert.Equal(t, 0, p.DefaultRestSeconds)
	require.Len(t, p.Exercises, 2)
	assert.Equal(t, "Burpees", p.Exercises[0].Name)
	assert.Equal(t, 20, p.Exercises[0].DurationSeconds)
	assert.Equal(t, Burpees.EnergyCostPerSecond, p.Exercises[0].EnergyCostPerSecond)
	assert.Equal(t, "Wall Sit", p.Exercises[1].ID)
}

func TestParsePlans_DefaultsAndErrors(t *testing.T) {
	plans, err := ParsePlans([]byte("plans:\n  - name: Solo\n    exercises:\n      - ref: plank\n"))
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "Solo", plans[0].ID)
	assert.Equal(t, 1, plans[0].DefaultRounds)
	assert.Equal(t, 15, plans[0].DefaultRestSeconds)
	assert.Equal(t, DifficultyIntermediate, plans[0].Difficulty)

	_, err = ParsePlans([]byte("plans:\n  - name: Bad\n    exercises:\n      - ref: moonwalk\n"))
	assert.ErrorIs(t, err, ErrUnknownExercise)

	_, err = ParsePlans([]byte("plans:\n  - name: Empty\n"))
	assert.ErrorIs(t, err, ErrNoExercises)

	_, err = ParsePlans([]byte("plans:\n  - name: Lazy\n    exercises:\n      - name: Nap\n        duration_seconds: 60\n"))
	assert.ErrorIs(t, err, ErrInvalidEnergyCost)

	_, err = ParsePlans([]byte("plans: [oops"))
	assert.Error(t, err)
}
