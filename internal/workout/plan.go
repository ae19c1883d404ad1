package workout

import (
	"errors"
	"fmt"
)

var (
	ErrNoExercises       = errors.New("plan has no exercises")
	ErrInvalidRounds     = errors.New("rounds must be positive")
	ErrInvalidRest       = errors.New("rest seconds must not be negative")
	ErrInvalidDuration   = errors.New("exercise duration must be positive")
	ErrInvalidEnergyCost = errors.New("exercise energy cost must be positive")
)

// ExerciseDefinition describes one timed exercise. Definitions are immutable
// once part of a plan.
type ExerciseDefinition struct {
	ID                  string   `yaml:"id"`
	Name                string   `yaml:"name"`
	DurationSeconds     int      `yaml:"duration_seconds"`
	MuscleGroup         string   `yaml:"muscle_group"`
	SecondaryMuscles    []string `yaml:"secondary_muscles"`
	EnergyCostPerSecond float64  `yaml:"energy_cost_per_second"`
}

// Plan is the configuration a session is created from.
type Plan struct {
	Name        string
	Exercises   []ExerciseDefinition
	TotalRounds int
	RestSeconds int
}

// Validate reports the first problem that would make the plan unplayable.
func (p Plan) Validate() error {
	if len(p.Exercises) == 0 {
		return ErrNoExercises
	}
	if p.TotalRounds <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidRounds, p.TotalRounds)
	}
	if p.RestSeconds < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidRest, p.RestSeconds)
	}
	for i, ex := range p.Exercises {
		if ex.DurationSeconds <= 0 {
			return fmt.Errorf("%w: exercise %d (%s) has %d", ErrInvalidDuration, i, ex.Name, ex.DurationSeconds)
		}
		if ex.EnergyCostPerSecond <= 0 {
			return fmt.Errorf("%w: exercise %d (%s) has %g", ErrInvalidEnergyCost, i, ex.Name, ex.EnergyCostPerSecond)
		}
	}
	return nil
}

func (p Plan) ExerciseCount() int {
	return len(p.Exercises)
}

// TotalExercises is the number of WORK intervals across all rounds.
func (p Plan) TotalExercises() int {
	return len(p.Exercises) * p.TotalRounds
}

// RoundSeconds is the length of one round, excluding the rest that follows it.
func (p Plan) RoundSeconds() int {
	if len(p.Exercises) == 0 {
		return 0
	}
	total := 0
	for _, ex := range p.Exercises {
		total += ex.DurationSeconds
	}
	return total + (len(p.Exercises)-1)*p.RestSeconds
}

// TotalSeconds is the length of the whole workout. A rest separates every
// pair of consecutive exercises, including across rounds, but none follows
// the final exercise.
func (p Plan) TotalSeconds() int {
	if len(p.Exercises) == 0 || p.TotalRounds <= 0 {
		return 0
	}
	return p.TotalRounds*p.RoundSeconds() + (p.TotalRounds-1)*p.RestSeconds
}

// EstimatedCalories is the energy spent when every WORK second is played.
func (p Plan) EstimatedCalories() float64 {
	perRound := 0.0
	for _, ex := range p.Exercises {
		perRound += float64(ex.DurationSeconds) * ex.EnergyCostPerSecond
	}
	return perRound * float64(p.TotalRounds)
}
