package workout

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var ErrUnknownExercise = errors.New("unknown exercise")

type plansFile struct {
	Plans []planEntry `yaml:"plans"`
}

type planEntry struct {
	ID          string          `yaml:"id"`
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Difficulty  Difficulty      `yaml:"difficulty"`
	Rounds      int             `yaml:"rounds"`
	RestSeconds *int            `yaml:"rest_seconds"`
	Exercises   []exerciseEntry `yaml:"exercises"`
}

// exerciseEntry either references a built-in exercise through Ref, with
// optional overrides, or defines a new one inline.
type exerciseEntry struct {
	Ref                string `yaml:"ref"`
	ExerciseDefinition `yaml:",inline"`
}

// LoadPlansFile reads user-defined plan templates from a YAML file. Each
// plan is validated with its default rounds and rest.
func LoadPlansFile(path string) ([]PlanTemplate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plans file: %w", err)
	}
	return ParsePlans(data)
}

// ParsePlans decodes the plans file format.
func ParsePlans(data []byte) ([]PlanTemplate, error) {
	var file plansFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing plans file: %w", err)
	}

	templates := make([]PlanTemplate, 0, len(file.Plans))
	for i, entry := range file.Plans {
		tmpl, err := entry.template()
		if err != nil {
			return nil, fmt.Errorf("plan %d (%s): %w", i, entry.Name, err)
		}
		if err := tmpl.DefaultPlan().Validate(); err != nil {
			return nil, fmt.Errorf("plan %d (%s): %w", i, entry.Name, err)
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}

func (e planEntry) template() (PlanTemplate, error) {
	tmpl := PlanTemplate{
		ID:                 e.ID,
		Name:               e.Name,
		Description:        e.Description,
		Difficulty:         e.Difficulty,
		DefaultRounds:      e.Rounds,
		DefaultRestSeconds: 15,
	}
	if tmpl.ID == "" {
		tmpl.ID = e.Name
	}
	if tmpl.Difficulty == "" {
		tmpl.Difficulty = DifficultyIntermediate
	}
	if tmpl.DefaultRounds == 0 {
		tmpl.DefaultRounds = 1
	}
	if e.RestSeconds != nil {
		tmpl.DefaultRestSeconds = *e.RestSeconds
	}

	for _, ex := range e.Exercises {
		def, err := ex.resolve()
		if err != nil {
			return PlanTemplate{}, err
		}
		tmpl.Exercises = append(tmpl.Exercises, def)
	}
	return tmpl, nil
}

func (e exerciseEntry) resolve() (ExerciseDefinition, error) {
	if e.Ref == "" {
		def := e.ExerciseDefinition
		if def.ID == "" {
			def.ID = def.Name
		}
		return def, nil
	}

	def, ok := GetExerciseByID(e.Ref)
	if !ok {
		return ExerciseDefinition{}, fmt.Errorf("%w: %q", ErrUnknownExercise, e.Ref)
	}
	if e.Name != "" {
		def.Name = e.Name
	}
	if e.DurationSeconds != 0 {
		def.DurationSeconds = e.DurationSeconds
	}
	if e.MuscleGroup != "" {
		def.MuscleGroup = e.MuscleGroup
	}
	if len(e.SecondaryMuscles) > 0 {
		def.SecondaryMuscles = e.SecondaryMuscles
	}
	if e.EnergyCostPerSecond != 0 {
		def.EnergyCostPerSecond = e.EnergyCostPerSecond
	}
	return def, nil
}
