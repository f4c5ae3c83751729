// Package scenario loads scripted hive runs from YAML.
//
//	name: spring
//	honey: 100
//	nectar: 50
//	shifts: 20
//	assignments:
//	  - {shift: 0, job: nectar}
//	  - {shift: 5, job: egg-care}
//
// An assignment at shift N is made once N shifts have been worked, so shift 0
// assignments happen before the first shift.
package scenario

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/HexSleeves/hive/internal/bee"
)

type Scenario struct {
	Name        string       `yaml:"name"`
	Honey       *float64     `yaml:"honey,omitempty"`
	Nectar      *float64     `yaml:"nectar,omitempty"`
	Shifts      int          `yaml:"shifts"`
	Assignments []Assignment `yaml:"assignments"`
}

type Assignment struct {
	Shift int    `yaml:"shift"`
	Job   string `yaml:"job"`

	job bee.Job
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a scenario document.
func Parse(raw []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks stock, shift count and every assignment, resolving job
// names as it goes.
func (s *Scenario) Validate() error {
	if err := checkStock("honey", s.Honey); err != nil {
		return fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	if err := checkStock("nectar", s.Nectar); err != nil {
		return fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	if s.Shifts <= 0 {
		return fmt.Errorf("scenario %q: shifts must be positive, got %d", s.Name, s.Shifts)
	}
	for i := range s.Assignments {
		a := &s.Assignments[i]
		if a.Shift < 0 || a.Shift > s.Shifts {
			return fmt.Errorf("scenario %q: assignment %d: shift %d outside 0..%d", s.Name, i+1, a.Shift, s.Shifts)
		}
		job, err := bee.ParseJob(a.Job)
		if err != nil {
			return fmt.Errorf("scenario %q: assignment %d: %w", s.Name, i+1, err)
		}
		a.job = job
	}
	return nil
}

// checkStock accepts a missing value or a finite, non-negative one.
func checkStock(name string, amount *float64) error {
	if amount == nil {
		return nil
	}
	if math.IsNaN(*amount) || math.IsInf(*amount, 0) {
		return fmt.Errorf("%s must be a finite number, got %v", name, *amount)
	}
	if *amount < 0 {
		return fmt.Errorf("%s must not be negative", name)
	}
	return nil
}

// Stock returns the starting honey and nectar, falling back to the given
// defaults for values the scenario leaves out.
func (s *Scenario) Stock(defaultHoney, defaultNectar float64) (honey, nectar float64) {
	honey, nectar = defaultHoney, defaultNectar
	if s.Honey != nil {
		honey = *s.Honey
	}
	if s.Nectar != nil {
		nectar = *s.Nectar
	}
	return honey, nectar
}

// AssignmentsAt returns the jobs to assign once shift shifts have been worked,
// in file order. Validate must have succeeded.
func (s *Scenario) AssignmentsAt(shift int) []bee.Job {
	var jobs []bee.Job
	for _, a := range s.Assignments {
		if a.Shift == shift {
			jobs = append(jobs, a.job)
		}
	}
	return jobs
}
