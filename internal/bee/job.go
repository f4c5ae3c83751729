package bee

import (
	"fmt"
	"strings"

	hiveerrors "github.com/HexSleeves/hive/internal/errors"
)

// Job identifies a bee variant. The label doubles as the display name.
type Job string

const (
	JobQueen             Job = "Queen"
	JobNectarCollector   Job = "Nectar Collector"
	JobHoneyManufacturer Job = "Honey Manufacturer"
	JobEggCare           Job = "Egg Care"
)

// AssignableJobs returns the jobs a queen can assign, in report order.
func AssignableJobs() []Job {
	return []Job{JobNectarCollector, JobHoneyManufacturer, JobEggCare}
}

func (j Job) String() string { return string(j) }

// Assignable reports whether a queen can assign j to a worker.
func (j Job) Assignable() bool {
	switch j {
	case JobNectarCollector, JobHoneyManufacturer, JobEggCare:
		return true
	}
	return false
}

// ParseJob maps user input to an assignable job. Labels match case-insensitively;
// short aliases are accepted for the command line.
func ParseJob(s string) (Job, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("_", " ", "-", " ").Replace(key)
	switch key {
	case "nectar collector", "nectar", "collector":
		return JobNectarCollector, nil
	case "honey manufacturer", "honey", "manufacturer":
		return JobHoneyManufacturer, nil
	case "egg care", "eggs", "egg", "care":
		return JobEggCare, nil
	}
	return "", fmt.Errorf("%q: %w", s, hiveerrors.ErrUnknownJob)
}
