package queen

import (
	"fmt"

	"github.com/HexSleeves/hive/internal/bee"
)

// Snapshot is a point-in-time view of the hive, used by the journal, the
// JSON writer and the TUI.
type Snapshot struct {
	Shift             int            `json:"shift"`
	Honey             float64        `json:"honey"`
	Nectar            float64        `json:"nectar"`
	Eggs              float64        `json:"eggs"`
	UnassignedWorkers float64        `json:"unassigned_workers"`
	Workers           map[string]int `json:"workers"`
	TotalWorkers      int            `json:"total_workers"`
	WorkersWorked     int            `json:"workers_worked"`
	Report            string         `json:"report"`
}

// Snapshot captures the current hive state.
func (q *Queen) Snapshot() Snapshot {
	v := q.Vault()
	workers := make(map[string]int, 3)
	for _, job := range bee.AssignableJobs() {
		workers[string(job)] = q.WorkerCount(job)
	}
	return Snapshot{
		Shift:             q.shift,
		Honey:             v.Honey(),
		Nectar:            v.Nectar(),
		Eggs:              q.eggs,
		UnassignedWorkers: q.unassignedWorkers,
		Workers:           workers,
		TotalWorkers:      len(q.workers),
		WorkersWorked:     q.lastWorked,
		Report:            q.statusReport,
	}
}

// StatusReport returns the report computed after the last assignment or
// successful shift.
func (q *Queen) StatusReport() string {
	return q.statusReport
}

func (q *Queen) updateStatusReport() {
	q.statusReport = fmt.Sprintf("Vault report: \n%s\n", q.Vault().StatusReport()) +
		fmt.Sprintf("\nEgg Count: %.1f\nUnassigned workers: %.1f\n", q.eggs, q.unassignedWorkers) +
		fmt.Sprintf("%s\n%s\n%s\nTOTAL WORKERS: %d",
			q.workerStatus(bee.JobNectarCollector),
			q.workerStatus(bee.JobHoneyManufacturer),
			q.workerStatus(bee.JobEggCare),
			len(q.workers))
}

func (q *Queen) workerStatus(job bee.Job) string {
	count := q.WorkerCount(job)
	s := "s"
	if count == 1 {
		s = ""
	}
	return fmt.Sprintf("%d %s bee%s", count, job, s)
}
