package queen

import (
	"log"
	"time"

	"github.com/HexSleeves/hive/internal/bee"
	"github.com/HexSleeves/hive/internal/bus"
	"github.com/HexSleeves/hive/internal/vault"
)

const (
	CostPerShift             = 2.15
	EggsPerShift             = 0.45
	HoneyPerUnassignedWorker = 0.5
	InitialUnassignedWorkers = 4.0
)

// Queen lays eggs, hatches them into unassigned workers and dispatches one
// shift to every bee she manages. She is a bee herself and pays for her own
// shift before anyone else works.
//
// A Queen is not safe for concurrent use: one driver calls WorkTheNextShift
// and AssignBee at a time.
type Queen struct {
	bee.Base

	eggs              float64
	unassignedWorkers float64
	workers           []bee.Bee

	statusReport string
	shift        int
	lastWorked   int

	logger *log.Logger
	bus    *bus.MessageBus
}

// Assignment is the payload published for every AssignBee call.
type Assignment struct {
	Job               bee.Job `json:"job"`
	Accepted          bool    `json:"accepted"`
	UnassignedWorkers float64 `json:"unassigned_workers"`
	TotalWorkers      int     `json:"total_workers"`
}

// New creates a queen drawing on v and staffs the hive with one Nectar
// Collector, one Honey Manufacturer and one Egg Care bee. The bus may be nil.
func New(v *vault.Vault, logger *log.Logger, b *bus.MessageBus) *Queen {
	if logger == nil {
		logger = log.Default()
	}

	q := &Queen{
		Base:              bee.NewBase(bee.JobQueen, v),
		unassignedWorkers: InitialUnassignedWorkers,
		logger:            logger,
		bus:               b,
	}

	q.AssignBee(bee.JobNectarCollector)
	q.AssignBee(bee.JobHoneyManufacturer)
	q.AssignBee(bee.JobEggCare)

	return q
}

func (q *Queen) CostPerShift() float64 { return CostPerShift }

// WorkTheNextShift runs one hive shift. If the vault cannot pay for the
// queen's own shift nothing else happens and false is returned.
func (q *Queen) WorkTheNextShift() bool {
	q.shift++
	if q.Work(q.CostPerShift(), q.doJob) {
		return true
	}
	q.lastWorked = 0
	q.publish(bus.MsgShiftSkipped, "", q.Snapshot())
	return false
}

func (q *Queen) doJob() {
	q.eggs += EggsPerShift

	worked := 0
	for _, w := range q.workers {
		if w.WorkTheNextShift() {
			worked++
		}
	}
	q.lastWorked = worked

	// Upkeep is best-effort; an unpaid bill has no consequence.
	q.Vault().ConsumeHoney(q.unassignedWorkers * HoneyPerUnassignedWorker)

	q.updateStatusReport()
	q.publish(bus.MsgShiftCompleted, "", q.Snapshot())
}

// CareForEggs hatches eggsToConvert eggs into unassigned workers. Nothing
// happens unless the whole amount is available.
func (q *Queen) CareForEggs(eggsToConvert float64) bool {
	if q.eggs < eggsToConvert {
		return false
	}
	q.eggs -= eggsToConvert
	q.unassignedWorkers += eggsToConvert
	return true
}

// AssignBee builds a bee for job and puts one unassigned worker on it.
// Unknown jobs and a lack of unassigned workers are ignored; the return value
// reports whether the hive gained a worker.
func (q *Queen) AssignBee(job bee.Job) bool {
	accepted := false
	if b, ok := bee.New(job, q.Vault(), q); ok {
		accepted = q.addWorker(b)
	}
	q.updateStatusReport()

	msgType := bus.MsgAssignmentRejected
	if accepted {
		msgType = bus.MsgBeeAssigned
		q.logger.Printf("🐝 Assigned %s (%d workers, %.1f unassigned)", job, len(q.workers), q.unassignedWorkers)
	}
	q.publish(msgType, string(job), Assignment{
		Job:               job,
		Accepted:          accepted,
		UnassignedWorkers: q.unassignedWorkers,
		TotalWorkers:      len(q.workers),
	})
	return accepted
}

// addWorker takes exactly one whole unassigned worker. The bee is dropped
// when fewer than one is available.
func (q *Queen) addWorker(worker bee.Bee) bool {
	if q.unassignedWorkers < 1 {
		return false
	}
	q.unassignedWorkers--
	q.workers = append(q.workers, worker)
	return true
}

func (q *Queen) publish(msgType bus.MsgType, job string, payload interface{}) {
	if q.bus == nil {
		return
	}
	q.bus.Publish(bus.Message{
		Type:    msgType,
		Shift:   q.shift,
		Job:     job,
		Payload: payload,
		Time:    time.Now(),
	})
}

// Eggs returns the eggs laid but not yet hatched.
func (q *Queen) Eggs() float64 { return q.eggs }

// UnassignedWorkers returns the hatched workers without a job.
func (q *Queen) UnassignedWorkers() float64 { return q.unassignedWorkers }

// Shift returns the number of shifts attempted so far.
func (q *Queen) Shift() int { return q.shift }

// Workers returns the managed bees in assignment order. The queen is not
// included.
func (q *Queen) Workers() []bee.Bee {
	out := make([]bee.Bee, len(q.workers))
	copy(out, q.workers)
	return out
}

// WorkerCount returns how many managed bees hold job.
func (q *Queen) WorkerCount(job bee.Job) int {
	count := 0
	for _, w := range q.workers {
		if w.Job() == job {
			count++
		}
	}
	return count
}
