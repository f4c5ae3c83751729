package state

import (
	"context"
	"log"
	"sync"

	"github.com/HexSleeves/hive/internal/bus"
	"github.com/HexSleeves/hive/internal/queen"
)

// Recorder journals every bus message for one session. Journal failures are
// logged and remembered but never interrupt the simulation.
type Recorder struct {
	ctx       context.Context
	db        *DB
	sessionID string
	logger    *log.Logger

	mu       sync.Mutex
	firstErr error
	failures int
}

func NewRecorder(ctx context.Context, db *DB, sessionID string, logger *log.Logger) *Recorder {
	if logger == nil {
		logger = log.Default()
	}
	return &Recorder{ctx: ctx, db: db, sessionID: sessionID, logger: logger}
}

// Attach subscribes the recorder to every message on b.
func (r *Recorder) Attach(b *bus.MessageBus) {
	b.SubscribeAll(r.Handle)
}

// Handle journals a single message.
func (r *Recorder) Handle(msg bus.Message) {
	if _, err := r.db.AppendEvent(r.ctx, r.sessionID, string(msg.Type), msg.Shift, msg.Payload); err != nil {
		r.fail("append event", err)
	}

	switch p := msg.Payload.(type) {
	case queen.Snapshot:
		row := ShiftRow{
			SessionID:     r.sessionID,
			Shift:         p.Shift,
			Worked:        msg.Type == bus.MsgShiftCompleted,
			Honey:         p.Honey,
			Nectar:        p.Nectar,
			Eggs:          p.Eggs,
			Unassigned:    p.UnassignedWorkers,
			TotalWorkers:  p.TotalWorkers,
			WorkersWorked: p.WorkersWorked,
			Report:        p.Report,
		}
		if err := r.db.RecordShift(r.ctx, row); err != nil {
			r.fail("record shift", err)
		}
	case queen.Assignment:
		row := AssignmentRow{
			SessionID: r.sessionID,
			Shift:     msg.Shift,
			Job:       string(p.Job),
			Accepted:  p.Accepted,
		}
		if _, err := r.db.RecordAssignment(r.ctx, row); err != nil {
			r.fail("record assignment", err)
		}
	}
}

func (r *Recorder) fail(what string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures++
	if r.firstErr == nil {
		r.firstErr = err
	}
	r.logger.Printf("⚠ Journal: %s failed: %v", what, err)
}

// Err returns the first journal error, if any.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.firstErr
}

// Failures returns how many journal writes failed.
func (r *Recorder) Failures() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failures
}
