package main

import (
	"context"
	"fmt"
	"log"

	"github.com/HexSleeves/hive/internal/bus"
	"github.com/HexSleeves/hive/internal/config"
	"github.com/HexSleeves/hive/internal/queen"
	"github.com/HexSleeves/hive/internal/state"
	"github.com/HexSleeves/hive/internal/vault"
)

// Session states written to the journal.
const (
	statusRunning     = "running"
	statusDone        = "done"
	statusStalled     = "stalled"
	statusInterrupted = "interrupted"
)

// hiveSession is one fresh hive plus its optional journal.
type hiveSession struct {
	id     string
	label  string
	bus    *bus.MessageBus
	queen  *queen.Queen
	db     *state.DB
	rec    *state.Recorder
	logger *log.Logger
}

// openSession builds a new hive with the given starting stock. Subscribers
// passed in observe the queen's initial staffing.
func openSession(ctx context.Context, cfg *config.Config, logger *log.Logger, label string, honey, nectar float64, subscribers ...bus.Handler) (*hiveSession, error) {
	s := &hiveSession{
		id:     state.NewSessionID(),
		label:  label,
		bus:    bus.New(cfg.Run.EventHistory),
		logger: logger,
	}
	if s.label == "" {
		s.label = s.id
	}

	if cfg.Run.Record {
		// Journal writes outlive a cancelled run so the end of it is recorded.
		journalCtx := context.WithoutCancel(ctx)
		db, err := state.OpenDB(cfg.HivePath())
		if err != nil {
			return nil, fmt.Errorf("open journal: %w", err)
		}
		if err := db.CreateSession(journalCtx, s.id, s.label, honey, nectar); err != nil {
			db.Close()
			return nil, fmt.Errorf("create session: %w", err)
		}
		s.db = db
		s.rec = state.NewRecorder(journalCtx, db, s.id, logger)
		s.rec.Attach(s.bus)
	}
	for _, h := range subscribers {
		s.bus.SubscribeAll(h)
	}

	s.bus.Publish(bus.Message{
		Type: bus.MsgSessionStarted,
		Payload: map[string]interface{}{
			"label":  s.label,
			"honey":  honey,
			"nectar": nectar,
		},
	})
	s.queen = queen.New(vault.New(honey, nectar), logger, s.bus)
	logger.Printf("👑 Session %s started with %.2f honey, %.2f nectar", s.id, honey, nectar)
	return s, nil
}

// close publishes the end of the session and finalizes the journal.
func (s *hiveSession) close(ctx context.Context, status string) error {
	s.bus.Publish(bus.Message{
		Type:    bus.MsgSessionEnded,
		Shift:   s.queen.Shift(),
		Payload: map[string]string{"status": status},
	})
	if s.db == nil {
		return nil
	}
	defer s.db.Close()

	if err := s.db.UpdateSessionStatus(context.WithoutCancel(ctx), s.id, status); err != nil {
		return fmt.Errorf("finish session: %w", err)
	}
	if n := s.rec.Failures(); n > 0 {
		s.logger.Printf("⚠ Journal: %d write(s) failed, first: %v", n, s.rec.Err())
	}
	return nil
}
