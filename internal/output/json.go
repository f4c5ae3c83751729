package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/HexSleeves/hive/internal/bus"
	"github.com/HexSleeves/hive/internal/queen"
)

// EventSessionSummary is the last event of a JSON stream.
const EventSessionSummary = "hive.session_summary"

// EventError is emitted when the driver hits an infrastructure error.
const EventError = "hive.error"

// SessionSummary represents the final session summary.
type SessionSummary struct {
	SessionID     string          `json:"session_id"`
	Label         string          `json:"label,omitempty"`
	Status        string          `json:"status"`
	ShiftsWorked  int             `json:"shifts_worked"`
	ShiftsSkipped int             `json:"shifts_skipped"`
	BeesAssigned  int             `json:"bees_assigned"`
	BeesRejected  int             `json:"bees_rejected"`
	Final         *queen.Snapshot `json:"final,omitempty"`
	Duration      time.Duration   `json:"duration_ms"`
}

// JSONEvent is the wrapper for all JSON output events.
type JSONEvent struct {
	Type       string            `json:"type"`
	Timestamp  time.Time         `json:"timestamp"`
	SessionID  string            `json:"session_id,omitempty"`
	Shift      int               `json:"shift"`
	Job        string            `json:"job,omitempty"`
	Snapshot   *queen.Snapshot   `json:"snapshot,omitempty"`
	Assignment *queen.Assignment `json:"assignment,omitempty"`
	Session    *SessionSummary   `json:"session,omitempty"`
	Error      *ErrorEvent       `json:"error,omitempty"`
	Data       interface{}       `json:"data,omitempty"`
}

// ErrorEvent represents an error that occurred.
type ErrorEvent struct {
	Message   string `json:"message"`
	ErrorType string `json:"error_type,omitempty"`
}

// JSONWriter streams bus messages as NDJSON and tallies them for the
// closing summary.
type JSONWriter struct {
	mu        sync.Mutex
	w         io.Writer
	sessionID string
	startTime time.Time
	err       error

	worked, skipped    int
	assigned, rejected int
	last               *queen.Snapshot
}

// NewJSONWriter creates a new JSON writer.
func NewJSONWriter(w io.Writer, sessionID string) *JSONWriter {
	return &JSONWriter{
		w:         w,
		sessionID: sessionID,
		startTime: time.Now(),
	}
}

// Attach streams every message published on b.
func (jw *JSONWriter) Attach(b *bus.MessageBus) {
	b.SubscribeAll(jw.WriteMessage)
}

// WriteMessage emits one bus message. The first write error is kept and
// returned by Err.
func (jw *JSONWriter) WriteMessage(msg bus.Message) {
	event := JSONEvent{
		Type:      string(msg.Type),
		Timestamp: msg.Time,
		Shift:     msg.Shift,
		Job:       msg.Job,
	}

	jw.mu.Lock()
	switch p := msg.Payload.(type) {
	case queen.Snapshot:
		event.Snapshot = &p
		jw.last = &p
		if msg.Type == bus.MsgShiftCompleted {
			jw.worked++
		} else {
			jw.skipped++
		}
	case queen.Assignment:
		event.Assignment = &p
		if p.Accepted {
			jw.assigned++
		} else {
			jw.rejected++
		}
	default:
		event.Data = p
	}
	jw.mu.Unlock()

	jw.keep(jw.writeEvent(event))
}

// writeEvent writes a single JSON event as a line.
func (jw *JSONWriter) writeEvent(event JSONEvent) error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if jw.sessionID != "" {
		event.SessionID = jw.sessionID
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(jw.w, string(data))
	return err
}

func (jw *JSONWriter) keep(err error) {
	if err == nil {
		return
	}
	jw.mu.Lock()
	defer jw.mu.Unlock()
	if jw.err == nil {
		jw.err = err
	}
}

// WriteSessionEnd emits the final session summary built from the messages
// seen so far.
func (jw *JSONWriter) WriteSessionEnd(label, status string) error {
	summary := jw.Summary()
	summary.Label = label
	summary.Status = status

	return jw.writeEvent(JSONEvent{
		Type:    EventSessionSummary,
		Shift:   summary.ShiftsWorked + summary.ShiftsSkipped,
		Session: &summary,
	})
}

// WriteError emits an error event.
func (jw *JSONWriter) WriteError(message, errorType string) error {
	return jw.writeEvent(JSONEvent{
		Type: EventError,
		Error: &ErrorEvent{
			Message:   message,
			ErrorType: errorType,
		},
	})
}

// Summary returns the tallies collected so far.
func (jw *JSONWriter) Summary() SessionSummary {
	jw.mu.Lock()
	defer jw.mu.Unlock()
	return SessionSummary{
		SessionID:     jw.sessionID,
		ShiftsWorked:  jw.worked,
		ShiftsSkipped: jw.skipped,
		BeesAssigned:  jw.assigned,
		BeesRejected:  jw.rejected,
		Final:         jw.last,
		Duration:      time.Since(jw.startTime) / time.Millisecond,
	}
}

// Err returns the first error hit while streaming bus messages.
func (jw *JSONWriter) Err() error {
	jw.mu.Lock()
	defer jw.mu.Unlock()
	return jw.err
}

// SetSessionID sets the session ID (used when session is created after writer).
func (jw *JSONWriter) SetSessionID(sessionID string) {
	jw.mu.Lock()
	defer jw.mu.Unlock()
	jw.sessionID = sessionID
}
