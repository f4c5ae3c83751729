package output

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/HexSleeves/hive/internal/bee"
	"github.com/HexSleeves/hive/internal/bus"
	"github.com/HexSleeves/hive/internal/queen"
	"github.com/HexSleeves/hive/internal/vault"
)

func decodeEvents(t *testing.T, r io.Reader) []JSONEvent {
	t.Helper()
	var events []JSONEvent
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		var e JSONEvent
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			t.Fatalf("line %q is not JSON: %v", sc.Text(), err)
		}
		events = append(events, e)
	}
	return events
}

func TestJSONWriterStreamsQueen(t *testing.T) {
	var buf bytes.Buffer
	jw := NewJSONWriter(&buf, "hive-1")
	b := bus.New(100)
	jw.Attach(b)

	q := queen.New(vault.NewDefault(), nil, b)
	q.WorkTheNextShift()
	q.AssignBee(bee.JobEggCare)
	q.AssignBee(bee.JobEggCare)

	if err := jw.WriteSessionEnd("test", "done"); err != nil {
		t.Fatalf("WriteSessionEnd failed: %v", err)
	}
	if err := jw.Err(); err != nil {
		t.Fatalf("stream error: %v", err)
	}

	events := decodeEvents(t, &buf)
	// 3 initial assignments, 1 shift, 2 assignments, summary
	if len(events) != 7 {
		t.Fatalf("got %d events, want 7", len(events))
	}
	for _, e := range events {
		if e.SessionID != "hive-1" {
			t.Errorf("event %s session = %q", e.Type, e.SessionID)
		}
	}

	shift := events[3]
	if shift.Type != string(bus.MsgShiftCompleted) || shift.Snapshot == nil {
		t.Fatalf("event 3 = %+v, want shift snapshot", shift)
	}
	if shift.Snapshot.Shift != 1 || shift.Snapshot.WorkersWorked != 3 {
		t.Errorf("snapshot = %+v", shift.Snapshot)
	}

	rejected := events[5]
	if rejected.Type != string(bus.MsgAssignmentRejected) || rejected.Assignment == nil || rejected.Assignment.Accepted {
		t.Errorf("event 5 = %+v, want rejected assignment", rejected)
	}

	end := events[6]
	if end.Type != EventSessionSummary || end.Session == nil {
		t.Fatalf("last event = %+v, want summary", end)
	}
	s := end.Session
	if s.Status != "done" || s.ShiftsWorked != 1 || s.ShiftsSkipped != 0 || s.BeesAssigned != 4 || s.BeesRejected != 1 {
		t.Errorf("summary = %+v", s)
	}
	if s.Final == nil || s.Final.Shift != 1 {
		t.Errorf("summary final snapshot = %+v", s.Final)
	}
}

func TestJSONWriterCountsSkippedShifts(t *testing.T) {
	jw := NewJSONWriter(io.Discard, "")
	b := bus.New(10)
	jw.Attach(b)

	q := queen.New(vault.New(1, 0), nil, b)
	q.WorkTheNextShift()
	q.WorkTheNextShift()

	s := jw.Summary()
	if s.ShiftsSkipped != 2 || s.ShiftsWorked != 0 {
		t.Errorf("summary = %+v, want 2 skipped", s)
	}
}

func TestJSONWriterOtherPayloadsGoToData(t *testing.T) {
	var buf bytes.Buffer
	jw := NewJSONWriter(&buf, "hive-1")
	jw.WriteMessage(bus.Message{Type: bus.MsgSessionStarted, Payload: map[string]string{"label": "spring"}})

	events := decodeEvents(t, &buf)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	data, ok := events[0].Data.(map[string]interface{})
	if !ok || data["label"] != "spring" {
		t.Errorf("data = %#v", events[0].Data)
	}
	if events[0].Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
}

func TestJSONWriterError(t *testing.T) {
	var buf bytes.Buffer
	jw := NewJSONWriter(&buf, "")
	if err := jw.WriteError("disk full", "permanent"); err != nil {
		t.Fatal(err)
	}
	events := decodeEvents(t, &buf)
	if len(events) != 1 || events[0].Error == nil || events[0].Error.Message != "disk full" {
		t.Errorf("events = %+v", events)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestJSONWriterKeepsFirstError(t *testing.T) {
	jw := NewJSONWriter(failingWriter{}, "")
	jw.WriteMessage(bus.Message{Type: bus.MsgSessionStarted})
	if jw.Err() == nil || jw.Err().Error() != "broken pipe" {
		t.Errorf("Err() = %v, want broken pipe", jw.Err())
	}
}
