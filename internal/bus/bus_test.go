package bus

import (
	"testing"
	"time"
)

func TestPublishDeliversInOrder(t *testing.T) {
	b := New(10)

	var specific, all []MsgType
	b.Subscribe(MsgShiftCompleted, func(msg Message) {
		specific = append(specific, msg.Type)
	})
	b.SubscribeAll(func(msg Message) {
		all = append(all, msg.Type)
	})

	b.Publish(Message{Type: MsgBeeAssigned, Job: "Egg Care"})
	b.Publish(Message{Type: MsgShiftCompleted, Shift: 1})
	b.Publish(Message{Type: MsgShiftSkipped, Shift: 2})

	if len(specific) != 1 || specific[0] != MsgShiftCompleted {
		t.Errorf("specific handler got %v", specific)
	}
	want := []MsgType{MsgBeeAssigned, MsgShiftCompleted, MsgShiftSkipped}
	if len(all) != len(want) {
		t.Fatalf("wildcard handler got %v, want %v", all, want)
	}
	for i := range want {
		if all[i] != want[i] {
			t.Errorf("all[%d] = %s, want %s", i, all[i], want[i])
		}
	}
}

func TestPublishStampsTime(t *testing.T) {
	b := New(10)
	b.Publish(Message{Type: MsgShiftCompleted})

	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	b.Publish(Message{Type: MsgShiftCompleted, Time: fixed})

	h := b.History(0)
	if h[0].Time.IsZero() {
		t.Error("Publish did not stamp a zero time")
	}
	if !h[1].Time.Equal(fixed) {
		t.Errorf("Publish overwrote an explicit time: %v", h[1].Time)
	}
}

func TestHistoryBounded(t *testing.T) {
	b := New(3)
	for i := 1; i <= 5; i++ {
		b.Publish(Message{Type: MsgShiftCompleted, Shift: i})
	}

	h := b.History(0)
	if len(h) != 3 {
		t.Fatalf("History(0) len = %d, want 3", len(h))
	}
	if h[0].Shift != 3 || h[2].Shift != 5 {
		t.Errorf("History kept shifts %d..%d, want 3..5", h[0].Shift, h[2].Shift)
	}

	last := b.History(2)
	if len(last) != 2 || last[0].Shift != 4 {
		t.Errorf("History(2) = %+v", last)
	}

	if got := len(b.History(99)); got != 3 {
		t.Errorf("History(99) len = %d, want 3", got)
	}
}

func TestNewDefaultsHistorySize(t *testing.T) {
	b := New(0)
	if b.maxHist != 10000 {
		t.Errorf("maxHist = %d, want 10000", b.maxHist)
	}
}
