package queen

import (
	"io"
	"log"
	"math"
	"strings"
	"testing"

	"github.com/HexSleeves/hive/internal/bee"
	"github.com/HexSleeves/hive/internal/bus"
	"github.com/HexSleeves/hive/internal/vault"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "[TEST] ", log.LstdFlags)
}

func newTestQueen(t *testing.T, honey, nectar float64) (*Queen, *vault.Vault) {
	t.Helper()
	v := vault.New(honey, nectar)
	return New(v, testLogger(), nil), v
}

func TestNew_InitialStaff(t *testing.T) {
	q, _ := newTestQueen(t, 100, 50)

	if q.UnassignedWorkers() != 1 {
		t.Errorf("UnassignedWorkers() = %v, want 1", q.UnassignedWorkers())
	}
	if q.Eggs() != 0 {
		t.Errorf("Eggs() = %v, want 0", q.Eggs())
	}

	workers := q.Workers()
	want := []bee.Job{bee.JobNectarCollector, bee.JobHoneyManufacturer, bee.JobEggCare}
	if len(workers) != len(want) {
		t.Fatalf("len(Workers()) = %d, want %d", len(workers), len(want))
	}
	for i, job := range want {
		if workers[i].Job() != job {
			t.Errorf("Workers()[%d].Job() = %q, want %q", i, workers[i].Job(), job)
		}
		if q.WorkerCount(job) != 1 {
			t.Errorf("WorkerCount(%q) = %d, want 1", job, q.WorkerCount(job))
		}
	}

	if q.Job() != bee.JobQueen {
		t.Errorf("Job() = %q, want Queen", q.Job())
	}
	if q.CostPerShift() != 2.15 {
		t.Errorf("CostPerShift() = %v, want 2.15", q.CostPerShift())
	}
}

func TestQueenIsABee(t *testing.T) {
	var b bee.Bee = New(vault.NewDefault(), testLogger(), nil)
	if b.Job() != bee.JobQueen {
		t.Errorf("Job() = %q", b.Job())
	}
}

func TestNew_InitialStatusReport(t *testing.T) {
	q, _ := newTestQueen(t, 100, 50)

	want := "Vault report: \n" +
		"100.0 units of honey\n50.0 units of nectar\n" +
		"\n" +
		"\nEgg Count: 0.0\nUnassigned workers: 1.0\n" +
		"1 Nectar Collector bee\n1 Honey Manufacturer bee\n1 Egg Care bee\n" +
		"TOTAL WORKERS: 3"
	if got := q.StatusReport(); got != want {
		t.Errorf("StatusReport() =\n%q\nwant\n%q", got, want)
	}
}

func TestWorkTheNextShift_FullShift(t *testing.T) {
	q, v := newTestQueen(t, 100, 50)

	if !q.WorkTheNextShift() {
		t.Fatal("WorkTheNextShift() = false, want true")
	}

	// queen 2.15, collector 1.95 (+33.25 nectar), manufacturer 1.70
	// (1.70 nectar -> 1.275 honey), egg care 0.15 (0.15 eggs hatch), then
	// upkeep on 1.15 unassigned workers.
	wantHoney := 100 - 2.15 - 1.95 - 1.70 + 1.275 - 0.15 - 1.15*0.5
	if !approx(v.Honey(), wantHoney) {
		t.Errorf("Honey() = %v, want %v", v.Honey(), wantHoney)
	}
	if !approx(v.Nectar(), 50+33.25-1.70) {
		t.Errorf("Nectar() = %v, want %v", v.Nectar(), 50+33.25-1.70)
	}
	if !approx(q.Eggs(), 0.30) {
		t.Errorf("Eggs() = %v, want 0.30", q.Eggs())
	}
	if !approx(q.UnassignedWorkers(), 1.15) {
		t.Errorf("UnassignedWorkers() = %v, want 1.15", q.UnassignedWorkers())
	}
	if q.Shift() != 1 {
		t.Errorf("Shift() = %d, want 1", q.Shift())
	}
	if got := q.Snapshot().WorkersWorked; got != 3 {
		t.Errorf("WorkersWorked = %d, want 3", got)
	}
}

func TestWorkTheNextShift_ExactQueenCostSkips(t *testing.T) {
	q, v := newTestQueen(t, 2.15, 50)
	before := q.StatusReport()

	if q.WorkTheNextShift() {
		t.Fatal("queen worked with exactly her cost in the vault")
	}
	if v.Honey() != 2.15 || v.Nectar() != 50 {
		t.Errorf("vault changed: honey=%v nectar=%v", v.Honey(), v.Nectar())
	}
	if q.Eggs() != 0 {
		t.Errorf("Eggs() = %v, want 0", q.Eggs())
	}
	if q.StatusReport() != before {
		t.Error("StatusReport changed after a skipped shift")
	}
	if q.Shift() != 1 {
		t.Errorf("Shift() = %d, want 1 (attempts are counted)", q.Shift())
	}
}

func TestWorkTheNextShift_EmptyVaultIsNoOp(t *testing.T) {
	q, v := newTestQueen(t, 0, 50)

	for i := 0; i < 3; i++ {
		if q.WorkTheNextShift() {
			t.Fatalf("shift %d worked on an empty vault", i)
		}
	}
	if v.Honey() != 0 || v.Nectar() != 50 {
		t.Errorf("vault changed: honey=%v nectar=%v", v.Honey(), v.Nectar())
	}
	if q.Eggs() != 0 || q.UnassignedWorkers() != 1 {
		t.Errorf("population changed: eggs=%v unassigned=%v", q.Eggs(), q.UnassignedWorkers())
	}
}

func TestWorkTheNextShift_WorkersRunInAssignmentOrder(t *testing.T) {
	// After the queen's 2.15 only the collector can pay; the manufacturer,
	// egg care and the upkeep bill all go unpaid.
	q, v := newTestQueen(t, 4.2, 0)

	if !q.WorkTheNextShift() {
		t.Fatal("WorkTheNextShift() = false, want true")
	}
	if !approx(v.Honey(), 4.2-2.15-1.95) {
		t.Errorf("Honey() = %v, want %v", v.Honey(), 4.2-2.15-1.95)
	}
	if !approx(v.Nectar(), 33.25) {
		t.Errorf("Nectar() = %v, want 33.25", v.Nectar())
	}
	if !approx(q.Eggs(), 0.45) {
		t.Errorf("Eggs() = %v, want 0.45 (egg care should not have run)", q.Eggs())
	}
	if q.UnassignedWorkers() != 1 {
		t.Errorf("UnassignedWorkers() = %v, want 1", q.UnassignedWorkers())
	}
	if got := q.Snapshot().WorkersWorked; got != 1 {
		t.Errorf("WorkersWorked = %d, want 1", got)
	}
}

func TestWorkTheNextShift_PopulationGrowth(t *testing.T) {
	q, _ := newTestQueen(t, 10000, 1000)

	for i := 0; i < 10; i++ {
		q.WorkTheNextShift()
	}

	if !approx(q.Eggs(), 10*(0.45-0.15)) {
		t.Errorf("Eggs() = %v, want %v", q.Eggs(), 10*(0.45-0.15))
	}
	if !approx(q.UnassignedWorkers(), 1+10*0.15) {
		t.Errorf("UnassignedWorkers() = %v, want %v", q.UnassignedWorkers(), 1+10*0.15)
	}
	if !strings.Contains(q.StatusReport(), "Unassigned workers: 2.5") {
		t.Errorf("StatusReport() missing unassigned count:\n%s", q.StatusReport())
	}
}

func TestCareForEggs(t *testing.T) {
	q, _ := newTestQueen(t, 100, 50)

	if q.CareForEggs(0.15) {
		t.Error("CareForEggs succeeded with no eggs")
	}
	if q.Eggs() != 0 || q.UnassignedWorkers() != 1 {
		t.Errorf("failed care changed state: eggs=%v unassigned=%v", q.Eggs(), q.UnassignedWorkers())
	}

	q.eggs = 0.45
	if !q.CareForEggs(0.45) {
		t.Fatal("CareForEggs(0.45) with 0.45 eggs failed")
	}
	if q.Eggs() != 0 {
		t.Errorf("Eggs() = %v, want 0", q.Eggs())
	}
	if !approx(q.UnassignedWorkers(), 1.45) {
		t.Errorf("UnassignedWorkers() = %v, want 1.45", q.UnassignedWorkers())
	}

	q.eggs = 0.1
	if q.CareForEggs(0.15) {
		t.Error("CareForEggs converted a partial amount")
	}
	if q.Eggs() != 0.1 {
		t.Errorf("Eggs() = %v, want 0.1", q.Eggs())
	}
}

func TestAssignBee(t *testing.T) {
	q, _ := newTestQueen(t, 100, 50)

	if !q.AssignBee(bee.JobNectarCollector) {
		t.Fatal("AssignBee with one unassigned worker failed")
	}
	if q.UnassignedWorkers() != 0 {
		t.Errorf("UnassignedWorkers() = %v, want 0", q.UnassignedWorkers())
	}
	if q.WorkerCount(bee.JobNectarCollector) != 2 {
		t.Errorf("WorkerCount(collector) = %d, want 2", q.WorkerCount(bee.JobNectarCollector))
	}
	if !strings.Contains(q.StatusReport(), "2 Nectar Collector bees") {
		t.Errorf("StatusReport() not refreshed:\n%s", q.StatusReport())
	}
	if !strings.HasSuffix(q.StatusReport(), "TOTAL WORKERS: 4") {
		t.Errorf("StatusReport() total:\n%s", q.StatusReport())
	}
}

func TestAssignBee_NeedsAWholeWorker(t *testing.T) {
	q, _ := newTestQueen(t, 100, 50)
	q.unassignedWorkers = 0.99

	if q.AssignBee(bee.JobEggCare) {
		t.Error("AssignBee succeeded with 0.99 unassigned workers")
	}
	if len(q.Workers()) != 3 {
		t.Errorf("len(Workers()) = %d, want 3", len(q.Workers()))
	}
	if q.UnassignedWorkers() != 0.99 {
		t.Errorf("UnassignedWorkers() = %v, want 0.99", q.UnassignedWorkers())
	}

	// A fractional surplus still costs exactly one worker.
	q.unassignedWorkers = 1.6
	if !q.AssignBee(bee.JobEggCare) {
		t.Fatal("AssignBee with 1.6 unassigned workers failed")
	}
	if !approx(q.UnassignedWorkers(), 0.6) {
		t.Errorf("UnassignedWorkers() = %v, want 0.6", q.UnassignedWorkers())
	}
}

func TestAssignBee_UnknownJobIgnored(t *testing.T) {
	q, _ := newTestQueen(t, 100, 50)
	before := q.StatusReport()

	for _, job := range []bee.Job{"Drone", bee.JobQueen, ""} {
		if q.AssignBee(job) {
			t.Errorf("AssignBee(%q) = true", job)
		}
	}
	if len(q.Workers()) != 3 || q.UnassignedWorkers() != 1 {
		t.Errorf("state changed: workers=%d unassigned=%v", len(q.Workers()), q.UnassignedWorkers())
	}
	if q.StatusReport() != before {
		t.Error("StatusReport changed after ignored assignments")
	}
}

func TestWorkersReturnsCopy(t *testing.T) {
	q, _ := newTestQueen(t, 100, 50)
	ws := q.Workers()
	ws[0] = nil
	if q.Workers()[0] == nil {
		t.Error("Workers() exposed the internal slice")
	}
}

func TestStatusReport_Idempotent(t *testing.T) {
	q, _ := newTestQueen(t, 100, 50)
	q.WorkTheNextShift()

	first := q.StatusReport()
	for i := 0; i < 5; i++ {
		if got := q.StatusReport(); got != first {
			t.Fatalf("StatusReport() changed on read %d", i)
		}
	}
}

func TestStatusReport_Pluralization(t *testing.T) {
	q, _ := newTestQueen(t, 100, 50)
	q.unassignedWorkers = 0

	if !strings.Contains(q.StatusReport(), "1 Egg Care bee\n") {
		t.Errorf("singular missing:\n%s", q.StatusReport())
	}

	q2 := &Queen{Base: bee.NewBase(bee.JobQueen, vault.NewDefault()), logger: testLogger()}
	q2.updateStatusReport()
	for _, want := range []string{"0 Nectar Collector bees", "0 Honey Manufacturer bees", "0 Egg Care bees", "TOTAL WORKERS: 0"} {
		if !strings.Contains(q2.StatusReport(), want) {
			t.Errorf("StatusReport() missing %q:\n%s", want, q2.StatusReport())
		}
	}
}

func TestBusMessages(t *testing.T) {
	b := bus.New(100)
	var got []bus.Message
	b.SubscribeAll(func(msg bus.Message) {
		got = append(got, msg)
	})

	v := vault.New(100, 50)
	q := New(v, testLogger(), b)

	if len(got) != 3 {
		t.Fatalf("got %d messages from New, want 3", len(got))
	}
	for i, job := range []bee.Job{bee.JobNectarCollector, bee.JobHoneyManufacturer, bee.JobEggCare} {
		if got[i].Type != bus.MsgBeeAssigned || got[i].Job != string(job) {
			t.Errorf("message %d = %s/%s, want %s/%s", i, got[i].Type, got[i].Job, bus.MsgBeeAssigned, job)
		}
	}

	q.AssignBee(bee.JobEggCare)
	q.AssignBee(bee.JobEggCare)
	last := got[len(got)-1]
	if last.Type != bus.MsgAssignmentRejected {
		t.Errorf("last message type = %s, want %s", last.Type, bus.MsgAssignmentRejected)
	}
	if a, ok := last.Payload.(Assignment); !ok || a.Accepted || a.TotalWorkers != 4 {
		t.Errorf("rejection payload = %+v", last.Payload)
	}

	q.WorkTheNextShift()
	last = got[len(got)-1]
	if last.Type != bus.MsgShiftCompleted || last.Shift != 1 {
		t.Errorf("last message = %s shift %d, want shift_completed shift 1", last.Type, last.Shift)
	}
	snap, ok := last.Payload.(Snapshot)
	if !ok {
		t.Fatalf("shift payload type %T", last.Payload)
	}
	if snap.TotalWorkers != 4 || snap.Workers[string(bee.JobEggCare)] != 2 {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.Report != q.StatusReport() {
		t.Error("snapshot report differs from StatusReport()")
	}

	empty := New(vault.New(0, 0), testLogger(), b)
	empty.WorkTheNextShift()
	if last = got[len(got)-1]; last.Type != bus.MsgShiftSkipped {
		t.Errorf("last message type = %s, want %s", last.Type, bus.MsgShiftSkipped)
	}
}
