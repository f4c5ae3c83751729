// Package bee defines the shift contract every hive member follows and the
// three worker variants a queen can assign.
package bee

import "github.com/HexSleeves/hive/internal/vault"

const (
	NectarCollectorCost   = 1.95
	HoneyManufacturerCost = 1.70
	EggCareCost           = 0.15

	// NectarCollectedPerShift is the fixed yield of one collector shift.
	NectarCollectedPerShift = 33.25
	// HoneyManufacturerRatedNectar is the manufacturer's rated throughput.
	// A shift converts HoneyManufacturerCost nectar, not this amount.
	HoneyManufacturerRatedNectar = 33.15
	// CareProgressPerShift is the egg volume one egg-care shift hatches.
	CareProgressPerShift = 0.15
)

// Bee is anything that can work a shift at a honey cost.
type Bee interface {
	// Job returns the immutable job label
	Job() Job
	// CostPerShift returns the honey spent to work one shift
	CostPerShift() float64
	// WorkTheNextShift pays the cost and, only if paid, performs the job.
	// It reports whether the job ran.
	WorkTheNextShift() bool
}

// EggCarer is the narrow view of a queen that egg-care bees report to.
type EggCarer interface {
	CareForEggs(eggsToConvert float64) bool
}

// Base carries the state shared by every bee: its job label and the vault it
// draws honey from. Embed it and call Work from WorkTheNextShift.
type Base struct {
	job   Job
	vault *vault.Vault
}

// NewBase returns a Base for job drawing on v. An empty job is a programming
// error.
func NewBase(job Job, v *vault.Vault) Base {
	if job == "" {
		panic("bee: empty job label")
	}
	if v == nil {
		panic("bee: nil vault")
	}
	return Base{job: job, vault: v}
}

func (b *Base) Job() Job { return b.job }

// Vault returns the vault the bee draws on.
func (b *Base) Vault() *vault.Vault { return b.vault }

// Work consumes cost honey and runs doJob only if the vault could pay.
func (b *Base) Work(cost float64, doJob func()) bool {
	if !b.vault.ConsumeHoney(cost) {
		return false
	}
	doJob()
	return true
}

// New builds the worker for job. It returns false for the queen and for any
// job outside the assignable set.
func New(job Job, v *vault.Vault, carer EggCarer) (Bee, bool) {
	switch job {
	case JobNectarCollector:
		return NewNectarCollector(v), true
	case JobHoneyManufacturer:
		return NewHoneyManufacturer(v), true
	case JobEggCare:
		if carer == nil {
			return nil, false
		}
		return NewEggCare(v, carer), true
	}
	return nil, false
}

// NectarCollector gathers a fixed amount of nectar each shift.
type NectarCollector struct {
	Base
}

func NewNectarCollector(v *vault.Vault) *NectarCollector {
	return &NectarCollector{Base: NewBase(JobNectarCollector, v)}
}

func (n *NectarCollector) CostPerShift() float64 { return NectarCollectorCost }

func (n *NectarCollector) WorkTheNextShift() bool {
	return n.Work(n.CostPerShift(), func() {
		n.vault.CollectNectar(NectarCollectedPerShift)
	})
}

// HoneyManufacturer converts nectar equal to its own shift cost into honey.
type HoneyManufacturer struct {
	Base
}

func NewHoneyManufacturer(v *vault.Vault) *HoneyManufacturer {
	return &HoneyManufacturer{Base: NewBase(JobHoneyManufacturer, v)}
}

func (h *HoneyManufacturer) CostPerShift() float64 { return HoneyManufacturerCost }

func (h *HoneyManufacturer) WorkTheNextShift() bool {
	return h.Work(h.CostPerShift(), func() {
		h.vault.ConvertNectarToHoney(h.CostPerShift())
	})
}

// EggCare tends the queen's eggs, hatching them into unassigned workers.
type EggCare struct {
	Base
	queen EggCarer
}

func NewEggCare(v *vault.Vault, queen EggCarer) *EggCare {
	return &EggCare{Base: NewBase(JobEggCare, v), queen: queen}
}

func (e *EggCare) CostPerShift() float64 { return EggCareCost }

func (e *EggCare) WorkTheNextShift() bool {
	return e.Work(e.CostPerShift(), func() {
		e.queen.CareForEggs(CareProgressPerShift)
	})
}
