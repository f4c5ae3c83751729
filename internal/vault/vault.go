// Package vault holds the hive's shared honey and nectar stock and the rules
// for collecting, converting and consuming it.
package vault

import "fmt"

const (
	// NectarConversionRatio is the honey yield per unit of converted nectar.
	NectarConversionRatio = 0.75
	// LowLevelWarning is the stock level below which the report warns.
	LowLevelWarning = 10.0

	DefaultHoney  = 100.0
	DefaultNectar = 50.0
)

// Vault is the resource ledger for a single hive. It is not safe for
// concurrent use; one driver serializes every shift.
type Vault struct {
	honey  float64
	nectar float64
}

// New creates a vault with the given starting stock.
func New(honey, nectar float64) *Vault {
	return &Vault{honey: honey, nectar: nectar}
}

// NewDefault creates a vault with 100 honey and 50 nectar.
func NewDefault() *Vault {
	return New(DefaultHoney, DefaultNectar)
}

// Honey returns the current honey stock.
func (v *Vault) Honey() float64 { return v.honey }

// Nectar returns the current nectar stock.
func (v *Vault) Nectar() float64 { return v.nectar }

// CollectNectar adds amount to the nectar stock. Anything that is not a
// positive number, NaN included, is ignored and reported as not applied.
func (v *Vault) CollectNectar(amount float64) bool {
	if amount > 0 {
		v.nectar += amount
		return true
	}
	return false
}

// ConvertNectarToHoney turns amount nectar into honey at NectarConversionRatio.
// A negative amount converts all available nectar. The nectar stock is not
// floored, so converting more than is available leaves it negative.
func (v *Vault) ConvertNectarToHoney(amount float64) {
	toConvert := amount
	if toConvert < 0 {
		toConvert = v.nectar
	}
	v.nectar -= toConvert
	v.honey += toConvert * NectarConversionRatio
}

// ConsumeHoney deducts amount only when the stock strictly exceeds it.
func (v *Vault) ConsumeHoney(amount float64) bool {
	if v.honey > amount {
		v.honey -= amount
		return true
	}
	return false
}

// StatusReport formats the stock with low-level warnings appended.
func (v *Vault) StatusReport() string {
	status := fmt.Sprintf("%.1f units of honey\n%.1f units of nectar\n", v.honey, v.nectar)
	warnings := ""
	if v.honey < LowLevelWarning {
		warnings += "\nLOW HONEY - ADD A HONEY MANUFACTURER"
	}
	if v.nectar < LowLevelWarning {
		warnings += "\nLOW NECTAR - ADD A NECTAR COLLECTOR"
	}
	return status + warnings
}
