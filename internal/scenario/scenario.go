// Package scenario persists named snapshots of cost estimates. The whole
// collection is a single JSON list stored under one key of a key-value
// backend; writers replace the list wholesale, so the last writer wins.
package scenario

import (
	"github.com/Simplici0/wellwise/internal/cost"
	"github.com/Simplici0/wellwise/internal/well"
)

// Scenario is a saved estimate. ID is the save time in Unix milliseconds.
type Scenario struct {
	ID                 int64           `json:"id"`
	Name               string          `json:"name"`
	Notes              string          `json:"notes,omitempty"`
	SavedAt            string          `json:"savedAt"`
	TotalCost          float64         `json:"totalCost"`
	Currency           string          `json:"currency"`
	BaseCost           float64         `json:"baseCost"`
	RegionalMultiplier float64         `json:"regionalMultiplier"`
	Breakdown          []cost.Item     `json:"breakdown"`
	Params             well.Parameters `json:"params"`
}

// FromEstimate builds an unsaved scenario from a computed estimate.
func FromEstimate(name, notes string, params well.Parameters, result cost.Result) Scenario {
	return Scenario{
		Name:               name,
		Notes:              notes,
		TotalCost:          result.TotalCost,
		Currency:           result.Currency,
		BaseCost:           result.BaseCost,
		RegionalMultiplier: result.RegionalMultiplier,
		Breakdown:          result.Breakdown,
		Params:             params,
	}
}

// Patch holds the editable fields of a saved scenario; nil fields are left
// unchanged.
type Patch struct {
	Name  *string `json:"name,omitempty"`
	Notes *string `json:"notes,omitempty"`
}
