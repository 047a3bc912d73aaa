// Package cost estimates well drilling cost from fixed, depth and rig-time
// components adjusted by a regional multiplier and converted to the target
// currency.
package cost

import (
	"fmt"

	"github.com/Simplici0/wellwise/internal/money"
	"github.com/Simplici0/wellwise/internal/refdata"
	"github.com/Simplici0/wellwise/internal/well"
)

const (
	OnshoreFixedCost  = 500000.0
	OffshoreFixedCost = 2000000.0

	OnshoreCostPerFoot  = 150.0
	OffshoreCostPerFoot = 400.0
)

// Item is one line of the cost breakdown. Percentage is the share of the
// pre-multiplier base cost, not of the converted total.
type Item struct {
	Name       string  `json:"name"`
	BaseCost   float64 `json:"baseCost"`
	Multiplier float64 `json:"multiplier"`
	FinalCost  float64 `json:"finalCost"`
	Percentage float64 `json:"percentage"`
}

// Result is the output of a cost estimate. BaseCost and AdjustedCost are
// USD; FinalCost and TotalCost are in Currency.
type Result struct {
	BaseCost           float64 `json:"baseCost"`
	RegionalMultiplier float64 `json:"regionalMultiplier"`
	AdjustedCost       float64 `json:"adjustedCost"`
	FinalCost          float64 `json:"finalCost"`
	TotalCost          float64 `json:"totalCost"`
	Currency           string  `json:"currency"`
	Breakdown          []Item  `json:"breakdown"`
}

// Components are the three USD cost drivers before any adjustment.
type Components struct {
	Fixed   float64
	Depth   float64
	Rig     float64
	RigRate float64
}

// Sum returns the base cost.
func (c Components) Sum() float64 {
	return c.Fixed + c.Depth + c.Rig
}

// Calculator computes estimates against a fixed set of reference tables.
type Calculator struct {
	tables *refdata.Tables
}

// NewCalculator creates a Calculator over tables.
func NewCalculator(tables *refdata.Tables) *Calculator {
	return &Calculator{tables: tables}
}

// Compute estimates drilling cost for p. Inputs are expected to be
// normalized by the caller; unknown region/location/rig combinations fall
// back to default rates rather than failing.
func (c *Calculator) Compute(p well.Parameters) Result {
	currency := p.Currency
	if currency == "" {
		currency = refdata.BaseCurrency
	}

	parts := c.Components(p)
	baseCost := parts.Sum()
	multiplier := c.tables.Multiplier(p.Region, p.Country)
	adjusted := baseCost * multiplier
	final := adjusted * c.tables.ExchangeRate(currency)

	return Result{
		BaseCost:           baseCost,
		RegionalMultiplier: multiplier,
		AdjustedCost:       adjusted,
		FinalCost:          final,
		TotalCost:          final,
		Currency:           currency,
		Breakdown:          breakdown(parts, multiplier, p.DrillingDays),
	}
}

// Components returns the USD cost drivers for p.
func (c *Calculator) Components(p well.Parameters) Components {
	fixed, perFoot := OnshoreFixedCost, OnshoreCostPerFoot
	if p.Location == refdata.Offshore {
		fixed, perFoot = OffshoreFixedCost, OffshoreCostPerFoot
	}

	rigRate := c.tables.RigRate(p.Region, p.Location, p.RigType)
	return Components{
		Fixed:   fixed,
		Depth:   float64(p.Depth) * perFoot,
		Rig:     rigRate * float64(p.DrillingDays),
		RigRate: rigRate,
	}
}

func breakdown(parts Components, multiplier float64, days int) []Item {
	base := parts.Sum()
	item := func(name string, amount float64) Item {
		pct := 0.0
		if base != 0 {
			pct = amount / base * 100
		}
		return Item{
			Name:       name,
			BaseCost:   amount,
			Multiplier: multiplier,
			FinalCost:  amount * multiplier,
			Percentage: pct,
		}
	}

	return []Item{
		item("Fixed Costs (Permits, Site Prep)", parts.Fixed),
		item("Depth-Related Costs", parts.Depth),
		item(fmt.Sprintf("Rig Costs (%d days @ $%s/day)", days, money.Grouped(parts.RigRate)), parts.Rig),
	}
}
