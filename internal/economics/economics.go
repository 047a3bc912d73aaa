// Package economics derives investment metrics for a well from its drilling
// cost and a simple production model: estimated ultimate recovery scales
// with depth and is produced over three years on a fixed decline schedule.
package economics

import (
	"encoding/json"
	"math"

	"github.com/Simplici0/wellwise/internal/refdata"
)

const (
	Royalty      = 0.125 // share of gross revenue owed to the resource owner
	OpexPerBbl   = 15.0  // USD per barrel
	DiscountRate = 0.10  // annual

	PaybackHorizonMonths = 36

	Conventional   = "conventional"
	Unconventional = "unconventional"
)

// DeclineSchedule is the share of total production realized in years 1..3.
var DeclineSchedule = [3]float64{0.50, 0.30, 0.20}

// SensitivityPrices are the oil prices (USD/bbl) of the sensitivity curve.
var SensitivityPrices = [8]float64{30, 40, 50, 60, 70, 80, 90, 100}

// Input is the subset of well parameters the analysis needs.
type Input struct {
	Depth    int
	Region   string
	Location string
	WellType string
	OilPrice float64
}

// Point is one row of the price sensitivity curve.
type Point struct {
	OilPrice   float64 `json:"oilPrice"`
	NPV        float64 `json:"npv"`
	ROI        float64 `json:"roi"`
	Profitable bool    `json:"profitable"`
}

// Result holds the investment metrics of a well. BreakEvenPrice and
// PaybackMonths may be +Inf.
type Result struct {
	BreakEvenPrice  float64 `json:"breakEvenPrice"`
	NPV             float64 `json:"npv"`
	ROI             float64 `json:"roi"`
	PaybackMonths   float64 `json:"paybackMonths"`
	Sensitivity     []Point `json:"sensitivity"`
	TotalProduction float64 `json:"totalProduction"`
	EURPerFoot      float64 `json:"eurPerFoot"`
	CurrentOilPrice float64 `json:"currentOilPrice"`
}

// Analyzer computes economics against the recovery tables.
type Analyzer struct {
	tables *refdata.Tables
}

func NewAnalyzer(tables *refdata.Tables) *Analyzer {
	return &Analyzer{tables: tables}
}

// Analyze computes the metrics for a well costing drillingCost (capex) at
// in.OilPrice, taken as given; callers coerce missing prices beforehand.
// Offshore wells always use the offshore recovery table; onshore wells use
// in.WellType, defaulting to conventional.
func (a *Analyzer) Analyze(drillingCost float64, in Input) Result {
	price := in.OilPrice

	wellType := in.WellType
	if wellType == "" {
		wellType = Conventional
	}
	if in.Location == refdata.Offshore {
		wellType = refdata.Offshore
	}

	eurPerFoot := a.tables.RecoveryPerFoot(wellType, in.Region)
	production := float64(in.Depth) * eurPerFoot

	return Result{
		BreakEvenPrice:  BreakEven(drillingCost, production),
		NPV:             NPV(drillingCost, production, price),
		ROI:             ROI(drillingCost, production, price),
		PaybackMonths:   Payback(drillingCost, production, price),
		Sensitivity:     PriceSensitivity(drillingCost, production),
		TotalProduction: production,
		EURPerFoot:      eurPerFoot,
		CurrentOilPrice: price,
	}
}

// BreakEven returns the oil price at which revenue net of royalty covers
// capex plus lifetime opex. +Inf when production is zero.
func BreakEven(capex, production float64) float64 {
	net := production * (1 - Royalty)
	if net == 0 {
		return math.Inf(1)
	}
	return (capex + production*OpexPerBbl) / net
}

// NPV discounts the three-year cash flows at DiscountRate and subtracts capex.
func NPV(capex, production, oilPrice float64) float64 {
	npv := -capex
	for i, share := range DeclineSchedule {
		annual := production * share
		cashFlow := annual*oilPrice*(1-Royalty) - annual*OpexPerBbl
		npv += cashFlow / math.Pow(1+DiscountRate, float64(i+1))
	}
	return npv
}

// ROI is the undiscounted lifetime return over capex, in percent. Zero
// capex yields 0.
func ROI(capex, production, oilPrice float64) float64 {
	if capex == 0 {
		return 0
	}
	revenue := production * netPerBarrel(oilPrice)
	return (revenue - capex) / capex * 100
}

// Payback returns the months needed to recover capex assuming flat
// production over PaybackHorizonMonths. +Inf when monthly net revenue is
// not positive.
func Payback(capex, production, oilPrice float64) float64 {
	monthly := production / PaybackHorizonMonths * netPerBarrel(oilPrice)
	if monthly <= 0 {
		return math.Inf(1)
	}
	return capex / monthly
}

// PriceSensitivity evaluates NPV and ROI at each of SensitivityPrices.
func PriceSensitivity(capex, production float64) []Point {
	points := make([]Point, 0, len(SensitivityPrices))
	for _, price := range SensitivityPrices {
		npv := NPV(capex, production, price)
		points = append(points, Point{
			OilPrice:   price,
			NPV:        npv,
			ROI:        ROI(capex, production, price),
			Profitable: npv > 0,
		})
	}
	return points
}

func netPerBarrel(oilPrice float64) float64 {
	return oilPrice*(1-Royalty) - OpexPerBbl
}

// MarshalJSON encodes infinite break-even and payback values as null.
func (r Result) MarshalJSON() ([]byte, error) {
	type plain Result
	return json.Marshal(struct {
		plain
		BreakEvenPrice *float64 `json:"breakEvenPrice"`
		PaybackMonths  *float64 `json:"paybackMonths"`
	}{
		plain:          plain(r),
		BreakEvenPrice: finite(r.BreakEvenPrice),
		PaybackMonths:  finite(r.PaybackMonths),
	})
}

func finite(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}
