// Package report assembles full estimates and renders them for people:
// a plain-text report and a CSV export of saved scenarios.
package report

import (
	"github.com/Simplici0/wellwise/internal/cost"
	"github.com/Simplici0/wellwise/internal/economics"
	"github.com/Simplici0/wellwise/internal/refdata"
	"github.com/Simplici0/wellwise/internal/well"
)

// Estimate is a cost estimate together with its investment analysis.
type Estimate struct {
	Params         well.Parameters          `json:"params"`
	WellType       string                   `json:"wellType"`
	Cost           cost.Result              `json:"cost"`
	Economics      economics.Result         `json:"economics"`
	Recommendation economics.Recommendation `json:"recommendation"`
}

// NewEstimate normalizes params and runs both calculators. The converted
// total cost is the capex of the analysis.
func NewEstimate(tables *refdata.Tables, params well.Parameters, wellType string) Estimate {
	params = params.Normalize()
	if wellType == "" {
		wellType = economics.Conventional
	}

	result := cost.NewCalculator(tables).Compute(params)
	econ := economics.NewAnalyzer(tables).Analyze(result.TotalCost, economics.Input{
		Depth:    params.Depth,
		Region:   params.Region,
		Location: params.Location,
		WellType: wellType,
		OilPrice: params.OilPrice,
	})

	return Estimate{
		Params:         params,
		WellType:       wellType,
		Cost:           result,
		Economics:      econ,
		Recommendation: economics.Recommend(econ.NPV, result.TotalCost, econ.ROI),
	}
}
