package cost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/wellwise/internal/refdata"
	"github.com/Simplici0/wellwise/internal/well"
)

func baseParams() well.Parameters {
	return well.Parameters{
		Depth:        10000,
		Region:       "USA",
		Country:      "permianBasin",
		Location:     refdata.Onshore,
		RigType:      "standard",
		DrillingDays: 25,
		Currency:     "USD",
		OilPrice:     75,
	}
}

func TestCompute_PermianReferenceWell(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(refdata.Default())

	result := calc.Compute(baseParams())

	assert.InDelta(t, 2625000, result.BaseCost, 1e-6)
	assert.Equal(t, 1.0, result.RegionalMultiplier)
	assert.InDelta(t, 2625000, result.TotalCost, 1e-6)
	assert.Equal(t, "USD", result.Currency)

	require.Len(t, result.Breakdown, 3)
	assert.Equal(t, "Fixed Costs (Permits, Site Prep)", result.Breakdown[0].Name)
	assert.InDelta(t, 500000, result.Breakdown[0].BaseCost, 1e-6)
	assert.Equal(t, "Depth-Related Costs", result.Breakdown[1].Name)
	assert.InDelta(t, 1500000, result.Breakdown[1].BaseCost, 1e-6)
	assert.Equal(t, "Rig Costs (25 days @ $25,000/day)", result.Breakdown[2].Name)
	assert.InDelta(t, 625000, result.Breakdown[2].BaseCost, 1e-6)
}

func TestCompute_OffshoreRegionalAndCurrency(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(refdata.Default())

	p := baseParams()
	p.Region, p.Country = "latinAmerica", "brazilPreSalt"
	p.Location, p.RigType, p.DrillingDays = refdata.Offshore, "drillship", 90
	p.Currency = "BRL"

	result := calc.Compute(p)

	// 2,000,000 + 10,000*400 + 420,000*90
	wantBase := 2000000.0 + 4000000.0 + 37800000.0
	assert.InDelta(t, wantBase, result.BaseCost, 1e-6)
	assert.Equal(t, 2.4, result.RegionalMultiplier)
	assert.InDelta(t, wantBase*2.4, result.AdjustedCost, 1e-6)
	assert.InDelta(t, wantBase*2.4*5.67, result.TotalCost, 1e-3)
	assert.Equal(t, result.FinalCost, result.TotalCost)
}

func TestCompute_BreakdownInvariants(t *testing.T) {
	t.Parallel()
	tables := refdata.Default()
	calc := NewCalculator(tables)

	for _, region := range tables.Regions() {
		for _, country := range tables.Countries(region) {
			for _, location := range []string{refdata.Onshore, refdata.Offshore} {
				p := baseParams().WithRegion(region, country).WithLocation(location)
				p.Depth = 14250
				result := calc.Compute(p)

				finalSum, pctSum := 0.0, 0.0
				for _, item := range result.Breakdown {
					finalSum += item.FinalCost
					pctSum += item.Percentage
					assert.Equal(t, result.RegionalMultiplier, item.Multiplier)
				}
				assert.InDelta(t, result.BaseCost*result.RegionalMultiplier, finalSum, 1e-6, "%s/%s/%s", region, country, location)
				assert.InDelta(t, 100, pctSum, 0.1, "%s/%s/%s", region, country, location)
				assert.GreaterOrEqual(t, result.RegionalMultiplier, 0.0)
			}
		}
	}
}

func TestCompute_UnsupportedCombinationFallsBack(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(refdata.Default())

	p := baseParams()
	p.Region, p.Country = "northSea", "ukSector"
	p.RigType = "premium"

	result := calc.Compute(p)

	// North Sea has no onshore rigs: USA premium onshore rate applies.
	assert.InDelta(t, 35000*25, result.Breakdown[2].BaseCost, 1e-6)
	assert.Equal(t, 1.85, result.RegionalMultiplier)
}

func TestCompute_ZeroDepthAndDaysIsAllFixedCost(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(refdata.Default())

	p := baseParams()
	p.Depth, p.DrillingDays = 0, 0
	result := calc.Compute(p)

	assert.InDelta(t, 500000, result.BaseCost, 1e-6)
	assert.InDelta(t, 100, result.Breakdown[0].Percentage, 1e-9)
	assert.InDelta(t, 0, result.Breakdown[1].Percentage, 1e-9)
	assert.InDelta(t, 0, result.Breakdown[2].Percentage, 1e-9)
}

func TestCompute_EmptyTablesUseFallbacks(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(&refdata.Tables{})

	result := calc.Compute(baseParams())

	assert.Equal(t, 1.0, result.RegionalMultiplier)
	assert.InDelta(t, refdata.FallbackRigRate*25, result.Breakdown[2].BaseCost, 1e-6)
	assert.InDelta(t, 2625000, result.TotalCost, 1e-6)
}

func TestCompute_EmptyCurrencyDefaultsToUSD(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(refdata.Default())

	p := baseParams()
	p.Currency = ""
	result := calc.Compute(p)

	assert.Equal(t, "USD", result.Currency)
	assert.InDelta(t, result.AdjustedCost, result.TotalCost, 1e-9)
}

func TestComponents(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(refdata.Default())

	parts := calc.Components(baseParams())
	assert.Equal(t, Components{Fixed: 500000, Depth: 1500000, Rig: 625000, RigRate: 25000}, parts)
	assert.InDelta(t, 2625000, parts.Sum(), 1e-9)
}
