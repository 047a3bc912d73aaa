package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/wellwise/internal/economics"
	"github.com/Simplici0/wellwise/internal/refdata"
	"github.com/Simplici0/wellwise/internal/scenario"
	"github.com/Simplici0/wellwise/internal/well"
)

func TestNewEstimate_ReferenceWell(t *testing.T) {
	t.Parallel()

	e := NewEstimate(refdata.Default(), well.Defaults(), "")

	assert.Equal(t, economics.Conventional, e.WellType)
	assert.InDelta(t, 2625000, e.Cost.TotalCost, 0.01)
	assert.InDelta(t, 120000, e.Economics.TotalProduction, 0.01)
	assert.InDelta(t, 42.142857, e.Economics.BreakEvenPrice, 1e-4)
	assert.Equal(t, economics.Strong, e.Recommendation.Type)
}

func TestNewEstimate_NormalizesParams(t *testing.T) {
	t.Parallel()

	p := well.Defaults()
	p.Depth = -5
	p.OilPrice = 0
	p.Location = "moon"

	e := NewEstimate(refdata.Default(), p, economics.Unconventional)

	assert.Equal(t, 0, e.Params.Depth)
	assert.InDelta(t, well.DefaultOilPrice, e.Params.OilPrice, 0.001)
	assert.Equal(t, refdata.Onshore, e.Params.Location)
	assert.Equal(t, economics.NotRecommended, e.Recommendation.Type)
}

func TestWrite(t *testing.T) {
	t.Parallel()

	tables := refdata.Default()
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, tables, NewEstimate(tables, well.Defaults(), "")))
	out := buf.String()

	for _, want := range []string{
		"United States (Permian Basin)",
		"10,000 ft",
		"$75.00/bbl",
		"Fixed Costs (Permits, Site Prep)",
		"Rig Costs (25 days @ $25,000/day)",
		"$2,625,000",
		"$42.14/bbl",
		"131.4%",
		"15.6 months",
		"RECOMMENDATION: Strong Investment Opportunity",
		"PRICE SENSITIVITY",
	} {
		assert.Contains(t, out, want)
	}
}

func TestWrite_UnprofitableWell(t *testing.T) {
	t.Parallel()

	tables := refdata.Default()
	p := well.Defaults()
	p.Depth = 0
	p.OilPrice = 10

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, tables, NewEstimate(tables, p, "")))
	out := buf.String()

	assert.Contains(t, out, "Break-even price:  n/a")
	assert.Contains(t, out, "never")
	assert.Contains(t, out, "Not Recommended")
}

func TestWrite_ConvertsCurrency(t *testing.T) {
	t.Parallel()

	tables := refdata.Default()
	p := well.Defaults()
	p.Currency = "GBP"

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, tables, NewEstimate(tables, p, "")))

	assert.Contains(t, buf.String(), "£2,073,750")
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	tables := refdata.Default()
	e := NewEstimate(tables, well.Defaults(), "")
	sc := scenario.FromEstimate("Permian, base case", "", e.Params, e.Cost)
	sc.ID = 1700000000000

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []scenario.Scenario{sc}))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "id", records[0][0])
	assert.Equal(t, "1700000000000", records[1][0])
	assert.Equal(t, "Permian, base case", records[1][1])
	assert.Equal(t, "USA", records[1][3])
}

func TestWriteCSV_EmptyWritesHeader(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	assert.True(t, strings.HasPrefix(buf.String(), "id,name,saved_at"))
}
