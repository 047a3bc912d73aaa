package report

import (
	"encoding/csv"
	"io"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/Simplici0/wellwise/internal/scenario"
)

type scenarioRow struct {
	ID           int64   `csv:"id"`
	Name         string  `csv:"name"`
	SavedAt      string  `csv:"saved_at"`
	Region       string  `csv:"region"`
	Country      string  `csv:"country"`
	Location     string  `csv:"location"`
	RigType      string  `csv:"rig_type"`
	Depth        int     `csv:"depth_ft"`
	DrillingDays int     `csv:"drilling_days"`
	OilPrice     float64 `csv:"oil_price"`
	Currency     string  `csv:"currency"`
	BaseCost     float64 `csv:"base_cost_usd"`
	Multiplier   float64 `csv:"regional_multiplier"`
	TotalCost    float64 `csv:"total_cost"`
	Notes        string  `csv:"notes"`
}

// WriteCSV exports scenarios as CSV with a header row.
func WriteCSV(out io.Writer, scenarios []scenario.Scenario) error {
	cw := csv.NewWriter(out)
	enc := csvutil.NewEncoder(cw)

	if len(scenarios) == 0 {
		if err := enc.EncodeHeader(scenarioRow{}); err != nil {
			return eris.Wrap(err, "report: csv header")
		}
	}
	for _, sc := range scenarios {
		row := scenarioRow{
			ID:           sc.ID,
			Name:         sc.Name,
			SavedAt:      sc.SavedAt,
			Region:       sc.Params.Region,
			Country:      sc.Params.Country,
			Location:     sc.Params.Location,
			RigType:      sc.Params.RigType,
			Depth:        sc.Params.Depth,
			DrillingDays: sc.Params.DrillingDays,
			OilPrice:     sc.Params.OilPrice,
			Currency:     sc.Currency,
			BaseCost:     sc.BaseCost,
			Multiplier:   sc.RegionalMultiplier,
			TotalCost:    sc.TotalCost,
			Notes:        sc.Notes,
		}
		if err := enc.Encode(row); err != nil {
			return eris.Wrapf(err, "report: csv row %d", sc.ID)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "report: csv flush")
	}
	return nil
}
