package seed

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/Simplici0/wellwise/internal/cost"
	"github.com/Simplici0/wellwise/internal/refdata"
	"github.com/Simplici0/wellwise/internal/scenario"
	"github.com/Simplici0/wellwise/internal/well"
)

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

type sample struct {
	name   string
	notes  string
	params well.Parameters
}

// samples are one representative well per region.
var samples = []sample{
	{
		name:  "Permian Basin horizontal",
		notes: "Reference onshore well, standard rig.",
		params: well.Parameters{
			Depth: 10000, Region: "USA", Country: "permianBasin", Location: refdata.Onshore,
			RigType: "standard", DrillingDays: 25, Currency: "USD", OilPrice: 75,
		},
	},
	{
		name:  "Saudi onshore development",
		notes: "Low-cost Middle East onshore well.",
		params: well.Parameters{
			Depth: 8000, Region: "middleEast", Country: "saudiArabia", Location: refdata.Onshore,
			RigType: "premium", DrillingDays: 20, Currency: "SAR", OilPrice: 75,
		},
	},
	{
		name:  "Norwegian semisub exploration",
		notes: "Deep North Sea exploration well.",
		params: well.Parameters{
			Depth: 14000, Region: "northSea", Country: "norwegianSector", Location: refdata.Offshore,
			RigType: "semisubmersible", DrillingDays: 90, Currency: "NOK", OilPrice: 75,
		},
	},
	{
		name:  "Malaysia jackup infill",
		notes: "Shallow-water infill well.",
		params: well.Parameters{
			Depth: 9000, Region: "asiaPacific", Country: "malaysia", Location: refdata.Offshore,
			RigType: "jackup", DrillingDays: 60, Currency: "USD", OilPrice: 75,
		},
	},
	{
		name:  "Brazil pre-salt drillship",
		notes: "Ultra-deepwater pre-salt well.",
		params: well.Parameters{
			Depth: 20000, Region: "latinAmerica", Country: "brazilPreSalt", Location: refdata.Offshore,
			RigType: "drillship", DrillingDays: 120, Currency: "BRL", OilPrice: 75,
		},
	},
}

// Run saves the sample scenarios that are not already stored, matched by
// name. Running it repeatedly inserts nothing new.
func Run(ctx context.Context, store *scenario.Store, tables *refdata.Tables) (Stats, error) {
	existing := make(map[string]bool)
	for _, sc := range store.List(ctx) {
		existing[sc.Name] = true
	}

	calc := cost.NewCalculator(tables)
	stats := Stats{}

	for _, s := range samples {
		if existing[s.name] {
			continue
		}
		params := s.params.Normalize()
		sc := scenario.FromEstimate(s.name, s.notes, params, calc.Compute(params))
		if _, err := store.Save(ctx, sc); err != nil {
			return stats, eris.Wrapf(err, "seed scenario %q", s.name)
		}
		stats.Inserts++
	}

	return stats, nil
}

// Names returns the names of the sample scenarios.
func Names() []string {
	names := make([]string, 0, len(samples))
	for _, s := range samples {
		names = append(names, s.name)
	}
	return names
}
