package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Simplici0/wellwise/internal/economics"
	"github.com/Simplici0/wellwise/internal/report"
	"github.com/Simplici0/wellwise/internal/well"
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate drilling cost and economics for one well",
	RunE: func(cmd *cobra.Command, _ []string) error {
		tables, snap, err := loadTables(cmd.Context())
		if err != nil {
			return err
		}

		defaults := well.Defaults()
		defaults.OilPrice = snap.OilPrice.Value
		params := paramsFromFlags(cmd.Flags(), defaults)
		wellType, _ := cmd.Flags().GetString("well-type")

		est := report.NewEstimate(tables, params, wellType)

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(est); err != nil {
				return eris.Wrap(err, "encode estimate")
			}
			return nil
		}
		return report.Write(os.Stdout, tables, est)
	},
}

func init() {
	addParamFlags(estimateCmd.Flags())
	estimateCmd.Flags().String("well-type", economics.Conventional, "conventional or unconventional (offshore wells always use offshore recovery)")
	estimateCmd.Flags().Bool("json", false, "print the estimate as JSON")
}

// addParamFlags registers the well parameter flags. Numeric flags are
// strings so they are coerced the same way form input is.
func addParamFlags(fs *pflag.FlagSet) {
	fs.String("depth", "", "well depth in feet (default 10000)")
	fs.String("region", "", "region key, e.g. USA, middleEast, northSea")
	fs.String("country", "", "country or basin key, e.g. permianBasin")
	fs.String("location", "", "onshore or offshore")
	fs.String("rig-type", "", "rig type key, e.g. standard, jackup")
	fs.String("days", "", "drilling days (default 25 onshore, 90 offshore)")
	fs.String("currency", "", "output currency code (default USD)")
	fs.String("oil-price", "", "oil price in USD/bbl (default 75)")
}

// paramsFromFlags applies the changed flags to defaults in the order a form
// would: region and location reset the rig type and days before explicit
// values are applied.
func paramsFromFlags(fs *pflag.FlagSet, defaults well.Parameters) well.Parameters {
	p := defaults
	str := func(name string) (string, bool) {
		if !fs.Changed(name) {
			return "", false
		}
		v, _ := fs.GetString(name)
		return v, true
	}

	if region, ok := str("region"); ok {
		country, _ := str("country")
		p = p.WithRegion(region, country)
	} else if country, ok := str("country"); ok {
		p.Country = country
	}
	if loc, ok := str("location"); ok {
		p = p.WithLocation(loc)
	}
	if v, ok := str("rig-type"); ok {
		p.RigType = v
	}
	if v, ok := str("depth"); ok {
		p.Depth = well.ParseDepth(v)
	}
	if v, ok := str("days"); ok {
		p.DrillingDays = well.ParseDrillingDays(v)
	}
	if v, ok := str("currency"); ok {
		p.Currency = v
	}
	if v, ok := str("oil-price"); ok {
		p.OilPrice = well.ParseOilPrice(v)
	}
	return p.Normalize()
}
