package report

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/rotisserie/eris"

	"github.com/Simplici0/wellwise/internal/money"
	"github.com/Simplici0/wellwise/internal/refdata"
)

// Write renders e as a plain-text report.
func Write(out io.Writer, tables *refdata.Tables, e Estimate) error {
	p := e.Params
	cur := e.Cost.Currency
	amount := func(v float64) string { return money.Format(tables, v, cur) }

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintln(w, "WELL PARAMETERS")
	_, _ = fmt.Fprintf(w, "Region:\t%s (%s)\n", tables.RegionName(p.Region), tables.CountryName(p.Country))
	_, _ = fmt.Fprintf(w, "Location:\t%s\n", refdata.RigLabel(p.Location))
	_, _ = fmt.Fprintf(w, "Rig type:\t%s\n", refdata.RigLabel(p.RigType))
	_, _ = fmt.Fprintf(w, "Well type:\t%s\n", refdata.RigLabel(e.WellType))
	_, _ = fmt.Fprintf(w, "Depth:\t%s ft\n", money.Grouped(float64(p.Depth)))
	_, _ = fmt.Fprintf(w, "Drilling days:\t%d\n", p.DrillingDays)
	_, _ = fmt.Fprintf(w, "Currency:\t%s\n", cur)
	_, _ = fmt.Fprintf(w, "Oil price:\t$%s/bbl\n", money.Fixed(p.OilPrice, 2))
	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprintln(w, "COST BREAKDOWN")
	_, _ = fmt.Fprintln(w, "ITEM\tBASE (USD)\tMULTIPLIER\tADJUSTED (USD)\tSHARE")
	for _, item := range e.Cost.Breakdown {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%sx\t%s\t%s%%\n",
			item.Name,
			money.FormatSymbol(item.BaseCost, "$"),
			money.Fixed(item.Multiplier, 2),
			money.FormatSymbol(item.FinalCost, "$"),
			money.Fixed(item.Percentage, 1),
		)
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Base cost (USD):\t%s\n", money.FormatSymbol(e.Cost.BaseCost, "$"))
	_, _ = fmt.Fprintf(w, "Regional multiplier:\t%sx\n", money.Fixed(e.Cost.RegionalMultiplier, 2))
	_, _ = fmt.Fprintf(w, "Total cost:\t%s\n", amount(e.Cost.TotalCost))
	_, _ = fmt.Fprintln(w)

	econ := e.Economics
	_, _ = fmt.Fprintln(w, "ECONOMICS")
	_, _ = fmt.Fprintf(w, "Total production:\t%s bbl (%s bbl/ft)\n", money.Grouped(econ.TotalProduction), money.Fixed(econ.EURPerFoot, 1))
	_, _ = fmt.Fprintf(w, "Break-even price:\t%s\n", perBarrel(econ.BreakEvenPrice))
	_, _ = fmt.Fprintf(w, "NPV (10%%):\t%s\n", amount(econ.NPV))
	_, _ = fmt.Fprintf(w, "ROI:\t%s%%\n", money.Fixed(econ.ROI, 1))
	_, _ = fmt.Fprintf(w, "Payback:\t%s\n", months(econ.PaybackMonths))
	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprintf(w, "RECOMMENDATION: %s\n", e.Recommendation.Title)
	_, _ = fmt.Fprintln(w, e.Recommendation.Message)
	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprintln(w, "PRICE SENSITIVITY")
	_, _ = fmt.Fprintln(w, "OIL PRICE\tNPV\tROI\tPROFITABLE")
	for _, pt := range econ.Sensitivity {
		profitable := "no"
		if pt.Profitable {
			profitable = "yes"
		}
		_, _ = fmt.Fprintf(w, "$%s\t%s\t%s%%\t%s\n",
			money.Fixed(pt.OilPrice, 0),
			amount(pt.NPV),
			money.Fixed(pt.ROI, 1),
			profitable,
		)
	}

	if err := w.Flush(); err != nil {
		return eris.Wrap(err, "report: write")
	}
	return nil
}

func perBarrel(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return "n/a"
	}
	return "$" + money.Fixed(v, 2) + "/bbl"
}

func months(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return "never"
	}
	return money.Fixed(v, 1) + " months"
}
