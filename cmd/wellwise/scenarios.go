package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/Simplici0/wellwise/internal/economics"
	"github.com/Simplici0/wellwise/internal/money"
	"github.com/Simplici0/wellwise/internal/refdata"
	"github.com/Simplici0/wellwise/internal/report"
	"github.com/Simplici0/wellwise/internal/scenario"
	"github.com/Simplici0/wellwise/internal/well"
)

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "Manage saved scenarios",
	Long:  "Commands for listing, viewing, saving, exporting and deleting saved estimate scenarios.",
}

// -- scenarios list --

var scenariosListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved scenarios",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		tables, _, err := loadTables(ctx)
		if err != nil {
			return err
		}
		store, closeStore, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore() //nolint:errcheck

		list := store.List(ctx)
		if len(list) == 0 {
			fmt.Fprintln(os.Stderr, "No scenarios saved.")
			return nil
		}
		formatScenarioList(os.Stdout, tables, list)
		return nil
	},
}

// -- scenarios show --

var scenariosShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a saved scenario with its economics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		id, err := parseScenarioID(args[0])
		if err != nil {
			return err
		}
		tables, _, err := loadTables(ctx)
		if err != nil {
			return err
		}
		store, closeStore, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore() //nolint:errcheck

		sc, err := store.Get(ctx, id)
		if err != nil {
			return eris.Wrapf(err, "scenarios show %d", id)
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(sc)
		}

		fmt.Printf("%s (saved %s)\n", sc.Name, sc.SavedAt)
		if sc.Notes != "" {
			fmt.Println(sc.Notes)
		}
		fmt.Println()
		return report.Write(os.Stdout, tables, report.NewEstimate(tables, sc.Params, ""))
	},
}

// -- scenarios save --

var scenariosSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Estimate a well and save it as a named scenario",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		name, _ := cmd.Flags().GetString("name")
		name = strings.TrimSpace(name)
		if name == "" {
			return eris.New("scenario name is required (--name)")
		}
		notes, _ := cmd.Flags().GetString("notes")

		tables, snap, err := loadTables(ctx)
		if err != nil {
			return err
		}
		store, closeStore, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore() //nolint:errcheck

		defaults := well.Defaults()
		defaults.OilPrice = snap.OilPrice.Value
		est := report.NewEstimate(tables, paramsFromFlags(cmd.Flags(), defaults), economics.Conventional)

		saved, err := store.Save(ctx, scenario.FromEstimate(name, strings.TrimSpace(notes), est.Params, est.Cost))
		if err != nil {
			return err
		}
		fmt.Printf("Saved scenario %d: %s (%s)\n", saved.ID, saved.Name, money.Format(tables, saved.TotalCost, saved.Currency))
		return nil
	},
}

// -- scenarios delete --

var scenariosDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved scenario",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		id, err := parseScenarioID(args[0])
		if err != nil {
			return err
		}
		store, closeStore, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore() //nolint:errcheck

		return store.Delete(ctx, id)
	},
}

// -- scenarios clear --

var scenariosClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every saved scenario",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		store, closeStore, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore() //nolint:errcheck

		return store.Clear(ctx)
	},
}

// -- scenarios export --

var scenariosExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export saved scenarios as CSV",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		store, closeStore, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore() //nolint:errcheck

		out := io.Writer(os.Stdout)
		if path, _ := cmd.Flags().GetString("output"); path != "" {
			f, err := os.Create(path)
			if err != nil {
				return eris.Wrap(err, "create export file")
			}
			defer f.Close() //nolint:errcheck
			out = f
		}
		return report.WriteCSV(out, store.List(ctx))
	},
}

func init() {
	scenariosShowCmd.Flags().Bool("json", false, "print the stored record as JSON")

	scenariosSaveCmd.Flags().String("name", "", "scenario name (required)")
	scenariosSaveCmd.Flags().String("notes", "", "free-form notes")
	addParamFlags(scenariosSaveCmd.Flags())

	scenariosExportCmd.Flags().StringP("output", "o", "", "write CSV to this file instead of stdout")

	scenariosCmd.AddCommand(
		scenariosListCmd,
		scenariosShowCmd,
		scenariosSaveCmd,
		scenariosDeleteCmd,
		scenariosClearCmd,
		scenariosExportCmd,
	)
}

func parseScenarioID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, eris.Errorf("invalid scenario id %q", raw)
	}
	return id, nil
}

// formatScenarioList writes a tabular list of scenarios to out.
func formatScenarioList(out io.Writer, tables *refdata.Tables, list []scenario.Scenario) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tREGION\tLOCATION\tDEPTH\tTOTAL\tSAVED")
	_, _ = fmt.Fprintln(w, "--\t----\t------\t--------\t-----\t-----\t-----")

	for _, sc := range list {
		name := sc.Name
		if r := []rune(name); len(r) > 30 {
			name = string(r[:27]) + "..."
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s ft\t%s\t%s\n",
			sc.ID,
			name,
			tables.CountryName(sc.Params.Country),
			sc.Params.Location,
			money.Grouped(float64(sc.Params.Depth)),
			money.Format(tables, sc.TotalCost, sc.Currency),
			sc.SavedAt,
		)
	}
	_ = w.Flush()
}
