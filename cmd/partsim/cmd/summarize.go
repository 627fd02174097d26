package cmd

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/sarchlab/partsim/datarecording"
	"github.com/sarchlab/partsim/experiment"
	"github.com/sarchlab/partsim/partition"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize RECORDING",
	Short: "Print the report of a recorded run.",
	Long: `Summarize reads the runs recorded by "partsim run --record" and ` +
		`prints the same report as the run did.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		simID, _ := cmd.Flags().GetString("simulation")

		results, err := summarize(cmd.Context(), args[0], simID)
		if err != nil {
			return err
		}

		return experiment.WriteReport(cmd.OutOrStdout(), results)
	},
}

func init() {
	rootCmd.AddCommand(summarizeCmd)

	summarizeCmd.Flags().String("simulation", "",
		"only summarize the simulation with this ID")
}

func summarize(
	ctx context.Context,
	path string,
	simID string,
) ([]experiment.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	reader, err := datarecording.NewReader(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	reader.MapTable(experiment.RunTable, experiment.RunRecord{})

	params := datarecording.QueryParams{OrderBy: "rowid"}
	if simID != "" {
		params.Where = "Simulation = ?"
		params.Args = []any{simID}
	}

	rows, _, err := reader.Query(ctx, experiment.RunTable, params)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, errors.Errorf("no run recorded in %s", path)
	}

	return resultsFromRecords(rows)
}

func resultsFromRecords(rows []any) ([]experiment.Result, error) {
	var results []experiment.Result

	index := make(map[partition.Strategy]int)

	for _, row := range rows {
		record := row.(*experiment.RunRecord)

		strategy, err := partition.ParseStrategy(record.Strategy)
		if err != nil {
			return nil, err
		}

		i, found := index[strategy]
		if !found {
			i = len(results)
			index[strategy] = i
			results = append(results, experiment.Result{Strategy: strategy})
		}

		stats := record.Stats()
		results[i].Total.Merge(stats)
		results[i].PerRun = append(results[i].PerRun, stats)
	}

	return results, nil
}

