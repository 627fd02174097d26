package experiment

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var headerColor = color.New(color.FgCyan, color.Bold)

// WriteReport prints the three classic averages of every result, followed by
// the extended statistics.
func WriteReport(w io.Writer, results []Result) error {
	for i, r := range results {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}

		err := writeResult(w, r)
		if err != nil {
			return err
		}
	}

	return nil
}

func writeResult(w io.Writer, r Result) error {
	_, err := headerColor.Fprintf(w,
		"-------Results For %s Partitioning-------\n", r.Strategy.Title())
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w,
		"Average # of Probes : %f\n"+
			"Average # of Failures: %f\n"+
			"Average # of Fragments: %f\n"+
			"Probes per Allocation: %f\n"+
			"Average Utilization: %f\n"+
			"Runs: %d, Steps: %d\n",
		r.Total.AverageProbes(),
		r.Total.FailureRate(),
		r.Total.AverageFragments(),
		r.Total.ProbesPerSuccess(),
		r.Total.Utilization(),
		len(r.PerRun), r.Total.Steps,
	)

	return err
}
