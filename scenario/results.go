package scenario

import (
	"fmt"
	"io"
	"time"

	"github.com/rustyeddy/phoenix/journal"
)

// PrintRunSummary writes a journaled valuation run as a readable block.
func PrintRunSummary(w io.Writer, r journal.ValuationRun) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Valuation Run")
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Run ID:        %s\n", r.RunID)
	fmt.Fprintf(w, "Created:       %s\n", r.Created.Format(time.RFC3339))
	fmt.Fprintf(w, "Terms:         %s\n", r.Terms)
	fmt.Fprintf(w, "Structure:     %s\n", r.Structure)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Batch")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Simulations:   %d\n", r.Simulations)
	fmt.Fprintf(w, "Failures:      %d\n", r.Failures)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Value Statistics")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Mean Value:    %.2f\n", r.MeanValue)
	fmt.Fprintf(w, "Std Dev:       %.2f\n", r.StdValue)
	fmt.Fprintf(w, "Mean Coupons:  %.2f\n", r.MeanCoupons)
	fmt.Fprintf(w, "Mean Payoff:   %.2f\n", r.MeanPayoff)
	fmt.Fprintf(w, "P(Autocall):   %.2f%%\n", r.AutocallProb*100)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Value Percentiles")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "5%%:            %.2f\n", r.P5)
	fmt.Fprintf(w, "25%%:           %.2f\n", r.P25)
	fmt.Fprintf(w, "50%%:           %.2f\n", r.P50)
	fmt.Fprintf(w, "75%%:           %.2f\n", r.P75)
	fmt.Fprintf(w, "95%%:           %.2f\n", r.P95)

	fmt.Fprintln(w)
}

// PrintResult writes a scenario run's lightweight summary.
func PrintResult(w io.Writer, r Result) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Scenario Run")
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Run ID:        %s\n", r.RunID)
	fmt.Fprintf(w, "Scenarios:     %d\n", r.Scenarios)
	fmt.Fprintf(w, "Priced:        %d\n", r.Priced)
	fmt.Fprintf(w, "Failed:        %d\n", len(r.Failures))
	fmt.Fprintf(w, "Autocalls:     %d\n", r.Autocalls)
	fmt.Fprintf(w, "Knock-ins:     %d\n", r.KnockIns)
	fmt.Fprintf(w, "Mean Value:    %.2f\n", r.MeanValue)

	if len(r.Failures) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Failures")
		fmt.Fprintln(w, "--------------------------------------------------")
		for _, f := range r.Failures {
			fmt.Fprintf(w, "- scenario %d: %v\n", f.Index, f.Err)
		}
	}

	fmt.Fprintln(w)
}
