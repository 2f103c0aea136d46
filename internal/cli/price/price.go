// Package price implements the "price" command: one term sheet, one
// scenario, full event trace.
package price

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/phoenix/internal/cli/config"
	"github.com/rustyeddy/phoenix/internal/product"
	"github.com/rustyeddy/phoenix/payoff"
	"github.com/rustyeddy/phoenix/scenario"
)

func New(rc *config.RootConfig) *cobra.Command {
	var (
		termsPath string
		pathsFile string
	)

	cmd := &cobra.Command{
		Use:   "price",
		Short: "Price one term sheet against one path scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := rc.Logger()

			p, err := product.Load(termsPath)
			if err != nil {
				return err
			}
			log.Debug().
				Str("terms", termsPath).
				Str("structure", p.Structure()).
				Int("assets", p.Assets()).
				Msg("loaded product")

			feed, err := scenario.NewCSVPathFeed(pathsFile, p.Assets())
			if err != nil {
				return err
			}
			defer feed.Close()

			paths, ok, err := feed.Next()
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("price: %s holds no path rows", pathsFile)
			}

			res, err := p.Pricer().Price(paths)
			if err != nil {
				return err
			}

			printTrace(os.Stdout, res)
			return nil
		},
	}

	cmd.Flags().StringVar(&termsPath, "terms", "", "Term sheet file (YAML or JSON)")
	cmd.Flags().StringVar(&pathsFile, "paths", "", "Path CSV, one row per underlying")
	_ = cmd.MarkFlagRequired("terms")
	_ = cmd.MarkFlagRequired("paths")

	return cmd
}

func printTrace(w io.Writer, r *payoff.Result) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Payoff")
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Total Coupons: %.2f\n", r.TotalCoupons)
	if r.FixedCoupon > 0 {
		fmt.Fprintf(w, "  Fixed:       %.2f\n", r.FixedCoupon)
		fmt.Fprintf(w, "  Conditional: %.2f\n", r.ConditionalCoupons)
	}
	fmt.Fprintf(w, "Final Payoff:  %.2f\n", r.FinalPayoff)
	fmt.Fprintf(w, "Total Value:   %.2f\n", r.TotalValue)
	fmt.Fprintf(w, "Autocall:      %v\n", r.AutocallTriggered)
	if r.AutocallTriggered {
		fmt.Fprintf(w, "Autocall Date: %s\n", r.AutocallDate)
	}
	fmt.Fprintf(w, "Knock-in:      %v\n", r.KnockInEvent)
	fmt.Fprintf(w, "Accrued Unpaid: %.2f\n", r.AccruedUnpaid)

	if len(r.CouponPayments) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Coupon Payments")
		fmt.Fprintln(w, "--------------------------------------------------")
		for _, cp := range r.CouponPayments {
			fmt.Fprintf(w, "- %s  %.2f  (perf %.4f)\n", cp.Date, cp.Amount, cp.Performance)
		}
	}

	fmt.Fprintln(w)
}
