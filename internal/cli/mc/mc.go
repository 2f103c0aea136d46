// Package mc implements the "montecarlo" command: value a term sheet over a
// full batch of simulated paths and journal the aggregate statistics.
package mc

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	appcfg "github.com/rustyeddy/phoenix/config"
	"github.com/rustyeddy/phoenix/internal/cli/config"
	"github.com/rustyeddy/phoenix/internal/product"
	"github.com/rustyeddy/phoenix/journal"
	"github.com/rustyeddy/phoenix/montecarlo"
	"github.com/rustyeddy/phoenix/pkg/id"
	"github.com/rustyeddy/phoenix/scenario"
)

func New(rc *config.RootConfig) *cobra.Command {
	var (
		termsPath string
		pathsFile string
		workers   int
	)

	cmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "Value a term sheet over a batch of simulated paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := rc.Logger()

			var fileCfg *appcfg.Config
			if rc.ConfigPath != "" {
				var err error
				fileCfg, err = appcfg.LoadFromFile(rc.ConfigPath)
				if err != nil {
					return err
				}
				if termsPath == "" {
					termsPath = fileCfg.Terms
				}
				if pathsFile == "" {
					pathsFile = fileCfg.Paths.File
				}
				if workers == 0 {
					workers = fileCfg.MonteCarlo.NumWorkers
				}
			}
			if termsPath == "" || pathsFile == "" {
				return fmt.Errorf("montecarlo: --terms and --paths are required (or a --config providing them)")
			}

			p, err := product.Load(termsPath)
			if err != nil {
				return err
			}

			v := p.Valuator(montecarlo.Config{NumWorkers: workers})

			started := time.Now()
			summary, err := runBatch(cmd, p, v, pathsFile)
			if err != nil {
				return err
			}
			log.Info().
				Int("simulations", summary.Simulations).
				Dur("elapsed", time.Since(started)).
				Msg("batch valued")

			run := journal.ValuationRun{
				RunID:        id.New(),
				Created:      time.Now(),
				Terms:        termsPath,
				Structure:    p.Structure(),
				Simulations:  summary.Simulations,
				MeanValue:    summary.MeanValue,
				StdValue:     summary.StdValue,
				MeanCoupons:  summary.MeanCoupons,
				MeanPayoff:   summary.MeanPayoff,
				AutocallProb: summary.AutocallProbability,
				P5:           summary.Percentiles[5],
				P25:          summary.Percentiles[25],
				P50:          summary.Percentiles[50],
				P75:          summary.Percentiles[75],
				P95:          summary.Percentiles[95],
			}

			var jc *appcfg.JournalConfig
			if fileCfg != nil {
				jc = &fileCfg.Journal
			}
			j, err := config.OpenJournal(rc, jc)
			if err != nil {
				return err
			}
			if j != nil {
				defer j.Close()
				if err := j.RecordRun(run); err != nil {
					return fmt.Errorf("montecarlo: journal: %w", err)
				}
			}

			scenario.PrintRunSummary(os.Stdout, run)
			return nil
		},
	}

	cmd.Flags().StringVar(&termsPath, "terms", "", "Term sheet file (YAML or JSON)")
	cmd.Flags().StringVar(&pathsFile, "paths", "", "Path CSV; K consecutive rows per simulation for K underlyings")
	cmd.Flags().IntVar(&workers, "workers", 0, "Worker goroutines (0 = one per CPU)")

	return cmd
}

// runBatch drains the feed into memory and hands the batch to the valuator.
func runBatch(cmd *cobra.Command, p *product.Product, v *montecarlo.Valuator, pathsFile string) (*montecarlo.Summary, error) {
	feed, err := scenario.NewCSVPathFeed(pathsFile, p.Assets())
	if err != nil {
		return nil, err
	}
	defer feed.Close()

	if p.WorstOf != nil {
		var batch [][][]float64
		for {
			paths, ok, err := feed.Next()
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
			batch = append(batch, paths)
		}
		return v.ValueWorstOf(cmd.Context(), batch)
	}

	var batch [][]float64
	for {
		paths, ok, err := feed.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		batch = append(batch, paths[0])
	}
	return v.ValueSingle(cmd.Context(), batch)
}
