// Package batch implements the "batch" command: stream scenarios through the
// runner, journaling each result and tolerating per-scenario failures.
package batch

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	appcfg "github.com/rustyeddy/phoenix/config"
	"github.com/rustyeddy/phoenix/internal/cli/config"
	"github.com/rustyeddy/phoenix/internal/product"
	"github.com/rustyeddy/phoenix/scenario"
)

func New(rc *config.RootConfig) *cobra.Command {
	var (
		termsPath   string
		pathsFile   string
		stopOnError bool
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Price every scenario in a path file, recording failures",
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
			}
			if termsPath == "" || pathsFile == "" {
				return fmt.Errorf("batch: --terms and --paths are required (or a --config providing them)")
			}

			p, err := product.Load(termsPath)
			if err != nil {
				return err
			}

			feed, err := scenario.NewCSVPathFeed(pathsFile, p.Assets())
			if err != nil {
				return err
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
			}

			r := &scenario.Runner{
				Pricer:  p.Pricer(),
				Feed:    feed,
				Journal: j,
				Options: scenario.RunnerOptions{
					Terms:       termsPath,
					Structure:   p.Structure(),
					StopOnError: stopOnError,
				},
				Log: log,
			}

			res, err := r.Run(cmd.Context())
			if err != nil {
				return err
			}

			scenario.PrintResult(os.Stdout, res)
			return nil
		},
	}

	cmd.Flags().StringVar(&termsPath, "terms", "", "Term sheet file (YAML or JSON)")
	cmd.Flags().StringVar(&pathsFile, "paths", "", "Path CSV; K consecutive rows per scenario for K underlyings")
	cmd.Flags().BoolVar(&stopOnError, "stop-on-error", false, "Abort at the first failed scenario")

	return cmd
}
