package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/phoenix/internal/cli/batch"
	"github.com/rustyeddy/phoenix/internal/cli/config"
	"github.com/rustyeddy/phoenix/internal/cli/mc"
	"github.com/rustyeddy/phoenix/internal/cli/price"
)

func NewRootCmd() *cobra.Command {
	rc := &config.RootConfig{}

	cmd := &cobra.Command{
		Use:           "phoenix",
		Short:         "Phoenix autocallable note valuation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global / persistent flags
	cmd.PersistentFlags().StringVar(&rc.ConfigPath, "config", "", "Path to config file (optional)")
	cmd.PersistentFlags().StringVar(&rc.DBPath, "db", "./phoenix.sqlite", "SQLite valuation journal database")
	cmd.PersistentFlags().StringVar(&rc.LogLevel, "log-level", "info", "Log level: debug|info|warn|error")
	cmd.PersistentFlags().BoolVar(&rc.NoColor, "no-color", false, "Disable colored output")

	// Subcommands
	cmd.AddCommand(
		price.New(rc),
		mc.New(rc),
		batch.New(rc),
	)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("phoenix (dev)")
		},
	})

	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
