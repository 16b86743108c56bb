// Package commands implements the structql CLI commands.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/structql/structql/cli/internal/config"
	"github.com/structql/structql/cli/internal/ui"
	"github.com/structql/structql/internal/debug"
)

var (
	cfg       *config.Config
	debugFlag bool
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "structql",
		Short: "Inspect structql models and the SQL derived from them",
		Long: `structql is the companion tool of the structql ORM.

It operates on the model descriptors registered in the process: list them,
or dump the CREATE TABLE statements they imply for a given provider.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return err
			}
			debug.Init(debugFlag || cfg.Debug)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")

	cmd.AddCommand(newInitCommand())
	cmd.AddCommand(newModelsCommand())
	cmd.AddCommand(newSQLCommand())
	cmd.AddCommand(newVersionCommand())

	return cmd
}

// Execute runs the CLI.
func Execute() error {
	if err := newRootCommand().Execute(); err != nil {
		ui.PrintError("%v", err)
		return err
	}
	return nil
}
