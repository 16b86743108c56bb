package commands

import (
	"github.com/spf13/cobra"

	"github.com/structql/structql/cli/internal/config"
	"github.com/structql/structql/cli/internal/ui"
)

func newInitCommand() *cobra.Command {
	var provider string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the configuration file with the chosen defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			if provider == "" {
				provider = cfg.Provider
			}
			if err := config.Save(&config.Config{Provider: provider, Debug: cfg.Debug}); err != nil {
				return err
			}
			ui.PrintSuccess("configuration written for provider %s", provider)
			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "default provider (postgresql, mysql, sqlite)")

	return cmd
}
