package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/structql/structql/cli/internal/ui"
	"github.com/structql/structql/cli/internal/version"
)

func newVersionCommand() *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			info := version.Get()
			if full {
				fmt.Println(info.FullString())
				return
			}
			ui.GetColorPrinters()["info"].Println(info.String())
		},
	}

	cmd.Flags().BoolVar(&full, "full", false, "print build details")

	return cmd
}
