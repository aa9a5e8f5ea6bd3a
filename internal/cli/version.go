package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/dlf/pkg/dlf"
)

const modulePath = "github.com/mesh-intelligence/dlf"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the dlfctl version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "dlfctl v%s\nmodule: %s\n", dlf.Version, modulePath)
			return nil
		},
	}
}
