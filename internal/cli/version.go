package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the cabplanner release.
const Version = "0.1.0"

const modulePath = "github.com/petar-djukic/cabplanner"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the cabplanner version",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "cabplanner v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
