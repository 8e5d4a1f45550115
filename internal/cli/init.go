package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize cabplanner storage",
		Long: "Create the configuration and data directories, apply the schema and\n" +
			"seed formula constants, system colors and the built-in catalog.",
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}
			cfg := s.Config()
			info := map[string]string{"backend": cfg.Backend, "data_dir": cfg.DataDir}
			return a.output(info, func() error {
				fmt.Fprintf(a.out, "Cabplanner initialized (%s, %s)\n", cfg.Backend, cfg.DataDir)
				return nil
			})
		},
	}
}
