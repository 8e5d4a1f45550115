package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newBackupCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or restore all data as JSONL files",
	}
	cmd.AddCommand(newBackupExportCmd(a), newBackupImportCmd(a))
	return cmd
}

func newBackupExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <dir>",
		Short: "Write one JSONL file per table into dir",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}
			if err := s.Export(cmd.Context(), args[0]); err != nil {
				return sysError(err)
			}
			return a.output(map[string]string{"exported": args[0]}, func() error {
				fmt.Fprintf(a.out, "Exported to %s\n", args[0])
				return nil
			})
		},
	}
}

func newBackupImportCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "import <dir>",
		Short: "Replace all data with the JSONL files in dir",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := os.Stat(args[0])
			if err != nil {
				return userError(err)
			}
			if !info.IsDir() {
				return userError(fmt.Errorf("%s is not a directory", args[0]))
			}
			s, err := a.open()
			if err != nil {
				return err
			}
			if err := a.confirmDelete(yes, "all current data and restore "+args[0]); err != nil {
				return err
			}
			if err := s.Import(cmd.Context(), args[0]); err != nil {
				return sysError(err)
			}
			return a.output(map[string]string{"imported": args[0]}, func() error {
				fmt.Fprintf(a.out, "Imported from %s\n", args[0])
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "replace without asking")
	return cmd
}
