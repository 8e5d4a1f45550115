package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/petar-djukic/cabplanner/internal/paths"
	"github.com/petar-djukic/cabplanner/internal/report"
)

func newReportCmd(a *app) *cobra.Command {
	var format, outDir string
	cmd := &cobra.Command{
		Use:   "report <project-id>",
		Short: "Write the cut list of a project",
		Long: fmt.Sprintf("Write the cut list of a project to projekt_<order>.<ext> in the output\n"+
			"directory. Formats: %v.", report.Formats()),
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") {
				if f := a.configString(cfgKeyReportFormat); f != "" {
					format = f
				}
			}
			dir, err := paths.ResolveOutputDir(outDir, a.configString(cfgKeyReportDir))
			if err != nil {
				return sysError(fmt.Errorf("resolve output dir: %w", err))
			}
			ctl, _, err := a.controller()
			if err != nil {
				return err
			}
			path, n := ctl.ExportReport(cmd.Context(), args[0], format, dir)
			var result any
			if path != "" {
				result = map[string]string{"path": path, "format": format}
			}
			return a.printNotice(n, result)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", report.FormatText, "report format")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory")
	return cmd
}
