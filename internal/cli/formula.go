package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/petar-djukic/cabplanner/internal/formula"
	"github.com/petar-djukic/cabplanner/pkg/types"
)

func newFormulaCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "formula",
		Short: "Compute cabinet parts from dimensions",
	}
	cmd.AddCommand(newFormulaComputeCmd(a), newFormulaPlanCmd(a))
	return cmd
}

func newFormulaComputeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compute <kind> <width> <height> <depth>",
		Short: "Compute the parts of a lower, upper or drawer cabinet",
		Args:  exactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			dims := make([]int, 3)
			for i, what := range []string{"width", "height", "depth"} {
				n, err := parseInt(args[i+1], what)
				if err != nil {
					return err
				}
				dims[i] = n
			}
			s, err := a.open()
			if err != nil {
				return err
			}
			parts, err := formula.NewEngine(s).CalculateCabinetParts(cmd.Context(), args[0], dims[0], dims[1], dims[2])
			if err != nil {
				return err
			}
			return a.output(parts, func() error { return a.printParts(parts) })
		},
	}
}

func newFormulaPlanCmd(a *app) *cobra.Command {
	var width, height, depth int
	cmd := &cobra.Command{
		Use:   "plan <template>",
		Short: "Plan the parts of a custom cabinet template",
		Long: "Plan the parts of a custom cabinet template such as \"D60\" or\n" +
			"\"G40 szkło\". Missing dimensions default from the template and the\n" +
			"formula constants. The configured formula script is applied.",
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}
			p, err := a.planner(s)
			if err != nil {
				return err
			}
			fl := cmd.Flags()
			w, h, d := ptrInt(width, fl.Changed("width")), ptrInt(height, fl.Changed("height")), ptrInt(depth, fl.Changed("depth"))
			parts, err := p.ComputeParts(cmd.Context(), args[0], w, h, d)
			if err != nil {
				return err
			}
			var warnings []string
			if w != nil && h != nil && d != nil {
				if warnings, err = p.ValidateDimensions(cmd.Context(), *w, *h, *d); err != nil {
					return err
				}
			}
			out := struct {
				Template string           `json:"template"`
				Category string           `json:"category"`
				Parts    []types.PartPlan `json:"parts"`
				Warnings []string         `json:"warnings,omitempty"`
			}{args[0], formula.DetectCategory(args[0]), parts, warnings}
			return a.output(out, func() error {
				for _, msg := range warnings {
					fmt.Fprintln(a.errOut, "warning:", msg)
				}
				fmt.Fprintf(a.out, "%s (%s)\n\n", out.Template, out.Category)
				return a.printParts(parts)
			})
		},
	}
	cmd.Flags().IntVar(&width, "width", 0, "width in mm")
	cmd.Flags().IntVar(&height, "height", 0, "height in mm")
	cmd.Flags().IntVar(&depth, "depth", 0, "depth in mm")
	return cmd
}
