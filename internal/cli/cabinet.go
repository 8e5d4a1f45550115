package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/petar-djukic/cabplanner/internal/ordering"
	"github.com/petar-djukic/cabplanner/internal/project"
	"github.com/petar-djukic/cabplanner/internal/report"
	"github.com/petar-djukic/cabplanner/pkg/types"
)

func newCabinetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cabinet",
		Short: "Manage the cabinets of a project",
	}
	cmd.AddCommand(
		newCabinetAddCmd(a),
		newCabinetCustomCmd(a),
		newCabinetListCmd(a),
		newCabinetPartsCmd(a),
		newCabinetUpdateCmd(a),
		newCabinetQtyCmd(a),
		newCabinetSeqCmd(a),
		newCabinetMoveCmd(a),
		newCabinetSortCmd(a),
		newCabinetDuplicateCmd(a),
		newCabinetDeleteCmd(a),
		newCabinetAccessoryCmd(a),
	)
	return cmd
}

func registerFinish(cmd *cobra.Command, f *project.Finish) {
	cmd.Flags().StringVar(&f.BodyColor, "body", "", "body color")
	cmd.Flags().StringVar(&f.FrontColor, "front", "", "front color")
	cmd.Flags().StringVar(&f.HandleType, "handle", "", "handle type")
	cmd.Flags().IntVar(&f.Quantity, "qty", 1, "number of identical cabinets")
}

func parseInt(arg, what string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, userError(fmt.Errorf("%s must be a number: %q", what, arg))
	}
	return n, nil
}

// printCabinets writes the cabinet table of a project.
func (a *app) printCabinets(list []*types.Cabinet, typeNames map[string]string) error {
	rows := make([][]string, len(list))
	for i, c := range list {
		kind := "catalog"
		if c.IsCustom() {
			kind = "custom"
		}
		rows[i] = []string{
			strconv.Itoa(c.SequenceNumber), report.Label(c, typeNames[c.TypeID]), kind,
			strconv.Itoa(c.Quantity), c.BodyColor, c.FrontColor, c.HandleType, c.ID,
		}
	}
	if err := a.printTable([]string{"SEQ", "CABINET", "KIND", "QTY", "BODY", "FRONT", "HANDLE", "ID"}, rows); err != nil {
		return err
	}
	if msgs := ordering.ValidateUnique(list); len(msgs) > 0 {
		for _, m := range msgs {
			fmt.Fprintln(a.errOut, m)
		}
	}
	return nil
}

// resolveType finds a catalog type by ID or by name.
func (a *app) resolveType(cmd *cobra.Command, ref string) (*types.CabinetType, error) {
	s, err := a.open()
	if err != nil {
		return nil, err
	}
	ct, err := s.GetCabinetType(cmd.Context(), ref)
	if err == nil {
		return ct, nil
	}
	if !errors.Is(err, types.ErrNotFound) {
		return nil, err
	}
	return s.GetCabinetTypeByName(cmd.Context(), ref)
}

func newCabinetAddCmd(a *app) *cobra.Command {
	var f project.Finish
	cmd := &cobra.Command{
		Use:   "add <project-id> <type-id|type-name>",
		Short: "Place a catalog cabinet at the end of a project",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, _, err := a.controller()
			if err != nil {
				return err
			}
			ct, err := a.resolveType(cmd, args[1])
			if err != nil {
				return err
			}
			c, n := ctl.AddCatalogCabinet(cmd.Context(), args[0], ct.ID, f)
			return a.printNotice(n, c)
		},
	}
	registerFinish(cmd, &f)
	return cmd
}

func newCabinetCustomCmd(a *app) *cobra.Command {
	var (
		cc      project.CustomCabinet
		w, h, d int
		offset  float64
	)
	cmd := &cobra.Command{
		Use:   "custom <project-id> <template>",
		Short: "Place a custom cabinet computed from a template name such as D60 or G40S3",
		Long: "Place a custom cabinet. Parts are computed from the template name and the\n" +
			"formula constants and stored with the cabinet. Dimensions that are not\n" +
			"given default from the template.",
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, _, err := a.controller()
			if err != nil {
				return err
			}
			fl := cmd.Flags()
			cc.Name = args[1]
			cc.WidthMM = ptrInt(w, fl.Changed("width"))
			cc.HeightMM = ptrInt(h, fl.Changed("height"))
			cc.DepthMM = ptrInt(d, fl.Changed("depth"))
			if fl.Changed("offset") {
				cc.FormulaOffsetMM = types.Float(offset)
			}
			c, parts, n := ctl.AddCustomCabinet(cmd.Context(), args[0], cc)
			if n.Failed() || a.jsonMode {
				return a.printNotice(n, map[string]any{"cabinet": c, "parts": parts})
			}
			if err := a.printNotice(n, nil); err != nil {
				return err
			}
			return a.printParts(parts)
		},
	}
	registerFinish(cmd, &cc.Finish)
	cmd.Flags().IntVar(&w, "width", 0, "width in mm")
	cmd.Flags().IntVar(&h, "height", 0, "height in mm")
	cmd.Flags().IntVar(&d, "depth", 0, "depth in mm")
	cmd.Flags().Float64Var(&offset, "offset", 0, "formula offset in mm")
	return cmd
}

func (a *app) printParts(parts []types.PartPlan) error {
	rows := make([][]string, len(parts))
	for i, p := range parts {
		rows[i] = []string{p.PartName, strconv.Itoa(p.WidthMM), strconv.Itoa(p.HeightMM), strconv.Itoa(p.Pieces),
			p.Material, strconv.Itoa(p.ThicknessMM), p.Wrapping, p.Comments}
	}
	return a.printTable([]string{"PART", "WIDTH", "HEIGHT", "PCS", "MATERIAL", "THK", "WRAP", "COMMENTS"}, rows)
}

func newCabinetListCmd(a *app) *cobra.Command {
	var f ordering.Filter
	cmd := &cobra.Command{
		Use:   "list <project-id>",
		Short: "List the cabinets of a project in sequence order",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.projects()
			if err != nil {
				return err
			}
			if _, err := svc.GetProject(cmd.Context(), args[0]); err != nil {
				return err
			}
			list, err := svc.FilterCabinets(cmd.Context(), args[0], f)
			if err != nil {
				return err
			}
			names, err := svc.TypeNames(cmd.Context(), list)
			if err != nil {
				return err
			}
			return a.output(list, func() error {
				return a.printCabinets(list, names)
			})
		},
	}
	cmd.Flags().StringVar(&f.Search, "search", "", "match name, colors or handle")
	cmd.Flags().StringVar(&f.Type, "type", types.CabinetFilterAll, "all, standard or custom")
	cmd.Flags().StringVar(&f.Color, "color", "", "match body or front color")
	return cmd
}

func newCabinetPartsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "parts <cabinet-id>",
		Short: "List the cut parts of one cabinet",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.projects()
			if err != nil {
				return err
			}
			c, err := svc.GetCabinet(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			parts, err := svc.CabinetParts(cmd.Context(), c)
			if err != nil {
				return err
			}
			return a.output(parts, func() error {
				return a.printParts(parts)
			})
		},
	}
}

func newCabinetUpdateCmd(a *app) *cobra.Command {
	var f project.Finish
	cmd := &cobra.Command{
		Use:   "update <cabinet-id>",
		Short: "Change the colors or handle of a cabinet",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, svc, err := a.controller()
			if err != nil {
				return err
			}
			c, err := svc.GetCabinet(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fl := cmd.Flags()
			if fl.Changed("body") {
				c.BodyColor = f.BodyColor
			}
			if fl.Changed("front") {
				c.FrontColor = f.FrontColor
			}
			if fl.Changed("handle") {
				c.HandleType = f.HandleType
			}
			if fl.Changed("qty") {
				c.Quantity = f.Quantity
			}
			return a.printNotice(ctl.UpdateCabinet(cmd.Context(), c), c)
		},
	}
	registerFinish(cmd, &f)
	return cmd
}

func newCabinetQtyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "qty <cabinet-id> <quantity>",
		Short: "Set the number of identical cabinets",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseInt(args[1], "quantity")
			if err != nil {
				return err
			}
			ctl, _, err := a.controller()
			if err != nil {
				return err
			}
			c, nt := ctl.SetQuantity(cmd.Context(), args[0], n)
			return a.printNotice(nt, c)
		},
	}
}

func newCabinetSeqCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seq <cabinet-id> <sequence>",
		Short: "Give a cabinet a new sequence number",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			seq, err := parseInt(args[1], "sequence")
			if err != nil {
				return err
			}
			ctl, _, err := a.controller()
			if err != nil {
				return err
			}
			c, n := ctl.SetSequence(cmd.Context(), args[0], seq)
			return a.printNotice(n, c)
		},
	}
}

func newCabinetMoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "move <project-id> <from> <count> <to>",
		Short: "Move a block of cabinets and renumber the project",
		Long: "Move count cabinets starting at row from so they land before row to.\n" +
			"Rows are 1-based positions in sequence order; to may be one past the\n" +
			"last row to move the block to the end.",
		Args: exactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			var nums [3]int
			for i, what := range []string{"from", "count", "to"} {
				n, err := parseInt(args[i+1], what)
				if err != nil {
					return err
				}
				nums[i] = n
			}
			ctl, svc, err := a.controller()
			if err != nil {
				return err
			}
			list, n := ctl.Move(cmd.Context(), args[0], nums[0]-1, nums[1], nums[2]-1)
			if n.Failed() || a.jsonMode {
				return a.printNotice(n, list)
			}
			if err := a.printNotice(n, nil); err != nil {
				return err
			}
			names, err := svc.TypeNames(cmd.Context(), list)
			if err != nil {
				return err
			}
			return a.printCabinets(list, names)
		},
	}
}

func newCabinetSortCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sort <project-id>",
		Short: "Sort cabinets by sequence and renumber them 1..n",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, _, err := a.controller()
			if err != nil {
				return err
			}
			list, n := ctl.SortAndRenumber(cmd.Context(), args[0])
			return a.printNotice(n, list)
		},
	}
}

func newCabinetDuplicateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "duplicate <cabinet-id>",
		Short: "Copy a cabinet to the end of its project",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, _, err := a.controller()
			if err != nil {
				return err
			}
			c, n := ctl.Duplicate(cmd.Context(), args[0])
			return a.printNotice(n, c)
		},
	}
}

func newCabinetDeleteCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <cabinet-id>",
		Short: "Remove a cabinet from its project",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, _, err := a.controller()
			if err != nil {
				return err
			}
			if err := a.confirmDelete(yes, "cabinet "+args[0]); err != nil {
				return err
			}
			return a.printNotice(ctl.Delete(cmd.Context(), args[0]), nil)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without asking")
	return cmd
}

func newCabinetAccessoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accessory",
		Short: "Manage the hardware linked to a cabinet",
	}

	var name string
	add := &cobra.Command{
		Use:   "add <cabinet-id> <sku> <count>",
		Short: "Link count pieces of an accessory to a cabinet",
		Args:  exactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := parseInt(args[2], "count")
			if err != nil {
				return err
			}
			ctl, _, err := a.controller()
			if err != nil {
				return err
			}
			label := name
			if label == "" {
				label = args[1]
			}
			acc, n := ctl.LinkAccessory(cmd.Context(), args[0], label, args[1], count)
			return a.printNotice(n, acc)
		},
	}
	add.Flags().StringVar(&name, "name", "", "accessory name (default: the SKU)")

	remove := &cobra.Command{
		Use:   "remove <cabinet-id> <accessory-id>",
		Short: "Unlink an accessory from a cabinet",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, _, err := a.controller()
			if err != nil {
				return err
			}
			return a.printNotice(ctl.UnlinkAccessory(cmd.Context(), args[0], args[1]), nil)
		},
	}

	list := &cobra.Command{
		Use:   "list <cabinet-id>",
		Short: "List the accessories of a cabinet",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.projects()
			if err != nil {
				return err
			}
			links, err := svc.CabinetAccessories(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.output(links, func() error {
				rows := make([][]string, len(links))
				for i, l := range links {
					rows[i] = []string{l.SKU, l.Name, strconv.Itoa(l.Count), l.ID}
				}
				return a.printTable([]string{"SKU", "NAME", "COUNT", "ID"}, rows)
			})
		},
	}

	cmd.AddCommand(add, remove, list)
	return cmd
}
