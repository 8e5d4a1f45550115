package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/petar-djukic/cabplanner/internal/catalog"
	"github.com/petar-djukic/cabplanner/pkg/types"
)

func newCatalogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage catalog cabinet types and their parts",
	}
	cmd.AddCommand(
		newCatalogListCmd(a),
		newCatalogShowCmd(a),
		newCatalogCreateCmd(a),
		newCatalogUpdateCmd(a),
		newCatalogDuplicateCmd(a),
		newCatalogDeleteCmd(a),
		newCatalogPartCmd(a),
		newCatalogImportCmd(a),
		newCatalogExportCmd(a),
	)
	return cmd
}

func newCatalogListCmd(a *app) *cobra.Command {
	var search, kitchen string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog types",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.catalog()
			if err != nil {
				return err
			}
			items, err := svc.List(cmd.Context(), search, kitchen)
			if err != nil {
				return err
			}
			return a.output(items, func() error {
				rows := make([][]string, len(items))
				for i, it := range items {
					rows[i] = []string{it.SKU, it.Name, it.KitchenType,
						fmt.Sprintf("%dx%dx%d", it.WidthMM, it.HeightMM, it.DepthMM), strconv.Itoa(it.PartCount), it.ID}
				}
				return a.printTable([]string{"SKU", "NAME", "KITCHEN", "WxHxD", "PARTS", "ID"}, rows)
			})
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "match name or SKU")
	cmd.Flags().StringVar(&kitchen, "kitchen", "", "only this kitchen type")
	return cmd
}

func newCatalogShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <type-id|type-name>",
		Short: "Show a catalog type with its parts",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.catalog()
			if err != nil {
				return err
			}
			ref, err := a.resolveType(cmd, args[0])
			if err != nil {
				return err
			}
			ct, parts, err := svc.Type(cmd.Context(), ref.ID)
			if err != nil {
				return err
			}
			out := struct {
				*types.CabinetType
				Parts []*types.CabinetPart `json:"parts"`
			}{ct, parts}
			return a.output(out, func() error {
				fmt.Fprintf(a.out, "%s (%s, #%d)\n\n", ct.Name, ct.KitchenType, ct.Number)
				rows := make([][]string, len(parts))
				for i, p := range parts {
					rows[i] = []string{p.PartName, strconv.Itoa(p.HeightMM), strconv.Itoa(p.WidthMM), strconv.Itoa(p.Pieces),
						p.Material, strconv.Itoa(p.ThicknessMM), p.Wrapping, p.Comments, p.ID}
				}
				return a.printTable([]string{"PART", "HEIGHT", "WIDTH", "PCS", "MATERIAL", "THK", "WRAP", "COMMENTS", "ID"}, rows)
			})
		},
	}
}

func newCatalogCreateCmd(a *app) *cobra.Command {
	var kitchen string
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an empty catalog type",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.catalog()
			if err != nil {
				return err
			}
			ct, err := svc.Create(cmd.Context(), args[0], kitchen)
			if err != nil {
				return err
			}
			return a.output(ct, func() error {
				fmt.Fprintf(a.out, "Created catalog type %s (%s)\n", ct.Name, ct.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&kitchen, "kitchen", types.KitchenLoft, "kitchen type")
	return cmd
}

func newCatalogUpdateCmd(a *app) *cobra.Command {
	var name, kitchen string
	cmd := &cobra.Command{
		Use:   "update <type-id>",
		Short: "Rename a catalog type or change its kitchen type",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.catalog()
			if err != nil {
				return err
			}
			ct, err := svc.Update(cmd.Context(), args[0], name, kitchen)
			if err != nil {
				return err
			}
			return a.output(ct, func() error {
				fmt.Fprintf(a.out, "Updated catalog type %s\n", ct.Name)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&kitchen, "kitchen", "", "new kitchen type")
	return cmd
}

func newCatalogDuplicateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "duplicate <type-id>",
		Short: "Copy a catalog type with its parts",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.catalog()
			if err != nil {
				return err
			}
			ct, err := svc.Duplicate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.output(ct, func() error {
				fmt.Fprintf(a.out, "Created catalog type %s (%s)\n", ct.Name, ct.ID)
				return nil
			})
		},
	}
}

func newCatalogDeleteCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <type-id>",
		Short: "Delete a catalog type with its parts",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.catalog()
			if err != nil {
				return err
			}
			item, err := svc.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := a.confirmDelete(yes, "catalog type "+item.Name); err != nil {
				return err
			}
			if err := svc.Delete(cmd.Context(), item.ID); err != nil {
				return err
			}
			return a.output(map[string]string{"deleted": item.ID}, func() error {
				fmt.Fprintf(a.out, "Deleted catalog type %s\n", item.Name)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without asking")
	return cmd
}

func newCatalogPartCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "part",
		Short: "Manage the parts of a catalog type",
	}

	var p types.CabinetPart
	add := &cobra.Command{
		Use:   "add <type-id> <part-name> <height> <width>",
		Short: "Add a part to a catalog type",
		Args:  exactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := parseInt(args[2], "height")
			if err != nil {
				return err
			}
			w, err := parseInt(args[3], "width")
			if err != nil {
				return err
			}
			svc, err := a.catalog()
			if err != nil {
				return err
			}
			part := p
			part.CabinetTypeID = args[0]
			part.PartName = args[1]
			part.HeightMM = h
			part.WidthMM = w
			if err := svc.AddPart(cmd.Context(), &part); err != nil {
				return err
			}
			return a.output(part, func() error {
				fmt.Fprintf(a.out, "Added part %s (%s)\n", part.PartName, part.ID)
				return nil
			})
		},
	}
	add.Flags().IntVar(&p.Pieces, "pieces", 1, "pieces per cabinet")
	add.Flags().StringVar(&p.Wrapping, "wrapping", "", "edge banding code")
	add.Flags().StringVar(&p.Material, "material", "", "PLYTA, FRONT, HDF or ALU (default: from the part name)")
	add.Flags().IntVar(&p.ThicknessMM, "thickness", 0, "board thickness in mm (default: from the part name)")
	add.Flags().StringVar(&p.Comments, "comments", "", "comments")

	del := &cobra.Command{
		Use:   "delete <part-id>",
		Short: "Remove a part",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.catalog()
			if err != nil {
				return err
			}
			if err := svc.DeletePart(cmd.Context(), args[0]); err != nil {
				return err
			}
			return a.output(map[string]string{"deleted": args[0]}, func() error {
				fmt.Fprintf(a.out, "Deleted part %s\n", args[0])
				return nil
			})
		},
	}

	cmd.AddCommand(add, del)
	return cmd
}

func newCatalogImportCmd(a *app) *cobra.Command {
	var (
		presets bool
		kitchen string
	)
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import catalog types from YAML or a preset parts sheet",
		Long: "Import catalog types. By default the file is the YAML written by\n" +
			"catalog export; types whose name exists are skipped. With --presets the\n" +
			"file is a plain-text parts sheet, one part per line.",
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.catalog()
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return userError(err)
			}
			defer f.Close()

			var res catalog.ImportResult
			if presets {
				res, err = svc.ImportPresets(cmd.Context(), f, kitchen)
			} else {
				res, err = svc.Import(cmd.Context(), f)
			}
			if err != nil {
				return err
			}
			return a.output(res, func() error {
				fmt.Fprintf(a.out, "Types created: %d\nParts added: %d\nSkipped: %d\n", res.TypesCreated, res.PartsAdded, res.Skipped)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&presets, "presets", false, "read a plain-text preset sheet")
	cmd.Flags().StringVar(&kitchen, "kitchen", types.KitchenLoft, "kitchen type of preset types")
	return cmd
}

func newCatalogExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write the catalog as YAML to a file or stdout",
		Args:  rangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.catalog()
			if err != nil {
				return err
			}
			var w io.Writer = a.out
			if len(args) == 1 {
				f, err := os.Create(args[0])
				if err != nil {
					return sysError(err)
				}
				defer f.Close()
				w = f
			}
			return svc.Export(cmd.Context(), w)
		},
	}
}
