package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newColorCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "color",
		Short: "Browse and extend the color palette",
	}
	cmd.AddCommand(
		newColorListCmd(a),
		newColorRecentCmd(a),
		newColorAddCmd(a),
		newColorResolveCmd(a),
		newColorUseCmd(a),
	)
	return cmd
}

func newColorListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the searchable colors with their hex codes",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, err := a.colors()
			if err != nil {
				return err
			}
			names, err := cs.ListSearchable(cmd.Context())
			if err != nil {
				return err
			}
			hex, err := cs.HexMap(cmd.Context())
			if err != nil {
				return err
			}
			type entry struct {
				Name string `json:"name"`
				Hex  string `json:"hex,omitempty"`
			}
			list := make([]entry, len(names))
			for i, n := range names {
				list[i] = entry{Name: n, Hex: hex[n]}
			}
			return a.output(list, func() error {
				rows := make([][]string, len(list))
				for i, e := range list {
					rows[i] = []string{e.Name, e.Hex}
				}
				return a.printTable([]string{"NAME", "HEX"}, rows)
			})
		},
	}
}

func newColorRecentCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recently used colors",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, err := a.colors()
			if err != nil {
				return err
			}
			names, err := cs.ListRecent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return a.output(names, func() error {
				for _, n := range names {
					fmt.Fprintln(a.out, n)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of colors")
	return cmd
}

func newColorAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <hex>",
		Short: "Add a user color",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, err := a.colors()
			if err != nil {
				return err
			}
			c, err := cs.AddUserColor(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return a.output(c, func() error {
				fmt.Fprintf(a.out, "Added color %s (%s)\n", c.Name, c.HexCode)
				return nil
			})
		},
	}
}

func newColorResolveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <name>",
		Short: "Print the hex code of a color name",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, err := a.colors()
			if err != nil {
				return err
			}
			hex, ok, err := cs.ResolveHex(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := map[string]any{"name": args[0], "hex": hex, "known": ok}
			return a.output(out, func() error {
				if !ok {
					return userError(fmt.Errorf("color %s has no hex code", strconv.Quote(args[0])))
				}
				fmt.Fprintln(a.out, hex)
				return nil
			})
		},
	}
}

func newColorUseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "use <name>",
		Short: "Record a use of a color, adding it when new",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, err := a.colors()
			if err != nil {
				return err
			}
			c, err := cs.MarkUsed(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.output(c, func() error {
				if c == nil {
					fmt.Fprintf(a.out, "Unknown color %s ignored\n", strconv.Quote(args[0]))
					return nil
				}
				fmt.Fprintf(a.out, "%s used %d times\n", c.Name, c.UsageCount)
				return nil
			})
		},
	}
}
