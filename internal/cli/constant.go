package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/petar-djukic/cabplanner/internal/formula"
	"github.com/petar-djukic/cabplanner/pkg/types"
)

func newConstantCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "constant",
		Short: "Inspect and tune formula constants",
	}
	cmd.AddCommand(newConstantListCmd(a), newConstantGetCmd(a), newConstantSetCmd(a))
	return cmd
}

func newConstantListCmd(a *app) *cobra.Command {
	var group string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List formula constants",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}
			list, err := s.ListConstants(cmd.Context(), group)
			if err != nil {
				return err
			}
			return a.output(list, func() error {
				rows := make([][]string, len(list))
				for i, c := range list {
					rows[i] = []string{c.Key, formatFloat(c.Value), c.Type, c.Group, c.Description}
				}
				return a.printTable([]string{"KEY", "VALUE", "TYPE", "GROUP", "DESCRIPTION"}, rows)
			})
		},
	}
	cmd.Flags().StringVar(&group, "group", "", "only constants of this group")
	return cmd
}

func newConstantGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one constant",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}
			c, err := s.GetConstant(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.output(c, func() error {
				fmt.Fprintln(a.out, formatFloat(c.Value))
				return nil
			})
		},
	}
}

func newConstantSetCmd(a *app) *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a constant, creating it when missing",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return userError(fmt.Errorf("value must be a number: %q", args[1]))
			}
			s, err := a.open()
			if err != nil {
				return err
			}
			c := &types.FormulaConstant{Key: args[0], Value: v, Group: formula.GroupOf(args[0]), Description: description}
			// Keep the stored description unless a new one is given.
			if cur, err := s.GetConstant(cmd.Context(), args[0]); err == nil {
				c.Type = cur.Type
				if c.Description == "" {
					c.Description = cur.Description
				}
				if cur.Group != "" {
					c.Group = cur.Group
				}
			}
			if err := s.SetConstant(cmd.Context(), c); err != nil {
				return err
			}
			a.log.Info(cmd.Context(), "constant set", "key", c.Key, "value", c.Value)
			return a.output(c, func() error {
				fmt.Fprintf(a.out, "%s = %s\n", c.Key, formatFloat(c.Value))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "constant description")
	return cmd
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
