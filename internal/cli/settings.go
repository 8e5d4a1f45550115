package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/petar-djukic/cabplanner/internal/settings"
	"github.com/petar-djukic/cabplanner/pkg/types"
)

func newSettingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Read and write application settings",
	}
	cmd.AddCommand(
		newSettingsListCmd(a),
		newSettingsGetCmd(a),
		newSettingsSetCmd(a),
		newSettingsDeleteCmd(a),
		newSettingsViewModeCmd(a),
		newSettingsSelectedTabCmd(a),
	)
	return cmd
}

func newSettingsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all settings",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.settings()
			if err != nil {
				return err
			}
			list, err := svc.List(cmd.Context())
			if err != nil {
				return err
			}
			return a.output(list, func() error {
				rows := make([][]string, len(list))
				for i, st := range list {
					rows[i] = []string{st.Key, st.Value, st.ValueType}
				}
				return a.printTable([]string{"KEY", "VALUE", "TYPE"}, rows)
			})
		},
	}
}

func newSettingsGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print the value of a setting",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.settings()
			if err != nil {
				return err
			}
			v, err := svc.Get(cmd.Context(), args[0], nil)
			if err != nil {
				return err
			}
			if v == nil {
				return userError(fmt.Errorf("setting %s: %w", args[0], types.ErrNotFound))
			}
			return a.output(map[string]any{"key": args[0], "value": v}, func() error {
				fmt.Fprintln(a.out, v)
				return nil
			})
		},
	}
}

func newSettingsSetCmd(a *app) *cobra.Command {
	var valueType string
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store a setting",
		Long: "Store a setting. Without --type the value type is inferred:\n" +
			"true/false are bools, whole numbers are ints, decimals are floats.",
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.settings()
			if err != nil {
				return err
			}
			var st *types.Setting
			if valueType != "" {
				st, err = svc.SetTyped(cmd.Context(), args[0], args[1], valueType)
			} else {
				st, err = svc.Set(cmd.Context(), args[0], settings.ParseValue(args[1]))
			}
			if err != nil {
				return err
			}
			return a.output(st, func() error {
				fmt.Fprintf(a.out, "%s = %s (%s)\n", st.Key, st.Value, st.ValueType)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&valueType, "type", "", "bool, int, float or str")
	return cmd
}

func newSettingsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>",
		Short: "Remove a setting",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.settings()
			if err != nil {
				return err
			}
			if err := svc.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			return a.output(map[string]string{"deleted": args[0]}, func() error {
				fmt.Fprintf(a.out, "Deleted setting %s\n", args[0])
				return nil
			})
		},
	}
}

func newSettingsViewModeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "view-mode [cards|table]",
		Short: "Show or set the cabinet list view mode",
		Args:  rangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.settings()
			if err != nil {
				return err
			}
			ui := settings.NewUIState(svc)
			if len(args) == 1 {
				if err := ui.SetViewMode(cmd.Context(), args[0]); err != nil {
					return err
				}
			}
			mode, err := ui.ViewMode(cmd.Context())
			if err != nil {
				return err
			}
			return a.output(map[string]string{"view_mode": mode}, func() error {
				fmt.Fprintln(a.out, mode)
				return nil
			})
		},
	}
}

func newSettingsSelectedTabCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "selected-tab [index]",
		Short: "Show or set the selected project details tab",
		Args:  rangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.settings()
			if err != nil {
				return err
			}
			ui := settings.NewUIState(svc)
			if len(args) == 1 {
				tab, err := parseInt(args[0], "tab")
				if err != nil {
					return err
				}
				if err := ui.SetSelectedTab(cmd.Context(), tab); err != nil {
					return err
				}
			}
			tab, err := ui.SelectedTab(cmd.Context())
			if err != nil {
				return err
			}
			return a.output(map[string]int{"selected_tab": tab}, func() error {
				fmt.Fprintln(a.out, tab)
				return nil
			})
		},
	}
}
