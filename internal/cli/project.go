package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/petar-djukic/cabplanner/internal/notice"
	"github.com/petar-djukic/cabplanner/pkg/types"
)

func newProjectCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage kitchen projects",
	}
	cmd.AddCommand(
		newProjectAddCmd(a),
		newProjectListCmd(a),
		newProjectShowCmd(a),
		newProjectUpdateCmd(a),
		newProjectClientCmd(a),
		newProjectStatusCmd(a),
		newProjectDeleteCmd(a),
	)
	return cmd
}

// projectFlags are the editable project fields.
type projectFlags struct {
	name, kitchen, order string
	blaty, cokoly, uwagi bool
	notes                string
}

func (f *projectFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "project name")
	cmd.Flags().StringVar(&f.kitchen, "kitchen", types.KitchenLoft, "kitchen type: LOFT, PARIS or WINO")
	cmd.Flags().StringVar(&f.order, "order", "", "order number")
	cmd.Flags().BoolVar(&f.blaty, "blaty", false, "countertops are part of the order")
	cmd.Flags().BoolVar(&f.cokoly, "cokoly", false, "plinths are part of the order")
	cmd.Flags().BoolVar(&f.uwagi, "uwagi", false, "the order has extra notes")
	cmd.Flags().StringVar(&f.notes, "notes", "", "notes printed with the report")
}

// apply copies the flags the user set onto p.
func (f *projectFlags) apply(cmd *cobra.Command, p *types.Project) {
	fl := cmd.Flags()
	if fl.Changed("name") {
		p.Name = f.name
	}
	if fl.Changed("kitchen") {
		p.KitchenType = f.kitchen
	}
	if fl.Changed("order") {
		p.OrderNumber = f.order
	}
	if fl.Changed("blaty") {
		p.Blaty = f.blaty
	}
	if fl.Changed("cokoly") {
		p.Cokoly = f.cokoly
	}
	if fl.Changed("uwagi") {
		p.Uwagi = f.uwagi
	}
	if fl.Changed("notes") {
		p.FlagNotes = f.notes
	}
}

func newProjectAddCmd(a *app) *cobra.Command {
	var f projectFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a project",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.projects()
			if err != nil {
				return err
			}
			p := &types.Project{KitchenType: f.kitchen}
			f.apply(cmd, p)
			if err := svc.CreateProject(cmd.Context(), p); err != nil {
				return err
			}
			return a.output(p, func() error {
				fmt.Fprintf(a.out, "Created project %s (%s)\n", p.ID, p.OrderNumber)
				return nil
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newProjectListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects, newest first",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.projects()
			if err != nil {
				return err
			}
			list, err := svc.ListProjects(cmd.Context())
			if err != nil {
				return err
			}
			return a.output(list, func() error {
				rows := make([][]string, len(list))
				for i, p := range list {
					rows[i] = []string{p.ID, p.OrderNumber, p.Name, p.KitchenType, p.Status, p.ClientName, p.CreatedAt.Format(time.DateOnly)}
				}
				return a.printTable([]string{"ID", "ORDER", "NAME", "KITCHEN", "STATUS", "CLIENT", "CREATED"}, rows)
			})
		},
	}
}

func newProjectShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show a project with its cabinets",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, _, err := a.controller()
			if err != nil {
				return err
			}
			view, n := ctl.LoadProject(cmd.Context(), args[0])
			if n.Failed() {
				return a.printNotice(n, nil)
			}
			return a.output(view, func() error {
				p := view.Project
				fmt.Fprintf(a.out, "Project:  %s\nOrder:    %s\nKitchen:  %s\nStatus:   %s\n", p.Name, p.OrderNumber, p.KitchenType, p.Status)
				c := p.Client()
				fmt.Fprintf(a.out, "Client:   %s\nAddress:  %s\nPhone:    %s\nEmail:    %s\n\n", c.Name, c.Address, c.Phone, c.Email)
				return a.printCabinets(view.Cabinets, view.TypeNames)
			})
		},
	}
}

func newProjectUpdateCmd(a *app) *cobra.Command {
	var f projectFlags
	cmd := &cobra.Command{
		Use:   "update <project-id>",
		Short: "Change project fields",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.projects()
			if err != nil {
				return err
			}
			p, err := svc.GetProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			f.apply(cmd, p)
			if err := svc.UpdateProject(cmd.Context(), p); err != nil {
				return err
			}
			return a.output(p, func() error {
				fmt.Fprintf(a.out, "Updated project %s\n", p.ID)
				return nil
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newProjectClientCmd(a *app) *cobra.Command {
	var c types.Client
	cmd := &cobra.Command{
		Use:   "client <project-id>",
		Short: "Save the client data of a project",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, svc, err := a.controller()
			if err != nil {
				return err
			}
			// Unset flags keep the stored values.
			cur, err := svc.GetProject(cmd.Context(), args[0])
			if err != nil {
				return a.printNotice(a.tr.Error(err, notice.ClientSaveFailed), nil)
			}
			merged := cur.Client()
			fl := cmd.Flags()
			if fl.Changed("name") {
				merged.Name = c.Name
			}
			if fl.Changed("address") {
				merged.Address = c.Address
			}
			if fl.Changed("phone") {
				merged.Phone = c.Phone
			}
			if fl.Changed("email") {
				merged.Email = c.Email
			}
			p, n := ctl.SaveClient(cmd.Context(), args[0], merged)
			return a.printNotice(n, p)
		},
	}
	cmd.Flags().StringVar(&c.Name, "name", "", "client name")
	cmd.Flags().StringVar(&c.Address, "address", "", "client address")
	cmd.Flags().StringVar(&c.Phone, "phone", "", "client phone")
	cmd.Flags().StringVar(&c.Email, "email", "", "client email")
	return cmd
}

func newProjectStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <project-id> <status>",
		Short: "Move a project to draft, in_progress, ordered, completed or archived",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.projects()
			if err != nil {
				return err
			}
			p, err := svc.SetStatus(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return a.output(p, func() error {
				fmt.Fprintf(a.out, "Project %s is %s\n", p.ID, p.Status)
				return nil
			})
		},
	}
}

func newProjectDeleteCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <project-id>",
		Short: "Delete a project with its cabinets",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.projects()
			if err != nil {
				return err
			}
			p, err := svc.GetProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := a.confirmDelete(yes, fmt.Sprintf("project %s (%s)", p.Name, p.OrderNumber)); err != nil {
				return err
			}
			if err := svc.DeleteProject(cmd.Context(), p.ID); err != nil {
				return err
			}
			return a.output(map[string]string{"deleted": p.ID}, func() error {
				fmt.Fprintf(a.out, "Deleted project %s\n", p.ID)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without asking")
	return cmd
}
