package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/and161185/hashpass/internal/model"
)

func newProfileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage profiles",
	}
	cmd.AddCommand(
		newProfileCreateCmd(a),
		newProfileListCmd(a),
		newProfileEditCmd(a),
		newProfileDeleteCmd(a),
		newProfileUseCmd(a),
	)
	return cmd
}

func newProfileCreateCmd(a *app) *cobra.Command {
	var (
		length int
		typ    string
	)
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a profile with a fresh private key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pl, pt := a.cfg.DefaultLength, a.cfg.DefaultType
			if cmd.Flags().Changed("length") {
				pl = length
			}
			if cmd.Flags().Changed("type") {
				t, err := parseType(typ)
				if err != nil {
					return err
				}
				pt = t
			}
			p, err := a.profiles.Create(cmd.Context(), args[0], pl, pt)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.term.out, "created profile %d %q (%d, %s)\n", p.ID, p.Name, p.DefaultPasswordLength, p.DefaultPasswordType)
			return nil
		},
	}
	cmd.Flags().IntVarP(&length, "length", "l", 0, "default password length")
	cmd.Flags().StringVarP(&typ, "type", "t", "", "default password type")
	return cmd
}

func newProfileListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := a.profiles.List(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(a.term.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "\tID\tNAME\tLENGTH\tTYPE")
			for _, p := range list {
				mark := ""
				if p.ID == a.cfg.LastProfile {
					mark = "*"
				}
				fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%s\n", mark, p.ID, p.Name, p.DefaultPasswordLength, p.DefaultPasswordType)
			}
			return w.Flush()
		},
	}
}

func newProfileEditCmd(a *app) *cobra.Command {
	var (
		name   string
		length int
		typ    string
	)
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a profile's name or defaults",
		Long:  "Change a profile's name or defaults. Tags already used keep their stored settings.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := a.profiles.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("name") {
				p.Name = name
			}
			if cmd.Flags().Changed("length") {
				p.DefaultPasswordLength = length
			}
			if cmd.Flags().Changed("type") {
				if p.DefaultPasswordType, err = parseType(typ); err != nil {
					return err
				}
			}
			p, err = a.profiles.Update(cmd.Context(), id, p.Name, p.DefaultPasswordLength, p.DefaultPasswordType)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.term.out, "updated profile %d %q (%d, %s)\n", p.ID, p.Name, p.DefaultPasswordLength, p.DefaultPasswordType)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "new name")
	cmd.Flags().IntVarP(&length, "length", "l", 0, "new default password length")
	cmd.Flags().StringVarP(&typ, "type", "t", "", "new default password type")
	return cmd
}

func newProfileDeleteCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a profile and all of its tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := a.profiles.Get(ctx, id)
			if err != nil {
				return err
			}
			if !yes {
				ok, err := a.term.confirm(fmt.Sprintf("Delete profile %q and its tags? Its passwords cannot be recovered", p.Name))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(a.term.errOut, "aborted")
					return nil
				}
			}
			if err := a.profiles.Delete(ctx, id); err != nil {
				return err
			}
			if a.cfg.LastProfile == id {
				a.remember(model.NoID)
			}
			fmt.Fprintf(a.term.out, "deleted profile %d\n", id)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newProfileUseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "use <id>",
		Short: "Make a profile the default for other commands",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := a.profiles.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			a.remember(p.ID)
			fmt.Fprintf(a.term.out, "using profile %d %q\n", p.ID, p.Name)
			return nil
		},
	}
}
