package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/and161185/hashpass/internal/errs"
	"github.com/and161185/hashpass/internal/model"
)

func newTagCmd(a *app) *cobra.Command {
	var profileID int64
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Inspect and edit per-tag password settings",
	}
	cmd.PersistentFlags().Int64VarP(&profileID, "profile", "p", model.NoID, "profile id (default: last used)")
	cmd.AddCommand(
		newTagListCmd(a, &profileID),
		newTagShowCmd(a, &profileID),
		newTagSetCmd(a, &profileID),
		newTagDeleteCmd(a, &profileID),
	)
	return cmd
}

func newTagListCmd(a *app, profileID *int64) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored tags of a profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.profile(cmd.Context(), *profileID)
			if err != nil {
				return err
			}
			list, err := a.tags.ListTags(cmd.Context(), p.ID)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(a.term.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TAG\tLENGTH\tTYPE")
			for _, t := range list {
				fmt.Fprintf(w, "%s\t%d\t%s\n", t.Name, t.PasswordLength, t.PasswordType)
			}
			return w.Flush()
		},
	}
}

func newTagShowCmd(a *app, profileID *int64) *cobra.Command {
	return &cobra.Command{
		Use:   "show <tag>",
		Short: "Show the settings a tag would use",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.profile(cmd.Context(), *profileID)
			if err != nil {
				return err
			}
			t, err := a.tags.ResolveTag(cmd.Context(), p.ID, args[0])
			if err != nil {
				return err
			}
			origin := "stored"
			if !t.Persisted() {
				origin = "profile default"
			}
			fmt.Fprintf(a.term.out, "%s: %d %s (%s)\n", t.Name, t.PasswordLength, t.PasswordType, origin)
			return nil
		},
	}
}

func newTagSetCmd(a *app, profileID *int64) *cobra.Command {
	var (
		length int
		typ    string
	)
	cmd := &cobra.Command{
		Use:   "set <tag>",
		Short: "Override length or type of a tag",
		Long:  "Override length or type of a tag. This changes the password computed for it.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := a.profile(ctx, *profileID)
			if err != nil {
				return err
			}
			cur, err := a.tags.ResolveTag(ctx, p.ID, args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("length") {
				cur.PasswordLength = length
			}
			if cmd.Flags().Changed("type") {
				if cur.PasswordType, err = parseType(typ); err != nil {
					return err
				}
			}
			t, err := a.tags.SaveTagSettings(ctx, p.ID, cur.Name, cur.PasswordLength, cur.PasswordType)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.term.out, "%s: %d %s\n", t.Name, t.PasswordLength, t.PasswordType)
			return nil
		},
	}
	cmd.Flags().IntVarP(&length, "length", "l", 0, "password length")
	cmd.Flags().StringVarP(&typ, "type", "t", "", "password type")
	return cmd
}

func newTagDeleteCmd(a *app, profileID *int64) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <tag>",
		Short: "Forget a tag's stored settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := a.profile(ctx, *profileID)
			if err != nil {
				return err
			}
			t, err := a.tags.ResolveTag(ctx, p.ID, args[0])
			if err != nil {
				return err
			}
			if !t.Persisted() {
				return fmt.Errorf("tag %q: %w", t.Name, errs.ErrNotFound)
			}
			if err := a.tags.DeleteTag(ctx, t.ID); err != nil {
				return err
			}
			fmt.Fprintf(a.term.out, "deleted tag %q\n", t.Name)
			return nil
		},
	}
}
