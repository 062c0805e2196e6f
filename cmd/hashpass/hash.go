package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/and161185/hashpass/internal/model"
)

func newHashCmd(a *app) *cobra.Command {
	var (
		profileID int64
		copyOut   bool
	)
	cmd := &cobra.Command{
		Use:   "hash <tag>",
		Short: "Compute the password for a tag",
		Long: `Compute the password for a tag under a profile. The master key is read from
the terminal without echo. The first computation for a tag stores its length and type,
so later changes to the profile defaults do not change this password.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := a.profile(ctx, profileID)
			if err != nil {
				return err
			}
			key, err := a.term.readSecret(fmt.Sprintf("Master key for %q: ", p.Name))
			if err != nil {
				return err
			}
			if fp, err := a.gen.Fingerprint(ctx, p.ID, key); err == nil && fp != "" {
				fmt.Fprintf(a.term.errOut, "Fingerprint: %s\n", fp)
			}

			res, err := a.gen.Compute(ctx, p.ID, args[0], key)
			if err != nil {
				return err
			}
			a.remember(p.ID)

			if copyOut || a.cfg.CopyToClipboard {
				if err := a.term.clipboard(res.Password); err != nil {
					return fmt.Errorf("copy to clipboard: %w", err)
				}
				fmt.Fprintf(a.term.errOut, "Password for %q copied to clipboard (%d chars, %s)\n",
					res.Tag.Name, res.Tag.PasswordLength, res.Tag.PasswordType)
			} else {
				fmt.Fprintln(a.term.out, res.Password)
			}
			a.log.Debug("hash done", zap.Int64("profile_id", p.ID), zap.String("tag", res.Tag.Name))
			return nil
		},
	}
	cmd.Flags().Int64VarP(&profileID, "profile", "p", model.NoID, "profile id (default: last used)")
	cmd.Flags().BoolVarP(&copyOut, "copy", "c", false, "copy the password to the clipboard instead of printing it")
	return cmd
}
