package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hashpass",
		Short: "Derive reproducible per-site passwords from a master key.",
		Long: `hashpass computes a distinct password for every (profile, tag) pair from a
master key you type, a private key stored per profile and a tag such as a site name.
Nothing but the profile and tag settings is stored.`,
		Version:       version,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/hashpass/hashpass.yaml)")
	pf.String("db-type", "", `settings store type ("sqlite" or "postgres")`)
	pf.String("db-dsn", "", "settings store DSN (sqlite file path or postgres URL)")
	pf.String("log-level", "", `log level ("debug", "info", "warn", "error")`)

	cmd.AddCommand(
		newHashCmd(a),
		newProfileCmd(a),
		newTagCmd(a),
		newShellCmd(a),
		newVersionCmd(),
	)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// no store needed
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hashpass %s (built %s)\n", version, buildDate)
		},
	}
}
