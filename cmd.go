package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configDir string
	debug     bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "dnsweaver",
		Short:         "Reconcile declaratively configured DNS records with the records held by the provider",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flags.debug {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.configDir, "config-dir", "c", "", "directory holding the per-domain DNS configuration files")
	cmd.PersistentFlags().BoolVarP(&flags.debug, "debug", "d", false, "enable debug logging")

	cmd.AddCommand(newSyncCmd(flags))
	cmd.AddCommand(newDumpCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
