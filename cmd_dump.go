package main

import (
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dnsweaver/dnsweaver/recon"
)

func newDumpCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump [domain ...]",
		Short: "Read the remote records and print the equivalent declarative configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logrus.WithField("app", "dnsweaver")

			domains := args
			if len(domains) == 0 {
				if root.configDir == "" {
					return errors.New("no domains given, pass them as arguments or point -c at a config directory")
				}
				cfg, err := recon.LoadConfigDir(root.configDir, logger)
				if err != nil {
					return err
				}
				domains = cfg.Domains
			}

			provider, err := buildProvider(logger)
			if err != nil {
				return err
			}

			out, err := recon.Dump(cmd.Context(), provider, domains)
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	return cmd
}
