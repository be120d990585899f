package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dnsweaver/dnsweaver/dnsprovider"
	"github.com/dnsweaver/dnsweaver/recon"
)

func newSyncCmd(root *rootFlags) *cobra.Command {
	var (
		dry            bool
		interactive    bool
		local          string
		ignoreTypes    []string
		preserveRemote bool
		workers        int
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Converge the remote records of every configured domain to the declared state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logrus.WithField("app", "dnsweaver")

			if root.configDir == "" {
				return errors.New("no config directory given, use -c")
			}

			mode := recon.ModeLive
			switch {
			case local != "":
				// A snapshot cannot be mutated, diffing against one is
				// always a dry run.
				mode = recon.ModeDry
				logger.WithField("snapshot", local).Info("Diffing against a local snapshot. No remote DNS records will be changed.")
			case dry:
				// Dry wins over interactive, nothing to confirm when
				// nothing is executed.
				mode = recon.ModeDry
				logger.Info("Dry-run mode activated. No remote DNS records will be changed.")
			case interactive:
				mode = recon.ModeInteractive
			}

			cfg, err := recon.LoadConfigDir(root.configDir, logger)
			if err != nil {
				return err
			}

			var provider recon.Transport
			if local != "" {
				provider = dnsprovider.CreateLocalFileProvider(local)
			} else {
				provider, err = buildProvider(logger)
				if err != nil {
					return err
				}
			}

			backupDir, err := recon.DefaultBackupDir()
			if err != nil {
				return err
			}

			global := recon.Policy{
				IgnoredTypes:   ignoreTypes,
				PreserveRemote: preserveRemote,
			}

			runner := recon.NewRunner(provider, recon.NewBackupDir(backupDir), cfg, recon.Options{
				Mode:    mode,
				Global:  global,
				Confirm: terminalConfirm,
				Workers: workers,
			}, logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			reports := runner.Run(ctx)
			if recon.AnyFailed(reports) {
				return errors.New("one or more domains had failed operations")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dry, "dry", false, "only report what would change, do not touch the remote records")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "ask for confirmation before every single operation, domains are processed one at a time")
	cmd.Flags().StringVar(&local, "local", "", "diff against a snapshot file instead of the remote API, implies --dry")
	cmd.Flags().StringSliceVar(&ignoreTypes, "ignore-types", recon.DefaultPolicy().IgnoredTypes, "record types excluded from comparison and deletion")
	cmd.Flags().BoolVar(&preserveRemote, "preserve-remote", false, "never delete remote records that are not configured locally")
	cmd.Flags().IntVar(&workers, "workers", 1, "how many domains to process concurrently")

	return cmd
}

var stdin = bufio.NewReader(os.Stdin)

// terminalConfirm asks for a single operation on the terminal. Anything but
// an explicit yes skips the operation.
func terminalConfirm(domain string, op recon.Operation) bool {
	fmt.Fprintf(os.Stderr, "[%s] %s - execute? [y/N] ", domain, op)

	line, err := stdin.ReadString('\n')
	if err != nil {
		return false
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
