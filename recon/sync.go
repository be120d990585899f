package recon

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// Options control a reconciliation run.
type Options struct {
	Mode Mode
	// Global is the run-wide policy, overridable per domain.
	Global Policy
	// Confirm is consulted per operation in interactive mode.
	Confirm ConfirmFunc
	// Workers bounds how many domains are processed concurrently.
	// Domains share no state, correctness does not depend on this.
	// Interactive mode always runs with a single worker.
	Workers int
}

// Runner reconciles every configured domain against the remote provider.
type Runner struct {
	transport Transport
	backups   BackupWriter
	config    *Config
	opts      Options
	logger    *logrus.Entry
}

func NewRunner(transport Transport, backups BackupWriter, config *Config, opts Options, logger *logrus.Entry) *Runner {
	return &Runner{
		transport: transport,
		backups:   backups,
		config:    config,
		opts:      opts,
		logger:    logger,
	}
}

// SyncDomain reconciles a single domain: fetch the observed records, resolve
// the effective policy, diff, apply. Configuration and validation problems
// surface before any remote mutation is attempted.
func (r *Runner) SyncDomain(ctx context.Context, domain string) Report {
	logger := r.logger.WithField("domain", domain)

	dc, ok := r.config.ByDomain[domain]
	if !ok {
		return Report{Domain: domain, Err: fmt.Errorf("domain %q is not configured", domain)}
	}

	desired, recordErrs := NewDesiredRecordSet(domain, r.config.DesiredRecords(domain))
	for _, err := range recordErrs {
		logger.WithError(err).Warn("Excluding malformed record from the desired state")
	}

	policy := Resolve(r.opts.Global, dc.Policy)

	remoteRecords, err := r.transport.ListRecords(ctx, domain)
	if err != nil {
		logger.WithError(err).Error("Failed to fetch the remote records")
		return Report{Domain: domain, Err: fmt.Errorf("listing records: %w", err)}
	}
	observed := NewObservedRecordSet(domain, remoteRecords)

	diff := Diff(desired, observed, policy)
	logger.
		WithField("creates", len(diff.Creates)).
		WithField("updates", len(diff.Updates)).
		WithField("deletes", len(diff.Deletes)).
		Info("Calculated Diff")

	executor := NewExecutor(r.transport, r.backups, r.opts.Mode, r.opts.Confirm, r.logger)
	report := executor.Apply(ctx, diff, observed)

	logger.
		WithField("created", report.Stats.Created).
		WithField("updated", report.Stats.Updated).
		WithField("deleted", report.Stats.Deleted).
		WithField("declined", report.Stats.Declined).
		WithField("failed", report.Stats.Failed).
		Info("Domain processed")

	return report
}

// Run processes every configured domain. A failure in one domain never
// blocks another, the reports come back in configuration order.
func (r *Runner) Run(ctx context.Context) []Report {
	domains := r.config.Domains
	reports := make([]Report, len(domains))

	workers := r.opts.Workers
	if workers < 1 {
		workers = 1
	}
	if r.opts.Mode == ModeInteractive && workers > 1 {
		// Concurrent domains would interleave their prompts on the one
		// terminal and answers could land on the wrong operation.
		r.logger.Warn("Interactive mode processes domains one at a time, ignoring the worker count")
		workers = 1
	}
	sem := make(chan struct{}, workers)

	var wg sync.WaitGroup
	for i, domain := range domains {
		wg.Add(1)
		go func(i int, domain string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			reports[i] = r.SyncDomain(ctx, domain)
		}(i, domain)
	}
	wg.Wait()

	return reports
}

// AnyFailed reports whether any domain had a failed operation or could not
// be processed.
func AnyFailed(reports []Report) bool {
	for _, report := range reports {
		if report.Failed() {
			return true
		}
	}
	return false
}
