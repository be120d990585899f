package recon

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Mode selects how a plan is applied.
type Mode string

const (
	ModeLive        Mode = "live"
	ModeDry         Mode = "dry"
	ModeInteractive Mode = "interactive"
)

// OpKind is the kind of a single remote operation.
type OpKind string

const (
	OpDelete OpKind = "delete"
	OpUpdate OpKind = "update"
	OpCreate OpKind = "create"
)

// Operation is one planned remote change. Record carries the desired values
// for creates and updates, and the observed record for deletes. RemoteID is
// set for updates and deletes.
type Operation struct {
	Kind     OpKind
	Record   Record
	RemoteID string
}

func (o Operation) String() string {
	if o.RemoteID != "" {
		return fmt.Sprintf("%s %s (id=%s)", o.Kind, o.Record, o.RemoteID)
	}
	return fmt.Sprintf("%s %s", o.Kind, o.Record)
}

// OpStatus is the outcome of one operation.
type OpStatus string

const (
	StatusExecuted     OpStatus = "executed"
	StatusWouldExecute OpStatus = "would execute"
	StatusDeclined     OpStatus = "declined"
	StatusFailed       OpStatus = "failed"
)

// OperationOutcome records what happened to one planned operation.
type OperationOutcome struct {
	Operation Operation
	Status    OpStatus
	Err       error
}

// Stats counts the executed operations of one domain.
type Stats struct {
	Created  int
	Updated  int
	Deleted  int
	Declined int
	Failed   int
}

// Report is the result of applying one domain's plan.
type Report struct {
	Domain   string
	Outcomes []OperationOutcome
	Stats    Stats
	// Err is set when the domain could not be processed at all, e.g. the
	// remote records could not be fetched or the backup could not be
	// written. Per-operation failures land in Outcomes instead.
	Err error
}

// Failed reports whether anything went wrong for this domain.
func (r Report) Failed() bool {
	return r.Err != nil || r.Stats.Failed > 0
}

// ConfirmFunc asks for confirmation of a single operation in interactive
// mode. Returning false skips that operation only, the rest of the plan
// continues.
type ConfirmFunc func(domain string, op Operation) bool

// BackupWriter persists the pre-change observed record set of a domain.
type BackupWriter interface {
	WriteBackup(domain string, observed RecordSet) (string, error)
}

// Executor turns a DiffResult into remote operations. Deletes run first,
// then updates, then creates, so a content change at the same (label, type)
// never transiently duplicates a record at the provider.
type Executor struct {
	transport Transport
	backups   BackupWriter
	mode      Mode
	confirm   ConfirmFunc
	logger    *logrus.Entry
}

func NewExecutor(transport Transport, backups BackupWriter, mode Mode, confirm ConfirmFunc, logger *logrus.Entry) *Executor {
	return &Executor{
		transport: transport,
		backups:   backups,
		mode:      mode,
		confirm:   confirm,
		logger:    logger,
	}
}

// planOperations orders the diff into the fixed delete, update, create
// sequence. Updates with no ttl opinion keep the remote ttl.
func planOperations(diff DiffResult) []Operation {
	ops := make([]Operation, 0, len(diff.Deletes)+len(diff.Updates)+len(diff.Creates))
	for _, rec := range diff.Deletes {
		ops = append(ops, Operation{Kind: OpDelete, Record: rec, RemoteID: rec.RemoteID})
	}
	for _, up := range diff.Updates {
		rec := up.Desired
		if rec.TTL == 0 {
			rec.TTL = up.Observed.TTL
		}
		ops = append(ops, Operation{Kind: OpUpdate, Record: rec, RemoteID: up.Observed.RemoteID})
	}
	for _, rec := range diff.Creates {
		ops = append(ops, Operation{Kind: OpCreate, Record: rec})
	}
	return ops
}

// Apply executes the plan of one domain. Every operation is independent, a
// failing one is recorded and the remaining plan continues. Cancelling the
// context aborts the remainder of the plan.
func (e *Executor) Apply(ctx context.Context, diff DiffResult, observed RecordSet) Report {
	report := Report{Domain: diff.Domain}
	logger := e.logger.WithField("domain", diff.Domain)

	ops := planOperations(diff)
	if len(ops) == 0 {
		logger.Info("Remote records already match the configuration")
		return report
	}

	if e.mode != ModeDry {
		path, err := e.backups.WriteBackup(diff.Domain, observed)
		if err != nil {
			// Without a recoverable snapshot we must not touch the domain.
			logger.WithError(err).Error("Failed to write pre-change backup, not touching this domain")
			report.Err = fmt.Errorf("writing backup: %w", err)
			return report
		}
		logger.WithField("backup", path).Info("Saved pre-change snapshot of the remote records")
	}

	for _, op := range ops {
		if ctx.Err() != nil {
			report.Err = ctx.Err()
			break
		}
		outcome := e.executeOne(ctx, diff.Domain, op, logger)
		report.Outcomes = append(report.Outcomes, outcome)
		report.Stats.count(outcome)
	}

	return report
}

func (e *Executor) executeOne(ctx context.Context, domain string, op Operation, logger *logrus.Entry) OperationOutcome {
	opLogger := logger.WithField("op", op.String())

	switch e.mode {
	case ModeDry:
		opLogger.Info("Would execute")
		return OperationOutcome{Operation: op, Status: StatusWouldExecute}
	case ModeInteractive:
		if !e.confirm(domain, op) {
			opLogger.Info("Declined, skipping this operation")
			return OperationOutcome{Operation: op, Status: StatusDeclined}
		}
	}

	if err := e.dispatch(ctx, domain, op); err != nil {
		opLogger.WithError(err).Warn("Operation failed")
		return OperationOutcome{Operation: op, Status: StatusFailed, Err: err}
	}

	opLogger.Info("Executed")
	return OperationOutcome{Operation: op, Status: StatusExecuted}
}

func (e *Executor) dispatch(ctx context.Context, domain string, op Operation) error {
	switch op.Kind {
	case OpDelete:
		return e.transport.DeleteRecord(ctx, domain, op.RemoteID)
	case OpUpdate:
		return e.transport.UpdateRecord(ctx, domain, op.RemoteID, op.Record)
	case OpCreate:
		_, err := e.transport.CreateRecord(ctx, domain, op.Record)
		return err
	default:
		return fmt.Errorf("unknown operation kind %q", op.Kind)
	}
}

func (s *Stats) count(outcome OperationOutcome) {
	switch outcome.Status {
	case StatusDeclined:
		s.Declined++
	case StatusFailed:
		s.Failed++
	case StatusExecuted:
		switch outcome.Operation.Kind {
		case OpDelete:
			s.Deleted++
		case OpUpdate:
			s.Updated++
		case OpCreate:
			s.Created++
		}
	}
}
