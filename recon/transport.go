package recon

import "context"

// Transport is the remote nameserver API surface the engine needs. The
// engine never retries a failed call, retry policy belongs to the
// implementation behind this interface.
type Transport interface {
	ListRecords(ctx context.Context, domain string) ([]Record, error)
	CreateRecord(ctx context.Context, domain string, rec Record) (string, error)
	UpdateRecord(ctx context.Context, domain string, remoteID string, rec Record) error
	DeleteRecord(ctx context.Context, domain string, remoteID string) error
}
