package recon

import (
	"context"
	"fmt"
	"sync"
)

// mockTransport is a test double for the remote provider API.
type mockTransport struct {
	mu sync.Mutex

	listFunc   func(ctx context.Context, domain string) ([]Record, error)
	createFunc func(ctx context.Context, domain string, rec Record) (string, error)
	updateFunc func(ctx context.Context, domain string, remoteID string, rec Record) error
	deleteFunc func(ctx context.Context, domain string, remoteID string) error

	calls []string
}

func (m *mockTransport) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *mockTransport) recorded() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *mockTransport) ListRecords(ctx context.Context, domain string) ([]Record, error) {
	m.record("list " + domain)
	if m.listFunc != nil {
		return m.listFunc(ctx, domain)
	}
	return nil, nil
}

func (m *mockTransport) CreateRecord(ctx context.Context, domain string, rec Record) (string, error) {
	m.record(fmt.Sprintf("create %s %s", rec.Type, rec.FQDN(domain)))
	if m.createFunc != nil {
		return m.createFunc(ctx, domain, rec)
	}
	return "new-id", nil
}

func (m *mockTransport) UpdateRecord(ctx context.Context, domain string, remoteID string, rec Record) error {
	m.record("update " + remoteID)
	if m.updateFunc != nil {
		return m.updateFunc(ctx, domain, remoteID, rec)
	}
	return nil
}

func (m *mockTransport) DeleteRecord(ctx context.Context, domain string, remoteID string) error {
	m.record("delete " + remoteID)
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, domain, remoteID)
	}
	return nil
}

// mockBackup is a test double for the backup writer.
type mockBackup struct {
	mu      sync.Mutex
	domains []string
	onWrite func(domain string)
	err     error
}

func (m *mockBackup) WriteBackup(domain string, observed RecordSet) (string, error) {
	m.mu.Lock()
	m.domains = append(m.domains, domain)
	m.mu.Unlock()
	if m.onWrite != nil {
		m.onWrite(domain)
	}
	if m.err != nil {
		return "", m.err
	}
	return "/tmp/" + domain + ".json", nil
}

func (m *mockBackup) written() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.domains...)
}
