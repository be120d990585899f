package dnsprovider

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/dnsweaver/dnsweaver/recon"
)

// errReadOnly guards the mutating half of the transport. The local file
// provider only ever feeds dry runs, so a mutation reaching it is a bug.
var errReadOnly = errors.New("local snapshot is read-only")

// LocalFileProvider serves the observed record set from a snapshot file
// instead of a live API, for offline diffing against the declared state.
// The file format is the one the backup writer produces.
type LocalFileProvider struct {
	path   string
	logger *logrus.Entry
}

var _ recon.Transport = (*LocalFileProvider)(nil)

func CreateLocalFileProvider(path string) *LocalFileProvider {
	return &LocalFileProvider{
		path:   path,
		logger: logrus.WithField("provider", "local-file"),
	}
}

func (p *LocalFileProvider) ListRecords(ctx context.Context, domain string) ([]recon.Record, error) {
	records, err := recon.ReadBackup(p.path, domain)
	if err != nil {
		p.logger.WithField("domain", domain).WithError(err).Warn("Failed to read the snapshot file")
		return nil, err
	}
	return records, nil
}

func (p *LocalFileProvider) CreateRecord(ctx context.Context, domain string, rec recon.Record) (string, error) {
	return "", errReadOnly
}

func (p *LocalFileProvider) UpdateRecord(ctx context.Context, domain string, remoteID string, rec recon.Record) error {
	return errReadOnly
}

func (p *LocalFileProvider) DeleteRecord(ctx context.Context, domain string, remoteID string) error {
	return errReadOnly
}
