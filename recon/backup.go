package recon

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// wireRecord is the flat provider-style record shape backups are written in.
type wireRecord struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Content string `json:"content"`
	TTL     int    `json:"ttl"`
	Prio    int    `json:"prio"`
}

// BackupDir writes per-domain, per-run snapshots of the observed record set
// into a directory. The snapshot is the sole recovery mechanism, there is no
// automatic rollback.
type BackupDir struct {
	dir string
	now func() time.Time
}

func NewBackupDir(dir string) *BackupDir {
	return &BackupDir{dir: dir, now: time.Now}
}

// DefaultBackupDir returns the backup location inside the user cache dir.
func DefaultBackupDir() (string, error) {
	cache, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locating user cache dir: %w", err)
	}
	return filepath.Join(cache, "dnsweaver", "backups"), nil
}

// WriteBackup serializes the observed records of a domain into a timestamped
// JSON file and returns its path.
func (b *BackupDir) WriteBackup(domain string, observed RecordSet) (string, error) {
	entries := make([]wireRecord, 0, len(observed.Records))
	for _, rec := range observed.Records {
		entries = append(entries, wireRecord{
			ID:      rec.RemoteID,
			Name:    rec.FQDN(domain),
			Type:    rec.Type,
			Content: rec.Content,
			TTL:     rec.TTL,
			Prio:    rec.Prio,
		})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(b.dir, 0755); err != nil {
		return "", fmt.Errorf("creating backup dir %q: %w", b.dir, err)
	}

	name := fmt.Sprintf("%s-%s.json", domain, b.now().UTC().Format("20060102-150405"))
	path := filepath.Join(b.dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing backup %q: %w", path, err)
	}

	return path, nil
}

// ReadBackup parses a snapshot file back into records for a domain.
// Entries that do not belong to the domain are skipped, so a snapshot
// holding several domains only yields the requested one.
func ReadBackup(path string, domain string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %q: %w", path, err)
	}

	var entries []wireRecord
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing snapshot %q: %w", path, err)
	}

	records := make([]Record, 0, len(entries))
	for _, entry := range entries {
		name := strings.TrimSuffix(entry.Name, ".")
		if name != domain && !strings.HasSuffix(name, "."+domain) {
			continue
		}
		records = append(records, Record{
			RemoteID: entry.ID,
			Label:    LabelFromFQDN(entry.Name, domain),
			Type:     entry.Type,
			Content:  entry.Content,
			TTL:      entry.TTL,
			Prio:     entry.Prio,
		})
	}

	return records, nil
}
