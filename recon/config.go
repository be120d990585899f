package recon

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/sirupsen/logrus"
)

// RecordEntry is one record line of a declarative domain file.
type RecordEntry struct {
	Type    string `json:"type"`
	Content string `json:"content"`
	TTL     int    `json:"ttl,omitempty"`
	Prio    int    `json:"prio,omitempty"`
}

// DomainConfig is the per-domain block of a declarative config file: an
// optional policy override plus the records grouped by label. "." is the
// apex, "*" the wildcard, everything else a relative subdomain label.
type DomainConfig struct {
	Policy  *PolicyOverride          `json:"policy,omitempty"`
	Records map[string][]RecordEntry `json:"records"`
}

// Config is the desired state of every managed domain. Domains keeps the
// configuration order: config files lexically, domains within a file sorted.
type Config struct {
	Domains  []string
	ByDomain map[string]DomainConfig
}

// LoadConfigDir reads every .yaml/.yml file of a directory into one Config.
// Other files are skipped with a warning. A domain configured in more than
// one file is a fatal configuration error.
func LoadConfigDir(dir string, logger *logrus.Entry) (*Config, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading config dir %q: %w", dir, err)
	}

	cfg := &Config{ByDomain: map[string]DomainConfig{}}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			logger.WithField("file", name).Warn("Skipping file without .yaml/.yml extension")
			continue
		}

		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}

		var doc map[string]DomainConfig
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}

		names := make([]string, 0, len(doc))
		for domain := range doc {
			names = append(names, domain)
		}
		sort.Strings(names)

		for _, domain := range names {
			if _, dup := cfg.ByDomain[domain]; dup {
				return nil, fmt.Errorf("domain %q is configured more than once", domain)
			}
			cfg.ByDomain[domain] = doc[domain]
			cfg.Domains = append(cfg.Domains, domain)
		}
	}

	if len(cfg.Domains) == 0 {
		return nil, fmt.Errorf("no domain configuration found in %q", dir)
	}

	return cfg, nil
}

// DesiredRecords flattens the configured records of a domain. Labels are
// visited in sorted order, entries within a label in file order.
func (c *Config) DesiredRecords(domain string) []Record {
	dc, ok := c.ByDomain[domain]
	if !ok {
		return nil
	}

	labels := make([]string, 0, len(dc.Records))
	for label := range dc.Records {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var records []Record
	for _, label := range labels {
		for _, entry := range dc.Records[label] {
			records = append(records, Record{
				Label:   label,
				Type:    entry.Type,
				Content: entry.Content,
				TTL:     entry.TTL,
				Prio:    entry.Prio,
			})
		}
	}
	return records
}
