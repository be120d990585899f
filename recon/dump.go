package recon

import (
	"context"
	"fmt"
	"sort"

	"github.com/ghodss/yaml"
)

// DumpDomain converts an observed record set into the declarative file
// shape, so the output can be used as configuration as-is. Remote ids are
// not part of the declarative format and are dropped.
func DumpDomain(observed RecordSet) DomainConfig {
	dc := DomainConfig{Records: map[string][]RecordEntry{}}
	for _, rec := range observed.Records {
		dc.Records[rec.Label] = append(dc.Records[rec.Label], RecordEntry{
			Type:    rec.Type,
			Content: rec.Content,
			TTL:     rec.TTL,
			Prio:    rec.Prio,
		})
	}
	for label := range dc.Records {
		entries := dc.Records[label]
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].Type != entries[j].Type {
				return entries[i].Type < entries[j].Type
			}
			if entries[i].Content != entries[j].Content {
				return entries[i].Content < entries[j].Content
			}
			return entries[i].Prio < entries[j].Prio
		})
	}
	return dc
}

// Dump fetches the remote records of the given domains and emits the
// equivalent declarative YAML document.
func Dump(ctx context.Context, transport Transport, domains []string) ([]byte, error) {
	doc := make(map[string]DomainConfig, len(domains))
	for _, domain := range domains {
		records, err := transport.ListRecords(ctx, domain)
		if err != nil {
			return nil, fmt.Errorf("listing records for %q: %w", domain, err)
		}
		doc[domain] = DumpDomain(NewObservedRecordSet(domain, records))
	}
	return yaml.Marshal(doc)
}
