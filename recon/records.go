package recon

import (
	"fmt"
	"strings"
)

// Origin tags for a RecordSet.
const (
	OriginDesired  = "desired"
	OriginObserved = "observed"
)

// Labels with a special meaning relative to the domain apex.
const (
	LabelApex     = "."
	LabelWildcard = "*"
)

// Types whose prio field carries meaning. Everything else must leave prio at 0.
var priorityTypes = map[string]bool{
	"MX":  true,
	"SRV": true,
}

// Record is one DNS resource record, local or remote.
type Record struct {
	// RemoteID identifies the record instance at the provider and is only
	// set on observed records. Desired records never carry one.
	RemoteID string
	// Label is the ownership name relative to the domain apex.
	// "." is the apex itself, "*" the wildcard.
	Label   string
	Type    string
	Content string
	// TTL of 0 means "no opinion", the provider default applies.
	TTL  int
	Prio int
}

func (r Record) String() string {
	s := fmt.Sprintf("%s %s -> %s", r.Type, r.Label, r.Content)
	if r.TTL != 0 {
		s += fmt.Sprintf(" ttl=%d", r.TTL)
	}
	if r.Prio != 0 {
		s += fmt.Sprintf(" prio=%d", r.Prio)
	}
	return s
}

// FQDN returns the full ownership name of the record within a domain.
func (r Record) FQDN(domain string) string {
	switch r.Label {
	case LabelApex:
		return domain
	default:
		return fmt.Sprintf("%s.%s", r.Label, domain)
	}
}

// LabelFromFQDN converts a full ownership name back into a label relative
// to the domain apex.
func LabelFromFQDN(name string, domain string) string {
	name = strings.TrimSuffix(name, ".")
	if name == domain {
		return LabelApex
	}
	return strings.TrimSuffix(name, "."+domain)
}

// matchKey is the strong-match identity of a record. Two records with the
// same key are considered the same entity, differing at most in ttl or prio.
type matchKey struct {
	label   string
	typ     string
	content string
}

func (r Record) key() matchKey {
	return matchKey{label: r.Label, typ: r.Type, content: r.Content}
}

// needsUpdate reports whether a matched observed record has to be updated
// to converge to the desired record. A desired TTL of 0 is no opinion and
// never triggers an update on its own.
func (r Record) needsUpdate(observed Record) bool {
	if r.TTL != 0 && r.TTL != observed.TTL {
		return true
	}
	return r.Prio != observed.Prio
}

// InvalidRecordError marks a record that failed construction-time validation.
type InvalidRecordError struct {
	Record Record
	Reason string
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("invalid record '%s': %s", e.Record, e.Reason)
}

// Validate finds common errors in a single record definition.
func (r Record) Validate() error {
	if r.Label == "" {
		return &InvalidRecordError{Record: r, Reason: "missing label"}
	}
	if r.Type == "" {
		return &InvalidRecordError{Record: r, Reason: "missing type"}
	}
	if r.Content == "" {
		return &InvalidRecordError{Record: r, Reason: "missing content"}
	}
	if r.TTL < 0 {
		return &InvalidRecordError{Record: r, Reason: "ttl must not be negative"}
	}
	if r.Prio < 0 {
		return &InvalidRecordError{Record: r, Reason: "prio must not be negative"}
	}
	if r.Prio != 0 && !priorityTypes[r.Type] {
		return &InvalidRecordError{Record: r, Reason: fmt.Sprintf("prio is not supported for %s records", r.Type)}
	}
	return nil
}

// RecordSet is the full record collection of one domain. It is a multiset:
// several records sharing (label, type, content) are legal and matched
// one-for-one.
type RecordSet struct {
	Domain  string
	Origin  string
	Records []Record
}

// NewDesiredRecordSet builds the desired record set of a domain. Malformed
// records are excluded and reported; they do not poison the rest of the set.
func NewDesiredRecordSet(domain string, records []Record) (RecordSet, []error) {
	rs := RecordSet{Domain: domain, Origin: OriginDesired}
	var errs []error
	for _, rec := range records {
		if rec.RemoteID != "" {
			errs = append(errs, &InvalidRecordError{Record: rec, Reason: "desired records must not carry a remote id"})
			continue
		}
		if err := rec.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		rs.Records = append(rs.Records, rec)
	}
	return rs, errs
}

// NewObservedRecordSet wraps records fetched from the provider.
func NewObservedRecordSet(domain string, records []Record) RecordSet {
	return RecordSet{Domain: domain, Origin: OriginObserved, Records: records}
}
