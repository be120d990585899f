package dnsprovider

import (
	"context"
	"sync"

	"github.com/cloudflare/cloudflare-go"
	"github.com/sirupsen/logrus"

	"github.com/dnsweaver/dnsweaver/recon"
)

// Cloudflare encodes "use the zone default ttl" as a ttl of 1.
const cloudflareAutoTTL = 1

// CloudflareProvider binds the transport port to the Cloudflare API. A
// single instance is shared across domain workers, so the zone cache is
// guarded by a mutex.
type CloudflareProvider struct {
	mu        sync.Mutex
	zoneCache map[string]string
	cfApi     *cloudflare.API
	logger    *logrus.Entry
}

var _ recon.Transport = (*CloudflareProvider)(nil)

func CreateCloudflareProvider(apiMail string, apiKey string) (*CloudflareProvider, error) {
	cfApi, err := cloudflare.New(apiKey, apiMail)
	if err != nil {
		return nil, err
	}

	return &CloudflareProvider{
		zoneCache: map[string]string{},
		cfApi:     cfApi,
		logger:    logrus.WithField("provider", "cloudflare"),
	}, nil
}

func (c *CloudflareProvider) getZoneId(domain string) (string, error) {
	c.mu.Lock()
	z, ok := c.zoneCache[domain]
	c.mu.Unlock()
	if ok {
		return z, nil
	}

	z, err := c.cfApi.ZoneIDByName(domain)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.zoneCache[domain] = z
	c.mu.Unlock()
	return z, nil
}

func toRecord(domain string, cfRecord cloudflare.DNSRecord) recon.Record {
	ttl := cfRecord.TTL
	if ttl == cloudflareAutoTTL {
		ttl = 0
	}
	return recon.Record{
		RemoteID: cfRecord.ID,
		Label:    recon.LabelFromFQDN(cfRecord.Name, domain),
		Type:     cfRecord.Type,
		Content:  cfRecord.Content,
		TTL:      ttl,
		Prio:     cfRecord.Priority,
	}
}

func toCloudflareRecord(domain string, rec recon.Record) cloudflare.DNSRecord {
	ttl := rec.TTL
	if ttl == 0 {
		ttl = cloudflareAutoTTL
	}
	return cloudflare.DNSRecord{
		Type:     rec.Type,
		Name:     rec.FQDN(domain),
		Content:  rec.Content,
		TTL:      ttl,
		Priority: rec.Prio,
		Proxied:  false,
	}
}

func (c *CloudflareProvider) ListRecords(ctx context.Context, domain string) ([]recon.Record, error) {
	l := c.logger.WithField("domain", domain)

	zoneId, err := c.getZoneId(domain)
	if err != nil {
		l.WithError(err).Warn("Failed to get zone for domain")
		return nil, err
	}

	cfRecords, err := c.cfApi.DNSRecords(zoneId, cloudflare.DNSRecord{})
	if err != nil {
		l.WithError(err).Warn("Failed to get dns entries")
		return nil, err
	}

	records := make([]recon.Record, 0, len(cfRecords))
	for _, cfRecord := range cfRecords {
		records = append(records, toRecord(domain, cfRecord))
	}

	return records, nil
}

func (c *CloudflareProvider) CreateRecord(ctx context.Context, domain string, rec recon.Record) (string, error) {
	zoneId, err := c.getZoneId(domain)
	if err != nil {
		return "", err
	}

	resp, err := c.cfApi.CreateDNSRecord(zoneId, toCloudflareRecord(domain, rec))
	if err != nil {
		return "", err
	}

	return resp.Result.ID, nil
}

func (c *CloudflareProvider) UpdateRecord(ctx context.Context, domain string, remoteID string, rec recon.Record) error {
	zoneId, err := c.getZoneId(domain)
	if err != nil {
		return err
	}
	return c.cfApi.UpdateDNSRecord(zoneId, remoteID, toCloudflareRecord(domain, rec))
}

func (c *CloudflareProvider) DeleteRecord(ctx context.Context, domain string, remoteID string) error {
	zoneId, err := c.getZoneId(domain)
	if err != nil {
		return err
	}
	return c.cfApi.DeleteDNSRecord(zoneId, remoteID)
}
