package dnsprovider

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/cloudflare/cloudflare-go"
	"github.com/sirupsen/logrus"

	"github.com/dnsweaver/dnsweaver/recon"
)

func TestToRecord(t *testing.T) {
	tests := []struct {
		name     string
		cfRecord cloudflare.DNSRecord
		want     recon.Record
	}{
		{
			name:     "apex a record",
			cfRecord: cloudflare.DNSRecord{ID: "r1", Type: "A", Name: "example.com", Content: "1.1.1.1", TTL: 3600},
			want:     recon.Record{RemoteID: "r1", Label: ".", Type: "A", Content: "1.1.1.1", TTL: 3600},
		},
		{
			name:     "wildcard",
			cfRecord: cloudflare.DNSRecord{ID: "r2", Type: "CNAME", Name: "*.example.com", Content: "example.com", TTL: 300},
			want:     recon.Record{RemoteID: "r2", Label: "*", Type: "CNAME", Content: "example.com", TTL: 300},
		},
		{
			name:     "automatic ttl becomes no opinion",
			cfRecord: cloudflare.DNSRecord{ID: "r3", Type: "A", Name: "www.example.com", Content: "1.1.1.1", TTL: 1},
			want:     recon.Record{RemoteID: "r3", Label: "www", Type: "A", Content: "1.1.1.1", TTL: 0},
		},
		{
			name:     "mx priority",
			cfRecord: cloudflare.DNSRecord{ID: "r4", Type: "MX", Name: "example.com", Content: "mail.example.com", TTL: 300, Priority: 10},
			want:     recon.Record{RemoteID: "r4", Label: ".", Type: "MX", Content: "mail.example.com", TTL: 300, Prio: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := toRecord("example.com", tt.cfRecord); got != tt.want {
				t.Errorf("toRecord() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestToCloudflareRecord(t *testing.T) {
	rec := recon.Record{Label: "www", Type: "A", Content: "1.1.1.1", TTL: 300}
	cfRecord := toCloudflareRecord("example.com", rec)

	if cfRecord.Name != "www.example.com" {
		t.Errorf("expected fqdn www.example.com, got %q", cfRecord.Name)
	}
	if cfRecord.TTL != 300 {
		t.Errorf("expected ttl 300, got %d", cfRecord.TTL)
	}
	if cfRecord.Proxied {
		t.Error("records must not be proxied")
	}
}

func TestToCloudflareRecordNoTTLOpinion(t *testing.T) {
	rec := recon.Record{Label: ".", Type: "A", Content: "1.1.1.1"}
	cfRecord := toCloudflareRecord("example.com", rec)

	if cfRecord.TTL != cloudflareAutoTTL {
		t.Errorf("expected the automatic ttl %d, got %d", cloudflareAutoTTL, cfRecord.TTL)
	}
	if cfRecord.Name != "example.com" {
		t.Errorf("expected apex name, got %q", cfRecord.Name)
	}
}

// stubZoneServer serves the zone listing endpoint the way the Cloudflare
// API does, answering every zone name with a derived zone id.
func stubZoneServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"success":true,"errors":[],"messages":[],"result":[{"id":"zone-%s","name":"%s"}],"result_info":{"page":1,"per_page":50,"count":1,"total_count":1,"total_pages":1}}`, name, name)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func stubProvider(t *testing.T, baseURL string) *CloudflareProvider {
	t.Helper()
	cfApi, err := cloudflare.New("test-key", "test@example.com", cloudflare.UsingRateLimit(1000))
	if err != nil {
		t.Fatalf("building api client: %v", err)
	}
	cfApi.BaseURL = baseURL

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return &CloudflareProvider{
		zoneCache: map[string]string{},
		cfApi:     cfApi,
		logger:    logger.WithField("provider", "cloudflare"),
	}
}

func TestGetZoneIdConcurrent(t *testing.T) {
	srv := stubZoneServer(t)
	provider := stubProvider(t, srv.URL)

	domains := []string{"a.example", "b.example", "c.example", "d.example"}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			domain := domains[i%len(domains)]
			zoneId, err := provider.getZoneId(domain)
			if err != nil {
				t.Errorf("getZoneId(%q): %v", domain, err)
				return
			}
			if want := "zone-" + domain; zoneId != want {
				t.Errorf("getZoneId(%q) = %q, want %q", domain, zoneId, want)
			}
		}(i)
	}
	wg.Wait()

	for _, domain := range domains {
		if zoneId := provider.zoneCache[domain]; zoneId != "zone-"+domain {
			t.Errorf("zone cache for %q holds %q, want %q", domain, zoneId, "zone-"+domain)
		}
	}
}

func TestGetZoneIdCaches(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"success":true,"errors":[],"messages":[],"result":[{"id":"zone-1","name":"example.com"}],"result_info":{"page":1,"per_page":50,"count":1,"total_count":1,"total_pages":1}}`)
	}))
	defer srv.Close()
	provider := stubProvider(t, srv.URL)

	for i := 0; i < 3; i++ {
		zoneId, err := provider.getZoneId("example.com")
		if err != nil {
			t.Fatalf("getZoneId: %v", err)
		}
		if zoneId != "zone-1" {
			t.Fatalf("getZoneId = %q, want zone-1", zoneId)
		}
	}

	if hits != 1 {
		t.Errorf("expected a single zone lookup, got %d", hits)
	}
}
