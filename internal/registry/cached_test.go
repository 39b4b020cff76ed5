package registry

import (
	"context"
	"testing"
	"time"

	"github.com/verityhealth/verity/internal/domain"
	"go.uber.org/zap"
)

func cachedTestRecord() domain.ProviderRecord {
	return domain.ProviderRecord{
		Identifier: "1487000001",
		Name:       "Dr. Ananya Sharma",
		Address:    "12, MG Road, Bengaluru, Karnataka 560001",
	}
}

func TestCachedClient_FreshHitDowngradesToCachedValid(t *testing.T) {
	next := NewMockClient()
	c := NewCachedClient(next, time.Hour, 24*time.Hour, zap.NewNop())
	ctx := context.Background()
	rec := cachedTestRecord()

	first, err := c.Lookup(ctx, rec)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if first.Provenance != domain.ProvenanceLiveAPI {
		t.Fatalf("expected LIVE_API on miss, got %s", first.Provenance)
	}

	second, err := c.Lookup(ctx, rec)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if second.Provenance != domain.ProvenanceCachedValid {
		t.Fatalf("expected CACHED_VALID on fresh hit, got %s", second.Provenance)
	}
	if second.Details.Name != first.Details.Name {
		t.Fatalf("expected cached details to match, got %+v", second.Details)
	}
	if len(next.LookupCalls) != 1 {
		t.Fatalf("expected exactly 1 upstream lookup, got %d", len(next.LookupCalls))
	}
}

func TestCachedClient_StaleHitDowngradesToStaleLive(t *testing.T) {
	next := NewMockClient()
	// Zero freshness window: any hit is already past it.
	c := NewCachedClient(next, 0, 24*time.Hour, zap.NewNop())
	ctx := context.Background()
	rec := cachedTestRecord()

	if _, err := c.Lookup(ctx, rec); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	second, err := c.Lookup(ctx, rec)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if second.Provenance != domain.ProvenanceStaleLive {
		t.Fatalf("expected STALE_LIVE past the freshness window, got %s", second.Provenance)
	}
	if len(next.LookupCalls) != 1 {
		t.Fatalf("expected exactly 1 upstream lookup, got %d", len(next.LookupCalls))
	}
}

func TestCachedClient_InvalidIdentifierBypassesCache(t *testing.T) {
	next := NewMockClient()
	c := NewCachedClient(next, time.Hour, 24*time.Hour, zap.NewNop())
	ctx := context.Background()
	rec := domain.ProviderRecord{Identifier: "bad", Name: "Dr. A", Address: "somewhere"}

	for i := 0; i < 2; i++ {
		if _, err := c.Lookup(ctx, rec); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}
	if len(next.LookupCalls) != 2 {
		t.Fatalf("expected every lookup to pass through, got %d calls", len(next.LookupCalls))
	}
}

func TestCachedClient_DegradedEvidenceNotCached(t *testing.T) {
	next := NewMockClient()
	next.Response = &domain.EvidenceRecord{
		Provenance: domain.ProvenanceSimulation,
		Details:    domain.EvidenceDetails{LicenseStatus: domain.LicenseNotFound},
	}
	c := NewCachedClient(next, time.Hour, 24*time.Hour, zap.NewNop())
	ctx := context.Background()
	rec := cachedTestRecord()

	for i := 0; i < 2; i++ {
		got, err := c.Lookup(ctx, rec)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got.Provenance != domain.ProvenanceSimulation {
			t.Fatalf("expected SIMULATION passthrough, got %s", got.Provenance)
		}
	}
	if len(next.LookupCalls) != 2 {
		t.Fatalf("expected degraded evidence to skip the cache, got %d calls", len(next.LookupCalls))
	}
}

func TestCachedClient_FlushForcesLiveLookup(t *testing.T) {
	next := NewMockClient()
	c := NewCachedClient(next, time.Hour, 24*time.Hour, zap.NewNop())
	ctx := context.Background()
	rec := cachedTestRecord()

	if _, err := c.Lookup(ctx, rec); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	c.Flush()

	got, err := c.Lookup(ctx, rec)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.Provenance != domain.ProvenanceLiveAPI {
		t.Fatalf("expected LIVE_API after flush, got %s", got.Provenance)
	}
	if len(next.LookupCalls) != 2 {
		t.Fatalf("expected 2 upstream lookups, got %d", len(next.LookupCalls))
	}
}
