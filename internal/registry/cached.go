package registry

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/verityhealth/verity/internal/domain"
	"go.uber.org/zap"
)

type cachedEvidence struct {
	record   domain.EvidenceRecord
	storedAt time.Time
}

// CachedClient wraps a registry client with an in-memory evidence cache.
// Cache hits are never silently upgraded: a fresh hit is downgraded to
// CACHED_VALID provenance and a hit past the freshness window to
// STALE_LIVE, so scoring always discounts cached evidence appropriately.
// Only LIVE_API results are cached; degraded evidence is not worth keeping.
type CachedClient struct {
	next     domain.RegistryClient
	cache    *gocache.Cache
	freshTTL time.Duration
	logger   *zap.Logger
}

// NewCachedClient creates a caching wrapper. Entries fresher than freshTTL
// are served as CACHED_VALID; entries between freshTTL and staleTTL as
// STALE_LIVE; entries older than staleTTL are evicted and re-fetched.
func NewCachedClient(next domain.RegistryClient, freshTTL, staleTTL time.Duration, logger *zap.Logger) *CachedClient {
	return &CachedClient{
		next:     next,
		cache:    gocache.New(staleTTL, staleTTL),
		freshTTL: freshTTL,
		logger:   logger,
	}
}

func (c *CachedClient) Lookup(ctx context.Context, rec domain.ProviderRecord) (*domain.EvidenceRecord, error) {
	// An invalid identifier never hits the registry, so there is nothing
	// to cache either.
	if !domain.ValidIdentifier(rec.Identifier) {
		return c.next.Lookup(ctx, rec)
	}

	if v, ok := c.cache.Get(rec.Identifier); ok {
		entry := v.(cachedEvidence)
		hit := entry.record
		age := time.Since(entry.storedAt)
		if age <= c.freshTTL {
			hit.Provenance = domain.ProvenanceCachedValid
		} else {
			hit.Provenance = domain.ProvenanceStaleLive
		}
		c.logger.Debug("registry cache hit",
			zap.String("identifier", rec.Identifier),
			zap.Duration("age", age),
			zap.String("provenance", string(hit.Provenance)))
		return &hit, nil
	}

	evidence, err := c.next.Lookup(ctx, rec)
	if err != nil {
		return nil, err
	}

	if evidence.Provenance == domain.ProvenanceLiveAPI {
		c.cache.Set(rec.Identifier, cachedEvidence{record: *evidence, storedAt: time.Now()}, gocache.DefaultExpiration)
	}
	return evidence, nil
}

// Flush drops all cached evidence. Used by reverification, which must
// consult the live source.
func (c *CachedClient) Flush() {
	c.cache.Flush()
}
