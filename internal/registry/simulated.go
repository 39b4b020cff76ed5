package registry

import (
	"context"
	"time"

	"github.com/verityhealth/verity/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Reserved test identifiers. These are documented policy, not a generic
// rule: both pass the 10-digit shape check, so the adapter special-cases
// them to exercise the degraded-trust and fatal-license paths end to end.
const (
	// TestIdentifierSimulation forces SIMULATION provenance.
	TestIdentifierSimulation = "8888888888"
	// TestIdentifierInactive forces a live INACTIVE license result.
	TestIdentifierInactive = "9999999999"
)

// SimulatedClient is a deterministic stand-in for a live registry (NPPES
// or a national equivalent). It echoes the claim back as LIVE_API/ACTIVE
// evidence, with the reserved identifiers above carved out for testing.
// There is deliberately no randomness here: simulated outages belong in
// tests via the mock client, not inside code under test.
type SimulatedClient struct {
	limiter *rate.Limiter
	logger  *zap.Logger
}

func NewSimulatedClient(logger *zap.Logger) *SimulatedClient {
	return &SimulatedClient{
		// Live registries throttle aggressively; mirror that here so the
		// adapter's callers are exercised against backpressure.
		limiter: rate.NewLimiter(rate.Limit(10), 5),
		logger:  logger,
	}
}

func (c *SimulatedClient) Lookup(ctx context.Context, rec domain.ProviderRecord) (*domain.EvidenceRecord, error) {
	// No valid registry identifier means there is nothing to look up.
	// Tag the claim as USER_INPUT and skip the external call entirely.
	if !domain.ValidIdentifier(rec.Identifier) {
		c.logger.Warn("registry lookup skipped: missing/invalid identifier",
			zap.String("identifier", rec.Identifier))
		return &domain.EvidenceRecord{
			Provenance: domain.ProvenanceUserInput,
			ObservedAt: time.Now().UTC(),
			Details: domain.EvidenceDetails{
				Identifier:    rec.Identifier,
				Name:          rec.Name,
				Address:       rec.Address,
				LicenseStatus: domain.LicenseError,
				Specialties:   []string{},
			},
		}, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		// The run was cancelled mid-wait; degrade to fallback evidence
		// rather than killing the workflow.
		c.logger.Warn("registry throttle wait aborted; using fallback evidence", zap.Error(err))
		return c.fallbackEvidence(rec), nil
	}

	switch rec.Identifier {
	case TestIdentifierSimulation:
		return &domain.EvidenceRecord{
			Provenance: domain.ProvenanceSimulation,
			ObservedAt: time.Now().UTC(),
			Details: domain.EvidenceDetails{
				Identifier:    rec.Identifier,
				Name:          "Dr. Med Trust Test",
				Address:       "123 Simulation Lane, Test City",
				LicenseStatus: domain.LicenseActive,
				Specialties:   []string{"Internal Testing"},
			},
		}, nil

	case TestIdentifierInactive:
		return &domain.EvidenceRecord{
			Provenance: domain.ProvenanceLiveAPI,
			ObservedAt: time.Now().UTC(),
			Details: domain.EvidenceDetails{
				Identifier:    rec.Identifier,
				Name:          "TEST PROVIDER - DO NOT USE",
				Address:       "INVALID ADDRESS",
				LicenseStatus: domain.LicenseInactive,
				Specialties:   []string{},
			},
		}, nil
	}

	return &domain.EvidenceRecord{
		Provenance: domain.ProvenanceLiveAPI,
		ObservedAt: time.Now().UTC(),
		Details: domain.EvidenceDetails{
			Identifier:    rec.Identifier,
			Name:          rec.Name,
			Address:       rec.Address,
			LicenseStatus: domain.LicenseActive,
			Specialties:   []string{"General Practice"},
		},
	}, nil
}

func (c *SimulatedClient) fallbackEvidence(rec domain.ProviderRecord) *domain.EvidenceRecord {
	specialties := rec.Specialties
	if specialties == nil {
		specialties = []string{}
	}
	return &domain.EvidenceRecord{
		Provenance: domain.ProvenanceSimulation,
		ObservedAt: time.Now().UTC(),
		Details: domain.EvidenceDetails{
			Identifier:    rec.Identifier,
			Name:          rec.Name,
			Address:       rec.Address,
			LicenseStatus: domain.LicenseNotFound,
			Specialties:   specialties,
		},
	}
}
