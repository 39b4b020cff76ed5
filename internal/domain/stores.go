package domain

import (
	"context"

	"github.com/google/uuid"
)

type ProviderStore interface {
	Create(ctx context.Context, p *ProviderState) error
	GetByID(ctx context.Context, id uuid.UUID) (*ProviderState, error)
	List(ctx context.Context) ([]ProviderState, error)
	UpdateState(ctx context.Context, id uuid.UUID, patch StatePatch) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// RegistryClient acquires evidence for a claim. Operational failures
// (outages, degraded mode) must surface as SIMULATION provenance in the
// returned record, never as an error; the error return is reserved for
// programming mistakes such as a nil context.
type RegistryClient interface {
	Lookup(ctx context.Context, rec ProviderRecord) (*EvidenceRecord, error)
}

// EnrichmentClient generates display text from verified evidence details
// only. Callers substitute placeholder text on error.
type EnrichmentClient interface {
	Enrich(ctx context.Context, details EvidenceDetails) (*Enrichment, error)
}
