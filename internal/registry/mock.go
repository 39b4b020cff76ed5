package registry

import (
	"context"
	"time"

	"github.com/verityhealth/verity/internal/domain"
)

// MockClient is a configurable registry client for testing. Set Response
// or ResponseFunc to control what Lookup returns; calls are recorded for
// assertions.
type MockClient struct {
	Response     *domain.EvidenceRecord
	ResponseFunc func(rec domain.ProviderRecord) *domain.EvidenceRecord
	Err          error

	// Call tracking for assertions
	LookupCalls []domain.ProviderRecord
}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Lookup(ctx context.Context, rec domain.ProviderRecord) (*domain.EvidenceRecord, error) {
	m.LookupCalls = append(m.LookupCalls, rec)

	if m.Err != nil {
		return nil, m.Err
	}
	if m.ResponseFunc != nil {
		return m.ResponseFunc(rec), nil
	}
	if m.Response != nil {
		resp := *m.Response
		return &resp, nil
	}

	// Default: echo the claim as live, active evidence.
	return &domain.EvidenceRecord{
		Provenance: domain.ProvenanceLiveAPI,
		ObservedAt: time.Unix(0, 0).UTC(),
		Details: domain.EvidenceDetails{
			Identifier:    rec.Identifier,
			Name:          rec.Name,
			Address:       rec.Address,
			LicenseStatus: domain.LicenseActive,
			Specialties:   []string{"General Practice"},
		},
	}, nil
}
