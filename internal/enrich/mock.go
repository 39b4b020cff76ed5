package enrich

import (
	"context"
	"time"

	"github.com/verityhealth/verity/internal/domain"
)

// MockClient is a configurable enrichment client for testing. Set the
// response fields to control what Enrich returns.
type MockClient struct {
	EnrichResponse *domain.Enrichment
	EnrichError    error

	// Call tracking for assertions
	EnrichCalls []domain.EvidenceDetails
}

func NewMockClient() *MockClient {
	return &MockClient{
		EnrichResponse: &domain.Enrichment{
			Bio:              "Mock bio",
			EducationSummary: "Mock education summary",
			GeneratedAt:      time.Unix(0, 0).UTC(),
		},
	}
}

func (m *MockClient) Enrich(ctx context.Context, details domain.EvidenceDetails) (*domain.Enrichment, error) {
	m.EnrichCalls = append(m.EnrichCalls, details)

	if m.EnrichError != nil {
		return nil, m.EnrichError
	}
	resp := *m.EnrichResponse
	return &resp, nil
}
