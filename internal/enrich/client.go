// Package enrich generates display text (bio, education summary) from
// verified evidence details. Enrichment is cosmetic: every caller must
// treat a failure here as non-fatal and substitute placeholder text.
package enrich

import (
	"fmt"

	"github.com/verityhealth/verity/internal/domain"
)

// Provider constants
const (
	ProviderOpenAI = "openai"
	ProviderMock   = "mock"
)

// NewClient creates an enrichment client based on the provider name.
// Returns an error if the provider is unknown or the API key is empty
// (except for mock).
func NewClient(provider, apiKey string) (domain.EnrichmentClient, error) {
	switch provider {
	case ProviderOpenAI:
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for OpenAI provider")
		}
		return NewOpenAIClient(apiKey), nil

	case ProviderMock:
		return NewMockClient(), nil

	default:
		return nil, fmt.Errorf("unknown enrichment provider: %s (valid options: openai, mock)", provider)
	}
}

// Placeholder text persisted when enrichment fails or returns nothing.
const (
	PlaceholderBio       = "Bio unavailable."
	PlaceholderEducation = "Education data unavailable."
)
