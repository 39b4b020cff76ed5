// Package registry implements the evidence acquisition adapter: it turns a
// provider claim into a provenance-tagged evidence record. The core never
// inspects how a client obtained its data; only the provenance tag and the
// detail fields feed scoring.
package registry

import (
	"fmt"

	"github.com/verityhealth/verity/internal/domain"
	"go.uber.org/zap"
)

// Provider constants
const (
	ProviderSimulated = "simulated"
	ProviderMock      = "mock"
)

// NewClient creates a registry client based on the provider name.
func NewClient(provider string, logger *zap.Logger) (domain.RegistryClient, error) {
	switch provider {
	case ProviderSimulated:
		return NewSimulatedClient(logger), nil
	case ProviderMock:
		return NewMockClient(), nil
	default:
		return nil, fmt.Errorf("unknown registry provider: %s (valid options: simulated, mock)", provider)
	}
}
