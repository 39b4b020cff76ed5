package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/verityhealth/verity/internal/domain"
	"github.com/verityhealth/verity/internal/store"
	"go.uber.org/zap"
)

var (
	ErrProviderNotFound = errors.New("provider not found")
	ErrNameRequired     = errors.New("name is required")
	ErrAddressRequired  = errors.New("address is required")
)

// ProviderService owns provider record lifecycle outside the workflow:
// submission validation, retrieval, listing.
type ProviderService struct {
	store  domain.ProviderStore
	logger *zap.Logger
}

func NewProviderService(store domain.ProviderStore, logger *zap.Logger) *ProviderService {
	return &ProviderService{store: store, logger: logger}
}

// Submit validates a claim at the boundary and persists the initial
// Processing state. Malformed input fails here; it is never silently
// defaulted into the pipeline. A missing or malformed identifier is
// allowed: identifier-less claims flow through as USER_INPUT evidence.
func (s *ProviderService) Submit(ctx context.Context, rec domain.ProviderRecord) (*domain.ProviderState, error) {
	if strings.TrimSpace(rec.Name) == "" {
		return nil, ErrNameRequired
	}
	if strings.TrimSpace(rec.Address) == "" {
		return nil, ErrAddressRequired
	}

	state := &domain.ProviderState{
		ID:     uuid.New(),
		Record: rec,
		Status: domain.StatusProcessing,
	}
	if err := s.store.Create(ctx, state); err != nil {
		return nil, fmt.Errorf("create provider: %w", err)
	}

	s.logger.Info("provider submitted",
		zap.String("provider_id", state.ID.String()),
		zap.String("input_source", rec.InputSource))

	return state, nil
}

func (s *ProviderService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProviderState, error) {
	state, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProviderNotFound
		}
		return nil, err
	}
	return state, nil
}

func (s *ProviderService) List(ctx context.Context) ([]domain.ProviderState, error) {
	return s.store.List(ctx)
}
