package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/verityhealth/verity/internal/domain"
	"github.com/verityhealth/verity/internal/store"
	"go.uber.org/zap"
)

// mockProviderStore is an in-memory domain.ProviderStore shared by the
// service tests.
type mockProviderStore struct {
	mu        sync.Mutex
	states    map[uuid.UUID]*domain.ProviderState
	order     []uuid.UUID
	updateErr error
}

func newMockProviderStore() *mockProviderStore {
	return &mockProviderStore{states: make(map[uuid.UUID]*domain.ProviderState)}
}

func (s *mockProviderStore) Create(ctx context.Context, p *domain.ProviderState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	p.CreatedAt = now
	p.LastUpdated = now
	cp := *p
	s.states[p.ID] = &cp
	s.order = append(s.order, p.ID)
	return nil
}

func (s *mockProviderStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProviderState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.states[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *mockProviderStore) List(ctx context.Context) ([]domain.ProviderState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.ProviderState, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.states[id])
	}
	return out, nil
}

func (s *mockProviderStore) UpdateState(ctx context.Context, id uuid.UUID, patch domain.StatePatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.updateErr != nil {
		return s.updateErr
	}
	p, ok := s.states[id]
	if !ok {
		return store.ErrNotFound
	}

	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.SecurityCheck != nil {
		p.SecurityCheck = patch.SecurityCheck
	}
	if patch.AddressVerification != nil {
		p.AddressVerification = patch.AddressVerification
	}
	if patch.Evidence != nil {
		p.Evidence = patch.Evidence
	}
	if patch.Scoring != nil {
		p.Scoring = patch.Scoring
	}
	if patch.Enrichment != nil {
		p.Enrichment = patch.Enrichment
	}
	if patch.AuditLog != nil {
		p.AuditLog = patch.AuditLog
	}
	p.LastUpdated = time.Now().UTC()
	return nil
}

func (s *mockProviderStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.states[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.states, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func TestProviderService_Submit(t *testing.T) {
	mockStore := newMockProviderStore()
	svc := NewProviderService(mockStore, zap.NewNop())

	state, err := svc.Submit(context.Background(), domain.ProviderRecord{
		Identifier: "1487000001",
		Name:       "Dr. Ananya Sharma",
		Address:    "12, MG Road, Bengaluru, Karnataka 560001",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if state.ID == uuid.Nil {
		t.Fatal("expected ID to be assigned")
	}
	if state.Status != domain.StatusProcessing {
		t.Fatalf("expected Processing, got %s", state.Status)
	}
	if len(mockStore.states) != 1 {
		t.Fatalf("expected 1 record in store, got %d", len(mockStore.states))
	}
}

func TestProviderService_Submit_NameRequired(t *testing.T) {
	svc := NewProviderService(newMockProviderStore(), zap.NewNop())

	_, err := svc.Submit(context.Background(), domain.ProviderRecord{
		Name:    "   ",
		Address: "somewhere",
	})
	if err != ErrNameRequired {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
}

func TestProviderService_Submit_AddressRequired(t *testing.T) {
	svc := NewProviderService(newMockProviderStore(), zap.NewNop())

	_, err := svc.Submit(context.Background(), domain.ProviderRecord{
		Name: "Dr. Ananya Sharma",
	})
	if err != ErrAddressRequired {
		t.Fatalf("expected ErrAddressRequired, got %v", err)
	}
}

func TestProviderService_Submit_IdentifierIsPermissive(t *testing.T) {
	svc := NewProviderService(newMockProviderStore(), zap.NewNop())

	// A missing identifier is not rejected at the boundary; it flows
	// through the pipeline as an unverifiable claim.
	state, err := svc.Submit(context.Background(), domain.ProviderRecord{
		Name:    "Dr. Ananya Sharma",
		Address: "12, MG Road, Bengaluru, Karnataka 560001",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if state.Record.Identifier != "" {
		t.Fatalf("expected identifier preserved as empty, got %q", state.Record.Identifier)
	}
}

func TestProviderService_GetByID_NotFound(t *testing.T) {
	svc := NewProviderService(newMockProviderStore(), zap.NewNop())

	_, err := svc.GetByID(context.Background(), uuid.New())
	if err != ErrProviderNotFound {
		t.Fatalf("expected ErrProviderNotFound, got %v", err)
	}
}

func TestProviderService_List(t *testing.T) {
	mockStore := newMockProviderStore()
	svc := NewProviderService(mockStore, zap.NewNop())
	ctx := context.Background()

	for _, name := range []string{"Dr. A", "Dr. B", "Dr. C"} {
		if _, err := svc.Submit(ctx, domain.ProviderRecord{Name: name, Address: "somewhere"}); err != nil {
			t.Fatalf("submit %s: %v", name, err)
		}
	}

	got, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 providers, got %d", len(got))
	}
	if got[0].Record.Name != "Dr. A" {
		t.Fatalf("expected insertion order preserved, got %s first", got[0].Record.Name)
	}
}
