package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/verityhealth/verity/internal/domain"
	"github.com/verityhealth/verity/internal/enrich"
	"github.com/verityhealth/verity/internal/registry"
	"github.com/verityhealth/verity/internal/service"
	"github.com/verityhealth/verity/internal/store"
	"github.com/verityhealth/verity/internal/verify"
	"go.uber.org/zap"
)

type handlerStore struct {
	mu     sync.Mutex
	states map[uuid.UUID]*domain.ProviderState
}

func newHandlerStore() *handlerStore {
	return &handlerStore{states: make(map[uuid.UUID]*domain.ProviderState)}
}

func (s *handlerStore) Create(ctx context.Context, p *domain.ProviderState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.CreatedAt = time.Now().UTC()
	p.LastUpdated = p.CreatedAt
	cp := *p
	s.states[p.ID] = &cp
	return nil
}

func (s *handlerStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProviderState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.states[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *handlerStore) List(ctx context.Context) ([]domain.ProviderState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ProviderState, 0, len(s.states))
	for _, p := range s.states {
		out = append(out, *p)
	}
	return out, nil
}

func (s *handlerStore) UpdateState(ctx context.Context, id uuid.UUID, patch domain.StatePatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.states[id]
	if !ok {
		return store.ErrNotFound
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	p.LastUpdated = time.Now().UTC()
	return nil
}

func (s *handlerStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, id)
	return nil
}

func setupProviderHandler() (*chi.Mux, *handlerStore) {
	providerStore := newHandlerStore()
	logger := zap.NewNop()

	providerSvc := service.NewProviderService(providerStore, logger)
	workflowSvc := service.NewWorkflowService(providerStore, registry.NewMockClient(), enrich.NewMockClient(), verify.NewScorer(), logger)
	h := NewProviderHandler(providerSvc, workflowSvc, logger)

	r := chi.NewRouter()
	r.Post("/v1/providers", h.Submit)
	r.Get("/v1/providers", h.List)
	r.Get("/v1/providers/{id}", h.GetByID)
	r.Post("/v1/providers/{id}/reverify", h.Reverify)
	return r, providerStore
}

func TestProviderHandler_Submit(t *testing.T) {
	r, _ := setupProviderHandler()

	body, _ := json.Marshal(map[string]any{
		"identifier": "1487000001",
		"name":       "Dr. Ananya Sharma",
		"address":    "12, MG Road, Bengaluru, Karnataka 560001",
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/providers", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		ID     uuid.UUID             `json:"id"`
		Status domain.WorkflowStatus `json:"status"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID == uuid.Nil {
		t.Fatal("expected an assigned id")
	}
	if resp.Status != domain.StatusProcessing {
		t.Fatalf("expected Processing, got %s", resp.Status)
	}
}

func TestProviderHandler_Submit_InvalidBody(t *testing.T) {
	r, _ := setupProviderHandler()

	req := httptest.NewRequest(http.MethodPost, "/v1/providers", bytes.NewReader([]byte("{not json")))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestProviderHandler_Submit_MissingName(t *testing.T) {
	r, _ := setupProviderHandler()

	body, _ := json.Marshal(map[string]any{"address": "somewhere"})
	req := httptest.NewRequest(http.MethodPost, "/v1/providers", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestProviderHandler_GetByID(t *testing.T) {
	r, providerStore := setupProviderHandler()

	state := &domain.ProviderState{
		ID:     uuid.New(),
		Record: domain.ProviderRecord{Name: "Dr. A", Address: "somewhere"},
		Status: domain.StatusReady,
	}
	_ = providerStore.Create(context.Background(), state)

	req := httptest.NewRequest(http.MethodGet, "/v1/providers/"+state.ID.String(), nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var got domain.ProviderState
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.ID != state.ID || got.Status != domain.StatusReady {
		t.Fatalf("unexpected state %+v", got)
	}
}

func TestProviderHandler_GetByID_NotFound(t *testing.T) {
	r, _ := setupProviderHandler()

	req := httptest.NewRequest(http.MethodGet, "/v1/providers/"+uuid.New().String(), nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestProviderHandler_GetByID_BadID(t *testing.T) {
	r, _ := setupProviderHandler()

	req := httptest.NewRequest(http.MethodGet, "/v1/providers/not-a-uuid", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestProviderHandler_List_Empty(t *testing.T) {
	r, _ := setupProviderHandler()

	req := httptest.NewRequest(http.MethodGet, "/v1/providers", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp struct {
		Providers []domain.ProviderState `json:"providers"`
		Count     int                    `json:"count"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Count != 0 || resp.Providers == nil {
		t.Fatalf("expected empty list, got %+v", resp)
	}
}

func TestProviderHandler_Reverify_Conflict(t *testing.T) {
	r, providerStore := setupProviderHandler()

	state := &domain.ProviderState{
		ID:     uuid.New(),
		Record: domain.ProviderRecord{Name: "Dr. A", Address: "somewhere"},
		Status: domain.StatusProcessing,
	}
	_ = providerStore.Create(context.Background(), state)

	req := httptest.NewRequest(http.MethodPost, "/v1/providers/"+state.ID.String()+"/reverify", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 while processing, got %d", rr.Code)
	}
}

func TestProviderHandler_Reverify(t *testing.T) {
	r, providerStore := setupProviderHandler()

	state := &domain.ProviderState{
		ID:     uuid.New(),
		Record: domain.ProviderRecord{Name: "Dr. A", Address: "somewhere"},
		Status: domain.StatusFlagged,
	}
	_ = providerStore.Create(context.Background(), state)

	req := httptest.NewRequest(http.MethodPost, "/v1/providers/"+state.ID.String()+"/reverify", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rr.Code, rr.Body.String())
	}
}
