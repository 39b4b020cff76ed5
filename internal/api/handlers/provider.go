package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/verityhealth/verity/internal/domain"
	"github.com/verityhealth/verity/internal/service"
	"go.uber.org/zap"
)

type ProviderHandler struct {
	svc      *service.ProviderService
	workflow *service.WorkflowService
	logger   *zap.Logger
}

func NewProviderHandler(svc *service.ProviderService, workflow *service.WorkflowService, logger *zap.Logger) *ProviderHandler {
	return &ProviderHandler{svc: svc, workflow: workflow, logger: logger}
}

type submitProviderRequest struct {
	Identifier  string   `json:"identifier"`
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	InputSource string   `json:"input_source,omitempty"`
	Specialties []string `json:"specialties,omitempty"`
}

type submitProviderResponse struct {
	ID     uuid.UUID             `json:"id"`
	Status domain.WorkflowStatus `json:"status"`
}

// Submit validates and persists a claim, then kicks off the verification
// workflow in the background. The caller polls GET /v1/providers/{id} for
// the verdict.
func (h *ProviderHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitProviderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec := domain.ProviderRecord{
		Identifier:  req.Identifier,
		Name:        req.Name,
		Address:     req.Address,
		InputSource: req.InputSource,
		Specialties: req.Specialties,
	}

	state, err := h.svc.Submit(r.Context(), rec)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNameRequired),
			errors.Is(err, service.ErrAddressRequired):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to submit provider")
		}
		return
	}

	h.startWorkflow(state.ID, rec)

	writeJSON(w, http.StatusAccepted, submitProviderResponse{
		ID:     state.ID,
		Status: state.Status,
	})
}

func (h *ProviderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid provider id")
		return
	}

	state, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProviderNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get provider")
		return
	}

	writeJSON(w, http.StatusOK, state)
}

type listProvidersResponse struct {
	Providers []domain.ProviderState `json:"providers"`
	Count     int                    `json:"count"`
}

func (h *ProviderHandler) List(w http.ResponseWriter, r *http.Request) {
	providers, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list providers")
		return
	}

	if providers == nil {
		providers = []domain.ProviderState{}
	}

	writeJSON(w, http.StatusOK, listProvidersResponse{
		Providers: providers,
		Count:     len(providers),
	})
}

// Reverify re-runs the workflow over the stored claim. Retries are an
// explicit external action; nothing inside the pipeline retries itself.
func (h *ProviderHandler) Reverify(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid provider id")
		return
	}

	state, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProviderNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get provider")
		return
	}

	if state.Status == domain.StatusProcessing {
		writeError(w, http.StatusConflict, "verification already in progress")
		return
	}

	h.startWorkflow(state.ID, state.Record)

	writeJSON(w, http.StatusAccepted, submitProviderResponse{
		ID:     state.ID,
		Status: domain.StatusProcessing,
	})
}

func (h *ProviderHandler) startWorkflow(id uuid.UUID, rec domain.ProviderRecord) {
	// The run outlives the HTTP request; the workflow owns failure
	// handling end to end.
	go func() {
		if _, err := h.workflow.Run(context.Background(), id, rec); err != nil {
			h.logger.Error("workflow run failed",
				zap.String("provider_id", id.String()),
				zap.Error(err))
		}
	}()
}
