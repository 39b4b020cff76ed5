package handlers

import (
	"net/http"

	"github.com/verityhealth/verity/internal/service"
)

type ReportHandler struct {
	providerSvc *service.ProviderService
	reportSvc   *service.ReportService
}

func NewReportHandler(providerSvc *service.ProviderService, reportSvc *service.ReportService) *ReportHandler {
	return &ReportHandler{providerSvc: providerSvc, reportSvc: reportSvc}
}

func (h *ReportHandler) Directory(w http.ResponseWriter, r *http.Request) {
	providers, err := h.providerSvc.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load providers")
		return
	}

	writeJSON(w, http.StatusOK, h.reportSvc.BuildDirectoryReport(providers))
}
