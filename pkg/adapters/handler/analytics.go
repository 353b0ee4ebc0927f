package handler

import (
	"net/http"

	"github.com/wadjakorntonsri/linkbio/pkg/core/services"
	"github.com/wadjakorntonsri/linkbio/pkg/ports"
)

type AnalyticsHandler struct {
	service ports.AnalyticsService
}

func NewAnalyticsHandler(service ports.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// Summary serves the dashboard: totals, daily series and top links
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	q := r.URL.Query()
	dr, err := services.ParseDateRange(q.Get("startDate"), q.Get("endDate"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	summary, err := h.service.Summary(r.Context(), userID, dr)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// Link serves the event history of one owned link
func (h *AnalyticsHandler) Link(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	q := r.URL.Query()
	dr, err := services.ParseDateRange(q.Get("startDate"), q.Get("endDate"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	detail, err := h.service.LinkDetail(r.Context(), userID, r.PathValue("linkId"), dr)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}
