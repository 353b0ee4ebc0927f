package handler

import (
	"net/http"

	"github.com/wadjakorntonsri/linkbio/pkg/core/domain"
	"github.com/wadjakorntonsri/linkbio/pkg/ports"
)

type LinkHandler struct {
	service ports.LinkService
}

func NewLinkHandler(service ports.LinkService) *LinkHandler {
	return &LinkHandler{service: service}
}

// CreateLinkRequest payload
type CreateLinkRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Icon  string `json:"icon"`
}

// UpdateLinkRequest payload; omitted fields stay unchanged
type UpdateLinkRequest struct {
	Title    *string `json:"title"`
	URL      *string `json:"url"`
	Icon     *string `json:"icon"`
	Position *int    `json:"position"`
	IsActive *bool   `json:"isActive"`
}

// ReorderLinksRequest payload
type ReorderLinksRequest struct {
	LinkIDs []string `json:"linkIds"`
}

// List the caller's links in display order
func (h *LinkHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	links, err := h.service.List(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, links)
}

// Create Link
func (h *LinkHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req CreateLinkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	link, err := h.service.Create(r.Context(), userID, ports.LinkInput{
		Title: req.Title,
		URL:   req.URL,
		Icon:  req.Icon,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, link)
}

// Update Link
func (h *LinkHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req UpdateLinkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	link, err := h.service.Update(r.Context(), userID, r.PathValue("id"), domain.LinkPatch{
		Title:    req.Title,
		URL:      req.URL,
		Icon:     req.Icon,
		Position: req.Position,
		IsActive: req.IsActive,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, link)
}

// Delete Link
func (h *LinkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	if err := h.service.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Link deleted successfully")
}

// Reorder rewrites positions from the submitted id order
func (h *LinkHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req ReorderLinksRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	links, err := h.service.Reorder(r.Context(), userID, req.LinkIDs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, links)
}

// Click records a visit to the link
func (h *LinkHandler) Click(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	err := h.service.RecordClick(r.Context(), ports.ClickInput{
		LinkID:    r.PathValue("id"),
		UserID:    userID,
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
		Referrer:  r.Referer(),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Click recorded")
}
