package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"fedcat/internal/domain"
)

// ListIntegrations returns a page of integrations.
func (h *Handler) ListIntegrations(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	items, total, err := h.catalog.ListIntegrations(r.Context(), page)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	data := make([]Integration, len(items))
	for i, in := range items {
		data[i] = integrationToAPI(in)
	}
	writeJSON(w, http.StatusOK, IntegrationList{
		Integrations:  data,
		NextPageToken: domain.NextPageToken(page.Offset(), page.Limit(), total),
		TotalCount:    total,
	})
}

// AddIntegration registers an integration.
func (h *Handler) AddIntegration(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateIntegrationRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	in, err := h.catalog.AddIntegration(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, integrationToAPI(*in))
}

// GetIntegration returns one integration.
func (h *Handler) GetIntegration(w http.ResponseWriter, r *http.Request) {
	in, err := h.catalog.GetIntegration(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, integrationToAPI(*in))
}

// RemoveIntegration deletes an integration.
func (h *Handler) RemoveIntegration(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.RemoveIntegration(r.Context(), chi.URLParam(r, "name")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CheckIntegrations pings every integration. The response is 200 when all
// are reachable and 503 otherwise.
func (h *Handler) CheckIntegrations(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.catalog.CheckIntegrations(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	healthy := true
	for _, st := range statuses {
		if !st.OK {
			healthy = false
		}
	}
	if statuses == nil {
		statuses = []domain.IntegrationStatus{}
	}
	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, IntegrationHealth{Integrations: statuses, Healthy: healthy})
}
