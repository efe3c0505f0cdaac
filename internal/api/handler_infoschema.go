package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"fedcat/internal/infoschema"
)

// ListVirtualTables returns the registry, the SHOW TABLES of
// information_schema.
func (h *Handler) ListVirtualTables(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]infoschema.TableInfo{"tables": h.infoSchema.Info()})
}

// QueryVirtualTable materializes one virtual table. The optional where
// parameter is a SQL boolean expression used for scope pushdown.
func (h *Handler) QueryVirtualTable(w http.ResponseWriter, r *http.Request) {
	where, err := infoschema.ParseWhere(r.URL.Query().Get("where"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	rs, err := h.infoSchema.Query(r.Context(), chi.URLParam(r, "name"), where)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rs)
}

// ExecuteQuery runs a single-table SELECT against information_schema.
func (h *Handler) ExecuteQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.SQL) == "" {
		h.writeBadRequest(w, "sql is required")
		return
	}
	rs, err := h.infoSchema.Execute(r.Context(), req.SQL)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rs)
}
