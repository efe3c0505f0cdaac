package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"fedcat/internal/domain"
)

// ListProjects returns a page of projects.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	items, total, err := h.catalog.ListProjects(r.Context(), page)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	data := make([]Project, len(items))
	for i, p := range items {
		data[i] = projectToAPI(p)
	}
	writeJSON(w, http.StatusOK, ProjectList{
		Projects:      data,
		NextPageToken: domain.NextPageToken(page.Offset(), page.Limit(), total),
		TotalCount:    total,
	})
}

// CreateProject creates a project.
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	p, err := h.catalog.CreateProject(r.Context(), req.Name, req.Comment)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, projectToAPI(*p))
}

// GetProject returns one project.
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.GetProject(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projectToAPI(*p))
}

// DropProject deletes a project and its objects.
func (h *Handler) DropProject(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DropProject(r.Context(), chi.URLParam(r, "name")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListProjectObjects returns the objects of a project.
func (h *Handler) ListProjectObjects(w http.ResponseWriter, r *http.Request) {
	objects, err := h.catalog.ListProjectObjects(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	data := make([]ProjectObject, len(objects))
	for i, o := range objects {
		data[i] = projectObjectToAPI(o)
	}
	writeJSON(w, http.StatusOK, ProjectObjectList{Objects: data})
}

// AddProjectObject adds an object to a project.
func (h *Handler) AddProjectObject(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateProjectObjectRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	o, err := h.catalog.AddProjectObject(r.Context(), chi.URLParam(r, "name"), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, projectObjectToAPI(*o))
}
