package http

import (
	"net/http"

	"xpense/internal/core"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	skip, limit, err := parsePagination(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}
	active, err := parseActiveFlag(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}

	categories, total, err := s.categories.List(r.Context(), user.ID, active, skip, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writePage(w, categories, total, skip, limit)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	var in core.CategoryInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	category, err := s.categories.Create(r.Context(), user.ID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, category)
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	category, err := s.categories.Get(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, category)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	var patch core.CategoryPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}

	category, err := s.categories.Update(r.Context(), user.ID, r.PathValue("id"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, category)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	var req struct {
		CategoryID string `json:"category_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.categories.Delete(r.Context(), user.ID, req.CategoryID); err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"detail": "category deleted"})
}
