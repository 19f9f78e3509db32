package http

import (
	"net/http"

	"xpense/internal/core"
)

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
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

	accounts, total, err := s.accounts.List(r.Context(), user.ID, active, skip, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writePage(w, accounts, total, skip, limit)
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	var in core.AccountInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	account, err := s.accounts.Create(r.Context(), user.ID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, account)
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	account, err := s.accounts.Get(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, account)
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	var patch core.AccountPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}

	account, err := s.accounts.Update(r.Context(), user.ID, r.PathValue("id"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, account)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	var req struct {
		AccountID string `json:"account_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.accounts.Delete(r.Context(), user.ID, req.AccountID); err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"detail": "account deleted"})
}
