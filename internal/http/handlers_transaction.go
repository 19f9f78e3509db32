package http

import (
	"net/http"

	"xpense/internal/core"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	skip, limit, err := parsePagination(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}
	filter, err := parseTransactionFilter(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}

	transactions, total, err := s.transactions.List(r.Context(), user.ID, filter, skip, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writePage(w, transactions, total, skip, limit)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	var in core.TransactionInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	tx, err := s.transactions.Create(r.Context(), user.ID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, tx)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	tx, err := s.transactions.Get(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, tx)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	var patch core.TransactionPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}

	tx, err := s.transactions.Update(r.Context(), user.ID, r.PathValue("id"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, tx)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	var req struct {
		TransactionID string `json:"transaction_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.transactions.Delete(r.Context(), user.ID, req.TransactionID); err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"detail": "transaction deleted"})
}

func (s *Server) handleTotalExpenses(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	from, to, err := parseDateRange(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}

	totals, err := s.transactions.TotalExpenses(r.Context(), user.ID, from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"total_expenses": totals})
}

func (s *Server) handleCurrentWeek(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	currency := r.URL.Query().Get("currency")
	if currency == "" {
		currency = "USD"
	}

	report, err := s.transactions.CurrentWeek(r.Context(), user.ID, currency)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, report)
}
