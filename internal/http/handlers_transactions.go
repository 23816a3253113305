package http

import (
	"encoding/json"
	"net/http"
	"time"

	"finanzas/internal/core"
	"finanzas/internal/services"
)

type transactionJSON struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Amount      string    `json:"amount"`
	Category    string    `json:"category"`
	Date        string    `json:"date"`
	Method      string    `json:"method"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toTransactionJSON(tx core.Transaction) transactionJSON {
	return transactionJSON{
		ID:          tx.ID,
		Type:        string(tx.Kind),
		Description: tx.Description,
		Amount:      tx.Amount.String(),
		Category:    tx.Category,
		Date:        tx.Date.String(),
		Method:      tx.Method,
		CreatedAt:   tx.CreatedAt,
	}
}

type transactionBody struct {
	Type        string      `json:"type"`
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
	Category    string      `json:"category"`
	Date        string      `json:"date"`
	Method      string      `json:"method"`
}

func (b transactionBody) input() core.TransactionInput {
	return core.TransactionInput{
		Kind:        core.Kind(b.Type),
		Description: b.Description,
		Amount:      b.Amount.String(),
		Category:    b.Category,
		Date:        b.Date,
		Method:      b.Method,
	}
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := services.Filter{
		Kind:      core.Kind(q.Get("type")),
		Category:  q.Get("category"),
		YearMonth: q.Get("month"),
	}

	list := s.ledger.List(filter)
	out := make([]transactionJSON, 0, len(list))
	for _, tx := range list {
		out = append(out, toTransactionJSON(tx))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleSubmitTransaction is the form's single entry point: it updates the
// transaction under edit when a session is open, and adds otherwise.
func (s *Server) handleSubmitTransaction(w http.ResponseWriter, r *http.Request) {
	var body transactionBody
	if !decodeBody(w, r, &body) {
		return
	}

	_, editing := s.ledger.EditingID()
	tx, err := s.ledger.Submit(r.Context(), body.input())
	if err != nil {
		writeError(w, r, err)
		return
	}

	status := http.StatusCreated
	if editing {
		status = http.StatusOK
	}
	writeJSON(w, status, toTransactionJSON(tx))
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := s.ledger.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionJSON(tx))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var body transactionBody
	if !decodeBody(w, r, &body) {
		return
	}

	tx, err := s.ledger.Update(r.Context(), r.PathValue("id"), body.input())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionJSON(tx))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	// Idempotent: deleting an unknown id still returns 204.
	s.ledger.Delete(r.Context(), r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBeginEdit(w http.ResponseWriter, r *http.Request) {
	tx, err := s.ledger.BeginEdit(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionJSON(tx))
}

func (s *Server) handleEditState(w http.ResponseWriter, r *http.Request) {
	id, editing := s.ledger.EditingID()
	writeJSON(w, http.StatusOK, map[string]any{
		"editing": editing,
		"id":      id,
	})
}

func (s *Server) handleCancelEdit(w http.ResponseWriter, r *http.Request) {
	s.ledger.CancelEdit()
	w.WriteHeader(http.StatusNoContent)
}
