package http

import (
	"encoding/json"
	"net/http"
	"time"

	"finanzas/internal/core"
	"finanzas/internal/services"
)

type recurringJSON struct {
	ID           string `json:"id"`
	Description  string `json:"description"`
	Amount       string `json:"amount"`
	Frequency    string `json:"frequency"`
	BiweeklyMode string `json:"biweeklyMode,omitempty"`
	NextDue      string `json:"nextDue"`
}

func toRecurringJSON(p core.RecurringPayment) recurringJSON {
	return recurringJSON{
		ID:           p.ID,
		Description:  p.Description,
		Amount:       p.Amount.String(),
		Frequency:    string(p.Frequency),
		BiweeklyMode: string(p.BiweeklyMode),
		NextDue:      p.NextDue.String(),
	}
}

type alertJSON struct {
	recurringJSON
	Status   string `json:"status"`
	DaysDiff int    `json:"daysDiff"`
}

func (s *Server) handleListRecurring(w http.ResponseWriter, r *http.Request) {
	today := core.DateOf(time.Now())
	list := s.scheduler.List()

	out := make([]alertJSON, 0, len(list))
	for _, p := range list {
		c := services.Classify(p, today)
		out = append(out, alertJSON{
			recurringJSON: toRecurringJSON(p),
			Status:        string(c.Status),
			DaysDiff:      c.DaysDiff,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAddRecurring(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Description  string      `json:"description"`
		Amount       json.Number `json:"amount"`
		Frequency    string      `json:"frequency"`
		BiweeklyMode string      `json:"biweeklyMode"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	p, err := s.scheduler.Add(r.Context(), core.RecurringInput{
		Description:  body.Description,
		Amount:       body.Amount.String(),
		Frequency:    core.Frequency(body.Frequency),
		BiweeklyMode: core.BiweeklyMode(body.BiweeklyMode),
	}, core.DateOf(time.Now()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRecurringJSON(p))
}

func (s *Server) handleDeleteRecurring(w http.ResponseWriter, r *http.Request) {
	// Idempotent: deleting an unknown id still returns 204.
	s.scheduler.Delete(r.Context(), r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMarkAsPaid(w http.ResponseWriter, r *http.Request) {
	tx, err := s.scheduler.MarkAsPaid(r.Context(), r.PathValue("id"), core.DateOf(time.Now()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionJSON(tx))
}

func (s *Server) handlePostpone(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Days int `json:"days"`
	}
	if r.ContentLength > 0 {
		if !decodeBody(w, r, &body) {
			return
		}
	}

	p, err := s.scheduler.Postpone(r.Context(), r.PathValue("id"), body.Days)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecurringJSON(p))
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	today := core.DateOf(time.Now())

	out := make([]alertJSON, 0)
	for _, a := range s.scheduler.Alerts(today) {
		out = append(out, alertJSON{
			recurringJSON: toRecurringJSON(a.Payment),
			Status:        string(a.Status),
			DaysDiff:      a.DaysDiff,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
