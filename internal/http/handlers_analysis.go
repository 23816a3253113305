package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"finanzas/internal/core"
	"finanzas/internal/services"
)

type groupJSON struct {
	Key   string `json:"key"`
	Total string `json:"total"`
	Count int    `json:"count"`
}

func toGroupsJSON(groups []services.GroupTotal) []groupJSON {
	out := make([]groupJSON, 0, len(groups))
	for _, g := range groups {
		out = append(out, groupJSON{Key: g.Key, Total: g.Total.String(), Count: g.Count})
	}
	return out
}

func (s *Server) handleTotals(w http.ResponseWriter, r *http.Request) {
	t := s.analytics.Totals()
	writeJSON(w, http.StatusOK, map[string]string{
		"income":   t.Income.String(),
		"expenses": t.Expenses.String(),
		"balance":  t.Balance.String(),
	})
}

func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	today := core.DateOf(time.Now())
	yearMonth := r.URL.Query().Get("month")
	if yearMonth == "" {
		yearMonth = today.YearMonth()
	}
	if _, err := core.ParseDate(yearMonth + "-01"); err != nil {
		badRequest(w, "month must be YYYY-MM")
		return
	}

	report := s.analytics.Monthly(yearMonth, today)
	writeJSON(w, http.StatusOK, map[string]any{
		"month":              report.YearMonth,
		"income":             report.Income.String(),
		"expenses":           report.Expenses.String(),
		"balance":            report.Balance.String(),
		"transactionCount":   report.TransactionCount,
		"topExpenseCategory": report.TopExpenseCategory,
		"dailyAverage":       report.DailyAverage.StringFixed(2),
	})
}

func (s *Server) handleByCategory(w http.ResponseWriter, r *http.Request) {
	kind := core.Kind(r.URL.Query().Get("type"))
	if kind == "" {
		kind = core.Expense
	}
	if !kind.Valid() {
		badRequest(w, "type must be income or expense")
		return
	}
	writeJSON(w, http.StatusOK, toGroupsJSON(s.analytics.ByCategory(kind)))
}

func (s *Server) handleByMethod(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toGroupsJSON(s.analytics.ByMethod()))
}

func (s *Server) handleSavingsProgress(w http.ResponseWriter, r *http.Request) {
	p := s.analytics.SavingsProgress(core.DateOf(time.Now()))
	writeJSON(w, http.StatusOK, map[string]any{
		"hasGoal":     p.HasGoal,
		"goal":        p.Goal.String(),
		"balance":     p.Balance.String(),
		"percent":     p.Percent.StringFixed(2),
		"reachedGoal": p.ReachedGoal,
	})
}

func (s *Server) handleTopExpenses(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			badRequest(w, "limit must be a positive integer")
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, toGroupsJSON(s.analytics.TopExpenseDescriptions(limit)))
}

func (s *Server) handleGetSavingsGoal(w http.ResponseWriter, r *http.Request) {
	goal := s.ledger.SavingsGoal()
	writeJSON(w, http.StatusOK, map[string]any{
		"goal":    goal.String(),
		"hasGoal": goal.Cents > 0,
	})
}

func (s *Server) handleSetSavingsGoal(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Amount json.Number `json:"amount"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	goal, err := s.ledger.SetSavingsGoal(r.Context(), body.Amount.String())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"goal": goal.String()})
}

func (s *Server) handleClearSavingsGoal(w http.ResponseWriter, r *http.Request) {
	s.ledger.ClearSavingsGoal(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
