package http

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"finanzas/internal/storage"
)

const maxImportBytes = 10 << 20

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := storage.ExportArchive(s.ledger.Snapshot(), time.Now())
	if err != nil {
		writeError(w, r, err)
		return
	}

	filename := "finanzas-backup-" + time.Now().Format("2006-01-02") + ".json"
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handleImport replaces the whole ledger with the uploaded backup. The
// confirm flag is required because the operation is destructive.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "true" {
		badRequest(w, "import replaces all existing data; pass confirm=true to proceed")
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		badRequest(w, "read body: "+err.Error())
		return
	}

	snap, err := storage.ImportArchive(data)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.ledger.ReplaceAll(r.Context(), snap); err != nil {
		writeError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Archive imported",
		"transactions", len(snap.Transactions),
		"recurring_payments", len(snap.RecurringPayments))

	writeJSON(w, http.StatusOK, map[string]any{
		"transactions":      len(snap.Transactions),
		"recurringPayments": len(snap.RecurringPayments),
	})
}
