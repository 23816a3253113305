package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"finanzas/internal/core"
	"finanzas/internal/storage"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

type errorBody struct {
	Error  string            `json:"error"`
	Detail string            `json:"detail,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// writeError maps domain errors onto HTTP statuses: validation problems are
// 422 with a per-field breakdown, malformed imports are 400, missing records
// 404, and storage failures 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr *core.ValidationError
		nf   *core.NotFoundError
		iv   *storage.ImportValidationError
		pe   *core.PersistenceError
	)

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{
			Error:  "validation",
			Fields: verr.Fields,
		})
	case errors.As(err, &iv):
		writeJSON(w, http.StatusBadRequest, errorBody{
			Error:  "invalid_import",
			Detail: iv.Error(),
		})
	case errors.As(err, &nf):
		writeJSON(w, http.StatusNotFound, errorBody{
			Error:  "not_found",
			Detail: nf.Error(),
		})
	case errors.As(err, &pe):
		slog.ErrorContext(r.Context(), "Persistence failure", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "persistence"})
	default:
		slog.ErrorContext(r.Context(), "Unhandled error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal"})
	}
}

func badRequest(w http.ResponseWriter, detail string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad_request", Detail: detail})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		badRequest(w, "malformed JSON body: "+err.Error())
		return false
	}
	return true
}
