package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/leonardovida/duckdb-reflect/internal/errs"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the unified error kinds onto HTTP statuses. Causes are
// not echoed to clients; the message alone is.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	kind := errs.ErrKindUnknown

	var e *errs.Error
	if errors.As(err, &e) {
		kind = e.Kind
		switch e.Kind {
		case errs.ErrKindNotFound:
			status = http.StatusNotFound
		case errs.ErrKindParse, errs.ErrKindInvalidInput:
			status = http.StatusBadRequest
		case errs.ErrKindUnsupported:
			status = http.StatusNotImplemented
		case errs.ErrKindTimeout:
			status = http.StatusGatewayTimeout
		case errs.ErrKindPermissionDenied:
			status = http.StatusForbidden
		}
	}

	msg := err.Error()
	if e != nil {
		msg = e.Message
	}
	writeJSON(w, status, errorResponse{Error: msg, Kind: kind.String()})
}
