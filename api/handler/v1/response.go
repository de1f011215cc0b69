package v1

import (
	"encoding/json"
	"net/http"

	"github.com/raystack/salt/log"

	"github.com/odpf/meridian/internal/errors"
)

type errorResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(l log.Logger, w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		l.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorResponse{Message: err.Error()})
}
