package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/example/musicschool-scheduler/internal/application"
	"github.com/example/musicschool-scheduler/internal/scheduling"
	"go.uber.org/zap"
)

var (
	errBadRequestBody = errors.New("invalid request body")
	errInvalidWindow  = errors.New("start and end must be valid RFC 3339 timestamps")
)

type responder struct {
	logger *zap.Logger
}

func newResponder(logger *zap.Logger) responder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return responder{logger: logger}
}

type errorResponse struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (r responder) writeJSON(w http.ResponseWriter, status int, payload any) {
	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (r responder) writeError(w http.ResponseWriter, status int, err error) {
	message := http.StatusText(status)
	if err != nil {
		message = err.Error()
	}
	r.writeJSON(w, status, errorResponse{Message: message})
}

// handleServiceError maps application errors onto HTTP statuses: not-found to
// 404, interval and validation problems to 422, everything else to 500.
func (r responder) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, application.ErrNotFound):
		r.writeError(w, http.StatusNotFound, err)
	case errors.Is(err, scheduling.ErrInvalidInterval):
		r.writeError(w, http.StatusUnprocessableEntity, err)
	default:
		var vErr *application.ValidationError
		if errors.As(err, &vErr) {
			r.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
				Message: vErr.Error(),
				Fields:  vErr.FieldErrors,
			})
			return
		}
		r.logger.Error("request failed", zap.Error(err))
		r.writeError(w, http.StatusInternalServerError, errors.New("internal error"))
	}
}
